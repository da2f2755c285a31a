// internal/models/ticket.go
package models

// Ticket is the create-ticket payload and response envelope of the ticketing platform.
type Ticket struct {
	Ticket TicketBody `json:"ticket"`
}

type TicketBody struct {
	ID         int64           `json:"id,omitempty"`
	Subject    string          `json:"subject"`
	Requester  TicketRequester `json:"requester"`
	Comment    TicketComment   `json:"comment"`
	Tags       []string        `json:"tags,omitempty"`
	ExternalID string          `json:"external_id,omitempty"`
	Status     string          `json:"status,omitempty"`
}

type TicketRequester struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type TicketComment struct {
	Body string `json:"body"`
}
