package createregistrationticket

import (
	"context"
	"time"

	"onboarding-workers/internal/common/logger"
	"onboarding-workers/internal/common/mail"
	"onboarding-workers/internal/common/observability"
	"onboarding-workers/internal/models"
)

type Input struct {
	models.RegistrationRequest
	UserAgent string `json:"userAgent,omitempty"`
}

type Output struct {
	Report           string    `json:"report"`
	TicketCreated    bool      `json:"ticketCreated"`
	FallbackNotified bool      `json:"fallbackNotified"`
	CorrelationID    string    `json:"correlationId"`
	ProcessedAt      time.Time `json:"processedAt"`
}

// CardLookup returns the raw card-service body for a card number.
type CardLookup interface {
	Lookup(ctx context.Context, cardNumber string) (string, error)
}

type PolicyLookup interface {
	LookupPolicyDetail(ctx context.Context, key models.PolicyKey) (*models.PolicyDetail, error)
}

type CustomerLookup interface {
	GetCustomer(ctx context.Context, clientID string) (*models.CustomerRecord, error)
}

type DocumentTypeLister interface {
	ListRegisteredDocumentTypes(ctx context.Context) ([]models.DocumentType, error)
}

// TicketClient is acquired per submission and closed afterwards.
type TicketClient interface {
	CreateTicket(ctx context.Context, ticket *models.Ticket) (*models.Ticket, error)
	Close() error
}

type TicketClientFactory func() (TicketClient, error)

type ServiceDependencies struct {
	Cards         CardLookup
	Policies      PolicyLookup
	Customers     CustomerLookup
	DocumentTypes DocumentTypeLister
	Tickets       TicketClientFactory
	Mailer        mail.Sender
	Logger        logger.Logger
	Observability *observability.Observability
}
