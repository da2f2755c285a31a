// internal/models/notification.go
package models

// Notification is a templated email; Params fill the template placeholders in order.
type Notification struct {
	TemplateID int64    `json:"templateId"`
	Locale     string   `json:"locale"`
	Params     []string `json:"params"`
	To         string   `json:"to"`
}

type NotificationTemplate struct {
	ID      int64  `json:"id"`
	Locale  string `json:"locale"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}
