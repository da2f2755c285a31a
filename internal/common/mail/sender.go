// Package mail sends templated notifications through SMTP (gomail) or AWS SES.
package mail

import (
	"context"

	"onboarding-workers/internal/models"
)

// Sender delivers a notification or returns why it could not.
type Sender interface {
	Send(ctx context.Context, n *models.Notification) error
}
