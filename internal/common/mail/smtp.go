package mail

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"onboarding-workers/internal/common/config"
	"onboarding-workers/internal/models"
)

// Dialer is satisfied by *gomail.Dialer.
type Dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

type SMTPSender struct {
	dialer   Dialer
	from     string
	registry *Registry
}

func NewSMTPSender(cfg config.SMTPConfig, registry *Registry) *SMTPSender {
	return NewSMTPSenderWithDialer(gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password), cfg.DefaultFrom, registry)
}

func NewSMTPSenderWithDialer(dialer Dialer, from string, registry *Registry) *SMTPSender {
	return &SMTPSender{dialer: dialer, from: from, registry: registry}
}

func (s *SMTPSender) Send(ctx context.Context, n *models.Notification) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	subject, body, err := s.registry.Render(n)
	if err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", n.To)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}
