package createregistrationticket

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	apperrors "onboarding-workers/internal/common/errors"
	"onboarding-workers/internal/common/logger"
	"onboarding-workers/internal/common/metrics"
	"onboarding-workers/internal/common/validation"
	"onboarding-workers/internal/models"
)

type correlationKey struct{}

func withCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationKey{}, id)
}

func correlationID(ctx context.Context) string {
	id, _ := ctx.Value(correlationKey{}).(string)
	return id
}

// TicketSubmitter builds the ticket from the configured template and submits it on a
// client acquired for this call only.
type TicketSubmitter struct {
	template  string
	newClient TicketClientFactory
	logger    logger.Logger
}

func NewTicketSubmitter(template string, factory TicketClientFactory, log logger.Logger) *TicketSubmitter {
	return &TicketSubmitter{template: template, newClient: factory, logger: log}
}

// Submit returns a TICKET_SUBMISSION_FAILED error for any failure. There is no retry.
func (s *TicketSubmitter) Submit(ctx context.Context, clientName, email, description string) error {
	if err := s.submit(ctx, clientName, email, description); err != nil {
		metrics.RegistrationTickets.WithLabelValues(metrics.OutcomeFailure).Inc()
		return apperrors.NewTicketSubmissionFailedError(err)
	}
	metrics.RegistrationTickets.WithLabelValues(metrics.OutcomeSuccess).Inc()
	return nil
}

func (s *TicketSubmitter) submit(ctx context.Context, clientName, email, description string) error {
	ticket, err := s.Build(clientName, email, description)
	if err != nil {
		return err
	}
	if ticket.Ticket.ExternalID == "" {
		ticket.Ticket.ExternalID = correlationID(ctx)
	}

	if s.newClient == nil {
		return fmt.Errorf("ticketing client not configured")
	}
	client, err := s.newClient()
	if err != nil {
		return fmt.Errorf("acquire ticketing client: %w", err)
	}
	defer func() {
		if cerr := client.Close(); cerr != nil {
			s.logger.Warn("Failed to release ticketing client", map[string]interface{}{"error": cerr})
		}
	}()

	created, err := client.CreateTicket(ctx, ticket)
	if err != nil {
		return err
	}

	fields := map[string]interface{}{"externalId": ticket.Ticket.ExternalID}
	if created != nil {
		fields["ticketId"] = created.Ticket.ID
	}
	s.logger.Info("Registration ticket created", fields)
	return nil
}

// Build substitutes the flattened name, the email and the flattened description into the
// template and parses the result into a ticket.
func (s *TicketSubmitter) Build(clientName, email, description string) (*models.Ticket, error) {
	raw := fmt.Sprintf(s.template, jsonEscape(Flatten(clientName)), jsonEscape(email), jsonEscape(Flatten(description)))

	var ticket models.Ticket
	if err := json.Unmarshal([]byte(raw), &ticket); err != nil {
		return nil, fmt.Errorf("parse ticket template: %w", err)
	}

	result, err := validation.Validate(&ticket, GetTicketSchema())
	if err != nil {
		return nil, err
	}
	if !result.Valid {
		return nil, fmt.Errorf("invalid ticket: %s", strings.Join(result.GetErrorMessages(), "; "))
	}
	return &ticket, nil
}

// jsonEscape returns s as the inside of a JSON string literal.
func jsonEscape(s string) string {
	quoted, _ := json.Marshal(s)
	return string(quoted[1 : len(quoted)-1])
}
