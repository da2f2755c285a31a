package createregistrationticket

import (
	"fmt"

	"onboarding-workers/internal/common/errors"
	"onboarding-workers/pkg/registry"
)

// Activity describes this worker for the activity registry used by process modelers.
func Activity() (registry.Activity, error) {
	inputSchema, err := GetInputSchema().AsMap()
	if err != nil {
		return registry.Activity{}, fmt.Errorf("%s input schema: %w", WorkerName, err)
	}

	cfg := DefaultConfig()
	return registry.Activity{
		ID:                   WorkerName,
		DisplayName:          "Create Registration Ticket",
		Description:          "Looks up the registering customer, opens a ticket in the ticketing platform and emails the data when the ticket cannot be created",
		Category:             "registration",
		Version:              "1.0.0",
		TaskType:             TaskType,
		ImplementationStatus: "completed",
		InputSchema:          inputSchema,
		OutputVariables:      []string{"registrationReport", "ticketCreated", "fallbackNotified", "correlationId"},
		ErrorCodes:           []string{errors.BPMNErrorMapping[errors.ErrCodeValidationFailed]},
		Timeout:              cfg.Timeout.String(),
		Retries:              errors.GetRetryCount(errors.ErrCodeValidationFailed),
		Tags:                 []string{"registration", "zendesk", "fallback-email"},
	}, nil
}
