package createregistrationticket

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	apperrors "onboarding-workers/internal/common/errors"
	"onboarding-workers/internal/common/logger"
	"onboarding-workers/internal/common/metrics"
)

const customerHeader = lineBreak + "Datos recuperados de BRAVO:" + lineBreak + lineBreak

// clientTypes is read-only after init.
var clientTypes = map[int]string{
	1: "POTENCIAL",
	2: "REAL",
	3: "PROSPECTO",
}

var birthDateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	time.RFC3339,
	"2006-01-02T15:04:05",
}

// CustomerEnricher formats the BRAVO customer record of a resolved client.
type CustomerEnricher struct {
	customers     CustomerLookup
	documentTypes DocumentTypeLister
	logger        logger.Logger
}

func NewCustomerEnricher(customers CustomerLookup, documentTypes DocumentTypeLister, log logger.Logger) *CustomerEnricher {
	return &CustomerEnricher{customers: customers, documentTypes: documentTypes, logger: log}
}

// Enrich always returns at least the header. On error the lines written so far are kept.
func (e *CustomerEnricher) Enrich(ctx context.Context, clientID *string) string {
	var b strings.Builder
	b.WriteString(customerHeader)

	if clientID == nil || strings.TrimSpace(*clientID) == "" {
		metrics.RegistrationEnrichments.WithLabelValues(metrics.OutcomeSkipped).Inc()
		return b.String()
	}

	if err := e.write(ctx, &b, strings.TrimSpace(*clientID)); err != nil {
		e.logger.Warn("Customer enrichment failed, returning partial block", map[string]interface{}{
			"clientId":  *clientID,
			"errorCode": string(apperrors.CodeOf(err)),
			"error":     err,
		})
		metrics.RegistrationEnrichments.WithLabelValues(metrics.OutcomeFailure).Inc()
		return b.String()
	}
	metrics.RegistrationEnrichments.WithLabelValues(metrics.OutcomeSuccess).Inc()
	return b.String()
}

func (e *CustomerEnricher) write(ctx context.Context, b *strings.Builder, clientID string) error {
	if e.customers == nil {
		return apperrors.NewEnrichmentFailedError(fmt.Errorf("customer service not configured"))
	}
	record, err := e.customers.GetCustomer(ctx, clientID)
	if err != nil {
		return err
	}

	line(b, "Teléfono: ", record.ContactGroup)

	birthDate, err := formatBirthDate(record.BirthDate)
	if err != nil {
		return apperrors.NewEnrichmentFailedError(err)
	}
	line(b, "Fecha de nacimiento: ", birthDate)

	if record.DocumentType != nil {
		label, err := e.documentLabel(ctx, strconv.Itoa(*record.DocumentType))
		if err != nil {
			return err
		}
		if label != "" {
			line(b, "Tipo de documento: ", label)
		}
	}

	line(b, "Número documento: ", record.DocumentNumber)

	if record.ClientType != nil {
		if label, ok := clientTypes[*record.ClientType]; ok {
			line(b, "Tipo cliente: ", label)
		}
	}

	line(b, "ID estado del cliente: ", intString(record.Status))
	line(b, "ID motivo de alta cliente: ", intString(record.AltaReason))

	registered := "Sí"
	if record.InactiveSince != nil {
		registered = "No"
	}
	b.WriteString("Registrado: " + registered + lineBreak + lineBreak)
	return nil
}

// documentLabel scans the reference list in order; the first matching code wins.
func (e *CustomerEnricher) documentLabel(ctx context.Context, code string) (string, error) {
	if e.documentTypes == nil {
		return "", apperrors.NewDocumentTypesUnavailableError(fmt.Errorf("document types not configured"))
	}
	types, err := e.documentTypes.ListRegisteredDocumentTypes(ctx)
	if err != nil {
		return "", err
	}
	for _, t := range types {
		if t.Code == code {
			return t.Label, nil
		}
	}
	return "", nil
}

func formatBirthDate(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range birthDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("02/01/2006"), nil
		}
	}
	return "", fmt.Errorf("unparseable birth date %q", raw)
}

func line(b *strings.Builder, label, value string) {
	b.WriteString(label + value + lineBreak)
}

func intString(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}
