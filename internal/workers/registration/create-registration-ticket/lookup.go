package createregistrationticket

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	apperrors "onboarding-workers/internal/common/errors"
	"onboarding-workers/internal/common/logger"
	"onboarding-workers/internal/common/metrics"
	"onboarding-workers/internal/models"
)

const (
	lookupDetailHeader = "Datos recuperados del servicio de tarjeta:"
	policyCompany      = 1

	pathCard   = "card"
	pathPolicy = "policy"
	pathNone   = "none"
)

// LookupResolver resolves the customer identity from either the card or the policy number.
type LookupResolver struct {
	cards    CardLookup
	policies PolicyLookup
	logger   logger.Logger
}

func NewLookupResolver(cards CardLookup, policies PolicyLookup, log logger.Logger) *LookupResolver {
	return &LookupResolver{cards: cards, policies: policies, logger: log}
}

// Resolve never fails: a failed lookup and a skipped one both yield an empty result.
func (r *LookupResolver) Resolve(ctx context.Context, req *models.RegistrationRequest) models.LookupResult {
	switch {
	case strings.TrimSpace(req.CardNumber) != "":
		return r.observe(pathCard, func() (models.LookupResult, error) { return r.byCard(ctx, req.CardNumber) })
	case strings.TrimSpace(req.PolicyNumber) != "":
		return r.observe(pathPolicy, func() (models.LookupResult, error) { return r.byPolicy(ctx, req) })
	default:
		metrics.RegistrationLookups.WithLabelValues(pathNone, metrics.OutcomeSkipped).Inc()
		return models.LookupResult{}
	}
}

func (r *LookupResolver) observe(path string, lookup func() (models.LookupResult, error)) models.LookupResult {
	result, err := lookup()
	if err != nil {
		r.logger.Warn("Identity lookup failed, continuing without it", map[string]interface{}{
			"path":      path,
			"errorCode": string(apperrors.CodeOf(err)),
			"error":     err,
		})
		metrics.RegistrationLookups.WithLabelValues(path, metrics.OutcomeFailure).Inc()
		return models.LookupResult{}
	}
	metrics.RegistrationLookups.WithLabelValues(path, metrics.OutcomeSuccess).Inc()
	return result
}

func (r *LookupResolver) byCard(ctx context.Context, cardNumber string) (models.LookupResult, error) {
	if r.cards == nil {
		return models.LookupResult{}, apperrors.NewLookupFailedError("cards", fmt.Errorf("card service not configured"))
	}
	body, err := r.cards.Lookup(ctx, strings.TrimSpace(cardNumber))
	if err != nil {
		return models.LookupResult{}, err
	}

	id := strings.TrimSpace(body)
	return models.LookupResult{
		ClientName: id,
		ClientID:   &id,
		Detail:     lookupDetailHeader + lineBreak + prettyBody(body),
	}, nil
}

func (r *LookupResolver) byPolicy(ctx context.Context, req *models.RegistrationRequest) (models.LookupResult, error) {
	if r.policies == nil {
		return models.LookupResult{}, apperrors.NewLookupFailedError("policies", fmt.Errorf("policy service not configured"))
	}
	key, err := policyKey(req)
	if err != nil {
		return models.LookupResult{}, apperrors.NewLookupFailedError("policies", err)
	}

	detail, err := r.policies.LookupPolicyDetail(ctx, key)
	if err != nil {
		return models.LookupResult{}, err
	}

	serialized, err := serializePolicy(detail)
	if err != nil {
		return models.LookupResult{}, apperrors.NewLookupFailedError("policies", err)
	}

	id := detail.Holder.ID
	return models.LookupResult{
		ClientName: joinName(detail.Holder.Name, detail.Holder.FirstSurname, detail.Holder.SecondSurname),
		ClientID:   &id,
		Detail:     lookupDetailHeader + lineBreak + serialized,
	}, nil
}

// serializePolicy prefers the body as received so unmodelled fields reach the report.
func serializePolicy(detail *models.PolicyDetail) (string, error) {
	if len(detail.Raw) > 0 {
		return prettyBody(string(detail.Raw)), nil
	}
	serialized, err := json.MarshalIndent(detail, "", "  ")
	if err != nil {
		return "", err
	}
	return string(serialized), nil
}

func policyKey(req *models.RegistrationRequest) (models.PolicyKey, error) {
	policy, err := strconv.Atoi(strings.TrimSpace(req.PolicyNumber))
	if err != nil {
		return models.PolicyKey{}, fmt.Errorf("invalid policy number %q: %w", req.PolicyNumber, err)
	}
	collective, err := strconv.Atoi(strings.TrimSpace(req.CollectiveNumber))
	if err != nil {
		return models.PolicyKey{}, fmt.Errorf("invalid collective number %q: %w", req.CollectiveNumber, err)
	}
	return models.PolicyKey{PolicyNumber: policy, CollectiveNumber: collective, Company: policyCompany}, nil
}

func joinName(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " ")
}

// prettyBody indents a JSON body; anything else is quoted as a JSON string.
func prettyBody(body string) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, []byte(body), "", "  "); err == nil {
		return buf.String()
	}
	quoted, _ := json.Marshal(body)
	return string(quoted)
}
