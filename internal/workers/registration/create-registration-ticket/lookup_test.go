package createregistrationticket

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "onboarding-workers/internal/common/errors"
	"onboarding-workers/internal/common/logger"
	"onboarding-workers/internal/models"
)

func TestLookupResolver_Card(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantDetail string
	}{
		{
			name:       "plain body",
			body:       "C-900\n",
			wantDetail: lookupDetailHeader + `\n` + `"C-900\n"`,
		},
		{
			name:       "json body",
			body:       `{"id":"C-900"}`,
			wantDetail: lookupDetailHeader + `\n` + "{\n  \"id\": \"C-900\"\n}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cards := new(MockCards)
			cards.On("Lookup", mock.Anything, "9000123").Return(tt.body, nil)

			r := NewLookupResolver(cards, nil, logger.NewTestLogger(t))
			got := r.Resolve(context.Background(), &models.RegistrationRequest{CardNumber: " 9000123 "})

			want := strings.TrimSpace(tt.body)
			assert.Equal(t, want, got.ClientName)
			require.NotNil(t, got.ClientID)
			assert.Equal(t, want, *got.ClientID)
			assert.Equal(t, tt.wantDetail, got.Detail)
			cards.AssertExpectations(t)
		})
	}
}

func TestLookupResolver_CardFailureIsEmpty(t *testing.T) {
	cards := new(MockCards)
	cards.On("Lookup", mock.Anything, "9000123").
		Return("", apperrors.NewLookupFailedError("cards", fmt.Errorf("unexpected status 404")))

	r := NewLookupResolver(cards, nil, logger.NewTestLogger(t))
	got := r.Resolve(context.Background(), &models.RegistrationRequest{CardNumber: "9000123"})

	assert.Equal(t, models.LookupResult{}, got)
}

func TestLookupResolver_PolicyScenario(t *testing.T) {
	policies := new(MockPolicies)
	policies.On("LookupPolicyDetail", mock.Anything, models.PolicyKey{PolicyNumber: 100, CollectiveNumber: 5, Company: 1}).
		Return(&models.PolicyDetail{
			PolicyNumber: 100, CollectiveNumber: 5, Company: 1,
			Holder: models.PolicyHolder{ID: "C-77", Name: "Ana", FirstSurname: "Gomez", SecondSurname: "Ruiz"},
		}, nil)

	r := NewLookupResolver(nil, policies, logger.NewTestLogger(t))
	got := r.Resolve(context.Background(), &models.RegistrationRequest{
		PolicyNumber: "100", CollectiveNumber: "5", DocumentNumber: "12345678",
	})

	assert.Equal(t, "Ana Gomez Ruiz", got.ClientName)
	require.NotNil(t, got.ClientID)
	assert.Equal(t, "C-77", *got.ClientID)
	assert.True(t, strings.HasPrefix(got.Detail, lookupDetailHeader+`\n`))
	assert.Contains(t, got.Detail, `"idCliente": "C-77"`)
	policies.AssertExpectations(t)
}

func TestLookupResolver_PolicyDetailKeepsRawBody(t *testing.T) {
	raw := `{"numPoliza":100,"numColectivo":5,"compania":1,"tomador":{"idCliente":"C-77"},"fechaEfecto":"2024-01-01","asegurados":[{"nombre":"Luis"}]}`
	policies := new(MockPolicies)
	policies.On("LookupPolicyDetail", mock.Anything, mock.Anything).
		Return(&models.PolicyDetail{
			PolicyNumber: 100, CollectiveNumber: 5, Company: 1,
			Holder: models.PolicyHolder{ID: "C-77"},
			Raw:    json.RawMessage(raw),
		}, nil)

	r := NewLookupResolver(nil, policies, logger.NewTestLogger(t))
	got := r.Resolve(context.Background(), &models.RegistrationRequest{PolicyNumber: "100", CollectiveNumber: "5"})

	assert.Equal(t, lookupDetailHeader+`\n`+prettyBody(raw), got.Detail)
	assert.Contains(t, got.Detail, `"fechaEfecto": "2024-01-01"`)
	assert.Contains(t, got.Detail, `"asegurados"`)
}

func TestLookupResolver_PolicyNameToleratesBlanks(t *testing.T) {
	policies := new(MockPolicies)
	policies.On("LookupPolicyDetail", mock.Anything, mock.Anything).
		Return(&models.PolicyDetail{Holder: models.PolicyHolder{ID: "C-1", Name: "Ana", SecondSurname: "Ruiz"}}, nil)

	r := NewLookupResolver(nil, policies, logger.NewTestLogger(t))
	got := r.Resolve(context.Background(), &models.RegistrationRequest{PolicyNumber: "1", CollectiveNumber: "2"})

	assert.Equal(t, "Ana Ruiz", got.ClientName)
}

func TestLookupResolver_PolicyFailures(t *testing.T) {
	t.Run("non numeric policy", func(t *testing.T) {
		policies := new(MockPolicies)
		r := NewLookupResolver(nil, policies, logger.NewTestLogger(t))

		got := r.Resolve(context.Background(), &models.RegistrationRequest{PolicyNumber: "P-100", CollectiveNumber: "5"})

		assert.Equal(t, models.LookupResult{}, got)
		policies.AssertNotCalled(t, "LookupPolicyDetail", mock.Anything, mock.Anything)
	})

	t.Run("service error", func(t *testing.T) {
		policies := new(MockPolicies)
		policies.On("LookupPolicyDetail", mock.Anything, mock.Anything).
			Return(nil, apperrors.NewLookupFailedError("policies", fmt.Errorf("connection refused")))
		r := NewLookupResolver(nil, policies, logger.NewTestLogger(t))

		got := r.Resolve(context.Background(), &models.RegistrationRequest{PolicyNumber: "100", CollectiveNumber: "5"})

		assert.Equal(t, models.LookupResult{}, got)
	})
}

// Blank inputs and a failed lookup produce the same empty result; callers cannot tell them apart.
func TestLookupResolver_BlankInputsMatchFailedLookup(t *testing.T) {
	cards := new(MockCards)
	policies := new(MockPolicies)
	r := NewLookupResolver(cards, policies, logger.NewTestLogger(t))

	skipped := r.Resolve(context.Background(), &models.RegistrationRequest{CardNumber: "  ", PolicyNumber: ""})

	assert.Equal(t, models.LookupResult{}, skipped)
	cards.AssertNotCalled(t, "Lookup", mock.Anything, mock.Anything)
	policies.AssertNotCalled(t, "LookupPolicyDetail", mock.Anything, mock.Anything)

	cards.On("Lookup", mock.Anything, "1").Return("", fmt.Errorf("boom"))
	failed := r.Resolve(context.Background(), &models.RegistrationRequest{CardNumber: "1"})
	assert.Equal(t, skipped, failed)
}

func TestLookupResolver_CardTakesPrecedence(t *testing.T) {
	cards := new(MockCards)
	cards.On("Lookup", mock.Anything, "9000123").Return("C-900", nil)
	policies := new(MockPolicies)

	r := NewLookupResolver(cards, policies, logger.NewTestLogger(t))
	got := r.Resolve(context.Background(), &models.RegistrationRequest{CardNumber: "9000123", PolicyNumber: "100"})

	assert.Equal(t, "C-900", got.ClientName)
	policies.AssertNotCalled(t, "LookupPolicyDetail", mock.Anything, mock.Anything)
}
