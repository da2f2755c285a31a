package policies

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "onboarding-workers/internal/common/errors"
	"onboarding-workers/internal/models"
)

func TestLookupPolicyDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)

		var key models.PolicyKey
		require.NoError(t, json.NewDecoder(r.Body).Decode(&key))
		if key.PolicyNumber != 100 {
			http.Error(w, "unknown policy", http.StatusNotFound)
			return
		}
		assert.Equal(t, 5, key.CollectiveNumber)
		assert.Equal(t, 1, key.Company)

		_ = json.NewEncoder(w).Encode(models.PolicyDetail{
			PolicyNumber: 100, CollectiveNumber: 5, Company: 1,
			Holder: models.PolicyHolder{ID: "C-77", Name: "Ana", FirstSurname: "Gomez", SecondSurname: "Ruiz"},
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)

	detail, err := client.LookupPolicyDetail(context.Background(), models.PolicyKey{PolicyNumber: 100, CollectiveNumber: 5, Company: 1})
	require.NoError(t, err)
	assert.Equal(t, "C-77", detail.Holder.ID)
	assert.Equal(t, "Gomez", detail.Holder.FirstSurname)

	_, err = client.LookupPolicyDetail(context.Background(), models.PolicyKey{PolicyNumber: 7, Company: 1})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeLookupFailed, apperrors.CodeOf(err))
}

func TestLookupPolicyDetail_KeepsUnmodelledFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"numPoliza":100,"numColectivo":5,"compania":1,` +
			`"tomador":{"idCliente":"C-77","nombre":"Ana"},` +
			`"fechaEfecto":"2024-01-01","asegurados":[{"nombre":"Luis"}]}`))
	}))
	defer srv.Close()

	detail, err := NewClient(srv.URL, time.Second).LookupPolicyDetail(context.Background(), models.PolicyKey{PolicyNumber: 100, CollectiveNumber: 5, Company: 1})
	require.NoError(t, err)

	assert.Equal(t, "C-77", detail.Holder.ID)
	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(detail.Raw, &raw))
	assert.Equal(t, "2024-01-01", raw["fechaEfecto"])
	assert.Len(t, raw["asegurados"], 1)
}
