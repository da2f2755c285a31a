package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalYAML = `
camunda:
  broker_address: localhost:26500
database:
  postgres:
    host: localhost
    database: onboarding
    user: onboarding
integrations:
  cards:
    base_url: http://cards.local/tarjetas
  policies:
    base_url: http://policies.local/polizas
  bravo:
    base_url: http://bravo.local/clientes
  zendesk:
    url: https://acme.zendesk.com
    user: agent@acme.com
    token: ${TEST_ZENDESK_TOKEN}
  smtp:
    host: smtp.local
notifications:
  fallback:
    recipient: altas@acme.com
workers:
  create-registration-ticket:
    enabled: true
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFromFile_DefaultsAndExpansion(t *testing.T) {
	t.Setenv("TEST_ZENDESK_TOKEN", "secret-token")

	cfg, err := LoadFromFile(writeConfig(t, minimalYAML))
	require.NoError(t, err)

	assert.Equal(t, "secret-token", cfg.Integrations.Zendesk.Token)
	assert.Equal(t, DefaultTicketTemplate, cfg.Integrations.Zendesk.TicketTemplate)
	assert.Equal(t, 10000, cfg.Integrations.Cards.Timeout)
	assert.Equal(t, 10000, cfg.Integrations.Bravo.Timeout)
	assert.Equal(t, DefaultFallbackTemplateID, cfg.Notifications.Fallback.TemplateID)
	assert.Equal(t, "es", cfg.Notifications.Fallback.Locale)
	assert.Equal(t, "smtp", cfg.Notifications.Fallback.Provider)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 3600, cfg.Database.Redis.CacheTTL)
	assert.Equal(t, "disable", cfg.Database.Postgres.SSLMode)
	assert.Equal(t, 10000, cfg.Database.Postgres.QueryTimeout)

	w := GetWorkerConfig(cfg, "create-registration-ticket")
	assert.True(t, w.Enabled)
	assert.Equal(t, 5, w.MaxJobsActive)
	assert.Equal(t, 3, w.MaxRetries)
}

func TestLoadFromFile_Validation(t *testing.T) {
	tests := []struct {
		name    string
		replace func(string) string
		wantErr string
	}{
		{
			name:    "missing broker",
			replace: func(s string) string { return replaceLine(s, "  broker_address: localhost:26500", "") },
			wantErr: "camunda.broker_address is required",
		},
		{
			name:    "missing fallback recipient",
			replace: func(s string) string { return replaceLine(s, "    recipient: altas@acme.com", "") },
			wantErr: "notifications.fallback.recipient is required",
		},
		{
			name: "template with wrong verb count",
			replace: func(s string) string {
				return replaceLine(s, "    user: agent@acme.com", "    user: agent@acme.com\n    ticket_template: '{\"ticket\":\"%s\"}'")
			},
			wantErr: "ticket_template must contain exactly three",
		},
		{
			name:    "unknown provider",
			replace: func(s string) string { return replaceLine(s, "    recipient: altas@acme.com", "    recipient: altas@acme.com\n    provider: pigeon") },
			wantErr: "provider must be smtp or ses",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromFile(writeConfig(t, tt.replace(minimalYAML)))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadFromFile_MissingFile(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestGetWorkerConfig_Fallback(t *testing.T) {
	cfg := &Config{}
	w := GetWorkerConfig(cfg, "unknown")
	assert.True(t, w.Enabled)
	assert.Equal(t, 30000, w.Timeout)
	assert.True(t, IsWorkerEnabled(cfg, "unknown"))
	assert.Equal(t, 1500*time.Millisecond, GetDuration(1500))
}

func TestPostgresDSN(t *testing.T) {
	p := PostgresConfig{Host: "db", Port: 5432, User: "u", Password: "p", Database: "onboarding", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=onboarding sslmode=disable", p.GetDSN())
}

func replaceLine(s, old, new string) string {
	return strings.Replace(s, old, new, 1)
}
