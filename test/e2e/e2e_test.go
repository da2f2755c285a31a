// test/e2e/e2e_test.go
package e2e

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"

	"onboarding-workers/internal/api"
	"onboarding-workers/internal/common/bravo"
	"onboarding-workers/internal/common/cards"
	"onboarding-workers/internal/common/config"
	"onboarding-workers/internal/common/doctypes"
	"onboarding-workers/internal/common/logger"
	"onboarding-workers/internal/common/mail"
	"onboarding-workers/internal/common/observability"
	"onboarding-workers/internal/common/policies"
	"onboarding-workers/internal/common/zendesk"
	crt "onboarding-workers/internal/workers/registration/create-registration-ticket"
)

type recordingDialer struct {
	mu   sync.Mutex
	sent []*gomail.Message
}

func (d *recordingDialer) DialAndSend(m ...*gomail.Message) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sent = append(d.sent, m...)
	return nil
}

type upstreams struct {
	cards, policies, bravo, zendesk *httptest.Server
	zendeskStatus                   atomic.Int32
	tickets                         atomic.Int32
	lastTicketBody                  atomic.Value
}

func startUpstreams(t *testing.T) *upstreams {
	u := &upstreams{}
	u.zendeskStatus.Store(http.StatusCreated)

	u.cards = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/tarjetas/9000123" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte("C-77"))
	}))
	u.policies = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"numPoliza": 100, "numColectivo": 5, "compania": 1,
			"tomador":     map[string]string{"idCliente": "C-77", "nombre": "Ana", "apellido1": "Gomez", "apellido2": "Ruiz"},
			"fechaEfecto": "2024-01-01",
		})
	}))
	u.bravo = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("id") != "C-77" {
			http.NotFound(w, r)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"idCliente": "C-77", "genTGrupoTmk": "600111222", "fechaNacimiento": "1985-03-09",
			"genCTipoDocumento": 2, "numeroDocAcred": "X1234567", "genTTipoCliente": 2,
			"genTStatus": 4, "idMotivoAlta": 11,
		})
	}))
	u.zendesk = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, token, ok := r.BasicAuth()
		if !ok || user != "agent@acme.com/token" || token != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		u.tickets.Add(1)
		var ticket map[string]interface{}
		_ = json.NewDecoder(r.Body).Decode(&ticket)
		u.lastTicketBody.Store(ticket)

		status := int(u.zendeskStatus.Load())
		w.WriteHeader(status)
		if status == http.StatusCreated {
			_ = json.NewEncoder(w).Encode(map[string]interface{}{"ticket": map[string]interface{}{"id": 99}})
		}
	}))

	t.Cleanup(func() {
		u.cards.Close()
		u.policies.Close()
		u.bravo.Close()
		u.zendesk.Close()
	})
	return u
}

func TestRegistrationEndToEnd(t *testing.T) {
	u := startUpstreams(t)
	log := logger.NewTestLogger(t)

	db, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	sqlMock.ExpectQuery(regexp.QuoteMeta("SELECT code, label FROM registered_document_types")).
		WillReturnRows(sqlmock.NewRows([]string{"code", "label"}).AddRow("1", "DNI").AddRow("2", "PASSPORT"))

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	dialer := &recordingDialer{}
	registry := mail.NewRegistry([]config.TemplateConfig{{
		ID: config.DefaultFallbackTemplateID, Locale: "es",
		Subject: "Alta sin ticket", Body: "<p>{{0}}</p><p>{{1}}</p>",
	}})

	cfg := crt.DefaultConfig()
	cfg.FallbackTo = "altas@acme.com"

	handler, err := crt.NewHandler(crt.HandlerOptions{
		Config: cfg,
		Logger: log,
		Dependencies: crt.ServiceDependencies{
			Cards:         cards.NewClient(u.cards.URL+"/tarjetas", time.Second),
			Policies:      policies.NewClient(u.policies.URL, time.Second),
			Customers:     bravo.NewClient(u.bravo.URL+"/clientes", time.Second),
			DocumentTypes: doctypes.NewStore(db, rdb, time.Hour, log),
			Tickets: func() (crt.TicketClient, error) {
				return zendesk.NewClient(zendesk.Options{URL: u.zendesk.URL, User: "agent@acme.com", Token: "secret", Timeout: time.Second}), nil
			},
			Mailer:        mail.NewSMTPSenderWithDialer(dialer, "noreply@acme.com", registry),
			Observability: observability.NewNoop(),
		},
	})
	require.NoError(t, err)

	srv := httptest.NewServer(api.NewRouter(api.NewHandler(handler, nil, log), 10*time.Second))
	defer srv.Close()

	post := func(t *testing.T, body string) map[string]interface{} {
		resp, err := http.Post(srv.URL+"/api/v1/registrations", "application/json", bytes.NewBufferString(body))
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var out map[string]interface{}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		return out
	}

	t.Run("card registration creates a ticket", func(t *testing.T) {
		out := post(t, `{"cardNumber":"9000123","documentType":"NIE","documentNumber":"X1234567","email":"ana@example.es","phone":"600111222","userAgent":"Kiosk"}`)

		assert.Equal(t, true, out["ticketCreated"])
		assert.Equal(t, false, out["fallbackNotified"])
		report := out["report"].(string)
		assert.Contains(t, report, `Nº tarjeta Sanitas o Identificador: 9000123\n`)
		assert.Contains(t, report, `Tipo de documento: PASSPORT\n`)
		assert.Contains(t, report, `Registrado: Sí\n\n`)

		ticket := u.lastTicketBody.Load().(map[string]interface{})["ticket"].(map[string]interface{})
		assert.Equal(t, "C-77", ticket["requester"].(map[string]interface{})["name"])
		assert.Equal(t, out["correlationId"], ticket["external_id"])
		assert.NotContains(t, ticket["comment"].(map[string]interface{})["body"], `\n`)
	})

	t.Run("policy registration falls back to email when the ticket fails", func(t *testing.T) {
		u.zendeskStatus.Store(http.StatusInternalServerError)

		out := post(t, `{"policyNumber":"100","collectiveNumber":"5","email":"ana@example.es"}`)

		assert.Equal(t, false, out["ticketCreated"])
		assert.Equal(t, true, out["fallbackNotified"])
		assert.Contains(t, out["report"].(string), `Nº de poliza/colectivo: 100/5\n`)

		ticket := u.lastTicketBody.Load().(map[string]interface{})["ticket"].(map[string]interface{})
		assert.Equal(t, "Ana Gomez Ruiz", ticket["requester"].(map[string]interface{})["name"])
		assert.Contains(t, ticket["comment"].(map[string]interface{})["body"], "fechaEfecto: 2024-01-01")

		require.Len(t, dialer.sent, 1)
		assert.Equal(t, []string{"altas@acme.com"}, dialer.sent[0].GetHeader("To"))
		assert.Equal(t, []string{"Alta sin ticket"}, dialer.sent[0].GetHeader("Subject"))
	})

	assert.Equal(t, int32(2), u.tickets.Load())
	assert.True(t, mr.Exists("onboarding:document-types:registered"))
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}
