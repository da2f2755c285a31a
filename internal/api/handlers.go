package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/mssola/useragent"

	"onboarding-workers/internal/common/logger"
	"onboarding-workers/internal/common/metrics"
	"onboarding-workers/internal/common/validation"
	registration "onboarding-workers/internal/workers/registration/create-registration-ticket"
)

const registrationsRoute = "/api/v1/registrations"

// ReadinessCheck reports whether one dependency can serve traffic.
type ReadinessCheck func(ctx context.Context) error

type Handler struct {
	pipeline registration.Executor
	checks   map[string]ReadinessCheck
	logger   logger.Logger
}

func NewHandler(pipeline registration.Executor, checks map[string]ReadinessCheck, log logger.Logger) *Handler {
	return &Handler{pipeline: pipeline, checks: checks, logger: log}
}

type registrationResponse struct {
	Report           string `json:"report"`
	TicketCreated    bool   `json:"ticketCreated"`
	FallbackNotified bool   `json:"fallbackNotified"`
	CorrelationID    string `json:"correlationId"`
}

type errorResponse struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

func (h *Handler) handleCreateRegistration(w http.ResponseWriter, r *http.Request) {
	var raw map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		h.respond(w, registrationsRoute, http.StatusBadRequest, errorResponse{Error: "malformed JSON body"})
		return
	}

	result, err := validation.Validate(raw, registration.GetInputSchema())
	if err != nil {
		h.respond(w, registrationsRoute, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	if !result.Valid {
		h.respond(w, registrationsRoute, http.StatusBadRequest, errorResponse{
			Error:   "validation failed",
			Details: result.GetErrorMessages(),
		})
		return
	}

	body, _ := json.Marshal(raw)
	var input registration.Input
	if err := json.Unmarshal(body, &input); err != nil {
		h.respond(w, registrationsRoute, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	if strings.TrimSpace(input.UserAgent) == "" {
		input.UserAgent = describeUserAgent(r.UserAgent())
	}

	h.logger.Info("Registration received over HTTP", map[string]interface{}{
		"requestId": middleware.GetReqID(r.Context()),
		"email":     input.Email,
	})

	out, err := h.pipeline.Execute(r.Context(), &input)
	if err != nil {
		h.logger.Error("Registration pipeline failed", map[string]interface{}{"error": err})
		h.respond(w, registrationsRoute, http.StatusInternalServerError, errorResponse{Error: "registration could not be processed"})
		return
	}

	h.respond(w, registrationsRoute, http.StatusOK, registrationResponse{
		Report:           out.Report,
		TicketCreated:    out.TicketCreated,
		FallbackNotified: out.FallbackNotified,
		CorrelationID:    out.CorrelationID,
	})
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.respond(w, "/health", http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) handleReady(w http.ResponseWriter, r *http.Request) {
	status := http.StatusOK
	report := make(map[string]string, len(h.checks))
	for name, check := range h.checks {
		if err := check(r.Context()); err != nil {
			status = http.StatusServiceUnavailable
			report[name] = err.Error()
			continue
		}
		report[name] = "ok"
	}
	h.respond(w, "/ready", status, report)
}

func (h *Handler) respond(w http.ResponseWriter, route string, status int, payload interface{}) {
	metrics.APIRequests.WithLabelValues(route, strconv.Itoa(status)).Inc()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Warn("Failed to write response", map[string]interface{}{"route": route, "error": err})
	}
}

// describeUserAgent renders a User-Agent header as "browser version (os)".
func describeUserAgent(header string) string {
	if strings.TrimSpace(header) == "" {
		return ""
	}
	ua := useragent.New(header)
	name, version := ua.Browser()
	tag := strings.TrimSpace(name + " " + version)
	if os := ua.OS(); os != "" {
		tag = fmt.Sprintf("%s (%s)", tag, os)
	}
	return tag
}
