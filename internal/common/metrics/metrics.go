// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeSkipped = "skipped"
)

var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)

	RegistrationLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "registration_lookup_total",
			Help: "Identity lookups by path (card, policy, none) and outcome",
		},
		[]string{"path", "outcome"},
	)

	RegistrationEnrichments = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "registration_enrichment_total",
			Help: "Customer-record enrichments by outcome",
		},
		[]string{"outcome"},
	)

	RegistrationTickets = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "registration_ticket_total",
			Help: "Ticket submissions by outcome",
		},
		[]string{"outcome"},
	)

	RegistrationFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "registration_fallback_total",
			Help: "Fallback notifications by outcome",
		},
		[]string{"outcome"},
	)

	APIRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "registration_api_requests_total",
			Help: "Registration API requests by route and status code",
		},
		[]string{"route", "status"},
	)
)
