package createregistrationticket

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"onboarding-workers/internal/common/logger"
	"onboarding-workers/internal/common/metrics"
	"onboarding-workers/internal/common/observability"
	"onboarding-workers/internal/models"
)

const (
	stageLookup   = "resolve_lookup"
	stageEnrich   = "enrich_customer"
	stageSubmit   = "submit_ticket"
	stageFallback = "notify_fallback"
)

// Service is the registration pipeline: lookup, enrichment, report, ticket and fallback email.
type Service struct {
	config   *Config
	logger   logger.Logger
	obs      *observability.Observability
	lookup   *LookupResolver
	enricher *CustomerEnricher
	tickets  *TicketSubmitter
	fallback *FallbackNotifier
}

type result struct {
	report           string
	ticketCreated    bool
	fallbackNotified bool
}

func NewService(deps ServiceDependencies, config *Config) *Service {
	log := deps.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})

	obs := deps.Observability
	if obs == nil {
		obs = observability.NewNoop()
	}

	return &Service{
		config:   config,
		logger:   log,
		obs:      obs,
		lookup:   NewLookupResolver(deps.Cards, deps.Policies, log),
		enricher: NewCustomerEnricher(deps.Customers, deps.DocumentTypes, log),
		tickets:  NewTicketSubmitter(config.TicketTemplate, deps.Tickets, log),
		fallback: NewFallbackNotifier(deps.Mailer, config.FallbackID, config.FallbackLocale, config.FallbackTo, log),
	}
}

// CreateRegistrationTicket runs the pipeline and returns the user block followed by the
// customer block, whatever happened to the ticket and the fallback email.
func (s *Service) CreateRegistrationTicket(ctx context.Context, in *Input) string {
	return s.run(ctx, in).report
}

// Execute runs the pipeline under a fresh correlation id. Upstream failures are reported in
// the output, never as an error.
func (s *Service) Execute(ctx context.Context, input *Input) (*Output, error) {
	id := uuid.NewString()
	ctx = withCorrelationID(ctx, id)

	s.logger.Info("Executing registration ticket creation", map[string]interface{}{
		"correlationId": id,
		"email":         input.Email,
		"hasCard":       input.CardNumber != "",
		"hasPolicy":     input.PolicyNumber != "",
	})

	res := s.run(ctx, input)
	return &Output{
		Report:           res.report,
		TicketCreated:    res.ticketCreated,
		FallbackNotified: res.fallbackNotified,
		CorrelationID:    id,
		ProcessedAt:      time.Now(),
	}, nil
}

func (s *Service) run(ctx context.Context, in *Input) (res result) {
	userBlock := UserBlock(in)
	customerBlock := ""
	res.report = userBlock

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("Registration pipeline panicked", map[string]interface{}{"panic": r})
			res.report = userBlock + customerBlock
		}
	}()

	ctx, span := s.obs.StartSpan(ctx, "registration.pipeline")
	defer span.End()

	lr := s.lookupStage(ctx, in)
	customerBlock = s.enrichStage(ctx, lr.ClientID)
	res.report = userBlock + customerBlock

	description := Merge(userBlock, customerBlock, Sanitize(lr.Detail))
	if s.submitStage(ctx, lr.ClientName, in.Email, description) {
		res.ticketCreated = true
		return res
	}

	res.fallbackNotified = s.fallbackStage(ctx, userBlock, customerBlock)
	return res
}

func (s *Service) lookupStage(ctx context.Context, in *Input) models.LookupResult {
	ctx, span := s.obs.StartSpan(ctx, stageLookup)
	defer span.End()
	start := time.Now()

	lr := s.lookup.Resolve(ctx, &in.RegistrationRequest)
	outcome := metrics.OutcomeSuccess
	if lr.ClientID == nil {
		outcome = metrics.OutcomeSkipped
	}
	span.SetAttributes(attribute.Bool("registration.client_resolved", lr.ClientID != nil))
	s.obs.RecordStage(ctx, stageLookup, outcome, time.Since(start))
	return lr
}

func (s *Service) enrichStage(ctx context.Context, clientID *string) string {
	ctx, span := s.obs.StartSpan(ctx, stageEnrich)
	defer span.End()
	start := time.Now()

	block := s.enricher.Enrich(ctx, clientID)
	s.obs.RecordStage(ctx, stageEnrich, metrics.OutcomeSuccess, time.Since(start))
	return block
}

func (s *Service) submitStage(ctx context.Context, clientName, email, description string) bool {
	ctx, span := s.obs.StartSpan(ctx, stageSubmit)
	defer span.End()
	start := time.Now()

	if err := s.tickets.Submit(ctx, clientName, email, description); err != nil {
		s.logger.Error("Ticket submission failed, sending fallback notification", map[string]interface{}{
			"correlationId": correlationID(ctx),
			"error":         err,
		})
		span.RecordError(err)
		span.SetStatus(codes.Error, "ticket submission failed")
		s.obs.RecordStage(ctx, stageSubmit, metrics.OutcomeFailure, time.Since(start))
		return false
	}
	s.obs.RecordStage(ctx, stageSubmit, metrics.OutcomeSuccess, time.Since(start))
	return true
}

func (s *Service) fallbackStage(ctx context.Context, userBlock, customerBlock string) bool {
	ctx, span := s.obs.StartSpan(ctx, stageFallback)
	defer span.End()
	start := time.Now()

	sent := s.fallback.Notify(ctx, userBlock, customerBlock)
	outcome := metrics.OutcomeSuccess
	if !sent {
		outcome = metrics.OutcomeFailure
		span.SetStatus(codes.Error, "fallback notification failed")
	}
	s.obs.RecordStage(ctx, stageFallback, outcome, time.Since(start))
	return sent
}
