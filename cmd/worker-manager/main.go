// cmd/worker-manager/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"onboarding-workers/internal/api"
	awsclient "onboarding-workers/internal/common/aws"
	"onboarding-workers/internal/common/bravo"
	"onboarding-workers/internal/common/camunda"
	"onboarding-workers/internal/common/cards"
	"onboarding-workers/internal/common/config"
	"onboarding-workers/internal/common/database"
	"onboarding-workers/internal/common/doctypes"
	"onboarding-workers/internal/common/logger"
	"onboarding-workers/internal/common/mail"
	"onboarding-workers/internal/common/observability"
	"onboarding-workers/internal/common/policies"
	"onboarding-workers/internal/common/zendesk"
	crt "onboarding-workers/internal/workers/registration/create-registration-ticket"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New("info", "console")
		bootLog.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...",
		zap.String("app", cfg.App.Name),
		zap.String("environment", cfg.App.Environment),
	)

	obs := observability.New(cfg.App.Name)
	ctx := context.Background()

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Redis is optional: without it document types are read from Postgres every time ---
	rdb := database.NewRedis(cfg.Database.Redis)
	if rdb != nil {
		if err := rdb.Ping(ctx); err != nil {
			zapLog.Warn("redis unavailable, document type cache degraded", zap.Error(err))
		} else {
			zapLog.Info("Redis connected successfully")
		}
		defer rdb.Close()
	}

	documentTypes := doctypes.NewStore(pg.DB, rdb.GetClient(), time.Duration(cfg.Database.Redis.CacheTTL)*time.Second, log,
		doctypes.WithQueryTimeout(config.GetDuration(cfg.Database.Postgres.QueryTimeout)))

	mailer, err := newMailer(ctx, cfg)
	if err != nil {
		zapLog.Fatal("fallback mailer init failed", zap.Error(err))
	}

	integrations := cfg.Integrations
	zendeskOpts := zendesk.Options{
		URL:     integrations.Zendesk.URL,
		User:    integrations.Zendesk.User,
		Token:   integrations.Zendesk.Token,
		Timeout: config.GetDuration(integrations.Zendesk.Timeout),
	}

	handler, err := crt.NewHandler(crt.HandlerOptions{
		Config: crt.ConfigFromApp(cfg),
		Logger: log,
		Dependencies: crt.ServiceDependencies{
			Cards:         cards.NewClient(integrations.Cards.BaseURL, config.GetDuration(integrations.Cards.Timeout)),
			Policies:      policies.NewClient(integrations.Policies.BaseURL, config.GetDuration(integrations.Policies.Timeout)),
			Customers:     bravo.NewClient(integrations.Bravo.BaseURL, config.GetDuration(integrations.Bravo.Timeout)),
			DocumentTypes: documentTypes,
			Tickets: func() (crt.TicketClient, error) {
				return zendesk.NewClient(zendeskOpts), nil
			},
			Mailer:        mailer,
			Logger:        log,
			Observability: obs,
		},
	})
	if err != nil {
		zapLog.Fatal("registration handler init failed", zap.Error(err))
	}

	// --- Init Zeebe Client with retry ---
	var zeebe *camunda.Client
	err = retryWithBackoff(func() error {
		var err error
		zeebe, err = camunda.NewClientWithConfig(&camunda.ClientConfig{
			GatewayAddress:         cfg.Camunda.BrokerAddress,
			UsePlaintextConnection: true,
			ConnectionTimeout:      config.GetDuration(cfg.Camunda.RequestTimeout),
		})
		return err
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	defer zeebe.Close()
	zapLog.Info("Zeebe client connected successfully")

	jobWorker := camunda.StartWorker(zeebe.GetClient(), crt.TaskType,
		config.GetWorkerConfig(cfg, crt.WorkerName), handler, log)

	checks := map[string]api.ReadinessCheck{
		"postgres": pg.Ping,
		"zeebe":    zeebe.HealthCheck,
	}
	if rdb != nil {
		checks["redis"] = rdb.Ping
	}

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      api.NewRouter(api.NewHandler(handler, checks, log), config.GetDuration(cfg.Server.WriteTimeout)),
		ReadTimeout:  config.GetDuration(cfg.Server.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.Server.WriteTimeout),
	}
	go func() {
		zapLog.Info("HTTP server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Fatal("http server failed", zap.Error(err))
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh
	zapLog.Info("Shutdown signal received, stopping workers...")

	if jobWorker != nil {
		jobWorker.Close()
		jobWorker.AwaitClose()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("http server shutdown failed", zap.Error(err))
	}
	obs.Shutdown(shutdownCtx)

	zapLog.Info("Worker manager stopped")
}

// newMailer picks the fallback email transport configured in notifications.fallback.provider.
func newMailer(ctx context.Context, cfg *config.Config) (mail.Sender, error) {
	registry := mail.NewRegistry(cfg.Notifications.Templates)

	switch cfg.Notifications.Fallback.Provider {
	case "ses":
		client, err := awsclient.NewSESClient(ctx, cfg.Integrations.AWS.Region)
		if err != nil {
			return nil, err
		}
		return mail.NewSESSender(client, cfg.Integrations.AWS.SES.FromEmail, registry), nil
	default:
		return mail.NewSMTPSender(cfg.Integrations.SMTP, registry), nil
	}
}
