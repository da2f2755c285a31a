package createregistrationticket

import (
	"fmt"
	"strings"
	"time"

	"onboarding-workers/internal/common/config"
)

type Config struct {
	Enabled        bool          `mapstructure:"enabled"`
	MaxJobsActive  int           `mapstructure:"max_jobs_active"`
	Timeout        time.Duration `mapstructure:"timeout"`
	TicketTemplate string        `mapstructure:"ticket_template"`
	FallbackID     int64         `mapstructure:"fallback_template_id"`
	FallbackLocale string        `mapstructure:"fallback_locale"`
	FallbackTo     string        `mapstructure:"fallback_recipient"`
}

func DefaultConfig() *Config {
	return &Config{
		Enabled:        true,
		MaxJobsActive:  5,
		Timeout:        60 * time.Second,
		TicketTemplate: config.DefaultTicketTemplate,
		FallbackID:     config.DefaultFallbackTemplateID,
		FallbackLocale: "es",
	}
}

func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.MaxJobsActive <= 0 {
		return fmt.Errorf("max_jobs_active must be positive")
	}
	if strings.Count(c.TicketTemplate, "%s") != 3 {
		return fmt.Errorf("ticket_template must contain exactly three %%s placeholders")
	}
	if c.FallbackTo == "" {
		return fmt.Errorf("fallback_recipient is required")
	}
	return nil
}

// ConfigFromApp reads the worker section plus the ticket and fallback settings of the application config.
func ConfigFromApp(appConfig *config.Config) *Config {
	cfg := DefaultConfig()
	if appConfig == nil {
		return cfg
	}

	workerCfg := config.GetWorkerConfig(appConfig, WorkerName)
	cfg.Enabled = workerCfg.Enabled
	if workerCfg.MaxJobsActive > 0 {
		cfg.MaxJobsActive = workerCfg.MaxJobsActive
	}
	if workerCfg.Timeout > 0 {
		cfg.Timeout = config.GetDuration(workerCfg.Timeout)
	}

	if tpl := appConfig.Integrations.Zendesk.TicketTemplate; tpl != "" {
		cfg.TicketTemplate = tpl
	}
	fallback := appConfig.Notifications.Fallback
	if fallback.TemplateID != 0 {
		cfg.FallbackID = fallback.TemplateID
	}
	if fallback.Locale != "" {
		cfg.FallbackLocale = fallback.Locale
	}
	cfg.FallbackTo = fallback.Recipient
	return cfg
}
