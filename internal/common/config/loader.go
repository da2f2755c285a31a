// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultTicketTemplate is used when integrations.zendesk.ticket_template is not set.
// Verbs, in order: requester name, requester email, description.
const DefaultTicketTemplate = `{"ticket":{"subject":"Alta de usuario en portal de clientes","requester":{"name":"%s","email":"%s"},"comment":{"body":"%s"},"tags":["alta_usuario"]}}`

// DefaultFallbackTemplateID is the template registered for the ticket-failure email.
const DefaultFallbackTemplateID int64 = 3001

// Load reads configs/config.yaml, merges config.<APP_ENVIRONMENT>.yaml on top,
// expands ${VAR} placeholders and lets env vars override any key.
func Load() (*Config, error) {
	loadEnvFile()

	v := newViper()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../../configs")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}
	v.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = v.MergeInConfig()

	return build(v)
}

// LoadFromFile loads configuration from a specific file path
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	v := newViper()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return build(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

func build(v *viper.Viper) (*Config, error) {
	expandEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	overrideEmptyConfig(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func loadEnvFile() {
	paths := []string{".env", "../.env", "../../.env", "../../../.env"}
	if root := findProjectRoot(); root != "" {
		paths = append(paths, filepath.Join(root, ".env"))
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

// findProjectRoot walks up from the working directory looking for go.mod.
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		strVal, ok := v.Get(key).(string)
		if !ok {
			continue
		}
		if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
			if expanded := os.ExpandEnv(strVal); expanded != strVal && expanded != "" {
				v.Set(key, expanded)
			}
		}
	}
}

// overrideEmptyConfig fills secrets from their conventional env var names.
func overrideEmptyConfig(cfg *Config) {
	setIfEmpty(&cfg.Integrations.Zendesk.User, "ZENDESK_USER")
	setIfEmpty(&cfg.Integrations.Zendesk.Token, "ZENDESK_TOKEN")
	setIfEmpty(&cfg.Integrations.SMTP.Username, "SMTP_USERNAME")
	setIfEmpty(&cfg.Integrations.SMTP.Password, "SMTP_PASSWORD")
	setIfEmpty(&cfg.Database.Postgres.User, "DB_USER")
	setIfEmpty(&cfg.Database.Postgres.Password, "DB_PASSWORD")
	setIfEmpty(&cfg.Database.Redis.Password, "REDIS_PASSWORD")
}

func setIfEmpty(field *string, envKey string) {
	if *field != "" {
		return
	}
	if val := os.Getenv(envKey); val != "" {
		*field = val
	}
}

// applyDefaults sets default values for optional configuration fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "onboarding-workers"
	}

	if cfg.Camunda.MaxJobsActive == 0 {
		cfg.Camunda.MaxJobsActive = 10
	}
	if cfg.Camunda.Timeout == 0 {
		cfg.Camunda.Timeout = 30000
	}
	if cfg.Camunda.RequestTimeout == 0 {
		cfg.Camunda.RequestTimeout = 30000
	}

	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 15000
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 60000
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10000
	}

	if cfg.Database.Postgres.Port == 0 {
		cfg.Database.Postgres.Port = 5432
	}
	if cfg.Database.Postgres.MaxConnections == 0 {
		cfg.Database.Postgres.MaxConnections = 25
	}
	if cfg.Database.Postgres.MaxIdle == 0 {
		cfg.Database.Postgres.MaxIdle = 5
	}
	if cfg.Database.Postgres.SSLMode == "" {
		cfg.Database.Postgres.SSLMode = "disable"
	}
	if cfg.Database.Postgres.QueryTimeout == 0 {
		cfg.Database.Postgres.QueryTimeout = 10000
	}
	if cfg.Database.Redis.CacheTTL == 0 {
		cfg.Database.Redis.CacheTTL = 3600
	}

	for _, ep := range []*ServiceEndpoint{&cfg.Integrations.Cards, &cfg.Integrations.Policies, &cfg.Integrations.Bravo} {
		if ep.Timeout == 0 {
			ep.Timeout = 10000
		}
	}
	if cfg.Integrations.Zendesk.Timeout == 0 {
		cfg.Integrations.Zendesk.Timeout = 15000
	}
	if cfg.Integrations.Zendesk.TicketTemplate == "" {
		cfg.Integrations.Zendesk.TicketTemplate = DefaultTicketTemplate
	}
	if cfg.Integrations.SMTP.Port == 0 {
		cfg.Integrations.SMTP.Port = 587
	}

	if cfg.Notifications.Fallback.TemplateID == 0 {
		cfg.Notifications.Fallback.TemplateID = DefaultFallbackTemplateID
	}
	if cfg.Notifications.Fallback.Locale == "" {
		cfg.Notifications.Fallback.Locale = "es"
	}
	if cfg.Notifications.Fallback.Provider == "" {
		cfg.Notifications.Fallback.Provider = "smtp"
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}

	for key, worker := range cfg.Workers {
		if worker.MaxJobsActive == 0 {
			worker.MaxJobsActive = 5
		}
		if worker.Timeout == 0 {
			worker.Timeout = 30000
		}
		if worker.MaxRetries == 0 {
			worker.MaxRetries = 3
		}
		cfg.Workers[key] = worker
	}
}

// validateConfig validates critical configuration fields
func validateConfig(cfg *Config) error {
	if cfg.Camunda.BrokerAddress == "" {
		return fmt.Errorf("camunda.broker_address is required")
	}

	if cfg.Database.Postgres.Host == "" {
		return fmt.Errorf("database.postgres.host is required")
	}
	if cfg.Database.Postgres.Database == "" {
		return fmt.Errorf("database.postgres.database is required")
	}
	if cfg.Database.Postgres.User == "" {
		return fmt.Errorf("database.postgres.user is required")
	}

	if cfg.Integrations.Cards.BaseURL == "" {
		return fmt.Errorf("integrations.cards.base_url is required")
	}
	if cfg.Integrations.Policies.BaseURL == "" {
		return fmt.Errorf("integrations.policies.base_url is required")
	}
	if cfg.Integrations.Bravo.BaseURL == "" {
		return fmt.Errorf("integrations.bravo.base_url is required")
	}
	if cfg.Integrations.Zendesk.URL == "" {
		return fmt.Errorf("integrations.zendesk.url is required")
	}
	if strings.Count(cfg.Integrations.Zendesk.TicketTemplate, "%s") != 3 {
		return fmt.Errorf("integrations.zendesk.ticket_template must contain exactly three %%s verbs")
	}

	if cfg.Notifications.Fallback.Recipient == "" {
		return fmt.Errorf("notifications.fallback.recipient is required")
	}
	switch cfg.Notifications.Fallback.Provider {
	case "smtp":
		if cfg.Integrations.SMTP.Host == "" {
			return fmt.Errorf("integrations.smtp.host is required for the smtp fallback provider")
		}
	case "ses":
		if cfg.Integrations.AWS.Region == "" || cfg.Integrations.AWS.SES.FromEmail == "" {
			return fmt.Errorf("integrations.aws.region and integrations.aws.ses.from_email are required for the ses fallback provider")
		}
	default:
		return fmt.Errorf("notifications.fallback.provider must be smtp or ses, got %q", cfg.Notifications.Fallback.Provider)
	}

	return nil
}

// GetDuration converts milliseconds from config to time.Duration
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}

// GetWorkerConfig retrieves worker-specific configuration with fallback to defaults
func GetWorkerConfig(cfg *Config, workerName string) WorkerConfig {
	if worker, exists := cfg.Workers[workerName]; exists {
		return worker
	}
	return WorkerConfig{
		Enabled:       true,
		MaxJobsActive: 5,
		Timeout:       30000,
		MaxRetries:    3,
	}
}

// IsWorkerEnabled checks if a specific worker is enabled
func IsWorkerEnabled(cfg *Config, workerName string) bool {
	if worker, exists := cfg.Workers[workerName]; exists {
		return worker.Enabled
	}
	return true
}
