// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App           AppConfig               `mapstructure:"app"`
	Camunda       CamundaConfig           `mapstructure:"camunda"`
	Server        ServerConfig            `mapstructure:"server"`
	Database      DatabaseConfig          `mapstructure:"database"`
	Workers       map[string]WorkerConfig `mapstructure:"workers"`
	Integrations  IntegrationConfig       `mapstructure:"integrations"`
	Notifications NotificationConfig      `mapstructure:"notifications"`
	Logging       LoggingConfig           `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type CamundaConfig struct {
	BrokerAddress  string `mapstructure:"broker_address"`
	MaxJobsActive  int    `mapstructure:"max_jobs_active"`
	Timeout        int    `mapstructure:"timeout"`         // milliseconds
	RequestTimeout int    `mapstructure:"request_timeout"` // milliseconds
}

// ServerConfig configures the HTTP listener for the registration API, health and metrics.
type ServerConfig struct {
	Port            int `mapstructure:"port"`
	ReadTimeout     int `mapstructure:"read_timeout"`     // milliseconds
	WriteTimeout    int `mapstructure:"write_timeout"`    // milliseconds
	ShutdownTimeout int `mapstructure:"shutdown_timeout"` // milliseconds
}

type DatabaseConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
	QueryTimeout   int    `mapstructure:"query_timeout"` // milliseconds
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

// RedisConfig; an empty Address disables the document-type cache.
type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	CacheTTL int    `mapstructure:"cache_ttl"` // seconds
}

// WorkerConfig holds the core settings applicable to every worker.
type WorkerConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxJobsActive int  `mapstructure:"max_jobs_active"`
	Timeout       int  `mapstructure:"timeout"`     // milliseconds
	MaxRetries    int  `mapstructure:"max_retries"` // For error handling
}

// --- Integrations ---

// ServiceEndpoint describes one of the remote lookup services.
type ServiceEndpoint struct {
	BaseURL string `mapstructure:"base_url"`
	Timeout int    `mapstructure:"timeout"` // milliseconds, per call
}

// ZendeskConfig holds the ticketing platform connection and the ticket template.
type ZendeskConfig struct {
	URL            string `mapstructure:"url"`
	User           string `mapstructure:"user"`
	Token          string `mapstructure:"token"`
	TicketTemplate string `mapstructure:"ticket_template"`
	Timeout        int    `mapstructure:"timeout"` // milliseconds
}

type SMTPConfig struct {
	Host        string `mapstructure:"host"`
	Port        int    `mapstructure:"port"`
	Username    string `mapstructure:"username"`
	Password    string `mapstructure:"password"`
	DefaultFrom string `mapstructure:"default_from"`
}

type AWSConfig struct {
	Region string `mapstructure:"region"`
	SES    struct {
		Enabled   bool   `mapstructure:"enabled"`
		FromEmail string `mapstructure:"from_email"`
	} `mapstructure:"ses"`
}

// IntegrationConfig holds settings for every remote collaborator of the pipeline.
type IntegrationConfig struct {
	Cards    ServiceEndpoint `mapstructure:"cards"`
	Policies ServiceEndpoint `mapstructure:"policies"`
	Bravo    ServiceEndpoint `mapstructure:"bravo"`
	Zendesk  ZendeskConfig   `mapstructure:"zendesk"`
	SMTP     SMTPConfig      `mapstructure:"smtp"`
	AWS      AWSConfig       `mapstructure:"aws"`
}

// --- Notifications ---

// FallbackConfig controls the email sent when ticket creation fails.
type FallbackConfig struct {
	TemplateID int64  `mapstructure:"template_id"`
	Recipient  string `mapstructure:"recipient"`
	Locale     string `mapstructure:"locale"`
	Provider   string `mapstructure:"provider"` // smtp | ses
}

// TemplateConfig is one localized email template; params are referenced as {{0}}, {{1}}, ...
type TemplateConfig struct {
	ID      int64  `mapstructure:"id"`
	Locale  string `mapstructure:"locale"`
	Subject string `mapstructure:"subject"`
	Body    string `mapstructure:"body"`
}

type NotificationConfig struct {
	Fallback  FallbackConfig   `mapstructure:"fallback"`
	Templates []TemplateConfig `mapstructure:"templates"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
