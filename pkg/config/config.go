package config

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all configuration for vciso-engine.
// Configuration can come from YAML file (config.yaml) or environment variables.
// Environment variables always override YAML values for fields that support both.
// Secrets (passwords, keys) must only come from environment variables.
type Config struct {
	// Server configuration
	BindAddr string `yaml:"bind_addr" env:"BIND_ADDR" env-default:"127.0.0.1"`
	Port     string `yaml:"port" env:"PORT" env-default:"8000"`
	Env      string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	BaseURL  string `yaml:"base_url" env:"BASE_URL" env-default:""` // Auto-derived from Port if empty
	Version  string `yaml:"-"`                                      // Set at load time, not from config

	// Authentication configuration
	Auth AuthConfig `yaml:"auth"`

	// Database configuration (PostgreSQL)
	Database DatabaseConfig `yaml:"database"`

	// AI completion provider configuration
	AI AIConfig `yaml:"ai"`

	// Assistant endpoint configuration (consumed by the client SDK)
	Assistant AssistantConfig `yaml:"assistant"`

	// Chat endpoint throttling
	Chat ChatConfig `yaml:"chat"`
}

// AuthConfig holds settings for the hosted auth service.
type AuthConfig struct {
	// ServiceURL is the base URL of the hosted auth service REST API.
	ServiceURL string `yaml:"service_url" env:"AUTH_SERVICE_URL" env-default:"http://localhost:9999"`

	// JWKSURL is where the auth service publishes its signing keys.
	// Defaults to the service's well-known location.
	JWKSURL string `yaml:"jwks_url" env:"AUTH_JWKS_URL" env-default:""`

	// EnableVerification controls whether bearer tokens are validated.
	// Set to false for local development without the auth service.
	EnableVerification bool `yaml:"enable_verification" env:"AUTH_ENABLE_VERIFICATION" env-default:"true"`

	// APIKey is the public (anon) API key sent alongside auth requests.
	APIKey string `yaml:"-" env:"AUTH_API_KEY"` // Secret - not in YAML
}

// DatabaseConfig holds PostgreSQL database configuration.
type DatabaseConfig struct {
	Host           string `yaml:"host" env:"PGHOST" env-default:"localhost"`
	Port           int    `yaml:"port" env:"PGPORT" env-default:"5432"`
	User           string `yaml:"user" env:"PGUSER" env-default:"vciso"`
	Password       string `yaml:"-" env:"PGPASSWORD"` // Secret - not in YAML
	Database       string `yaml:"database" env:"PGDATABASE" env-default:"vciso_engine"`
	MaxConnections int32  `yaml:"max_connections" env:"PGMAX_CONNECTIONS" env-default:"25"`
	SSLMode        string `yaml:"ssl_mode" env:"PGSSLMODE" env-default:"disable"`
}

// AIConfig holds completion provider settings.
// Provider selects the backing API: "anthropic" (default) or "openai" for
// any OpenAI-compatible endpoint.
type AIConfig struct {
	Provider    string  `yaml:"provider" env:"AI_PROVIDER" env-default:"anthropic"`
	Model       string  `yaml:"model" env:"AI_MODEL" env-default:"claude-3-sonnet-20240229"`
	BaseURL     string  `yaml:"base_url" env:"AI_BASE_URL" env-default:""`
	MaxTokens   int     `yaml:"max_tokens" env:"AI_MAX_TOKENS" env-default:"2000"`
	Temperature float64 `yaml:"temperature" env:"AI_TEMPERATURE" env-default:"0.3"`
	APIKey      string  `yaml:"-" env:"AI_API_KEY"` // Secret - not in YAML
}

// AssistantConfig holds settings for calling the assistant endpoint.
type AssistantConfig struct {
	// BaseURL is where the assistant service is reachable. The client SDK
	// appends /api/chat. Empty means the server's own BaseURL.
	BaseURL string `yaml:"base_url" env:"ASSISTANT_BASE_URL" env-default:""`

	// RequestTimeoutSeconds bounds a single completion round-trip.
	RequestTimeoutSeconds int `yaml:"request_timeout_seconds" env:"ASSISTANT_REQUEST_TIMEOUT_SECONDS" env-default:"60"`
}

// RequestTimeout returns the completion round-trip deadline as a duration.
func (c *AssistantConfig) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// ChatConfig holds throttling settings for the chat endpoint.
type ChatConfig struct {
	// RateLimitPerSecond is the sustained request rate allowed per client.
	RateLimitPerSecond float64 `yaml:"rate_limit_per_second" env:"CHAT_RATE_LIMIT_PER_SECOND" env-default:"1"`
	// RateLimitBurst is the burst size allowed per client.
	RateLimitBurst int `yaml:"rate_limit_burst" env:"CHAT_RATE_LIMIT_BURST" env-default:"5"`
}

// Load reads configuration from config.yaml with environment variable overrides.
// If config.yaml does not exist, configuration comes from the environment alone.
// The version parameter is injected at build time and set on the returned Config.
func Load(version string) (*Config, error) {
	cfg := &Config{
		Version: version,
	}

	if _, err := os.Stat("config.yaml"); err == nil {
		if err := cleanenv.ReadConfig("config.yaml", cfg); err != nil {
			return nil, fmt.Errorf("failed to read config.yaml: %w", err)
		}
	} else {
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("failed to read environment: %w", err)
		}
	}

	if cfg.Auth.JWKSURL == "" {
		cfg.Auth.JWKSURL = cfg.Auth.ServiceURL + "/.well-known/jwks.json"
	}

	// Auto-derive BaseURL from Port if not explicitly set.
	if cfg.BaseURL == "" {
		cfg.BaseURL = (&url.URL{
			Scheme: "http",
			Host:   "localhost:" + cfg.Port,
		}).String()
	}

	// The client SDK defaults to the co-located assistant service.
	if cfg.Assistant.BaseURL == "" {
		cfg.Assistant.BaseURL = cfg.BaseURL
	}

	return cfg, nil
}

// ConnectionString returns a PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}
