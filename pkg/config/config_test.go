package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("test-version")
	require.NoError(t, err)

	assert.Equal(t, "test-version", cfg.Version)
	assert.Equal(t, "8000", cfg.Port)
	assert.Equal(t, "http://localhost:8000", cfg.BaseURL)
	assert.Equal(t, "local", cfg.Env)

	assert.Equal(t, "anthropic", cfg.AI.Provider)
	assert.Equal(t, "claude-3-sonnet-20240229", cfg.AI.Model)
	assert.Equal(t, 2000, cfg.AI.MaxTokens)
	assert.InDelta(t, 0.3, cfg.AI.Temperature, 0.0001)

	// JWKS URL derives from the auth service URL.
	assert.Equal(t, cfg.Auth.ServiceURL+"/.well-known/jwks.json", cfg.Auth.JWKSURL)

	// The assistant endpoint defaults to the service's own base URL.
	assert.Equal(t, cfg.BaseURL, cfg.Assistant.BaseURL)
	assert.Equal(t, 60*time.Second, cfg.Assistant.RequestTimeout())
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("PORT", "9100")
	t.Setenv("AI_PROVIDER", "openai")
	t.Setenv("AI_MODEL", "gpt-4o")
	t.Setenv("ASSISTANT_BASE_URL", "https://assistant.example.com")
	t.Setenv("AUTH_JWKS_URL", "https://auth.example.com/keys")
	t.Setenv("PGPASSWORD", "s3cret")

	cfg, err := Load("dev")
	require.NoError(t, err)

	assert.Equal(t, "9100", cfg.Port)
	assert.Equal(t, "http://localhost:9100", cfg.BaseURL)
	assert.Equal(t, "openai", cfg.AI.Provider)
	assert.Equal(t, "gpt-4o", cfg.AI.Model)
	assert.Equal(t, "https://assistant.example.com", cfg.Assistant.BaseURL)
	assert.Equal(t, "https://auth.example.com/keys", cfg.Auth.JWKSURL)
	assert.Equal(t, "s3cret", cfg.Database.Password)
}

func TestDatabaseConfig_ConnectionString(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "db.internal",
		Port:     5433,
		User:     "vciso",
		Password: "pw",
		Database: "vciso_engine",
		SSLMode:  "require",
	}

	assert.Equal(t,
		"host=db.internal port=5433 user=vciso password=pw dbname=vciso_engine sslmode=require",
		cfg.ConnectionString())
}
