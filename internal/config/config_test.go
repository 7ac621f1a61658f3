package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{
		"WANDER_HTTP_ADDR", "WANDER_AI_PROVIDER", "GEMINI_API_KEY", "API_KEY",
		"WANDER_MAPS_KEY", "WANDER_REDIS_ADDR", "WANDER_DB_DSN", "WANDER_GENERATION_TIMEOUT",
		"WANDER_CORS_ORIGINS", "WANDER_SESSION_TTL", "WANDER_RATE_PER_MIN",
	} {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, []string{"*"}, cfg.HTTP.CORSOrigins)
	assert.Equal(t, 5, cfg.HTTP.RatePerMin)
	assert.Equal(t, "gemini", cfg.AI.Provider)
	assert.Zero(t, cfg.AI.Timeout)
	assert.Empty(t, cfg.AI.APIKey())
	assert.Equal(t, 2*time.Hour, cfg.Session.TTL)
	assert.Equal(t, 100, cfg.Quota.Monthly)
}

func TestLoadSharedKeyFallback(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("WANDER_MAPS_KEY", "")
	t.Setenv("API_KEY", "shared-key")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "shared-key", cfg.AI.GeminiKey)
	assert.Equal(t, "shared-key", cfg.Maps.Key)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("WANDER_AI_PROVIDER", "OpenAI")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("WANDER_GENERATION_TIMEOUT", "45s")
	t.Setenv("WANDER_CORS_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("WANDER_RATE_PER_MIN", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "openai", cfg.AI.Provider)
	assert.Equal(t, "sk-test", cfg.AI.APIKey())
	assert.Equal(t, 45*time.Second, cfg.AI.Timeout)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.HTTP.CORSOrigins)
	assert.Equal(t, 5, cfg.HTTP.RatePerMin)
}
