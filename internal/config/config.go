// README: Config loader with env defaults for HTTP, AI, Maps, sessions, quota and limits.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type AIConfig struct {
	Provider  string
	Model     string
	GeminiKey string
	OpenAIKey string
	// Timeout bounds one generation call. Zero leaves the transport default in place.
	Timeout time.Duration
}

type SessionConfig struct {
	RedisAddr string
	TTL       time.Duration
}

type QuotaConfig struct {
	DSN     string
	Monthly int
}

type Config struct {
	HTTP struct {
		Addr        string
		CORSOrigins []string
		RatePerMin  int
	}
	AI      AIConfig
	Maps    struct{ Key string }
	Session SessionConfig
	Quota   QuotaConfig
	Log     struct {
		Level string
		Dev   bool
	}
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first when present; variables already set win.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	cfg.HTTP.Addr = envOrDefault("WANDER_HTTP_ADDR", ":8080")
	cfg.HTTP.CORSOrigins = envList("WANDER_CORS_ORIGINS", []string{"*"})
	cfg.HTTP.RatePerMin = envOrDefaultInt("WANDER_RATE_PER_MIN", 5)

	cfg.AI.Provider = strings.ToLower(envOrDefault("WANDER_AI_PROVIDER", "gemini"))
	cfg.AI.Model = envOrDefault("WANDER_AI_MODEL", "")
	cfg.AI.GeminiKey = envOrDefault("GEMINI_API_KEY", os.Getenv("API_KEY"))
	cfg.AI.OpenAIKey = os.Getenv("OPENAI_API_KEY")
	cfg.AI.Timeout = envOrDefaultDuration("WANDER_GENERATION_TIMEOUT", 0)

	// The map embed shares the model credential unless a dedicated key is given.
	cfg.Maps.Key = envOrDefault("WANDER_MAPS_KEY", cfg.AI.GeminiKey)

	cfg.Session.RedisAddr = os.Getenv("WANDER_REDIS_ADDR")
	cfg.Session.TTL = envOrDefaultDuration("WANDER_SESSION_TTL", 2*time.Hour)

	cfg.Quota.DSN = os.Getenv("WANDER_DB_DSN")
	cfg.Quota.Monthly = envOrDefaultInt("WANDER_QUOTA_MONTHLY", 100)

	cfg.Log.Level = envOrDefault("WANDER_LOG_LEVEL", "info")
	cfg.Log.Dev = envOrDefaultBool("WANDER_LOG_DEV", false)
	return cfg, nil
}

// APIKey returns the credential of the configured provider.
func (c AIConfig) APIKey() string {
	if c.Provider == "openai" {
		return c.OpenAIKey
	}
	return c.GeminiKey
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envOrDefaultInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envOrDefaultBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func envOrDefaultDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func envList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
