package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"campus-gateway/internal/pkg/token"
)

type AppConfig struct {
	// Server
	HTTPAddr string
	Env      string

	// Redis
	RedisAddr      string
	RedisPass      string
	RedisDB        int
	RedisNamespace string

	// Postgres
	DatabaseURL string

	// Token
	Token token.Config

	// Sessions
	SessionTTL time.Duration

	// Rate limiting
	RateLimitWindow time.Duration
	RateLimitMax    int64

	// Pipeline
	DispatchTimeout time.Duration
}

// IsProduction reports whether the gateway runs with production hardening
// (secure cookies, no internal detail in error messages).
func (c AppConfig) IsProduction() bool {
	return c.Env == "production"
}

// Load reads environment variables into AppConfig, once at process start.
// A missing signing secret is a fatal configuration error, not a per-request
// failure.
func Load() (AppConfig, error) {
	secret := os.Getenv("RPC_TOKEN_SECRET")
	if secret == "" {
		return AppConfig{}, fmt.Errorf("RPC_TOKEN_SECRET is required")
	}

	cfg := AppConfig{
		HTTPAddr: getEnv("HTTP_ADDR", ":8000"),
		Env:      getEnv("APP_ENV", "development"),

		RedisAddr:      getEnv("REDIS_ADDR", ""),
		RedisPass:      getEnv("REDIS_PASS", ""),
		RedisDB:        getEnvInt("REDIS_DB", 0),
		RedisNamespace: getEnv("REDIS_NAMESPACE", "campus"),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		Token: token.Config{
			Secret:   secret,
			Issuer:   "campus-gateway",
			Audience: "campus-portals",
			TTL:      getEnvDuration("TOKEN_TTL", 2*time.Hour),
		},

		SessionTTL: getEnvDuration("SESSION_TTL", 12*time.Hour),

		RateLimitWindow: getEnvDuration("RATE_LIMIT_WINDOW", time.Minute),
		RateLimitMax:    int64(getEnvInt("RATE_LIMIT_MAX", 120)),

		DispatchTimeout: getEnvDuration("RPC_DISPATCH_TIMEOUT", 10*time.Second),
	}

	return cfg, nil
}

// --- Helper functions ---

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
