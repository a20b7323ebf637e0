package config

import (
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/joho/godotenv"
	"go-simpler.org/env"
)

type Config struct {
	AppEnv             string `env:"APP_ENV" default:"development"`
	Port               string `env:"PORT" default:"8080"`
	BackendURL         string `env:"BACKEND_URL" default:"http://localhost:4000"`
	SessionSecret      string `env:"SESSION_SECRET"`
	TokenEncryptionKey string `env:"TOKEN_ENCRYPTION_KEY"`
	RedisURL           string `env:"REDIS_URL"`
	LogLevel           string `env:"LOG_LEVEL" default:"info"`
	LogFormat          string `env:"LOG_FORMAT" default:"text"`

	BackendTimeout time.Duration `env:"BACKEND_TIMEOUT" default:"0s"`  // 0 waits for the backend indefinitely
	SessionMaxAge  time.Duration `env:"SESSION_MAX_AGE" default:"24h"` // 1 day
	ViewTTL        time.Duration `env:"VIEW_TTL" default:"30m"`

	RateLimitRPS   float64 `env:"RATE_LIMIT_RPS" default:"10"`
	RateLimitBurst int     `env:"RATE_LIMIT_BURST" default:"20"`
}

// IsProduction reports whether cookies must be marked secure.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	var cfg Config
	if err := env.Load(&cfg, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func validate(cfg *Config) error {
	if cfg.SessionSecret == "" {
		return errors.New("SESSION_SECRET is required")
	}
	if len(cfg.SessionSecret) < 16 {
		return errors.New("SESSION_SECRET must be at least 16 characters")
	}

	backend, err := url.Parse(cfg.BackendURL)
	if err != nil || backend.Host == "" || (backend.Scheme != "http" && backend.Scheme != "https") {
		return fmt.Errorf("BACKEND_URL must be an absolute http(s) URL, got %q", cfg.BackendURL)
	}

	if cfg.TokenEncryptionKey != "" {
		keyBytes, err := hex.DecodeString(cfg.TokenEncryptionKey)
		if err != nil {
			return fmt.Errorf("TOKEN_ENCRYPTION_KEY must be valid hex: %w", err)
		}
		if len(keyBytes) != 32 {
			return fmt.Errorf("TOKEN_ENCRYPTION_KEY must be exactly 64 hex characters (32 bytes), got %d bytes", len(keyBytes))
		}
	}

	if cfg.BackendTimeout < 0 {
		return errors.New("BACKEND_TIMEOUT must not be negative")
	}
	if cfg.SessionMaxAge <= 0 {
		return errors.New("SESSION_MAX_AGE must be positive")
	}
	if cfg.ViewTTL <= 0 {
		return errors.New("VIEW_TTL must be positive")
	}
	if cfg.RateLimitRPS <= 0 || cfg.RateLimitBurst <= 0 {
		return errors.New("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive")
	}

	return nil
}
