package config

import (
	"fmt"
	"os"
	"time"
)

// Config holds everything the process needs from the environment.
// Required values are checked eagerly so a misconfigured deployment
// fails at startup instead of on the first request.
type Config struct {
	DatabaseURL     string
	NatsURL         string
	HTTPAddr        string
	ValidateTimeout time.Duration
}

func Load() (Config, error) {
	cfg := Config{
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		NatsURL:         os.Getenv("NATS_URL"),
		HTTPAddr:        os.Getenv("HTTP_ADDR"),
		ValidateTimeout: 5 * time.Second,
	}

	if cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.NatsURL == "" {
		return Config{}, fmt.Errorf("NATS_URL is required")
	}
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":3002"
	}

	if raw := os.Getenv("VALIDATE_TIMEOUT"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return Config{}, fmt.Errorf("VALIDATE_TIMEOUT has wrong value %q: %w", raw, err)
		}
		cfg.ValidateTimeout = d
	}

	return cfg, nil
}
