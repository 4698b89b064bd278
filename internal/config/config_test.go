package config

import (
	"testing"
	"time"
)

func TestLoad_RequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("NATS_URL", "nats://localhost:4222")

	if _, err := Load(); err == nil {
		t.Fatal("expected an error without DATABASE_URL")
	}
}

func TestLoad_RequiresNatsURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/orders")
	t.Setenv("NATS_URL", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected an error without NATS_URL")
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/orders")
	t.Setenv("NATS_URL", "nats://localhost:4222")
	t.Setenv("HTTP_ADDR", "")
	t.Setenv("VALIDATE_TIMEOUT", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected nil err, got %v", err)
	}
	if cfg.HTTPAddr != ":3002" {
		t.Errorf("expected default addr :3002, got %q", cfg.HTTPAddr)
	}
	if cfg.ValidateTimeout != 5*time.Second {
		t.Errorf("expected default timeout 5s, got %v", cfg.ValidateTimeout)
	}
}

func TestLoad_BadTimeout(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/orders")
	t.Setenv("NATS_URL", "nats://localhost:4222")
	t.Setenv("VALIDATE_TIMEOUT", "soon")

	if _, err := Load(); err == nil {
		t.Fatal("expected an error for a malformed duration")
	}
}
