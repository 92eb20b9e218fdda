package config_test

import (
	"testing"
	"time"

	"github.com/iho/smartwallet/internal/infrastructure/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if cfg.DatabaseURL == "" {
		t.Fatalf("expected default database URL to be set")
	}

	if cfg.HTTPPort != "8080" {
		t.Fatalf("expected default HTTP port 8080, got %s", cfg.HTTPPort)
	}

	if cfg.RenewalInterval != time.Minute {
		t.Fatalf("expected default renewal interval 1m, got %s", cfg.RenewalInterval)
	}

	if cfg.RenewalLeaseTTL != 2*time.Minute {
		t.Fatalf("expected default renewal lease TTL 2m, got %s", cfg.RenewalLeaseTTL)
	}

	if !cfg.RenewalEnabled {
		t.Fatalf("expected renewal enabled by default")
	}

	if cfg.NotificationURL != "" {
		t.Fatalf("expected notification URL default to be empty, got %q", cfg.NotificationURL)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("REDIS_URL", "redis://example")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("RENEWAL_INTERVAL", "30s")
	t.Setenv("RENEWAL_ENABLED", "false")
	t.Setenv("NOTIFICATION_URL", "http://notifications:8081")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if cfg.DatabaseURL != "postgres://example" {
		t.Fatalf("expected custom database URL, got %s", cfg.DatabaseURL)
	}

	if cfg.RedisURL != "redis://example" {
		t.Fatalf("expected custom redis URL, got %s", cfg.RedisURL)
	}

	if cfg.HTTPPort != "9090" {
		t.Fatalf("expected HTTP port override, got %s", cfg.HTTPPort)
	}

	if cfg.RenewalInterval != 30*time.Second {
		t.Fatalf("expected renewal interval override, got %s", cfg.RenewalInterval)
	}

	if cfg.RenewalEnabled {
		t.Fatalf("expected renewal disabled")
	}

	if cfg.NotificationURL != "http://notifications:8081" {
		t.Fatalf("expected notification URL override, got %s", cfg.NotificationURL)
	}
}
