package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/iho/moneytransfer/internal/infrastructure/config"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("REDIS_URL", "")

	cfg, err := config.LoadFiles()
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if cfg.LockTimeout != 5*time.Second {
		t.Fatalf("expected default lock timeout 5s, got %s", cfg.LockTimeout)
	}

	if cfg.TransactionTimeout != 10*time.Second {
		t.Fatalf("expected default transaction timeout 10s, got %s", cfg.TransactionTimeout)
	}

	if cfg.AuthMaxAttempts != 3 {
		t.Fatalf("expected 3 auth attempts, got %d", cfg.AuthMaxAttempts)
	}

	if cfg.RedisURL != "" {
		t.Fatalf("expected redis to be disabled by default, got %q", cfg.RedisURL)
	}

	loc, err := cfg.Location()
	if err != nil || loc != time.UTC {
		t.Fatalf("expected UTC business timezone, got %v (%v)", loc, err)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("REDIS_URL", "redis://example")
	t.Setenv("LOCK_TIMEOUT", "2s")
	t.Setenv("TRANSACTION_TIMEOUT", "45s")
	t.Setenv("BUSINESS_TIMEZONE", "Asia/Kolkata")
	t.Setenv("AUTH_MAX_ATTEMPTS", "5")

	cfg, err := config.LoadFiles()
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if cfg.RedisURL != "redis://example" {
		t.Fatalf("expected custom redis URL, got %s", cfg.RedisURL)
	}

	if cfg.LockTimeout != 2*time.Second || cfg.TransactionTimeout != 45*time.Second {
		t.Fatalf("expected timeout overrides, got %s / %s", cfg.LockTimeout, cfg.TransactionTimeout)
	}

	if cfg.AuthMaxAttempts != 5 {
		t.Fatalf("expected 5 auth attempts, got %d", cfg.AuthMaxAttempts)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"unknown timezone", map[string]string{"BUSINESS_TIMEZONE": "Mars/Olympus"}},
		{"lock timeout above transaction timeout", map[string]string{"LOCK_TIMEOUT": "30s", "TRANSACTION_TIMEOUT": "10s"}},
		{"zero auth attempts", map[string]string{"AUTH_MAX_ATTEMPTS": "0"}},
		{"malformed duration", map[string]string{"LOCK_TIMEOUT": "soon"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("DATABASE_URL", "postgres://example")

			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			if _, err := config.LoadFiles(); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestLoadDotEnvFile(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://from-env")
	// Registers cleanup so the value loaded from the file does not leak.
	t.Setenv("METRICS_JOB", "")
	os.Unsetenv("METRICS_JOB")

	path := filepath.Join(t.TempDir(), ".env")
	content := "DATABASE_URL=postgres://from-file\nMETRICS_JOB=nightly\n"

	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}

	cfg, err := config.LoadFiles(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.DatabaseURL != "postgres://from-env" {
		t.Fatalf("real environment must win over .env, got %s", cfg.DatabaseURL)
	}

	if cfg.MetricsJob != "nightly" {
		t.Fatalf("expected METRICS_JOB from .env, got %s", cfg.MetricsJob)
	}
}

func TestLoadMissingDotEnvIsIgnored(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://example")

	if _, err := config.LoadFiles(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Fatalf("expected missing file to be ignored, got %v", err)
	}
}
