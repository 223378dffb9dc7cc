package config

import (
	"testing"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_DSN", "host=localhost user=test password=test dbname=test port=5432 sslmode=disable")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.APIPort != 8080 {
		t.Errorf("APIPort = %d, want 8080", cfg.APIPort)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %s, want info", cfg.LogLevel)
	}
	if cfg.PrayerAPIBaseURL != "https://api.aladhan.com/v1" {
		t.Errorf("PrayerAPIBaseURL = %s, want https://api.aladhan.com/v1", cfg.PrayerAPIBaseURL)
	}
	if cfg.CalculationMethod != 2 {
		t.Errorf("CalculationMethod = %d, want 2", cfg.CalculationMethod)
	}
	if cfg.RateLimitPerSec != 50 {
		t.Errorf("RateLimitPerSec = %d, want 50", cfg.RateLimitPerSec)
	}
	if cfg.BulkConcurrency != 4 {
		t.Errorf("BulkConcurrency = %d, want 4", cfg.BulkConcurrency)
	}
	if cfg.CacheTTLHours != 24 {
		t.Errorf("CacheTTLHours = %d, want 24", cfg.CacheTTLHours)
	}
}

func TestLoad_CustomValues(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("API_PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("RATE_LIMIT_PER_SEC", "250")
	t.Setenv("CALCULATION_METHOD", "4")
	t.Setenv("PRAYER_API_BASE_URL", "http://localhost:9999/v1")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.APIPort != 9090 {
		t.Errorf("APIPort = %d, want 9090", cfg.APIPort)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %s, want debug", cfg.LogLevel)
	}
	if cfg.RateLimitPerSec != 250 {
		t.Errorf("RateLimitPerSec = %d, want 250", cfg.RateLimitPerSec)
	}
	if cfg.CalculationMethod != 4 {
		t.Errorf("CalculationMethod = %d, want 4", cfg.CalculationMethod)
	}
	if cfg.PrayerAPIBaseURL != "http://localhost:9999/v1" {
		t.Errorf("PrayerAPIBaseURL = %s, want http://localhost:9999/v1", cfg.PrayerAPIBaseURL)
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	t.Setenv("DATABASE_DSN", "host=localhost")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for missing required env vars, got nil")
	}
}

func TestLoad_RequiredFields(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.DatabaseDSN == "" {
		t.Error("DatabaseDSN should not be empty")
	}
	if cfg.RedisURL == "" {
		t.Error("RedisURL should not be empty")
	}
}
