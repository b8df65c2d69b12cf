package main

import (
	"strings"
	"testing"
	"time"

	"vocabquiz/internal/wordbank"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Port != "5246" {
		t.Errorf("default port = %q, want 5246", cfg.Port)
	}
	if cfg.SessionBackend != BackendMemory {
		t.Errorf("default backend = %q, want memory", cfg.SessionBackend)
	}
	if cfg.SessionTimeout != 2*time.Hour {
		t.Errorf("default session timeout = %v, want 2h", cfg.SessionTimeout)
	}
	if cfg.RateLimitIdle != 10*time.Minute {
		t.Errorf("default rate limiter idle window = %v, want 10m", cfg.RateLimitIdle)
	}
	if cfg.Sampling() != wordbank.SampleByBucket {
		t.Errorf("default sampling = %v, want bucket", cfg.Sampling())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate, got %v", err)
	}
}

func TestLoadConfig_FromEnv(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("PORT", "8080")
	t.Setenv("WORD_SAMPLING", "word")
	t.Setenv("SESSION_BACKEND", "redis")
	t.Setenv("REDIS_ADDR", "cache:6380")
	t.Setenv("SESSION_TIMEOUT", "45m")
	t.Setenv("RATE_LIMIT_BURST", "3")

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if !cfg.IsProduction() {
		t.Error("APP_ENV=production should enable production mode")
	}
	if cfg.Addr() != "0.0.0.0:8080" {
		t.Errorf("Addr() = %q, want 0.0.0.0:8080", cfg.Addr())
	}
	if cfg.Sampling() != wordbank.SampleByWord {
		t.Errorf("sampling = %v, want word", cfg.Sampling())
	}
	if cfg.Redis.Addr != "cache:6380" {
		t.Errorf("redis addr = %q", cfg.Redis.Addr)
	}
	if cfg.SessionTimeout != 45*time.Minute {
		t.Errorf("session timeout = %v, want 45m", cfg.SessionTimeout)
	}
	if cfg.RateLimitBurst != 3 {
		t.Errorf("burst = %d, want 3", cfg.RateLimitBurst)
	}
}

func TestLoadConfig_BadDuration(t *testing.T) {
	t.Setenv("SESSION_TIMEOUT", "soon")
	if _, err := loadConfig(); err == nil {
		t.Fatal("expected a parse error for SESSION_TIMEOUT=soon")
	}
}

func TestIsProduction_GinMode(t *testing.T) {
	cfg := &Config{Env: "development", GinMode: "release"}
	if !cfg.IsProduction() {
		t.Error("GIN_MODE=release should count as production")
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := testConfig()
	cfg.WordSampling = "letter"
	cfg.SessionBackend = "postgres"
	cfg.RateLimitRPS = 0

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation errors")
	}
	for _, want := range []string{"letter", "postgres", "RATE_LIMIT_RPS"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("validation error %q should mention %q", err, want)
		}
	}
}
