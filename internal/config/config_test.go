package config

import (
	"testing"
	"time"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("SESSION_SECRET", "0123456789abcdef0123456789abcdef")
	t.Setenv("STRIPE_SECRET_KEY", "sk_test_123")
}

func TestLoadRequiresSessionSecret(t *testing.T) {
	t.Setenv("SESSION_SECRET", "")
	t.Setenv("STRIPE_SECRET_KEY", "sk_test_123")

	if _, err := Load(); err == nil {
		t.Fatal("expected error without SESSION_SECRET")
	}
}

func TestLoadRequiresStripeKey(t *testing.T) {
	t.Setenv("SESSION_SECRET", "0123456789abcdef0123456789abcdef")
	t.Setenv("STRIPE_SECRET_KEY", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error without STRIPE_SECRET_KEY")
	}
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PORT", "")
	t.Setenv("PUBLIC_BASE_URL", "")
	t.Setenv("APP_ENV", "")
	t.Setenv("XAI_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}

	if cfg.Server.Addr != ":8080" {
		t.Fatalf("unexpected addr: %s", cfg.Server.Addr)
	}
	if cfg.Server.PublicBaseURL != "http://localhost:8080" {
		t.Fatalf("unexpected base url: %s", cfg.Server.PublicBaseURL)
	}
	if cfg.Server.Production {
		t.Fatal("development must not set the secure cookie flag")
	}
	if cfg.Session.TTL != 24*time.Hour {
		t.Fatalf("unexpected session ttl: %v", cfg.Session.TTL)
	}
	if cfg.Payment.AmountCents != 500 || cfg.Payment.Currency != "usd" {
		t.Fatalf("unexpected payment defaults: %+v", cfg.Payment)
	}
	if cfg.AI.Enabled() {
		t.Fatal("AI must be disabled without an API key")
	}
	if cfg.AI.Model != "grok-3" || cfg.AI.BaseURL != "https://api.x.ai/v1" {
		t.Fatalf("unexpected AI defaults: %+v", cfg.AI)
	}
	if cfg.AI.Temperature == nil || *cfg.AI.Temperature != 0.8 {
		t.Fatalf("unexpected temperature default: %v", cfg.AI.Temperature)
	}
	if cfg.AI.MaxTokens == nil || *cfg.AI.MaxTokens != 500 {
		t.Fatalf("unexpected max tokens default: %v", cfg.AI.MaxTokens)
	}
	if cfg.Moderation.Enabled() {
		t.Fatal("moderation must be disabled without an API key")
	}
	if !cfg.Moderation.FailOpen {
		t.Fatal("moderation must default to fail-open")
	}
}

func TestLoadProductionFlag(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("APP_ENV", "production")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}
	if !cfg.Server.Production {
		t.Fatal("expected production flag")
	}
}

func TestLoadTrimsBaseURLSlash(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PUBLIC_BASE_URL", "https://amanda.example/")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}
	if cfg.Server.PublicBaseURL != "https://amanda.example" {
		t.Fatalf("unexpected base url: %s", cfg.Server.PublicBaseURL)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	setRequiredEnv(t)

	t.Setenv("MODERATION_FAIL_OPEN", "definitely")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for bad MODERATION_FAIL_OPEN")
	}
	t.Setenv("MODERATION_FAIL_OPEN", "")

	t.Setenv("SESSION_TTL_HOURS", "0")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for non-positive SESSION_TTL_HOURS")
	}
	t.Setenv("SESSION_TTL_HOURS", "")

	t.Setenv("PORT", "80 80")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for malformed PORT")
	}
}
