package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.ServerPort != 5001 {
		t.Errorf("ServerPort = %d, want 5001", cfg.ServerPort)
	}
	if cfg.TokenTTL != 7*24*time.Hour {
		t.Errorf("TokenTTL = %v, want 168h", cfg.TokenTTL)
	}
	if cfg.CookieName != "authToken" {
		t.Errorf("CookieName = %q, want authToken", cfg.CookieName)
	}
	if cfg.JWTIssuer != "wanderon-auth" {
		t.Errorf("JWTIssuer = %q, want wanderon-auth", cfg.JWTIssuer)
	}
	if cfg.BcryptCost != 12 {
		t.Errorf("BcryptCost = %d, want 12", cfg.BcryptCost)
	}
	if cfg.MaxLoginAttempts != 5 {
		t.Errorf("MaxLoginAttempts = %d, want 5", cfg.MaxLoginAttempts)
	}
	if cfg.LockoutDuration != 15*time.Minute {
		t.Errorf("LockoutDuration = %v, want 15m", cfg.LockoutDuration)
	}
	if !cfg.RateLimitEnabled {
		t.Error("RateLimitEnabled = false, want true by default")
	}
	if cfg.MaxRequestBodySize != 10*1024 {
		t.Errorf("MaxRequestBodySize = %d, want 10240", cfg.MaxRequestBodySize)
	}
	if cfg.IsProduction() {
		t.Error("default environment should not be production")
	}
}

func TestLoad_RequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	if _, err := Load(); err == nil {
		t.Fatal("Load succeeded without JWT_SECRET")
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("SERVER_PORT", "8080")
	t.Setenv("JWT_TTL", "24h")
	t.Setenv("MAX_LOGIN_ATTEMPTS", "3")
	t.Setenv("LOCKOUT_MINUTES", "30")
	t.Setenv("RATE_LIMIT_ENABLED", "false")
	t.Setenv("APP_ENV", "production")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.ServerPort != 8080 {
		t.Errorf("ServerPort = %d, want 8080", cfg.ServerPort)
	}
	if cfg.TokenTTL != 24*time.Hour {
		t.Errorf("TokenTTL = %v, want 24h", cfg.TokenTTL)
	}
	if cfg.MaxLoginAttempts != 3 {
		t.Errorf("MaxLoginAttempts = %d, want 3", cfg.MaxLoginAttempts)
	}
	if cfg.LockoutDuration != 30*time.Minute {
		t.Errorf("LockoutDuration = %v, want 30m", cfg.LockoutDuration)
	}
	if cfg.RateLimitEnabled {
		t.Error("RATE_LIMIT_ENABLED=false not honored")
	}
	if !cfg.IsProduction() {
		t.Error("IsProduction = false with APP_ENV=production")
	}
}

func TestLoad_MalformedValuesFallBack(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("SERVER_PORT", "not-a-number")
	t.Setenv("JWT_TTL", "soon")
	t.Setenv("RATE_LIMIT_ENABLED", "yes-please")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.ServerPort != 5001 {
		t.Errorf("ServerPort = %d, want default on parse failure", cfg.ServerPort)
	}
	if cfg.TokenTTL != 7*24*time.Hour {
		t.Errorf("TokenTTL = %v, want default on parse failure", cfg.TokenTTL)
	}
	if !cfg.RateLimitEnabled {
		t.Error("RateLimitEnabled should keep its default on parse failure")
	}
}
