package configs

import (
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"ENVIRONMENT", "PORT", "ALLOWED_ORIGINS",
		"JWT_SECRET", "JWT_ACCESS_TOKEN_EXPIRES", "DATABASE_URL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadConfig_DevelopmentDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Environment != "development" {
		t.Errorf("expected development environment, got %s", cfg.Environment)
	}
	if cfg.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Port)
	}
	if cfg.JWTSecret == "" {
		t.Error("development must fall back to a default secret")
	}
	if cfg.JWTExpiry != 168*time.Hour {
		t.Errorf("expected default expiry of 168h, got %s", cfg.JWTExpiry)
	}
	if cfg.DatabaseDSN != "" {
		t.Errorf("expected empty DSN, got %s", cfg.DatabaseDSN)
	}
	if len(cfg.AllowedOrigins) != 0 {
		t.Errorf("expected no allowed origins, got %v", cfg.AllowedOrigins)
	}
}

func TestLoadConfig_ProductionRequiresSecretAndDSN(t *testing.T) {
	clearEnv(t)
	t.Setenv("ENVIRONMENT", "production")

	if _, err := LoadConfig(); err == nil {
		t.Fatal("production without JWT_SECRET must fail")
	}

	t.Setenv("JWT_SECRET", "prod-secret")
	if _, err := LoadConfig(); err == nil {
		t.Fatal("production without DATABASE_URL must fail")
	}

	t.Setenv("DATABASE_URL", "postgres://app:pw@db:5432/app")
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.JWTSecret != "prod-secret" {
		t.Errorf("wrong secret: %s", cfg.JWTSecret)
	}
	if cfg.DatabaseDSN != "postgres://app:pw@db:5432/app" {
		t.Errorf("wrong DSN: %s", cfg.DatabaseDSN)
	}
}

func TestLoadConfig_PortValidation(t *testing.T) {
	tests := []struct {
		name    string
		port    string
		wantErr bool
	}{
		{"valid", "9090", false},
		{"not a number", "abc", true},
		{"privileged", "80", true},
		{"too large", "70000", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("PORT", tt.port)

			_, err := LoadConfig()
			if tt.wantErr && err == nil {
				t.Fatalf("expected error for PORT=%s", tt.port)
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestLoadConfig_AllowedOrigins(t *testing.T) {
	clearEnv(t)
	t.Setenv("ALLOWED_ORIGINS", "https://app.example.com, https://staging.example.com ,,")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"https://app.example.com", "https://staging.example.com"}
	if len(cfg.AllowedOrigins) != len(want) {
		t.Fatalf("expected %d origins, got %v", len(want), cfg.AllowedOrigins)
	}
	for i := range want {
		if cfg.AllowedOrigins[i] != want[i] {
			t.Errorf("origin %d: expected %s, got %s", i, want[i], cfg.AllowedOrigins[i])
		}
	}
}

func TestLoadConfig_ExpiryValidation(t *testing.T) {
	for _, bad := range []string{"abc", "0", "-5"} {
		t.Run(bad, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("JWT_ACCESS_TOKEN_EXPIRES", bad)

			if _, err := LoadConfig(); err == nil {
				t.Fatalf("expected error for JWT_ACCESS_TOKEN_EXPIRES=%s", bad)
			}
		})
	}

	clearEnv(t)
	t.Setenv("JWT_ACCESS_TOKEN_EXPIRES", "24")
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.JWTExpiry != 24*time.Hour {
		t.Errorf("expected 24h expiry, got %s", cfg.JWTExpiry)
	}
}
