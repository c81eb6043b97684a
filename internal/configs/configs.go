/*
Package configs is responsible for loading and parsing the application's configuration settings.

All values come from environment variables: the running environment, HTTP
port, CORS allowed origins, the JWT signing secret and token lifetime, and
the database connection string.
*/
package configs

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// AppConfig contains all configuration parameters required to run the server.
type AppConfig struct {
	// General Server Settings
	Environment string
	Port        int

	// Security Settings
	AllowedOrigins []string
	JWTSecret      string

	// JWTExpiry is the validity window for issued access tokens. The long
	// default keeps sessions alive across the payment redirect flow.
	JWTExpiry time.Duration

	// Database Settings
	DatabaseDSN string
}

// LoadConfig reads and parses the application configuration from environment
// variables, applying development defaults and validating required values.
func LoadConfig() (*AppConfig, error) {
	cfg := &AppConfig{}

	// --- General Server Settings ---
	cfg.Environment = os.Getenv("ENVIRONMENT")
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}

	portStr := os.Getenv("PORT")
	if portStr == "" {
		portStr = "8080"
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT environment variable: %w", err)
	}
	cfg.Port = port

	if cfg.Port < 1024 || cfg.Port > 65535 {
		return nil, fmt.Errorf("port number %d is outside the recommended range (%d-%d) to avoid privileged ports", cfg.Port, 1024, 65535)
	}

	// --- Security Settings ---
	originsStr := os.Getenv("ALLOWED_ORIGINS")
	if originsStr != "" {
		origins := strings.Split(originsStr, ",")
		for _, origin := range origins {
			trimmed := strings.TrimSpace(origin)
			if trimmed != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, trimmed)
			}
		}
	} else {
		cfg.AllowedOrigins = []string{}
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if cfg.Environment == "development" {
		if jwtSecret == "" {
			jwtSecret = "your_default_insecure_secret_key_change_me"
		}
	} else {
		if jwtSecret == "" {
			return nil, fmt.Errorf("JWT_SECRET environment variable is required in %s environment for security", cfg.Environment)
		}
	}
	cfg.JWTSecret = jwtSecret

	expiryStr := os.Getenv("JWT_ACCESS_TOKEN_EXPIRES")
	if expiryStr == "" {
		expiryStr = "168"
	}
	expiryHours, err := strconv.Atoi(expiryStr)
	if err != nil || expiryHours <= 0 {
		return nil, fmt.Errorf("invalid JWT_ACCESS_TOKEN_EXPIRES environment variable: %q", expiryStr)
	}
	cfg.JWTExpiry = time.Duration(expiryHours) * time.Hour

	// --- Database Settings ---
	// An empty DSN in development runs the room store in memory.
	cfg.DatabaseDSN = os.Getenv("DATABASE_URL")
	if cfg.DatabaseDSN == "" && cfg.Environment != "development" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required in %s environment", cfg.Environment)
	}

	return cfg, nil
}
