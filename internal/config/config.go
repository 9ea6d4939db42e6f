package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strings"
)

const (
	defaultPort     = "3000"
	defaultBrand    = "SuperSaha"
	defaultWorkflow = "6" // provider workflow: SMS-only delivery, no voice fallback
)

// Config holds the application configuration
type Config struct {
	DatabaseURL    string
	Port           string
	JWTSecret      string
	ProviderKey    string
	ProviderSecret string
	SMSBrand       string
	VerifyWorkflow string
	VerifyBaseURL  string
	SMSBaseURL     string
}

// Load reads configuration from environment variables. Missing provider
// credentials, JWT secret or database URL are fatal: the process must not
// start with undefined credentials.
func Load() (*Config, error) {
	cfg := &Config{
		Port:           defaultPort,
		SMSBrand:       defaultBrand,
		VerifyWorkflow: defaultWorkflow,
	}

	// Load DATABASE_URL and log connection details (password masked)
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}
	cfg.DatabaseURL = databaseURL

	if u, err := url.Parse(databaseURL); err == nil {
		host := u.Hostname()
		if host == "" {
			host = "localhost"
		}
		port := u.Port()
		if port == "" {
			port = "5432"
		}
		dbName := strings.TrimPrefix(u.Path, "/")
		if idx := strings.Index(dbName, "?"); idx >= 0 {
			dbName = dbName[:idx]
		}
		user := u.User.Username()
		if user == "" {
			user = "(none)"
		}
		log.Printf("DB connect: host=%s port=%s db=%s user=%s", host, port, dbName, user)
	}

	// Load PORT (optional, defaults to 3000)
	if port := os.Getenv("PORT"); port != "" {
		cfg.Port = port
	}

	// Load JWT_SECRET (required)
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is required")
	}
	cfg.JWTSecret = jwtSecret

	// Provider credentials (required)
	providerKey := os.Getenv("PROVIDER_API_KEY")
	if providerKey == "" {
		return nil, fmt.Errorf("PROVIDER_API_KEY environment variable is required")
	}
	cfg.ProviderKey = providerKey

	providerSecret := os.Getenv("PROVIDER_API_SECRET")
	if providerSecret == "" {
		return nil, fmt.Errorf("PROVIDER_API_SECRET environment variable is required")
	}
	cfg.ProviderSecret = providerSecret

	// Sender name shown to the end user (optional, fixed per deployment)
	if brand := os.Getenv("SMS_BRAND"); brand != "" {
		cfg.SMSBrand = brand
	}

	// Verification workflow selector (optional; the default keeps delivery SMS-only)
	if workflow := os.Getenv("VERIFY_WORKFLOW"); workflow != "" {
		cfg.VerifyWorkflow = workflow
	}

	// Provider base URLs (optional, overridden in tests)
	cfg.VerifyBaseURL = os.Getenv("VERIFY_BASE_URL")
	cfg.SMSBaseURL = os.Getenv("SMS_BASE_URL")

	return cfg, nil
}
