package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Valcre environment names recognized by Load.
const (
	ValcreEnvTest       = "test"
	ValcreEnvProduction = "production"
)

// Known practice-management API endpoints keyed by environment.
var valcreEndpoints = map[string]string{
	ValcreEnvTest:       "https://api.test.valcre.com",
	ValcreEnvProduction: "https://api.valcre.com",
}

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	CORS     CORSConfig
	Valcre   ValcreConfig
	ClickUp  ClickUpConfig
	DocuSeal DocuSealConfig
	Email    EmailConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string
	Env  string
}

// DatabaseConfig holds PostgreSQL connection configuration.
type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	PoolMin  int
	PoolMax  int
}

// CORSConfig holds CORS configuration.
type CORSConfig struct {
	Origins []string
}

// ValcreConfig holds practice-management API configuration. The base URL is
// selected by environment rather than configured directly, so a stale
// endpoint variable can never point test credentials at production.
type ValcreConfig struct {
	Environment  string // test | production
	ClientID     string
	ClientSecret string
	Username     string
	Password     string
}

// BaseURL returns the API endpoint for the configured environment.
func (v ValcreConfig) BaseURL() string {
	return valcreEndpoints[v.Environment]
}

// ClickUpConfig holds task-tracking API configuration.
type ClickUpConfig struct {
	Token      string
	ListID     string
	TemplateID string
}

// DocuSealConfig holds e-signature API configuration.
type DocuSealConfig struct {
	BaseURL string
	APIKey  string
}

// EmailConfig holds the outbound email delivery provider configuration.
type EmailConfig struct {
	BaseURL     string
	APIKey      string
	FromAddress string
}

// Load reads configuration from environment variables.
// It uses viper to read values and provides sensible defaults for development.
func Load() (*Config, error) {
	v := viper.New()

	// Set defaults for development
	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_NAME", "dashboard")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_POOL_MIN", 2)
	v.SetDefault("DB_POOL_MAX", 10)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000,http://localhost:3001")
	v.SetDefault("VALCRE_ENV", ValcreEnvTest)
	v.SetDefault("DOCUSEAL_BASE_URL", "https://api.docuseal.com")
	v.SetDefault("EMAIL_BASE_URL", "https://api.resend.com")
	v.SetDefault("EMAIL_FROM", "jobs@chinookvaluation.ca")

	// Bind environment variables
	v.AutomaticEnv()

	// Build configuration
	cfg := &Config{
		Server: ServerConfig{
			Port: v.GetString("PORT"),
			Env:  v.GetString("ENV"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			Name:     v.GetString("DB_NAME"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			PoolMin:  v.GetInt("DB_POOL_MIN"),
			PoolMax:  v.GetInt("DB_POOL_MAX"),
		},
		CORS: CORSConfig{
			Origins: parseOrigins(v.GetString("CORS_ORIGINS")),
		},
		Valcre: ValcreConfig{
			Environment:  v.GetString("VALCRE_ENV"),
			ClientID:     v.GetString("VALCRE_CLIENT_ID"),
			ClientSecret: v.GetString("VALCRE_CLIENT_SECRET"),
			Username:     v.GetString("VALCRE_USERNAME"),
			Password:     v.GetString("VALCRE_PASSWORD"),
		},
		ClickUp: ClickUpConfig{
			Token:      v.GetString("CLICKUP_TOKEN"),
			ListID:     v.GetString("CLICKUP_LIST_ID"),
			TemplateID: v.GetString("CLICKUP_TEMPLATE_ID"),
		},
		DocuSeal: DocuSealConfig{
			BaseURL: v.GetString("DOCUSEAL_BASE_URL"),
			APIKey:  v.GetString("DOCUSEAL_API_KEY"),
		},
		Email: EmailConfig{
			BaseURL:     v.GetString("EMAIL_BASE_URL"),
			APIKey:      v.GetString("EMAIL_API_KEY"),
			FromAddress: v.GetString("EMAIL_FROM"),
		},
	}

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that required configuration is present and valid.
func (c *Config) Validate() error {
	// Validate server config
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	// Validate database config
	if c.Database.Host == "" {
		return fmt.Errorf("DB_HOST is required")
	}
	if c.Database.Port == "" {
		return fmt.Errorf("DB_PORT is required")
	}
	if c.Database.Name == "" {
		return fmt.Errorf("DB_NAME is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("DB_USER is required")
	}
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.Database.PoolMin < 0 {
		return fmt.Errorf("DB_POOL_MIN must be non-negative")
	}
	if c.Database.PoolMax < 1 {
		return fmt.Errorf("DB_POOL_MAX must be at least 1")
	}
	if c.Database.PoolMin > c.Database.PoolMax {
		return fmt.Errorf("DB_POOL_MIN must be less than or equal to DB_POOL_MAX")
	}

	// Validate CORS config
	if len(c.CORS.Origins) == 0 {
		return fmt.Errorf("CORS_ORIGINS is required")
	}

	// Validate external integration config
	if _, ok := valcreEndpoints[c.Valcre.Environment]; !ok {
		return fmt.Errorf("VALCRE_ENV must be one of: %s, %s", ValcreEnvTest, ValcreEnvProduction)
	}
	if c.DocuSeal.BaseURL == "" {
		return fmt.Errorf("DOCUSEAL_BASE_URL is required")
	}
	if c.Email.FromAddress == "" {
		return fmt.Errorf("EMAIL_FROM is required")
	}

	return nil
}

// parseOrigins splits a comma-separated string of origins into a slice.
func parseOrigins(origins string) []string {
	if origins == "" {
		return []string{}
	}

	parts := strings.Split(origins, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
