package config

import (
	"fmt"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

// Environment represents different deployment environments
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvTesting     Environment = "testing"
	EnvProduction  Environment = "production"
)

// Config holds the configuration for the health bridge service.
// Environment variables are parsed from the HEALTHBRIDGE_ prefix.
type Config struct {
	Environment Environment `envconfig:"ENVIRONMENT" default:"development"`

	// HTTP Configuration
	HTTPPort int `envconfig:"HTTP_PORT" default:"8080"`

	// Record store driver: sqlite, postgres, or auto (derives sqlite)
	DBDriver    string `envconfig:"DB_DRIVER" default:"auto"`
	SQLitePath  string `envconfig:"SQLITE_PATH" default:"./data/healthbridge.db"`
	PostgresDSN string `envconfig:"POSTGRES_DSN" default:""`

	// Platform gating for the type registry
	PlatformVersion int    `envconfig:"PLATFORM_VERSION" default:"34"`
	Features        string `envconfig:"FEATURES" default:"feature.skinTemperature"`

	// Batch limits
	MaxBatchSize int `envconfig:"MAX_BATCH_SIZE" default:"1000"`
}

// ResolveDefaults validates the driver selection and derives it when set to
// "auto" or empty.
func (c *Config) ResolveDefaults() error {
	if c.DBDriver == "" || c.DBDriver == "auto" {
		c.DBDriver = "sqlite"
	}
	allowedDB := map[string]bool{"sqlite": true, "postgres": true}
	if !allowedDB[c.DBDriver] {
		return fmt.Errorf("unsupported DB_DRIVER: %s", c.DBDriver)
	}
	if c.DBDriver == "postgres" && c.PostgresDSN == "" {
		return fmt.Errorf("POSTGRES_DSN is required when DB_DRIVER=postgres")
	}
	if c.PlatformVersion <= 0 {
		return fmt.Errorf("PLATFORM_VERSION must be positive")
	}
	if c.MaxBatchSize <= 0 {
		return fmt.Errorf("MAX_BATCH_SIZE must be positive")
	}
	return nil
}

// FeatureList splits the comma-separated feature flags.
func (c *Config) FeatureList() []string {
	if c.Features == "" {
		return nil
	}
	parts := strings.Split(c.Features, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// New creates a Config by parsing environment variables.
// Example: HEALTHBRIDGE_HTTP_PORT, HEALTHBRIDGE_DB_DRIVER.
func New() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("HEALTHBRIDGE", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	if err := cfg.ResolveDefaults(); err != nil {
		return nil, err
	}

	log.Info().
		Str("environment", string(cfg.Environment)).
		Str("db_driver", cfg.DBDriver).
		Int("port", cfg.HTTPPort).
		Int("platform_version", cfg.PlatformVersion).
		Str("features", cfg.Features).
		Int("max_batch_size", cfg.MaxBatchSize).
		Msg("Configuration loaded")

	return &cfg, nil
}

// NewForTesting creates a config suitable for tests.
func NewForTesting() *Config {
	return &Config{
		Environment:     EnvTesting,
		HTTPPort:        8080,
		DBDriver:        "sqlite",
		SQLitePath:      ":memory:",
		PlatformVersion: 34,
		Features:        "feature.skinTemperature",
		MaxBatchSize:    1000,
	}
}

// IsTesting returns true if the environment is set to testing
func (c *Config) IsTesting() bool { return c.Environment == EnvTesting }

// IsProduction returns true if the environment is set to production
func (c *Config) IsProduction() bool { return c.Environment == EnvProduction }

// GetHTTPAddr returns the HTTP server address
func (c *Config) GetHTTPAddr() string { return fmt.Sprintf(":%d", c.HTTPPort) }
