// Package config provides application configuration management.
// Configuration is loaded from environment variables following 12-factor principles.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds all application configuration.
// All fields are populated from environment variables. The JWT secret and
// database path both have insecure local fallbacks that must not be used in
// production.
type Config struct {
	Port int `env:"PORT" envDefault:"5000"`

	// Database (SQLite file path)
	DatabasePath string `env:"KEYDECK_DB_PATH" envDefault:"keydeck.db"`

	// Token signing
	JWTSecret string        `env:"JWT_SECRET" envDefault:"defaultsecret"`
	TokenTTL  time.Duration `env:"TOKEN_TTL" envDefault:"24h"`

	// CORS configuration
	// Comma-separated list of allowed origins; empty allows all origins
	CORSAllowedOrigins string `env:"CORS_ALLOWED_ORIGINS" envDefault:""`
}

// GetCORSAllowedOrigins parses the comma-separated origins string into a slice.
func (c *Config) GetCORSAllowedOrigins() []string {
	if c.CORSAllowedOrigins == "" {
		return nil
	}

	origins := strings.Split(c.CORSAllowedOrigins, ",")
	result := make([]string, 0, len(origins))

	for _, origin := range origins {
		trimmed := strings.TrimSpace(origin)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}

// Load parses environment variables and returns a Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}
