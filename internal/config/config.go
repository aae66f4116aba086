// Package config loads clickup-mcp runtime settings from the environment.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// ErrMissingToken is returned by RequireToken when no ClickUp token is configured.
var ErrMissingToken = errors.New("CLICKUP_API_TOKEN is not set (use --token or the CLICKUP_API_TOKEN environment variable)")

// Config holds the ClickUp connection and process settings.
type Config struct {
	APIToken    string        `envconfig:"CLICKUP_API_TOKEN"`
	BaseURL     string        `envconfig:"CLICKUP_BASE_URL" default:"https://api.clickup.com"`
	HTTPTimeout time.Duration `envconfig:"CLICKUP_HTTP_TIMEOUT" default:"30s"`

	// APIAddr is the listen address of the web API.
	APIAddr string `envconfig:"API_ADDR" default:":8080"`

	MetricsEnabled bool   `envconfig:"METRICS_ENABLED" default:"true"`
	MetricsAddr    string `envconfig:"METRICS_ADDR" default:":9090"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

// Load reads the configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// RequireToken returns ErrMissingToken when APIToken is empty.
func (c *Config) RequireToken() error {
	if c.APIToken == "" {
		return ErrMissingToken
	}
	return nil
}
