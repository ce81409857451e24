// Package config loads process configuration from the environment.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds settings shared by every splice command.
// Command-line flags override these values.
type Config struct {
	// DB is the journal path. Empty disables journaling.
	DB string `env:"SPLICE_DB"`

	LogLevel  string `env:"SPLICE_LOG_LEVEL"  envDefault:"info"`
	LogFormat string `env:"SPLICE_LOG_FORMAT" envDefault:"text"`

	// Addr is the listen address for serve.
	Addr string `env:"SPLICE_ADDR" envDefault:"127.0.0.1:8080"`

	// ProjectName names the project a fresh editor starts with.
	ProjectName string `env:"SPLICE_PROJECT_NAME" envDefault:"Untitled Project"`
}

// Load reads configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks enumerated fields.
func (c Config) Validate() error {
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("SPLICE_LOG_FORMAT must be text or json, got %q", c.LogFormat)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("SPLICE_LOG_LEVEL must be debug, info, warn or error, got %q", c.LogLevel)
	}
	return nil
}
