// Package config loads runtime settings from the environment.
package config

import (
	"fmt"
	"slices"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"

	"github.com/nvinuesa/kaspwarden/internal/bitwarden"
)

// Output formats.
const (
	FormatBitwarden = "bitwarden"
	FormatCXF       = "cxf"
)

// Formats lists the supported output formats.
var Formats = []string{FormatBitwarden, FormatCXF}

// Config holds settings read from the environment. Command-line flags use
// these as their defaults.
type Config struct {
	InputPath     string `env:"KASPWARDEN_INPUT"`
	OutputPath    string `env:"KASPWARDEN_OUTPUT"`
	Format        string `env:"KASPWARDEN_FORMAT" envDefault:"bitwarden"`
	LogLevel      string `env:"KASPWARDEN_LOG_LEVEL" envDefault:"info"`
	KDFIterations int    `env:"KASPWARDEN_KDF_ITERATIONS" envDefault:"600000"`
	Encrypt       bool   `env:"KASPWARDEN_ENCRYPT"`
}

// NewConfig loads a .env file from the working directory if there is one,
// then parses the environment. Variables already set win over .env entries.
func NewConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}

// Validate checks values that flags or the environment may have set.
// The KDF iteration count is only checked when Encrypt is set.
func (c *Config) Validate() error {
	if !slices.Contains(Formats, c.Format) {
		return fmt.Errorf("unknown output format %q (want one of %v)", c.Format, Formats)
	}
	if c.Encrypt && c.Format != FormatBitwarden {
		return fmt.Errorf("encryption is only supported with the %s format", FormatBitwarden)
	}
	// Iterations only matter for password-protected output.
	if c.Encrypt && c.KDFIterations < bitwarden.MinKDFIterations {
		return fmt.Errorf("kdf iterations must be at least %d, got %d",
			bitwarden.MinKDFIterations, c.KDFIterations)
	}
	return nil
}
