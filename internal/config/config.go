// Package config reads process-level overrides from SCHOLARDOCS_* environment
// variables, optionally seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/custodia-labs/scholardocs/internal/core/domain"
	"github.com/custodia-labs/scholardocs/internal/core/services"
)

// Prefix is prepended to every variable name.
const Prefix = "SCHOLARDOCS"

// Config holds environment overrides. Empty values leave the config file in charge.
type Config struct {
	ConfigDir     string `envconfig:"CONFIG_DIR"`
	DataDir       string `envconfig:"DATA_DIR"`
	Language      string `envconfig:"LANGUAGE"`
	MaxInputBytes int64  `envconfig:"MAX_INPUT_BYTES"`
	TargetBytes   int64  `envconfig:"TARGET_BYTES"`
	OutputDir     string `envconfig:"OUTPUT_DIR"`
	Storage       string `envconfig:"STORAGE"`
	Verbose       bool   `envconfig:"VERBOSE" default:"false"`
}

// Load reads dotenv files (".env" when none are given) and then the environment.
// Missing dotenv files are ignored; variables already set are never replaced.
func Load(dotenvFiles ...string) (*Config, error) {
	if len(dotenvFiles) == 0 {
		dotenvFiles = []string{".env"}
	}
	for _, f := range dotenvFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("loading %s: %w", f, err)
		}
	}

	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, fmt.Errorf("reading %s_* environment: %w", Prefix, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects values that can never be applied.
func (c *Config) Validate() error {
	if c.Language != "" && !domain.Language(c.Language).IsValid() {
		return fmt.Errorf("%w: %s_LANGUAGE=%q", domain.ErrInvalidInput, Prefix, c.Language)
	}
	if c.Storage != "" && !domain.StorageBackend(c.Storage).IsValid() {
		return fmt.Errorf("%w: %s_STORAGE=%q", domain.ErrInvalidInput, Prefix, c.Storage)
	}
	if c.MaxInputBytes < 0 || c.TargetBytes < 0 {
		return fmt.Errorf("%w: size limits must be positive", domain.ErrInvalidInput)
	}
	return nil
}

// Overrides converts the environment into settings overrides.
func (c *Config) Overrides() services.SettingsOverrides {
	return services.SettingsOverrides{
		Language:      domain.Language(c.Language),
		MaxInputBytes: c.MaxInputBytes,
		TargetBytes:   c.TargetBytes,
		OutputDir:     c.OutputDir,
		Storage:       domain.StorageBackend(c.Storage),
	}
}
