// Package config loads the routes tool configuration.
//
// Values are layered: the TOML file, then ROUTES_* environment variables,
// then command-line flags merged by the caller with Merge.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
)

// BaseConfigFile is the configuration file read from the working directory
// when no explicit path is given.
const BaseConfigFile = "routes.toml"

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

var validate = validator.New()

// Config is the routes tool configuration.
type Config struct {
	// ScanPackages is the package path prefix routes are listed for.
	ScanPackages string `toml:"scan_packages" env:"ROUTES_SCAN_PACKAGES" validate:"required"`

	// Dir is the directory packages are loaded from.
	Dir string `toml:"dir" env:"ROUTES_DIR"`

	// Patterns are the package patterns to load. Defaults to the scan
	// packages and everything below them.
	Patterns []string `toml:"patterns" env:"ROUTES_PATTERNS" envSeparator:","`

	// Tags are build tags used when loading packages.
	Tags []string `toml:"tags" env:"ROUTES_TAGS" envSeparator:","`

	Format   string `toml:"format" env:"ROUTES_FORMAT" validate:"oneof=text json"`
	LogLevel string `toml:"log_level" env:"ROUTES_LOG_LEVEL" validate:"oneof=debug info warn error"`
}

// Load reads the configuration file at path and applies environment
// overrides. An empty path reads BaseConfigFile if it exists; an explicit
// path must exist.
func Load(path string) (*Config, error) {
	cfg, err := load(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.loadEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = BaseConfigFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return &cfg, nil
}

// Merge applies values from overlay that differ from zero values.
func (c *Config) Merge(overlay *Config) {
	if overlay.ScanPackages != "" {
		c.ScanPackages = overlay.ScanPackages
	}
	if overlay.Dir != "" {
		c.Dir = overlay.Dir
	}
	if len(overlay.Patterns) > 0 {
		c.Patterns = overlay.Patterns
	}
	if len(overlay.Tags) > 0 {
		c.Tags = overlay.Tags
	}
	if overlay.Format != "" {
		c.Format = overlay.Format
	}
	if overlay.LogLevel != "" {
		c.LogLevel = overlay.LogLevel
	}
}

// Finalize applies defaults and validates the configuration.
func (c *Config) Finalize() error {
	c.loadDefaults()
	return c.validate()
}

func (c *Config) loadEnv() error {
	if err := env.Parse(c); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.Format == "" {
		c.Format = FormatText
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

func (c *Config) validate() error {
	err := validate.Struct(c)
	var valErrs validator.ValidationErrors
	if !errors.As(err, &valErrs) {
		return err
	}
	messages := make([]string, 0, len(valErrs))
	for _, ve := range valErrs {
		messages = append(messages, fieldName(ve)+": "+formatValidationError(ve))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(messages, "; "))
}

// Level returns the configured log level.
func (c *Config) Level() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// fieldName returns the TOML key for a validation error's field.
func fieldName(ve validator.FieldError) string {
	switch ve.Field() {
	case "ScanPackages":
		return "scan_packages"
	case "LogLevel":
		return "log_level"
	default:
		return strings.ToLower(ve.Field())
	}
}

// formatValidationError converts a validator.FieldError to a human-readable message.
func formatValidationError(ve validator.FieldError) string {
	switch ve.Tag() {
	case "required":
		return "required"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", ve.Param())
	default:
		if ve.Param() != "" {
			return fmt.Sprintf("failed %s=%s validation", ve.Tag(), ve.Param())
		}
		return fmt.Sprintf("failed %s validation", ve.Tag())
	}
}
