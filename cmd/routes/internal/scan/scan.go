// Package scan holds the flags and setup shared by commands that load
// handler packages.
package scan

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/broady/routes/internal/config"
	"github.com/broady/routes/internal/registry"
)

// Flags select the packages to scan. Values given here override the config
// file and environment.
type Flags struct {
	Patterns []string `arg:"" optional:"" help:"Package patterns to load (default: <scan>/...)."`
	Scan     string   `help:"Package path prefix to list routes for." short:"s"`
	Dir      string   `help:"Directory to load packages from." short:"C"`
	Tags     []string `help:"Build tags to apply when loading packages." sep:","`
	Config   string   `help:"Config file (default: routes.toml if present)." short:"c"`
	Verbose  bool     `help:"Log debug output to stderr." short:"v"`
}

// Load resolves the configuration: config file, environment, then overlay
// and the flags themselves.
func (f *Flags) Load(overlay config.Config) (*config.Config, error) {
	cfg, err := config.Load(f.Config)
	if err != nil {
		return nil, err
	}

	overlay.ScanPackages = f.Scan
	overlay.Dir = f.Dir
	overlay.Patterns = f.Patterns
	overlay.Tags = f.Tags
	if f.Verbose {
		overlay.LogLevel = "debug"
	}
	cfg.Merge(&overlay)

	if err := cfg.Finalize(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// NewLogger returns a text logger writing to w at the configured level.
func NewLogger(w io.Writer, cfg *config.Config) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: cfg.Level(),
	}))
}

// NewLoader returns the package registry described by cfg.
func NewLoader(cfg *config.Config, logger *slog.Logger) *registry.Loader {
	return &registry.Loader{
		Dir:      cfg.Dir,
		Patterns: cfg.Patterns,
		Tags:     cfg.Tags,
		Logger:   logger,
	}
}
