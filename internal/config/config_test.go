package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "routes.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
scan_packages = "example.com/app/api"
dir = "./service"
patterns = ["./...", "example.com/shared/..."]
tags = ["integration"]
format = "json"
log_level = "debug"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := cfg.Finalize(); err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	if cfg.ScanPackages != "example.com/app/api" {
		t.Errorf("expected scan_packages example.com/app/api, got %q", cfg.ScanPackages)
	}
	if cfg.Dir != "./service" {
		t.Errorf("expected dir ./service, got %q", cfg.Dir)
	}
	if want := []string{"./...", "example.com/shared/..."}; !slices.Equal(cfg.Patterns, want) {
		t.Errorf("expected patterns %v, got %v", want, cfg.Patterns)
	}
	if !slices.Equal(cfg.Tags, []string{"integration"}) {
		t.Errorf("expected tags [integration], got %v", cfg.Tags)
	}
	if cfg.Format != FormatJSON {
		t.Errorf("expected format json, got %q", cfg.Format)
	}
	if cfg.Level() != slog.LevelDebug {
		t.Errorf("expected debug level, got %v", cfg.Level())
	}
}

func TestLoadMissingFile(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("expected missing default file to be ignored, got %v", err)
	}
	if cfg.ScanPackages != "" {
		t.Errorf("expected empty config, got %+v", cfg)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("expected error for missing explicit config file")
	}
}

func TestLoadDefaultFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, BaseConfigFile), []byte(`scan_packages = "example.com/app"`), 0644); err != nil {
		t.Fatal(err)
	}
	chdir(t, dir)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ScanPackages != "example.com/app" {
		t.Errorf("expected scan_packages from %s, got %q", BaseConfigFile, cfg.ScanPackages)
	}
}

func TestLoadInvalidTOML(t *testing.T) {
	path := writeConfig(t, "scan_packages = [")
	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "parse config") {
		t.Errorf("expected parse error, got %v", err)
	}
}

func TestPrecedence(t *testing.T) {
	path := writeConfig(t, `
scan_packages = "from.file/app"
format = "json"
log_level = "warn"
tags = ["file"]
`)
	t.Setenv("ROUTES_SCAN_PACKAGES", "from.env/app")
	t.Setenv("ROUTES_TAGS", "a,b")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ScanPackages != "from.env/app" {
		t.Errorf("expected env to override file, got %q", cfg.ScanPackages)
	}
	if !slices.Equal(cfg.Tags, []string{"a", "b"}) {
		t.Errorf("expected env tags [a b], got %v", cfg.Tags)
	}
	if cfg.Format != "json" {
		t.Errorf("expected file format to survive, got %q", cfg.Format)
	}

	cfg.Merge(&Config{ScanPackages: "from.flags/app", LogLevel: "error"})
	if err := cfg.Finalize(); err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	if cfg.ScanPackages != "from.flags/app" {
		t.Errorf("expected flags to override env, got %q", cfg.ScanPackages)
	}
	if cfg.Level() != slog.LevelError {
		t.Errorf("expected error level, got %v", cfg.Level())
	}
	if cfg.Format != "json" {
		t.Errorf("expected zero-valued overlay to keep format, got %q", cfg.Format)
	}
}

func TestFinalize(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{
			name: "defaults",
			cfg:  Config{ScanPackages: "example.com/app"},
		},
		{
			name:    "missing scan packages",
			cfg:     Config{},
			wantErr: "scan_packages: required",
		},
		{
			name:    "bad format",
			cfg:     Config{ScanPackages: "example.com/app", Format: "yaml"},
			wantErr: "format: must be one of: text json",
		},
		{
			name:    "bad log level",
			cfg:     Config{ScanPackages: "example.com/app", LogLevel: "trace"},
			wantErr: "log_level: must be one of: debug info warn error",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			err := cfg.Finalize()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if cfg.Format != FormatText || cfg.LogLevel != "info" {
					t.Errorf("expected defaults text/info, got %s/%s", cfg.Format, cfg.LogLevel)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

// chdir changes the working directory for the duration of the test,
// equivalent to testing.T.Chdir (Go 1.24+).
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(wd); err != nil {
			t.Fatal(err)
		}
	})
}
