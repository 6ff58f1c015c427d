package app_test

import (
	"os"
	"path/filepath"
	"testing"

	"sae/internal/app"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := app.LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	def := app.DefaultConfig()
	if cfg != def {
		t.Fatalf("empty path must return defaults, got %+v", cfg)
	}
	if cfg.Listen == "" || cfg.SOCKSProxy == "" || cfg.LogLevel == "" {
		t.Fatalf("defaults incomplete: %+v", cfg)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sae.toml")
	body := `
listen = "0.0.0.0:9000"
use_tor = true
username = "ghost"
`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := app.LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Listen != "0.0.0.0:9000" {
		t.Fatalf("Listen = %q", cfg.Listen)
	}
	if !cfg.UseTor {
		t.Fatal("UseTor not set")
	}
	if cfg.Username != "ghost" {
		t.Fatalf("Username = %q", cfg.Username)
	}
	// Keys absent from the file keep their defaults.
	if cfg.LogLevel != app.DefaultConfig().LogLevel {
		t.Fatalf("LogLevel = %q", cfg.LogLevel)
	}
}

func TestLoadConfigBadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sae.toml")
	if err := os.WriteFile(path, []byte("listen = ["), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := app.LoadConfig(path); err == nil {
		t.Fatal("want parse error")
	}
}
