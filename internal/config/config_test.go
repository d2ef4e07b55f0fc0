package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadFromMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.API.BaseURL != "http://localhost:8000" {
		t.Errorf("unexpected base url %q", cfg.API.BaseURL)
	}
	if cfg.UI.PageSize != 5 {
		t.Errorf("expected default page size 5, got %d", cfg.UI.PageSize)
	}
	if cfg.API.Timeout.Duration != 10*time.Second {
		t.Errorf("unexpected timeout %v", cfg.API.Timeout)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[api]
base_url = "https://tasks.example.com/api"
timeout = "3s"

[ui]
page_size = 25
theme = "light"

[log]
level = "debug"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.API.BaseURL != "https://tasks.example.com/api" {
		t.Errorf("base url = %q", cfg.API.BaseURL)
	}
	if cfg.API.Timeout.Duration != 3*time.Second {
		t.Errorf("timeout = %v", cfg.API.Timeout)
	}
	if cfg.UI.PageSize != 25 || cfg.UI.Theme != "light" {
		t.Errorf("ui = %+v", cfg.UI)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("log level = %q", cfg.Log.Level)
	}
	// untouched sections keep defaults
	if cfg.Server.Addr != ":8000" {
		t.Errorf("server addr = %q", cfg.Server.Addr)
	}
}

func TestLoadFromRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"zero page size", "[ui]\npage_size = 0\n", "page_size"},
		{"unknown theme", "[ui]\ntheme = \"solarized\"\n", "theme"},
		{"empty base url", "[api]\nbase_url = \"\"\n", "base_url"},
		{"bad duration", "[api]\ntimeout = \"soon\"\n", "parsing config file"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}
			_, err := LoadFrom(path)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvAPIURL, "http://api.internal:9000")
	t.Setenv(EnvLogLevel, "warn")
	t.Setenv(EnvAddr, ":9999")

	cfg := Default()
	cfg.ApplyEnv()

	if cfg.API.BaseURL != "http://api.internal:9000" {
		t.Errorf("base url = %q", cfg.API.BaseURL)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("log level = %q", cfg.Log.Level)
	}
	if cfg.Server.Addr != ":9999" {
		t.Errorf("addr = %q", cfg.Server.Addr)
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	cfg := Default()
	cfg.UI.PageSize = PageSizeAll

	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}
	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if loaded.UI.PageSize != PageSizeAll {
		t.Errorf("page size = %d", loaded.UI.PageSize)
	}
	if loaded.API.Timeout.Duration != cfg.API.Timeout.Duration {
		t.Errorf("timeout = %v", loaded.API.Timeout)
	}
}
