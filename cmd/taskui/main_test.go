package main

import (
	"bytes"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tgienger/taskui/internal/config"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv(config.EnvAPIURL, "")
	t.Setenv(config.EnvLogLevel, "")
	var out bytes.Buffer
	cmd := newRootCmd(&out, io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestInitConfigAppliesFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	out, err := execute(t,
		"--config", path,
		"--api-url", "http://tasks.example:9000",
		"--page-size", "10",
		"--theme", "light",
		"--init-config",
	)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(out, path) {
		t.Errorf("output = %q", out)
	}

	cfg, err := config.LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.API.BaseURL != "http://tasks.example:9000" || cfg.UI.PageSize != 10 || cfg.UI.Theme != "light" {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestInvalidFlags(t *testing.T) {
	dir := t.TempDir()
	tests := [][]string{
		{"--theme", "purple"},
		{"--page-size=-3"},
		{"--route", "/bogus"},
		{"extra-arg"},
	}
	for _, args := range tests {
		args = append([]string{"--config", filepath.Join(dir, "missing.toml")}, args...)
		if _, err := execute(t, args...); err == nil {
			t.Errorf("%v: expected an error", args)
		}
	}
}
