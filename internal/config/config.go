// Package config loads taskui and taskd settings from a TOML file,
// a .env file and the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

const (
	// AppName is the configuration directory name.
	AppName = "taskui"

	// FileName is the configuration filename inside the config directory.
	FileName = "config.toml"
)

// Environment variables that override the file.
const (
	EnvAPIURL   = "TASKUI_API_URL"
	EnvLogLevel = "TASKUI_LOG_LEVEL"
	EnvAddr     = "TASKD_ADDR"
	EnvDBPath   = "TASKD_DB"
)

// PageSizeAll is the rows-per-page value that disables pagination.
const PageSizeAll = -1

// Duration is a time.Duration written as "5s" in TOML
type Duration struct {
	time.Duration
}

// UnmarshalText parses a Go duration string
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText writes the duration in Go syntax
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Config holds the application configuration
type Config struct {
	API    APIConfig    `toml:"api"`
	UI     UIConfig     `toml:"ui"`
	Log    LogConfig    `toml:"log"`
	Server ServerConfig `toml:"server"`
}

// APIConfig describes the task backend the client talks to
type APIConfig struct {
	BaseURL string   `toml:"base_url"`
	Timeout Duration `toml:"timeout"`
}

// UIConfig holds presentation defaults. Values stored in the settings
// database win over these once the user changes them.
type UIConfig struct {
	PageSize int    `toml:"page_size"`
	Theme    string `toml:"theme"`
	DBPath   string `toml:"db_path"`
}

// LogConfig controls logrus output
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// ServerConfig configures the taskd reference backend
type ServerConfig struct {
	Addr      string  `toml:"addr"`
	DBPath    string  `toml:"db_path"`
	RateLimit float64 `toml:"rate_limit"`
	Burst     int     `toml:"burst"`
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: "http://localhost:8000",
			Timeout: Duration{10 * time.Second},
		},
		UI: UIConfig{
			PageSize: 5,
			Theme:    "dark",
		},
		Log: LogConfig{
			Level: "info",
		},
		Server: ServerConfig{
			Addr:      ":8000",
			RateLimit: 20,
			Burst:     40,
		},
	}
}

// DefaultDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// DefaultPath returns the default configuration file path
func DefaultPath() string {
	return filepath.Join(DefaultDir(), FileName)
}

// Load reads configuration from configPath (the default location when
// empty), then applies .env and environment overrides.
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = DefaultPath()
	}
	cfg, err := LoadFrom(configPath)
	if err != nil {
		return nil, err
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}
	cfg.ApplyEnv()

	return cfg, nil
}

// LoadFrom loads configuration from a specific path. A missing file yields
// the defaults.
func LoadFrom(configPath string) (*Config, error) {
	// Start with defaults
	cfg := Default()

	data, err := os.ReadFile(configPath)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if _, err := toml.Decode(string(data), cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.UI.DBPath = expandPath(cfg.UI.DBPath)
	cfg.Log.File = expandPath(cfg.Log.File)
	cfg.Server.DBPath = expandPath(cfg.Server.DBPath)

	return cfg, cfg.Validate()
}

// ApplyEnv overrides fields from the environment
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvAPIURL); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv(EnvAddr); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv(EnvDBPath); v != "" {
		c.Server.DBPath = expandPath(v)
	}
}

// Validate rejects values the client cannot work with
func (c *Config) Validate() error {
	if strings.TrimSpace(c.API.BaseURL) == "" {
		return errors.New("api.base_url must not be empty")
	}
	if c.UI.PageSize == 0 || c.UI.PageSize < PageSizeAll {
		return fmt.Errorf("ui.page_size must be positive or %d, got %d", PageSizeAll, c.UI.PageSize)
	}
	switch c.UI.Theme {
	case "dark", "light":
	default:
		return fmt.Errorf("ui.theme must be dark or light, got %q", c.UI.Theme)
	}
	return nil
}

// expandPath expands ~ to home directory
func expandPath(path string) string {
	if len(path) > 0 && path[0] == '~' {
		homeDir, _ := os.UserHomeDir()
		return filepath.Join(homeDir, path[1:])
	}
	return path
}

// SaveTo writes the configuration to a specific path
func (c *Config) SaveTo(configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	f, err := os.Create(configPath)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(c); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return nil
}
