// Package logging builds the logrus loggers used by taskui and taskd.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/tgienger/taskui/internal/config"
)

// DefaultFile returns the client log path under XDG_STATE_HOME
func DefaultFile() string {
	stateDir := os.Getenv("XDG_STATE_HOME")
	if stateDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(os.TempDir(), config.AppName+".log")
		}
		stateDir = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(stateDir, config.AppName, config.AppName+".log")
}

// New returns a logger writing text lines to out at the configured level
func New(cfg config.LogConfig, out io.Writer) (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	log := logrus.New()
	log.SetOutput(out)
	log.SetLevel(level)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, DisableColors: true})
	return log, nil
}

// NewFile opens (appending) the configured log file, or DefaultFile when
// none is set. The terminal belongs to the TUI so the client never logs to
// stderr. The returned closer must be called on exit.
func NewFile(cfg config.LogConfig) (*logrus.Logger, io.Closer, error) {
	path := cfg.File
	if path == "" {
		path = DefaultFile()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, nil, fmt.Errorf("creating log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}
	log, err := New(cfg, f)
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	return log, f, nil
}

// NewJSON returns a logger emitting JSON lines, used by the server
func NewJSON(cfg config.LogConfig, out io.Writer) (*logrus.Logger, error) {
	log, err := New(cfg, out)
	if err != nil {
		return nil, err
	}
	log.SetFormatter(&logrus.JSONFormatter{})
	return log, nil
}

// Discard returns a logger that drops everything, for tests
func Discard() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}
