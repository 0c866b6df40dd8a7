package app

import (
	"errors"
	"fmt"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	ParamDir      string // parameter files
	ReferenceFile string // block ordering for format, optional
	TargetsFile   string // calibration targets (hcl), optional

	LogFormat string
	LogLevel  string
}

// NewConfig validates cfg and returns a copy with defaults filled in.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.ParamDir == "" {
		return nil, errors.New("ParamDir is a required configuration field and cannot be empty")
	}

	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return nil, fmt.Errorf("invalid log-format %q: must be 'text' or 'json'", cfg.LogFormat)
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, fmt.Errorf("invalid log-level %q: must be 'debug', 'info', 'warn', or 'error'", cfg.LogLevel)
	}

	return &cfg, nil
}
