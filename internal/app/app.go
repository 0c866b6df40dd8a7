package app

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/uaf-arctic-eco-modeling/dvm-dos-tem-sub000/internal/ctxlog"
)

// App encapsulates the application's dependencies and configuration.
// Results are written to outW; logs go to the logger.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	config *Config
}

// NewApp is the constructor for the main application. It returns an App
// with its own isolated logger writing to logW.
func NewApp(outW, logW io.Writer, cfg *Config) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	logger.Debug("Logger configured successfully.", "param_dir", cfg.ParamDir)

	return &App{
		outW:   outW,
		logger: logger,
		config: cfg,
	}
}

// Config returns the configuration the app was built with.
func (a *App) Config() *Config {
	return a.config
}

func (a *App) context(ctx context.Context) context.Context {
	return ctxlog.WithLogger(ctx, a.logger)
}

// resolve maps a bare file name into the parameter directory. Paths with a
// directory component are used as given.
func (a *App) resolve(file string) string {
	if filepath.Base(file) == file {
		return filepath.Join(a.config.ParamDir, file)
	}
	return file
}
