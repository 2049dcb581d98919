package app

import (
	"io"
	"log/slog"

	"github.com/vk/recalcgo/internal/config"
	"github.com/vk/recalcgo/internal/engine"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	config *Config
	loader config.Loader
	engine *engine.Engine
}

// NewApp returns an App printing results to outW and logging to logW. Each
// App owns its logger and engine.
func NewApp(outW, logW io.Writer, cfg *Config, loader config.Loader) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	logger.Debug("Logger configured successfully.")

	return &App{
		outW:   outW,
		logger: logger,
		config: cfg,
		loader: loader,
		engine: engine.New(engine.WithLogger(logger)),
	}
}

// Engine returns the application's engine. This is primarily for testing.
func (a *App) Engine() *engine.Engine {
	return a.engine
}
