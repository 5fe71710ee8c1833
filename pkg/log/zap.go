// Package log holds the process-wide zap logger.
package log

import (
	"fmt"

	"go.uber.org/zap"
)

var Logger *zap.Logger

// Init configures the global logger. Format "json" selects the production
// encoder; anything else the development console encoder. Level accepts
// the usual zap level names.
func Init(level, format string) error {
	var cfg zap.Config
	if format == "json" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
	}

	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return fmt.Errorf("parse log level %q: %w", level, err)
	}
	cfg.Level = lvl

	logger, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	Logger = logger
	return nil
}

// L returns the global logger, or a nop logger before Init.
func L() *zap.Logger {
	if Logger == nil {
		return zap.NewNop()
	}
	return Logger
}
