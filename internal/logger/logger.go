// Package logger wraps zap construction so both binaries configure
// structured logging the same way.
package logger

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Logger holds the process-wide zap logger.
type Logger struct {
	// Log is a no-op logger until Init succeeds.
	Log *zap.Logger
}

// New returns a Logger backed by a no-op zap logger.
func New() *Logger {
	return &Logger{Log: zap.NewNop()}
}

// Init replaces the no-op logger with a JSON production logger writing to
// stderr at the given level ("debug", "info", "warn", "error", ...).
func (l *Logger) Init(level string) error {
	lvl, err := zap.ParseAtomicLevel(strings.ToLower(level))
	if err != nil {
		return fmt.Errorf("parse log level %q: %w", level, err)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = lvl

	zl, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	l.Log = zl
	return nil
}
