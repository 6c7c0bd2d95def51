// Package logger provides application-wide structured logging built on zap.
package logger

import "go.uber.org/zap"

// Logger wraps a zap logger. Until Init is called, Log is a no-op logger,
// so it is always safe to use.
type Logger struct {
	Log *zap.Logger
}

// New returns a Logger backed by a no-op zap logger.
func New() *Logger {
	return &Logger{Log: zap.NewNop()}
}

// Init replaces the no-op logger with a production zap logger configured
// at the given level ("Debug", "Info", "Warn", "Error").
func (l *Logger) Init(level string) error {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return err
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = lvl
	log, err := cfg.Build()
	if err != nil {
		return err
	}
	l.Log = log
	return nil
}
