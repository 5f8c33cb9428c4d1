package main

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// newLogger builds the file-backed zap logger. The TUI owns stdout, so
// everything logs to the configured file; when that file cannot be opened
// the editor runs with a nop logger instead of writing over the screen.
func newLogger(cfg *Config) *zap.Logger {
	if err := os.MkdirAll(filepath.Dir(cfg.Log.Path), 0o755); err != nil {
		return zap.NewNop()
	}

	zcfg := zap.NewProductionConfig()
	zcfg.OutputPaths = []string{cfg.Log.Path}
	zcfg.ErrorOutputPaths = []string{cfg.Log.Path}
	if lvl, err := zapcore.ParseLevel(cfg.Log.Level); err == nil {
		zcfg.Level = zap.NewAtomicLevelAt(lvl)
	}

	logger, err := zcfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
