// Package logging provides the zap logger bootstrap shared by the
// server and CLI entry points. The engine packages stay pure and never
// log; only the shells do.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Logger is the global logger instance.
	Logger *zap.Logger

	// Sugar is the sugared logger for convenience.
	Sugar *zap.SugaredLogger
)

// Initialize sets up the global logger. Level is a zap level name
// ("debug", "info", ...); console selects human-readable output over
// JSON.
func Initialize(level string, console bool) error {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if console {
		cfg.Encoding = "console"
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}

	logger, err := cfg.Build()
	if err != nil {
		return err
	}

	Logger = logger
	Sugar = logger.Sugar()
	return nil
}

func init() {
	// Safe defaults until Initialize runs.
	Logger = zap.NewNop()
	Sugar = Logger.Sugar()
}

func Debug(args ...any) { Sugar.Debug(args...) }
func Info(args ...any)  { Sugar.Info(args...) }
func Warn(args ...any)  { Sugar.Warn(args...) }
func Error(args ...any) { Sugar.Error(args...) }

func Debugf(format string, args ...any) { Sugar.Debugf(format, args...) }

func Infow(msg string, kv ...any)  { Sugar.Infow(msg, kv...) }
func Errorw(msg string, kv ...any) { Sugar.Errorw(msg, kv...) }

// Sync flushes buffered log entries. Call on shutdown.
func Sync() {
	_ = Logger.Sync()
}
