// Package logging builds the zap loggers used across bomview.
package logging

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds logging configuration.
type Config struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "console" or "json"
	Output string `toml:"output"` // file path; empty means stderr
}

// DefaultLevel is used when no level is configured.
const DefaultLevel = "warn"

// New creates a logger from cfg. Unknown levels fall back to DefaultLevel.
func New(cfg Config) (*zap.Logger, error) {
	zapConfig := zap.NewProductionConfig()
	zapConfig.Sampling = nil
	zapConfig.DisableStacktrace = true
	zapConfig.EncoderConfig.TimeKey = "ts"
	zapConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	level, err := zap.ParseAtomicLevel(strings.TrimSpace(cfg.Level))
	if err != nil || strings.TrimSpace(cfg.Level) == "" {
		level, _ = zap.ParseAtomicLevel(DefaultLevel)
	}
	zapConfig.Level = level

	if strings.EqualFold(cfg.Format, "json") {
		zapConfig.Encoding = "json"
	} else {
		zapConfig.Encoding = "console"
		zapConfig.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}

	if out := strings.TrimSpace(cfg.Output); out != "" {
		zapConfig.OutputPaths = []string{out}
	} else {
		zapConfig.OutputPaths = []string{"stderr"}
	}
	zapConfig.ErrorOutputPaths = []string{"stderr"}

	return zapConfig.Build()
}

// NewOrNop is New with a no-op fallback for callers that must not fail
// because of a bad log destination.
func NewOrNop(cfg Config) *zap.Logger {
	logger, err := New(cfg)
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
