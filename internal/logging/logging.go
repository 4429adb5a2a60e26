// Package logging builds the process logger.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a console logger on stderr at level. Quiet raises the level to
// warn so only problems are reported.
func New(level string, quiet bool) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	if quiet && lvl < zapcore.WarnLevel {
		lvl = zapcore.WarnLevel
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.DisableStacktrace = true
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	return cfg.Build(zap.Fields(zap.String("app", "unitsense")))
}

// Func adapts logger to the func(string) hooks used by clients.
func Func(logger *zap.Logger) func(string) {
	sugar := logger.Sugar()
	return func(msg string) { sugar.Info(msg) }
}
