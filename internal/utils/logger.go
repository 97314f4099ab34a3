package utils

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger returns a zap logger for the given level name. DEBUG uses the development
// config (human-readable); anything else uses the production config at that level.
func NewLogger(level string) (*zap.Logger, error) {
	if strings.EqualFold(level, "DEBUG") {
		return zap.NewDevelopment()
	}

	cfg := zap.NewProductionConfig()
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(strings.ToLower(level))); err == nil {
		cfg.Level = zap.NewAtomicLevelAt(lvl)
	}
	return cfg.Build()
}
