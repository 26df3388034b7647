package utils

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds the process logger. DEBUG selects the human readable
// development encoder and LOG_LEVEL overrides the level
func NewLogger(cfg *Config) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	if cfg.Debug() {
		config = zap.NewDevelopmentConfig()
	}

	if raw := cfg.Get("LOG_LEVEL"); raw != "" {
		level, err := zapcore.ParseLevel(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", raw, err)
		}
		config.Level = zap.NewAtomicLevelAt(level)
	}

	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}
