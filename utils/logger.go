package utils

import (
	"fmt"

	"astrodesk/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds the process logger: JSON in production, coloured console otherwise.
func NewLogger(cfg *config.Config) (*zap.Logger, error) {
	var zc zap.Config

	if cfg.IsProduction() {
		zc = zap.NewProductionConfig()
	} else {
		zc = zap.NewDevelopmentConfig()
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	if cfg.LogLevel != "" {
		level, err := zapcore.ParseLevel(cfg.LogLevel)
		if err != nil {
			return nil, fmt.Errorf("utils.NewLogger: invalid LOG_LEVEL %q: %w", cfg.LogLevel, err)
		}
		zc.Level = zap.NewAtomicLevelAt(level)
	}

	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("utils.NewLogger: failed to build logger: %w", err)
	}
	return logger, nil
}
