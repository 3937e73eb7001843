package config

import (
	"fmt"

	"go.uber.org/zap"
)

// NewLogger builds a zap logger from LoggerConfig: human-readable output
// for local runs, JSON for everything else.
func NewLogger(cfg LoggerConfig) (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}

	var zapCfg zap.Config
	if cfg.Env == "local" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}
	zapCfg.Level = level

	return zapCfg.Build()
}
