package config_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"coivault/internal/config"
	"coivault/pkg/logger"
)

var Module = fx.Provide(
	provideConfig, provideLogger)

func provideConfig() (*config.Config, error) {
	return config.Load()
}

func provideLogger(cfg *config.Config) (*zap.Logger, error) {
	log, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(log)
	return log, nil
}
