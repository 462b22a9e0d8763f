// Package providers contains dependency injection providers for the KeepUp server.
package providers

import (
	"fmt"

	"github.com/samber/do/v2"

	"github.com/keepupapp/keepup-server/internal/config"
	"github.com/keepupapp/keepup-server/internal/logger"
)

// ProvideConfig provides the application configuration.
func ProvideConfig(i do.Injector) (*config.Config, error) {
	return config.LoadConfig()
}

// ProvideLogger provides the structured logger.
func ProvideLogger(i do.Injector) (*logger.Logger, error) {
	cfg := do.MustInvoke[*config.Config](i)

	level, err := logger.ParseLevel(cfg.Logger.Level)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}

	log := logger.New(logger.Config{
		Level:       level,
		AddSource:   cfg.App.Environment == "development",
		Environment: cfg.App.Environment,
	})

	log.Info("Starting KeepUp Server",
		"environment", cfg.App.Environment,
		"log_level", cfg.Logger.Level,
		"data_path", cfg.Data.BasePath,
		"db_driver", cfg.Database.Driver,
	)

	return log, nil
}
