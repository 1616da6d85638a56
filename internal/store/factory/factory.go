// Package factory opens the store driver named in the configuration.
package factory

import (
	"fmt"
	"log/slog"

	"finance-tracker/internal/config"
	"finance-tracker/internal/store"
	"finance-tracker/internal/store/jsonstore"
	"finance-tracker/internal/store/sqlstore"
)

// Open returns the store for cfg.Driver. A nil logger means slog.Default().
func Open(cfg config.StoreConfig, logger *slog.Logger) (store.Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	switch cfg.Driver {
	case config.DriverJSON, "":
		s, err := jsonstore.Open(cfg.Path, logger)
		if err != nil {
			return nil, fmt.Errorf("open json store: %w", err)
		}
		logger.Info("store opened", "driver", config.DriverJSON, "path", cfg.Path)
		return s, nil
	case config.DriverSQLite:
		s, err := sqlstore.Open(cfg)
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		logger.Info("store opened", "driver", config.DriverSQLite, "path", cfg.Path)
		return s, nil
	default:
		return nil, fmt.Errorf("unsupported store driver: %s", cfg.Driver)
	}
}
