package providers

import (
	"context"
	"fmt"

	"github.com/samber/do/v2"

	"github.com/keepupapp/keepup-server/internal/config"
	"github.com/keepupapp/keepup-server/internal/logger"
	"github.com/keepupapp/keepup-server/internal/store/postgres"
	"github.com/keepupapp/keepup-server/internal/store/sqlite"
	"github.com/keepupapp/keepup-server/internal/store/sqlstore"
)

// StoreHandle wraps the store with shutdown capability.
type StoreHandle struct {
	*sqlstore.Store
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideStore opens the relational store selected by DB_DRIVER.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	var (
		db  *sqlstore.Store
		err error
	)
	switch cfg.Database.Driver {
	case config.DriverPostgres:
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		db, err = postgres.Open(ctx, cfg.Database.DSN, log.Logger)
	case config.DriverSQLite:
		db, err = sqlite.Open(cfg.Database.DSN, log.Logger)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Database.Driver)
	}
	if err != nil {
		return nil, err
	}

	// Never log the postgres DSN, it carries credentials.
	attrs := []any{"driver", cfg.Database.Driver}
	if cfg.Database.Driver == config.DriverSQLite {
		attrs = append(attrs, "path", cfg.Database.DSN)
	}
	log.Info("Database initialized", attrs...)

	return &StoreHandle{Store: db}, nil
}
