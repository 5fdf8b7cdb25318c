package providers

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/samber/do/v2"

	"github.com/Mastsam10/platform-sub000/internal/config"
	"github.com/Mastsam10/platform-sub000/internal/logger"
	"github.com/Mastsam10/platform-sub000/internal/store"
	"github.com/Mastsam10/platform-sub000/internal/store/postgres"
	"github.com/Mastsam10/platform-sub000/internal/store/sqlite"
)

// StoreHandle closes the database when the injector shuts down.
type StoreHandle struct {
	store.Store
}

func (h *StoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideStore opens the database selected by DB_DRIVER.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	db, where, err := openStore(cfg.Database, log.Logger)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.Database.Driver, err)
	}
	log.Info("database ready", "driver", cfg.Database.Driver, "location", where)
	return &StoreHandle{Store: db}, nil
}

// openStore returns the store and a loggable location. Postgres URLs may
// carry credentials, so only the host part is reported.
func openStore(cfg config.DatabaseConfig, log *slog.Logger) (store.Store, string, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		db, err := sqlite.Open(cfg.SQLitePath, log)
		if err != nil {
			return nil, "", err
		}
		return db, cfg.SQLitePath, nil
	case config.DriverPostgres:
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		db, err := postgres.Connect(ctx, cfg.URL, log)
		if err != nil {
			return nil, "", err
		}
		return db, redactURL(cfg.URL), nil
	}
	return nil, "", fmt.Errorf("unsupported database driver %q", cfg.Driver)
}

func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "postgres"
	}
	return u.Redacted()
}
