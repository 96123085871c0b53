package db

import (
	"context"

	"github.com/pkg/errors"

	"scheduler/internal/config"
	"scheduler/internal/store"
	"scheduler/internal/store/db/postgres"
	"scheduler/internal/store/db/sqlite"
	"scheduler/internal/store/jsonfile"
)

// NewDriver creates the store driver selected by cfg.
func NewDriver(ctx context.Context, cfg *config.Config) (store.Driver, error) {
	var driver store.Driver
	var err error

	switch cfg.Driver {
	case config.DriverJSON:
		driver, err = jsonfile.NewDB(cfg.DSN)
	case config.DriverSQLite:
		driver, err = sqlite.NewDB(ctx, cfg.DSN)
	case config.DriverPostgres:
		driver, err = postgres.NewDB(ctx, cfg.DSN)
	default:
		return nil, errors.Errorf("unknown db driver: %s", cfg.Driver)
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to create db driver")
	}
	return driver, nil
}
