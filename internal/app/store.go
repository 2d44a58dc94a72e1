package app

import (
	"context"
	"fmt"

	"github.com/guttosm/canteenpulse/config"
	"github.com/guttosm/canteenpulse/internal/storage"
)

// OpenStore connects the backend selected by cfg.Store.Driver.
// The caller owns the store and must Close it.
func OpenStore(ctx context.Context, cfg config.Config) (storage.Store, error) {
	switch cfg.Store.Driver {
	case config.DriverPostgres, "":
		db, err := postgresOpener(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize postgres: %w", err)
		}
		return storage.NewPostgresStore(db), nil
	case config.DriverMongo:
		db, err := mongoOpener(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize mongo: %w", err)
		}
		return storage.NewMongoStore(db), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

// openers are indirections used by OpenStore; overridden in tests to avoid real connections.
var (
	postgresOpener = InitPostgres
	mongoOpener    = InitMongo
)
