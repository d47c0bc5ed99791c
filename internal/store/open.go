package store

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/wuwenbin0122/user-console/internal/db"
	"github.com/wuwenbin0122/user-console/internal/utils"
)

// Open builds the UserStore selected by cfg.StoreDriver, bootstrapping the
// schema or indexes it needs. The returned func releases the connection.
func Open(ctx context.Context, cfg *utils.Config, logger *zap.Logger) (UserStore, func(), error) {
	switch cfg.StoreDriver {
	case utils.StorePostgres:
		postgres, err := db.NewPostgres(ctx, cfg.Postgres)
		if err != nil {
			return nil, nil, err
		}
		if err := postgres.Ping(ctx); err != nil {
			postgres.Close()
			return nil, nil, fmt.Errorf("postgres: ping: %w", err)
		}
		if err := postgres.EnsureSchema(ctx); err != nil {
			postgres.Close()
			return nil, nil, err
		}
		return NewPostgres(postgres.Pool), postgres.Close, nil

	case utils.StoreMongo:
		mongoStore, err := db.NewMongo(ctx, cfg.Mongo)
		if err != nil {
			return nil, nil, err
		}
		closeMongo := func() {
			if err := mongoStore.Close(context.Background()); err != nil {
				logger.Warn("mongo: close error", zap.Error(err))
			}
		}
		if err := mongoStore.EnsureCollections(ctx); err != nil {
			closeMongo()
			return nil, nil, err
		}
		return NewMongo(mongoStore.Users), closeMongo, nil

	case utils.StoreMemory, "":
		return NewMemory(), func() {}, nil

	default:
		return nil, nil, fmt.Errorf("store: unsupported driver %q", cfg.StoreDriver)
	}
}
