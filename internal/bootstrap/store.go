package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/GoSim-25-26J-441/taskflow-backend/config"
	"github.com/GoSim-25-26J-441/taskflow-backend/internal/storage"
	"github.com/GoSim-25-26J-441/taskflow-backend/internal/storage/mongostore"
	"github.com/GoSim-25-26J-441/taskflow-backend/internal/storage/postgres"
	"github.com/GoSim-25-26J-441/taskflow-backend/internal/storage/redisstore"
)

// OpenStore connects the backend named by cfg.Store.Driver and prepares its
// schema or indexes.
func OpenStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (storage.Store, error) {
	switch cfg.Store.Driver {
	case config.DriverMongo:
		store, err := mongostore.Connect(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
		if err != nil {
			return nil, err
		}
		if err := store.EnsureIndexes(ctx); err != nil {
			_ = store.Close(context.Background())
			return nil, fmt.Errorf("ensure mongo indexes: %w", err)
		}
		log.Info("store ready", zap.String("driver", "mongo"), zap.String("database", cfg.Mongo.Database))
		return store, nil

	case config.DriverPostgres:
		if err := migratePostgres(ctx, &cfg.Database); err != nil {
			return nil, err
		}
		db, err := postgres.NewConnection(ctx, &cfg.Database)
		if err != nil {
			return nil, err
		}
		log.Info("store ready", zap.String("driver", "postgres"), zap.String("database", cfg.Database.Name))
		return postgres.New(db), nil

	case config.DriverRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		store := redisstore.New(client, cfg.Redis.Prefix)

		pctx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()
		if err := store.Ping(pctx); err != nil {
			_ = store.Close(context.Background())
			return nil, fmt.Errorf("redis ping: %w", err)
		}
		log.Info("store ready", zap.String("driver", "redis"), zap.String("addr", cfg.Redis.Addr))
		return store, nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

// migratePostgres applies the schema over a short-lived pgx pool; queries
// then run through database/sql.
func migratePostgres(ctx context.Context, cfg *config.DatabaseConfig) error {
	pool, err := OpenDB(ctx, DBOptions{DSN: postgres.DSN(cfg), MaxConns: 1})
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool); err != nil {
		return fmt.Errorf("postgres migrate: %w", err)
	}
	return nil
}
