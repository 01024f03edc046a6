package components

import (
	"context"
	"fmt"
	"log/slog"

	"turf-booking/internal/infra/db"
	"turf-booking/internal/infra/locker"
	"turf-booking/internal/infra/memstore"
	"turf-booking/internal/infra/uow"
	"turf-booking/internal/pkg/config"
	"turf-booking/internal/pkg/metrics"
	"turf-booking/internal/usecase/shared"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

var PersistenceModule = fx.Module("persistence",
	fx.Provide(
		NewUnitOfWork,
		NewRedisClient,
		NewSlotLocker,
	),
)

// NewUnitOfWork opens the pool only for STORE_DRIVER=postgres.
func NewUnitOfWork(lc fx.Lifecycle, cfg config.Config, recorder metrics.Recorder, logger *slog.Logger) (shared.UnitOfWork, error) {
	switch cfg.Store.Driver {
	case "memory":
		logger.Warn("using in-memory store; bookings are lost on restart")
		return memstore.NewUoW(memstore.New(logger)), nil
	case "postgres":
		ctx, cancel := context.WithTimeout(context.Background(), cfg.DB.ConnectTimeout)
		defer cancel()

		pool, cleanup, err := db.Connect(ctx, cfg.DB)
		if err != nil {
			return nil, err
		}
		lc.Append(fx.Hook{
			OnStop: func(_ context.Context) error {
				cleanup()
				return nil
			},
		})
		logger.Info("connected to postgres", "host", cfg.DB.Host, "db", cfg.DB.DBName, "max_conns", cfg.DB.MaxConns)
		return uow.NewPostgresUoW(pool, uow.RetryPolicyFromConfig(cfg.DB), recorder, logger), nil
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.Store.Driver)
	}
}

// NewRedisClient returns nil when neither the slot lock nor the rate limiter
// is configured for Redis.
func NewRedisClient(lc fx.Lifecycle, cfg config.Config) *redis.Client {
	if !cfg.NeedsRedis() {
		return nil
	}
	client := locker.NewRedisClient(cfg.Redis)
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := client.Ping(ctx).Err(); err != nil {
				return fmt.Errorf("redis ping %s: %w", cfg.Redis.Addr, err)
			}
			return nil
		},
		OnStop: func(_ context.Context) error {
			return client.Close()
		},
	})
	return client
}

// NewSlotLocker picks the per-resource lock. The redis variant is needed once
// more than one instance serves bookings.
func NewSlotLocker(cfg config.Config, client *redis.Client, logger *slog.Logger) (shared.SlotLocker, error) {
	switch cfg.Lock.Driver {
	case "local":
		return locker.NewLocalLocker(), nil
	case "redis":
		return locker.NewRedisLocker(client, cfg.Lock, logger), nil
	default:
		return nil, fmt.Errorf("unknown LOCK_DRIVER %q", cfg.Lock.Driver)
	}
}
