package locker

import (
	"context"
	"log/slog"
	"time"

	"turf-booking/internal/pkg/config"
	"turf-booking/internal/pkg/errs"
	"turf-booking/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Deletes the key only while it still carries our token, so an expired
// holder never releases a lock someone else acquired since.
var releaseScript = redis.NewScript(`
	if redis.call('GET', KEYS[1]) == ARGV[1] then
		return redis.call('DEL', KEYS[1])
	end
	return 0
`)

// RedisLocker is a per-resource lock shared by every instance talking to
// the same Redis. The TTL bounds how long a crashed holder blocks a resource.
type RedisLocker struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
	retry  time.Duration
	logger *slog.Logger
}

func NewRedisLocker(client redis.UniversalClient, cfg config.LockConfig, logger *slog.Logger) *RedisLocker {
	return &RedisLocker{
		client: client,
		prefix: cfg.Prefix,
		ttl:    cfg.TTL,
		retry:  cfg.Retry,
		logger: logger,
	}
}

func (l *RedisLocker) Lock(ctx context.Context, resourceID uuid.UUID) (func(), error) {
	key := l.prefix + resourceID.String()
	token := uuid.NewString()

	ticker := time.NewTicker(l.retry)
	defer ticker.Stop()

	for {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return nil, errs.Mark(errs.Wrapf(err, "lock resource %s", resourceID), shared.ErrLockNotAcquired)
		}
		if ok {
			return l.unlocker(key, token), nil
		}

		select {
		case <-ctx.Done():
			return nil, errs.Mark(errs.Wrapf(ctx.Err(), "lock resource %s", resourceID), shared.ErrLockNotAcquired)
		case <-ticker.C:
		}
	}
}

func (l *RedisLocker) unlocker(key, token string) func() {
	return func() {
		// The caller's context may already be done; release on a fresh one.
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := releaseScript.Run(ctx, l.client, []string{key}, token).Err(); err != nil {
			l.logger.Warn("failed to release slot lock", "key", key, "error", err.Error())
		}
	}
}

func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}
