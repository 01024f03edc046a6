package ratelimit

import (
	"context"
	"fmt"
	"time"

	"turf-booking/internal/pkg/config"

	"github.com/redis/go-redis/v9"
)

// Refills one token per interval since the last refill, then spends one if
// any is left. Returns {allowed, remaining, retry_after_ms}.
var bucketScript = redis.NewScript(`
local key = KEYS[1]
local now_ms = tonumber(ARGV[1])
local capacity = tonumber(ARGV[2])
local interval_ms = tonumber(ARGV[3])
local ttl_ms = tonumber(ARGV[4])

local state = redis.call('HMGET', key, 'tokens', 'last_refill_ms')
local tokens = tonumber(state[1])
local last_refill = tonumber(state[2])
if tokens == nil or last_refill == nil then
	tokens = capacity
	last_refill = now_ms
end

local elapsed = math.max(0, now_ms - last_refill)
local intervals = math.floor(elapsed / interval_ms)
if intervals > 0 then
	tokens = math.min(capacity, tokens + intervals)
	last_refill = last_refill + intervals * interval_ms
end

local allowed = 0
local retry_ms = 0
if tokens > 0 then
	allowed = 1
	tokens = tokens - 1
else
	retry_ms = math.max(0, interval_ms - (now_ms - last_refill))
end

redis.call('HSET', key, 'tokens', tokens, 'last_refill_ms', last_refill)
redis.call('PEXPIRE', key, ttl_ms)
return {allowed, tokens, retry_ms}
`)

type Decision struct {
	Allowed    bool
	Limit      int
	Remaining  int64
	RetryAfter time.Duration
}

// RedisTokenBucket keeps one bucket per key in Redis so every instance
// shares the same budget.
type RedisTokenBucket struct {
	client redis.Scripter
	cfg    config.RateLimitConfig
	now    func() time.Time
}

func NewRedisTokenBucket(client redis.Scripter, cfg config.RateLimitConfig) *RedisTokenBucket {
	return &RedisTokenBucket{client: client, cfg: cfg, now: time.Now}
}

func (b *RedisTokenBucket) Allow(ctx context.Context, key string) (Decision, error) {
	vals, err := bucketScript.Run(ctx, b.client, []string{b.cfg.Prefix + key},
		b.now().UnixMilli(),
		b.cfg.Capacity,
		b.cfg.RefillInterval.Milliseconds(),
		b.cfg.TTL.Milliseconds(),
	).Int64Slice()
	if err != nil {
		return Decision{}, fmt.Errorf("rate limit script: %w", err)
	}
	if len(vals) != 3 {
		return Decision{}, fmt.Errorf("rate limit script returned %d values", len(vals))
	}

	return Decision{
		Allowed:    vals[0] == 1,
		Limit:      b.cfg.Capacity,
		Remaining:  vals[1],
		RetryAfter: time.Duration(vals[2]) * time.Millisecond,
	}, nil
}
