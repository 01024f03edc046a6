package components

import (
	"turf-booking/internal/handler"
	"turf-booking/internal/handler/api"
	"turf-booking/internal/handler/middleware"
	"turf-booking/internal/infra/ratelimit"
	"turf-booking/internal/pkg/config"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewBookingHandler,
		api.NewResourceHandler,
		middleware.NewAuthMiddleware,
		NewRateLimiter,
		func(b *api.BookingHandler, r *api.ResourceHandler, auth *middleware.AuthMiddleware, limiter middleware.RateLimiter) handler.Handlers {
			return handler.Handlers{Booking: b, Resource: r, Auth: auth, Limiter: limiter}
		},
	),
	fx.Invoke(handler.NewRouter),
)

// NewRateLimiter returns a nil limiter when RATE_LIMIT_ENABLED is false.
func NewRateLimiter(cfg config.Config, client *redis.Client) middleware.RateLimiter {
	if !cfg.Limit.Enabled {
		return nil
	}
	return ratelimit.NewRedisTokenBucket(client, cfg.Limit)
}
