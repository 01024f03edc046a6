package middleware

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"net/http"
	"strconv"

	"turf-booking/internal/handler/httperr"
	"turf-booking/internal/infra/ratelimit"

	"github.com/gin-gonic/gin"
)

type RateLimiter interface {
	Allow(ctx context.Context, key string) (ratelimit.Decision, error)
}

var errRateLimited = errors.New("booking attempts rate limited")

// Throttle spends one token of the caller's bucket per request. It keys on the
// authenticated actor, falling back to the client IP, and lets requests
// through when the limiter itself fails.
func Throttle(limiter RateLimiter, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := "ip:" + c.ClientIP()
		if actor, ok := GetActor(c); ok {
			key = "actor:" + actor.ID().String()
		}

		d, err := limiter.Allow(c.Request.Context(), key)
		if err != nil {
			logger.Warn("rate limiter unavailable, allowing request",
				"key", key,
				"request_id", GetRequestID(c),
				"error", err.Error())
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(d.Limit))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(d.Remaining, 10))
		if !d.Allowed {
			secs := int(math.Ceil(d.RetryAfter.Seconds()))
			c.Header("Retry-After", strconv.Itoa(secs))
			httperr.AbortWithError(c, http.StatusTooManyRequests, errRateLimited,
				"Too many booking attempts", gin.H{"retry_after": secs})
			return
		}
		c.Next()
	}
}
