package middleware

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/zfogg/picfeed/internal/cache"
	"github.com/zfogg/picfeed/internal/logger"
	"go.uber.org/zap"
)

const redisLimiterTimeout = 500 * time.Millisecond

// RedisRateLimitMiddleware creates a fixed-window limiter shared by every
// instance through Redis. When Redis is missing or failing, requests are
// limited by an in-process limiter with the same config instead.
func RedisRateLimitMiddleware(client *cache.RedisClient, cfg RateLimitConfig) gin.HandlerFunc {
	fallback := NewLocalRateLimiter(cfg)

	return func(c *gin.Context) {
		key := cfg.key(c)

		if client == nil {
			if allowed, retryAfter := fallback.Allow(key); !allowed {
				rejectRateLimited(c, "local", cfg.Limit, retryAfter)
				return
			}
			c.Next()
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), redisLimiterTimeout)
		defer cancel()

		windowKey := fmt.Sprintf("rate_limit:%s:%s", c.FullPath(), key)
		count, remaining, err := client.IncrWindow(ctx, windowKey, cfg.Window)
		if err != nil {
			logger.Log.Warn("Redis rate limiter unavailable, using local limiter",
				logger.WithIP(c.ClientIP()),
				zap.Error(err),
			)
			if allowed, retryAfter := fallback.Allow(key); !allowed {
				rejectRateLimited(c, "local", cfg.Limit, retryAfter)
				return
			}
			c.Next()
			return
		}

		if count > int64(cfg.Limit) {
			rejectRateLimited(c, "redis", cfg.Limit, remaining)
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(cfg.Limit))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(int64(cfg.Limit)-count, 10))
		c.Next()
	}
}
