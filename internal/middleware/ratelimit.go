package middleware

import (
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/zfogg/picfeed/internal/errors"
	"github.com/zfogg/picfeed/internal/logger"
	"github.com/zfogg/picfeed/internal/metrics"
	"github.com/zfogg/picfeed/internal/util"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const limiterIdleTTL = 5 * time.Minute

// RateLimitConfig holds configuration for rate limiting
type RateLimitConfig struct {
	// Requests per window
	Limit int
	// Window duration
	Window time.Duration
	// KeyFunc picks the bucket for a request; client IP by default
	KeyFunc func(c *gin.Context) string
}

// DefaultRateLimitConfig returns the limit applied to mutating routes
func DefaultRateLimitConfig(perMinute int) RateLimitConfig {
	if perMinute <= 0 {
		perMinute = 120
	}
	return RateLimitConfig{Limit: perMinute, Window: time.Minute}
}

// UploadRateLimitConfig returns the stricter limit applied to image uploads
func UploadRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{Limit: 20, Window: time.Minute}
}

func (cfg RateLimitConfig) key(c *gin.Context) string {
	if cfg.KeyFunc != nil {
		return cfg.KeyFunc(c)
	}
	return c.ClientIP()
}

type limiterEntry struct {
	limiter *rate.Limiter
	expires time.Time
}

// RateLimiter keeps one token bucket per key
type RateLimiter struct {
	mu      sync.Mutex
	entries map[string]*limiterEntry
	limit   rate.Limit
	burst   int
	config  RateLimitConfig
}

// NewLocalRateLimiter creates an in-process limiter allowing cfg.Limit requests per cfg.Window
func NewLocalRateLimiter(cfg RateLimitConfig) *RateLimiter {
	if cfg.Limit <= 0 {
		cfg.Limit = 1
	}
	if cfg.Window <= 0 {
		cfg.Window = time.Minute
	}
	return &RateLimiter{
		entries: make(map[string]*limiterEntry),
		limit:   rate.Every(cfg.Window / time.Duration(cfg.Limit)),
		burst:   cfg.Limit,
		config:  cfg,
	}
}

// Allow reports whether key may make a request now, and if not how long to wait
func (rl *RateLimiter) Allow(key string) (bool, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	for k, e := range rl.entries {
		if now.After(e.expires) {
			delete(rl.entries, k)
		}
	}

	entry, ok := rl.entries[key]
	if !ok {
		entry = &limiterEntry{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.entries[key] = entry
	}
	entry.expires = now.Add(limiterIdleTTL)

	reservation := entry.limiter.ReserveN(now, 1)
	if !reservation.OK() {
		return false, rl.config.Window
	}
	if delay := reservation.DelayFrom(now); delay > 0 {
		reservation.CancelAt(now)
		return false, delay
	}
	return true, 0
}

// NewRateLimiter creates an in-process rate limiting middleware
func NewRateLimiter(cfg RateLimitConfig) gin.HandlerFunc {
	rl := NewLocalRateLimiter(cfg)
	return func(c *gin.Context) {
		allowed, retryAfter := rl.Allow(cfg.key(c))
		if !allowed {
			rejectRateLimited(c, "local", cfg.Limit, retryAfter)
			return
		}
		c.Next()
	}
}

// rejectRateLimited aborts with 429 and the standard rate-limit headers
func rejectRateLimited(c *gin.Context, limiter string, limit int, retryAfter time.Duration) {
	seconds := int(retryAfter.Seconds())
	if retryAfter%time.Second != 0 {
		seconds++
	}
	if seconds < 1 {
		seconds = 1
	}

	metrics.Get().RateLimitExceededTotal.WithLabelValues(limiter, c.FullPath()).Inc()
	logger.Log.Warn("Rate limit exceeded",
		logger.WithIP(c.ClientIP()),
		zap.String("limiter", limiter),
		zap.String("path", c.FullPath()),
	)

	c.Header("Retry-After", strconv.Itoa(seconds))
	c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
	c.Header("X-RateLimit-Remaining", "0")
	util.RespondWithAPIError(c, errors.RateLimited(fmt.Sprintf("rate limit exceeded, retry in %ds", seconds)))
}
