package middleware

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"job-marketplace-api/pkg/apperror"
	"job-marketplace-api/pkg/logger"
	"job-marketplace-api/pkg/redis"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

// RateLimitConfig holds configuration for rate limiting
type RateLimitConfig struct {
	// Requests per window
	Limit int
	// Time window duration
	Window time.Duration
	// Key extractor (default: client IP)
	KeyFunc func(*gin.Context) string
	// Key prefix for Redis
	KeyPrefix string
	// Reject with 503 instead of falling back when Redis errors
	FailClosed bool
}

// Lua script for atomic increment with TTL on first set
// KEYS[1] = counter key
// ARGV[1] = TTL in seconds
// Returns: [current_count, ttl_remaining]
const rateLimitLuaScript = `
local count = redis.call('INCR', KEYS[1])
if count == 1 then
    redis.call('EXPIRE', KEYS[1], ARGV[1])
end
local ttl = redis.call('TTL', KEYS[1])
return {count, ttl}
`

func clientIPKey(c *gin.Context) string {
	return c.ClientIP()
}

// DefaultRateLimitConfig applies to every API route.
func DefaultRateLimitConfig(limit int, window time.Duration) RateLimitConfig {
	return RateLimitConfig{
		Limit:     limit,
		Window:    window,
		KeyPrefix: "jobmarket:rl:ip:",
		KeyFunc:   clientIPKey,
	}
}

// LoginRateLimitConfig is the strict limit for register and login.
func LoginRateLimitConfig(limit int, window time.Duration) RateLimitConfig {
	return RateLimitConfig{
		Limit:      limit,
		Window:     window,
		KeyPrefix:  "jobmarket:rl:login:",
		FailClosed: true,
		KeyFunc:    clientIPKey,
	}
}

// memoryLimiter is the per-process token bucket used when Redis is not
// configured or, for fail-open configs, unavailable.
type memoryLimiter struct {
	limit     rate.Limit
	burst     int
	mu        sync.Mutex
	buckets   map[string]*bucket
	lastSweep time.Time
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

const sweepInterval = 5 * time.Minute

func newMemoryLimiter(limit int, window time.Duration) *memoryLimiter {
	return &memoryLimiter{
		limit:     rate.Every(window / time.Duration(limit)),
		burst:     limit,
		buckets:   make(map[string]*bucket),
		lastSweep: time.Now(),
	}
}

// allow consumes one token for key and reports the tokens left.
func (m *memoryLimiter) allow(key string, now time.Time) (bool, int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if now.Sub(m.lastSweep) > sweepInterval {
		for k, b := range m.buckets {
			if now.Sub(b.lastSeen) > sweepInterval {
				delete(m.buckets, k)
			}
		}
		m.lastSweep = now
	}

	b, ok := m.buckets[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(m.limit, m.burst)}
		m.buckets[key] = b
	}
	b.lastSeen = now

	allowed := b.limiter.AllowN(now, 1)
	remaining := int(math.Max(0, math.Floor(b.limiter.TokensAt(now))))
	return allowed, remaining
}

// RateLimitMiddleware counts requests per key in Redis when it is
// configured and in process memory otherwise.
func RateLimitMiddleware(config RateLimitConfig) gin.HandlerFunc {
	if config.Limit <= 0 {
		config.Limit = 100
	}
	if config.Window <= 0 {
		config.Window = time.Minute
	}
	if config.KeyFunc == nil {
		config.KeyFunc = clientIPKey
	}
	fallback := newMemoryLimiter(config.Limit, config.Window)

	return func(c *gin.Context) {
		fullKey := config.KeyPrefix + config.KeyFunc(c)
		now := time.Now()

		var (
			allowed   bool
			remaining int
			resetAt   time.Time
		)

		useMemory := true
		if client := redis.Client(); client != nil {
			count, reset, err := checkRateLimitRedis(c.Request.Context(), client, fullKey, config)
			if err == nil {
				useMemory = false
				allowed = count <= config.Limit
				remaining = max(config.Limit-count, 0)
				resetAt = reset
			} else {
				logger.Log.Warn("rate limit store unavailable", "key", fullKey, "error", err)
				if config.FailClosed {
					abortWithError(c, apperror.New(http.StatusServiceUnavailable, "Service temporarily unavailable. Please try again.", err))
					return
				}
			}
		}
		if useMemory {
			allowed, remaining = fallback.allow(fullKey, now)
			resetAt = now.Add(config.Window / time.Duration(config.Limit))
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(config.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", resetAt.Format(time.RFC3339))

		if !allowed {
			retryAfter := int(math.Ceil(time.Until(resetAt).Seconds()))
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("Retry-After", strconv.Itoa(retryAfter))

			logger.Log.Warn("rate limit exceeded",
				"key", fullKey,
				"path", c.FullPath(),
				"request_id", c.GetString(RequestIDKey),
			)
			abortWithError(c, apperror.TooManyRequests("Rate limit exceeded. Please try again later."))
			return
		}

		c.Next()
	}
}

// checkRateLimitRedis checks rate limit using Redis with atomic Lua script
func checkRateLimitRedis(ctx context.Context, client *goredis.Client, key string, config RateLimitConfig) (int, time.Time, error) {
	ttlSeconds := int(config.Window.Seconds())

	result, err := client.Eval(ctx, rateLimitLuaScript, []string{key}, ttlSeconds).Result()
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("redis rate limit eval failed: %w", err)
	}

	arr, ok := result.([]interface{})
	if !ok || len(arr) < 2 {
		return 0, time.Time{}, fmt.Errorf("unexpected redis result format")
	}

	count, _ := arr[0].(int64)
	ttl, _ := arr[1].(int64)

	return int(count), time.Now().Add(time.Duration(ttl) * time.Second), nil
}
