package security

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"job-marketplace-api/pkg/logger"
	"job-marketplace-api/pkg/redis"

	goredis "github.com/redis/go-redis/v9"
)

type LoginTrackerConfig struct {
	MaxAttempts   int           // failed attempts before a block
	AttemptWindow time.Duration // window the failures are counted in
	BlockDuration time.Duration
}

func DefaultLoginTrackerConfig() LoginTrackerConfig {
	return LoginTrackerConfig{
		MaxAttempts:   5,
		AttemptWindow: 15 * time.Minute,
		BlockDuration: 15 * time.Minute,
	}
}

// LoginTracker counts failed logins per email in Redis and blocks the email
// once MaxAttempts is reached. Without Redis it never blocks.
type LoginTracker struct {
	config LoginTrackerConfig
	client func() *goredis.Client
}

func NewLoginTracker(config LoginTrackerConfig) *LoginTracker {
	def := DefaultLoginTrackerConfig()
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = def.MaxAttempts
	}
	if config.AttemptWindow <= 0 {
		config.AttemptWindow = def.AttemptWindow
	}
	if config.BlockDuration <= 0 {
		config.BlockDuration = def.BlockDuration
	}
	return &LoginTracker{config: config, client: redis.Client}
}

const (
	failLoginPrefix    = "jobmarket:login:fail:"
	blockedLoginPrefix = "jobmarket:login:blocked:"
)

// KEYS[1] = counter key, ARGV[1] = TTL seconds. Returns the new count.
const incrWithTTLScript = `
local count = redis.call('INCR', KEYS[1])
if count == 1 then
    redis.call('EXPIRE', KEYS[1], ARGV[1])
end
return count
`

func loginKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// IsBlocked reports whether the email is blocked and for how much longer.
func (lt *LoginTracker) IsBlocked(ctx context.Context, email string) (bool, time.Duration, error) {
	client := lt.client()
	if client == nil {
		return false, 0, nil
	}

	ttl, err := client.TTL(ctx, blockedLoginPrefix+loginKey(email)).Result()
	if err != nil {
		return false, 0, fmt.Errorf("failed to check login block: %w", err)
	}
	if ttl <= 0 {
		return false, 0, nil
	}
	return true, ttl, nil
}

// RecordFailure counts one failed attempt and blocks the email when the
// threshold is reached. It returns whether the email is now blocked.
func (lt *LoginTracker) RecordFailure(ctx context.Context, email, ip string) (bool, error) {
	client := lt.client()
	if client == nil {
		return false, nil
	}

	key := loginKey(email)
	ttlSeconds := int(lt.config.AttemptWindow.Seconds())
	result, err := client.Eval(ctx, incrWithTTLScript, []string{failLoginPrefix + key}, ttlSeconds).Result()
	if err != nil {
		return false, fmt.Errorf("failed to count login failure: %w", err)
	}
	count, ok := result.(int64)
	if !ok {
		return false, errors.New("unexpected result type from login counter")
	}

	logger.Log.Warn("login failed", "email", MaskEmail(key), "ip", ip, "attempts", count)

	if int(count) < lt.config.MaxAttempts {
		return false, nil
	}

	if err := client.Set(ctx, blockedLoginPrefix+key, "1", lt.config.BlockDuration).Err(); err != nil {
		return false, fmt.Errorf("failed to block login: %w", err)
	}
	logger.Log.Warn("login blocked", "email", MaskEmail(key), "ip", ip, "minutes", int(lt.config.BlockDuration.Minutes()))
	return true, nil
}

// Reset clears the failure counter after a successful login.
func (lt *LoginTracker) Reset(ctx context.Context, email string) error {
	client := lt.client()
	if client == nil {
		return nil
	}
	return client.Del(ctx, failLoginPrefix+loginKey(email)).Err()
}
