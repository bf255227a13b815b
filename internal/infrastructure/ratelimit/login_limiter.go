// Package ratelimit throttles login attempts per username and client IP.
package ratelimit

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"

	"github.com/turtacn/coursehub/internal/domain/service"
	"github.com/turtacn/coursehub/pkg/errors"
	"github.com/turtacn/coursehub/pkg/logger"
)

const scopeLogin = "login"

// LoginLimiterConfig holds limiter configuration.
type LoginLimiterConfig struct {
	// Attempts is the number of logins allowed per window.
	Attempts int
	// Window is the fixed counting window.
	Window time.Duration
	// KeyPrefix is the Redis key prefix
	KeyPrefix string
}

// Decision is the outcome of one Allow call.
type Decision struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
}

// LoginLimiter counts attempts in a fixed window. Redis holds the counters
// when configured; an in-process cache takes over when Redis is absent or failing.
type LoginLimiter struct {
	client  redis.UniversalClient
	local   *cache.Cache
	localMu sync.Mutex
	config  LoginLimiterConfig
	metrics service.Metrics
	logger  logger.Logger
}

// NewLoginLimiter creates a limiter. client may be nil.
func NewLoginLimiter(client redis.UniversalClient, cfg LoginLimiterConfig, metrics service.Metrics, log logger.Logger) *LoginLimiter {
	if cfg.Attempts <= 0 {
		cfg.Attempts = 5
	}
	if cfg.Window <= 0 {
		cfg.Window = time.Minute
	}
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = "ratelimit"
	}
	if metrics == nil {
		metrics = service.NoopMetrics{}
	}
	return &LoginLimiter{
		client:  client,
		local:   cache.New(cfg.Window, 2*cfg.Window),
		config:  cfg,
		metrics: metrics,
		logger:  log.WithComponent("LoginLimiter"),
	}
}

func (l *LoginLimiter) key(username, ip string) string {
	return fmt.Sprintf("%s:%s:%s:%s", l.config.KeyPrefix, scopeLogin, strings.ToLower(username), ip)
}

// Allow records one attempt and reports whether it is within the limit.
func (l *LoginLimiter) Allow(ctx context.Context, username, ip string) (*Decision, error) {
	key := l.key(username, ip)

	count, ttl, err := l.incrRedis(ctx, key)
	if err != nil {
		l.logger.Warn(ctx, "Redis unavailable, using local rate limit counters", logger.Error(err))
		count, ttl = l.incrLocal(key)
	}

	decision := &Decision{
		Allowed:   count <= int64(l.config.Attempts),
		Remaining: l.config.Attempts - int(count),
	}
	if decision.Remaining < 0 {
		decision.Remaining = 0
	}
	if !decision.Allowed {
		decision.RetryAfter = ttl
		l.metrics.RecordRateLimitHit(scopeLogin)
		l.logger.Warn(ctx, "Login rate limit exceeded",
			logger.String("username", username),
			logger.String("ip", ip),
			logger.Int64("attempts", count),
		)
	}
	return decision, nil
}

// Check is Allow returning rate_limit_exceeded when the attempt is over the limit.
func (l *LoginLimiter) Check(ctx context.Context, username, ip string) error {
	decision, err := l.Allow(ctx, username, ip)
	if err != nil {
		return err
	}
	if !decision.Allowed {
		return errors.ErrRateLimitExceeded(scopeLogin, l.config.Attempts).
			WithMetadata("retry_after_seconds", int(decision.RetryAfter.Round(time.Second)/time.Second))
	}
	return nil
}

// Reset clears the counter, e.g. after a successful login.
func (l *LoginLimiter) Reset(ctx context.Context, username, ip string) {
	key := l.key(username, ip)
	if l.client != nil {
		if err := l.client.Del(ctx, key).Err(); err != nil {
			l.logger.Warn(ctx, "Failed to reset login counter", logger.Error(err))
		}
	}
	l.local.Delete(key)
}

func (l *LoginLimiter) incrRedis(ctx context.Context, key string) (int64, time.Duration, error) {
	if l.client == nil {
		return 0, 0, fmt.Errorf("redis not configured")
	}

	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, 0, err
	}
	if count == 1 {
		if err := l.client.Expire(ctx, key, l.config.Window).Err(); err != nil {
			return 0, 0, err
		}
		return count, l.config.Window, nil
	}

	ttl, err := l.client.TTL(ctx, key).Result()
	if err != nil {
		return 0, 0, err
	}
	// A key without expiry would block the user forever.
	if ttl < 0 {
		if err := l.client.Expire(ctx, key, l.config.Window).Err(); err != nil {
			return 0, 0, err
		}
		ttl = l.config.Window
	}
	return count, ttl, nil
}

func (l *LoginLimiter) incrLocal(key string) (int64, time.Duration) {
	l.localMu.Lock()
	defer l.localMu.Unlock()

	if err := l.local.Add(key, int64(1), l.config.Window); err == nil {
		return 1, l.config.Window
	}
	count, err := l.local.IncrementInt64(key, 1)
	if err != nil {
		// Expired between Add and Increment.
		l.local.Set(key, int64(1), l.config.Window)
		return 1, l.config.Window
	}
	ttl := l.config.Window
	if _, exp, ok := l.local.GetWithExpiration(key); ok && !exp.IsZero() {
		ttl = time.Until(exp)
	}
	return count, ttl
}
