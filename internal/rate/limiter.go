package rate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config holds login throttle tuning parameters.
type Config struct {
	// MaxAttempts is the number of failed logins allowed per window.
	MaxAttempts int
	// Cooldown is the window length, counted from the first failure.
	Cooldown time.Duration
	// IPThrottle also counts failures per client IP.
	IPThrottle bool
}

// Limiter counts failed logins in Redis. A nil *Limiter never limits.
type Limiter struct {
	redis  redis.UniversalClient
	prefix string
	config Config
}

// New creates a [Limiter] storing its counters under prefix.
func New(redisClient redis.UniversalClient, prefix string, cfg Config) *Limiter {
	return &Limiter{
		redis:  redisClient,
		prefix: prefix,
		config: cfg,
	}
}

// Check reports ErrRateLimited when email, or ip with IPThrottle set, has no failed
// attempts left in the current window.
func (l *Limiter) Check(ctx context.Context, email, ip string) error {
	if l == nil {
		return nil
	}
	for _, key := range l.keys(email, ip) {
		if err := l.checkCounter(ctx, key); err != nil {
			return err
		}
	}
	return nil
}

// Fail records one failed login for email and ip.
func (l *Limiter) Fail(ctx context.Context, email, ip string) error {
	if l == nil {
		return nil
	}
	for _, key := range l.keys(email, ip) {
		if _, err := l.incrementWithTTL(ctx, key); err != nil {
			return err
		}
	}
	return nil
}

// Reset clears the counters of email and ip after a successful login.
func (l *Limiter) Reset(ctx context.Context, email, ip string) error {
	if l == nil {
		return nil
	}
	if err := l.redis.Del(ctx, l.keys(email, ip)...).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

// Attempts returns the failed logins recorded for email in the current window.
func (l *Limiter) Attempts(ctx context.Context, email string) (int, error) {
	if l == nil {
		return 0, nil
	}
	count, err := l.redis.Get(ctx, l.emailKey(email)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	if count < 0 {
		return 0, nil
	}
	return int(count), nil
}

func (l *Limiter) keys(email, ip string) []string {
	keys := []string{l.emailKey(email)}
	if l.config.IPThrottle && ip != "" {
		keys = append(keys, l.prefix+":login:ip:"+ip)
	}
	return keys
}

func (l *Limiter) emailKey(email string) string {
	return l.prefix + ":login:email:" + strings.ToLower(strings.TrimSpace(email))
}

func (l *Limiter) checkCounter(ctx context.Context, key string) error {
	count, err := l.redis.Get(ctx, key).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	if count >= int64(l.config.MaxAttempts) {
		return ErrRateLimited
	}

	return nil
}

func (l *Limiter) incrementWithTTL(ctx context.Context, key string) (int64, error) {
	count, err := l.redis.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	// Fixed-window semantics: set TTL only for the first hit in the window.
	if count == 1 {
		if err := l.redis.Expire(ctx, key, l.config.Cooldown).Err(); err != nil {
			return 0, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
		}
	}

	return count, nil
}
