// internal/pkg/ratelimit/redis.go
package ratelimit

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisLimiter counts requests in Redis so the window is shared across
// gateway instances. INCR creates the key on first observation; the window
// expiry is attached when the count comes back 1.
//
// Failure policy: FAIL OPEN. A Redis error routes the decision to the
// in-process fallback, trading cross-instance accuracy for availability.
// A backing-store error never blocks a request outright.
type RedisLimiter struct {
	client   *redis.Client
	prefix   string
	policy   Policy
	fallback *MemoryLimiter
	logger   *zap.Logger
}

func NewRedisLimiter(client *redis.Client, namespace string, policy Policy, logger *zap.Logger) *RedisLimiter {
	prefix := "ratelimit:"
	if namespace != "" {
		prefix = namespace + ":" + prefix
	}
	return &RedisLimiter{
		client:   client,
		prefix:   prefix,
		policy:   policy,
		fallback: NewMemoryLimiter(policy),
		logger:   logger,
	}
}

func (r *RedisLimiter) Allow(ctx context.Context, identity, resource string) (Result, error) {
	key := fmt.Sprintf("%s%s:%s", r.prefix, identity, resource)

	count, err := r.client.Incr(ctx, key).Result()
	if err != nil {
		r.logger.Warn("rate limiter store unreachable, using in-process fallback",
			zap.String("key", key),
			zap.Error(err),
		)
		return r.fallback.Allow(ctx, identity, resource)
	}

	if count == 1 {
		r.client.Expire(ctx, key, r.policy.Window)
	}

	resetMs := r.policy.Window.Milliseconds()
	if ttl, err := r.client.PTTL(ctx, key).Result(); err == nil && ttl > 0 {
		resetMs = ttl.Milliseconds()
	}

	remaining := r.policy.Max - count
	if remaining < 0 {
		remaining = 0
	}

	return Result{
		Allowed:   count <= r.policy.Max,
		Remaining: remaining,
		ResetMs:   resetMs,
	}, nil
}
