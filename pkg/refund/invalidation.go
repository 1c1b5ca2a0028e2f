package refund

import (
	"context"

	"matchtrip-be/internal/pkg/logger"

	"github.com/redis/go-redis/v9"
)

// InvalidationChannel is the Redis channel every API instance listens on to
// drop its cached band sets after an admin edit.
const InvalidationChannel = "refund_policy_invalidate"

// Invalidator drops cached band sets on this instance and its peers.
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

type localInvalidator struct {
	provider *Provider
}

// NewInvalidator publishes through rdb, or only clears the in-process cache
// when rdb is nil.
func NewInvalidator(rdb *redis.Client, provider *Provider, log logger.ILogger) Invalidator {
	if rdb == nil {
		return localInvalidator{provider: provider}
	}
	return NewRedisInvalidator(rdb, provider, log)
}

func (l localInvalidator) Invalidate(context.Context) error {
	l.provider.Invalidate()
	return nil
}

type RedisInvalidator struct {
	rdb      *redis.Client
	provider *Provider
	logger   logger.ILogger
}

func NewRedisInvalidator(rdb *redis.Client, provider *Provider, log logger.ILogger) *RedisInvalidator {
	return &RedisInvalidator{rdb: rdb, provider: provider, logger: log}
}

// Invalidate clears the local cache at once, then tells the other instances.
func (r *RedisInvalidator) Invalidate(ctx context.Context) error {
	r.provider.Invalidate()
	return r.rdb.Publish(ctx, InvalidationChannel, "flush").Err()
}

// Listen flushes the local cache on every invalidation message until ctx is
// done.
func (r *RedisInvalidator) Listen(ctx context.Context) {
	pubsub := r.rdb.Subscribe(ctx, InvalidationChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-ch:
			if !ok {
				return
			}
			r.provider.Invalidate()
		}
	}
}
