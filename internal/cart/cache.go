package cart

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/nikolayk812/checkout/internal/port"
	"go.uber.org/zap"
)

const cacheTTL = time.Hour

// RedisCache keeps a per-user cart item counter under "cart:<owner>".
// It is purely an accelerator: every method tolerates a missing client or a
// Redis outage by logging and moving on.
type RedisCache struct {
	client *redis.Client
	logger *zap.Logger
}

var _ port.CartCache = (*RedisCache)(nil)

func NewRedisCache(client *redis.Client, logger *zap.Logger) *RedisCache {
	return &RedisCache{client: client, logger: logger}
}

func (c *RedisCache) IncrementCount(ctx context.Context, ownerID string) {
	if c.client == nil {
		return
	}

	key := cacheKey(ownerID)
	pipe := c.client.Pipeline()
	pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, cacheTTL)

	if _, err := pipe.Exec(ctx); err != nil {
		c.logger.Warn("failed to update cart cache", zap.Error(err), zap.String("key", key))
	}
}

func (c *RedisCache) Invalidate(ctx context.Context, ownerID string) {
	if c.client == nil {
		return
	}

	key := cacheKey(ownerID)
	if err := c.client.Del(ctx, key).Err(); err != nil {
		c.logger.Warn("failed to invalidate cart cache", zap.Error(err), zap.String("key", key))
	}
}

func cacheKey(ownerID string) string {
	return "cart:" + ownerID
}
