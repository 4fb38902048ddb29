package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisCache is a Redis-backed Cache. Values are stored as JSON, which
// gives timestamps a canonical RFC 3339 string form on the wire.
type RedisCache struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisCache creates a Redis-backed cache.
func NewRedisCache(client *redis.Client, logger *zap.Logger) *RedisCache {
	return &RedisCache{
		client: client,
		logger: logger,
	}
}

// Get loads the entry for (path, params) into dest. Any backend or decode
// failure is treated as a miss.
func (c *RedisCache) Get(ctx context.Context, path string, params Params, dest any) bool {
	key := Key(path, params)

	payload, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("cache get failed", zap.String("key", key), zap.Error(err))
		}

		return false
	}

	if err := json.Unmarshal(payload, dest); err != nil {
		c.logger.Warn("cache entry undecodable", zap.String("key", key), zap.Error(err))

		return false
	}

	return true
}

// Set stores value under (path, params) with the given TTL. Failures are
// logged and dropped.
func (c *RedisCache) Set(ctx context.Context, path string, params Params, value any, ttl time.Duration) {
	key := Key(path, params)

	payload, err := json.Marshal(value)
	if err != nil {
		c.logger.Warn("cache value unencodable", zap.String("key", key), zap.Error(err))

		return
	}

	if err := c.client.Set(ctx, key, payload, ttl).Err(); err != nil {
		c.logger.Warn("cache set failed", zap.String("key", key), zap.Error(err))
	}
}

// Delete removes the entry for (path, params). Failures are logged and
// dropped; a missed invalidation is bounded by the entry's own TTL.
func (c *RedisCache) Delete(ctx context.Context, path string, params Params) {
	key := Key(path, params)

	if err := c.client.Del(ctx, key).Err(); err != nil {
		c.logger.Warn("cache delete failed", zap.String("key", key), zap.Error(err))
	}
}

// Compile-time check.
var _ Cache = (*RedisCache)(nil)
