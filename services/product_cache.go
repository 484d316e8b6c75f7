package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	ProductListCachePrefix = "products:v:"
	CacheVersionKey        = "products:version"
	DefaultCacheTTL        = 10 * time.Minute
)

// ProductCache keeps catalog reads in Redis under a version number. Bumping
// the version orphans every cached list at once; orphans expire by TTL.
// A nil client disables caching.
type ProductCache struct {
	redis  *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewProductCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *ProductCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductCache{redis: client, ttl: ttl, logger: logger}
}

func (c *ProductCache) enabled() bool {
	return c != nil && c.redis != nil
}

func (c *ProductCache) version(ctx context.Context) (int64, error) {
	ver, err := c.redis.Get(ctx, CacheVersionKey).Int64()
	if errors.Is(err, redis.Nil) {
		if err := c.redis.SetNX(ctx, CacheVersionKey, 1, 0).Err(); err != nil {
			return 0, err
		}
		return c.redis.Get(ctx, CacheVersionKey).Int64()
	}
	return ver, err
}

func (c *ProductCache) key(version int64, name string) string {
	return fmt.Sprintf("%s%d:%s", ProductListCachePrefix, version, name)
}

// Get decodes the cached value for name into dest and reports a hit.
func (c *ProductCache) Get(ctx context.Context, name string, dest interface{}) bool {
	if !c.enabled() {
		return false
	}
	ver, err := c.version(ctx)
	if err != nil {
		c.logger.Debug("Product cache version unavailable", zap.Error(err))
		return false
	}
	raw, err := c.redis.Get(ctx, c.key(ver, name)).Bytes()
	if err != nil {
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		c.logger.Warn("Failed to unmarshal cached product list", zap.String("key", name), zap.Error(err))
		return false
	}
	return true
}

func (c *ProductCache) Set(ctx context.Context, name string, value interface{}) {
	if !c.enabled() {
		return
	}
	ver, err := c.version(ctx)
	if err != nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		c.logger.Warn("Failed to marshal product list for cache", zap.String("key", name), zap.Error(err))
		return
	}
	if err := c.redis.Set(ctx, c.key(ver, name), data, c.ttl).Err(); err != nil {
		c.logger.Warn("Failed to cache product list", zap.String("key", name), zap.Error(err))
	}
}

// Invalidate bumps the version so every cached list misses.
func (c *ProductCache) Invalidate(ctx context.Context) error {
	if !c.enabled() {
		return nil
	}
	ver, err := c.redis.Incr(ctx, CacheVersionKey).Result()
	if err != nil {
		return fmt.Errorf("failed to invalidate cache: %w", err)
	}
	c.logger.Info("Product cache invalidated", zap.Int64("new_version", ver))
	return nil
}
