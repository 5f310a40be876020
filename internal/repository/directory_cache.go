package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const directoryKey = "directory:overview"

// RedisDirectoryCache stores the serialized guide directory overview.
type RedisDirectoryCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisDirectoryCache creates a RedisDirectoryCache with the given TTL.
func NewRedisDirectoryCache(rdb *redis.Client, ttl time.Duration) *RedisDirectoryCache {
	return &RedisDirectoryCache{rdb: rdb, ttl: ttl}
}

// Get returns the cached overview. A miss returns (nil, false, nil).
func (c *RedisDirectoryCache) Get(ctx context.Context) ([]byte, bool, error) {
	b, err := c.rdb.Get(ctx, directoryKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read directory cache: %w", err)
	}
	return b, true, nil
}

func (c *RedisDirectoryCache) Set(ctx context.Context, payload []byte) error {
	if err := c.rdb.Set(ctx, directoryKey, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write directory cache: %w", err)
	}
	return nil
}

func (c *RedisDirectoryCache) Invalidate(ctx context.Context) error {
	if err := c.rdb.Del(ctx, directoryKey).Err(); err != nil {
		return fmt.Errorf("failed to invalidate directory cache: %w", err)
	}
	return nil
}
