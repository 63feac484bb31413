// Package cache provides a small read-through Redis cache for author reads.
// A nil *Cache is valid and disables caching, so callers do not branch on
// whether Redis is configured.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const logPrefix = "cache:cache"

// Cache wraps a Redis client with JSON get/set helpers and a fixed TTL.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

// New connects to Redis at redisURL and verifies connectivity.
func New(ctx context.Context, redisURL string, ttl time.Duration) (*Cache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("%s - failed to parse redis URL: %w", logPrefix, err)
	}

	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("%s - failed to ping redis: %w", logPrefix, err)
	}

	slog.Info(fmt.Sprintf("%s - Redis connection established", logPrefix))
	return &Cache{rdb: rdb, ttl: ttl}, nil
}

// GetJSON loads key into target. Returns false on a miss (or when caching is
// disabled); cache errors are logged and reported as misses so the caller
// falls through to storage.
func (c *Cache) GetJSON(ctx context.Context, key string, target interface{}) bool {
	if c == nil {
		return false
	}
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.Warn(fmt.Sprintf("%s - get %s: %v", logPrefix, key, err))
		}
		return false
	}
	if err := json.Unmarshal(raw, target); err != nil {
		slog.Warn(fmt.Sprintf("%s - decode %s: %v", logPrefix, key, err))
		return false
	}
	return true
}

// SetJSON stores value under key with the configured TTL. Errors are logged,
// not returned: a cache write failure must not fail the request.
func (c *Cache) SetJSON(ctx context.Context, key string, value interface{}) {
	if c == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		slog.Warn(fmt.Sprintf("%s - encode %s: %v", logPrefix, key, err))
		return
	}
	if err := c.rdb.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		slog.Warn(fmt.Sprintf("%s - set %s: %v", logPrefix, key, err))
	}
}

// Delete removes keys, invalidating cached reads after a mutation.
func (c *Cache) Delete(ctx context.Context, keys ...string) {
	if c == nil || len(keys) == 0 {
		return
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		slog.Warn(fmt.Sprintf("%s - del %v: %v", logPrefix, keys, err))
	}
}

// Close releases the underlying Redis connection.
func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	return c.rdb.Close()
}

// AuthorKey builds the cache key for a single author.
func AuthorKey(id string) string {
	return "authors:author:" + id
}
