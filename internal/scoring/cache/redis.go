// Package cache stores raw classifier responses in Redis so identical
// prompts are not sent to the model twice within the TTL.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "leadqual:classification:"

// RedisCache implements pipeline.OutcomeCache.
type RedisCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewRedisCache creates a cache with the given entry TTL.
func NewRedisCache(client redis.Cmdable, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

// Get returns the cached text for key.
func (c *RedisCache) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := c.client.Get(ctx, keyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("classification cache get: %w", err)
	}
	return val, true, nil
}

// Set stores text under key.
func (c *RedisCache) Set(ctx context.Context, key, text string) error {
	if err := c.client.Set(ctx, keyPrefix+key, text, c.ttl).Err(); err != nil {
		return fmt.Errorf("classification cache set: %w", err)
	}
	return nil
}
