// Package cache is a JSON cache-aside layer over Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache stores JSON values under a key prefix with a default TTL
type Cache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration

	hits    atomic.Uint64
	misses  atomic.Uint64
	sets    atomic.Uint64
	deletes atomic.Uint64
	errors  atomic.Uint64
}

// Stats is a point-in-time copy of the counters
type Stats struct {
	Hits    uint64  `json:"hits"`
	Misses  uint64  `json:"misses"`
	Sets    uint64  `json:"sets"`
	Deletes uint64  `json:"deletes"`
	Errors  uint64  `json:"errors"`
	HitRate float64 `json:"hit_rate"`
}

// New creates a cache. Keys are stored as prefix+key.
func New(client *redis.Client, prefix string, ttl time.Duration) *Cache {
	return &Cache{
		client: client,
		prefix: prefix,
		ttl:    ttl,
	}
}

// Get decodes the value stored under key into dest and reports whether it was found
func (c *Cache) Get(ctx context.Context, key string, dest any) (bool, error) {
	data, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			c.misses.Add(1)
			return false, nil
		}
		c.errors.Add(1)
		return false, fmt.Errorf("cache get error: %w", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		c.errors.Add(1)
		return false, fmt.Errorf("cache unmarshal error: %w", err)
	}

	c.hits.Add(1)
	return true, nil
}

// Set stores value with the default TTL
func (c *Cache) Set(ctx context.Context, key string, value any) error {
	return c.SetWithTTL(ctx, key, value, c.ttl)
}

// SetWithTTL stores value with a custom TTL
func (c *Cache) SetWithTTL(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		c.errors.Add(1)
		return fmt.Errorf("cache marshal error: %w", err)
	}

	if err := c.client.Set(ctx, c.prefix+key, data, ttl).Err(); err != nil {
		c.errors.Add(1)
		return fmt.Errorf("cache set error: %w", err)
	}

	c.sets.Add(1)
	return nil
}

// Delete removes key
func (c *Cache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, c.prefix+key).Err(); err != nil {
		c.errors.Add(1)
		return fmt.Errorf("cache delete error: %w", err)
	}

	c.deletes.Add(1)
	return nil
}

// DeletePattern removes every key matching a glob pattern (relative to the prefix)
func (c *Cache) DeletePattern(ctx context.Context, pattern string) error {
	var (
		cursor  uint64
		deleted int
	)

	for {
		keys, next, err := c.client.Scan(ctx, cursor, c.prefix+pattern, 100).Result()
		if err != nil {
			c.errors.Add(1)
			return fmt.Errorf("cache scan error: %w", err)
		}

		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				c.errors.Add(1)
				return fmt.Errorf("cache delete error: %w", err)
			}
			deleted += len(keys)
		}

		cursor = next
		if cursor == 0 {
			break
		}
	}

	c.deletes.Add(uint64(deleted))
	return nil
}

// GetOrLoad returns the cached value for key, calling load and caching its result on a miss.
// Redis failures are not fatal: the loader result is returned uncached.
func GetOrLoad[T any](ctx context.Context, c *Cache, key string, load func(context.Context) (T, error)) (T, error) {
	var value T
	if c != nil {
		if found, err := c.Get(ctx, key, &value); err == nil && found {
			return value, nil
		}
	}

	value, err := load(ctx)
	if err != nil {
		return value, err
	}

	if c != nil {
		_ = c.Set(ctx, key, value)
	}
	return value, nil
}

// Stats returns the current counters
func (c *Cache) Stats() Stats {
	hits := c.hits.Load()
	misses := c.misses.Load()

	var rate float64
	if total := hits + misses; total > 0 {
		rate = float64(hits) / float64(total) * 100
	}

	return Stats{
		Hits:    hits,
		Misses:  misses,
		Sets:    c.sets.Load(),
		Deletes: c.deletes.Load(),
		Errors:  c.errors.Load(),
		HitRate: rate,
	}
}

// Ping checks the Redis connection
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
