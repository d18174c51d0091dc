package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// DefaultTTL applies when a CatalogCache is built with a non-positive TTL.
	DefaultTTL = 5 * time.Minute

	collectionKeyPrefix = "catalog:collection"
)

// CatalogCache stores collection summaries as JSON strings under
// catalog:collection:{contract}. Only data this service never mutates is
// cached here; items, accounts and activity always come from the store.
type CatalogCache struct {
	client *RedisClient
	ttl    time.Duration
}

// NewCatalogCache creates a CatalogCache backed by the given RedisClient.
func NewCatalogCache(r *RedisClient, ttl time.Duration) *CatalogCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &CatalogCache{client: r, ttl: ttl}
}

// CollectionKey builds the key for the summary of the collection at contract.
func CollectionKey(contract string) string {
	return fmt.Sprintf("%s:%s", collectionKeyPrefix, contract)
}

// GetJSON decodes the value at key into dst.
// Returns redis.Nil when the key does not exist or has expired.
func (c *CatalogCache) GetJSON(ctx context.Context, key string, dst any) error {
	raw, err := c.client.Client().Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return redis.Nil
		}
		return fmt.Errorf("cache get: %w", err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("cache decode %s: %w", key, err)
	}
	return nil
}

// SetJSON encodes v and stores it at key with the cache TTL.
func (c *CatalogCache) SetJSON(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("cache encode %s: %w", key, err)
	}
	if err := c.client.Client().Set(ctx, key, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}
