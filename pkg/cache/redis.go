// Package cache holds the Redis connection shared by the catalog and the
// collection-summary read cache built on it.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ghuser/nftcatalog/pkg/config"
)

const (
	minPoolSize  = 10
	minIdleConns = 2
	pingTimeout  = 2 * time.Second
)

// RedisClient wraps the go-redis client used for sessions and the catalog cache.
type RedisClient struct {
	client *redis.Client
}

// NewRedisClient connects to cfg.RedisURL and verifies the connection with a Ping.
func NewRedisClient(cfg *config.Config) (*RedisClient, error) {
	opts, err := redisOptions(cfg)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return &RedisClient{client: rdb}, nil
}

// redisOptions sizes the pool at twice EnrichConcurrency (minimum 10) and
// caps socket timeouts at the store timeout.
func redisOptions(cfg *config.Config) (*redis.Options, error) {
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	opts.ClientName = cfg.ServiceName
	opts.PoolSize = max(minPoolSize, 2*cfg.EnrichConcurrency)
	opts.MinIdleConns = minIdleConns
	opts.MaxRetries = 3

	rw := 3 * time.Second
	if cfg.StoreTimeout > 0 && cfg.StoreTimeout < rw {
		rw = cfg.StoreTimeout
	}
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = rw
	opts.WriteTimeout = rw
	opts.PoolTimeout = rw + time.Second
	return opts, nil
}

// Ping checks the Redis connection health.
func (r *RedisClient) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

// Close shuts down the connection pool.
func (r *RedisClient) Close() error {
	if r.client == nil {
		return nil
	}
	if err := r.client.Close(); err != nil {
		return fmt.Errorf("redis close: %w", err)
	}
	return nil
}

// Client returns the underlying redis.Client for direct use.
func (r *RedisClient) Client() *redis.Client {
	return r.client
}
