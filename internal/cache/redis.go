// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	redisDialTimeout = 5 * time.Second
	// Keys fetched per SCAN round trip.
	redisScanBatch = 500
)

// RedisOptions configures the Redis cache.
type RedisOptions struct {
	// URL is the connection URL, e.g. redis://localhost:6379/0.
	URL string

	// Prefix namespaces every catalog key so deployments can share a server.
	Prefix string

	DefaultTTL     time.Duration
	PoolSize       int
	ConnectTimeout time.Duration
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
}

// DefaultRedisOptions returns the options used when only a URL is configured.
func DefaultRedisOptions() RedisOptions {
	return RedisOptions{
		Prefix:         "bighits:",
		DefaultTTL:     time.Hour,
		PoolSize:       10,
		ConnectTimeout: redisDialTimeout,
		ReadTimeout:    3 * time.Second,
		WriteTimeout:   3 * time.Second,
	}
}

// clientOptions parses the URL and overlays the explicitly set limits.
func (o RedisOptions) clientOptions() (*redis.Options, error) {
	if o.URL == "" {
		return nil, errors.New("redis URL is required")
	}
	ro, err := redis.ParseURL(o.URL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis URL: %w", err)
	}

	overlay := func(dst *time.Duration, v time.Duration) {
		if v > 0 {
			*dst = v
		}
	}
	overlay(&ro.DialTimeout, o.ConnectTimeout)
	overlay(&ro.ReadTimeout, o.ReadTimeout)
	overlay(&ro.WriteTimeout, o.WriteTimeout)
	if o.PoolSize > 0 {
		ro.PoolSize = o.PoolSize
	}
	return ro, nil
}

// RedisCache stores catalog snapshots and token revocations in Redis so that
// every instance behind a load balancer sees the same invalidations.
type RedisCache struct {
	rdb        redis.UniversalClient
	ns         string
	defaultTTL time.Duration
	closed     atomic.Bool

	hits, misses, sets atomic.Int64
}

// NewRedisCache dials Redis and fails unless a PING succeeds within the
// connect timeout.
func NewRedisCache(opts RedisOptions) (*RedisCache, error) {
	ro, err := opts.clientOptions()
	if err != nil {
		return nil, err
	}

	rdb := redis.NewClient(ro)
	ctx, cancel := context.WithTimeout(context.Background(), ro.DialTimeout)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}
	return NewRedisCacheWithClient(rdb, opts.Prefix, opts.DefaultTTL), nil
}

// NewRedisCacheWithClient wraps an existing client.
func NewRedisCacheWithClient(rdb redis.UniversalClient, prefix string, defaultTTL time.Duration) *RedisCache {
	if defaultTTL <= 0 {
		defaultTTL = time.Hour
	}
	return &RedisCache{rdb: rdb, ns: prefix, defaultTTL: defaultTTL}
}

func (c *RedisCache) usable() error {
	if c.closed.Load() {
		return ErrCacheClosed
	}
	return nil
}

func (c *RedisCache) key(k string) string { return c.ns + k }

// Get returns ErrCacheMiss for absent keys.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	if err := c.usable(); err != nil {
		return nil, err
	}
	val, err := c.rdb.Get(ctx, c.key(key)).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		c.misses.Add(1)
		return nil, ErrCacheMiss
	case err != nil:
		return nil, fmt.Errorf("redis get %q: %w", key, err)
	}
	c.hits.Add(1)
	return val, nil
}

// Set stores value under key. A non-positive ttl uses the default.
func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.usable(); err != nil {
		return err
	}
	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	if err := c.rdb.Set(ctx, c.key(key), value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %q: %w", key, err)
	}
	c.sets.Add(1)
	return nil
}

func (c *RedisCache) Delete(ctx context.Context, key string) error {
	if err := c.usable(); err != nil {
		return err
	}
	return c.rdb.Unlink(ctx, c.key(key)).Err()
}

// DeleteByPrefix drops every key under prefix, relative to the namespace.
func (c *RedisCache) DeleteByPrefix(ctx context.Context, prefix string) error {
	if err := c.usable(); err != nil {
		return err
	}
	return c.unlinkMatching(ctx, c.key(prefix)+"*")
}

// Clear drops the whole namespace.
func (c *RedisCache) Clear(ctx context.Context) error {
	return c.DeleteByPrefix(ctx, "")
}

func (c *RedisCache) unlinkMatching(ctx context.Context, pattern string) error {
	return c.walk(ctx, pattern, func(keys []string) error {
		return c.rdb.Unlink(ctx, keys...).Err()
	})
}

// walk hands fn each non-empty SCAN batch matching pattern. SCAN keeps the
// server responsive where KEYS would block it.
func (c *RedisCache) walk(ctx context.Context, pattern string, fn func(keys []string) error) error {
	var cursor uint64
	for {
		keys, next, err := c.rdb.Scan(ctx, cursor, pattern, redisScanBatch).Result()
		if err != nil {
			return fmt.Errorf("redis scan %q: %w", pattern, err)
		}
		if len(keys) > 0 {
			if err := fn(keys); err != nil {
				return err
			}
		}
		if cursor = next; cursor == 0 {
			return nil
		}
	}
}

func (c *RedisCache) Has(ctx context.Context, key string) (bool, error) {
	if err := c.usable(); err != nil {
		return false, err
	}
	n, err := c.rdb.Exists(ctx, c.key(key)).Result()
	return n > 0, err
}

// Ping reports whether the server is reachable. Used by the health check.
func (c *RedisCache) Ping(ctx context.Context) error {
	if err := c.usable(); err != nil {
		return err
	}
	return c.rdb.Ping(ctx).Err()
}

// Close is idempotent.
func (c *RedisCache) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	return c.rdb.Close()
}

// Stats reports this instance's counters. Items is an approximate SCAN
// count over the namespace and stays zero once the cache is closed.
func (c *RedisCache) Stats() Stats {
	hits, misses := c.hits.Load(), c.misses.Load()
	s := Stats{
		Backend: "redis",
		Hits:    hits,
		Misses:  misses,
		Sets:    c.sets.Load(),
		HitRate: hitRate(hits, misses),
	}
	if c.usable() != nil {
		return s
	}

	ctx, cancel := context.WithTimeout(context.Background(), redisDialTimeout)
	defer cancel()
	_ = c.walk(ctx, c.key("*"), func(keys []string) error {
		s.Items += len(keys)
		return nil
	})
	return s
}

func (c *RedisCache) ResetStats() {
	for _, n := range []*atomic.Int64{&c.hits, &c.misses, &c.sets} {
		n.Store(0)
	}
}

var (
	_ Cache         = (*RedisCache)(nil)
	_ StatsProvider = (*RedisCache)(nil)
)
