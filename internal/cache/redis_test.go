// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// skipIfNoRedis skips the test unless BIGHITS_TEST_REDIS_URL is set.
func skipIfNoRedis(t *testing.T) *RedisCache {
	t.Helper()
	url := os.Getenv("BIGHITS_TEST_REDIS_URL")
	if url == "" {
		t.Skip("Skipping Redis tests: BIGHITS_TEST_REDIS_URL not set")
	}

	opts := DefaultRedisOptions()
	opts.URL = url
	opts.Prefix = "bighits-test:"
	opts.DefaultTTL = time.Minute
	c, err := NewRedisCache(opts)
	if err != nil {
		t.Fatalf("failed to create Redis cache: %v", err)
	}
	t.Cleanup(func() {
		_ = c.Clear(context.Background())
		_ = c.Close()
	})
	_ = c.Clear(context.Background())
	return c
}

func TestRedisCache_Basic(t *testing.T) {
	c := skipIfNoRedis(t)
	ctx := context.Background()

	if err := c.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	got, err := c.Get(ctx, "k")
	if err != nil || string(got) != "v" {
		t.Fatalf("Get = %q, %v", got, err)
	}
	if has, _ := c.Has(ctx, "k"); !has {
		t.Error("expected key to exist")
	}
	_ = c.Delete(ctx, "k")
	if _, err := c.Get(ctx, "k"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("expected ErrCacheMiss, got %v", err)
	}
}

func TestRedisCache_DeleteByPrefix(t *testing.T) {
	c := skipIfNoRedis(t)
	ctx := context.Background()

	_ = c.Set(ctx, "catalog:blogs", []byte("1"), 0)
	_ = c.Set(ctx, "catalog:tutors", []byte("2"), 0)
	_ = c.Set(ctx, "dashboard:stats", []byte("3"), 0)

	if err := c.DeleteByPrefix(ctx, "catalog:"); err != nil {
		t.Fatalf("DeleteByPrefix failed: %v", err)
	}
	if has, _ := c.Has(ctx, "catalog:tutors"); has {
		t.Error("catalog:tutors should be deleted")
	}
	if has, _ := c.Has(ctx, "dashboard:stats"); !has {
		t.Error("dashboard:stats should remain")
	}
	if s := c.Stats(); s.Items != 1 || s.Backend != "redis" {
		t.Errorf("Stats = %+v", s)
	}
}

func TestRedisCache_EmptyURL(t *testing.T) {
	if _, err := NewRedisCache(RedisOptions{}); err == nil {
		t.Error("expected error for empty URL")
	}
}

func TestRedisCache_InvalidURL(t *testing.T) {
	if _, err := NewRedisCache(RedisOptions{URL: "not-a-url"}); err == nil {
		t.Error("expected error for invalid URL")
	}
}

func TestRedisOptions_ClientOptions(t *testing.T) {
	opts := DefaultRedisOptions()
	opts.URL = "redis://:secret@cache.internal:6380/2"
	opts.PoolSize = 25
	opts.ReadTimeout = 0

	ro, err := opts.clientOptions()
	if err != nil {
		t.Fatalf("clientOptions() error = %v", err)
	}
	if ro.Addr != "cache.internal:6380" || ro.DB != 2 || ro.Password != "secret" {
		t.Errorf("parsed URL = addr %q db %d, want cache.internal:6380 db 2", ro.Addr, ro.DB)
	}
	if ro.PoolSize != 25 {
		t.Errorf("PoolSize = %d, want 25", ro.PoolSize)
	}
	if ro.DialTimeout != 5*time.Second || ro.WriteTimeout != 3*time.Second {
		t.Errorf("timeouts = %v/%v, want 5s/3s", ro.DialTimeout, ro.WriteTimeout)
	}
	if ro.ReadTimeout != 0 {
		t.Errorf("ReadTimeout = %v, want the URL's value when unset", ro.ReadTimeout)
	}
}

func TestRedisCache_ClosedWithoutServer(t *testing.T) {
	c := NewRedisCacheWithClient(redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"}), "t:", 0)
	if err := c.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := c.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}

	ctx := context.Background()
	if _, err := c.Get(ctx, "k"); !errors.Is(err, ErrCacheClosed) {
		t.Errorf("Get() error = %v, want ErrCacheClosed", err)
	}
	if err := c.Clear(ctx); !errors.Is(err, ErrCacheClosed) {
		t.Errorf("Clear() error = %v, want ErrCacheClosed", err)
	}
	if s := c.Stats(); s.Backend != "redis" || s.Items != 0 {
		t.Errorf("Stats() = %+v", s)
	}
}
