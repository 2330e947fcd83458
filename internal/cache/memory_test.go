// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
)

func newTestMemory(t *testing.T, opts MemoryOptions) *MemoryCache {
	t.Helper()
	c := NewMemoryCache(opts)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestMemoryCache_BasicOperations(t *testing.T) {
	c := newTestMemory(t, MemoryOptions{DefaultTTL: time.Hour})
	ctx := context.Background()

	if err := c.Set(ctx, "key1", []byte("value1"), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	val, err := c.Get(ctx, "key1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(val) != "value1" {
		t.Errorf("expected value1, got %s", val)
	}

	has, err := c.Has(ctx, "key1")
	if err != nil || !has {
		t.Errorf("Has = %v, %v; want true, nil", has, err)
	}

	if err := c.Delete(ctx, "key1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := c.Get(ctx, "key1"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("expected ErrCacheMiss, got %v", err)
	}
}

func TestMemoryCache_Expiration(t *testing.T) {
	c := newTestMemory(t, MemoryOptions{DefaultTTL: time.Minute})
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	ctx := context.Background()

	_ = c.Set(ctx, "short", []byte("a"), time.Second)
	_ = c.Set(ctx, "long", []byte("b"), 0)

	now = now.Add(2 * time.Second)

	if _, err := c.Get(ctx, "short"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("short: expected ErrCacheMiss, got %v", err)
	}
	if has, _ := c.Has(ctx, "short"); has {
		t.Error("expired key should not be reported by Has")
	}
	if _, err := c.Get(ctx, "long"); err != nil {
		t.Errorf("long: unexpected error %v", err)
	}

	now = now.Add(time.Hour)
	if n := c.RemoveExpired(); n != 1 {
		t.Errorf("RemoveExpired = %d, want 1", n)
	}
	if got := c.Stats().Items; got != 0 {
		t.Errorf("Items = %d, want 0", got)
	}
}

func TestMemoryCache_MaxSizeEvictsOldest(t *testing.T) {
	c := newTestMemory(t, MemoryOptions{DefaultTTL: time.Hour, MaxSize: 2})
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	ctx := context.Background()

	for _, k := range []string{"a", "b", "c"} {
		_ = c.Set(ctx, k, []byte(k), 0)
		now = now.Add(time.Second)
	}

	if _, err := c.Get(ctx, "a"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("oldest entry should have been evicted, got %v", err)
	}
	for _, k := range []string{"b", "c"} {
		if _, err := c.Get(ctx, k); err != nil {
			t.Errorf("Get(%q) failed: %v", k, err)
		}
	}
}

func TestMemoryCache_DeleteByPrefix(t *testing.T) {
	c := newTestMemory(t, MemoryOptions{})
	ctx := context.Background()

	_ = c.Set(ctx, "catalog:blogs", []byte("1"), 0)
	_ = c.Set(ctx, "catalog:tutors", []byte("2"), 0)
	_ = c.Set(ctx, "dashboard:stats", []byte("3"), 0)

	if err := c.DeleteByPrefix(ctx, "catalog:"); err != nil {
		t.Fatalf("DeleteByPrefix failed: %v", err)
	}
	if has, _ := c.Has(ctx, "catalog:blogs"); has {
		t.Error("catalog:blogs should be deleted")
	}
	if has, _ := c.Has(ctx, "dashboard:stats"); !has {
		t.Error("dashboard:stats should remain")
	}
}

func TestMemoryCache_ClearAndStats(t *testing.T) {
	c := newTestMemory(t, MemoryOptions{})
	ctx := context.Background()

	_ = c.Set(ctx, "k", []byte("abcd"), 0)
	_, _ = c.Get(ctx, "k")
	_, _ = c.Get(ctx, "missing")

	s := c.Stats()
	if s.Hits != 1 || s.Misses != 1 || s.Sets != 1 || s.Items != 1 || s.Size != 4 {
		t.Errorf("unexpected stats %+v", s)
	}
	if s.HitRate != 50 {
		t.Errorf("HitRate = %v, want 50", s.HitRate)
	}

	_ = c.Clear(ctx)
	c.ResetStats()
	s = c.Stats()
	if s.Items != 0 || s.Size != 0 || s.Hits != 0 {
		t.Errorf("stats after clear = %+v", s)
	}
}

func TestMemoryCache_ValueCopy(t *testing.T) {
	c := newTestMemory(t, MemoryOptions{})
	ctx := context.Background()

	in := []byte("hello")
	_ = c.Set(ctx, "k", in, 0)
	in[0] = 'J'

	out, _ := c.Get(ctx, "k")
	if string(out) != "hello" {
		t.Errorf("stored value changed through caller slice: %s", out)
	}
	out[0] = 'Y'
	again, _ := c.Get(ctx, "k")
	if string(again) != "hello" {
		t.Errorf("stored value changed through returned slice: %s", again)
	}
}

func TestMemoryCache_Close(t *testing.T) {
	c := NewMemoryCache(MemoryOptions{CleanupInterval: time.Millisecond})
	ctx := context.Background()

	if err := c.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("second Close failed: %v", err)
	}
	if _, err := c.Get(ctx, "k"); !errors.Is(err, ErrCacheClosed) {
		t.Errorf("Get after close: %v", err)
	}
	if err := c.Set(ctx, "k", nil, 0); !errors.Is(err, ErrCacheClosed) {
		t.Errorf("Set after close: %v", err)
	}
}

func TestMemoryCache_ConcurrentAccess(t *testing.T) {
	c := newTestMemory(t, MemoryOptions{MaxSize: 50})
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := range 100 {
				key := fmt.Sprintf("k%d", (n*j)%80)
				_ = c.Set(ctx, key, []byte(key), 0)
				_, _ = c.Get(ctx, key)
				if j%10 == 0 {
					_ = c.Delete(ctx, key)
				}
			}
		}(i)
	}
	wg.Wait()

	if items := c.Stats().Items; items > 50 {
		t.Errorf("Items = %d exceeds MaxSize", items)
	}
}
