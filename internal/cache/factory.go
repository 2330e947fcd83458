// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"log/slog"
	"net/url"
	"time"
)

// Config holds configuration for cache creation.
type Config struct {
	// RedisURL selects the Redis backend when set.
	RedisURL string

	// Prefix namespaces Redis keys.
	Prefix string

	DefaultTTL      time.Duration
	MaxSize         int
	CleanupInterval time.Duration

	// FallbackToMemory uses the memory backend when Redis is unreachable
	// instead of failing startup.
	FallbackToMemory bool
}

// DefaultConfig returns the default cache configuration.
func DefaultConfig() Config {
	return Config{
		Prefix:           "bighits:",
		DefaultTTL:       5 * time.Minute,
		MaxSize:          10000,
		CleanupInterval:  time.Minute,
		FallbackToMemory: true,
	}
}

// New creates a Redis cache when RedisURL is set and a memory cache otherwise.
func New(cfg Config) (Cache, error) {
	if cfg.RedisURL == "" {
		return newMemory(cfg), nil
	}

	opts := DefaultRedisOptions()
	opts.URL = cfg.RedisURL
	if cfg.Prefix != "" {
		opts.Prefix = cfg.Prefix
	}
	if cfg.DefaultTTL > 0 {
		opts.DefaultTTL = cfg.DefaultTTL
	}

	rc, err := NewRedisCache(opts)
	if err != nil {
		if !cfg.FallbackToMemory {
			return nil, err
		}
		slog.Warn("redis unavailable, using memory cache",
			"redis_url", SanitizeRedisURL(cfg.RedisURL), "error", err)
		return newMemory(cfg), nil
	}
	slog.Info("using redis cache", "redis_url", SanitizeRedisURL(cfg.RedisURL), "prefix", opts.Prefix)
	return rc, nil
}

func newMemory(cfg Config) *MemoryCache {
	return NewMemoryCache(MemoryOptions{
		DefaultTTL:      cfg.DefaultTTL,
		MaxSize:         cfg.MaxSize,
		CleanupInterval: cfg.CleanupInterval,
	})
}

// SanitizeRedisURL masks the password in a Redis URL for logging.
func SanitizeRedisURL(raw string) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "[invalid URL]"
	}
	if _, has := u.User.Password(); has {
		u.User = url.UserPassword(u.User.Username(), "***")
	}
	return u.String()
}
