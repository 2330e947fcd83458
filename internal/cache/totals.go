// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"time"

	"github.com/markgaal068/bigHITS/internal/catalog"
)

// Totals serves the dashboard figures from the cache under StatsKey,
// counting them from the sources on a miss.
type Totals struct {
	stats   *Typed[catalog.Totals]
	sources catalog.Sources
	users   catalog.UserCounter
	now     func() time.Time
}

// NewTotals creates a Totals. users may be nil when there is no user store.
func NewTotals(c Cache, sources catalog.Sources, users catalog.UserCounter, ttl time.Duration) *Totals {
	return &Totals{
		stats:   NewTyped[catalog.Totals](c, ttl),
		sources: sources,
		users:   users,
		now:     time.Now,
	}
}

// Get returns the cached totals or counts them.
func (t *Totals) Get(ctx context.Context) (catalog.Totals, error) {
	return t.stats.GetOrSet(ctx, StatsKey, t.count)
}

// Refresh counts the totals and replaces the cached copy.
func (t *Totals) Refresh(ctx context.Context) (catalog.Totals, error) {
	totals, err := t.count(ctx)
	if err != nil {
		return catalog.Totals{}, err
	}
	if err := t.stats.Set(ctx, StatsKey, totals); err != nil {
		return totals, err
	}
	return totals, nil
}

func (t *Totals) count(ctx context.Context) (catalog.Totals, error) {
	return catalog.CountTotals(ctx, t.sources, t.users, t.now().UTC())
}
