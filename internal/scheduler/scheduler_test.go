// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markgaal068/bigHITS/internal/cache"
	"github.com/markgaal068/bigHITS/internal/catalog"
	"github.com/markgaal068/bigHITS/internal/collection"
	"github.com/markgaal068/bigHITS/internal/testutil"
)

func TestScheduler_StartStop(t *testing.T) {
	s := New(testutil.TestLogger())
	require.NoError(t, s.Add(Job{Name: "noop", Schedule: "@every 1h", Run: func(context.Context) error { return nil }}))

	s.Start()
	s.Stop()
}

func TestAddValidates(t *testing.T) {
	s := New(testutil.TestLogger())
	noop := func(context.Context) error { return nil }

	assert.Error(t, s.Add(Job{Name: "bad", Schedule: "every now and then", Run: noop}))
	assert.Error(t, s.Add(Job{Schedule: "@hourly", Run: noop}))
	assert.Error(t, s.Add(Job{Name: "nil", Schedule: "@hourly"}))

	require.NoError(t, s.Add(Job{Name: "ok", Schedule: "*/5 * * * *", Run: noop}))
	assert.Error(t, s.Add(Job{Name: "ok", Schedule: "@hourly", Run: noop}), "duplicate name")
}

func TestValidateSchedule(t *testing.T) {
	for _, expr := range []string{"* * * * *", "0 3 * * 1", "@every 30s", "@daily"} {
		assert.NoError(t, ValidateSchedule(expr), expr)
	}
	for _, expr := range []string{"", "* * *", "61 * * * *", "@sometimes"} {
		assert.Error(t, ValidateSchedule(expr), expr)
	}
}

func TestTriggerNowRecordsError(t *testing.T) {
	s := New(testutil.TestLogger())
	calls := 0
	require.NoError(t, s.Add(Job{Name: "flaky", Schedule: "@hourly", Run: func(context.Context) error {
		calls++
		if calls == 1 {
			return errors.New("boom")
		}
		return nil
	}}))

	assert.Error(t, s.TriggerNow("flaky"))
	assert.Equal(t, "boom", s.List()[0].LastError)

	assert.NoError(t, s.TriggerNow("flaky"))
	assert.Empty(t, s.List()[0].LastError)

	assert.Error(t, s.TriggerNow("missing"))
}

type gauges struct {
	records map[string]int64
	views   int
}

func (g *gauges) SetCatalogRecords(kind string, n int64) { g.records[kind] = n }
func (g *gauges) SetViewsMounted(n int)                  { g.views = n }

func TestRefreshStatsJob(t *testing.T) {
	c := cache.NewMemoryCache(cache.MemoryOptions{})
	defer func() { _ = c.Close() }()
	totals := cache.NewTotals(c, catalog.NewMemorySources(0), nil, time.Minute)
	g := &gauges{records: map[string]int64{}}

	job := RefreshStatsJob("@every 5m", totals, g)
	require.NoError(t, job.Run(context.Background()))

	assert.Equal(t, int64(6), g.records[catalog.KindBlogs])
	assert.Equal(t, int64(6), g.records[catalog.KindProducts])
	assert.Equal(t, int64(6), g.records[catalog.KindTutors])

	has, err := c.Has(context.Background(), cache.StatsKey)
	require.NoError(t, err)
	assert.True(t, has)
}

func TestEvictViewsJob(t *testing.T) {
	registry := collection.NewRegistry()
	collection.Mount(registry, collection.ViewKey{Viewer: "v", View: "blogs"}, false, func() int { return 1 })
	g := &gauges{records: map[string]int64{}}

	job := EvictViewsJob("@every 1m", registry, time.Hour, g)
	require.NoError(t, job.Run(context.Background()))
	assert.Equal(t, 1, g.views, "recently used views stay")

	job = EvictViewsJob("@every 1m", registry, -time.Second, g)
	require.NoError(t, job.Run(context.Background()))
	assert.Equal(t, 0, g.views)
}

type pruner int

func (p *pruner) Cleanup() int { *p++; return 0 }

func TestLoginCleanupJob(t *testing.T) {
	var p pruner
	require.NoError(t, LoginCleanupJob("@every 10m", &p).Run(context.Background()))
	assert.Equal(t, pruner(1), p)
}
