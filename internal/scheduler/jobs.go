// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/markgaal068/bigHITS/internal/catalog"
)

// Job names.
const (
	JobRefreshStats = "refresh_stats"
	JobEvictViews   = "evict_views"
	JobLoginCleanup = "login_cleanup"
)

// StatsRefresher recounts the dashboard totals. *cache.Totals satisfies it.
type StatsRefresher interface {
	Refresh(ctx context.Context) (catalog.Totals, error)
}

// Evicter drops idle mounted views. *collection.Registry satisfies it.
type Evicter interface {
	Evict(idle time.Duration) int
	Len() int
}

// LoginPruner forgets expired login attempts. *middleware.LoginProtection
// satisfies it.
type LoginPruner interface {
	Cleanup() int
}

// Gauges receives the figures the jobs compute. *metrics.Metrics satisfies it.
type Gauges interface {
	SetCatalogRecords(kind string, n int64)
	SetViewsMounted(n int)
}

// RefreshStatsJob recounts the dashboard totals and publishes them as gauges.
func RefreshStatsJob(schedule string, stats StatsRefresher, gauges Gauges) Job {
	return Job{
		Name:        JobRefreshStats,
		Description: "Recount dashboard totals",
		Schedule:    schedule,
		Run: func(ctx context.Context) error {
			totals, err := stats.Refresh(ctx)
			if err != nil {
				return fmt.Errorf("refreshing totals: %w", err)
			}
			if gauges != nil {
				gauges.SetCatalogRecords(catalog.KindBlogs, int64(totals.Blogs.Total))
				gauges.SetCatalogRecords(catalog.KindProducts, int64(totals.Products.Total))
				gauges.SetCatalogRecords(catalog.KindTutors, int64(totals.Tutors.Total))
			}
			return nil
		},
	}
}

// EvictViewsJob unmounts views not used for idle.
func EvictViewsJob(schedule string, views Evicter, idle time.Duration, gauges Gauges) Job {
	return Job{
		Name:        JobEvictViews,
		Description: "Unmount idle list and form views",
		Schedule:    schedule,
		Run: func(context.Context) error {
			if n := views.Evict(idle); n > 0 {
				slog.Info("evicted idle views", "count", n, "idle", idle.String())
			}
			if gauges != nil {
				gauges.SetViewsMounted(views.Len())
			}
			return nil
		},
	}
}

// LoginCleanupJob prunes expired failed sign-in records.
func LoginCleanupJob(schedule string, lp LoginPruner) Job {
	return Job{
		Name:        JobLoginCleanup,
		Description: "Prune expired failed sign-in records",
		Schedule:    schedule,
		Run: func(context.Context) error {
			if n := lp.Cleanup(); n > 0 {
				slog.Debug("pruned login attempt records", "count", n)
			}
			return nil
		},
	}
}
