// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/markgaal068/bigHITS/internal/collection"
	"github.com/markgaal068/bigHITS/internal/model"
)

// Count is the number of records of one kind and how many are published.
type Count struct {
	Total     int `json:"total"`
	Published int `json:"published"`
}

// Totals are the figures shown on the admin dashboard.
type Totals struct {
	Blogs       Count     `json:"blogs"`
	Products    Count     `json:"products"`
	Tutors      Count     `json:"tutors"`
	Users       int64     `json:"users"`
	RefreshedAt time.Time `json:"refreshed_at"`
}

// UserCounter counts registered users. *store.Queries satisfies it.
type UserCounter interface {
	CountUsers(ctx context.Context) (int64, error)
}

// CountTotals reads every source once and tallies the dashboard figures.
func CountTotals(ctx context.Context, src Sources, users UserCounter, now time.Time) (Totals, error) {
	var (
		t   = Totals{RefreshedAt: now}
		err error
	)
	if t.Blogs, err = count[model.Blog](ctx, src.Blogs); err != nil {
		return Totals{}, fmt.Errorf("counting blogs: %w", err)
	}
	if t.Products, err = count[model.Product](ctx, src.Products); err != nil {
		return Totals{}, fmt.Errorf("counting products: %w", err)
	}
	if t.Tutors, err = count[model.Tutor](ctx, src.Tutors); err != nil {
		return Totals{}, fmt.Errorf("counting tutors: %w", err)
	}
	if users != nil {
		if t.Users, err = users.CountUsers(ctx); err != nil {
			return Totals{}, fmt.Errorf("counting users: %w", err)
		}
	}
	return t, nil
}

func count[T collection.Record[T]](ctx context.Context, l collection.Lister[T]) (Count, error) {
	recs, err := l.FetchAll(ctx)
	if err != nil {
		return Count{}, err
	}
	c := Count{Total: len(recs)}
	for _, r := range recs {
		if r.IsPublished() {
			c.Published++
		}
	}
	return c, nil
}

// Published returns the published records of l.
func Published[T collection.Record[T]](ctx context.Context, l collection.Lister[T]) ([]T, error) {
	recs, err := l.FetchAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(recs))
	for _, r := range recs {
		if r.IsPublished() {
			out = append(out, r)
		}
	}
	return out, nil
}
