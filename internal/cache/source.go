// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/markgaal068/bigHITS/internal/catalog"
	"github.com/markgaal068/bigHITS/internal/collection"
	"github.com/markgaal068/bigHITS/internal/model"
)

// StatsKey is the key under which the dashboard totals are cached. Every
// cached source drops it on a successful mutation.
const StatsKey = "dashboard:stats"

// Source decorates a data source with a read-through cache of FetchAll.
// Cache failures never fail a call; the inner source is the authority.
type Source[T any, D any] struct {
	inner collection.DataSource[T, D]
	list  *Typed[[]T]
	key   string
	drop  []string
}

// NewSource wraps inner, caching its full listing under "catalog:<kind>".
func NewSource[T any, D any](inner collection.DataSource[T, D], c Cache, kind string, ttl time.Duration) *Source[T, D] {
	return &Source[T, D]{
		inner: inner,
		list:  NewTyped[[]T](c, ttl),
		key:   "catalog:" + kind,
		drop:  []string{StatsKey},
	}
}

// FetchAll serves the listing from cache when present.
func (s *Source[T, D]) FetchAll(ctx context.Context) ([]T, error) {
	if recs, ok := s.list.Get(ctx, s.key); ok {
		return recs, nil
	}
	recs, err := s.inner.FetchAll(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.list.Set(ctx, s.key, recs); err != nil {
		slog.Warn("failed to cache listing", "key", s.key, "error", err)
	}
	return recs, nil
}

// FetchByID always reads through so edit forms see the stored record.
func (s *Source[T, D]) FetchByID(ctx context.Context, id string) (T, error) {
	return s.inner.FetchByID(ctx, id)
}

// Save persists draft and invalidates the listing.
func (s *Source[T, D]) Save(ctx context.Context, draft D) (T, error) {
	rec, err := s.inner.Save(ctx, draft)
	if err == nil {
		s.invalidate(ctx)
	}
	return rec, err
}

// UpdatePublished persists the flag and invalidates the listing.
func (s *Source[T, D]) UpdatePublished(ctx context.Context, id string, published bool) error {
	if err := s.inner.UpdatePublished(ctx, id, published); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// Delete removes the record and invalidates the listing.
func (s *Source[T, D]) Delete(ctx context.Context, id string) error {
	if err := s.inner.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// Invalidate drops the cached listing.
func (s *Source[T, D]) Invalidate(ctx context.Context) {
	s.invalidate(ctx)
}

func (s *Source[T, D]) invalidate(ctx context.Context) {
	for _, key := range append([]string{s.key}, s.drop...) {
		if err := s.list.Delete(ctx, key); err != nil {
			slog.Warn("failed to invalidate cache", "key", key, "error", err)
		}
	}
}

// WrapSources puts a cached Source in front of every source in src.
func WrapSources(src catalog.Sources, c Cache, ttl time.Duration) catalog.Sources {
	return catalog.Sources{
		Blogs:    NewSource[model.Blog, model.BlogDraft](src.Blogs, c, catalog.KindBlogs, ttl),
		Products: NewSource[model.Product, model.ProductDraft](src.Products, c, catalog.KindProducts, ttl),
		Tutors:   NewSource[model.Tutor, model.TutorDraft](src.Tutors, c, catalog.KindTutors, ttl),
	}
}

var _ collection.DataSource[model.Blog, model.BlogDraft] = (*Source[model.Blog, model.BlogDraft])(nil)
