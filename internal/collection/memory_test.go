// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package collection

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMemoryItems(latency time.Duration) *MemorySource[item, itemDraft] {
	next := 100
	cfg := MemoryConfig[item, itemDraft]{
		Noun:    "item",
		Latency: latency,
		Build: func(d itemDraft, existing *item) (item, error) {
			rec := item{Title: d.Title, Slug: d.Slug}
			if existing != nil {
				rec.ID = existing.ID
				rec.Published = existing.Published
			} else {
				next++
				rec.ID = strconv.Itoa(next)
			}
			return rec, nil
		},
		Slug: func(i item) string { return i.Slug },
	}
	return NewMemorySource(cfg, []item{
		{ID: "1", Title: "One", Slug: "one"},
		{ID: "2", Title: "Two", Slug: "two", Published: true},
	})
}

func TestMemorySourceCRUD(t *testing.T) {
	ctx := context.Background()
	s := newMemoryItems(0)

	all, err := s.FetchAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	created, err := s.Save(ctx, itemDraft{}.WithTitle("Three"))
	require.NoError(t, err)
	assert.Equal(t, "101", created.ID)
	assert.Equal(t, "three", created.Slug)

	updated, err := s.Save(ctx, itemDraft{ID: "2"}.WithTitle("Deux"))
	require.NoError(t, err)
	assert.True(t, updated.Published)

	got, err := s.FetchByID(ctx, "2")
	require.NoError(t, err)
	assert.Equal(t, "Deux", got.Title)

	require.NoError(t, s.UpdatePublished(ctx, "1", true))
	got, _ = s.FetchByID(ctx, "1")
	assert.True(t, got.Published)

	require.NoError(t, s.Delete(ctx, "1"))
	_, err = s.FetchByID(ctx, "1")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, "1"), ErrNotFound)
	assert.ErrorIs(t, s.UpdatePublished(ctx, "1", false), ErrNotFound)

	_, err = s.Save(ctx, itemDraft{ID: "404"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemorySourceUniqueSlug(t *testing.T) {
	s := newMemoryItems(0)
	_, err := s.Save(context.Background(), itemDraft{}.WithTitle("One"))
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "A item with this slug already exists", verr.Message)

	// Re-saving a record with its own slug is fine.
	_, err = s.Save(context.Background(), itemDraft{ID: "1"}.WithTitle("One"))
	assert.NoError(t, err)
}

func TestMemorySourceLatencyHonoursContext(t *testing.T) {
	s := newMemoryItems(time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.FetchAll(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMemorySourceCopies(t *testing.T) {
	s := newMemoryItems(0)
	all, _ := s.FetchAll(context.Background())
	all[0].Title = "mutated"
	got, _ := s.FetchByID(context.Background(), "1")
	assert.Equal(t, "One", got.Title)
}

func TestControllerOverMemorySource(t *testing.T) {
	s := newMemoryItems(time.Millisecond)
	c := NewController[item](itemSchema, s)
	require.NoError(t, c.Load(context.Background()))

	_, err := c.TogglePublished(context.Background(), "1")
	require.NoError(t, err)
	stored, _ := s.FetchByID(context.Background(), "1")
	assert.True(t, stored.Published)

	require.NoError(t, c.Remove(context.Background(), "2", Answer(true)))
	all, _ := s.FetchAll(context.Background())
	assert.Equal(t, "1", idsOf(all))
	assert.Equal(t, "1", idsOf(c.View()))
}
