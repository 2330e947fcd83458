// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package catalog

import (
	"strconv"
	"sync/atomic"
	"time"

	"github.com/markgaal068/bigHITS/internal/collection"
	"github.com/markgaal068/bigHITS/internal/model"
)

// Type aliases for the per-type data sources.
type (
	BlogSource    = collection.DataSource[model.Blog, model.BlogDraft]
	ProductSource = collection.DataSource[model.Product, model.ProductDraft]
	TutorSource   = collection.DataSource[model.Tutor, model.TutorDraft]
)

// Sources bundles one data source per record type.
type Sources struct {
	Blogs    BlogSource
	Products ProductSource
	Tutors   TutorSource
}

// NewMemorySources returns in-process sources seeded with the fixtures.
// Every call sleeps for latency first.
func NewMemorySources(latency time.Duration) Sources {
	blogs := FixtureBlogs()
	var lastID atomic.Int64
	for _, b := range blogs {
		if b.ID > lastID.Load() {
			lastID.Store(b.ID)
		}
	}

	return Sources{
		Blogs: collection.NewMemorySource(collection.MemoryConfig[model.Blog, model.BlogDraft]{
			Noun:    "blog",
			Latency: latency,
			Build: func(d model.BlogDraft, existing *model.Blog) (model.Blog, error) {
				b, err := BuildBlog(d, existing, time.Now())
				if err == nil && existing == nil {
					b.ID = lastID.Add(1)
				}
				return b, err
			},
			Slug: func(b model.Blog) string { return b.Slug },
		}, blogs),
		Products: collection.NewMemorySource(collection.MemoryConfig[model.Product, model.ProductDraft]{
			Noun:    "product",
			Latency: latency,
			Build: func(d model.ProductDraft, existing *model.Product) (model.Product, error) {
				return BuildProduct(d, existing, time.Now())
			},
			Slug: func(p model.Product) string { return p.Slug },
		}, FixtureProducts()),
		Tutors: collection.NewMemorySource(collection.MemoryConfig[model.Tutor, model.TutorDraft]{
			Noun:    "tutor",
			Latency: latency,
			Build: func(d model.TutorDraft, existing *model.Tutor) (model.Tutor, error) {
				return BuildTutor(d, existing, time.Now())
			},
			Slug: func(t model.Tutor) string { return t.Slug },
		}, FixtureTutors()),
	}
}

// ParseBlogID parses a blog ID from a URL parameter.
func ParseBlogID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, collection.ErrNotFound
	}
	return id, nil
}
