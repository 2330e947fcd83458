// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"github.com/markgaal068/bigHITS/internal/catalog"
	"github.com/markgaal068/bigHITS/internal/collection"
	"github.com/markgaal068/bigHITS/internal/handler"
	"github.com/markgaal068/bigHITS/internal/metrics"
	"github.com/markgaal068/bigHITS/internal/model"
)

// Resources holds one resource per record type.
type Resources struct {
	Blogs    *Resource[model.Blog, model.BlogDraft]
	Products *Resource[model.Product, model.ProductDraft]
	Tutors   *Resource[model.Tutor, model.TutorDraft]
}

// NewResources creates the resources over sources. m may be nil.
func NewResources(sources catalog.Sources, registry *collection.Registry, m *metrics.Metrics) Resources {
	return Resources{
		Blogs: NewResource(handler.BlogKind(sources.Blogs), func(d model.BlogDraft, id string) model.BlogDraft {
			d.ID = id
			return d
		}, registry, m),
		Products: NewResource(handler.ProductKind(sources.Products), func(d model.ProductDraft, id string) model.ProductDraft {
			d.ID = id
			return d
		}, registry, m),
		Tutors: NewResource(handler.TutorKind(sources.Tutors), func(d model.TutorDraft, id string) model.TutorDraft {
			d.ID = id
			return d
		}, registry, m),
	}
}
