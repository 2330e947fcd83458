// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package catalog

import (
	"github.com/markgaal068/bigHITS/internal/collection"
	"github.com/markgaal068/bigHITS/internal/model"
)

// Collection kinds, used as route segments and registry keys.
const (
	KindBlogs    = "blogs"
	KindProducts = "products"
	KindTutors   = "tutors"
)

// BlogSchema declares the blog list fields.
var BlogSchema = collection.Schema[model.Blog]{
	Kind: KindBlogs,
	Noun: "blog",
	Fields: []collection.Field[model.Blog]{
		{Name: "title", Label: "Title", Kind: collection.KindString, Searchable: true, Sortable: true,
			String: func(b model.Blog) string { return b.Title }},
		{Name: "category", Label: "Category", Kind: collection.KindString, Searchable: true, Sortable: true,
			String: func(b model.Blog) string { return b.Category }},
		{Name: "author", Label: "Author", Kind: collection.KindString, Searchable: true, Sortable: true,
			String: func(b model.Blog) string { return b.Author }},
		{Name: "date", Label: "Date", Kind: collection.KindString, Sortable: true,
			String: func(b model.Blog) string { return b.Date }},
		{Name: "published", Label: "Status", Kind: collection.KindBool, Sortable: true,
			Bool: func(b model.Blog) bool { return b.Published }},
	},
	DefaultSort: collection.SortSpec{Field: "date", Direction: collection.Desc},
}

// ProductSchema declares the product list fields.
var ProductSchema = collection.Schema[model.Product]{
	Kind: KindProducts,
	Noun: "product",
	Fields: []collection.Field[model.Product]{
		{Name: "name", Label: "Name", Kind: collection.KindString, Searchable: true, Sortable: true,
			String: func(p model.Product) string { return p.Name }},
		{Name: "price", Label: "Price", Kind: collection.KindNumber, Searchable: true, Sortable: true,
			Number: func(p model.Product) float64 { return p.Price }},
		{Name: "category", Label: "Category", Kind: collection.KindString, Searchable: true, Sortable: true,
			String: func(p model.Product) string { return p.Category }},
		{Name: "stock", Label: "Stock", Kind: collection.KindNumber, Searchable: true, Sortable: true,
			Number: func(p model.Product) float64 { return float64(p.Stock) }},
		{Name: "published", Label: "Status", Kind: collection.KindBool, Sortable: true,
			Bool: func(p model.Product) bool { return p.Published }},
	},
	DefaultSort: collection.SortSpec{Field: "name", Direction: collection.Asc},
}

// TutorSchema declares the tutor list fields.
var TutorSchema = collection.Schema[model.Tutor]{
	Kind: KindTutors,
	Noun: "tutor",
	Fields: []collection.Field[model.Tutor]{
		{Name: "name", Label: "Name", Kind: collection.KindString, Searchable: true, Sortable: true,
			String: func(t model.Tutor) string { return t.Name }},
		{Name: "expertise", Label: "Expertise", Kind: collection.KindString, Searchable: true, Sortable: true,
			String: func(t model.Tutor) string { return t.Expertise }},
		{Name: "rate", Label: "Rate", Kind: collection.KindNumber, Searchable: true, Sortable: true,
			Number: func(t model.Tutor) float64 { return t.Rate }},
		{Name: "rating", Label: "Rating", Kind: collection.KindNumber, Sortable: true,
			Number: func(t model.Tutor) float64 { return t.Rating }},
		{Name: "availability", Label: "Availability", Kind: collection.KindString, Searchable: true,
			String: func(t model.Tutor) string { return t.Availability }},
		{Name: "published", Label: "Status", Kind: collection.KindBool, Sortable: true,
			Bool: func(t model.Tutor) bool { return t.Published }},
	},
	DefaultSort: collection.SortSpec{Field: "name", Direction: collection.Asc},
}

// ListPath returns the admin list path of a kind.
func ListPath(kind string) string {
	return "/admin/" + kind
}

// BlogForm is the blog form configuration.
func BlogForm() collection.FormConfig[model.Blog, model.BlogDraft] {
	return collection.FormConfig[model.Blog, model.BlogDraft]{
		Noun:       "blog",
		ListPath:   ListPath(KindBlogs),
		Validate:   ValidateBlog,
		FromRecord: model.BlogDraftFrom,
	}
}

// ProductForm is the product form configuration.
func ProductForm() collection.FormConfig[model.Product, model.ProductDraft] {
	return collection.FormConfig[model.Product, model.ProductDraft]{
		Noun:       "product",
		ListPath:   ListPath(KindProducts),
		Validate:   ValidateProduct,
		FromRecord: model.ProductDraftFrom,
	}
}

// TutorForm is the tutor form configuration.
func TutorForm() collection.FormConfig[model.Tutor, model.TutorDraft] {
	return collection.FormConfig[model.Tutor, model.TutorDraft]{
		Noun:       "tutor",
		ListPath:   ListPath(KindTutors),
		Validate:   ValidateTutor,
		FromRecord: model.TutorDraftFrom,
	}
}
