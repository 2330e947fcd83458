// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/markgaal068/bigHITS/internal/catalog"
	"github.com/markgaal068/bigHITS/internal/model"
	"github.com/markgaal068/bigHITS/internal/render"
)

func publishedLabel(published bool) string {
	if published {
		return "Published"
	}
	return "Draft"
}

func checked(form url.Values, name string) bool {
	return form.Get(name) == "true"
}

func trimmed(form url.Values, name string) string {
	return strings.TrimSpace(form.Get(name))
}

// BlogKind presents blogs.
func BlogKind(src catalog.BlogSource) Kind[model.Blog, model.BlogDraft] {
	return Kind[model.Blog, model.BlogDraft]{
		Schema: catalog.BlogSchema,
		Plural: "Blogs",
		Form:   catalog.BlogForm(),
		Source: src,
		Cells: func(b model.Blog) []string {
			return []string{b.Title, b.Category, b.Author, b.Date, publishedLabel(b.Published)}
		},
		Decode: func(form url.Values, id string) model.BlogDraft {
			return model.BlogDraft{
				ID:         id,
				Title:      trimmed(form, "title"),
				Slug:       trimmed(form, "slug"),
				Content:    form.Get("content"),
				Excerpt:    trimmed(form, "excerpt"),
				CoverImage: trimmed(form, "cover_image"),
				Category:   trimmed(form, "category"),
				Tags:       form.Get("tags"),
				Author:     trimmed(form, "author"),
				Published:  checked(form, "published"),
			}
		},
		Fields: func(d model.BlogDraft) []FormField {
			return []FormField{
				{Name: "title", Label: "Title", Type: "text", Value: d.Title, Required: true},
				{Name: "slug", Label: "Slug", Type: "text", Value: d.Slug, Help: "Generated from the title whenever the title changes"},
				{Name: "excerpt", Label: "Excerpt", Type: "text", Value: d.Excerpt, Required: true},
				{Name: "content", Label: "Content", Type: "textarea", Value: d.Content, Required: true, Help: "Markdown"},
				{Name: "category", Label: "Category", Type: "text", Value: d.Category, Required: true},
				{Name: "tags", Label: "Tags", Type: "text", Value: d.Tags, Help: "Comma separated"},
				{Name: "author", Label: "Author", Type: "text", Value: d.Author},
				{Name: "cover_image", Label: "Cover image URL", Type: "url", Value: d.CoverImage},
				{Name: "published", Label: "Published", Type: "checkbox", Checked: d.Published},
			}
		},
	}
}

// ProductKind presents products.
func ProductKind(src catalog.ProductSource) Kind[model.Product, model.ProductDraft] {
	return Kind[model.Product, model.ProductDraft]{
		Schema: catalog.ProductSchema,
		Plural: "Products",
		Form:   catalog.ProductForm(),
		Source: src,
		Cells: func(p model.Product) []string {
			return []string{p.Name, render.Price(p.Price), p.Category, strconv.FormatInt(p.Stock, 10), publishedLabel(p.Published)}
		},
		Decode: func(form url.Values, id string) model.ProductDraft {
			return model.ProductDraft{
				ID:               id,
				Name:             trimmed(form, "name"),
				Slug:             trimmed(form, "slug"),
				Description:      form.Get("description"),
				ShortDescription: trimmed(form, "short_description"),
				Price:            trimmed(form, "price"),
				SalePrice:        trimmed(form, "sale_price"),
				Category:         trimmed(form, "category"),
				Stock:            trimmed(form, "stock"),
				SKU:              trimmed(form, "sku"),
				Published:        checked(form, "published"),
				Featured:         checked(form, "featured"),
			}
		},
		Fields: func(d model.ProductDraft) []FormField {
			return []FormField{
				{Name: "name", Label: "Name", Type: "text", Value: d.Name, Required: true},
				{Name: "slug", Label: "Slug", Type: "text", Value: d.Slug, Help: "Generated from the name whenever the name changes"},
				{Name: "short_description", Label: "Short description", Type: "text", Value: d.ShortDescription, Required: true},
				{Name: "description", Label: "Description", Type: "textarea", Value: d.Description, Required: true},
				{Name: "price", Label: "Price", Type: "number", Value: d.Price, Required: true},
				{Name: "sale_price", Label: "Sale price", Type: "number", Value: d.SalePrice},
				{Name: "category", Label: "Category", Type: "text", Value: d.Category, Required: true},
				{Name: "stock", Label: "Stock", Type: "number", Value: d.Stock, Required: true},
				{Name: "sku", Label: "SKU", Type: "text", Value: d.SKU},
				{Name: "published", Label: "Published", Type: "checkbox", Checked: d.Published},
				{Name: "featured", Label: "Featured", Type: "checkbox", Checked: d.Featured},
			}
		},
	}
}

// TutorKind presents tutors.
func TutorKind(src catalog.TutorSource) Kind[model.Tutor, model.TutorDraft] {
	return Kind[model.Tutor, model.TutorDraft]{
		Schema: catalog.TutorSchema,
		Plural: "Tutors",
		Form:   catalog.TutorForm(),
		Source: src,
		Cells: func(t model.Tutor) []string {
			return []string{
				t.Name,
				t.Expertise,
				render.Price(t.Rate) + "/h",
				strconv.FormatFloat(t.Rating, 'f', 1, 64),
				strings.Join(model.SplitList(t.Availability), ", "),
				publishedLabel(t.Published),
			}
		},
		Decode: func(form url.Values, id string) model.TutorDraft {
			return model.TutorDraft{
				ID:           id,
				Name:         trimmed(form, "name"),
				Slug:         trimmed(form, "slug"),
				Bio:          form.Get("bio"),
				Expertise:    trimmed(form, "expertise"),
				Rate:         trimmed(form, "rate"),
				Availability: form["availability"],
				CalendlyLink: trimmed(form, "calendly_link"),
				ProfileImage: trimmed(form, "profile_image"),
				Published:    checked(form, "published"),
				Featured:     checked(form, "featured"),
			}
		},
		Fields: func(d model.TutorDraft) []FormField {
			days := make([]FormOption, 0, len(model.Weekdays))
			for _, day := range model.Weekdays {
				days = append(days, FormOption{Value: day, Label: day, Checked: slices.Contains(d.Availability, day)})
			}
			return []FormField{
				{Name: "name", Label: "Name", Type: "text", Value: d.Name, Required: true},
				{Name: "slug", Label: "Slug", Type: "text", Value: d.Slug, Help: "Generated from the name whenever the name changes"},
				{Name: "expertise", Label: "Expertise", Type: "text", Value: d.Expertise, Required: true},
				{Name: "bio", Label: "Bio", Type: "textarea", Value: d.Bio, Required: true},
				{Name: "rate", Label: "Hourly rate", Type: "number", Value: d.Rate, Required: true},
				{Name: "availability", Label: "Availability", Type: "checkboxes", Options: days},
				{Name: "calendly_link", Label: "Calendly link", Type: "url", Value: d.CalendlyLink},
				{Name: "profile_image", Label: "Profile image URL", Type: "url", Value: d.ProfileImage},
				{Name: "published", Label: "Published", Type: "checkbox", Checked: d.Published},
				{Name: "featured", Label: "Featured", Type: "checkbox", Checked: d.Featured},
			}
		},
	}
}
