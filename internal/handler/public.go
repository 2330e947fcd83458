// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/markgaal068/bigHITS/internal/catalog"
	"github.com/markgaal068/bigHITS/internal/collection"
	"github.com/markgaal068/bigHITS/internal/model"
	"github.com/markgaal068/bigHITS/internal/render"
)

// homeItems is how many entries each section of the homepage shows.
const homeItems = 3

// PublicHandler serves the public site. Only published records are shown.
type PublicHandler struct {
	renderer *render.Renderer
	sources  catalog.Sources
}

// NewPublicHandler creates a new PublicHandler.
func NewPublicHandler(renderer *render.Renderer, sources catalog.Sources) *PublicHandler {
	return &PublicHandler{renderer: renderer, sources: sources}
}

// HomeData holds the homepage sections.
type HomeData struct {
	Posts    []model.Blog
	Products []model.Product
	Tutors   []model.Tutor
}

// ErrorData is the data of the error page.
type ErrorData struct {
	Status  int
	Message string
}

var (
	newestFirst    = collection.SortSpec{Field: "date", Direction: collection.Desc}
	byName         = collection.SortSpec{Field: "name", Direction: collection.Asc}
	bestRatedFirst = collection.SortSpec{Field: "rating", Direction: collection.Desc}
)

// Home handles GET /.
func (h *PublicHandler) Home(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	blogs, err := catalog.Published[model.Blog](ctx, h.sources.Blogs)
	if err != nil {
		h.serverError(w, r, "blogs", err)
		return
	}
	products, err := catalog.Published[model.Product](ctx, h.sources.Products)
	if err != nil {
		h.serverError(w, r, "products", err)
		return
	}
	tutors, err := catalog.Published[model.Tutor](ctx, h.sources.Tutors)
	if err != nil {
		h.serverError(w, r, "tutors", err)
		return
	}

	data := HomeData{
		Posts:    head(collection.Sort(catalog.BlogSchema, blogs, newestFirst), homeItems),
		Products: head(featured(collection.Sort(catalog.ProductSchema, products, byName), func(p model.Product) bool { return p.Featured }), homeItems),
		Tutors:   head(featured(collection.Sort(catalog.TutorSchema, tutors, bestRatedFirst), func(t model.Tutor) bool { return t.Featured }), homeItems),
	}
	renderPage(w, r, h.renderer, http.StatusOK, "public/home", render.TemplateData{Data: data})
}

// Blog handles GET /blog.
func (h *PublicHandler) Blog(w http.ResponseWriter, r *http.Request) {
	blogs, err := catalog.Published[model.Blog](r.Context(), h.sources.Blogs)
	if err != nil {
		h.serverError(w, r, "blogs", err)
		return
	}
	renderPage(w, r, h.renderer, http.StatusOK, "public/blog", render.TemplateData{
		Title: "Blog",
		Data:  collection.Sort(catalog.BlogSchema, blogs, newestFirst),
	})
}

// Post handles GET /blog/{slug}. Unpublished posts are not found.
func (h *PublicHandler) Post(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	blogs, err := catalog.Published[model.Blog](r.Context(), h.sources.Blogs)
	if err != nil {
		h.serverError(w, r, "blogs", err)
		return
	}
	for _, b := range blogs {
		if b.Slug == slug {
			renderPage(w, r, h.renderer, http.StatusOK, "public/post", render.TemplateData{Title: b.Title, Data: b})
			return
		}
	}
	h.NotFound(w, r)
}

// Shop handles GET /shop.
func (h *PublicHandler) Shop(w http.ResponseWriter, r *http.Request) {
	products, err := catalog.Published[model.Product](r.Context(), h.sources.Products)
	if err != nil {
		h.serverError(w, r, "products", err)
		return
	}
	renderPage(w, r, h.renderer, http.StatusOK, "public/shop", render.TemplateData{
		Title: "Shop",
		Data:  collection.Sort(catalog.ProductSchema, products, byName),
	})
}

// Tutoring handles GET /tutoring.
func (h *PublicHandler) Tutoring(w http.ResponseWriter, r *http.Request) {
	tutors, err := catalog.Published[model.Tutor](r.Context(), h.sources.Tutors)
	if err != nil {
		h.serverError(w, r, "tutors", err)
		return
	}
	renderPage(w, r, h.renderer, http.StatusOK, "public/tutoring", render.TemplateData{
		Title: "Tutoring",
		Data:  collection.Sort(catalog.TutorSchema, tutors, bestRatedFirst),
	})
}

// NotFound renders the 404 page.
func (h *PublicHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	renderPage(w, r, h.renderer, http.StatusNotFound, "public/error", render.TemplateData{
		Title: "Page not found",
		Data:  ErrorData{Status: http.StatusNotFound, Message: "The page you are looking for does not exist."},
	})
}

func (h *PublicHandler) serverError(w http.ResponseWriter, r *http.Request, what string, err error) {
	slog.Error("failed to load public page", "section", what, "path", r.URL.Path, "error", err)
	renderPage(w, r, h.renderer, http.StatusInternalServerError, "public/error", render.TemplateData{
		Title: "Something went wrong",
		Data:  ErrorData{Status: http.StatusInternalServerError, Message: "Please try again later."},
	})
}

func featured[T any](recs []T, keep func(T) bool) []T {
	out := make([]T, 0, len(recs))
	for _, r := range recs {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

func head[T any](recs []T, n int) []T {
	if len(recs) > n {
		return recs[:n]
	}
	return recs
}
