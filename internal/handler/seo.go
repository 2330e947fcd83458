// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/markgaal068/bigHITS/internal/catalog"
	"github.com/markgaal068/bigHITS/internal/model"
	"github.com/markgaal068/bigHITS/internal/seo"
)

// SEOHandler serves robots.txt and sitemap.xml.
type SEOHandler struct {
	sources     catalog.Sources
	siteURL     string
	disallowAll bool
}

// NewSEOHandler creates a new SEOHandler. disallowAll blocks every crawler,
// which is what non-production deployments want.
func NewSEOHandler(sources catalog.Sources, siteURL string, disallowAll bool) *SEOHandler {
	return &SEOHandler{sources: sources, siteURL: siteURL, disallowAll: disallowAll}
}

// Robots handles GET /robots.txt.
func (h *SEOHandler) Robots(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	_, _ = w.Write([]byte(seo.BuildRobots(seo.RobotsConfig{
		SiteURL:     h.siteURL,
		DisallowAll: h.disallowAll,
	})))
}

// Sitemap handles GET /sitemap.xml. Only published records are listed.
func (h *SEOHandler) Sitemap(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	blogs, err := catalog.Published[model.Blog](ctx, h.sources.Blogs)
	if err != nil {
		h.fail(w, "blogs", err)
		return
	}
	products, err := catalog.Published[model.Product](ctx, h.sources.Products)
	if err != nil {
		h.fail(w, "products", err)
		return
	}
	tutors, err := catalog.Published[model.Tutor](ctx, h.sources.Tutors)
	if err != nil {
		h.fail(w, "tutors", err)
		return
	}

	b := seo.NewSitemapBuilder(h.siteURL)
	b.AddHomepage()
	b.AddSection("/blog", newest(blogs, func(p model.Blog) time.Time { return p.UpdatedAt }))
	b.AddSection("/shop", newest(products, func(p model.Product) time.Time { return p.UpdatedAt }))
	b.AddSection("/tutoring", newest(tutors, func(t model.Tutor) time.Time { return t.UpdatedAt }))

	posts := make([]seo.SitemapPost, 0, len(blogs))
	for _, p := range blogs {
		posts = append(posts, seo.SitemapPost{Slug: p.Slug, UpdatedAt: p.UpdatedAt})
	}
	b.AddPosts(posts)

	out, err := b.Build()
	if err != nil {
		h.fail(w, "sitemap", err)
		return
	}
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	_, _ = w.Write(out)
}

func (h *SEOHandler) fail(w http.ResponseWriter, what string, err error) {
	slog.Error("failed to build sitemap", "section", what, "error", err)
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}

func newest[T any](recs []T, at func(T) time.Time) time.Time {
	var latest time.Time
	for _, r := range recs {
		if t := at(r); t.After(latest) {
			latest = t
		}
	}
	return latest
}
