// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/markgaal068/bigHITS/internal/catalog"
	"github.com/markgaal068/bigHITS/internal/render"
)

// TotalsSource provides the dashboard figures. *cache.Totals satisfies it.
type TotalsSource interface {
	Get(ctx context.Context) (catalog.Totals, error)
}

// AdminHandler handles the admin dashboard.
type AdminHandler struct {
	renderer *render.Renderer
	totals   TotalsSource
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(renderer *render.Renderer, totals TotalsSource) *AdminHandler {
	return &AdminHandler{renderer: renderer, totals: totals}
}

// DashboardCard is one collection summary on the dashboard.
type DashboardCard struct {
	Label string
	Noun  string
	Path  string
	Count catalog.Count
}

// DashboardData holds the dashboard figures.
type DashboardData struct {
	Totals catalog.Totals
	Cards  []DashboardCard
}

// Dashboard handles GET /admin.
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	totals, err := h.totals.Get(r.Context())
	if err != nil {
		slog.Error("failed to count dashboard totals", "error", err)
		h.renderer.SetFlash(r, "Could not load the latest figures", flashTypeError)
	}

	data := DashboardData{
		Totals: totals,
		Cards: []DashboardCard{
			{Label: "Blogs", Noun: "blog", Path: catalog.ListPath(catalog.KindBlogs), Count: totals.Blogs},
			{Label: "Products", Noun: "product", Path: catalog.ListPath(catalog.KindProducts), Count: totals.Products},
			{Label: "Tutors", Noun: "tutor", Path: catalog.ListPath(catalog.KindTutors), Count: totals.Tutors},
		},
	}
	renderPage(w, r, h.renderer, http.StatusOK, "admin/dashboard", render.TemplateData{
		Title: "Dashboard",
		Data:  data,
	})
}
