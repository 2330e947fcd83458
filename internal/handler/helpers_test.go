// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/markgaal068/bigHITS/internal/middleware"
	"github.com/markgaal068/bigHITS/internal/model"
	"github.com/markgaal068/bigHITS/internal/render"
	"github.com/markgaal068/bigHITS/web"
)

// testRenderer parses the embedded templates without a flash store.
func testRenderer(t *testing.T) *render.Renderer {
	t.Helper()
	templatesFS, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		t.Fatalf("templates fs: %v", err)
	}
	r, err := render.New(render.Config{TemplatesFS: templatesFS})
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}
	return r
}

var testAdmin = model.Session{
	Status: model.SessionAuthenticated,
	User:   &model.SessionUser{ID: "1", Name: "Admin", Email: "admin@example.com", Role: model.RoleAdmin},
}

// asAdmin stores an admin session in every request context.
func asAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(middleware.WithSession(r.Context(), testAdmin)))
	})
}

// fixedViewer identifies every request as the same viewer.
func fixedViewer(id string) ViewerFunc {
	return func(*http.Request) string { return id }
}

func serve(h http.Handler, method, target string, form url.Values) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	req = req.WithContext(context.Background())
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func newRouter() chi.Router {
	r := chi.NewRouter()
	r.Use(asAdmin)
	return r
}
