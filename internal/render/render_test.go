// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package render

import (
	"context"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/markgaal068/bigHITS/internal/model"
	"github.com/markgaal068/bigHITS/web"
)

type mapFlashes map[string]string

func (m mapFlashes) Put(_ context.Context, key string, val any) {
	m[key] = val.(string)
}

func (m mapFlashes) PopString(_ context.Context, key string) string {
	v := m[key]
	delete(m, key)
	return v
}

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"layouts/base.html":   {Data: []byte(`{{define "base"}}<title>{{.Title}}</title>{{template "body" .}}{{end}}`)},
		"layouts/admin.html":  {Data: []byte(`{{define "body"}}[admin]{{template "flash" .}}{{template "content" .}}{{end}}`)},
		"layouts/public.html": {Data: []byte(`{{define "body"}}[public]{{template "content" .}}{{end}}`)},
		"partials/flash.html": {Data: []byte(`{{define "flash"}}{{if .Flash}}<p class="{{.FlashType}}">{{.Flash}}</p>{{end}}{{end}}`)},
		"admin/list.html":     {Data: []byte(`{{define "content"}}list {{.Data}}{{end}}`)},
		"public/home.html":    {Data: []byte(`{{define "content"}}home {{.Data}}{{end}}`)},
		"auth/signin.html":    {Data: []byte(`{{define "body"}}signin{{end}}`)},
		"public/broken.html":  {Data: []byte(`{{define "content"}}{{.Data.Missing}}{{end}}`)},
	}
}

func newTestRenderer(t *testing.T, flashes FlashStore) *Renderer {
	t.Helper()
	r, err := New(Config{TemplatesFS: testFS(), Flashes: flashes})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return r
}

func TestNewParsesSections(t *testing.T) {
	r := newTestRenderer(t, nil)

	for _, name := range []string{"admin/list", "public/home", "auth/signin"} {
		if !r.Has(name) {
			t.Errorf("Has(%q) = false, want true", name)
		}
	}
	if r.Has("admin/missing") {
		t.Error("Has(admin/missing) = true, want false")
	}
}

func TestRenderUsesSectionLayout(t *testing.T) {
	r := newTestRenderer(t, nil)

	tests := []struct {
		name string
		want string
	}{
		{"admin/list", "[admin]list rows"},
		{"public/home", "[public]home rows"},
		{"auth/signin", "signin"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/x", nil)
			if err := r.Render(w, req, tt.name, TemplateData{Title: "T", Data: "rows"}); err != nil {
				t.Fatalf("Render() error = %v", err)
			}
			if w.Code != http.StatusOK {
				t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
			}
			if ct := w.Header().Get("Content-Type"); ct != "text/html; charset=utf-8" {
				t.Errorf("Content-Type = %q", ct)
			}
			if !strings.Contains(w.Body.String(), tt.want) {
				t.Errorf("body = %q, want it to contain %q", w.Body.String(), tt.want)
			}
		})
	}
}

func TestRenderStatusAndErrors(t *testing.T) {
	r := newTestRenderer(t, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if err := r.RenderStatus(w, req, http.StatusNotFound, "public/home", TemplateData{}); err != nil {
		t.Fatalf("RenderStatus() error = %v", err)
	}
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
	}

	w = httptest.NewRecorder()
	if err := r.Render(w, req, "public/nope", TemplateData{}); err == nil {
		t.Error("Render() of an unknown template should fail")
	}

	// An execution error leaves the response untouched.
	w = httptest.NewRecorder()
	if err := r.Render(w, req, "public/broken", TemplateData{Data: 42}); err == nil {
		t.Error("Render() with bad data should fail")
	}
	if w.Body.Len() != 0 {
		t.Errorf("body = %q, want empty", w.Body.String())
	}
}

func TestFlashIsShownOnce(t *testing.T) {
	r := newTestRenderer(t, mapFlashes{})

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	r.SetFlash(req, "Blog deleted", "success")

	w := httptest.NewRecorder()
	if err := r.Render(w, req, "admin/list", TemplateData{}); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !strings.Contains(w.Body.String(), `<p class="success">Blog deleted</p>`) {
		t.Errorf("body = %q, want the flash message", w.Body.String())
	}

	w = httptest.NewRecorder()
	if err := r.Render(w, req, "admin/list", TemplateData{}); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if strings.Contains(w.Body.String(), "Blog deleted") {
		t.Error("flash should be shown only once")
	}
}

func TestFlashDefaultsToInfo(t *testing.T) {
	r := newTestRenderer(t, mapFlashes{flashKey: "Hello"})

	w := httptest.NewRecorder()
	if err := r.Render(w, httptest.NewRequest(http.MethodGet, "/", nil), "admin/list", TemplateData{}); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !strings.Contains(w.Body.String(), `class="info"`) {
		t.Errorf("body = %q, want the info class", w.Body.String())
	}
}

// The embedded templates must parse and render with representative data.
func TestEmbeddedTemplates(t *testing.T) {
	templatesFS, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		t.Fatalf("fs.Sub() error = %v", err)
	}
	r, err := New(Config{TemplatesFS: templatesFS})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	sale := 19.5
	pages := map[string]any{
		"public/blog": []model.Blog{{Title: "Hello", Slug: "hello", Date: "2024-01-15"}},
		"public/post": model.Blog{Title: "Hello", Content: "# Heading\n\n<script>x</script>", Tags: []string{"go"}},
		"public/shop": []model.Product{{Name: "Kit", Price: 25, SalePrice: &sale, Stock: 0}},
		"public/tutoring": []model.Tutor{{Name: "Ann", Rate: 40, Rating: 4.8, Availability: "Mon,Wed",
			CalendlyLink: "https://calendly.com/ann"}},
	}
	for name, data := range pages {
		t.Run(name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if err := r.Render(w, req, name, TemplateData{Title: "Page", Data: data}); err != nil {
				t.Fatalf("Render(%q) error = %v", name, err)
			}
			body := w.Body.String()
			if !strings.Contains(body, "<html") {
				t.Error("layout missing")
			}
			if strings.Contains(body, "<script>x</script>") {
				t.Error("raw script should be sanitized")
			}
		})
	}
}
