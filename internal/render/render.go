// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package render parses the embedded html/template pages and renders them
// with the layout for their section.
package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/markgaal068/bigHITS/internal/model"
)

// Session keys for flash messages.
const (
	flashKey     = "flash"
	flashTypeKey = "flash_type"
)

// FlashStore is the part of the session manager used for flash messages.
// *scs.SessionManager satisfies it.
type FlashStore interface {
	Put(ctx context.Context, key string, val any)
	PopString(ctx context.Context, key string) string
}

// Renderer handles template rendering with caching.
type Renderer struct {
	templates map[string]*template.Template
	flashes   FlashStore
	siteName  string
}

// Config holds renderer configuration.
type Config struct {
	TemplatesFS fs.FS
	Flashes     FlashStore
	SiteName    string
}

// section pairs a directory of pages with the layout files they extend.
type section struct {
	dir     string
	layouts []string
}

var sections = []section{
	{dir: "admin", layouts: []string{"layouts/base.html", "layouts/admin.html"}},
	{dir: "public", layouts: []string{"layouts/base.html", "layouts/public.html"}},
	{dir: "auth", layouts: []string{"layouts/base.html"}},
}

// New creates a Renderer and parses every page up front.
func New(cfg Config) (*Renderer, error) {
	if cfg.SiteName == "" {
		cfg.SiteName = "bigHITS"
	}
	r := &Renderer{
		templates: make(map[string]*template.Template),
		flashes:   cfg.Flashes,
		siteName:  cfg.SiteName,
	}
	if err := r.parseTemplates(cfg.TemplatesFS); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Renderer) parseTemplates(templatesFS fs.FS) error {
	partials, err := templateFiles(templatesFS, "partials")
	if err != nil {
		return fmt.Errorf("getting partials: %w", err)
	}

	for _, sec := range sections {
		pages, err := templateFiles(templatesFS, sec.dir)
		if err != nil {
			return fmt.Errorf("getting %s templates: %w", sec.dir, err)
		}
		for _, page := range pages {
			name := sec.dir + "/" + strings.TrimSuffix(path.Base(page), ".html")

			files := append([]string{}, sec.layouts...)
			files = append(files, partials...)
			files = append(files, page)

			tmpl, err := template.New("").Funcs(Funcs()).ParseFS(templatesFS, files...)
			if err != nil {
				return fmt.Errorf("parsing template %s: %w", name, err)
			}
			r.templates[name] = tmpl
		}
	}
	return nil
}

// templateFiles returns the .html files directly under dir. A missing
// directory yields no files.
func templateFiles(templatesFS fs.FS, dir string) ([]string, error) {
	entries, err := fs.ReadDir(templatesFS, dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".html") {
			files = append(files, path.Join(dir, entry.Name()))
		}
	}
	return files, nil
}

// Has reports whether a page was parsed.
func (r *Renderer) Has(name string) bool {
	_, ok := r.templates[name]
	return ok
}

// TemplateData holds data passed to templates.
type TemplateData struct {
	Title       string
	SiteName    string
	Data        any
	Flash       string
	FlashType   string
	Session     model.Session
	Path        string
	CurrentYear int
}

// Render renders a page with status 200.
func (r *Renderer) Render(w http.ResponseWriter, req *http.Request, name string, data TemplateData) error {
	return r.RenderStatus(w, req, http.StatusOK, name, data)
}

// RenderStatus renders a page with the given status. The page is executed
// into a buffer first so a template error never produces half a response.
func (r *Renderer) RenderStatus(w http.ResponseWriter, req *http.Request, status int, name string, data TemplateData) error {
	tmpl, ok := r.templates[name]
	if !ok {
		return fmt.Errorf("template %s not found", name)
	}

	data.CurrentYear = time.Now().Year()
	data.SiteName = r.siteName
	data.Path = req.URL.Path
	if r.flashes != nil {
		if flash := r.flashes.PopString(req.Context(), flashKey); flash != "" {
			data.Flash = flash
			data.FlashType = r.flashes.PopString(req.Context(), flashTypeKey)
			if data.FlashType == "" {
				data.FlashType = "info"
			}
		}
	}

	buf := new(bytes.Buffer)
	if err := tmpl.ExecuteTemplate(buf, "base", data); err != nil {
		return fmt.Errorf("executing template %s: %w", name, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
	return nil
}

// SetFlash stores a message shown on the next rendered page.
func (r *Renderer) SetFlash(req *http.Request, message, flashType string) {
	if r.flashes != nil {
		r.flashes.Put(req.Context(), flashKey, message)
		r.flashes.Put(req.Context(), flashTypeKey, flashType)
	}
}
