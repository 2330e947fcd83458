// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package handler provides the HTTP handlers of the web surface: sign-in,
// the admin dashboard and collections, and the public pages.
package handler

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/markgaal068/bigHITS/internal/middleware"
	"github.com/markgaal068/bigHITS/internal/render"
	"github.com/markgaal068/bigHITS/internal/session"
)

// Flash message types.
const (
	flashTypeSuccess = "success"
	flashTypeError   = "error"
	flashTypeInfo    = "info"
)

// flashAndRedirect sets a flash message and redirects to the given URL.
// Uses http.StatusSeeOther (303) for POST redirects.
func flashAndRedirect(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, url, message, messageType string) {
	renderer.SetFlash(r, message, messageType)
	http.Redirect(w, r, url, http.StatusSeeOther)
}

// flashError sets an error flash message and redirects to the given URL.
func flashError(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, url, message string) {
	flashAndRedirect(w, r, renderer, url, message, flashTypeError)
}

// flashSuccess sets a success flash message and redirects to the given URL.
func flashSuccess(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, url, message string) {
	flashAndRedirect(w, r, renderer, url, message, flashTypeSuccess)
}

// parseFormOrRedirect parses the request form and redirects with an error
// message on failure. Returns true if parsing succeeded.
func parseFormOrRedirect(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, redirectURL string) bool {
	if err := r.ParseForm(); err != nil {
		flashError(w, r, renderer, redirectURL, "Invalid form data")
		return false
	}
	return true
}

// logAndInternalError logs an error and writes a 500 Internal Server Error response.
func logAndInternalError(w http.ResponseWriter, logMsg string, args ...any) {
	slog.Error(logMsg, args...)
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}

// renderPage renders a page, falling back to a plain 500 when the template
// fails.
func renderPage(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, status int, name string, data render.TemplateData) {
	data.Session = middleware.SessionFrom(r.Context())
	if err := renderer.RenderStatus(w, r, status, name, data); err != nil {
		logAndInternalError(w, "failed to render template", "template", name, "error", err)
	}
}

// ViewerFunc identifies the viewer that owns a request's mounted views.
type ViewerFunc func(r *http.Request) string

// SessionViewer identifies viewers by their session token. Before the
// session is committed the user ID is used instead.
func SessionViewer(p *session.CookieProvider) ViewerFunc {
	return func(r *http.Request) string {
		if token := p.Token(r.Context()); token != "" {
			return token
		}
		return "user:" + middleware.SessionFrom(r.Context()).UserID()
	}
}

// pushRecorder is the navigator of a mounted form. The handler reads the
// recorded path after a submit and redirects to it.
type pushRecorder struct {
	mu   sync.Mutex
	path string
}

func (p *pushRecorder) Push(path string) {
	p.mu.Lock()
	p.path = path
	p.mu.Unlock()
}

// take returns the recorded path, or fallback when there is none, and
// clears it.
func (p *pushRecorder) take(fallback string) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	path := p.path
	p.path = ""
	if path == "" {
		return fallback
	}
	return path
}
