// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware binds the access guard and the ambient protections
// (CSRF, login throttling, security headers) to HTTP handlers.
package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/markgaal068/bigHITS/internal/guard"
	"github.com/markgaal068/bigHITS/internal/model"
	"github.com/markgaal068/bigHITS/internal/session"
)

type sessionKey struct{}

// WithSession stores the resolved session in ctx.
func WithSession(ctx context.Context, s model.Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// SessionFrom returns the session stored by LoadSession or RequireAdmin.
// Requests that never passed through either are unauthenticated.
func SessionFrom(ctx context.Context) model.Session {
	if s, ok := ctx.Value(sessionKey{}).(model.Session); ok {
		return s
	}
	return model.UnauthenticatedSession()
}

// LoadSession resolves the viewer once and stores it in the request
// context. It never blocks a request.
func LoadSession(p session.Provider) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s := p.Current(r)
			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), s)))
		})
	}
}

// redirector turns guard navigation into an HTTP redirect.
type redirector struct {
	w http.ResponseWriter
	r *http.Request
}

func (n redirector) Push(path string) {
	http.Redirect(n.w, n.r, path, http.StatusSeeOther)
}

// RequireAdmin gates admin pages with the access guard. Visitors who are
// not signed in go to the sign-in page, signed-in non-admins go home, and
// while the session is still resolving nothing is rendered: the client
// gets a 503 asking it to retry.
func RequireAdmin(p session.Provider) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s, ok := r.Context().Value(sessionKey{}).(model.Session)
			if !ok {
				s = p.Current(r)
			}

			action := guard.Evaluate(s)
			if action.IsRedirect() {
				logDenied(r, s, action)
			}
			if !guard.Apply(action, redirector{w: w, r: r}) {
				if action.Suspended {
					w.Header().Set("Retry-After", "1")
					http.Error(w, "Checking your session, please retry", http.StatusServiceUnavailable)
				}
				return
			}

			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), s)))
		})
	}
}

func logDenied(r *http.Request, s model.Session, a guard.Action) {
	slog.Warn("admin access denied",
		"method", r.Method,
		"path", r.URL.Path,
		"status", string(s.Status),
		"user_id", s.UserID(),
		"redirect", a.Path,
		"remote_addr", r.RemoteAddr,
	)
}
