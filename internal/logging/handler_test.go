// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package logging

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/markgaal068/bigHITS/internal/middleware"
	"github.com/markgaal068/bigHITS/internal/model"
)

func assertLogged(t *testing.T, out string, want []string, unwanted []string) {
	t.Helper()
	for _, w := range want {
		if !strings.Contains(out, w) {
			t.Errorf("log output %q missing %q", out, w)
		}
	}
	for _, u := range unwanted {
		if strings.Contains(out, u) {
			t.Errorf("log output %q should not contain %q", out, u)
		}
	}
}

func TestContextHandler_AddsRequestAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, slog.LevelInfo)

	h := chimw.RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := middleware.WithSession(r.Context(), model.Session{
			Status: model.SessionAuthenticated,
			User:   &model.SessionUser{ID: "7", Role: model.RoleAdmin},
		})
		logger.InfoContext(ctx, "blog deleted", "blog_id", "3")
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assertLogged(t, buf.String(), []string{`msg="blog deleted"`, "blog_id=3", "request_id=", "session_user=7"}, nil)
}

func TestContextHandler_WithoutRequest(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, slog.LevelInfo)

	logger.Info("scheduler started", "jobs", 3)
	logger.DebugContext(context.Background(), "hidden")

	assertLogged(t, buf.String(), []string{"jobs=3"}, []string{"request_id", "session_user", "hidden"})
}

func TestContextHandler_WithAttrsKeepsWrapping(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, slog.LevelInfo).With("component", "api").WithGroup("req")

	ctx := context.WithValue(context.Background(), chimw.RequestIDKey, "abc-1")
	logger.InfoContext(ctx, "token issued", "jti", "x")

	assertLogged(t, buf.String(), []string{"component=api", "req.jti=x", "req.request_id=abc-1"}, nil)
}
