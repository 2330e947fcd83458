// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/markgaal068/bigHITS/internal/auth"
	"github.com/markgaal068/bigHITS/internal/cache"
	"github.com/markgaal068/bigHITS/internal/model"
	"github.com/markgaal068/bigHITS/internal/session"
)

func TestRequireAdminAPI(t *testing.T) {
	mem := cache.NewMemoryCache(cache.MemoryOptions{})
	tokens := auth.NewTokens([]byte("0123456789abcdef0123456789abcdef"), time.Hour)
	bp := session.NewBearerProvider(tokens, mem)

	adminToken, _, err := tokens.Issue(model.User{ID: 1, Role: model.RoleAdmin})
	if err != nil {
		t.Fatalf("Issue(admin) error = %v", err)
	}
	userToken, _, err := tokens.Issue(model.User{ID: 2, Role: model.RoleUser})
	if err != nil {
		t.Fatalf("Issue(user) error = %v", err)
	}

	var claimsSeen bool
	h := RequireAdminAPI(bp)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, claimsSeen = session.ClaimsFrom(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	serve := func(token string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/admin/blogs", nil)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	rec := serve(adminToken)
	if rec.Code != http.StatusNoContent {
		t.Errorf("admin status = %d, want %d", rec.Code, http.StatusNoContent)
	}
	if !claimsSeen {
		t.Error("claims should be stored in the request context")
	}

	rec = serve("")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("anonymous status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
	var body APIError
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if body.Error.Code != "unauthorized" {
		t.Errorf("error code = %q, want %q", body.Error.Code, "unauthorized")
	}

	if code := serve(userToken).Code; code != http.StatusForbidden {
		t.Errorf("user status = %d, want %d", code, http.StatusForbidden)
	}

	_ = mem.Close()
	rec = serve(adminToken)
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("closed cache status = %d, want %d", rec.Code, http.StatusServiceUnavailable)
	}
	if got := rec.Header().Get("Retry-After"); got != "1" {
		t.Errorf("Retry-After = %q, want %q", got, "1")
	}
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(0.001, 2)
	h := rl.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	want := []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}
	for i, code := range want {
		req := httptest.NewRequest(http.MethodGet, "/api/admin/blogs", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != code {
			t.Errorf("request %d status = %d, want %d", i+1, rec.Code, code)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/admin/blogs", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("other client status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestRateLimiterBoundsTrackedClients(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	rl.cache.maxKeys = 50
	h := rl.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	// Every request claims a fresh address through a forged header.
	for i := range 500 {
		req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("203.0.113.%d, 10.0.%d.1", i%250, i))
		req.Header.Set("X-Real-IP", fmt.Sprintf("198.51.%d.%d", i/250, i%250))
		h.ServeHTTP(httptest.NewRecorder(), req)

		if n := rl.cache.size(); n > 50 {
			t.Fatalf("after %d requests tracked clients = %d, want <= 50", i+1, n)
		}
	}
}

func TestLimiterCacheResetKeepsNewKey(t *testing.T) {
	lc := newLimiterCache[string](1, 1)
	lc.maxKeys = 2

	lc.get("a")
	lc.get("b")
	c := lc.get("c")

	if n := lc.size(); n != 1 {
		t.Errorf("size after reset = %d, want 1", n)
	}
	if lc.get("c") != c {
		t.Error("the key that triggered the reset should stay tracked")
	}
	if lc.get("a") == nil {
		t.Error("get should always return a limiter")
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{"remote addr", nil, "192.0.2.1:5555", "192.0.2.1"},
		{"real ip", map[string]string{"X-Real-IP": "198.51.100.7"}, "10.0.0.1:1", "198.51.100.7"},
		{"forwarded chain", map[string]string{"X-Forwarded-For": "203.0.113.5, 10.0.0.1"}, "10.0.0.1:1", "203.0.113.5"},
		{"no port", nil, "192.0.2.9", "192.0.2.9"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			if got := ClientIP(req); got != tt.want {
				t.Errorf("ClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}
