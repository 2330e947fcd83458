// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package session

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markgaal068/bigHITS/internal/auth"
	"github.com/markgaal068/bigHITS/internal/cache"
	"github.com/markgaal068/bigHITS/internal/collection"
	"github.com/markgaal068/bigHITS/internal/model"
)

type fakeUsers struct {
	users map[int64]model.User
	err   error
}

func (f *fakeUsers) GetUserByID(_ context.Context, id int64) (model.User, error) {
	if f.err != nil {
		return model.User{}, f.err
	}
	u, ok := f.users[id]
	if !ok {
		return model.User{}, collection.ErrNotFound
	}
	return u, nil
}

// cookieApp wires a CookieProvider behind LoadAndSave with three routes.
type cookieApp struct {
	handler http.Handler
	users   *fakeUsers
	cookies []*http.Cookie
}

func newCookieApp() *cookieApp {
	sm := NewMemory(true)
	users := &fakeUsers{users: map[int64]model.User{
		1: {ID: 1, Email: "admin@example.com", Name: "Admin", Role: model.RoleAdmin},
		2: {ID: 2, Email: "user@example.com", Name: "User", Role: model.RoleUser},
	}}
	p := NewCookieProvider(sm, users)

	mux := http.NewServeMux()
	mux.HandleFunc("/signin", func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.ParseInt(r.URL.Query().Get("id"), 10, 64)
		if err := p.SignIn(r.Context(), model.User{ID: id}); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	})
	mux.HandleFunc("/whoami", func(w http.ResponseWriter, r *http.Request) {
		s := p.Current(r)
		w.Header().Set("X-Status", string(s.Status))
		w.Header().Set("X-User", s.UserID())
	})
	mux.HandleFunc("/signout", func(w http.ResponseWriter, r *http.Request) {
		_ = p.SignOut(r.Context())
	})
	return &cookieApp{handler: sm.LoadAndSave(mux), users: users}
}

func (a *cookieApp) get(t *testing.T, path string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range a.cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	res := rec.Result()
	if set := res.Cookies(); len(set) > 0 {
		a.cookies = set
	}
	return res
}

func TestCookieProvider_Lifecycle(t *testing.T) {
	app := newCookieApp()

	res := app.get(t, "/whoami")
	assert.Equal(t, string(model.SessionUnauthenticated), res.Header.Get("X-Status"))

	app.get(t, "/signin?id=1")
	res = app.get(t, "/whoami")
	assert.Equal(t, string(model.SessionAuthenticated), res.Header.Get("X-Status"))
	assert.Equal(t, "1", res.Header.Get("X-User"))

	app.get(t, "/signout")
	res = app.get(t, "/whoami")
	assert.Equal(t, string(model.SessionUnauthenticated), res.Header.Get("X-Status"))
}

func TestCookieProvider_TransientLookupIsLoading(t *testing.T) {
	app := newCookieApp()
	app.get(t, "/signin?id=2")

	app.users.err = errors.New("database is locked")
	res := app.get(t, "/whoami")
	assert.Equal(t, string(model.SessionLoading), res.Header.Get("X-Status"))

	app.users.err = nil
	res = app.get(t, "/whoami")
	assert.Equal(t, string(model.SessionAuthenticated), res.Header.Get("X-Status"))
	assert.Equal(t, "2", res.Header.Get("X-User"))
}

func TestCookieProvider_DeletedUserEndsSession(t *testing.T) {
	app := newCookieApp()
	app.get(t, "/signin?id=2")

	delete(app.users.users, 2)
	res := app.get(t, "/whoami")
	assert.Equal(t, string(model.SessionUnauthenticated), res.Header.Get("X-Status"))

	app.users.users[2] = model.User{ID: 2, Role: model.RoleUser}
	res = app.get(t, "/whoami")
	assert.Equal(t, string(model.SessionUnauthenticated), res.Header.Get("X-Status"))
}

func newBearer(t *testing.T) (*BearerProvider, *auth.Tokens) {
	t.Helper()
	mem := cache.NewMemoryCache(cache.MemoryOptions{})
	t.Cleanup(func() { _ = mem.Close() })
	tokens := auth.NewTokens([]byte("0123456789abcdef0123456789abcdef"), time.Hour)
	return NewBearerProvider(tokens, mem), tokens
}

func bearerRequest(token string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/admin/blogs", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"", ""},
		{"Bearer abc", "abc"},
		{"bearer  abc ", "abc"},
		{"Basic abc", ""},
		{"Bearer", ""},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", tt.header)
		assert.Equal(t, tt.want, BearerToken(req), "header %q", tt.header)
	}
}

func TestBearerProvider_Current(t *testing.T) {
	p, tokens := newBearer(t)
	admin := model.User{ID: 7, Name: "Admin", Email: "a@example.com", Role: model.RoleAdmin}

	token, _, err := tokens.Issue(admin)
	require.NoError(t, err)

	s := p.Current(bearerRequest(token))
	assert.Equal(t, model.SessionAuthenticated, s.Status)
	assert.True(t, s.IsAdmin())
	assert.Equal(t, "7", s.UserID())

	assert.Equal(t, model.SessionUnauthenticated, p.Current(bearerRequest("")).Status)
	assert.Equal(t, model.SessionUnauthenticated, p.Current(bearerRequest("garbage")).Status)
}

func TestBearerProvider_SignOutRevokes(t *testing.T) {
	p, tokens := newBearer(t)
	token, claims, err := tokens.Issue(model.User{ID: 1, Role: model.RoleAdmin})
	require.NoError(t, err)

	req := bearerRequest(token)
	require.Error(t, p.SignOut(req.Context()), "no claims in context")

	ctx := WithClaims(req.Context(), claims)
	require.NoError(t, p.SignOut(ctx))

	assert.Equal(t, model.SessionUnauthenticated, p.Current(bearerRequest(token)).Status)
}

func TestBearerProvider_RevocationLookupFailureIsLoading(t *testing.T) {
	mem := cache.NewMemoryCache(cache.MemoryOptions{})
	tokens := auth.NewTokens([]byte("0123456789abcdef0123456789abcdef"), time.Hour)
	p := NewBearerProvider(tokens, mem)

	token, _, err := tokens.Issue(model.User{ID: 1, Role: model.RoleAdmin})
	require.NoError(t, err)
	_ = mem.Close()

	assert.Equal(t, model.SessionLoading, p.Current(bearerRequest(token)).Status)
}
