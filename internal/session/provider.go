// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/alexedwards/scs/v2"

	"github.com/markgaal068/bigHITS/internal/collection"
	"github.com/markgaal068/bigHITS/internal/model"
)

// Provider reports who is viewing a request.
type Provider interface {
	// Current never fails: a viewer that cannot be resolved yet is reported
	// as a loading session and an absent one as unauthenticated.
	Current(r *http.Request) model.Session
	SignOut(ctx context.Context) error
}

// UserLookup loads users by ID. *store.Queries satisfies it.
type UserLookup interface {
	GetUserByID(ctx context.Context, id int64) (model.User, error)
}

// CookieProvider resolves the session cookie managed by scs.
type CookieProvider struct {
	sm    *scs.SessionManager
	users UserLookup
}

// NewCookieProvider creates a provider over sm. Requests must pass through
// sm.LoadAndSave before Current is called.
func NewCookieProvider(sm *scs.SessionManager, users UserLookup) *CookieProvider {
	return &CookieProvider{sm: sm, users: users}
}

// Current returns the session of the signed-in user. A user that no longer
// exists ends the session; any other lookup failure is treated as
// transient and reported as loading.
func (p *CookieProvider) Current(r *http.Request) model.Session {
	ctx := r.Context()
	userID := p.sm.GetInt64(ctx, KeyUserID)
	if userID == 0 {
		return model.UnauthenticatedSession()
	}

	u, err := p.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, collection.ErrNotFound) {
			slog.Warn("session user no longer exists", "user_id", userID)
			_ = p.sm.Destroy(ctx)
			return model.UnauthenticatedSession()
		}
		slog.Error("failed to load session user", "user_id", userID, "error", err)
		return model.LoadingSession()
	}
	return model.SessionFor(u)
}

// SignIn records the user in the session. The token is renewed first to
// prevent session fixation.
func (p *CookieProvider) SignIn(ctx context.Context, u model.User) error {
	if err := p.sm.RenewToken(ctx); err != nil {
		return fmt.Errorf("renewing session token: %w", err)
	}
	p.sm.Put(ctx, KeyUserID, u.ID)
	return nil
}

// SignOut destroys the session.
func (p *CookieProvider) SignOut(ctx context.Context) error {
	if err := p.sm.Destroy(ctx); err != nil {
		return fmt.Errorf("destroying session: %w", err)
	}
	return nil
}

// Token returns the session token, which identifies the viewer for mounted
// views. It is empty until the session has been committed once.
func (p *CookieProvider) Token(ctx context.Context) string {
	return p.sm.Token(ctx)
}

var _ Provider = (*CookieProvider)(nil)
