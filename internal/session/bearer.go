// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/markgaal068/bigHITS/internal/auth"
	"github.com/markgaal068/bigHITS/internal/cache"
	"github.com/markgaal068/bigHITS/internal/model"
)

type claimsKey struct{}

// WithClaims stores verified token claims in ctx.
func WithClaims(ctx context.Context, c *auth.Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, c)
}

// ClaimsFrom returns the token claims stored by WithClaims.
func ClaimsFrom(ctx context.Context) (*auth.Claims, bool) {
	c, ok := ctx.Value(claimsKey{}).(*auth.Claims)
	return c, ok && c != nil
}

// BearerProvider resolves "Authorization: Bearer" JWTs. Signed-out tokens
// are remembered in the cache until they would have expired anyway.
type BearerProvider struct {
	tokens  *auth.Tokens
	revoked cache.Cache
	now     func() time.Time
}

// NewBearerProvider creates a bearer provider.
func NewBearerProvider(tokens *auth.Tokens, revoked cache.Cache) *BearerProvider {
	return &BearerProvider{tokens: tokens, revoked: revoked, now: time.Now}
}

// BearerToken extracts the token from the Authorization header.
func BearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// Claims verifies the request's bearer token. The boolean is false when the
// revocation list could not be consulted.
func (p *BearerProvider) Claims(r *http.Request) (*auth.Claims, bool) {
	raw := BearerToken(r)
	if raw == "" {
		return nil, true
	}
	claims, err := p.tokens.Parse(raw)
	if err != nil {
		return nil, true
	}

	revoked, err := p.revoked.Has(r.Context(), revokedKey(claims.ID))
	if err != nil {
		slog.Error("failed to check token revocation", "jti", claims.ID, "error", err)
		return nil, false
	}
	if revoked {
		return nil, true
	}
	return claims, true
}

// Current implements Provider.
func (p *BearerProvider) Current(r *http.Request) model.Session {
	if c, ok := ClaimsFrom(r.Context()); ok {
		return sessionOf(c)
	}
	claims, ok := p.Claims(r)
	if !ok {
		return model.LoadingSession()
	}
	if claims == nil {
		return model.UnauthenticatedSession()
	}
	return sessionOf(claims)
}

// SignOut revokes the token whose claims are in ctx.
func (p *BearerProvider) SignOut(ctx context.Context) error {
	claims, ok := ClaimsFrom(ctx)
	if !ok {
		return errors.New("no bearer token in context")
	}
	return p.Revoke(ctx, claims)
}

// Revoke marks the token as signed out for the rest of its lifetime.
func (p *BearerProvider) Revoke(ctx context.Context, claims *auth.Claims) error {
	ttl := time.Minute
	if claims.ExpiresAt != nil {
		ttl = claims.ExpiresAt.Sub(p.now())
	}
	if ttl <= 0 {
		return nil
	}
	if err := p.revoked.Set(ctx, revokedKey(claims.ID), []byte("1"), ttl); err != nil {
		return fmt.Errorf("revoking token: %w", err)
	}
	return nil
}

func revokedKey(jti string) string {
	return "revoked:" + jti
}

func sessionOf(c *auth.Claims) model.Session {
	return model.Session{Status: model.SessionAuthenticated, User: c.SessionUser()}
}

var _ Provider = (*BearerProvider)(nil)
