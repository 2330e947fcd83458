// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package api provides the JSON admin API. Clients authenticate with a
// bearer token from POST /api/auth/token; every other route requires an
// admin token.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/markgaal068/bigHITS/internal/auth"
	"github.com/markgaal068/bigHITS/internal/collection"
	"github.com/markgaal068/bigHITS/internal/middleware"
	"github.com/markgaal068/bigHITS/internal/model"
	"github.com/markgaal068/bigHITS/internal/session"
)

// maxBodyBytes limits JSON request bodies.
const maxBodyBytes = 1 << 20

// UserStore looks up accounts for token issuance. *store.Queries satisfies it.
type UserStore interface {
	GetUserByEmail(ctx context.Context, email string) (model.User, error)
}

// Handler serves the API's token and status endpoints.
type Handler struct {
	users           UserStore
	tokens          *auth.Tokens
	bearer          *session.BearerProvider
	registry        *collection.Registry
	loginProtection *middleware.LoginProtection
}

// NewHandler creates a new API handler. lp may be nil.
func NewHandler(users UserStore, tokens *auth.Tokens, bearer *session.BearerProvider,
	registry *collection.Registry, lp *middleware.LoginProtection) *Handler {
	return &Handler{
		users:           users,
		tokens:          tokens,
		bearer:          bearer,
		registry:        registry,
		loginProtection: lp,
	}
}

// Response is the standard API response wrapper.
type Response struct {
	Data any   `json:"data,omitempty"`
	Meta *Meta `json:"meta,omitempty"`
}

// Meta describes a listing.
type Meta struct {
	Total  int    `json:"total"`
	Search string `json:"search,omitempty"`
	Sort   string `json:"sort,omitempty"`
	Dir    string `json:"dir,omitempty"`
	// Banner is the last rejected mutation of the caller's mounted list.
	Banner string `json:"banner,omitempty"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteSuccess writes a successful JSON response.
func WriteSuccess(w http.ResponseWriter, data any, meta *Meta) {
	WriteJSON(w, http.StatusOK, Response{Data: data, Meta: meta})
}

// WriteCreated writes a 201 Created JSON response.
func WriteCreated(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusCreated, Response{Data: data})
}

// WriteError writes an error JSON response.
func WriteError(w http.ResponseWriter, statusCode int, code, message string, details map[string]string) {
	middleware.WriteAPIError(w, statusCode, code, message, details)
}

// WriteBadRequest writes a 400 Bad Request response.
func WriteBadRequest(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadRequest, "bad_request", message, nil)
}

// WriteNotFound writes a 404 Not Found response.
func WriteNotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, "not_found", message, nil)
}

// WriteUnauthorized writes a 401 Unauthorized response.
func WriteUnauthorized(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusUnauthorized, "unauthorized", message, nil)
}

// WriteInternalError writes a 500 Internal Server Error response.
func WriteInternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, "internal_error", message, nil)
}

// WriteValidationError writes a 422 Unprocessable Entity response.
func WriteValidationError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusUnprocessableEntity, "validation_error", message, nil)
}

// Viewer identifies the bearer of the request's token for mounted views.
// It is empty outside RequireAdminAPI.
func Viewer(r *http.Request) string {
	if claims, ok := session.ClaimsFrom(r.Context()); ok {
		return "api:" + claims.ID
	}
	return ""
}

// StatusResponse contains API status information.
type StatusResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// Status returns the API status.
func (h *Handler) Status(w http.ResponseWriter, _ *http.Request) {
	WriteSuccess(w, StatusResponse{Status: "ok", Version: "v1"}, nil)
}

// TokenRequest is the body of POST /api/auth/token.
type TokenRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse carries an issued bearer token.
type TokenResponse struct {
	Token     string    `json:"token"`
	TokenType string    `json:"token_type"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Token handles POST /api/auth/token. Only admins receive tokens; failed
// attempts count towards the same lockout as the sign-in form.
func (h *Handler) Token(w http.ResponseWriter, r *http.Request) {
	var req TokenRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteBadRequest(w, "Invalid JSON body")
		return
	}
	if req.Email == "" || req.Password == "" {
		WriteBadRequest(w, "Email and password are required")
		return
	}

	if h.loginProtection != nil {
		if locked, remaining := h.loginProtection.IsAccountLocked(req.Email); locked {
			w.Header().Set("Retry-After", fmt.Sprintf("%d", int(remaining.Seconds())+1))
			WriteError(w, http.StatusTooManyRequests, "account_locked", "Account temporarily locked", nil)
			return
		}
	}

	user, err := h.users.GetUserByEmail(r.Context(), req.Email)
	if err != nil && !errors.Is(err, collection.ErrNotFound) {
		slog.Error("database error during token issuance", "error", err)
		WriteInternalError(w, "Could not issue token")
		return
	}
	valid := false
	if err == nil {
		if valid, err = auth.CheckPassword(req.Password, user.PasswordHash); err != nil {
			slog.Error("password check error", "error", err, "user_id", user.ID)
		}
	}
	if !valid {
		if h.loginProtection != nil {
			h.loginProtection.RecordFailedAttempt(req.Email)
		}
		slog.Warn("api token refused", "email", req.Email, "ip", middleware.ClientIP(r))
		WriteUnauthorized(w, "Invalid email or password")
		return
	}
	if h.loginProtection != nil {
		h.loginProtection.RecordSuccessfulLogin(req.Email)
	}
	if !user.IsAdmin() {
		WriteError(w, http.StatusForbidden, "forbidden", "Admin role required", nil)
		return
	}

	token, claims, err := h.tokens.Issue(user)
	if err != nil {
		slog.Error("failed to issue token", "error", err, "user_id", user.ID)
		WriteInternalError(w, "Could not issue token")
		return
	}
	slog.Info("api token issued", "user_id", user.ID, "jti", claims.ID, "ip", middleware.ClientIP(r))
	WriteCreated(w, TokenResponse{Token: token, TokenType: "Bearer", ExpiresAt: claims.ExpiresAt.Time})
}

// SignOut handles POST /api/auth/signout. The token is revoked and the
// views mounted for it are dropped.
func (h *Handler) SignOut(w http.ResponseWriter, r *http.Request) {
	claims, ok := session.ClaimsFrom(r.Context())
	if !ok {
		WriteUnauthorized(w, "A valid bearer token is required")
		return
	}
	n := h.registry.UnmountViewer(Viewer(r))
	if err := h.bearer.Revoke(r.Context(), claims); err != nil {
		slog.Error("failed to revoke token", "jti", claims.ID, "error", err)
		WriteInternalError(w, "Could not revoke token")
		return
	}
	slog.Info("api token revoked", "user_id", claims.Subject, "jti", claims.ID, "views", n)
	w.WriteHeader(http.StatusNoContent)
}
