// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/markgaal068/bigHITS/internal/model"
	"github.com/markgaal068/bigHITS/internal/session"
)

// APIError is the JSON error envelope of the admin API.
type APIError struct {
	Error struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details,omitempty"`
	} `json:"error"`
}

// WriteAPIError writes a JSON error response.
func WriteAPIError(w http.ResponseWriter, statusCode int, code, message string, details map[string]string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	apiErr := APIError{}
	apiErr.Error.Code = code
	apiErr.Error.Message = message
	apiErr.Error.Details = details

	_ = json.NewEncoder(w).Encode(apiErr)
}

// RequireAdminAPI is the bearer-token counterpart of RequireAdmin. The
// guard's redirects become status codes: 401 without a valid token, 403 for
// non-admins and 503 when the token could not be checked yet.
func RequireAdminAPI(p *session.BearerProvider) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := p.Claims(r)
			if !ok {
				w.Header().Set("Retry-After", "1")
				WriteAPIError(w, http.StatusServiceUnavailable, "session_loading", "Session could not be verified yet, retry shortly", nil)
				return
			}
			if claims == nil {
				WriteAPIError(w, http.StatusUnauthorized, "unauthorized", "A valid bearer token is required", nil)
				return
			}

			s := model.Session{Status: model.SessionAuthenticated, User: claims.SessionUser()}
			if !s.IsAdmin() {
				slog.Warn("api access denied",
					"method", r.Method,
					"path", r.URL.Path,
					"user_id", s.UserID(),
					"user_role", claims.Role,
				)
				WriteAPIError(w, http.StatusForbidden, "forbidden", "Admin role required", nil)
				return
			}

			ctx := session.WithClaims(r.Context(), claims)
			ctx = WithSession(ctx, s)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
