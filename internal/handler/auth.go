// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/mileusna/useragent"

	"github.com/markgaal068/bigHITS/internal/auth"
	"github.com/markgaal068/bigHITS/internal/collection"
	"github.com/markgaal068/bigHITS/internal/guard"
	"github.com/markgaal068/bigHITS/internal/middleware"
	"github.com/markgaal068/bigHITS/internal/model"
	"github.com/markgaal068/bigHITS/internal/render"
	"github.com/markgaal068/bigHITS/internal/session"
)

const redirectAdmin = "/admin"

// UserStore is what sign-in needs from the user table. *store.Queries
// satisfies it.
type UserStore interface {
	GetUserByEmail(ctx context.Context, email string) (model.User, error)
	UpdateUserLastLogin(ctx context.Context, id int64, at time.Time) error
	UpdateUserPassword(ctx context.Context, id int64, hash string, at time.Time) error
}

// AuthHandler handles sign-in and sign-out.
type AuthHandler struct {
	users           UserStore
	renderer        *render.Renderer
	sessions        *session.CookieProvider
	loginProtection *middleware.LoginProtection
	registry        *collection.Registry
	viewer          ViewerFunc
}

// NewAuthHandler creates a new AuthHandler. lp may be nil.
func NewAuthHandler(users UserStore, renderer *render.Renderer, sessions *session.CookieProvider,
	lp *middleware.LoginProtection, registry *collection.Registry, viewer ViewerFunc) *AuthHandler {
	return &AuthHandler{
		users:           users,
		renderer:        renderer,
		sessions:        sessions,
		loginProtection: lp,
		registry:        registry,
		viewer:          viewer,
	}
}

// SignInData is the data of the sign-in page.
type SignInData struct {
	Email string
}

// SignInForm renders the sign-in page. Signed-in admins go to the
// dashboard, other signed-in users to the homepage.
func (h *AuthHandler) SignInForm(w http.ResponseWriter, r *http.Request) {
	s := middleware.SessionFrom(r.Context())
	if s.Status == model.SessionAuthenticated {
		target := guard.HomePath
		if s.IsAdmin() {
			target = redirectAdmin
		}
		http.Redirect(w, r, target, http.StatusSeeOther)
		return
	}
	renderPage(w, r, h.renderer, http.StatusOK, "auth/signin", render.TemplateData{
		Title: "Sign in",
		Data:  SignInData{Email: r.URL.Query().Get("email")},
	})
}

// SignIn handles the sign-in form submission.
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, guard.SignInPath) {
		return
	}

	email := r.PostForm.Get("email")
	password := r.PostForm.Get("password")
	if email == "" || password == "" {
		flashError(w, r, h.renderer, guard.SignInPath, "Email and password are required")
		return
	}

	if h.loginProtection != nil {
		if locked, remaining := h.loginProtection.IsAccountLocked(email); locked {
			h.audit(r, slog.LevelWarn, "sign-in attempt on locked account", "email", email)
			flashError(w, r, h.renderer, guard.SignInPath,
				fmt.Sprintf("Account temporarily locked. Try again in %s", formatDuration(remaining)))
			return
		}
	}

	user, err := h.users.GetUserByEmail(r.Context(), email)
	if err != nil {
		if errors.Is(err, collection.ErrNotFound) {
			h.audit(r, slog.LevelWarn, "sign-in failed: user not found", "email", email)
		} else {
			slog.Error("database error during sign-in", "error", err)
		}
		// Unknown users count as failures too so accounts cannot be enumerated.
		h.failed(w, r, email)
		return
	}

	valid, err := auth.CheckPassword(password, user.PasswordHash)
	if err != nil {
		slog.Error("password check error", "error", err, "user_id", user.ID)
	}
	if !valid {
		h.audit(r, slog.LevelWarn, "sign-in failed: invalid password", "email", email, "user_id", user.ID)
		h.failed(w, r, email)
		return
	}

	if h.loginProtection != nil {
		h.loginProtection.RecordSuccessfulLogin(email)
	}
	if err := h.sessions.SignIn(r.Context(), user); err != nil {
		logAndInternalError(w, "failed to start session", "error", err, "user_id", user.ID)
		return
	}

	now := time.Now()
	if err := h.users.UpdateUserLastLogin(r.Context(), user.ID, now); err != nil {
		slog.Error("failed to update last login", "error", err, "user_id", user.ID)
	}
	if auth.NeedsRehash(user.PasswordHash) {
		if hash, err := auth.HashPassword(password); err == nil {
			if err := h.users.UpdateUserPassword(r.Context(), user.ID, hash, now); err != nil {
				slog.Error("failed to upgrade password hash", "error", err, "user_id", user.ID)
			}
		}
	}

	h.audit(r, slog.LevelInfo, "user signed in", "user_id", user.ID, "role", user.Role)

	target := guard.HomePath
	if user.IsAdmin() {
		target = redirectAdmin
	}
	flashSuccess(w, r, h.renderer, target, "Welcome back, "+user.Name+"!")
}

// failed records a failed attempt and redirects back to the form.
func (h *AuthHandler) failed(w http.ResponseWriter, r *http.Request, email string) {
	if h.loginProtection != nil {
		if locked, lockDuration := h.loginProtection.RecordFailedAttempt(email); locked {
			h.audit(r, slog.LevelWarn, "account locked after failed sign-ins", "email", email, "duration", lockDuration.String())
			flashError(w, r, h.renderer, guard.SignInPath,
				fmt.Sprintf("Too many failed attempts. Account locked for %s", formatDuration(lockDuration)))
			return
		}
		if remaining := h.loginProtection.RemainingAttempts(email); remaining > 0 && remaining <= 3 {
			flashError(w, r, h.renderer, guard.SignInPath,
				fmt.Sprintf("Invalid email or password. %d attempts remaining", remaining))
			return
		}
	}
	flashError(w, r, h.renderer, guard.SignInPath, "Invalid email or password")
}

// SignOut ends the session and drops the viewer's mounted views.
func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	s := middleware.SessionFrom(r.Context())
	if n := h.registry.UnmountViewer(h.viewer(r)); n > 0 {
		slog.Debug("unmounted views on sign-out", "count", n)
	}
	if err := h.sessions.SignOut(r.Context()); err != nil {
		slog.Error("failed to destroy session", "error", err)
	}
	if s.User != nil {
		h.audit(r, slog.LevelInfo, "user signed out", "user_id", s.User.ID)
	}
	http.Redirect(w, r, guard.SignInPath, http.StatusSeeOther)
}

// audit logs an authentication event with the client's address and agent.
func (h *AuthHandler) audit(r *http.Request, level slog.Level, msg string, args ...any) {
	ua := useragent.Parse(r.UserAgent())
	args = append(args,
		"ip", middleware.ClientIP(r),
		"browser", ua.Name,
		"os", ua.OS,
		"device", deviceType(ua),
	)
	slog.Log(r.Context(), level, msg, args...)
}

func deviceType(ua useragent.UserAgent) string {
	switch {
	case ua.Bot:
		return "bot"
	case ua.Tablet:
		return "tablet"
	case ua.Mobile:
		return "mobile"
	case ua.Desktop:
		return "desktop"
	}
	return "unknown"
}

// formatDuration rounds a lockout duration for display.
func formatDuration(d time.Duration) string {
	switch {
	case d >= time.Hour:
		return fmt.Sprintf("%d hour(s)", int(d.Round(time.Hour)/time.Hour))
	case d >= time.Minute:
		return fmt.Sprintf("%d minute(s)", int(d.Round(time.Minute)/time.Minute))
	default:
		return fmt.Sprintf("%d second(s)", int(d.Round(time.Second)/time.Second))
	}
}
