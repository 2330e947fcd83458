// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "strconv"

// SessionStatus is the lifecycle state reported by a session provider.
type SessionStatus string

// Session statuses.
const (
	SessionUnauthenticated SessionStatus = "unauthenticated"
	SessionLoading         SessionStatus = "loading"
	SessionAuthenticated   SessionStatus = "authenticated"
)

// SessionUser is the identity claim carried by an authenticated session.
type SessionUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Session is the read-only view of the current viewer's authentication.
// User is nil unless Status is SessionAuthenticated, but consumers must not
// rely on that.
type Session struct {
	Status SessionStatus `json:"status"`
	User   *SessionUser  `json:"user,omitempty"`
}

// UnauthenticatedSession returns a session with no user.
func UnauthenticatedSession() Session {
	return Session{Status: SessionUnauthenticated}
}

// LoadingSession returns a session whose status is not resolved yet.
func LoadingSession() Session {
	return Session{Status: SessionLoading}
}

// SessionFor returns an authenticated session for the given user.
func SessionFor(u User) Session {
	return Session{
		Status: SessionAuthenticated,
		User: &SessionUser{
			ID:    strconv.FormatInt(u.ID, 10),
			Name:  u.Name,
			Email: u.Email,
			Role:  u.Role,
		},
	}
}

// IsAdmin reports whether the session is authenticated with the admin role.
// A malformed session (authenticated without user) is not admin.
func (s Session) IsAdmin() bool {
	return s.Status == SessionAuthenticated && s.User != nil && s.User.Role == RoleAdmin
}

// UserID returns the session user's ID or an empty string.
func (s Session) UserID() string {
	if s.User == nil {
		return ""
	}
	return s.User.ID
}
