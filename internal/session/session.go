// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package session resolves the current viewer of a request into a
// model.Session, either from a cookie session or from an API bearer token.
package session

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"github.com/alexedwards/scs/v2/memstore"
)

// KeyUserID is the cookie session key holding the signed-in user's ID.
const KeyUserID = "user_id"

// New creates a session manager backed by the sessions table of db.
// The table is created by the SQLite migrations.
func New(db *sql.DB, isDev bool) *scs.SessionManager {
	sm := newManager(isDev)
	sm.Store = sqlite3store.New(db)
	return sm
}

// NewMemory creates a session manager with an in-process store. It is used
// when the database has no sessions table (MySQL) and in tests.
func NewMemory(isDev bool) *scs.SessionManager {
	sm := newManager(isDev)
	sm.Store = memstore.New()
	return sm
}

func newManager(isDev bool) *scs.SessionManager {
	sm := scs.New()
	sm.Lifetime = 24 * time.Hour
	sm.IdleTimeout = 2 * time.Hour
	sm.Cookie.HttpOnly = true
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Path = "/"
	sm.Cookie.Secure = !isDev
	if !isDev {
		// __Host- requires Secure, Path=/ and no Domain.
		sm.Cookie.Name = "__Host-session"
	}
	return sm
}
