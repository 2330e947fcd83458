// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package testutil provides shared test helpers for the bigHITS project.
package testutil

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/markgaal068/bigHITS/internal/store"
)

// TestLogger creates a silent test logger that only outputs warnings and errors.
func TestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
}

// TestLoggerSilent creates a completely silent test logger (error level only).
func TestLoggerSilent() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
}

// TestDB creates a temporary SQLite database with the migrations applied.
// It is closed when the test ends.
func TestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := store.NewSQLite("sqlite3", filepath.Join(t.TempDir(), "bighits-test.db"), store.DefaultDBConfig())
	if err != nil {
		t.Fatalf("NewSQLite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := store.Migrate(db, store.DialectSQLite); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	return db
}

// SeededDB is TestDB with the demo catalog and an admin account.
func SeededDB(t *testing.T, adminEmail, adminPassword string) *sql.DB {
	t.Helper()

	db := TestDB(t)
	err := store.Seed(context.Background(), db, store.SeedOptions{
		AdminEmail:    adminEmail,
		AdminPassword: adminPassword,
		Fixtures:      true,
	})
	if err != nil {
		t.Fatalf("Seed: %v", err)
	}
	return db
}
