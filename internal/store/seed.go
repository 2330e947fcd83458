// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/markgaal068/bigHITS/internal/auth"
	"github.com/markgaal068/bigHITS/internal/catalog"
	"github.com/markgaal068/bigHITS/internal/collection"
	"github.com/markgaal068/bigHITS/internal/model"
)

// DefaultAdminName is the display name of the seeded admin.
const DefaultAdminName = "Administrator"

// SeedOptions controls what Seed creates.
type SeedOptions struct {
	AdminEmail    string
	AdminPassword string
	// Fixtures loads the demo blogs, products and tutors into empty tables.
	Fixtures bool
}

// Seed creates the admin user and, optionally, the demo catalog. Existing
// data is left untouched.
func Seed(ctx context.Context, db *sql.DB, opts SeedOptions) error {
	q := New(db)

	if opts.AdminEmail != "" && opts.AdminPassword != "" {
		if err := seedAdmin(ctx, q, opts.AdminEmail, opts.AdminPassword); err != nil {
			return err
		}
	}
	if !opts.Fixtures {
		return nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning seed transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := seedCatalog(ctx, q.WithTx(tx)); err != nil {
		return err
	}
	return tx.Commit()
}

func seedAdmin(ctx context.Context, q *Queries, email, password string) error {
	_, err := q.GetUserByEmail(ctx, email)
	if err == nil {
		slog.Info("admin user already exists, skipping seed")
		return nil
	}
	if !errors.Is(err, collection.ErrNotFound) {
		return fmt.Errorf("checking for admin user: %w", err)
	}

	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	now := time.Now()
	user, err := q.CreateUser(ctx, CreateUserParams{
		Email:        email,
		PasswordHash: passwordHash,
		Role:         model.RoleAdmin,
		Name:         DefaultAdminName,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return fmt.Errorf("creating admin user: %w", err)
	}

	slog.Info("created admin user", "id", user.ID, "email", user.Email)
	return nil
}

func seedCatalog(ctx context.Context, q *Queries) error {
	if n, err := q.CountBlogs(ctx); err != nil {
		return fmt.Errorf("counting blogs: %w", err)
	} else if n == 0 {
		for _, b := range catalog.FixtureBlogs() {
			if _, err := q.CreateBlog(ctx, b); err != nil {
				return fmt.Errorf("seeding blog %q: %w", b.Slug, err)
			}
		}
		slog.Info("seeded demo blogs")
	}

	if n, err := q.CountProducts(ctx); err != nil {
		return fmt.Errorf("counting products: %w", err)
	} else if n == 0 {
		for _, p := range catalog.FixtureProducts() {
			if err := q.CreateProduct(ctx, p); err != nil {
				return fmt.Errorf("seeding product %q: %w", p.Slug, err)
			}
		}
		slog.Info("seeded demo products")
	}

	if n, err := q.CountTutors(ctx); err != nil {
		return fmt.Errorf("counting tutors: %w", err)
	} else if n == 0 {
		for _, t := range catalog.FixtureTutors() {
			if err := q.CreateTutor(ctx, t); err != nil {
				return fmt.Errorf("seeding tutor %q: %w", t.Slug, err)
			}
		}
		slog.Info("seeded demo tutors")
	}
	return nil
}
