// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markgaal068/bigHITS/internal/auth"
	"github.com/markgaal068/bigHITS/internal/catalog"
	"github.com/markgaal068/bigHITS/internal/collection"
	"github.com/markgaal068/bigHITS/internal/model"
)

// testDB creates a migrated temporary database.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := NewSQLite("sqlite3", filepath.Join(t.TempDir(), "bighits-test.db"), DefaultDBConfig())
	if err != nil {
		t.Fatalf("NewSQLite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := Migrate(db, DialectSQLite); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	return db
}

func TestOpenUnsupportedDriver(t *testing.T) {
	_, err := Open("postgres", "x")
	assert.Error(t, err)
}

func TestNewMySQLBadDSN(t *testing.T) {
	_, err := NewMySQL("::not a dsn::", DefaultDBConfig())
	assert.Error(t, err)
}

func TestUsers(t *testing.T) {
	ctx := context.Background()
	q := New(testDB(t))

	now := time.Now().UTC().Truncate(time.Second)
	user, err := q.CreateUser(ctx, CreateUserParams{
		Email:        "test@example.com",
		PasswordHash: "hashed-password",
		Role:         model.RoleUser,
		Name:         "Test User",
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	require.NoError(t, err)
	assert.NotZero(t, user.ID)

	got, err := q.GetUserByEmail(ctx, "test@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.Equal(t, "Test User", got.Name)
	assert.False(t, got.LastLoginAt.Valid)

	require.NoError(t, q.UpdateUserLastLogin(ctx, user.ID, now))
	got, err = q.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, got.LastLoginAt.Valid)

	require.NoError(t, q.UpdateUserPassword(ctx, user.ID, "new-hash", now))
	got, _ = q.GetUserByID(ctx, user.ID)
	assert.Equal(t, "new-hash", got.PasswordHash)

	_, err = q.GetUserByEmail(ctx, "missing@example.com")
	assert.ErrorIs(t, err, collection.ErrNotFound)
	assert.ErrorIs(t, q.UpdateUserLastLogin(ctx, 999, now), collection.ErrNotFound)

	n, err := q.CountUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestSeed(t *testing.T) {
	ctx := context.Background()
	db := testDB(t)
	opts := SeedOptions{AdminEmail: "admin@bighits.com", AdminPassword: "admin123", Fixtures: true}

	require.NoError(t, Seed(ctx, db, opts))
	// Seeding twice is a no-op.
	require.NoError(t, Seed(ctx, db, opts))

	q := New(db)
	admin, err := q.GetUserByEmail(ctx, "admin@bighits.com")
	require.NoError(t, err)
	assert.True(t, admin.IsAdmin())
	ok, err := auth.CheckPassword("admin123", admin.PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)

	for name, count := range map[string]func(context.Context) (int64, error){
		"blogs": q.CountBlogs, "products": q.CountProducts, "tutors": q.CountTutors,
	} {
		n, err := count(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(6), n, name)
	}
	users, _ := q.CountUsers(ctx)
	assert.Equal(t, int64(1), users)
}

func TestBlogSource(t *testing.T) {
	ctx := context.Background()
	db := testDB(t)
	require.NoError(t, Seed(ctx, db, SeedOptions{Fixtures: true}))
	src := NewSources(db).Blogs

	all, err := src.FetchAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 6)
	assert.Equal(t, "2023-03-15", all[0].Date, "newest first")

	seo, err := src.FetchByID(ctx, "5")
	require.NoError(t, err)
	assert.Equal(t, "How to Optimize Your Website for SEO", seo.Title)
	assert.False(t, seo.Published)
	assert.Equal(t, []string{"search"}, seo.Tags)

	created, err := src.Save(ctx, model.BlogDraft{
		Title: "Fresh Post", Content: "Hello", Excerpt: "Hi", Category: "News", Tags: "a, b",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7), created.ID)
	assert.Equal(t, "fresh-post", created.Slug)

	draft := model.BlogDraftFrom(created)
	draft.Title = "Fresh Post Updated"
	draft.Slug = ""
	updated, err := src.Save(ctx, draft)
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "fresh-post-updated", updated.Slug)
	assert.Equal(t, created.Date, updated.Date)

	_, err = src.Save(ctx, model.BlogDraft{
		Title: "x", Slug: "how-to-optimize-website-seo", Content: "c", Excerpt: "e", Category: "c",
	})
	var verr *collection.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "A blog with this slug already exists", verr.Message)

	require.NoError(t, src.UpdatePublished(ctx, "5", true))
	seo, _ = src.FetchByID(ctx, "5")
	assert.True(t, seo.Published)

	require.NoError(t, src.Delete(ctx, "5"))
	_, err = src.FetchByID(ctx, "5")
	assert.ErrorIs(t, err, collection.ErrNotFound)
	assert.ErrorIs(t, src.Delete(ctx, "5"), collection.ErrNotFound)
	assert.ErrorIs(t, src.Delete(ctx, "abc"), collection.ErrNotFound)
}

func TestProductAndTutorSources(t *testing.T) {
	ctx := context.Background()
	db := testDB(t)
	require.NoError(t, Seed(ctx, db, SeedOptions{Fixtures: true}))
	sources := NewSources(db)

	products, err := sources.Products.FetchAll(ctx)
	require.NoError(t, err)
	require.Len(t, products, 6)
	assert.Equal(t, "E-commerce Website Template", products[0].Name, "ordered by name")

	p, err := sources.Products.Save(ctx, model.ProductDraft{
		Name: "Brand Kit", Description: "d", ShortDescription: "s",
		Price: "25", SalePrice: "20", Category: "Design Services", Stock: "3",
	})
	require.NoError(t, err)
	got, err := sources.Products.FetchByID(ctx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, got.SalePrice)
	assert.Equal(t, 20.0, *got.SalePrice)
	assert.Equal(t, int64(3), got.Stock)

	d := model.ProductDraftFrom(got)
	d.SalePrice = ""
	_, err = sources.Products.Save(ctx, d)
	require.NoError(t, err)
	got, _ = sources.Products.FetchByID(ctx, p.ID)
	assert.Nil(t, got.SalePrice)

	tutors, err := sources.Tutors.FetchAll(ctx)
	require.NoError(t, err)
	require.Len(t, tutors, 6)

	fixture := catalog.FixtureTutors()[0]
	td := model.TutorDraftFrom(fixture)
	td.Rate = "100"
	saved, err := sources.Tutors.Save(ctx, td)
	require.NoError(t, err)
	assert.Equal(t, 100.0, saved.Rate)
	assert.Equal(t, fixture.Rating, saved.Rating)

	require.NoError(t, sources.Tutors.UpdatePublished(ctx, fixture.ID, false))
	require.NoError(t, sources.Tutors.Delete(ctx, fixture.ID))
	assert.ErrorIs(t, sources.Tutors.UpdatePublished(ctx, fixture.ID, true), collection.ErrNotFound)
}

func TestControllerOverSQL(t *testing.T) {
	ctx := context.Background()
	db := testDB(t)
	require.NoError(t, Seed(ctx, db, SeedOptions{Fixtures: true}))

	c := collection.NewController[model.Blog](catalog.BlogSchema, NewSources(db).Blogs)
	require.NoError(t, c.Load(ctx))
	c.SetSearchTerm("seo")
	view := c.View()
	require.Len(t, view, 1)

	_, err := c.TogglePublished(ctx, view[0].Key())
	require.NoError(t, err)
	require.NoError(t, c.Remove(ctx, view[0].Key(), collection.Answer(true)))
	assert.Empty(t, c.View())
}
