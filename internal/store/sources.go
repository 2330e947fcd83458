// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/markgaal068/bigHITS/internal/catalog"
	"github.com/markgaal068/bigHITS/internal/collection"
	"github.com/markgaal068/bigHITS/internal/model"
)

// NewSources returns SQL-backed data sources for every record type.
func NewSources(db *sql.DB) catalog.Sources {
	q := New(db)
	return catalog.Sources{
		Blogs:    &BlogSource{q: q, now: time.Now},
		Products: &ProductSource{q: q, now: time.Now},
		Tutors:   &TutorSource{q: q, now: time.Now},
	}
}

func duplicateSlug(noun string) error {
	return collection.NewValidationError(fmt.Sprintf("A %s with this slug already exists", noun))
}

// slugTaken reports whether slug belongs to a record other than key.
func slugTaken(err error, foundKey, key string) (bool, error) {
	if errors.Is(err, collection.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return foundKey != key, nil
}

// BlogSource is the SQL data source for blogs.
type BlogSource struct {
	q   *Queries
	now func() time.Time
}

// FetchAll returns every blog.
func (s *BlogSource) FetchAll(ctx context.Context) ([]model.Blog, error) {
	blogs, err := s.q.ListBlogs(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing blogs: %w", err)
	}
	return blogs, nil
}

// FetchByID returns one blog.
func (s *BlogSource) FetchByID(ctx context.Context, id string) (model.Blog, error) {
	n, err := catalog.ParseBlogID(id)
	if err != nil {
		return model.Blog{}, err
	}
	return s.q.GetBlog(ctx, n)
}

// Save creates or updates a blog.
func (s *BlogSource) Save(ctx context.Context, d model.BlogDraft) (model.Blog, error) {
	var existing *model.Blog
	if d.ID != "" {
		b, err := s.FetchByID(ctx, d.ID)
		if err != nil {
			return model.Blog{}, err
		}
		existing = &b
	}

	b, err := catalog.BuildBlog(d, existing, s.now())
	if err != nil {
		return model.Blog{}, err
	}

	other, err := s.q.GetBlogBySlug(ctx, b.Slug)
	taken, err := slugTaken(err, other.Key(), b.Key())
	if err != nil {
		return model.Blog{}, fmt.Errorf("checking slug: %w", err)
	}
	if taken {
		return model.Blog{}, duplicateSlug("blog")
	}

	if existing != nil {
		if err := s.q.UpdateBlog(ctx, b); err != nil {
			return model.Blog{}, fmt.Errorf("updating blog: %w", err)
		}
		return b, nil
	}
	b, err = s.q.CreateBlog(ctx, b)
	if err != nil {
		return model.Blog{}, fmt.Errorf("creating blog: %w", err)
	}
	return b, nil
}

// UpdatePublished sets the published flag.
func (s *BlogSource) UpdatePublished(ctx context.Context, id string, published bool) error {
	n, err := catalog.ParseBlogID(id)
	if err != nil {
		return err
	}
	return s.q.SetBlogPublished(ctx, n, published, s.now())
}

// Delete removes a blog.
func (s *BlogSource) Delete(ctx context.Context, id string) error {
	n, err := catalog.ParseBlogID(id)
	if err != nil {
		return err
	}
	return s.q.DeleteBlog(ctx, n)
}

// ProductSource is the SQL data source for products.
type ProductSource struct {
	q   *Queries
	now func() time.Time
}

// FetchAll returns every product.
func (s *ProductSource) FetchAll(ctx context.Context) ([]model.Product, error) {
	products, err := s.q.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	return products, nil
}

// FetchByID returns one product.
func (s *ProductSource) FetchByID(ctx context.Context, id string) (model.Product, error) {
	return s.q.GetProduct(ctx, id)
}

// Save creates or updates a product.
func (s *ProductSource) Save(ctx context.Context, d model.ProductDraft) (model.Product, error) {
	var existing *model.Product
	if d.ID != "" {
		p, err := s.q.GetProduct(ctx, d.ID)
		if err != nil {
			return model.Product{}, err
		}
		existing = &p
	}

	p, err := catalog.BuildProduct(d, existing, s.now())
	if err != nil {
		return model.Product{}, err
	}

	other, err := s.q.GetProductBySlug(ctx, p.Slug)
	taken, err := slugTaken(err, other.Key(), p.Key())
	if err != nil {
		return model.Product{}, fmt.Errorf("checking slug: %w", err)
	}
	if taken {
		return model.Product{}, duplicateSlug("product")
	}

	if existing != nil {
		err = s.q.UpdateProduct(ctx, p)
	} else {
		err = s.q.CreateProduct(ctx, p)
	}
	if err != nil {
		return model.Product{}, fmt.Errorf("saving product: %w", err)
	}
	return p, nil
}

// UpdatePublished sets the published flag.
func (s *ProductSource) UpdatePublished(ctx context.Context, id string, published bool) error {
	return s.q.SetProductPublished(ctx, id, published, s.now())
}

// Delete removes a product.
func (s *ProductSource) Delete(ctx context.Context, id string) error {
	return s.q.DeleteProduct(ctx, id)
}

// TutorSource is the SQL data source for tutors.
type TutorSource struct {
	q   *Queries
	now func() time.Time
}

// FetchAll returns every tutor.
func (s *TutorSource) FetchAll(ctx context.Context) ([]model.Tutor, error) {
	tutors, err := s.q.ListTutors(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing tutors: %w", err)
	}
	return tutors, nil
}

// FetchByID returns one tutor.
func (s *TutorSource) FetchByID(ctx context.Context, id string) (model.Tutor, error) {
	return s.q.GetTutor(ctx, id)
}

// Save creates or updates a tutor.
func (s *TutorSource) Save(ctx context.Context, d model.TutorDraft) (model.Tutor, error) {
	var existing *model.Tutor
	if d.ID != "" {
		t, err := s.q.GetTutor(ctx, d.ID)
		if err != nil {
			return model.Tutor{}, err
		}
		existing = &t
	}

	t, err := catalog.BuildTutor(d, existing, s.now())
	if err != nil {
		return model.Tutor{}, err
	}

	other, err := s.q.GetTutorBySlug(ctx, t.Slug)
	taken, err := slugTaken(err, other.Key(), t.Key())
	if err != nil {
		return model.Tutor{}, fmt.Errorf("checking slug: %w", err)
	}
	if taken {
		return model.Tutor{}, duplicateSlug("tutor")
	}

	if existing != nil {
		err = s.q.UpdateTutor(ctx, t)
	} else {
		err = s.q.CreateTutor(ctx, t)
	}
	if err != nil {
		return model.Tutor{}, fmt.Errorf("saving tutor: %w", err)
	}
	return t, nil
}

// UpdatePublished sets the published flag.
func (s *TutorSource) UpdatePublished(ctx context.Context, id string, published bool) error {
	return s.q.SetTutorPublished(ctx, id, published, s.now())
}

// Delete removes a tutor.
func (s *TutorSource) Delete(ctx context.Context, id string) error {
	return s.q.DeleteTutor(ctx, id)
}
