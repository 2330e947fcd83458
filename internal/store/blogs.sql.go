// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"

	"github.com/markgaal068/bigHITS/internal/model"
)

const blogColumns = `id, title, slug, content, excerpt, cover_image, category, tags, author, date, published, created_at, updated_at`

func scanBlog(s scanner) (model.Blog, error) {
	var (
		b    model.Blog
		tags string
	)
	err := s.Scan(&b.ID, &b.Title, &b.Slug, &b.Content, &b.Excerpt, &b.CoverImage, &b.Category,
		&tags, &b.Author, &b.Date, &b.Published, &b.CreatedAt, &b.UpdatedAt)
	b.Tags = decodeTags(tags)
	return b, err
}

// ListBlogs returns every blog, newest first.
func (q *Queries) ListBlogs(ctx context.Context) ([]model.Blog, error) {
	rows, err := q.db.QueryContext(ctx, `SELECT `+blogColumns+` FROM blogs ORDER BY date DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var blogs []model.Blog
	for rows.Next() {
		b, err := scanBlog(rows)
		if err != nil {
			return nil, err
		}
		blogs = append(blogs, b)
	}
	return blogs, rows.Err()
}

// GetBlog returns the blog with the given ID.
func (q *Queries) GetBlog(ctx context.Context, id int64) (model.Blog, error) {
	b, err := scanBlog(q.db.QueryRowContext(ctx, `SELECT `+blogColumns+` FROM blogs WHERE id = ?`, id))
	return b, notFound(err)
}

// GetBlogBySlug returns the blog with the given slug.
func (q *Queries) GetBlogBySlug(ctx context.Context, slug string) (model.Blog, error) {
	b, err := scanBlog(q.db.QueryRowContext(ctx, `SELECT `+blogColumns+` FROM blogs WHERE slug = ?`, slug))
	return b, notFound(err)
}

// CreateBlog inserts a blog and returns it with its new ID.
func (q *Queries) CreateBlog(ctx context.Context, b model.Blog) (model.Blog, error) {
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO blogs (title, slug, content, excerpt, cover_image, category, tags, author, date, published, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.Title, b.Slug, b.Content, b.Excerpt, b.CoverImage, b.Category, encodeTags(b.Tags),
		b.Author, b.Date, b.Published, b.CreatedAt, b.UpdatedAt)
	if err != nil {
		return model.Blog{}, err
	}
	if b.ID, err = res.LastInsertId(); err != nil {
		return model.Blog{}, err
	}
	return b, nil
}

// UpdateBlog overwrites the editable columns of a blog.
func (q *Queries) UpdateBlog(ctx context.Context, b model.Blog) error {
	res, err := q.db.ExecContext(ctx,
		`UPDATE blogs SET title = ?, slug = ?, content = ?, excerpt = ?, cover_image = ?, category = ?,
		 tags = ?, author = ?, published = ?, updated_at = ? WHERE id = ?`,
		b.Title, b.Slug, b.Content, b.Excerpt, b.CoverImage, b.Category,
		encodeTags(b.Tags), b.Author, b.Published, b.UpdatedAt, b.ID)
	if err != nil {
		return err
	}
	return affected(res)
}

// SetBlogPublished sets the published flag.
func (q *Queries) SetBlogPublished(ctx context.Context, id int64, published bool, at time.Time) error {
	res, err := q.db.ExecContext(ctx, `UPDATE blogs SET published = ?, updated_at = ? WHERE id = ?`, published, at, id)
	if err != nil {
		return err
	}
	return affected(res)
}

// DeleteBlog removes a blog.
func (q *Queries) DeleteBlog(ctx context.Context, id int64) error {
	res, err := q.db.ExecContext(ctx, `DELETE FROM blogs WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return affected(res)
}

// CountBlogs returns the number of blogs.
func (q *Queries) CountBlogs(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM blogs`).Scan(&n)
	return n, err
}
