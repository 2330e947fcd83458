// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"

	"github.com/markgaal068/bigHITS/internal/model"
)

const tutorColumns = `id, name, slug, bio, expertise, rate, rating, availability, calendly_link, profile_image, published, featured, created_at, updated_at`

func scanTutor(s scanner) (model.Tutor, error) {
	var t model.Tutor
	err := s.Scan(&t.ID, &t.Name, &t.Slug, &t.Bio, &t.Expertise, &t.Rate, &t.Rating, &t.Availability,
		&t.CalendlyLink, &t.ProfileImage, &t.Published, &t.Featured, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

// ListTutors returns every tutor ordered by name.
func (q *Queries) ListTutors(ctx context.Context) ([]model.Tutor, error) {
	rows, err := q.db.QueryContext(ctx, `SELECT `+tutorColumns+` FROM tutors ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var tutors []model.Tutor
	for rows.Next() {
		t, err := scanTutor(rows)
		if err != nil {
			return nil, err
		}
		tutors = append(tutors, t)
	}
	return tutors, rows.Err()
}

// GetTutor returns the tutor with the given ID.
func (q *Queries) GetTutor(ctx context.Context, id string) (model.Tutor, error) {
	t, err := scanTutor(q.db.QueryRowContext(ctx, `SELECT `+tutorColumns+` FROM tutors WHERE id = ?`, id))
	return t, notFound(err)
}

// GetTutorBySlug returns the tutor with the given slug.
func (q *Queries) GetTutorBySlug(ctx context.Context, slug string) (model.Tutor, error) {
	t, err := scanTutor(q.db.QueryRowContext(ctx, `SELECT `+tutorColumns+` FROM tutors WHERE slug = ?`, slug))
	return t, notFound(err)
}

// CreateTutor inserts a tutor.
func (q *Queries) CreateTutor(ctx context.Context, t model.Tutor) error {
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO tutors (id, name, slug, bio, expertise, rate, rating, availability, calendly_link, profile_image, published, featured, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Name, t.Slug, t.Bio, t.Expertise, t.Rate, t.Rating, t.Availability,
		t.CalendlyLink, t.ProfileImage, t.Published, t.Featured, t.CreatedAt, t.UpdatedAt)
	return err
}

// UpdateTutor overwrites the editable columns of a tutor.
func (q *Queries) UpdateTutor(ctx context.Context, t model.Tutor) error {
	res, err := q.db.ExecContext(ctx,
		`UPDATE tutors SET name = ?, slug = ?, bio = ?, expertise = ?, rate = ?, availability = ?,
		 calendly_link = ?, profile_image = ?, published = ?, featured = ?, updated_at = ? WHERE id = ?`,
		t.Name, t.Slug, t.Bio, t.Expertise, t.Rate, t.Availability,
		t.CalendlyLink, t.ProfileImage, t.Published, t.Featured, t.UpdatedAt, t.ID)
	if err != nil {
		return err
	}
	return affected(res)
}

// SetTutorPublished sets the published flag.
func (q *Queries) SetTutorPublished(ctx context.Context, id string, published bool, at time.Time) error {
	res, err := q.db.ExecContext(ctx, `UPDATE tutors SET published = ?, updated_at = ? WHERE id = ?`, published, at, id)
	if err != nil {
		return err
	}
	return affected(res)
}

// DeleteTutor removes a tutor.
func (q *Queries) DeleteTutor(ctx context.Context, id string) error {
	res, err := q.db.ExecContext(ctx, `DELETE FROM tutors WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return affected(res)
}

// CountTutors returns the number of tutors.
func (q *Queries) CountTutors(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tutors`).Scan(&n)
	return n, err
}
