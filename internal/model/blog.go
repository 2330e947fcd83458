// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"strconv"
	"time"

	"github.com/markgaal068/bigHITS/internal/util"
)

// DateLayout is the layout of Blog.Date.
const DateLayout = "2006-01-02"

// Blog is a blog post.
type Blog struct {
	ID         int64     `json:"id"`
	Title      string    `json:"title"`
	Slug       string    `json:"slug"`
	Content    string    `json:"content"`
	Excerpt    string    `json:"excerpt"`
	CoverImage string    `json:"cover_image"`
	Category   string    `json:"category"`
	Tags       []string  `json:"tags"`
	Author     string    `json:"author"`
	Date       string    `json:"date"`
	Published  bool      `json:"published"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Key returns the blog ID as a string.
func (b Blog) Key() string {
	return strconv.FormatInt(b.ID, 10)
}

// IsPublished returns true if the blog post is published.
func (b Blog) IsPublished() bool {
	return b.Published
}

// WithPublished returns a copy of b with the published flag set.
func (b Blog) WithPublished(published bool) Blog {
	b.Published = published
	return b
}

// BlogDraft holds the blog form input.
type BlogDraft struct {
	ID         string `json:"id,omitempty"`
	Title      string `json:"title" validate:"required,notblank,max=100"`
	Slug       string `json:"slug"`
	Content    string `json:"content" validate:"required,notblank"`
	Excerpt    string `json:"excerpt" validate:"required,notblank,max=200"`
	CoverImage string `json:"cover_image"`
	Category   string `json:"category" validate:"required,notblank"`
	Tags       string `json:"tags"`
	Author     string `json:"author"`
	Published  bool   `json:"published"`
}

// DraftID returns the ID of the record being edited, empty for a new one.
func (d BlogDraft) DraftID() string {
	return d.ID
}

// DraftTitle returns the field the slug derives from.
func (d BlogDraft) DraftTitle() string {
	return d.Title
}

// WithTitle sets the title and recomputes the slug from it.
func (d BlogDraft) WithTitle(title string) BlogDraft {
	d.Title = title
	d.Slug = util.Slugify(title)
	return d
}

// BlogDraftFrom converts a stored blog back into form input.
func BlogDraftFrom(b Blog) BlogDraft {
	return BlogDraft{
		ID:         b.Key(),
		Title:      b.Title,
		Slug:       b.Slug,
		Content:    b.Content,
		Excerpt:    b.Excerpt,
		CoverImage: b.CoverImage,
		Category:   b.Category,
		Tags:       JoinList(b.Tags),
		Author:     b.Author,
		Published:  b.Published,
	}
}
