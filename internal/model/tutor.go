// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"strconv"
	"strings"
	"time"

	"github.com/markgaal068/bigHITS/internal/util"
)

// Weekdays lists the availability options in display order.
var Weekdays = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// Tutor is a tutoring marketplace listing.
type Tutor struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Slug         string    `json:"slug"`
	Bio          string    `json:"bio"`
	Expertise    string    `json:"expertise"`
	Rate         float64   `json:"rate"`
	Rating       float64   `json:"rating"`
	Availability string    `json:"availability"`
	CalendlyLink string    `json:"calendly_link"`
	ProfileImage string    `json:"profile_image"`
	Published    bool      `json:"published"`
	Featured     bool      `json:"featured"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Key returns the tutor ID.
func (t Tutor) Key() string {
	return t.ID
}

// IsPublished returns true if the tutor is listed publicly.
func (t Tutor) IsPublished() bool {
	return t.Published
}

// WithPublished returns a copy of t with the published flag set.
func (t Tutor) WithPublished(published bool) Tutor {
	t.Published = published
	return t
}

// TutorDraft holds the tutor form input.
type TutorDraft struct {
	ID           string   `json:"id,omitempty"`
	Name         string   `json:"name" validate:"required,notblank,max=100"`
	Slug         string   `json:"slug"`
	Bio          string   `json:"bio" validate:"required,notblank"`
	Expertise    string   `json:"expertise" validate:"required,notblank"`
	Rate         string   `json:"rate" validate:"required,notblank,positive_number"`
	Availability []string `json:"availability"`
	CalendlyLink string   `json:"calendly_link" validate:"omitempty,calendly"`
	ProfileImage string   `json:"profile_image"`
	Published    bool     `json:"published"`
	Featured     bool     `json:"featured"`
}

// DraftID returns the ID of the record being edited, empty for a new one.
func (d TutorDraft) DraftID() string {
	return d.ID
}

// DraftTitle returns the field the slug derives from.
func (d TutorDraft) DraftTitle() string {
	return d.Name
}

// WithTitle sets the name and recomputes the slug from it.
func (d TutorDraft) WithTitle(name string) TutorDraft {
	d.Name = name
	d.Slug = util.Slugify(name)
	return d
}

// TutorDraftFrom converts a stored tutor back into form input.
func TutorDraftFrom(t Tutor) TutorDraft {
	return TutorDraft{
		ID:           t.ID,
		Name:         t.Name,
		Slug:         t.Slug,
		Bio:          t.Bio,
		Expertise:    t.Expertise,
		Rate:         strconv.FormatFloat(t.Rate, 'f', -1, 64),
		Availability: SplitList(t.Availability),
		CalendlyLink: t.CalendlyLink,
		ProfileImage: t.ProfileImage,
		Published:    t.Published,
		Featured:     t.Featured,
	}
}

// SplitList splits a comma separated list, trimming blanks.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// JoinList joins items with ", ".
func JoinList(items []string) string {
	return strings.Join(items, ", ")
}
