// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package catalog

import (
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/markgaal068/bigHITS/internal/model"
	"github.com/markgaal068/bigHITS/internal/util"
)

// BuildBlog validates a draft and converts it into a blog. existing is nil
// when creating; the caller assigns the ID of a new blog.
func BuildBlog(d model.BlogDraft, existing *model.Blog, now time.Time) (model.Blog, error) {
	if err := ValidateBlog(d); err != nil {
		return model.Blog{}, err
	}
	b := model.Blog{
		Title:      strings.TrimSpace(d.Title),
		Slug:       util.NormalizeSlug(d.Slug, d.Title),
		Content:    d.Content,
		Excerpt:    strings.TrimSpace(d.Excerpt),
		CoverImage: strings.TrimSpace(d.CoverImage),
		Category:   strings.TrimSpace(d.Category),
		Tags:       model.SplitList(d.Tags),
		Author:     strings.TrimSpace(d.Author),
		Published:  d.Published,
		UpdatedAt:  now,
	}
	if existing != nil {
		b.ID = existing.ID
		b.Date = existing.Date
		b.CreatedAt = existing.CreatedAt
		if b.Author == "" {
			b.Author = existing.Author
		}
	} else {
		b.Date = now.Format(model.DateLayout)
		b.CreatedAt = now
	}
	return b, nil
}

// BuildProduct validates a draft and converts it into a product. New
// products get a random UUID.
func BuildProduct(d model.ProductDraft, existing *model.Product, now time.Time) (model.Product, error) {
	if err := ValidateProduct(d); err != nil {
		return model.Product{}, err
	}
	price, _ := parseFinite(d.Price)
	stock, _ := strconv.ParseInt(strings.TrimSpace(d.Stock), 10, 64)
	p := model.Product{
		Name:             strings.TrimSpace(d.Name),
		Slug:             util.NormalizeSlug(d.Slug, d.Name),
		Description:      d.Description,
		ShortDescription: strings.TrimSpace(d.ShortDescription),
		Price:            price,
		Category:         strings.TrimSpace(d.Category),
		Stock:            stock,
		SKU:              strings.TrimSpace(d.SKU),
		Published:        d.Published,
		Featured:         d.Featured,
		UpdatedAt:        now,
	}
	if sale, ok := parseFinite(d.SalePrice); ok {
		p.SalePrice = &sale
	}
	if existing != nil {
		p.ID = existing.ID
		p.CreatedAt = existing.CreatedAt
	} else {
		p.ID = uuid.NewString()
		p.CreatedAt = now
	}
	return p, nil
}

// BuildTutor validates a draft and converts it into a tutor. The rating is
// not editable and carries over from the stored record.
func BuildTutor(d model.TutorDraft, existing *model.Tutor, now time.Time) (model.Tutor, error) {
	if err := ValidateTutor(d); err != nil {
		return model.Tutor{}, err
	}
	rate, _ := parseFinite(d.Rate)
	t := model.Tutor{
		Name:         strings.TrimSpace(d.Name),
		Slug:         util.NormalizeSlug(d.Slug, d.Name),
		Bio:          d.Bio,
		Expertise:    strings.TrimSpace(d.Expertise),
		Rate:         rate,
		Availability: model.JoinList(orderDays(d.Availability)),
		CalendlyLink: strings.TrimSpace(d.CalendlyLink),
		ProfileImage: strings.TrimSpace(d.ProfileImage),
		Published:    d.Published,
		Featured:     d.Featured,
		UpdatedAt:    now,
	}
	if existing != nil {
		t.ID = existing.ID
		t.Rating = existing.Rating
		t.CreatedAt = existing.CreatedAt
	} else {
		t.ID = uuid.NewString()
		t.CreatedAt = now
	}
	return t, nil
}

// orderDays keeps known weekdays in calendar order and drops duplicates and
// unknown values.
func orderDays(days []string) []string {
	var out []string
	for _, wd := range model.Weekdays {
		if slices.ContainsFunc(days, func(d string) bool { return strings.EqualFold(strings.TrimSpace(d), wd) }) {
			out = append(out, wd)
		}
	}
	return out
}
