// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"strconv"
	"time"

	"github.com/markgaal068/bigHITS/internal/util"
)

// Product is a shop item.
type Product struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Slug             string    `json:"slug"`
	Description      string    `json:"description"`
	ShortDescription string    `json:"short_description"`
	Price            float64   `json:"price"`
	SalePrice        *float64  `json:"sale_price,omitempty"`
	Category         string    `json:"category"`
	Stock            int64     `json:"stock"`
	SKU              string    `json:"sku"`
	Published        bool      `json:"published"`
	Featured         bool      `json:"featured"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Key returns the product ID.
func (p Product) Key() string {
	return p.ID
}

// IsPublished returns true if the product is visible in the shop.
func (p Product) IsPublished() bool {
	return p.Published
}

// WithPublished returns a copy of p with the published flag set.
func (p Product) WithPublished(published bool) Product {
	p.Published = published
	return p
}

// ProductDraft holds the product form input. Numeric fields stay strings
// until validation parses them.
type ProductDraft struct {
	ID               string `json:"id,omitempty"`
	Name             string `json:"name" validate:"required,notblank,max=100"`
	Slug             string `json:"slug"`
	Description      string `json:"description" validate:"required,notblank"`
	ShortDescription string `json:"short_description" validate:"required,notblank,max=200"`
	Price            string `json:"price" validate:"required,notblank,positive_number"`
	SalePrice        string `json:"sale_price" validate:"omitempty,positive_number"`
	Category         string `json:"category" validate:"required,notblank"`
	Stock            string `json:"stock" validate:"required,notblank,non_negative_int"`
	SKU              string `json:"sku"`
	Published        bool   `json:"published"`
	Featured         bool   `json:"featured"`
}

// DraftID returns the ID of the record being edited, empty for a new one.
func (d ProductDraft) DraftID() string {
	return d.ID
}

// DraftTitle returns the field the slug derives from.
func (d ProductDraft) DraftTitle() string {
	return d.Name
}

// WithTitle sets the name and recomputes the slug from it.
func (d ProductDraft) WithTitle(name string) ProductDraft {
	d.Name = name
	d.Slug = util.Slugify(name)
	return d
}

// ProductDraftFrom converts a stored product back into form input.
func ProductDraftFrom(p Product) ProductDraft {
	d := ProductDraft{
		ID:               p.ID,
		Name:             p.Name,
		Slug:             p.Slug,
		Description:      p.Description,
		ShortDescription: p.ShortDescription,
		Price:            strconv.FormatFloat(p.Price, 'f', -1, 64),
		Category:         p.Category,
		Stock:            strconv.FormatInt(p.Stock, 10),
		SKU:              p.SKU,
		Published:        p.Published,
		Featured:         p.Featured,
	}
	if p.SalePrice != nil {
		d.SalePrice = strconv.FormatFloat(*p.SalePrice, 'f', -1, 64)
	}
	return d
}
