// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/markgaal068/bigHITS/internal/model"
)

const productColumns = `id, name, slug, description, short_description, price, sale_price, category, stock, sku, published, featured, created_at, updated_at`

func scanProduct(s scanner) (model.Product, error) {
	var (
		p    model.Product
		sale sql.NullFloat64
	)
	err := s.Scan(&p.ID, &p.Name, &p.Slug, &p.Description, &p.ShortDescription, &p.Price, &sale,
		&p.Category, &p.Stock, &p.SKU, &p.Published, &p.Featured, &p.CreatedAt, &p.UpdatedAt)
	if sale.Valid {
		p.SalePrice = &sale.Float64
	}
	return p, err
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

// ListProducts returns every product ordered by name.
func (q *Queries) ListProducts(ctx context.Context) ([]model.Product, error) {
	rows, err := q.db.QueryContext(ctx, `SELECT `+productColumns+` FROM products ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var products []model.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// GetProduct returns the product with the given ID.
func (q *Queries) GetProduct(ctx context.Context, id string) (model.Product, error) {
	p, err := scanProduct(q.db.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE id = ?`, id))
	return p, notFound(err)
}

// GetProductBySlug returns the product with the given slug.
func (q *Queries) GetProductBySlug(ctx context.Context, slug string) (model.Product, error) {
	p, err := scanProduct(q.db.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE slug = ?`, slug))
	return p, notFound(err)
}

// CreateProduct inserts a product.
func (q *Queries) CreateProduct(ctx context.Context, p model.Product) error {
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO products (id, name, slug, description, short_description, price, sale_price, category, stock, sku, published, featured, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.Slug, p.Description, p.ShortDescription, p.Price, nullFloat(p.SalePrice),
		p.Category, p.Stock, p.SKU, p.Published, p.Featured, p.CreatedAt, p.UpdatedAt)
	return err
}

// UpdateProduct overwrites the editable columns of a product.
func (q *Queries) UpdateProduct(ctx context.Context, p model.Product) error {
	res, err := q.db.ExecContext(ctx,
		`UPDATE products SET name = ?, slug = ?, description = ?, short_description = ?, price = ?, sale_price = ?,
		 category = ?, stock = ?, sku = ?, published = ?, featured = ?, updated_at = ? WHERE id = ?`,
		p.Name, p.Slug, p.Description, p.ShortDescription, p.Price, nullFloat(p.SalePrice),
		p.Category, p.Stock, p.SKU, p.Published, p.Featured, p.UpdatedAt, p.ID)
	if err != nil {
		return err
	}
	return affected(res)
}

// SetProductPublished sets the published flag.
func (q *Queries) SetProductPublished(ctx context.Context, id string, published bool, at time.Time) error {
	res, err := q.db.ExecContext(ctx, `UPDATE products SET published = ?, updated_at = ? WHERE id = ?`, published, at, id)
	if err != nil {
		return err
	}
	return affected(res)
}

// DeleteProduct removes a product.
func (q *Queries) DeleteProduct(ctx context.Context, id string) error {
	res, err := q.db.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return affected(res)
}

// CountProducts returns the number of products.
func (q *Queries) CountProducts(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&n)
	return n, err
}
