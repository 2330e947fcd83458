// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package collection

import (
	"cmp"
	"slices"
	"strings"

	"golang.org/x/text/cases"
)

// Direction is a sort direction.
type Direction string

// Sort directions.
const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Flip returns the opposite direction.
func (d Direction) Flip() Direction {
	if d == Desc {
		return Asc
	}
	return Desc
}

// ParseDirection parses "asc" or "desc"; anything else is ascending.
func ParseDirection(s string) Direction {
	if strings.EqualFold(s, string(Desc)) {
		return Desc
	}
	return Asc
}

// SortSpec is the active sort of a view.
type SortSpec struct {
	Field     string    `json:"field"`
	Direction Direction `json:"direction"`
}

// Next returns the sort spec that results from choosing field: the same field
// flips the direction, a new field sorts ascending.
func (s SortSpec) Next(field string) SortSpec {
	if field == s.Field {
		return SortSpec{Field: field, Direction: s.Direction.Flip()}
	}
	return SortSpec{Field: field, Direction: Asc}
}

// Filter returns the records for which term is a case-insensitive substring
// of any searchable field. An empty term keeps everything. The result is a
// new slice in the original order.
func Filter[T any](schema Schema[T], records []T, term string) []T {
	if term == "" {
		return slices.Clone(records)
	}
	// Casers keep state and are created per call.
	fold := cases.Fold()
	needle := fold.String(term)
	fields := schema.Searchable()

	out := make([]T, 0, len(records))
	for _, rec := range records {
		for _, f := range fields {
			if strings.Contains(fold.String(f.Text(rec)), needle) {
				out = append(out, rec)
				break
			}
		}
	}
	return out
}

// Sort returns a stably sorted copy of records. Numbers compare numerically,
// other kinds compare as case-sensitive strings. Unknown fields leave the
// order unchanged.
func Sort[T any](schema Schema[T], records []T, spec SortSpec) []T {
	out := slices.Clone(records)
	f, ok := schema.Field(spec.Field)
	if !ok {
		return out
	}

	var compare func(a, b T) int
	if f.Kind == KindNumber {
		compare = func(a, b T) int { return cmp.Compare(f.Number(a), f.Number(b)) }
	} else {
		compare = func(a, b T) int { return strings.Compare(f.Text(a), f.Text(b)) }
	}
	if spec.Direction == Desc {
		asc := compare
		compare = func(a, b T) int { return -asc(a, b) }
	}

	slices.SortStableFunc(out, compare)
	return out
}

// Apply filters and then sorts.
func Apply[T any](schema Schema[T], records []T, term string, spec SortSpec) []T {
	return Sort(schema, Filter(schema, records, term), spec)
}
