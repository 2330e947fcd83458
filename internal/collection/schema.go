// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package collection implements the admin list controller shared by every
// record type: loading, filtering, sorting and optimistic row mutations,
// plus the create/edit form that feeds it.
package collection

import (
	"strconv"
)

// FieldKind determines how a field is compared and matched.
type FieldKind int

// Field kinds.
const (
	KindString FieldKind = iota
	KindNumber
	KindBool
)

// Field describes one record field. Exactly one accessor matching Kind must
// be set.
type Field[T any] struct {
	Name       string
	Label      string
	Kind       FieldKind
	Searchable bool
	Sortable   bool

	String func(T) string
	Number func(T) float64
	Bool   func(T) bool
}

// Text returns the field value as matched by the filter. Numbers use their
// shortest decimal representation.
func (f Field[T]) Text(rec T) string {
	switch f.Kind {
	case KindNumber:
		return strconv.FormatFloat(f.Number(rec), 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(f.Bool(rec))
	default:
		return f.String(rec)
	}
}

// Schema declares the fields of a record type.
type Schema[T any] struct {
	Kind        string // route segment, e.g. "blogs"
	Noun        string // singular, e.g. "blog"
	Fields      []Field[T]
	DefaultSort SortSpec
}

// Field looks up a field by name.
func (s Schema[T]) Field(name string) (Field[T], bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field[T]{}, false
}

// Searchable returns the fields the filter matches against.
func (s Schema[T]) Searchable() []Field[T] {
	var out []Field[T]
	for _, f := range s.Fields {
		if f.Searchable {
			out = append(out, f)
		}
	}
	return out
}

// Sortable returns the fields that can be sorted on, in declaration order.
func (s Schema[T]) Sortable() []Field[T] {
	var out []Field[T]
	for _, f := range s.Fields {
		if f.Sortable {
			out = append(out, f)
		}
	}
	return out
}

// CanSort reports whether name is a sortable field.
func (s Schema[T]) CanSort(name string) bool {
	f, ok := s.Field(name)
	return ok && f.Sortable
}
