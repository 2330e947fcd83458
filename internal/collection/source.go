// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package collection

import "context"

// Record is a listable record. WithPublished must return a modified copy.
type Record[T any] interface {
	Key() string
	IsPublished() bool
	WithPublished(published bool) T
}

// Draft is the editable form state of a record. WithTitle sets the
// title (or name) and recomputes the derived slug.
type Draft[D any] interface {
	DraftID() string
	DraftTitle() string
	WithTitle(title string) D
}

// Lister reads records.
type Lister[T any] interface {
	FetchAll(ctx context.Context) ([]T, error)
	FetchByID(ctx context.Context, id string) (T, error)
}

// Saver creates a record (empty draft ID) or updates one.
type Saver[T, D any] interface {
	Save(ctx context.Context, draft D) (T, error)
}

// Mutator applies row-level changes.
type Mutator interface {
	UpdatePublished(ctx context.Context, id string, published bool) error
	Delete(ctx context.Context, id string) error
}

// ListSource is what a Controller needs.
type ListSource[T any] interface {
	Lister[T]
	Mutator
}

// DataSource is the complete per-type data source.
type DataSource[T, D any] interface {
	Lister[T]
	Saver[T, D]
	Mutator
}

// Confirmer asks the viewer a yes/no question.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(prompt string) bool

// Confirm calls f(prompt).
func (f ConfirmFunc) Confirm(prompt string) bool {
	return f(prompt)
}

// Answer is a Confirmer with a fixed reply.
type Answer bool

// Confirm returns the fixed answer.
func (a Answer) Confirm(string) bool {
	return bool(a)
}

// Navigator performs post-action navigation.
type Navigator interface {
	Push(path string)
}
