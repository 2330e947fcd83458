// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package collection

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

// FormSource is what a Form needs from the data source.
type FormSource[T, D any] interface {
	FetchByID(ctx context.Context, id string) (T, error)
	Saver[T, D]
}

// FormConfig describes a record type's form.
type FormConfig[T, D any] struct {
	Noun       string
	ListPath   string
	Validate   func(D) error
	FromRecord func(T) D
}

// Form holds the state of a create or edit form.
type Form[T Record[T], D Draft[D]] struct {
	cfg    FormConfig[T, D]
	source FormSource[T, D]
	nav    Navigator

	mu      sync.Mutex
	draft   D
	pending bool
	err     string
	saved   *T
}

// NewForm creates a form starting from initial.
func NewForm[T Record[T], D Draft[D]](cfg FormConfig[T, D], source FormSource[T, D], nav Navigator, initial D) *Form[T, D] {
	return &Form[T, D]{
		cfg:    cfg,
		source: source,
		nav:    nav,
		draft:  initial,
	}
}

// Load replaces the draft with the stored record for editing.
func (f *Form[T, D]) Load(ctx context.Context, id string) error {
	rec, err := f.source.FetchByID(ctx, id)
	if err != nil {
		dsErr := &DataSourceError{Op: "load", Noun: f.cfg.Noun, Err: err}
		f.mu.Lock()
		f.err = dsErr.Message()
		f.mu.Unlock()
		return dsErr
	}
	f.mu.Lock()
	f.draft = f.cfg.FromRecord(rec)
	f.err = ""
	f.mu.Unlock()
	return nil
}

// Draft returns the current draft.
func (f *Form[T, D]) Draft() D {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.draft
}

// Edit replaces the draft. When the title changed, the slug is derived from
// the new title and any manual slug in next is discarded.
func (f *Form[T, D]) Edit(next D) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if next.DraftTitle() != f.draft.DraftTitle() {
		next = next.WithTitle(next.DraftTitle())
	}
	f.draft = next
}

// Pending reports whether a submit is in flight.
func (f *Form[T, D]) Pending() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pending
}

// Error returns the form-level message of the last failed submit or load.
func (f *Form[T, D]) Error() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

// Submit validates and saves the draft, then navigates to the list.
// Invalid drafts never reach the data source.
func (f *Form[T, D]) Submit(ctx context.Context) (T, error) {
	var zero T

	f.mu.Lock()
	if f.pending {
		f.mu.Unlock()
		return zero, ErrMutationPending
	}
	draft := f.draft
	if f.cfg.Validate != nil {
		if err := f.cfg.Validate(draft); err != nil {
			f.err = UserMessage(err)
			f.mu.Unlock()
			return zero, err
		}
	}
	f.pending = true
	f.err = ""
	f.mu.Unlock()

	rec, err := f.source.Save(ctx, draft)

	f.mu.Lock()
	f.pending = false
	if err != nil {
		// Validation performed by the source itself (e.g. duplicate slug)
		// is reported as is.
		var verr *ValidationError
		if !errors.As(err, &verr) {
			err = &DataSourceError{Op: "save", Noun: f.cfg.Noun, Err: err}
			slog.Error("failed to save record", "noun", f.cfg.Noun, "id", draft.DraftID(), "error", err)
		}
		f.err = UserMessage(err)
		f.mu.Unlock()
		return zero, err
	}
	f.saved = &rec
	f.draft = f.cfg.FromRecord(rec)
	f.mu.Unlock()

	f.nav.Push(f.cfg.ListPath)
	return rec, nil
}

// Saved returns the last successfully saved record.
func (f *Form[T, D]) Saved() (T, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saved == nil {
		var zero T
		return zero, false
	}
	return *f.saved, true
}
