// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package collection

import (
	"context"
	"slices"
	"sync"
	"time"
)

// MemoryConfig configures a MemorySource.
type MemoryConfig[T, D any] struct {
	Noun string
	// Latency is added to every call to imitate a remote store.
	Latency time.Duration
	// Build turns a draft into a record. existing is nil for a create.
	Build func(draft D, existing *T) (T, error)
	// Slug returns the URL slug of a record; used to keep slugs unique.
	Slug func(T) string
}

// MemorySource is an in-process DataSource holding records in a slice.
type MemorySource[T Record[T], D Draft[D]] struct {
	cfg MemoryConfig[T, D]

	mu      sync.RWMutex
	records []T
}

// NewMemorySource creates a source seeded with a copy of records.
func NewMemorySource[T Record[T], D Draft[D]](cfg MemoryConfig[T, D], records []T) *MemorySource[T, D] {
	return &MemorySource[T, D]{cfg: cfg, records: slices.Clone(records)}
}

func (s *MemorySource[T, D]) wait(ctx context.Context) error {
	if s.cfg.Latency <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(s.cfg.Latency)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// FetchAll returns a copy of all records.
func (s *MemorySource[T, D]) FetchAll(ctx context.Context) ([]T, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.records), nil
}

// FetchByID returns one record or ErrNotFound.
func (s *MemorySource[T, D]) FetchByID(ctx context.Context, id string) (T, error) {
	var zero T
	if err := s.wait(ctx); err != nil {
		return zero, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexOf(id); i >= 0 {
		return s.records[i], nil
	}
	return zero, ErrNotFound
}

// Save creates or updates a record from a draft.
func (s *MemorySource[T, D]) Save(ctx context.Context, draft D) (T, error) {
	var zero T
	if err := s.wait(ctx); err != nil {
		return zero, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var existing *T
	i := -1
	if id := draft.DraftID(); id != "" {
		if i = s.indexOf(id); i < 0 {
			return zero, ErrNotFound
		}
		existing = &s.records[i]
	}

	rec, err := s.cfg.Build(draft, existing)
	if err != nil {
		return zero, err
	}
	if s.cfg.Slug != nil {
		for _, other := range s.records {
			if other.Key() != rec.Key() && s.cfg.Slug(other) == s.cfg.Slug(rec) {
				return zero, NewValidationError("A " + s.cfg.Noun + " with this slug already exists")
			}
		}
	}

	if i >= 0 {
		s.records[i] = rec
	} else {
		s.records = append(s.records, rec)
	}
	return rec, nil
}

// UpdatePublished sets the published flag of a record.
func (s *MemorySource[T, D]) UpdatePublished(ctx context.Context, id string, published bool) error {
	if err := s.wait(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return ErrNotFound
	}
	s.records[i] = s.records[i].WithPublished(published)
	return nil
}

// Delete removes a record.
func (s *MemorySource[T, D]) Delete(ctx context.Context, id string) error {
	if err := s.wait(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return ErrNotFound
	}
	s.records = slices.Delete(s.records, i, i+1)
	return nil
}

func (s *MemorySource[T, D]) indexOf(id string) int {
	return slices.IndexFunc(s.records, func(r T) bool { return r.Key() == id })
}
