// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package collection

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"
	"time"
)

// State is the lifecycle state of a Controller.
type State string

// Controller states.
const (
	StateIdle     State = "idle"
	StateLoading  State = "loading"
	StateReady    State = "ready"
	StateMutating State = "mutating"
	StateError    State = "error"
)

// Controller owns the working collection of one mounted list view.
// All methods are safe for concurrent use; data source calls are made
// without holding the lock.
type Controller[T Record[T]] struct {
	schema Schema[T]
	source ListSource[T]
	now    func() time.Time

	mu      sync.Mutex
	state   State
	loadErr string
	records []T
	term    string
	sort    SortSpec
	banner  string
	pending map[string]uint64 // record ID -> command seq
	history *history
}

// NewController creates an idle controller.
func NewController[T Record[T]](schema Schema[T], source ListSource[T]) *Controller[T] {
	return &Controller[T]{
		schema:  schema,
		source:  source,
		now:     time.Now,
		state:   StateIdle,
		sort:    schema.DefaultSort,
		pending: make(map[string]uint64),
		history: newHistory(defaultHistorySize),
	}
}

// Schema returns the controller's schema.
func (c *Controller[T]) Schema() Schema[T] {
	return c.schema
}

// Load fetches the collection and replaces the working copy. It is used for
// the first load and for retry after an error. A Load while another is in
// flight returns immediately; a Load while mutations are pending fails with
// ErrMutationPending.
func (c *Controller[T]) Load(ctx context.Context) error {
	c.mu.Lock()
	switch {
	case c.state == StateLoading:
		c.mu.Unlock()
		return nil
	case len(c.pending) > 0:
		c.mu.Unlock()
		return ErrMutationPending
	}
	c.state = StateLoading
	c.loadErr = ""
	c.mu.Unlock()

	records, err := c.source.FetchAll(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		dsErr := &DataSourceError{Op: "load", Noun: c.schema.Kind, Err: err}
		c.state = StateError
		c.loadErr = dsErr.Message()
		slog.Error("failed to load collection", "kind", c.schema.Kind, "error", err)
		return dsErr
	}
	c.records = slices.Clone(records)
	c.state = StateReady
	return nil
}

// EnsureLoaded loads the collection unless it is already loading or loaded.
func (c *Controller[T]) EnsureLoaded(ctx context.Context) error {
	c.mu.Lock()
	idle := c.state == StateIdle
	c.mu.Unlock()
	if !idle {
		return nil
	}
	return c.Load(ctx)
}

// State returns the current lifecycle state.
func (c *Controller[T]) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// LoadError returns the message of the last failed load.
func (c *Controller[T]) LoadError() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loadErr
}

// SetSearchTerm replaces the filter term.
func (c *Controller[T]) SetSearchTerm(term string) {
	c.mu.Lock()
	c.term = term
	c.mu.Unlock()
}

// SearchTerm returns the filter term.
func (c *Controller[T]) SearchTerm() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.term
}

// SetSort selects a sort field. Choosing the active field flips the
// direction; a new field sorts ascending.
func (c *Controller[T]) SetSort(field string) error {
	if !c.schema.CanSort(field) {
		return ErrUnknownField
	}
	c.mu.Lock()
	c.sort = c.sort.Next(field)
	c.mu.Unlock()
	return nil
}

// SetSortSpec replaces the sort outright.
func (c *Controller[T]) SetSortSpec(spec SortSpec) error {
	if !c.schema.CanSort(spec.Field) {
		return ErrUnknownField
	}
	if spec.Direction != Desc {
		spec.Direction = Asc
	}
	c.mu.Lock()
	c.sort = spec
	c.mu.Unlock()
	return nil
}

// Sort returns the active sort.
func (c *Controller[T]) Sort() SortSpec {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sort
}

// NextSort returns the sort SetSort(field) would produce.
func (c *Controller[T]) NextSort(field string) SortSpec {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sort.Next(field)
}

// View returns the filtered and sorted records.
func (c *Controller[T]) View() []T {
	c.mu.Lock()
	records, term, spec := c.records, c.term, c.sort
	c.mu.Unlock()
	// records is never modified in place, so it can be read unlocked.
	return Apply(c.schema, records, term, spec)
}

// Records returns a copy of the unfiltered working collection.
func (c *Controller[T]) Records() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.records)
}

// Get returns the record with the given ID from the working collection.
func (c *Controller[T]) Get(id string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i := c.indexOf(id); i >= 0 {
		return c.records[i], true
	}
	var zero T
	return zero, false
}

// IsPending reports whether a mutation for id is in flight.
func (c *Controller[T]) IsPending(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.pending[id]
	return ok
}

// Banner returns the dismissible error message, if any.
func (c *Controller[T]) Banner() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.banner
}

// DismissBanner clears the error message.
func (c *Controller[T]) DismissBanner() {
	c.mu.Lock()
	c.banner = ""
	c.mu.Unlock()
}

// History returns the recorded commands, oldest first.
func (c *Controller[T]) History() []Command {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.history.snapshot()
}

// TogglePublished flips the published flag of a record before the data
// source confirms it. A rejection restores the previous value and sets the
// banner. It returns the record as it stands after settlement.
func (c *Controller[T]) TogglePublished(ctx context.Context, id string) (T, error) {
	var zero T

	c.mu.Lock()
	if err := c.checkMutable(id); err != nil {
		c.mu.Unlock()
		return zero, err
	}
	i := c.indexOf(id)
	target := !c.records[i].IsPublished()
	c.replace(i, c.records[i].WithPublished(target))
	seq := c.begin(CommandToggle, id, target)
	c.mu.Unlock()

	err := c.source.UpdatePublished(ctx, id, target)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.finish(id, seq, err)

	// The pending flag keeps the record in place until settlement.
	i = c.indexOf(id)
	if err != nil {
		c.replace(i, c.records[i].WithPublished(!target))
		return c.records[i], c.reject("update", id, err)
	}
	return c.records[i], nil
}

// Remove deletes a record after the confirmer agrees. The record leaves the
// working collection only once the data source confirms the delete.
func (c *Controller[T]) Remove(ctx context.Context, id string, confirmer Confirmer) error {
	c.mu.Lock()
	err := c.checkMutable(id)
	c.mu.Unlock()
	if err != nil {
		return err
	}

	if !confirmer.Confirm(c.DeletePrompt()) {
		return ErrCancelled
	}

	c.mu.Lock()
	if err := c.checkMutable(id); err != nil {
		c.mu.Unlock()
		return err
	}
	seq := c.begin(CommandDelete, id, false)
	c.mu.Unlock()

	err = c.source.Delete(ctx, id)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.finish(id, seq, err)
	if err != nil {
		return c.reject("delete", id, err)
	}
	if i := c.indexOf(id); i >= 0 {
		records := make([]T, 0, len(c.records)-1)
		records = append(records, c.records[:i]...)
		c.records = append(records, c.records[i+1:]...)
	}
	return nil
}

// DeletePrompt is the question asked before a delete.
func (c *Controller[T]) DeletePrompt() string {
	return "Are you sure you want to delete this " + c.schema.Noun + "?"
}

// Upsert puts a saved record into the working collection, replacing the one
// with the same key. It lets a form update the list without a reload.
func (c *Controller[T]) Upsert(rec T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateReady && c.state != StateMutating {
		return
	}
	if i := c.indexOf(rec.Key()); i >= 0 {
		if _, busy := c.pending[rec.Key()]; !busy {
			c.replace(i, rec)
		}
		return
	}
	records := make([]T, 0, len(c.records)+1)
	records = append(records, c.records...)
	c.records = append(records, rec)
}

// checkMutable must be called with c.mu held.
func (c *Controller[T]) checkMutable(id string) error {
	if c.state != StateReady && c.state != StateMutating {
		return ErrNotReady
	}
	if c.indexOf(id) < 0 {
		return ErrNotFound
	}
	if _, busy := c.pending[id]; busy {
		return ErrMutationPending
	}
	return nil
}

func (c *Controller[T]) indexOf(id string) int {
	return slices.IndexFunc(c.records, func(r T) bool { return r.Key() == id })
}

// replace swaps one record using copy-on-write so View can read records
// without the lock.
func (c *Controller[T]) replace(i int, rec T) {
	records := slices.Clone(c.records)
	records[i] = rec
	c.records = records
}

func (c *Controller[T]) begin(kind CommandKind, id string, published bool) uint64 {
	seq := c.history.issue(kind, id, published, c.now())
	c.pending[id] = seq
	c.state = StateMutating
	return seq
}

func (c *Controller[T]) finish(id string, seq uint64, err error) {
	c.history.settle(seq, err, c.now())
	delete(c.pending, id)
	if len(c.pending) == 0 {
		c.state = StateReady
	}
}

func (c *Controller[T]) reject(op, id string, err error) error {
	dsErr := &DataSourceError{Op: op, Noun: c.schema.Noun, Err: err}
	c.banner = dsErr.Message()
	if !errors.Is(err, context.Canceled) {
		slog.Error("data source rejected change", "kind", c.schema.Kind, "op", op, "id", id, "error", err)
	}
	return dsErr
}
