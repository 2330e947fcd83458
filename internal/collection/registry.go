// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package collection

import (
	"sync"
	"time"
)

// ViewKey identifies one mounted view: a viewer looking at a kind of list
// (or a form, e.g. "blogs/form/3").
type ViewKey struct {
	Viewer string
	View   string
}

type mounted struct {
	value    any
	lastUsed time.Time
}

// Registry holds the mounted views of all viewers.
type Registry struct {
	mu    sync.Mutex
	views map[ViewKey]*mounted
	now   func() time.Time
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		views: make(map[ViewKey]*mounted),
		now:   time.Now,
	}
}

// Mount returns the view stored under key, creating it with create when it
// does not exist, holds a value of another type, or remount is set.
func Mount[V any](r *Registry, key ViewKey, remount bool, create func() V) V {
	r.mu.Lock()
	defer r.mu.Unlock()

	if m, ok := r.views[key]; ok && !remount {
		if v, ok := m.value.(V); ok {
			m.lastUsed = r.now()
			return v
		}
	}
	v := create()
	r.views[key] = &mounted{value: v, lastUsed: r.now()}
	return v
}

// Lookup returns the view stored under key without creating one.
func Lookup[V any](r *Registry, key ViewKey) (V, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if m, ok := r.views[key]; ok {
		if v, ok := m.value.(V); ok {
			m.lastUsed = r.now()
			return v, true
		}
	}
	var zero V
	return zero, false
}

// Unmount removes a single view.
func (r *Registry) Unmount(key ViewKey) {
	r.mu.Lock()
	delete(r.views, key)
	r.mu.Unlock()
}

// UnmountViewer removes every view of a viewer, e.g. on sign-out.
func (r *Registry) UnmountViewer(viewer string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for k := range r.views {
		if k.Viewer == viewer {
			delete(r.views, k)
			n++
		}
	}
	return n
}

// Evict removes views not used within idle and returns how many it removed.
func (r *Registry) Evict(idle time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	cutoff := r.now().Add(-idle)
	n := 0
	for k, m := range r.views {
		if m.lastUsed.Before(cutoff) {
			delete(r.views, k)
			n++
		}
	}
	return n
}

// Len returns the number of mounted views.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.views)
}
