// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package collection

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRegistryMount(t *testing.T) {
	r := NewRegistry()
	key := ViewKey{Viewer: "v1", View: "items"}
	created := 0
	create := func() *Controller[item] {
		created++
		return NewController[item](itemSchema, &fakeSource{})
	}

	a := Mount(r, key, false, create)
	b := Mount(r, key, false, create)
	assert.Same(t, a, b)
	assert.Equal(t, 1, created)

	c := Mount(r, key, true, create)
	assert.NotSame(t, a, c)
	assert.Equal(t, 2, created)

	other := Mount(r, ViewKey{Viewer: "v2", View: "items"}, false, create)
	assert.NotSame(t, c, other)
	assert.Equal(t, 2, r.Len())

	got, ok := Lookup[*Controller[item]](r, key)
	assert.True(t, ok)
	assert.Same(t, c, got)

	_, ok = Lookup[*Controller[item]](r, ViewKey{Viewer: "v3", View: "items"})
	assert.False(t, ok)
}

func TestRegistryMountTypeMismatch(t *testing.T) {
	r := NewRegistry()
	key := ViewKey{Viewer: "v1", View: "items"}
	Mount(r, key, false, func() string { return "not a controller" })
	c := Mount(r, key, false, func() *Controller[item] {
		return NewController[item](itemSchema, &fakeSource{})
	})
	assert.NotNil(t, c)
}

func TestRegistryEvict(t *testing.T) {
	r := NewRegistry()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return now }

	Mount(r, ViewKey{Viewer: "old", View: "items"}, false, func() int { return 1 })
	now = now.Add(20 * time.Minute)
	Mount(r, ViewKey{Viewer: "new", View: "items"}, false, func() int { return 2 })

	assert.Equal(t, 1, r.Evict(15*time.Minute))
	assert.Equal(t, 1, r.Len())
	_, ok := Lookup[int](r, ViewKey{Viewer: "new", View: "items"})
	assert.True(t, ok)
}

func TestRegistryUnmountViewer(t *testing.T) {
	r := NewRegistry()
	Mount(r, ViewKey{Viewer: "v1", View: "items"}, false, func() int { return 1 })
	Mount(r, ViewKey{Viewer: "v1", View: "items/form/new"}, false, func() int { return 2 })
	Mount(r, ViewKey{Viewer: "v2", View: "items"}, false, func() int { return 3 })

	assert.Equal(t, 2, r.UnmountViewer("v1"))
	assert.Equal(t, 1, r.Len())

	r.Unmount(ViewKey{Viewer: "v2", View: "items"})
	assert.Zero(t, r.Len())
}
