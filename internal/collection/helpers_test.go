// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package collection

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/markgaal068/bigHITS/internal/util"
)

// item is a minimal record used by the tests in this package.
type item struct {
	ID        string
	Title     string
	Slug      string
	Date      string
	Price     float64
	Published bool
}

func (i item) Key() string               { return i.ID }
func (i item) IsPublished() bool         { return i.Published }
func (i item) WithPublished(p bool) item { i.Published = p; return i }

type itemDraft struct {
	ID    string
	Title string
	Slug  string
	Price string
}

func (d itemDraft) DraftID() string    { return d.ID }
func (d itemDraft) DraftTitle() string { return d.Title }

func (d itemDraft) WithTitle(t string) itemDraft {
	d.Title = t
	d.Slug = util.Slugify(t)
	return d
}

var itemSchema = Schema[item]{
	Kind: "items",
	Noun: "item",
	Fields: []Field[item]{
		{Name: "title", Kind: KindString, Searchable: true, Sortable: true, String: func(i item) string { return i.Title }},
		{Name: "date", Kind: KindString, Sortable: true, String: func(i item) string { return i.Date }},
		{Name: "price", Kind: KindNumber, Searchable: true, Sortable: true, Number: func(i item) float64 { return i.Price }},
		{Name: "published", Kind: KindBool, Sortable: true, Bool: func(i item) bool { return i.Published }},
	},
	DefaultSort: SortSpec{Field: "date", Direction: Desc},
}

func idsOf(items []item) string {
	parts := make([]string, len(items))
	for i, it := range items {
		parts[i] = it.ID
	}
	return strings.Join(parts, ",")
}

var errBoom = errors.New("boom")

// fakeSource is a scriptable data source. Calls block on gate when it is
// non-nil, which lets tests observe the pending state.
type fakeSource struct {
	mu        sync.Mutex
	records   []item
	fetchErr  error
	updateErr error
	deleteErr error
	saveErr   error
	gate      chan struct{}

	fetches int
	updates []string
	deletes []string
	saves   []itemDraft
}

func (f *fakeSource) block() {
	if f.gate != nil {
		<-f.gate
	}
}

func (f *fakeSource) FetchAll(ctx context.Context) ([]item, error) {
	f.mu.Lock()
	f.fetches++
	f.mu.Unlock()
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return append([]item(nil), f.records...), nil
}

func (f *fakeSource) FetchByID(ctx context.Context, id string) (item, error) {
	for _, r := range f.records {
		if r.ID == id {
			return r, nil
		}
	}
	return item{}, ErrNotFound
}

func (f *fakeSource) Save(ctx context.Context, d itemDraft) (item, error) {
	f.mu.Lock()
	f.saves = append(f.saves, d)
	f.mu.Unlock()
	f.block()
	if f.saveErr != nil {
		return item{}, f.saveErr
	}
	id := d.ID
	if id == "" {
		id = "new"
	}
	return item{ID: id, Title: d.Title, Slug: d.Slug}, nil
}

func (f *fakeSource) UpdatePublished(ctx context.Context, id string, published bool) error {
	f.mu.Lock()
	f.updates = append(f.updates, id)
	f.mu.Unlock()
	f.block()
	return f.updateErr
}

func (f *fakeSource) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	f.deletes = append(f.deletes, id)
	f.mu.Unlock()
	f.block()
	return f.deleteErr
}

func (f *fakeSource) calls() (updates, deletes, saves int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.updates), len(f.deletes), len(f.saves)
}

type navRecorder struct {
	mu     sync.Mutex
	pushed []string
}

func (n *navRecorder) Push(path string) {
	n.mu.Lock()
	n.pushed = append(n.pushed, path)
	n.mu.Unlock()
}

func (n *navRecorder) Pushed() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.pushed...)
}
