// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/markgaal068/bigHITS/internal/collection"
	"github.com/markgaal068/bigHITS/internal/handler"
	"github.com/markgaal068/bigHITS/internal/metrics"
	"github.com/markgaal068/bigHITS/internal/middleware"
)

// Resource exposes one record type as JSON. Listing and mutations go
// through a list controller mounted for the caller's token, so searches
// and sort order persist between requests like in the admin pages.
type Resource[T collection.Record[T], D collection.Draft[D]] struct {
	kind     handler.Kind[T, D]
	withID   func(D, string) D
	registry *collection.Registry
	metrics  *metrics.Metrics
}

// NewResource creates a Resource. withID stamps a decoded draft with the
// ID from the URL. m may be nil.
func NewResource[T collection.Record[T], D collection.Draft[D]](
	kind handler.Kind[T, D],
	withID func(D, string) D,
	registry *collection.Registry,
	m *metrics.Metrics,
) *Resource[T, D] {
	return &Resource[T, D]{kind: kind, withID: withID, registry: registry, metrics: m}
}

// Routes mounts the resource's routes on r.
func (res *Resource[T, D]) Routes(r chi.Router) {
	r.Get("/", res.List)
	r.Post("/", res.Create)
	r.Get("/{id}", res.Get)
	r.Put("/{id}", res.Update)
	r.Post("/{id}/publish", res.TogglePublished)
	r.Delete("/{id}", res.Delete)
}

// discard is the navigator of API forms; clients navigate themselves.
type discard struct{}

func (discard) Push(string) {}

func (res *Resource[T, D]) noun() string {
	return res.kind.Schema.Noun
}

func (res *Resource[T, D]) key(r *http.Request) collection.ViewKey {
	return collection.ViewKey{Viewer: Viewer(r), View: res.kind.Schema.Kind}
}

func (res *Resource[T, D]) controller(ctx context.Context, r *http.Request, remount bool) (*collection.Controller[T], error) {
	ctrl := collection.Mount(res.registry, res.key(r), remount, func() *collection.Controller[T] {
		return collection.NewController(res.kind.Schema, collection.ListSource[T](res.kind.Source))
	})
	if err := ctrl.EnsureLoaded(ctx); err != nil {
		return nil, err
	}
	if ctrl.State() == collection.StateError {
		// A failed first load stays in the controller; retry it.
		if err := ctrl.Load(ctx); err != nil {
			return nil, err
		}
	}
	return ctrl, nil
}

func (res *Resource[T, D]) observe(op, outcome string) {
	if res.metrics != nil {
		res.metrics.ObserveMutation(res.kind.Schema.Kind, op, outcome)
	}
}

// List handles GET /api/{kind}. q, sort and dir update the mounted view;
// refresh=1 mounts a fresh one.
func (res *Resource[T, D]) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	ctrl, err := res.controller(r.Context(), r, query.Get("refresh") == "1")
	if err != nil {
		res.writeError(w, err)
		return
	}

	if query.Has("q") {
		ctrl.SetSearchTerm(query.Get("q"))
	}
	if field := query.Get("sort"); field != "" {
		spec := collection.SortSpec{Field: field, Direction: collection.ParseDirection(query.Get("dir"))}
		if err := ctrl.SetSortSpec(spec); err != nil {
			WriteBadRequest(w, "Unknown sort field: "+field)
			return
		}
	}

	recs := ctrl.View()
	sort := ctrl.Sort()
	WriteSuccess(w, recs, &Meta{
		Total:  len(recs),
		Search: ctrl.SearchTerm(),
		Sort:   sort.Field,
		Dir:    string(sort.Direction),
		Banner: ctrl.Banner(),
	})
}

// Get handles GET /api/{kind}/{id}.
func (res *Resource[T, D]) Get(w http.ResponseWriter, r *http.Request) {
	rec, err := res.kind.Source.FetchByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if !errors.Is(err, collection.ErrNotFound) {
			err = &collection.DataSourceError{Op: "fetch", Noun: res.noun(), Err: err}
		}
		res.writeError(w, err)
		return
	}
	WriteSuccess(w, rec, nil)
}

// Create handles POST /api/{kind}. The body is a draft.
func (res *Resource[T, D]) Create(w http.ResponseWriter, r *http.Request) {
	draft, ok := res.decode(w, r)
	if !ok {
		return
	}
	var empty D
	form := collection.NewForm(res.kind.Form, collection.FormSource[T, D](res.kind.Source), discard{}, empty)
	form.Edit(res.withID(draft, ""))

	rec, err := form.Submit(r.Context())
	if err != nil {
		res.observe("create", metrics.OutcomeRejected)
		res.writeError(w, err)
		return
	}
	res.saved(r, rec)
	res.observe("create", metrics.OutcomeCommitted)
	slog.Info(res.noun()+" created", res.noun()+"_id", rec.Key(), "created_by", middleware.SessionFrom(r.Context()).UserID(), "via", "api")
	WriteCreated(w, rec)
}

// Update handles PUT /api/{kind}/{id}. The body replaces the stored draft;
// a changed title re-derives the slug.
func (res *Resource[T, D]) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	draft, ok := res.decode(w, r)
	if !ok {
		return
	}
	var empty D
	form := collection.NewForm(res.kind.Form, collection.FormSource[T, D](res.kind.Source), discard{}, empty)
	if err := form.Load(r.Context(), id); err != nil {
		res.writeError(w, err)
		return
	}
	form.Edit(res.withID(draft, id))

	rec, err := form.Submit(r.Context())
	if err != nil {
		res.observe("update", metrics.OutcomeRejected)
		res.writeError(w, err)
		return
	}
	res.saved(r, rec)
	res.observe("update", metrics.OutcomeCommitted)
	slog.Info(res.noun()+" updated", res.noun()+"_id", rec.Key(), "updated_by", middleware.SessionFrom(r.Context()).UserID(), "via", "api")
	WriteSuccess(w, rec, nil)
}

// TogglePublished handles POST /api/{kind}/{id}/publish.
func (res *Resource[T, D]) TogglePublished(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ctrl, err := res.controller(r.Context(), r, false)
	if err != nil {
		res.writeError(w, err)
		return
	}
	rec, err := ctrl.TogglePublished(r.Context(), id)
	if err != nil {
		res.mutationFailed(w, "publish", err)
		return
	}
	res.observe("publish", metrics.OutcomeCommitted)
	slog.Info(res.noun()+" publish toggled", res.noun()+"_id", id, "published", rec.IsPublished(), "via", "api")
	WriteSuccess(w, rec, nil)
}

// Delete handles DELETE /api/{kind}/{id}. The client answers the
// confirmation up front with ?confirm=yes.
func (res *Resource[T, D]) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ctrl, err := res.controller(r.Context(), r, false)
	if err != nil {
		res.writeError(w, err)
		return
	}
	answer := collection.Answer(r.URL.Query().Get("confirm") == "yes")
	if err := ctrl.Remove(r.Context(), id, answer); err != nil {
		res.mutationFailed(w, "delete", err)
		return
	}
	res.observe("delete", metrics.OutcomeCommitted)
	slog.Info(res.noun()+" deleted", res.noun()+"_id", id, "deleted_by", middleware.SessionFrom(r.Context()).UserID(), "via", "api")
	w.WriteHeader(http.StatusNoContent)
}

func (res *Resource[T, D]) decode(w http.ResponseWriter, r *http.Request) (D, bool) {
	var draft D
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&draft); err != nil {
		WriteBadRequest(w, "Invalid JSON body: "+err.Error())
		return draft, false
	}
	return draft, true
}

// saved puts a saved record into the caller's mounted list, if any.
func (res *Resource[T, D]) saved(r *http.Request, rec T) {
	if ctrl, ok := collection.Lookup[*collection.Controller[T]](res.registry, res.key(r)); ok {
		ctrl.Upsert(rec)
	}
}

func (res *Resource[T, D]) mutationFailed(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, collection.ErrCancelled):
		res.observe(op, metrics.OutcomeCancelled)
		WriteBadRequest(w, "Deleting requires confirm=yes")
		return
	case errors.Is(err, collection.ErrNotFound), errors.Is(err, collection.ErrMutationPending):
	default:
		res.observe(op, metrics.OutcomeRejected)
	}
	res.writeError(w, err)
}

// writeError maps collection errors to status codes.
func (res *Resource[T, D]) writeError(w http.ResponseWriter, err error) {
	var (
		verr  *collection.ValidationError
		dsErr *collection.DataSourceError
	)
	switch {
	case errors.As(err, &verr):
		WriteValidationError(w, verr.Message)
	case errors.Is(err, collection.ErrNotFound):
		WriteNotFound(w, capitalize(res.noun())+" not found")
	case errors.Is(err, collection.ErrMutationPending):
		WriteError(w, http.StatusConflict, "pending", collection.UserMessage(err), nil)
	case errors.Is(err, collection.ErrNotReady):
		w.Header().Set("Retry-After", "1")
		WriteError(w, http.StatusServiceUnavailable, "not_ready", collection.UserMessage(err), nil)
	case errors.As(err, &dsErr):
		WriteError(w, http.StatusBadGateway, "data_source_error", dsErr.Message(), nil)
	default:
		slog.Error("api request failed", "kind", res.kind.Schema.Kind, "error", err)
		WriteInternalError(w, collection.UserMessage(err))
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
