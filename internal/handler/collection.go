// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/markgaal068/bigHITS/internal/catalog"
	"github.com/markgaal068/bigHITS/internal/collection"
	"github.com/markgaal068/bigHITS/internal/metrics"
	"github.com/markgaal068/bigHITS/internal/middleware"
	"github.com/markgaal068/bigHITS/internal/render"
)

// Kind describes how one record type is presented in the admin.
type Kind[T collection.Record[T], D collection.Draft[D]] struct {
	Schema collection.Schema[T]
	Plural string
	Form   collection.FormConfig[T, D]
	Source collection.DataSource[T, D]

	// Cells renders a row, one cell per schema field.
	Cells func(T) []string
	// Decode reads a submitted form into a draft for record id.
	Decode func(form url.Values, id string) D
	// Fields lists the form inputs for a draft.
	Fields func(D) []FormField
}

// FormField is one input of a record form.
type FormField struct {
	Name     string
	Label    string
	Type     string // text, textarea, number, url, checkbox, checkboxes
	Value    string
	Checked  bool
	Required bool
	Help     string
	Options  []FormOption
}

// FormOption is one choice of a checkboxes field.
type FormOption struct {
	Value   string
	Label   string
	Checked bool
}

// ListColumn is a column header of the list page.
type ListColumn struct {
	Name      string
	Label     string
	SortURL   string
	Active    bool
	Direction collection.Direction
}

// ListRow is one record of the list page.
type ListRow struct {
	ID        string
	Cells     []string
	Published bool
	Pending   bool
}

// ListPage is the data of the admin list page.
type ListPage struct {
	Kind      string
	Noun      string
	Plural    string
	Columns   []ListColumn
	Rows      []ListRow
	Search    string
	Sort      collection.SortSpec
	State     collection.State
	LoadError string
	Banner    string
}

// FormPage is the data of the admin create/edit page.
type FormPage struct {
	Noun    string
	IsNew   bool
	Action  string
	Cancel  string
	Fields  []FormField
	Error   string
	Pending bool
}

// ConfirmPage is the data of the delete confirmation page.
type ConfirmPage struct {
	Heading string
	Prompt  string
	Action  string
}

// formView is a mounted form together with its navigator.
type formView[T collection.Record[T], D collection.Draft[D]] struct {
	form *collection.Form[T, D]
	nav  *pushRecorder
}

// CollectionHandler serves the admin pages of one record type. Each viewer
// gets their own mounted list controller and forms from the registry.
type CollectionHandler[T collection.Record[T], D collection.Draft[D]] struct {
	kind     Kind[T, D]
	renderer *render.Renderer
	registry *collection.Registry
	viewer   ViewerFunc
	metrics  *metrics.Metrics
}

// NewCollectionHandler creates a CollectionHandler. m may be nil.
func NewCollectionHandler[T collection.Record[T], D collection.Draft[D]](
	kind Kind[T, D],
	renderer *render.Renderer,
	registry *collection.Registry,
	viewer ViewerFunc,
	m *metrics.Metrics,
) *CollectionHandler[T, D] {
	return &CollectionHandler[T, D]{
		kind:     kind,
		renderer: renderer,
		registry: registry,
		viewer:   viewer,
		metrics:  m,
	}
}

// Routes mounts the handler's routes on r.
func (h *CollectionHandler[T, D]) Routes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/new", h.NewForm)
	r.Post("/new", h.Create)
	r.Get("/edit/{id}", h.EditForm)
	r.Post("/edit/{id}", h.Update)
	r.Post("/{id}/publish", h.TogglePublished)
	r.Get("/{id}/delete", h.DeleteConfirm)
	r.Post("/{id}/delete", h.Delete)
	r.Post("/banner/dismiss", h.DismissBanner)
}

func (h *CollectionHandler[T, D]) listPath() string {
	return catalog.ListPath(h.kind.Schema.Kind)
}

func (h *CollectionHandler[T, D]) listKey(r *http.Request) collection.ViewKey {
	return collection.ViewKey{Viewer: h.viewer(r), View: h.kind.Schema.Kind}
}

func (h *CollectionHandler[T, D]) formKey(r *http.Request, id string) collection.ViewKey {
	if id == "" {
		id = "new"
	}
	return collection.ViewKey{Viewer: h.viewer(r), View: h.kind.Schema.Kind + "/form/" + id}
}

// controller returns the viewer's list controller, mounting and loading it
// when needed.
func (h *CollectionHandler[T, D]) controller(ctx context.Context, r *http.Request, remount bool) *collection.Controller[T] {
	ctrl := collection.Mount(h.registry, h.listKey(r), remount, func() *collection.Controller[T] {
		return collection.NewController(h.kind.Schema, collection.ListSource[T](h.kind.Source))
	})
	// A failed load is kept in the controller state and shown on the page.
	_ = ctrl.EnsureLoaded(ctx)
	return ctrl
}

func (h *CollectionHandler[T, D]) observe(op, outcome string) {
	if h.metrics != nil {
		h.metrics.ObserveMutation(h.kind.Schema.Kind, op, outcome)
	}
}

func (h *CollectionHandler[T, D]) userID(r *http.Request) string {
	return middleware.SessionFrom(r.Context()).UserID()
}

// List handles GET /admin/{kind}. The query parameters q, sort and dir
// update the mounted view; refresh=1 mounts a fresh one.
func (h *CollectionHandler[T, D]) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	ctrl := h.controller(r.Context(), r, query.Get("refresh") == "1")

	if query.Has("q") {
		ctrl.SetSearchTerm(query.Get("q"))
	}
	if field := query.Get("sort"); field != "" {
		spec := collection.SortSpec{Field: field, Direction: collection.ParseDirection(query.Get("dir"))}
		if err := ctrl.SetSortSpec(spec); err != nil {
			slog.Debug("ignoring sort on unknown field", "kind", h.kind.Schema.Kind, "field", field)
		}
	}

	renderPage(w, r, h.renderer, http.StatusOK, "admin/list", render.TemplateData{
		Title: h.kind.Plural,
		Data:  h.listPage(ctrl),
	})
}

func (h *CollectionHandler[T, D]) listPage(ctrl *collection.Controller[T]) ListPage {
	schema := h.kind.Schema
	term, active := ctrl.SearchTerm(), ctrl.Sort()

	page := ListPage{
		Kind:      schema.Kind,
		Noun:      schema.Noun,
		Plural:    h.kind.Plural,
		Search:    term,
		Sort:      active,
		State:     ctrl.State(),
		LoadError: ctrl.LoadError(),
		Banner:    ctrl.Banner(),
	}

	for _, f := range schema.Fields {
		col := ListColumn{Name: f.Name, Label: f.Label}
		if f.Sortable {
			next := ctrl.NextSort(f.Name)
			v := url.Values{}
			v.Set("q", term)
			v.Set("sort", next.Field)
			v.Set("dir", string(next.Direction))
			col.SortURL = h.listPath() + "?" + v.Encode()
			col.Active = active.Field == f.Name
			col.Direction = active.Direction
		}
		page.Columns = append(page.Columns, col)
	}

	if page.State == collection.StateError {
		return page
	}
	for _, rec := range ctrl.View() {
		page.Rows = append(page.Rows, ListRow{
			ID:        rec.Key(),
			Cells:     h.kind.Cells(rec),
			Published: rec.IsPublished(),
			Pending:   ctrl.IsPending(rec.Key()),
		})
	}
	return page
}

// TogglePublished handles POST /admin/{kind}/{id}/publish.
func (h *CollectionHandler[T, D]) TogglePublished(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ctrl := h.controller(r.Context(), r, false)

	rec, err := ctrl.TogglePublished(r.Context(), id)
	if err != nil {
		h.mutationFailed(w, r, "publish", id, err)
		return
	}
	h.observe("publish", metrics.OutcomeCommitted)

	verb := "unpublished"
	if rec.IsPublished() {
		verb = "published"
	}
	slog.Info(h.kind.Schema.Noun+" "+verb,
		h.kind.Schema.Noun+"_id", id,
		"updated_by", h.userID(r))
	flashSuccess(w, r, h.renderer, h.listPath(), capitalize(h.kind.Schema.Noun)+" "+verb)
}

// DeleteConfirm handles GET /admin/{kind}/{id}/delete.
func (h *CollectionHandler[T, D]) DeleteConfirm(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ctrl := h.controller(r.Context(), r, false)

	if _, ok := ctrl.Get(id); !ok {
		flashError(w, r, h.renderer, h.listPath(), capitalize(h.kind.Schema.Noun)+" not found")
		return
	}
	renderPage(w, r, h.renderer, http.StatusOK, "admin/confirm", render.TemplateData{
		Title: "Delete " + h.kind.Schema.Noun,
		Data: ConfirmPage{
			Heading: "Delete " + h.kind.Schema.Noun,
			Prompt:  ctrl.DeletePrompt(),
			Action:  h.listPath() + "/" + id + "/delete",
		},
	})
}

// Delete handles POST /admin/{kind}/{id}/delete. The viewer's answer to
// the confirmation page arrives as confirm=yes or confirm=no.
func (h *CollectionHandler[T, D]) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !parseFormOrRedirect(w, r, h.renderer, h.listPath()) {
		return
	}
	ctrl := h.controller(r.Context(), r, false)

	answer := collection.Answer(r.PostForm.Get("confirm") == "yes")
	if err := ctrl.Remove(r.Context(), id, answer); err != nil {
		h.mutationFailed(w, r, "delete", id, err)
		return
	}
	h.observe("delete", metrics.OutcomeCommitted)

	slog.Info(h.kind.Schema.Noun+" deleted",
		h.kind.Schema.Noun+"_id", id,
		"deleted_by", h.userID(r))
	flashSuccess(w, r, h.renderer, h.listPath(), capitalize(h.kind.Schema.Noun)+" deleted")
}

// mutationFailed reports a toggle or delete that did not go through. Data
// source rejections are already on the list banner.
func (h *CollectionHandler[T, D]) mutationFailed(w http.ResponseWriter, r *http.Request, op, id string, err error) {
	var dsErr *collection.DataSourceError
	switch {
	case errors.Is(err, collection.ErrCancelled):
		h.observe(op, metrics.OutcomeCancelled)
		http.Redirect(w, r, h.listPath(), http.StatusSeeOther)
	case errors.As(err, &dsErr):
		h.observe(op, metrics.OutcomeRejected)
		http.Redirect(w, r, h.listPath(), http.StatusSeeOther)
	case errors.Is(err, collection.ErrNotFound):
		flashError(w, r, h.renderer, h.listPath(), capitalize(h.kind.Schema.Noun)+" not found")
	default:
		slog.Debug("mutation not applied", "kind", h.kind.Schema.Kind, "op", op, "id", id, "error", err)
		flashError(w, r, h.renderer, h.listPath(), collection.UserMessage(err))
	}
}

// DismissBanner handles POST /admin/{kind}/banner/dismiss.
func (h *CollectionHandler[T, D]) DismissBanner(w http.ResponseWriter, r *http.Request) {
	if ctrl, ok := collection.Lookup[*collection.Controller[T]](h.registry, h.listKey(r)); ok {
		ctrl.DismissBanner()
	}
	http.Redirect(w, r, h.listPath(), http.StatusSeeOther)
}

// mountForm mounts a fresh form for id (empty for a new record) and loads
// the stored record when editing.
func (h *CollectionHandler[T, D]) mountForm(ctx context.Context, r *http.Request, id string) (formView[T, D], error) {
	fv := collection.Mount(h.registry, h.formKey(r, id), true, func() formView[T, D] {
		nav := &pushRecorder{}
		var empty D
		return formView[T, D]{
			form: collection.NewForm(h.kind.Form, collection.FormSource[T, D](h.kind.Source), nav, empty),
			nav:  nav,
		}
	})
	if id == "" {
		return fv, nil
	}
	return fv, fv.form.Load(ctx, id)
}

// NewForm handles GET /admin/{kind}/new.
func (h *CollectionHandler[T, D]) NewForm(w http.ResponseWriter, r *http.Request) {
	fv, _ := h.mountForm(r.Context(), r, "")
	h.renderForm(w, r, http.StatusOK, fv.form, "")
}

// EditForm handles GET /admin/{kind}/edit/{id}.
func (h *CollectionHandler[T, D]) EditForm(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	fv, err := h.mountForm(r.Context(), r, id)
	if err != nil {
		h.registry.Unmount(h.formKey(r, id))
		if errors.Is(err, collection.ErrNotFound) {
			flashError(w, r, h.renderer, h.listPath(), capitalize(h.kind.Schema.Noun)+" not found")
			return
		}
		flashError(w, r, h.renderer, h.listPath(), collection.UserMessage(err))
		return
	}
	h.renderForm(w, r, http.StatusOK, fv.form, id)
}

// Create handles POST /admin/{kind}/new.
func (h *CollectionHandler[T, D]) Create(w http.ResponseWriter, r *http.Request) {
	h.submit(w, r, "")
}

// Update handles POST /admin/{kind}/edit/{id}.
func (h *CollectionHandler[T, D]) Update(w http.ResponseWriter, r *http.Request) {
	h.submit(w, r, chi.URLParam(r, "id"))
}

func (h *CollectionHandler[T, D]) submit(w http.ResponseWriter, r *http.Request, id string) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	fv, ok := collection.Lookup[formView[T, D]](h.registry, h.formKey(r, id))
	if !ok {
		// The form was evicted or never opened; start from the stored record.
		var err error
		if fv, err = h.mountForm(r.Context(), r, id); err != nil {
			h.registry.Unmount(h.formKey(r, id))
			flashError(w, r, h.renderer, h.listPath(), collection.UserMessage(err))
			return
		}
	}

	fv.form.Edit(h.kind.Decode(r.PostForm, id))
	rec, err := fv.form.Submit(r.Context())
	if err != nil {
		op := "create"
		if id != "" {
			op = "update"
		}
		status := http.StatusUnprocessableEntity
		var dsErr *collection.DataSourceError
		switch {
		case errors.Is(err, collection.ErrMutationPending):
			status = http.StatusConflict
		case errors.As(err, &dsErr):
			status = http.StatusBadGateway
			h.observe(op, metrics.OutcomeRejected)
		default:
			h.observe(op, metrics.OutcomeRejected)
		}
		h.renderForm(w, r, status, fv.form, id)
		return
	}

	h.registry.Unmount(h.formKey(r, id))
	if ctrl, ok := collection.Lookup[*collection.Controller[T]](h.registry, h.listKey(r)); ok {
		ctrl.Upsert(rec)
	}

	noun := h.kind.Schema.Noun
	if id == "" {
		h.observe("create", metrics.OutcomeCommitted)
		slog.Info(noun+" created", noun+"_id", rec.Key(), "created_by", h.userID(r))
		flashSuccess(w, r, h.renderer, fv.nav.take(h.listPath()), capitalize(noun)+" created")
		return
	}
	h.observe("update", metrics.OutcomeCommitted)
	slog.Info(noun+" updated", noun+"_id", rec.Key(), "updated_by", h.userID(r))
	flashSuccess(w, r, h.renderer, fv.nav.take(h.listPath()), capitalize(noun)+" updated")
}

func (h *CollectionHandler[T, D]) renderForm(w http.ResponseWriter, r *http.Request, status int, form *collection.Form[T, D], id string) {
	page := FormPage{
		Noun:    h.kind.Schema.Noun,
		IsNew:   id == "",
		Cancel:  h.listPath(),
		Fields:  h.kind.Fields(form.Draft()),
		Error:   form.Error(),
		Pending: form.Pending(),
	}
	title := "New " + page.Noun
	if page.IsNew {
		page.Action = h.listPath() + "/new"
	} else {
		page.Action = h.listPath() + "/edit/" + id
		title = "Edit " + page.Noun
	}
	renderPage(w, r, h.renderer, status, "admin/form", render.TemplateData{Title: title, Data: page})
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
