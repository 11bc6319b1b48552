// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"recree/internal/httputil"
	"recree/internal/models"
	"recree/internal/service"
	"recree/internal/validate"
)

// reorderRequest lists a whole sibling group in its new order.
type reorderRequest struct {
	IDs []uuid.UUID `json:"ids"`
}

func urlParam(r *http.Request, key string) string {
	return chi.URLParam(r, key)
}

// Topics groups the admin topic handlers.
type Topics struct {
	svc *service.TopicService
}

// NewTopics creates a new Topics handler group.
func NewTopics(svc *service.TopicService) *Topics {
	return &Topics{svc: svc}
}

// List returns the full tree, inactive topics included. With ?view=flat
// the topics come back as a flat list ordered by level and sort order.
func (h *Topics) List(w http.ResponseWriter, r *http.Request) {
	var (
		topics []models.Topic
		err    error
	)
	if r.URL.Query().Get("view") == "flat" {
		topics, err = h.svc.List(r.Context())
	} else {
		topics, err = h.svc.Tree(r.Context(), false)
	}
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	httputil.WriteData(w, http.StatusOK, nonNil(topics))
}

// Styles returns the effective style of every topic keyed by id.
func (h *Topics) Styles(w http.ResponseWriter, r *http.Request) {
	styles, err := h.svc.Styles(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	httputil.WriteData(w, http.StatusOK, styles)
}

// Get returns one topic with its children.
func (h *Topics) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, r, urlParam(r, "id"))
	if !ok {
		return
	}
	t, err := h.svc.Get(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	httputil.WriteData(w, http.StatusOK, t)
}

// Create adds a topic at the end of its sibling group.
func (h *Topics) Create(w http.ResponseWriter, r *http.Request) {
	var in models.TopicInput
	if err := validate.DecodeAndValidate(r, &in); err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	t, err := h.svc.Create(r.Context(), in)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	httputil.WriteData(w, http.StatusCreated, t)
}

// Update replaces a topic's fields and may move it to another parent.
func (h *Topics) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, r, urlParam(r, "id"))
	if !ok {
		return
	}
	var in models.TopicInput
	if err := validate.DecodeAndValidate(r, &in); err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	t, err := h.svc.Update(r.Context(), id, in)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	httputil.WriteData(w, http.StatusOK, t)
}

// Delete removes a childless topic.
func (h *Topics) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, r, urlParam(r, "id"))
	if !ok {
		return
	}
	if err := h.svc.Delete(r.Context(), id); err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Reorder sets the order of one sibling group.
func (h *Topics) Reorder(w http.ResponseWriter, r *http.Request) {
	var req reorderRequest
	if err := validate.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	if err := h.svc.Reorder(r.Context(), req.IDs); err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// nonNil keeps empty lists encoding as [] rather than null.
func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
