// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"recree/internal/httputil"
	"recree/internal/models"
	"recree/internal/service"
	"recree/internal/validate"
)

// Tags groups the admin tag handlers.
type Tags struct {
	svc *service.TagService
}

// NewTags creates a new Tags handler group.
func NewTags(svc *service.TagService) *Tags {
	return &Tags{svc: svc}
}

// List returns every tag, optionally filtered by ?group=.
func (h *Tags) List(w http.ResponseWriter, r *http.Request) {
	tags, err := h.svc.List(r.Context(), r.URL.Query().Get("group"), false)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	httputil.WriteData(w, http.StatusOK, nonNil(tags))
}

// Groups returns the distinct tag groups.
func (h *Tags) Groups(w http.ResponseWriter, r *http.Request) {
	groups, err := h.svc.Groups(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	httputil.WriteData(w, http.StatusOK, nonNil(groups))
}

func (h *Tags) Get(w http.ResponseWriter, r *http.Request) {
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

func (h *Tags) Create(w http.ResponseWriter, r *http.Request) {
	var in models.TagInput
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

func (h *Tags) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, r, urlParam(r, "id"))
	if !ok {
		return
	}
	var in models.TagInput
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

func (h *Tags) Delete(w http.ResponseWriter, r *http.Request) {
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

// Reorder sets the order of one tag group.
func (h *Tags) Reorder(w http.ResponseWriter, r *http.Request) {
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
