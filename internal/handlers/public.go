// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"recree/internal/httputil"
	"recree/internal/service"
)

// Public serves the read-only taxonomy to the site front end. Only active
// entries are visible.
type Public struct {
	topics *service.TopicService
	tags   *service.TagService
}

// NewPublic creates a new Public handler group.
func NewPublic(topics *service.TopicService, tags *service.TagService) *Public {
	return &Public{topics: topics, tags: tags}
}

// Topics returns the active topic forest with effective styles.
func (h *Public) Topics(w http.ResponseWriter, r *http.Request) {
	forest, err := h.topics.Tree(r.Context(), true)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	httputil.WriteData(w, http.StatusOK, nonNil(forest))
}

// Topic returns one active topic and its active subtree.
func (h *Public) Topic(w http.ResponseWriter, r *http.Request) {
	t, err := h.topics.PublicBySlug(r.Context(), urlParam(r, "slug"))
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	httputil.WriteData(w, http.StatusOK, t)
}

// Tags returns active tags, optionally filtered by ?group=.
func (h *Public) Tags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.tags.List(r.Context(), r.URL.Query().Get("group"), true)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	httputil.WriteData(w, http.StatusOK, nonNil(tags))
}
