// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package service is the single entry point for taxonomy reads and writes.
// Every invariant of the topic tree and the tag groups is checked here,
// before the first mutating repository call.
package service

import (
	"context"
	"slices"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"recree/internal/apperrors"
	"recree/internal/models"
	"recree/internal/slug"
)

// TopicRepository is the persistence contract for topics. store.TopicStore
// and memstore.TopicStore implement it.
type TopicRepository interface {
	List(ctx context.Context) ([]models.Topic, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Topic, error)
	FindBySlug(ctx context.Context, slug string) (*models.Topic, error)
	SlugTaken(ctx context.Context, slug string, exclude uuid.UUID) (bool, error)
	CountChildren(ctx context.Context, id uuid.UUID) (int, error)
	NextSortOrder(ctx context.Context, parentID *uuid.UUID) (int, error)
	Create(ctx context.Context, t *models.Topic) error
	Update(ctx context.Context, t *models.Topic, levelShift int) error
	Delete(ctx context.Context, id uuid.UUID) error
	Reorder(ctx context.Context, ids []uuid.UUID) error
}

// TagRepository is the persistence contract for tags.
type TagRepository interface {
	List(ctx context.Context, group string) ([]models.Tag, error)
	Groups(ctx context.Context) ([]string, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Tag, error)
	SlugTaken(ctx context.Context, slug string, exclude uuid.UUID) (bool, error)
	NextSortOrder(ctx context.Context, group string) (int, error)
	Create(ctx context.Context, t *models.Tag) error
	Update(ctx context.Context, t *models.Tag) error
	Delete(ctx context.Context, id uuid.UUID) error
	Reorder(ctx context.Context, ids []uuid.UUID) error
}

// Cache holds resolved public responses. cache.TaxonomyCache implements it.
// Entries belong to a generation that InvalidateAll advances; readers take
// the generation before loading from the store and write back under it.
type Cache interface {
	Generation(ctx context.Context) (int64, bool)
	Get(ctx context.Context, gen int64, key string, dst any) bool
	Set(ctx context.Context, gen int64, key string, v any)
	InvalidateAll(ctx context.Context)
}

type noopCache struct{}

func (noopCache) Generation(context.Context) (int64, bool)     { return 0, false }
func (noopCache) Get(context.Context, int64, string, any) bool { return false }
func (noopCache) Set(context.Context, int64, string, any)      {}
func (noopCache) InvalidateAll(context.Context)                {}

var mutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "recree_taxonomy_mutations_total",
		Help: "Successful taxonomy writes by entity and operation.",
	},
	[]string{"entity", "op"},
)

// Operation labels for mutationsTotal.
const (
	opCreate  = "create"
	opUpdate  = "update"
	opDelete  = "delete"
	opReorder = "reorder"
)

// checkSiblingOrder verifies that ids is a permutation of group: no
// duplicates, nothing foreign, nothing missing.
func checkSiblingOrder(ids, group []uuid.UUID) error {
	seen := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			return errDuplicateID(id)
		}
		seen[id] = true
		if !slices.Contains(group, id) {
			return errForeignID(id)
		}
	}
	if len(ids) != len(group) {
		return errPartialOrder(len(ids), len(group))
	}
	return nil
}

func sameParent(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// fillSlug derives an empty slug from the English name. A name without any
// ASCII letter or digit leaves nothing to derive, and the caller must send
// a slug explicitly.
func fillSlug(s *string, nameEn string) error {
	if *s != "" {
		return nil
	}
	*s = slug.Generate(nameEn)
	if !slug.Valid(*s) {
		return apperrors.InvalidInput("slug is required when name_en has no latin letters or digits")
	}
	return nil
}
