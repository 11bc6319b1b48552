// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package memstore

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"recree/internal/apperrors"
	"recree/internal/models"
)

// TagStore is a concurrency-safe in-memory tag repository.
type TagStore struct {
	mu   sync.RWMutex
	tags map[uuid.UUID]models.Tag
	now  func() time.Time
}

// NewTagStore returns an empty TagStore.
func NewTagStore() *TagStore {
	return &TagStore{tags: make(map[uuid.UUID]models.Tag), now: time.Now}
}

func (s *TagStore) List(_ context.Context, group string) ([]models.Tag, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]models.Tag, 0, len(s.tags))
	for _, t := range s.tags {
		if group == "" || t.Group == group {
			items = append(items, t)
		}
	}
	slices.SortFunc(items, func(a, b models.Tag) int {
		return cmp.Or(
			cmp.Compare(a.Group, b.Group),
			cmp.Compare(a.SortOrder, b.SortOrder),
			cmp.Compare(a.NameEn, b.NameEn),
		)
	})
	return items, nil
}

func (s *TagStore) Groups(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var groups []string
	for _, t := range s.tags {
		if !slices.Contains(groups, t.Group) {
			groups = append(groups, t.Group)
		}
	}
	slices.Sort(groups)
	return groups, nil
}

func (s *TagStore) FindByID(_ context.Context, id uuid.UUID) (*models.Tag, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tags[id]
	if !ok {
		return nil, apperrors.NotFound("tag", id.String())
	}
	return &t, nil
}

func (s *TagStore) SlugTaken(_ context.Context, slug string, exclude uuid.UUID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.slugTaken(slug, exclude), nil
}

func (s *TagStore) slugTaken(slug string, exclude uuid.UUID) bool {
	for id, t := range s.tags {
		if t.Slug == slug && id != exclude {
			return true
		}
	}
	return false
}

func (s *TagStore) NextSortOrder(_ context.Context, group string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	next := 0
	for _, t := range s.tags {
		if t.Group == group && t.SortOrder >= next {
			next = t.SortOrder + 1
		}
	}
	return next, nil
}

func (s *TagStore) Create(_ context.Context, t *models.Tag) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.slugTaken(t.Slug, uuid.Nil) {
		return apperrors.AlreadyExists("tag", "slug", t.Slug)
	}
	t.ID = uuid.New()
	t.CreatedAt = s.now()
	t.UpdatedAt = t.CreatedAt
	t.EffectiveStyle = nil
	s.tags[t.ID] = *t
	return nil
}

func (s *TagStore) Update(_ context.Context, t *models.Tag) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tags[t.ID]; !ok {
		return apperrors.NotFound("tag", t.ID.String())
	}
	if s.slugTaken(t.Slug, t.ID) {
		return apperrors.AlreadyExists("tag", "slug", t.Slug)
	}
	t.UpdatedAt = s.now()
	t.EffectiveStyle = nil
	s.tags[t.ID] = *t
	return nil
}

func (s *TagStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tags[id]; !ok {
		return apperrors.NotFound("tag", id.String())
	}
	delete(s.tags, id)
	return nil
}

// Reorder applies every position or none.
func (s *TagStore) Reorder(_ context.Context, ids []uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range ids {
		if _, ok := s.tags[id]; !ok {
			return apperrors.NotFound("tags", id.String())
		}
	}
	now := s.now()
	for i, id := range ids {
		t := s.tags[id]
		t.SortOrder = i
		t.UpdatedAt = now
		s.tags[id] = t
	}
	return nil
}
