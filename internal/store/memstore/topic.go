// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package memstore holds in-memory implementations of the taxonomy
// repositories. They mirror the PostgreSQL stores, constraints included,
// and back the import dry run and the service and handler tests.
package memstore

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"recree/internal/apperrors"
	"recree/internal/models"
)

// TopicStore is a concurrency-safe in-memory topic repository.
type TopicStore struct {
	mu        sync.RWMutex
	topics    map[uuid.UUID]models.Topic
	mutations int
	now       func() time.Time
}

// NewTopicStore returns an empty TopicStore.
func NewTopicStore() *TopicStore {
	return &TopicStore{topics: make(map[uuid.UUID]models.Topic), now: time.Now}
}

// Mutations returns how many writes have succeeded.
func (s *TopicStore) Mutations() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mutations
}

func (s *TopicStore) List(_ context.Context) ([]models.Topic, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]models.Topic, 0, len(s.topics))
	for _, t := range s.topics {
		items = append(items, t)
	}
	slices.SortFunc(items, func(a, b models.Topic) int {
		return cmp.Or(
			cmp.Compare(a.Level, b.Level),
			cmp.Compare(a.SortOrder, b.SortOrder),
			cmp.Compare(a.NameEn, b.NameEn),
			cmp.Compare(a.ID.String(), b.ID.String()),
		)
	})
	return items, nil
}

func (s *TopicStore) FindByID(_ context.Context, id uuid.UUID) (*models.Topic, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.topics[id]
	if !ok {
		return nil, apperrors.NotFound("topic", id.String())
	}
	return &t, nil
}

func (s *TopicStore) FindBySlug(_ context.Context, slug string) (*models.Topic, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, t := range s.topics {
		if t.Slug == slug {
			return &t, nil
		}
	}
	return nil, apperrors.NotFound("topic", slug)
}

func (s *TopicStore) SlugTaken(_ context.Context, slug string, exclude uuid.UUID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.slugTaken(slug, exclude), nil
}

func (s *TopicStore) slugTaken(slug string, exclude uuid.UUID) bool {
	for id, t := range s.topics {
		if t.Slug == slug && id != exclude {
			return true
		}
	}
	return false
}

func (s *TopicStore) CountChildren(_ context.Context, id uuid.UUID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.countChildren(id), nil
}

func (s *TopicStore) countChildren(id uuid.UUID) int {
	n := 0
	for _, t := range s.topics {
		if t.ParentID != nil && *t.ParentID == id {
			n++
		}
	}
	return n
}

func (s *TopicStore) NextSortOrder(_ context.Context, parentID *uuid.UUID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	next := 0
	for _, t := range s.topics {
		if sameParent(t.ParentID, parentID) && t.SortOrder >= next {
			next = t.SortOrder + 1
		}
	}
	return next, nil
}

func (s *TopicStore) Create(_ context.Context, t *models.Topic) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.slugTaken(t.Slug, uuid.Nil) {
		return apperrors.AlreadyExists("topic", "slug", t.Slug)
	}
	if t.ParentID != nil {
		if _, ok := s.topics[*t.ParentID]; !ok {
			return fmt.Errorf("create topic: parent %s does not exist", t.ParentID)
		}
	}

	t.ID = uuid.New()
	t.CreatedAt = s.now()
	t.UpdatedAt = t.CreatedAt
	s.topics[t.ID] = stored(*t)
	s.mutations++
	return nil
}

func (s *TopicStore) Update(_ context.Context, t *models.Topic, levelShift int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.topics[t.ID]; !ok {
		return apperrors.NotFound("topic", t.ID.String())
	}
	if s.slugTaken(t.Slug, t.ID) {
		return apperrors.AlreadyExists("topic", "slug", t.Slug)
	}

	now := s.now()
	t.UpdatedAt = now
	s.topics[t.ID] = stored(*t)

	if levelShift != 0 {
		for _, id := range s.descendants(t.ID) {
			d := s.topics[id]
			d.Level += levelShift
			d.UpdatedAt = now
			s.topics[id] = d
		}
	}
	s.mutations++
	return nil
}

func (s *TopicStore) descendants(id uuid.UUID) []uuid.UUID {
	var result []uuid.UUID
	queue := []uuid.UUID{id}
	seen := map[uuid.UUID]bool{id: true}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for cid, t := range s.topics {
			if t.ParentID != nil && *t.ParentID == cur && !seen[cid] {
				seen[cid] = true
				result = append(result, cid)
				queue = append(queue, cid)
			}
		}
	}
	return result
}

func (s *TopicStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.topics[id]; !ok {
		return apperrors.NotFound("topic", id.String())
	}
	if s.countChildren(id) > 0 {
		return fmt.Errorf("delete topic: %w", apperrors.ErrHasChildren)
	}
	delete(s.topics, id)
	s.mutations++
	return nil
}

// Reorder applies every position or none.
func (s *TopicStore) Reorder(_ context.Context, ids []uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range ids {
		if _, ok := s.topics[id]; !ok {
			return apperrors.NotFound("topics", id.String())
		}
	}
	now := s.now()
	for i, id := range ids {
		t := s.topics[id]
		t.SortOrder = i
		t.UpdatedAt = now
		s.topics[id] = t
	}
	s.mutations++
	return nil
}

// stored strips the virtual fields before a topic is kept.
func stored(t models.Topic) models.Topic {
	t.Children = nil
	t.EffectiveStyle = nil
	return t
}

func sameParent(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
