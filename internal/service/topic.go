// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"recree/internal/apperrors"
	"recree/internal/cache"
	"recree/internal/models"
	"recree/internal/taxonomy"
	"recree/internal/validate"
)

// TopicService manages the hierarchical topic taxonomy.
type TopicService struct {
	repo  TopicRepository
	cache Cache
}

// NewTopicService returns a TopicService. c may be nil to disable caching.
func NewTopicService(repo TopicRepository, c Cache) *TopicService {
	if c == nil {
		c = noopCache{}
	}
	return &TopicService{repo: repo, cache: c}
}

// Tree returns the topic forest with effective styles resolved. With
// activeOnly, inactive topics and everything below them are dropped and
// the result is served from the cache when present.
func (s *TopicService) Tree(ctx context.Context, activeOnly bool) ([]models.Topic, error) {
	var gen int64
	cacheable := false
	if activeOnly {
		gen, cacheable = s.cache.Generation(ctx)
		var cached []models.Topic
		if cacheable && s.cache.Get(ctx, gen, cache.TopicsKey(), &cached) {
			return cached, nil
		}
	}

	flat, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	forest := taxonomy.BuildTree(flat)
	taxonomy.ResolveTree(forest)

	if activeOnly {
		forest = taxonomy.Prune(forest)
	}
	if cacheable {
		s.cache.Set(ctx, gen, cache.TopicsKey(), forest)
	}
	return forest, nil
}

// List returns every topic as a flat list (level, then sort order) with
// effective styles filled in.
func (s *TopicService) List(ctx context.Context) ([]models.Topic, error) {
	flat, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	styles := taxonomy.ResolveFlat(flat)
	for i := range flat {
		eff := styles[flat[i].ID]
		flat[i].EffectiveStyle = &eff
	}
	return flat, nil
}

// Styles returns the effective style of every topic keyed by ID.
func (s *TopicService) Styles(ctx context.Context) (map[uuid.UUID]models.EffectiveStyle, error) {
	flat, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return taxonomy.ResolveFlat(flat), nil
}

// Get returns one topic with its effective style and direct children.
func (s *TopicService) Get(ctx context.Context, id uuid.UUID) (*models.Topic, error) {
	forest, err := s.Tree(ctx, false)
	if err != nil {
		return nil, err
	}
	t, ok := taxonomy.Find(forest, func(t *models.Topic) bool { return t.ID == id })
	if !ok {
		return nil, apperrors.NotFound("topic", id.String())
	}
	return t, nil
}

// PublicBySlug returns an active topic with its active subtree.
func (s *TopicService) PublicBySlug(ctx context.Context, slug string) (*models.Topic, error) {
	forest, err := s.Tree(ctx, true)
	if err != nil {
		return nil, err
	}
	t, ok := taxonomy.Find(forest, func(t *models.Topic) bool { return t.Slug == slug })
	if !ok {
		return nil, apperrors.NotFound("topic", slug)
	}
	return t, nil
}

// BySlug returns a topic by slug regardless of its active flag. No style
// is resolved.
func (s *TopicService) BySlug(ctx context.Context, slug string) (*models.Topic, error) {
	return s.repo.FindBySlug(ctx, slug)
}

// Create validates in and inserts a new topic at the end of its sibling group.
func (s *TopicService) Create(ctx context.Context, in models.TopicInput) (*models.Topic, error) {
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	if err := fillSlug(&in.Slug, in.NameEn); err != nil {
		return nil, err
	}

	flat, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	placement, err := taxonomy.NewIndex(flat).CheckPlacement(nil, in.ParentID)
	if err != nil {
		return nil, hierarchyError(err, in.ParentID)
	}
	if err := s.checkSlug(ctx, in.Slug, uuid.Nil); err != nil {
		return nil, err
	}

	order, err := s.repo.NextSortOrder(ctx, in.ParentID)
	if err != nil {
		return nil, err
	}

	t := &models.Topic{
		NameEn:      in.NameEn,
		NameKo:      in.NameKo,
		Slug:        in.Slug,
		Description: in.Description,
		ParentID:    in.ParentID,
		Level:       placement.Level,
		SortOrder:   order,
		Style:       in.Style,
		IsActive:    in.Active(),
	}
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, err
	}

	s.mutated(ctx, opCreate)
	slog.Info("topic created", "id", t.ID, "slug", t.Slug, "level", t.Level)
	return t, nil
}

// Update replaces the editable fields of a topic. A changed parent is a
// re-parent: it is checked for cycles and depth first, the topic is appended
// to the end of its new sibling group, and every descendant's level shifts
// with it.
func (s *TopicService) Update(ctx context.Context, id uuid.UUID, in models.TopicInput) (*models.Topic, error) {
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	if err := fillSlug(&in.Slug, in.NameEn); err != nil {
		return nil, err
	}

	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	flat, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	placement, err := taxonomy.NewIndex(flat).CheckPlacement(&id, in.ParentID)
	if err != nil {
		return nil, hierarchyError(err, in.ParentID)
	}
	if err := s.checkSlug(ctx, in.Slug, id); err != nil {
		return nil, err
	}

	t := *current
	t.NameEn = in.NameEn
	t.NameKo = in.NameKo
	t.Slug = in.Slug
	t.Description = in.Description
	t.Style = in.Style
	t.IsActive = in.Active()
	t.Level = placement.Level

	if !sameParent(current.ParentID, in.ParentID) {
		order, err := s.repo.NextSortOrder(ctx, in.ParentID)
		if err != nil {
			return nil, err
		}
		t.ParentID = in.ParentID
		t.SortOrder = order
	}

	if err := s.repo.Update(ctx, &t, placement.Shift); err != nil {
		return nil, err
	}

	s.mutated(ctx, opUpdate)
	slog.Info("topic updated", "id", t.ID, "slug", t.Slug, "level_shift", placement.Shift)
	return &t, nil
}

// Delete removes a childless topic. A topic with children is refused with
// an error naming how many children it still has.
func (s *TopicService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}

	n, err := s.repo.CountChildren(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return apperrors.HasChildren("topic", n)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.mutated(ctx, opDelete)
	slog.Info("topic deleted", "id", id)
	return nil
}

// Reorder sets the sort order of one sibling group to the order of ids.
// The group is taken from the first id's current parent and ids must list
// every member of it exactly once.
func (s *TopicService) Reorder(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return apperrors.InvalidInput("ids must not be empty")
	}

	flat, err := s.repo.List(ctx)
	if err != nil {
		return err
	}
	ix := taxonomy.NewIndex(flat)

	first, ok := ix.Get(ids[0])
	if !ok {
		return apperrors.InvalidInput(fmt.Sprintf("unknown topic id %s", ids[0]))
	}
	if err := checkSiblingOrder(ids, ix.Siblings(first.ParentID)); err != nil {
		return err
	}

	if err := s.repo.Reorder(ctx, ids); err != nil {
		return err
	}

	s.mutated(ctx, opReorder)
	slog.Info("topics reordered", "parent_id", first.ParentID, "count", len(ids))
	return nil
}

func (s *TopicService) checkSlug(ctx context.Context, slug string, exclude uuid.UUID) error {
	taken, err := s.repo.SlugTaken(ctx, slug, exclude)
	if err != nil {
		return err
	}
	if taken {
		return apperrors.AlreadyExists("topic", "slug", slug)
	}
	return nil
}

func (s *TopicService) mutated(ctx context.Context, op string) {
	s.cache.InvalidateAll(ctx)
	mutationsTotal.WithLabelValues("topic", op).Inc()
}
