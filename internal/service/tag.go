// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"recree/internal/apperrors"
	"recree/internal/cache"
	"recree/internal/models"
	"recree/internal/taxonomy"
	"recree/internal/validate"
)

// TagService manages the flat, grouped tag lists.
type TagService struct {
	repo  TagRepository
	cache Cache
}

// NewTagService returns a TagService. c may be nil to disable caching.
func NewTagService(repo TagRepository, c Cache) *TagService {
	if c == nil {
		c = noopCache{}
	}
	return &TagService{repo: repo, cache: c}
}

// List returns the tags of group ("" for every group) with effective
// styles resolved. With activeOnly, inactive tags are dropped and the
// result is served from the cache when present.
func (s *TagService) List(ctx context.Context, group string, activeOnly bool) ([]models.Tag, error) {
	key := cache.TagsKey(group)
	var gen int64
	cacheable := false
	if activeOnly {
		gen, cacheable = s.cache.Generation(ctx)
		var cached []models.Tag
		if cacheable && s.cache.Get(ctx, gen, key, &cached) {
			return cached, nil
		}
	}

	tags, err := s.repo.List(ctx, group)
	if err != nil {
		return nil, err
	}
	if activeOnly {
		active := make([]models.Tag, 0, len(tags))
		for _, t := range tags {
			if t.IsActive {
				active = append(active, t)
			}
		}
		tags = active
	}
	taxonomy.ResolveTags(tags)

	if cacheable {
		s.cache.Set(ctx, gen, key, tags)
	}
	return tags, nil
}

// Groups returns the distinct tag groups.
func (s *TagService) Groups(ctx context.Context) ([]string, error) {
	return s.repo.Groups(ctx)
}

// Get returns one tag with its effective style.
func (s *TagService) Get(ctx context.Context, id uuid.UUID) (*models.Tag, error) {
	t, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	eff := taxonomy.Resolve(t.Style, taxonomy.DefaultStyle())
	t.EffectiveStyle = &eff
	return t, nil
}

// Create validates in and appends a new tag to the end of its group.
func (s *TagService) Create(ctx context.Context, in models.TagInput) (*models.Tag, error) {
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	if err := fillSlug(&in.Slug, in.NameEn); err != nil {
		return nil, err
	}
	if err := s.checkSlug(ctx, in.Slug, uuid.Nil); err != nil {
		return nil, err
	}

	order, err := s.repo.NextSortOrder(ctx, in.Group)
	if err != nil {
		return nil, err
	}

	t := &models.Tag{
		NameEn:    in.NameEn,
		NameKo:    in.NameKo,
		Slug:      in.Slug,
		Group:     in.Group,
		SortOrder: order,
		Style:     in.Style,
		IsActive:  in.Active(),
	}
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, err
	}

	s.mutated(ctx, opCreate)
	slog.Info("tag created", "id", t.ID, "slug", t.Slug, "group", t.Group)
	return t, nil
}

// Update replaces the editable fields of a tag. Moving it to another group
// appends it to the end of that group.
func (s *TagService) Update(ctx context.Context, id uuid.UUID, in models.TagInput) (*models.Tag, error) {
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
	if err := s.checkSlug(ctx, in.Slug, id); err != nil {
		return nil, err
	}

	t := *current
	t.NameEn = in.NameEn
	t.NameKo = in.NameKo
	t.Slug = in.Slug
	t.Style = in.Style
	t.IsActive = in.Active()
	if in.Group != current.Group {
		order, err := s.repo.NextSortOrder(ctx, in.Group)
		if err != nil {
			return nil, err
		}
		t.Group = in.Group
		t.SortOrder = order
	}

	if err := s.repo.Update(ctx, &t); err != nil {
		return nil, err
	}

	s.mutated(ctx, opUpdate)
	slog.Info("tag updated", "id", t.ID, "slug", t.Slug)
	return &t, nil
}

// Delete removes a tag.
func (s *TagService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.mutated(ctx, opDelete)
	slog.Info("tag deleted", "id", id)
	return nil
}

// Reorder sets the sort order of one tag group to the order of ids. The
// group is taken from the first id and ids must list all of its tags.
func (s *TagService) Reorder(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return apperrors.InvalidInput("ids must not be empty")
	}

	first, err := s.repo.FindByID(ctx, ids[0])
	if errors.Is(err, apperrors.ErrNotFound) {
		return apperrors.InvalidInput(fmt.Sprintf("unknown tag id %s", ids[0]))
	}
	if err != nil {
		return err
	}
	members, err := s.repo.List(ctx, first.Group)
	if err != nil {
		return err
	}
	group := make([]uuid.UUID, len(members))
	for i, t := range members {
		group[i] = t.ID
	}
	if err := checkSiblingOrder(ids, group); err != nil {
		return err
	}

	if err := s.repo.Reorder(ctx, ids); err != nil {
		return err
	}

	s.mutated(ctx, opReorder)
	slog.Info("tags reordered", "group", first.Group, "count", len(ids))
	return nil
}

func (s *TagService) checkSlug(ctx context.Context, slug string, exclude uuid.UUID) error {
	taken, err := s.repo.SlugTaken(ctx, slug, exclude)
	if err != nil {
		return err
	}
	if taken {
		return apperrors.AlreadyExists("tag", "slug", slug)
	}
	return nil
}

func (s *TagService) mutated(ctx context.Context, op string) {
	s.cache.InvalidateAll(ctx)
	mutationsTotal.WithLabelValues("tag", op).Inc()
}
