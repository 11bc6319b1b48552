// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"recree/internal/apperrors"
	"recree/internal/database"
	"recree/internal/models"
)

// TagStore manages tags in the database.
type TagStore struct {
	db database.DBTX
}

// NewTagStore returns a new TagStore.
func NewTagStore(db database.DBTX) *TagStore {
	return &TagStore{db: db}
}

const tagColumns = `id, name_en, name_ko, slug, group_key, sort_order,
	bg_color, bg_color2, gradient_dir, gradient_stop, text_color, is_active, created_at, updated_at`

func scanTag(row pgx.Row) (*models.Tag, error) {
	var t models.Tag
	err := row.Scan(
		&t.ID, &t.NameEn, &t.NameKo, &t.Slug, &t.Group, &t.SortOrder,
		&t.Style.BgColor, &t.Style.BgColor2, &t.Style.GradientDir, &t.Style.GradientStop, &t.Style.TextColor,
		&t.IsActive, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// List returns tags ordered by group and sort_order. An empty group
// returns every tag.
func (s *TagStore) List(ctx context.Context, group string) ([]models.Tag, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+tagColumns+` FROM tags
		WHERE $1 = '' OR group_key = $1
		ORDER BY group_key, sort_order, name_en`, group)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	defer rows.Close()

	var items []models.Tag
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		items = append(items, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	return items, nil
}

// Groups returns the distinct tag groups in alphabetical order.
func (s *TagStore) Groups(ctx context.Context) ([]string, error) {
	rows, err := s.db.Query(ctx, `SELECT DISTINCT group_key FROM tags ORDER BY group_key`)
	if err != nil {
		return nil, fmt.Errorf("list tag groups: %w", err)
	}
	groups, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("list tag groups: %w", err)
	}
	return groups, nil
}

// FindByID retrieves a tag by ID.
func (s *TagStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Tag, error) {
	t, err := scanTag(s.db.QueryRow(ctx, `SELECT `+tagColumns+` FROM tags WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NotFound("tag", id.String())
	}
	if err != nil {
		return nil, fmt.Errorf("find tag by id: %w", err)
	}
	return t, nil
}

// SlugTaken reports whether another tag already uses slug.
func (s *TagStore) SlugTaken(ctx context.Context, slug string, exclude uuid.UUID) (bool, error) {
	var taken bool
	err := s.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM tags WHERE slug = $1 AND id <> $2)`, slug, exclude,
	).Scan(&taken)
	if err != nil {
		return false, fmt.Errorf("check tag slug: %w", err)
	}
	return taken, nil
}

// NextSortOrder returns the next sort_order value within a group.
func (s *TagStore) NextSortOrder(ctx context.Context, group string) (int, error) {
	var next int
	err := s.db.QueryRow(ctx,
		`SELECT COALESCE(MAX(sort_order) + 1, 0) FROM tags WHERE group_key = $1`, group,
	).Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("next tag sort order: %w", err)
	}
	return next, nil
}

// Create inserts a new tag.
func (s *TagStore) Create(ctx context.Context, t *models.Tag) error {
	err := s.db.QueryRow(ctx, `
		INSERT INTO tags (name_en, name_ko, slug, group_key, sort_order,
			bg_color, bg_color2, gradient_dir, gradient_stop, text_color, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at`,
		t.NameEn, t.NameKo, t.Slug, t.Group, t.SortOrder,
		t.Style.BgColor, t.Style.BgColor2, t.Style.GradientDir, t.Style.GradientStop, t.Style.TextColor, t.IsActive,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	if isUniqueViolation(err) {
		return apperrors.AlreadyExists("tag", "slug", t.Slug)
	}
	if err != nil {
		return fmt.Errorf("create tag: %w", err)
	}
	return nil
}

// Update writes every editable column of t.
func (s *TagStore) Update(ctx context.Context, t *models.Tag) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE tags SET
			name_en = $1, name_ko = $2, slug = $3, group_key = $4, sort_order = $5,
			bg_color = $6, bg_color2 = $7, gradient_dir = $8, gradient_stop = $9,
			text_color = $10, is_active = $11, updated_at = NOW()
		WHERE id = $12`,
		t.NameEn, t.NameKo, t.Slug, t.Group, t.SortOrder,
		t.Style.BgColor, t.Style.BgColor2, t.Style.GradientDir, t.Style.GradientStop,
		t.Style.TextColor, t.IsActive, t.ID,
	)
	if isUniqueViolation(err) {
		return apperrors.AlreadyExists("tag", "slug", t.Slug)
	}
	if err != nil {
		return fmt.Errorf("update tag: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("tag", t.ID.String())
	}
	return nil
}

// Delete removes a tag by ID.
func (s *TagStore) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM tags WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete tag: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("tag", id.String())
	}
	return nil
}

// Reorder sets sort_order to each ID's position in ids, in one transaction.
func (s *TagStore) Reorder(ctx context.Context, ids []uuid.UUID) error {
	return reorder(ctx, s.db, "tags", ids)
}
