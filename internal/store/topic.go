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

// TopicStore manages topics in the database.
type TopicStore struct {
	db database.DBTX
}

// NewTopicStore returns a new TopicStore.
func NewTopicStore(db database.DBTX) *TopicStore {
	return &TopicStore{db: db}
}

const topicColumns = `id, name_en, name_ko, slug, description, parent_id, level, sort_order,
	bg_color, bg_color2, gradient_dir, gradient_stop, text_color, is_active, created_at, updated_at`

// scanTopic scans a row into a Topic struct.
func scanTopic(row pgx.Row) (*models.Topic, error) {
	var t models.Topic
	err := row.Scan(
		&t.ID, &t.NameEn, &t.NameKo, &t.Slug, &t.Description, &t.ParentID, &t.Level, &t.SortOrder,
		&t.Style.BgColor, &t.Style.BgColor2, &t.Style.GradientDir, &t.Style.GradientStop, &t.Style.TextColor,
		&t.IsActive, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// List returns every topic ordered by level and sort_order. Parents always
// precede their children, which is the order ResolveFlat expects.
func (s *TopicStore) List(ctx context.Context) ([]models.Topic, error) {
	rows, err := s.db.Query(ctx, `SELECT `+topicColumns+` FROM topics ORDER BY level, sort_order, name_en`)
	if err != nil {
		return nil, fmt.Errorf("list topics: %w", err)
	}
	defer rows.Close()

	var items []models.Topic
	for rows.Next() {
		t, err := scanTopic(rows)
		if err != nil {
			return nil, fmt.Errorf("scan topic: %w", err)
		}
		items = append(items, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list topics: %w", err)
	}
	return items, nil
}

// FindByID retrieves a topic by ID.
func (s *TopicStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Topic, error) {
	t, err := scanTopic(s.db.QueryRow(ctx, `SELECT `+topicColumns+` FROM topics WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NotFound("topic", id.String())
	}
	if err != nil {
		return nil, fmt.Errorf("find topic by id: %w", err)
	}
	return t, nil
}

// FindBySlug retrieves a topic by its slug.
func (s *TopicStore) FindBySlug(ctx context.Context, slug string) (*models.Topic, error) {
	t, err := scanTopic(s.db.QueryRow(ctx, `SELECT `+topicColumns+` FROM topics WHERE slug = $1`, slug))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NotFound("topic", slug)
	}
	if err != nil {
		return nil, fmt.Errorf("find topic by slug: %w", err)
	}
	return t, nil
}

// SlugTaken reports whether another topic already uses slug. Pass uuid.Nil
// as exclude when creating.
func (s *TopicStore) SlugTaken(ctx context.Context, slug string, exclude uuid.UUID) (bool, error) {
	var taken bool
	err := s.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM topics WHERE slug = $1 AND id <> $2)`, slug, exclude,
	).Scan(&taken)
	if err != nil {
		return false, fmt.Errorf("check topic slug: %w", err)
	}
	return taken, nil
}

// CountChildren returns the number of direct children of a topic.
func (s *TopicStore) CountChildren(ctx context.Context, id uuid.UUID) (int, error) {
	var n int
	if err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM topics WHERE parent_id = $1`, id).Scan(&n); err != nil {
		return 0, fmt.Errorf("count topic children: %w", err)
	}
	return n, nil
}

// NextSortOrder returns the next sort_order value for a given parent
// (nil for the roots).
func (s *TopicStore) NextSortOrder(ctx context.Context, parentID *uuid.UUID) (int, error) {
	var next int
	err := s.db.QueryRow(ctx,
		`SELECT COALESCE(MAX(sort_order) + 1, 0) FROM topics WHERE parent_id IS NOT DISTINCT FROM $1`, parentID,
	).Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("next topic sort order: %w", err)
	}
	return next, nil
}

// Create inserts a new topic. ID and timestamps are filled from the database.
func (s *TopicStore) Create(ctx context.Context, t *models.Topic) error {
	err := s.db.QueryRow(ctx, `
		INSERT INTO topics (name_en, name_ko, slug, description, parent_id, level, sort_order,
			bg_color, bg_color2, gradient_dir, gradient_stop, text_color, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at, updated_at`,
		t.NameEn, t.NameKo, t.Slug, t.Description, t.ParentID, t.Level, t.SortOrder,
		t.Style.BgColor, t.Style.BgColor2, t.Style.GradientDir, t.Style.GradientStop, t.Style.TextColor, t.IsActive,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	if isUniqueViolation(err) {
		return apperrors.AlreadyExists("topic", "slug", t.Slug)
	}
	if err != nil {
		return fmt.Errorf("create topic: %w", err)
	}
	return nil
}

// shiftDescendantsSQL moves every descendant of $1 by $2 levels.
const shiftDescendantsSQL = `
	WITH RECURSIVE subtree AS (
		SELECT id FROM topics WHERE parent_id = $1
		UNION ALL
		SELECT t.id FROM topics t JOIN subtree s ON t.parent_id = s.id
	)
	UPDATE topics SET level = level + $2, updated_at = NOW()
	WHERE id IN (SELECT id FROM subtree)`

// Update writes every editable column of t. When levelShift is non-zero
// the topic changed depth and all of its descendants are shifted by the
// same amount in the same transaction.
func (s *TopicStore) Update(ctx context.Context, t *models.Topic, levelShift int) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	tag, err := tx.Exec(ctx, `
		UPDATE topics SET
			name_en = $1, name_ko = $2, slug = $3, description = $4, parent_id = $5,
			level = $6, sort_order = $7, bg_color = $8, bg_color2 = $9, gradient_dir = $10,
			gradient_stop = $11, text_color = $12, is_active = $13, updated_at = NOW()
		WHERE id = $14`,
		t.NameEn, t.NameKo, t.Slug, t.Description, t.ParentID,
		t.Level, t.SortOrder, t.Style.BgColor, t.Style.BgColor2, t.Style.GradientDir,
		t.Style.GradientStop, t.Style.TextColor, t.IsActive, t.ID,
	)
	if isUniqueViolation(err) {
		return apperrors.AlreadyExists("topic", "slug", t.Slug)
	}
	if err != nil {
		return fmt.Errorf("update topic: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("topic", t.ID.String())
	}

	if levelShift != 0 {
		if _, err := tx.Exec(ctx, shiftDescendantsSQL, t.ID, levelShift); err != nil {
			return fmt.Errorf("shift topic descendants: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit topic update: %w", err)
	}
	return nil
}

// Delete removes a topic by ID. The foreign key refuses to delete a topic
// that still has children; the error then carries the current child count.
func (s *TopicStore) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM topics WHERE id = $1`, id)
	if isForeignKeyViolation(err) {
		n, cerr := s.CountChildren(ctx, id)
		if cerr != nil {
			return fmt.Errorf("delete topic: %w", apperrors.ErrHasChildren)
		}
		return apperrors.HasChildren("topic", n)
	}
	if err != nil {
		return fmt.Errorf("delete topic: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("topic", id.String())
	}
	return nil
}

// Reorder sets sort_order to each ID's position in ids, in one transaction.
func (s *TopicStore) Reorder(ctx context.Context, ids []uuid.UUID) error {
	return reorder(ctx, s.db, "topics", ids)
}

// reorder writes sort_order = index for every id of table in one
// transaction. An id that matches no row aborts the whole write.
func reorder(ctx context.Context, db database.DBTX, table string, ids []uuid.UUID) error {
	tx, err := db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	query := `UPDATE ` + table + ` SET sort_order = $1, updated_at = NOW() WHERE id = $2`
	for i, id := range ids {
		tag, err := tx.Exec(ctx, query, i, id)
		if err != nil {
			return fmt.Errorf("reorder %s %s: %w", table, id, err)
		}
		if tag.RowsAffected() == 0 {
			return apperrors.NotFound(table, id.String())
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit reorder: %w", err)
	}
	return nil
}
