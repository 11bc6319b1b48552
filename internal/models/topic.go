// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Topic is a node of the hierarchical taxonomy (levels 0 to 2).
type Topic struct {
	ID          uuid.UUID  `json:"id"`
	NameEn      string     `json:"name_en"`
	NameKo      string     `json:"name_ko"`
	Slug        string     `json:"slug"`
	Description string     `json:"description"`
	ParentID    *uuid.UUID `json:"parent_id"`
	Level       int        `json:"level"`
	SortOrder   int        `json:"sort_order"`
	Style       Style      `json:"style"`
	IsActive    bool       `json:"is_active"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// Virtual fields populated by the tree builder and style resolver.
	Children       []Topic         `json:"children,omitempty"`
	EffectiveStyle *EffectiveStyle `json:"effective_style,omitempty"`
}

// IsRoot reports whether the topic has no parent.
func (t *Topic) IsRoot() bool {
	return t.ParentID == nil
}

// TopicInput is the create/update payload for a topic. Updates replace
// every field, including the parent.
type TopicInput struct {
	NameEn      string     `json:"name_en" yaml:"name_en" validate:"required,notblank,max=100"`
	NameKo      string     `json:"name_ko" yaml:"name_ko" validate:"required,notblank,max=100"`
	Slug        string     `json:"slug" yaml:"slug" validate:"omitempty,max=120,slug"`
	Description string     `json:"description" yaml:"description" validate:"max=2000"`
	ParentID    *uuid.UUID `json:"parent_id" yaml:"-"`
	Style       Style      `json:"style" yaml:"style"`
	IsActive    *bool      `json:"is_active" yaml:"is_active"`
}

// Active returns the requested visibility, defaulting to active.
func (in *TopicInput) Active() bool {
	return in.IsActive == nil || *in.IsActive
}
