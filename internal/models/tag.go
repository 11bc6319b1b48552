// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Tag is a flat taxonomy entry. Tags sharing a Group form one sibling
// group for ordering.
type Tag struct {
	ID        uuid.UUID `json:"id"`
	NameEn    string    `json:"name_en"`
	NameKo    string    `json:"name_ko"`
	Slug      string    `json:"slug"`
	Group     string    `json:"group"`
	SortOrder int       `json:"sort_order"`
	Style     Style     `json:"style"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	EffectiveStyle *EffectiveStyle `json:"effective_style,omitempty"`
}

// TagInput is the create/update payload for a tag.
type TagInput struct {
	NameEn   string `json:"name_en" yaml:"name_en" validate:"required,notblank,max=100"`
	NameKo   string `json:"name_ko" yaml:"name_ko" validate:"required,notblank,max=100"`
	Slug     string `json:"slug" yaml:"slug" validate:"omitempty,max=120,slug"`
	Group    string `json:"group" yaml:"-" validate:"required,max=60,slug"`
	Style    Style  `json:"style" yaml:"style"`
	IsActive *bool  `json:"is_active" yaml:"is_active"`
}

// Active returns the requested visibility, defaulting to active.
func (in *TagInput) Active() bool {
	return in.IsActive == nil || *in.IsActive
}
