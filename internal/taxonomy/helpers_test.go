// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package taxonomy

import (
	"github.com/google/uuid"

	"recree/internal/models"
)

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }

// topic builds a topic with a deterministic ID derived from name.
func topic(name string, parent *models.Topic, sortOrder int) models.Topic {
	t := models.Topic{
		ID:        uuid.NewSHA1(uuid.NameSpaceOID, []byte(name)),
		NameEn:    name,
		NameKo:    name + "-ko",
		Slug:      name,
		SortOrder: sortOrder,
		IsActive:  true,
	}
	if parent != nil {
		pid := parent.ID
		t.ParentID = &pid
		t.Level = parent.Level + 1
	}
	return t
}

func ids(topics []models.Topic) []uuid.UUID {
	out := make([]uuid.UUID, len(topics))
	for i, t := range topics {
		out[i] = t.ID
	}
	return out
}

func names(topics []models.Topic) []string {
	out := make([]string, len(topics))
	for i, t := range topics {
		out[i] = t.NameEn
	}
	return out
}
