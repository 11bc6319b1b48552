// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package taxonomy holds the pure logic of the topic hierarchy: assembling a
// flat list into a forest, resolving inherited display styles, and checking
// that a re-parent keeps the tree acyclic and within the depth bound.
// Nothing here touches the database; callers load the flat list first.
package taxonomy

import (
	"cmp"
	"slices"

	"github.com/google/uuid"

	"recree/internal/models"
)

// BuildTree assembles a flat list of topics into a forest. Roots are topics
// without a parent or whose parent is not part of the input. Siblings are
// ordered by sort_order (then English name) at every level.
func BuildTree(flat []models.Topic) []models.Topic {
	present := make(map[uuid.UUID]bool, len(flat))
	for _, t := range flat {
		present[t.ID] = true
	}

	b := &treeBuilder{
		children: make(map[uuid.UUID][]models.Topic),
		seen:     make(map[uuid.UUID]bool, len(flat)),
	}

	var roots []models.Topic
	for _, t := range flat {
		t.Children = nil
		if t.IsRoot() || !present[*t.ParentID] {
			roots = append(roots, t)
			continue
		}
		b.children[*t.ParentID] = append(b.children[*t.ParentID], t)
	}

	forest := b.attach(roots)

	// Members of a parent cycle never hang below a root. Surface them as
	// roots instead of dropping them.
	for _, t := range flat {
		if !b.seen[t.ID] {
			t.Children = nil
			forest = append(forest, b.attach([]models.Topic{t})...)
		}
	}
	return forest
}

type treeBuilder struct {
	children map[uuid.UUID][]models.Topic
	seen     map[uuid.UUID]bool
}

func (b *treeBuilder) attach(nodes []models.Topic) []models.Topic {
	result := make([]models.Topic, 0, len(nodes))
	for _, n := range nodes {
		if b.seen[n.ID] {
			continue
		}
		b.seen[n.ID] = true
		result = append(result, n)
	}
	SortSiblings(result)

	for i := range result {
		if kids := b.children[result[i].ID]; len(kids) > 0 {
			result[i].Children = b.attach(kids)
		}
	}
	return result
}

// SortSiblings orders topics ascending by sort_order, breaking ties by
// English name so output is deterministic.
func SortSiblings(topics []models.Topic) {
	slices.SortStableFunc(topics, func(a, b models.Topic) int {
		if c := cmp.Compare(a.SortOrder, b.SortOrder); c != 0 {
			return c
		}
		return cmp.Compare(a.NameEn, b.NameEn)
	})
}

// Flatten walks a forest depth-first (pre-order) and returns every node.
func Flatten(forest []models.Topic) []models.Topic {
	var result []models.Topic
	flattenInto(forest, &result)
	return result
}

func flattenInto(nodes []models.Topic, result *[]models.Topic) {
	for _, n := range nodes {
		*result = append(*result, n)
		if len(n.Children) > 0 {
			flattenInto(n.Children, result)
		}
	}
}

// Find returns the first node in the forest matching pred, searching pre-order.
func Find(forest []models.Topic, pred func(*models.Topic) bool) (*models.Topic, bool) {
	for i := range forest {
		if pred(&forest[i]) {
			return &forest[i], true
		}
		if found, ok := Find(forest[i].Children, pred); ok {
			return found, true
		}
	}
	return nil, false
}

// Prune removes inactive nodes together with their subtrees.
func Prune(forest []models.Topic) []models.Topic {
	result := make([]models.Topic, 0, len(forest))
	for _, n := range forest {
		if !n.IsActive {
			continue
		}
		n.Children = Prune(n.Children)
		if len(n.Children) == 0 {
			n.Children = nil
		}
		result = append(result, n)
	}
	return result
}
