// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package taxonomy

import (
	"errors"

	"github.com/google/uuid"

	"recree/internal/models"
)

// MaxLevel is the deepest level a topic may sit at (roots are level 0).
const MaxLevel = 2

var (
	// ErrCycle is returned when a topic would be placed under itself or one
	// of its own descendants.
	ErrCycle = errors.New("topic cannot be moved under itself or one of its descendants")

	// ErrDepthExceeded is returned when a placement would push the topic or
	// one of its descendants below MaxLevel.
	ErrDepthExceeded = errors.New("topic tree would exceed the maximum depth")

	// ErrParentNotFound is returned when the requested parent does not exist.
	ErrParentNotFound = errors.New("parent topic not found")
)

// Index is a parent/child lookup over a flat topic list.
type Index struct {
	byID     map[uuid.UUID]models.Topic
	children map[uuid.UUID][]uuid.UUID
	roots    []uuid.UUID
}

// NewIndex builds an Index from a flat list of topics.
func NewIndex(flat []models.Topic) *Index {
	ix := &Index{
		byID:     make(map[uuid.UUID]models.Topic, len(flat)),
		children: make(map[uuid.UUID][]uuid.UUID),
	}
	for _, t := range flat {
		ix.byID[t.ID] = t
	}
	for _, t := range flat {
		if t.IsRoot() {
			ix.roots = append(ix.roots, t.ID)
			continue
		}
		ix.children[*t.ParentID] = append(ix.children[*t.ParentID], t.ID)
	}
	return ix
}

// Get returns the topic with the given ID.
func (ix *Index) Get(id uuid.UUID) (models.Topic, bool) {
	t, ok := ix.byID[id]
	return t, ok
}

// ChildCount returns the number of direct children of id.
func (ix *Index) ChildCount(id uuid.UUID) int {
	return len(ix.children[id])
}

// Siblings returns the IDs in the sibling group identified by parentID
// (nil for the roots).
func (ix *Index) Siblings(parentID *uuid.UUID) []uuid.UUID {
	if parentID == nil {
		return ix.roots
	}
	return ix.children[*parentID]
}

// Descendants returns every descendant of id, breadth-first.
func (ix *Index) Descendants(id uuid.UUID) []uuid.UUID {
	var result []uuid.UUID
	seen := map[uuid.UUID]bool{id: true}
	queue := []uuid.UUID{id}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, child := range ix.children[cur] {
			if seen[child] {
				continue
			}
			seen[child] = true
			result = append(result, child)
			queue = append(queue, child)
		}
	}
	return result
}

// IsDescendant reports whether candidate lies in the subtree below ancestor.
func (ix *Index) IsDescendant(candidate, ancestor uuid.UUID) bool {
	for _, d := range ix.Descendants(ancestor) {
		if d == candidate {
			return true
		}
	}
	return false
}

// SubtreeDepth returns how many levels hang below id: 0 for a leaf, 1 when
// it only has children, 2 when it has grandchildren.
func (ix *Index) SubtreeDepth(id uuid.UUID) int {
	return ix.subtreeDepth(id, map[uuid.UUID]bool{})
}

func (ix *Index) subtreeDepth(id uuid.UUID, visiting map[uuid.UUID]bool) int {
	visiting[id] = true
	defer delete(visiting, id)

	deepest := 0
	for _, child := range ix.children[id] {
		if visiting[child] {
			continue
		}
		if d := ix.subtreeDepth(child, visiting) + 1; d > deepest {
			deepest = d
		}
	}
	return deepest
}

// Placement is the outcome of a successful CheckPlacement.
type Placement struct {
	Level int // new level of the placed topic
	Shift int // level delta applied to every existing descendant
}

// CheckPlacement validates putting a topic under parentID (nil for root).
// nodeID is nil when the topic is being created. It rejects a parent that is
// the topic itself or one of its descendants, and any placement where
// parentLevel + 1 + SubtreeDepth(node) exceeds MaxLevel.
func (ix *Index) CheckPlacement(nodeID, parentID *uuid.UUID) (Placement, error) {
	level := 0
	if parentID != nil {
		parent, ok := ix.byID[*parentID]
		if !ok {
			return Placement{}, ErrParentNotFound
		}
		if nodeID != nil && (*parentID == *nodeID || ix.IsDescendant(*parentID, *nodeID)) {
			return Placement{}, ErrCycle
		}
		level = parent.Level + 1
	}

	depth := 0
	shift := 0
	if nodeID != nil {
		depth = ix.SubtreeDepth(*nodeID)
		if current, ok := ix.byID[*nodeID]; ok {
			shift = level - current.Level
		}
	}
	if level+depth > MaxLevel {
		return Placement{}, ErrDepthExceeded
	}
	return Placement{Level: level, Shift: shift}, nil
}
