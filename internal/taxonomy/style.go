// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package taxonomy

import (
	"cmp"
	"slices"

	"github.com/google/uuid"

	"recree/internal/models"
)

// Global fallback colors applied when no ancestor defines a style.
const (
	DefaultBgColor      = "#C6FD09"
	DefaultTextColor    = "#000000"
	DefaultGradientStop = 50
)

// DefaultStyle returns the style used when neither a node nor any of its
// ancestors sets a background.
func DefaultStyle() models.EffectiveStyle {
	return models.EffectiveStyle{
		BgColor:      DefaultBgColor,
		GradientDir:  models.GradientToRight,
		GradientStop: DefaultGradientStop,
		TextColor:    DefaultTextColor,
	}
}

// Resolve computes a node's effective style from its own explicit style and
// the effective style of its parent. The result is also what the node's
// children inherit.
//
// Background and text follow separate chains. An explicit background
// replaces the whole background bundle (second color, direction and stop
// fall back to the defaults when unset on this node); without one the
// parent's bundle is copied unchanged. Text color is the node's own when set
// and the inherited one otherwise.
func Resolve(own models.Style, inherited models.EffectiveStyle) models.EffectiveStyle {
	eff := inherited

	if own.BgColor != nil {
		def := DefaultStyle()
		eff.BgColor = *own.BgColor
		eff.BgColor2 = nil
		if own.BgColor2 != nil {
			second := *own.BgColor2
			eff.BgColor2 = &second
		}
		eff.GradientDir = def.GradientDir
		if own.GradientDir != nil {
			eff.GradientDir = *own.GradientDir
		}
		eff.GradientStop = def.GradientStop
		if own.GradientStop != nil {
			eff.GradientStop = *own.GradientStop
		}
	}

	if own.TextColor != nil {
		eff.TextColor = *own.TextColor
	}
	return eff
}

// ResolveTree fills EffectiveStyle on every node of the forest, walking
// top-down from the default style.
func ResolveTree(forest []models.Topic) {
	resolveLevel(forest, DefaultStyle())
}

func resolveLevel(nodes []models.Topic, inherited models.EffectiveStyle) {
	for i := range nodes {
		eff := Resolve(nodes[i].Style, inherited)
		nodes[i].EffectiveStyle = &eff
		resolveLevel(nodes[i].Children, eff)
	}
}

// ResolveFlat returns the effective style of every topic keyed by ID without
// building a tree. Topics are processed by ascending level so a parent is
// always resolved before its children; a parent missing from the input is
// treated as the default style.
func ResolveFlat(flat []models.Topic) map[uuid.UUID]models.EffectiveStyle {
	ordered := slices.Clone(flat)
	slices.SortStableFunc(ordered, func(a, b models.Topic) int {
		if c := cmp.Compare(a.Level, b.Level); c != 0 {
			return c
		}
		return cmp.Compare(a.SortOrder, b.SortOrder)
	})

	styles := make(map[uuid.UUID]models.EffectiveStyle, len(ordered))
	for _, t := range ordered {
		inherited := DefaultStyle()
		if t.ParentID != nil {
			if parent, ok := styles[*t.ParentID]; ok {
				inherited = parent
			}
		}
		styles[t.ID] = Resolve(t.Style, inherited)
	}
	return styles
}

// ResolveTags fills EffectiveStyle on flat tags, which only inherit from
// the default style.
func ResolveTags(tags []models.Tag) {
	for i := range tags {
		eff := Resolve(tags[i].Style, DefaultStyle())
		tags[i].EffectiveStyle = &eff
	}
}
