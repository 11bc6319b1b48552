// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package fixture loads a taxonomy from YAML and creates it through the
// services, so every validation and hierarchy rule applies to imports too.
package fixture

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"gopkg.in/yaml.v3"

	"recree/internal/apperrors"
	"recree/internal/models"
	"recree/internal/service"
	"recree/internal/slug"
)

// File is the document layout of an import file.
type File struct {
	Topics    []TopicNode `yaml:"topics"`
	TagGroups []TagGroup  `yaml:"tag_groups"`
}

// TopicNode is a topic with its nested children.
type TopicNode struct {
	models.TopicInput `yaml:",inline"`
	Children          []TopicNode `yaml:"children"`
}

// TagGroup lists the tags of one group in display order.
type TagGroup struct {
	Group string            `yaml:"group"`
	Tags  []models.TagInput `yaml:"tags"`
}

// Result counts what an import created and what it skipped because the
// slug was already taken.
type Result struct {
	TopicsCreated int
	TopicsSkipped int
	TagsCreated   int
	TagsSkipped   int
}

// Parse decodes an import file. Unknown keys are rejected.
func Parse(r io.Reader) (*File, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return &f, nil
		}
		return nil, fmt.Errorf("parse fixture: %w", err)
	}
	return &f, nil
}

// Importer creates the contents of a File.
type Importer struct {
	topics *service.TopicService
	tags   *service.TagService
}

// NewImporter returns an Importer writing through the given services.
func NewImporter(topics *service.TopicService, tags *service.TagService) *Importer {
	return &Importer{topics: topics, tags: tags}
}

// Apply creates every topic depth-first and then every tag. A missing slug
// is derived from the English name. Entries whose slug already exists are
// skipped; an existing topic still parents the
// children listed under it. The first other error stops the import.
func (im *Importer) Apply(ctx context.Context, f *File) (Result, error) {
	var res Result
	for _, node := range f.Topics {
		if err := im.applyTopic(ctx, node, nil, &res); err != nil {
			return res, err
		}
	}

	for _, g := range f.TagGroups {
		for _, in := range g.Tags {
			in.Group = g.Group
			if in.Slug == "" {
				in.Slug = slug.Generate(in.NameEn)
			}
			_, err := im.tags.Create(ctx, in)
			switch {
			case errors.Is(err, apperrors.ErrAlreadyExists):
				slog.Info("tag exists, skipped", "slug", in.Slug)
				res.TagsSkipped++
			case err != nil:
				return res, fmt.Errorf("tag %q: %w", in.Slug, err)
			default:
				res.TagsCreated++
			}
		}
	}
	return res, nil
}

func (im *Importer) applyTopic(ctx context.Context, node TopicNode, parent *models.Topic, res *Result) error {
	in := node.TopicInput
	in.ParentID = nil
	if in.Slug == "" {
		in.Slug = slug.Generate(in.NameEn)
	}
	if parent != nil {
		in.ParentID = &parent.ID
	}

	t, err := im.topics.Create(ctx, in)
	switch {
	case errors.Is(err, apperrors.ErrAlreadyExists):
		t, err = im.topics.BySlug(ctx, in.Slug)
		if err != nil {
			return fmt.Errorf("topic %q: %w", in.Slug, err)
		}
		slog.Info("topic exists, skipped", "slug", in.Slug)
		res.TopicsSkipped++
	case err != nil:
		return fmt.Errorf("topic %q: %w", in.Slug, err)
	default:
		res.TopicsCreated++
	}

	for _, child := range node.Children {
		if err := im.applyTopic(ctx, child, t, res); err != nil {
			return err
		}
	}
	return nil
}
