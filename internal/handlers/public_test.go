// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recree/internal/models"
)

func TestPublic_OnlyActiveEntries(t *testing.T) {
	s := newTaxonomyServer()
	ctx := context.Background()
	off := false

	music, err := s.topics.Create(ctx, models.TopicInput{NameEn: "Music", NameKo: "음악", Slug: "music"})
	require.NoError(t, err)
	_, err = s.topics.Create(ctx, models.TopicInput{NameEn: "Jazz", NameKo: "재즈", Slug: "jazz", ParentID: &music.ID})
	require.NoError(t, err)
	_, err = s.topics.Create(ctx, models.TopicInput{NameEn: "Draft", NameKo: "초안", Slug: "draft", ParentID: &music.ID, IsActive: &off})
	require.NoError(t, err)
	_, err = s.tags.Create(ctx, models.TagInput{NameEn: "Calm", NameKo: "차분한", Slug: "calm", Group: "mood"})
	require.NoError(t, err)
	_, err = s.tags.Create(ctx, models.TagInput{NameEn: "Old", NameKo: "옛", Slug: "old", Group: "mood", IsActive: &off})
	require.NoError(t, err)

	var forest []models.Topic
	rr := s.do(t, http.MethodGet, "/api/topics", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	decodeData(t, rr, &forest)
	require.Len(t, forest, 1)
	require.Len(t, forest[0].Children, 1)
	assert.Equal(t, "jazz", forest[0].Children[0].Slug)

	var jazz models.Topic
	rr = s.do(t, http.MethodGet, "/api/topics/jazz", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	decodeData(t, rr, &jazz)
	require.NotNil(t, jazz.EffectiveStyle)
	assert.Equal(t, "#C6FD09", jazz.EffectiveStyle.BgColor)

	rr = s.do(t, http.MethodGet, "/api/topics/draft", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	var tags []models.Tag
	decodeData(t, s.do(t, http.MethodGet, "/api/tags?group=mood", nil), &tags)
	require.Len(t, tags, 1)
	assert.Equal(t, "calm", tags[0].Slug)
}

func TestPublic_TopicCarriesBackground(t *testing.T) {
	s := newTaxonomyServer()
	dir := models.GradientToBottom
	first, second := "#111111", "#222222"
	_, err := s.topics.Create(context.Background(), models.TopicInput{
		NameEn: "Beach", NameKo: "해변", Slug: "beach",
		Style: models.Style{BgColor: &first, BgColor2: &second, GradientDir: &dir},
	})
	require.NoError(t, err)

	var got struct {
		EffectiveStyle struct {
			Background string `json:"background"`
		} `json:"effective_style"`
	}
	rr := s.do(t, http.MethodGet, "/api/topics/beach", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	decodeData(t, rr, &got)
	assert.Equal(t, "linear-gradient(to bottom, #111111 50%, #222222)", got.EffectiveStyle.Background)

	var tags []struct {
		EffectiveStyle struct {
			Background string `json:"background"`
		} `json:"effective_style"`
	}
	_, err = s.tags.Create(context.Background(), models.TagInput{NameEn: "Calm", NameKo: "차분한", Slug: "calm", Group: "mood"})
	require.NoError(t, err)
	decodeData(t, s.do(t, http.MethodGet, "/api/tags", nil), &tags)
	require.Len(t, tags, 1)
	assert.Equal(t, "#C6FD09", tags[0].EffectiveStyle.Background)
}
