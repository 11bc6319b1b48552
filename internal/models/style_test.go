// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGradientDirectionCSS(t *testing.T) {
	assert.Equal(t, "to right", GradientToRight.CSS())
	assert.Equal(t, "to bottom right", GradientToBottomRight.CSS())
	assert.Equal(t, "to top left", GradientToTopLeft.CSS())
}

func TestEffectiveStyleBackground(t *testing.T) {
	solid := EffectiveStyle{BgColor: "#C6FD09", GradientDir: GradientToRight, GradientStop: 50, TextColor: "#000000"}
	assert.Equal(t, "#C6FD09", solid.Background())

	second := "#333333"
	gradient := EffectiveStyle{BgColor: "#222222", BgColor2: &second, GradientDir: GradientToBottom, GradientStop: 30}
	assert.Equal(t, "linear-gradient(to bottom, #222222 30%, #333333)", gradient.Background())
}

func TestEffectiveStyleJSONIncludesBackground(t *testing.T) {
	second := "#333333"
	raw, err := json.Marshal(EffectiveStyle{BgColor: "#222222", BgColor2: &second, GradientDir: GradientToBottom, GradientStop: 30, TextColor: "#FFFFFF"})
	assert.NoError(t, err)
	assert.JSONEq(t, `{
		"bg_color": "#222222",
		"bg_color2": "#333333",
		"gradient_dir": "to-bottom",
		"gradient_stop": 30,
		"text_color": "#FFFFFF",
		"background": "linear-gradient(to bottom, #222222 30%, #333333)"
	}`, string(raw))

	// Pointers marshal the same way, as on Topic.EffectiveStyle.
	solid := &EffectiveStyle{BgColor: "#C6FD09", GradientDir: GradientToRight, GradientStop: 50, TextColor: "#000000"}
	raw, err = json.Marshal(struct {
		S *EffectiveStyle `json:"s"`
	}{solid})
	assert.NoError(t, err)
	assert.Contains(t, string(raw), `"background":"#C6FD09"`)
}

func TestInputActiveDefaultsToTrue(t *testing.T) {
	off := false
	assert.True(t, (&TopicInput{}).Active())
	assert.False(t, (&TopicInput{IsActive: &off}).Active())
	assert.True(t, (&TagInput{}).Active())
	assert.False(t, (&TagInput{IsActive: &off}).Active())
}
