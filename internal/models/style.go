// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// GradientDirection is the direction token of a two-color background.
type GradientDirection string

const (
	GradientToRight       GradientDirection = "to-right"
	GradientToLeft        GradientDirection = "to-left"
	GradientToBottom      GradientDirection = "to-bottom"
	GradientToTop         GradientDirection = "to-top"
	GradientToBottomRight GradientDirection = "to-bottom-right"
	GradientToBottomLeft  GradientDirection = "to-bottom-left"
	GradientToTopRight    GradientDirection = "to-top-right"
	GradientToTopLeft     GradientDirection = "to-top-left"
)

// CSS returns the direction in linear-gradient syntax, e.g. "to bottom right".
func (d GradientDirection) CSS() string {
	return strings.ReplaceAll(string(d), "-", " ")
}

// Style holds the explicit display colors stored on a topic or tag. Every
// field is optional; a nil BgColor means the background bundle is inherited.
type Style struct {
	BgColor      *string            `json:"bg_color,omitempty" yaml:"bg_color,omitempty" validate:"omitempty,hex"`
	BgColor2     *string            `json:"bg_color2,omitempty" yaml:"bg_color2,omitempty" validate:"omitempty,hex"`
	GradientDir  *GradientDirection `json:"gradient_dir,omitempty" yaml:"gradient_dir,omitempty" validate:"omitempty,oneof=to-right to-left to-bottom to-top to-bottom-right to-bottom-left to-top-right to-top-left"`
	GradientStop *int               `json:"gradient_stop,omitempty" yaml:"gradient_stop,omitempty" validate:"omitempty,min=0,max=100"`
	TextColor    *string            `json:"text_color,omitempty" yaml:"text_color,omitempty" validate:"omitempty,hex"`
}

// EffectiveStyle is the fully resolved style of a node after inheritance.
type EffectiveStyle struct {
	BgColor      string            `json:"bg_color"`
	BgColor2     *string           `json:"bg_color2"`
	GradientDir  GradientDirection `json:"gradient_dir"`
	GradientStop int               `json:"gradient_stop"`
	TextColor    string            `json:"text_color"`
}

// Background renders the CSS background value: a plain color, or a
// linear-gradient when a second color is present.
func (e EffectiveStyle) Background() string {
	if e.BgColor2 == nil {
		return e.BgColor
	}
	return fmt.Sprintf("linear-gradient(%s, %s %d%%, %s)",
		e.GradientDir.CSS(), e.BgColor, e.GradientStop, *e.BgColor2)
}

// MarshalJSON adds the derived background to the stored fields so clients
// can apply it without rebuilding the gradient themselves.
func (e EffectiveStyle) MarshalJSON() ([]byte, error) {
	type fields EffectiveStyle
	return json.Marshal(struct {
		fields
		Background string `json:"background"`
	}{fields(e), e.Background()})
}
