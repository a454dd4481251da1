// Package core provides the visual tree types shared by the renderer
// and the highlighter.
package core

import (
	"fmt"
	"strconv"
	"strings"
)

// Attribute represents text attributes (bold, italic, etc.).
type Attribute uint8

// Text attribute flags.
const (
	AttrNone          Attribute = 0
	AttrBold          Attribute = 1 << iota
	AttrItalic                  // Italic text
	AttrUnderline               // Underlined text
	AttrStrikethrough           // Line-through text
)

// Has returns true if the attribute set contains the given attribute.
func (a Attribute) Has(attr Attribute) bool {
	return a&attr != 0
}

// With returns a new attribute set with the given attribute added.
func (a Attribute) With(attr Attribute) Attribute {
	return a | attr
}

// Color is an RGB color. The zero value is "unset" and emits no CSS.
type Color struct {
	R, G, B uint8
	Set     bool
}

// ColorUnset leaves the inherited color in place.
var ColorUnset = Color{}

// ColorFromRGB creates a color from RGB components.
func ColorFromRGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b, Set: true}
}

// ColorFromHex creates a color from a "#rgb" or "#rrggbb" string.
func ColorFromHex(hex string) (Color, error) {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return Color{}, fmt.Errorf("invalid hex color length: %s", hex)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("invalid hex color: %s", hex)
	}
	return ColorFromRGB(uint8(v>>16), uint8(v>>8), uint8(v)), nil
}

// IsSet reports whether the color carries a value.
func (c Color) IsSet() bool {
	return c.Set
}

// ToHex returns the "#RRGGBB" form, or "" for an unset color.
func (c Color) ToHex() string {
	if !c.Set {
		return ""
	}
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// String returns a string representation of the color.
func (c Color) String() string {
	if !c.Set {
		return "unset"
	}
	return c.ToHex()
}

// Style is the inline presentation of a styled token.
type Style struct {
	Foreground Color
	Background Color
	Attributes Attribute
}

// NewStyle creates a style with the given foreground color.
func NewStyle(fg Color) Style {
	return Style{Foreground: fg}
}

// WithBackground returns a new style with the given background color.
func (s Style) WithBackground(bg Color) Style {
	s.Background = bg
	return s
}

// Bold returns a new style with bold attribute added.
func (s Style) Bold() Style {
	s.Attributes |= AttrBold
	return s
}

// Italic returns a new style with italic attribute added.
func (s Style) Italic() Style {
	s.Attributes |= AttrItalic
	return s
}

// Underline returns a new style with underline attribute added.
func (s Style) Underline() Style {
	s.Attributes |= AttrUnderline
	return s
}

// Strikethrough returns a new style with strikethrough attribute added.
func (s Style) Strikethrough() Style {
	s.Attributes |= AttrStrikethrough
	return s
}

// IsZero returns true if the style sets nothing.
func (s Style) IsZero() bool {
	return !s.Foreground.Set && !s.Background.Set && s.Attributes == AttrNone
}

// CSS returns the style as an inline CSS declaration list.
func (s Style) CSS() string {
	var decls []string
	if s.Foreground.Set {
		decls = append(decls, "color:"+s.Foreground.ToHex())
	}
	if s.Background.Set {
		decls = append(decls, "background-color:"+s.Background.ToHex())
	}
	if s.Attributes.Has(AttrBold) {
		decls = append(decls, "font-weight:bold")
	}
	if s.Attributes.Has(AttrItalic) {
		decls = append(decls, "font-style:italic")
	}
	switch {
	case s.Attributes.Has(AttrUnderline) && s.Attributes.Has(AttrStrikethrough):
		decls = append(decls, "text-decoration:underline line-through")
	case s.Attributes.Has(AttrUnderline):
		decls = append(decls, "text-decoration:underline")
	case s.Attributes.Has(AttrStrikethrough):
		decls = append(decls, "text-decoration:line-through")
	}
	return strings.Join(decls, ";")
}
