package tree

import (
	"fmt"
	"strconv"
	"strings"
)

// Color is an opaque RGB color.
type Color struct {
	R, G, B uint8
}

// Hex returns the color as "#RRGGBB".
func (c Color) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

func (c Color) String() string { return c.Hex() }

// ParseColor parses "#RRGGBB" or "RRGGBB", case-insensitive.
func ParseColor(s string) (Color, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return Color{}, fmt.Errorf("invalid color %q: want 6 hex digits", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}

// Palette is the fixed color cycle used by the layout processor.
var Palette = [...]Color{
	{0xFA, 0xCE, 0xD2},
	{0xB9, 0xD6, 0xFF},
	{0xE5, 0xE5, 0xE5},
	{0xFF, 0xE7, 0xC7},
	{0xAB, 0xEB, 0xEE},
	{0xE4, 0xD1, 0xFC},
	{0xFF, 0xFF, 0xFF},
	{0xCD, 0xF9, 0xD4},
}

// StartColor is the color given to an uncolored root.
func StartColor() Color { return Palette[0] }

// NextColor returns the palette entry following current, wrapping at the end.
// An unset color, or one outside the palette, yields the first entry.
// The signature matches [Node.Color] so calls can be chained:
//
//	tree.NextColor(n.Color())
func NextColor(current Color, ok bool) Color {
	if !ok {
		return Palette[0]
	}
	for i, c := range Palette {
		if c == current {
			return Palette[(i+1)%len(Palette)]
		}
	}
	return Palette[0]
}
