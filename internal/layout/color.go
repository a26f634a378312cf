package layout

import (
	"fmt"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// DarkenFactor scales the color channels of even rows.
const DarkenFactor = 0.8

// Color is an RGBA tint with channels in [0, 1].
type Color struct {
	R, G, B, A float64
}

// ParseHex reads a "#rrggbb" color as an opaque tint.
func ParseHex(s string) (Color, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return Color{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return Color{R: c.R, G: c.G, B: c.B, A: 1}, nil
}

// Darken multiplies each color channel by DarkenFactor and forces full opacity.
func (c Color) Darken() Color {
	return Color{
		R: c.R * DarkenFactor,
		G: c.G * DarkenFactor,
		B: c.B * DarkenFactor,
		A: 1,
	}
}

// Hex formats the color channels as "#rrggbb"; alpha is dropped.
func (c Color) Hex() string {
	return colorful.Color{R: c.R, G: c.G, B: c.B}.Clamped().Hex()
}
