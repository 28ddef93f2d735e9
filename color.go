package scanout

import "image/color"

// RGBA represents a solid-fill color with components in the range [0, 1].
// Paint nodes whose surface is a single-pixel or solid-color fill carry one
// of these instead of a scanout-capable buffer.
type RGBA struct {
	R, G, B, A float64
}

// Common fill colors.
var (
	Black       = RGBA{0, 0, 0, 1}
	White       = RGBA{1, 1, 1, 1}
	Transparent = RGBA{0, 0, 0, 0}
)

// Color converts RGBA to the standard color.Color interface.
func (c RGBA) Color() color.Color {
	return color.NRGBA{
		R: uint8(clamp255(c.R * 255)),
		G: uint8(clamp255(c.G * 255)),
		B: uint8(clamp255(c.B * 255)),
		A: uint8(clamp255(c.A * 255)),
	}
}

// FromColor converts a standard color.Color to RGBA.
func FromColor(c color.Color) RGBA {
	r, g, b, a := c.RGBA()
	return RGBA{
		R: float64(r) / 65535,
		G: float64(g) / 65535,
		B: float64(b) / 65535,
		A: float64(a) / 65535,
	}
}

// IsOpaque reports whether the color has full alpha.
func (c RGBA) IsOpaque() bool { return c.A >= 1 }

// IsBlack reports whether the color is pure black, ignoring alpha.
// The CRTC's implicit background is black, which is what makes opaque
// black fills redundant in planes-only mode.
func (c RGBA) IsBlack() bool { return c.R == 0 && c.G == 0 && c.B == 0 }

func clamp255(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}
