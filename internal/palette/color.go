// Package palette provides the color and math helpers shared by every sky entity.
package palette

import (
	"fmt"
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// RGB is an opaque 8-bit color.
type RGB struct {
	R, G, B uint8
}

// RGBA pairs a color with a separate opacity in [0, 1].
// Opacity is kept apart from the channels so entities can mutate it freely and
// only format it when drawing.
type RGBA struct {
	RGB
	A float64
}

// Transparent is fully transparent black, the terminal stop of every falloff.
var Transparent = RGBA{}

// WithAlpha returns c at opacity a.
func (c RGB) WithAlpha(a float64) RGBA {
	return RGBA{RGB: c, A: Clamp01(a)}
}

// Brightness is the channel sum, used to rank colors.
func (c RGB) Brightness() int {
	return int(c.R) + int(c.G) + int(c.B)
}

// Hex returns the color as "#rrggbb".
func (c RGB) Hex() string {
	return c.colorful().Hex()
}

func (c RGB) colorful() colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

// Mix blends a and b, weighting a by ratio and b by 1-ratio.
func Mix(a, b RGB, ratio float64) RGB {
	ratio = Clamp01(ratio)
	r, g, bl := a.colorful().BlendRgb(b.colorful(), 1-ratio).Clamped().RGB255()
	return RGB{R: r, G: g, B: bl}
}

// NRGBA converts to the non-premultiplied form image/draw expects.
func (c RGBA) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: uint8(math.Round(Clamp01(c.A) * 255))}
}

// CSS formats the color the way a 2D canvas fill style would spell it.
func (c RGBA) CSS() string {
	return fmt.Sprintf("rgba(%d, %d, %d, %g)", c.R, c.G, c.B, c.A)
}

// Scale multiplies the opacity by k.
func (c RGBA) Scale(k float64) RGBA {
	return RGBA{RGB: c.RGB, A: Clamp01(c.A * k)}
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Clamp01 limits v to [0, 1].
func Clamp01(v float64) float64 {
	return Clamp(v, 0, 1)
}

// Lerp interpolates between a and b.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Distance is the Euclidean distance between two points.
func Distance(x0, y0, x1, y1 float64) float64 {
	return math.Hypot(x1-x0, y1-y0)
}
