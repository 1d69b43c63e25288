// Package sky holds the three kinds of celestial entity: twinkling stars,
// layered nebulae and shooting stars. Entities are plain data; New*, Update*
// and Draw* are free functions so update logic can be tested without pixels.
package sky

import (
	"math"
	"math/rand/v2"

	"github.com/litescript/skyline/internal/canvas"
	"github.com/litescript/skyline/internal/palette"
)

const (
	// MinStarOpacity is the floor every star twinkles down to.
	MinStarOpacity = 0.1

	starDriftChance  = 0.001
	starDriftAmount  = 0.2
	starSizeBoost    = 0.3
	starOpacityBoost = 0.8
	starGlowSize     = 1.7
	starGlowScale    = 3
)

// StarColors are the five hues a star can take.
var StarColors = []palette.RGB{
	{R: 255, G: 255, B: 255}, // white
	{R: 173, G: 216, B: 230}, // light blue
	{R: 255, G: 223, B: 186}, // light orange
	{R: 255, G: 192, B: 203}, // pink
	{R: 176, G: 224, B: 230}, // powder blue
}

// Star is a twinkling point light.
type Star struct {
	X, Y         float64
	Size         float64
	OriginalSize float64
	Color        palette.RGB

	Opacity            float64
	MaxOpacity         float64
	OriginalMaxOpacity float64
	FadeSpeed          float64
	FadeDirection      float64 // +1 brightening, -1 dimming
}

// NewStar places a star uniformly inside width×height.
func NewStar(rng *rand.Rand, width, height float64) Star {
	var size float64
	switch bucket := rng.Float64(); {
	case bucket < 0.8:
		size = rng.Float64()*0.5 + 0.5
	case bucket < 0.95:
		size = rng.Float64()*0.5 + 0.9
	default:
		size = rng.Float64()*0.5 + 1
	}

	maxOpacity := rng.Float64()*0.5 + 0.5
	s := Star{
		X:                  rng.Float64() * width,
		Y:                  rng.Float64() * height,
		Size:               size,
		OriginalSize:       size,
		Color:              StarColors[rng.IntN(len(StarColors))],
		MaxOpacity:         maxOpacity,
		OriginalMaxOpacity: maxOpacity,
		Opacity:            MinStarOpacity + rng.Float64()*(maxOpacity-MinStarOpacity),
		FadeSpeed:          rng.Float64()*0.01 + 0.005,
		FadeDirection:      1,
	}
	if rng.Float64() < 0.5 {
		s.FadeDirection = -1
	}
	return s
}

// UpdateStar advances one frame: random drift, cursor influence, twinkle.
func UpdateStar(s *Star, rng *rand.Rand, cursorX, cursorY, radius float64) {
	if rng.Float64() < starDriftChance {
		s.X += (rng.Float64() - 0.5) * starDriftAmount
		s.Y += (rng.Float64() - 0.5) * starDriftAmount
	}

	d := palette.Distance(s.X, s.Y, cursorX, cursorY)
	if d < radius {
		influence := 1 - d/radius
		s.Size = s.OriginalSize * (1 + influence*starSizeBoost)
		s.MaxOpacity = math.Min(1, s.OriginalMaxOpacity*(1+influence*starOpacityBoost))
	} else {
		s.Size = s.OriginalSize
		s.MaxOpacity = s.OriginalMaxOpacity
	}

	s.Opacity += s.FadeDirection * s.FadeSpeed
	if s.Opacity <= MinStarOpacity {
		s.Opacity = MinStarOpacity
		s.FadeDirection = 1
	} else if s.Opacity >= s.MaxOpacity {
		s.Opacity = s.MaxOpacity
		s.FadeDirection = -1
	}
}

// DrawStar paints the star, with a soft halo once it grows past the glow size.
func DrawStar(surf canvas.Surface, s *Star) {
	c := s.Color.WithAlpha(s.Opacity)
	surf.FillCircle(s.X, s.Y, s.Size, canvas.Solid(c))

	if s.Size > starGlowSize {
		r := s.Size * starGlowScale
		surf.FillCircle(s.X, s.Y, r, canvas.Glow(s.X, s.Y, r, palette.TwoStop(c)...))
	}
}

// Boosted reports whether the cursor currently alters the star.
func (s *Star) Boosted() bool {
	return s.Size != s.OriginalSize || s.MaxOpacity != s.OriginalMaxOpacity
}
