package sky

import (
	"math"
	"math/rand/v2"

	"github.com/litescript/skyline/internal/canvas"
	"github.com/litescript/skyline/internal/palette"
)

// Edge is the side of the surface a shooting star enters from.
type Edge int

const (
	EdgeTop Edge = iota
	EdgeRight
	EdgeBottom
	EdgeLeft
)

const (
	angleJitter     = 0.25 // radians either side of the inward normal, ~14°
	trailWidth      = 0.5
	headRadius      = 0.5
	headGlowRadius  = 3
	maxBlueDeficit  = 20
	minTrailLength  = 20
	trailLengthSpan = 40
)

// ShootingStar is a transient streak with a fading trail.
type ShootingStar struct {
	X, Y    float64
	Angle   float64
	Speed   float64
	Length  int     // target trail length
	Opacity float64 // base opacity of the head
	Color   palette.RGB
	Trail   Trail
	Dead    bool
}

// NewShootingStar spawns a star on a uniformly chosen edge of width×height.
func NewShootingStar(rng *rand.Rand, width, height float64) ShootingStar {
	edge := Edge(rng.IntN(4))
	var along float64
	switch edge {
	case EdgeTop, EdgeBottom:
		along = rng.Float64() * width
	default:
		along = rng.Float64() * height
	}
	jitter := rng.Float64()*2*angleJitter - angleJitter
	return newShootingStar(rng, edge, along, jitter, width, height)
}

func newShootingStar(rng *rand.Rand, edge Edge, along, jitter, width, height float64) ShootingStar {
	var s ShootingStar
	switch edge {
	case EdgeTop:
		s.X, s.Y, s.Angle = along, 0, math.Pi/2
	case EdgeRight:
		s.X, s.Y, s.Angle = width, along, math.Pi
	case EdgeBottom:
		s.X, s.Y, s.Angle = along, height, -math.Pi/2
	default:
		s.X, s.Y, s.Angle = 0, along, 0
	}
	s.Angle += jitter

	s.Length = minTrailLength + rng.IntN(trailLengthSpan)
	s.Speed = rng.Float64()*5 + 15
	s.Opacity = rng.Float64()*0.25 + 0.15
	s.Color = palette.RGB{R: 255, G: 255, B: uint8(255 - rng.IntN(maxBlueDeficit))}
	s.Trail = NewTrail(s.Length)
	return s
}

// UpdateShootingStar advances the star one step, records the new head, decays
// the trail toward the tail and marks the star dead once it is more than
// margin pixels outside width×height.
func UpdateShootingStar(s *ShootingStar, width, height, margin float64) {
	s.X += math.Cos(s.Angle) * s.Speed
	s.Y += math.Sin(s.Angle) * s.Speed

	s.Trail.PushFront(TrailPoint{X: s.X, Y: s.Y, Opacity: s.Opacity})

	n := s.Trail.Len()
	for i := 0; i < n; i++ {
		s.Trail.SetOpacity(i, s.Opacity*(1-float64(i)/float64(n)))
	}

	s.Dead = OutOfBounds(s.X, s.Y, width, height, margin)
}

// OutOfBounds reports whether (x, y) lies outside width×height grown by margin.
func OutOfBounds(x, y, width, height, margin float64) bool {
	return x < -margin || x > width+margin || y < -margin || y > height+margin
}

// DrawShootingStar renders the tapering trail then the glowing head.
func DrawShootingStar(surf canvas.Surface, s *ShootingStar) {
	n := s.Trail.Len()
	for i := 0; i+1 < n; i++ {
		p, q := s.Trail.At(i), s.Trail.At(i+1)
		paint := canvas.LinearGradient(p.X, p.Y, q.X, q.Y,
			palette.Stop{Offset: 0, Color: s.Color.WithAlpha(p.Opacity)},
			palette.Stop{Offset: 1, Color: s.Color.WithAlpha(q.Opacity)},
		)
		surf.StrokeLine(p.X, p.Y, q.X, q.Y, trailWidth*(1-float64(i)/float64(n)), paint)
	}

	if n == 0 {
		return
	}
	head := s.Trail.At(0)
	c := s.Color.WithAlpha(s.Opacity)
	surf.FillCircle(head.X, head.Y, headRadius, canvas.Solid(c))
	surf.FillCircle(head.X, head.Y, headGlowRadius, canvas.Glow(head.X, head.Y, headGlowRadius, palette.TwoStop(c)...))
}
