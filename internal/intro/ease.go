package intro

import "math"

// Bezier is a CSS-style cubic timing curve from (0,0) to (1,1).
type Bezier struct {
	X1, Y1, X2, Y2 float64
}

var (
	// EaseInOut matches the CSS "ease-in-out" keyword.
	EaseInOut = Bezier{0.42, 0, 0.58, 1}
	// EaseOut matches the CSS "ease-out" keyword.
	EaseOut = Bezier{0, 0, 0.58, 1}
)

func bezierAxis(a1, a2, t float64) float64 {
	u := 1 - t
	return 3*u*u*t*a1 + 3*u*t*t*a2 + t*t*t
}

func bezierSlope(a1, a2, t float64) float64 {
	u := 1 - t
	return 3*u*u*a1 + 6*u*t*(a2-a1) + 3*t*t*(1-a2)
}

// At maps linear progress p in [0,1] to eased progress.
func (b Bezier) At(p float64) float64 {
	switch {
	case p <= 0:
		return 0
	case p >= 1:
		return 1
	}

	// Solve x(t) = p: Newton first, bisection if the slope flattens out.
	t := p
	for i := 0; i < 8; i++ {
		x := bezierAxis(b.X1, b.X2, t) - p
		if math.Abs(x) < 1e-7 {
			return bezierAxis(b.Y1, b.Y2, t)
		}
		d := bezierSlope(b.X1, b.X2, t)
		if math.Abs(d) < 1e-6 {
			break
		}
		t = math.Max(0, math.Min(1, t-x/d))
	}

	lo, hi := 0.0, 1.0
	t = p
	for i := 0; i < 40; i++ {
		x := bezierAxis(b.X1, b.X2, t)
		if math.Abs(x-p) < 1e-7 {
			break
		}
		if x < p {
			lo = t
		} else {
			hi = t
		}
		t = (lo + hi) / 2
	}
	return bezierAxis(b.Y1, b.Y2, t)
}
