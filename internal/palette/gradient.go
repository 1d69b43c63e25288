package palette

// Stop is a gradient color stop at Offset in [0, 1].
type Stop struct {
	Offset float64
	Color  RGBA
}

// Falloff builds a gradient for c whose opacity follows weights at the given
// offsets, closed by a fully transparent stop at 1. offsets and weights must
// have equal length; extra entries are ignored.
//
//	Falloff(c, 0.5, []float64{0, 0.5}, []float64{1, 0.5})
//	// 0: c@0.5, 0.5: c@0.25, 1: transparent
func Falloff(c RGB, alpha float64, offsets, weights []float64) []Stop {
	n := min(len(offsets), len(weights))
	stops := make([]Stop, 0, n+1)
	for i := 0; i < n; i++ {
		stops = append(stops, Stop{Offset: offsets[i], Color: c.WithAlpha(alpha * weights[i])})
	}
	return append(stops, Stop{Offset: 1, Color: Transparent})
}

// TwoStop is a color fading to transparent over the full radius.
func TwoStop(c RGBA) []Stop {
	return []Stop{{Offset: 0, Color: c}, {Offset: 1, Color: Transparent}}
}
