// Package canvas defines the 2D drawing surface the sky is composited onto.
//
// A Surface offers what the renderer needs and nothing more: filled rects and
// circles, stroked lines, solid and gradient paints, an additive "screen"
// composite mode, and a translate/rotate transform stack with save/restore.
package canvas

import (
	"errors"

	"github.com/litescript/skyline/internal/palette"
)

// ErrInvalidSize is returned when a surface is created with a non-positive size.
var ErrInvalidSize = errors.New("canvas: invalid surface size")

// Composite selects how fills combine with existing pixels.
type Composite int

const (
	// SourceOver paints on top, occluding by alpha.
	SourceOver Composite = iota
	// Screen adds brightness: 1 - (1-dst)(1-src).
	Screen
)

func (c Composite) String() string {
	switch c {
	case SourceOver:
		return "source-over"
	case Screen:
		return "screen"
	default:
		return "unknown"
	}
}

// PaintKind distinguishes solid colors from gradients.
type PaintKind int

const (
	PaintSolid PaintKind = iota
	PaintLinear
	PaintRadial
)

// Paint is a fill or stroke style. Gradient coordinates are in the user space
// active when the paint is used.
type Paint struct {
	Kind  PaintKind
	Color palette.RGBA

	X0, Y0, R0 float64
	X1, Y1, R1 float64
	Stops      []palette.Stop
}

// Solid returns a single-color paint.
func Solid(c palette.RGBA) Paint {
	return Paint{Kind: PaintSolid, Color: c}
}

// LinearGradient runs from (x0,y0) to (x1,y1).
func LinearGradient(x0, y0, x1, y1 float64, stops ...palette.Stop) Paint {
	return Paint{Kind: PaintLinear, X0: x0, Y0: y0, X1: x1, Y1: y1, Stops: stops}
}

// RadialGradient runs from the circle (x0,y0,r0) to the circle (x1,y1,r1).
func RadialGradient(x0, y0, r0, x1, y1, r1 float64, stops ...palette.Stop) Paint {
	return Paint{Kind: PaintRadial, X0: x0, Y0: y0, R0: r0, X1: x1, Y1: y1, R1: r1, Stops: stops}
}

// Glow is a radial gradient centred on (x, y) out to radius r.
func Glow(x, y, r float64, stops ...palette.Stop) Paint {
	return RadialGradient(x, y, 0, x, y, r, stops...)
}

// Surface is a resizable 2D drawing target.
type Surface interface {
	Size() (width, height int)
	// Resize changes the pixel dimensions. Contents are not preserved.
	Resize(width, height int) error

	Save()
	Restore()
	Translate(x, y float64)
	Rotate(angle float64)
	SetComposite(op Composite)

	FillRect(x, y, w, h float64, p Paint)
	FillCircle(x, y, r float64, p Paint)
	StrokeLine(x0, y0, x1, y1, width float64, p Paint)
}
