package canvas

import "fmt"

// OpKind names a recorded drawing call.
type OpKind string

const (
	OpFillRect   OpKind = "fillRect"
	OpFillCircle OpKind = "fillCircle"
	OpStrokeLine OpKind = "strokeLine"
)

// Op is one recorded fill or stroke.
type Op struct {
	Kind      OpKind
	Composite Composite
	Depth     int // save depth at the time of the call

	X, Y, R, W, H float64
	X1, Y1        float64
	Paint         Paint
}

// Recorder is a Surface that keeps every drawing call instead of pixels.
// It tracks save depth and composite mode so callers can assert on layering.
type Recorder struct {
	width, height int
	comp          []Composite
	Translations  int
	Rotations     int
	Ops           []Op
}

// NewRecorder returns a recorder reporting the given size.
func NewRecorder(width, height int) (*Recorder, error) {
	r := &Recorder{}
	if err := r.Resize(width, height); err != nil {
		return nil, err
	}
	return r, nil
}

// Size implements Surface.
func (r *Recorder) Size() (int, int) { return r.width, r.height }

// Resize implements Surface.
func (r *Recorder) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	r.width, r.height = width, height
	r.comp = []Composite{SourceOver}
	return nil
}

// Save implements Surface.
func (r *Recorder) Save() { r.comp = append(r.comp, r.comp[len(r.comp)-1]) }

// Restore implements Surface.
func (r *Recorder) Restore() {
	if len(r.comp) > 1 {
		r.comp = r.comp[:len(r.comp)-1]
	}
}

// Translate implements Surface.
func (r *Recorder) Translate(x, y float64) { r.Translations++ }

// Rotate implements Surface.
func (r *Recorder) Rotate(angle float64) { r.Rotations++ }

// SetComposite implements Surface.
func (r *Recorder) SetComposite(op Composite) { r.comp[len(r.comp)-1] = op }

// Depth reports the current save depth.
func (r *Recorder) Depth() int { return len(r.comp) - 1 }

// FillRect implements Surface.
func (r *Recorder) FillRect(x, y, w, h float64, p Paint) {
	r.record(Op{Kind: OpFillRect, X: x, Y: y, W: w, H: h, Paint: p})
}

// FillCircle implements Surface.
func (r *Recorder) FillCircle(x, y, radius float64, p Paint) {
	r.record(Op{Kind: OpFillCircle, X: x, Y: y, R: radius, Paint: p})
}

// StrokeLine implements Surface.
func (r *Recorder) StrokeLine(x0, y0, x1, y1, width float64, p Paint) {
	r.record(Op{Kind: OpStrokeLine, X: x0, Y: y0, X1: x1, Y1: y1, W: width, Paint: p})
}

// Reset drops recorded ops and counters but keeps the size.
func (r *Recorder) Reset() {
	r.Ops = r.Ops[:0]
	r.Translations, r.Rotations = 0, 0
}

func (r *Recorder) record(op Op) {
	op.Composite = r.comp[len(r.comp)-1]
	op.Depth = r.Depth()
	r.Ops = append(r.Ops, op)
}
