package canvas

import (
	"fmt"
	"image"
	"io"
	"math"

	"github.com/fogleman/gg"

	"github.com/litescript/skyline/internal/palette"
)

// Raster is a software Surface backed by gg.
//
// Discs with a solid or centred radial paint are rasterized directly, which
// covers every star and nebula fill. Other shapes go through gg. gg only
// composites source-over, so those Screen fills are drawn into a scratch
// layer clipped to the shape's device bounds and then blended onto the base
// image one fill at a time. Both contexts receive every transform call so the
// layer always shares the base's user space.
type Raster struct {
	base  *gg.Context
	layer *gg.Context
	comp  []Composite
}

// NewRaster allocates a width×height surface.
func NewRaster(width, height int) (*Raster, error) {
	r := &Raster{}
	if err := r.Resize(width, height); err != nil {
		return nil, err
	}
	return r, nil
}

// Size implements Surface.
func (r *Raster) Size() (int, int) {
	return r.base.Width(), r.base.Height()
}

// Resize implements Surface. Like an HTML canvas, resizing clears the pixels
// and resets the transform and composite state.
func (r *Raster) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	r.base = gg.NewContext(width, height)
	r.layer = gg.NewContext(width, height)
	r.comp = []Composite{SourceOver}
	return nil
}

// Image exposes the backing pixels. The image is reused across frames.
func (r *Raster) Image() *image.RGBA {
	return r.base.Image().(*image.RGBA)
}

// EncodePNG writes the current frame as PNG.
func (r *Raster) EncodePNG(w io.Writer) error {
	return r.base.EncodePNG(w)
}

// Save implements Surface.
func (r *Raster) Save() {
	r.base.Push()
	r.layer.Push()
	r.comp = append(r.comp, r.composite())
}

// Restore implements Surface. Unbalanced calls are ignored.
func (r *Raster) Restore() {
	if len(r.comp) <= 1 {
		return
	}
	r.base.Pop()
	r.layer.Pop()
	r.comp = r.comp[:len(r.comp)-1]
}

// Translate implements Surface.
func (r *Raster) Translate(x, y float64) {
	r.base.Translate(x, y)
	r.layer.Translate(x, y)
}

// Rotate implements Surface.
func (r *Raster) Rotate(angle float64) {
	r.base.Rotate(angle)
	r.layer.Rotate(angle)
}

// SetComposite implements Surface.
func (r *Raster) SetComposite(op Composite) {
	r.comp[len(r.comp)-1] = op
}

func (r *Raster) composite() Composite {
	return r.comp[len(r.comp)-1]
}

// FillRect implements Surface.
func (r *Raster) FillRect(x, y, w, h float64, p Paint) {
	r.draw(r.rectBounds(x, y, w, h), p, func(dc *gg.Context) {
		dc.DrawRectangle(x, y, w, h)
		dc.Fill()
	})
}

// FillCircle implements Surface.
func (r *Raster) FillCircle(x, y, radius float64, p Paint) {
	if radius <= 0 {
		return
	}
	cx, cy := r.base.TransformPoint(x, y)
	rr := radius * r.scale()
	bounds := image.Rect(int(math.Floor(cx-rr)), int(math.Floor(cy-rr)), int(math.Ceil(cx+rr)), int(math.Ceil(cy+rr)))
	if stops, ok := concentric(p, x, y, radius); ok {
		if bounds = bounds.Intersect(r.Image().Bounds()); !bounds.Empty() {
			r.fillDisc(cx, cy, rr, stops, bounds)
		}
		return
	}
	r.draw(bounds, p, func(dc *gg.Context) {
		dc.DrawCircle(x, y, radius)
		dc.Fill()
	})
}

// StrokeLine implements Surface.
func (r *Raster) StrokeLine(x0, y0, x1, y1, width float64, p Paint) {
	if width <= 0 {
		return
	}
	ax, ay := r.base.TransformPoint(x0, y0)
	bx, by := r.base.TransformPoint(x1, y1)
	pad := width*r.scale() + 1
	bounds := image.Rect(
		int(math.Floor(math.Min(ax, bx)-pad)), int(math.Floor(math.Min(ay, by)-pad)),
		int(math.Ceil(math.Max(ax, bx)+pad)), int(math.Ceil(math.Max(ay, by)+pad)),
	)
	r.draw(bounds, p, func(dc *gg.Context) {
		dc.SetLineWidth(width)
		dc.DrawLine(x0, y0, x1, y1)
		dc.Stroke()
	})
}

func (r *Raster) draw(bounds image.Rectangle, p Paint, shape func(dc *gg.Context)) {
	bounds = bounds.Intersect(r.Image().Bounds())
	if bounds.Empty() {
		return
	}

	if r.composite() != Screen {
		r.apply(r.base, p)
		shape(r.base)
		return
	}

	layer := r.layer.Image().(*image.RGBA)
	clearRect(layer, bounds)
	r.apply(r.layer, p)
	shape(r.layer)
	screenRect(r.Image(), layer, bounds)
}

// apply installs p as both fill and stroke style, mapping gradient geometry
// into device space because gg samples patterns in pixel coordinates.
func (r *Raster) apply(dc *gg.Context, p Paint) {
	switch p.Kind {
	case PaintLinear:
		x0, y0 := dc.TransformPoint(p.X0, p.Y0)
		x1, y1 := dc.TransformPoint(p.X1, p.Y1)
		g := gg.NewLinearGradient(x0, y0, x1, y1)
		addStops(g, p.Stops)
		dc.SetFillStyle(g)
		dc.SetStrokeStyle(g)
	case PaintRadial:
		s := r.scale()
		x0, y0 := dc.TransformPoint(p.X0, p.Y0)
		x1, y1 := dc.TransformPoint(p.X1, p.Y1)
		g := gg.NewRadialGradient(x0, y0, p.R0*s, x1, y1, p.R1*s)
		addStops(g, p.Stops)
		dc.SetFillStyle(g)
		dc.SetStrokeStyle(g)
	default:
		dc.SetColor(p.Color.NRGBA())
	}
}

func addStops(g gg.Gradient, stops []palette.Stop) {
	for _, s := range stops {
		g.AddColorStop(s.Offset, s.Color.NRGBA())
	}
}

// scale is the uniform scale of the current transform. Only translations and
// rotations are issued, so this is 1 in practice.
func (r *Raster) scale() float64 {
	ox, oy := r.base.TransformPoint(0, 0)
	ux, uy := r.base.TransformPoint(1, 0)
	return math.Hypot(ux-ox, uy-oy)
}

func (r *Raster) rectBounds(x, y, w, h float64) image.Rectangle {
	xs := make([]float64, 0, 4)
	ys := make([]float64, 0, 4)
	for _, c := range [][2]float64{{x, y}, {x + w, y}, {x, y + h}, {x + w, y + h}} {
		tx, ty := r.base.TransformPoint(c[0], c[1])
		xs = append(xs, tx)
		ys = append(ys, ty)
	}
	return image.Rect(
		int(math.Floor(minOf(xs))), int(math.Floor(minOf(ys))),
		int(math.Ceil(maxOf(xs))), int(math.Ceil(maxOf(ys))),
	)
}

func clearRect(im *image.RGBA, b image.Rectangle) {
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := im.Pix[im.PixOffset(b.Min.X, y):im.PixOffset(b.Max.X, y)]
		clear(row)
	}
}

// screenRect blends src onto dst inside b. In premultiplied form the screen
// operator reduces to s + d - s·d for every channel, alpha included.
func screenRect(dst, src *image.RGBA, b image.Rectangle) {
	for y := b.Min.Y; y < b.Max.Y; y++ {
		i := dst.PixOffset(b.Min.X, y)
		j := src.PixOffset(b.Min.X, y)
		for x := b.Min.X; x < b.Max.X; x++ {
			for k := 0; k < 4; k++ {
				s := uint32(src.Pix[j+k])
				if s == 0 {
					continue
				}
				d := uint32(dst.Pix[i+k])
				dst.Pix[i+k] = uint8(s + d - (s*d+127)/255)
			}
			i += 4
			j += 4
		}
	}
}

func minOf(v []float64) float64 {
	m := v[0]
	for _, x := range v[1:] {
		m = math.Min(m, x)
	}
	return m
}

func maxOf(v []float64) float64 {
	m := v[0]
	for _, x := range v[1:] {
		m = math.Max(m, x)
	}
	return m
}
