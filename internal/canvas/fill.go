package canvas

import (
	"image"
	"math"

	"github.com/litescript/skyline/internal/palette"
)

// rampSize is the number of samples taken along a disc's radius.
const rampSize = 256

// premul is a premultiplied color with channels in [0, 1].
type premul [4]float64

// concentric reports the stops for a solid paint or a glow centred on the disc
// (x, y, radius). Those are the only fills the direct disc path handles.
func concentric(p Paint, x, y, radius float64) ([]palette.Stop, bool) {
	switch p.Kind {
	case PaintSolid:
		return []palette.Stop{{Offset: 0, Color: p.Color}}, true
	case PaintRadial:
		if p.R0 == 0 && p.R1 == radius && p.X0 == x && p.X1 == x && p.Y0 == y && p.Y1 == y {
			return p.Stops, true
		}
	}
	return nil, false
}

// fillDisc paints a disc straight into the base image, sampling stops by
// distance from the centre. Edge pixels are weighted by approximate coverage.
func (r *Raster) fillDisc(cx, cy, radius float64, stops []palette.Stop, bounds image.Rectangle) {
	var ramp [rampSize]premul
	for i := range ramp {
		ramp[i] = stopAt(stops, float64(i)/(rampSize-1))
	}

	dst := r.Image()
	screen := r.composite() == Screen
	scale := (rampSize - 1) / radius
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		dy := float64(y) + 0.5 - cy
		i := dst.PixOffset(bounds.Min.X, y)
		for x := bounds.Min.X; x < bounds.Max.X; x, i = x+1, i+4 {
			dx := float64(x) + 0.5 - cx
			d := math.Sqrt(dx*dx + dy*dy)
			cover := palette.Clamp01(radius - d + 0.5)
			if cover == 0 {
				continue
			}
			s := ramp[min(int(d*scale+0.5), rampSize-1)]
			if s[3] == 0 {
				continue
			}
			blend(dst.Pix[i:i+4:i+4], s, cover, screen)
		}
	}
}

// blend composites premultiplied s at coverage onto one RGBA pixel.
func blend(px []uint8, s premul, cover float64, screen bool) {
	sa := s[3] * cover
	for k := 0; k < 4; k++ {
		sv := s[k] * cover
		dv := float64(px[k]) / 255
		var out float64
		if screen {
			out = sv + dv - sv*dv
		} else {
			out = sv + dv*(1-sa)
		}
		px[k] = uint8(palette.Clamp01(out)*255 + 0.5)
	}
}

// stopAt interpolates the gradient at t in premultiplied space.
func stopAt(stops []palette.Stop, t float64) premul {
	if len(stops) == 0 {
		return premul{}
	}
	if t <= stops[0].Offset {
		return toPremul(stops[0].Color)
	}
	for i := 1; i < len(stops); i++ {
		a, b := stops[i-1], stops[i]
		if t > b.Offset {
			continue
		}
		ca, cb := toPremul(a.Color), toPremul(b.Color)
		span := b.Offset - a.Offset
		if span <= 0 {
			return cb
		}
		f := (t - a.Offset) / span
		var out premul
		for k := range out {
			out[k] = palette.Lerp(ca[k], cb[k], f)
		}
		return out
	}
	return toPremul(stops[len(stops)-1].Color)
}

func toPremul(c palette.RGBA) premul {
	return premul{
		float64(c.R) / 255 * c.A,
		float64(c.G) / 255 * c.A,
		float64(c.B) / 255 * c.A,
		c.A,
	}
}

// NewLayer returns a transparent raster the same size as r.
func (r *Raster) NewLayer() (*Raster, error) {
	w, h := r.Size()
	return NewRaster(w, h)
}

// ScreenLayer blends l over the whole surface with the screen operator,
// ignoring the current transform. Screen is associative, so drawing onto a
// transparent layer and screening it here matches drawing each fill directly.
func (r *Raster) ScreenLayer(l *Raster) {
	dst := r.Image()
	src := l.Image()
	screenRect(dst, src, dst.Bounds().Intersect(src.Bounds()))
}
