package scene

import (
	"bytes"

	"github.com/litescript/skyline/internal/canvas"
	"github.com/litescript/skyline/internal/palette"
	"github.com/litescript/skyline/internal/sky"
)

// layered surfaces can pre-render into an offscreen layer and screen it back.
// canvas.Raster implements it.
type layered interface {
	canvas.Surface
	NewLayer() (*canvas.Raster, error)
	ScreenLayer(l *canvas.Raster)
}

// nebulaLayer keeps the nebula field pre-rendered on a transparent layer.
// Nebula geometry never changes, so the layer is redrawn only after a resize
// or once some nebula opacity has moved by a full 8-bit step.
type nebulaLayer struct {
	layer   *canvas.Raster
	valid   bool
	keys    []byte
	scratch []byte
	renders int
}

// draw screens the cached nebulae onto dst, redrawing the layer if stale.
func (c *nebulaLayer) draw(dst layered, nebulae []sky.Nebula, noise palette.NoiseField) error {
	w, h := dst.Size()
	if c.layer == nil {
		layer, err := dst.NewLayer()
		if err != nil {
			return err
		}
		c.layer, c.valid = layer, false
	} else if lw, lh := c.layer.Size(); lw != w || lh != h {
		if err := c.layer.Resize(w, h); err != nil {
			return err
		}
		c.valid = false
	}

	c.scratch = c.scratch[:0]
	for i := range nebulae {
		c.scratch = nebulaKey(c.scratch, &nebulae[i], noise)
	}
	if !c.valid || !bytes.Equal(c.keys, c.scratch) {
		clear(c.layer.Image().Pix)
		for i := range nebulae {
			sky.DrawNebula(c.layer, &nebulae[i], noise)
		}
		c.keys = append(c.keys[:0], c.scratch...)
		c.valid = true
		c.renders++
	}

	dst.ScreenLayer(c.layer)
	return nil
}

// nebulaKey appends the opacities that shape a nebula's pixels, quantized to
// 8-bit steps. Every layer alpha is at most its opacity, so equal keys mean
// no channel would move by a whole step.
func nebulaKey(dst []byte, n *sky.Nebula, noise palette.NoiseField) []byte {
	dst = append(dst, quantize(n.Opacity))
	for i := range n.Clouds {
		dst = append(dst, quantize(sky.CloudOpacity(n, &n.Clouds[i], noise)))
	}
	return dst
}

func quantize(v float64) byte {
	return byte(palette.Clamp01(v)*255 + 0.5)
}
