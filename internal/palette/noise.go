package palette

import (
	"fmt"
	"math"

	perlin "github.com/aquilax/go-perlin"
)

// NoiseField samples smooth 2D noise in [0, 1]. scale stretches the input
// coordinates and (offX, offY) shift the field, so drifting the offsets
// animates it.
type NoiseField interface {
	At(x, y, scale, offX, offY float64) float64
}

// SineNoise is a cheap product-of-sines stand-in for Perlin noise.
type SineNoise struct{}

// At implements NoiseField.
func (SineNoise) At(x, y, scale, offX, offY float64) float64 {
	sx := math.Sin(x*scale+offX) * math.Cos(y*scale*0.5+offY)
	sy := math.Cos(x*scale*0.2+offY) * math.Sin(y*scale*0.8+offX)
	return Clamp01((sx+sy)*0.5 + 0.5)
}

// PerlinNoise samples gradient noise from go-perlin.
type PerlinNoise struct {
	p *perlin.Perlin
}

// NewPerlinNoise returns a two-octave Perlin field seeded deterministically.
func NewPerlinNoise(seed int64) *PerlinNoise {
	return &PerlinNoise{p: perlin.NewPerlin(2, 2, 2, seed)}
}

// At implements NoiseField.
func (n *PerlinNoise) At(x, y, scale, offX, offY float64) float64 {
	return Clamp01(n.p.Noise2D(x*scale+offX, y*scale+offY)*0.5 + 0.5)
}

// Noise kinds accepted by NewNoise.
const (
	NoiseSine   = "sine"
	NoisePerlin = "perlin"
)

// NewNoise builds the named noise field.
func NewNoise(kind string, seed int64) (NoiseField, error) {
	switch kind {
	case "", NoiseSine:
		return SineNoise{}, nil
	case NoisePerlin:
		return NewPerlinNoise(seed), nil
	default:
		return nil, fmt.Errorf("unknown noise kind %q", kind)
	}
}
