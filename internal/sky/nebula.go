package sky

import (
	"math"
	"math/rand/v2"

	"github.com/litescript/skyline/internal/canvas"
	"github.com/litescript/skyline/internal/palette"
)

// NebulaColors is the palette nebulae draw their three colors from.
var NebulaColors = []palette.RGB{
	{R: 83, G: 101, B: 231}, // indigo
	{R: 186, G: 59, B: 206}, // purple
	{R: 255, G: 50, B: 119}, // pink
	{R: 20, G: 208, B: 232}, // cyan
	{R: 96, G: 195, B: 100}, // green
	{R: 255, G: 100, B: 50}, // orange
	{R: 255, G: 50, B: 50},  // red
	{R: 180, G: 60, B: 120}, // magenta
}

// PulseFloor is the fraction of MaxOpacity a nebula never dims below.
const PulseFloor = 0.9

var (
	cloudOffsets = []float64{0, 0.3, 0.6, 0.8}
	cloudWeights = []float64{1, 0.8, 0.4, 0.1}
	blurOffsets  = []float64{0, 0.4, 0.7}
	blurWeights  = []float64{1, 0.6, 0.2}
	washOffsets  = []float64{0, 0.5}
	washWeights  = []float64{0.2, 0.1}
)

// Cloud is one soft blob of the nebula's silhouette, in local coordinates.
type Cloud struct {
	X, Y             float64
	RadiusX, RadiusY float64
	Color            palette.RGB
}

// BlurPoint is a wide, faint radial wash approximating Gaussian diffusion.
type BlurPoint struct {
	X, Y      float64
	Radius    float64
	Intensity float64
	Color     palette.RGBA // alpha is half the intensity
}

// DetailPoint is a bright pinpoint embedded in the cloud.
type DetailPoint struct {
	X, Y    float64
	Size    float64
	Color   palette.RGB
	Opacity float64
}

// Nebula is a large translucent cloud built from precomputed layers.
type Nebula struct {
	X, Y          float64
	Width, Height float64

	Base, Secondary, Tertiary palette.RGB

	Opacity        float64
	MaxOpacity     float64
	PulseSpeed     float64
	PulseDirection float64
	Rotation       float64

	NoiseOffsetX, NoiseOffsetY float64
	NoiseScale                 float64
	NoiseSpeed                 float64

	Clouds     []Cloud
	BlurPoints []BlurPoint
	Details    []DetailPoint
}

// NewNebula generates a nebula sized relative to the width×height diagonal.
// Its box may extend past every edge.
func NewNebula(rng *rand.Rand, width, height float64) Nebula {
	diag := math.Hypot(width, height)
	n := Nebula{}
	n.Width = rng.Float64()*diag*0.7 + diag*0.4
	n.Height = n.Width * (rng.Float64()*0.4 + 0.6)
	n.X = rng.Float64()*(width+n.Width) - n.Width/2
	n.Y = rng.Float64()*(height+n.Height) - n.Height/2

	idx := rng.Perm(len(NebulaColors))
	n.Base, n.Secondary, n.Tertiary = NebulaColors[idx[0]], NebulaColors[idx[1]], NebulaColors[idx[2]]

	n.MaxOpacity = (rng.Float64()*0.08 + 0.08) * 0.5
	n.Opacity = n.MaxOpacity
	n.PulseSpeed = rng.Float64()*0.0001 + 0.00005
	n.PulseDirection = 1
	if rng.Float64() < 0.5 {
		n.PulseDirection = -1
	}
	n.Rotation = rng.Float64() * 2 * math.Pi

	n.NoiseOffsetX = rng.Float64() * 1000
	n.NoiseOffsetY = rng.Float64() * 1000
	n.NoiseScale = rng.Float64()*0.01 + 0.005
	n.NoiseSpeed = rng.Float64()*0.00005 + 0.00001

	n.Clouds = n.genClouds(rng)
	n.Details = n.genDetails(rng)
	n.BlurPoints = n.genBlurPoints(rng)
	return n
}

func (n *Nebula) colors() [3]palette.RGB {
	return [3]palette.RGB{n.Base, n.Secondary, n.Tertiary}
}

func (n *Nebula) genClouds(rng *rand.Rand) []Cloud {
	clouds := make([]Cloud, 15+rng.IntN(5))
	for i := range clouds {
		c := Cloud{
			RadiusX: n.Width * (0.2 + rng.Float64()*0.4),
			RadiusY: n.Height * (0.2 + rng.Float64()*0.4),
			X:       rng.Float64() * n.Width,
			Y:       rng.Float64() * n.Height,
		}
		var a, b palette.RGB
		switch sel := rng.Float64(); {
		case sel < 0.33:
			a, b = n.Base, n.Secondary
		case sel < 0.66:
			a, b = n.Secondary, n.Tertiary
		default:
			a, b = n.Base, n.Tertiary
		}
		c.Color = palette.Mix(a, b, rng.Float64())
		clouds[i] = c
	}
	return clouds
}

func (n *Nebula) genDetails(rng *rand.Rand) []DetailPoint {
	brightest := n.Base
	for _, c := range n.colors() {
		if c.Brightness() > brightest.Brightness() {
			brightest = c
		}
	}

	details := make([]DetailPoint, 5+rng.IntN(15))
	for i := range details {
		details[i] = DetailPoint{
			X:       rng.Float64() * n.Width,
			Y:       rng.Float64() * n.Height,
			Size:    rng.Float64()*1.5 + 0.5,
			Color:   brightest,
			Opacity: rng.Float64()*0.5 + 0.5,
		}
	}
	return details
}

func (n *Nebula) genBlurPoints(rng *rand.Rand) []BlurPoint {
	colors := n.colors()
	points := make([]BlurPoint, 50+rng.IntN(30))
	for i := range points {
		p := BlurPoint{
			X:         rng.Float64() * n.Width,
			Y:         rng.Float64() * n.Height,
			Radius:    rng.Float64()*(n.Width/4) + n.Width/8,
			Intensity: rng.Float64()*0.4 + 0.1,
		}
		p.Color = colors[rng.IntN(3)].WithAlpha(p.Intensity * 0.5)
		points[i] = p
	}
	return points
}

// UpdateNebula pulses the opacity inside [PulseFloor·Max, Max] and drifts the
// noise field. Nebulae never move.
func UpdateNebula(n *Nebula) {
	n.Opacity += n.PulseDirection * n.PulseSpeed

	floor := n.MaxOpacity * PulseFloor
	if n.Opacity <= floor {
		n.Opacity = floor
		n.PulseDirection = 1
	} else if n.Opacity >= n.MaxOpacity {
		n.Opacity = n.MaxOpacity
		n.PulseDirection = -1
	}

	n.NoiseOffsetX += n.NoiseSpeed
	n.NoiseOffsetY += n.NoiseSpeed
}

// CloudOpacity is the nebula opacity modulated into [0.85, 1.15]× by noise
// sampled at the cloud centre.
func CloudOpacity(n *Nebula, c *Cloud, noise palette.NoiseField) float64 {
	v := noise.At(c.X, c.Y, n.NoiseScale, n.NoiseOffsetX, n.NoiseOffsetY)
	return n.Opacity * (0.85 + v*0.3)
}

// DrawNebula composites the nebula layers back to front under screen blending:
// base wash, clouds, blur points, then detail points.
func DrawNebula(surf canvas.Surface, n *Nebula, noise palette.NoiseField) {
	surf.Save()
	defer surf.Restore()

	surf.SetComposite(canvas.Screen)
	surf.Translate(n.X+n.Width/2, n.Y+n.Height/2)
	surf.Rotate(n.Rotation)
	surf.Translate(-n.Width/2, -n.Height/2)

	cx, cy := n.Width/2, n.Height/2
	wash := math.Max(n.Width, n.Height) / 1.5
	surf.FillCircle(cx, cy, wash, canvas.Glow(cx, cy, wash, palette.Falloff(n.Base, n.Opacity, washOffsets, washWeights)...))

	for i := range n.Clouds {
		c := &n.Clouds[i]
		// Circular falloff on the larger radius; ellipses leave hard edges.
		r := math.Max(c.RadiusX, c.RadiusY)
		stops := palette.Falloff(c.Color, CloudOpacity(n, c, noise), cloudOffsets, cloudWeights)
		surf.FillCircle(c.X, c.Y, r, canvas.Glow(c.X, c.Y, r, stops...))
	}

	for i := range n.BlurPoints {
		p := &n.BlurPoints[i]
		stops := palette.Falloff(p.Color.RGB, p.Color.A*n.Opacity, blurOffsets, blurWeights)
		surf.FillCircle(p.X, p.Y, p.Radius, canvas.Glow(p.X, p.Y, p.Radius, stops...))
	}

	for i := range n.Details {
		d := &n.Details[i]
		a := d.Opacity * n.Opacity
		surf.FillCircle(d.X, d.Y, d.Size, canvas.Solid(d.Color.WithAlpha(a)))
		glow := d.Size * 4
		surf.FillCircle(d.X, d.Y, glow, canvas.Glow(d.X, d.Y, glow, palette.TwoStop(d.Color.WithAlpha(a*0.8))...))
	}
}
