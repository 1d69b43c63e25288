package sky

import (
	"math"
	"testing"

	"pgregory.net/rapid"

	"github.com/litescript/skyline/internal/canvas"
	"github.com/litescript/skyline/internal/palette"
)

func TestNewNebula_Layers(t *testing.T) {
	rng := newRNG(11)
	for i := 0; i < 200; i++ {
		n := NewNebula(rng, 1920, 1080)

		if len(n.Clouds) < 15 || len(n.Clouds) > 19 {
			t.Fatalf("clouds = %d, want 15-19", len(n.Clouds))
		}
		if len(n.Details) < 5 || len(n.Details) > 19 {
			t.Fatalf("details = %d, want 5-19", len(n.Details))
		}
		if len(n.BlurPoints) < 50 || len(n.BlurPoints) > 79 {
			t.Fatalf("blur points = %d, want 50-79", len(n.BlurPoints))
		}
		if n.Base == n.Secondary || n.Secondary == n.Tertiary || n.Base == n.Tertiary {
			t.Fatalf("colors not distinct: %v %v %v", n.Base, n.Secondary, n.Tertiary)
		}
		if n.MaxOpacity < 0.04 || n.MaxOpacity >= 0.08 {
			t.Fatalf("max opacity %v outside [0.04, 0.08)", n.MaxOpacity)
		}
		if n.Height < n.Width*0.6 || n.Height > n.Width {
			t.Fatalf("height %v out of proportion to width %v", n.Height, n.Width)
		}
		for _, p := range n.BlurPoints {
			if math.Abs(p.Color.A-p.Intensity*0.5) > 1e-12 {
				t.Fatalf("blur alpha %v, want half of %v", p.Color.A, p.Intensity)
			}
		}
	}
}

func TestNewNebula_DetailsUseBrightestColor(t *testing.T) {
	n := NewNebula(newRNG(12), 800, 600)
	best := 0
	for _, c := range n.colors() {
		best = max(best, c.Brightness())
	}
	for _, d := range n.Details {
		if d.Color.Brightness() != best {
			t.Errorf("detail color %v is not the brightest (%d)", d.Color, best)
		}
	}
}

func TestUpdateNebula_OpacityBand(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := NewNebula(newRNG(rapid.Uint64().Draw(t, "seed")), 1280, 720)
		steps := rapid.IntRange(1, 5000).Draw(t, "steps")
		x, y := n.X, n.Y

		for i := 0; i < steps; i++ {
			UpdateNebula(&n)
			if n.Opacity < n.MaxOpacity*PulseFloor || n.Opacity > n.MaxOpacity {
				t.Fatalf("step %d: opacity %v outside [%v, %v]", i, n.Opacity, n.MaxOpacity*PulseFloor, n.MaxOpacity)
			}
		}
		if n.X != x || n.Y != y {
			t.Fatalf("nebula moved from (%v, %v) to (%v, %v)", x, y, n.X, n.Y)
		}
	})
}

func TestUpdateNebula_NoiseDrift(t *testing.T) {
	n := NewNebula(newRNG(13), 800, 600)
	ox := n.NoiseOffsetX
	UpdateNebula(&n)
	if got := n.NoiseOffsetX - ox; math.Abs(got-n.NoiseSpeed) > 1e-9 {
		t.Errorf("offset drifted by %v, want %v", got, n.NoiseSpeed)
	}
}

func TestCloudOpacity_Band(t *testing.T) {
	n := NewNebula(newRNG(14), 800, 600)
	for i := range n.Clouds {
		got := CloudOpacity(&n, &n.Clouds[i], palette.SineNoise{})
		if got < n.Opacity*0.85-1e-12 || got > n.Opacity*1.15+1e-12 {
			t.Errorf("cloud %d opacity %v outside [0.85, 1.15]×%v", i, got, n.Opacity)
		}
	}
}

func TestDrawNebula_Layering(t *testing.T) {
	n := NewNebula(newRNG(15), 800, 600)
	rec, _ := canvas.NewRecorder(800, 600)

	DrawNebula(rec, &n, palette.SineNoise{})

	want := 1 + len(n.Clouds) + len(n.BlurPoints) + 2*len(n.Details)
	if len(rec.Ops) != want {
		t.Fatalf("len(Ops) = %d, want %d", len(rec.Ops), want)
	}
	if rec.Depth() != 0 {
		t.Errorf("save depth %d after draw, want 0", rec.Depth())
	}
	if rec.Translations != 2 || rec.Rotations != 1 {
		t.Errorf("transforms = %d translate / %d rotate", rec.Translations, rec.Rotations)
	}

	for i, op := range rec.Ops {
		if op.Composite != canvas.Screen {
			t.Fatalf("op %d drawn with %s, want screen", i, op.Composite)
		}
		if op.Paint.Kind != canvas.PaintRadial {
			continue
		}
		last := op.Paint.Stops[len(op.Paint.Stops)-1]
		if last.Offset != 1 || last.Color.A != 0 {
			t.Fatalf("op %d gradient ends in %+v, want transparent", i, last)
		}
	}

	// clouds use the larger radius as a circular falloff
	for i, c := range n.Clouds {
		op := rec.Ops[1+i]
		if op.R != math.Max(c.RadiusX, c.RadiusY) {
			t.Errorf("cloud %d radius %v, want %v", i, op.R, math.Max(c.RadiusX, c.RadiusY))
		}
		if len(op.Paint.Stops) != 5 {
			t.Errorf("cloud %d has %d stops, want 5", i, len(op.Paint.Stops))
		}
	}
	if blur := rec.Ops[1+len(n.Clouds)]; len(blur.Paint.Stops) != 4 {
		t.Errorf("blur point has %d stops, want 4", len(blur.Paint.Stops))
	}
}
