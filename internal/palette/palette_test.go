package palette

import (
	"math"
	"testing"

	"pgregory.net/rapid"
)

func TestMix(t *testing.T) {
	a := RGB{R: 200, G: 0, B: 100}
	b := RGB{R: 0, G: 200, B: 100}

	tests := []struct {
		ratio float64
		want  RGB
	}{
		{1, a},
		{0, b},
		{0.5, RGB{R: 100, G: 100, B: 100}},
		{2, a}, // clamped
	}

	for _, tt := range tests {
		if got := Mix(a, b, tt.ratio); got != tt.want {
			t.Errorf("Mix(%v, %v, %v) = %v, want %v", a, b, tt.ratio, got, tt.want)
		}
	}
}

func TestRGBAFormatting(t *testing.T) {
	c := RGB{R: 255, G: 223, B: 186}.WithAlpha(0.5)

	if got := c.CSS(); got != "rgba(255, 223, 186, 0.5)" {
		t.Errorf("CSS() = %q", got)
	}
	if got := c.NRGBA(); got.A != 128 || got.R != 255 {
		t.Errorf("NRGBA() = %+v", got)
	}
	if got := (RGB{R: 5, G: 5, B: 20}).Hex(); got != "#050514" {
		t.Errorf("Hex() = %q", got)
	}
}

func TestWithAlphaClamps(t *testing.T) {
	if a := (RGB{}).WithAlpha(1.7).A; a != 1 {
		t.Errorf("alpha = %v, want 1", a)
	}
	if a := (RGB{}).WithAlpha(-0.2).A; a != 0 {
		t.Errorf("alpha = %v, want 0", a)
	}
}

func TestFalloff(t *testing.T) {
	c := RGB{R: 10, G: 20, B: 30}
	stops := Falloff(c, 0.5, []float64{0, 0.3, 0.6}, []float64{1, 0.8, 0.4})

	if len(stops) != 4 {
		t.Fatalf("len(stops) = %d, want 4", len(stops))
	}
	if stops[1].Color.A != 0.4 {
		t.Errorf("stop 1 alpha = %v, want 0.4", stops[1].Color.A)
	}
	last := stops[len(stops)-1]
	if last.Offset != 1 || last.Color.A != 0 {
		t.Errorf("last stop = %+v, want transparent at 1", last)
	}
}

func TestNoiseRange(t *testing.T) {
	fields := map[string]NoiseField{
		NoiseSine:   SineNoise{},
		NoisePerlin: NewPerlinNoise(7),
	}

	for name, f := range fields {
		t.Run(name, func(t *testing.T) {
			rapid.Check(t, func(t *rapid.T) {
				x := rapid.Float64Range(-5000, 5000).Draw(t, "x")
				y := rapid.Float64Range(-5000, 5000).Draw(t, "y")
				scale := rapid.Float64Range(0.005, 0.015).Draw(t, "scale")
				off := rapid.Float64Range(0, 1000).Draw(t, "off")

				v := f.At(x, y, scale, off, off)
				if v < 0 || v > 1 || math.IsNaN(v) {
					t.Fatalf("At(%v, %v) = %v, outside [0, 1]", x, y, v)
				}
			})
		})
	}
}

func TestSineNoiseDeterministic(t *testing.T) {
	var n SineNoise
	a := n.At(120, 48, 0.01, 3, 4)
	b := n.At(120, 48, 0.01, 3, 4)
	if a != b {
		t.Errorf("same inputs gave %v and %v", a, b)
	}
}

func TestNewNoise(t *testing.T) {
	if _, err := NewNoise("sine", 1); err != nil {
		t.Errorf("sine: %v", err)
	}
	if _, err := NewNoise("perlin", 1); err != nil {
		t.Errorf("perlin: %v", err)
	}
	if _, err := NewNoise("plasma", 1); err == nil {
		t.Error("expected error for unknown kind")
	}
}
