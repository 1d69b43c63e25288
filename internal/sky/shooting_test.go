package sky

import (
	"math"
	"testing"

	"pgregory.net/rapid"

	"github.com/litescript/skyline/internal/canvas"
)

func TestTrail_FixedCapacity(t *testing.T) {
	tr := NewTrail(3)
	for i := 1; i <= 5; i++ {
		tr.PushFront(TrailPoint{X: float64(i)})
	}

	if tr.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", tr.Len())
	}
	want := []float64{5, 4, 3}
	for i, x := range want {
		if got := tr.At(i).X; got != x {
			t.Errorf("At(%d).X = %v, want %v", i, got, x)
		}
	}
}

func TestTrail_AtOutOfRangePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	tr := NewTrail(2)
	tr.PushFront(TrailPoint{})
	tr.At(1)
}

func TestUpdateShootingStar_LeftEdgeScenario(t *testing.T) {
	s := ShootingStar{X: 0, Y: 300, Angle: 0, Speed: 20, Length: 30, Opacity: 0.3, Trail: NewTrail(30)}

	UpdateShootingStar(&s, 1920, 1080, 100)

	if s.X != 20 || s.Y != 300 {
		t.Errorf("position = (%v, %v), want (20, 300)", s.X, s.Y)
	}
	if s.Trail.Len() != 1 {
		t.Fatalf("trail length = %d, want 1", s.Trail.Len())
	}
	if got := s.Trail.At(0).Opacity; got != s.Opacity {
		t.Errorf("head opacity = %v, want %v", got, s.Opacity)
	}
	if s.Dead {
		t.Error("star marked dead on screen")
	}
}

func TestUpdateShootingStar_TrailProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		rng := newRNG(rapid.Uint64().Draw(t, "seed"))
		w := rapid.Float64Range(100, 3000).Draw(t, "w")
		h := rapid.Float64Range(100, 2000).Draw(t, "h")
		s := NewShootingStar(rng, w, h)

		for f := 0; f < 400 && !s.Dead; f++ {
			UpdateShootingStar(&s, w, h, 100)

			if s.Trail.Len() > s.Length {
				t.Fatalf("trail %d exceeds target %d", s.Trail.Len(), s.Length)
			}
			for i := 1; i < s.Trail.Len(); i++ {
				if s.Trail.At(i).Opacity > s.Trail.At(i-1).Opacity {
					t.Fatalf("opacity rises at %d: %v > %v", i, s.Trail.At(i).Opacity, s.Trail.At(i-1).Opacity)
				}
			}
			if s.Dead != OutOfBounds(s.X, s.Y, w, h, 100) {
				t.Fatalf("dead=%v at (%v, %v) in %vx%v", s.Dead, s.X, s.Y, w, h)
			}
		}
		if !s.Dead {
			t.Fatalf("star never left a %vx%v surface", w, h)
		}
	})
}

func TestNewShootingStar_Ranges(t *testing.T) {
	rng := newRNG(9)
	edges := map[Edge]int{}
	for i := 0; i < 4000; i++ {
		s := NewShootingStar(rng, 800, 600)
		if s.Speed < 15 || s.Speed >= 20 {
			t.Fatalf("speed %v", s.Speed)
		}
		if s.Length < 20 || s.Length >= 60 {
			t.Fatalf("length %d", s.Length)
		}
		if s.Opacity < 0.15 || s.Opacity >= 0.4 {
			t.Fatalf("opacity %v", s.Opacity)
		}
		if s.Color.R != 255 || s.Color.G != 255 || s.Color.B <= 235 {
			t.Fatalf("color %+v", s.Color)
		}
		if s.Trail.Cap() != s.Length {
			t.Fatalf("trail cap %d, want %d", s.Trail.Cap(), s.Length)
		}
		edges[edgeOf(s, 800, 600)]++
	}
	for e := EdgeTop; e <= EdgeLeft; e++ {
		if edges[e] < 800 {
			t.Errorf("edge %d picked %d times out of 4000", e, edges[e])
		}
	}
}

func TestNewShootingStar_PointsInward(t *testing.T) {
	tests := []struct {
		edge   Edge
		normal float64
	}{
		{EdgeTop, math.Pi / 2},
		{EdgeRight, math.Pi},
		{EdgeBottom, -math.Pi / 2},
		{EdgeLeft, 0},
	}
	rng := newRNG(10)

	for _, tt := range tests {
		s := newShootingStar(rng, tt.edge, 50, 0.2, 800, 600)
		if math.Abs(s.Angle-tt.normal-0.2) > 1e-12 {
			t.Errorf("edge %d: angle %v, want %v+0.2", tt.edge, s.Angle, tt.normal)
		}
		x0, y0 := s.X, s.Y
		UpdateShootingStar(&s, 800, 600, 100)
		if inward := (s.X-x0)*math.Cos(tt.normal) + (s.Y-y0)*math.Sin(tt.normal); inward <= 0 {
			t.Errorf("edge %d: moved outward to (%v, %v)", tt.edge, s.X, s.Y)
		}
	}
}

func TestDrawShootingStar(t *testing.T) {
	s := ShootingStar{Speed: 10, Length: 5, Opacity: 0.4, Color: StarColors[0], Trail: NewTrail(5)}
	for i := 0; i < 4; i++ {
		UpdateShootingStar(&s, 1000, 1000, 100)
	}
	rec, _ := canvas.NewRecorder(1000, 1000)
	DrawShootingStar(rec, &s)

	// 3 segments, head disc, head glow
	if len(rec.Ops) != 5 {
		t.Fatalf("len(Ops) = %d, want 5", len(rec.Ops))
	}
	for i := 0; i < 3; i++ {
		op := rec.Ops[i]
		if op.Kind != canvas.OpStrokeLine || op.Paint.Kind != canvas.PaintLinear {
			t.Errorf("op %d = %s/%d, want linear stroke", i, op.Kind, op.Paint.Kind)
		}
		if i > 0 && op.W >= rec.Ops[i-1].W {
			t.Errorf("segment %d width %v does not taper from %v", i, op.W, rec.Ops[i-1].W)
		}
	}
	if head := rec.Ops[3]; head.Kind != canvas.OpFillCircle || head.R != headRadius {
		t.Errorf("head op = %+v", head)
	}
}

func TestDrawShootingStar_EmptyTrail(t *testing.T) {
	s := ShootingStar{Trail: NewTrail(3)}
	rec, _ := canvas.NewRecorder(10, 10)
	DrawShootingStar(rec, &s)
	if len(rec.Ops) != 0 {
		t.Errorf("drew %d ops for an empty trail", len(rec.Ops))
	}
}

func edgeOf(s ShootingStar, w, h float64) Edge {
	switch {
	case s.Y == 0:
		return EdgeTop
	case s.X == w:
		return EdgeRight
	case s.Y == h:
		return EdgeBottom
	default:
		return EdgeLeft
	}
}
