// Package scene composes the sky layers onto a surface and drives them frame
// by frame.
//
// A Scene is not safe for concurrent use; only its Cursor may be written from
// other goroutines. Loop serialises everything else onto one goroutine.
package scene

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/litescript/skyline/internal/canvas"
	"github.com/litescript/skyline/internal/config"
	"github.com/litescript/skyline/internal/palette"
	"github.com/litescript/skyline/internal/sky"
	"github.com/litescript/skyline/internal/state"
)

// ErrNoSurface is returned when a scene is built without a drawing surface.
var ErrNoSurface = errors.New("scene: no drawing surface")

// Background is the vertical night gradient, top to bottom.
var Background = []palette.Stop{
	{Offset: 0, Color: palette.RGB{R: 5, G: 5, B: 20}.WithAlpha(1)},
	{Offset: 0.5, Color: palette.RGB{R: 10, G: 10, B: 30}.WithAlpha(1)},
	{Offset: 1, Color: palette.RGB{R: 20, G: 20, B: 40}.WithAlpha(1)},
}

// Scene holds the populations and draws them back to front.
type Scene struct {
	surf   canvas.Surface
	cfg    config.Config
	rng    *rand.Rand
	noise  palette.NoiseField
	cursor *Cursor

	stars   []sky.Star
	nebulae []sky.Nebula
	meteors []sky.ShootingStar

	nebulaCache nebulaLayer
	spawned     int // since the last frame
}

// New seeds a scene sized to surf. A nil noise field means the sine field.
func New(surf canvas.Surface, cfg config.Config, rng *rand.Rand, noise palette.NoiseField) (*Scene, error) {
	if surf == nil {
		return nil, ErrNoSurface
	}
	if rng == nil {
		return nil, errors.New("scene: nil random source")
	}
	if noise == nil {
		noise = palette.SineNoise{}
	}

	s := &Scene{
		surf:   surf,
		cfg:    cfg,
		rng:    rng,
		noise:  noise,
		cursor: NewCursor(),
	}

	w, h := s.dims()
	s.stars = make([]sky.Star, cfg.Stars.Count)
	for i := range s.stars {
		s.stars[i] = sky.NewStar(rng, w, h)
	}
	s.nebulae = make([]sky.Nebula, cfg.Nebulae.Count)
	for i := range s.nebulae {
		s.nebulae[i] = sky.NewNebula(rng, w, h)
	}
	for i := 0; i < cfg.Shooting.InitialBurst; i++ {
		s.Spawn()
	}
	return s, nil
}

func (s *Scene) dims() (float64, float64) {
	w, h := s.surf.Size()
	return float64(w), float64(h)
}

// Surface returns the surface the scene draws on.
func (s *Scene) Surface() canvas.Surface { return s.surf }

// Cursor returns the shared cursor record.
func (s *Scene) Cursor() *Cursor { return s.cursor }

// Stars returns the star population. The slice aliases scene state.
func (s *Scene) Stars() []sky.Star { return s.stars }

// Nebulae returns the nebula population. The slice aliases scene state.
func (s *Scene) Nebulae() []sky.Nebula { return s.nebulae }

// Meteors returns the live shooting stars. The slice aliases scene state.
func (s *Scene) Meteors() []sky.ShootingStar { return s.meteors }

// Resize resizes the surface only. Entities keep their positions.
func (s *Scene) Resize(width, height int) error {
	if err := s.surf.Resize(width, height); err != nil {
		return fmt.Errorf("resize scene: %w", err)
	}
	return nil
}

// Spawn adds one shooting star on a random edge.
func (s *Scene) Spawn() {
	w, h := s.dims()
	s.meteors = append(s.meteors, sky.NewShootingStar(s.rng, w, h))
	s.spawned++
}

// SpawnTick rolls the scheduler once and spawns on success.
func (s *Scene) SpawnTick(sched Scheduler) bool {
	if !sched.Roll(s.rng) {
		return false
	}
	s.Spawn()
	return true
}

// drawNebulae screens the nebulae onto the surface, through the cached layer
// when the surface supports one.
func (s *Scene) drawNebulae() {
	if l, ok := s.surf.(layered); ok {
		if err := s.nebulaCache.draw(l, s.nebulae, s.noise); err == nil {
			return
		}
	}
	for i := range s.nebulae {
		sky.DrawNebula(s.surf, &s.nebulae[i], s.noise)
	}
}

// Frame paints one frame: background, nebulae, stars, then shooting stars.
// Dead shooting stars are dropped after their last draw.
func (s *Scene) Frame() state.FrameStats {
	iw, ih := s.surf.Size()
	w, h := float64(iw), float64(ih)

	s.surf.SetComposite(canvas.SourceOver)
	s.surf.FillRect(0, 0, w, h, canvas.LinearGradient(0, 0, 0, h, Background...))

	for i := range s.nebulae {
		sky.UpdateNebula(&s.nebulae[i])
	}
	s.drawNebulae()

	cx, cy := s.cursor.Position()
	for i := range s.stars {
		sky.UpdateStar(&s.stars[i], s.rng, cx, cy, s.cfg.Stars.InfluenceRadius)
		sky.DrawStar(s.surf, &s.stars[i])
	}

	retired := 0
	for i := len(s.meteors) - 1; i >= 0; i-- {
		m := &s.meteors[i]
		sky.UpdateShootingStar(m, w, h, s.cfg.Shooting.Margin)
		sky.DrawShootingStar(s.surf, m)
		if m.Dead {
			s.meteors = append(s.meteors[:i], s.meteors[i+1:]...)
			retired++
		}
	}

	fs := state.FrameStats{
		Width:   iw,
		Height:  ih,
		Stars:   len(s.stars),
		Nebulae: len(s.nebulae),
		Meteors: len(s.meteors),
		Spawned: s.spawned,
		Retired: retired,
	}
	s.spawned = 0
	return fs
}
