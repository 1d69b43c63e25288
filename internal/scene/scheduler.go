package scene

import (
	"math/rand/v2"
	"time"

	"github.com/litescript/skyline/internal/config"
)

// Scheduler decides when shooting stars appear. Each tick spawns with
// probability Chance; ticks are spaced uniformly in [Min, Max).
type Scheduler struct {
	Chance float64
	Min    time.Duration
	Max    time.Duration
}

// NewScheduler builds a scheduler from the shooting star settings.
func NewScheduler(cfg config.Shooting) Scheduler {
	return Scheduler{
		Chance: cfg.SpawnChance,
		Min:    cfg.MinInterval.Duration,
		Max:    cfg.MaxInterval.Duration,
	}
}

// Roll reports whether this tick spawns.
func (s Scheduler) Roll(rng *rand.Rand) bool {
	return rng.Float64() < s.Chance
}

// Next returns the delay until the following tick.
func (s Scheduler) Next(rng *rand.Rand) time.Duration {
	if s.Max <= s.Min {
		return s.Min
	}
	return s.Min + time.Duration(rng.Int64N(int64(s.Max-s.Min)))
}
