package scene

import (
	"fmt"
	"time"

	"github.com/litescript/skyline/internal/state"
)

// Offline renders a fixed number of frames on a simulated clock, with the
// spawn timer firing whenever the clock passes its next deadline.
type Offline struct {
	Frames    int
	Interval  time.Duration
	Scheduler Scheduler
	Stats     *state.Manager // optional
	Start     time.Time      // simulated clock origin
}

// Run paints o.Frames frames of s and hands each to fn. It stops at the first
// error fn returns.
func (o Offline) Run(s *Scene, fn func(Frame) error) error {
	interval := o.Interval
	if interval <= 0 {
		interval = 16 * time.Millisecond
	}

	var clock time.Duration
	s.SpawnTick(o.Scheduler)
	next := o.Scheduler.Next(s.rng)

	for i := 1; i <= o.Frames; i++ {
		clock += interval
		for next <= clock {
			s.SpawnTick(o.Scheduler)
			next += max(o.Scheduler.Next(s.rng), time.Millisecond)
		}

		start := time.Now()
		fs := s.Frame()
		fs.At = o.Start.Add(clock)
		fs.Duration = time.Since(start)

		if o.Stats != nil {
			o.Stats.Record(fs)
		}
		if err := fn(Frame{Index: uint64(i), Surface: s.Surface(), Stats: fs}); err != nil {
			return fmt.Errorf("frame %d: %w", i, err)
		}
	}
	return nil
}
