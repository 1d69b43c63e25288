package scene

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/litescript/skyline/internal/canvas"
	"github.com/litescript/skyline/internal/logging"
	"github.com/litescript/skyline/internal/state"
)

// ErrRunning is returned by Start when the loop is already running.
var ErrRunning = errors.New("scene: loop already running")

// Frame is handed to the presenter after each paint.
type Frame struct {
	Index   uint64
	Surface canvas.Surface
	Stats   state.FrameStats
}

// Presenter receives every painted frame on the loop goroutine. The surface is
// only valid until Present returns.
type Presenter interface {
	Present(f Frame)
}

// PresenterFunc adapts a function to Presenter.
type PresenterFunc func(f Frame)

// Present implements Presenter.
func (fn PresenterFunc) Present(f Frame) { fn(f) }

// LoopConfig wires a Loop to its collaborators. Zero fields get defaults.
type LoopConfig struct {
	Interval  time.Duration
	Scheduler Scheduler
	Presenter Presenter
	Stats     *state.Manager
	Logger    *logging.Logger
}

type size struct{ w, h int }

// Loop drives a Scene at a fixed frame interval and runs the spawn timer
// alongside it. The scene is only touched from the loop goroutine.
type Loop struct {
	scene    *Scene
	sched    Scheduler
	interval time.Duration
	present  Presenter
	stats    *state.Manager
	log      *logging.Logger

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	pending *size
	frames  uint64
}

// NewLoop returns a stopped loop over s.
func NewLoop(s *Scene, cfg LoopConfig) *Loop {
	if cfg.Interval <= 0 {
		cfg.Interval = 16 * time.Millisecond
	}
	if cfg.Presenter == nil {
		cfg.Presenter = PresenterFunc(func(Frame) {})
	}
	if cfg.Stats == nil {
		cfg.Stats = state.NewManager(state.DefaultConfig())
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Discard()
	}
	return &Loop{
		scene:    s,
		sched:    cfg.Scheduler,
		interval: cfg.Interval,
		present:  cfg.Presenter,
		stats:    cfg.Stats,
		log:      cfg.Logger,
	}
}

// Stats returns the manager frames are recorded in.
func (l *Loop) Stats() *state.Manager { return l.stats }

// Start launches the loop goroutine. It returns ErrRunning if the loop is
// already running. Cancelling ctx stops the loop like Stop does.
func (l *Loop) Start(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.done != nil {
		select {
		case <-l.done:
		default:
			return ErrRunning
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	l.cancel, l.done = cancel, done

	go l.run(ctx, done)
	return nil
}

// Stop cancels the loop and waits for its goroutine to exit. No frame is
// presented after Stop returns. Stop is safe to call more than once and from
// several goroutines; every caller waits for the exit.
func (l *Loop) Stop() {
	l.mu.Lock()
	cancel, done := l.cancel, l.done
	l.mu.Unlock()

	if done == nil {
		return
	}
	cancel()
	<-done
}

// Running reports whether the loop goroutine is active.
func (l *Loop) Running() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.done == nil {
		return false
	}
	select {
	case <-l.done:
		return false
	default:
		return true
	}
}

// SetCursor records a pointer position. Safe from any goroutine.
func (l *Loop) SetCursor(x, y float64) { l.scene.Cursor().Set(x, y) }

// ClearCursor parks the cursor off screen. Safe from any goroutine.
func (l *Loop) ClearCursor() { l.scene.Cursor().Clear() }

// Resize queues a surface resize for the next frame. Safe from any goroutine;
// only the latest request is applied.
func (l *Loop) Resize(width, height int) {
	l.mu.Lock()
	l.pending = &size{width, height}
	l.mu.Unlock()
}

func (l *Loop) run(ctx context.Context, done chan struct{}) {
	defer close(done)
	l.log.Debug("Frame loop started (interval %v)", l.interval)

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	// First spawn roll happens immediately, then on a jittered timer.
	l.scene.SpawnTick(l.sched)
	spawn := time.NewTimer(l.sched.Next(l.scene.rng))
	defer spawn.Stop()

	for {
		select {
		case <-ctx.Done():
			l.log.Debug("Frame loop shutting down after %d frames", l.frames)
			return
		case <-spawn.C:
			if l.scene.SpawnTick(l.sched) {
				l.log.Debug("Shooting star spawned")
			}
			spawn.Reset(l.sched.Next(l.scene.rng))
		case <-ticker.C:
			l.frame()
		}
	}
}

func (l *Loop) frame() {
	start := time.Now()
	l.applyResize(start)

	fs := l.scene.Frame()
	fs.At = start
	fs.Duration = time.Since(start)
	l.frames++

	l.present.Present(Frame{Index: l.frames, Surface: l.scene.Surface(), Stats: fs})
	l.stats.Record(fs)
}

func (l *Loop) applyResize(now time.Time) {
	l.mu.Lock()
	p := l.pending
	l.pending = nil
	l.mu.Unlock()

	if p == nil {
		return
	}
	if w, h := l.scene.Surface().Size(); w == p.w && h == p.h {
		return
	}
	if err := l.scene.Resize(p.w, p.h); err != nil {
		l.log.Warn("Ignoring resize to %dx%d: %v", p.w, p.h, err)
		return
	}
	l.stats.RecordResize(now, p.w, p.h)
}
