package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/litescript/skyline/internal/canvas"
	"github.com/litescript/skyline/internal/config"
	"github.com/litescript/skyline/internal/intro"
	"github.com/litescript/skyline/internal/logging"
	"github.com/litescript/skyline/internal/palette"
	"github.com/litescript/skyline/internal/scene"
	"github.com/litescript/skyline/internal/state"
	"github.com/litescript/skyline/internal/ui"
)

const (
	fallbackCols = 80
	fallbackRows = 24
)

var errNotTerminal = errors.New("stdout is not a terminal; use `skyline render` for headless output")

func runTUI(ctx context.Context, opts *options) error {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return errNotTerminal
	}
	logger := logging.FromContext(ctx)

	cfg, err := opts.loadConfig(ctx)
	if err != nil {
		return err
	}
	rng, noise, err := sources(cfg)
	if err != nil {
		return err
	}

	cols, rows, err := term.GetSize(fd)
	if err != nil || cols <= 0 || rows <= 0 {
		cols, rows = fallbackCols, fallbackRows
	}

	stats := state.NewManager(state.DefaultConfig())
	started := time.Now()
	timeline := &intro.Timeline{OnComplete: func() {
		logger.Info("Intro complete after %v", time.Since(started).Round(time.Millisecond))
	}}

	// The presenter needs the program and the model needs the loop.
	var prog *tea.Program
	var sky ui.Sky
	var loop *scene.Loop

	sc, err := newScene(cols, rows*2, cfg, rng, noise)
	if err != nil {
		logger.Debug("Animation disabled: %v", err)
	} else {
		loop = scene.NewLoop(sc, scene.LoopConfig{
			Interval:  cfg.Loop.FrameInterval.Duration,
			Scheduler: scene.NewScheduler(cfg.Shooting),
			Presenter: ui.NewPresenter(func(m tea.Msg) { prog.Send(m) }),
			Stats:     stats,
			Logger:    logger,
		})
		sky = loop
	}

	model := ui.New(sky, stats, timeline, started)
	prog = tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseAllMotion(), tea.WithContext(ctx))

	if loop != nil {
		if err := loop.Start(ctx); err != nil {
			return fmt.Errorf("start animation: %w", err)
		}
		// Run has returned by the time this executes, so Send no longer blocks.
		defer loop.Stop()
	}

	logger.Info("Starting at %dx%d cells, seed %d", cols, rows, cfg.Seed)
	if _, err := prog.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("run TUI: %w", err)
	}
	return ctx.Err()
}

func newScene(width, height int, cfg config.Config, rng *rand.Rand, noise palette.NoiseField) (*scene.Scene, error) {
	surf, err := canvas.NewRaster(width, height)
	if err != nil {
		return nil, err
	}
	return scene.New(surf, cfg, rng, noise)
}
