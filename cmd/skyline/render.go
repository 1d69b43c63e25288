package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/litescript/skyline/internal/canvas"
	"github.com/litescript/skyline/internal/logging"
	"github.com/litescript/skyline/internal/scene"
	"github.com/litescript/skyline/internal/state"
)

type renderOptions struct {
	width, height int
	frames        int
	outDir        string
	statsPath     string
}

func renderCommand(opts *options) *cobra.Command {
	ro := renderOptions{}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render frames to PNG files without a terminal",
		Long: `Render paints frames on a simulated clock and writes each one to
OUT/frame_NNNN.png. Use --seed for a reproducible sequence.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd.Context(), opts, ro)
		},
	}

	cmd.Flags().IntVar(&ro.width, "width", 1280, "frame width in pixels")
	cmd.Flags().IntVar(&ro.height, "height", 720, "frame height in pixels")
	cmd.Flags().IntVarP(&ro.frames, "frames", "n", 60, "number of frames")
	cmd.Flags().StringVarP(&ro.outDir, "out", "o", "frames", "output directory")
	cmd.Flags().StringVar(&ro.statsPath, "stats-path", "", "export frame stats as JSON (use - for stdout)")
	return cmd
}

func runRender(ctx context.Context, opts *options, ro renderOptions) error {
	logger := logging.FromContext(ctx)
	if ro.frames <= 0 {
		return fmt.Errorf("--frames must be positive, got %d", ro.frames)
	}

	cfg, err := opts.loadConfig(ctx)
	if err != nil {
		return err
	}
	rng, noise, err := sources(cfg)
	if err != nil {
		return err
	}

	surf, err := canvas.NewRaster(ro.width, ro.height)
	if err != nil {
		return fmt.Errorf("create surface: %w", err)
	}
	sc, err := scene.New(surf, cfg, rng, noise)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(ro.outDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	stats := state.NewManager(state.DefaultConfig())
	off := scene.Offline{
		Frames:    ro.frames,
		Interval:  cfg.Loop.FrameInterval.Duration,
		Scheduler: scene.NewScheduler(cfg.Shooting),
		Stats:     stats,
		Start:     time.Now(),
	}

	logger.Info("Rendering %d frames at %dx%d (seed %d)", ro.frames, ro.width, ro.height, cfg.Seed)
	start := time.Now()
	err = off.Run(sc, func(f scene.Frame) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		path := filepath.Join(ro.outDir, fmt.Sprintf("frame_%04d.png", f.Index))
		if err := writePNG(path, surf); err != nil {
			return err
		}
		logger.Debug("Wrote %s (%d meteors)", path, f.Stats.Meteors)
		return nil
	})
	if err != nil {
		return err
	}
	logger.Info("Rendered %d frames to %s (%s)", ro.frames, ro.outDir, time.Since(start).Round(time.Millisecond))

	if ro.statsPath != "" {
		if err := writeStats(ro.statsPath, stats, os.Stdout); err != nil {
			return err
		}
	}
	return nil
}

func writePNG(path string, r *canvas.Raster) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create frame file: %w", err)
	}
	if err := r.EncodePNG(f); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

// writeStats exports the stats snapshot to path, or to stdout for "-".
func writeStats(path string, stats *state.Manager, stdout io.Writer) error {
	if path == "-" {
		if err := stats.WriteJSON(stdout); err != nil {
			return fmt.Errorf("write JSON to stdout: %w", err)
		}
		return nil
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create stats file: %w", err)
	}
	defer f.Close()
	if err := stats.WriteJSON(f); err != nil {
		return fmt.Errorf("write JSON to file: %w", err)
	}
	return nil
}
