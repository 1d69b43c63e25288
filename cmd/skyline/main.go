// Command skyline renders an animated night sky in the terminal.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/litescript/skyline/internal/config"
	"github.com/litescript/skyline/internal/logging"
	"github.com/litescript/skyline/internal/palette"
	"github.com/litescript/skyline/internal/version"
)

const defaultConfigPath = "skyline.toml"

// options are the global flags shared by every command.
type options struct {
	configPath string
	seed       uint64
	logLevel   string
	logFile    string

	logOut io.Closer
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, &options{}, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(130)
		}
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// run executes the CLI with args. The log file, if one was opened, is closed
// however the command ends.
func run(ctx context.Context, opts *options, args []string, stdout, stderr io.Writer) error {
	defer opts.closeLog()

	root := rootCommand(opts)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	return root.ExecuteContext(ctx)
}

func (o *options) closeLog() {
	if o.logOut != nil {
		o.logOut.Close()
	}
}

func rootCommand(opts *options) *cobra.Command {
	root := &cobra.Command{
		Use:   "skyline",
		Short: "An animated night sky for your terminal",
		Long: `Skyline draws a twinkling star field with drifting nebulae and shooting
stars. Stars near the mouse cursor brighten and glow.`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setupLogger(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context(), opts)
		},
	}
	root.SetVersionTemplate(version.Template())

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", defaultConfigPath, "TOML config file (missing file uses defaults)")
	flags.Uint64Var(&opts.seed, "seed", 0, "random seed (0 picks one from the clock)")
	flags.StringVar(&opts.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	flags.StringVar(&opts.logFile, "log-file", "", "write logs to this file")

	root.AddCommand(renderCommand(opts))
	root.AddCommand(versionCommand())
	return root
}

// setupLogger attaches the logger to the command context. Without --log-file
// the interactive view discards logs so they cannot tear the screen.
func (o *options) setupLogger(cmd *cobra.Command) error {
	level := logging.ParseLevel(o.logLevel)

	var logger *logging.Logger
	switch {
	case o.logFile != "":
		f, err := os.OpenFile(o.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		o.logOut = f
		logger = logging.NewWriter(f, level)
	case cmd.Name() == "skyline":
		logger = logging.Discard()
	default:
		logger = logging.NewWriter(cmd.ErrOrStderr(), level)
	}

	cmd.SetContext(logging.WithContext(cmd.Context(), logger))
	return nil
}

// loadConfig reads the config file over the defaults and applies the seed
// flag. A missing file is not an error.
func (o *options) loadConfig(ctx context.Context) (config.Config, error) {
	logger := logging.FromContext(ctx)

	cfg, warnings, err := config.Load(o.configPath)
	switch {
	case config.IsNotExist(err):
		logger.Debug("No config at %s, using defaults", o.configPath)
		cfg = config.Default()
	case err != nil:
		return cfg, err
	}
	for _, w := range warnings {
		logger.Warn("config: %s", w)
	}

	if o.seed != 0 {
		cfg.Seed = o.seed
	}
	if cfg.Seed == 0 {
		cfg.Seed = uint64(time.Now().UnixNano())
	}
	logger.Debug("Seed %d", cfg.Seed)
	return cfg, nil
}

// sources builds the random source and noise field for a seed.
func sources(cfg config.Config) (*rand.Rand, palette.NoiseField, error) {
	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15))
	noise, err := palette.NewNoise(cfg.Nebulae.Noise, int64(cfg.Seed))
	if err != nil {
		return nil, nil, err
	}
	return rng, noise, nil
}

func versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "skyline %s\n", version.Version)
		},
	}
}
