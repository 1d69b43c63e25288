package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/litescript/skyline/internal/logging"
	"github.com/litescript/skyline/internal/state"
	"github.com/litescript/skyline/internal/version"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := run(context.Background(), &options{}, args, &out, io.Discard)
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, version.Version) {
		t.Errorf("version output = %q", out)
	}
}

func TestRenderCommand(t *testing.T) {
	dir := t.TempDir()
	frames := filepath.Join(dir, "frames")
	statsPath := filepath.Join(dir, "stats.json")

	_, err := execute(t, "render",
		"--config", filepath.Join(dir, "missing.toml"),
		"--seed", "7",
		"--width", "64", "--height", "36",
		"--frames", "3",
		"--out", frames,
		"--stats-path", statsPath,
	)
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	for _, name := range []string{"frame_0001.png", "frame_0002.png", "frame_0003.png"} {
		info, err := os.Stat(filepath.Join(frames, name))
		if err != nil {
			t.Errorf("missing %s: %v", name, err)
			continue
		}
		if info.Size() == 0 {
			t.Errorf("%s is empty", name)
		}
	}

	raw, err := os.ReadFile(statsPath)
	if err != nil {
		t.Fatal(err)
	}
	var snap struct {
		Frames uint64 `json:"frames"`
	}
	if err := json.Unmarshal(raw, &snap); err != nil {
		t.Fatalf("decode stats: %v", err)
	}
	if snap.Frames != 3 {
		t.Errorf("stats frames = %d, want 3", snap.Frames)
	}
}

func TestRenderCommand_Invalid(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		args []string
	}{
		{"zero frames", []string{"--frames", "0"}},
		{"zero width", []string{"--width", "0"}},
		{"extra argument", []string{"now"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"render", "--config", filepath.Join(dir, "none.toml"), "--out", filepath.Join(dir, "out")}, tt.args...)
			if _, err := execute(t, args...); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestRun_ClosesLogFileOnError(t *testing.T) {
	dir := t.TempDir()
	opts := &options{}
	err := run(context.Background(), opts, []string{
		"render",
		"--config", filepath.Join(dir, "none.toml"),
		"--log-file", filepath.Join(dir, "skyline.log"),
		"--frames", "0",
	}, io.Discard, io.Discard)
	if err == nil {
		t.Fatal("expected an error for zero frames")
	}

	f, ok := opts.logOut.(*os.File)
	if !ok {
		t.Fatalf("log output = %T, want *os.File", opts.logOut)
	}
	if _, err := f.Write([]byte("x")); !errors.Is(err, os.ErrClosed) {
		t.Errorf("write after run = %v, want os.ErrClosed", err)
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "skyline.toml")
	if err := os.WriteFile(path, []byte("seed = 11\n[stars]\ncount = 10\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	ctx := logging.WithContext(context.Background(), logging.Discard())

	tests := []struct {
		name      string
		opts      options
		wantSeed  uint64
		wantStars int
	}{
		{"file seed", options{configPath: path}, 11, 10},
		{"flag overrides file", options{configPath: path, seed: 99}, 99, 10},
		{"missing file uses defaults", options{configPath: filepath.Join(dir, "nope.toml"), seed: 5}, 5, 3000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := tt.opts.loadConfig(ctx)
			if err != nil {
				t.Fatal(err)
			}
			if cfg.Seed != tt.wantSeed || cfg.Stars.Count != tt.wantStars {
				t.Errorf("seed %d stars %d, want %d and %d", cfg.Seed, cfg.Stars.Count, tt.wantSeed, tt.wantStars)
			}
		})
	}

	opts := options{configPath: filepath.Join(dir, "nope.toml")}
	cfg, err := opts.loadConfig(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Seed == 0 {
		t.Error("zero seed was not replaced")
	}
}

func TestWriteStats_Stdout(t *testing.T) {
	var buf bytes.Buffer
	if err := writeStats("-", state.NewManager(state.DefaultConfig()), &buf); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `"frames"`) {
		t.Errorf("stats JSON = %s", buf.String())
	}
}
