// Package config holds the tunables of the sky composition.
//
// Every value has a compiled-in default; a TOML file may override any subset.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/litescript/skyline/internal/palette"
)

// Duration wraps time.Duration so TOML files can say "2s" or "16ms".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Stars configures the star field.
type Stars struct {
	Count           int     `toml:"count"`
	InfluenceRadius float64 `toml:"influence_radius"`
}

// Nebulae configures the nebula field.
type Nebulae struct {
	Count int    `toml:"count"`
	Noise string `toml:"noise"` // "sine" or "perlin"
}

// Shooting configures the shooting star stream and its spawn timer.
type Shooting struct {
	InitialBurst int      `toml:"initial_burst"`
	SpawnChance  float64  `toml:"spawn_chance"`
	MinInterval  Duration `toml:"min_interval"`
	MaxInterval  Duration `toml:"max_interval"`
	Margin       float64  `toml:"margin"`
}

// Loop configures frame pacing.
type Loop struct {
	FrameInterval Duration `toml:"frame_interval"`
}

// Config is the full composition.
type Config struct {
	Seed     uint64   `toml:"seed"` // 0 picks a time-based seed
	Stars    Stars    `toml:"stars"`
	Nebulae  Nebulae  `toml:"nebulae"`
	Shooting Shooting `toml:"shooting"`
	Loop     Loop     `toml:"loop"`
}

// Default returns the fixed composition.
func Default() Config {
	return Config{
		Stars: Stars{
			Count:           3000,
			InfluenceRadius: 150,
		},
		Nebulae: Nebulae{
			Count: 8,
			Noise: palette.NoiseSine,
		},
		Shooting: Shooting{
			InitialBurst: 3,
			SpawnChance:  0.25,
			MinInterval:  Duration{2 * time.Second},
			MaxInterval:  Duration{5 * time.Second},
			Margin:       100,
		},
		Loop: Loop{
			FrameInterval: Duration{16 * time.Millisecond},
		},
	}
}

// Load reads path over the defaults. Keys the file sets that Config does not
// know are returned as warnings rather than errors.
func Load(path string) (Config, []string, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(string(data), cfg)
}

// Parse decodes TOML text over base.
func Parse(text string, base Config) (Config, []string, error) {
	cfg := base
	md, err := toml.Decode(text, &cfg)
	if err != nil {
		return base, nil, fmt.Errorf("parse config: %w", err)
	}

	var warnings []string
	for _, key := range md.Undecoded() {
		warnings = append(warnings, fmt.Sprintf("unrecognised key %q", key.String()))
	}
	warnings = append(warnings, cfg.Validate()...)
	return cfg, warnings, nil
}

// Validate resets out-of-range values to their defaults and describes each fix.
func (c *Config) Validate() []string {
	def := Default()
	var fixes []string
	fix := func(name string, bad bool, reset func()) {
		if bad {
			reset()
			fixes = append(fixes, fmt.Sprintf("invalid %s, using default", name))
		}
	}

	c.Nebulae.Noise = strings.ToLower(c.Nebulae.Noise)
	fix("stars.count", c.Stars.Count < 0, func() { c.Stars.Count = def.Stars.Count })
	fix("stars.influence_radius", c.Stars.InfluenceRadius <= 0, func() { c.Stars.InfluenceRadius = def.Stars.InfluenceRadius })
	fix("nebulae.count", c.Nebulae.Count < 0, func() { c.Nebulae.Count = def.Nebulae.Count })
	fix("nebulae.noise", !validNoise(c.Nebulae.Noise), func() { c.Nebulae.Noise = def.Nebulae.Noise })
	fix("shooting.initial_burst", c.Shooting.InitialBurst < 0, func() { c.Shooting.InitialBurst = def.Shooting.InitialBurst })
	fix("shooting.spawn_chance", c.Shooting.SpawnChance < 0 || c.Shooting.SpawnChance > 1, func() { c.Shooting.SpawnChance = def.Shooting.SpawnChance })
	fix("shooting.min_interval", c.Shooting.MinInterval.Duration <= 0, func() { c.Shooting.MinInterval = def.Shooting.MinInterval })
	fix("shooting.max_interval", c.Shooting.MaxInterval.Duration < c.Shooting.MinInterval.Duration, func() {
		c.Shooting.MaxInterval = Duration{max(def.Shooting.MaxInterval.Duration, c.Shooting.MinInterval.Duration)}
	})
	fix("shooting.margin", c.Shooting.Margin < 0, func() { c.Shooting.Margin = def.Shooting.Margin })
	fix("loop.frame_interval", c.Loop.FrameInterval.Duration <= 0, func() { c.Loop.FrameInterval = def.Loop.FrameInterval })

	return fixes
}

func validNoise(kind string) bool {
	_, err := palette.NewNoise(kind, 0)
	return err == nil
}

// IsNotExist reports whether err came from a missing config file.
func IsNotExist(err error) bool {
	return errors.Is(err, os.ErrNotExist)
}
