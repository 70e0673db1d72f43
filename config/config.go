package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"keybench/detect"
)

// Config drives an evaluation run. Every field can come from a TOML
// file and be overridden by a command-line flag.
type Config struct {
	Manifest       string   `toml:"manifest"`
	AudioDir       string   `toml:"audio_dir"`
	AudioExt       string   `toml:"audio_ext"`
	Profiles       []string `toml:"profiles"`
	Workers        int      `toml:"workers"`
	TimeoutSeconds int      `toml:"timeout_seconds"`
	Verbose        bool     `toml:"verbose"`
}

// Default returns the documented default configuration: the six
// standard profiles, sequential evaluation, no detector timeout.
func Default() Config {
	return Config{
		Manifest: "testdata/manifest.txt",
		AudioDir: "testdata/audio",
		AudioExt: ".wav",
		Profiles: append([]string(nil), detect.DefaultProfiles...),
		Workers:  1,
	}
}

// Load reads the TOML file at path over the defaults. An empty path
// returns the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Timeout converts the configured per-track budget to a duration.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}
