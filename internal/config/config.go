package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	SongsRoot string `toml:"songs_root"`
	DBPath    string `toml:"db_path"`
	LogPath   string `toml:"log_path"`
	LogLevel  string `toml:"log_level"`

	Scroll Scroll `toml:"scroll"`
	Sync   Sync   `toml:"sync"`
}

type Scroll struct {
	MinSpeed     float64 `toml:"min_speed"`
	MaxSpeed     float64 `toml:"max_speed"`
	DefaultSpeed float64 `toml:"default_speed"`
	// PixelsPerRow converts terminal rows into the pixel units the scroll
	// speed is expressed in.
	PixelsPerRow float64 `toml:"pixels_per_row"`
	FrameMs      int     `toml:"frame_ms"`
}

type Sync struct {
	PollMs int `toml:"poll_ms"`
}

func Defaults(home string) *Config {
	dir := filepath.Join(home, ".config", "chordsync")
	return &Config{
		SongsRoot: filepath.Join(home, "Songs"),
		DBPath:    filepath.Join(dir, "chordsync.db"),
		LogPath:   filepath.Join(dir, "chordsync.log"),
		LogLevel:  "info",
		Scroll: Scroll{
			MinSpeed:     0.2,
			MaxSpeed:     5,
			DefaultSpeed: 1,
			PixelsPerRow: 24,
			FrameMs:      16,
		},
		Sync: Sync{PollMs: 150},
	}
}

// Path returns the config file location.
func Path(home string) string {
	return filepath.Join(home, ".config", "chordsync", "config.toml")
}

func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return LoadFile(Path(home), home)
}

// LoadFile reads cfgPath over the defaults. A missing file is not an error.
func LoadFile(cfgPath, home string) (*Config, error) {
	cfg := Defaults(home)

	if _, err := os.Stat(cfgPath); err == nil {
		if _, err := toml.DecodeFile(cfgPath, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", cfgPath, err)
		}
	}

	// expand ~ in paths
	cfg.SongsRoot = expandHome(cfg.SongsRoot, home)
	cfg.DBPath = expandHome(cfg.DBPath, home)
	cfg.LogPath = expandHome(cfg.LogPath, home)

	cfg.sanitize(Defaults(home))
	return cfg, nil
}

// sanitize replaces out-of-range values with their defaults.
func (c *Config) sanitize(def *Config) {
	s := &c.Scroll
	if s.MinSpeed <= 0 || s.MaxSpeed <= 0 || s.MinSpeed > s.MaxSpeed {
		s.MinSpeed, s.MaxSpeed = def.Scroll.MinSpeed, def.Scroll.MaxSpeed
	}
	if s.DefaultSpeed < s.MinSpeed || s.DefaultSpeed > s.MaxSpeed {
		s.DefaultSpeed = def.Scroll.DefaultSpeed
		if s.DefaultSpeed < s.MinSpeed || s.DefaultSpeed > s.MaxSpeed {
			s.DefaultSpeed = s.MinSpeed
		}
	}
	if s.PixelsPerRow <= 0 {
		s.PixelsPerRow = def.Scroll.PixelsPerRow
	}
	if s.FrameMs <= 0 {
		s.FrameMs = def.Scroll.FrameMs
	}
	if c.Sync.PollMs <= 0 {
		c.Sync.PollMs = def.Sync.PollMs
	}
	if _, ok := parseLevel(c.LogLevel); !ok {
		c.LogLevel = def.LogLevel
	}
}

func (c *Config) FrameInterval() time.Duration {
	return time.Duration(c.Scroll.FrameMs) * time.Millisecond
}

func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Sync.PollMs) * time.Millisecond
}

// Level returns the slog level named by LogLevel.
func (c *Config) Level() slog.Level {
	l, _ := parseLevel(c.LogLevel)
	return l
}

func parseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, true
	case "info", "":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	}
	return slog.LevelInfo, false
}

func expandHome(path, home string) string {
	if path == "~" {
		return home
	}
	if len(path) > 1 && path[0] == '~' && path[1] == '/' {
		return filepath.Join(home, path[2:])
	}
	return path
}
