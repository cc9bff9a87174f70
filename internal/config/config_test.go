package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoadFile_Missing(t *testing.T) {
	home := "/home/test"
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "nope.toml"), home)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.SongsRoot != "/home/test/Songs" {
		t.Errorf("SongsRoot = %q", cfg.SongsRoot)
	}
	if cfg.DBPath != "/home/test/.config/chordsync/chordsync.db" {
		t.Errorf("DBPath = %q", cfg.DBPath)
	}
	if cfg.FrameInterval() != 16*time.Millisecond || cfg.PollInterval() != 150*time.Millisecond {
		t.Errorf("intervals = %v, %v", cfg.FrameInterval(), cfg.PollInterval())
	}
	if cfg.Level() != slog.LevelInfo {
		t.Errorf("Level = %v", cfg.Level())
	}
}

func TestLoadFile_Overrides(t *testing.T) {
	p := writeConfig(t, `
songs_root = "~/music/sheets"
log_level = "debug"

[scroll]
min_speed = 0.5
max_speed = 3
default_speed = 2
pixels_per_row = 16

[sync]
poll_ms = 100
`)
	cfg, err := LoadFile(p, "/home/test")
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.SongsRoot != "/home/test/music/sheets" {
		t.Errorf("SongsRoot = %q", cfg.SongsRoot)
	}
	if cfg.Level() != slog.LevelDebug {
		t.Errorf("Level = %v", cfg.Level())
	}
	s := cfg.Scroll
	if s.MinSpeed != 0.5 || s.MaxSpeed != 3 || s.DefaultSpeed != 2 || s.PixelsPerRow != 16 {
		t.Errorf("Scroll = %+v", s)
	}
	// untouched keys keep their defaults
	if s.FrameMs != 16 {
		t.Errorf("FrameMs = %d", s.FrameMs)
	}
	if cfg.Sync.PollMs != 100 {
		t.Errorf("PollMs = %d", cfg.Sync.PollMs)
	}
}

func TestLoadFile_InvalidValuesFallBack(t *testing.T) {
	p := writeConfig(t, `
log_level = "loud"

[scroll]
min_speed = 4
max_speed = 1
default_speed = 9
pixels_per_row = -1
frame_ms = 0

[sync]
poll_ms = -5
`)
	cfg, err := LoadFile(p, "/home/test")
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	def := Defaults("/home/test")
	if cfg.Scroll != def.Scroll {
		t.Errorf("Scroll = %+v, expected defaults %+v", cfg.Scroll, def.Scroll)
	}
	if cfg.Sync != def.Sync {
		t.Errorf("Sync = %+v", cfg.Sync)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q", cfg.LogLevel)
	}
}

func TestLoadFile_Malformed(t *testing.T) {
	p := writeConfig(t, "songs_root = [")
	if _, err := LoadFile(p, "/home/test"); err == nil {
		t.Error("expected parse error")
	}
}

func TestExpandHome(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"~", "/h"},
		{"~/a/b", "/h/a/b"},
		{"/abs", "/abs"},
		{"~user/x", "~user/x"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := expandHome(tt.in, "/h"); got != tt.want {
			t.Errorf("expandHome(%q) = %q, expected %q", tt.in, got, tt.want)
		}
	}
}
