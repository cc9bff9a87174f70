package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/Zuo-Peng/chordsync/internal/config"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var version = "dev"

// cfg is loaded before any subcommand runs.
var cfg *config.Config

func main() {
	var cfgPath, colorMode string

	rootCmd := &cobra.Command{
		Use:     "chordsync",
		Short:   "Chord sheet songbook with lyric-to-audio sync scrolling",
		Version: version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = loadConfig(cfgPath)
			if err != nil {
				return err
			}
			switch colorMode {
			case "always":
				color.NoColor = false
			case "never":
				color.NoColor = true
			}
			return setupLogging(cfg)
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "Config file (default ~/.config/chordsync/config.toml)")
	rootCmd.PersistentFlags().StringVar(&colorMode, "color", "auto", "Colored output: auto, always or never")

	rootCmd.AddCommand(indexCmd())
	rootCmd.AddCommand(searchCmd())
	rootCmd.AddCommand(listCmd())
	rootCmd.AddCommand(viewCmd())
	rootCmd.AddCommand(previewCmd())
	rootCmd.AddCommand(syncCmd())
	rootCmd.AddCommand(editCmd())
	rootCmd.AddCommand(doctorCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		c, err := config.Load()
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		return c, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	c, err := config.LoadFile(path, home)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return c, nil
}

// setupLogging sends slog output to the log file; the terminal belongs to
// the TUI and to command output.
func setupLogging(c *config.Config) error {
	if err := os.MkdirAll(filepath.Dir(c.LogPath), 0o755); err != nil {
		return fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(c.LogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: c.Level()}))
	slog.SetDefault(logger)
	return nil
}
