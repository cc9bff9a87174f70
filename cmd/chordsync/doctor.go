package main

import (
	"fmt"
	"os"

	"github.com/Zuo-Peng/chordsync/internal/scan"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	colorOK  = color.New(color.FgGreen)
	colorBad = color.New(color.FgRed, color.Bold)
)

func doctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Self-check: verify the songs folder, DB, FTS5, and show stats",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("=== Songs ===")
			checkDir("Root", cfg.SongsRoot)

			files, err := scan.ScanRoot(cfg.SongsRoot)
			if err != nil {
				fmt.Printf("  scan error: %v\n", err)
			} else {
				fmt.Printf("  Chord sheet files: %d\n", len(files))
			}

			fmt.Println("\n=== Config ===")
			fmt.Printf("  Log:   %s (%s)\n", cfg.LogPath, cfg.LogLevel)
			fmt.Printf("  Speed: %.1f-%.1f px/frame, default %.1f\n",
				cfg.Scroll.MinSpeed, cfg.Scroll.MaxSpeed, cfg.Scroll.DefaultSpeed)

			fmt.Println("\n=== Database ===")
			fmt.Printf("  Path: %s\n", cfg.DBPath)
			if _, err := os.Stat(cfg.DBPath); os.IsNotExist(err) {
				fmt.Printf("  Status: %s (run 'chordsync index' first)\n", colorBad.Sprint("NOT FOUND"))
				return nil
			}

			db, err := openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			songCount, err := db.SongCount()
			if err != nil {
				return fmt.Errorf("count songs: %w", err)
			}
			calibrated, err := db.CalibratedCount()
			if err != nil {
				return fmt.Errorf("count calibrations: %w", err)
			}

			fmt.Printf("  Songs:      %d\n", songCount)
			fmt.Printf("  Calibrated: %d\n", calibrated)

			fmt.Println("\n=== FTS5 ===")
			ftsCount, err := db.FTSCount()
			if err != nil {
				fmt.Printf("  FTS5 error: %v\n", err)
			} else {
				fmt.Printf("  FTS5 entries: %d\n", ftsCount)
				if ftsCount == songCount {
					fmt.Printf("  Status: %s\n", colorOK.Sprint("OK (synced)"))
				} else {
					fmt.Printf("  Status: %s (songs=%d, fts=%d)\n", colorBad.Sprint("MISMATCH"), songCount, ftsCount)
				}
			}

			if info, err := os.Stat(cfg.DBPath); err == nil {
				sizeMB := float64(info.Size()) / 1024 / 1024
				fmt.Printf("\n=== DB Size: %.1f MB ===\n", sizeMB)
			}

			return nil
		},
	}
}

func checkDir(name, path string) {
	if info, err := os.Stat(path); err != nil {
		fmt.Printf("  %s: %s (%s)\n", name, path, colorBad.Sprint("NOT FOUND"))
	} else if !info.IsDir() {
		fmt.Printf("  %s: %s (%s)\n", name, path, colorBad.Sprint("NOT A DIRECTORY"))
	} else {
		fmt.Printf("  %s: %s (%s)\n", name, path, colorOK.Sprint("OK"))
	}
}
