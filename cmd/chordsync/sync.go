package main

import (
	"fmt"
	"math"
	"os"
	"strconv"

	"github.com/Zuo-Peng/chordsync/internal/calibrate"
	"github.com/Zuo-Peng/chordsync/internal/parse"
	"github.com/Zuo-Peng/chordsync/internal/resolve"
	"github.com/spf13/cobra"
)

func syncCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Inspect and manage saved line timings",
	}
	cmd.AddCommand(syncShowCmd())
	cmd.AddCommand(syncClearCmd())
	cmd.AddCommand(syncExportCmd())
	cmd.AddCommand(syncOffsetCmd())
	return cmd
}

func syncShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <songId>",
		Short: "Show the timing of every line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			song, err := lookupSong(db, args[0])
			if err != nil {
				return err
			}
			ts, updatedAt, err := db.GetCalibration(song.SongID)
			if err != nil {
				return err
			}
			offset, err := db.LoadOffset(song.SongID)
			if err != nil {
				return err
			}

			r := resolve.NewResolver(song.Content, ts)
			nonEmpty := parse.NonEmpty(r.Lines())

			fmt.Printf("%s  %s\n", colorTitle.Sprint(song.Title), colorArtist.Sprint(song.Artist))
			if song.Duration > 0 {
				fmt.Printf("Duration: %s\n", calibrate.FormatTime(song.Duration))
			}
			if r.Calibrated() {
				fmt.Printf("Timing:   %s, %d of %d lines (saved %s)\n",
					colorSynced.Sprint("calibrated"), len(ts), len(nonEmpty), updatedAt)
			} else {
				fmt.Printf("Timing:   estimated from line weights, offset %.1fs\n", offset)
			}
			fmt.Println()

			bp := r.Breakpoints()
			for i, l := range nonEmpty {
				var when string
				switch {
				case i < len(ts):
					when = calibrate.FormatTime(ts[i].Start) + "-" + calibrate.FormatTime(ts[i].End)
				case !r.Calibrated() && song.Duration > 0:
					when = "~" + calibrate.FormatTime(math.Min(song.Duration, offset+bp[i]*song.Duration))
				default:
					when = "-"
				}
				fmt.Printf("%3d  %-15s  %s\n", i+1, colorDimText.Sprint(when), parse.Preview(l))
			}
			return nil
		},
	}
}

func syncClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear <songId>",
		Short: "Delete the saved calibration; the song falls back to estimation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			song, err := lookupSong(db, args[0])
			if err != nil {
				return err
			}
			if err := db.ClearTimestamps(song.SongID); err != nil {
				return fmt.Errorf("clear calibration: %w", err)
			}
			fmt.Fprintf(os.Stderr, "Cleared calibration for %s\n", song.Title)
			return nil
		},
	}
}

func syncExportCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export <songId>",
		Short: "Export the calibration as an LRC file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			song, err := lookupSong(db, args[0])
			if err != nil {
				return err
			}
			ts, err := db.LoadTimestamps(song.SongID)
			if err != nil {
				return err
			}
			if len(ts) == 0 {
				return fmt.Errorf("%s is not calibrated", song.Title)
			}

			lrc := calibrate.FormatLRC(song.Meta(), parse.ParseContent(song.Content), ts)
			if output == "" || output == "-" {
				fmt.Print(lrc)
				return nil
			}
			if err := os.WriteFile(output, []byte(lrc), 0o644); err != nil {
				return fmt.Errorf("write lrc: %w", err)
			}
			fmt.Fprintf(os.Stderr, "Wrote %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default stdout)")

	return cmd
}

func syncOffsetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "offset <songId> [seconds]",
		Short: "Show or set the lyrics start offset used by estimation",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			song, err := lookupSong(db, args[0])
			if err != nil {
				return err
			}

			if len(args) == 1 {
				offset, err := db.LoadOffset(song.SongID)
				if err != nil {
					return err
				}
				fmt.Printf("%.1f\n", offset)
				return nil
			}

			v, err := strconv.ParseFloat(args[1], 64)
			if err != nil || v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("invalid offset %q: must be seconds >= 0", args[1])
			}
			if err := db.SaveOffset(song.SongID, v); err != nil {
				return fmt.Errorf("save offset: %w", err)
			}
			if ts, err := db.LoadTimestamps(song.SongID); err == nil && len(ts) > 0 {
				fmt.Fprintln(os.Stderr, "Note: this song is calibrated; the offset only applies after clearing it.")
			}
			return nil
		},
	}
}
