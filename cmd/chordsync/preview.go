package main

import (
	"fmt"
	"os"

	"github.com/Zuo-Peng/chordsync/internal/calibrate"
	"github.com/Zuo-Peng/chordsync/internal/index"
	"github.com/Zuo-Peng/chordsync/internal/parse"
	"github.com/Zuo-Peng/chordsync/internal/render"
	"github.com/Zuo-Peng/chordsync/internal/resolve"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func previewCmd() *cobra.Command {
	var at float64
	var duration string
	var width int
	var query string

	cmd := &cobra.Command{
		Use:   "preview <songId>",
		Short: "Print a chord sheet, optionally highlighting the line at a time",
		Long: `Prints the song with chords above lyrics. With --at, the line active at
that playback time is highlighted using the saved calibration, or the
weighted estimate and offset when the song is not calibrated.`,
		Args: cobra.ExactArgs(1),
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

			if width == 0 && term.IsTerminal(int(os.Stdout.Fd())) {
				if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
					width = w
				}
			}

			lines := parse.ParseContent(song.Content)
			fmt.Println(colorTitle.Sprint(song.Title) + " " + colorDimText.Sprint(song.Artist))

			if !cmd.Flags().Changed("at") {
				out, _ := render.Song(lines, render.Options{Width: width, Active: -1, Query: query})
				fmt.Println(out)
				return nil
			}

			dur := song.Duration
			if duration != "" {
				d, err := parse.ParseDuration(duration)
				if err != nil {
					return fmt.Errorf("invalid --duration: %w", err)
				}
				dur = d
			}

			pos, source, err := positionAt(db, song, at, dur)
			if err != nil {
				return err
			}
			out, _ := render.Song(lines, render.Options{
				Width:    width,
				Active:   pos.Line,
				Progress: pos.Progress,
			})
			fmt.Println(out)

			if pos.Line >= 0 {
				fmt.Fprintf(os.Stderr, "%s: line %d, %.0f%% (%s)\n",
					calibrate.FormatTime(at), pos.Line+1, pos.Progress*100, source)
			} else {
				fmt.Fprintf(os.Stderr, "%s: no active line (%s)\n", calibrate.FormatTime(at), source)
			}
			return nil
		},
	}

	cmd.Flags().Float64Var(&at, "at", 0, "Playback time in seconds")
	cmd.Flags().StringVar(&duration, "duration", "", "Track length (e.g. 3:45) when the sheet has none")
	cmd.Flags().IntVar(&width, "width", 0, "Truncate rows to this width (default terminal width)")
	cmd.Flags().StringVar(&query, "query", "", "Search terms to highlight")

	return cmd
}

// positionAt resolves the active line the way the viewer's sync mode does:
// without a duration nothing is active, calibrated or not.
func positionAt(db *index.DB, song *index.SongRow, at, duration float64) (resolve.Position, string, error) {
	if !(duration > 0) {
		return resolve.None, "no duration, pass --duration", nil
	}
	ts, err := db.LoadTimestamps(song.SongID)
	if err != nil {
		return resolve.None, "", fmt.Errorf("load calibration: %w", err)
	}
	offset, err := db.LoadOffset(song.SongID)
	if err != nil {
		return resolve.None, "", fmt.Errorf("load offset: %w", err)
	}

	r := resolve.NewResolver(song.Content, ts)
	if r.Calibrated() {
		return r.Resolve(at, duration, offset), "calibrated", nil
	}
	return r.Resolve(at, duration, offset), fmt.Sprintf("estimated, offset %.1fs", offset), nil
}
