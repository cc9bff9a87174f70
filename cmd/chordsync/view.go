package main

import (
	"fmt"

	"github.com/Zuo-Peng/chordsync/internal/parse"
	"github.com/Zuo-Peng/chordsync/internal/tui"
	"github.com/spf13/cobra"
)

func viewCmd() *cobra.Command {
	var duration string

	cmd := &cobra.Command{
		Use:   "view <songId>",
		Short: "Open a song in the sync viewer",
		Long: `Opens the chord sheet with the playback clock. Keys:
  space play/pause, left/right seek, m sync/manual mode, s auto-scroll,
  +/- speed, [ ] { } offset, t tap lyrics start, c calibrate, y copy LRC.

The song id may be abbreviated to any unique prefix.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var dur float64
			if duration != "" {
				d, err := parse.ParseDuration(duration)
				if err != nil {
					return fmt.Errorf("invalid --duration: %w", err)
				}
				dur = d
			}

			db, err := openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			song, err := lookupSong(db, args[0])
			if err != nil {
				return err
			}

			return tui.RunViewer(db, cfg, song.SongID, dur)
		},
	}

	cmd.Flags().StringVar(&duration, "duration", "", "Track length (e.g. 3:45) when the sheet has none")

	return cmd
}
