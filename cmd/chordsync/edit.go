package main

import (
	"github.com/Zuo-Peng/chordsync/internal/open"
	"github.com/spf13/cobra"
)

func editCmd() *cobra.Command {
	var line int

	cmd := &cobra.Command{
		Use:   "edit <songId>",
		Short: "Open the chord sheet file in $EDITOR",
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

			return open.OpenSong(db, song.SongID, line)
		},
	}

	cmd.Flags().IntVar(&line, "line", -1, "Jump to this non-empty song line (0-based, -1 = top of file)")

	return cmd
}
