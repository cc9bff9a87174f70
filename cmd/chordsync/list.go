package main

import (
	"github.com/Zuo-Peng/chordsync/internal/search"
	"github.com/Zuo-Peng/chordsync/internal/tui"
	"github.com/spf13/cobra"
)

func listCmd() *cobra.Command {
	var category, artist string
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Browse all songs by artist and title",
		Long:  `Opens the songbook browser with every indexed song sorted by artist, then title. Type to filter by title, artist or lyrics; Enter opens the sync viewer.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			refreshIndex(db)

			opts := search.Options{
				Category: category,
				Artist:   artist,
				Limit:    limit,
			}

			return tui.RunList(db, cfg, opts)
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "Filter by category")
	cmd.Flags().StringVar(&artist, "artist", "", "Filter by artist (substring)")
	cmd.Flags().IntVar(&limit, "limit", 0, "Max results (0 = no limit)")

	return cmd
}
