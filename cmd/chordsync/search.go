package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/Zuo-Peng/chordsync/internal/search"
	"github.com/Zuo-Peng/chordsync/internal/tui"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	colorTitle   = color.New(color.FgBlue, color.Bold)
	colorArtist  = color.New(color.FgGreen)
	colorMatch   = color.New(color.FgRed, color.Bold)
	colorSynced  = color.New(color.FgCyan)
	colorDimText = color.New(color.Faint)
)

// colorizeSnippet turns the FTS snippet markers into terminal colors, or
// drops them when color is off.
func colorizeSnippet(snippet string) string {
	var b strings.Builder
	for {
		start := strings.Index(snippet, ">>>")
		if start < 0 {
			break
		}
		end := strings.Index(snippet[start+3:], "<<<")
		if end < 0 {
			break
		}
		b.WriteString(snippet[:start])
		b.WriteString(colorMatch.Sprint(snippet[start+3 : start+3+end]))
		snippet = snippet[start+3+end+3:]
	}
	b.WriteString(snippet)
	return b.String()
}

func tsvField(s string) string {
	s = strings.ReplaceAll(s, "\t", " ")
	return strings.ReplaceAll(s, "\n", " ")
}

func searchCmd() *cobra.Command {
	var category, artist string
	var limit int

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Full-text search across titles, artists and lyrics",
		Long: `Search the songbook using FTS5 (CJK queries fall back to substring
matching). On a terminal this opens the browser; piped output is TSV for fzf:
  songId, synced, title, artist, snippet

Example shell function:
  songf() {
    chordsync search --color=always "$*" | fzf \
      --ansi \
      --delimiter='\t' --with-nth=2.. \
      --preview 'chordsync preview {1}' \
      --bind 'enter:execute(chordsync view {1})'
  }`,
		Args: cobra.ExactArgs(1),
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

			if term.IsTerminal(int(os.Stdout.Fd())) {
				return tui.Run(db, cfg, args[0], opts)
			}

			opts.Query = args[0]
			results, err := search.Search(db, opts)
			if err != nil {
				return err
			}

			if len(results) == 0 {
				fmt.Fprintln(os.Stderr, "No results found.")
				return nil
			}

			for _, r := range results {
				synced := "-"
				if r.Calibrated {
					synced = colorSynced.Sprint("synced")
				}
				who := r.Artist
				if who == "" {
					who = "-"
				}
				// songId stays plain for fzf {1}
				fmt.Printf("%s\t%s\t%s\t%s\t%s\n",
					r.SongID,
					synced,
					colorTitle.Sprint(tsvField(r.Title)),
					colorArtist.Sprint(tsvField(who)),
					colorizeSnippet(tsvField(r.Snippet)),
				)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "Filter by category")
	cmd.Flags().StringVar(&artist, "artist", "", "Filter by artist (substring)")
	cmd.Flags().IntVar(&limit, "limit", 100, "Max results")

	return cmd
}
