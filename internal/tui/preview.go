package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/Zuo-Peng/chordsync/internal/index"
	"github.com/Zuo-Peng/chordsync/internal/parse"
	"github.com/Zuo-Peng/chordsync/internal/render"
	"github.com/Zuo-Peng/chordsync/internal/search"
)

// previewRenderedMsg is sent when an async preview render completes.
type previewRenderedMsg struct {
	songID  string
	content string
	hitLine int
	err     error
}

// loadPreviewCmd returns a tea.Cmd that renders the chord sheet preview async.
func loadPreviewCmd(db *index.DB, r search.Result, query string, width int) tea.Cmd {
	return func() tea.Msg {
		row, err := db.GetSong(r.SongID)
		if err != nil {
			return previewRenderedMsg{songID: r.SongID, err: err}
		}
		if row == nil {
			return previewRenderedMsg{songID: r.SongID, content: "(song no longer indexed)"}
		}
		lines := parse.ParseContent(row.Content)
		content, starts := render.Song(lines, render.Options{
			Width:  width,
			Active: -1,
			Query:  query,
		})
		hit := firstMatch(parse.NonEmpty(lines), query)
		hitLine := 0
		if hit >= 0 {
			hitLine = starts[hit]
		}
		return previewRenderedMsg{
			songID:  r.SongID,
			content: content,
			hitLine: hitLine,
		}
	}
}

// firstMatch returns the index of the first line containing a query term.
func firstMatch(lines []parse.Line, query string) int {
	terms := strings.Fields(strings.ToLower(query))
	if len(terms) == 0 {
		return -1
	}
	for i, l := range lines {
		text := strings.ToLower(l.Text())
		for _, t := range terms {
			if strings.Contains(text, t) {
				return i
			}
		}
	}
	return -1
}

// newViewport creates a new viewport model with the given dimensions.
func newViewport(width, height int) viewport.Model {
	vp := viewport.New(width, height)
	vp.Style = stylePanelBorder
	return vp
}
