package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/Zuo-Peng/chordsync/internal/search"
)

// linesPerItem is the number of terminal lines each result occupies.
const linesPerItem = 2

// renderList renders the left panel: the song list with scrolling.
func (m model) renderList(width, height int) string {
	if len(m.results) == 0 {
		empty := lipgloss.NewStyle().
			Foreground(colorDim).
			Width(width).
			Height(height).
			Align(lipgloss.Center, lipgloss.Center).
			Render("No songs")
		return empty
	}

	var lines []string
	for i, r := range m.results {
		if i < m.listOffset {
			continue
		}
		if len(lines)+linesPerItem > height {
			break
		}
		rows := formatResultLine(r, width, i == m.cursor)
		lines = append(lines, rows...)
	}

	// Pad remaining lines
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}

	return strings.Join(lines, "\n")
}

// formatResultLine formats a single song as two lines:
//
//	line 1: [>] * title  artist
//	line 2:    snippet (dimmed)
//
// The mark is shown for songs with saved calibration.
func formatResultLine(r search.Result, width int, selected bool) []string {
	mark := " "
	if r.Calibrated {
		mark = styleCalibrated.Render("*")
	}

	// Truncate title and artist to fit width: leave room for prefix "  * "
	title := strings.ReplaceAll(r.Title, "\n", " ")
	artist := strings.ReplaceAll(r.Artist, "\n", " ")
	textMax := width - 4
	if textMax < 0 {
		textMax = 0
	}
	if runewidth.StringWidth(title) > textMax {
		title = runewidth.Truncate(title, textMax, "")
		artist = ""
	} else if artist != "" {
		artistMax := textMax - runewidth.StringWidth(title) - 2
		if artistMax <= 0 {
			artist = ""
		} else if runewidth.StringWidth(artist) > artistMax {
			artist = runewidth.Truncate(artist, artistMax, "")
		}
	}

	line1 := mark + " "
	if selected {
		line1 += styleListSelected.Render(title)
	} else {
		line1 += styleListNormal.Render(title)
	}
	if artist != "" {
		line1 += "  " + styleArtist.Render(artist)
	}
	if selected {
		line1 = styleListSelected.Render("> ") + line1
	} else {
		line1 = "  " + line1
	}

	// Line 2: snippet (dimmed, indented)
	snippet := strings.ReplaceAll(r.Snippet, "\n", " ")
	snippet = strings.ReplaceAll(snippet, "\t", " ")
	snippet = strings.ReplaceAll(snippet, ">>>", "")
	snippet = strings.ReplaceAll(snippet, "<<<", "")
	snippetMax := width - 4 // indent
	if snippetMax < 0 {
		snippetMax = 0
	}
	if runewidth.StringWidth(snippet) > snippetMax {
		snippet = runewidth.Truncate(snippet, snippetMax, "")
	}
	line2 := "    " + lipgloss.NewStyle().Foreground(colorDim).Render(snippet)

	return []string{line1, line2}
}

// adjustListScroll keeps the cursor visible within the list viewport.
func (m *model) adjustListScroll(listHeight int) {
	visibleItems := listHeight / linesPerItem
	if visibleItems < 1 {
		visibleItems = 1
	}
	if m.cursor < m.listOffset {
		m.listOffset = m.cursor
	}
	if m.cursor >= m.listOffset+visibleItems {
		m.listOffset = m.cursor - visibleItems + 1
	}
}
