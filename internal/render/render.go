package render

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/Zuo-Peng/chordsync/internal/parse"
)

var (
	colorChord  = lipgloss.Color("9")   // bright red
	colorFill   = lipgloss.Color("12")  // bright blue
	colorPast   = lipgloss.Color("67")  // muted blue
	colorFuture = lipgloss.Color("240") // gray
	colorTrack  = lipgloss.Color("238") // dark gray

	styleChord       = lipgloss.NewStyle().Foreground(colorChord).Bold(true)
	styleChordActive = lipgloss.NewStyle().Foreground(colorChord).Bold(true).Underline(true)
	styleChordDim    = lipgloss.NewStyle().Foreground(colorFuture)
	styleLyric       = lipgloss.NewStyle()
	styleFill        = lipgloss.NewStyle().Foreground(colorFill).Bold(true)
	styleUnfilled    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	stylePast        = lipgloss.NewStyle().Foreground(colorPast)
	styleFuture      = lipgloss.NewStyle().Foreground(colorFuture)
	styleTrack       = lipgloss.NewStyle().Foreground(colorTrack)
	styleKeyword     = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
)

// barWidth is the maximum width of the progress bar drawn under an active
// chords-only line.
const barWidth = 32

type Options struct {
	Width    int // truncate rows to this many columns (0 = no limit)
	Active   int // index of the active non-empty line, -1 for none
	Progress float64
	Query    string // search terms to emphasise when nothing is active
}

// Song renders parsed lines as chord rows above lyric rows. It returns the
// content and, for each non-empty line, the row it starts on.
func Song(lines []parse.Line, opts Options) (string, []int) {
	var rows []string
	var starts []int
	idx := -1

	for _, l := range lines {
		if l.Kind == parse.KindEmpty {
			rows = append(rows, "")
			continue
		}
		idx++
		starts = append(starts, len(rows))
		rows = append(rows, renderLine(l, idx, opts)...)
	}

	return strings.Join(rows, "\n"), starts
}

// Plain renders without any highlight.
func Plain(lines []parse.Line, width int) string {
	out, _ := Song(lines, Options{Width: width, Active: -1})
	return out
}

type lineState int

const (
	stateNone lineState = iota
	statePast
	stateActive
	stateFuture
)

func stateOf(idx int, opts Options) lineState {
	switch {
	case opts.Active < 0:
		return stateNone
	case idx < opts.Active:
		return statePast
	case idx == opts.Active:
		return stateActive
	default:
		return stateFuture
	}
}

func renderLine(l parse.Line, idx int, opts Options) []string {
	state := stateOf(idx, opts)
	chords, lyrics := Layout(l)
	chords = truncate(chords, opts.Width)
	lyrics = truncate(lyrics, opts.Width)

	var rows []string
	if l.ChordCount() > 0 {
		switch state {
		case stateActive:
			rows = append(rows, styleChordActive.Render(chords))
		case stateFuture:
			rows = append(rows, styleChordDim.Render(chords))
		default:
			rows = append(rows, styleChord.Render(chords))
		}
	}

	if l.Kind == parse.KindChords {
		if state == stateActive {
			w := barWidth
			if opts.Width > 0 && opts.Width < w {
				w = opts.Width
			}
			rows = append(rows, progressBar(opts.Progress, w))
		}
		return rows
	}

	switch state {
	case stateActive:
		head, tail := SplitAtWidth(lyrics, fillColumns(lyrics, opts.Progress))
		rows = append(rows, styleFill.Render(head)+styleUnfilled.Render(tail))
	case statePast:
		rows = append(rows, stylePast.Render(lyrics))
	case stateFuture:
		rows = append(rows, styleFuture.Render(lyrics))
	default:
		rows = append(rows, highlightKeywords(lyrics, opts.Query))
	}
	return rows
}

// Layout lays a line out as a chord row and a lyric row, each chord sitting
// above the first character of its text. When chords would collide, the
// lyric row is padded so the next chord still lines up.
func Layout(l parse.Line) (chords, lyrics string) {
	var cb, lb strings.Builder
	cw, lw := 0, 0
	for _, s := range l.Segments {
		if s.Chord != "" {
			if cw > lw {
				lb.WriteString(strings.Repeat(" ", cw-lw))
				lw = cw
			}
			cb.WriteString(strings.Repeat(" ", lw-cw))
			cw = lw
			cb.WriteString(s.Chord)
			cb.WriteByte(' ')
			cw += runewidth.StringWidth(s.Chord) + 1
		}
		lb.WriteString(s.Text)
		lw += runewidth.StringWidth(s.Text)
	}
	return strings.TrimRight(cb.String(), " "), lb.String()
}

// SplitAtWidth splits s after cols display columns.
func SplitAtWidth(s string, cols int) (head, tail string) {
	if cols <= 0 {
		return "", s
	}
	w := 0
	for i, r := range s {
		rw := runewidth.RuneWidth(r)
		if w+rw > cols {
			return s[:i], s[i:]
		}
		w += rw
	}
	return s, ""
}

func fillColumns(s string, progress float64) int {
	progress = math.Max(0, math.Min(progress, 1))
	return int(math.Round(progress * float64(runewidth.StringWidth(s))))
}

func progressBar(progress float64, width int) string {
	progress = math.Max(0, math.Min(progress, 1))
	filled := int(math.Round(progress * float64(width)))
	return styleFill.Render(strings.Repeat("━", filled)) +
		styleTrack.Render(strings.Repeat("─", width-filled))
}

func truncate(s string, width int) string {
	if width <= 0 || runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "")
}

// highlightKeywords emphasises case-insensitive matches of query terms.
func highlightKeywords(text, query string) string {
	if query == "" {
		return styleLyric.Render(text)
	}
	var terms []string
	for _, t := range strings.Fields(query) {
		if !ftsOperators[t] {
			terms = append(terms, strings.ToLower(t))
		}
	}
	if len(terms) == 0 {
		return styleLyric.Render(text)
	}

	lower := strings.ToLower(text)
	if len(lower) != len(text) {
		// case folding changed byte offsets; skip highlighting
		return styleLyric.Render(text)
	}

	var b strings.Builder
	i := 0
	for i < len(text) {
		best, bestLen := -1, 0
		for _, term := range terms {
			if idx := strings.Index(lower[i:], term); idx >= 0 && (best < 0 || idx < best) {
				best, bestLen = idx, len(term)
			}
		}
		if best < 0 {
			break
		}
		b.WriteString(styleLyric.Render(text[i : i+best]))
		b.WriteString(styleKeyword.Render(text[i+best : i+best+bestLen]))
		i += best + bestLen
	}
	b.WriteString(styleLyric.Render(text[i:]))
	return b.String()
}

// ftsOperators are FTS5 operators that should not be highlighted as terms.
var ftsOperators = map[string]bool{
	"AND": true, "OR": true, "NOT": true, "NEAR": true,
	"and": true, "or": true, "not": true, "near": true,
}
