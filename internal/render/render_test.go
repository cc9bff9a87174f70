package render

import (
	"regexp"
	"strings"
	"testing"

	"github.com/Zuo-Peng/chordsync/internal/parse"
)

var ansiRe = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func stripANSI(s string) string {
	return ansiRe.ReplaceAllString(s, "")
}

func TestLayout(t *testing.T) {
	tests := []struct {
		name   string
		line   string
		chords string
		lyrics string
	}{
		{"single chord", "[C]One line here", "C", "One line here"},
		{"chords over words", "[G]Hello [D]world", "G     D", "Hello world"},
		{"leading text", "Oh [Em]my", "   Em", "Oh my"},
		{"colliding chords pad lyrics", "[Am7]a[G]b", "Am7 G", "a   b"},
		{"chords only", "[F] [G]", "F G", "  "},
		{"no chords", "just words", "", "just words"},
		{"wide runes", "[C]你好[G]世界", "C   G", "你好世界"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines := parse.ParseContent(tt.line)
			chords, lyrics := Layout(lines[0])
			if chords != tt.chords {
				t.Errorf("chords = %q, expected %q", chords, tt.chords)
			}
			if lyrics != tt.lyrics {
				t.Errorf("lyrics = %q, expected %q", lyrics, tt.lyrics)
			}
		})
	}
}

func TestSplitAtWidth(t *testing.T) {
	tests := []struct {
		s          string
		cols       int
		head, tail string
	}{
		{"hello", 0, "", "hello"},
		{"hello", 2, "he", "llo"},
		{"hello", 9, "hello", ""},
		{"你好世界", 3, "你", "好世界"},
		{"你好世界", 4, "你好", "世界"},
	}
	for _, tt := range tests {
		head, tail := SplitAtWidth(tt.s, tt.cols)
		if head != tt.head || tail != tt.tail {
			t.Errorf("SplitAtWidth(%q, %d) = %q, %q", tt.s, tt.cols, head, tail)
		}
	}
}

func TestSong_RowStarts(t *testing.T) {
	content := "[C]One line here\nplain words\n\n[Am]Three\n[F] [G]"
	lines := parse.ParseContent(content)

	out, starts := Song(lines, Options{Active: -1})
	rows := strings.Split(stripANSI(out), "\n")

	expected := []int{0, 2, 4, 6}
	if len(starts) != len(expected) {
		t.Fatalf("starts = %v, expected %v", starts, expected)
	}
	for i := range expected {
		if starts[i] != expected[i] {
			t.Fatalf("starts = %v, expected %v", starts, expected)
		}
	}
	if len(rows) != 7 {
		t.Fatalf("got %d rows: %q", len(rows), rows)
	}
	if rows[0] != "C" || rows[1] != "One line here" || rows[2] != "plain words" || rows[3] != "" {
		t.Errorf("unexpected rows: %q", rows)
	}
	if rows[6] != "F G" {
		t.Errorf("chords-only row = %q", rows[6])
	}
}

func TestSong_ActiveChordsLineGetsBar(t *testing.T) {
	lines := parse.ParseContent("[C]la la\n[F] [G]")

	plain, _ := Song(lines, Options{Active: -1})
	active, starts := Song(lines, Options{Active: 1, Progress: 0.5})

	plainRows := strings.Split(stripANSI(plain), "\n")
	activeRows := strings.Split(stripANSI(active), "\n")
	if len(activeRows) != len(plainRows)+1 {
		t.Fatalf("active rows = %d, plain rows = %d", len(activeRows), len(plainRows))
	}
	bar := activeRows[starts[1]+1]
	if strings.Count(bar, "━") != barWidth/2 || strings.Count(bar, "─") != barWidth/2 {
		t.Errorf("bar = %q", bar)
	}
}

func TestSong_ActiveLyricsKeepText(t *testing.T) {
	lines := parse.ParseContent("[C]first\n[G]second line")
	for _, p := range []float64{0, 0.3, 1} {
		out, _ := Song(lines, Options{Active: 1, Progress: p})
		rows := strings.Split(stripANSI(out), "\n")
		if rows[3] != "second line" {
			t.Errorf("progress %v: lyric row = %q", p, rows[3])
		}
	}
}

func TestSong_Truncate(t *testing.T) {
	lines := parse.ParseContent("[C]a fairly long lyric line")
	out := Plain(lines, 8)
	for _, row := range strings.Split(stripANSI(out), "\n") {
		if len(row) > 8 {
			t.Errorf("row %q wider than 8", row)
		}
	}
}

func TestFillColumns(t *testing.T) {
	tests := []struct {
		s        string
		progress float64
		expected int
	}{
		{"abcd", 0, 0},
		{"abcd", 0.5, 2},
		{"abcd", 1, 4},
		{"abcd", 3, 4},
		{"abcd", -1, 0},
		{"你好", 0.5, 2},
	}
	for _, tt := range tests {
		if got := fillColumns(tt.s, tt.progress); got != tt.expected {
			t.Errorf("fillColumns(%q, %v) = %d, expected %d", tt.s, tt.progress, got, tt.expected)
		}
	}
}

func TestHighlightKeywords_KeepsText(t *testing.T) {
	tests := []struct {
		text, query string
	}{
		{"Yesterday all my troubles", ""},
		{"Yesterday all my troubles", "troubles"},
		{"Yesterday all my troubles", "yesterday AND my"},
		{"Yesterday all my troubles", "OR"},
		{"月亮代表我的心", "月亮"},
	}
	for _, tt := range tests {
		if got := stripANSI(highlightKeywords(tt.text, tt.query)); got != tt.text {
			t.Errorf("highlightKeywords(%q, %q) text = %q", tt.text, tt.query, got)
		}
	}
}
