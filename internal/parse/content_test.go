package parse

import (
	"reflect"
	"regexp"
	"testing"
)

func TestParseContent_Scenario(t *testing.T) {
	lines := ParseContent("[Am]Hello [G]world\n\n[C]Bye")

	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}

	want := []Line{
		{Kind: KindLyrics, Segments: []Segment{{Chord: "Am", Text: "Hello "}, {Chord: "G", Text: "world"}}},
		{Kind: KindEmpty},
		{Kind: KindLyrics, Segments: []Segment{{Chord: "C", Text: "Bye"}}},
	}
	for i := range want {
		if lines[i].Kind != want[i].Kind {
			t.Errorf("line %d: kind = %s, expected %s", i, lines[i].Kind, want[i].Kind)
		}
		if len(want[i].Segments) == 0 && len(lines[i].Segments) == 0 {
			continue
		}
		if !reflect.DeepEqual(lines[i].Segments, want[i].Segments) {
			t.Errorf("line %d: segments = %+v, expected %+v", i, lines[i].Segments, want[i].Segments)
		}
	}
}

func TestParseContent_Kinds(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		kind     Kind
		segments []Segment
	}{
		{"blank", "   \t", KindEmpty, nil},
		{"plain text", "just words", KindLyrics, []Segment{{Text: "just words"}}},
		{"chords only", "[Am] [G]  [F]", KindChords, []Segment{{Chord: "Am", Text: " "}, {Chord: "G", Text: "  "}, {Chord: "F"}}},
		{"leading text", "Oh [D]yeah", KindLyrics, []Segment{{Text: "Oh "}, {Chord: "D", Text: "yeah"}}},
		{"trailing chord", "la la [E7]", KindLyrics, []Segment{{Text: "la la "}, {Chord: "E7"}}},
		{"unterminated bracket", "[Am]Hello [G", KindLyrics, []Segment{{Chord: "Am", Text: "Hello [G"}}},
		{"empty brackets", "a [] b", KindLyrics, []Segment{{Text: "a [] b"}}},
		{"slash chord", "[G/B]walk", KindLyrics, []Segment{{Chord: "G/B", Text: "walk"}}},
		{"crlf", "[C]Bye\r", KindLyrics, []Segment{{Chord: "C", Text: "Bye"}}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			lines := ParseContent(test.input)
			if len(lines) != 1 {
				t.Fatalf("expected 1 line, got %d", len(lines))
			}
			if lines[0].Kind != test.kind {
				t.Errorf("kind = %s, expected %s", lines[0].Kind, test.kind)
			}
			if !reflect.DeepEqual(lines[0].Segments, test.segments) {
				t.Errorf("segments = %+v, expected %+v", lines[0].Segments, test.segments)
			}
		})
	}
}

func TestParseContent_RoundTrip(t *testing.T) {
	strip := regexp.MustCompile(`\[[^\]]+\]`)
	inputs := []string{
		"[Am]Hello [G]world",
		"no chords at all",
		"[C][G][Am][F]",
		"  [Dm7]  spaced   [A]out  ",
		"a[B]c[D]e[F]",
		"broken [chord",
		"nested [[Am]] brackets",
		"]odd[ order",
		"שלום [Am]עולם",
	}

	for _, in := range inputs {
		line := ParseContent(in)[0]
		if got, want := line.Text(), strip.ReplaceAllString(in, ""); got != want {
			t.Errorf("ParseContent(%q).Text() = %q, expected %q", in, got, want)
		}
	}
}

func TestNonEmptyAndCount(t *testing.T) {
	text := "[Am]one\n\n[G]\n  \ntwo"
	if n := CountContentLines(text); n != 3 {
		t.Errorf("CountContentLines = %d, expected 3", n)
	}
	nonEmpty := NonEmpty(ParseContent(text))
	if len(nonEmpty) != 3 {
		t.Fatalf("NonEmpty returned %d lines, expected 3", len(nonEmpty))
	}
	if nonEmpty[1].Kind != KindChords {
		t.Errorf("second non-empty line kind = %s, expected chords", nonEmpty[1].Kind)
	}
}

func TestPreview(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"[Am]Hello [G]world", "[Am] Hello [G] world"},
		{"[C]  [G]", "[C] [G]"},
		{"  plain  ", "plain"},
		{"", "(instrumental)"},
	}

	for _, test := range tests {
		line := ParseContent(test.input)[0]
		if got := Preview(line); got != test.expected {
			t.Errorf("Preview(%q) = %q, expected %q", test.input, got, test.expected)
		}
	}
}

func TestExtractChords(t *testing.T) {
	got := ExtractChords("[G]a [am]b [C]c\n[G]d [Am]e [bb]")
	want := []string{"Am", "am", "bb", "C", "G"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExtractChords = %v, expected %v", got, want)
	}
}
