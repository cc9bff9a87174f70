package parse

import (
	"regexp"
	"sort"
	"strings"
)

// chordRe matches a bracketed chord token. An unterminated "[" or an empty
// "[]" never matches and stays part of the lyric text.
var chordRe = regexp.MustCompile(`\[([^\]]+)\]`)

// ParseContent splits chord-bracket notation into structured lines.
// Concatenating the segment texts of a line always yields the raw line with
// every chord token removed.
func ParseContent(text string) []Line {
	rawLines := strings.Split(text, "\n")
	lines := make([]Line, 0, len(rawLines))
	for _, raw := range rawLines {
		lines = append(lines, parseLine(strings.TrimSuffix(raw, "\r")))
	}
	return lines
}

func parseLine(raw string) Line {
	if strings.TrimSpace(raw) == "" {
		return Line{Kind: KindEmpty}
	}

	var segs []Segment
	hasLyrics := false

	// appendText attaches plain text to the last segment, so a chord and the
	// text that follows it share one segment.
	appendText := func(text string) {
		if len(segs) > 0 {
			segs[len(segs)-1].Text += text
		} else {
			segs = append(segs, Segment{Text: text})
		}
		if strings.TrimSpace(text) != "" {
			hasLyrics = true
		}
	}

	last := 0
	for _, m := range chordRe.FindAllStringSubmatchIndex(raw, -1) {
		if m[0] > last {
			appendText(raw[last:m[0]])
		}
		segs = append(segs, Segment{Chord: raw[m[2]:m[3]]})
		last = m[1]
	}
	if last < len(raw) {
		appendText(raw[last:])
	}

	kind := KindChords
	if hasLyrics {
		kind = KindLyrics
	}
	return Line{Kind: kind, Segments: segs}
}

// NonEmpty filters out empty lines. Sync indices (weights, timestamps,
// active line) always refer to positions in this filtered sequence.
func NonEmpty(lines []Line) []Line {
	out := make([]Line, 0, len(lines))
	for _, l := range lines {
		if l.Kind != KindEmpty {
			out = append(out, l)
		}
	}
	return out
}

func CountContentLines(text string) int {
	return len(NonEmpty(ParseContent(text)))
}

// Preview renders a line as a single short string for lists: chords in
// brackets, trimmed lyric text, or "(instrumental)" when there is nothing.
func Preview(l Line) string {
	var parts []string
	for _, s := range l.Segments {
		if s.Chord != "" {
			parts = append(parts, "["+s.Chord+"]")
		}
		if t := strings.TrimSpace(s.Text); t != "" {
			parts = append(parts, t)
		}
	}
	if len(parts) == 0 {
		return "(instrumental)"
	}
	return strings.Join(parts, " ")
}

// ExtractChords returns the distinct chords used in text, sorted
// case-insensitively.
func ExtractChords(text string) []string {
	seen := make(map[string]struct{})
	var chords []string
	for _, m := range chordRe.FindAllStringSubmatch(text, -1) {
		if _, ok := seen[m[1]]; ok {
			continue
		}
		seen[m[1]] = struct{}{}
		chords = append(chords, m[1])
	}
	sort.SliceStable(chords, func(i, j int) bool {
		a, b := strings.ToLower(chords[i]), strings.ToLower(chords[j])
		if a == b {
			return chords[i] < chords[j]
		}
		return a < b
	})
	return chords
}
