package parse

import "time"

// Kind classifies a single line of chord/lyric content.
type Kind int

const (
	KindEmpty  Kind = iota
	KindLyrics      // lyrics, with or without chords
	KindChords      // chord tokens only (instrumental)
)

func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindLyrics:
		return "lyrics"
	case KindChords:
		return "chords"
	default:
		return "unknown"
	}
}

// Segment is a run of lyric text, optionally starting with a chord.
type Segment struct {
	Text  string
	Chord string // "" if the segment has no chord
}

type Line struct {
	Kind     Kind
	Segments []Segment
}

// Text returns the lyric content of the line with all chords removed.
func (l Line) Text() string {
	if len(l.Segments) == 1 {
		return l.Segments[0].Text
	}
	n := 0
	for _, s := range l.Segments {
		n += len(s.Text)
	}
	b := make([]byte, 0, n)
	for _, s := range l.Segments {
		b = append(b, s.Text...)
	}
	return string(b)
}

// ChordCount returns the number of segments carrying a chord.
func (l Line) ChordCount() int {
	n := 0
	for _, s := range l.Segments {
		if s.Chord != "" {
			n++
		}
	}
	return n
}

type SongMeta struct {
	SongID     string
	Title      string
	Artist     string
	Category   string
	Capo       int
	YouTubeURL string
	Duration   float64 // seconds, 0 if unknown
	FilePath   string
	Mtime      time.Time
	Size       int64
}

type Song struct {
	Meta    SongMeta
	Content string
}
