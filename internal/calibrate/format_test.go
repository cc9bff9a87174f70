package calibrate

import (
	"testing"

	"github.com/Zuo-Peng/chordsync/internal/parse"
	"github.com/Zuo-Peng/chordsync/internal/resolve"
)

func TestFormatTime(t *testing.T) {
	tests := []struct {
		seconds  float64
		expected string
	}{
		{0, "0:00.0"},
		{0.2, "0:00.2"},
		{9.96, "0:10.0"},
		{65.4, "1:05.4"},
		{600, "10:00.0"},
		{-3, "0:00.0"},
	}

	for _, test := range tests {
		if got := FormatTime(test.seconds); got != test.expected {
			t.Errorf("FormatTime(%v) = %q, expected %q", test.seconds, got, test.expected)
		}
	}
}

func TestFormatLRC(t *testing.T) {
	lines := parse.ParseContent("[Am]Hello [G]world\n\n[C] [G]\n[C]Bye")
	ts := []resolve.LineTimestamp{{Start: 0.5, End: 2}, {Start: 3, End: 4}, {Start: 65.25, End: 70}}
	meta := parse.SongMeta{Title: "Test", Artist: "Band"}

	got := FormatLRC(meta, lines, ts)
	want := "[ti:Test]\n[ar:Band]\n[00:00.50]Hello world\n[00:03.00]\n[01:05.25]Bye\n"
	if got != want {
		t.Errorf("FormatLRC =\n%s\nexpected\n%s", got, want)
	}
}

func TestFormatLRC_Partial(t *testing.T) {
	lines := parse.ParseContent("one\ntwo\nthree")
	got := FormatLRC(parse.SongMeta{}, lines, []resolve.LineTimestamp{{Start: 1, End: 2}})
	if got != "[00:01.00]one\n" {
		t.Errorf("FormatLRC partial = %q", got)
	}
}
