package open

import (
	"strings"
	"testing"
)

func TestFileLine(t *testing.T) {
	raw := "+++\ntitle = \"x\"\n+++\n\n[C]first\n\n[G]second\n[Am] [F]\n"
	tests := []struct {
		idx  int
		want int
	}{
		{0, 5},
		{1, 7},
		{2, 8},
		{9, 1},
	}
	for _, tt := range tests {
		if got := FileLine(raw, tt.idx); got != tt.want {
			t.Errorf("FileLine(%d) = %d, expected %d", tt.idx, got, tt.want)
		}
	}

	if got := FileLine("one\n\ntwo", 1); got != 3 {
		t.Errorf("without front matter = %d, expected 3", got)
	}
}

func TestEditorCommand(t *testing.T) {
	tests := []struct {
		editor string
		want   string
	}{
		{"nvim", "nvim +12 /s/a.chords"},
		{"/usr/bin/vi", "/usr/bin/vi +12 /s/a.chords"},
		{"code --wait", "code --wait --goto /s/a.chords:12"},
		{"less", "less +12 /s/a.chords"},
		{"gedit", "gedit /s/a.chords"},
	}
	for _, tt := range tests {
		cmd := editorCommand(tt.editor, "/s/a.chords", 12)
		if got := strings.Join(cmd.Args, " "); got != tt.want {
			t.Errorf("%s: args = %q, expected %q", tt.editor, got, tt.want)
		}
	}
}
