package open

import (
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/Zuo-Peng/chordsync/internal/index"
	"github.com/Zuo-Peng/chordsync/internal/parse"
)

// OpenSong opens the song's file in $EDITOR. When line >= 0 the editor
// jumps to that non-empty line of the song body.
func OpenSong(db *index.DB, songID string, line int) error {
	song, err := db.GetSong(songID)
	if err != nil {
		return fmt.Errorf("get song: %w", err)
	}
	if song == nil {
		return fmt.Errorf("song not found: %s", songID)
	}

	filePath := song.FilePath
	if _, err := os.Stat(filePath); err != nil {
		return fmt.Errorf("file not found: %s", filePath)
	}

	lineNum := 1
	if line >= 0 {
		if data, err := os.ReadFile(filePath); err == nil {
			lineNum = FileLine(string(data), line)
		}
	}

	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "vi"
	}

	return openInEditor(editor, filePath, lineNum)
}

// FileLine maps the index of a non-empty song line to its 1-based line
// number in the raw file, skipping any front matter.
func FileLine(raw string, nonEmptyIdx int) int {
	rows := strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n")
	start := 0
	if len(rows) > 0 && strings.TrimSpace(rows[0]) == "+++" {
		for i := 1; i < len(rows); i++ {
			if strings.TrimSpace(rows[i]) == "+++" {
				start = i + 1
				break
			}
		}
	}

	n := -1
	for i := start; i < len(rows); i++ {
		if parse.ParseContent(rows[i])[0].Kind == parse.KindEmpty {
			continue
		}
		n++
		if n == nonEmptyIdx {
			return i + 1
		}
	}
	return 1
}

func editorCommand(editor, filePath string, lineNum int) *exec.Cmd {
	fields := strings.Fields(editor)
	if len(fields) == 0 {
		fields = []string{"vi"}
	}
	name, args := fields[0], fields[1:]
	base := name
	if i := strings.LastIndex(base, "/"); i >= 0 {
		base = base[i+1:]
	}

	switch {
	case strings.Contains(base, "vim") || base == "vi" || strings.Contains(base, "nano") || strings.Contains(base, "emacs"):
		args = append(args, fmt.Sprintf("+%d", lineNum), filePath)
	case strings.Contains(base, "code"):
		args = append(args, "--goto", filePath+":"+strconv.Itoa(lineNum))
	case strings.Contains(base, "less"):
		args = append(args, "+"+strconv.Itoa(lineNum), filePath)
	default:
		args = append(args, filePath)
	}
	return exec.Command(name, args...)
}

func openInEditor(editor, filePath string, lineNum int) error {
	cmd := editorCommand(editor, filePath, lineNum)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
