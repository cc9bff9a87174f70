package calibrate

import (
	"fmt"
	"math"
	"strings"

	"github.com/Zuo-Peng/chordsync/internal/parse"
	"github.com/Zuo-Peng/chordsync/internal/resolve"
)

// FormatTime renders seconds as m:ss.d.
func FormatTime(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) {
		seconds = 0
	}
	tenths := int(math.Round(seconds * 10))
	m := tenths / 600
	s := (tenths / 10) % 60
	return fmt.Sprintf("%d:%02d.%d", m, s, tenths%10)
}

// FormatLRC exports calibrated lines as LRC. lines are the parsed lines of
// the song (empty ones are skipped); instrumental lines are written as
// empty LRC lines so players still advance at the right time.
func FormatLRC(meta parse.SongMeta, lines []parse.Line, ts []resolve.LineTimestamp) string {
	var b strings.Builder
	if meta.Title != "" {
		fmt.Fprintf(&b, "[ti:%s]\n", meta.Title)
	}
	if meta.Artist != "" {
		fmt.Fprintf(&b, "[ar:%s]\n", meta.Artist)
	}

	nonEmpty := parse.NonEmpty(lines)
	for i, t := range ts {
		if i >= len(nonEmpty) {
			break
		}
		text := ""
		if nonEmpty[i].Kind == parse.KindLyrics {
			text = strings.TrimSpace(nonEmpty[i].Text())
		}
		fmt.Fprintf(&b, "[%s]%s\n", lrcStamp(t.Start), text)
	}
	return b.String()
}

func lrcStamp(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	cs := int(math.Round(seconds * 100))
	return fmt.Sprintf("%02d:%02d.%02d", cs/6000, (cs/100)%60, cs%100)
}
