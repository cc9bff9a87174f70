package parse

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/google/uuid"
)

const maxLineSize = 1024 * 1024 // 1MB

// frontMatterDelim opens and closes an optional TOML header block.
const frontMatterDelim = "+++"

type frontMatter struct {
	Title    string `toml:"title"`
	Artist   string `toml:"artist"`
	Category string `toml:"category"`
	Capo     int    `toml:"capo"`
	YouTube  string `toml:"youtube"`
	Duration string `toml:"duration"`
}

// SongID derives a stable song identity from the file's path relative to
// the songs root, so calibration data survives re-indexing.
func SongID(rel string) string {
	rel = filepath.ToSlash(rel)
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("chordsync:"+rel)).String()
}

// ParseSongFile reads a song file. Files may start with a "+++" delimited
// TOML header; without one, "Artist - Title.ext" is taken from the name.
func ParseSongFile(filePath, songsRoot string) (*Song, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}

	rel, err := filepath.Rel(songsRoot, filePath)
	if err != nil {
		rel = filePath
	}

	song := &Song{
		Meta: SongMeta{
			SongID:   SongID(rel),
			FilePath: filePath,
			Mtime:    info.ModTime(),
			Size:     info.Size(),
		},
	}

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var header, body []string
	inHeader := false
	lineNum := 0
	for scanner.Scan() {
		line := strings.TrimSuffix(scanner.Text(), "\r")
		lineNum++
		if lineNum == 1 && strings.TrimSpace(line) == frontMatterDelim {
			inHeader = true
			continue
		}
		if inHeader {
			if strings.TrimSpace(line) == frontMatterDelim {
				inHeader = false
				continue
			}
			header = append(header, line)
			continue
		}
		body = append(body, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if inHeader {
		return nil, fmt.Errorf("unterminated front matter in %s", filePath)
	}

	var fm frontMatter
	if len(header) > 0 {
		if _, err := toml.Decode(strings.Join(header, "\n"), &fm); err != nil {
			return nil, fmt.Errorf("front matter %s: %w", filePath, err)
		}
	}

	artist, title := titleFromName(filePath)
	song.Meta.Title = firstNonEmpty(fm.Title, title)
	song.Meta.Artist = firstNonEmpty(fm.Artist, artist)
	song.Meta.Category = fm.Category
	song.Meta.Capo = fm.Capo
	song.Meta.YouTubeURL = fm.YouTube
	if fm.Duration != "" {
		d, err := ParseDuration(fm.Duration)
		if err != nil {
			return nil, fmt.Errorf("duration %s: %w", filePath, err)
		}
		song.Meta.Duration = d
	}

	// drop blank lines between the header and the first content line
	for len(body) > 0 && strings.TrimSpace(body[0]) == "" {
		body = body[1:]
	}
	song.Content = strings.TrimRight(strings.Join(body, "\n"), "\n")

	return song, nil
}

func titleFromName(filePath string) (artist, title string) {
	base := strings.TrimSuffix(filepath.Base(filePath), filepath.Ext(filePath))
	if a, t, ok := strings.Cut(base, " - "); ok {
		return strings.TrimSpace(a), strings.TrimSpace(t)
	}
	return "", base
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// ParseDuration accepts "m:ss", "h:mm:ss", plain seconds ("225", "225.5")
// or a Go duration ("3m45s") and returns seconds.
func ParseDuration(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	if strings.Contains(s, ":") {
		parts := strings.Split(s, ":")
		if len(parts) > 3 {
			return 0, fmt.Errorf("invalid duration %q", s)
		}
		total := 0.0
		for i, p := range parts {
			v, err := strconv.ParseFloat(p, 64)
			if err != nil || v < 0 {
				return 0, fmt.Errorf("invalid duration %q", s)
			}
			if i < len(parts)-1 && v != float64(int(v)) {
				return 0, fmt.Errorf("invalid duration %q", s)
			}
			total = total*60 + v
		}
		return total, nil
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		if v < 0 {
			return 0, fmt.Errorf("negative duration %q", s)
		}
		return v, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	if d < 0 {
		return 0, fmt.Errorf("negative duration %q", s)
	}
	return d.Seconds(), nil
}
