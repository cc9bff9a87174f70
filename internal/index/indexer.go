package index

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/Zuo-Peng/chordsync/internal/parse"
	"github.com/Zuo-Peng/chordsync/internal/scan"
)

type Stats struct {
	Scanned int
	Updated int
	Skipped int
	Pruned  int
	Errors  int
}

func (s Stats) String() string {
	return fmt.Sprintf("scanned=%d updated=%d skipped=%d pruned=%d errors=%d",
		s.Scanned, s.Updated, s.Skipped, s.Pruned, s.Errors)
}

// IndexAll brings the songs table in line with the files under songsRoot.
// Unchanged files (same mtime and size) are skipped and songs whose file is
// gone are pruned along with their sync data. A file that fails to parse
// keeps its previously indexed version.
func IndexAll(db *DB, songsRoot string) (Stats, error) {
	var stats Stats

	files, err := scan.ScanRoot(songsRoot)
	if err != nil {
		return stats, fmt.Errorf("scan: %w", err)
	}
	stats.Scanned = len(files)

	// track which files we see, for pruning
	seenIDs := make(map[string]struct{})

	for _, fi := range files {
		rel, err := filepath.Rel(songsRoot, fi.Path)
		if err != nil {
			rel = fi.Path
		}
		id := parse.SongID(rel)
		seenIDs[id] = struct{}{}

		needs, err := needsUpdate(db, id, fi.Mtime, fi.Size)
		if err != nil {
			stats.Errors++
			slog.Warn("read file stamp", "path", fi.Path, "err", err)
			continue
		}
		if !needs {
			stats.Skipped++
			continue
		}

		song, err := parse.ParseSongFile(fi.Path, songsRoot)
		if err != nil {
			stats.Errors++
			slog.Warn("parse song", "path", fi.Path, "err", err)
			continue
		}

		if err := indexSong(db, song); err != nil {
			stats.Errors++
			slog.Warn("index song", "path", fi.Path, "song_id", id, "err", err)
			continue
		}
		stats.Updated++
	}

	// prune songs whose files no longer exist
	pruned, err := pruneSongs(db, seenIDs)
	if err != nil {
		return stats, fmt.Errorf("prune: %w", err)
	}
	stats.Pruned = pruned

	return stats, nil
}

func needsUpdate(db *DB, songID string, mtime, size int64) (bool, error) {
	info, err := db.GetFileStamp(songID)
	if err != nil {
		return false, err
	}
	if info == nil {
		return true, nil // new song
	}
	return info.Mtime != mtime || info.Size != size, nil
}

// lyricsText is the searchable text of a song: every line with its chords
// stripped.
func lyricsText(lines []parse.Line) string {
	var b strings.Builder
	for _, l := range lines {
		if l.Kind != parse.KindLyrics {
			continue
		}
		b.WriteString(strings.TrimSpace(l.Text()))
		b.WriteByte('\n')
	}
	return b.String()
}

func indexSong(db *DB, song *parse.Song) error {
	tx, err := db.Raw().Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// delete old data first; sync data lives in its own tables and stays
	if _, err := tx.Exec("DELETE FROM songs WHERE song_id = ?", song.Meta.SongID); err != nil {
		return err
	}

	lines := parse.ParseContent(song.Content)
	_, err = tx.Exec(
		`INSERT INTO songs (song_id, file_path, title, artist, category, capo, youtube_url, duration, content, lyrics, chords, mtime, size)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		song.Meta.SongID,
		song.Meta.FilePath,
		song.Meta.Title,
		song.Meta.Artist,
		song.Meta.Category,
		song.Meta.Capo,
		song.Meta.YouTubeURL,
		song.Meta.Duration,
		song.Content,
		lyricsText(lines),
		strings.Join(parse.ExtractChords(song.Content), " "),
		song.Meta.Mtime.Unix(),
		song.Meta.Size,
	)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func pruneSongs(db *DB, seenIDs map[string]struct{}) (int, error) {
	allIDs, err := db.AllSongIDs()
	if err != nil {
		return 0, err
	}

	pruned := 0
	for id := range allIDs {
		if _, ok := seenIDs[id]; !ok {
			if err := db.PurgeSong(id); err != nil {
				return pruned, err
			}
			pruned++
		}
	}
	return pruned, nil
}
