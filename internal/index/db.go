package index

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
	"github.com/Zuo-Peng/chordsync/internal/parse"
)

const schema = `
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA cache_size = -64000;
PRAGMA busy_timeout = 5000;

CREATE TABLE IF NOT EXISTS songs (
    song_id     TEXT PRIMARY KEY,
    file_path   TEXT NOT NULL,
    title       TEXT NOT NULL DEFAULT '',
    artist      TEXT NOT NULL DEFAULT '',
    category    TEXT NOT NULL DEFAULT '',
    capo        INTEGER NOT NULL DEFAULT 0,
    youtube_url TEXT NOT NULL DEFAULT '',
    duration    REAL NOT NULL DEFAULT 0,
    content     TEXT NOT NULL DEFAULT '',
    lyrics      TEXT NOT NULL DEFAULT '',
    chords      TEXT NOT NULL DEFAULT '',
    mtime       INTEGER NOT NULL DEFAULT 0,
    size        INTEGER NOT NULL DEFAULT 0
);

CREATE VIRTUAL TABLE IF NOT EXISTS songs_fts USING fts5(
    title,
    artist,
    lyrics,
    content=songs,
    content_rowid=rowid,
    tokenize='unicode61'
);

-- triggers to keep FTS in sync
CREATE TRIGGER IF NOT EXISTS songs_ai AFTER INSERT ON songs BEGIN
    INSERT INTO songs_fts(rowid, title, artist, lyrics) VALUES (new.rowid, new.title, new.artist, new.lyrics);
END;

CREATE TRIGGER IF NOT EXISTS songs_ad AFTER DELETE ON songs BEGIN
    INSERT INTO songs_fts(songs_fts, rowid, title, artist, lyrics) VALUES('delete', old.rowid, old.title, old.artist, old.lyrics);
END;

CREATE TRIGGER IF NOT EXISTS songs_au AFTER UPDATE ON songs BEGIN
    INSERT INTO songs_fts(songs_fts, rowid, title, artist, lyrics) VALUES('delete', old.rowid, old.title, old.artist, old.lyrics);
    INSERT INTO songs_fts(rowid, title, artist, lyrics) VALUES (new.rowid, new.title, new.artist, new.lyrics);
END;

-- per-song sync data, kept across re-indexing
CREATE TABLE IF NOT EXISTS calibrations (
    song_id    TEXT PRIMARY KEY,
    timestamps TEXT NOT NULL,
    updated_at TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS offsets (
    song_id TEXT PRIMARY KEY,
    seconds REAL NOT NULL DEFAULT 0
);
`

type DB struct {
	db *sql.DB
}

func OpenDB(dbPath string) (*DB, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	// schema version tracking for forced re-index
	db.Exec("CREATE TABLE IF NOT EXISTS meta (key TEXT PRIMARY KEY, value TEXT)")
	d := &DB{db: db}
	d.migrateSchemaVersion()

	return d, nil
}

// schemaVersion should be bumped whenever song parsing logic changes
// to force a full re-index.
const schemaVersion = "1"

func (d *DB) migrateSchemaVersion() {
	var ver string
	err := d.db.QueryRow("SELECT value FROM meta WHERE key = 'schema_version'").Scan(&ver)
	if err != nil || ver != schemaVersion {
		// force re-index by resetting all song mtime/size to 0
		d.db.Exec("UPDATE songs SET mtime = 0, size = 0")
		d.db.Exec("INSERT OR REPLACE INTO meta (key, value) VALUES ('schema_version', ?)", schemaVersion)
	}
}

func (d *DB) Close() error {
	return d.db.Close()
}

func (d *DB) Raw() *sql.DB {
	return d.db
}

type FileStamp struct {
	Mtime int64
	Size  int64
}

func (d *DB) GetFileStamp(songID string) (*FileStamp, error) {
	var info FileStamp
	err := d.db.QueryRow(
		"SELECT mtime, size FROM songs WHERE song_id = ?",
		songID,
	).Scan(&info.Mtime, &info.Size)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &info, nil
}

func (d *DB) AllSongIDs() (map[string]struct{}, error) {
	rows, err := d.db.Query("SELECT song_id FROM songs")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make(map[string]struct{})
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids[id] = struct{}{}
	}
	return ids, rows.Err()
}

// PurgeSong removes a song together with its calibration and offset.
func (d *DB) PurgeSong(songID string) error {
	tx, err := d.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, q := range []string{
		"DELETE FROM calibrations WHERE song_id = ?",
		"DELETE FROM offsets WHERE song_id = ?",
		"DELETE FROM songs WHERE song_id = ?",
	} {
		if _, err := tx.Exec(q, songID); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (d *DB) SongCount() (int, error) {
	var n int
	err := d.db.QueryRow("SELECT COUNT(*) FROM songs").Scan(&n)
	return n, err
}

// CalibratedCount counts indexed songs that have saved timestamps.
func (d *DB) CalibratedCount() (int, error) {
	var n int
	err := d.db.QueryRow(
		"SELECT COUNT(*) FROM calibrations c JOIN songs s ON s.song_id = c.song_id",
	).Scan(&n)
	return n, err
}

// FTSCount returns the number of rows in the full-text index.
func (d *DB) FTSCount() (int, error) {
	var n int
	err := d.db.QueryRow("SELECT COUNT(*) FROM songs_fts").Scan(&n)
	return n, err
}

type SongRow struct {
	SongID     string
	FilePath   string
	Title      string
	Artist     string
	Category   string
	Capo       int
	YouTubeURL string
	Duration   float64
	Content    string
	Chords     string // space separated
}

// Meta returns the song's metadata as the viewer and exporters use it.
func (s *SongRow) Meta() parse.SongMeta {
	return parse.SongMeta{
		SongID:     s.SongID,
		Title:      s.Title,
		Artist:     s.Artist,
		Category:   s.Category,
		Capo:       s.Capo,
		YouTubeURL: s.YouTubeURL,
		Duration:   s.Duration,
		FilePath:   s.FilePath,
	}
}

const songColumns = "song_id, file_path, title, artist, category, capo, youtube_url, duration, content, chords"

func scanSong(row interface{ Scan(...any) error }) (*SongRow, error) {
	var s SongRow
	err := row.Scan(&s.SongID, &s.FilePath, &s.Title, &s.Artist, &s.Category,
		&s.Capo, &s.YouTubeURL, &s.Duration, &s.Content, &s.Chords)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (d *DB) GetSong(songID string) (*SongRow, error) {
	s, err := scanSong(d.db.QueryRow(
		"SELECT "+songColumns+" FROM songs WHERE song_id = ?", songID,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return s, err
}

// ErrAmbiguousID is returned when a song id prefix matches several songs.
var ErrAmbiguousID = errors.New("ambiguous song id")

// ResolveID expands a song id prefix to the full id. It returns "" when
// nothing matches.
func (d *DB) ResolveID(prefix string) (string, error) {
	if prefix == "" {
		return "", nil
	}
	rows, err := d.db.Query(
		"SELECT song_id FROM songs WHERE song_id = ? OR song_id LIKE ? ESCAPE '\\' ORDER BY song_id = ? DESC LIMIT 2",
		prefix, escapeLike(prefix)+"%", prefix,
	)
	if err != nil {
		return "", err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return "", err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return "", err
	}
	switch {
	case len(ids) == 0:
		return "", nil
	case ids[0] == prefix || len(ids) == 1:
		return ids[0], nil
	default:
		return "", fmt.Errorf("%w: %q", ErrAmbiguousID, prefix)
	}
}

func escapeLike(s string) string {
	var b []byte
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '%', '_', '\\':
			b = append(b, '\\')
		}
		b = append(b, s[i])
	}
	return string(b)
}
