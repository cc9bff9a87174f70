package main

import (
	"fmt"
	"log/slog"

	"github.com/Zuo-Peng/chordsync/internal/index"
)

func openDB() (*index.DB, error) {
	db, err := index.OpenDB(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	return db, nil
}

// refreshIndex brings the index up to date before browsing. Failures are
// logged; a stale index is still usable.
func refreshIndex(db *index.DB) {
	stats, err := index.IndexAll(db, cfg.SongsRoot)
	if err != nil {
		slog.Warn("auto index", "root", cfg.SongsRoot, "err", err)
		return
	}
	slog.Debug("auto index", "stats", stats.String())
}

// lookupSong resolves a full or abbreviated song id.
func lookupSong(db *index.DB, arg string) (*index.SongRow, error) {
	id, err := db.ResolveID(arg)
	if err != nil {
		return nil, err
	}
	if id == "" {
		return nil, fmt.Errorf("song not found: %s", arg)
	}
	song, err := db.GetSong(id)
	if err != nil {
		return nil, fmt.Errorf("get song: %w", err)
	}
	if song == nil {
		return nil, fmt.Errorf("song not found: %s", arg)
	}
	return song, nil
}
