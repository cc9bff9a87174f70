package index

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/Zuo-Peng/chordsync/internal/resolve"
)

// The methods below make *DB the scroll.Store for calibration timestamps
// and the estimated-mode offset. Malformed stored values read as absent.

func (d *DB) LoadTimestamps(songID string) ([]resolve.LineTimestamp, error) {
	ts, _, err := d.GetCalibration(songID)
	return ts, err
}

// GetCalibration returns the saved timestamps and when they were saved.
// Both are zero when the song has no usable calibration.
func (d *DB) GetCalibration(songID string) ([]resolve.LineTimestamp, string, error) {
	var raw, updatedAt string
	err := d.db.QueryRow(
		"SELECT timestamps, updated_at FROM calibrations WHERE song_id = ?", songID,
	).Scan(&raw, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("load calibration: %w", err)
	}

	var ts []resolve.LineTimestamp
	if err := json.Unmarshal([]byte(raw), &ts); err != nil {
		slog.Warn("ignoring malformed calibration", "song_id", songID, "err", err)
		return nil, "", nil
	}
	if err := resolve.Validate(ts); err != nil {
		slog.Warn("ignoring invalid calibration", "song_id", songID, "err", err)
		return nil, "", nil
	}
	if len(ts) == 0 {
		return nil, "", nil
	}
	return ts, updatedAt, nil
}

func (d *DB) SaveTimestamps(songID string, ts []resolve.LineTimestamp) error {
	if len(ts) == 0 {
		return d.ClearTimestamps(songID)
	}
	if err := resolve.Validate(ts); err != nil {
		return err
	}
	raw, err := json.Marshal(ts)
	if err != nil {
		return fmt.Errorf("encode calibration: %w", err)
	}
	_, err = d.db.Exec(
		"INSERT OR REPLACE INTO calibrations (song_id, timestamps, updated_at) VALUES (?, ?, ?)",
		songID, string(raw), time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("save calibration: %w", err)
	}
	return nil
}

func (d *DB) ClearTimestamps(songID string) error {
	if _, err := d.db.Exec("DELETE FROM calibrations WHERE song_id = ?", songID); err != nil {
		return fmt.Errorf("clear calibration: %w", err)
	}
	return nil
}

func (d *DB) LoadOffset(songID string) (float64, error) {
	var v float64
	err := d.db.QueryRow("SELECT seconds FROM offsets WHERE song_id = ?", songID).Scan(&v)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("load offset: %w", err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		slog.Warn("ignoring invalid offset", "song_id", songID, "offset", v)
		return 0, nil
	}
	return v, nil
}

func (d *DB) SaveOffset(songID string, offset float64) error {
	if math.IsNaN(offset) || math.IsInf(offset, 0) || offset < 0 {
		return fmt.Errorf("invalid offset %v", offset)
	}
	_, err := d.db.Exec(
		"INSERT OR REPLACE INTO offsets (song_id, seconds) VALUES (?, ?)",
		songID, offset,
	)
	if err != nil {
		return fmt.Errorf("save offset: %w", err)
	}
	return nil
}
