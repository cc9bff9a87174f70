package search

import (
	"database/sql"
	"fmt"
	"strings"
	"unicode"

	"github.com/Zuo-Peng/chordsync/internal/index"
)

type Result struct {
	SongID     string
	Title      string
	Artist     string
	Category   string
	Snippet    string
	Calibrated bool
	Rank       float64
}

type Options struct {
	Query    string
	Category string // "" = all
	Artist   string // "" = all, case-insensitive substring
	Limit    int
}

// containsCJK returns true if the string contains any CJK Unified Ideograph.
func containsCJK(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Han, r) {
			return true
		}
	}
	return false
}

// makeSnippet extracts a snippet around the first occurrence of query in text.
func makeSnippet(text, query string, contextChars int) string {
	text = strings.Join(strings.Fields(text), " ")
	lower := strings.ToLower(text)
	qLower := strings.ToLower(query)
	idx := strings.Index(lower, qLower)
	if idx < 0 || len(lower) != len(text) {
		// no match, return head
		if len([]rune(text)) > contextChars*2 {
			return string([]rune(text)[:contextChars*2]) + "..."
		}
		return text
	}
	runes := []rune(text)
	qRunes := []rune(query)
	// find rune position of idx
	runePos := len([]rune(text[:idx]))
	start := runePos - contextChars
	if start < 0 {
		start = 0
	}
	end := runePos + len(qRunes) + contextChars
	if end > len(runes) {
		end = len(runes)
	}
	prefix := ""
	suffix := ""
	if start > 0 {
		prefix = "..."
	}
	if end < len(runes) {
		suffix = "..."
	}
	// wrap the matched part with markers
	snippet := string(runes[start:runePos]) +
		">>>" + string(runes[runePos:runePos+len(qRunes)]) + "<<<" +
		string(runes[runePos+len(qRunes):end])
	return prefix + snippet + suffix
}

var ftsOperators = map[string]bool{"AND": true, "OR": true, "NOT": true}

// ftsQuery turns free text into an FTS5 expression: every word is quoted so
// punctuation cannot break the syntax, and the last word matches as a
// prefix so results follow typing.
func ftsQuery(q string) string {
	fields := strings.Fields(q)
	var parts []string
	for i, f := range fields {
		if ftsOperators[f] && i > 0 && i < len(fields)-1 {
			parts = append(parts, f)
			continue
		}
		f = strings.ReplaceAll(f, `"`, "")
		if f == "" {
			continue
		}
		term := `"` + f + `"`
		if i == len(fields)-1 {
			term += "*"
		}
		parts = append(parts, term)
	}
	return strings.Join(parts, " ")
}

// Search finds songs whose title, artist or lyrics match the query. An
// empty query lists the whole library.
func Search(db *index.DB, opts Options) ([]Result, error) {
	if opts.Limit <= 0 {
		opts.Limit = 100
	}

	q := strings.TrimSpace(opts.Query)
	switch {
	case q == "":
		return ListAll(db, opts)
	case containsCJK(q):
		return searchLike(db, opts)
	}
	expr := ftsQuery(q)
	if expr == "" {
		return ListAll(db, opts)
	}
	return searchFTS(db, opts, expr)
}

func filters(opts Options) ([]string, []interface{}) {
	var conditions []string
	var args []interface{}

	// category filter
	if opts.Category != "" {
		conditions = append(conditions, "s.category = ?")
		args = append(args, opts.Category)
	}

	// artist filter
	if opts.Artist != "" {
		conditions = append(conditions, "s.artist LIKE ?")
		args = append(args, "%"+opts.Artist+"%")
	}
	return conditions, args
}

func searchFTS(db *index.DB, opts Options, expr string) ([]Result, error) {
	conditions, args := filters(opts)

	// FTS match
	conditions = append([]string{"songs_fts MATCH ?"}, conditions...)
	args = append([]interface{}{expr}, args...)

	where := strings.Join(conditions, " AND ")

	query := fmt.Sprintf(`
		SELECT
			s.song_id,
			s.title,
			s.artist,
			s.category,
			snippet(songs_fts, 2, '>>>','<<<', '...', 12) as snip,
			c.song_id IS NOT NULL,
			bm25(songs_fts, 10.0, 5.0, 1.0) as rank
		FROM songs_fts
		JOIN songs s ON songs_fts.rowid = s.rowid
		LEFT JOIN calibrations c ON c.song_id = s.song_id
		WHERE %s
		ORDER BY rank
		LIMIT ?
	`, where)

	args = append(args, opts.Limit)

	rows, err := db.Raw().Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("search query: %w", err)
	}
	defer rows.Close()

	return scanResults(rows)
}

func searchLike(db *index.DB, opts Options) ([]Result, error) {
	conditions, args := filters(opts)

	// LIKE match for CJK substring search
	pattern := "%" + opts.Query + "%"
	conditions = append([]string{"(s.lyrics LIKE ? OR s.title LIKE ? OR s.artist LIKE ?)"}, conditions...)
	args = append([]interface{}{pattern, pattern, pattern}, args...)

	where := strings.Join(conditions, " AND ")

	query := fmt.Sprintf(`
		SELECT
			s.song_id,
			s.title,
			s.artist,
			s.category,
			s.lyrics,
			c.song_id IS NOT NULL
		FROM songs s
		LEFT JOIN calibrations c ON c.song_id = s.song_id
		WHERE %s
		ORDER BY s.artist COLLATE NOCASE, s.title COLLATE NOCASE
		LIMIT ?
	`, where)

	args = append(args, opts.Limit)

	rows, err := db.Raw().Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("search query: %w", err)
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var r Result
		var lyrics string
		if err := rows.Scan(
			&r.SongID, &r.Title, &r.Artist, &r.Category,
			&lyrics, &r.Calibrated,
		); err != nil {
			return nil, err
		}
		r.Snippet = makeSnippet(lyrics, strings.TrimSpace(opts.Query), 20)
		results = append(results, r)
	}
	return results, rows.Err()
}

// ListAll returns the library sorted by artist then title.
func ListAll(db *index.DB, opts Options) ([]Result, error) {
	if opts.Limit <= 0 {
		opts.Limit = 100
	}
	conditions, args := filters(opts)
	where := "1 = 1"
	if len(conditions) > 0 {
		where = strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf(`
		SELECT
			s.song_id,
			s.title,
			s.artist,
			s.category,
			s.chords,
			c.song_id IS NOT NULL,
			0.0
		FROM songs s
		LEFT JOIN calibrations c ON c.song_id = s.song_id
		WHERE %s
		ORDER BY s.artist COLLATE NOCASE, s.title COLLATE NOCASE
		LIMIT ?
	`, where)

	args = append(args, opts.Limit)

	rows, err := db.Raw().Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list query: %w", err)
	}
	defer rows.Close()

	return scanResults(rows)
}

func scanResults(rows *sql.Rows) ([]Result, error) {
	var results []Result
	for rows.Next() {
		var r Result
		if err := rows.Scan(
			&r.SongID, &r.Title, &r.Artist, &r.Category,
			&r.Snippet, &r.Calibrated, &r.Rank,
		); err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}
