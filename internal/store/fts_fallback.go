//go:build !sqlite_fts5

package store

import (
	"database/sql"
	"fmt"
)

func initFTS(_ *sql.DB) error {
	// FTS5 not available; verse search uses LIKE over the diacritic-stripped
	// text_plain column.
	return nil
}

func verseFTSUpsert(_ *sql.Tx, _, _, _ string) error {
	// Plain text is already stored in the verses table; nothing extra to do.
	return nil
}

// Search performs a LIKE-based search (fallback when FTS5 is not compiled
// in). The query has its diacritics stripped so vocalized and bare input
// match the same verses.
func (r *VerseRepo) Search(query string, limit int) ([]VerseHit, error) {
	if limit <= 0 {
		limit = 20
	}
	like := "%" + StripDiacritics(query) + "%"
	rows, err := r.db.conn.Query(`
		SELECT verse_key, surah, ayah, page_number, juz_number, text, substr(text, 1, 200)
		FROM verses
		WHERE text_plain LIKE ?
		ORDER BY surah, ayah
		LIMIT ?
	`, like, limit)
	if err != nil {
		return nil, fmt.Errorf("store: verse search: %w", err)
	}
	defer rows.Close()

	var out []VerseHit
	for rows.Next() {
		h, err := r.hitFromRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *h)
	}
	return out, rows.Err()
}
