//go:build sqlite_fts5

package store

import (
	"database/sql"
	"fmt"
)

func initFTS(conn *sql.DB) error {
	_, err := conn.Exec(`
		CREATE VIRTUAL TABLE IF NOT EXISTS verses_fts USING fts5(
			verse_key UNINDEXED,
			text,
			text_plain,
			tokenize = 'unicode61 remove_diacritics 2'
		);
	`)
	return err
}

func verseFTSUpsert(tx *sql.Tx, verseKey, text, plain string) error {
	_, _ = tx.Exec(`DELETE FROM verses_fts WHERE verse_key = ?`, verseKey)
	_, err := tx.Exec(`INSERT INTO verses_fts (verse_key, text, text_plain) VALUES (?, ?, ?)`,
		verseKey, text, plain)
	if err != nil {
		return fmt.Errorf("store: upsert verse fts: %w", err)
	}
	return nil
}

// Search performs an FTS5 full-text search over verse text, ranked by
// relevance.
func (r *VerseRepo) Search(query string, limit int) ([]VerseHit, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.conn.Query(`
		SELECT v.verse_key,
		       v.surah,
		       v.ayah,
		       v.page_number,
		       v.juz_number,
		       v.text,
		       snippet(verses_fts, 1, '<b>', '</b>', '...', 32)
		FROM verses_fts f
		JOIN verses v ON v.verse_key = f.verse_key
		WHERE verses_fts MATCH ?
		ORDER BY rank
		LIMIT ?
	`, query, limit)
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
