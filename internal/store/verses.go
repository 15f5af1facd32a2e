package store

import (
	"fmt"
	"strings"

	"github.com/quranhifz/hifzd/internal/models"
	"github.com/quranhifz/hifzd/internal/mushaf"
)

// VerseHit is one verse search result.
type VerseHit struct {
	VerseKey  string `json:"verse_key"`
	Surah     int    `json:"surah"`
	Ayah      int    `json:"ayah"`
	Page      int    `json:"page"`
	Juz       int    `json:"juz"`
	Text      string `json:"text"`
	Snippet   string `json:"snippet"`
	SurahName string `json:"surah_name"`
}

// VerseIndex defines verse search operations.
type VerseIndex interface {
	UpsertVerses(verses []models.Verse) error
	Search(query string, limit int) ([]VerseHit, error)
	Count() (int, error)
}

// VerseRepo is the SQLite implementation of VerseIndex. Verse text is
// indexed twice: verbatim for display and diacritic-stripped for matching,
// so a query typed without harakat still finds fully vocalized text.
type VerseRepo struct {
	db *DB
}

var _ VerseIndex = (*VerseRepo)(nil)

func NewVerseRepo(db *DB) *VerseRepo {
	return &VerseRepo{db: db}
}

// UpsertVerses indexes a batch of verses within a transaction. Re-indexing
// a verse replaces its previous entry.
func (r *VerseRepo) UpsertVerses(verses []models.Verse) error {
	tx, err := r.db.conn.Begin()
	if err != nil {
		return fmt.Errorf("store: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	stmt, err := tx.Prepare(`
		INSERT INTO verses (verse_key, surah, ayah, page_number, juz_number, text, text_plain)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(verse_key) DO UPDATE SET
			page_number = excluded.page_number,
			juz_number  = excluded.juz_number,
			text        = excluded.text,
			text_plain  = excluded.text_plain
	`)
	if err != nil {
		return fmt.Errorf("store: prepare verse upsert: %w", err)
	}
	defer stmt.Close()

	for _, v := range verses {
		plain := StripDiacritics(v.Text)
		if _, err := stmt.Exec(v.VerseKey, v.Surah(), v.Ayah(), v.PageNumber, v.JuzNumber, v.Text, plain); err != nil {
			return fmt.Errorf("store: upsert verse %s: %w", v.VerseKey, err)
		}
		if err := verseFTSUpsert(tx, v.VerseKey, v.Text, plain); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Count returns the number of indexed verses.
func (r *VerseRepo) Count() (int, error) {
	var n int
	if err := r.db.conn.QueryRow(`SELECT COUNT(*) FROM verses`).Scan(&n); err != nil {
		return 0, fmt.Errorf("store: verse count: %w", err)
	}
	return n, nil
}

func (r *VerseRepo) hitFromRow(row rowScanner) (*VerseHit, error) {
	var h VerseHit
	if err := row.Scan(&h.VerseKey, &h.Surah, &h.Ayah, &h.Page, &h.Juz, &h.Text, &h.Snippet); err != nil {
		return nil, err
	}
	h.SurahName = mushaf.SurahName(h.Surah)
	return &h, nil
}

// StripDiacritics removes Arabic tashkeel marks (U+064B..U+0652) and the
// dagger alif (U+0670) so matching ignores vocalization.
func StripDiacritics(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if (r >= 0x064B && r <= 0x0652) || r == 0x0670 {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
