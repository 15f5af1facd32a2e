package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/quranhifz/hifzd/internal/apperr"
	"github.com/quranhifz/hifzd/internal/models"
	"github.com/quranhifz/hifzd/internal/mushaf"
)

// FlashcardStore defines flashcard persistence operations. Consumers should
// depend on this interface rather than the concrete repo to facilitate
// testing with mocks.
type FlashcardStore interface {
	Create(card models.Flashcard) error
	Get(id string) (*models.Flashcard, error)
	Update(card models.Flashcard) error
	Delete(id string) error
	All() ([]models.Flashcard, error)
	ByType(t models.FlashcardType) ([]models.Flashcard, error)
	BySurah(surah int) ([]models.Flashcard, error)
	ByPage(page int) ([]models.Flashcard, error)
	ByJuz(juz int) ([]models.Flashcard, error)
	Due(now time.Time) ([]models.Flashcard, error)
	DueByType(t models.FlashcardType, now time.Time) ([]models.Flashcard, error)
	Stats(now time.Time) (*models.FlashcardStats, error)
	ExportJSON() ([]byte, error)
	ImportJSON(data []byte, clearExisting bool) (int, error)
}

// FlashcardRepo is the SQLite implementation of FlashcardStore.
type FlashcardRepo struct {
	db *DB
}

var _ FlashcardStore = (*FlashcardRepo)(nil)

func NewFlashcardRepo(db *DB) *FlashcardRepo {
	return &FlashcardRepo{db: db}
}

const flashcardColumns = `id, type, surah, ayah, page, front, back, fsrs_state, metadata, created_at, last_reviewed`

// Create inserts a new card. A duplicate id returns apperr.ErrAlreadyExists.
func (r *FlashcardRepo) Create(card models.Flashcard) error {
	stateJSON, err := json.Marshal(card.FSRS)
	if err != nil {
		return fmt.Errorf("store: encode fsrs state: %w", err)
	}
	metaJSON, err := json.Marshal(card.Metadata)
	if err != nil {
		return fmt.Errorf("store: encode metadata: %w", err)
	}

	_, err = r.db.conn.Exec(`
		INSERT INTO flashcards (id, type, surah, ayah, page, front, back, fsrs_state, due, metadata, created_at, last_reviewed)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, card.ID, string(card.Type), card.Surah, card.Ayah, card.Page, card.Front, card.Back,
		string(stateJSON), card.FSRS.Due.UTC(), string(metaJSON), card.CreatedAt.UTC(), nullableTime(card.LastReviewed))
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return fmt.Errorf("store: flashcard %s: %w", card.ID, apperr.ErrAlreadyExists)
		}
		return fmt.Errorf("store: create flashcard: %w", err)
	}
	return nil
}

// Get returns one card by id, or apperr.ErrNotFound.
func (r *FlashcardRepo) Get(id string) (*models.Flashcard, error) {
	row := r.db.conn.QueryRow(`SELECT `+flashcardColumns+` FROM flashcards WHERE id = ?`, id)
	card, err := scanFlashcard(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("store: flashcard %s: %w", id, apperr.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("store: get flashcard: %w", err)
	}
	return card, nil
}

// Update replaces a card's mutable fields. Updating a missing card returns
// apperr.ErrNotFound.
func (r *FlashcardRepo) Update(card models.Flashcard) error {
	stateJSON, err := json.Marshal(card.FSRS)
	if err != nil {
		return fmt.Errorf("store: encode fsrs state: %w", err)
	}
	metaJSON, err := json.Marshal(card.Metadata)
	if err != nil {
		return fmt.Errorf("store: encode metadata: %w", err)
	}

	res, err := r.db.conn.Exec(`
		UPDATE flashcards
		SET type = ?, surah = ?, ayah = ?, page = ?, front = ?, back = ?,
		    fsrs_state = ?, due = ?, metadata = ?, last_reviewed = ?
		WHERE id = ?
	`, string(card.Type), card.Surah, card.Ayah, card.Page, card.Front, card.Back,
		string(stateJSON), card.FSRS.Due.UTC(), string(metaJSON), nullableTime(card.LastReviewed), card.ID)
	if err != nil {
		return fmt.Errorf("store: update flashcard: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("store: flashcard %s: %w", card.ID, apperr.ErrNotFound)
	}
	return nil
}

// Delete removes a card. Deleting a missing card returns apperr.ErrNotFound.
func (r *FlashcardRepo) Delete(id string) error {
	res, err := r.db.conn.Exec(`DELETE FROM flashcards WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("store: delete flashcard: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("store: flashcard %s: %w", id, apperr.ErrNotFound)
	}
	return nil
}

// All returns every card ordered by creation time.
func (r *FlashcardRepo) All() ([]models.Flashcard, error) {
	return r.query(`SELECT ` + flashcardColumns + ` FROM flashcards ORDER BY created_at`)
}

// ByType returns the cards of one type.
func (r *FlashcardRepo) ByType(t models.FlashcardType) ([]models.Flashcard, error) {
	return r.query(`SELECT `+flashcardColumns+` FROM flashcards WHERE type = ? ORDER BY created_at`, string(t))
}

// BySurah returns the cards anchored to one surah.
func (r *FlashcardRepo) BySurah(surah int) ([]models.Flashcard, error) {
	return r.query(`SELECT `+flashcardColumns+` FROM flashcards WHERE surah = ? ORDER BY created_at`, surah)
}

// ByPage returns the cards anchored to one page.
func (r *FlashcardRepo) ByPage(page int) ([]models.Flashcard, error) {
	return r.query(`SELECT `+flashcardColumns+` FROM flashcards WHERE page = ? ORDER BY created_at`, page)
}

// ByJuz returns the cards whose page falls inside the juz's page range.
func (r *FlashcardRepo) ByJuz(juz int) ([]models.Flashcard, error) {
	jr, ok := mushaf.JuzInfo(juz)
	if !ok {
		return nil, fmt.Errorf("store: juz %d: %w", juz, apperr.ErrOutOfRange)
	}
	return r.query(`SELECT `+flashcardColumns+` FROM flashcards WHERE page BETWEEN ? AND ? ORDER BY created_at`,
		jr.StartPage, jr.EndPage)
}

// Due returns the cards due at the given instant, earliest first.
func (r *FlashcardRepo) Due(now time.Time) ([]models.Flashcard, error) {
	return r.query(`SELECT `+flashcardColumns+` FROM flashcards WHERE due <= ? ORDER BY due`, now.UTC())
}

// DueByType returns the due cards of one type, earliest first.
func (r *FlashcardRepo) DueByType(t models.FlashcardType, now time.Time) ([]models.Flashcard, error) {
	return r.query(`SELECT `+flashcardColumns+` FROM flashcards WHERE type = ? AND due <= ? ORDER BY due`,
		string(t), now.UTC())
}

// Stats counts cards per type and the number due at the given instant.
func (r *FlashcardRepo) Stats(now time.Time) (*models.FlashcardStats, error) {
	stats := &models.FlashcardStats{ByType: make(map[models.FlashcardType]int)}
	for _, t := range models.FlashcardTypes() {
		stats.ByType[t] = 0
	}

	rows, err := r.db.conn.Query(`SELECT type, COUNT(*) FROM flashcards GROUP BY type`)
	if err != nil {
		return nil, fmt.Errorf("store: flashcard stats: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var t string
		var n int
		if err := rows.Scan(&t, &n); err != nil {
			return nil, err
		}
		stats.ByType[models.FlashcardType(t)] = n
		stats.Total += n
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.db.conn.QueryRow(`SELECT COUNT(*) FROM flashcards WHERE due <= ?`, now.UTC()).
		Scan(&stats.DueToday); err != nil {
		return nil, fmt.Errorf("store: flashcard due count: %w", err)
	}
	return stats, nil
}

// ExportJSON serializes every card for backup.
func (r *FlashcardRepo) ExportJSON() ([]byte, error) {
	cards, err := r.All()
	if err != nil {
		return nil, err
	}
	if cards == nil {
		cards = []models.Flashcard{}
	}
	return json.MarshalIndent(cards, "", "  ")
}

// ImportJSON restores cards from an export. Imported cards get fresh ids so
// an import never collides with existing rows. Returns the number imported.
func (r *FlashcardRepo) ImportJSON(data []byte, clearExisting bool) (int, error) {
	var cards []models.Flashcard
	if err := json.Unmarshal(data, &cards); err != nil {
		return 0, fmt.Errorf("store: decode flashcard import: %w", err)
	}

	if clearExisting {
		if _, err := r.db.conn.Exec(`DELETE FROM flashcards`); err != nil {
			return 0, fmt.Errorf("store: clear flashcards: %w", err)
		}
	}

	imported := 0
	for _, card := range cards {
		card.ID = uuid.NewString()
		if err := r.Create(card); err != nil {
			return imported, err
		}
		imported++
	}
	return imported, nil
}

func (r *FlashcardRepo) query(q string, args ...any) ([]models.Flashcard, error) {
	rows, err := r.db.conn.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("store: query flashcards: %w", err)
	}
	defer rows.Close()

	var out []models.Flashcard
	for rows.Next() {
		card, err := scanFlashcard(rows)
		if err != nil {
			return nil, fmt.Errorf("store: scan flashcard: %w", err)
		}
		out = append(out, *card)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFlashcard(row rowScanner) (*models.Flashcard, error) {
	var (
		card         models.Flashcard
		cardType     string
		stateJSON    string
		metaJSON     string
		lastReviewed sql.NullTime
	)
	err := row.Scan(&card.ID, &cardType, &card.Surah, &card.Ayah, &card.Page,
		&card.Front, &card.Back, &stateJSON, &metaJSON, &card.CreatedAt, &lastReviewed)
	if err != nil {
		return nil, err
	}
	card.Type = models.FlashcardType(cardType)
	if err := json.Unmarshal([]byte(stateJSON), &card.FSRS); err != nil {
		return nil, fmt.Errorf("decode fsrs state: %w", err)
	}
	if err := json.Unmarshal([]byte(metaJSON), &card.Metadata); err != nil {
		return nil, fmt.Errorf("decode metadata: %w", err)
	}
	if lastReviewed.Valid {
		card.LastReviewed = lastReviewed.Time
	}
	return &card, nil
}

func nullableTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UTC()
}
