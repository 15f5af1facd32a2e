package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/quranhifz/hifzd/internal/apperr"
	"github.com/quranhifz/hifzd/internal/models"
)

// AnnotationStore defines annotation persistence operations.
type AnnotationStore interface {
	Add(a models.Annotation) (*models.Annotation, error)
	Restore(a models.Annotation) error
	Get(id string) (*models.Annotation, error)
	Update(a models.Annotation) (*models.Annotation, error)
	Delete(id string) error
	Query(filter models.AnnotationFilter) ([]models.Annotation, error)
	DeleteByPage(page int) (int, error)
	DeleteByVerse(verseKey string) (int, error)
	ClearAll() error
	Stats() (*models.AnnotationStats, error)
	ExportJSON() ([]byte, error)
	ImportJSON(data []byte, clearExisting bool) (int, error)
}

// AnnotationRepo is the SQLite implementation of AnnotationStore.
type AnnotationRepo struct {
	db  *DB
	now func() time.Time
}

var _ AnnotationStore = (*AnnotationRepo)(nil)

func NewAnnotationRepo(db *DB) *AnnotationRepo {
	return &AnnotationRepo{db: db, now: time.Now}
}

const annotationColumns = `id, type, page_number, verse_key, data, tags, created_at, modified_at`

// Add stores a new annotation, assigning its id and timestamps. The stored
// annotation is returned.
func (r *AnnotationRepo) Add(a models.Annotation) (*models.Annotation, error) {
	now := r.now().UTC()
	a.ID = uuid.NewString()
	a.CreatedAt = now
	a.ModifiedAt = now
	if a.Data == nil {
		a.Data = json.RawMessage("{}")
	}

	tagsJSON, err := json.Marshal(tagsOrEmpty(a.Tags))
	if err != nil {
		return nil, fmt.Errorf("store: encode tags: %w", err)
	}

	_, err = r.db.conn.Exec(`
		INSERT INTO annotations (id, type, page_number, verse_key, data, tags, created_at, modified_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, a.ID, string(a.Type), a.PageNumber, a.VerseKey, string(a.Data), string(tagsJSON), a.CreatedAt, a.ModifiedAt)
	if err != nil {
		return nil, fmt.Errorf("store: add annotation: %w", err)
	}
	return &a, nil
}

// Restore reinserts a previously deleted annotation exactly as it was,
// keeping its id and timestamps.
func (r *AnnotationRepo) Restore(a models.Annotation) error {
	if a.Data == nil {
		a.Data = json.RawMessage("{}")
	}
	tagsJSON, err := json.Marshal(tagsOrEmpty(a.Tags))
	if err != nil {
		return fmt.Errorf("store: encode tags: %w", err)
	}
	_, err = r.db.conn.Exec(`
		INSERT INTO annotations (id, type, page_number, verse_key, data, tags, created_at, modified_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, a.ID, string(a.Type), a.PageNumber, a.VerseKey, string(a.Data), string(tagsJSON), a.CreatedAt, a.ModifiedAt)
	if err != nil {
		return fmt.Errorf("store: restore annotation: %w", err)
	}
	return nil
}

// Get returns one annotation by id, or apperr.ErrNotFound.
func (r *AnnotationRepo) Get(id string) (*models.Annotation, error) {
	row := r.db.conn.QueryRow(`SELECT `+annotationColumns+` FROM annotations WHERE id = ?`, id)
	a, err := scanAnnotation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("store: annotation %s: %w", id, apperr.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("store: get annotation: %w", err)
	}
	return a, nil
}

// Update replaces an annotation's mutable fields, preserving its creation
// time and bumping the modification time. The updated annotation is
// returned; a missing id yields apperr.ErrNotFound.
func (r *AnnotationRepo) Update(a models.Annotation) (*models.Annotation, error) {
	existing, err := r.Get(a.ID)
	if err != nil {
		return nil, err
	}

	a.CreatedAt = existing.CreatedAt
	a.ModifiedAt = r.now().UTC()
	if a.Data == nil {
		a.Data = existing.Data
	}

	tagsJSON, err := json.Marshal(tagsOrEmpty(a.Tags))
	if err != nil {
		return nil, fmt.Errorf("store: encode tags: %w", err)
	}

	_, err = r.db.conn.Exec(`
		UPDATE annotations
		SET type = ?, page_number = ?, verse_key = ?, data = ?, tags = ?, modified_at = ?
		WHERE id = ?
	`, string(a.Type), a.PageNumber, a.VerseKey, string(a.Data), string(tagsJSON), a.ModifiedAt, a.ID)
	if err != nil {
		return nil, fmt.Errorf("store: update annotation: %w", err)
	}
	return &a, nil
}

// Delete removes one annotation, or returns apperr.ErrNotFound.
func (r *AnnotationRepo) Delete(id string) error {
	res, err := r.db.conn.Exec(`DELETE FROM annotations WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("store: delete annotation: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("store: annotation %s: %w", id, apperr.ErrNotFound)
	}
	return nil
}

// Query returns the annotations matching the filter, oldest first.
func (r *AnnotationRepo) Query(filter models.AnnotationFilter) ([]models.Annotation, error) {
	q := `SELECT ` + annotationColumns + ` FROM annotations WHERE 1=1`
	var args []any
	if filter.PageNumber > 0 {
		q += ` AND page_number = ?`
		args = append(args, filter.PageNumber)
	}
	if filter.VerseKey != "" {
		q += ` AND verse_key = ?`
		args = append(args, filter.VerseKey)
	}
	if filter.Type != "" {
		q += ` AND type = ?`
		args = append(args, string(filter.Type))
	}
	q += ` ORDER BY created_at`

	rows, err := r.db.conn.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("store: query annotations: %w", err)
	}
	defer rows.Close()

	var out []models.Annotation
	for rows.Next() {
		a, err := scanAnnotation(rows)
		if err != nil {
			return nil, fmt.Errorf("store: scan annotation: %w", err)
		}
		if len(filter.Tags) > 0 && !hasAnyTag(a.Tags, filter.Tags) {
			continue
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

// DeleteByPage removes every annotation on one page and reports the count.
func (r *AnnotationRepo) DeleteByPage(page int) (int, error) {
	res, err := r.db.conn.Exec(`DELETE FROM annotations WHERE page_number = ?`, page)
	if err != nil {
		return 0, fmt.Errorf("store: delete page annotations: %w", err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

// DeleteByVerse removes every annotation anchored to one verse and reports
// the count.
func (r *AnnotationRepo) DeleteByVerse(verseKey string) (int, error) {
	res, err := r.db.conn.Exec(`DELETE FROM annotations WHERE verse_key = ?`, verseKey)
	if err != nil {
		return 0, fmt.Errorf("store: delete verse annotations: %w", err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

// ClearAll removes every annotation.
func (r *AnnotationRepo) ClearAll() error {
	if _, err := r.db.conn.Exec(`DELETE FROM annotations`); err != nil {
		return fmt.Errorf("store: clear annotations: %w", err)
	}
	return nil
}

// Stats counts annotations per type and per page.
func (r *AnnotationRepo) Stats() (*models.AnnotationStats, error) {
	stats := &models.AnnotationStats{
		ByType: make(map[models.AnnotationType]int),
		ByPage: make(map[int]int),
	}
	for _, t := range models.AnnotationTypes() {
		stats.ByType[t] = 0
	}

	rows, err := r.db.conn.Query(`SELECT type, page_number FROM annotations`)
	if err != nil {
		return nil, fmt.Errorf("store: annotation stats: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var t string
		var page int
		if err := rows.Scan(&t, &page); err != nil {
			return nil, err
		}
		stats.ByType[models.AnnotationType(t)]++
		stats.ByPage[page]++
		stats.Total++
	}
	return stats, rows.Err()
}

// ExportJSON serializes every annotation for backup.
func (r *AnnotationRepo) ExportJSON() ([]byte, error) {
	annotations, err := r.Query(models.AnnotationFilter{})
	if err != nil {
		return nil, err
	}
	if annotations == nil {
		annotations = []models.Annotation{}
	}
	return json.MarshalIndent(annotations, "", "  ")
}

// ImportJSON restores annotations from an export. Each one is re-added with
// a fresh id and timestamps; returns the number imported.
func (r *AnnotationRepo) ImportJSON(data []byte, clearExisting bool) (int, error) {
	var annotations []models.Annotation
	if err := json.Unmarshal(data, &annotations); err != nil {
		return 0, fmt.Errorf("store: decode annotation import: %w", err)
	}

	if clearExisting {
		if err := r.ClearAll(); err != nil {
			return 0, err
		}
	}

	imported := 0
	for _, a := range annotations {
		if _, err := r.Add(a); err != nil {
			return imported, err
		}
		imported++
	}
	return imported, nil
}

func scanAnnotation(row rowScanner) (*models.Annotation, error) {
	var (
		a        models.Annotation
		aType    string
		dataJSON string
		tagsJSON string
	)
	err := row.Scan(&a.ID, &aType, &a.PageNumber, &a.VerseKey, &dataJSON, &tagsJSON, &a.CreatedAt, &a.ModifiedAt)
	if err != nil {
		return nil, err
	}
	a.Type = models.AnnotationType(aType)
	a.Data = json.RawMessage(dataJSON)
	if err := json.Unmarshal([]byte(tagsJSON), &a.Tags); err != nil {
		return nil, fmt.Errorf("decode tags: %w", err)
	}
	return &a, nil
}

func tagsOrEmpty(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}

func hasAnyTag(have, want []string) bool {
	for _, w := range want {
		for _, h := range have {
			if h == w {
				return true
			}
		}
	}
	return false
}
