// Package store provides SQLite-backed persistence for flashcards,
// annotations and the verse search index, with optional FTS5 full-text
// search.
package store

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const coreSchemaSQL = `
CREATE TABLE IF NOT EXISTS flashcards (
	id            TEXT PRIMARY KEY,
	type          TEXT NOT NULL,
	surah         INTEGER NOT NULL,
	ayah          INTEGER NOT NULL,
	page          INTEGER NOT NULL,
	front         TEXT NOT NULL DEFAULT '',
	back          TEXT NOT NULL DEFAULT '',
	fsrs_state    TEXT NOT NULL,
	due           DATETIME NOT NULL,
	metadata      TEXT NOT NULL DEFAULT '{}',
	created_at    DATETIME NOT NULL,
	last_reviewed DATETIME
);

CREATE INDEX IF NOT EXISTS idx_flashcards_type  ON flashcards(type);
CREATE INDEX IF NOT EXISTS idx_flashcards_surah ON flashcards(surah);
CREATE INDEX IF NOT EXISTS idx_flashcards_page  ON flashcards(page);
CREATE INDEX IF NOT EXISTS idx_flashcards_due   ON flashcards(due);

CREATE TABLE IF NOT EXISTS annotations (
	id          TEXT PRIMARY KEY,
	type        TEXT NOT NULL,
	page_number INTEGER NOT NULL,
	verse_key   TEXT NOT NULL DEFAULT '',
	data        TEXT NOT NULL,
	tags        TEXT NOT NULL DEFAULT '[]',
	created_at  DATETIME NOT NULL,
	modified_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_annotations_page  ON annotations(page_number);
CREATE INDEX IF NOT EXISTS idx_annotations_verse ON annotations(verse_key);
CREATE INDEX IF NOT EXISTS idx_annotations_type  ON annotations(type);

CREATE TABLE IF NOT EXISTS verses (
	verse_key   TEXT PRIMARY KEY,
	surah       INTEGER NOT NULL,
	ayah        INTEGER NOT NULL,
	page_number INTEGER NOT NULL,
	juz_number  INTEGER NOT NULL,
	text        TEXT NOT NULL,
	text_plain  TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_verses_page ON verses(page_number);
`

// DB wraps a sql.DB with store-specific operations.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database and applies the schema.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("store: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: ping: %w", err)
	}
	if _, err := conn.Exec(coreSchemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: apply core schema: %w", err)
	}
	if err := initFTS(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: apply fts schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}
