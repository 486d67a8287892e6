// Package sqlite persists notes in a single-file SQLite database (pure Go driver).
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/aretw0/jot/pkg/core"
)

const schema = `
CREATE TABLE IF NOT EXISTS notes (
	position INTEGER PRIMARY KEY,
	id       TEXT NOT NULL,
	title    TEXT NOT NULL,
	subject  TEXT NOT NULL DEFAULT '',
	content  TEXT NOT NULL,
	date     TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS drafts (
	slot    INTEGER PRIMARY KEY CHECK (slot = 0),
	id      TEXT NOT NULL DEFAULT '',
	title   TEXT NOT NULL DEFAULT '',
	subject TEXT NOT NULL DEFAULT '',
	content TEXT NOT NULL DEFAULT '',
	date    TEXT NOT NULL DEFAULT '',
	idx     INTEGER NOT NULL DEFAULT -1,
	is_new  INTEGER NOT NULL DEFAULT 0
);
`

// Store implements core.Persistence and core.Scratchpad on SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes the database at path. ":memory:" opens a private in-memory database.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One connection keeps ":memory:" databases shared and serializes writers.
	db.SetMaxOpenConns(1)

	s := &Store{db: db, path: path}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) initialize() error {
	if _, err := s.db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		return fmt.Errorf("failed to set busy timeout: %w", err)
	}
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Load returns the collection ordered by position.
func (s *Store) Load(ctx context.Context) ([]core.Note, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, subject, content, date FROM notes ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("failed to query notes: %w", err)
	}
	defer rows.Close()

	notes := []core.Note{}
	for rows.Next() {
		var n core.Note
		if err := rows.Scan(&n.ID, &n.Title, &n.Subject, &n.Content, &n.Date); err != nil {
			return nil, fmt.Errorf("failed to scan note: %w", err)
		}
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read notes: %w", err)
	}
	return notes, nil
}

// Save replaces the collection inside one transaction.
func (s *Store) Save(ctx context.Context, notes []core.Note) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM notes`); err != nil {
		return fmt.Errorf("failed to clear notes: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO notes (position, id, title, subject, content, date) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, n := range notes {
		if _, err := stmt.ExecContext(ctx, i, n.ID, n.Title, n.Subject, n.Content, n.Date); err != nil {
			return fmt.Errorf("failed to insert note %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit notes: %w", err)
	}
	return nil
}

// LoadDraft returns the stored draft, or an empty one with no selection.
func (s *Store) LoadDraft(ctx context.Context) (core.Draft, error) {
	d := core.Draft{Index: -1}
	var isNew int
	err := s.db.QueryRowContext(ctx,
		`SELECT id, title, subject, content, date, idx, is_new FROM drafts WHERE slot = 0`).
		Scan(&d.Note.ID, &d.Note.Title, &d.Note.Subject, &d.Note.Content, &d.Note.Date, &d.Index, &isNew)
	if err == sql.ErrNoRows {
		return core.Draft{Index: -1}, nil
	}
	if err != nil {
		return core.Draft{Index: -1}, fmt.Errorf("failed to query draft: %w", err)
	}
	d.IsNew = isNew != 0
	return d, nil
}

// SaveDraft upserts the single draft row.
func (s *Store) SaveDraft(ctx context.Context, d core.Draft) error {
	isNew := 0
	if d.IsNew {
		isNew = 1
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO drafts (slot, id, title, subject, content, date, idx, is_new)
		 VALUES (0, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(slot) DO UPDATE SET
		   id = excluded.id, title = excluded.title, subject = excluded.subject,
		   content = excluded.content, date = excluded.date,
		   idx = excluded.idx, is_new = excluded.is_new`,
		d.Note.ID, d.Note.Title, d.Note.Subject, d.Note.Content, d.Note.Date, d.Index, isNew)
	if err != nil {
		return fmt.Errorf("failed to save draft: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

var (
	_ core.Persistence = (*Store)(nil)
	_ core.Scratchpad  = (*Store)(nil)
)
