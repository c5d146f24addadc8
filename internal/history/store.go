// Copyright (c) 2025 GlyphOS Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package history

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/glyphos/glyphchat/internal/session"
	"github.com/glyphos/glyphchat/internal/util"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	ErrNotFound = errors.New("session not found")
)

// =============================================================================
// RECORD TYPES
// =============================================================================

// Record is one archived exchange.
type Record struct {
	ID         string
	Provider   string
	Model      string
	Prompt     string
	Response   string
	Status     string
	StartedAt  time.Time
	FinishedAt time.Time
}

// Meta is the listing view of a record: everything but the full
// response body.
type Meta struct {
	ID        string
	Provider  string
	Model     string
	Status    string
	StartedAt time.Time
	Preview   string
}

// previewWidth bounds the prompt preview in listings. Truncation is
// cell-width aware so CJK prompts line up with ASCII ones.
const previewWidth = 60

// =============================================================================
// SQLITE STORE
// =============================================================================

const schema = `
CREATE TABLE IF NOT EXISTS sessions (
    id          TEXT PRIMARY KEY,
    provider    TEXT NOT NULL,
    model       TEXT NOT NULL,
    prompt      TEXT NOT NULL,
    response    TEXT NOT NULL,
    status      TEXT NOT NULL,
    started_at  INTEGER NOT NULL,
    finished_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_sessions_started ON sessions(started_at DESC);
`

// Store persists sessions in a single SQLite file. It satisfies
// session.Archiver.
type Store struct {
	db *sql.DB
}

// Open creates or opens the archive at path, building parent
// directories as needed.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Archive implements session.Archiver.
func (s *Store) Archive(sess *session.Session) error {
	_, err := s.db.Exec(
		`INSERT INTO sessions (id, provider, model, prompt, response, status, started_at, finished_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		sess.ID.String(),
		sess.Provider,
		sess.Model,
		sess.Prompt,
		sess.Text(),
		sess.Status.String(),
		sess.StartedAt.UnixMilli(),
		sess.FinishedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("failed to archive session: %w", err)
	}
	return nil
}

// List returns the newest sessions first, up to limit (0 means a
// default page of 20).
func (s *Store) List(limit int) ([]Meta, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, provider, model, prompt, status, started_at
		 FROM sessions ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	return scanMetas(rows)
}

// Search finds sessions whose prompt or response contains the term,
// newest first.
func (s *Store) Search(term string, limit int) ([]Meta, error) {
	if limit <= 0 {
		limit = 20
	}
	pattern := "%" + term + "%"

	rows, err := s.db.Query(
		`SELECT id, provider, model, prompt, status, started_at
		 FROM sessions
		 WHERE prompt LIKE ? OR response LIKE ?
		 ORDER BY started_at DESC LIMIT ?`, pattern, pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search sessions: %w", err)
	}
	defer rows.Close()

	return scanMetas(rows)
}

func scanMetas(rows *sql.Rows) ([]Meta, error) {
	var metas []Meta
	for rows.Next() {
		var m Meta
		var prompt string
		var started int64
		if err := rows.Scan(&m.ID, &m.Provider, &m.Model, &prompt, &m.Status, &started); err != nil {
			return nil, err
		}
		m.StartedAt = time.UnixMilli(started)
		m.Preview = previewOf(prompt)
		metas = append(metas, m)
	}
	return metas, rows.Err()
}

func previewOf(prompt string) string {
	// Collapse the prompt to its first line before truncating.
	if i := strings.IndexByte(prompt, '\n'); i >= 0 {
		prompt = prompt[:i]
	}
	return util.TruncateWidth(prompt, previewWidth)
}

// Get loads a full record by ID. Short unique ID prefixes are
// accepted, matching how IDs are shown in listings.
func (s *Store) Get(id string) (*Record, error) {
	row := s.db.QueryRow(
		`SELECT id, provider, model, prompt, response, status, started_at, finished_at
		 FROM sessions WHERE id = ? OR id LIKE ?
		 ORDER BY started_at DESC LIMIT 1`, id, id+"%")

	var r Record
	var started, finished int64
	err := row.Scan(&r.ID, &r.Provider, &r.Model, &r.Prompt, &r.Response, &r.Status, &started, &finished)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	r.StartedAt = time.UnixMilli(started)
	r.FinishedAt = time.UnixMilli(finished)
	return &r, nil
}

// Delete removes one archived session. Short unique ID prefixes are
// accepted, the same as Get.
func (s *Store) Delete(id string) error {
	r, err := s.Get(id)
	if err != nil {
		return err
	}
	res, err := s.db.Exec(`DELETE FROM sessions WHERE id = ?`, r.ID)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Count returns the number of archived sessions.
func (s *Store) Count() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM sessions`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// ExportMarkdown renders an archived session as a standalone markdown
// document suitable for saving or sharing.
func (s *Store) ExportMarkdown(id string) (string, error) {
	r, err := s.Get(id)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString("# Chat Session\n\n")
	sb.WriteString(fmt.Sprintf("- **Provider:** %s\n", r.Provider))
	sb.WriteString(fmt.Sprintf("- **Model:** %s\n", r.Model))
	sb.WriteString(fmt.Sprintf("- **Date:** %s\n", r.StartedAt.Format(time.RFC1123)))
	sb.WriteString(fmt.Sprintf("- **Status:** %s\n\n", r.Status))
	sb.WriteString("## Prompt\n\n")
	sb.WriteString(r.Prompt)
	sb.WriteString("\n\n## Response\n\n")
	sb.WriteString(r.Response)
	sb.WriteString("\n")
	return sb.String(), nil
}
