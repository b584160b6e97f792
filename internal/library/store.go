// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package library persists the study library in SQLite: documents, analyses,
// generated study material, spaced-repetition review state, and session
// history. It also maintains a full-text index over material content.
package library

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/doculearn/doculearn/pkg/types"
)

const (
	indexDir = "index"
	dbFile   = "doculearn.db"
)

// Store manages the library SQLite database.
type Store struct {
	db         *sql.DB
	libraryDir string
	maxResults int
}

// NewStore opens or creates the library database at
// libraryDir/index/doculearn.db, creating the schema when missing.
func NewStore(cfg types.LibraryConfig) (*Store, error) {
	dbDir := filepath.Join(cfg.LibraryDir, indexDir)
	if err := os.MkdirAll(dbDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	dbPath := filepath.Join(dbDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	s := &Store{db: db, libraryDir: cfg.LibraryDir, maxResults: maxResults}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS documents (
			id TEXT PRIMARY KEY,
			title TEXT,
			kind TEXT,
			source_path TEXT,
			source_url TEXT,
			pages INTEGER,
			word_count INTEGER,
			ingested_at TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS analyses (
			document_id TEXT PRIMARY KEY REFERENCES documents(id),
			difficulty TEXT,
			topics TEXT,
			readability REAL,
			suggested_quiz_count INTEGER,
			key_concepts TEXT,
			sections TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS units (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			document_id TEXT NOT NULL REFERENCES documents(id),
			kind TEXT NOT NULL,
			concept TEXT,
			content TEXT NOT NULL,
			payload TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_units_document_id ON units(document_id)`,
		`CREATE INDEX IF NOT EXISTS idx_units_kind ON units(kind)`,
		`CREATE TABLE IF NOT EXISTS review_items (
			learner TEXT NOT NULL,
			item_id TEXT NOT NULL,
			easiness REAL NOT NULL,
			repetition INTEGER NOT NULL,
			interval_days INTEGER NOT NULL,
			due_date TEXT NOT NULL,
			last_reviewed_at TEXT,
			PRIMARY KEY (learner, item_id)
		)`,
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			learner TEXT NOT NULL,
			document_id TEXT NOT NULL,
			created_at TEXT NOT NULL,
			estimated_minutes INTEGER,
			status TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS attempts (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT,
			learner TEXT NOT NULL,
			document_id TEXT NOT NULL,
			score REAL NOT NULL,
			correct INTEGER NOT NULL,
			total INTEGER NOT NULL,
			next_action TEXT,
			completed_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_attempts_learner ON attempts(learner)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	// FTS5 virtual table with triggers for sync.
	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='units_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}

	if ftsExists == 0 {
		ftsStatements := []string{
			`CREATE VIRTUAL TABLE units_fts USING fts5(content, content=units, content_rowid=rowid)`,
			`CREATE TRIGGER units_ai AFTER INSERT ON units BEGIN
				INSERT INTO units_fts(rowid, content) VALUES (new.rowid, new.content);
			END`,
			`CREATE TRIGGER units_ad AFTER DELETE ON units BEGIN
				INSERT INTO units_fts(units_fts, rowid, content) VALUES('delete', old.rowid, old.content);
			END`,
			`CREATE TRIGGER units_au AFTER UPDATE ON units BEGIN
				INSERT INTO units_fts(units_fts, rowid, content) VALUES('delete', old.rowid, old.content);
				INSERT INTO units_fts(rowid, content) VALUES (new.rowid, new.content);
			END`,
		}
		for _, stmt := range ftsStatements {
			if _, err := s.db.Exec(stmt); err != nil {
				return fmt.Errorf("creating FTS infrastructure: %w", err)
			}
		}
	}

	return nil
}
