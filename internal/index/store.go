// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package index persists catalog entries in SQLite and builds a full-text
// retrieval index over them.
package index

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/catalog-engine/internal/parse"
	"github.com/pdiddy/catalog-engine/pkg/types"
)

const dbFile = "catalog.db"

// Store manages the catalog index SQLite database.
type Store struct {
	db         *sql.DB
	indexDir   string
	maxResults int
}

// NewStore opens or creates the index database at indexDir/catalog.db,
// creating the schema if it does not exist.
func NewStore(cfg types.IndexConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.IndexDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	dbPath := filepath.Join(cfg.IndexDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	s := &Store{
		db:         db,
		indexDir:   cfg.IndexDir,
		maxResults: maxResults,
	}

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
			path TEXT PRIMARY KEY,
			title TEXT,
			source TEXT,
			file_mod_time TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS entries (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			doc_path TEXT NOT NULL REFERENCES documents(path),
			ordinal INTEGER NOT NULL,
			title TEXT NOT NULL,
			body TEXT NOT NULL,
			UNIQUE(doc_path, ordinal)
		)`,
		`CREATE TABLE IF NOT EXISTS snippets (
			entry_rowid INTEGER NOT NULL REFERENCES entries(rowid),
			position INTEGER NOT NULL,
			lang TEXT,
			code TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_entries_doc_path ON entries(doc_path)`,
		`CREATE INDEX IF NOT EXISTS idx_snippets_entry ON snippets(entry_rowid)`,
		`CREATE INDEX IF NOT EXISTS idx_snippets_lang ON snippets(lang)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	// FTS5 virtual table with triggers for sync.
	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='entries_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}

	if ftsExists == 0 {
		ftsStatements := []string{
			`CREATE VIRTUAL TABLE entries_fts USING fts5(title, body, content=entries, content_rowid=rowid)`,
			`CREATE TRIGGER entries_ai AFTER INSERT ON entries BEGIN
				INSERT INTO entries_fts(rowid, title, body) VALUES (new.rowid, new.title, new.body);
			END`,
			`CREATE TRIGGER entries_ad AFTER DELETE ON entries BEGIN
				INSERT INTO entries_fts(entries_fts, rowid, title, body) VALUES('delete', old.rowid, old.title, old.body);
			END`,
			`CREATE TRIGGER entries_au AFTER UPDATE ON entries BEGIN
				INSERT INTO entries_fts(entries_fts, rowid, title, body) VALUES('delete', old.rowid, old.title, old.body);
				INSERT INTO entries_fts(rowid, title, body) VALUES (new.rowid, new.title, new.body);
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

// IngestSummary holds counts from an indexing run.
type IngestSummary struct {
	Indexed int
	Updated int
	Skipped int
	Failed  int
}

// Total returns the number of documents processed.
func (s IngestSummary) Total() int {
	return s.Indexed + s.Updated + s.Skipped + s.Failed
}

// Ingest parses the given catalog documents and populates the database.
// Unchanged documents are detected by file modification time and skipped;
// changed documents have their entries replaced. It continues after
// individual failures and reports per-document status to w.
func (s *Store) Ingest(ctx context.Context, docPaths []string, w io.Writer) (IngestSummary, error) {
	var summary IngestSummary

	for _, path := range docPaths {
		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		info, err := os.Stat(path)
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", path, err)
			summary.Failed++
			continue
		}
		modTime := info.ModTime().UTC().Format(time.RFC3339Nano)

		var storedModTime string
		err = s.db.QueryRowContext(ctx,
			`SELECT file_mod_time FROM documents WHERE path = ?`, path,
		).Scan(&storedModTime)

		if err == nil && storedModTime == modTime {
			fmt.Fprintf(w, "skipped %s\n", path)
			summary.Skipped++
			continue
		}

		isUpdate := err == nil

		cat, err := parse.ParseFile(path)
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", path, err)
			summary.Failed++
			continue
		}

		if err := s.ingestDocument(ctx, path, cat, modTime, isUpdate); err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", path, err)
			summary.Failed++
			continue
		}

		if isUpdate {
			fmt.Fprintf(w, "updated %s (%d entries)\n", path, cat.Len())
			summary.Updated++
		} else {
			fmt.Fprintf(w, "indexed %s (%d entries)\n", path, cat.Len())
			summary.Indexed++
		}
	}

	fmt.Fprintf(w, "\nindexed: %d, updated: %d, skipped: %d, failed: %d\n",
		summary.Indexed, summary.Updated, summary.Skipped, summary.Failed)

	return summary, nil
}

func (s *Store) ingestDocument(ctx context.Context, path string, cat *types.Catalog, modTime string, isUpdate bool) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if isUpdate {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM snippets WHERE entry_rowid IN (SELECT rowid FROM entries WHERE doc_path = ?)`, path,
		); err != nil {
			return fmt.Errorf("deleting old snippets: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM entries WHERE doc_path = ?`, path); err != nil {
			return fmt.Errorf("deleting old entries: %w", err)
		}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO documents (path, title, source, file_mod_time) VALUES (?, ?, ?, ?)
		 ON CONFLICT(path) DO UPDATE SET
			title=excluded.title, source=excluded.source, file_mod_time=excluded.file_mod_time`,
		path, cat.Meta.Title, cat.Meta.Source, modTime,
	)
	if err != nil {
		return fmt.Errorf("upserting document: %w", err)
	}

	entryStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO entries (doc_path, ordinal, title, body) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing entry insert: %w", err)
	}
	defer entryStmt.Close()

	snippetStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO snippets (entry_rowid, position, lang, code) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing snippet insert: %w", err)
	}
	defer snippetStmt.Close()

	for e := range cat.All() {
		res, err := entryStmt.ExecContext(ctx, path, e.Ordinal, e.Title, e.Body)
		if err != nil {
			return fmt.Errorf("inserting entry %d: %w", e.Ordinal, err)
		}
		rowid, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("reading entry rowid: %w", err)
		}
		for i, sn := range e.Snippets {
			if _, err := snippetStmt.ExecContext(ctx, rowid, i+1, sn.Lang, sn.Code); err != nil {
				return fmt.Errorf("inserting snippet %d of entry %d: %w", i+1, e.Ordinal, err)
			}
		}
	}

	return tx.Commit()
}
