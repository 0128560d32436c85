// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package index

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// QueryOptions holds parameters for index queries.
type QueryOptions struct {
	// Query is the FTS5 full-text search string over titles and bodies.
	Query string

	// Lang filters to entries with at least one snippet in the language.
	Lang string

	// Ordinal filters to a single entry position. Zero means no filter.
	Ordinal int

	// Doc filters by document path.
	Doc string

	// MaxResults limits result count. Zero uses the store default.
	MaxResults int
}

// IsEmpty reports whether the query has no search terms or filters.
func (q QueryOptions) IsEmpty() bool {
	return q.Query == "" && q.Lang == "" && q.Ordinal == 0 && q.Doc == ""
}

// QueryResult is one matching entry with its document context.
type QueryResult struct {
	Ordinal  int      `json:"ordinal" yaml:"ordinal"`
	Title    string   `json:"title" yaml:"title"`
	Body     string   `json:"body" yaml:"body"`
	Doc      string   `json:"doc" yaml:"doc"`
	DocTitle string   `json:"doc_title,omitempty" yaml:"doc_title,omitempty"`
	Langs    []string `json:"langs,omitempty" yaml:"langs,omitempty"`
}

// Search queries the index with optional full-text search and structural
// filters. Full-text queries are ranked by relevance; structural-only
// queries come back in document path and ordinal order.
func (s *Store) Search(ctx context.Context, opts QueryOptions) ([]QueryResult, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	var (
		qb     strings.Builder
		args   []any
		useFTS = opts.Query != ""
	)

	if useFTS {
		qb.WriteString(
			`SELECT e.ordinal, e.title, e.body, e.doc_path, d.title,
				(SELECT group_concat(DISTINCT sn.lang) FROM snippets sn
				 WHERE sn.entry_rowid = e.rowid AND sn.lang != '') AS langs
			FROM entries_fts
			JOIN entries e ON e.rowid = entries_fts.rowid
			LEFT JOIN documents d ON e.doc_path = d.path
			WHERE entries_fts MATCH ?`)
		args = append(args, opts.Query)
	} else {
		qb.WriteString(
			`SELECT e.ordinal, e.title, e.body, e.doc_path, d.title,
				(SELECT group_concat(DISTINCT sn.lang) FROM snippets sn
				 WHERE sn.entry_rowid = e.rowid AND sn.lang != '') AS langs
			FROM entries e
			LEFT JOIN documents d ON e.doc_path = d.path
			WHERE 1=1`)
	}

	if opts.Lang != "" {
		qb.WriteString(` AND EXISTS (SELECT 1 FROM snippets sn WHERE sn.entry_rowid = e.rowid AND sn.lang = ?)`)
		args = append(args, opts.Lang)
	}

	if opts.Ordinal != 0 {
		qb.WriteString(` AND e.ordinal = ?`)
		args = append(args, opts.Ordinal)
	}

	if opts.Doc != "" {
		qb.WriteString(` AND e.doc_path = ?`)
		args = append(args, opts.Doc)
	}

	if useFTS {
		qb.WriteString(` ORDER BY entries_fts.rank`)
	} else {
		qb.WriteString(` ORDER BY e.doc_path, e.ordinal`)
	}

	qb.WriteString(` LIMIT ?`)
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying index: %w", err)
	}
	defer rows.Close()

	var results []QueryResult
	for rows.Next() {
		var (
			qr       QueryResult
			docTitle sql.NullString
			langs    sql.NullString
		)

		if err := rows.Scan(&qr.Ordinal, &qr.Title, &qr.Body, &qr.Doc, &docTitle, &langs); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}

		if docTitle.Valid {
			qr.DocTitle = docTitle.String
		}
		if langs.Valid && langs.String != "" {
			qr.Langs = strings.Split(langs.String, ",")
		}

		results = append(results, qr)
	}

	return results, rows.Err()
}
