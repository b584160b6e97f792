// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package library

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/doculearn/doculearn/pkg/types"
)

// QueryOptions holds parameters for library searches.
type QueryOptions struct {
	// Query is the FTS5 full-text search string.
	Query string

	// Kind filters by material kind.
	Kind types.MaterialKind

	// DocumentID filters by source document.
	DocumentID string

	// Concept filters by the concept a unit drills.
	Concept string

	// MaxResults limits result count. Zero uses the store default.
	MaxResults int
}

// IsEmpty reports whether the query has no search terms or filters.
func (q QueryOptions) IsEmpty() bool {
	return q.Query == "" && q.Kind == "" && q.DocumentID == "" && q.Concept == ""
}

// SearchResult is one material unit with its document title.
type SearchResult struct {
	ID            string             `json:"id" yaml:"id"`
	DocumentID    string             `json:"document_id" yaml:"document_id"`
	DocumentTitle string             `json:"document_title" yaml:"document_title"`
	Kind          types.MaterialKind `json:"kind" yaml:"kind"`
	Concept       string             `json:"concept,omitempty" yaml:"concept,omitempty"`
	Content       string             `json:"content" yaml:"content"`
}

// Unit returns one material unit by its stable ID. The second return value
// reports whether the unit exists.
func (s *Store) Unit(ctx context.Context, id string) (SearchResult, bool, error) {
	var (
		r       SearchResult
		kind    string
		concept sql.NullString
		title   sql.NullString
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT u.id, u.document_id, u.kind, u.concept, u.content, d.title
		 FROM units u
		 LEFT JOIN documents d ON u.document_id = d.id
		 WHERE u.id = ?`, id,
	).Scan(&r.ID, &r.DocumentID, &kind, &concept, &r.Content, &title)
	if err == sql.ErrNoRows {
		return SearchResult{}, false, nil
	}
	if err != nil {
		return SearchResult{}, false, fmt.Errorf("loading unit %s: %w", id, err)
	}
	r.Kind = types.MaterialKind(kind)
	if concept.Valid {
		r.Concept = concept.String
	}
	if title.Valid {
		r.DocumentTitle = title.String
	}
	return r, true, nil
}

// Search queries study material with optional full-text search and
// structured filters. Full-text queries rank by relevance; structured-only
// queries sort by document, kind, and insertion order.
func (s *Store) Search(ctx context.Context, opts QueryOptions) ([]SearchResult, error) {
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
			`SELECT u.id, u.document_id, u.kind, u.concept, u.content, d.title
			FROM units_fts
			JOIN units u ON u.rowid = units_fts.rowid
			LEFT JOIN documents d ON u.document_id = d.id
			WHERE units_fts MATCH ?`)
		args = append(args, opts.Query)
	} else {
		qb.WriteString(
			`SELECT u.id, u.document_id, u.kind, u.concept, u.content, d.title
			FROM units u
			LEFT JOIN documents d ON u.document_id = d.id
			WHERE 1=1`)
	}

	if opts.Kind != "" {
		qb.WriteString(` AND u.kind = ?`)
		args = append(args, string(opts.Kind))
	}
	if opts.DocumentID != "" {
		qb.WriteString(` AND u.document_id = ?`)
		args = append(args, opts.DocumentID)
	}
	if opts.Concept != "" {
		qb.WriteString(` AND u.concept = ?`)
		args = append(args, opts.Concept)
	}

	if useFTS {
		qb.WriteString(` ORDER BY units_fts.rank`)
	} else {
		qb.WriteString(` ORDER BY u.document_id, u.kind, u.rowid`)
	}

	qb.WriteString(` LIMIT ?`)
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying library: %w", err)
	}
	defer rows.Close()

	var results []SearchResult
	for rows.Next() {
		var (
			r       SearchResult
			kind    string
			concept sql.NullString
			title   sql.NullString
		)
		if err := rows.Scan(&r.ID, &r.DocumentID, &kind, &concept, &r.Content, &title); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		r.Kind = types.MaterialKind(kind)
		if concept.Valid {
			r.Concept = concept.String
		}
		if title.Valid {
			r.DocumentTitle = title.String
		}
		results = append(results, r)
	}

	return results, rows.Err()
}
