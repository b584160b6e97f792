// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package library

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/doculearn/doculearn/pkg/types"
)

// SaveDocument upserts one document record.
func (s *Store) SaveDocument(ctx context.Context, doc types.Document) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO documents (id, title, kind, source_path, source_url, pages, word_count, ingested_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			title=excluded.title, kind=excluded.kind, source_path=excluded.source_path,
			source_url=excluded.source_url, pages=excluded.pages,
			word_count=excluded.word_count, ingested_at=excluded.ingested_at`,
		doc.ID, doc.Title, string(doc.Kind), doc.SourcePath, doc.SourceURL,
		doc.Pages, doc.WordCount, doc.IngestedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("upserting document %s: %w", doc.ID, err)
	}
	return nil
}

// Document returns one document by ID.
func (s *Store) Document(ctx context.Context, id string) (types.Document, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, title, kind, source_path, source_url, pages, word_count, ingested_at
		 FROM documents WHERE id = ?`, id)
	doc, err := scanDocument(row)
	if err == sql.ErrNoRows {
		return types.Document{}, fmt.Errorf("document %s not found", id)
	}
	if err != nil {
		return types.Document{}, fmt.Errorf("loading document %s: %w", id, err)
	}
	return doc, nil
}

// Documents returns all documents ordered by ingestion time, newest first.
func (s *Store) Documents(ctx context.Context) ([]types.Document, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, kind, source_path, source_url, pages, word_count, ingested_at
		 FROM documents ORDER BY ingested_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	defer rows.Close()

	var docs []types.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (types.Document, error) {
	var (
		doc        types.Document
		kind       string
		ingestedAt string
	)
	if err := row.Scan(&doc.ID, &doc.Title, &kind, &doc.SourcePath, &doc.SourceURL,
		&doc.Pages, &doc.WordCount, &ingestedAt); err != nil {
		return types.Document{}, err
	}
	doc.Kind = types.DocumentKind(kind)
	if t, err := time.Parse(time.RFC3339, ingestedAt); err == nil {
		doc.IngestedAt = t
	}
	return doc, nil
}

// SaveAnalysis upserts the analysis for one document. Structured fields are
// stored as JSON columns.
func (s *Store) SaveAnalysis(ctx context.Context, analysis *types.Analysis) error {
	topicsJSON, _ := json.Marshal(analysis.Topics)
	conceptsJSON, _ := json.Marshal(analysis.KeyConcepts)
	sectionsJSON, _ := json.Marshal(analysis.Sections)

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO analyses (document_id, difficulty, topics, readability, suggested_quiz_count, key_concepts, sections)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(document_id) DO UPDATE SET
			difficulty=excluded.difficulty, topics=excluded.topics,
			readability=excluded.readability, suggested_quiz_count=excluded.suggested_quiz_count,
			key_concepts=excluded.key_concepts, sections=excluded.sections`,
		analysis.DocumentID, string(analysis.Difficulty), string(topicsJSON),
		analysis.Readability, analysis.SuggestedQuizCount,
		string(conceptsJSON), string(sectionsJSON),
	)
	if err != nil {
		return fmt.Errorf("upserting analysis for %s: %w", analysis.DocumentID, err)
	}
	return nil
}

// Analysis returns the stored analysis for one document.
func (s *Store) Analysis(ctx context.Context, docID string) (*types.Analysis, error) {
	var (
		analysis     types.Analysis
		difficulty   string
		topicsJSON   sql.NullString
		conceptsJSON sql.NullString
		sectionsJSON sql.NullString
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT document_id, difficulty, topics, readability, suggested_quiz_count, key_concepts, sections
		 FROM analyses WHERE document_id = ?`, docID,
	).Scan(&analysis.DocumentID, &difficulty, &topicsJSON,
		&analysis.Readability, &analysis.SuggestedQuizCount, &conceptsJSON, &sectionsJSON)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("no analysis for document %s", docID)
	}
	if err != nil {
		return nil, fmt.Errorf("loading analysis for %s: %w", docID, err)
	}

	analysis.Difficulty = types.Difficulty(difficulty)
	if topicsJSON.Valid {
		json.Unmarshal([]byte(topicsJSON.String), &analysis.Topics)
	}
	if conceptsJSON.Valid {
		json.Unmarshal([]byte(conceptsJSON.String), &analysis.KeyConcepts)
	}
	if sectionsJSON.Valid {
		json.Unmarshal([]byte(sectionsJSON.String), &analysis.Sections)
	}
	return &analysis, nil
}

// SaveMaterial replaces the stored study material for one document. Every
// piece becomes one row in units: quiz questions and flashcards individually
// (their stable IDs key the review state), the summary and mind map as
// single rows. The FTS index follows via triggers.
func (s *Store) SaveMaterial(ctx context.Context, material *types.StudyMaterial) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM units WHERE document_id = ?`, material.DocumentID); err != nil {
		return fmt.Errorf("deleting old units: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO units (id, document_id, kind, concept, content, payload)
		 VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	insert := func(id string, kind types.MaterialKind, concept, content string, payload any) error {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshaling %s unit: %w", kind, err)
		}
		if _, err := stmt.ExecContext(ctx, id, material.DocumentID, string(kind), concept, content, string(data)); err != nil {
			return fmt.Errorf("inserting %s unit %s: %w", kind, id, err)
		}
		return nil
	}

	for _, q := range material.Quiz {
		content := q.Question + " " + q.Options[q.CorrectAnswer]
		if err := insert(q.ID, types.MaterialQuiz, q.Concept, content, q); err != nil {
			return err
		}
	}
	for _, card := range material.Flashcards {
		if err := insert(card.ID, types.MaterialFlashcards, card.Concept, card.Front+" "+card.Back, card); err != nil {
			return err
		}
	}
	if material.Summary != nil {
		id := material.DocumentID + "-summary"
		if err := insert(id, types.MaterialSummary, "", material.Summary.Overview, material.Summary); err != nil {
			return err
		}
	}
	if material.MindMap != nil {
		id := material.DocumentID + "-mindmap"
		if err := insert(id, types.MaterialMindMap, "", material.MindMap.CentralTopic, material.MindMap); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Material loads the full study material bundle for one document.
func (s *Store) Material(ctx context.Context, docID string) (*types.StudyMaterial, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT kind, payload FROM units WHERE document_id = ? ORDER BY rowid`, docID)
	if err != nil {
		return nil, fmt.Errorf("loading material for %s: %w", docID, err)
	}
	defer rows.Close()

	material := &types.StudyMaterial{DocumentID: docID}
	for rows.Next() {
		var kind, payload string
		if err := rows.Scan(&kind, &payload); err != nil {
			return nil, fmt.Errorf("scanning unit: %w", err)
		}
		switch types.MaterialKind(kind) {
		case types.MaterialQuiz:
			var q types.QuizQuestion
			if err := json.Unmarshal([]byte(payload), &q); err != nil {
				return nil, fmt.Errorf("parsing quiz unit: %w", err)
			}
			material.Quiz = append(material.Quiz, q)
		case types.MaterialFlashcards:
			var card types.Flashcard
			if err := json.Unmarshal([]byte(payload), &card); err != nil {
				return nil, fmt.Errorf("parsing flashcard unit: %w", err)
			}
			material.Flashcards = append(material.Flashcards, card)
		case types.MaterialSummary:
			var summary types.Summary
			if err := json.Unmarshal([]byte(payload), &summary); err != nil {
				return nil, fmt.Errorf("parsing summary unit: %w", err)
			}
			material.Summary = &summary
		case types.MaterialMindMap:
			var mm types.MindMap
			if err := json.Unmarshal([]byte(payload), &mm); err != nil {
				return nil, fmt.Errorf("parsing mind map unit: %w", err)
			}
			material.MindMap = &mm
		}
	}
	return material, rows.Err()
}

// QuizQuestions returns the stored quiz for one document.
func (s *Store) QuizQuestions(ctx context.Context, docID string) ([]types.QuizQuestion, error) {
	material, err := s.Material(ctx, docID)
	if err != nil {
		return nil, err
	}
	return material.Quiz, nil
}

// Flashcards returns the stored flashcards for one document.
func (s *Store) Flashcards(ctx context.Context, docID string) ([]types.Flashcard, error) {
	material, err := s.Material(ctx, docID)
	if err != nil {
		return nil, err
	}
	return material.Flashcards, nil
}
