// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package library

import (
	"context"
	"fmt"
	"time"

	"github.com/doculearn/doculearn/pkg/types"
)

// Stats summarizes the library and one learner's progress.
type Stats struct {
	Documents     int     `json:"documents" yaml:"documents"`
	QuizQuestions int     `json:"quiz_questions" yaml:"quiz_questions"`
	Flashcards    int     `json:"flashcards" yaml:"flashcards"`
	Summaries     int     `json:"summaries" yaml:"summaries"`
	MindMaps      int     `json:"mindmaps" yaml:"mindmaps"`
	ReviewItems   int     `json:"review_items" yaml:"review_items"`
	DueNow        int     `json:"due_now" yaml:"due_now"`
	Attempts      int     `json:"attempts" yaml:"attempts"`
	AverageScore  float64 `json:"average_score" yaml:"average_score"`
}

// Stats computes library totals plus the review and attempt counts for one
// learner as of now.
func (s *Store) Stats(ctx context.Context, learner string, now time.Time) (Stats, error) {
	var stats Stats

	if err := s.db.QueryRowContext(ctx,
		`SELECT count(*) FROM documents`).Scan(&stats.Documents); err != nil {
		return Stats{}, fmt.Errorf("counting documents: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT kind, count(*) FROM units GROUP BY kind`)
	if err != nil {
		return Stats{}, fmt.Errorf("counting units: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var kind string
		var count int
		if err := rows.Scan(&kind, &count); err != nil {
			return Stats{}, fmt.Errorf("scanning unit count: %w", err)
		}
		switch types.MaterialKind(kind) {
		case types.MaterialQuiz:
			stats.QuizQuestions = count
		case types.MaterialFlashcards:
			stats.Flashcards = count
		case types.MaterialSummary:
			stats.Summaries = count
		case types.MaterialMindMap:
			stats.MindMaps = count
		}
	}
	if err := rows.Err(); err != nil {
		return Stats{}, err
	}

	if err := s.db.QueryRowContext(ctx,
		`SELECT count(*) FROM review_items WHERE learner = ?`, learner,
	).Scan(&stats.ReviewItems); err != nil {
		return Stats{}, fmt.Errorf("counting review items: %w", err)
	}

	if err := s.db.QueryRowContext(ctx,
		`SELECT count(*) FROM review_items WHERE learner = ? AND due_date <= ?`,
		learner, now.UTC().Format(time.RFC3339),
	).Scan(&stats.DueNow); err != nil {
		return Stats{}, fmt.Errorf("counting due items: %w", err)
	}

	if err := s.db.QueryRowContext(ctx,
		`SELECT count(*), coalesce(avg(score), 0) FROM attempts WHERE learner = ?`, learner,
	).Scan(&stats.Attempts, &stats.AverageScore); err != nil {
		return Stats{}, fmt.Errorf("counting attempts: %w", err)
	}

	return stats, nil
}
