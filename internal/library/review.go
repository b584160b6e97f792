// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package library

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/doculearn/doculearn/internal/schedule"
)

// Session is one study session record.
type Session struct {
	ID               string    `json:"id" yaml:"id"`
	Learner          string    `json:"learner" yaml:"learner"`
	DocumentID       string    `json:"document_id" yaml:"document_id"`
	CreatedAt        time.Time `json:"created_at" yaml:"created_at"`
	EstimatedMinutes int       `json:"estimated_minutes" yaml:"estimated_minutes"`
	Status           string    `json:"status" yaml:"status"`
}

// Attempt is one completed quiz attempt.
type Attempt struct {
	SessionID   string    `json:"session_id" yaml:"session_id"`
	Learner     string    `json:"learner" yaml:"learner"`
	DocumentID  string    `json:"document_id" yaml:"document_id"`
	Score       float64   `json:"score" yaml:"score"`
	Correct     int       `json:"correct" yaml:"correct"`
	Total       int       `json:"total" yaml:"total"`
	NextAction  string    `json:"next_action" yaml:"next_action"`
	CompletedAt time.Time `json:"completed_at" yaml:"completed_at"`
}

// SaveReviewItem upserts one learner's review state for an item.
func (s *Store) SaveReviewItem(ctx context.Context, learner string, item schedule.ReviewItem) error {
	var lastReviewed any
	if item.LastReviewedAt != nil {
		lastReviewed = item.LastReviewedAt.UTC().Format(time.RFC3339)
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO review_items (learner, item_id, easiness, repetition, interval_days, due_date, last_reviewed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(learner, item_id) DO UPDATE SET
			easiness=excluded.easiness, repetition=excluded.repetition,
			interval_days=excluded.interval_days, due_date=excluded.due_date,
			last_reviewed_at=excluded.last_reviewed_at`,
		learner, item.ID, item.EasinessFactor, item.RepetitionCount,
		item.IntervalDays, item.DueDate.UTC().Format(time.RFC3339), lastReviewed,
	)
	if err != nil {
		return fmt.Errorf("upserting review item %s: %w", item.ID, err)
	}
	return nil
}

// ReviewItem returns one learner's review state for an item. The second
// return value reports whether the item has any state yet.
func (s *Store) ReviewItem(ctx context.Context, learner, itemID string) (schedule.ReviewItem, bool, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT item_id, easiness, repetition, interval_days, due_date, last_reviewed_at
		 FROM review_items WHERE learner = ? AND item_id = ?`, learner, itemID)
	item, err := scanReviewItem(row)
	if err == sql.ErrNoRows {
		return schedule.ReviewItem{}, false, nil
	}
	if err != nil {
		return schedule.ReviewItem{}, false, fmt.Errorf("loading review item %s: %w", itemID, err)
	}
	return item, true, nil
}

// ReviewItems returns all review state for one learner.
func (s *Store) ReviewItems(ctx context.Context, learner string) ([]schedule.ReviewItem, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT item_id, easiness, repetition, interval_days, due_date, last_reviewed_at
		 FROM review_items WHERE learner = ? ORDER BY item_id`, learner)
	if err != nil {
		return nil, fmt.Errorf("listing review items: %w", err)
	}
	defer rows.Close()

	var items []schedule.ReviewItem
	for rows.Next() {
		item, err := scanReviewItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning review item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// Learners returns every learner with review state, sorted.
func (s *Store) Learners(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT learner FROM review_items ORDER BY learner`)
	if err != nil {
		return nil, fmt.Errorf("listing learners: %w", err)
	}
	defer rows.Close()

	var learners []string
	for rows.Next() {
		var learner string
		if err := rows.Scan(&learner); err != nil {
			return nil, fmt.Errorf("scanning learner: %w", err)
		}
		learners = append(learners, learner)
	}
	return learners, rows.Err()
}

func scanReviewItem(row rowScanner) (schedule.ReviewItem, error) {
	var (
		item         schedule.ReviewItem
		dueDate      string
		lastReviewed sql.NullString
	)
	if err := row.Scan(&item.ID, &item.EasinessFactor, &item.RepetitionCount,
		&item.IntervalDays, &dueDate, &lastReviewed); err != nil {
		return schedule.ReviewItem{}, err
	}
	if t, err := time.Parse(time.RFC3339, dueDate); err == nil {
		item.DueDate = t
	}
	if lastReviewed.Valid {
		if t, err := time.Parse(time.RFC3339, lastReviewed.String); err == nil {
			item.LastReviewedAt = &t
		}
	}
	return item, nil
}

// SaveSession upserts one session record.
func (s *Store) SaveSession(ctx context.Context, session Session) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (id, learner, document_id, created_at, estimated_minutes, status)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET status=excluded.status`,
		session.ID, session.Learner, session.DocumentID,
		session.CreatedAt.UTC().Format(time.RFC3339), session.EstimatedMinutes, session.Status,
	)
	if err != nil {
		return fmt.Errorf("upserting session %s: %w", session.ID, err)
	}
	return nil
}

// Session returns one session by ID.
func (s *Store) Session(ctx context.Context, id string) (Session, error) {
	var (
		session   Session
		createdAt string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, learner, document_id, created_at, estimated_minutes, status
		 FROM sessions WHERE id = ?`, id,
	).Scan(&session.ID, &session.Learner, &session.DocumentID,
		&createdAt, &session.EstimatedMinutes, &session.Status)
	if err == sql.ErrNoRows {
		return Session{}, fmt.Errorf("session %s not found", id)
	}
	if err != nil {
		return Session{}, fmt.Errorf("loading session %s: %w", id, err)
	}
	if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
		session.CreatedAt = t
	}
	return session, nil
}

// RecordAttempt appends one quiz attempt.
func (s *Store) RecordAttempt(ctx context.Context, attempt Attempt) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO attempts (session_id, learner, document_id, score, correct, total, next_action, completed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		attempt.SessionID, attempt.Learner, attempt.DocumentID,
		attempt.Score, attempt.Correct, attempt.Total, attempt.NextAction,
		attempt.CompletedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("recording attempt: %w", err)
	}
	return nil
}

// Attempts returns one learner's attempts, oldest first.
func (s *Store) Attempts(ctx context.Context, learner string) ([]Attempt, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT session_id, learner, document_id, score, correct, total, next_action, completed_at
		 FROM attempts WHERE learner = ? ORDER BY completed_at, rowid`, learner)
	if err != nil {
		return nil, fmt.Errorf("listing attempts: %w", err)
	}
	defer rows.Close()

	var attempts []Attempt
	for rows.Next() {
		var (
			a           Attempt
			completedAt string
		)
		if err := rows.Scan(&a.SessionID, &a.Learner, &a.DocumentID,
			&a.Score, &a.Correct, &a.Total, &a.NextAction, &completedAt); err != nil {
			return nil, fmt.Errorf("scanning attempt: %w", err)
		}
		if t, err := time.Parse(time.RFC3339, completedAt); err == nil {
			a.CompletedAt = t
		}
		attempts = append(attempts, a)
	}
	return attempts, rows.Err()
}
