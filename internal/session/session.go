// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package session orchestrates studying: it creates sessions over a
// document's material, grades quiz attempts and single-card reviews against
// the spaced-repetition scheduler, and builds the personal study plan.
package session

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/doculearn/doculearn/internal/library"
	"github.com/doculearn/doculearn/internal/schedule"
	"github.com/doculearn/doculearn/pkg/types"
)

// Session status values.
const (
	StatusActive    = "active"
	StatusCompleted = "completed"
)

// Next actions after a quiz attempt.
const (
	ActionAdvance    = "advance"
	ActionReviewWeak = "review_weak"
	ActionRepeat     = "repeat"
)

const baseSessionMinutes = 10

// Orchestrator coordinates the library store and the scheduler.
type Orchestrator struct {
	store *library.Store
	now   func() time.Time
}

// New builds an Orchestrator over store.
func New(store *library.Store) *Orchestrator {
	return &Orchestrator{store: store, now: time.Now}
}

// Created describes a freshly created study session.
type Created struct {
	Session       library.Session `json:"session" yaml:"session"`
	QuizQuestions int             `json:"quiz_questions" yaml:"quiz_questions"`
	Flashcards    int             `json:"flashcards" yaml:"flashcards"`
	SeededItems   int             `json:"seeded_items" yaml:"seeded_items"`
}

// CreateSession starts a study session for one learner over one document.
// Every quiz question and flashcard without review state gets seeded as due
// immediately; existing state is left alone so re-creating a session never
// resets progress.
func (o *Orchestrator) CreateSession(ctx context.Context, learner, docID string) (*Created, error) {
	material, err := o.store.Material(ctx, docID)
	if err != nil {
		return nil, err
	}
	if len(material.Quiz) == 0 && len(material.Flashcards) == 0 {
		return nil, fmt.Errorf("document %s has no study material; run generate first", docID)
	}

	difficulty := types.DifficultyIntermediate
	quizCount := len(material.Quiz)
	if analysis, err := o.store.Analysis(ctx, docID); err == nil {
		difficulty = analysis.Difficulty
	}

	now := o.now().UTC()
	session := library.Session{
		ID:               uuid.NewString(),
		Learner:          learner,
		DocumentID:       docID,
		CreatedAt:        now,
		EstimatedMinutes: EstimateMinutes(difficulty, quizCount),
		Status:           StatusActive,
	}
	if err := o.store.SaveSession(ctx, session); err != nil {
		return nil, err
	}

	seeded := 0
	ids := make([]string, 0, len(material.Quiz)+len(material.Flashcards))
	for _, q := range material.Quiz {
		ids = append(ids, q.ID)
	}
	for _, card := range material.Flashcards {
		ids = append(ids, card.ID)
	}
	for _, id := range ids {
		_, found, err := o.store.ReviewItem(ctx, learner, id)
		if err != nil {
			return nil, err
		}
		if found {
			continue
		}
		if err := o.store.SaveReviewItem(ctx, learner, schedule.NewItem(id, now)); err != nil {
			return nil, err
		}
		seeded++
	}

	return &Created{
		Session:       session,
		QuizQuestions: len(material.Quiz),
		Flashcards:    len(material.Flashcards),
		SeededItems:   seeded,
	}, nil
}

// EstimateMinutes predicts session length: a ten-minute base scaled by
// difficulty plus two minutes per question.
func EstimateMinutes(difficulty types.Difficulty, quizCount int) int {
	multiplier := 1.0
	switch difficulty {
	case types.DifficultyIntermediate:
		multiplier = 1.3
	case types.DifficultyAdvanced:
		multiplier = 1.6
	}
	return int(baseSessionMinutes*multiplier) + quizCount*2
}

// AnswerResult grades one question of an attempt.
type AnswerResult struct {
	QuestionID    string `json:"question_id" yaml:"question_id"`
	Question      string `json:"question" yaml:"question"`
	UserAnswer    int    `json:"user_answer" yaml:"user_answer"`
	CorrectAnswer int    `json:"correct_answer" yaml:"correct_answer"`
	Correct       bool   `json:"correct" yaml:"correct"`
	Explanation   string `json:"explanation,omitempty" yaml:"explanation,omitempty"`
	Concept       string `json:"concept" yaml:"concept"`
}

// AttemptResult summarizes one graded quiz attempt.
type AttemptResult struct {
	SessionID   string         `json:"session_id" yaml:"session_id"`
	Score       float64        `json:"score" yaml:"score"`
	Correct     int            `json:"correct" yaml:"correct"`
	Total       int            `json:"total" yaml:"total"`
	Results     []AnswerResult `json:"results" yaml:"results"`
	NextAction  string         `json:"next_action" yaml:"next_action"`
	Message     string         `json:"message" yaml:"message"`
	Suggestions []string       `json:"suggestions" yaml:"suggestions"`
}

// ProcessQuizAttempt grades answers against a session's quiz, folds each
// outcome into the item's review schedule, records the attempt, and marks
// the session completed.
func (o *Orchestrator) ProcessQuizAttempt(ctx context.Context, sessionID string, answers []int) (*AttemptResult, error) {
	session, err := o.store.Session(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	quiz, err := o.store.QuizQuestions(ctx, session.DocumentID)
	if err != nil {
		return nil, err
	}
	if len(quiz) == 0 {
		return nil, fmt.Errorf("document %s has no quiz", session.DocumentID)
	}
	if len(answers) != len(quiz) {
		return nil, fmt.Errorf("got %d answers for %d questions", len(answers), len(quiz))
	}

	correct := 0
	results := make([]AnswerResult, 0, len(quiz))
	for i, q := range quiz {
		isCorrect := answers[i] == q.CorrectAnswer
		if isCorrect {
			correct++
		}
		results = append(results, AnswerResult{
			QuestionID:    q.ID,
			Question:      q.Question,
			UserAnswer:    answers[i],
			CorrectAnswer: q.CorrectAnswer,
			Correct:       isCorrect,
			Explanation:   q.Explanation,
			Concept:       q.Concept,
		})
	}
	score := float64(correct) / float64(len(quiz)) * 100

	now := o.now().UTC()
	for i, q := range quiz {
		item, found, err := o.store.ReviewItem(ctx, session.Learner, q.ID)
		if err != nil {
			return nil, err
		}
		if !found {
			item = schedule.NewItem(q.ID, now)
		}
		next, err := schedule.Review(item, qualityFor(results[i].Correct, score), now)
		if err != nil {
			return nil, fmt.Errorf("scheduling question %s: %w", q.ID, err)
		}
		if err := o.store.SaveReviewItem(ctx, session.Learner, next); err != nil {
			return nil, err
		}
	}

	action, message := nextAction(score)

	if err := o.store.RecordAttempt(ctx, library.Attempt{
		SessionID:   sessionID,
		Learner:     session.Learner,
		DocumentID:  session.DocumentID,
		Score:       score,
		Correct:     correct,
		Total:       len(quiz),
		NextAction:  action,
		CompletedAt: now,
	}); err != nil {
		return nil, err
	}

	session.Status = StatusCompleted
	if err := o.store.SaveSession(ctx, session); err != nil {
		return nil, err
	}

	return &AttemptResult{
		SessionID:   sessionID,
		Score:       score,
		Correct:     correct,
		Total:       len(quiz),
		Results:     results,
		NextAction:  action,
		Message:     message,
		Suggestions: suggestions(results),
	}, nil
}

// GradeReview grades one item (typically a flashcard) with an explicit
// recall quality. Items without prior state are seeded first, so the review
// counts as their first repetition.
func (o *Orchestrator) GradeReview(ctx context.Context, learner, itemID string, quality schedule.Quality) (schedule.ReviewItem, error) {
	now := o.now().UTC()
	item, found, err := o.store.ReviewItem(ctx, learner, itemID)
	if err != nil {
		return schedule.ReviewItem{}, err
	}
	if !found {
		item = schedule.NewItem(itemID, now)
	}
	next, err := schedule.Review(item, quality, now)
	if err != nil {
		return schedule.ReviewItem{}, err
	}
	if err := o.store.SaveReviewItem(ctx, learner, next); err != nil {
		return schedule.ReviewItem{}, err
	}
	return next, nil
}

// qualityFor maps a graded answer onto the scheduler's quality scale. A
// correct answer in a near-perfect attempt counts as effortless recall; a
// wrong answer in an otherwise decent attempt keeps some credit for partial
// familiarity.
func qualityFor(correct bool, score float64) schedule.Quality {
	if correct {
		if score >= 90 {
			return schedule.QualityPerfect
		}
		return schedule.QualityCorrectHesitant
	}
	if score >= 50 {
		return schedule.QualityIncorrectFamiliar
	}
	return schedule.QualityIncorrect
}

func nextAction(score float64) (string, string) {
	switch {
	case score >= 90:
		return ActionAdvance, "Excellent! Ready for new material."
	case score >= 70:
		return ActionReviewWeak, "Good job! Review weak areas before advancing."
	default:
		return ActionRepeat, "Practice more with this material before advancing."
	}
}

// suggestions derives improvement advice from the missed questions.
func suggestions(results []AnswerResult) []string {
	missed := map[string]bool{}
	wrong := 0
	for _, r := range results {
		if r.Correct {
			continue
		}
		wrong++
		if r.Concept != "" && r.Concept != "General" {
			missed[r.Concept] = true
		}
	}

	var out []string
	if wrong*2 > len(results) {
		out = append(out, "Consider reviewing the fundamental concepts before retaking the quiz.")
	}
	if len(missed) > 0 {
		concepts := make([]string, 0, len(missed))
		for c := range missed {
			concepts = append(concepts, c)
		}
		sort.Strings(concepts)
		out = append(out, "Revisit these concepts: "+strings.Join(concepts, ", ")+".")
	}
	if wrong > 0 {
		out = append(out, "Focus on understanding rather than memorization.")
	}
	out = append(out, "Try creating your own examples for difficult concepts.")
	return out
}

// roundScore converts a percentage score to whole points.
func roundScore(score float64) int {
	return int(math.Round(score))
}
