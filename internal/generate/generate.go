// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package generate produces study material from analyzed documents via a
// Generative AI backend: multiple-choice quizzes, flashcards, summaries,
// and mind maps. Each material kind has a deterministic fallback so a
// backend failure never leaves a document without material.
package generate

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/doculearn/doculearn/pkg/types"
)

const (
	defaultMaxRetries     = 3
	defaultQuizCount      = 5
	defaultFlashcardCount = 10

	// Content limits keep prompts inside model token budgets.
	quizContentLimit    = 2000
	summaryContentLimit = 3000
	mindmapContentLimit = 2000
)

// Backend abstracts the Generative AI API so tests can supply a mock. One
// call sends a system role plus a user prompt and returns the raw completion
// text.
type Backend interface {
	Complete(ctx context.Context, system, prompt string, temperature float32) (string, error)
}

// GenerateQuiz produces multiple-choice questions for one document. The
// question count comes from the config override when set, otherwise from the
// analysis suggestion.
func GenerateQuiz(ctx context.Context, backend Backend, res *types.ParseResult, analysis *types.Analysis, cfg types.GenerationConfig) ([]types.QuizQuestion, error) {
	count := cfg.QuizCount
	if count <= 0 {
		count = analysis.SuggestedQuizCount
	}
	if count <= 0 {
		count = defaultQuizCount
	}

	prompt, err := renderQuizPrompt(res.Text, analysis, count)
	if err != nil {
		return nil, err
	}

	raw, err := callWithRetry(ctx, backend, quizSystem, prompt, 0.7, maxRetries(cfg))
	if err != nil {
		return nil, err
	}

	var items []aiQuizQuestion
	if err := decodeResponse(raw, &items); err != nil {
		return nil, fmt.Errorf("parsing quiz response: %w", err)
	}

	quiz := validateQuiz(items, res.Document.ID)
	if len(quiz) == 0 {
		return nil, fmt.Errorf("no valid questions in quiz response")
	}
	return quiz, nil
}

// GenerateFlashcards produces front/back recall cards for one document.
func GenerateFlashcards(ctx context.Context, backend Backend, res *types.ParseResult, analysis *types.Analysis, cfg types.GenerationConfig) ([]types.Flashcard, error) {
	count := cfg.FlashcardCount
	if count <= 0 {
		count = defaultFlashcardCount
	}

	prompt, err := renderFlashcardPrompt(res.Text, analysis, count)
	if err != nil {
		return nil, err
	}

	raw, err := callWithRetry(ctx, backend, flashcardSystem, prompt, 0.7, maxRetries(cfg))
	if err != nil {
		return nil, err
	}

	var items []aiFlashcard
	if err := decodeResponse(raw, &items); err != nil {
		return nil, fmt.Errorf("parsing flashcard response: %w", err)
	}

	var cards []types.Flashcard
	for _, item := range items {
		if strings.TrimSpace(item.Front) == "" || strings.TrimSpace(item.Back) == "" {
			continue
		}
		concept := item.Concept
		if concept == "" {
			concept = "General"
		}
		cards = append(cards, types.Flashcard{
			ID:         stableID(res.Document.ID, string(types.MaterialFlashcards), item.Front),
			DocumentID: res.Document.ID,
			Front:      item.Front,
			Back:       item.Back,
			Concept:    concept,
		})
	}
	if len(cards) == 0 {
		return nil, fmt.Errorf("no valid cards in flashcard response")
	}
	return cards, nil
}

// GenerateSummary produces the structured summary for one document.
func GenerateSummary(ctx context.Context, backend Backend, res *types.ParseResult, analysis *types.Analysis, cfg types.GenerationConfig) (*types.Summary, error) {
	prompt, err := renderSummaryPrompt(res.Text, analysis)
	if err != nil {
		return nil, err
	}

	raw, err := callWithRetry(ctx, backend, summarySystem, prompt, 0.5, maxRetries(cfg))
	if err != nil {
		return nil, err
	}

	var resp aiSummary
	if err := decodeResponse(raw, &resp); err != nil {
		return nil, fmt.Errorf("parsing summary response: %w", err)
	}
	if strings.TrimSpace(resp.Overview) == "" {
		return nil, fmt.Errorf("summary response missing overview")
	}

	level := types.Difficulty(resp.ComplexityLevel)
	if level == "" {
		level = analysis.Difficulty
	}
	return &types.Summary{
		DocumentID:      res.Document.ID,
		Overview:        resp.Overview,
		MainPoints:      resp.MainPoints,
		KeyTakeaways:    resp.KeyTakeaways,
		ComplexityLevel: level,
	}, nil
}

// GenerateMindMap produces the mind map hierarchy for one document.
func GenerateMindMap(ctx context.Context, backend Backend, res *types.ParseResult, analysis *types.Analysis, cfg types.GenerationConfig) (*types.MindMap, error) {
	prompt, err := renderMindMapPrompt(res.Text, analysis)
	if err != nil {
		return nil, err
	}

	raw, err := callWithRetry(ctx, backend, mindmapSystem, prompt, 0.6, maxRetries(cfg))
	if err != nil {
		return nil, err
	}

	var resp aiMindMap
	if err := decodeResponse(raw, &resp); err != nil {
		return nil, fmt.Errorf("parsing mind map response: %w", err)
	}
	if strings.TrimSpace(resp.CentralTopic) == "" || len(resp.Branches) == 0 {
		return nil, fmt.Errorf("mind map response missing topic or branches")
	}

	return &types.MindMap{
		DocumentID:   res.Document.ID,
		CentralTopic: resp.CentralTopic,
		Branches:     resp.Branches,
	}, nil
}

// GenerateAll produces every material kind for one document. A failed kind
// falls back to deterministic material and prints a warning to w rather than
// failing the whole run.
func GenerateAll(ctx context.Context, backend Backend, res *types.ParseResult, analysis *types.Analysis, cfg types.GenerationConfig, w io.Writer) *types.StudyMaterial {
	material := &types.StudyMaterial{DocumentID: res.Document.ID}

	quiz, err := GenerateQuiz(ctx, backend, res, analysis, cfg)
	if err != nil {
		fmt.Fprintf(w, "warning: quiz generation failed (%v); using fallback\n", err)
		quiz = fallbackQuiz(res.Document)
	}
	material.Quiz = quiz

	cards, err := GenerateFlashcards(ctx, backend, res, analysis, cfg)
	if err != nil {
		fmt.Fprintf(w, "warning: flashcard generation failed (%v); using fallback\n", err)
		cards = fallbackFlashcards(res.Document, analysis)
	}
	material.Flashcards = cards

	summary, err := GenerateSummary(ctx, backend, res, analysis, cfg)
	if err != nil {
		fmt.Fprintf(w, "warning: summary generation failed (%v); using fallback\n", err)
		summary = fallbackSummary(res, analysis)
	}
	material.Summary = summary

	mindmap, err := GenerateMindMap(ctx, backend, res, analysis, cfg)
	if err != nil {
		fmt.Fprintf(w, "warning: mind map generation failed (%v); using fallback\n", err)
		mindmap = fallbackMindMap(res.Document, analysis)
	}
	material.MindMap = mindmap

	return material
}

// aiQuizQuestion mirrors the JSON shape the model returns for one question.
type aiQuizQuestion struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correct_answer"`
	Explanation   string   `json:"explanation"`
	Difficulty    string   `json:"difficulty"`
	Concept       string   `json:"concept"`
}

type aiFlashcard struct {
	Front   string `json:"front"`
	Back    string `json:"back"`
	Concept string `json:"concept"`
}

type aiSummary struct {
	Overview        string   `json:"overview"`
	MainPoints      []string `json:"main_points"`
	KeyTakeaways    []string `json:"key_takeaways"`
	ComplexityLevel string   `json:"complexity_level"`
}

type aiMindMap struct {
	CentralTopic string              `json:"central_topic"`
	Branches     []types.MindMapNode `json:"branches"`
}

// validateQuiz keeps only well-formed questions: non-empty text, exactly
// four options, and a correct-answer index inside them. Missing difficulty
// and concept fields get defaults.
func validateQuiz(items []aiQuizQuestion, docID string) []types.QuizQuestion {
	var quiz []types.QuizQuestion
	for _, item := range items {
		if strings.TrimSpace(item.Question) == "" {
			continue
		}
		if len(item.Options) != 4 {
			continue
		}
		if item.CorrectAnswer < 0 || item.CorrectAnswer >= 4 {
			continue
		}

		difficulty := types.Difficulty(item.Difficulty)
		switch difficulty {
		case types.DifficultyBasic, types.DifficultyIntermediate, types.DifficultyAdvanced:
		default:
			difficulty = types.DifficultyIntermediate
		}
		concept := item.Concept
		if concept == "" {
			concept = "General"
		}

		quiz = append(quiz, types.QuizQuestion{
			ID:            stableID(docID, string(types.MaterialQuiz), item.Question),
			DocumentID:    docID,
			Question:      item.Question,
			Options:       item.Options,
			CorrectAnswer: item.CorrectAnswer,
			Explanation:   item.Explanation,
			Difficulty:    difficulty,
			Concept:       concept,
		})
	}
	return quiz
}

// decodeResponse parses a model completion as JSON, tolerating Markdown code
// fences around the payload.
func decodeResponse(raw string, v any) error {
	return json.Unmarshal([]byte(stripJSONFence(raw)), v)
}

// stripJSONFence removes a surrounding ```json ... ``` fence when present.
func stripJSONFence(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// backoffBase controls the base duration for exponential backoff. Tests
// override this to avoid real sleeps.
var backoffBase = time.Second

// callWithRetry calls the backend with exponential backoff between attempts.
func callWithRetry(ctx context.Context, backend Backend, system, prompt string, temperature float32, maxRetries int) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt-1))) * backoffBase
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(backoff):
			}
		}

		raw, err := backend.Complete(ctx, system, prompt, temperature)
		if err == nil {
			return raw, nil
		}
		lastErr = err
	}
	return "", fmt.Errorf("after %d retries: %w", maxRetries, lastErr)
}

func maxRetries(cfg types.GenerationConfig) int {
	if cfg.MaxRetries > 0 {
		return cfg.MaxRetries
	}
	return defaultMaxRetries
}

// stableID generates a deterministic ID from document ID, material kind, and
// content: the first 12 hex characters of SHA-256(docID + kind + content).
// Re-generating unchanged content keeps its review history.
func stableID(docID, kind, content string) string {
	h := sha256.New()
	h.Write([]byte(docID))
	h.Write([]byte(kind))
	h.Write([]byte(content))
	return fmt.Sprintf("%x", h.Sum(nil))[:12]
}

// truncate cuts text to at most limit bytes for prompt inclusion.
func truncate(text string, limit int) string {
	if len(text) <= limit {
		return text
	}
	return text[:limit]
}
