// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package library

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/doculearn/doculearn/internal/schedule"
	"github.com/doculearn/doculearn/pkg/types"
)

// --- test helpers ---

func testSetup(t *testing.T) *Store {
	t.Helper()
	cfg := types.LibraryConfig{
		LibraryDir: t.TempDir(),
		MaxResults: 20,
	}
	store, err := NewStore(cfg)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleDocument(id string) types.Document {
	return types.Document{
		ID:         id,
		Title:      "Cell Biology Fundamentals",
		Kind:       types.KindMarkdown,
		SourcePath: "/tmp/" + id + ".md",
		WordCount:  1200,
		IngestedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func sampleMaterial(docID string) *types.StudyMaterial {
	return &types.StudyMaterial{
		DocumentID: docID,
		Quiz: []types.QuizQuestion{
			{
				ID: docID + "-q1", DocumentID: docID,
				Question:      "What do mitochondria produce?",
				Options:       []string{"Energy", "Proteins", "Lipids", "Waste"},
				CorrectAnswer: 0,
				Difficulty:    types.DifficultyBasic,
				Concept:       "mitochondria",
			},
			{
				ID: docID + "-q2", DocumentID: docID,
				Question:      "What is the basic unit of life?",
				Options:       []string{"Atom", "Cell", "Organ", "Tissue"},
				CorrectAnswer: 1,
				Difficulty:    types.DifficultyBasic,
				Concept:       "cell theory",
			},
		},
		Flashcards: []types.Flashcard{
			{ID: docID + "-f1", DocumentID: docID, Front: "Powerhouse of the cell?",
				Back: "Mitochondria", Concept: "mitochondria"},
		},
		Summary: &types.Summary{
			DocumentID: docID,
			Overview:   "Cells are the building blocks of all living organisms.",
			MainPoints: []string{"Cells are small", "Mitochondria make energy"},
		},
		MindMap: &types.MindMap{
			DocumentID:   docID,
			CentralTopic: "Cell Biology",
			Branches:     []types.MindMapNode{{Name: "Organelles"}},
		},
	}
}

func saveSample(t *testing.T, store *Store, docID string) {
	t.Helper()
	ctx := context.Background()
	if err := store.SaveDocument(ctx, sampleDocument(docID)); err != nil {
		t.Fatal(err)
	}
	if err := store.SaveMaterial(ctx, sampleMaterial(docID)); err != nil {
		t.Fatal(err)
	}
}

// --- documents and analyses ---

func TestSaveAndLoadDocument(t *testing.T) {
	store := testSetup(t)
	ctx := context.Background()

	want := sampleDocument("bio-101")
	if err := store.SaveDocument(ctx, want); err != nil {
		t.Fatalf("SaveDocument() error: %v", err)
	}

	got, err := store.Document(ctx, "bio-101")
	if err != nil {
		t.Fatalf("Document() error: %v", err)
	}
	if got.Title != want.Title || got.Kind != want.Kind || got.WordCount != want.WordCount {
		t.Errorf("Document() = %+v, want %+v", got, want)
	}
	if !got.IngestedAt.Equal(want.IngestedAt) {
		t.Errorf("IngestedAt = %v, want %v", got.IngestedAt, want.IngestedAt)
	}
}

func TestDocumentNotFound(t *testing.T) {
	store := testSetup(t)
	if _, err := store.Document(context.Background(), "nope"); err == nil {
		t.Fatal("Document() should fail for a missing ID")
	}
}

func TestSaveDocumentUpsert(t *testing.T) {
	store := testSetup(t)
	ctx := context.Background()

	doc := sampleDocument("bio-101")
	if err := store.SaveDocument(ctx, doc); err != nil {
		t.Fatal(err)
	}
	doc.Title = "Updated Title"
	if err := store.SaveDocument(ctx, doc); err != nil {
		t.Fatalf("second SaveDocument() error: %v", err)
	}

	got, err := store.Document(ctx, "bio-101")
	if err != nil {
		t.Fatal(err)
	}
	if got.Title != "Updated Title" {
		t.Errorf("Title = %q after upsert", got.Title)
	}

	docs, err := store.Documents(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 1 {
		t.Errorf("len(Documents()) = %d, want 1", len(docs))
	}
}

func TestSaveAndLoadAnalysis(t *testing.T) {
	store := testSetup(t)
	ctx := context.Background()

	if err := store.SaveDocument(ctx, sampleDocument("bio-101")); err != nil {
		t.Fatal(err)
	}

	want := &types.Analysis{
		DocumentID: "bio-101",
		KeyConcepts: []types.Concept{
			{Concept: "mitochondria", Frequency: 4, Importance: 0.4},
		},
		Difficulty:         types.DifficultyIntermediate,
		Topics:             []string{"Biology"},
		Sections:           []types.SectionAnalysis{{Title: "Organelles", WordCount: 400}},
		Readability:        0.75,
		SuggestedQuizCount: 5,
	}
	if err := store.SaveAnalysis(ctx, want); err != nil {
		t.Fatalf("SaveAnalysis() error: %v", err)
	}

	got, err := store.Analysis(ctx, "bio-101")
	if err != nil {
		t.Fatalf("Analysis() error: %v", err)
	}
	if got.Difficulty != want.Difficulty || got.Readability != want.Readability {
		t.Errorf("Analysis() = %+v", got)
	}
	if len(got.KeyConcepts) != 1 || got.KeyConcepts[0].Concept != "mitochondria" {
		t.Errorf("KeyConcepts = %+v", got.KeyConcepts)
	}
	if len(got.Topics) != 1 || got.Topics[0] != "Biology" {
		t.Errorf("Topics = %+v", got.Topics)
	}
	if len(got.Sections) != 1 || got.Sections[0].Title != "Organelles" {
		t.Errorf("Sections = %+v", got.Sections)
	}
}

// --- study material ---

func TestSaveAndLoadMaterial(t *testing.T) {
	store := testSetup(t)
	saveSample(t, store, "bio-101")

	got, err := store.Material(context.Background(), "bio-101")
	if err != nil {
		t.Fatalf("Material() error: %v", err)
	}
	if len(got.Quiz) != 2 {
		t.Errorf("len(Quiz) = %d, want 2", len(got.Quiz))
	}
	if len(got.Flashcards) != 1 {
		t.Errorf("len(Flashcards) = %d, want 1", len(got.Flashcards))
	}
	if got.Summary == nil || got.Summary.Overview == "" {
		t.Errorf("Summary = %+v", got.Summary)
	}
	if got.MindMap == nil || got.MindMap.CentralTopic != "Cell Biology" {
		t.Errorf("MindMap = %+v", got.MindMap)
	}
	if got.Quiz[0].Options[0] != "Energy" {
		t.Errorf("quiz payload round trip broken: %+v", got.Quiz[0])
	}
}

func TestSaveMaterialReplacesOld(t *testing.T) {
	store := testSetup(t)
	saveSample(t, store, "bio-101")

	replacement := sampleMaterial("bio-101")
	replacement.Quiz = replacement.Quiz[:1]
	replacement.MindMap = nil
	if err := store.SaveMaterial(context.Background(), replacement); err != nil {
		t.Fatalf("SaveMaterial() error: %v", err)
	}

	got, err := store.Material(context.Background(), "bio-101")
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Quiz) != 1 {
		t.Errorf("len(Quiz) = %d after replace, want 1", len(got.Quiz))
	}
	if got.MindMap != nil {
		t.Errorf("MindMap should be gone after replace, got %+v", got.MindMap)
	}
}

func TestQuizQuestionsAndFlashcards(t *testing.T) {
	store := testSetup(t)
	saveSample(t, store, "bio-101")
	ctx := context.Background()

	quiz, err := store.QuizQuestions(ctx, "bio-101")
	if err != nil {
		t.Fatal(err)
	}
	if len(quiz) != 2 {
		t.Errorf("len(quiz) = %d, want 2", len(quiz))
	}

	cards, err := store.Flashcards(ctx, "bio-101")
	if err != nil {
		t.Fatal(err)
	}
	if len(cards) != 1 || cards[0].Back != "Mitochondria" {
		t.Errorf("cards = %+v", cards)
	}
}

// --- search ---

func TestSearchFullText(t *testing.T) {
	store := testSetup(t)
	saveSample(t, store, "bio-101")

	results, err := store.Search(context.Background(), QueryOptions{Query: "mitochondria"})
	if err != nil {
		t.Fatalf("Search() error: %v", err)
	}
	if len(results) == 0 {
		t.Fatal("Search() returned no results for indexed content")
	}
	for _, r := range results {
		if r.DocumentTitle != "Cell Biology Fundamentals" {
			t.Errorf("DocumentTitle = %q", r.DocumentTitle)
		}
	}
}

func TestSearchFilters(t *testing.T) {
	store := testSetup(t)
	saveSample(t, store, "bio-101")
	saveSample(t, store, "bio-102")
	ctx := context.Background()

	results, err := store.Search(ctx, QueryOptions{Kind: types.MaterialFlashcards})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Errorf("kind filter: len = %d, want 2", len(results))
	}

	results, err = store.Search(ctx, QueryOptions{DocumentID: "bio-102", Kind: types.MaterialQuiz})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Errorf("doc+kind filter: len = %d, want 2", len(results))
	}

	results, err = store.Search(ctx, QueryOptions{Concept: "cell theory"})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Errorf("concept filter: len = %d, want 2", len(results))
	}
}

func TestSearchFTSStaysInSyncAfterReplace(t *testing.T) {
	store := testSetup(t)
	saveSample(t, store, "bio-101")
	ctx := context.Background()

	replacement := sampleMaterial("bio-101")
	replacement.Quiz = []types.QuizQuestion{{
		ID: "bio-101-q9", DocumentID: "bio-101",
		Question:      "Which organelle builds proteins?",
		Options:       []string{"Ribosome", "Nucleus", "Vacuole", "Lysosome"},
		CorrectAnswer: 0,
		Concept:       "ribosome",
	}}
	replacement.Flashcards = nil
	replacement.Summary = nil
	replacement.MindMap = nil
	if err := store.SaveMaterial(ctx, replacement); err != nil {
		t.Fatal(err)
	}

	if results, err := store.Search(ctx, QueryOptions{Query: "ribosome"}); err != nil || len(results) == 0 {
		t.Errorf("new content not searchable: results=%v err=%v", results, err)
	}
	if results, err := store.Search(ctx, QueryOptions{Query: "powerhouse"}); err != nil || len(results) != 0 {
		t.Errorf("old content still searchable: results=%v err=%v", results, err)
	}
}

func TestSearchMaxResults(t *testing.T) {
	store := testSetup(t)
	saveSample(t, store, "bio-101")

	results, err := store.Search(context.Background(), QueryOptions{Kind: types.MaterialQuiz, MaxResults: 1})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 {
		t.Errorf("len = %d, want 1", len(results))
	}
}

// --- review state ---

func TestSaveAndLoadReviewItem(t *testing.T) {
	store := testSetup(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	item := schedule.NewItem("bio-101-q1", now)
	if err := store.SaveReviewItem(ctx, "alex", item); err != nil {
		t.Fatalf("SaveReviewItem() error: %v", err)
	}

	got, found, err := store.ReviewItem(ctx, "alex", "bio-101-q1")
	if err != nil {
		t.Fatal(err)
	}
	if !found {
		t.Fatal("ReviewItem() found = false for saved item")
	}
	if got.EasinessFactor != item.EasinessFactor || got.RepetitionCount != 0 {
		t.Errorf("ReviewItem() = %+v", got)
	}
	if !got.DueDate.Equal(item.DueDate.Truncate(time.Second)) {
		t.Errorf("DueDate = %v, want %v", got.DueDate, item.DueDate)
	}
	if got.LastReviewedAt != nil {
		t.Errorf("LastReviewedAt = %v, want nil before first review", got.LastReviewedAt)
	}
}

func TestReviewItemNotFound(t *testing.T) {
	store := testSetup(t)
	_, found, err := store.ReviewItem(context.Background(), "alex", "missing")
	if err != nil {
		t.Fatalf("ReviewItem() error: %v", err)
	}
	if found {
		t.Error("found = true for missing item")
	}
}

func TestSaveReviewItemUpsertAndIsolation(t *testing.T) {
	store := testSetup(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	item := schedule.NewItem("q1", now)
	if err := store.SaveReviewItem(ctx, "alex", item); err != nil {
		t.Fatal(err)
	}

	reviewed, err := schedule.Review(item, schedule.QualityPerfect, now)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.SaveReviewItem(ctx, "alex", reviewed); err != nil {
		t.Fatal(err)
	}
	// A second learner's state is independent.
	if err := store.SaveReviewItem(ctx, "blake", item); err != nil {
		t.Fatal(err)
	}

	got, _, err := store.ReviewItem(ctx, "alex", "q1")
	if err != nil {
		t.Fatal(err)
	}
	if got.RepetitionCount != 1 || got.IntervalDays != 1 {
		t.Errorf("alex state = %+v, want first pass applied", got)
	}
	if got.LastReviewedAt == nil {
		t.Error("LastReviewedAt should be set after review")
	}

	other, _, err := store.ReviewItem(ctx, "blake", "q1")
	if err != nil {
		t.Fatal(err)
	}
	if other.RepetitionCount != 0 {
		t.Errorf("blake state = %+v, want untouched", other)
	}

	items, err := store.ReviewItems(ctx, "alex")
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 {
		t.Errorf("len(ReviewItems) = %d, want 1", len(items))
	}
}

// --- sessions and attempts ---

func TestSessionsAndAttempts(t *testing.T) {
	store := testSetup(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	session := Session{
		ID: "sess-1", Learner: "alex", DocumentID: "bio-101",
		CreatedAt: now, EstimatedMinutes: 23, Status: "active",
	}
	if err := store.SaveSession(ctx, session); err != nil {
		t.Fatalf("SaveSession() error: %v", err)
	}

	got, err := store.Session(ctx, "sess-1")
	if err != nil {
		t.Fatal(err)
	}
	if got.EstimatedMinutes != 23 || got.Status != "active" {
		t.Errorf("Session() = %+v", got)
	}

	session.Status = "completed"
	if err := store.SaveSession(ctx, session); err != nil {
		t.Fatal(err)
	}
	got, err = store.Session(ctx, "sess-1")
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != "completed" {
		t.Errorf("Status = %q after upsert", got.Status)
	}

	for i, score := range []float64{60, 80, 100} {
		attempt := Attempt{
			SessionID: "sess-1", Learner: "alex", DocumentID: "bio-101",
			Score: score, Correct: i + 1, Total: 3,
			NextAction:  "advance",
			CompletedAt: now.Add(time.Duration(i) * time.Hour),
		}
		if err := store.RecordAttempt(ctx, attempt); err != nil {
			t.Fatalf("RecordAttempt() error: %v", err)
		}
	}

	attempts, err := store.Attempts(ctx, "alex")
	if err != nil {
		t.Fatal(err)
	}
	if len(attempts) != 3 {
		t.Fatalf("len(attempts) = %d, want 3", len(attempts))
	}
	if attempts[0].Score != 60 || attempts[2].Score != 100 {
		t.Errorf("attempts not ordered oldest first: %+v", attempts)
	}
}

// --- stats ---

func TestStats(t *testing.T) {
	store := testSetup(t)
	saveSample(t, store, "bio-101")
	ctx := context.Background()
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	// One item due now, one due later.
	due := schedule.NewItem("bio-101-q1", now.AddDate(0, 0, -1))
	later := schedule.NewItem("bio-101-q2", now.AddDate(0, 0, 5))
	if err := store.SaveReviewItem(ctx, "alex", due); err != nil {
		t.Fatal(err)
	}
	if err := store.SaveReviewItem(ctx, "alex", later); err != nil {
		t.Fatal(err)
	}

	if err := store.RecordAttempt(ctx, Attempt{
		Learner: "alex", DocumentID: "bio-101", Score: 80, Correct: 4, Total: 5,
		CompletedAt: now,
	}); err != nil {
		t.Fatal(err)
	}

	stats, err := store.Stats(ctx, "alex", now)
	if err != nil {
		t.Fatalf("Stats() error: %v", err)
	}
	if stats.Documents != 1 || stats.QuizQuestions != 2 || stats.Flashcards != 1 {
		t.Errorf("counts = %+v", stats)
	}
	if stats.Summaries != 1 || stats.MindMaps != 1 {
		t.Errorf("summary/mindmap counts = %+v", stats)
	}
	if stats.ReviewItems != 2 || stats.DueNow != 1 {
		t.Errorf("review counts = %+v", stats)
	}
	if stats.Attempts != 1 || stats.AverageScore != 80 {
		t.Errorf("attempt stats = %+v", stats)
	}
}

// --- export ---

func TestExportYAMLAndJSON(t *testing.T) {
	store := testSetup(t)
	saveSample(t, store, "bio-101")
	ctx := context.Background()

	if err := store.ExportYAML(ctx, QueryOptions{}); err != nil {
		t.Fatalf("ExportYAML() error: %v", err)
	}
	if err := store.ExportJSON(ctx, QueryOptions{Kind: types.MaterialQuiz}); err != nil {
		t.Fatalf("ExportJSON() error: %v", err)
	}

	yamlPath := filepath.Join(store.libraryDir, indexDir, "export.yaml")
	data, err := os.ReadFile(yamlPath)
	if err != nil {
		t.Fatalf("reading export.yaml: %v", err)
	}
	var yamlEntries []SearchResult
	if err := yaml.Unmarshal(data, &yamlEntries); err != nil {
		t.Fatalf("parsing export.yaml: %v", err)
	}
	// 2 quiz + 1 flashcard + summary + mindmap.
	if len(yamlEntries) != 5 {
		t.Errorf("export.yaml entries = %d, want 5", len(yamlEntries))
	}

	jsonPath := filepath.Join(store.libraryDir, indexDir, "export.json")
	data, err = os.ReadFile(jsonPath)
	if err != nil {
		t.Fatalf("reading export.json: %v", err)
	}
	var jsonEntries []SearchResult
	if err := json.Unmarshal(data, &jsonEntries); err != nil {
		t.Fatalf("parsing export.json: %v", err)
	}
	if len(jsonEntries) != 2 {
		t.Errorf("export.json entries = %d, want 2 quiz rows", len(jsonEntries))
	}
}
