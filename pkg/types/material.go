// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// MaterialKind categorizes generated study material.
type MaterialKind string

const (
	MaterialQuiz       MaterialKind = "quiz"
	MaterialFlashcards MaterialKind = "flashcards"
	MaterialSummary    MaterialKind = "summary"
	MaterialMindMap    MaterialKind = "mindmap"
)

// QuizQuestion is one multiple-choice question generated from a document.
type QuizQuestion struct {
	// ID is a stable identifier, consistent across re-generations of
	// unchanged content. It doubles as the review item key.
	ID string `json:"id" yaml:"id"`

	// DocumentID identifies the source document.
	DocumentID string `json:"document_id" yaml:"document_id"`

	// Question is the question text.
	Question string `json:"question" yaml:"question"`

	// Options holds exactly four answer choices.
	Options []string `json:"options" yaml:"options"`

	// CorrectAnswer is the index of the right choice in Options.
	CorrectAnswer int `json:"correct_answer" yaml:"correct_answer"`

	// Explanation says why the correct answer is correct.
	Explanation string `json:"explanation,omitempty" yaml:"explanation,omitempty"`

	// Difficulty classifies the question.
	Difficulty Difficulty `json:"difficulty" yaml:"difficulty"`

	// Concept is the main concept the question tests.
	Concept string `json:"concept" yaml:"concept"`
}

// Flashcard is one front/back recall card generated from a document.
type Flashcard struct {
	// ID is a stable identifier, also used as the review item key.
	ID string `json:"id" yaml:"id"`

	// DocumentID identifies the source document.
	DocumentID string `json:"document_id" yaml:"document_id"`

	// Front is the prompt side.
	Front string `json:"front" yaml:"front"`

	// Back is the answer side.
	Back string `json:"back" yaml:"back"`

	// Concept is the concept the card drills.
	Concept string `json:"concept" yaml:"concept"`
}

// Summary is the generated summary of one document.
type Summary struct {
	DocumentID string `json:"document_id" yaml:"document_id"`

	// Overview is a two-to-three sentence synopsis.
	Overview string `json:"overview" yaml:"overview"`

	// MainPoints is a bullet list of the document's main points.
	MainPoints []string `json:"main_points" yaml:"main_points"`

	// KeyTakeaways lists the three to five most important concepts.
	KeyTakeaways []string `json:"key_takeaways" yaml:"key_takeaways"`

	// ComplexityLevel classifies the material.
	ComplexityLevel Difficulty `json:"complexity_level" yaml:"complexity_level"`
}

// MindMapNode is one node in a mind map hierarchy.
type MindMapNode struct {
	Name     string        `json:"name" yaml:"name"`
	Children []MindMapNode `json:"children,omitempty" yaml:"children,omitempty"`
}

// MindMap is the generated mind map structure for one document: a central
// topic with three to six major branches.
type MindMap struct {
	DocumentID   string        `json:"document_id" yaml:"document_id"`
	CentralTopic string        `json:"central_topic" yaml:"central_topic"`
	Branches     []MindMapNode `json:"branches" yaml:"branches"`
}

// StudyMaterial bundles everything generated for one document.
type StudyMaterial struct {
	DocumentID string         `json:"document_id" yaml:"document_id"`
	Quiz       []QuizQuestion `json:"quiz" yaml:"quiz"`
	Flashcards []Flashcard    `json:"flashcards" yaml:"flashcards"`
	Summary    *Summary       `json:"summary,omitempty" yaml:"summary,omitempty"`
	MindMap    *MindMap       `json:"mindmap,omitempty" yaml:"mindmap,omitempty"`
}
