// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Difficulty classifies content complexity on a three-level scale.
type Difficulty string

const (
	DifficultyBasic        Difficulty = "Basic"
	DifficultyIntermediate Difficulty = "Intermediate"
	DifficultyAdvanced     Difficulty = "Advanced"
)

// Concept is a key concept identified in a document, with how often it
// appears and a normalized importance weight.
type Concept struct {
	// Concept is the phrase itself, lowercased.
	Concept string `json:"concept" yaml:"concept"`

	// Frequency is the number of occurrences in the document text.
	Frequency int `json:"frequency" yaml:"frequency"`

	// Importance is Frequency scaled into (0, 1].
	Importance float64 `json:"importance" yaml:"importance"`
}

// SectionAnalysis summarizes one document section for quiz planning.
type SectionAnalysis struct {
	// Title is the section heading.
	Title string `json:"title" yaml:"title"`

	// WordCount is the section body word count.
	WordCount int `json:"word_count" yaml:"word_count"`

	// KeyPoints are up to five representative sentences from the section.
	KeyPoints []string `json:"key_points" yaml:"key_points"`

	// QuizPotential is a rough estimate of how many questions the section
	// can support (one per ~50 words).
	QuizPotential int `json:"quiz_potential" yaml:"quiz_potential"`
}

// Analysis is the content analysis of one document. It feeds the generation
// prompts (concept focus, difficulty, question count) and the stats surface.
type Analysis struct {
	// DocumentID identifies the analyzed document.
	DocumentID string `json:"document_id" yaml:"document_id"`

	// KeyConcepts lists the most frequent candidate phrases, most frequent first.
	KeyConcepts []Concept `json:"key_concepts" yaml:"key_concepts"`

	// Difficulty is the assessed difficulty level of the full text.
	Difficulty Difficulty `json:"difficulty" yaml:"difficulty"`

	// Topics lists recognized subject areas (e.g. "Biology", "History").
	Topics []string `json:"topics" yaml:"topics"`

	// Sections holds the per-section breakdown.
	Sections []SectionAnalysis `json:"sections" yaml:"sections"`

	// Readability is a score in [0, 1]; higher is more readable.
	Readability float64 `json:"readability" yaml:"readability"`

	// SuggestedQuizCount is the recommended number of quiz questions for the
	// document's length: 3, 5, 8, or 10.
	SuggestedQuizCount int `json:"suggested_quiz_count" yaml:"suggested_quiz_count"`
}
