// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "doculearn/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// IngestConfig holds settings for the ingestion stage.
type IngestConfig struct {
	HTTPConfig `yaml:",inline"`

	// DownloadDelay is the delay between consecutive URL downloads (default 1s).
	DownloadDelay time.Duration `json:"download_delay" yaml:"download_delay"`

	// LibraryDir is the base directory for the library
	// (contains documents/, metadata/, index/).
	LibraryDir string `json:"library_dir" yaml:"library_dir"`
}

// AnalysisConfig holds settings for the content analysis stage.
type AnalysisConfig struct {
	// MaxConcepts caps the number of key concepts reported (default 20).
	MaxConcepts int `json:"max_concepts" yaml:"max_concepts"`
}

// AIConfig holds shared settings for stages that call a Generative AI API.
type AIConfig struct {
	// Model is the AI model identifier (e.g. "gpt-4").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the AI API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxRetries is the number of retry attempts for failed API calls (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// GenerationConfig holds settings for the study-material generation stage.
type GenerationConfig struct {
	AIConfig `yaml:",inline"`

	// QuizCount overrides the analysis-suggested question count when positive.
	QuizCount int `json:"quiz_count,omitempty" yaml:"quiz_count,omitempty"`

	// FlashcardCount is the number of flashcards to request (default 10).
	FlashcardCount int `json:"flashcard_count,omitempty" yaml:"flashcard_count,omitempty"`
}

// LibraryConfig holds settings for the SQLite library.
type LibraryConfig struct {
	// LibraryDir is the base directory for the library
	// (contains documents/, metadata/, index/).
	LibraryDir string `json:"library_dir" yaml:"library_dir"`

	// MaxResults is the default maximum number of search results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// EngineConfig groups all stage configurations.
type EngineConfig struct {
	Ingest     IngestConfig     `json:"ingest" yaml:"ingest"`
	Analysis   AnalysisConfig   `json:"analysis" yaml:"analysis"`
	Generation GenerationConfig `json:"generation" yaml:"generation"`
	Library    LibraryConfig    `json:"library" yaml:"library"`
}
