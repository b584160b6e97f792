// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the doculearn pipeline:
// ingested documents, content analyses, generated study material, and the
// per-stage configuration blocks.
package types

import "time"

// DocumentKind identifies the source format of an ingested document.
type DocumentKind string

const (
	KindPDF      DocumentKind = "pdf"
	KindDocx     DocumentKind = "docx"
	KindMarkdown DocumentKind = "markdown"
	KindText     DocumentKind = "text"
)

// KindForExtension maps a lowercase file extension (without the dot) to a
// DocumentKind. The second return value is false for unsupported formats.
func KindForExtension(ext string) (DocumentKind, bool) {
	switch ext {
	case "pdf":
		return KindPDF, true
	case "docx":
		return KindDocx, true
	case "md", "markdown":
		return KindMarkdown, true
	case "txt", "text":
		return KindText, true
	}
	return "", false
}

// Document holds metadata for one ingested source document. The extracted
// Markdown lives on disk under the library; Document records where it came
// from and what the parser measured.
type Document struct {
	// ID is a slug derived from the source filename (e.g. "cell-biology-ch3").
	ID string `json:"id" yaml:"id"`

	// Title is the document title: the first heading when one exists,
	// otherwise the filename.
	Title string `json:"title" yaml:"title"`

	// Kind is the source format the document was parsed from.
	Kind DocumentKind `json:"kind" yaml:"kind"`

	// SourcePath is the local path the document was ingested from.
	SourcePath string `json:"source_path" yaml:"source_path"`

	// SourceURL is the URL the document was downloaded from, when ingested
	// by URL.
	SourceURL string `json:"source_url,omitempty" yaml:"source_url,omitempty"`

	// Pages is the page count when the source carries page markers; 0 otherwise.
	Pages int `json:"pages" yaml:"pages"`

	// WordCount is the number of whitespace-separated words in the extracted text.
	WordCount int `json:"word_count" yaml:"word_count"`

	// IngestedAt is when the document entered the library.
	IngestedAt time.Time `json:"ingested_at" yaml:"ingested_at"`
}

// Section is one heading-delimited chunk of a parsed document.
type Section struct {
	// Title is the section heading. The leading unheaded text of a document
	// is collected under "Introduction".
	Title string `json:"title" yaml:"title"`

	// Content is the section body text.
	Content string `json:"content" yaml:"content"`

	// Page is the page on which the section begins, when the source carries
	// page markers; 0 otherwise.
	Page int `json:"page,omitempty" yaml:"page,omitempty"`
}

// ParseResult is the output of parsing one source document.
type ParseResult struct {
	Document Document  `json:"document" yaml:"document"`
	Text     string    `json:"text" yaml:"text"`
	Sections []Section `json:"sections" yaml:"sections"`
}
