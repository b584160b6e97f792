// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package parse ingests source documents into the library. It extracts text
// and heading-delimited sections from PDF, DOCX, Markdown, and plain-text
// files, writes the extracted Markdown plus a YAML metadata sidecar under
// the library directory, and reloads stored documents for later stages.
package parse

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/doculearn/doculearn/internal/container"
	"github.com/doculearn/doculearn/pkg/types"
)

const (
	// DocumentsDir is the subdirectory under the library for extracted Markdown.
	DocumentsDir = "documents"
	// MetadataDir is the subdirectory under the library for metadata sidecars.
	MetadataDir = "metadata"
	// DownloadsDir is the subdirectory under the library for URL downloads.
	DownloadsDir = "downloads"

	// defaultSectionTitle collects leading unheaded text.
	defaultSectionTitle = "Introduction"
)

// Parser extracts text and sections from one source file.
type Parser interface {
	// Parse reads the file at path and returns the extracted text and its
	// heading-delimited sections.
	Parse(path string) (text string, sections []types.Section, err error)
}

// BatchResult holds the outcome of a batch ingestion run.
type BatchResult struct {
	Parsed  int
	Skipped int
	Failed  int
	Results []*types.ParseResult
}

// Total returns the total number of files processed.
func (r BatchResult) Total() int {
	return r.Parsed + r.Skipped + r.Failed
}

// HasFailures reports whether any files failed.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// ParserFor returns the parser and document kind for path's extension.
// PDF and DOCX require a container runtime; rt may be nil for native formats.
func ParserFor(path string, rt container.Runtime) (Parser, types.DocumentKind, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	kind, ok := types.KindForExtension(ext)
	if !ok {
		return nil, "", fmt.Errorf("unsupported document format %q", ext)
	}

	switch kind {
	case types.KindMarkdown:
		return MarkdownParser{}, kind, nil
	case types.KindText:
		return TextParser{}, kind, nil
	default:
		if rt == nil {
			return nil, "", fmt.Errorf("parsing %s requires a container runtime", kind)
		}
		p, err := NewMarkitdownParser(rt)
		if err != nil {
			return nil, "", err
		}
		return p, kind, nil
	}
}

// IngestFile parses one source file and writes its extracted Markdown and
// metadata into the library. A document whose Markdown already exists is
// skipped. The skipped return value reports whether that happened.
func IngestFile(path string, rt container.Runtime, cfg types.IngestConfig, w io.Writer) (*types.ParseResult, bool, error) {
	id := Slug(filepath.Base(path))
	mdPath := filepath.Join(cfg.LibraryDir, DocumentsDir, id+".md")
	metaPath := filepath.Join(cfg.LibraryDir, MetadataDir, id+".yaml")

	if _, err := os.Stat(mdPath); err == nil {
		fmt.Fprintf(w, "skipped: %s (already exists)\n", id)
		res, loadErr := LoadDocument(cfg.LibraryDir, id)
		if loadErr != nil {
			res = &types.ParseResult{Document: types.Document{ID: id}}
		}
		return res, true, nil
	}

	parser, kind, err := ParserFor(path, rt)
	if err != nil {
		return nil, false, err
	}

	fmt.Fprintf(w, "parsing: %s (%s)\n", id, kind)

	text, sections, err := parser.Parse(path)
	if err != nil {
		return nil, false, fmt.Errorf("parsing %s: %w", path, err)
	}

	doc := types.Document{
		ID:         id,
		Title:      titleOf(sections, path),
		Kind:       kind,
		SourcePath: path,
		Pages:      maxPage(sections),
		WordCount:  len(strings.Fields(text)),
		IngestedAt: time.Now().UTC(),
	}

	for _, dir := range []string{
		filepath.Join(cfg.LibraryDir, DocumentsDir),
		filepath.Join(cfg.LibraryDir, MetadataDir),
	} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, false, fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}

	if err := os.WriteFile(mdPath, []byte(addFrontmatter(doc, text)), 0o644); err != nil {
		return nil, false, fmt.Errorf("writing markdown %s: %w", mdPath, err)
	}
	if err := writeMetadata(metaPath, doc, sections); err != nil {
		return nil, false, err
	}

	return &types.ParseResult{Document: doc, Text: text, Sections: sections}, false, nil
}

// IngestBatch processes a list of source files, printing per-file status to
// w and returning a summary.
func IngestBatch(paths []string, rt container.Runtime, cfg types.IngestConfig, w io.Writer) BatchResult {
	var result BatchResult
	for _, path := range paths {
		res, skipped, err := IngestFile(path, rt, cfg, w)
		switch {
		case err != nil:
			fmt.Fprintf(w, "failed:  %s (%v)\n", filepath.Base(path), err)
			result.Failed++
		case skipped:
			result.Skipped++
			result.Results = append(result.Results, res)
		default:
			fmt.Fprintf(w, "parsed:  %s (%d words, %d sections)\n",
				res.Document.ID, res.Document.WordCount, len(res.Sections))
			result.Parsed++
			result.Results = append(result.Results, res)
		}
	}
	fmt.Fprintf(w, "\nBatch summary: %d parsed, %d skipped, %d failed (total: %d)\n",
		result.Parsed, result.Skipped, result.Failed, result.Total())
	return result
}

// metadata is the YAML sidecar stored next to a document's Markdown.
type metadata struct {
	Document types.Document  `yaml:"document"`
	Sections []types.Section `yaml:"sections"`
}

func writeMetadata(path string, doc types.Document, sections []types.Section) error {
	data, err := yaml.Marshal(metadata{Document: doc, Sections: sections})
	if err != nil {
		return fmt.Errorf("marshaling metadata: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// LoadDocument reloads a previously ingested document from the library.
func LoadDocument(libraryDir, id string) (*types.ParseResult, error) {
	metaPath := filepath.Join(libraryDir, MetadataDir, id+".yaml")
	data, err := os.ReadFile(metaPath)
	if err != nil {
		return nil, fmt.Errorf("reading metadata for %s: %w", id, err)
	}
	var meta metadata
	if err := yaml.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("parsing metadata for %s: %w", id, err)
	}

	mdPath := filepath.Join(libraryDir, DocumentsDir, id+".md")
	body, err := os.ReadFile(mdPath)
	if err != nil {
		return nil, fmt.Errorf("reading markdown for %s: %w", id, err)
	}

	return &types.ParseResult{
		Document: meta.Document,
		Text:     stripFrontmatter(string(body)),
		Sections: meta.Sections,
	}, nil
}

// Slug derives a document ID from a filename: lowercase with non-alphanumeric
// runs collapsed to single hyphens, extension dropped.
func Slug(filename string) string {
	base := strings.TrimSuffix(filename, filepath.Ext(filename))
	var b strings.Builder
	lastHyphen := true // suppress a leading hyphen
	for _, r := range strings.ToLower(base) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// addFrontmatter prepends YAML frontmatter to the extracted text.
func addFrontmatter(doc types.Document, body string) string {
	var b strings.Builder
	b.WriteString("---\n")
	fmt.Fprintf(&b, "document_id: %q\n", doc.ID)
	fmt.Fprintf(&b, "source: %q\n", doc.SourcePath)
	fmt.Fprintf(&b, "ingested_at: %q\n", doc.IngestedAt.Format(time.RFC3339))
	b.WriteString("---\n\n")
	b.WriteString(body)
	return b.String()
}

// stripFrontmatter removes a leading YAML frontmatter block, if present.
func stripFrontmatter(content string) string {
	if !strings.HasPrefix(content, "---\n") {
		return content
	}
	rest := content[len("---\n"):]
	end := strings.Index(rest, "---\n")
	if end < 0 {
		return content
	}
	return strings.TrimLeft(rest[end+len("---\n"):], "\n")
}

// titleOf picks the document title: the first real section heading when one
// exists, otherwise the filename without extension.
func titleOf(sections []types.Section, path string) string {
	for _, sec := range sections {
		if sec.Title != "" && sec.Title != defaultSectionTitle {
			return sec.Title
		}
	}
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func maxPage(sections []types.Section) int {
	max := 0
	for _, sec := range sections {
		if sec.Page > max {
			max = sec.Page
		}
	}
	return max
}
