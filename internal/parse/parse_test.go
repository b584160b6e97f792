// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package parse

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/doculearn/doculearn/pkg/types"
)

func testIngestConfig(t *testing.T) types.IngestConfig {
	t.Helper()
	return types.IngestConfig{LibraryDir: t.TempDir()}
}

func writeSource(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing source file: %v", err)
	}
	return path
}

func TestSlug(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Cell Biology Ch3.pdf", "cell-biology-ch3"},
		{"notes.md", "notes"},
		{"My__File--2024.txt", "my-file-2024"},
		{"UPPER.PDF", "upper"},
		{"weird !!! name.docx", "weird-name"},
	}
	for _, tt := range tests {
		if got := Slug(tt.in); got != tt.want {
			t.Errorf("Slug(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestIngestFileMarkdown(t *testing.T) {
	cfg := testIngestConfig(t)
	src := writeSource(t, t.TempDir(), "cell-basics.md",
		"# Cell Structure\n\nCells are the basic unit of life.\n\n## Organelles\n\nMitochondria produce energy.\n")

	var out bytes.Buffer
	res, skipped, err := IngestFile(src, nil, cfg, &out)
	if err != nil {
		t.Fatalf("IngestFile() error: %v", err)
	}
	if skipped {
		t.Fatal("IngestFile() skipped a new document")
	}

	if res.Document.ID != "cell-basics" {
		t.Errorf("ID = %q, want %q", res.Document.ID, "cell-basics")
	}
	if res.Document.Title != "Cell Structure" {
		t.Errorf("Title = %q, want %q", res.Document.Title, "Cell Structure")
	}
	if res.Document.Kind != types.KindMarkdown {
		t.Errorf("Kind = %q, want %q", res.Document.Kind, types.KindMarkdown)
	}
	if res.Document.WordCount == 0 {
		t.Error("WordCount = 0, want > 0")
	}
	if len(res.Sections) != 2 {
		t.Fatalf("len(Sections) = %d, want 2", len(res.Sections))
	}

	// Both artifacts must land in the library.
	for _, p := range []string{
		filepath.Join(cfg.LibraryDir, DocumentsDir, "cell-basics.md"),
		filepath.Join(cfg.LibraryDir, MetadataDir, "cell-basics.yaml"),
	} {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("expected artifact %s: %v", p, err)
		}
	}
}

func TestIngestFileSkipsExisting(t *testing.T) {
	cfg := testIngestConfig(t)
	src := writeSource(t, t.TempDir(), "notes.md", "# Notes\n\nSome content here.\n")

	var out bytes.Buffer
	if _, _, err := IngestFile(src, nil, cfg, &out); err != nil {
		t.Fatalf("first IngestFile() error: %v", err)
	}

	out.Reset()
	res, skipped, err := IngestFile(src, nil, cfg, &out)
	if err != nil {
		t.Fatalf("second IngestFile() error: %v", err)
	}
	if !skipped {
		t.Error("second IngestFile() should skip")
	}
	if res.Document.ID != "notes" {
		t.Errorf("skipped result ID = %q, want %q", res.Document.ID, "notes")
	}
	if !strings.Contains(out.String(), "skipped") {
		t.Errorf("output %q should mention skip", out.String())
	}
}

func TestIngestFileUnsupportedFormat(t *testing.T) {
	cfg := testIngestConfig(t)
	src := writeSource(t, t.TempDir(), "data.csv", "a,b,c\n")

	var out bytes.Buffer
	_, _, err := IngestFile(src, nil, cfg, &out)
	if err == nil || !strings.Contains(err.Error(), "unsupported document format") {
		t.Fatalf("IngestFile() error = %v, want unsupported format", err)
	}
}

func TestIngestFilePDFWithoutRuntime(t *testing.T) {
	cfg := testIngestConfig(t)
	src := writeSource(t, t.TempDir(), "lecture.pdf", "%PDF-1.4")

	var out bytes.Buffer
	_, _, err := IngestFile(src, nil, cfg, &out)
	if err == nil || !strings.Contains(err.Error(), "container runtime") {
		t.Fatalf("IngestFile() error = %v, want container runtime error", err)
	}
}

func TestLoadDocumentRoundTrip(t *testing.T) {
	cfg := testIngestConfig(t)
	src := writeSource(t, t.TempDir(), "roundtrip.md",
		"# Photosynthesis\n\nPlants convert light into chemical energy.\n")

	var out bytes.Buffer
	stored, _, err := IngestFile(src, nil, cfg, &out)
	if err != nil {
		t.Fatalf("IngestFile() error: %v", err)
	}

	loaded, err := LoadDocument(cfg.LibraryDir, "roundtrip")
	if err != nil {
		t.Fatalf("LoadDocument() error: %v", err)
	}
	if loaded.Document.Title != stored.Document.Title {
		t.Errorf("Title = %q, want %q", loaded.Document.Title, stored.Document.Title)
	}
	if loaded.Text != stored.Text {
		t.Errorf("Text = %q, want %q", loaded.Text, stored.Text)
	}
	if len(loaded.Sections) != len(stored.Sections) {
		t.Errorf("len(Sections) = %d, want %d", len(loaded.Sections), len(stored.Sections))
	}
}

func TestLoadDocumentMissing(t *testing.T) {
	if _, err := LoadDocument(t.TempDir(), "nope"); err == nil {
		t.Fatal("LoadDocument() should fail for a missing document")
	}
}

func TestIngestBatch(t *testing.T) {
	cfg := testIngestConfig(t)
	srcDir := t.TempDir()
	good := writeSource(t, srcDir, "one.md", "# One\n\nContent one.\n")
	writeSource(t, srcDir, "two.md", "# Two\n\nContent two.\n")
	bad := writeSource(t, srcDir, "bad.csv", "a,b\n")

	var out bytes.Buffer
	// Ingest "one" first so the batch sees it as existing.
	if _, _, err := IngestFile(good, nil, cfg, &out); err != nil {
		t.Fatalf("seeding IngestFile() error: %v", err)
	}

	out.Reset()
	result := IngestBatch([]string{good, filepath.Join(srcDir, "two.md"), bad}, nil, cfg, &out)

	if result.Parsed != 1 || result.Skipped != 1 || result.Failed != 1 {
		t.Errorf("batch = %d/%d/%d parsed/skipped/failed, want 1/1/1",
			result.Parsed, result.Skipped, result.Failed)
	}
	if result.Total() != 3 {
		t.Errorf("Total() = %d, want 3", result.Total())
	}
	if !result.HasFailures() {
		t.Error("HasFailures() = false, want true")
	}
	if !strings.Contains(out.String(), "Batch summary: 1 parsed, 1 skipped, 1 failed") {
		t.Errorf("summary missing from output:\n%s", out.String())
	}
}

func TestStripFrontmatter(t *testing.T) {
	doc := types.Document{ID: "x", SourcePath: "/tmp/x.md", IngestedAt: time.Now().UTC()}
	body := "First line.\n\nSecond line."
	got := stripFrontmatter(addFrontmatter(doc, body))
	if got != body {
		t.Errorf("stripFrontmatter(addFrontmatter()) = %q, want %q", got, body)
	}

	plain := "no frontmatter here"
	if got := stripFrontmatter(plain); got != plain {
		t.Errorf("stripFrontmatter(%q) = %q, want unchanged", plain, got)
	}
}
