// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package parse

import (
	"fmt"
	"os"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	gmtext "github.com/yuin/goldmark/text"

	"github.com/doculearn/doculearn/pkg/types"
)

// MarkdownParser parses Markdown sources natively. Headings up to level 3
// delimit sections; code blocks are excluded from the extracted text.
type MarkdownParser struct{}

// Parse implements Parser.
func (MarkdownParser) Parse(path string) (string, []types.Section, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return sectionMarkdown(data)
}

// sectionMarkdown walks the Markdown AST and groups paragraph text under the
// most recent heading of level 1-3.
func sectionMarkdown(source []byte) (string, []types.Section, error) {
	root := goldmark.New().Parser().Parse(gmtext.NewReader(source))

	var sections []types.Section
	current := types.Section{Title: defaultSectionTitle}
	var body []string

	flush := func() {
		content := strings.TrimSpace(strings.Join(body, "\n"))
		if content != "" || current.Title != defaultSectionTitle {
			current.Content = content
			sections = append(sections, current)
		}
		body = body[:0]
	}

	err := ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Heading:
			if node.Level <= 3 {
				flush()
				current = types.Section{Title: string(node.Text(source))}
			}
			return ast.WalkSkipChildren, nil
		case *ast.Paragraph, *ast.TextBlock:
			body = append(body, blockText(n, source))
			return ast.WalkSkipChildren, nil
		case *ast.FencedCodeBlock, *ast.CodeBlock, *ast.HTMLBlock:
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return "", nil, fmt.Errorf("walking markdown: %w", err)
	}
	flush()

	return joinSections(sections), sections, nil
}

// blockText concatenates the source lines of a block node into one string.
func blockText(n ast.Node, source []byte) string {
	var b strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.Write(seg.Value(source))
	}
	return strings.TrimSpace(b.String())
}

// joinSections rebuilds the full document text from its sections.
func joinSections(sections []types.Section) string {
	var parts []string
	for _, sec := range sections {
		if sec.Title != "" && sec.Title != defaultSectionTitle {
			parts = append(parts, sec.Title)
		}
		if sec.Content != "" {
			parts = append(parts, sec.Content)
		}
	}
	return strings.Join(parts, "\n\n")
}
