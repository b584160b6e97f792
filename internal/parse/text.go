// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package parse

import (
	"fmt"
	"os"
	"strings"
	"unicode"

	"github.com/doculearn/doculearn/pkg/types"
)

// TextParser parses plain-text sources with a heading heuristic: a short
// all-uppercase line, a "Chapter"/"Section" prefix, or a numbered prefix
// such as "3." opens a new section. Lines of the form "--- Page N ---" set
// the page for subsequent sections.
type TextParser struct{}

// Parse implements Parser.
func (TextParser) Parse(path string) (string, []types.Section, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return sectionText(string(data))
}

func sectionText(content string) (string, []types.Section, error) {
	var sections []types.Section
	page := 0
	current := types.Section{Title: defaultSectionTitle}
	var body []string

	flush := func() {
		text := strings.TrimSpace(strings.Join(body, " "))
		if text != "" || current.Title != defaultSectionTitle {
			current.Content = text
			sections = append(sections, current)
		}
		body = body[:0]
	}

	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if p, ok := parsePageMarker(line); ok {
			page = p
			continue
		}
		if isTextHeading(line) {
			flush()
			current = types.Section{Title: line, Page: page}
			continue
		}
		if current.Page == 0 && len(body) == 0 {
			current.Page = page
		}
		body = append(body, line)
	}
	flush()

	return joinSections(sections), sections, nil
}

// parsePageMarker recognizes "--- Page N ---" lines.
func parsePageMarker(line string) (int, bool) {
	var page int
	if n, err := fmt.Sscanf(line, "--- Page %d ---", &page); err == nil && n == 1 {
		return page, true
	}
	return 0, false
}

func isTextHeading(line string) bool {
	if len(line) > 80 {
		return false
	}
	for _, prefix := range []string{"Chapter ", "Section "} {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}
	if isNumberedHeading(line) {
		return true
	}
	return isUpper(line)
}

// isNumberedHeading matches lines like "3. Cell Division" or "2.1 Mitosis".
func isNumberedHeading(line string) bool {
	i := 0
	for i < len(line) && line[i] >= '0' && line[i] <= '9' {
		i++
	}
	if i == 0 || i >= len(line) {
		return false
	}
	return line[i] == '.' && i <= 2
}

// isUpper reports whether line contains letters and all of them are uppercase.
func isUpper(line string) bool {
	hasLetter := false
	for _, r := range line {
		if unicode.IsLetter(r) {
			hasLetter = true
			if !unicode.IsUpper(r) {
				return false
			}
		}
	}
	return hasLetter
}
