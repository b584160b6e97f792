// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package parse

import (
	"bytes"
	"fmt"
	"os"

	"github.com/doculearn/doculearn/internal/container"
	"github.com/doculearn/doculearn/pkg/types"
)

// markitdownImage converts PDF and DOCX to Markdown over piped stdio.
const markitdownImage = "markitdown:latest"

// MarkitdownParser handles PDF and DOCX sources by piping them through the
// markitdown container image and sectioning the resulting Markdown.
type MarkitdownParser struct {
	runtime container.Runtime
}

// NewMarkitdownParser verifies the converter image is present in rt.
func NewMarkitdownParser(rt container.Runtime) (*MarkitdownParser, error) {
	if err := rt.ImageExists(markitdownImage); err != nil {
		return nil, fmt.Errorf("markitdown converter unavailable: %w", err)
	}
	return &MarkitdownParser{runtime: rt}, nil
}

// Parse implements Parser.
func (m *MarkitdownParser) Parse(path string) (string, []types.Section, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var out bytes.Buffer
	if err := m.runtime.Run(markitdownImage, f, &out); err != nil {
		return "", nil, fmt.Errorf("converting %s: %w", path, err)
	}
	if out.Len() == 0 {
		return "", nil, fmt.Errorf("converting %s: empty output from %s", path, markitdownImage)
	}

	return sectionMarkdown(out.Bytes())
}
