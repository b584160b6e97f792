// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/doculearn/doculearn/pkg/types"
)

// System role strings sent alongside each prompt.
const (
	quizSystem      = "You are an expert educational content creator."
	flashcardSystem = "You are an expert educational content creator."
	summarySystem   = "You are an expert at summarizing educational content."
	mindmapSystem   = "You are an expert at creating educational mind maps."
)

// quizPromptTmpl instructs the model to produce multiple-choice questions as
// a JSON array matching aiQuizQuestion.
var quizPromptTmpl = template.Must(template.New("quiz").Parse(`Generate {{.Count}} multiple choice questions from the following text.
Difficulty level: {{.Difficulty}}
Focus on these key concepts: {{.Concepts}}

Text:
{{.Content}}

Requirements:
1. Each question should test understanding, not just memorization
2. Include 4 options (A, B, C, D) with only one correct answer
3. Make incorrect options plausible but clearly wrong
4. Vary question types (factual, conceptual, application)

Respond with a JSON array only. Do not include any text outside the JSON.
[
  {
    "question": "Question text here?",
    "options": ["Option A", "Option B", "Option C", "Option D"],
    "correct_answer": 0,
    "explanation": "Why this answer is correct",
    "difficulty": "Basic|Intermediate|Advanced",
    "concept": "Main concept being tested"
  }
]
`))

// flashcardPromptTmpl instructs the model to produce recall cards as a JSON
// array matching aiFlashcard.
var flashcardPromptTmpl = template.Must(template.New("flashcards").Parse(`Generate {{.Count}} flashcards from the following text.
Focus on these key concepts: {{.Concepts}}

Text:
{{.Content}}

Requirements:
1. The front is a short question or term; the back is a concise answer
2. Each card should drill exactly one fact or concept
3. Avoid cards whose answer appears verbatim on the front

Respond with a JSON array only. Do not include any text outside the JSON.
[
  {
    "front": "Question or term",
    "back": "Concise answer",
    "concept": "Concept the card drills"
  }
]
`))

// summaryPromptTmpl instructs the model to produce a structured summary
// matching aiSummary.
var summaryPromptTmpl = template.Must(template.New("summary").Parse(`Create a comprehensive summary of this educational content.

Key concepts to highlight: {{.Concepts}}
Subject areas: {{.Topics}}

Content:
{{.Content}}

Provide:
1. A brief overview (2-3 sentences)
2. Main points (bullet list)
3. Key takeaways (3-5 important concepts)

Respond with a JSON object only. Do not include any text outside the JSON.
{
  "overview": "Brief summary here",
  "main_points": ["Point 1", "Point 2"],
  "key_takeaways": ["Takeaway 1", "Takeaway 2"],
  "complexity_level": "Basic|Intermediate|Advanced"
}
`))

// mindmapPromptTmpl instructs the model to produce a hierarchy matching
// aiMindMap.
var mindmapPromptTmpl = template.Must(template.New("mindmap").Parse(`Create a mind map structure for this educational content.

Key concepts: {{.Concepts}}
Sections: {{.Sections}}

Content excerpt:
{{.Content}}

Create a hierarchical structure with:
- Central topic
- Main branches (3-6 major concepts)
- Sub-branches (supporting details)

Respond with a JSON object only. Do not include any text outside the JSON.
{
  "central_topic": "Main subject",
  "branches": [
    {
      "name": "Branch name",
      "children": [
        {"name": "Sub-concept 1"},
        {"name": "Sub-concept 2"}
      ]
    }
  ]
}
`))

func renderQuizPrompt(content string, analysis *types.Analysis, count int) (string, error) {
	data := struct {
		Count      int
		Difficulty types.Difficulty
		Concepts   string
		Content    string
	}{
		Count:      count,
		Difficulty: analysis.Difficulty,
		Concepts:   conceptList(analysis.KeyConcepts, 5),
		Content:    truncate(content, quizContentLimit),
	}
	return render(quizPromptTmpl, data)
}

func renderFlashcardPrompt(content string, analysis *types.Analysis, count int) (string, error) {
	data := struct {
		Count    int
		Concepts string
		Content  string
	}{
		Count:    count,
		Concepts: conceptList(analysis.KeyConcepts, 8),
		Content:  truncate(content, quizContentLimit),
	}
	return render(flashcardPromptTmpl, data)
}

func renderSummaryPrompt(content string, analysis *types.Analysis) (string, error) {
	data := struct {
		Concepts string
		Topics   string
		Content  string
	}{
		Concepts: conceptList(analysis.KeyConcepts, 3),
		Topics:   strings.Join(analysis.Topics, ", "),
		Content:  truncate(content, summaryContentLimit),
	}
	return render(summaryPromptTmpl, data)
}

func renderMindMapPrompt(content string, analysis *types.Analysis) (string, error) {
	titles := make([]string, 0, 5)
	for _, sec := range analysis.Sections {
		if len(titles) == 5 {
			break
		}
		titles = append(titles, sec.Title)
	}
	data := struct {
		Concepts string
		Sections string
		Content  string
	}{
		Concepts: conceptList(analysis.KeyConcepts, 8),
		Sections: strings.Join(titles, ", "),
		Content:  truncate(content, mindmapContentLimit),
	}
	return render(mindmapPromptTmpl, data)
}

func render(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering %s prompt: %w", tmpl.Name(), err)
	}
	return buf.String(), nil
}

// conceptList joins up to n concept phrases for prompt interpolation.
func conceptList(concepts []types.Concept, n int) string {
	var names []string
	for _, c := range concepts {
		if len(names) == n {
			break
		}
		names = append(names, c.Concept)
	}
	return strings.Join(names, ", ")
}
