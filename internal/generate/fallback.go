// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"fmt"
	"strings"

	"github.com/doculearn/doculearn/pkg/types"
)

// fallbackQuiz produces a single placeholder question when generation fails.
func fallbackQuiz(doc types.Document) []types.QuizQuestion {
	question := "What is the main topic of this document?"
	return []types.QuizQuestion{{
		ID:            stableID(doc.ID, string(types.MaterialQuiz), question),
		DocumentID:    doc.ID,
		Question:      question,
		Options:       []string{doc.Title, "An unrelated topic", "A different subject", "None of the above"},
		CorrectAnswer: 0,
		Explanation:   "Fallback question generated due to a processing error.",
		Difficulty:    types.DifficultyBasic,
		Concept:       "General",
	}}
}

// fallbackFlashcards builds definition cards from the top analyzed concepts.
func fallbackFlashcards(doc types.Document, analysis *types.Analysis) []types.Flashcard {
	var cards []types.Flashcard
	for _, c := range analysis.KeyConcepts {
		if len(cards) == 3 {
			break
		}
		front := fmt.Sprintf("What is %q about in %s?", c.Concept, doc.Title)
		cards = append(cards, types.Flashcard{
			ID:         stableID(doc.ID, string(types.MaterialFlashcards), front),
			DocumentID: doc.ID,
			Front:      front,
			Back:       fmt.Sprintf("%q appears %d times in the document; review the source text.", c.Concept, c.Frequency),
			Concept:    c.Concept,
		})
	}
	if len(cards) == 0 {
		front := "What is the main topic of this document?"
		cards = append(cards, types.Flashcard{
			ID:         stableID(doc.ID, string(types.MaterialFlashcards), front),
			DocumentID: doc.ID,
			Front:      front,
			Back:       doc.Title,
			Concept:    "General",
		})
	}
	return cards
}

// fallbackSummary builds a summary from the analysis instead of the model:
// key points become main points and top concepts become takeaways.
func fallbackSummary(res *types.ParseResult, analysis *types.Analysis) *types.Summary {
	var points []string
	for _, sec := range analysis.Sections {
		points = append(points, sec.KeyPoints...)
		if len(points) >= 5 {
			points = points[:5]
			break
		}
	}
	if len(points) == 0 {
		points = []string{"Content could not be summarized automatically."}
	}

	var takeaways []string
	for _, c := range analysis.KeyConcepts {
		if len(takeaways) == 5 {
			break
		}
		takeaways = append(takeaways, c.Concept)
	}
	if len(takeaways) == 0 {
		takeaways = []string{strings.ToLower(res.Document.Title)}
	}

	return &types.Summary{
		DocumentID: res.Document.ID,
		Overview: fmt.Sprintf("This document contains approximately %d words of educational content.",
			res.Document.WordCount),
		MainPoints:      points,
		KeyTakeaways:    takeaways,
		ComplexityLevel: analysis.Difficulty,
	}
}

// fallbackMindMap builds a shallow map from the top analyzed concepts.
func fallbackMindMap(doc types.Document, analysis *types.Analysis) *types.MindMap {
	central := doc.Title
	if central == "" {
		central = "Document Content"
	}

	var branches []types.MindMapNode
	for _, c := range analysis.KeyConcepts {
		if len(branches) == 3 {
			break
		}
		branches = append(branches, types.MindMapNode{
			Name:     c.Concept,
			Children: []types.MindMapNode{{Name: "Details"}},
		})
	}
	if len(branches) == 0 {
		branches = []types.MindMapNode{{Name: "Overview"}}
	}

	return &types.MindMap{
		DocumentID:   doc.ID,
		CentralTopic: central,
		Branches:     branches,
	}
}
