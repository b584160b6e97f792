// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package analyze performs heuristic content analysis over parsed documents:
// key-concept extraction by phrase frequency, difficulty assessment from
// sentence length and word complexity, topic recognition against a subject
// lexicon, per-section breakdowns, and a readability score. The results
// shape the generation prompts and the study plan.
package analyze

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/doculearn/doculearn/pkg/types"
)

const (
	defaultMaxConcepts = 20

	// minSectionChars is the threshold below which a section is too short
	// to analyze.
	minSectionChars = 50

	// wordsPerQuestion drives the per-section quiz potential estimate.
	wordsPerQuestion = 50
)

// topicLexicon maps subject areas to indicator keywords. A subject is
// reported when its keywords appear more than three times in total.
var topicLexicon = map[string][]string{
	"biology":     {"cell", "organism", "evolution", "genetics", "ecosystem"},
	"chemistry":   {"molecule", "atom", "reaction", "compound", "element"},
	"physics":     {"energy", "force", "motion", "wave", "particle"},
	"mathematics": {"equation", "theorem", "proof", "function", "variable"},
	"history":     {"century", "war", "empire", "revolution", "civilization"},
	"literature":  {"author", "novel", "poem", "character", "theme"},
}

// stopwords are excluded from concept candidates.
var stopwords = map[string]bool{
	"the": true, "and": true, "that": true, "this": true, "with": true,
	"from": true, "they": true, "have": true, "been": true, "were": true,
	"which": true, "their": true, "there": true, "these": true, "those": true,
	"when": true, "where": true, "what": true, "will": true, "would": true,
	"could": true, "should": true, "into": true, "also": true, "such": true,
	"more": true, "most": true, "some": true, "other": true, "about": true,
	"than": true, "then": true, "them": true, "each": true, "both": true,
	"between": true, "because": true, "during": true, "through": true,
	"however": true, "therefore": true, "example": true,
}

// Analyzer analyzes parsed documents.
type Analyzer struct {
	maxConcepts int
}

// New builds an Analyzer from cfg, applying defaults for zero values.
func New(cfg types.AnalysisConfig) *Analyzer {
	max := cfg.MaxConcepts
	if max <= 0 {
		max = defaultMaxConcepts
	}
	return &Analyzer{maxConcepts: max}
}

// Analyze produces the full content analysis for one parsed document.
func (a *Analyzer) Analyze(res *types.ParseResult) *types.Analysis {
	return &types.Analysis{
		DocumentID:         res.Document.ID,
		KeyConcepts:        a.keyConcepts(res.Text),
		Difficulty:         assessDifficulty(res.Text),
		Topics:             identifyTopics(res.Text),
		Sections:           analyzeSections(res.Sections),
		Readability:        readability(res.Text),
		SuggestedQuizCount: suggestQuizCount(res.Text),
	}
}

// keyConcepts counts candidate phrases (frequent single words plus short
// capitalized phrases) and returns the most frequent ones with a normalized
// importance weight.
func (a *Analyzer) keyConcepts(text string) []types.Concept {
	counts := map[string]int{}
	for _, phrase := range conceptCandidates(text) {
		counts[phrase]++
	}

	phrases := make([]string, 0, len(counts))
	for phrase := range counts {
		phrases = append(phrases, phrase)
	}
	sort.Slice(phrases, func(i, j int) bool {
		if counts[phrases[i]] != counts[phrases[j]] {
			return counts[phrases[i]] > counts[phrases[j]]
		}
		return phrases[i] < phrases[j]
	})

	var concepts []types.Concept
	for _, phrase := range phrases {
		if len(concepts) == a.maxConcepts {
			break
		}
		count := counts[phrase]
		if count < 2 || len(phrase) <= 3 {
			continue
		}
		concepts = append(concepts, types.Concept{
			Concept:    phrase,
			Frequency:  count,
			Importance: math.Min(float64(count)*0.1, 1.0),
		})
	}
	return concepts
}

// conceptCandidates extracts phrase candidates: runs of up to three
// capitalized words, and standalone non-stopword terms. Candidates are
// lowercased so casing variants merge.
func conceptCandidates(text string) []string {
	words := strings.Fields(text)
	var candidates []string

	var run []string
	flushRun := func() {
		if len(run) > 0 && len(run) <= 3 {
			candidates = append(candidates, strings.ToLower(strings.Join(run, " ")))
		}
		run = run[:0]
	}

	for _, raw := range words {
		word := strings.TrimFunc(raw, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		if word == "" {
			flushRun()
			continue
		}

		if isCapitalized(word) {
			run = append(run, word)
		} else {
			flushRun()
		}

		lower := strings.ToLower(word)
		if len(lower) > 3 && !stopwords[lower] && isAlpha(word) {
			candidates = append(candidates, lower)
		}
	}
	flushRun()

	return candidates
}

// assessDifficulty grades the text on average sentence length and the share
// of long words.
func assessDifficulty(text string) types.Difficulty {
	sentences := splitSentences(text)
	words := strings.Fields(text)

	avgLen := 0.0
	if len(sentences) > 0 {
		avgLen = float64(len(words)) / float64(len(sentences))
	}

	longWords, total := 0, 0
	for _, raw := range words {
		word := strings.TrimFunc(raw, func(r rune) bool { return !unicode.IsLetter(r) })
		if word == "" || !isAlpha(word) {
			continue
		}
		total++
		if len(word) > 6 {
			longWords++
		}
	}
	ratio := 0.0
	if total > 0 {
		ratio = float64(longWords) / float64(total)
	}

	switch {
	case avgLen > 20 || ratio > 0.3:
		return types.DifficultyAdvanced
	case avgLen > 15 || ratio > 0.2:
		return types.DifficultyIntermediate
	default:
		return types.DifficultyBasic
	}
}

// identifyTopics matches the text against the subject lexicon. Results are
// title-cased and sorted for stable output.
func identifyTopics(text string) []string {
	lower := strings.ToLower(text)

	var topics []string
	for topic, keywords := range topicLexicon {
		hits := 0
		for _, kw := range keywords {
			hits += strings.Count(lower, kw)
		}
		if hits > 3 {
			topics = append(topics, strings.ToUpper(topic[:1])+topic[1:])
		}
	}
	sort.Strings(topics)
	return topics
}

// analyzeSections summarizes each section long enough to matter.
func analyzeSections(sections []types.Section) []types.SectionAnalysis {
	var out []types.SectionAnalysis
	for _, sec := range sections {
		content := strings.TrimSpace(sec.Content)
		if len(content) < minSectionChars {
			continue
		}
		wordCount := len(strings.Fields(content))
		title := sec.Title
		if title == "" {
			title = "Untitled"
		}
		out = append(out, types.SectionAnalysis{
			Title:         title,
			WordCount:     wordCount,
			KeyPoints:     keyPoints(content),
			QuizPotential: wordCount / wordsPerQuestion,
		})
	}
	return out
}

// keyPoints picks up to five representative sentences from the first ten:
// mid-length ones that do not open with a transition word.
func keyPoints(text string) []string {
	sentences := splitSentences(text)
	if len(sentences) > 10 {
		sentences = sentences[:10]
	}

	var points []string
	for _, sentence := range sentences {
		if len(points) == 5 {
			break
		}
		if len(sentence) <= 20 || len(sentence) >= 200 {
			continue
		}
		lower := strings.ToLower(sentence)
		if strings.HasPrefix(lower, "however") ||
			strings.HasPrefix(lower, "therefore") ||
			strings.HasPrefix(lower, "moreover") {
			continue
		}
		points = append(points, sentence)
	}
	return points
}

// readability maps average sentence length onto [0, 1]: ten words or fewer
// per sentence scores 1.0, thirty or more scores 0.0. Rounded to two decimals.
func readability(text string) float64 {
	words := strings.Fields(text)
	if len(words) == 0 {
		return 0.0
	}
	sentences := splitSentences(text)
	avgLen := float64(len(words))
	if len(sentences) > 0 {
		avgLen = float64(len(words)) / float64(len(sentences))
	}
	score := 1.0 - (avgLen-10.0)/20.0
	score = math.Max(0.0, math.Min(1.0, score))
	return math.Round(score*100) / 100
}

// suggestQuizCount scales the question count with document length.
func suggestQuizCount(text string) int {
	wordCount := len(strings.Fields(text))
	switch {
	case wordCount < 500:
		return 3
	case wordCount < 1500:
		return 5
	case wordCount < 3000:
		return 8
	default:
		return 10
	}
}

// splitSentences breaks text on terminal punctuation, dropping empties.
func splitSentences(text string) []string {
	var sentences []string
	var b strings.Builder
	flush := func() {
		if s := strings.TrimSpace(b.String()); s != "" {
			sentences = append(sentences, s)
		}
		b.Reset()
	}
	for _, r := range text {
		switch r {
		case '.', '!', '?':
			flush()
		default:
			b.WriteRune(r)
		}
	}
	flush()
	return sentences
}

func isCapitalized(word string) bool {
	r := []rune(word)
	return len(r) > 0 && unicode.IsUpper(r[0])
}

func isAlpha(word string) bool {
	for _, r := range word {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return len(word) > 0
}
