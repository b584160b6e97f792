// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/doculearn/doculearn/internal/analyze"
	"github.com/doculearn/doculearn/internal/generate"
	"github.com/doculearn/doculearn/internal/parse"
	"github.com/doculearn/doculearn/pkg/types"
)

var generateCmd = &cobra.Command{
	Use:   "generate [document-ids...]",
	Short: "Generate study material from analyzed documents",
	Long: `Generate produces a quiz, flashcards, a summary, and a mind map for each
document using an AI backend, and stores the material in the library.
Documents without a stored analysis are analyzed on the fly.

When a material kind fails generation after retries, a deterministic
fallback derived from the analysis is stored instead, with a warning.

The OpenAI API key is read from .secrets/openai-api-key, the config file,
or DOCULEARN_API_KEY.`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().String("model", "", "AI model identifier (default gpt-4)")
	generateCmd.Flags().Int("quiz-count", 0, "quiz question count (default: analysis suggestion)")
	generateCmd.Flags().Int("flashcard-count", 0, "flashcard count (default 10)")

	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("provide one or more document IDs")
	}

	model, _ := cmd.Flags().GetString("model")
	if model == "" {
		model = viper.GetString("generation.model")
	}
	quizCount, _ := cmd.Flags().GetInt("quiz-count")
	flashcardCount, _ := cmd.Flags().GetInt("flashcard-count")

	apiKey := secretDefault("openai-api-key", viper.GetString("api_key"))
	if apiKey == "" {
		return fmt.Errorf("no OpenAI API key: add .secrets/openai-api-key or set DOCULEARN_API_KEY")
	}

	cfg := types.GenerationConfig{
		AIConfig: types.AIConfig{
			Model:      model,
			APIKey:     apiKey,
			MaxRetries: viper.GetInt("generation.max_retries"),
		},
		QuizCount:      quizCount,
		FlashcardCount: flashcardCount,
	}
	backend := generate.NewOpenAIBackend(cfg.AIConfig)

	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	dir := libraryDir(cmd)
	analyzer := analyze.New(types.AnalysisConfig{})

	for _, id := range args {
		res, err := parse.LoadDocument(dir, id)
		if err != nil {
			return err
		}

		analysis, err := store.Analysis(cmd.Context(), id)
		if err != nil {
			analysis = analyzer.Analyze(res)
			if err := store.SaveAnalysis(cmd.Context(), analysis); err != nil {
				return err
			}
		}

		fmt.Printf("generating: %s\n", id)
		material := generate.GenerateAll(cmd.Context(), backend, res, analysis, cfg, os.Stderr)
		if err := store.SaveMaterial(cmd.Context(), material); err != nil {
			return err
		}

		fmt.Printf("generated:  %s (%d questions, %d flashcards, summary, mind map)\n",
			id, len(material.Quiz), len(material.Flashcards))
	}
	return nil
}
