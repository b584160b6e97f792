// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/doculearn/doculearn/internal/analyze"
	"github.com/doculearn/doculearn/internal/parse"
	"github.com/doculearn/doculearn/pkg/types"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [document-ids...]",
	Short: "Analyze ingested documents",
	Long: `Analyze extracts key concepts, assesses difficulty and readability,
identifies topics, and suggests a quiz question count for each document.
The analysis is stored in the library and feeds the generation prompts.

With --all, every ingested document is analyzed.`,
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().Bool("all", false, "analyze every ingested document")
	analyzeCmd.Flags().Int("max-concepts", 0, "maximum key concepts to report (default 20)")

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	all, _ := cmd.Flags().GetBool("all")
	maxConcepts, _ := cmd.Flags().GetInt("max-concepts")

	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	ids := args
	if all {
		docs, err := store.Documents(cmd.Context())
		if err != nil {
			return err
		}
		ids = ids[:0]
		for _, doc := range docs {
			ids = append(ids, doc.ID)
		}
	}
	if len(ids) == 0 {
		return fmt.Errorf("provide one or more document IDs, or --all")
	}

	analyzer := analyze.New(types.AnalysisConfig{MaxConcepts: maxConcepts})
	dir := libraryDir(cmd)

	failed := 0
	for _, id := range ids {
		res, err := parse.LoadDocument(dir, id)
		if err != nil {
			fmt.Printf("failed:   %s (%v)\n", id, err)
			failed++
			continue
		}

		analysis := analyzer.Analyze(res)
		if err := store.SaveAnalysis(cmd.Context(), analysis); err != nil {
			return err
		}

		fmt.Printf("analyzed: %s (%s, %d concepts", id,
			strings.ToLower(string(analysis.Difficulty)), len(analysis.KeyConcepts))
		if len(analysis.Topics) > 0 {
			fmt.Printf(", topics: %s", strings.Join(analysis.Topics, ", "))
		}
		fmt.Printf(", %d questions suggested)\n", analysis.SuggestedQuizCount)
	}

	if failed > 0 {
		return fmt.Errorf("%d document(s) failed analysis", failed)
	}
	return nil
}
