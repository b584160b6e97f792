// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show library and learning statistics",
	RunE:  runStats,
}

func init() {
	statsCmd.Flags().String("learner", "default", "learner name the progress belongs to")
	statsCmd.Flags().Bool("json", false, "output stats as JSON")

	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	stats, err := store.Stats(cmd.Context(), learnerFlag(cmd), time.Now().UTC())
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(stats)
	}

	fmt.Printf("Documents:      %d\n", stats.Documents)
	fmt.Printf("Quiz questions: %d\n", stats.QuizQuestions)
	fmt.Printf("Flashcards:     %d\n", stats.Flashcards)
	fmt.Printf("Summaries:      %d\n", stats.Summaries)
	fmt.Printf("Mind maps:      %d\n", stats.MindMaps)
	fmt.Printf("Review items:   %d (%d due now)\n", stats.ReviewItems, stats.DueNow)
	fmt.Printf("Attempts:       %d", stats.Attempts)
	if stats.Attempts > 0 {
		fmt.Printf(" (average score %.1f%%)", stats.AverageScore)
	}
	fmt.Println()
	return nil
}
