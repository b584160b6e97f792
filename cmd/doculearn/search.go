// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/doculearn/doculearn/internal/library"
	"github.com/doculearn/doculearn/pkg/types"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search study material with full-text search and filters",
	Long: `Search queries the library using FTS5 full-text search, structured
filters (kind, document, concept), or a combination of both.`,
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().String("query", "", "full-text search query")
	searchCmd.Flags().String("kind", "", "filter by material kind: quiz, flashcards, summary, mindmap")
	searchCmd.Flags().String("document", "", "filter by document ID")
	searchCmd.Flags().String("concept", "", "filter by concept")
	searchCmd.Flags().Int("limit", 0, "maximum results (0 = use default)")
	searchCmd.Flags().Bool("json", false, "output results as JSON")

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	opts := queryOptsFromFlags(cmd, args)
	if opts.IsEmpty() {
		return fmt.Errorf("query or filter required: provide a search query, --kind, --document, or --concept")
	}

	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	results, err := store.Search(cmd.Context(), opts)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatSearchOutput(results, jsonOutput)
}

func formatSearchOutput(results []library.SearchResult, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-4s  %-10s  %-50s  %-20s  %s\n",
		"Rank", "Kind", "Content", "Document", "Concept")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 100))

	for i, r := range results {
		fmt.Fprintf(os.Stdout, "%-4d  %-10s  %-50s  %-20s  %s\n",
			i+1, r.Kind, clip(r.Content, 50), clip(r.DocumentID, 20), clip(r.Concept, 20))
	}

	fmt.Fprintf(os.Stdout, "\n%d results\n", len(results))
	return nil
}

func queryOptsFromFlags(cmd *cobra.Command, args []string) library.QueryOptions {
	queryText, _ := cmd.Flags().GetString("query")
	if queryText == "" && len(args) > 0 {
		queryText = strings.Join(args, " ")
	}

	kind, _ := cmd.Flags().GetString("kind")
	docID, _ := cmd.Flags().GetString("document")
	concept, _ := cmd.Flags().GetString("concept")
	limit, _ := cmd.Flags().GetInt("limit")

	return library.QueryOptions{
		Query:      queryText,
		Kind:       types.MaterialKind(kind),
		DocumentID: docID,
		Concept:    concept,
		MaxResults: limit,
	}
}
