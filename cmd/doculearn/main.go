// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the doculearn CLI: document ingestion,
// content analysis, study-material generation, spaced-repetition study, and
// library queries.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/doculearn/doculearn/internal/library"
	"github.com/doculearn/doculearn/internal/secrets"
	"github.com/doculearn/doculearn/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// secretDefault returns the secret value for key if it exists, or fallback otherwise.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the doculearn CLI.
var rootCmd = &cobra.Command{
	Use:   "doculearn",
	Short: "Turn documents into study material with spaced repetition",
	Long: `doculearn ingests documents (PDF, DOCX, Markdown, plain text), analyzes
their content, and generates quizzes, flashcards, summaries, and mind maps
with an AI backend. Review scheduling follows the SM-2 spaced-repetition
algorithm.

Each pipeline stage is a subcommand: ingest, analyze, generate, study,
search, export, stats, and remind.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./doculearn.yaml or ~/.config/doculearn/config.yaml)")
	rootCmd.PersistentFlags().String("library-dir", "", "base directory for the library (default: ./library)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("doculearn")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "doculearn"))
		}
	}

	viper.SetEnvPrefix("DOCULEARN")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// libraryDir resolves the library base directory: flag, then config file,
// then ./library.
func libraryDir(cmd *cobra.Command) string {
	dir, _ := cmd.Flags().GetString("library-dir")
	if dir == "" {
		dir = viper.GetString("library.library_dir")
	}
	if dir == "" {
		dir = "library"
	}
	return dir
}

// openStore opens the SQLite library for the command's library directory.
func openStore(cmd *cobra.Command) (*library.Store, error) {
	return library.NewStore(types.LibraryConfig{
		LibraryDir: libraryDir(cmd),
		MaxResults: viper.GetInt("library.max_results"),
	})
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
