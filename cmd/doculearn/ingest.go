// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/doculearn/doculearn/internal/container"
	"github.com/doculearn/doculearn/internal/parse"
	"github.com/doculearn/doculearn/pkg/types"
)

const (
	defaultTimeout   = 60 * time.Second
	defaultDelay     = 1 * time.Second
	defaultUserAgent = "doculearn/0.1"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [files or URLs...]",
	Short: "Ingest documents into the library",
	Long: `Ingest parses source documents (PDF, DOCX, Markdown, plain text) into
extracted Markdown with heading-delimited sections, stores the text and
metadata under the library directory, and records each document in the
SQLite index. URLs are downloaded first. Already-ingested documents are
skipped.

PDF and DOCX conversion runs markitdown inside a container; a docker or
podman runtime must be available for those formats.`,
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().Duration("timeout", 0, "HTTP request timeout for URL downloads (default 60s)")
	ingestCmd.Flags().Duration("delay", 0, "delay between consecutive downloads (default 1s)")

	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("provide one or more document files or URLs")
	}

	timeout, _ := cmd.Flags().GetDuration("timeout")
	if timeout == 0 {
		timeout = defaultTimeout
	}
	delay, _ := cmd.Flags().GetDuration("delay")
	if delay == 0 {
		delay = defaultDelay
	}

	cfg := types.IngestConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   timeout,
			UserAgent: defaultUserAgent,
		},
		DownloadDelay: delay,
		LibraryDir:    libraryDir(cmd),
	}

	paths, err := resolveSources(cmd.Context(), args, cfg)
	if err != nil {
		return err
	}

	// PDF and DOCX need the markitdown container; native formats do not.
	// Detection failure only matters when such a file is in the batch, and
	// surfaces as a per-file error there.
	rt, err := container.Detect()
	if err != nil {
		rt = nil
	}

	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	result := parse.IngestBatch(paths, rt, cfg, os.Stdout)
	for _, res := range result.Results {
		// Skipped files whose metadata sidecar is gone come back as bare IDs;
		// don't overwrite an indexed record with one of those.
		if res.Document.Title == "" {
			continue
		}
		if err := store.SaveDocument(cmd.Context(), res.Document); err != nil {
			return err
		}
	}
	if result.HasFailures() {
		return fmt.Errorf("%d document(s) failed ingestion", result.Failed)
	}
	return nil
}

// resolveSources downloads URL arguments into the library's downloads
// directory and returns local paths for the whole batch, pausing between
// consecutive downloads.
func resolveSources(ctx context.Context, args []string, cfg types.IngestConfig) ([]string, error) {
	client := &http.Client{Timeout: cfg.Timeout}

	paths := make([]string, 0, len(args))
	downloaded := 0
	for _, arg := range args {
		if !strings.HasPrefix(arg, "http://") && !strings.HasPrefix(arg, "https://") {
			paths = append(paths, arg)
			continue
		}
		if downloaded > 0 {
			time.Sleep(cfg.DownloadDelay)
		}
		path, err := parse.Download(ctx, client, arg, cfg)
		if err != nil {
			return nil, fmt.Errorf("downloading %s: %w", arg, err)
		}
		paths = append(paths, path)
		downloaded++
	}
	return paths, nil
}
