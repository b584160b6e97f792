// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export study material to YAML or JSON",
	Long: `Export writes the full library (or a filtered subset) to
<library>/index/export.yaml or export.json. Supports the same filter
flags as search for partial exports.`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	exportCmd.Flags().String("query", "", "full-text search filter for partial export")
	exportCmd.Flags().String("kind", "", "filter by material kind for partial export")
	exportCmd.Flags().String("document", "", "filter by document ID for partial export")
	exportCmd.Flags().String("concept", "", "filter by concept for partial export")
	exportCmd.Flags().Int("limit", 0, "maximum units to export (0 = all)")

	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")

	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	opts := queryOptsFromFlags(cmd, args)
	indexDir := filepath.Join(libraryDir(cmd), "index")

	switch format {
	case "yaml", "":
		if err := store.ExportYAML(cmd.Context(), opts); err != nil {
			return err
		}
		fmt.Println("Exported to", filepath.Join(indexDir, "export.yaml"))
	case "json":
		if err := store.ExportJSON(cmd.Context(), opts); err != nil {
			return err
		}
		fmt.Println("Exported to", filepath.Join(indexDir, "export.json"))
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}

	return nil
}
