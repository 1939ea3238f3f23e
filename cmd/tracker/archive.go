// Export and import commands move the corpus through JSONL snapshots.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/tracker/pkg/types"
)

var (
	exportDir string
	importDir string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the corpus as JSONL snapshot files",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Replace the corpus from JSONL snapshot files",
	Long: `Import replaces the store contents with the snapshot files found
in --dir. Malformed or unresolvable lines are skipped with a warning.`,
	Args: cobra.NoArgs,
	RunE: runImport,
}

func init() {
	exportCmd.Flags().StringVar(&exportDir, "dir", "", "target directory (required)")
	_ = exportCmd.MarkFlagRequired("dir")

	importCmd.Flags().StringVar(&importDir, "dir", "", "source directory (required)")
	_ = importCmd.MarkFlagRequired("dir")
}

func runExport(cmd *cobra.Command, args []string) error {
	storage, err := attachStorage()
	if err != nil {
		return err
	}
	defer storage.Detach()

	archiver, ok := storage.(types.Archiver)
	if !ok {
		return fmt.Errorf("backend does not support snapshots")
	}
	if err := archiver.ExportJSONL(exportDir); err != nil {
		return fmt.Errorf("export: %w", err)
	}

	fmt.Println("Exported snapshot to", exportDir)
	return nil
}

func runImport(cmd *cobra.Command, args []string) error {
	storage, err := attachStorage()
	if err != nil {
		return err
	}
	defer storage.Detach()

	archiver, ok := storage.(types.Archiver)
	if !ok {
		return fmt.Errorf("backend does not support snapshots")
	}
	if err := archiver.ImportJSONL(importDir); err != nil {
		return fmt.Errorf("import: %w", err)
	}

	fmt.Println("Imported snapshot from", importDir)
	return nil
}
