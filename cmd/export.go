package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/iksnae/youmind-session/internal"
	"github.com/iksnae/youmind-session/internal/export"
	"github.com/spf13/cobra"
)

var (
	format     string
	outputFile string
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the board catalog",
	Long: `Export the board catalog to json, jsonl, yaml or md.

Without --output the export is written to stdout.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		exporter, err := export.NewExporter(format)
		if err != nil {
			return err
		}

		return withCatalog(func(catalog *internal.Catalog) error {
			lib, err := export.BuildLibrary(catalog, time.Now())
			if err != nil {
				return err
			}

			if outputFile == "" {
				if err := exporter.Export(lib, cmd.OutOrStdout()); err != nil {
					return &internal.ExportError{Format: format, Path: "stdout", Err: err}
				}
				return nil
			}

			if err := os.MkdirAll(filepath.Dir(outputFile), 0755); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
			file, err := os.Create(outputFile)
			if err != nil {
				return &internal.ExportError{Format: format, Path: outputFile, Err: err}
			}
			if err := exporter.Export(lib, file); err != nil {
				_ = file.Close()
				return &internal.ExportError{Format: format, Path: outputFile, Err: err}
			}
			if err := file.Close(); err != nil {
				return &internal.ExportError{Format: format, Path: outputFile, Err: err}
			}

			internal.PrintSuccess(fmt.Sprintf("Export complete: %d board(s) written to %s", len(lib.Boards), outputFile))
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&format, "format", "f", "json", "Export format (json, jsonl, yaml, md)")
	exportCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default stdout)")
}
