package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/iksnae/youmind-session/internal"
	"github.com/iksnae/youmind-session/internal/export"
	"github.com/spf13/cobra"
)

var (
	importFile    string
	importFormat  string
	importReplace bool
)

// importCmd represents the import command
var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import boards from a JSON or YAML file",
	Long: `Import boards from a catalog export or an older library.json file.

Boards whose id is already taken get a numeric suffix. With --replace the
catalog is emptied first.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if importFile == "" {
			return errors.New("--file is required")
		}

		fileFormat := importFormat
		if fileFormat == "" {
			var err error
			if fileFormat, err = export.FormatFromPath(importFile); err != nil {
				return err
			}
		}

		data, err := os.ReadFile(importFile)
		if err != nil {
			return &internal.StorageError{Path: importFile, Op: "read", Err: err}
		}
		lib, err := export.ParseLibrary(data, fileFormat)
		if err != nil {
			return err
		}

		return withCatalog(func(catalog *internal.Catalog) error {
			n, err := catalog.ImportBoards(lib.Boards, lib.ActiveBoardID, importReplace)
			if err != nil {
				return fmt.Errorf("import stopped after %d board(s): %w", n, err)
			}
			internal.PrintSuccess(fmt.Sprintf("Imported %d board(s) from %s", n, importFile))
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
	importCmd.Flags().StringVar(&importFile, "file", "", "File to import")
	importCmd.Flags().StringVar(&importFormat, "format", "", "File format: json or yaml (default from the extension)")
	importCmd.Flags().BoolVar(&importReplace, "replace", false, "Empty the catalog before importing")
}
