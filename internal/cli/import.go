package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/banned104/lorakeep/internal/export"
	"github.com/banned104/lorakeep/internal/store"
)

var importReplace bool

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import models from an exported JSON file",
	Long: `Import models from a JSON file produced by a previous export, or any
of the shapes an export can take: a bare model array, a full cache
document, a single day's file from a daily export, or a daily summary.

Imported models are merged into the cache; a model that already exists
is replaced by the imported version. With --replace, the cache is
overwritten instead of merged.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().BoolVar(&importReplace, "replace", false, "replace the cache instead of merging")
}

func runImport(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read %s: %w", args[0], err)
	}

	imported, err := export.Import(data)
	if err != nil {
		return fmt.Errorf("import %s: %w", args[0], err)
	}

	_, slots, records, err := openStores()
	if err != nil {
		return err
	}
	defer func() { _ = slots.Close() }()

	if importReplace {
		if err := records.Save(imported); err != nil {
			return fmt.Errorf("save cache: %w", err)
		}
		fmt.Printf("Imported %d model(s), cache replaced.\n", len(imported))
		return nil
	}

	existing, _ := records.Load()
	merged := store.MergeRecords(existing, imported)
	if err := records.Save(merged); err != nil {
		return fmt.Errorf("save cache: %w", err)
	}

	fmt.Printf("Imported %d model(s), cache now holds %d.\n", len(imported), len(merged))
	return nil
}
