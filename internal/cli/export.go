package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/banned104/lorakeep/internal/config"
	"github.com/banned104/lorakeep/internal/export"
)

var (
	exportKind string
	exportOut  string
	exportFrom string
	exportTo   string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the cache to a file",
	Long: `Export the cache to a file under the exports directory (or --out).

Formats:
  json        one pretty-printed JSON document of the whole cache
  daily-json  zip archive with one JSON file per recorded day plus a summary
  daily-md    zip archive with one Markdown file per recorded day plus a summary

--from and --to bound the daily formats to a date range (inclusive).`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportKind, "kind", "json", "export format: json, daily-json, or daily-md")
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output file path (default under ~/.lorakeep/exports)")
	exportCmd.Flags().StringVar(&exportFrom, "from", "", "first day to include (YYYY-MM-DD)")
	exportCmd.Flags().StringVar(&exportTo, "to", "", "last day to include (YYYY-MM-DD)")
}

func exportKindFromFlag(flag string) (export.Kind, error) {
	switch flag {
	case "json":
		return export.KindAllCache, nil
	case "daily-json":
		return export.KindDailyJSON, nil
	case "daily-md", "daily-markdown":
		return export.KindDailyMarkdown, nil
	default:
		return "", fmt.Errorf("unknown export kind %q", flag)
	}
}

func runExport(cmd *cobra.Command, args []string) error {
	kind, err := exportKindFromFlag(exportKind)
	if err != nil {
		return err
	}

	cfg, slots, records, err := openStores()
	if err != nil {
		return err
	}
	defer func() { _ = slots.Close() }()

	var dateRange *export.DateRange
	if exportFrom != "" || exportTo != "" {
		dateRange = &export.DateRange{Start: exportFrom, End: exportTo}
	}

	exportCfg := export.Config{Kind: kind, DateRange: dateRange}
	if exportOut != "" {
		exportCfg.Filename = filepath.Base(exportOut)
	}

	outPath := exportOut
	if outPath == "" {
		filename := exportCfg.Filename
		if filename == "" {
			filename = export.DefaultFilename(kind)
		}
		outPath = filepath.Join(config.GetPaths(cfg).Exports, filename)
	}

	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", outPath, err)
	}
	defer func() { _ = f.Close() }()

	cached, _ := records.Load()
	result, err := export.NewExporter(records).Export(cached, exportCfg, f)
	if err != nil {
		_ = os.Remove(outPath)
		return err
	}

	fmt.Println(result.Message)
	fmt.Printf("Wrote %s (%d file(s) inside).\n", outPath, result.FileCount)
	return nil
}
