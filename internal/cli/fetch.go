package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/banned104/lorakeep/internal/catalog"
	"github.com/banned104/lorakeep/internal/models"
	"github.com/banned104/lorakeep/internal/store"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch <url-or-id>...",
	Short: "Fetch model metadata from the catalog into the local cache",
	Long: `Fetch one or more models from the catalog API and merge them into
the local cache.

Each argument is either a numeric model id or a model page URL
(e.g. https://civitai.com/models/12345/some-model). Already cached
models are replaced by the fetched version; everything else is kept.
Fetched models are also added to today's daily record.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runFetch,
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg, slots, records, err := openStores()
	if err != nil {
		return err
	}
	defer func() { _ = slots.Close() }()

	client := catalog.NewClient(catalog.Config{
		BaseURL:   cfg.Catalog.BaseURL,
		Token:     cfg.Catalog.Token,
		RateLimit: cfg.Catalog.RateLimit,
		Timeout:   cfg.Catalog.Timeout,
	})

	var bar *ProgressBar
	if len(args) > 1 {
		bar = NewProgressBar(len(args), 15)
	}

	fetched := make([]models.Record, 0, len(args))
	for _, arg := range args {
		id, ok := parseModelRef(arg)
		if !ok {
			return fmt.Errorf("cannot find a model id in %q", arg)
		}

		if bar != nil {
			bar.Update(len(fetched), fmt.Sprintf("fetching %d", id))
			ClearLine()
			fmt.Print(bar.Render())
		}

		record, err := client.FetchByID(cmd.Context(), id)
		if err != nil {
			if bar != nil {
				ClearLine()
			}
			return fmt.Errorf("fetch model %d: %w", id, err)
		}

		fetched = append(fetched, *record)
		if bar != nil {
			ClearLine()
		}
		fmt.Printf("  ✓ %d  %s (%s)\n", record.ID, record.Name, record.Creator.Username)
	}

	existing, _ := records.Load()
	merged := store.MergeRecords(existing, fetched)
	if err := records.Save(merged); err != nil {
		return fmt.Errorf("save cache: %w", err)
	}

	if err := records.RecordNewToday(fetched); err != nil {
		return fmt.Errorf("record daily fetch: %w", err)
	}

	fmt.Printf("\nFetched %d model(s), cache now holds %d.\n", len(fetched), len(merged))
	return nil
}

// parseModelRef accepts a bare numeric id or a catalog URL.
func parseModelRef(arg string) (int64, bool) {
	if id, err := strconv.ParseInt(arg, 10, 64); err == nil && id > 0 {
		return id, true
	}
	return catalog.ExtractModelID(arg)
}
