package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var listStats bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all cached models",
	Long: `List every model in the local cache.

Shows model id, name, type, creator, and version count. With --stats,
prints cache statistics instead of the model list.`,
	RunE: runList,
}

func init() {
	listCmd.Flags().BoolVar(&listStats, "stats", false, "show cache statistics instead of the model list")
}

func runList(cmd *cobra.Command, args []string) error {
	_, slots, records, err := openStores()
	if err != nil {
		return err
	}
	defer func() { _ = slots.Close() }()

	if listStats {
		stats := records.Stats()
		fmt.Printf("Cache present: %v\n", stats.HasCache)
		fmt.Printf("Models:        %d\n", stats.RecordCount)
		if stats.LastUpdated.UnixMilli() > 0 {
			fmt.Printf("Last updated:  %s\n", formatTimeSince(stats.LastUpdated))
		}
		return nil
	}

	cached, ok := records.Load()
	if !ok || len(cached) == 0 {
		fmt.Println("No models cached.")
		fmt.Println("\nUse 'lorakeep fetch <url-or-id>' to fetch one.")
		return nil
	}

	fmt.Printf("MODELS (%d cached)\n", len(cached))
	fmt.Println("──────────────────────────────────────────────────")

	for _, r := range cached {
		noteMark := ""
		if r.Note != "" {
			noteMark = "  ✎"
		}
		fmt.Printf("  %d  %s%s\n", r.ID, r.Name, noteMark)
		fmt.Printf("    %s by %s, %d version(s)\n", r.Type, r.Creator.Username, len(r.Versions))
	}

	return nil
}

// formatTimeSince formats a duration since a time in a human-readable way.
func formatTimeSince(t time.Time) string {
	diff := time.Since(t)

	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		mins := int(diff.Minutes())
		if mins == 1 {
			return "1 minute ago"
		}
		return fmt.Sprintf("%d minutes ago", mins)
	case diff < 24*time.Hour:
		hours := int(diff.Hours())
		if hours == 1 {
			return "1 hour ago"
		}
		return fmt.Sprintf("%d hours ago", hours)
	case diff < 7*24*time.Hour:
		days := int(diff.Hours() / 24)
		if days == 1 {
			return "1 day ago"
		}
		return fmt.Sprintf("%d days ago", days)
	default:
		return t.Format("2006-01-02")
	}
}
