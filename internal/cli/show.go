package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/banned104/lorakeep/internal/export"
	"github.com/banned104/lorakeep/internal/models"
)

var (
	showRender bool
	showCopy   bool
)

var showCmd = &cobra.Command{
	Use:   "show <model-id>",
	Short: "Show detailed information about a cached model",
	Long: `Display a cached model's metadata: creator, tags, trained words,
versions, files, and your note.

With --render, the model card is rendered as styled Markdown in the
terminal. With --copy, the model's trained words are copied to the
clipboard, comma-separated, ready to paste into a prompt.`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func init() {
	showCmd.Flags().BoolVar(&showRender, "render", false, "render the model card as styled Markdown")
	showCmd.Flags().BoolVar(&showCopy, "copy", false, "copy trained words to the clipboard")
}

func runShow(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid model id %q", args[0])
	}

	_, slots, records, err := openStores()
	if err != nil {
		return err
	}
	defer func() { _ = slots.Close() }()

	cached, _ := records.Load()
	var record *models.Record
	for i := range cached {
		if cached[i].ID == id {
			record = &cached[i]
			break
		}
	}
	if record == nil {
		return fmt.Errorf("model %d not in cache", id)
	}

	if showCopy {
		words := record.TrainedWords()
		if len(words) == 0 {
			fmt.Println("Model has no trained words.")
		} else {
			if err := clipboard.WriteAll(strings.Join(words, ", ")); err != nil {
				return fmt.Errorf("copy to clipboard: %w", err)
			}
			fmt.Printf("Copied %d trained word(s) to clipboard.\n", len(words))
		}
	}

	if showRender {
		md := export.RecordMarkdown(record, nil)
		renderer, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(80),
		)
		if err != nil {
			return fmt.Errorf("create renderer: %w", err)
		}
		out, err := renderer.Render(md)
		if err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		fmt.Print(out)
		return nil
	}

	printRecordPlain(record)
	return nil
}

func printRecordPlain(r *models.Record) {
	fmt.Printf("Model: %s\n", r.Name)
	fmt.Printf("ID: %d\n", r.ID)
	fmt.Printf("Type: %s\n", r.Type)
	fmt.Printf("Creator: %s\n", r.Creator.Username)

	if len(r.Tags) > 0 {
		fmt.Printf("\nTags: %s\n", strings.Join(r.Tags, ", "))
	}

	if words := r.TrainedWords(); len(words) > 0 {
		fmt.Printf("\nTrained words: %s\n", strings.Join(words, ", "))
	}

	if len(r.Versions) > 0 {
		fmt.Printf("\nVersions:\n")
		for _, v := range r.Versions {
			fmt.Printf("  %s (%d file(s), %d image(s))\n", v.Name, len(v.Files), len(v.Images))
		}
	}

	if r.Note != "" {
		fmt.Printf("\nNote:\n  %s\n", r.Note)
		if r.NoteTimestamp > 0 {
			fmt.Printf("  (updated %s)\n", formatTimeSince(time.UnixMilli(r.NoteTimestamp)))
		}
	}
}
