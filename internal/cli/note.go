package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

var noteClear bool

var noteCmd = &cobra.Command{
	Use:   "note <model-id> [text...]",
	Short: "Attach a note to a cached model",
	Long: `Set, replace, or clear the free-text note on a cached model.

The note travels with the model through exports and backups. Passing
--clear removes the note; otherwise the remaining arguments become the
new note text.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runNote,
}

func init() {
	noteCmd.Flags().BoolVar(&noteClear, "clear", false, "remove the note instead of setting one")
}

func runNote(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid model id %q", args[0])
	}

	text := strings.TrimSpace(strings.Join(args[1:], " "))
	if noteClear {
		text = ""
	} else if text == "" {
		return fmt.Errorf("no note text given (use --clear to remove a note)")
	}

	_, slots, records, err := openStores()
	if err != nil {
		return err
	}
	defer func() { _ = slots.Close() }()

	if !records.UpdateNote(id, text) {
		return fmt.Errorf("model %d not in cache", id)
	}

	if text == "" {
		fmt.Printf("Cleared note on model %d.\n", id)
	} else {
		fmt.Printf("Noted model %d.\n", id)
	}
	return nil
}
