package cli

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/banned104/lorakeep/internal/search"
)

var wordsCopy bool

var wordsCmd = &cobra.Command{
	Use:   "words",
	Short: "List every trained word across the cache",
	Long: `List the deduplicated, sorted trained words of every cached model.

With --copy, the whole list is copied to the clipboard, comma-separated.`,
	RunE: runWords,
}

var tagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "List every tag across the cache",
	Long:  `List the deduplicated, sorted tags of every cached model.`,
	RunE:  runTags,
}

func init() {
	wordsCmd.Flags().BoolVar(&wordsCopy, "copy", false, "copy the word list to the clipboard")
}

func runWords(cmd *cobra.Command, args []string) error {
	_, slots, records, err := openStores()
	if err != nil {
		return err
	}
	defer func() { _ = slots.Close() }()

	cached, _ := records.Load()
	words := search.AllTrainedWords(cached)
	if len(words) == 0 {
		fmt.Println("No trained words in the cache.")
		return nil
	}

	for _, w := range words {
		fmt.Println(w)
	}

	if wordsCopy {
		if err := clipboard.WriteAll(strings.Join(words, ", ")); err != nil {
			return fmt.Errorf("copy to clipboard: %w", err)
		}
		fmt.Printf("\nCopied %d word(s) to clipboard.\n", len(words))
	}

	return nil
}

func runTags(cmd *cobra.Command, args []string) error {
	_, slots, records, err := openStores()
	if err != nil {
		return err
	}
	defer func() { _ = slots.Close() }()

	cached, _ := records.Load()
	tags := search.AllTags(cached)
	if len(tags) == 0 {
		fmt.Println("No tags in the cache.")
		return nil
	}

	for _, tag := range tags {
		fmt.Println(tag)
	}
	return nil
}
