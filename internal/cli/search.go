package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/banned104/lorakeep/internal/export"
	"github.com/banned104/lorakeep/internal/models"
	"github.com/banned104/lorakeep/internal/search"
)

var (
	searchName     string
	searchDesc     string
	searchNote     string
	searchCreator  string
	searchTags     []string
	searchWords    []string
	searchPrompt   string
	searchNegative string
	searchSuggest  bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the cached models",
	Long: `Search the cached models.

With a bare query, every text field is matched: name, description,
note, tags, trained words, image prompts, and file names. With field
flags, only the named fields are matched and all given conditions must
hold; list flags (--tag, --word) match if any value does.

--prompt and --negative must both match within the same example image.

With --suggest, prints completion suggestions for the query prefix
instead of full results (needs at least 2 characters).`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringVar(&searchName, "name", "", "match model name")
	searchCmd.Flags().StringVar(&searchDesc, "description", "", "match model description")
	searchCmd.Flags().StringVar(&searchNote, "note", "", "match your note text")
	searchCmd.Flags().StringVar(&searchCreator, "creator", "", "match creator username")
	searchCmd.Flags().StringSliceVar(&searchTags, "tag", nil, "match any of the given tags")
	searchCmd.Flags().StringSliceVar(&searchWords, "word", nil, "match any of the given trained words")
	searchCmd.Flags().StringVar(&searchPrompt, "prompt", "", "match an example image's prompt")
	searchCmd.Flags().StringVar(&searchNegative, "negative", "", "match an example image's negative prompt")
	searchCmd.Flags().BoolVar(&searchSuggest, "suggest", false, "print completion suggestions for the query")
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := ""
	if len(args) > 0 {
		query = args[0]
	}

	_, slots, records, err := openStores()
	if err != nil {
		return err
	}
	defer func() { _ = slots.Close() }()

	svc := search.New(records)

	if searchSuggest {
		suggestions := svc.Suggestions(query, 10)
		if len(suggestions) == 0 {
			fmt.Println("No suggestions.")
			return nil
		}
		for _, s := range suggestions {
			fmt.Println(s)
		}
		return nil
	}

	criteria := search.Criteria{
		Name:            searchName,
		Description:     searchDesc,
		Note:            searchNote,
		CreatorUsername: searchCreator,
		Tags:            searchTags,
		TrainedWords:    searchWords,
		Prompt:          searchPrompt,
		NegativePrompt:  searchNegative,
	}

	var hits []models.Record
	if criteria.Empty() {
		hits = svc.FreeText(query)
	} else {
		hits = svc.Structured(criteria)
	}

	if len(hits) == 0 {
		fmt.Println("No models matched.")
		return nil
	}

	fmt.Printf("MATCHES (%d)\n", len(hits))
	fmt.Println("──────────────────────────────────────────────────")

	for _, r := range hits {
		fmt.Printf("  %d  %s (%s)\n", r.ID, r.Name, r.Creator.Username)
		printMatchSnippets(&r, query)
	}

	return nil
}

// printMatchSnippets shows where a free-text query landed inside the
// record's description or note.
func printMatchSnippets(r *models.Record, query string) {
	if strings.TrimSpace(query) == "" {
		return
	}

	for _, content := range []string{export.CleanHTML(r.Description), r.Note} {
		snippets := search.ExtractSnippets(content, query, 1)
		for _, s := range snippets {
			if len(s.Highlights) == 0 {
				continue
			}
			fmt.Printf("    %s\n", search.HighlightText(s))
		}
	}
}
