package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/banned104/lorakeep/internal/promptvault"
)

var (
	clearPrompts bool
	clearAll     bool
	clearYes     bool
)

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Destroy the local cache",
	Long: `Destroy the local model cache, including notes and daily records.

With --prompts, the prompt vault is cleared instead. With --all, both
are cleared. Asks for confirmation unless --yes is given.`,
	RunE: runClear,
}

func init() {
	clearCmd.Flags().BoolVar(&clearPrompts, "prompts", false, "clear the prompt vault instead of the model cache")
	clearCmd.Flags().BoolVar(&clearAll, "all", false, "clear both the model cache and the prompt vault")
	clearCmd.Flags().BoolVarP(&clearYes, "yes", "y", false, "skip the confirmation prompt")
}

func runClear(cmd *cobra.Command, args []string) error {
	target := "the model cache"
	if clearAll {
		target = "the model cache and the prompt vault"
	} else if clearPrompts {
		target = "the prompt vault"
	}

	if !clearYes {
		fmt.Printf("This permanently deletes %s. Continue? [y/N] ", target)
		reader := bufio.NewReader(os.Stdin)
		answer, _ := reader.ReadString('\n')
		if !strings.EqualFold(strings.TrimSpace(answer), "y") {
			fmt.Println("Aborted.")
			return nil
		}
	}

	_, slots, records, err := openStores()
	if err != nil {
		return err
	}
	defer func() { _ = slots.Close() }()

	if clearAll || !clearPrompts {
		if err := records.Clear(); err != nil {
			return fmt.Errorf("clear model cache: %w", err)
		}
		fmt.Println("Model cache cleared.")
	}
	if clearAll || clearPrompts {
		if err := promptvault.New(slots).Clear(); err != nil {
			return fmt.Errorf("clear prompt vault: %w", err)
		}
		fmt.Println("Prompt vault cleared.")
	}

	return nil
}
