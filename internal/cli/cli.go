// Package cli provides the command-line interface for lorakeep.
package cli

import (
	"context"
	"fmt"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/banned104/lorakeep/internal/config"
	"github.com/banned104/lorakeep/internal/storage"
	"github.com/banned104/lorakeep/internal/store"
	"github.com/banned104/lorakeep/pkg/version"
)

var rootCmd = &cobra.Command{
	Use:   "lorakeep",
	Short: "Local LoRA model metadata keeper",
	Long: `Local LoRA model metadata keeper

An offline-first CLI tool for fetching, caching, searching, and exporting
LoRA model metadata from a Civitai-style catalog, with a daily record of
what you fetched and a side vault for prompt notes.

All data lives in a local SQLite database under ~/.lorakeep.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(wordsCmd)
	rootCmd.AddCommand(tagsCmd)
	rootCmd.AddCommand(noteCmd)
	rootCmd.AddCommand(dailyCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(promptCmd)
	rootCmd.AddCommand(clearCmd)
}

// Execute runs the CLI with fang enhancements.
func Execute(ctx context.Context) error {
	return fang.Execute(
		ctx,
		rootCmd,
		fang.WithVersion(version.Display()),
		fang.WithCommit(version.Commit),
	)
}

// openStores loads config and opens the slot store plus the record
// store over it. Callers must Close the returned storage.Store.
func openStores() (*config.Config, *storage.Store, *store.RecordStore, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load config: %w", err)
	}

	paths := config.GetPaths(cfg)
	slots, err := storage.New(storage.DefaultConfig(paths.Database))
	if err != nil {
		return nil, nil, nil, fmt.Errorf("initialize storage: %w", err)
	}

	return cfg, slots, store.New(slots), nil
}
