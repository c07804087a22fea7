// Lorakeep - Local LoRA model metadata keeper
//
// An offline-first CLI tool for fetching, caching, searching, and
// exporting LoRA model metadata from a Civitai-style catalog.
package main

import (
	"context"
	stdlog "log"
	"os"
	"os/signal"
	"syscall"

	"github.com/banned104/lorakeep/internal/cli"
	"github.com/banned104/lorakeep/internal/config"
	"github.com/banned104/lorakeep/internal/log"
	"github.com/banned104/lorakeep/pkg/version"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	// Set up file logging early so storage errors land in the log
	cfg, err := config.Load()
	if err != nil {
		os.Exit(1)
	}
	if err := log.Init(config.GetPaths(cfg).Logs); err != nil {
		os.Exit(1)
	}
	defer func() { _ = log.Close() }()

	// goes to the log file only, per the redirect in log.Init
	stdlog.Printf("starting %s", version.Info())

	if err := cli.Execute(ctx); err != nil {
		os.Exit(1)
	}
}
