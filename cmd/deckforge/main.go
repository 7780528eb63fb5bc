package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	// Version is set during build.
	Version = "dev"

	// BuildDate is set during build.
	BuildDate = "unknown"
)

// rootCmd is the base command.
var rootCmd = &cobra.Command{
	Use:   "deckforge",
	Short: "Generate slide decks against a presentation API from a declarative deck spec",
	Long: `deckforge drives an upstream presentation service through a single generate()
call: validate a declarative deck spec, resolve its theme, lay out each slide's content,
and create the deck, slide by slide and element by element, reporting partial failures
without aborting the whole deck.`,
	Version: Version,
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		fmt.Fprintln(os.Stderr, "\nReceived interrupt signal, shutting down...")
		cancel()
	}()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.SetVersionTemplate(`{{with .Name}}{{printf "%s " .}}{{end}}{{printf "version %s" .Version}}
Build Date: ` + BuildDate + `
`)

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringP("config", "c", "", "Config file (default: ~/.config/deckforge/config.toml)")
	rootCmd.PersistentFlags().String("upstream-base-url", "", "Presentation API base URL (overrides config)")
	rootCmd.PersistentFlags().String("upstream-auth", "", "Presentation API bearer token (overrides config)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error (overrides config)")
}
