package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/deckforge/deckforge/internal/adapters/primary/httpserver"
	"github.com/deckforge/deckforge/internal/domain/entities"
	"github.com/deckforge/deckforge/internal/domain/services/orchestrator"
)

func init() {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run a local dev HTTP front door that accepts a DeckSpec and streams generation progress",
		Long: `serve is a development convenience, not a production API: POST a DeckSpec to
/generate and watch /ws for a ProgressEvent per completed slide, then the final DeckResult.
It is meant for iterating on a deck spec against the configured upstream without round-
tripping through the generate subcommand each time.`,
		RunE: runServe,
	}
	cmd.Flags().Int("port", 8420, "Port to listen on")
	cmd.Flags().String("host", "127.0.0.1", "Host to bind to")
	rootCmd.AddCommand(cmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := loggerFor(cmd, cfg)

	buildDeps := func(progressFn func(entities.SlideResult)) (orchestrator.Dependencies, error) {
		deps, _, err := buildOrchestratorDeps(cmd.Context(), cfg)
		if err != nil {
			return orchestrator.Dependencies{}, err
		}
		deps.Progress = progressFn
		return deps, nil
	}

	srv := httpserver.New(logger, buildDeps)

	port, _ := cmd.Flags().GetInt("port")
	host, _ := cmd.Flags().GetString("host")
	logger.Info("starting dev server on %s:%d", host, port)

	if err := srv.Start(cmd.Context(), port, host); err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}
