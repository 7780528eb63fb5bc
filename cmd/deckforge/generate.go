package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/deckforge/deckforge/internal/domain/entities"
	"github.com/deckforge/deckforge/internal/domain/services/orchestrator"
)

func init() {
	cmd := &cobra.Command{
		Use:   "generate <deck-spec-file>",
		Short: "Generate a deck against the configured presentation API from a deck spec file",
		Long: `generate reads a declarative deck spec (YAML or JSON), validates it, resolves its
theme, and creates the deck upstream slide by slide and element by element. Partial element
or slide failures are reported in the result rather than aborting the rest of the deck.`,
		Args: cobra.ExactArgs(1),
		RunE: runGenerate,
	}
	cmd.Flags().StringP("output", "o", "", "Write the JSON result to this file instead of stdout")
	cmd.Flags().Bool("json", false, "Print the result as JSON even on success (default: human summary)")
	rootCmd.AddCommand(cmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := loggerFor(cmd, cfg)

	spec, err := readDeckSpec(args[0])
	if err != nil {
		return fmt.Errorf("reading deck spec: %w", err)
	}

	logger.Info("loaded deck spec %q with %d slide(s)", spec.Title, len(spec.Slides))

	deps, _, err := buildOrchestratorDeps(cmd.Context(), cfg)
	if err != nil {
		return fmt.Errorf("wiring dependencies: %w", err)
	}
	deps.Progress = func(s entities.SlideResult) {
		logger.Debug("slide %d (%s) created with %d element(s)", s.Index, s.SlideID, len(s.Elements))
	}

	result := orchestrator.Generate(cmd.Context(), spec, deps)

	asJSON, _ := cmd.Flags().GetBool("json")
	outputPath, _ := cmd.Flags().GetString("output")
	if outputPath != "" {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding result: %w", err)
		}
		if err := os.WriteFile(outputPath, data, 0o644); err != nil {
			return fmt.Errorf("writing result to %s: %w", outputPath, err)
		}
		logger.Info("wrote result to %s", outputPath)
	} else if asJSON {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding result: %w", err)
		}
		fmt.Println(string(data))
	} else {
		printHumanSummary(result)
	}

	if !result.OK {
		return fmt.Errorf("generation failed: %s", result.Error)
	}
	return nil
}

func readDeckSpec(path string) (entities.DeckSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return entities.DeckSpec{}, err
	}

	var spec entities.DeckSpec
	if strings.HasSuffix(path, ".json") {
		if err := json.Unmarshal(data, &spec); err != nil {
			return entities.DeckSpec{}, fmt.Errorf("parsing JSON: %w", err)
		}
		return spec, nil
	}
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return entities.DeckSpec{}, fmt.Errorf("parsing YAML: %w", err)
	}
	return spec, nil
}

func printHumanSummary(result entities.DeckResult) {
	if result.Cancelled {
		fmt.Println("Generation cancelled.")
	}
	if !result.OK {
		fmt.Printf("Generation failed: %s\n", result.Error)
	} else {
		fmt.Printf("Deck %s created (%d slides)\n", result.DeckID, len(result.Slides))
		if result.URL != "" {
			fmt.Printf("URL: %s\n", result.URL)
		}
	}
	for _, w := range result.Warnings {
		fmt.Printf("warning: %s\n", w)
	}
	for _, s := range result.Slides {
		failed := 0
		for _, e := range s.Elements {
			if e.Error != "" {
				failed++
			}
		}
		if failed > 0 {
			fmt.Printf("  slide %d: %d/%d element(s) failed\n", s.Index, failed, len(s.Elements))
		}
	}
}
