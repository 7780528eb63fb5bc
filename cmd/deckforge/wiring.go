package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/deckforge/deckforge/internal/adapters/secondary/config"
	"github.com/deckforge/deckforge/internal/adapters/secondary/diagramhttp"
	"github.com/deckforge/deckforge/internal/adapters/secondary/slideapi"
	"github.com/deckforge/deckforge/internal/adapters/secondary/themestore"
	"github.com/deckforge/deckforge/internal/domain/entities"
	"github.com/deckforge/deckforge/internal/domain/ports"
	"github.com/deckforge/deckforge/internal/domain/services"
	"github.com/deckforge/deckforge/internal/domain/services/diagram"
	"github.com/deckforge/deckforge/internal/domain/services/orchestrator"
	"github.com/deckforge/deckforge/internal/domain/services/theme"
)

// loadConfig resolves the full configuration hierarchy (defaults → global → local →
// env vars → CLI flags, each taking precedence over the last) via the domain-level
// ConfigService, then applies an explicit --config file as one further local-style layer.
func loadConfig(cmd *cobra.Command) (*entities.Config, error) {
	ctx := cmd.Context()
	loader := config.NewTOMLLoader()
	merger := config.NewConfigMerger()
	svc := services.NewConfigService(loader, merger)

	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("resolving working directory: %w", err)
	}

	merged, err := svc.LoadConfig(ctx, wd, flagOverrides(cmd))
	if err != nil {
		return nil, err
	}

	if explicit, _ := cmd.Flags().GetString("config"); explicit != "" {
		var overrideCfg entities.Config
		if _, err := toml.DecodeFile(explicit, &overrideCfg); err != nil {
			return nil, fmt.Errorf("loading %s: %w", explicit, err)
		}
		merged = merger.Merge(merged, &overrideCfg)
		merged = merger.ApplyFlags(merged, flagOverrides(cmd))
		if err := svc.ValidateConfig(merged); err != nil {
			return nil, fmt.Errorf("invalid configuration: %w", err)
		}
	}

	return merged, nil
}

func flagOverrides(cmd *cobra.Command) map[string]interface{} {
	flags := map[string]interface{}{}
	if v, _ := cmd.Flags().GetString("upstream-base-url"); v != "" {
		flags["upstream-base-url"] = v
	}
	if v, _ := cmd.Flags().GetString("upstream-auth"); v != "" {
		flags["upstream-auth"] = v
	}
	if v, _ := cmd.Flags().GetString("log-level"); v != "" {
		flags["log-level"] = v
	}
	return flags
}

// loggerFor builds a Logger from the resolved config and --verbose flag.
func loggerFor(cmd *cobra.Command, cfg *entities.Config) *Logger {
	verbose, _ := cmd.Flags().GetBool("verbose")
	return newLogger(verbose, cfg.Observability.GetLogLevel())
}

// themeStoreDir returns the directory custom themes persist under, alongside the global
// config file.
func themeStoreDir() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".config", "deckforge", "themes")
}

// buildOrchestratorDeps wires every secondary adapter into an orchestrator.Dependencies:
// the HTTP slide API client, the caching diagram renderer, and a theme registry seeded
// with built-ins plus any custom themes persisted on disk.
func buildOrchestratorDeps(ctx context.Context, cfg *entities.Config) (orchestrator.Dependencies, ports.ThemeStore, error) {
	clock := ports.NewRealTimeProvider()
	jitterer := ports.NewRealJitterer(time.Now().UnixNano())

	slides := slideapi.New(slideapi.Config{
		BaseURL:        cfg.Upstream.BaseURL,
		Token:          cfg.Upstream.Auth,
		PerMinuteLimit: cfg.Upstream.GetPerMinuteLimit(),
		PerDayLimit:    cfg.Upstream.PerDayLimit,
		MaxBatchSize:   cfg.Upstream.GetMaxBatchSize(),
	}, clock, jitterer)

	registry, err := theme.NewRegistry(theme.Builtins())
	if err != nil {
		return orchestrator.Dependencies{}, nil, fmt.Errorf("seeding theme registry: %w", err)
	}

	store := themestore.New(themeStoreDir(), nil)
	if err := loadCustomThemes(ctx, store, registry); err != nil {
		return orchestrator.Dependencies{}, nil, err
	}
	if cfg.Theme.DefaultID != "" {
		if err := registry.SetActive(cfg.Theme.DefaultID); err != nil {
			return orchestrator.Dependencies{}, nil, fmt.Errorf("setting active theme %q: %w", cfg.Theme.DefaultID, err)
		}
	}

	var diagramRenderer orchestrator.DiagramRenderer
	if cfg.Diagram.Endpoint != "" {
		endpoint := diagramhttp.New(diagramhttp.Config{
			BaseURL: cfg.Diagram.Endpoint,
			APIKey:  cfg.Upstream.Auth,
			Timeout: cfg.Diagram.GetTimeout(),
		})
		diagramRenderer = diagram.NewRenderer(endpoint, jitterer, clock, cfg.Diagram.GetCacheCapacity(), 10*time.Minute)
	}

	slideW, slideH := cfg.Layout.GetStandardSlideSize()
	deps := orchestrator.Dependencies{
		Slides:         slides,
		Themes:         registry,
		Diagrams:       diagramRenderer,
		Limits:         cfg.Limits,
		SlideWidth:     slideW,
		SlideHeight:    slideH,
		Concurrency:    cfg.Layout.GetParallelismPerSlide(),
		PerCallTimeout: cfg.Diagram.GetTimeout(),
		Clock:          clock,
	}
	return deps, store, nil
}

// loadCustomThemes registers every theme persisted in store into registry. A storage
// directory that does not exist yet (first run) is not an error.
func loadCustomThemes(ctx context.Context, store ports.ThemeStore, registry ports.ThemeRegistry) error {
	ids, err := store.List(ctx)
	if err != nil {
		return fmt.Errorf("listing custom themes: %w", err)
	}
	for _, id := range ids {
		th, err := store.Load(ctx, id)
		if err != nil {
			return fmt.Errorf("loading custom theme %q: %w", id, err)
		}
		if _, err := registry.Register(th); err != nil {
			return fmt.Errorf("registering custom theme %q: %w", id, err)
		}
	}
	return nil
}
