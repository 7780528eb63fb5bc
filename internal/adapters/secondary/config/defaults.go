package config

import (
	"os"
	"strconv"

	"github.com/deckforge/deckforge/internal/domain/entities"
)

// GetDefaultConfig returns the default configuration with environment overrides applied.
func GetDefaultConfig() *entities.Config {
	cfg := &entities.Config{
		Upstream: entities.UpstreamConfig{
			BaseURL:        getEnvOrDefault("DECKFORGE_UPSTREAM_BASE_URL", "https://api.example-slides.com"),
			Auth:           getEnvOrDefault("DECKFORGE_UPSTREAM_AUTH", ""),
			PerMinuteLimit: getEnvIntOrDefault("DECKFORGE_UPSTREAM_PER_MINUTE_LIMIT", 60),
			PerDayLimit:    getEnvIntOrDefault("DECKFORGE_UPSTREAM_PER_DAY_LIMIT", 0),
			MaxBatchSize:   getEnvIntOrDefault("DECKFORGE_UPSTREAM_MAX_BATCH_SIZE", 20),
		},
		Diagram: entities.DiagramConfig{
			Endpoint:      getEnvOrDefault("DECKFORGE_DIAGRAM_ENDPOINT", ""),
			TimeoutMs:     getEnvIntOrDefault("DECKFORGE_DIAGRAM_TIMEOUT_MS", 10000),
			CacheCapacity: getEnvIntOrDefault("DECKFORGE_DIAGRAM_CACHE_CAPACITY", 256),
		},
		Layout: entities.LayoutConfig{
			DefaultTemplate:     getEnvOrDefault("DECKFORGE_LAYOUT_DEFAULT_TEMPLATE", string(entities.TemplateSingleColumn)),
			StandardSlideWidth:  entities.StandardSlideWidth,
			StandardSlideHeight: entities.StandardSlideHeight,
			ParallelismPerSlide: getEnvIntOrDefault("DECKFORGE_LAYOUT_PARALLELISM_PER_SLIDE", 4),
		},
		Theme: entities.ThemeConfig{
			Builtins:  []string{},
			DefaultID: getEnvOrDefault("DECKFORGE_THEME_DEFAULT_ID", "default"),
		},
		Limits: entities.LimitsConfig{
			MaxSlides:               entities.DefaultMaxSlides,
			MaxContentItemsPerSlide: entities.DefaultMaxContentItemsPerSlide,
			MaxTextLen:              entities.DefaultMaxTextLen,
			MaxChartRows:            entities.DefaultMaxChartRows,
			MaxDiagramSourceBytes:   entities.DefaultMaxDiagramSourceBytes,
		},
		Observability: entities.ObservabilityConfig{
			LogLevel:          getEnvOrDefault("DECKFORGE_LOG_LEVEL", string(entities.LogLevelInfo)),
			EmitElementEvents: getEnvBoolOrDefault("DECKFORGE_EMIT_ELEMENT_EVENTS", false),
		},
	}

	return cfg
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
