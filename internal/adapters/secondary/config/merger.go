package config

import (
	"os"
	"strconv"

	"github.com/deckforge/deckforge/internal/domain/entities"
	"github.com/deckforge/deckforge/internal/domain/ports"
)

// ConfigMerger implements the ConfigMerger interface
type ConfigMerger struct{}

// NewConfigMerger creates a new configuration merger
func NewConfigMerger() *ConfigMerger {
	return &ConfigMerger{}
}

// Merge merges multiple configurations with later configs taking precedence
func (m *ConfigMerger) Merge(configs ...*entities.Config) *entities.Config {
	if len(configs) == 0 {
		return GetDefaultConfig()
	}

	result := deepCopy(configs[0])

	for i := 1; i < len(configs); i++ {
		if configs[i] != nil {
			m.mergeInto(result, configs[i])
		}
	}

	return result
}

// ApplyFlags applies CLI flag overrides to a configuration
func (m *ConfigMerger) ApplyFlags(config *entities.Config, flags map[string]interface{}) *entities.Config {
	result := deepCopy(config)

	if baseURL, ok := flags["upstream-base-url"].(string); ok && baseURL != "" {
		result.Upstream.BaseURL = baseURL
	}
	if auth, ok := flags["upstream-auth"].(string); ok && auth != "" {
		result.Upstream.Auth = auth
	}
	if theme, ok := flags["theme"].(string); ok && theme != "" {
		result.Theme.DefaultID = theme
	}
	if template, ok := flags["layout-template"].(string); ok && template != "" {
		result.Layout.DefaultTemplate = template
	}
	if logLevel, ok := flags["log-level"].(string); ok && logLevel != "" {
		result.Observability.LogLevel = logLevel
	}
	if maxSlides, ok := flags["max-slides"].(int); ok && maxSlides > 0 {
		result.Limits.MaxSlides = maxSlides
	}

	return result
}

// ApplyEnvVars applies environment variable overrides to a configuration
func (m *ConfigMerger) ApplyEnvVars(config *entities.Config) *entities.Config {
	result := deepCopy(config)

	if baseURL := os.Getenv("DECKFORGE_UPSTREAM_BASE_URL"); baseURL != "" {
		result.Upstream.BaseURL = baseURL
	}
	if auth := os.Getenv("DECKFORGE_UPSTREAM_AUTH"); auth != "" {
		result.Upstream.Auth = auth
	}
	if limitStr := os.Getenv("DECKFORGE_UPSTREAM_PER_MINUTE_LIMIT"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil && limit > 0 {
			result.Upstream.PerMinuteLimit = limit
		}
	}

	if endpoint := os.Getenv("DECKFORGE_DIAGRAM_ENDPOINT"); endpoint != "" {
		result.Diagram.Endpoint = endpoint
	}

	if template := os.Getenv("DECKFORGE_LAYOUT_DEFAULT_TEMPLATE"); template != "" {
		result.Layout.DefaultTemplate = template
	}

	if themeID := os.Getenv("DECKFORGE_THEME_DEFAULT_ID"); themeID != "" {
		result.Theme.DefaultID = themeID
	}

	if maxSlidesStr := os.Getenv("DECKFORGE_MAX_SLIDES"); maxSlidesStr != "" {
		if maxSlides, err := strconv.Atoi(maxSlidesStr); err == nil && maxSlides > 0 {
			result.Limits.MaxSlides = maxSlides
		}
	}

	if logLevel := os.Getenv("DECKFORGE_LOG_LEVEL"); logLevel != "" {
		result.Observability.LogLevel = logLevel
	}

	return result
}

// mergeInto merges source configuration into target configuration
func (m *ConfigMerger) mergeInto(target, source *entities.Config) {
	if source.Upstream.BaseURL != "" {
		target.Upstream.BaseURL = source.Upstream.BaseURL
	}
	if source.Upstream.Auth != "" {
		target.Upstream.Auth = source.Upstream.Auth
	}
	if source.Upstream.PerMinuteLimit != 0 {
		target.Upstream.PerMinuteLimit = source.Upstream.PerMinuteLimit
	}
	if source.Upstream.PerDayLimit != 0 {
		target.Upstream.PerDayLimit = source.Upstream.PerDayLimit
	}
	if source.Upstream.MaxBatchSize != 0 {
		target.Upstream.MaxBatchSize = source.Upstream.MaxBatchSize
	}

	if source.Diagram.Endpoint != "" {
		target.Diagram.Endpoint = source.Diagram.Endpoint
	}
	if source.Diagram.TimeoutMs != 0 {
		target.Diagram.TimeoutMs = source.Diagram.TimeoutMs
	}
	if source.Diagram.CacheCapacity != 0 {
		target.Diagram.CacheCapacity = source.Diagram.CacheCapacity
	}

	if source.Layout.DefaultTemplate != "" {
		target.Layout.DefaultTemplate = source.Layout.DefaultTemplate
	}
	if source.Layout.StandardSlideWidth != 0 {
		target.Layout.StandardSlideWidth = source.Layout.StandardSlideWidth
	}
	if source.Layout.StandardSlideHeight != 0 {
		target.Layout.StandardSlideHeight = source.Layout.StandardSlideHeight
	}
	if source.Layout.ParallelismPerSlide != 0 {
		target.Layout.ParallelismPerSlide = source.Layout.ParallelismPerSlide
	}

	if source.Theme.DefaultID != "" {
		target.Theme.DefaultID = source.Theme.DefaultID
	}
	if len(source.Theme.Builtins) > 0 {
		target.Theme.Builtins = make([]string, len(source.Theme.Builtins))
		copy(target.Theme.Builtins, source.Theme.Builtins)
	}

	if source.Limits.MaxSlides != 0 {
		target.Limits.MaxSlides = source.Limits.MaxSlides
	}
	if source.Limits.MaxContentItemsPerSlide != 0 {
		target.Limits.MaxContentItemsPerSlide = source.Limits.MaxContentItemsPerSlide
	}
	if source.Limits.MaxTextLen != 0 {
		target.Limits.MaxTextLen = source.Limits.MaxTextLen
	}
	if source.Limits.MaxChartRows != 0 {
		target.Limits.MaxChartRows = source.Limits.MaxChartRows
	}
	if source.Limits.MaxDiagramSourceBytes != 0 {
		target.Limits.MaxDiagramSourceBytes = source.Limits.MaxDiagramSourceBytes
	}

	if source.Observability.LogLevel != "" {
		target.Observability.LogLevel = source.Observability.LogLevel
	}
	// Booleans can't distinguish "false" from "unset" under TOML, so this field always merges.
	target.Observability.EmitElementEvents = source.Observability.EmitElementEvents
}

// deepCopy creates a deep copy of a configuration
func deepCopy(src *entities.Config) *entities.Config {
	if src == nil {
		return nil
	}

	dst := &entities.Config{
		Upstream: entities.UpstreamConfig{
			BaseURL:        src.Upstream.BaseURL,
			Auth:           src.Upstream.Auth,
			PerMinuteLimit: src.Upstream.PerMinuteLimit,
			PerDayLimit:    src.Upstream.PerDayLimit,
			MaxBatchSize:   src.Upstream.MaxBatchSize,
		},
		Diagram: entities.DiagramConfig{
			Endpoint:      src.Diagram.Endpoint,
			TimeoutMs:     src.Diagram.TimeoutMs,
			CacheCapacity: src.Diagram.CacheCapacity,
		},
		Layout: entities.LayoutConfig{
			DefaultTemplate:     src.Layout.DefaultTemplate,
			StandardSlideWidth:  src.Layout.StandardSlideWidth,
			StandardSlideHeight: src.Layout.StandardSlideHeight,
			ParallelismPerSlide: src.Layout.ParallelismPerSlide,
		},
		Theme: entities.ThemeConfig{
			DefaultID: src.Theme.DefaultID,
		},
		Limits: entities.LimitsConfig{
			MaxSlides:               src.Limits.MaxSlides,
			MaxContentItemsPerSlide: src.Limits.MaxContentItemsPerSlide,
			MaxTextLen:              src.Limits.MaxTextLen,
			MaxChartRows:            src.Limits.MaxChartRows,
			MaxDiagramSourceBytes:   src.Limits.MaxDiagramSourceBytes,
		},
		Observability: entities.ObservabilityConfig{
			LogLevel:          src.Observability.LogLevel,
			EmitElementEvents: src.Observability.EmitElementEvents,
		},
	}

	if src.Theme.Builtins != nil {
		dst.Theme.Builtins = make([]string, len(src.Theme.Builtins))
		copy(dst.Theme.Builtins, src.Theme.Builtins)
	}

	return dst
}

// Ensure ConfigMerger implements ports.ConfigMerger
var _ ports.ConfigMerger = (*ConfigMerger)(nil)
