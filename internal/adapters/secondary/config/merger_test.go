package config

import (
	"os"
	"testing"

	"github.com/deckforge/deckforge/internal/domain/entities"
	"github.com/stretchr/testify/assert"
)

func TestConfigMerger_Merge(t *testing.T) {
	merger := NewConfigMerger()

	t.Run("merge with no configs returns defaults", func(t *testing.T) {
		result := merger.Merge()
		assert.NotNil(t, result)
		assert.Equal(t, 60, result.Upstream.PerMinuteLimit)
		assert.Equal(t, "default", result.Theme.DefaultID)
	})

	t.Run("merge single config", func(t *testing.T) {
		cfg := &entities.Config{
			Upstream: entities.UpstreamConfig{
				BaseURL:        "https://example.com",
				PerMinuteLimit: 45,
			},
			Theme: entities.ThemeConfig{
				DefaultID: "custom",
			},
		}

		result := merger.Merge(cfg)
		assert.Equal(t, "https://example.com", result.Upstream.BaseURL)
		assert.Equal(t, 45, result.Upstream.PerMinuteLimit)
		assert.Equal(t, "custom", result.Theme.DefaultID)
	})

	t.Run("merge multiple configs with precedence", func(t *testing.T) {
		base := &entities.Config{
			Upstream: entities.UpstreamConfig{
				BaseURL:        "https://base.example.com",
				PerMinuteLimit: 60,
			},
			Theme: entities.ThemeConfig{
				DefaultID: "default",
			},
			Layout: entities.LayoutConfig{
				ParallelismPerSlide: 4,
			},
		}

		override := &entities.Config{
			Upstream: entities.UpstreamConfig{
				BaseURL: "https://override.example.com",
				// PerMinuteLimit not specified, should keep base value
			},
			Theme: entities.ThemeConfig{
				DefaultID: "professional",
			},
		}

		result := merger.Merge(base, override)
		assert.Equal(t, "https://override.example.com", result.Upstream.BaseURL)
		assert.Equal(t, 60, result.Upstream.PerMinuteLimit) // From base
		assert.Equal(t, "professional", result.Theme.DefaultID)
		assert.Equal(t, 4, result.Layout.ParallelismPerSlide) // From base
	})

	t.Run("merge handles nil configs", func(t *testing.T) {
		base := &entities.Config{
			Upstream: entities.UpstreamConfig{
				BaseURL:        "https://base.example.com",
				PerMinuteLimit: 60,
			},
		}

		result := merger.Merge(base, nil)
		assert.Equal(t, "https://base.example.com", result.Upstream.BaseURL)
		assert.Equal(t, 60, result.Upstream.PerMinuteLimit)
	})

	t.Run("merge preserves slices", func(t *testing.T) {
		base := &entities.Config{
			Theme: entities.ThemeConfig{
				Builtins: []string{"default", "high-contrast"},
			},
		}

		override := &entities.Config{
			Theme: entities.ThemeConfig{
				DefaultID: "high-contrast",
			},
		}

		result := merger.Merge(base, override)
		assert.Equal(t, []string{"default", "high-contrast"}, result.Theme.Builtins)
		assert.Equal(t, "high-contrast", result.Theme.DefaultID)
	})
}

func TestConfigMerger_ApplyFlags(t *testing.T) {
	merger := NewConfigMerger()

	t.Run("apply CLI flag overrides", func(t *testing.T) {
		cfg := &entities.Config{
			Upstream: entities.UpstreamConfig{
				BaseURL: "https://base.example.com",
			},
			Theme: entities.ThemeConfig{
				DefaultID: "default",
			},
		}

		flags := map[string]interface{}{
			"upstream-base-url": "https://flag.example.com",
			"theme":             "professional",
			"max-slides":        50,
			"log-level":         "debug",
		}

		result := merger.ApplyFlags(cfg, flags)
		assert.Equal(t, "https://flag.example.com", result.Upstream.BaseURL)
		assert.Equal(t, "professional", result.Theme.DefaultID)
		assert.Equal(t, 50, result.Limits.MaxSlides)
		assert.Equal(t, "debug", result.Observability.LogLevel)
	})

	t.Run("ignore invalid flag values", func(t *testing.T) {
		cfg := &entities.Config{
			Upstream: entities.UpstreamConfig{
				BaseURL: "https://base.example.com",
			},
		}

		flags := map[string]interface{}{
			"upstream-base-url": "",
			"max-slides":        0,
		}

		result := merger.ApplyFlags(cfg, flags)
		assert.Equal(t, "https://base.example.com", result.Upstream.BaseURL)
	})

	t.Run("handle missing flags", func(t *testing.T) {
		cfg := &entities.Config{
			Upstream: entities.UpstreamConfig{
				BaseURL: "https://base.example.com",
			},
		}

		flags := map[string]interface{}{
			"other-flag": "value",
		}

		result := merger.ApplyFlags(cfg, flags)
		assert.Equal(t, "https://base.example.com", result.Upstream.BaseURL)
	})

	t.Run("handle wrong type flags", func(t *testing.T) {
		cfg := &entities.Config{
			Limits: entities.LimitsConfig{
				MaxSlides: 300,
			},
		}

		flags := map[string]interface{}{
			"max-slides": "not-a-number",
		}

		result := merger.ApplyFlags(cfg, flags)
		assert.Equal(t, 300, result.Limits.MaxSlides)
	})
}

func TestConfigMerger_ApplyEnvVars(t *testing.T) {
	merger := NewConfigMerger()

	t.Run("apply environment variable overrides", func(t *testing.T) {
		_ = os.Setenv("DECKFORGE_UPSTREAM_BASE_URL", "https://env.example.com")
		_ = os.Setenv("DECKFORGE_UPSTREAM_PER_MINUTE_LIMIT", "90")
		_ = os.Setenv("DECKFORGE_THEME_DEFAULT_ID", "env-theme")
		_ = os.Setenv("DECKFORGE_MAX_SLIDES", "200")
		_ = os.Setenv("DECKFORGE_LOG_LEVEL", "warn")
		defer func() {
			_ = os.Unsetenv("DECKFORGE_UPSTREAM_BASE_URL")
			_ = os.Unsetenv("DECKFORGE_UPSTREAM_PER_MINUTE_LIMIT")
			_ = os.Unsetenv("DECKFORGE_THEME_DEFAULT_ID")
			_ = os.Unsetenv("DECKFORGE_MAX_SLIDES")
			_ = os.Unsetenv("DECKFORGE_LOG_LEVEL")
		}()

		cfg := &entities.Config{
			Upstream: entities.UpstreamConfig{
				BaseURL:        "https://base.example.com",
				PerMinuteLimit: 60,
			},
			Theme: entities.ThemeConfig{
				DefaultID: "default",
			},
			Limits: entities.LimitsConfig{
				MaxSlides: 300,
			},
			Observability: entities.ObservabilityConfig{
				LogLevel: "info",
			},
		}

		result := merger.ApplyEnvVars(cfg)
		assert.Equal(t, "https://env.example.com", result.Upstream.BaseURL)
		assert.Equal(t, 90, result.Upstream.PerMinuteLimit)
		assert.Equal(t, "env-theme", result.Theme.DefaultID)
		assert.Equal(t, 200, result.Limits.MaxSlides)
		assert.Equal(t, "warn", result.Observability.LogLevel)
	})

	t.Run("ignore invalid environment values", func(t *testing.T) {
		_ = os.Setenv("DECKFORGE_UPSTREAM_PER_MINUTE_LIMIT", "not-a-number")
		_ = os.Setenv("DECKFORGE_MAX_SLIDES", "negative")
		defer func() {
			_ = os.Unsetenv("DECKFORGE_UPSTREAM_PER_MINUTE_LIMIT")
			_ = os.Unsetenv("DECKFORGE_MAX_SLIDES")
		}()

		cfg := &entities.Config{
			Upstream: entities.UpstreamConfig{
				PerMinuteLimit: 60,
			},
			Limits: entities.LimitsConfig{
				MaxSlides: 300,
			},
		}

		result := merger.ApplyEnvVars(cfg)
		assert.Equal(t, 60, result.Upstream.PerMinuteLimit)
		assert.Equal(t, 300, result.Limits.MaxSlides)
	})

	t.Run("no environment variables set", func(t *testing.T) {
		cfg := &entities.Config{
			Upstream: entities.UpstreamConfig{
				BaseURL:        "https://base.example.com",
				PerMinuteLimit: 60,
			},
		}

		result := merger.ApplyEnvVars(cfg)
		assert.Equal(t, "https://base.example.com", result.Upstream.BaseURL)
		assert.Equal(t, 60, result.Upstream.PerMinuteLimit)
	})
}

func TestDeepCopy(t *testing.T) {
	t.Run("deep copy preserves all fields", func(t *testing.T) {
		original := &entities.Config{
			Upstream: entities.UpstreamConfig{
				BaseURL:        "https://base.example.com",
				PerMinuteLimit: 60,
			},
			Theme: entities.ThemeConfig{
				DefaultID: "default",
				Builtins:  []string{"default", "high-contrast"},
			},
		}

		cp := deepCopy(original)
		assert.Equal(t, original.Upstream.BaseURL, cp.Upstream.BaseURL)
		assert.Equal(t, original.Upstream.PerMinuteLimit, cp.Upstream.PerMinuteLimit)
		assert.Equal(t, original.Theme.DefaultID, cp.Theme.DefaultID)
		assert.Equal(t, original.Theme.Builtins, cp.Theme.Builtins)
	})

	t.Run("deep copy creates independent slices", func(t *testing.T) {
		original := &entities.Config{
			Theme: entities.ThemeConfig{
				Builtins: []string{"default"},
			},
		}

		cp := deepCopy(original)

		original.Theme.Builtins[0] = "modified"

		assert.Equal(t, "default", cp.Theme.Builtins[0])
	})

	t.Run("deep copy handles nil config", func(t *testing.T) {
		cp := deepCopy(nil)
		assert.Nil(t, cp)
	})

	t.Run("deep copy handles nil slices", func(t *testing.T) {
		original := &entities.Config{
			Theme: entities.ThemeConfig{
				Builtins: nil,
			},
		}

		cp := deepCopy(original)
		assert.Nil(t, cp.Theme.Builtins)
	})
}
