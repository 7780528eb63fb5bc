package entities

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConfig_Validate(t *testing.T) {
	t.Run("valid config", func(t *testing.T) {
		config := &Config{
			Upstream: UpstreamConfig{
				BaseURL:        "https://slides.example.com",
				PerMinuteLimit: 60,
				PerDayLimit:    5000,
				MaxBatchSize:   20,
			},
			Diagram: DiagramConfig{
				Endpoint:      "https://render.example.com",
				TimeoutMs:     10000,
				CacheCapacity: 256,
			},
			Layout: LayoutConfig{
				DefaultTemplate:     "single-column",
				StandardSlideWidth:  960,
				StandardSlideHeight: 540,
				ParallelismPerSlide: 4,
			},
			Theme: ThemeConfig{
				Builtins:  []string{"light", "dark"},
				DefaultID: "light",
			},
			Limits: LimitsConfig{
				MaxSlides:               300,
				MaxContentItemsPerSlide: 50,
				MaxTextLen:              50000,
				MaxChartRows:            10000,
				MaxDiagramSourceBytes:   16384,
			},
			Observability: ObservabilityConfig{
				LogLevel: "info",
			},
		}

		err := config.Validate()
		assert.NoError(t, err)
	})

	t.Run("invalid upstream config", func(t *testing.T) {
		config := &Config{
			Upstream: UpstreamConfig{BaseURL: "not-a-url"},
		}

		err := config.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "upstream config")
	})

	t.Run("invalid observability config", func(t *testing.T) {
		config := &Config{
			Upstream:      UpstreamConfig{BaseURL: "https://slides.example.com"},
			Observability: ObservabilityConfig{LogLevel: "verbose"},
		}

		err := config.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "observability config")
	})
}

func TestUpstreamConfig_Validate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		config := UpstreamConfig{BaseURL: "https://slides.example.com"}
		assert.NoError(t, config.Validate())
	})

	t.Run("empty base url", func(t *testing.T) {
		config := UpstreamConfig{}
		err := config.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "base url cannot be empty")
	})

	t.Run("missing scheme", func(t *testing.T) {
		config := UpstreamConfig{BaseURL: "slides.example.com"}
		err := config.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "must start with http:// or https://")
	})

	t.Run("negative limits", func(t *testing.T) {
		tests := []UpstreamConfig{
			{BaseURL: "https://x", PerMinuteLimit: -1},
			{BaseURL: "https://x", PerDayLimit: -1},
			{BaseURL: "https://x", MaxBatchSize: -1},
		}
		for _, tt := range tests {
			assert.Error(t, tt.Validate())
		}
	})
}

func TestUpstreamConfig_Defaults(t *testing.T) {
	config := UpstreamConfig{}
	assert.Equal(t, 60, config.GetPerMinuteLimit())
	assert.Equal(t, 20, config.GetMaxBatchSize())

	config = UpstreamConfig{PerMinuteLimit: 120, MaxBatchSize: 50}
	assert.Equal(t, 120, config.GetPerMinuteLimit())
	assert.Equal(t, 50, config.GetMaxBatchSize())
}

func TestDiagramConfig_Validate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		config := DiagramConfig{Endpoint: "https://render.example.com", TimeoutMs: 5000}
		assert.NoError(t, config.Validate())
	})

	t.Run("empty endpoint is valid", func(t *testing.T) {
		config := DiagramConfig{}
		assert.NoError(t, config.Validate())
	})

	t.Run("invalid endpoint scheme", func(t *testing.T) {
		config := DiagramConfig{Endpoint: "ftp://render.example.com"}
		err := config.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "must start with http:// or https://")
	})

	t.Run("negative timeout", func(t *testing.T) {
		config := DiagramConfig{TimeoutMs: -1}
		assert.Error(t, config.Validate())
	})

	t.Run("negative cache capacity", func(t *testing.T) {
		config := DiagramConfig{CacheCapacity: -1}
		assert.Error(t, config.Validate())
	})
}

func TestDiagramConfig_Defaults(t *testing.T) {
	config := DiagramConfig{}
	assert.Equal(t, 10*time.Second, config.GetTimeout())
	assert.Equal(t, 256, config.GetCacheCapacity())

	config = DiagramConfig{TimeoutMs: 2500, CacheCapacity: 64}
	assert.Equal(t, 2500*time.Millisecond, config.GetTimeout())
	assert.Equal(t, 64, config.GetCacheCapacity())
}

func TestLayoutConfig_Validate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		config := LayoutConfig{StandardSlideWidth: 960, StandardSlideHeight: 540, ParallelismPerSlide: 4}
		assert.NoError(t, config.Validate())
	})

	t.Run("negative dimensions rejected", func(t *testing.T) {
		assert.Error(t, LayoutConfig{StandardSlideWidth: -1}.Validate())
		assert.Error(t, LayoutConfig{StandardSlideHeight: -1}.Validate())
		assert.Error(t, LayoutConfig{ParallelismPerSlide: -1}.Validate())
	})
}

func TestLayoutConfig_Defaults(t *testing.T) {
	config := LayoutConfig{}
	assert.Equal(t, string(TemplateSingleColumn), config.GetDefaultTemplate())
	w, h := config.GetStandardSlideSize()
	assert.Equal(t, StandardSlideWidth, w)
	assert.Equal(t, StandardSlideHeight, h)
	assert.Equal(t, 4, config.GetParallelismPerSlide())

	config = LayoutConfig{DefaultTemplate: "dashboard", StandardSlideWidth: 1280, StandardSlideHeight: 720, ParallelismPerSlide: 8}
	assert.Equal(t, "dashboard", config.GetDefaultTemplate())
	w, h = config.GetStandardSlideSize()
	assert.Equal(t, 1280.0, w)
	assert.Equal(t, 720.0, h)
	assert.Equal(t, 8, config.GetParallelismPerSlide())
}

func TestThemeConfig_Validate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		config := ThemeConfig{Builtins: []string{"light", "dark"}, DefaultID: "light"}
		assert.NoError(t, config.Validate())
	})

	t.Run("empty builtin name", func(t *testing.T) {
		config := ThemeConfig{Builtins: []string{""}}
		err := config.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "cannot be empty")
	})

	t.Run("duplicate builtin name", func(t *testing.T) {
		config := ThemeConfig{Builtins: []string{"light", "light"}}
		err := config.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "duplicate")
	})
}

func TestLimitsConfig_Validate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		config := LimitsConfig{MaxSlides: 300, MaxContentItemsPerSlide: 50, MaxTextLen: 50000, MaxChartRows: 10000, MaxDiagramSourceBytes: 16384}
		assert.NoError(t, config.Validate())
	})

	t.Run("negative values rejected", func(t *testing.T) {
		assert.Error(t, LimitsConfig{MaxSlides: -1}.Validate())
		assert.Error(t, LimitsConfig{MaxContentItemsPerSlide: -1}.Validate())
		assert.Error(t, LimitsConfig{MaxTextLen: -1}.Validate())
		assert.Error(t, LimitsConfig{MaxChartRows: -1}.Validate())
		assert.Error(t, LimitsConfig{MaxDiagramSourceBytes: -1}.Validate())
	})
}

func TestLimitsConfig_Defaults(t *testing.T) {
	config := LimitsConfig{}
	assert.Equal(t, DefaultMaxSlides, config.GetMaxSlides())
	assert.Equal(t, DefaultMaxContentItemsPerSlide, config.GetMaxContentItemsPerSlide())
	assert.Equal(t, DefaultMaxTextLen, config.GetMaxTextLen())
	assert.Equal(t, DefaultMaxChartRows, config.GetMaxChartRows())
	assert.Equal(t, DefaultMaxDiagramSourceBytes, config.GetMaxDiagramSourceBytes())

	config = LimitsConfig{MaxSlides: 10, MaxContentItemsPerSlide: 5, MaxTextLen: 100, MaxChartRows: 50, MaxDiagramSourceBytes: 1024}
	assert.Equal(t, 10, config.GetMaxSlides())
	assert.Equal(t, 5, config.GetMaxContentItemsPerSlide())
	assert.Equal(t, 100, config.GetMaxTextLen())
	assert.Equal(t, 50, config.GetMaxChartRows())
	assert.Equal(t, 1024, config.GetMaxDiagramSourceBytes())
}

func TestObservabilityConfig_Validate(t *testing.T) {
	t.Run("valid levels", func(t *testing.T) {
		for _, level := range []string{"debug", "info", "warn", "error", ""} {
			config := ObservabilityConfig{LogLevel: level}
			assert.NoError(t, config.Validate(), "level %q should be valid", level)
		}
	})

	t.Run("invalid level", func(t *testing.T) {
		config := ObservabilityConfig{LogLevel: "trace"}
		err := config.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
	})
}

func TestObservabilityConfig_GetLogLevel(t *testing.T) {
	assert.Equal(t, LogLevelInfo, ObservabilityConfig{}.GetLogLevel())
	assert.Equal(t, LogLevelDebug, ObservabilityConfig{LogLevel: "debug"}.GetLogLevel())
}
