package entities

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Config is the complete application configuration, loaded from TOML by
// internal/adapters/secondary/config and validated top to bottom before use.
type Config struct {
	Upstream      UpstreamConfig      `toml:"upstream"`
	Diagram       DiagramConfig       `toml:"diagram"`
	Layout        LayoutConfig        `toml:"layout"`
	Theme         ThemeConfig         `toml:"theme"`
	Limits        LimitsConfig        `toml:"limits"`
	Observability ObservabilityConfig `toml:"observability"`
}

// Validate validates the entire configuration, section by section.
func (c *Config) Validate() error {
	if err := c.Upstream.Validate(); err != nil {
		return fmt.Errorf("upstream config: %w", err)
	}
	if err := c.Diagram.Validate(); err != nil {
		return fmt.Errorf("diagram config: %w", err)
	}
	if err := c.Layout.Validate(); err != nil {
		return fmt.Errorf("layout config: %w", err)
	}
	if err := c.Theme.Validate(); err != nil {
		return fmt.Errorf("theme config: %w", err)
	}
	if err := c.Limits.Validate(); err != nil {
		return fmt.Errorf("limits config: %w", err)
	}
	if err := c.Observability.Validate(); err != nil {
		return fmt.Errorf("observability config: %w", err)
	}
	return nil
}

// UpstreamConfig describes the presentation API the Slide API Client talks to.
type UpstreamConfig struct {
	BaseURL        string `toml:"base_url"`
	Auth           string `toml:"auth"`
	PerMinuteLimit int    `toml:"per_minute_limit"`
	PerDayLimit    int    `toml:"per_day_limit"`
	MaxBatchSize   int    `toml:"max_batch_size"`
}

// Validate validates upstream configuration.
func (u UpstreamConfig) Validate() error {
	if u.BaseURL == "" {
		return errors.New("base url cannot be empty")
	}
	if !strings.HasPrefix(u.BaseURL, "http://") && !strings.HasPrefix(u.BaseURL, "https://") {
		return fmt.Errorf("base url must start with http:// or https://: %s", u.BaseURL)
	}
	if u.PerMinuteLimit < 0 {
		return errors.New("per-minute limit must be non-negative")
	}
	if u.PerDayLimit < 0 {
		return errors.New("per-day limit must be non-negative")
	}
	if u.MaxBatchSize < 0 {
		return errors.New("max batch size must be non-negative")
	}
	return nil
}

// GetPerMinuteLimit returns the per-minute request cap with a conservative default.
func (u UpstreamConfig) GetPerMinuteLimit() int {
	if u.PerMinuteLimit <= 0 {
		return 60
	}
	return u.PerMinuteLimit
}

// GetMaxBatchSize returns the max batch size with default.
func (u UpstreamConfig) GetMaxBatchSize() int {
	if u.MaxBatchSize <= 0 {
		return 20
	}
	return u.MaxBatchSize
}

// DiagramConfig describes the textual-diagram rendering endpoint.
type DiagramConfig struct {
	Endpoint      string `toml:"endpoint"`
	TimeoutMs     int    `toml:"timeout_ms"`
	CacheCapacity int    `toml:"cache_capacity"`
}

// Validate validates diagram configuration.
func (d DiagramConfig) Validate() error {
	if d.Endpoint != "" && !strings.HasPrefix(d.Endpoint, "http://") && !strings.HasPrefix(d.Endpoint, "https://") {
		return fmt.Errorf("diagram endpoint must start with http:// or https://: %s", d.Endpoint)
	}
	if d.TimeoutMs < 0 {
		return errors.New("diagram timeout must be non-negative")
	}
	if d.CacheCapacity < 0 {
		return errors.New("diagram cache capacity must be non-negative")
	}
	return nil
}

// GetTimeout returns the render timeout as a duration, defaulting to 10s.
func (d DiagramConfig) GetTimeout() time.Duration {
	if d.TimeoutMs <= 0 {
		return 10 * time.Second
	}
	return time.Duration(d.TimeoutMs) * time.Millisecond
}

// GetCacheCapacity returns the cache capacity with default (256 entries).
func (d DiagramConfig) GetCacheCapacity() int {
	if d.CacheCapacity <= 0 {
		return 256
	}
	return d.CacheCapacity
}

// LayoutConfig describes the default layout behaviour.
type LayoutConfig struct {
	DefaultTemplate     string  `toml:"default_template"`
	StandardSlideWidth  float64 `toml:"standard_slide_width"`
	StandardSlideHeight float64 `toml:"standard_slide_height"`
	ParallelismPerSlide int     `toml:"parallelism_per_slide"`
}

// Validate validates layout configuration.
func (l LayoutConfig) Validate() error {
	if l.StandardSlideWidth < 0 {
		return errors.New("standard slide width must be non-negative")
	}
	if l.StandardSlideHeight < 0 {
		return errors.New("standard slide height must be non-negative")
	}
	if l.ParallelismPerSlide < 0 {
		return errors.New("parallelism per slide must be non-negative")
	}
	return nil
}

// GetDefaultTemplate returns the default template name, defaulting to single-column.
func (l LayoutConfig) GetDefaultTemplate() string {
	if l.DefaultTemplate == "" {
		return string(TemplateSingleColumn)
	}
	return l.DefaultTemplate
}

// GetStandardSlideSize returns the configured slide size, falling back to the 960x540 reference.
func (l LayoutConfig) GetStandardSlideSize() (float64, float64) {
	w, h := l.StandardSlideWidth, l.StandardSlideHeight
	if w <= 0 {
		w = StandardSlideWidth
	}
	if h <= 0 {
		h = StandardSlideHeight
	}
	return w, h
}

// GetParallelismPerSlide returns the per-slide element insert fan-out, defaulting to 4.
func (l LayoutConfig) GetParallelismPerSlide() int {
	if l.ParallelismPerSlide <= 0 {
		return 4
	}
	return l.ParallelismPerSlide
}

// ThemeConfig describes theme seeding at startup.
type ThemeConfig struct {
	Builtins  []string `toml:"builtins"`
	DefaultID string   `toml:"default_id"`
}

// Validate validates theme configuration.
func (t ThemeConfig) Validate() error {
	seen := make(map[string]bool, len(t.Builtins))
	for _, name := range t.Builtins {
		if name == "" {
			return errors.New("builtin theme name cannot be empty")
		}
		if seen[name] {
			return fmt.Errorf("duplicate builtin theme name: %s", name)
		}
		seen[name] = true
	}
	return nil
}

// LimitsConfig caps the structural size of a single generate() call.
type LimitsConfig struct {
	MaxSlides              int `toml:"max_slides"`
	MaxContentItemsPerSlide int `toml:"max_content_items_per_slide"`
	MaxTextLen             int `toml:"max_text_len"`
	MaxChartRows           int `toml:"max_chart_rows"`
	MaxDiagramSourceBytes  int `toml:"max_diagram_source_bytes"`
}

// Validate validates limits configuration.
func (l LimitsConfig) Validate() error {
	if l.MaxSlides < 0 {
		return errors.New("max slides must be non-negative")
	}
	if l.MaxContentItemsPerSlide < 0 {
		return errors.New("max content items per slide must be non-negative")
	}
	if l.MaxTextLen < 0 {
		return errors.New("max text length must be non-negative")
	}
	if l.MaxChartRows < 0 {
		return errors.New("max chart rows must be non-negative")
	}
	if l.MaxDiagramSourceBytes < 0 {
		return errors.New("max diagram source bytes must be non-negative")
	}
	return nil
}

// Defaults matching §6's closed configuration set.
const (
	DefaultMaxSlides              = 300
	DefaultMaxContentItemsPerSlide = 50
	DefaultMaxTextLen             = 50000
	DefaultMaxChartRows           = 10000
	DefaultMaxDiagramSourceBytes  = 16384
)

// GetMaxSlides returns the configured slide cap, defaulting to 300.
func (l LimitsConfig) GetMaxSlides() int {
	if l.MaxSlides <= 0 {
		return DefaultMaxSlides
	}
	return l.MaxSlides
}

// GetMaxContentItemsPerSlide returns the configured per-slide item cap, defaulting to 50.
func (l LimitsConfig) GetMaxContentItemsPerSlide() int {
	if l.MaxContentItemsPerSlide <= 0 {
		return DefaultMaxContentItemsPerSlide
	}
	return l.MaxContentItemsPerSlide
}

// GetMaxTextLen returns the configured text length cap, defaulting to 50000.
func (l LimitsConfig) GetMaxTextLen() int {
	if l.MaxTextLen <= 0 {
		return DefaultMaxTextLen
	}
	return l.MaxTextLen
}

// GetMaxChartRows returns the configured chart row cap, defaulting to 10000.
func (l LimitsConfig) GetMaxChartRows() int {
	if l.MaxChartRows <= 0 {
		return DefaultMaxChartRows
	}
	return l.MaxChartRows
}

// GetMaxDiagramSourceBytes returns the configured diagram source cap, defaulting to 16384.
func (l LimitsConfig) GetMaxDiagramSourceBytes() int {
	if l.MaxDiagramSourceBytes <= 0 {
		return DefaultMaxDiagramSourceBytes
	}
	return l.MaxDiagramSourceBytes
}

// LogLevel represents a logging level.
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// ObservabilityConfig controls logging verbosity and per-element event emission.
type ObservabilityConfig struct {
	LogLevel          string `toml:"log_level"`
	EmitElementEvents bool   `toml:"emit_element_events"`
}

// Validate validates observability configuration.
func (o ObservabilityConfig) Validate() error {
	switch LogLevel(o.LogLevel) {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError, "":
		return nil
	default:
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", o.LogLevel)
	}
}

// GetLogLevel returns the configured log level, defaulting to info.
func (o ObservabilityConfig) GetLogLevel() LogLevel {
	if o.LogLevel == "" {
		return LogLevelInfo
	}
	return LogLevel(o.LogLevel)
}
