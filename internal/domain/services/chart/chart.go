// Package chart implements the Chart Builder: data coercion, theme-palette series colours,
// and dispatch to either a structured chart-spec descriptor or a rasterised image depending
// on upstream capability.
package chart

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/deckforge/deckforge/internal/domain/entities"
	"github.com/deckforge/deckforge/internal/domain/services/theme"
)

// Spec is the coerced, palette-applied chart descriptor handed to the Slide API Client when
// it accepts structured charts natively.
type Spec struct {
	ChartType entities.ChartKind
	Headers   []string
	Rows      [][]any
	Options   map[string]any
}

// Build validates and coerces a chart content item into a Spec. It assumes item.ChartType
// and the basic row/column arity have already passed through the Validator; Build still
// re-checks the closed set and header presence since it may be called directly by code
// paths that bypass the Validator in tests.
func Build(item entities.ContentItem, active entities.Theme) (Spec, error) {
	if !entities.ValidChartKinds[item.ChartType] {
		return Spec{}, entities.NewDeckError(entities.EChartType, fmt.Sprintf("unknown chart type %q", item.ChartType))
	}
	if len(item.Data) == 0 {
		return Spec{}, entities.NewDeckError(entities.EChartData, "chart requires a header row")
	}

	headers := stringifyRow(item.Data[0])
	if len(headers) == 0 || len(headers) > 20 {
		return Spec{}, entities.NewDeckError(entities.EChartData, "chart header row must have 1 to 20 columns")
	}

	rows := make([][]any, 0, len(item.Data)-1)
	for i, raw := range item.Data[1:] {
		if len(raw) != len(headers) {
			return Spec{}, entities.NewDeckError(entities.EChartData,
				fmt.Sprintf("data row %d has %d cells, expected %d", i, len(raw), len(headers)))
		}
		rows = append(rows, coerceRow(raw))
	}

	options := map[string]any{}
	for k, v := range item.Options {
		options[k] = v
	}
	if _, overridden := options["seriesColors"]; !overridden {
		seriesCount := len(headers) - 1
		if seriesCount > 0 {
			options["seriesColors"] = SeriesColors(active, seriesCount)
		}
	}

	return Spec{ChartType: item.ChartType, Headers: headers, Rows: rows, Options: options}, nil
}

// coerceRow converts each cell: strings that parse unambiguously as numbers become
// float64, blank/nil cells become nil (rendered as a gap), everything else passes through.
func coerceRow(row []any) []any {
	out := make([]any, len(row))
	for i, v := range row {
		out[i] = coerceCell(v)
	}
	return out
}

func coerceCell(v any) any {
	switch val := v.(type) {
	case nil:
		return nil
	case string:
		trimmed := strings.TrimSpace(val)
		if trimmed == "" {
			return nil
		}
		if n, err := strconv.ParseFloat(trimmed, 64); err == nil {
			return n
		}
		return val
	default:
		return v
	}
}

func stringifyRow(row []any) []string {
	out := make([]string, len(row))
	for i, v := range row {
		out[i] = fmt.Sprintf("%v", v)
	}
	return out
}

// baseSeriesOrder is the fixed palette draw order before falling back to tint/shade
// derivation for charts with more series than base roles.
var baseSeriesOrder = []func(p entities.Palette) string{
	func(p entities.Palette) string { return p.Primary },
	func(p entities.Palette) string { return p.Secondary },
	func(p entities.Palette) string { return p.Accent },
	func(p entities.Palette) string { return p.Semantic.Info },
	func(p entities.Palette) string { return p.Semantic.Success },
	func(p entities.Palette) string { return p.Semantic.Warning },
	func(p entities.Palette) string { return p.Semantic.Error },
}

// extensionSteps is the tint/shade ramp order used to extend the palette past the base
// roles when a chart has more data series than named palette colours.
var extensionSteps = []int{300, 500, 700, 200, 800, 400, 600}

// SeriesColors returns n series colours drawn from the active theme: the named palette
// roles first, then steps of a tint/shade ramp derived from the primary colour. Colours are
// not deduplicated, so two series can share one when roles or ramp steps coincide.
func SeriesColors(t entities.Theme, n int) []string {
	if n <= 0 {
		return nil
	}

	colors := make([]string, 0, n)
	for i := 0; i < n && i < len(baseSeriesOrder); i++ {
		if c := baseSeriesOrder[i](t.Palette); c != "" {
			colors = append(colors, c)
		}
	}
	if len(colors) >= n {
		return colors[:n]
	}

	ramp, err := theme.DeriveRamp(t.Palette.Primary)
	for len(colors) < n {
		if err != nil {
			colors = append(colors, t.Palette.Primary)
			continue
		}
		step := extensionSteps[len(colors)%len(extensionSteps)]
		colors = append(colors, ramp[step])
	}
	return colors
}
