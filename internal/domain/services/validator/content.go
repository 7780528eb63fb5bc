package validator

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/deckforge/deckforge/internal/domain/entities"
	"github.com/deckforge/deckforge/internal/domain/services/designmath"
)

var validShapeKinds = map[entities.ShapeKind]bool{
	entities.ShapeRectangle: true, entities.ShapeEllipse: true, entities.ShapeLine: true,
	entities.ShapeArrow: true, entities.ShapeTriangle: true, entities.ShapeStar: true,
}

var allowedURLSchemes = map[string]bool{"http": true, "https": true, "data": true}

func validateContentItem(r *Result, item entities.ContentItem, limits entities.LimitsConfig, path string) entities.ContentItem {
	if entities.TextKinds[item.Kind] {
		return validateTextItem(r, item, limits, path)
	}

	switch item.Kind {
	case entities.KindImage:
		return validateImageItem(r, item, path)
	case entities.KindShape:
		return validateShapeItem(r, item, path)
	case entities.KindTable:
		return validateTableItem(r, item, path)
	case entities.KindChart:
		return validateChartItem(r, item, limits, path)
	case entities.KindDiagram:
		return validateDiagramItem(r, item, limits, path)
	default:
		r.fail(fmt.Sprintf("%s: unknown content kind %q", path, item.Kind))
		return item
	}
}

func validateTextItem(r *Result, item entities.ContentItem, limits entities.LimitsConfig, path string) entities.ContentItem {
	if max := limits.GetMaxTextLen(); len(item.Content) > max {
		r.fail(fmt.Sprintf("%s.content exceeds %d characters", path, max))
	}
	item.Content = sanitizeText(item.Content)
	if len(item.Content) > 1000 {
		r.warn(fmt.Sprintf("%s.content is long (%d chars); consider splitting across slides", path, len(item.Content)))
	}
	if item.Style != nil {
		validateTextStyle(r, *item.Style, path+".style")
	}
	return item
}

func validateTextStyle(r *Result, style entities.TextStyle, path string) {
	if style.FontSize != 0 && (style.FontSize < 14 || style.FontSize > 72) {
		r.fail(fmt.Sprintf("%s.fontSize must be between 14 and 72pt, got %d", path, style.FontSize))
	}
	if style.Color != "" {
		if _, _, _, err := designmath.ParseHexColor(style.Color); err != nil {
			r.fail(fmt.Sprintf("%s.color: %v", path, err))
		}
	}
}

func validateImageItem(r *Result, item entities.ContentItem, path string) entities.ContentItem {
	if item.Source == "" && len(item.Bytes) == 0 {
		r.fail(path + ": image requires a source URL or inline bytes")
		return item
	}
	if item.Source != "" {
		validateImageSource(r, item.Source, path)
	}
	item.Alt = sanitizeText(item.Alt)
	if item.Alt == "" {
		r.warn(path + ": image missing alt text")
	}
	return item
}

func validateImageSource(r *Result, source, path string) {
	if strings.HasPrefix(source, "data:") {
		return
	}
	u, err := url.Parse(source)
	if err != nil || !allowedURLSchemes[u.Scheme] {
		r.fail(fmt.Sprintf("%s.source: scheme must be one of http, https, data", path))
	}
}

func validateShapeItem(r *Result, item entities.ContentItem, path string) entities.ContentItem {
	if !validShapeKinds[item.Shape] {
		r.fail(fmt.Sprintf("%s.shape: unknown shape %q", path, item.Shape))
	}
	if item.Fill != "" {
		if _, _, _, err := designmath.ParseHexColor(item.Fill); err != nil {
			r.fail(fmt.Sprintf("%s.fill: %v", path, err))
		}
	}
	return item
}

func validateTableItem(r *Result, item entities.ContentItem, path string) entities.ContentItem {
	if len(item.Headers) == 0 {
		r.fail(path + ": table requires at least one header")
		return item
	}
	cols := len(item.Headers)
	headers := make([]string, cols)
	for i := range item.Headers {
		headers[i] = sanitizeText(item.Headers[i])
	}
	rows := make([][]entities.Cell, len(item.Rows))
	for i, row := range item.Rows {
		if len(row) != cols {
			r.fail(fmt.Sprintf("%s.rows[%d]: row has %d cells, expected %d", path, i, len(row), cols))
		}
		rows[i] = make([]entities.Cell, len(row))
		for j, cell := range row {
			rows[i][j] = entities.Cell{Value: sanitizeText(cell.Value)}
		}
	}
	item.Headers = headers
	item.Rows = rows
	if cells := cols * len(item.Rows); cells > 400 {
		r.fail(fmt.Sprintf("%s: table has %d cells, exceeding the limit of 400", path, cells))
	}
	return item
}

func validateChartItem(r *Result, item entities.ContentItem, limits entities.LimitsConfig, path string) entities.ContentItem {
	if !entities.ValidChartKinds[item.ChartType] {
		// Not deck-fatal: chart.Build re-checks this at generate time and skips just
		// this element (EChartType), leaving the rest of the slide intact.
		r.warn(fmt.Sprintf("%s.chartType: unknown chart type %q", path, item.ChartType))
		return item
	}
	if len(item.Data) == 0 {
		r.fail(path + ": chart requires a header row")
		return item
	}
	headerCols := len(item.Data[0])
	if headerCols == 0 || headerCols > 20 {
		r.fail(fmt.Sprintf("%s: chart header row must have 1 to 20 columns", path))
	}
	dataRows := len(item.Data) - 1
	for i, row := range item.Data[1:] {
		if len(row) != headerCols {
			r.fail(fmt.Sprintf("%s.data[%d]: row has %d cells, expected %d", path, i+1, len(row), headerCols))
		}
	}
	if max := limits.GetMaxChartRows(); dataRows > max {
		r.fail(fmt.Sprintf("%s: chart has %d data rows, exceeding the limit of %d", path, dataRows, max))
	} else if dataRows > 1000 {
		r.warn(fmt.Sprintf("%s: chart has %d data rows; rendering may be slow", path, dataRows))
	}
	return item
}

func validateDiagramItem(r *Result, item entities.ContentItem, limits entities.LimitsConfig, path string) entities.ContentItem {
	if !entities.ValidDiagramDialects[item.Dialect] {
		r.fail(fmt.Sprintf("%s.dialect: unknown dialect %q", path, item.Dialect))
	}
	if max := limits.GetMaxDiagramSourceBytes(); len(item.Source) > max {
		// Not deck-fatal: the Diagram Renderer re-checks this at generate time and
		// skips just this element (EDiagramTooLarge).
		r.warn(fmt.Sprintf("%s.source exceeds %d bytes", path, max))
	}
	return item
}
