package chart

import (
	"fmt"

	"github.com/deckforge/deckforge/internal/adapters/secondary/raster"
	"github.com/deckforge/deckforge/internal/domain/entities"
)

// RenderedImage is a rasterised chart, shaped like the Diagram Renderer's output so the
// orchestrator can place either through the same insertImage path.
type RenderedImage struct {
	Bytes  []byte
	MIME   string
	Width  int
	Height int
}

// RenderImage rasterises a Spec to a PNG image for upstream APIs that do not accept a
// structured chart spec natively (Spec.ChartType gates which drawing routine runs; any
// chart type outside the simple-geometry set falls back to a labelled data grid so every
// closed-set type still produces a usable image rather than failing the slide).
func RenderImage(spec Spec, width, height int, background string) (RenderedImage, error) {
	canvas, err := raster.NewCanvas(width, height, background)
	if err != nil {
		return RenderedImage{}, fmt.Errorf("creating chart canvas: %w", err)
	}

	switch spec.ChartType {
	case entities.ChartBar, entities.ChartColumn, entities.ChartHistogram, entities.ChartWaterfall:
		drawBars(canvas, spec, spec.ChartType == entities.ChartBar)
	case entities.ChartLine, entities.ChartArea, entities.ChartTimeline:
		drawLine(canvas, spec, spec.ChartType == entities.ChartArea)
	case entities.ChartPie, entities.ChartGauge:
		drawPie(canvas, spec)
	default:
		drawGrid(canvas, spec)
	}

	data, err := canvas.EncodePNG()
	if err != nil {
		return RenderedImage{}, err
	}
	return RenderedImage{Bytes: data, MIME: "image/png", Width: width, Height: height}, nil
}

const chartMargin = 0.08

func plotArea(c *raster.Canvas) (x0, y0, x1, y1 float64) {
	w, h := float64(c.Width), float64(c.Height)
	return w * chartMargin, h * chartMargin, w * (1 - chartMargin), h * (1 - chartMargin)
}

func numericColumns(spec Spec) (cols []int) {
	for col := 1; col < len(spec.Headers); col++ {
		cols = append(cols, col)
	}
	return cols
}

func seriesColor(spec Spec, index int) string {
	colors, _ := spec.Options["seriesColors"].([]string)
	if index < len(colors) {
		return colors[index]
	}
	return "#4A5568"
}

func maxValue(spec Spec, cols []int) float64 {
	max := 0.0
	for _, row := range spec.Rows {
		for _, col := range cols {
			if v, ok := row[col].(float64); ok && v > max {
				max = v
			}
		}
	}
	if max == 0 {
		max = 1
	}
	return max
}

func drawBars(c *raster.Canvas, spec Spec, horizontal bool) {
	cols := numericColumns(spec)
	if len(cols) == 0 || len(spec.Rows) == 0 {
		drawGrid(c, spec)
		return
	}

	x0, y0, x1, y1 := plotArea(c)
	max := maxValue(spec, cols)
	groups := len(spec.Rows)
	series := len(cols)
	groupSpan := (x1 - x0) / float64(groups)
	subSpan := groupSpan * 0.8 / float64(series)

	for gi, row := range spec.Rows {
		groupStart := x0 + float64(gi)*groupSpan
		for si, col := range cols {
			v, _ := row[col].(float64)
			c.SetHexColor(seriesColor(spec, si))
			if horizontal {
				rowHeight := (y1 - y0) / float64(groups)
				barLength := (x1 - x0) * (v / max)
				by := y0 + float64(gi)*rowHeight + float64(si)*(rowHeight*0.8/float64(series))
				c.DrawRectangle(x0, by, barLength, rowHeight*0.8/float64(series))
				c.Fill()
				continue
			}
			barHeight := (y1 - y0) * (v / max)
			bx := groupStart + float64(si)*subSpan
			c.DrawRectangle(bx, y1-barHeight, subSpan*0.9, barHeight)
			c.Fill()
		}
	}
}

func drawLine(c *raster.Canvas, spec Spec, filled bool) {
	cols := numericColumns(spec)
	if len(cols) == 0 || len(spec.Rows) < 2 {
		drawGrid(c, spec)
		return
	}

	x0, y0, x1, y1 := plotArea(c)
	max := maxValue(spec, cols)
	step := (x1 - x0) / float64(len(spec.Rows)-1)

	for si, col := range cols {
		c.SetHexColor(seriesColor(spec, si))
		c.MoveTo(x0, y1)
		for ri, row := range spec.Rows {
			v, _ := row[col].(float64)
			x := x0 + float64(ri)*step
			y := y1 - (y1-y0)*(v/max)
			if ri == 0 {
				c.MoveTo(x, y)
			} else {
				c.LineTo(x, y)
			}
		}
		if filled {
			c.LineTo(x1, y1)
			c.ClosePath()
			c.FillPreserve()
		}
		c.SetLineWidth(2)
		c.Stroke()
	}
}

func drawPie(c *raster.Canvas, spec Spec) {
	cols := numericColumns(spec)
	if len(cols) == 0 || len(spec.Rows) == 0 {
		drawGrid(c, spec)
		return
	}

	total := 0.0
	for _, row := range spec.Rows {
		if v, ok := row[cols[0]].(float64); ok {
			total += v
		}
	}
	if total == 0 {
		total = 1
	}

	cx, cy := float64(c.Width)/2, float64(c.Height)/2
	radius := float64(c.Width) * (0.5 - chartMargin)
	angle := -0.25 * 2 * 3.141592653589793 // start at 12 o'clock

	for i, row := range spec.Rows {
		v, _ := row[cols[0]].(float64)
		sweep := (v / total) * 2 * 3.141592653589793
		c.SetHexColor(seriesColor(spec, i))
		c.MoveTo(cx, cy)
		c.DrawArc(cx, cy, radius, angle, angle+sweep)
		c.ClosePath()
		c.Fill()
		angle += sweep
	}
}

// drawGrid is the fallback renderer for chart types with no simple geometric mapping
// (scatter, combo, radar, bubble, candlestick, treemap, table): it lays out headers and
// coerced cell values as a plain labelled grid so the slide still carries the data.
func drawGrid(c *raster.Canvas, spec Spec) {
	_ = c.LoadFont(float64(c.Height) / 30)
	x0, y0, x1, _ := plotArea(c)
	cols := len(spec.Headers)
	if cols == 0 {
		return
	}
	colWidth := (x1 - x0) / float64(cols)
	rowHeight := float64(c.Height) / 20

	c.SetRGB(0.17, 0.22, 0.28)
	for i, h := range spec.Headers {
		c.DrawString(h, x0+float64(i)*colWidth, y0)
	}
	for ri, row := range spec.Rows {
		y := y0 + float64(ri+1)*rowHeight
		for ci, v := range row {
			c.DrawString(fmt.Sprintf("%v", v), x0+float64(ci)*colWidth, y)
		}
	}
}
