// Package layout implements the Grid and Flex primitives and the closed set of named
// templates used to position ordered content on a slide. The engine is a pure function of
// its inputs: given the same ContentItem order, LayoutSpec, and slide dimensions, it always
// produces the same AbsoluteBox list.
package layout

import (
	"math"

	"github.com/deckforge/deckforge/internal/domain/entities"
)

const defaultGutter = 16.0

// NewGrid derives a resolved Grid from slide dimensions, margins, and a column count. A
// zero or negative cols defaults to 12, matching the spec's default column system.
func NewGrid(slideW, slideH float64, margins entities.Margins, cols int) entities.Grid {
	if cols <= 0 {
		cols = 12
	}
	contentWidth := slideW - margins.Left - margins.Right
	contentHeight := slideH - margins.Top - margins.Bottom
	gutter := defaultGutter
	columnWidth := (contentWidth - gutter*float64(cols-1)) / float64(cols)

	return entities.Grid{
		Width:         slideW,
		Height:        slideH,
		Margins:       margins,
		Columns:       cols,
		Gutter:        gutter,
		ColumnWidth:   columnWidth,
		ContentWidth:  contentWidth,
		ContentHeight: contentHeight,
	}
}

// ColumnSpan computes the horizontal extent of a span of columns starting at startCol
// (0-based), spanCols wide. The last column in the grid absorbs rounding remainder so the
// right edge always lands exactly on margins.Left + ContentWidth.
func ColumnSpan(g entities.Grid, startCol, spanCols int) (x, width float64) {
	x = g.Margins.Left + bankersRound(float64(startCol)*(g.ColumnWidth+g.Gutter))

	endCol := startCol + spanCols
	if endCol >= g.Columns {
		rightEdge := g.Margins.Left + g.ContentWidth
		return x, rightEdge - x
	}
	rawEnd := g.Margins.Left + bankersRound(float64(endCol)*(g.ColumnWidth+g.Gutter)-g.Gutter)
	return x, rawEnd - x
}

// RowSpan computes the vertical extent of a span of rows starting at startRow (0-based),
// spanRows tall, out of totalRows. The last row absorbs rounding remainder so the bottom
// edge always lands exactly on margins.Top + ContentHeight.
func RowSpan(g entities.Grid, startRow, spanRows, totalRows int) (y, height float64) {
	if totalRows <= 0 {
		totalRows = 1
	}
	rowHeight := (g.ContentHeight - g.Gutter*float64(totalRows-1)) / float64(totalRows)

	y = g.Margins.Top + bankersRound(float64(startRow)*(rowHeight+g.Gutter))

	endRow := startRow + spanRows
	if endRow >= totalRows {
		bottomEdge := g.Margins.Top + g.ContentHeight
		return y, bottomEdge - y
	}
	rawEnd := g.Margins.Top + bankersRound(float64(endRow)*(rowHeight+g.Gutter)-g.Gutter)
	return y, rawEnd - y
}

// AreaBox resolves a named GridArea to an AbsoluteBox against a resolved Grid. totalRows is
// the row count declared by the owning CustomGrid (GridArea.RowEnd values are 1-based,
// end-exclusive, as in CSS grid).
func AreaBox(g entities.Grid, area entities.GridArea, totalRows int) entities.AbsoluteBox {
	startCol := area.ColStart - 1
	spanCols := area.ColEnd - area.ColStart
	startRow := area.RowStart - 1
	spanRows := area.RowEnd - area.RowStart

	x, width := ColumnSpan(g, startCol, spanCols)
	y, height := RowSpan(g, startRow, spanRows, totalRows)

	return entities.AbsoluteBox{X: x, Y: y, Width: width, Height: height}
}

// bankersRound rounds to the nearest even integer on exact ties, avoiding the cumulative
// drift a naive round-half-up would introduce across many adjacent cells.
func bankersRound(v float64) float64 {
	floor := math.Floor(v)
	diff := v - floor
	switch {
	case diff < 0.5:
		return floor
	case diff > 0.5:
		return floor + 1
	default:
		if math.Mod(floor, 2) == 0 {
			return floor
		}
		return floor + 1
	}
}
