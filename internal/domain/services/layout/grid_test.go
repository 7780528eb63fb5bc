package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/deckforge/deckforge/internal/domain/entities"
)

func stdMargins() entities.Margins {
	return entities.Margins{Top: 40, Right: 52, Bottom: 40, Left: 52}
}

func TestNewGrid(t *testing.T) {
	g := NewGrid(960, 540, stdMargins(), 12)
	assert.Equal(t, 12, g.Columns)
	assert.InDelta(t, 856, g.ContentWidth, 0.01)
	assert.InDelta(t, 460, g.ContentHeight, 0.01)

	t.Run("defaults to 12 columns", func(t *testing.T) {
		g := NewGrid(960, 540, stdMargins(), 0)
		assert.Equal(t, 12, g.Columns)
	})
}

func TestColumnSpan_RightEdgeLandsOnContentBoundary(t *testing.T) {
	g := NewGrid(960, 540, stdMargins(), 12)
	x, width := ColumnSpan(g, 0, 12)
	assert.InDelta(t, g.Margins.Left, x, 0.01)
	assert.InDelta(t, g.Margins.Left+g.ContentWidth, x+width, 0.001)
}

func TestColumnSpan_PartialSpan(t *testing.T) {
	g := NewGrid(960, 540, stdMargins(), 2)
	x0, w0 := ColumnSpan(g, 0, 1)
	x1, w1 := ColumnSpan(g, 1, 1)

	assert.InDelta(t, g.Margins.Left, x0, 0.01)
	assert.InDelta(t, x0+w0+g.Gutter, x1, 0.01)
	assert.InDelta(t, g.Margins.Left+g.ContentWidth, x1+w1, 0.001)
}

func TestRowSpan_BottomEdgeLandsOnContentBoundary(t *testing.T) {
	g := NewGrid(960, 540, stdMargins(), 12)
	y, height := RowSpan(g, 0, 3, 3)
	assert.InDelta(t, g.Margins.Top, y, 0.01)
	assert.InDelta(t, g.Margins.Top+g.ContentHeight, y+height, 0.001)
}

func TestAreaBox(t *testing.T) {
	g := NewGrid(960, 540, stdMargins(), 2)
	box := AreaBox(g, entities.GridArea{RowStart: 1, ColStart: 1, RowEnd: 2, ColEnd: 2}, 1)
	assert.InDelta(t, g.Margins.Left, box.X, 0.01)
	assert.InDelta(t, g.Margins.Top, box.Y, 0.01)
	assert.Greater(t, box.Width, 0.0)
	assert.InDelta(t, g.ContentHeight, box.Height, 0.001)
}

func TestBankersRound(t *testing.T) {
	cases := []struct {
		in   float64
		want float64
	}{
		{2.5, 2},
		{3.5, 4},
		{2.4, 2},
		{2.6, 3},
		{-0.5, 0},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, bankersRound(c.in))
	}
}
