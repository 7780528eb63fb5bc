package layout

import "github.com/deckforge/deckforge/internal/domain/entities"

// AdaptTemplate re-flows a resolved template's areas into at most profile.MaxColumns
// columns, preserving AreaOrder. xs (MaxColumns=1) collapses any multi-column layout to a
// single stacked column; sm (MaxColumns=2) collapses a 3-column layout to 2; md and above
// keep the declared configuration whenever it already fits within MaxColumns.
func AdaptTemplate(t ResolvedTemplate, profile entities.BreakpointProfile) ResolvedTemplate {
	numAreas := len(t.AreaOrder)
	if numAreas == 0 || t.Columns <= profile.MaxColumns {
		return t
	}

	cols := profile.MaxColumns
	if cols < 1 {
		cols = 1
	}
	rows := (numAreas + cols - 1) / cols

	areas := make(map[string]entities.GridArea, numAreas)
	for i, name := range t.AreaOrder {
		row := i / cols
		col := i % cols
		areas[name] = entities.GridArea{
			RowStart: row + 1, RowEnd: row + 2,
			ColStart: col + 1, ColEnd: col + 2,
		}
	}

	return ResolvedTemplate{
		Columns:   cols,
		Rows:      rows,
		Areas:     areas,
		AreaOrder: t.AreaOrder,
	}
}
