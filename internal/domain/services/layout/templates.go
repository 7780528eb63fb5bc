package layout

import "github.com/deckforge/deckforge/internal/domain/entities"

// ResolvedTemplate is a template resolved into a CustomGrid shape: a fixed row/column
// count plus an area map, in the order areas should be filled during position assignment.
type ResolvedTemplate struct {
	Columns   int
	Rows      int
	Areas     map[string]entities.GridArea
	AreaOrder []string
}

// ResolveTemplate expands one of the 8 named templates into its grid area map. Unknown
// names fail with ETemplateUnknown.
func ResolveTemplate(name entities.TemplateName) (ResolvedTemplate, error) {
	switch name {
	case entities.TemplateSingleColumn:
		return ResolvedTemplate{
			Columns: 1, Rows: 1,
			Areas:     map[string]entities.GridArea{"main": {RowStart: 1, ColStart: 1, RowEnd: 2, ColEnd: 2}},
			AreaOrder: []string{"main"},
		}, nil

	case entities.TemplateDoubleColumn:
		return ResolvedTemplate{
			Columns: 2, Rows: 1,
			Areas: map[string]entities.GridArea{
				"left":  {RowStart: 1, ColStart: 1, RowEnd: 2, ColEnd: 2},
				"right": {RowStart: 1, ColStart: 2, RowEnd: 2, ColEnd: 3},
			},
			AreaOrder: []string{"left", "right"},
		}, nil

	case entities.TemplateThreeColumn:
		return ResolvedTemplate{
			Columns: 3, Rows: 1,
			Areas: map[string]entities.GridArea{
				"col1": {RowStart: 1, ColStart: 1, RowEnd: 2, ColEnd: 2},
				"col2": {RowStart: 1, ColStart: 2, RowEnd: 2, ColEnd: 3},
				"col3": {RowStart: 1, ColStart: 3, RowEnd: 2, ColEnd: 4},
			},
			AreaOrder: []string{"col1", "col2", "col3"},
		}, nil

	case entities.TemplateTitleContent:
		return ResolvedTemplate{
			Columns: 1, Rows: 6,
			Areas: map[string]entities.GridArea{
				"title":   {RowStart: 1, ColStart: 1, RowEnd: 2, ColEnd: 2},
				"content": {RowStart: 2, ColStart: 1, RowEnd: 7, ColEnd: 2},
			},
			AreaOrder: []string{"title", "content"},
		}, nil

	case entities.TemplateHeroContent:
		// 60/40 split: hero occupies the first 6 of 10 columns, content the remaining 4.
		return ResolvedTemplate{
			Columns: 10, Rows: 1,
			Areas: map[string]entities.GridArea{
				"hero":    {RowStart: 1, ColStart: 1, RowEnd: 2, ColEnd: 7},
				"content": {RowStart: 1, ColStart: 7, RowEnd: 2, ColEnd: 11},
			},
			AreaOrder: []string{"hero", "content"},
		}, nil

	case entities.TemplateSidebarMain:
		// 3/9 split.
		return ResolvedTemplate{
			Columns: 12, Rows: 1,
			Areas: map[string]entities.GridArea{
				"sidebar": {RowStart: 1, ColStart: 1, RowEnd: 2, ColEnd: 4},
				"main":    {RowStart: 1, ColStart: 4, RowEnd: 2, ColEnd: 13},
			},
			AreaOrder: []string{"sidebar", "main"},
		}, nil

	case entities.TemplateFeatureShowcase:
		return ResolvedTemplate{
			Columns: 3, Rows: 6,
			Areas: map[string]entities.GridArea{
				"title":   {RowStart: 1, ColStart: 1, RowEnd: 2, ColEnd: 4},
				"feature1": {RowStart: 2, ColStart: 1, RowEnd: 7, ColEnd: 2},
				"feature2": {RowStart: 2, ColStart: 2, RowEnd: 7, ColEnd: 3},
				"feature3": {RowStart: 2, ColStart: 3, RowEnd: 7, ColEnd: 4},
			},
			AreaOrder: []string{"title", "feature1", "feature2", "feature3"},
		}, nil

	case entities.TemplateDashboard:
		return ResolvedTemplate{
			Columns: 2, Rows: 2,
			Areas: map[string]entities.GridArea{
				"quadrant1": {RowStart: 1, ColStart: 1, RowEnd: 2, ColEnd: 2},
				"quadrant2": {RowStart: 1, ColStart: 2, RowEnd: 2, ColEnd: 3},
				"quadrant3": {RowStart: 2, ColStart: 1, RowEnd: 3, ColEnd: 2},
				"quadrant4": {RowStart: 2, ColStart: 2, RowEnd: 3, ColEnd: 3},
			},
			AreaOrder: []string{"quadrant1", "quadrant2", "quadrant3", "quadrant4"},
		}, nil

	default:
		return ResolvedTemplate{}, entities.NewDeckError(entities.ETemplateUnknown,
			"unknown layout template: "+string(name))
	}
}
