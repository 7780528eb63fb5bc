package theme

import "github.com/deckforge/deckforge/internal/domain/entities"

// Builtins returns the seed themes loaded at registry initialisation. The first entry's
// id becomes the registry's initial active theme unless configuration overrides it.
func Builtins() []entities.Theme {
	return []entities.Theme{defaultTheme(), darkTheme()}
}

func defaultTheme() entities.Theme {
	return entities.Theme{
		ID:      "default",
		Name:    "Default",
		Builtin: true,
		Palette: entities.Palette{
			Primary:       "#1565C0",
			Secondary:     "#6A1B9A",
			Background:    "#FFFFFF",
			Surface:       "#F5F5F5",
			Text:          "#212121",
			TextSecondary: "#616161",
			Accent:        "#00897B",
			Semantic: entities.SemanticColors{
				Success: defaultSemantics.Success,
				Warning: defaultSemantics.Warning,
				Error:   defaultSemantics.Error,
				Info:    defaultSemantics.Info,
			},
		},
		Fonts:   standardFontHierarchy(),
		Spacing: standardSpacing(),
	}
}

func darkTheme() entities.Theme {
	return entities.Theme{
		ID:      "dark",
		Name:    "Dark",
		Builtin: true,
		Palette: entities.Palette{
			Primary:       "#90CAF9",
			Secondary:     "#CE93D8",
			Background:    "#121212",
			Surface:       "#1E1E1E",
			Text:          "#FAFAFA",
			TextSecondary: "#BDBDBD",
			Accent:        "#80CBC4",
			Semantic: entities.SemanticColors{
				Success: "#66BB6A",
				Warning: "#FFCA28",
				Error:   "#EF5350",
				Info:    "#42A5F5",
			},
		},
		Fonts:   standardFontHierarchy(),
		Spacing: standardSpacing(),
	}
}

func standardFontHierarchy() entities.FontHierarchy {
	return entities.FontHierarchy{
		FontFamily: "Helvetica",
		Title:      entities.FontRange{Default: 40, Min: 28, Max: 60},
		Heading:    entities.FontRange{Default: 30, Min: 24, Max: 44},
		Subheading: entities.FontRange{Default: 24, Min: 20, Max: 32},
		Body:       entities.FontRange{Default: 20, Min: 18, Max: 28},
		Caption:    entities.FontRange{Default: 16, Min: 16, Max: 20},
		Footnote:   entities.FontRange{Default: 14, Min: 14, Max: 16},
	}
}

func standardSpacing() entities.Spacing {
	return entities.Spacing{
		Base:  8,
		Scale: []int{4, 8, 16, 24, 32, 48, 64},
	}
}
