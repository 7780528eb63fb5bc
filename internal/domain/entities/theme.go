package entities

// Theme is a named bundle of palette + font hierarchy + spacing that resolves unset style fields.
//
// Built-in themes are created at registry initialisation and are immutable; custom themes are
// added/removed at runtime (see services/theme.Registry).
type Theme struct {
	ID      string        `json:"id"`
	Name    string        `json:"name"`
	Builtin bool          `json:"builtin"`
	Palette Palette       `json:"palette"`
	Fonts   FontHierarchy `json:"fonts"`
	Spacing Spacing       `json:"spacing"`
	// LineHeightRatios overrides the design-math default ratio per content kind.
	LineHeightRatios map[ContentKind]float64 `json:"lineHeightRatios,omitempty"`
}

// Palette is the theme's colour system. Colours are always "#RRGGBB".
type Palette struct {
	Primary       string         `json:"primary"`
	Secondary     string         `json:"secondary"`
	Background    string         `json:"background"`
	Surface       string         `json:"surface"`
	Text          string         `json:"text"`
	TextSecondary string         `json:"textSecondary"`
	Accent        string         `json:"accent"`
	Semantic      SemanticColors `json:"semantic"`
}

// SemanticColors are role-based colours derived deterministically when not supplied explicitly.
type SemanticColors struct {
	Success string `json:"success"`
	Warning string `json:"warning"`
	Error   string `json:"error"`
	Info    string `json:"info"`
}

// FontHierarchy maps a content kind to its default/min/max point sizes.
type FontHierarchy struct {
	Title      FontRange `json:"title"`
	Heading    FontRange `json:"heading"`
	Subheading FontRange `json:"subheading"`
	Body       FontRange `json:"body"`
	Caption    FontRange `json:"caption"`
	Footnote   FontRange `json:"footnote"`
	// FontFamily is the hierarchy-wide family; FontRange has no family of its own, so every
	// kind uses this one.
	FontFamily string `json:"fontFamily"`
}

// FontRange is the [min,max] pt bound plus a default for a single content kind.
type FontRange struct {
	Default int `json:"default"`
	Min     int `json:"min"`
	Max     int `json:"max"`
}

// RangeFor returns the FontRange for a given content kind, falling back to Body for unknown kinds.
func (h FontHierarchy) RangeFor(kind ContentKind) FontRange {
	switch kind {
	case KindTitle:
		return h.Title
	case KindHeading:
		return h.Heading
	case KindSubheading:
		return h.Subheading
	case KindCaption:
		return h.Caption
	case KindFootnote:
		return h.Footnote
	default:
		return h.Body
	}
}

// Spacing defines the theme's spacing scale, base unit 8pt by default.
type Spacing struct {
	Base  int   `json:"base"`
	Scale []int `json:"scale"`
}

// ResolvedTextStyle is the fully-resolved style applied to a text element before submission
// upstream. No ContentItem escapes to the Slide API Client with unresolved style.
type ResolvedTextStyle struct {
	FontFamily string
	FontSize   int
	Bold       bool
	Italic     bool
	Color      string
	LineHeight float64
}
