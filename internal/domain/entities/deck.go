package entities

// DeckSpec is the caller-supplied declarative description of a deck to generate.
type DeckSpec struct {
	Title   string         `json:"title" yaml:"title"`
	Slides  []SlideSpec    `json:"slides" yaml:"slides"`
	Theme   *ThemeRef      `json:"theme,omitempty" yaml:"theme,omitempty"`
	Layout  *LayoutSpec    `json:"layout,omitempty" yaml:"layout,omitempty"`
	Options *DeckOptions   `json:"options,omitempty" yaml:"options,omitempty"`
}

// DeckOptions carries audience-aware hints that feed the design math.
type DeckOptions struct {
	Locale          string `json:"locale,omitempty" yaml:"locale,omitempty"`
	ViewingDistance string `json:"viewingDistance,omitempty" yaml:"viewingDistance,omitempty"` // close|medium|far
	AudienceSize    int    `json:"audienceSize,omitempty" yaml:"audienceSize,omitempty"`
}

// ThemeRef selects a theme either by id or via an inline override patch of the active theme.
type ThemeRef struct {
	ID       string         `json:"id,omitempty" yaml:"id,omitempty"`
	Override map[string]any `json:"override,omitempty" yaml:"override,omitempty"`
}

// SlideSpec describes a single slide's content and optional layout/title overrides.
type SlideSpec struct {
	Title       string                `json:"title,omitempty" yaml:"title,omitempty"`
	Layout      *LayoutSpec           `json:"layout,omitempty" yaml:"layout,omitempty"`
	Content     []ContentItem         `json:"content" yaml:"content"`
	CustomAreas map[string]GridArea   `json:"customAreas,omitempty" yaml:"customAreas,omitempty"`
}

// ContentKind is the closed set of content item tags.
type ContentKind string

const (
	KindText       ContentKind = "text"
	KindTitle      ContentKind = "title"
	KindHeading    ContentKind = "heading"
	KindSubheading ContentKind = "subheading"
	KindBody       ContentKind = "body"
	KindCaption    ContentKind = "caption"
	KindFootnote   ContentKind = "footnote"
	KindImage      ContentKind = "image"
	KindShape      ContentKind = "shape"
	KindTable      ContentKind = "table"
	KindChart      ContentKind = "chart"
	KindDiagram    ContentKind = "diagram"
)

// TextKinds is the subset of ContentKind values dispatched as text runs.
var TextKinds = map[ContentKind]bool{
	KindText: true, KindTitle: true, KindHeading: true, KindSubheading: true,
	KindBody: true, KindCaption: true, KindFootnote: true,
}

// ContentItem is a tagged union over Kind. Exactly the fields relevant to Kind are populated;
// the orchestrator dispatches on Kind via an exhaustive switch (never reflection).
type ContentItem struct {
	Kind ContentKind `json:"kind" yaml:"kind"`

	// Text fields
	Content string     `json:"content,omitempty" yaml:"content,omitempty"`
	Style   *TextStyle `json:"style,omitempty" yaml:"style,omitempty"`

	// Image fields
	Source string `json:"source,omitempty" yaml:"source,omitempty"` // URL, data: URL, or opaque byte-ref
	Bytes  []byte `json:"bytes,omitempty" yaml:"bytes,omitempty"`
	Alt    string `json:"alt,omitempty" yaml:"alt,omitempty"`

	// Shape fields
	Shape ShapeKind `json:"shape,omitempty" yaml:"shape,omitempty"`
	Fill  string    `json:"fill,omitempty" yaml:"fill,omitempty"`

	// Table fields
	Headers []string `json:"headers,omitempty" yaml:"headers,omitempty"`
	Rows    [][]Cell `json:"rows,omitempty" yaml:"rows,omitempty"`

	// Chart fields
	ChartType ChartKind      `json:"chartType,omitempty" yaml:"chartType,omitempty"`
	Data      [][]any        `json:"data,omitempty" yaml:"data,omitempty"`
	Options   map[string]any `json:"options,omitempty" yaml:"options,omitempty"`

	// Diagram fields
	Dialect DiagramDialect `json:"dialect,omitempty" yaml:"dialect,omitempty"`

	// Common
	Position *AbsoluteBox `json:"position,omitempty" yaml:"position,omitempty"`
}

// ShapeKind is the closed set of drawable shapes.
type ShapeKind string

const (
	ShapeRectangle ShapeKind = "rectangle"
	ShapeEllipse   ShapeKind = "ellipse"
	ShapeLine      ShapeKind = "line"
	ShapeArrow     ShapeKind = "arrow"
	ShapeTriangle  ShapeKind = "triangle"
	ShapeStar      ShapeKind = "star"
)

// Cell is a single table cell.
type Cell struct {
	Value string `json:"value" yaml:"value"`
}

// ChartKind is the closed set of ~16 supported chart types.
type ChartKind string

const (
	ChartBar         ChartKind = "bar"
	ChartColumn      ChartKind = "column"
	ChartLine        ChartKind = "line"
	ChartArea        ChartKind = "area"
	ChartPie         ChartKind = "pie"
	ChartScatter     ChartKind = "scatter"
	ChartTable       ChartKind = "table"
	ChartCombo       ChartKind = "combo"
	ChartGauge       ChartKind = "gauge"
	ChartRadar       ChartKind = "radar"
	ChartTimeline    ChartKind = "timeline"
	ChartBubble      ChartKind = "bubble"
	ChartCandlestick ChartKind = "candlestick"
	ChartHistogram   ChartKind = "histogram"
	ChartTreemap     ChartKind = "treemap"
	ChartWaterfall   ChartKind = "waterfall"
)

// ValidChartKinds is the closed whitelist used by the Chart Builder.
var ValidChartKinds = map[ChartKind]bool{
	ChartBar: true, ChartColumn: true, ChartLine: true, ChartArea: true, ChartPie: true,
	ChartScatter: true, ChartTable: true, ChartCombo: true, ChartGauge: true, ChartRadar: true,
	ChartTimeline: true, ChartBubble: true, ChartCandlestick: true, ChartHistogram: true,
	ChartTreemap: true, ChartWaterfall: true,
}

// DiagramDialect is the closed set of textual diagram source dialects.
type DiagramDialect string

const (
	DialectFlowchart DiagramDialect = "flowchart"
	DialectSequence  DiagramDialect = "sequence"
	DialectGantt     DiagramDialect = "gantt"
	DialectClass     DiagramDialect = "class"
	DialectState     DiagramDialect = "state"
	DialectER        DiagramDialect = "er"
)

// ValidDiagramDialects is the closed whitelist used by the Diagram Renderer.
var ValidDiagramDialects = map[DiagramDialect]bool{
	DialectFlowchart: true, DialectSequence: true, DialectGantt: true,
	DialectClass: true, DialectState: true, DialectER: true,
}

// TextStyle carries per-item style overrides; unset fields resolve from the active theme.
type TextStyle struct {
	FontFamily string  `json:"fontFamily,omitempty" yaml:"fontFamily,omitempty"`
	FontSize   int     `json:"fontSize,omitempty" yaml:"fontSize,omitempty"` // pt, 14..72
	Bold       bool    `json:"bold,omitempty" yaml:"bold,omitempty"`
	Italic     bool    `json:"italic,omitempty" yaml:"italic,omitempty"`
	Color      string  `json:"color,omitempty" yaml:"color,omitempty"` // #RRGGBB
	LineHeight float64 `json:"lineHeight,omitempty" yaml:"lineHeight,omitempty"`
}

// AbsoluteBox is a caller-specified or layout-assigned position, in points.
type AbsoluteBox struct {
	X      float64 `json:"x" yaml:"x"`
	Y      float64 `json:"y" yaml:"y"`
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}
