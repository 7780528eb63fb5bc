package layout

import (
	"sort"

	"github.com/deckforge/deckforge/internal/domain/entities"
	"github.com/deckforge/deckforge/internal/domain/services/designmath"
)

// Placement pairs a ContentItem with the AbsoluteBox the engine assigned it.
type Placement struct {
	Item entities.ContentItem
	Box  entities.AbsoluteBox
}

// Assign is the Layout Engine's single entry point: given an ordered ContentItem list and
// a LayoutSpec, it returns the placements that fit on one slide plus any items that overflow
// the template's area capacity (the caller starts a new slide with the same layout for
// those). A caller-supplied item.Position is authoritative and never consumes an area slot.
//
// The engine is a pure function of its inputs: the same arguments always produce the same
// placements, byte for byte.
func Assign(spec entities.LayoutSpec, slideW, slideH float64, items []entities.ContentItem) ([]Placement, []entities.ContentItem, error) {
	margins := designmath.ResponsiveMargins(slideW, slideH)

	var fixed []Placement
	var flow []entities.ContentItem
	flowOrigIdx := make([]int, 0, len(items))

	for i, item := range items {
		if item.Position != nil {
			fixed = append(fixed, Placement{Item: item, Box: *item.Position})
			continue
		}
		flow = append(flow, item)
		flowOrigIdx = append(flowOrigIdx, i)
	}

	if spec.Kind == entities.LayoutFlex {
		placements := assignFlex(spec, slideW, slideH, margins, flow)
		return mergeOrdered(items, fixed, placements, flowOrigIdx), nil, nil
	}

	resolved, err := resolveTemplateSpec(spec)
	if err != nil {
		return nil, nil, err
	}

	if spec.Responsive {
		profile := entities.ResolveBreakpoint(slideW)
		resolved = AdaptTemplate(resolved, profile)
	}
	grid := NewGrid(slideW, slideH, margins, resolved.Columns)

	capacity := len(resolved.AreaOrder)
	placed := flow
	var overflowItems []entities.ContentItem
	if len(flow) > capacity {
		placed = flow[:capacity]
		overflowItems = flow[capacity:]
	}

	placements := make([]Placement, len(placed))
	for i, item := range placed {
		area := resolved.Areas[resolved.AreaOrder[i]]
		box := AreaBox(grid, area, resolved.Rows)
		placements[i] = Placement{Item: item, Box: box}
	}

	return mergeOrdered(items, fixed, placements, flowOrigIdx[:len(placed)]), overflowItems, nil
}

// mergeOrdered reassembles fixed (caller-positioned) and flow placements back into the
// original item order.
func mergeOrdered(items []entities.ContentItem, fixed []Placement, flowPlacements []Placement, flowOrigIdx []int) []Placement {
	out := make([]Placement, 0, len(items))
	byIdx := make(map[int]Placement, len(items))

	fixedCursor := 0
	for i, item := range items {
		if item.Position != nil {
			byIdx[i] = fixed[fixedCursor]
			fixedCursor++
		}
	}
	for j, origIdx := range flowOrigIdx {
		byIdx[origIdx] = flowPlacements[j]
	}
	for i := range items {
		if p, ok := byIdx[i]; ok {
			out = append(out, p)
		}
	}
	return out
}

// resolveTemplateSpec expands a LayoutSpec into a ResolvedTemplate, dispatching on Kind via
// an exhaustive switch rather than class inheritance. The Grid is built afterward, from the
// (possibly responsive-adapted) template's column count.
func resolveTemplateSpec(spec entities.LayoutSpec) (ResolvedTemplate, error) {
	switch spec.Kind {
	case "", entities.LayoutSingleColumn:
		return ResolveTemplate(entities.TemplateSingleColumn)

	case entities.LayoutDoubleColumn:
		return ResolveTemplate(entities.TemplateDoubleColumn)

	case entities.LayoutThreeColumn:
		return ResolveTemplate(entities.TemplateThreeColumn)

	case entities.LayoutTitleContent:
		return ResolveTemplate(entities.TemplateTitleContent)

	case entities.LayoutTemplate:
		return ResolveTemplate(spec.TemplateName)

	case entities.LayoutCustomGrid:
		return customGridTemplate(spec)

	default:
		return ResolvedTemplate{}, entities.NewDeckError(entities.ELayoutInvalid,
			"unsupported layout kind: "+string(spec.Kind))
	}
}

// customGridTemplate builds a ResolvedTemplate from a caller-declared CustomGrid, ordering
// areas alphabetically by name for determinism (the spec carries no inherent area order for
// a caller-supplied map).
func customGridTemplate(spec entities.LayoutSpec) (ResolvedTemplate, error) {
	if spec.Columns <= 0 || spec.Rows <= 0 || len(spec.Areas) == 0 {
		return ResolvedTemplate{}, entities.NewDeckError(entities.ELayoutInvalid,
			"custom grid requires columns, rows, and at least one area")
	}
	order := make([]string, 0, len(spec.Areas))
	for name := range spec.Areas {
		order = append(order, name)
	}
	sort.Strings(order)

	return ResolvedTemplate{Columns: spec.Columns, Rows: spec.Rows, Areas: spec.Areas, AreaOrder: order}, nil
}

// assignFlex lays flow items out using the Flex primitive within the slide's content box.
// Flex never overflows to a new slide: nowrap shrinks items proportionally, wrap adds lines.
func assignFlex(spec entities.LayoutSpec, slideW, slideH float64, margins entities.Margins, flow []entities.ContentItem) []Placement {
	if len(flow) == 0 {
		return nil
	}
	contentW := slideW - margins.Left - margins.Right
	contentH := slideH - margins.Top - margins.Bottom

	direction := spec.Direction
	if direction == "" {
		direction = entities.FlexRow
	}
	justify := spec.Justify
	if justify == "" {
		justify = entities.JustifyStart
	}
	align := spec.Align
	if align == "" {
		align = entities.AlignStretch
	}
	wrap := spec.FlexWrap
	if wrap == "" {
		wrap = entities.NoWrap
	}

	main, cross := contentW, contentH
	if direction == entities.FlexColumn {
		main, cross = contentH, contentW
	}

	n := float64(len(flow))
	basis := main / n
	items := make([]FlexItemSpec, len(flow))
	for i := range flow {
		items[i] = FlexItemSpec{Basis: basis, Grow: 1, Shrink: 1, CrossSize: cross}
	}

	boxes := Flex(margins.Left, margins.Top, main, cross, direction, justify, align, wrap, items, defaultGutter/2)

	placements := make([]Placement, len(flow))
	for i, item := range flow {
		placements[i] = Placement{Item: item, Box: boxes[i]}
	}
	return placements
}
