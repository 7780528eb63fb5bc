package layout

import "github.com/deckforge/deckforge/internal/domain/entities"

// FlexItemSpec is a single flex item's sizing intent, on the main axis. CrossSize is the
// item's natural extent on the cross axis; Fixed items never grow or shrink past Basis.
type FlexItemSpec struct {
	Basis     float64
	Grow      float64
	Shrink    float64
	CrossSize float64
	Fixed     bool
}

// flexLine is one wrapped row (direction=row) or column (direction=column) of items.
type flexLine struct {
	items     []FlexItemSpec
	indices   []int
	mainTotal float64
	crossSize float64
}

// Flex lays out items along direction within a container of the given origin and
// main/cross extent, honouring justify/align/wrap, and returns one AbsoluteBox per item in
// input order, in absolute slide coordinates.
func Flex(originX, originY, containerMain, containerCross float64, direction entities.FlexDirection,
	justify entities.FlexJustify, align entities.FlexAlign, wrap entities.FlexWrap,
	items []FlexItemSpec, gap float64) []entities.AbsoluteBox {

	lines := packLines(items, containerMain, wrap, gap)

	boxes := make([]entities.AbsoluteBox, len(items))
	crossOffset := 0.0

	for _, line := range lines {
		sizes := resolveMainSizes(line, containerMain, gap)
		positions := positionMain(sizes, containerMain, justify, gap)
		lineCross := line.crossSize
		if wrap == entities.NoWrap && containerCross > lineCross {
			lineCross = containerCross
		}

		for i, idx := range line.indices {
			mainPos := positions[i]
			mainSize := sizes[i]
			crossPos, crossSize := resolveCross(line.items[i], lineCross, align)

			box := boxFor(direction, mainPos, crossOffset+crossPos, mainSize, crossSize)
			box.X += originX
			box.Y += originY
			boxes[idx] = box
		}
		crossOffset += lineCross + gap
	}
	return boxes
}

func packLines(items []FlexItemSpec, containerMain float64, wrap entities.FlexWrap, gap float64) []flexLine {
	if wrap == entities.NoWrap || len(items) == 0 {
		return []flexLine{buildLine(items, rangeOf(len(items)))}
	}

	var lines []flexLine
	var cur []FlexItemSpec
	var curIdx []int
	var curMain float64

	for i, it := range items {
		next := curMain
		if len(cur) > 0 {
			next += gap
		}
		next += it.Basis
		if len(cur) > 0 && next > containerMain {
			lines = append(lines, buildLine(cur, curIdx))
			cur, curIdx, curMain = nil, nil, 0
			next = it.Basis
		}
		cur = append(cur, it)
		curIdx = append(curIdx, i)
		curMain = next
	}
	if len(cur) > 0 {
		lines = append(lines, buildLine(cur, curIdx))
	}
	return lines
}

func buildLine(items []FlexItemSpec, indices []int) flexLine {
	line := flexLine{items: items, indices: indices}
	for _, it := range items {
		line.mainTotal += it.Basis
		if it.CrossSize > line.crossSize {
			line.crossSize = it.CrossSize
		}
	}
	return line
}

func rangeOf(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

// resolveMainSizes distributes remaining free space (positive: grow, negative: shrink)
// across a line's items, returning each item's resolved main-axis size.
func resolveMainSizes(line flexLine, containerMain float64, gap float64) []float64 {
	n := len(line.items)
	sizes := make([]float64, n)
	basisTotal := 0.0
	for i, it := range line.items {
		sizes[i] = it.Basis
		basisTotal += it.Basis
	}
	gapTotal := gap * float64(maxInt(n-1, 0))
	free := containerMain - basisTotal - gapTotal

	if free > 0 {
		growTotal := 0.0
		for _, it := range line.items {
			if !it.Fixed {
				growTotal += it.Grow
			}
		}
		if growTotal > 0 {
			for i, it := range line.items {
				if !it.Fixed && it.Grow > 0 {
					sizes[i] += free * (it.Grow / growTotal)
				}
			}
		}
	} else if free < 0 {
		shrinkTotal := 0.0
		for _, it := range line.items {
			if !it.Fixed {
				shrinkTotal += it.Shrink * it.Basis
			}
		}
		if shrinkTotal > 0 {
			for i, it := range line.items {
				if !it.Fixed && it.Shrink > 0 {
					sizes[i] += free * (it.Shrink * it.Basis / shrinkTotal)
					if sizes[i] < 0 {
						sizes[i] = 0
					}
				}
			}
		}
	}
	return sizes
}

// positionMain computes each item's main-axis start offset, honouring justify for any
// space left over after grow/shrink have already consumed what they can.
func positionMain(sizes []float64, containerMain float64, justify entities.FlexJustify, gap float64) []float64 {
	n := len(sizes)
	positions := make([]float64, n)
	used := 0.0
	for _, s := range sizes {
		used += s
	}
	used += gap * float64(maxInt(n-1, 0))
	leftover := containerMain - used
	if leftover < 0 {
		leftover = 0
	}

	switch justify {
	case entities.JustifyCenter:
		pos := leftover / 2
		for i, s := range sizes {
			positions[i] = pos
			pos += s + gap
		}
	case entities.JustifyEnd:
		pos := leftover
		for i, s := range sizes {
			positions[i] = pos
			pos += s + gap
		}
	case entities.JustifySpaceBetween:
		extra := 0.0
		if n > 1 {
			extra = leftover / float64(n-1)
		}
		pos := 0.0
		for i, s := range sizes {
			positions[i] = pos
			pos += s + gap + extra
		}
	case entities.JustifySpaceAround:
		extra := leftover / float64(n)
		pos := extra / 2
		for i, s := range sizes {
			positions[i] = pos
			pos += s + gap + extra
		}
	case entities.JustifySpaceEvenly:
		extra := leftover / float64(n+1)
		pos := extra
		for i, s := range sizes {
			positions[i] = pos
			pos += s + gap + extra
		}
	default: // start
		pos := 0.0
		for i, s := range sizes {
			positions[i] = pos
			pos += s + gap
		}
	}
	return positions
}

func resolveCross(item FlexItemSpec, lineCross float64, align entities.FlexAlign) (pos, size float64) {
	switch align {
	case entities.AlignStretch:
		return 0, lineCross
	case entities.AlignCenter:
		return (lineCross - item.CrossSize) / 2, item.CrossSize
	case entities.AlignEnd:
		return lineCross - item.CrossSize, item.CrossSize
	default: // start
		return 0, item.CrossSize
	}
}

func boxFor(direction entities.FlexDirection, mainPos, crossPos, mainSize, crossSize float64) entities.AbsoluteBox {
	if direction == entities.FlexColumn {
		return entities.AbsoluteBox{X: crossPos, Y: mainPos, Width: crossSize, Height: mainSize}
	}
	return entities.AbsoluteBox{X: mainPos, Y: crossPos, Width: mainSize, Height: crossSize}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
