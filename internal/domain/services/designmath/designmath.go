// Package designmath implements the pure, deterministic numeric rules the rest of the
// system leans on for sizing, spacing, and accessibility. No function here performs I/O or
// touches mutable package state.
package designmath

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/deckforge/deckforge/internal/domain/entities"
)

// ViewingDistance is the caller-supplied audience-distance hint.
type ViewingDistance string

const (
	DistanceClose  ViewingDistance = "close"
	DistanceMedium ViewingDistance = "medium"
	DistanceFar    ViewingDistance = "far"
)

// Importance weights the emphasis of a single content item, independent of its kind.
type Importance string

const (
	ImportanceHigh   Importance = "high"
	ImportanceMedium Importance = "medium"
	ImportanceLow    Importance = "low"
)

// FontSizeInput carries every factor responsiveFontSize needs.
type FontSizeInput struct {
	BaseSize   int
	SlideW     float64
	SlideH     float64
	ContentLen int
	Distance   ViewingDistance
	Importance Importance
	Kind       entities.ContentKind
	Range      entities.FontRange
}

// accessibilityMinimum is the hard floor per content kind, independent of the theme's own range.
func accessibilityMinimum(kind entities.ContentKind) int {
	switch kind {
	case entities.KindTitle:
		return 28
	case entities.KindHeading:
		return 24
	case entities.KindCaption, entities.KindFootnote:
		return 16
	default:
		return 18
	}
}

func contentLengthFactor(n int) float64 {
	switch {
	case n <= 50:
		return 1.0
	case n <= 150:
		return 0.95
	case n <= 300:
		return 0.85
	default:
		return 0.75
	}
}

func distanceFactor(d ViewingDistance) float64 {
	switch d {
	case DistanceClose:
		return 0.9
	case DistanceFar:
		return 1.3
	default:
		return 1.0
	}
}

func importanceFactor(i Importance) float64 {
	switch i {
	case ImportanceHigh:
		return 1.15
	case ImportanceLow:
		return 0.9
	default:
		return 1.0
	}
}

// ResponsiveFontSize computes the pt size for a content item given slide dimensions, content
// length, audience distance, and emphasis, clamped to the kind's [min,max] range and the
// accessibility floor. Result is always a whole number of points.
func ResponsiveFontSize(in FontSizeInput) int {
	scale := math.Min(in.SlideW/entities.StandardSlideWidth, in.SlideH/entities.StandardSlideHeight)
	size := float64(in.BaseSize) * scale
	size *= contentLengthFactor(in.ContentLen)
	size *= distanceFactor(in.Distance)
	size *= importanceFactor(in.Importance)

	min := float64(in.Range.Min)
	max := float64(in.Range.Max)
	if floor := float64(accessibilityMinimum(in.Kind)); floor > min {
		min = floor
	}
	if size < min {
		size = min
	}
	if max > 0 && size > max {
		size = max
	}
	return int(math.Round(size))
}

// LineHeight computes the pt line height for a given font size and content kind.
func LineHeight(fontSize int, kind entities.ContentKind) float64 {
	ratio := baseLineHeightRatio(kind)
	if fontSize < 20 {
		ratio += 0.1
	}
	height := float64(fontSize) * ratio
	floor := 1.5 * float64(fontSize)
	if height < floor {
		height = floor
	}
	return height
}

func baseLineHeightRatio(kind entities.ContentKind) float64 {
	switch kind {
	case entities.KindTitle:
		return 1.2
	case entities.KindHeading, entities.KindSubheading:
		return 1.3
	case entities.KindCaption, entities.KindFootnote:
		return 1.5
	default:
		return 1.4
	}
}

// ResponsiveMargins computes the per-side margin in points for a slide of the given size.
func ResponsiveMargins(slideW, slideH float64) entities.Margins {
	scale := math.Min(slideW/entities.StandardSlideWidth, slideH/entities.StandardSlideHeight)
	base := clamp(32*scale, 8, 80)
	horizontal := clamp(base*1.3, 8, 80)
	return entities.Margins{Top: base, Bottom: base, Left: horizontal, Right: horizontal}
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// linearize converts a single sRGB channel (0-255) to its linear-light value per the WCAG formula.
func linearize(c uint8) float64 {
	cs := float64(c) / 255.0
	if cs <= 0.03928 {
		return cs / 12.92
	}
	return math.Pow((cs+0.055)/1.055, 2.4)
}

// relativeLuminance computes the WCAG relative luminance of an #RRGGBB colour.
func relativeLuminance(r, g, b uint8) float64 {
	return 0.2126*linearize(r) + 0.7152*linearize(g) + 0.0722*linearize(b)
}

// ContrastRatio computes the WCAG contrast ratio between two #RRGGBB colours.
func ContrastRatio(fg, bg string) (float64, error) {
	fr, fg2, fb, err := parseHexColor(fg)
	if err != nil {
		return 0, err
	}
	br, bgc, bb, err := parseHexColor(bg)
	if err != nil {
		return 0, err
	}
	l1 := relativeLuminance(fr, fg2, fb) + 0.05
	l2 := relativeLuminance(br, bgc, bb) + 0.05
	if l1 < l2 {
		l1, l2 = l2, l1
	}
	return l1 / l2, nil
}

// ContrastResult is the outcome of validateContrast.
type ContrastResult struct {
	Ratio          float64
	PassesAA       bool
	PassesAAA      bool
	LargeText      bool
	Recommendation string
}

// ValidateContrast evaluates a foreground/background pairing at a given font size against
// WCAG AA/AAA, applying the "large text" threshold (≥18pt, or ≥14pt bold).
func ValidateContrast(fg, bg string, fontSize int, bold bool) (ContrastResult, error) {
	ratio, err := ContrastRatio(fg, bg)
	if err != nil {
		return ContrastResult{}, err
	}
	large := fontSize >= 18 || (fontSize >= 14 && bold)

	aaThreshold := 4.5
	aaaThreshold := 7.0
	if large {
		aaThreshold = 3.0
		aaaThreshold = 4.5
	}

	result := ContrastResult{
		Ratio:     ratio,
		PassesAA:  ratio >= aaThreshold,
		PassesAAA: ratio >= aaaThreshold,
		LargeText: large,
	}
	if !result.PassesAA {
		result.Recommendation = fmt.Sprintf("contrast ratio %.2f fails WCAG AA (needs %.1f); darken the foreground or lighten the background", ratio, aaThreshold)
	}
	return result, nil
}

// parseHexColor parses a strict "#RRGGBB" string, failing with EInvalidColor on any other form.
func parseHexColor(s string) (r, g, b uint8, err error) {
	if len(s) != 7 || s[0] != '#' {
		return 0, 0, 0, entities.NewDeckError(entities.EInvalidColor, fmt.Sprintf("colour %q must be in #RRGGBB form", s))
	}
	hex := strings.ToLower(s[1:])
	for _, c := range hex {
		if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f')) {
			return 0, 0, 0, entities.NewDeckError(entities.EInvalidColor, fmt.Sprintf("colour %q contains invalid hex digits", s))
		}
	}
	rv, _ := strconv.ParseUint(hex[0:2], 16, 8)
	gv, _ := strconv.ParseUint(hex[2:4], 16, 8)
	bv, _ := strconv.ParseUint(hex[4:6], 16, 8)
	return uint8(rv), uint8(gv), uint8(bv), nil
}

// ParseHexColor exposes the hex-colour parser to other packages that need strict validation
// without computing a contrast ratio (e.g. the validator and the palette derivation).
func ParseHexColor(s string) (r, g, b uint8, err error) {
	return parseHexColor(s)
}
