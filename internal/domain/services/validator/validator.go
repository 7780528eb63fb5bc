// Package validator checks and sanitises every caller-supplied DeckSpec before it reaches
// the orchestrator. Every field is checked for required/optional, type, range, enum
// membership, and format; strings are HTML-stripped. A validator never mutates its input —
// it produces a sanitised copy that downstream components can trust without re-checking.
package validator

import (
	"fmt"
	"strings"

	"github.com/deckforge/deckforge/internal/domain/entities"
)

// Result is the outcome of validating one DeckSpec: ok is false on any fatal (schema/range/
// enum) violation, in which case Value is the zero DeckSpec and callers must not proceed.
// Warnings never block generation; they are carried through to the final DeckResult.
type Result struct {
	OK       bool
	Value    entities.DeckSpec
	Errors   []string
	Warnings []string
}

// ValidateDeck validates and sanitises a DeckSpec against the configured limits, returning
// a Result whose Value is safe for the orchestrator to consume without further checks.
func ValidateDeck(spec entities.DeckSpec, limits entities.LimitsConfig) Result {
	r := &Result{OK: true}

	title := strings.TrimSpace(spec.Title)
	switch {
	case title == "":
		r.fail("title is required")
	case len(title) > 200:
		r.fail("title exceeds 200 characters")
	}
	spec.Title = sanitizeText(title)

	if len(spec.Slides) == 0 {
		r.fail("deck must contain at least one slide")
	}
	if max := limits.GetMaxSlides(); len(spec.Slides) > max {
		r.fail(fmt.Sprintf("deck has %d slides, exceeding the limit of %d", len(spec.Slides), max))
	}

	if spec.Theme != nil {
		validateThemeRef(r, *spec.Theme)
	}
	if spec.Layout != nil {
		validateLayoutSpec(r, *spec.Layout, "deck.layout")
	}

	slides := make([]entities.SlideSpec, len(spec.Slides))
	for i, slide := range spec.Slides {
		slides[i] = validateSlide(r, slide, limits, i)
	}
	spec.Slides = slides

	if r.OK {
		r.Value = spec
	}
	return *r
}

func validateSlide(r *Result, slide entities.SlideSpec, limits entities.LimitsConfig, index int) entities.SlideSpec {
	prefix := fmt.Sprintf("slides[%d]", index)

	slide.Title = sanitizeText(strings.TrimSpace(slide.Title))
	if len(slide.Title) > 200 {
		r.fail(prefix + ".title exceeds 200 characters")
	}

	if slide.Layout != nil {
		validateLayoutSpec(r, *slide.Layout, prefix+".layout")
	}

	if max := limits.GetMaxContentItemsPerSlide(); len(slide.Content) > max {
		r.fail(fmt.Sprintf("%s has %d content items, exceeding the limit of %d", prefix, len(slide.Content), max))
	}

	items := make([]entities.ContentItem, len(slide.Content))
	for i, item := range slide.Content {
		items[i] = validateContentItem(r, item, limits, fmt.Sprintf("%s.content[%d]", prefix, i))
	}
	slide.Content = items
	return slide
}

func validateThemeRef(r *Result, ref entities.ThemeRef) {
	if ref.ID == "" && len(ref.Override) == 0 {
		r.fail("theme reference must specify an id or an override")
	}
}

func validateLayoutSpec(r *Result, spec entities.LayoutSpec, path string) {
	switch spec.Kind {
	case "", entities.LayoutSingleColumn, entities.LayoutDoubleColumn, entities.LayoutThreeColumn,
		entities.LayoutTitleContent:
		// no further fields to check

	case entities.LayoutTemplate:
		if !validTemplateNames[spec.TemplateName] {
			// Not deck-fatal: ResolveTemplate re-checks this at generate time and
			// scopes the failure to the one affected slide (ETemplateUnknown).
			r.warn(fmt.Sprintf("%s: unknown template %q", path, spec.TemplateName))
		}

	case entities.LayoutCustomGrid:
		if spec.Columns <= 0 || spec.Rows <= 0 {
			r.fail(path + ": custom grid requires positive columns and rows")
		}
		if len(spec.Areas) == 0 {
			r.fail(path + ": custom grid requires at least one area")
		}

	case entities.LayoutFlex:
		if spec.Direction != "" && spec.Direction != entities.FlexRow && spec.Direction != entities.FlexColumn {
			r.fail(fmt.Sprintf("%s: invalid flex direction %q", path, spec.Direction))
		}

	default:
		r.fail(fmt.Sprintf("%s: invalid layout kind %q", path, spec.Kind))
	}
}

var validTemplateNames = map[entities.TemplateName]bool{
	entities.TemplateSingleColumn: true, entities.TemplateDoubleColumn: true,
	entities.TemplateThreeColumn: true, entities.TemplateTitleContent: true,
	entities.TemplateHeroContent: true, entities.TemplateSidebarMain: true,
	entities.TemplateFeatureShowcase: true, entities.TemplateDashboard: true,
}

func (r *Result) fail(msg string) {
	r.OK = false
	r.Errors = append(r.Errors, msg)
}

func (r *Result) warn(msg string) {
	r.Warnings = append(r.Warnings, msg)
}
