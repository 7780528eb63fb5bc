// Package theme implements the Theme Registry: the single process-lifetime piece of
// mutable state shared across calls to generate(). Writes are serialised behind a
// sync.RWMutex exactly as the teacher's theme cache guards its map; readers never block
// each other.
package theme

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/deckforge/deckforge/internal/domain/entities"
	"github.com/deckforge/deckforge/internal/domain/ports"
	"github.com/deckforge/deckforge/internal/domain/services/designmath"
)

// Registry is the stateful theme service: Register/Get/List/Delete/Clone/SetActive/
// GetActive/Export/Import/ResolveStyle, exactly the operation set the orchestrator and
// the theme-management CLI subcommand depend on.
type Registry struct {
	mu       sync.RWMutex
	themes   map[string]entities.Theme
	activeID string
}

// NewRegistry seeds the registry with the given built-in themes. The first theme becomes
// the initial active theme.
func NewRegistry(builtins []entities.Theme) (*Registry, error) {
	r := &Registry{themes: make(map[string]entities.Theme, len(builtins))}
	for i, t := range builtins {
		t.Builtin = true
		if err := validateAccessibility(t); err != nil {
			return nil, fmt.Errorf("builtin theme %q: %w", t.ID, err)
		}
		r.themes[t.ID] = t
		if i == 0 {
			r.activeID = t.ID
		}
	}
	return r, nil
}

// Register adds a new custom theme. The caller cannot set Builtin; it is always forced
// to false here. Duplicate ids fail with EThemeExists; invariant violations fail with
// EAccessibility.
func (r *Registry) Register(t entities.Theme) (entities.Theme, error) {
	if t.ID == "" {
		t.ID = entities.NewID("theme")
	}
	t.Builtin = false

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.themes[t.ID]; exists {
		return entities.Theme{}, entities.NewDeckError(entities.EThemeExists, fmt.Sprintf("theme %q already exists", t.ID))
	}
	if err := validateAccessibility(t); err != nil {
		return entities.Theme{}, err
	}
	r.themes[t.ID] = t
	return t, nil
}

// Get retrieves a theme by id.
func (r *Registry) Get(id string) (entities.Theme, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.themes[id]
	if !ok {
		return entities.Theme{}, entities.NewDeckError(entities.EThemeNotFound, fmt.Sprintf("theme %q not found", id))
	}
	return t, nil
}

// List returns every registered theme, built-in and custom, in no particular order.
func (r *Registry) List() []entities.Theme {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]entities.Theme, 0, len(r.themes))
	for _, t := range r.themes {
		out = append(out, t)
	}
	return out
}

// Delete removes a custom theme. Deleting a built-in fails with EThemeImmutable.
func (r *Registry) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.themes[id]
	if !ok {
		return entities.NewDeckError(entities.EThemeNotFound, fmt.Sprintf("theme %q not found", id))
	}
	if t.Builtin {
		return entities.NewDeckError(entities.EThemeImmutable, fmt.Sprintf("theme %q is built-in and cannot be deleted", id))
	}
	delete(r.themes, id)
	if r.activeID == id {
		r.activeID = firstThemeID(r.themes)
	}
	return nil
}

func firstThemeID(themes map[string]entities.Theme) string {
	for id := range themes {
		return id
	}
	return ""
}

// Clone copies an existing theme under a new id, deep-merging a JSON-style override into
// its palette/font/spacing fields (nested objects are merged key by key, not replaced). Used when a DeckSpec supplies a
// ThemeRef.Override instead of an id.
func (r *Registry) Clone(sourceID string, override map[string]any) (entities.Theme, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	src, ok := r.themes[sourceID]
	if !ok {
		return entities.Theme{}, entities.NewDeckError(entities.EThemeNotFound, fmt.Sprintf("theme %q not found", sourceID))
	}

	cloned, err := applyOverride(src, override)
	if err != nil {
		return entities.Theme{}, err
	}
	cloned.ID = entities.NewID("theme")
	cloned.Builtin = false

	if err := validateAccessibility(cloned); err != nil {
		return entities.Theme{}, err
	}
	r.themes[cloned.ID] = cloned
	return cloned, nil
}

// applyOverride re-marshals the source theme, merges the override map over it field by
// field via JSON, and unmarshals back into a Theme. This mirrors the canonical-JSON
// round trip used by Export/Import, so overrides use the same wire shape callers see.
func applyOverride(src entities.Theme, override map[string]any) (entities.Theme, error) {
	if len(override) == 0 {
		return src, nil
	}
	base, err := json.Marshal(src)
	if err != nil {
		return entities.Theme{}, fmt.Errorf("marshal source theme: %w", err)
	}
	var merged map[string]any
	if err := json.Unmarshal(base, &merged); err != nil {
		return entities.Theme{}, fmt.Errorf("unmarshal source theme: %w", err)
	}
	for k, v := range override {
		mergeField(merged, k, v)
	}
	out, err := json.Marshal(merged)
	if err != nil {
		return entities.Theme{}, fmt.Errorf("marshal merged theme: %w", err)
	}
	var result entities.Theme
	if err := json.Unmarshal(out, &result); err != nil {
		return entities.Theme{}, fmt.Errorf("unmarshal merged theme: %w", err)
	}
	return result, nil
}

// mergeField merges a single override key into dst, deep-merging when both the
// existing value and the override are themselves objects.
func mergeField(dst map[string]any, key string, value any) {
	existing, ok := dst[key]
	if !ok {
		dst[key] = value
		return
	}
	existingMap, existingIsMap := existing.(map[string]any)
	valueMap, valueIsMap := value.(map[string]any)
	if existingIsMap && valueIsMap {
		for k, v := range valueMap {
			mergeField(existingMap, k, v)
		}
		dst[key] = existingMap
		return
	}
	dst[key] = value
}

// SetActive marks a theme as the process-wide default. Fails with EThemeNotFound if the
// id is unknown.
func (r *Registry) SetActive(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.themes[id]; !ok {
		return entities.NewDeckError(entities.EThemeNotFound, fmt.Sprintf("theme %q not found", id))
	}
	r.activeID = id
	return nil
}

// GetActive returns the currently active theme.
func (r *Registry) GetActive() entities.Theme {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.themes[r.activeID]
}

// Export produces the canonical JSON representation of a theme.
func (r *Registry) Export(id string) (string, error) {
	t, err := r.Get(id)
	if err != nil {
		return "", err
	}
	b, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal theme %q: %w", id, err)
	}
	return string(b), nil
}

// Import parses a canonical theme JSON blob, re-validates it, and registers it under a
// fresh id to avoid colliding with an existing theme.
func (r *Registry) Import(data string) (entities.Theme, error) {
	var t entities.Theme
	if err := json.Unmarshal([]byte(data), &t); err != nil {
		return entities.Theme{}, entities.Wrap(entities.EValidation, "invalid theme json", err)
	}
	t.ID = entities.NewID("theme")
	t.Builtin = false

	r.mu.Lock()
	defer r.mu.Unlock()
	if err := validateAccessibility(t); err != nil {
		return entities.Theme{}, err
	}
	r.themes[t.ID] = t
	return t, nil
}

// ResolveStyle merges a theme's font hierarchy and palette with a caller's style
// overrides for the given content kind, producing a fully-resolved style with no unset
// fields. Font size is computed via designmath.ResponsiveFontSize.
func (r *Registry) ResolveStyle(t entities.Theme, kind entities.ContentKind, style *entities.TextStyle, slideW, slideH float64, contentLen int) (entities.ResolvedTextStyle, error) {
	fontRange := t.Fonts.RangeFor(kind)

	resolved := entities.ResolvedTextStyle{
		FontFamily: t.Fonts.FontFamily,
		Color:      t.Palette.Text,
	}

	importance := designmath.ImportanceMedium
	if style != nil {
		if style.FontFamily != "" {
			resolved.FontFamily = style.FontFamily
		}
		if style.Color != "" {
			resolved.Color = style.Color
		}
		resolved.Bold = style.Bold
		resolved.Italic = style.Italic
	}

	baseSize := fontRange.Default
	if style != nil && style.FontSize != 0 {
		baseSize = style.FontSize
	}

	resolved.FontSize = designmath.ResponsiveFontSize(designmath.FontSizeInput{
		BaseSize:   baseSize,
		SlideW:     slideW,
		SlideH:     slideH,
		ContentLen: contentLen,
		Distance:   designmath.DistanceMedium,
		Importance: importance,
		Kind:       kind,
		Range:      fontRange,
	})

	if style != nil && style.LineHeight != 0 {
		resolved.LineHeight = style.LineHeight
	} else if ratio, ok := t.LineHeightRatios[kind]; ok {
		resolved.LineHeight = ratio * float64(resolved.FontSize)
	} else {
		resolved.LineHeight = designmath.LineHeight(resolved.FontSize, kind)
	}

	if _, _, _, err := designmath.ParseHexColor(resolved.Color); err != nil {
		return entities.ResolvedTextStyle{}, err
	}
	return resolved, nil
}

// accessibilityKinds are the content kinds checked for palette contrast: every
// {text|textSecondary} x {background|surface} pair must pass WCAG AA at each kind's own
// default font size, since the large-text 3:1 threshold only applies from 18pt (or 14pt
// bold) and a size that qualifies for one kind (e.g. title) does not excuse a smaller one
// (e.g. caption).
var accessibilityKinds = []entities.ContentKind{
	entities.KindTitle, entities.KindHeading, entities.KindSubheading,
	entities.KindBody, entities.KindCaption, entities.KindFootnote,
}

// validateAccessibility checks that every {text|textSecondary} x {background|surface}
// pair in the theme's palette passes WCAG AA at every content kind's own default font
// size, failing with EAccessibility naming the offending kind, pair, and ratio.
func validateAccessibility(t entities.Theme) error {
	pairs := []struct {
		name   string
		fg, bg string
	}{
		{"text/background", t.Palette.Text, t.Palette.Background},
		{"text/surface", t.Palette.Text, t.Palette.Surface},
		{"textSecondary/background", t.Palette.TextSecondary, t.Palette.Background},
		{"textSecondary/surface", t.Palette.TextSecondary, t.Palette.Surface},
	}
	for _, kind := range accessibilityKinds {
		size := t.Fonts.RangeFor(kind).Default
		for _, p := range pairs {
			result, err := designmath.ValidateContrast(p.fg, p.bg, size, false)
			if err != nil {
				return err
			}
			if !result.PassesAA {
				return entities.NewDeckError(entities.EAccessibility,
					fmt.Sprintf("palette pair %s (%s on %s) fails WCAG AA for %s text at %dpt: ratio %.2f",
						p.name, p.fg, p.bg, kind, size, result.Ratio))
			}
		}
	}
	return nil
}

// Ensure Registry implements ports.ThemeRegistry.
var _ ports.ThemeRegistry = (*Registry)(nil)
