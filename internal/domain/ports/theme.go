package ports

import (
	"github.com/deckforge/deckforge/internal/domain/entities"
)

// ThemeRegistry manages the process-lifetime set of themes: built-ins seeded at
// startup plus custom themes registered at runtime.
type ThemeRegistry interface {
	// Register adds a new custom theme. Fails with EThemeExists if the id is taken.
	Register(theme entities.Theme) (entities.Theme, error)

	// Get retrieves a theme by id. Fails with EThemeNotFound if absent.
	Get(id string) (entities.Theme, error)

	// List returns every registered theme, built-in and custom.
	List() []entities.Theme

	// Delete removes a custom theme. Fails with EThemeImmutable for a builtin id.
	Delete(id string) error

	// Clone copies an existing theme under a new id, deep-merging override over it.
	// Used to realise a DeckSpec.ThemeRef.Override against the active theme.
	Clone(sourceID string, override map[string]any) (entities.Theme, error)

	// SetActive marks a theme as the process-wide default.
	SetActive(id string) error

	// GetActive returns the currently active theme.
	GetActive() entities.Theme

	// Export produces the canonical JSON representation of a theme.
	Export(id string) (string, error)

	// Import parses and registers a canonical theme JSON blob under a fresh id.
	Import(data string) (entities.Theme, error)

	// ResolveStyle resolves a TextStyle against the given theme's font hierarchy and
	// palette for the given content kind and slide context, filling any unset fields.
	ResolveStyle(theme entities.Theme, kind entities.ContentKind, style *entities.TextStyle, slideW, slideH float64, contentLen int) (entities.ResolvedTextStyle, error)
}
