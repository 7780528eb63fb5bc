package ports

import (
	"context"

	"github.com/deckforge/deckforge/internal/domain/entities"
)

// ThemeStore persists custom themes as the canonical theme JSON, one blob per theme id.
// The default implementation is filesystem-backed (one file per theme under a configured
// directory); built-in themes are never written here.
type ThemeStore interface {
	// Save writes a theme's canonical JSON representation, creating or overwriting it.
	Save(ctx context.Context, theme entities.Theme) error

	// Load reads a previously saved theme by id.
	Load(ctx context.Context, id string) (entities.Theme, error)

	// List returns the ids of all persisted themes.
	List(ctx context.Context) ([]string, error)

	// Delete removes a persisted theme. A no-op if it does not exist.
	Delete(ctx context.Context, id string) error
}
