// Package themestore persists custom themes as one canonical-JSON file per theme id under a
// configured directory. Built-in themes are never written here; the registry seeds them at
// startup and this store only ever sees caller-registered custom themes.
package themestore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/deckforge/deckforge/internal/domain/entities"
	"github.com/deckforge/deckforge/internal/domain/ports"
)

// Store is a filesystem-backed ports.ThemeStore.
type Store struct {
	dir string
	fs  ports.FileSystem
}

// New constructs a Store rooted at dir, using fs for every filesystem operation (defaults to
// ports.RealFileSystem when fs is nil).
func New(dir string, fs ports.FileSystem) *Store {
	if fs == nil {
		fs = ports.NewRealFileSystem()
	}
	return &Store{dir: dir, fs: fs}
}

var _ ports.ThemeStore = (*Store)(nil)

// Save writes a theme's canonical JSON representation, creating the store directory on
// first use.
func (s *Store) Save(ctx context.Context, theme entities.Theme) error {
	path, err := s.pathFor(theme.ID)
	if err != nil {
		return err
	}
	if err := s.ensureDir(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(theme, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding theme %q: %w", theme.ID, err)
	}
	// 0600: custom theme files may carry palette overrides the caller considers proprietary.
	if err := s.fs.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing theme %q to %s: %w", theme.ID, path, err)
	}
	return nil
}

// Load reads a previously saved theme by id.
func (s *Store) Load(ctx context.Context, id string) (entities.Theme, error) {
	path, err := s.pathFor(id)
	if err != nil {
		return entities.Theme{}, err
	}

	data, err := s.fs.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return entities.Theme{}, entities.NewDeckError(entities.EThemeNotFound, fmt.Sprintf("theme %q not found", id))
		}
		return entities.Theme{}, fmt.Errorf("reading theme %q from %s: %w", id, path, err)
	}

	var theme entities.Theme
	if err := json.Unmarshal(data, &theme); err != nil {
		return entities.Theme{}, fmt.Errorf("parsing theme %q from %s: %w", id, path, err)
	}
	return theme, nil
}

// List returns the ids of all persisted themes.
func (s *Store) List(ctx context.Context) ([]string, error) {
	if !s.fs.Exists(s.dir) {
		return nil, nil
	}

	var ids []string
	err := s.fs.Walk(s.dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || filepath.Ext(path) != ".json" {
			return nil
		}
		ids = append(ids, strings.TrimSuffix(filepath.Base(path), ".json"))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing themes in %s: %w", s.dir, err)
	}
	return ids, nil
}

// Delete removes a persisted theme. A no-op if it does not exist.
func (s *Store) Delete(ctx context.Context, id string) error {
	path, err := s.pathFor(id)
	if err != nil {
		return err
	}
	if err := s.fs.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("deleting theme %q at %s: %w", id, path, err)
	}
	return nil
}

// pathFor maps a theme id to its on-disk path, rejecting ids that would escape the store
// directory.
func (s *Store) pathFor(id string) (string, error) {
	if id == "" || strings.ContainsAny(id, "/\\") || id == "." || id == ".." {
		return "", entities.NewDeckError(entities.EValidation, fmt.Sprintf("invalid theme id %q", id))
	}
	return filepath.Join(s.dir, id+".json"), nil
}

// ensureDir creates the store directory with restricted permissions if it does not exist.
func (s *Store) ensureDir() error {
	if err := s.fs.MkdirAll(s.dir, 0o750); err != nil {
		return fmt.Errorf("creating theme store directory %s: %w", s.dir, err)
	}
	return nil
}
