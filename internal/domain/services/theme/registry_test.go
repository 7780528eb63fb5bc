package theme

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deckforge/deckforge/internal/domain/entities"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	r, err := NewRegistry(Builtins())
	require.NoError(t, err)
	return r
}

func TestNewRegistry(t *testing.T) {
	r := newTestRegistry(t)
	assert.Equal(t, "default", r.GetActive().ID)
	assert.Len(t, r.List(), 2)
}

func TestRegistry_Register(t *testing.T) {
	t.Run("assigns an id and forces builtin false", func(t *testing.T) {
		r := newTestRegistry(t)
		theme := defaultTheme()
		theme.ID = ""
		theme.Builtin = true

		got, err := r.Register(theme)
		require.NoError(t, err)
		assert.NotEmpty(t, got.ID)
		assert.False(t, got.Builtin)
	})

	t.Run("duplicate id fails", func(t *testing.T) {
		r := newTestRegistry(t)
		theme := defaultTheme()
		theme.ID = "default"

		_, err := r.Register(theme)
		require.Error(t, err)
		assert.Equal(t, entities.EThemeExists, entities.KindOf(err))
	})

	t.Run("bad palette fails accessibility", func(t *testing.T) {
		r := newTestRegistry(t)
		theme := defaultTheme()
		theme.ID = "low-contrast"
		theme.Palette.Text = "#EEEEEE"
		theme.Palette.Background = "#FFFFFF"

		_, err := r.Register(theme)
		require.Error(t, err)
		assert.Equal(t, entities.EAccessibility, entities.KindOf(err))
	})

	t.Run("marginal contrast passes at large body size but fails at caption size", func(t *testing.T) {
		r := newTestRegistry(t)
		theme := defaultTheme()
		theme.ID = "marginal-caption-contrast"
		// #949494 on white is ~3.03:1: above the 3:1 large-text threshold the 20pt body
		// default clears, but below the 4.5:1 normal-text threshold the 16pt caption
		// default requires. A per-kind check must still reject this palette.
		theme.Palette.TextSecondary = "#949494"
		theme.Palette.Background = "#FFFFFF"
		theme.Palette.Surface = "#FFFFFF"

		_, err := r.Register(theme)
		require.Error(t, err)
		assert.Equal(t, entities.EAccessibility, entities.KindOf(err))
	})
}

func TestRegistry_GetList(t *testing.T) {
	r := newTestRegistry(t)

	_, err := r.Get("does-not-exist")
	require.Error(t, err)
	assert.Equal(t, entities.EThemeNotFound, entities.KindOf(err))

	got, err := r.Get("dark")
	require.NoError(t, err)
	assert.Equal(t, "Dark", got.Name)
}

func TestRegistry_Delete(t *testing.T) {
	t.Run("builtin cannot be deleted", func(t *testing.T) {
		r := newTestRegistry(t)
		err := r.Delete("default")
		require.Error(t, err)
		assert.Equal(t, entities.EThemeImmutable, entities.KindOf(err))
	})

	t.Run("custom theme can be deleted", func(t *testing.T) {
		r := newTestRegistry(t)
		custom, err := r.Register(withID(defaultTheme(), "custom"))
		require.NoError(t, err)

		require.NoError(t, r.Delete(custom.ID))
		_, err = r.Get(custom.ID)
		assert.Error(t, err)
	})

	t.Run("deleting the active theme reassigns active", func(t *testing.T) {
		r := newTestRegistry(t)
		custom, err := r.Register(withID(defaultTheme(), "custom"))
		require.NoError(t, err)
		require.NoError(t, r.SetActive(custom.ID))

		require.NoError(t, r.Delete(custom.ID))
		assert.NotEqual(t, custom.ID, r.GetActive().ID)
	})
}

func TestRegistry_Clone(t *testing.T) {
	t.Run("clone without override copies the source", func(t *testing.T) {
		r := newTestRegistry(t)
		cloned, err := r.Clone("default", nil)
		require.NoError(t, err)
		assert.NotEqual(t, "default", cloned.ID)
		assert.False(t, cloned.Builtin)
		assert.Equal(t, "Default", cloned.Name)
	})

	t.Run("clone with override patches palette", func(t *testing.T) {
		r := newTestRegistry(t)
		cloned, err := r.Clone("default", map[string]any{
			"palette": map[string]any{"primary": "#FF5722"},
		})
		require.NoError(t, err)
		assert.Equal(t, "#FF5722", cloned.Palette.Primary)
		assert.Equal(t, "#FFFFFF", cloned.Palette.Background) // untouched fields survive
	})

	t.Run("clone of unknown source fails", func(t *testing.T) {
		r := newTestRegistry(t)
		_, err := r.Clone("nope", nil)
		require.Error(t, err)
		assert.Equal(t, entities.EThemeNotFound, entities.KindOf(err))
	})

	t.Run("clone with inaccessible override fails", func(t *testing.T) {
		r := newTestRegistry(t)
		_, err := r.Clone("default", map[string]any{
			"palette": map[string]any{"text": "#FEFEFE"},
		})
		require.Error(t, err)
		assert.Equal(t, entities.EAccessibility, entities.KindOf(err))
	})
}

func TestRegistry_SetActiveGetActive(t *testing.T) {
	r := newTestRegistry(t)

	require.NoError(t, r.SetActive("dark"))
	assert.Equal(t, "dark", r.GetActive().ID)

	err := r.SetActive("nope")
	require.Error(t, err)
	assert.Equal(t, entities.EThemeNotFound, entities.KindOf(err))
}

func TestRegistry_ExportImport(t *testing.T) {
	r := newTestRegistry(t)

	exported, err := r.Export("default")
	require.NoError(t, err)
	assert.Contains(t, exported, `"id": "default"`)

	imported, err := r.Import(exported)
	require.NoError(t, err)
	assert.NotEqual(t, "default", imported.ID)
	assert.False(t, imported.Builtin)

	_, err = r.Get(imported.ID)
	require.NoError(t, err)
}

func TestRegistry_ResolveStyle(t *testing.T) {
	r := newTestRegistry(t)
	active := r.GetActive()

	t.Run("unset style resolves from theme", func(t *testing.T) {
		resolved, err := r.ResolveStyle(active, entities.KindBody, nil, 960, 540, 50)
		require.NoError(t, err)
		assert.Equal(t, active.Fonts.FontFamily, resolved.FontFamily)
		assert.Equal(t, active.Palette.Text, resolved.Color)
		assert.Greater(t, resolved.FontSize, 0)
		assert.Greater(t, resolved.LineHeight, 0.0)
	})

	t.Run("explicit style overrides win", func(t *testing.T) {
		style := &entities.TextStyle{FontFamily: "Georgia", Color: "#112233", Bold: true}
		resolved, err := r.ResolveStyle(active, entities.KindBody, style, 960, 540, 50)
		require.NoError(t, err)
		assert.Equal(t, "Georgia", resolved.FontFamily)
		assert.Equal(t, "#112233", resolved.Color)
		assert.True(t, resolved.Bold)
	})

	t.Run("invalid override colour fails", func(t *testing.T) {
		style := &entities.TextStyle{Color: "not-a-colour"}
		_, err := r.ResolveStyle(active, entities.KindBody, style, 960, 540, 50)
		require.Error(t, err)
		assert.Equal(t, entities.EInvalidColor, entities.KindOf(err))
	})
}

func withID(t entities.Theme, id string) entities.Theme {
	t.ID = id
	return t
}
