package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deckforge/deckforge/internal/domain/entities"
)

func TestResolveTemplate_AllNamed(t *testing.T) {
	names := []entities.TemplateName{
		entities.TemplateSingleColumn, entities.TemplateDoubleColumn, entities.TemplateThreeColumn,
		entities.TemplateTitleContent, entities.TemplateHeroContent, entities.TemplateSidebarMain,
		entities.TemplateFeatureShowcase, entities.TemplateDashboard,
	}
	for _, name := range names {
		name := name
		t.Run(string(name), func(t *testing.T) {
			tmpl, err := ResolveTemplate(name)
			require.NoError(t, err)
			assert.NotEmpty(t, tmpl.AreaOrder)
			assert.Len(t, tmpl.Areas, len(tmpl.AreaOrder))
			assert.Greater(t, tmpl.Columns, 0)
			assert.Greater(t, tmpl.Rows, 0)
		})
	}
}

func TestResolveTemplate_Unknown(t *testing.T) {
	_, err := ResolveTemplate("not-a-template")
	require.Error(t, err)
	assert.Equal(t, entities.ETemplateUnknown, entities.KindOf(err))
}

func TestResolveTemplate_HeroContentIsSixtyForty(t *testing.T) {
	tmpl, err := ResolveTemplate(entities.TemplateHeroContent)
	require.NoError(t, err)
	hero := tmpl.Areas["hero"]
	content := tmpl.Areas["content"]
	assert.Equal(t, hero.ColEnd, content.ColStart)
	assert.Equal(t, 6, hero.ColEnd-hero.ColStart)
	assert.Equal(t, 4, content.ColEnd-content.ColStart)
}

func TestResolveTemplate_SidebarMainIsThreeNine(t *testing.T) {
	tmpl, err := ResolveTemplate(entities.TemplateSidebarMain)
	require.NoError(t, err)
	sidebar := tmpl.Areas["sidebar"]
	main := tmpl.Areas["main"]
	assert.Equal(t, 3, sidebar.ColEnd-sidebar.ColStart)
	assert.Equal(t, 9, main.ColEnd-main.ColStart)
}

func TestResolveTemplate_DashboardIsFourQuadrants(t *testing.T) {
	tmpl, err := ResolveTemplate(entities.TemplateDashboard)
	require.NoError(t, err)
	assert.Len(t, tmpl.AreaOrder, 4)
}
