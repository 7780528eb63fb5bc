package mdtext

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRender_PlainTextPassesThrough(t *testing.T) {
	got := Render("Quarterly Review")
	assert.Equal(t, "Quarterly Review", got.Text)
	assert.False(t, got.Bold)
	assert.False(t, got.Italic)
}

func TestRender_WholeRunBoldSetsStyleFlag(t *testing.T) {
	got := Render("**Quarterly Review**")
	assert.Equal(t, "Quarterly Review", got.Text)
	assert.True(t, got.Bold)
	assert.False(t, got.Italic)
}

func TestRender_WholeRunItalicSetsStyleFlag(t *testing.T) {
	got := Render("_preliminary figures_")
	assert.Equal(t, "preliminary figures", got.Text)
	assert.True(t, got.Italic)
	assert.False(t, got.Bold)
}

func TestRender_PartialEmphasisDoesNotSetStyleFlag(t *testing.T) {
	got := Render("Revenue is **up** this quarter")
	assert.Equal(t, "Revenue is up this quarter", got.Text)
	assert.False(t, got.Bold)
	assert.False(t, got.Italic)
}

func TestRender_StripsEmbeddedHTML(t *testing.T) {
	got := Render("<script>alert(1)</script>Safe text")
	assert.NotContains(t, got.Text, "<script>")
	assert.Contains(t, got.Text, "Safe text")
}

func TestRender_EmptyStringReturnsEmpty(t *testing.T) {
	got := Render("")
	assert.Equal(t, "", got.Text)
}
