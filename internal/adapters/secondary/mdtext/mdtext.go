// Package mdtext renders the inline markdown authors use inside a hand-written deck spec's
// text content ("**Q3 results**", "_preliminary_") into a plain string plus the bold/italic
// flags a single run of ResolvedTextStyle can carry. It never emits HTML: the Slide API
// Client accepts one run of text per element, not rich spans, so a whole-content emphasis
// wrap sets the corresponding TextStyle flag and everything else is flattened to plain text.
package mdtext

import (
	"bytes"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"

	"github.com/deckforge/deckforge/internal/domain/ports"
)

var md = goldmark.New(
	goldmark.WithExtensions(extension.GFM, extension.Strikethrough),
	goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	goldmark.WithRendererOptions(html.WithHardWraps(), html.WithXHTML(), html.WithUnsafe()),
)

// stripPolicy removes any raw HTML a markdown source smuggled in (e.g. an inline <script>),
// leaving plain text behind — the same policy the validator applies to every caller string.
var stripPolicy = bluemonday.StrictPolicy()

// Rendered is the result of flattening one markdown content string.
type Rendered struct {
	Text   string
	Bold   bool
	Italic bool
}

// Render parses raw as inline markdown and flattens it to plain text. Bold/Italic is set
// only when the entire source is a single emphasis/strong run (e.g. "**Quarterly Review**"),
// matching the single flat TextStyle a content item can carry.
func Render(raw string) Rendered {
	if strings.TrimSpace(raw) == "" {
		return Rendered{Text: raw}
	}

	doc := md.Parser().Parse(text.NewReader([]byte(raw)))

	var buf bytes.Buffer
	if err := md.Renderer().Render(&buf, []byte(raw), doc); err != nil {
		return Rendered{Text: stripPolicy.Sanitize(raw)}
	}

	plain := strings.TrimSpace(stripPolicy.Sanitize(buf.String()))
	bold, italic := wholeRunEmphasis(doc)
	return Rendered{Text: plain, Bold: bold, Italic: italic}
}

// wholeRunEmphasis reports whether the document's sole content is a single Emphasis node
// (italic, goldmark level 1) or Strong node (bold, goldmark level 2) wrapping everything.
func wholeRunEmphasis(doc ast.Node) (bold, italic bool) {
	firstBlock := doc.FirstChild()
	if firstBlock == nil || firstBlock.NextSibling() != nil {
		return false, false
	}
	para, ok := firstBlock.(*ast.Paragraph)
	if !ok {
		return false, false
	}
	inline := para.FirstChild()
	if inline == nil || inline.NextSibling() != nil {
		return false, false
	}
	emph, ok := inline.(*ast.Emphasis)
	if !ok {
		return false, false
	}
	switch emph.Level {
	case 1:
		return false, true
	case 2:
		return true, false
	default:
		return false, false
	}
}

// RendererAdapter implements ports.MarkdownRenderer. "Sanitised HTML fragment" degenerates
// to Render's flattened plain text: a content item's TextStyle is a single flat run, so there
// is no span structure left for a caller of this port to consume beyond the text itself.
type RendererAdapter struct{}

// Render satisfies ports.MarkdownRenderer.
func (RendererAdapter) Render(source string) (string, error) {
	return Render(source).Text, nil
}

var _ ports.MarkdownRenderer = RendererAdapter{}
