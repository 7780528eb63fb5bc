package validator

import (
	"html"

	"github.com/microcosm-cc/bluemonday"
)

// stripPolicy removes every HTML tag from a string while decoding entities, leaving plain
// text. Every caller-supplied string field passes through this before reaching downstream
// components.
var stripPolicy = bluemonday.StrictPolicy()

func sanitizeText(s string) string {
	return html.UnescapeString(stripPolicy.Sanitize(s))
}
