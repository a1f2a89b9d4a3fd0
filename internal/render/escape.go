package render

import "strings"

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

// EscapeHTML escapes the five HTML special characters.
func EscapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}

// EscapeParagraph wraps the escaped text in a single paragraph. This is the
// last-resort output when every converter stage failed; it cannot fail.
func EscapeParagraph(text string) string {
	return "<p>" + EscapeHTML(text) + "</p>"
}
