package render

import (
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// PlainText is the language name used when no lexer applies.
const PlainText = "plaintext"

// DetectLanguages is the allow-list that language detection scores against
// when a fence has no tag or an unknown tag.
var DetectLanguages = []string{
	"javascript", "typescript", "python", "java", "cpp", "c",
	"html", "css", "json", "xml", "bash", "sql", "php", "go", "rust",
}

// Highlighter renders code to class-annotated HTML spans using chroma.
type Highlighter struct {
	formatter  *chromahtml.Formatter
	style      *chroma.Style
	candidates []candidate
}

type candidate struct {
	name  string
	lexer chroma.Lexer
}

// NewHighlighter creates a highlighter using the named chroma style.
// Unknown style names fall back to chroma's default style.
func NewHighlighter(styleName string) *Highlighter {
	h := &Highlighter{
		formatter: chromahtml.New(
			chromahtml.WithClasses(true),
			chromahtml.PreventSurroundingPre(true),
		),
		style: styles.Get(styleName),
	}
	for _, name := range DetectLanguages {
		if l := lexers.Get(name); l != nil {
			h.candidates = append(h.candidates, candidate{name: name, lexer: l})
		}
	}
	return h
}

// Resolve picks the lexer for a fence. A tag naming a known lexer wins;
// otherwise the allow-list is scored with each lexer's analyser and the
// best positive score is used. Returns PlainText when nothing matches.
func (h *Highlighter) Resolve(tag, code string) (string, chroma.Lexer) {
	tag = strings.TrimSpace(tag)
	if tag != "" {
		if l := lexers.Get(tag); l != nil {
			return tag, l
		}
	}
	return h.Detect(code)
}

// Detect scores code against the allow-list only.
func (h *Highlighter) Detect(code string) (string, chroma.Lexer) {
	bestName, bestLexer := PlainText, lexers.Fallback
	var bestScore float32
	for _, c := range h.candidates {
		if score := c.lexer.AnalyseText(code); score > bestScore {
			bestName, bestLexer, bestScore = c.name, c.lexer, score
		}
	}
	return bestName, bestLexer
}

// Highlight returns highlighted HTML for code and the language used.
func (h *Highlighter) Highlight(code, tag string) (string, string, error) {
	lang, lexer := h.Resolve(tag, code)

	iterator, err := chroma.Coalesce(lexer).Tokenise(nil, code)
	if err != nil {
		return "", lang, fmt.Errorf("tokenise %s: %w", lang, err)
	}

	var b strings.Builder
	if err := h.formatter.Format(&b, h.style, iterator); err != nil {
		return "", lang, fmt.Errorf("format %s: %w", lang, err)
	}
	return b.String(), lang, nil
}

// CSS returns the stylesheet for the highlighter's style, matching the
// class names Highlight emits.
func (h *Highlighter) CSS() (string, error) {
	var b strings.Builder
	if err := h.formatter.WriteCSS(&b, h.style); err != nil {
		return "", fmt.Errorf("write css: %w", err)
	}
	return b.String(), nil
}

// StyleName returns the chroma style name in use.
func (h *Highlighter) StyleName() string { return h.style.Name }
