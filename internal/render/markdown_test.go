package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkdown_HighlightsFencedCode(t *testing.T) {
	md := NewMarkdown(NewHighlighter("github"))

	html, err := md.Convert("```go\nfunc main() {}\n```")
	require.NoError(t, err)

	assert.Contains(t, html, `<pre><code class="hljs language-go">`)
	assert.Contains(t, html, "<span", "chroma emits class spans")
}

func TestMarkdown_HardWraps(t *testing.T) {
	md := NewMarkdown(NewHighlighter("github"))

	html, err := md.Convert("one\ntwo")
	require.NoError(t, err)
	assert.Contains(t, html, "<br")
}

func TestMarkdown_GFMTable(t *testing.T) {
	md := NewMarkdown(NewHighlighter("github"))

	html, err := md.Convert("| a | b |\n|---|---|\n| 1 | 2 |")
	require.NoError(t, err)
	assert.Contains(t, html, "<table>")
}

func TestHighlighter_Resolve(t *testing.T) {
	h := NewHighlighter("github")

	lang, _ := h.Resolve("python", "print(1)")
	assert.Equal(t, "python", lang)

	lang, _ = h.Resolve("", "#!/bin/bash\necho hi")
	assert.Equal(t, "bash", lang)

	lang, _ = h.Resolve("no-such-language", "just some words")
	assert.Equal(t, PlainText, lang)
}

func TestHighlighter_HighlightEscapes(t *testing.T) {
	h := NewHighlighter("github")

	html, lang, err := h.Highlight("a < b", "")
	require.NoError(t, err)
	assert.Equal(t, PlainText, lang)
	assert.Contains(t, html, "&lt;")
	assert.NotContains(t, html, "a < b")
}

func TestHighlighter_CSS(t *testing.T) {
	h := NewHighlighter("dracula")
	assert.Equal(t, "dracula", h.StyleName())

	css, err := h.CSS()
	require.NoError(t, err)
	assert.Contains(t, css, ".chroma")
}
