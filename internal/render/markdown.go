package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"
)

// Markdown is the full-featured converter stage: goldmark with GFM, hard
// line breaks, raw HTML passthrough and highlighted fenced code.
type Markdown struct {
	md goldmark.Markdown
}

// NewMarkdown creates the goldmark stage using h for fenced code.
func NewMarkdown(h *Highlighter) *Markdown {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
			html.WithUnsafe(),
			renderer.WithNodeRenderers(
				util.Prioritized(&codeBlockRenderer{highlighter: h}, 100),
			),
		),
	)
	return &Markdown{md: md}
}

// Name implements Converter.
func (m *Markdown) Name() string { return "goldmark" }

// Convert implements Converter.
func (m *Markdown) Convert(text string) (string, error) {
	var buf bytes.Buffer
	if err := m.md.Convert([]byte(text), &buf); err != nil {
		return "", fmt.Errorf("convert: %w", err)
	}
	return buf.String(), nil
}

// codeBlockRenderer replaces goldmark's fenced code output with chroma
// highlighted markup.
type codeBlockRenderer struct {
	highlighter *Highlighter
}

// RegisterFuncs implements renderer.NodeRenderer.
func (r *codeBlockRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindFencedCodeBlock, r.renderFencedCodeBlock)
}

func (r *codeBlockRenderer) renderFencedCodeBlock(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*ast.FencedCodeBlock)

	var code strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		code.Write(line.Value(source))
	}
	body := strings.TrimSpace(code.String())
	tag := string(n.Language(source))

	highlighted, lang, err := r.highlighter.Highlight(body, tag)
	if err != nil {
		// Highlighting is best-effort; the escaped source is still valid output.
		highlighted = EscapeHTML(body)
	}

	fmt.Fprintf(w, `<pre><code class="hljs language-%s">%s</code></pre>`+"\n", EscapeHTML(lang), highlighted)
	return ast.WalkSkipChildren, nil
}
