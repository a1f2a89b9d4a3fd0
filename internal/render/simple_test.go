package render

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimple_Golden(t *testing.T) {
	input := "# Title\n\n" +
		"Some **bold** and *italic* text\nwith a [link](https://example.com).\n\n" +
		"- one\n- two\n\n" +
		"> quoted <tag>\n\n" +
		"```go\nx := 1 < 2\n```\n"

	html, err := Simple{}.Convert(input)
	require.NoError(t, err)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "simple_document", []byte(html))
}

func TestSimple_Rules(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"h3", "### Deep", "<h3>Deep</h3>"},
		{"h2", "## Mid", "<h2>Mid</h2>"},
		{"ordered list drops numbers", "1. a\n2. b", "<ol><li>a</li><li>b</li></ol>"},
		{"star bullets", "* a\n* b", "<ul><li>a</li><li>b</li></ul>"},
		{"inline code is not formatted", "use `**x**` here", `<p>use <code class="hljs-inline">**x**</code> here</p>`},
		{"untagged fence", "```\nplain\n```", `<pre class="terminal-code-block"><code class="hljs language-plaintext" data-language="plaintext">plain</code></pre>`},
		{"paragraphs split on blank line", "a\n\nb", "<p>a</p>\n<p>b</p>"},
		{"multiline quote", "> a\n> b", "<blockquote>a<br>b</blockquote>"},
		{"html is escaped", `<script>alert("x")</script>`, "<p>&lt;script&gt;alert(&quot;x&quot;)&lt;/script&gt;</p>"},
		{"crlf", "a\r\nb", "<p>a<br>b</p>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Simple{}.Convert(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSimple_ListTypeSwitch(t *testing.T) {
	got, err := Simple{}.Convert("- a\n1. b")
	require.NoError(t, err)
	assert.Equal(t, "<ul><li>a</li></ul>\n<ol><li>b</li></ol>", got)
}

func TestSimple_PlaceholderRunesInInputAreDropped(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "existing inline index",
			input: "`a` then \uE0020\uE003",
			want:  `<p><code class="hljs-inline">a</code> then 0</p>`,
		},
		{
			name:  "mismatched delimiters",
			input: "`a` \uE0000\uE003",
			want:  `<p><code class="hljs-inline">a</code> 0</p>`,
		},
		{
			name:  "missing block index",
			input: "x \uE0005\uE001 y",
			want:  "<p>x 5 y</p>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			html, err := Simple{}.Convert(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, html)
		})
	}
}
