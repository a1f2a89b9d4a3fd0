package render

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Placeholder delimiters for protected code regions. Private-use runes keep
// them out of the way of every later substitution rule. They are stripped
// from the input so only placeholders written by Convert carry them.
const (
	blockOpen   = "\uE000"
	blockClose  = "\uE001"
	inlineOpen  = "\uE002"
	inlineClose = "\uE003"
)

var (
	fenceRe       = regexp.MustCompile("(?s)```(\\w*)[ \\t]*\\n?(.*?)\\n?```")
	inlineCodeRe  = regexp.MustCompile("`([^`\\n]+)`")
	h3Re          = regexp.MustCompile(`(?m)^### (.*)$`)
	h2Re          = regexp.MustCompile(`(?m)^## (.*)$`)
	h1Re          = regexp.MustCompile(`(?m)^# (.*)$`)
	boldRe        = regexp.MustCompile(`\*\*(.+?)\*\*`)
	italicRe      = regexp.MustCompile(`\*([^*\s](?:[^*\n]*[^*\s])?)\*`)
	linkRe        = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)
	bulletRe      = regexp.MustCompile(`^[*-] (.+)$`)
	orderedRe     = regexp.MustCompile(`^\d+\. (.+)$`)
	quoteRe       = regexp.MustCompile(`^&gt; ?(.*)$`)
	headingLineRe = regexp.MustCompile(`^<h[1-6]>`)
	placeholderRe = regexp.MustCompile(blockOpen + `(\d+)` + blockClose + "|" + inlineOpen + `(\d+)` + inlineClose)

	sentinels = strings.NewReplacer(blockOpen, "", blockClose, "", inlineOpen, "", inlineClose, "")
)

// Simple is the fallback converter. It applies substitution rules in a fixed
// order: escape, code fences, inline code, headings h3→h1, bold, italic,
// links, then a line pass for list items, blockquotes and paragraphs.
//
// It shares no code with the Markdown stage so it keeps working when that
// stage or the highlighter is broken.
type Simple struct{}

// Name implements Converter.
func (Simple) Name() string { return "simple" }

// Convert implements Converter.
func (Simple) Convert(text string) (string, error) {
	var blocks, inlines []string

	out := EscapeHTML(sentinels.Replace(strings.ReplaceAll(text, "\r\n", "\n")))

	out = fenceRe.ReplaceAllStringFunc(out, func(m string) string {
		sub := fenceRe.FindStringSubmatch(m)
		lang := sub[1]
		if lang == "" {
			lang = PlainText
		}
		blocks = append(blocks, fmt.Sprintf(
			`<pre class="terminal-code-block"><code class="hljs language-%s" data-language="%s">%s</code></pre>`,
			lang, lang, strings.TrimSpace(sub[2]),
		))
		return "\n" + blockOpen + strconv.Itoa(len(blocks)-1) + blockClose + "\n"
	})

	out = inlineCodeRe.ReplaceAllStringFunc(out, func(m string) string {
		sub := inlineCodeRe.FindStringSubmatch(m)
		inlines = append(inlines, `<code class="hljs-inline">`+sub[1]+`</code>`)
		return inlineOpen + strconv.Itoa(len(inlines)-1) + inlineClose
	})

	out = h3Re.ReplaceAllString(out, "<h3>$1</h3>")
	out = h2Re.ReplaceAllString(out, "<h2>$1</h2>")
	out = h1Re.ReplaceAllString(out, "<h1>$1</h1>")
	out = boldRe.ReplaceAllString(out, "<strong>$1</strong>")
	out = italicRe.ReplaceAllString(out, "<em>$1</em>")
	out = linkRe.ReplaceAllString(out, `<a href="$2" target="_blank">$1</a>`)

	out = segment(out)

	out = placeholderRe.ReplaceAllStringFunc(out, func(m string) string {
		sub := placeholderRe.FindStringSubmatch(m)
		regions, digits := blocks, sub[1]
		if digits == "" {
			regions, digits = inlines, sub[2]
		}
		idx, err := strconv.Atoi(digits)
		if err != nil || idx >= len(regions) {
			return m
		}
		return regions[idx]
	})

	return out, nil
}

// segment groups lines into blocks. Consecutive list items become one
// <ul>/<ol>, consecutive quote lines one <blockquote>, headings and code
// placeholders stand alone, and remaining runs of lines separated by blank
// lines become paragraphs with <br> between lines.
func segment(text string) string {
	var (
		blocks []string
		para   []string
		list   []string
		quote  []string
		listTy string
	)

	flushPara := func() {
		if len(para) > 0 {
			blocks = append(blocks, "<p>"+strings.Join(para, "<br>")+"</p>")
			para = nil
		}
	}
	flushList := func() {
		if len(list) > 0 {
			blocks = append(blocks, "<"+listTy+">"+strings.Join(list, "")+"</"+listTy+">")
			list = nil
		}
	}
	flushQuote := func() {
		if len(quote) > 0 {
			blocks = append(blocks, "<blockquote>"+strings.Join(quote, "<br>")+"</blockquote>")
			quote = nil
		}
	}
	flushAll := func() {
		flushPara()
		flushList()
		flushQuote()
	}

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)

		switch {
		case line == "":
			flushAll()

		case isBlockPlaceholder(line) || headingLineRe.MatchString(line):
			flushAll()
			blocks = append(blocks, line)

		case bulletRe.MatchString(line):
			flushPara()
			flushQuote()
			if listTy != "ul" {
				flushList()
				listTy = "ul"
			}
			list = append(list, "<li>"+bulletRe.FindStringSubmatch(line)[1]+"</li>")

		case orderedRe.MatchString(line):
			flushPara()
			flushQuote()
			if listTy != "ol" {
				flushList()
				listTy = "ol"
			}
			list = append(list, "<li>"+orderedRe.FindStringSubmatch(line)[1]+"</li>")

		case quoteRe.MatchString(line):
			flushPara()
			flushList()
			quote = append(quote, quoteRe.FindStringSubmatch(line)[1])

		default:
			flushList()
			flushQuote()
			para = append(para, line)
		}
	}
	flushAll()

	return strings.Join(blocks, "\n")
}

func isBlockPlaceholder(line string) bool {
	return strings.HasPrefix(line, blockOpen) && strings.HasSuffix(line, blockClose)
}
