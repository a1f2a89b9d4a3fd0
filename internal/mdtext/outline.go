package mdtext

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	headingRe  = regexp.MustCompile(`^(#{1,6})\s+(.+)`)
	slugDropRe = regexp.MustCompile(`[^\w\s-]`)
	slugWSRe   = regexp.MustCompile(`\s+`)
	lower      = cases.Lower(language.Und)
)

// Heading is one node of the outline tree.
type Heading struct {
	Level    int        `json:"level"`
	Title    string     `json:"title"`
	ID       string     `json:"id"`
	Line     int        `json:"line"`
	Children []*Heading `json:"children"`
}

// Slug derives an anchor id from a heading title: lowercased, characters
// other than word characters, whitespace and hyphens removed, whitespace
// runs replaced by a single hyphen.
func Slug(title string) string {
	s := lower.String(title)
	s = slugDropRe.ReplaceAllString(s, "")
	return slugWSRe.ReplaceAllString(s, "-")
}

// Headings returns every ATX heading in text in source order, without
// nesting. Lines inside fenced code blocks are skipped. Line numbers are
// 1-based.
func Headings(text string) []*Heading {
	var out []*Heading
	inFence := false
	for i, line := range strings.Split(text, "\n") {
		if isFence(line) {
			inFence = !inFence
			continue
		}
		if inFence {
			continue
		}
		m := headingRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		title := strings.TrimSpace(m[2])
		out = append(out, &Heading{
			Level:    len(m[1]),
			Title:    title,
			ID:       Slug(title),
			Line:     i + 1,
			Children: []*Heading{},
		})
	}
	return out
}

// Outline nests the headings of text into a tree. Each heading becomes a
// child of the closest preceding heading with a strictly lower level, or a
// root when there is none.
func Outline(text string) []*Heading {
	roots := []*Heading{}
	var stack []*Heading

	for _, h := range Headings(text) {
		for len(stack) > 0 && stack[len(stack)-1].Level >= h.Level {
			stack = stack[:len(stack)-1]
		}
		if len(stack) == 0 {
			roots = append(roots, h)
		} else {
			parent := stack[len(stack)-1]
			parent.Children = append(parent.Children, h)
		}
		stack = append(stack, h)
	}
	return roots
}

func isFence(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), "```")
}
