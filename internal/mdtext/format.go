package mdtext

import (
	"regexp"
	"strings"
)

var (
	fmtHeadingRe = regexp.MustCompile(`^(#{1,6})[ \t]*([^#\s].*)$`)
	fmtBulletRe  = regexp.MustCompile(`^([ \t]*)([-*+])[ \t]+(.+)$`)
	fmtOrderedRe = regexp.MustCompile(`^([ \t]*)(\d+)\.[ \t]+(.+)$`)
	blankRunRe   = regexp.MustCompile(`\n{3,}`)
	fmtFenceRe   = regexp.MustCompile("(?ms)^```(\\w*)[ \\t]*\\n(.*?)\\n```$")
	leadBlankRe  = regexp.MustCompile(`^(?:[ \t]*\n)+`)
)

// Format applies cosmetic normalization to markdown source:
//   - one space between heading hashes and the title, title trimmed
//   - one space after bullet and ordered-list markers, item text trimmed
//   - runs of two or more blank lines collapsed to one
//   - leading blank lines and trailing whitespace inside code fences removed
//
// Heading and list rules do not apply inside code fences. Format is
// idempotent: Format(Format(s)) == Format(s).
func Format(text string) string {
	lines := strings.Split(text, "\n")
	inFence := false
	for i, line := range lines {
		if isFence(line) {
			inFence = !inFence
			continue
		}
		if inFence {
			continue
		}
		lines[i] = formatLine(line)
	}
	out := strings.Join(lines, "\n")

	out = blankRunRe.ReplaceAllString(out, "\n\n")

	out = fmtFenceRe.ReplaceAllStringFunc(out, func(m string) string {
		sub := fmtFenceRe.FindStringSubmatch(m)
		code := leadBlankRe.ReplaceAllString(sub[2], "")
		code = strings.TrimRight(code, " \t\r\n")
		return "```" + sub[1] + "\n" + code + "\n```"
	})
	return out
}

func formatLine(line string) string {
	if m := fmtHeadingRe.FindStringSubmatch(line); m != nil {
		return m[1] + " " + strings.TrimSpace(m[2])
	}
	if m := fmtBulletRe.FindStringSubmatch(line); m != nil {
		return m[1] + m[2] + " " + strings.TrimSpace(m[3])
	}
	if m := fmtOrderedRe.FindStringSubmatch(line); m != nil {
		return m[1] + m[2] + ". " + strings.TrimSpace(m[3])
	}
	return line
}
