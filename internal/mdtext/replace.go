package mdtext

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrEmptyPattern is returned by Replace for an empty search pattern.
var ErrEmptyPattern = errors.New("empty search pattern")

// ReplaceOptions controls how Replace matches.
type ReplaceOptions struct {
	CaseSensitive bool `json:"caseSensitive" yaml:"caseSensitive"`
	WholeWord     bool `json:"wholeWord" yaml:"wholeWord"`
	UseRegex      bool `json:"useRegex" yaml:"useRegex"`
}

// Replace replaces every match of pattern in text.
//
// In plain mode the pattern and replacement are literal. In regex mode the
// pattern is RE2 syntax and the replacement may reference groups as $1 or
// ${name}. Matching is case-insensitive unless CaseSensitive is set.
// WholeWord anchors the pattern at word boundaries in both modes.
func Replace(text, pattern, replacement string, opts ReplaceOptions) (string, error) {
	if pattern == "" {
		return text, ErrEmptyPattern
	}

	expr := pattern
	if !opts.UseRegex {
		expr = regexp.QuoteMeta(pattern)
	}
	if opts.WholeWord {
		expr = `\b(?:` + expr + `)\b`
	}
	if !opts.CaseSensitive {
		expr = "(?i)" + expr
	}

	re, err := regexp.Compile(expr)
	if err != nil {
		return text, fmt.Errorf("compile pattern %q: %w", pattern, err)
	}

	if opts.UseRegex {
		return re.ReplaceAllString(text, replacement), nil
	}
	return re.ReplaceAllLiteralString(text, replacement), nil
}

var markdownPunct = strings.NewReplacer(
	"#", "", "*", "", "`", "", "_", "", "~", "",
	"[", "", "]", "", "(", "", ")", "",
)

// StripMarkdown removes the markdown punctuation characters
// # * ` _ ~ [ ] ( ) from text.
func StripMarkdown(text string) string {
	return markdownPunct.Replace(text)
}
