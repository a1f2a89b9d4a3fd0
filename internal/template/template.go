// Package template supplies the canned document bodies inserted by
// Session.InsertTemplate.
package template

import (
	"embed"
	"fmt"
	"slices"
	"strings"
	"text/template"
	"time"
)

//go:embed bodies/*.md.tmpl
var bodies embed.FS

// DateLayout formats the {{.Date}} placeholder.
const DateLayout = "2006-01-02"

// Template kinds.
const (
	Readme  = "readme"
	Blog    = "blog"
	Meeting = "meeting"
	API     = "api"
)

var kinds = []string{Readme, Blog, Meeting, API}

var parsed = template.Must(template.ParseFS(bodies, "bodies/*.md.tmpl"))

// Data is passed to every body.
type Data struct {
	Date string
}

// Kinds returns the recognized template kinds.
func Kinds() []string { return slices.Clone(kinds) }

// Known reports whether kind names a template.
func Known(kind string) bool { return slices.Contains(kinds, kind) }

// Render returns the body for kind with the date filled in from now.
// ok is false for an unrecognized kind.
func Render(kind string, now time.Time) (body string, ok bool, err error) {
	if !Known(kind) {
		return "", false, nil
	}
	var b strings.Builder
	if err := parsed.ExecuteTemplate(&b, kind+".md.tmpl", Data{Date: now.Format(DateLayout)}); err != nil {
		return "", true, fmt.Errorf("render template %s: %w", kind, err)
	}
	return b.String(), true, nil
}

// Apply returns content with the body for kind inserted: appended after a
// blank line when content has text, replacing it when content is blank.
// ok is false and content is returned unchanged for an unrecognized kind.
func Apply(content, kind string, now time.Time) (string, bool, error) {
	body, ok, err := Render(kind, now)
	if !ok || err != nil {
		return content, ok, err
	}
	if strings.TrimSpace(content) == "" {
		return body, true, nil
	}
	return content + "\n\n" + body, true, nil
}
