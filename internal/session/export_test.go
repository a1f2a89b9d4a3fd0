package session

import (
	"context"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/quire/internal/failure"
	"github.com/roach88/quire/internal/mdtext"
)

func mdtextOptions(caseSensitive, wholeWord, useRegex bool) mdtext.ReplaceOptions {
	return mdtext.ReplaceOptions{CaseSensitive: caseSensitive, WholeWord: wholeWord, UseRegex: useRegex}
}

func TestExportAs_JSON(t *testing.T) {
	f := initialized(t)
	f.s.SetTitle("Notes")
	f.s.AddTag("go")
	f.s.AddTag("draft")
	f.s.UpdateContent("# Notes\n\nHello world.\n\nSecond paragraph here.")
	require.NoError(t, f.s.Save(context.Background()))

	out, err := f.s.ExportAs(FormatJSON)
	require.NoError(t, err)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "export_json", []byte(out))
}

func TestExportAs_Formats(t *testing.T) {
	f := initialized(t)
	f.s.UpdateContent("# Title\n\n**bold** `code`")

	md, err := f.s.ExportAs(FormatMarkdown)
	require.NoError(t, err)
	assert.Equal(t, "# Title\n\n**bold** `code`", md)

	text, err := f.s.ExportAs(FormatText)
	require.NoError(t, err)
	assert.Equal(t, " Title\n\nbold code", text)

	html, err := f.s.ExportAs(FormatHTML)
	require.NoError(t, err)
	assert.Contains(t, html, "<strong>bold</strong>")
	assert.Equal(t, f.s.HTML(), html)
}

func TestExportAs_UnsupportedFormat(t *testing.T) {
	f := initialized(t)
	f.s.UpdateContent("keep")
	idx, n := f.s.HistoryIndex()

	out, err := f.s.ExportAs("bogus")
	require.Error(t, err)
	assert.True(t, failure.IsExport(err))
	assert.Empty(t, out)

	assert.Equal(t, "keep", f.s.Content())
	assert.True(t, f.s.Dirty())
	idx2, n2 := f.s.HistoryIndex()
	assert.Equal(t, idx, idx2)
	assert.Equal(t, n, n2)
}

func TestExportAs_NoActiveDocument(t *testing.T) {
	f := initialized(t)
	require.NoError(t, f.s.DeleteDocument(context.Background(), "doc-1"))

	out, err := f.s.ExportAs(FormatJSON)
	require.NoError(t, err)
	assert.Contains(t, out, `"createdAt": null`)
	assert.Contains(t, out, `"tags": []`)
}
