package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "quire", cmd.Use)
	assert.Contains(t, cmd.Long, "snapshot")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := [][]string{
		{"doc", "list"}, {"doc", "new"}, {"doc", "rm"}, {"doc", "rename"}, {"doc", "tag"},
		{"edit"}, {"export"}, {"render"}, {"outline"}, {"stats"}, {"fmt"}, {"replace"},
		{"template"}, {"import"}, {"theme"}, {"script"},
		{"snapshot", "list"}, {"snapshot", "take"}, {"snapshot", "restore"}, {"snapshot", "rm"},
	}

	for _, path := range commands {
		name := strings.Join(path, " ")
		t.Run(name, func(t *testing.T) {
			subCmd, _, err := cmd.Find(path)
			require.NoError(t, err, "command %s should exist", name)
			assert.Equal(t, path[len(path)-1], subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)

	assert.NotNil(t, cmd.PersistentFlags().Lookup("db"))
	assert.NotNil(t, cmd.PersistentFlags().Lookup("config"))
}

func TestInvalidFormat(t *testing.T) {
	_, err := run(t, t.TempDir(), "", "--format", "yaml", "doc", "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid format "yaml"`)
}

// run executes the root command against a database in dir.
func run(t *testing.T, dir, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(io.Discard)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--db", filepath.Join(dir, "quire.db")}, args...))
	err := cmd.Execute()
	return out.String(), err
}

// runJSON executes with --format json and decodes the response data into dst.
func runJSON(t *testing.T, dir, stdin string, dst interface{}, args ...string) {
	t.Helper()
	out, err := run(t, dir, stdin, append([]string{"--format", "json"}, args...)...)
	require.NoError(t, err, out)

	var resp struct {
		Status string          `json:"status"`
		Data   json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp), out)
	require.Equal(t, "ok", resp.Status, out)
	if dst != nil {
		require.NoError(t, json.Unmarshal(resp.Data, dst))
	}
}

func TestDocLifecycle(t *testing.T) {
	dir := t.TempDir()

	var docs []DocSummary
	runJSON(t, dir, "", &docs, "doc", "list")
	require.Len(t, docs, 1, "first open seeds one document")
	assert.Equal(t, "Untitled", docs[0].Title)
	seeded := docs[0].ID

	var created DocSummary
	runJSON(t, dir, "", &created, "doc", "new", "Notes")
	assert.Equal(t, "Notes", created.Title)

	runJSON(t, dir, "", &docs, "doc", "list")
	require.Len(t, docs, 2)
	assert.Equal(t, created.ID, docs[0].ID, "most recent first")

	runJSON(t, dir, "", nil, "doc", "rename", seeded, "Scratch")
	runJSON(t, dir, "", nil, "doc", "tag", "--doc", seeded, "go", "draft")
	runJSON(t, dir, "", nil, "doc", "rm", created.ID)

	runJSON(t, dir, "", &docs, "doc", "list")
	require.Len(t, docs, 1)
	assert.Equal(t, "Scratch", docs[0].Title)
	assert.Equal(t, []string{"go", "draft"}, docs[0].Tags)

	out, err := run(t, dir, "", "doc", "rm", created.ID)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "Error [NOT_FOUND]")
}

func TestEditExportAndSnapshots(t *testing.T) {
	dir := t.TempDir()

	var edit EditResult
	runJSON(t, dir, "#Hello\n\n\n\nworld text", &edit, "edit", "--title", "Greeting")
	assert.True(t, edit.Changed)
	require.NotEmpty(t, edit.Snapshot, "saving records a snapshot")

	runJSON(t, dir, "", &edit, "fmt")
	assert.True(t, edit.Changed)

	runJSON(t, dir, "", &edit, "replace", "--whole-word", "text", "words")
	assert.True(t, edit.Changed)

	out, err := run(t, dir, "", "export", "--as", "markdown")
	require.NoError(t, err)
	assert.Equal(t, "# Hello\n\nworld words\n", out)

	out, err = run(t, dir, "", "export", "--as", "text")
	require.NoError(t, err)
	assert.Equal(t, " Hello\n\nworld words\n", out)

	var snaps []struct {
		ID      string `json:"id"`
		Title   string `json:"title"`
		Content string `json:"content"`
	}
	runJSON(t, dir, "", &snaps, "snapshot", "list")
	require.Len(t, snaps, 3)
	assert.Equal(t, "world words", strings.TrimPrefix(snaps[0].Content, "# Hello\n\n"))
	first := snaps[2]
	assert.Equal(t, "Greeting", first.Title)

	runJSON(t, dir, "", &edit, "snapshot", "restore", first.ID)
	assert.True(t, edit.Changed)

	out, err = run(t, dir, "", "export")
	require.NoError(t, err)
	assert.Equal(t, "#Hello\n\n\n\nworld text\n", out)

	runJSON(t, dir, "", nil, "snapshot", "rm", first.ID)
	_, err = run(t, dir, "", "snapshot", "restore", first.ID)
	require.Error(t, err)
}

func TestExportToFileAndBadFormat(t *testing.T) {
	dir := t.TempDir()
	runJSON(t, dir, "# Title", nil, "edit")

	target := filepath.Join(dir, "out.html")
	_, err := run(t, dir, "", "export", "--as", "html", "-o", target)
	require.NoError(t, err)
	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<h1")

	out, err := run(t, dir, "", "export", "--as", "pdf")
	require.Error(t, err)
	assert.Contains(t, out, "EXPORT_FAILED")
}

func TestOutlineAndStats(t *testing.T) {
	dir := t.TempDir()
	runJSON(t, dir, "# A\n## B\ntext here\n# C", nil, "edit")

	out, err := run(t, dir, "", "outline")
	require.NoError(t, err)
	assert.Equal(t, "A  (#a, line 1)\n  B  (#b, line 2)\nC  (#c, line 4)\n", out)

	var stats struct {
		Lines int `json:"lines"`
	}
	runJSON(t, dir, "", &stats, "stats")
	assert.Equal(t, 4, stats.Lines)
}

func TestTemplate(t *testing.T) {
	dir := t.TempDir()

	var kinds []string
	runJSON(t, dir, "", &kinds, "template")
	assert.Contains(t, kinds, "readme")

	var edit EditResult
	runJSON(t, dir, "", &edit, "template", "readme")
	assert.True(t, edit.Changed)

	out, err := run(t, dir, "", "template", "sonnet")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "unknown template")
}

func TestImport(t *testing.T) {
	dir := t.TempDir()
	page := filepath.Join(dir, "page.html")
	require.NoError(t, os.WriteFile(page, []byte("<h1>Imported</h1><p>Some <strong>bold</strong> text</p>"), 0o644))

	var edit EditResult
	runJSON(t, dir, "", &edit, "import", "--new", page)
	assert.True(t, edit.Changed)

	var docs []DocSummary
	runJSON(t, dir, "", &docs, "doc", "list")
	require.Len(t, docs, 2)
	assert.Equal(t, "page", docs[0].Title)

	out, err := run(t, dir, "", "export", "--doc", docs[0].ID)
	require.NoError(t, err)
	assert.Contains(t, out, "# Imported")
	assert.Contains(t, out, "**bold**")
}

func TestTheme(t *testing.T) {
	dir := t.TempDir()

	out, err := run(t, dir, "", "theme")
	require.NoError(t, err)
	assert.Contains(t, out, "* github")

	_, err = run(t, dir, "", "theme", "dracula")
	require.NoError(t, err)

	out, err = run(t, dir, "", "theme")
	require.NoError(t, err)
	assert.Contains(t, out, "* dracula")

	out, err = run(t, dir, "", "theme", "--css")
	require.NoError(t, err)
	assert.Contains(t, out, ".chroma")

	_, err = run(t, dir, "", "theme", "neon")
	require.Error(t, err)
}

func TestReseedAfterDeletingLastDocument(t *testing.T) {
	dir := t.TempDir()
	var docs []DocSummary
	runJSON(t, dir, "", &docs, "doc", "list")
	runJSON(t, dir, "", nil, "doc", "rm", docs[0].ID)

	// The next open reseeds an empty collection.
	runJSON(t, dir, "fresh", nil, "edit")
	runJSON(t, dir, "", &docs, "doc", "list")
	require.Len(t, docs, 1)
	assert.NotEqual(t, "", docs[0].ID)
}
