package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const passingScenario = `name: quick_edit
description: "one edit then undo"
flow:
  - op: update
    args: { text: "hello" }
  - op: undo
    args: {}
assertions:
  - type: final_state
    table: session
    expect: { content: "", can_redo: true }
`

const failingScenario = `name: wrong_expectation
description: "expects content that is never written"
flow:
  - op: update
    args: { text: "hello" }
assertions:
  - type: final_state
    table: session
    expect: { content: "goodbye" }
`

func executeScript(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(append([]string{"script"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestScript_HarnessScenarios(t *testing.T) {
	out, err := executeScript(t, filepath.Join("..", "harness", "testdata", "scenarios"))
	require.NoError(t, err, out)
	assert.Contains(t, out, "✓ branch_truncation")
	assert.Contains(t, out, "All scenarios passed")
}

func TestScript_UpdateThenCompare(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "quick_edit.yaml"), []byte(passingScenario), 0o644))

	out, err := executeScript(t, dir, "--update")
	require.NoError(t, err, out)
	assert.Contains(t, out, "golden updated")

	golden, err := os.ReadFile(filepath.Join(dir, "golden", "quick_edit.golden"))
	require.NoError(t, err)
	assert.Contains(t, string(golden), `"scenario_name": "quick_edit"`)

	out, err = executeScript(t, dir)
	require.NoError(t, err, out)
	assert.Contains(t, out, "✓ quick_edit")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "golden", "quick_edit.golden"), []byte("{}"), 0o644))
	out, err = executeScript(t, dir)
	require.Error(t, err)
	assert.Contains(t, out, "does not match golden file")
}

func TestScript_FailureJSON(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.yaml"), []byte(passingScenario), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.yaml"), []byte(failingScenario), 0o644))

	out, err := executeScript(t, dir, "--format", "json")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp struct {
		Status string       `json:"status"`
		Data   ScriptResult `json:"data"`
		Error  *CLIError    `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, 1, resp.Data.Passed)
	assert.Equal(t, 1, resp.Data.Failed)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "E_SCRIPT_FAILED", resp.Error.Code)
}

func TestScript_Filter(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "keep.yaml"), []byte(passingScenario), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "skip.yaml"), []byte(failingScenario), 0o644))

	out, err := executeScript(t, dir, "--filter", "keep")
	require.NoError(t, err, out)
	assert.Contains(t, out, "1 passed, 0 failed, 1 total")
}

func TestScript_MissingDir(t *testing.T) {
	_, err := executeScript(t, filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
