package harness

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScenarios(t *testing.T) {
	paths, err := filepath.Glob("testdata/scenarios/*.yaml")
	require.NoError(t, err)
	require.NotEmpty(t, paths)

	for _, path := range paths {
		t.Run(filepath.Base(path), func(t *testing.T) {
			scenario, err := LoadScenario(path)
			require.NoError(t, err)

			result, err := Run(context.Background(), scenario)
			require.NoError(t, err)
			assert.True(t, result.Pass, strings.Join(result.Errors, "\n"))
		})
	}
}

func TestRunWithGolden(t *testing.T) {
	scenario, err := LoadScenario("testdata/scenarios/branch_truncation.yaml")
	require.NoError(t, err)

	result, err := RunWithGolden(t, scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass)
}

func TestRun_TraceShape(t *testing.T) {
	scenario := &Scenario{
		Name:        "shape",
		Description: "one edit",
		Flow:        []Step{{Op: "update", Args: map[string]interface{}{"text": "hello"}}},
		Assertions:  []Assertion{{Type: AssertTraceContains, Op: "update"}},
	}

	result, err := Run(context.Background(), scenario)
	require.NoError(t, err)
	require.True(t, result.Pass)

	require.Len(t, result.Trace, 2)
	assert.Equal(t, EventInvocation, result.Trace[0].Type)
	assert.Equal(t, int64(1), result.Trace[0].Seq)
	assert.Equal(t, EventCompletion, result.Trace[1].Type)
	assert.Equal(t, CaseOK, result.Trace[1].Case)
	assert.Equal(t, true, result.Trace[1].Result["changed"])
	assert.Equal(t, int64(2), result.Trace[1].Seq)

	session := result.State[TableSession].(map[string]interface{})
	assert.Equal(t, "hello", session["content"])
	assert.Equal(t, "doc-1", session["active_id"])
}

func TestRun_UnexpectedCaseFails(t *testing.T) {
	scenario := &Scenario{
		Name:        "bad_switch",
		Description: "switching to a missing document without expecting it",
		Flow:        []Step{{Op: "switch", Args: map[string]interface{}{"id": "nope"}}},
		Assertions:  []Assertion{{Type: AssertTraceCount, Op: "switch", Count: 1}},
	}

	result, err := Run(context.Background(), scenario)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], `expected case "ok", got "NOT_FOUND"`)
}

func TestRun_ResultMismatchFails(t *testing.T) {
	scenario := &Scenario{
		Name:        "mismatch",
		Description: "undo on fresh history does not move",
		Flow: []Step{{
			Op:     "undo",
			Args:   map[string]interface{}{},
			Expect: &ExpectClause{Case: CaseOK, Result: map[string]interface{}{"changed": true, "missing": 1}},
		}},
		Assertions: []Assertion{{Type: AssertTraceCount, Op: "undo", Count: 1}},
	}

	result, err := Run(context.Background(), scenario)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	assert.Len(t, result.Errors, 2)
}

func TestRun_SetupFailureAborts(t *testing.T) {
	scenario := &Scenario{
		Name:        "setup_fails",
		Description: "setup must succeed",
		Setup:       []Step{{Op: "restore", Args: map[string]interface{}{"id": "snap-1"}}},
		Flow:        []Step{{Op: "undo", Args: map[string]interface{}{}}},
		Assertions:  []Assertion{{Type: AssertTraceCount, Op: "undo", Count: 1}},
	}

	_, err := Run(context.Background(), scenario)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NOT_FOUND")
}

func TestStep_BadArgs(t *testing.T) {
	h, err := New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = h.Close() })
	require.NoError(t, h.Session().Initialize(context.Background()))

	result := NewResult()
	outcome, got, err := h.Step(context.Background(), Step{Op: "update", Args: map[string]interface{}{"text": 7}}, result)
	require.NoError(t, err)
	assert.Equal(t, CaseError, outcome)
	assert.Contains(t, got["error"], "must be a string")

	_, _, err = h.Step(context.Background(), Step{Op: "explode", Args: map[string]interface{}{}}, result)
	require.Error(t, err)
}

func TestSettingsOp(t *testing.T) {
	h, err := New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = h.Close() })
	ctx := context.Background()
	require.NoError(t, h.Session().Initialize(ctx))

	result := NewResult()
	outcome, _, err := h.Step(ctx, Step{Op: "settings", Args: map[string]interface{}{"autoSave": false}}, result)
	require.NoError(t, err)
	assert.Equal(t, CaseOK, outcome)
	assert.False(t, h.Session().Settings().AutoSave)
	assert.Equal(t, 2, h.Session().Settings().TabSize, "unnamed fields keep their values")
	assert.False(t, h.Session().AutosaveRunning())
}

func TestOps_Sorted(t *testing.T) {
	names := Ops()
	assert.Contains(t, names, "update")
	assert.IsNonDecreasing(t, names)
}
