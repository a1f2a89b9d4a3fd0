// Package harness runs editor session scenarios described in YAML.
//
// A scenario drives a real session.Session backed by an in-memory SQLite
// store, a manual clock and sequential identifiers, so every run produces
// the same trace.
//
// # Scenario Format
//
//	name: branch_truncation
//	description: "Editing after undo discards the redo branch"
//	setup:
//	  - op: update
//	    args: { text: "a" }
//	flow:
//	  - op: undo
//	    args: {}
//	    expect:
//	      case: ok
//	      result: { changed: true }
//	assertions:
//	  - type: trace_contains
//	    op: undo
//	  - type: final_state
//	    table: session
//	    expect: { can_redo: true }
//
// # Assertion Types
//
//   - trace_contains: an op appears in the trace with matching args
//   - trace_order: ops appear in the given order
//   - trace_count: an op appears exactly N times
//   - final_state: a row of the session, documents or snapshots table
//     holds the expected values
//
// # Cases
//
// Every completed op reports a case: "ok" on success, the failure code
// (NOT_FOUND, SAVE_FAILED, ...) for typed failures, and "ERROR" otherwise.
//
// # Usage
//
//	scenario, err := harness.LoadScenario("testdata/scenarios/branch_truncation.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := harness.Run(ctx, scenario)
package harness
