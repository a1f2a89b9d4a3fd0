package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/roach88/quire/internal/failure"
	"github.com/roach88/quire/internal/ident"
	"github.com/roach88/quire/internal/kv"
	"github.com/roach88/quire/internal/session"
	"github.com/roach88/quire/internal/testutil"
)

// Epoch is the manual clock's starting instant for every run.
var Epoch = time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

// Harness executes scenario steps against a single session.
type Harness struct {
	session *session.Session
	store   *kv.SQLite
	kv      *testutil.FailingKV
	clock   *testutil.ManualClock
	logger  *slog.Logger
	seq     int64
}

// Option configures a Harness.
type Option func(*Harness)

// WithLogger sets the logger handed to the session. Runs are silent by default.
func WithLogger(l *slog.Logger) Option {
	return func(h *Harness) { h.logger = l }
}

// New creates a harness over a fresh in-memory SQLite store. Document ids
// are doc-1, doc-2, ... and snapshot ids snap-1, snap-2, ...
func New(opts ...Option) (*Harness, error) {
	h := &Harness{
		clock:  testutil.NewManualClock(Epoch),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(h)
	}

	st, err := kv.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	h.store = st
	h.kv = testutil.NewFailingKV(st)
	h.session = session.New(h.kv,
		session.WithClock(h.clock),
		session.WithDocumentIDs(ident.NewSequence("doc")),
		session.WithSnapshotIDs(ident.NewSequence("snap")),
		session.WithLogger(h.logger),
	)
	return h, nil
}

// Session returns the session under test.
func (h *Harness) Session() *session.Session { return h.session }

// Close stops the session timers and closes the store.
func (h *Harness) Close() error {
	h.session.Close()
	return h.store.Close()
}

// Run executes a scenario in a fresh harness and returns the result.
//
// Execution flow:
//  1. Initialize the session (seeds the first document)
//  2. Execute setup steps, which must succeed
//  3. Execute flow steps, checking each expect clause
//  4. Evaluate assertions against the trace and final state
func Run(ctx context.Context, scenario *Scenario, opts ...Option) (*Result, error) {
	h, err := New(opts...)
	if err != nil {
		return nil, err
	}
	defer h.Close()

	if err := h.session.Initialize(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize session: %w", err)
	}

	result := NewResult()

	for i, step := range scenario.Setup {
		outcome, _, err := h.Step(ctx, step, result)
		if err != nil {
			return nil, fmt.Errorf("setup step %d (%s): %w", i, step.Op, err)
		}
		if outcome != CaseOK {
			return nil, fmt.Errorf("setup step %d (%s): completed with case %s", i, step.Op, outcome)
		}
	}

	for i, step := range scenario.Flow {
		outcome, got, err := h.Step(ctx, step, result)
		if err != nil {
			return nil, fmt.Errorf("flow step %d (%s): %w", i, step.Op, err)
		}
		checkExpect(result, i, step, outcome, got)
	}

	result.State = sessionState(h.session)

	for _, msg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(msg)
	}

	return result, nil
}

// Step executes one op, appending its invocation and completion to the
// trace. It returns the completion case and result. The error is non-nil
// only for unknown ops.
func (h *Harness) Step(ctx context.Context, step Step, result *Result) (string, map[string]interface{}, error) {
	fn, ok := ops[step.Op]
	if !ok {
		return "", nil, fmt.Errorf("unknown op %q", step.Op)
	}

	h.seq++
	result.AddInvocationTrace(step.Op, step.Args, h.seq)

	got, err := fn(ctx, h, step.Args)
	outcome := caseOf(err)
	if err != nil {
		h.logger.Debug("op failed", "op", step.Op, "error", err)
		if got == nil {
			got = map[string]interface{}{}
		}
		got["error"] = err.Error()
	}

	h.seq++
	result.AddCompletionTrace(step.Op, outcome, got, h.seq)
	return outcome, got, nil
}

// caseOf maps an op error to its completion case.
func caseOf(err error) string {
	if err == nil {
		return CaseOK
	}
	if code := failure.CodeOf(err); code != "" {
		return string(code)
	}
	return CaseError
}

// checkExpect validates one flow step against its expect clause. A step
// without an expect clause must complete with case ok.
func checkExpect(result *Result, index int, step Step, outcome string, got map[string]interface{}) {
	want := CaseOK
	var wantResult map[string]interface{}
	if step.Expect != nil {
		want = step.Expect.Case
		wantResult = step.Expect.Result
	}

	if outcome != want {
		msg := fmt.Sprintf("flow[%d] %s: expected case %q, got %q", index, step.Op, want, outcome)
		if e, ok := got["error"]; ok {
			msg += fmt.Sprintf(" (%v)", e)
		}
		result.AddError(msg)
		return
	}

	for key, expected := range wantResult {
		actual, exists := got[key]
		if !exists {
			result.AddError(fmt.Sprintf("flow[%d] %s: result field %q missing", index, step.Op, key))
			continue
		}
		if !valuesEqual(actual, expected) {
			result.AddError(fmt.Sprintf("flow[%d] %s: result field %q: expected %v, got %v",
				index, step.Op, key, expected, actual))
		}
	}
}
