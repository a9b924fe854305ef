package solver

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aisplang/tempus/kripke"
)

// fakeRunner returns canned output and counts calls.
type fakeRunner struct {
	mu     sync.Mutex
	output string
	err    error
	calls  int
}

func (f *fakeRunner) Run(_ context.Context, _ string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.output, f.err
}

func (f *fakeRunner) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func alwaysP() kripke.Formula {
	return kripke.Always{Operand: kripke.Atomic{Name: "p"}}
}

func TestSolveUnsatMeansProvenForUniversal(t *testing.T) {
	runner := &fakeRunner{output: "unsat\n"}
	b := NewBridge(Config{}, nil, runner, nil)

	res := b.Solve(context.Background(), alwaysP())
	assert.Equal(t, StatusUnsatisfiable, res.Status)
	assert.Equal(t, VerdictProven, res.Verdict)
	require.NotNil(t, res.Proof)
	assert.NotEmpty(t, res.Proof.ConflictingConstraints)
	assert.Nil(t, res.Model)
}

func TestSolveSatMeansDisprovenForUniversal(t *testing.T) {
	runner := &fakeRunner{output: "sat\n(model\n(define-fun p_0 () Bool false)\n)\n"}
	b := NewBridge(Config{}, nil, runner, nil)

	res := b.Solve(context.Background(), alwaysP())
	assert.Equal(t, StatusSatisfiable, res.Status)
	assert.Equal(t, VerdictDisproven, res.Verdict)
	require.NotNil(t, res.Model)
	assert.Equal(t, BoolValue(false), res.Model.Variables["p_0"])
}

func TestSolveSatMeansProvenForExistential(t *testing.T) {
	runner := &fakeRunner{output: "sat\n(define-fun p_1 () Bool true)\n"}
	b := NewBridge(Config{}, nil, runner, nil)

	f := kripke.ExistsEventually{Operand: kripke.Atomic{Name: "p"}}
	res := b.Solve(context.Background(), f)
	assert.Equal(t, VerdictProven, res.Verdict)
}

func TestSolveCachesByFormulaText(t *testing.T) {
	runner := &fakeRunner{output: "unsat\n"}
	cache := NewCache()
	b := NewBridge(Config{}, cache, runner, nil)

	first := b.Solve(context.Background(), alwaysP())
	second := b.Solve(context.Background(), alwaysP())

	assert.Equal(t, 1, runner.callCount())
	assert.EqualValues(t, 1, b.Invocations())
	assert.False(t, first.Cached)
	assert.True(t, second.Cached)

	second.Cached = first.Cached
	assert.Equal(t, first, second)
}

func TestSolveCacheSharedBetweenBridges(t *testing.T) {
	runner := &fakeRunner{output: "unsat\n"}
	cache := NewCache()
	a := NewBridge(Config{}, cache, runner, nil)
	b := NewBridge(Config{}, cache, runner, nil)

	a.Solve(context.Background(), alwaysP())
	res := b.Solve(context.Background(), alwaysP())
	assert.True(t, res.Cached)
	assert.Equal(t, 1, runner.callCount())
}

func TestSolveMixedQuantifiersIsError(t *testing.T) {
	runner := &fakeRunner{output: "unsat\n"}
	b := NewBridge(Config{}, nil, runner, nil)

	f := kripke.ForallAlways{Operand: kripke.ExistsEventually{Operand: kripke.Atomic{Name: "p"}}}
	res := b.Solve(context.Background(), f)
	assert.Equal(t, StatusError, res.Status)
	assert.Equal(t, VerdictError, res.Verdict)
	assert.Contains(t, res.Reason, "mixed path quantifiers")
	// Translation failed before any call was made.
	assert.Equal(t, 0, runner.callCount())
}

func TestSolveErrorsAreCached(t *testing.T) {
	runner := &fakeRunner{err: ErrSolverUnavailable}
	b := NewBridge(Config{}, nil, runner, nil)

	first := b.Solve(context.Background(), alwaysP())
	assert.Equal(t, VerdictError, first.Verdict)

	second := b.Solve(context.Background(), alwaysP())
	assert.True(t, second.Cached)
	assert.Equal(t, 1, runner.callCount())
}

func TestSolveUnknownVerdict(t *testing.T) {
	runner := &fakeRunner{output: "unknown\n"}
	b := NewBridge(Config{}, nil, runner, nil)

	res := b.Solve(context.Background(), alwaysP())
	assert.Equal(t, StatusUnknown, res.Status)
	assert.Equal(t, VerdictUnknown, res.Verdict)
	assert.NotEmpty(t, res.Reason)
}

func TestSolveModelSizeLimit(t *testing.T) {
	runner := &fakeRunner{output: "sat\n(define-fun p_0 () Bool true)\n(define-fun p_1 () Bool true)\n"}
	b := NewBridge(Config{MaxModelSize: 1}, nil, runner, nil)

	res := b.Solve(context.Background(), alwaysP())
	assert.Equal(t, StatusUnknown, res.Status)
	assert.Equal(t, VerdictUnknown, res.Verdict)
	assert.Contains(t, res.Reason, "exceeds limit")
}

func TestSolveTimeoutIsUnknown(t *testing.T) {
	slow := runnerFunc(func(ctx context.Context, _ string) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	})
	b := NewBridge(Config{Timeout: 10 * time.Millisecond}, nil, slow, nil)

	res := b.Solve(context.Background(), alwaysP())
	assert.Equal(t, StatusUnknown, res.Status)
	assert.Equal(t, VerdictUnknown, res.Verdict)
	assert.Contains(t, res.Reason, "exceeded")
}

type runnerFunc func(ctx context.Context, script string) (string, error)

func (f runnerFunc) Run(ctx context.Context, script string) (string, error) { return f(ctx, script) }

func TestCacheWriteOnce(t *testing.T) {
	c := NewCache()
	c.Put("k", Result{Status: StatusUnsatisfiable})
	c.Put("k", Result{Status: StatusSatisfiable})

	res, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, StatusUnsatisfiable, res.Status)
	assert.Equal(t, 1, c.Len())

	hits, misses := c.Stats()
	assert.Equal(t, 1, hits)
	assert.Equal(t, 0, misses)
}
