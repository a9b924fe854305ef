package kripke

import (
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// Verdict is the outcome of checking one property.
type Verdict int

const (
	// VerdictSatisfied: every initial state satisfies the formula.
	VerdictSatisfied Verdict = iota
	// VerdictViolated: some initial state falsifies the formula.
	VerdictViolated
	// VerdictUnknown: the check was inconclusive (degenerate space,
	// resource bound, unsupported fragment routed elsewhere).
	VerdictUnknown
	// VerdictError: the check failed outright.
	VerdictError
)

func (v Verdict) String() string {
	switch v {
	case VerdictSatisfied:
		return "satisfied"
	case VerdictViolated:
		return "violated"
	case VerdictUnknown:
		return "unknown"
	}
	return "error"
}

// Stats counts work done during one check.
type Stats struct {
	StatesExplored       int
	TransitionsEvaluated int
	Iterations           int
}

// Result is the outcome of one Check call. Results are created fresh per
// call and never mutated afterward.
type Result struct {
	Verdict        Verdict
	Reason         string
	Counterexample *Trace
	Witness        *Trace
	Stats          Stats
	Duration       time.Duration
}

// CheckerConfig bounds explicit-state exploration.
type CheckerConfig struct {
	// MaxStates is the largest arena the checker will explore; beyond it
	// the verdict is Unknown, not an error. Zero means unbounded.
	MaxStates int `yaml:"max_states"`
}

// Checker runs the CTL marking algorithm against one state space. A
// checker holds no mutable state across calls: checking the same formula
// twice yields identical results.
type Checker struct {
	space  *StateSpace
	config CheckerConfig
	logger *slog.Logger
}

// NewChecker validates the space invariants and returns a checker. An
// invariant violation is a builder bug and surfaces as ErrInternal.
func NewChecker(ss *StateSpace, config CheckerConfig, logger *slog.Logger) (*Checker, error) {
	if err := ss.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Checker{space: ss, config: config, logger: logger}, nil
}

// Check computes the state set satisfying formula bottom-up and compares
// it against the initial states. Plain LTL path operators and mixed CTL*
// shapes are rejected with an error verdict, never approximated.
func (c *Checker) Check(formula Formula) Result {
	start := time.Now()
	res := c.check(formula)
	res.Duration = time.Since(start)
	c.logger.Debug("explicit-state check complete",
		"formula", formula.String(),
		"verdict", res.Verdict.String(),
		"states", res.Stats.StatesExplored,
		"iterations", res.Stats.Iterations)
	return res
}

func (c *Checker) check(formula Formula) Result {
	if c.space.Degenerate {
		return Result{
			Verdict: VerdictUnknown,
			Reason:  "state space is degenerate, model checking is vacuous",
		}
	}
	if c.config.MaxStates > 0 && len(c.space.States) > c.config.MaxStates {
		return Result{
			Verdict: VerdictUnknown,
			Reason: fmt.Sprintf("%v: %d states exceed bound %d",
				ErrStateBound, len(c.space.States), c.config.MaxStates),
		}
	}

	run := &marking{space: c.space}
	sat, err := run.sat(formula)
	stats := Stats{
		StatesExplored:       len(c.space.States),
		TransitionsEvaluated: run.transitions,
		Iterations:           run.iterations,
	}
	if err != nil {
		verdict := VerdictError
		if errors.Is(err, ErrUnsupportedFormula) {
			verdict = VerdictUnknown
		}
		return Result{Verdict: verdict, Reason: err.Error(), Stats: stats}
	}

	for id := range c.space.Initial {
		if !sat.Has(id) {
			return Result{
				Verdict:        VerdictViolated,
				Counterexample: c.counterexample(formula, id, sat, run),
				Stats:          stats,
			}
		}
	}
	return Result{
		Verdict: VerdictSatisfied,
		Witness: c.witness(formula, run),
		Stats:   stats,
	}
}

// marking carries the per-call work counters through the bottom-up
// evaluation, keeping Checker itself stateless between calls.
type marking struct {
	space       *StateSpace
	transitions int
	iterations  int
}

// sat returns the set of states satisfying f.
func (m *marking) sat(f Formula) (StateSet, error) {
	switch n := f.(type) {
	case Atomic:
		if set, ok := m.space.Props[n.Name]; ok {
			return set.Copy(), nil
		}
		return NewStateSet(), nil
	case Not:
		inner, err := m.sat(n.Operand)
		if err != nil {
			return nil, err
		}
		return m.space.Universe().Difference(inner), nil
	case And:
		return m.binary(n.Left, n.Right, StateSet.Intersect)
	case Or:
		return m.binary(n.Left, n.Right, StateSet.Union)
	case Implies:
		// φ → ψ ≡ ¬φ ∨ ψ
		return m.sat(Or{Left: Not{Operand: n.Left}, Right: n.Right})
	case ExistsNext:
		inner, err := m.sat(n.Operand)
		if err != nil {
			return nil, err
		}
		return m.preE(inner), nil
	case ForallNext:
		inner, err := m.sat(n.Operand)
		if err != nil {
			return nil, err
		}
		return m.preA(inner), nil
	case ExistsEventually:
		inner, err := m.sat(n.Operand)
		if err != nil {
			return nil, err
		}
		return m.existsEventually(inner)
	case ForallEventually:
		inner, err := m.sat(n.Operand)
		if err != nil {
			return nil, err
		}
		return m.forallEventually(inner)
	case ExistsAlways:
		inner, err := m.sat(n.Operand)
		if err != nil {
			return nil, err
		}
		return m.existsAlways(inner)
	case ForallAlways:
		inner, err := m.sat(n.Operand)
		if err != nil {
			return nil, err
		}
		return m.forallAlways(inner)
	case ExistsUntil, ForallUntil:
		return nil, fmt.Errorf("%w: binary path operator %s", ErrUnsupportedFormula, f)
	case Always, Eventually, Next, Until, Release, WeakUntil, StrongRelease:
		return nil, fmt.Errorf("%w: LTL path formula %s", ErrUnsupportedFormula, f)
	}
	return nil, fmt.Errorf("%w: unrecognized formula %T", ErrUnsupportedFormula, f)
}

func (m *marking) binary(l, r Formula, op func(StateSet, StateSet) StateSet) (StateSet, error) {
	left, err := m.sat(l)
	if err != nil {
		return nil, err
	}
	right, err := m.sat(r)
	if err != nil {
		return nil, err
	}
	return op(left, right), nil
}

// preE is Pre_E with transition accounting.
func (m *marking) preE(w StateSet) StateSet {
	out := NewStateSet()
	for from, ts := range m.space.Transitions {
		m.transitions += len(ts)
		for _, t := range ts {
			if w.Has(t.To) {
				out.Add(from)
				break
			}
		}
	}
	return out
}

// preA is Pre_A with transition accounting. Dead-ends never satisfy AX.
func (m *marking) preA(w StateSet) StateSet {
	out := NewStateSet()
	for from, ts := range m.space.Transitions {
		if len(ts) == 0 {
			continue
		}
		m.transitions += len(ts)
		all := true
		for _, t := range ts {
			if !w.Has(t.To) {
				all = false
				break
			}
		}
		if all {
			out.Add(from)
		}
	}
	return out
}

// existsEventually computes EF φ = μZ. φ ∨ EX Z: grow from the target set
// by adding any state with an edge into it until stable.
func (m *marking) existsEventually(target StateSet) (StateSet, error) {
	w := target.Copy()
	return m.leastFixpoint(func(w StateSet) StateSet {
		return w.Union(m.preE(w))
	}, w)
}

// forallEventually computes AF φ = μZ. φ ∨ AX Z: grow by adding any state
// whose every successor (of at least one) lies in the current set.
func (m *marking) forallEventually(target StateSet) (StateSet, error) {
	w := target.Copy()
	return m.leastFixpoint(func(w StateSet) StateSet {
		return w.Union(m.preA(w))
	}, w)
}

// existsAlways computes EG φ = νZ. φ ∧ EX Z: shrink the target set by
// removing any state with no successor remaining inside it.
func (m *marking) existsAlways(target StateSet) (StateSet, error) {
	z := target.Copy()
	return m.greatestFixpoint(func(z StateSet) StateSet {
		next := NewStateSet()
		for id := range z {
			ts := m.space.Transitions[id]
			m.transitions += len(ts)
			for _, t := range ts {
				if z.Has(t.To) {
					next.Add(id)
					break
				}
			}
		}
		return next
	}, z)
}

// forallAlways computes AG φ = νZ. φ ∧ AX Z: shrink by removing any state
// with no successors or with a successor outside the current set.
func (m *marking) forallAlways(target StateSet) (StateSet, error) {
	z := target.Copy()
	return m.greatestFixpoint(func(z StateSet) StateSet {
		next := NewStateSet()
		for id := range z {
			ts := m.space.Transitions[id]
			if len(ts) == 0 {
				continue
			}
			m.transitions += len(ts)
			all := true
			for _, t := range ts {
				if !z.Has(t.To) {
					all = false
					break
				}
			}
			if all {
				next.Add(id)
			}
		}
		return next
	}, z)
}

// leastFixpoint iterates step until stable. Monotone steps converge in at
// most |states| iterations; overrunning that bound means the step wasn't
// monotone, which is a programming error.
func (m *marking) leastFixpoint(step func(StateSet) StateSet, w StateSet) (StateSet, error) {
	return m.fixpoint(step, w)
}

func (m *marking) greatestFixpoint(step func(StateSet) StateSet, z StateSet) (StateSet, error) {
	return m.fixpoint(step, z)
}

func (m *marking) fixpoint(step func(StateSet) StateSet, w StateSet) (StateSet, error) {
	bound := len(m.space.States) + 1
	for i := 0; i < bound; i++ {
		m.iterations++
		next := step(w)
		if next.Equals(w) {
			return w, nil
		}
		w = next
	}
	return nil, fmt.Errorf("%w: fixed point did not converge within %d iterations", ErrInternal, bound)
}

// counterexample traces a path from an excluded initial state. For AG the
// trace is the shortest path to a violating state; for AF it is a lasso
// that avoids the target forever; anything else reports the bare initial
// state.
func (c *Checker) counterexample(formula Formula, from StateID, sat StateSet, run *marking) *Trace {
	switch n := formula.(type) {
	case ForallAlways:
		inner, err := run.sat(n.Operand)
		if err != nil {
			break
		}
		bad := c.space.Universe().Difference(inner)
		if path := bfsPath(c.space, NewStateSet(from), bad); path != nil {
			return newTrace(c.space, path, NoLoop)
		}
	case ForallEventually:
		inner, err := run.sat(n.Operand)
		if err != nil {
			break
		}
		// ¬AF φ = EG ¬φ: walk inside the EG region until a state repeats.
		region, err := run.existsAlways(c.space.Universe().Difference(inner))
		if err != nil || !region.Has(from) {
			break
		}
		path, loop := lassoWithin(c.space, from, region)
		return newTrace(c.space, path, loop)
	}
	return newTrace(c.space, []StateID{from}, NoLoop)
}

// witness produces a concrete satisfying path where one is cheap to
// extract; EF gets the shortest path from the initial states into the
// target set.
func (c *Checker) witness(formula Formula, run *marking) *Trace {
	ef, ok := formula.(ExistsEventually)
	if !ok {
		return nil
	}
	target, err := run.sat(ef.Operand)
	if err != nil {
		return nil
	}
	if path := bfsPath(c.space, c.space.Initial, target); path != nil {
		return newTrace(c.space, path, NoLoop)
	}
	return nil
}
