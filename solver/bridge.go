package solver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/aisplang/tempus/kripke"
)

// nearTimeoutFraction of the budget spent triggers a warning; results
// that close to the wall are one load spike away from Unknown.
const nearTimeoutFraction = 0.8

// Bridge dispatches formulas to the external solver, caching results by
// normalized formula text. The solver verdict is the sole source of
// truth: the bridge never reports Proven or Disproven without one.
type Bridge struct {
	config      Config
	cache       *Cache
	runner      Runner
	logger      *slog.Logger
	invocations atomic.Int64
}

// NewBridge builds a bridge around the shared cache. A nil runner gets a
// Z3Runner for the configured binary; a nil cache gets a private one; a
// nil logger falls back to slog.Default.
func NewBridge(config Config, cache *Cache, runner Runner, logger *slog.Logger) *Bridge {
	config = config.withDefaults()
	if cache == nil {
		cache = NewCache()
	}
	if runner == nil {
		runner = &Z3Runner{Binary: config.Binary}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Bridge{config: config, cache: cache, runner: runner, logger: logger}
}

// Invocations returns how many times the external solver has actually
// been called; cache hits do not count.
func (b *Bridge) Invocations() int64 {
	return b.invocations.Load()
}

// Solve discharges formula to the solver and interprets the outcome.
// Identical formulas hit the cache and return the stored result without
// a second invocation; errors are cached too, so a failing formula is
// not retried within a run.
func (b *Bridge) Solve(ctx context.Context, formula kripke.Formula) Result {
	key := cacheKey(formula)
	if res, ok := b.cache.Get(key); ok {
		res.Cached = true
		return res
	}

	res := b.solve(ctx, formula)
	b.cache.Put(key, res)
	return res
}

func (b *Bridge) solve(ctx context.Context, formula kripke.Formula) Result {
	start := time.Now()

	tr, err := translate(formula, b.config)
	if err != nil {
		return Result{
			Status:   StatusError,
			Verdict:  VerdictError,
			Reason:   err.Error(),
			Duration: time.Since(start),
		}
	}

	callCtx, cancel := context.WithTimeout(ctx, b.config.Timeout)
	defer cancel()

	b.invocations.Add(1)
	out, err := b.runner.Run(callCtx, tr.Script)
	elapsed := time.Since(start)

	if err != nil {
		status, verdict := StatusError, VerdictError
		reason := err.Error()
		if errors.Is(err, context.DeadlineExceeded) {
			status, verdict = StatusUnknown, VerdictUnknown
			reason = fmt.Sprintf("solver call exceeded %s", b.config.Timeout)
		}
		b.logger.Warn("solver call failed", "formula", formula.String(), "error", err)
		return Result{Status: status, Verdict: verdict, Reason: reason, Duration: elapsed}
	}

	if elapsed > time.Duration(float64(b.config.Timeout)*nearTimeoutFraction) {
		b.logger.Warn("solver call near timeout",
			"formula", formula.String(),
			"elapsed", elapsed,
			"timeout", b.config.Timeout)
	}

	outcome, err := parseOutput(out)
	if err != nil {
		return Result{Status: StatusError, Verdict: VerdictError, Reason: err.Error(), Duration: elapsed}
	}
	return b.interpret(outcome, tr, elapsed)
}

// interpret maps the raw status to a property verdict according to the
// encoding polarity: under a negated assertion, unsat proves the
// property and a model refutes it; under a direct assertion, a model is
// the witness.
func (b *Bridge) interpret(outcome *rawOutcome, tr *translation, elapsed time.Duration) Result {
	res := Result{Status: outcome.Status, Reason: outcome.Reason, Duration: elapsed}

	switch outcome.Status {
	case StatusSatisfiable:
		model := buildModel(outcome.Assignments)
		if model.Size() > b.config.MaxModelSize {
			res.Status = StatusUnknown
			res.Verdict = VerdictUnknown
			res.Reason = fmt.Sprintf("model with %d symbols exceeds limit %d",
				model.Size(), b.config.MaxModelSize)
			return res
		}
		res.Model = model
		if tr.Polarity == assertDirect {
			res.Verdict = VerdictProven
		} else {
			res.Verdict = VerdictDisproven
		}
	case StatusUnsatisfiable:
		res.Proof = buildProof(tr)
		if tr.Polarity == assertNegation {
			res.Verdict = VerdictProven
		} else {
			res.Verdict = VerdictDisproven
		}
	default:
		res.Verdict = VerdictUnknown
	}
	return res
}

func buildModel(assignments map[string]bool) *ConstraintModel {
	model := &ConstraintModel{
		Variables:  make(map[string]ModelValue),
		Functions:  make(map[string]FunctionInterpretation),
		Predicates: make(map[string]bool),
	}
	for name, v := range assignments {
		model.Variables[name] = BoolValue(v)
	}
	return model
}

func buildProof(tr *translation) *UnsatProof {
	proof := &UnsatProof{Reason: "asserted constraints are jointly unsatisfiable"}
	for label, constraint := range tr.Assertions {
		proof.ConflictingConstraints = append(proof.ConflictingConstraints, label)
		proof.Steps = append(proof.Steps, ProofStep{
			Rule:          "assert",
			Premises:      []string{constraint},
			Conclusion:    "⊥",
			Justification: "no assignment satisfies the asserted constraint on any bounded path",
		})
	}
	return proof
}

// cacheKey normalizes the formula to its rendered text. String output is
// deterministic, so structurally equal formulas share an entry.
func cacheKey(f kripke.Formula) string {
	return strings.TrimSpace(f.String())
}
