package verify

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/aisplang/tempus/ast"
	"github.com/aisplang/tempus/kripke"
	"github.com/aisplang/tempus/solver"
	"github.com/aisplang/tempus/temporal"
)

// PropertyVerdict is the run-level outcome for one property.
type PropertyVerdict int

const (
	// Satisfied: the property holds on the model.
	Satisfied PropertyVerdict = iota
	// Violated: a counterexample exists.
	Violated
	// Unknown: the check was inconclusive.
	Unknown
	// Failed: the check itself errored.
	Failed
)

func (v PropertyVerdict) String() string {
	switch v {
	case Satisfied:
		return "satisfied"
	case Violated:
		return "violated"
	case Unknown:
		return "unknown"
	}
	return "error"
}

// Route names the engine a property was dispatched to.
type Route int

const (
	// RouteExplicit: the explicit-state CTL checker.
	RouteExplicit Route = iota
	// RouteSolver: the external solver bridge.
	RouteSolver
)

func (r Route) String() string {
	if r == RouteExplicit {
		return "explicit-state"
	}
	return "solver"
}

// PropertyResult is the outcome of checking one property.
type PropertyResult struct {
	Property       Property
	Verdict        PropertyVerdict
	Route          Route
	Reason         string
	Counterexample *kripke.Trace
	Witness        *kripke.Trace
	SolverStatus   solver.Status
	Duration       time.Duration

	statesExplored       int
	transitionsEvaluated int
}

// RunStats aggregates work across all properties of a run.
type RunStats struct {
	StatesExplored       int
	TransitionsEvaluated int
	Satisfied            int
	Violated             int
	Unknown              int
	Errors               int
	SolverCacheHits      int
	SolverCacheMisses    int
}

// RunStatus summarizes a whole run.
type RunStatus int

const (
	// Success: nothing violated and nothing errored.
	Success RunStatus = iota
	// PartialFailure: some properties violated or errored, some held.
	PartialFailure
	// Failure: no property was satisfied.
	Failure
)

func (s RunStatus) String() string {
	switch s {
	case Success:
		return "success"
	case PartialFailure:
		return "partial failure"
	}
	return "failure"
}

// RunReport is the full outcome of verifying one document.
type RunReport struct {
	RunID    string
	Document string
	Status   RunStatus

	Analysis *temporal.OperatorReport
	Patterns *temporal.PatternReport

	Properties []PropertyResult
	// ExtractionErrors holds constructs that failed to convert into
	// formulas, keyed by name. They are diagnostics, not run failures.
	ExtractionErrors map[string]error

	Stats    RunStats
	Duration time.Duration
}

// Orchestrator wires the analyzers, the state-space builder, and both
// checking engines into one pipeline. The solver cache is the only
// shared state and is owned here, passed to every bridge.
type Orchestrator struct {
	config   Config
	analyzer *temporal.Analyzer
	detector *temporal.Detector
	builder  *kripke.Builder
	cache    *solver.Cache
	runner   solver.Runner
	logger   *slog.Logger
}

// NewOrchestrator builds an orchestrator. A nil runner means the real
// solver binary from the configuration; tests inject fakes. A nil logger
// falls back to slog.Default.
func NewOrchestrator(config Config, runner solver.Runner, logger *slog.Logger) *Orchestrator {
	config = config.withDefaults()
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		config:   config,
		analyzer: temporal.NewAnalyzer(logger),
		detector: temporal.NewDetector(logger),
		builder:  kripke.NewBuilder(logger),
		cache:    solver.NewCache(),
		runner:   runner,
		logger:   logger,
	}
}

// Verify runs the full pipeline for one document: diagnostics first,
// then every extractable property, concurrently up to the worker limit.
// Cancellation is cooperative between properties; a property already
// being checked runs to completion.
func (o *Orchestrator) Verify(ctx context.Context, doc *ast.Document) (*RunReport, error) {
	start := time.Now()
	report := &RunReport{
		RunID:    uuid.NewString(),
		Document: docName(doc),
	}

	report.Analysis = o.analyzer.Analyze(doc)
	report.Patterns = o.detector.Detect(report.Analysis.Operators, docLines(doc))

	props, failures := PropertiesFromDocument(doc)
	report.ExtractionErrors = failures

	results := make([]PropertyResult, len(props))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.config.Workers)
	for i, prop := range props {
		if err := gctx.Err(); err != nil {
			report.Duration = time.Since(start)
			return report, err
		}
		i, prop := i, prop
		g.Go(func() error {
			results[i] = o.checkProperty(gctx, doc, prop)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		report.Duration = time.Since(start)
		return report, err
	}

	sort.Slice(results, func(a, b int) bool { return results[a].Property.Name < results[b].Property.Name })
	report.Properties = results
	report.Stats = o.aggregate(results)
	report.Status = overallStatus(report.Stats)
	report.Duration = time.Since(start)

	o.logger.Info("verification run complete",
		"run_id", report.RunID,
		"document", report.Document,
		"properties", len(results),
		"status", report.Status.String(),
		"duration", report.Duration)
	return report, nil
}

// checkProperty builds a private state space for the property and routes
// the formula: propositional and small CTL go to the explicit-state
// checker, everything else to the solver.
func (o *Orchestrator) checkProperty(ctx context.Context, doc *ast.Document, prop Property) PropertyResult {
	start := time.Now()
	out := PropertyResult{Property: prop}

	logic := kripke.Classify(prop.Formula)
	explicit := (logic == kripke.Propositional || logic == kripke.CTL) &&
		kripke.Size(prop.Formula) <= o.config.MaxFormulaSize &&
		!kripke.HasQuantifiedUntil(prop.Formula)

	if explicit {
		out.Route = RouteExplicit
		o.checkExplicit(doc, prop, &out)
	} else {
		out.Route = RouteSolver
		o.checkViaSolver(ctx, prop, &out)
	}

	out.Duration = time.Since(start)
	o.logger.Debug("property checked",
		"property", prop.Name,
		"logic", logic.String(),
		"route", out.Route.String(),
		"verdict", out.Verdict.String())
	return out
}

func (o *Orchestrator) checkExplicit(doc *ast.Document, prop Property, out *PropertyResult) {
	ss, err := o.builder.Build(doc)
	if err != nil {
		out.Verdict = Failed
		out.Reason = err.Error()
		return
	}
	checker, err := kripke.NewChecker(ss, o.config.Checker, o.logger)
	if err != nil {
		out.Verdict = Failed
		out.Reason = err.Error()
		return
	}

	res := checker.Check(prop.Formula)
	out.Reason = res.Reason
	out.Counterexample = res.Counterexample
	out.Witness = res.Witness
	out.statsFrom(res.Stats)
	switch res.Verdict {
	case kripke.VerdictSatisfied:
		out.Verdict = Satisfied
	case kripke.VerdictViolated:
		out.Verdict = Violated
	case kripke.VerdictUnknown:
		out.Verdict = Unknown
	default:
		out.Verdict = Failed
	}
}

func (o *Orchestrator) checkViaSolver(ctx context.Context, prop Property, out *PropertyResult) {
	bridge := solver.NewBridge(o.config.Solver, o.cache, o.runner, o.logger)
	res := bridge.Solve(ctx, prop.Formula)

	out.SolverStatus = res.Status
	out.Reason = res.Reason
	switch res.Verdict {
	case solver.VerdictProven:
		out.Verdict = Satisfied
	case solver.VerdictDisproven:
		out.Verdict = Violated
	case solver.VerdictUnknown:
		out.Verdict = Unknown
	default:
		out.Verdict = Failed
	}
}

// statsFrom stashes explicit-state work counters on the result so the
// run aggregation can sum them.
func (r *PropertyResult) statsFrom(s kripke.Stats) {
	r.statesExplored = s.StatesExplored
	r.transitionsEvaluated = s.TransitionsEvaluated
}

func (o *Orchestrator) aggregate(results []PropertyResult) RunStats {
	var stats RunStats
	for _, r := range results {
		stats.StatesExplored += r.statesExplored
		stats.TransitionsEvaluated += r.transitionsEvaluated
		switch r.Verdict {
		case Satisfied:
			stats.Satisfied++
		case Violated:
			stats.Violated++
		case Unknown:
			stats.Unknown++
		default:
			stats.Errors++
		}
	}
	stats.SolverCacheHits, stats.SolverCacheMisses = o.cache.Stats()
	return stats
}

func overallStatus(stats RunStats) RunStatus {
	switch {
	case stats.Violated == 0 && stats.Errors == 0:
		return Success
	case stats.Satisfied > 0:
		return PartialFailure
	default:
		return Failure
	}
}

func docName(doc *ast.Document) string {
	if doc == nil {
		return ""
	}
	return doc.Name
}

func docLines(doc *ast.Document) int {
	if doc == nil {
		return 0
	}
	return doc.LineCount
}
