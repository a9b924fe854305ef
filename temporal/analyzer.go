package temporal

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/montanaflynn/stats"

	"github.com/aisplang/tempus/ast"
)

// operandWindow bounds the text fragment captured on each side of a binary
// operator found by raw-text scanning. Tree-walked occurrences render
// their operands exactly and never hit this limit.
const operandWindow = 10

// maxReasonableNesting is the nesting level beyond which operator usage is
// flagged as hard to review.
const maxReasonableNesting = 5

// Complexity summarizes operator usage across a document.
type Complexity struct {
	OperatorCount int
	MaxNesting    int
	AvgNesting    float64
	// Frequency counts occurrences per operator kind.
	Frequency map[Operator]int
	// Score is a composite in [0,1] combining nesting depth, operator
	// count, and operator-kind diversity.
	Score float64
}

// OperatorReport is the result of a document analysis pass.
type OperatorReport struct {
	Operators  []OperatorInstance
	Complexity Complexity
	Errors     []error
	Warnings   []string
	// Valid is false when errors exist or the complexity score exceeds
	// the reviewable threshold.
	Valid bool
}

// Analyzer scans documents for temporal operator occurrences.
type Analyzer struct {
	logger *slog.Logger
}

// NewAnalyzer creates an analyzer. A nil logger falls back to
// slog.Default().
func NewAnalyzer(logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{logger: logger}
}

// Analyze walks every rule, function body, meta constraint, and evidence
// field of doc and records each temporal operator occurrence. It has no
// side effects beyond the returned report.
func (a *Analyzer) Analyze(doc *ast.Document) *OperatorReport {
	if doc == nil {
		doc = &ast.Document{}
	}
	var ops []OperatorInstance

	for _, r := range doc.Rules {
		ops = append(ops, a.scanExpr(r.Expr, Context{Kind: InRule, Owner: r.Name}, r.Span)...)
	}
	for _, f := range doc.Functions {
		fnOps := a.scanExpr(f.Body, Context{Kind: InFunction, Owner: f.Name}, f.Span)
		ops = append(ops, fnOps...)
	}
	for _, m := range doc.Meta {
		ops = append(ops, a.scanExpr(m.Constraint, Context{Kind: InMetaConstraint, Owner: m.Key}, m.Span)...)
	}
	for _, e := range doc.Evidence {
		ops = append(ops, a.scanText(e.Text, Context{Kind: InEvidence, Owner: e.Name}, e.Span)...)
	}

	report := &OperatorReport{
		Operators:  ops,
		Complexity: computeComplexity(ops),
	}
	a.validate(doc, report)
	report.Valid = len(report.Errors) == 0 && report.Complexity.Score <= 0.8

	a.logger.Debug("operator analysis complete",
		"document", doc.Name,
		"operators", len(ops),
		"score", report.Complexity.Score,
		"valid", report.Valid)
	return report
}

// scanExpr walks a parsed expression tree. Raw nodes fall back to text
// scanning; everything else yields exact operands and nesting.
func (a *Analyzer) scanExpr(e ast.Expr, ctx Context, span ast.Span) []OperatorInstance {
	var out []OperatorInstance
	var walk func(e ast.Expr, nesting int)
	walk = func(e ast.Expr, nesting int) {
		switch n := e.(type) {
		case ast.Var, ast.Const:
		case ast.Raw:
			for _, inst := range a.scanText(n.Text, ctx, span) {
				inst.Nesting += nesting
				out = append(out, inst)
			}
		case ast.Not:
			walk(n.Operand, nesting+1)
		case ast.And:
			walk(n.Left, nesting+1)
			walk(n.Right, nesting+1)
		case ast.Or:
			walk(n.Left, nesting+1)
			walk(n.Right, nesting+1)
		case ast.Implies:
			walk(n.Left, nesting+1)
			walk(n.Right, nesting+1)
		case ast.Temporal:
			op, ok := OperatorForSymbol(n.Op)
			if !ok {
				return
			}
			var operands []string
			if n.Left != nil {
				operands = append(operands, n.Left.String())
			}
			if n.Right != nil {
				operands = append(operands, n.Right.String())
			}
			out = append(out, OperatorInstance{
				Operator: op,
				Span:     span,
				Context:  ctx,
				Operands: operands,
				Nesting:  nesting,
			})
			if n.Left != nil {
				walk(n.Left, nesting+1)
			}
			if n.Right != nil {
				walk(n.Right, nesting+1)
			}
		}
	}
	walk(e, 0)
	return out
}

// scanText scans unparsed text for operator symbols, tracking nesting with
// a delimiter counter. Binary operators get a bounded window on each side
// as their operand fragments; this is a heuristic, not a parse.
func (a *Analyzer) scanText(text string, ctx Context, span ast.Span) []OperatorInstance {
	var out []OperatorInstance
	nesting := 0
	runes := []rune(text)
	for i, r := range runes {
		switch r {
		case '(', '[', '{':
			nesting++
			continue
		case ')', ']', '}':
			if nesting > 0 {
				nesting--
			}
			continue
		}
		op, ok := OperatorForSymbol(r)
		if !ok {
			continue
		}
		var operands []string
		if op.Binary() {
			operands = operandWindows(runes, i)
		}
		out = append(out, OperatorInstance{
			Operator: op,
			Span:     span,
			Context:  ctx,
			Operands: operands,
			Nesting:  nesting,
		})
	}
	return out
}

// operandWindows extracts up to operandWindow runes on each side of pos.
func operandWindows(runes []rune, pos int) []string {
	var operands []string
	left := pos - operandWindow
	if left < 0 {
		left = 0
	}
	if left < pos {
		if s := strings.TrimSpace(string(runes[left:pos])); s != "" {
			operands = append(operands, s)
		}
	}
	right := pos + 1 + operandWindow
	if right > len(runes) {
		right = len(runes)
	}
	if pos+1 < right {
		if s := strings.TrimSpace(string(runes[pos+1 : right])); s != "" {
			operands = append(operands, s)
		}
	}
	return operands
}

func computeComplexity(ops []OperatorInstance) Complexity {
	c := Complexity{Frequency: make(map[Operator]int)}
	if len(ops) == 0 {
		return c
	}

	c.OperatorCount = len(ops)
	nestings := make([]float64, len(ops))
	for i, op := range ops {
		c.Frequency[op.Operator]++
		nestings[i] = float64(op.Nesting)
		if op.Nesting > c.MaxNesting {
			c.MaxNesting = op.Nesting
		}
	}
	c.AvgNesting, _ = stats.Mean(nestings)

	nestingFactor := min(float64(c.MaxNesting)/10.0, 1.0)
	countFactor := min(float64(c.OperatorCount)/20.0, 1.0)
	diversityFactor := float64(len(c.Frequency)) / operatorCount
	c.Score = (nestingFactor + countFactor + diversityFactor) / 3.0
	return c
}

// validate applies the operator usage checks: missing operands on binary
// operators (error), excessive nesting and safety/liveness imbalance
// (warnings), and over-temporal function bodies (warning).
func (a *Analyzer) validate(doc *ast.Document, report *OperatorReport) {
	highNesting := 0
	for _, op := range report.Operators {
		if op.Operator.Binary() && len(op.Operands) < 2 {
			report.Errors = append(report.Errors,
				fmt.Errorf("%w: %s in %s %q", ErrMissingOperand, op.Operator, op.Context.Kind, op.Context.Owner))
		}
		if op.Nesting > maxReasonableNesting {
			highNesting++
		}
	}
	if highNesting > 0 {
		report.Warnings = append(report.Warnings, fmt.Sprintf(
			"%d operators with nesting level above %d, consider simplifying", highNesting, maxReasonableNesting))
	}

	alwaysCount := report.Complexity.Frequency[Always]
	eventuallyCount := report.Complexity.Frequency[Eventually]
	if alwaysCount > 0 && eventuallyCount > alwaysCount*2 {
		report.Warnings = append(report.Warnings,
			"many 'eventually' operators relative to 'always' operators, check for safety/liveness imbalance")
	}

	for _, f := range doc.Functions {
		n := 0
		for _, op := range report.Operators {
			if op.Context.Kind == InFunction && op.Context.Owner == f.Name {
				n++
			}
		}
		if n > 3 {
			report.Warnings = append(report.Warnings, fmt.Sprintf(
				"function %q contains %d temporal operators, consider simplifying", f.Name, n))
		}
	}
}
