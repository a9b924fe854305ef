// Package solver bridges temporal formulas to an external SMT solver.
// Formulas outside the explicit-state CTL fragment (plain LTL, large or
// unsuitable CTL) are encoded as bounded satisfiability queries, shipped
// to the solver process, and the raw sat/unsat/unknown verdict is mapped
// back into the verification vocabulary. Results are cached by normalized
// formula text; cache entries are write-once.
package solver

import (
	"fmt"
	"time"
)

// Status is the raw solver outcome for one query.
type Status int

const (
	// StatusSatisfiable: the solver found a model.
	StatusSatisfiable Status = iota
	// StatusUnsatisfiable: the solver proved no model exists.
	StatusUnsatisfiable
	// StatusUnknown: the solver gave up (timeout, incompleteness).
	StatusUnknown
	// StatusError: the query never produced a verdict.
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusSatisfiable:
		return "sat"
	case StatusUnsatisfiable:
		return "unsat"
	case StatusUnknown:
		return "unknown"
	}
	return "error"
}

// Verdict is the property-level interpretation of a solver outcome,
// depending on whether the property or its negation was asserted.
type Verdict int

const (
	// VerdictProven: the property holds on the encoded paths.
	VerdictProven Verdict = iota
	// VerdictDisproven: the solver produced a counterexample model.
	VerdictDisproven
	// VerdictUnknown: no conclusion.
	VerdictUnknown
	// VerdictError: translation or solver failure.
	VerdictError
)

func (v Verdict) String() string {
	switch v {
	case VerdictProven:
		return "proven"
	case VerdictDisproven:
		return "disproven"
	case VerdictUnknown:
		return "unknown"
	}
	return "error"
}

// ModelValue is a value in a satisfying model. The variant set is closed.
type ModelValue interface {
	isModelValue()
	String() string
}

// BoolValue is a boolean model value.
type BoolValue bool

// IntValue is an integer model value.
type IntValue int64

// RealValue is a real-valued model value.
type RealValue float64

// StringValue is a string model value.
type StringValue string

func (BoolValue) isModelValue()   {}
func (IntValue) isModelValue()    {}
func (RealValue) isModelValue()   {}
func (StringValue) isModelValue() {}

func (v BoolValue) String() string   { return fmt.Sprintf("%t", bool(v)) }
func (v IntValue) String() string    { return fmt.Sprintf("%d", int64(v)) }
func (v RealValue) String() string   { return fmt.Sprintf("%g", float64(v)) }
func (v StringValue) String() string { return string(v) }

// FunctionInterpretation is a non-constant function in a model.
type FunctionInterpretation struct {
	Domain []string
	Range  string
	Body   string
}

// ConstraintModel is a satisfying assignment extracted from the solver.
type ConstraintModel struct {
	Variables  map[string]ModelValue
	Functions  map[string]FunctionInterpretation
	Predicates map[string]bool
}

// Size returns the number of interpreted symbols in the model.
func (m *ConstraintModel) Size() int {
	if m == nil {
		return 0
	}
	return len(m.Variables) + len(m.Functions) + len(m.Predicates)
}

// ProofStep is one step in an unsatisfiability argument.
type ProofStep struct {
	Rule          string
	Premises      []string
	Conclusion    string
	Justification string
}

// UnsatProof is a structured unsatisfiability explanation: the asserted
// constraints the solver reported as conflicting, plus a step trail.
type UnsatProof struct {
	ConflictingConstraints []string
	Steps                  []ProofStep
	Reason                 string
}

// Result is the outcome of one Solve call. Once constructed it is never
// mutated; the cache hands the same value back on every hit.
type Result struct {
	Status  Status
	Verdict Verdict
	// Model is set when Status is StatusSatisfiable.
	Model *ConstraintModel
	// Proof is set when Status is StatusUnsatisfiable.
	Proof *UnsatProof
	// Reason carries the explanation for Unknown and Error outcomes.
	Reason   string
	Duration time.Duration
	// Cached reports whether this result came from the formula cache
	// rather than a fresh solver invocation.
	Cached bool
}
