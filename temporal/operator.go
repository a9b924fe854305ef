// Package temporal detects and classifies temporal operators and idiomatic
// temporal-logic patterns (safety, liveness, response, ...) in parsed
// specification documents. It is purely analytical: both the analyzer and
// the pattern detector return reports and never mutate their inputs.
package temporal

import "github.com/aisplang/tempus/ast"

// Operator is a temporal operator kind. The set is closed.
type Operator int

const (
	// Always holds in every future state (□, G).
	Always Operator = iota
	// Eventually holds in some future state (◊, F).
	Eventually
	// Next holds in the immediate successor state (X).
	Next
	// Until: left holds until right does, and right must occur (U).
	Until
	// Release: right holds up to and including the point left holds (R).
	Release
	// WeakUntil: until without the obligation that right occurs (W).
	WeakUntil
	// StrongRelease: release with the obligation that left occurs (M).
	StrongRelease
)

// operatorCount is the number of distinct operator kinds, used for the
// diversity component of the complexity score.
const operatorCount = 7

// Symbol returns the source symbol for op.
func (op Operator) Symbol() rune {
	switch op {
	case Always:
		return ast.SymAlways
	case Eventually:
		return ast.SymEventually
	case Next:
		return ast.SymNext
	case Until:
		return ast.SymUntil
	case Release:
		return ast.SymRelease
	case WeakUntil:
		return ast.SymWeakUntil
	case StrongRelease:
		return ast.SymStrongRelease
	}
	return '?'
}

func (op Operator) String() string { return string(op.Symbol()) }

// Binary reports whether op takes two operands.
func (op Operator) Binary() bool {
	switch op {
	case Until, Release, WeakUntil, StrongRelease:
		return true
	}
	return false
}

// OperatorForSymbol maps a source symbol to its operator kind.
func OperatorForSymbol(r rune) (Operator, bool) {
	switch r {
	case ast.SymAlways:
		return Always, true
	case ast.SymEventually:
		return Eventually, true
	case ast.SymNext:
		return Next, true
	case ast.SymUntil:
		return Until, true
	case ast.SymRelease:
		return Release, true
	case ast.SymWeakUntil:
		return WeakUntil, true
	case ast.SymStrongRelease:
		return StrongRelease, true
	}
	return 0, false
}

// ContextKind says which document construct an operator occurrence lives in.
type ContextKind int

const (
	// InRule marks an occurrence inside a logical rule.
	InRule ContextKind = iota
	// InFunction marks an occurrence inside a function body.
	InFunction
	// InMetaConstraint marks an occurrence inside a meta constraint.
	InMetaConstraint
	// InEvidence marks an occurrence inside an evidence field.
	InEvidence
)

func (k ContextKind) String() string {
	switch k {
	case InRule:
		return "rule"
	case InFunction:
		return "function"
	case InMetaConstraint:
		return "meta"
	case InEvidence:
		return "evidence"
	}
	return "unknown"
}

// Context tags an operator occurrence with its owning construct.
type Context struct {
	Kind  ContextKind
	Owner string
}

// OperatorInstance is one occurrence of a temporal operator. Instances are
// created during analysis and immutable afterward.
type OperatorInstance struct {
	Operator Operator
	Span     ast.Span
	Context  Context
	// Operands holds the operand text fragments, left to right. For
	// occurrences found by text scanning these are bounded windows, not
	// full parses.
	Operands []string
	// Nesting is the count of enclosing grouping constructs at the
	// occurrence point.
	Nesting int
}
