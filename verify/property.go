// Package verify runs the full verification pipeline over parsed
// documents: operator analysis and pattern detection for diagnostics,
// then per-property model checking, routed between the explicit-state
// CTL checker and the external solver by formula shape.
package verify

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/aisplang/tempus/ast"
	"github.com/aisplang/tempus/kripke"
)

// PropertySource says where in the document a property came from.
type PropertySource int

const (
	// SourceRule: the property is a declared rule expression.
	SourceRule PropertySource = iota
	// SourceMeta: the property is a document-level meta constraint.
	SourceMeta
	// SourceFunction: the property is a function body.
	SourceFunction
)

func (s PropertySource) String() string {
	switch s {
	case SourceRule:
		return "rule"
	case SourceMeta:
		return "meta"
	}
	return "function"
}

// Property is one temporal obligation extracted from a document.
type Property struct {
	ID      string
	Name    string
	Source  PropertySource
	Formula kripke.Formula
	Span    ast.Span
}

// PropertiesFromDocument extracts every checkable property: each rule
// expression, meta constraint, and function body that converts to a
// formula. Constructs that fail to convert are reported as errors keyed
// by name; they never abort extraction of the rest.
func PropertiesFromDocument(doc *ast.Document) ([]Property, map[string]error) {
	var props []Property
	failures := make(map[string]error)

	add := func(name string, source PropertySource, e ast.Expr, span ast.Span) {
		f, err := formulaFromExpr(e)
		if err != nil {
			failures[name] = err
			return
		}
		props = append(props, Property{
			ID:      uuid.NewString(),
			Name:    name,
			Source:  source,
			Formula: f,
			Span:    span,
		})
	}

	if doc == nil {
		return nil, failures
	}
	for _, r := range doc.Rules {
		add(r.Name, SourceRule, r.Expr, r.Span)
	}
	for _, m := range doc.Meta {
		add(m.Key, SourceMeta, m.Constraint, m.Span)
	}
	for _, fn := range doc.Functions {
		add(fn.Name, SourceFunction, fn.Body, fn.Span)
	}
	return props, failures
}

// formulaFromExpr converts a document expression to a temporal formula.
// Raw text falls back to the formula parser.
func formulaFromExpr(e ast.Expr) (kripke.Formula, error) {
	switch n := e.(type) {
	case ast.Var:
		return kripke.Atomic{Name: n.Name}, nil
	case ast.Const:
		// Constants become the always-empty atom or its negation, which
		// the checker resolves against the labeling.
		if n.Value {
			return kripke.Not{Operand: kripke.Atomic{Name: "⊥"}}, nil
		}
		return kripke.Atomic{Name: "⊥"}, nil
	case ast.Not:
		inner, err := formulaFromExpr(n.Operand)
		if err != nil {
			return nil, err
		}
		return kripke.Not{Operand: inner}, nil
	case ast.And:
		l, r, err := convertPair(n.Left, n.Right)
		if err != nil {
			return nil, err
		}
		return kripke.And{Left: l, Right: r}, nil
	case ast.Or:
		l, r, err := convertPair(n.Left, n.Right)
		if err != nil {
			return nil, err
		}
		return kripke.Or{Left: l, Right: r}, nil
	case ast.Implies:
		l, r, err := convertPair(n.Left, n.Right)
		if err != nil {
			return nil, err
		}
		return kripke.Implies{Left: l, Right: r}, nil
	case ast.Temporal:
		return temporalFromExpr(n)
	case ast.Raw:
		return kripke.ParseFormula(n.Text)
	}
	return nil, fmt.Errorf("unconvertible expression %T", e)
}

func convertPair(left, right ast.Expr) (kripke.Formula, kripke.Formula, error) {
	l, err := formulaFromExpr(left)
	if err != nil {
		return nil, nil, err
	}
	r, err := formulaFromExpr(right)
	if err != nil {
		return nil, nil, err
	}
	return l, r, nil
}

func temporalFromExpr(t ast.Temporal) (kripke.Formula, error) {
	switch t.Op {
	case ast.SymAlways, ast.SymEventually, ast.SymNext:
		operand, err := formulaFromExpr(t.Left)
		if err != nil {
			return nil, err
		}
		switch t.Op {
		case ast.SymAlways:
			return kripke.Always{Operand: operand}, nil
		case ast.SymEventually:
			return kripke.Eventually{Operand: operand}, nil
		default:
			return kripke.Next{Operand: operand}, nil
		}
	case ast.SymUntil, ast.SymRelease, ast.SymWeakUntil, ast.SymStrongRelease:
		l, r, err := convertPair(t.Left, t.Right)
		if err != nil {
			return nil, err
		}
		switch t.Op {
		case ast.SymUntil:
			return kripke.Until{Left: l, Right: r}, nil
		case ast.SymRelease:
			return kripke.Release{Left: l, Right: r}, nil
		case ast.SymWeakUntil:
			return kripke.WeakUntil{Left: l, Right: r}, nil
		default:
			return kripke.StrongRelease{Left: l, Right: r}, nil
		}
	}
	return nil, fmt.Errorf("unknown temporal operator %q", t.Op)
}
