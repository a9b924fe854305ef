package ast

import (
	"fmt"
	"strings"
)

// Temporal operator symbols as they appear in source documents. The
// expression tree stores the raw symbol; classification into operator
// kinds happens in the temporal package.
const (
	SymAlways        = '□'
	SymEventually    = '◊'
	SymNext          = 'X'
	SymUntil         = 'U'
	SymRelease       = 'R'
	SymWeakUntil     = 'W'
	SymStrongRelease = 'M'
)

// Expr is a node in the expression tree. The variant set is closed: the
// parser emits nothing else, and consumers switch exhaustively.
type Expr interface {
	isExpr()
	String() string
}

// Var is a variable or atomic proposition reference.
type Var struct {
	Name string
}

// Const is a boolean literal.
type Const struct {
	Value bool
}

// Not is logical negation.
type Not struct {
	Operand Expr
}

// And is conjunction.
type And struct {
	Left, Right Expr
}

// Or is disjunction.
type Or struct {
	Left, Right Expr
}

// Implies is implication.
type Implies struct {
	Left, Right Expr
}

// Temporal applies a temporal operator. Unary operators use Left only;
// binary operators (U, R, W, M) use both sides.
type Temporal struct {
	Op    rune
	Left  Expr
	Right Expr
}

// Raw is unparsed expression text. It survives only where the upstream
// parser could not recover structure; analyzers scan it heuristically.
type Raw struct {
	Text string
}

func (Var) isExpr()      {}
func (Const) isExpr()    {}
func (Not) isExpr()      {}
func (And) isExpr()      {}
func (Or) isExpr()       {}
func (Implies) isExpr()  {}
func (Temporal) isExpr() {}
func (Raw) isExpr()      {}

func (v Var) String() string { return v.Name }

func (c Const) String() string {
	if c.Value {
		return "⊤"
	}
	return "⊥"
}

func (n Not) String() string { return "¬" + paren(n.Operand) }

func (a And) String() string { return paren(a.Left) + " ∧ " + paren(a.Right) }

func (o Or) String() string { return paren(o.Left) + " ∨ " + paren(o.Right) }

func (i Implies) String() string { return paren(i.Left) + " → " + paren(i.Right) }

func (t Temporal) String() string {
	if t.Right == nil {
		return fmt.Sprintf("%c%s", t.Op, paren(t.Left))
	}
	return fmt.Sprintf("%s %c %s", paren(t.Left), t.Op, paren(t.Right))
}

func (r Raw) String() string { return r.Text }

// paren wraps composite operands so rendered formulas read unambiguously.
func paren(e Expr) string {
	switch e.(type) {
	case Var, Const, Raw:
		return e.String()
	default:
		return "(" + e.String() + ")"
	}
}

// Variables returns the distinct variable names referenced by e, in
// first-seen order.
func Variables(e Expr) []string {
	seen := make(map[string]struct{})
	var out []string
	var walk func(Expr)
	walk = func(e Expr) {
		switch n := e.(type) {
		case Var:
			if _, ok := seen[n.Name]; !ok {
				seen[n.Name] = struct{}{}
				out = append(out, n.Name)
			}
		case Not:
			walk(n.Operand)
		case And:
			walk(n.Left)
			walk(n.Right)
		case Or:
			walk(n.Left)
			walk(n.Right)
		case Implies:
			walk(n.Left)
			walk(n.Right)
		case Temporal:
			if n.Left != nil {
				walk(n.Left)
			}
			if n.Right != nil {
				walk(n.Right)
			}
		case Raw:
			for _, tok := range strings.FieldsFunc(n.Text, func(r rune) bool {
				return !isIdentRune(r)
			}) {
				if operatorToken(tok) {
					continue
				}
				if _, ok := seen[tok]; !ok {
					seen[tok] = struct{}{}
					out = append(out, tok)
				}
			}
		}
	}
	walk(e)
	return out
}

// operatorToken reports whether a raw-text token is a letter-form
// temporal operator or path quantifier rather than a variable.
func operatorToken(s string) bool {
	switch s {
	case "U", "R", "W", "M", "X", "G", "F", "A", "E",
		"AG", "AF", "AX", "EG", "EF", "EX":
		return true
	}
	return false
}

func isIdentRune(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}
