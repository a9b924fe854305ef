package kripke

import "fmt"

// Formula is a temporal logic state formula. The grammar mirrors standard
// CTL/LTL: boolean connectives, plain path operators (LTL), and their
// E/A path-quantified forms (CTL). Each non-atomic variant owns its
// subformulas exclusively; formulas are trees, never shared.
type Formula interface {
	isFormula()
	String() string
}

// Atomic is an atomic proposition reference.
type Atomic struct{ Name string }

// Not is ¬φ.
type Not struct{ Operand Formula }

// And is φ ∧ ψ.
type And struct{ Left, Right Formula }

// Or is φ ∨ ψ.
type Or struct{ Left, Right Formula }

// Implies is φ → ψ.
type Implies struct{ Left, Right Formula }

// Always is G φ (□φ), an LTL path formula.
type Always struct{ Operand Formula }

// Eventually is F φ (◊φ), an LTL path formula.
type Eventually struct{ Operand Formula }

// Next is X φ, an LTL path formula.
type Next struct{ Operand Formula }

// Until is φ U ψ.
type Until struct{ Left, Right Formula }

// Release is φ R ψ.
type Release struct{ Left, Right Formula }

// WeakUntil is φ W ψ.
type WeakUntil struct{ Left, Right Formula }

// StrongRelease is φ M ψ.
type StrongRelease struct{ Left, Right Formula }

// ExistsNext is EX φ.
type ExistsNext struct{ Operand Formula }

// ForallNext is AX φ.
type ForallNext struct{ Operand Formula }

// ExistsAlways is EG φ.
type ExistsAlways struct{ Operand Formula }

// ForallAlways is AG φ.
type ForallAlways struct{ Operand Formula }

// ExistsEventually is EF φ.
type ExistsEventually struct{ Operand Formula }

// ForallEventually is AF φ.
type ForallEventually struct{ Operand Formula }

// ExistsUntil is E[φ U ψ].
type ExistsUntil struct{ Left, Right Formula }

// ForallUntil is A[φ U ψ].
type ForallUntil struct{ Left, Right Formula }

func (Atomic) isFormula()           {}
func (Not) isFormula()              {}
func (And) isFormula()              {}
func (Or) isFormula()               {}
func (Implies) isFormula()          {}
func (Always) isFormula()           {}
func (Eventually) isFormula()       {}
func (Next) isFormula()             {}
func (Until) isFormula()            {}
func (Release) isFormula()          {}
func (WeakUntil) isFormula()        {}
func (StrongRelease) isFormula()    {}
func (ExistsNext) isFormula()       {}
func (ForallNext) isFormula()       {}
func (ExistsAlways) isFormula()     {}
func (ForallAlways) isFormula()     {}
func (ExistsEventually) isFormula() {}
func (ForallEventually) isFormula() {}
func (ExistsUntil) isFormula()      {}
func (ForallUntil) isFormula()      {}

func (f Atomic) String() string  { return f.Name }
func (f Not) String() string     { return "¬" + wrap(f.Operand) }
func (f And) String() string     { return wrap(f.Left) + " ∧ " + wrap(f.Right) }
func (f Or) String() string      { return wrap(f.Left) + " ∨ " + wrap(f.Right) }
func (f Implies) String() string { return wrap(f.Left) + " → " + wrap(f.Right) }

func (f Always) String() string     { return "G " + wrap(f.Operand) }
func (f Eventually) String() string { return "F " + wrap(f.Operand) }
func (f Next) String() string       { return "X " + wrap(f.Operand) }

func (f Until) String() string         { return wrap(f.Left) + " U " + wrap(f.Right) }
func (f Release) String() string       { return wrap(f.Left) + " R " + wrap(f.Right) }
func (f WeakUntil) String() string     { return wrap(f.Left) + " W " + wrap(f.Right) }
func (f StrongRelease) String() string { return wrap(f.Left) + " M " + wrap(f.Right) }

func (f ExistsNext) String() string       { return "EX " + wrap(f.Operand) }
func (f ForallNext) String() string       { return "AX " + wrap(f.Operand) }
func (f ExistsAlways) String() string     { return "EG " + wrap(f.Operand) }
func (f ForallAlways) String() string     { return "AG " + wrap(f.Operand) }
func (f ExistsEventually) String() string { return "EF " + wrap(f.Operand) }
func (f ForallEventually) String() string { return "AF " + wrap(f.Operand) }

func (f ExistsUntil) String() string {
	return fmt.Sprintf("E[%s U %s]", wrap(f.Left), wrap(f.Right))
}

func (f ForallUntil) String() string {
	return fmt.Sprintf("A[%s U %s]", wrap(f.Left), wrap(f.Right))
}

func wrap(f Formula) string {
	if _, ok := f.(Atomic); ok {
		return f.String()
	}
	return "(" + f.String() + ")"
}

// Logic classifies a formula for routing between the explicit-state
// checker and the solver bridge.
type Logic int

const (
	// Propositional has no temporal operators at all.
	Propositional Logic = iota
	// LTL has plain path operators only.
	LTL
	// CTL has path-quantified operators only.
	CTL
	// CTLStar mixes quantified and unquantified path operators.
	CTLStar
)

func (l Logic) String() string {
	switch l {
	case Propositional:
		return "propositional"
	case LTL:
		return "LTL"
	case CTL:
		return "CTL"
	}
	return "CTL*"
}

// Classify determines which logic fragment f belongs to.
func Classify(f Formula) Logic {
	hasPlain, hasQuantified := scanLogic(f)
	switch {
	case hasPlain && hasQuantified:
		return CTLStar
	case hasQuantified:
		return CTL
	case hasPlain:
		return LTL
	}
	return Propositional
}

func scanLogic(f Formula) (plain, quantified bool) {
	merge := func(subs ...Formula) {
		for _, sub := range subs {
			p, q := scanLogic(sub)
			plain = plain || p
			quantified = quantified || q
		}
	}
	switch n := f.(type) {
	case Atomic:
	case Not:
		merge(n.Operand)
	case And:
		merge(n.Left, n.Right)
	case Or:
		merge(n.Left, n.Right)
	case Implies:
		merge(n.Left, n.Right)
	case Always:
		plain = true
		merge(n.Operand)
	case Eventually:
		plain = true
		merge(n.Operand)
	case Next:
		plain = true
		merge(n.Operand)
	case Until:
		plain = true
		merge(n.Left, n.Right)
	case Release:
		plain = true
		merge(n.Left, n.Right)
	case WeakUntil:
		plain = true
		merge(n.Left, n.Right)
	case StrongRelease:
		plain = true
		merge(n.Left, n.Right)
	case ExistsNext:
		quantified = true
		merge(n.Operand)
	case ForallNext:
		quantified = true
		merge(n.Operand)
	case ExistsAlways:
		quantified = true
		merge(n.Operand)
	case ForallAlways:
		quantified = true
		merge(n.Operand)
	case ExistsEventually:
		quantified = true
		merge(n.Operand)
	case ForallEventually:
		quantified = true
		merge(n.Operand)
	case ExistsUntil:
		quantified = true
		merge(n.Left, n.Right)
	case ForallUntil:
		quantified = true
		merge(n.Left, n.Right)
	}
	return plain, quantified
}

// HasQuantifiedUntil reports whether f contains an E[φ U ψ] or A[φ U ψ]
// subformula. The marking algorithm has no fixed-point case for these,
// so callers route such formulas to the solver.
func HasQuantifiedUntil(f Formula) bool {
	switch n := f.(type) {
	case ExistsUntil, ForallUntil:
		return true
	case Not:
		return HasQuantifiedUntil(n.Operand)
	case And:
		return HasQuantifiedUntil(n.Left) || HasQuantifiedUntil(n.Right)
	case Or:
		return HasQuantifiedUntil(n.Left) || HasQuantifiedUntil(n.Right)
	case Implies:
		return HasQuantifiedUntil(n.Left) || HasQuantifiedUntil(n.Right)
	case Always:
		return HasQuantifiedUntil(n.Operand)
	case Eventually:
		return HasQuantifiedUntil(n.Operand)
	case Next:
		return HasQuantifiedUntil(n.Operand)
	case Until:
		return HasQuantifiedUntil(n.Left) || HasQuantifiedUntil(n.Right)
	case Release:
		return HasQuantifiedUntil(n.Left) || HasQuantifiedUntil(n.Right)
	case WeakUntil:
		return HasQuantifiedUntil(n.Left) || HasQuantifiedUntil(n.Right)
	case StrongRelease:
		return HasQuantifiedUntil(n.Left) || HasQuantifiedUntil(n.Right)
	case ExistsNext:
		return HasQuantifiedUntil(n.Operand)
	case ForallNext:
		return HasQuantifiedUntil(n.Operand)
	case ExistsAlways:
		return HasQuantifiedUntil(n.Operand)
	case ForallAlways:
		return HasQuantifiedUntil(n.Operand)
	case ExistsEventually:
		return HasQuantifiedUntil(n.Operand)
	case ForallEventually:
		return HasQuantifiedUntil(n.Operand)
	}
	return false
}

// Atoms returns the distinct atomic proposition names in f, in
// first-seen order.
func Atoms(f Formula) []string {
	seen := make(map[string]struct{})
	var out []string
	var walk func(Formula)
	walk = func(f Formula) {
		switch n := f.(type) {
		case Atomic:
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
		case Always:
			walk(n.Operand)
		case Eventually:
			walk(n.Operand)
		case Next:
			walk(n.Operand)
		case Until:
			walk(n.Left)
			walk(n.Right)
		case Release:
			walk(n.Left)
			walk(n.Right)
		case WeakUntil:
			walk(n.Left)
			walk(n.Right)
		case StrongRelease:
			walk(n.Left)
			walk(n.Right)
		case ExistsNext:
			walk(n.Operand)
		case ForallNext:
			walk(n.Operand)
		case ExistsAlways:
			walk(n.Operand)
		case ForallAlways:
			walk(n.Operand)
		case ExistsEventually:
			walk(n.Operand)
		case ForallEventually:
			walk(n.Operand)
		case ExistsUntil:
			walk(n.Left)
			walk(n.Right)
		case ForallUntil:
			walk(n.Left)
			walk(n.Right)
		}
	}
	walk(f)
	return out
}

// Size counts the nodes of f.
func Size(f Formula) int {
	switch n := f.(type) {
	case Atomic:
		return 1
	case Not:
		return 1 + Size(n.Operand)
	case And:
		return 1 + Size(n.Left) + Size(n.Right)
	case Or:
		return 1 + Size(n.Left) + Size(n.Right)
	case Implies:
		return 1 + Size(n.Left) + Size(n.Right)
	case Always:
		return 1 + Size(n.Operand)
	case Eventually:
		return 1 + Size(n.Operand)
	case Next:
		return 1 + Size(n.Operand)
	case Until:
		return 1 + Size(n.Left) + Size(n.Right)
	case Release:
		return 1 + Size(n.Left) + Size(n.Right)
	case WeakUntil:
		return 1 + Size(n.Left) + Size(n.Right)
	case StrongRelease:
		return 1 + Size(n.Left) + Size(n.Right)
	case ExistsNext:
		return 1 + Size(n.Operand)
	case ForallNext:
		return 1 + Size(n.Operand)
	case ExistsAlways:
		return 1 + Size(n.Operand)
	case ForallAlways:
		return 1 + Size(n.Operand)
	case ExistsEventually:
		return 1 + Size(n.Operand)
	case ForallEventually:
		return 1 + Size(n.Operand)
	case ExistsUntil:
		return 1 + Size(n.Left) + Size(n.Right)
	case ForallUntil:
		return 1 + Size(n.Left) + Size(n.Right)
	}
	return 1
}
