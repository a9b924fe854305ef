package solver

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aisplang/tempus/kripke"
)

// polarity records which side of the property the query asserts.
type polarity int

const (
	// assertNegation: the negated property is asserted, so unsat proves
	// the property (universal/LTL encoding).
	assertNegation polarity = iota
	// assertDirect: the property itself is asserted, so sat proves it
	// (existential encoding).
	assertDirect
)

// translation is a complete SMT-LIB script ready for the solver, plus the
// metadata needed to interpret its verdict.
type translation struct {
	Script   string
	Polarity polarity
	// Assertions maps assertion labels to their rendered constraint, for
	// unsat-core reporting.
	Assertions map[string]string
}

// translate encodes formula as a bounded satisfiability query over a
// single symbolic path of depth steps. Plain LTL formulas quantify over
// all paths implicitly and use the negated encoding; purely existential
// CTL formulas ask for a witness path directly. Mixed quantifiers cannot
// be expressed on one path and are rejected.
func translate(formula kripke.Formula, cfg Config) (*translation, error) {
	pol, err := encodingPolarity(formula)
	if err != nil {
		return nil, err
	}
	depth := cfg.UnrollDepth

	path := stripQuantifiers(formula)
	body, err := encode(path, 0, depth)
	if err != nil {
		return nil, err
	}
	if pol == assertNegation {
		body = "(not " + body + ")"
	}

	var sb strings.Builder
	// The boolean path encoding lives in QF_UF; theory reasoning widens
	// the logic so verbatim options can bring in arithmetic or arrays.
	if cfg.EnableTheoryReasoning {
		sb.WriteString("(set-logic ALL)\n")
	} else {
		sb.WriteString("(set-logic QF_UF)\n")
	}
	fmt.Fprintf(&sb, "(set-option :smt.mbqi %t)\n", cfg.EnableQuantifierInstantiation)
	for _, k := range sortedOptionKeys(cfg.Options) {
		fmt.Fprintf(&sb, "(set-option :%s %s)\n", k, cfg.Options[k])
	}
	sb.WriteString("(set-option :produce-models true)\n")
	sb.WriteString("(set-option :produce-unsat-cores true)\n")

	for _, atom := range kripke.Atoms(formula) {
		for i := 0; i <= depth; i++ {
			fmt.Fprintf(&sb, "(declare-fun %s () Bool)\n", stepVar(atom, i))
		}
	}

	label := "property"
	fmt.Fprintf(&sb, "(assert (! %s :named %s))\n", body, label)
	sb.WriteString("(check-sat)\n")
	sb.WriteString("(get-model)\n")

	return &translation{
		Script:     sb.String(),
		Polarity:   pol,
		Assertions: map[string]string{label: body},
	}, nil
}

// encodingPolarity decides the assertion direction from the formula's
// quantifier structure.
func encodingPolarity(f kripke.Formula) (polarity, error) {
	exists, forall := quantifiers(f)
	switch {
	case exists && forall:
		return 0, fmt.Errorf("%w: mixed path quantifiers in %s", ErrTranslate, f)
	case exists:
		return assertDirect, nil
	default:
		// Universal CTL and plain LTL both prove by refuting the
		// negation on an arbitrary path.
		return assertNegation, nil
	}
}

func quantifiers(f kripke.Formula) (exists, forall bool) {
	merge := func(subs ...kripke.Formula) {
		for _, sub := range subs {
			e, a := quantifiers(sub)
			exists = exists || e
			forall = forall || a
		}
	}
	switch n := f.(type) {
	case kripke.Not:
		merge(n.Operand)
	case kripke.And:
		merge(n.Left, n.Right)
	case kripke.Or:
		merge(n.Left, n.Right)
	case kripke.Implies:
		merge(n.Left, n.Right)
	case kripke.Always:
		merge(n.Operand)
	case kripke.Eventually:
		merge(n.Operand)
	case kripke.Next:
		merge(n.Operand)
	case kripke.Until:
		merge(n.Left, n.Right)
	case kripke.Release:
		merge(n.Left, n.Right)
	case kripke.WeakUntil:
		merge(n.Left, n.Right)
	case kripke.StrongRelease:
		merge(n.Left, n.Right)
	case kripke.ExistsNext:
		exists = true
		merge(n.Operand)
	case kripke.ExistsAlways:
		exists = true
		merge(n.Operand)
	case kripke.ExistsEventually:
		exists = true
		merge(n.Operand)
	case kripke.ExistsUntil:
		exists = true
		merge(n.Left, n.Right)
	case kripke.ForallNext:
		forall = true
		merge(n.Operand)
	case kripke.ForallAlways:
		forall = true
		merge(n.Operand)
	case kripke.ForallEventually:
		forall = true
		merge(n.Operand)
	case kripke.ForallUntil:
		forall = true
		merge(n.Left, n.Right)
	}
	return exists, forall
}

// stripQuantifiers rewrites CTL operators to their path-operator cores.
// Valid only after encodingPolarity confirmed a single quantifier
// direction: the quantifier is then carried by the encoding polarity.
func stripQuantifiers(f kripke.Formula) kripke.Formula {
	switch n := f.(type) {
	case kripke.Not:
		return kripke.Not{Operand: stripQuantifiers(n.Operand)}
	case kripke.And:
		return kripke.And{Left: stripQuantifiers(n.Left), Right: stripQuantifiers(n.Right)}
	case kripke.Or:
		return kripke.Or{Left: stripQuantifiers(n.Left), Right: stripQuantifiers(n.Right)}
	case kripke.Implies:
		return kripke.Implies{Left: stripQuantifiers(n.Left), Right: stripQuantifiers(n.Right)}
	case kripke.Always:
		return kripke.Always{Operand: stripQuantifiers(n.Operand)}
	case kripke.Eventually:
		return kripke.Eventually{Operand: stripQuantifiers(n.Operand)}
	case kripke.Next:
		return kripke.Next{Operand: stripQuantifiers(n.Operand)}
	case kripke.Until:
		return kripke.Until{Left: stripQuantifiers(n.Left), Right: stripQuantifiers(n.Right)}
	case kripke.Release:
		return kripke.Release{Left: stripQuantifiers(n.Left), Right: stripQuantifiers(n.Right)}
	case kripke.WeakUntil:
		return kripke.WeakUntil{Left: stripQuantifiers(n.Left), Right: stripQuantifiers(n.Right)}
	case kripke.StrongRelease:
		return kripke.StrongRelease{Left: stripQuantifiers(n.Left), Right: stripQuantifiers(n.Right)}
	case kripke.ExistsNext:
		return kripke.Next{Operand: stripQuantifiers(n.Operand)}
	case kripke.ForallNext:
		return kripke.Next{Operand: stripQuantifiers(n.Operand)}
	case kripke.ExistsAlways:
		return kripke.Always{Operand: stripQuantifiers(n.Operand)}
	case kripke.ForallAlways:
		return kripke.Always{Operand: stripQuantifiers(n.Operand)}
	case kripke.ExistsEventually:
		return kripke.Eventually{Operand: stripQuantifiers(n.Operand)}
	case kripke.ForallEventually:
		return kripke.Eventually{Operand: stripQuantifiers(n.Operand)}
	case kripke.ExistsUntil:
		return kripke.Until{Left: stripQuantifiers(n.Left), Right: stripQuantifiers(n.Right)}
	case kripke.ForallUntil:
		return kripke.Until{Left: stripQuantifiers(n.Left), Right: stripQuantifiers(n.Right)}
	}
	return f
}

// encode renders the path formula at step i of a depth-bounded path.
// The final step idles: X at the horizon stays at the horizon, which
// matches a stuttering extension of the bounded path.
func encode(f kripke.Formula, i, depth int) (string, error) {
	switch n := f.(type) {
	case kripke.Atomic:
		return stepVar(n.Name, i), nil
	case kripke.Not:
		inner, err := encode(n.Operand, i, depth)
		if err != nil {
			return "", err
		}
		return "(not " + inner + ")", nil
	case kripke.And:
		return encodeBinary("and", n.Left, n.Right, i, depth)
	case kripke.Or:
		return encodeBinary("or", n.Left, n.Right, i, depth)
	case kripke.Implies:
		return encodeBinary("=>", n.Left, n.Right, i, depth)
	case kripke.Next:
		j := i + 1
		if j > depth {
			j = depth
		}
		return encode(n.Operand, j, depth)
	case kripke.Always:
		return encodeSpread("and", n.Operand, i, depth)
	case kripke.Eventually:
		return encodeSpread("or", n.Operand, i, depth)
	case kripke.Until:
		return encodeUntil(n.Left, n.Right, i, depth)
	case kripke.WeakUntil:
		// φ W ψ ≡ (φ U ψ) ∨ G φ
		u, err := encodeUntil(n.Left, n.Right, i, depth)
		if err != nil {
			return "", err
		}
		g, err := encodeSpread("and", n.Left, i, depth)
		if err != nil {
			return "", err
		}
		return "(or " + u + " " + g + ")", nil
	case kripke.Release:
		// φ R ψ ≡ ¬(¬φ U ¬ψ)
		u, err := encodeUntil(kripke.Not{Operand: n.Left}, kripke.Not{Operand: n.Right}, i, depth)
		if err != nil {
			return "", err
		}
		return "(not " + u + ")", nil
	case kripke.StrongRelease:
		// φ M ψ ≡ ψ U (φ ∧ ψ)
		return encodeUntil(n.Right, kripke.And{Left: n.Left, Right: n.Right}, i, depth)
	}
	return "", fmt.Errorf("%w: unexpected %T after quantifier stripping", ErrTranslate, f)
}

func encodeBinary(op string, l, r kripke.Formula, i, depth int) (string, error) {
	left, err := encode(l, i, depth)
	if err != nil {
		return "", err
	}
	right, err := encode(r, i, depth)
	if err != nil {
		return "", err
	}
	return "(" + op + " " + left + " " + right + ")", nil
}

// encodeSpread applies op across every remaining step.
func encodeSpread(op string, f kripke.Formula, i, depth int) (string, error) {
	parts := make([]string, 0, depth-i+1)
	for j := i; j <= depth; j++ {
		part, err := encode(f, j, depth)
		if err != nil {
			return "", err
		}
		parts = append(parts, part)
	}
	if len(parts) == 1 {
		return parts[0], nil
	}
	return "(" + op + " " + strings.Join(parts, " ") + ")", nil
}

// encodeUntil renders φ U ψ as: ψ holds at some step j, with φ holding
// at every step before j.
func encodeUntil(phi, psi kripke.Formula, i, depth int) (string, error) {
	var cases []string
	for j := i; j <= depth; j++ {
		at, err := encode(psi, j, depth)
		if err != nil {
			return "", err
		}
		conj := []string{at}
		for l := i; l < j; l++ {
			hold, err := encode(phi, l, depth)
			if err != nil {
				return "", err
			}
			conj = append(conj, hold)
		}
		if len(conj) == 1 {
			cases = append(cases, conj[0])
		} else {
			cases = append(cases, "(and "+strings.Join(conj, " ")+")")
		}
	}
	if len(cases) == 1 {
		return cases[0], nil
	}
	return "(or " + strings.Join(cases, " ") + ")", nil
}

// stepVar names the boolean for atom at path step i. Characters outside
// the SMT-LIB simple-symbol alphabet are replaced.
func stepVar(atom string, i int) string {
	var sb strings.Builder
	for _, r := range atom {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			sb.WriteRune(r)
		default:
			sb.WriteByte('x')
		}
	}
	return fmt.Sprintf("%s_%d", sb.String(), i)
}

func sortedOptionKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
