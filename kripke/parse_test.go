package kripke

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormula(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Formula
	}{
		{"atom", "ready", Atomic{Name: "ready"}},
		{"negation", "¬p", Not{Operand: Atomic{Name: "p"}}},
		{"ascii negation", "!p", Not{Operand: Atomic{Name: "p"}}},
		{"conjunction", "p ∧ q", And{Left: Atomic{Name: "p"}, Right: Atomic{Name: "q"}}},
		{"implication", "p → q", Implies{Left: Atomic{Name: "p"}, Right: Atomic{Name: "q"}}},
		{"ascii implication", "p -> q", Implies{Left: Atomic{Name: "p"}, Right: Atomic{Name: "q"}}},
		{"always symbol", "□p", Always{Operand: Atomic{Name: "p"}}},
		{"eventually symbol", "◊p", Eventually{Operand: Atomic{Name: "p"}}},
		{"letter forms", "G F p", Always{Operand: Eventually{Operand: Atomic{Name: "p"}}}},
		{"next", "X p", Next{Operand: Atomic{Name: "p"}}},
		{"until", "p U q", Until{Left: Atomic{Name: "p"}, Right: Atomic{Name: "q"}}},
		{"release", "p R q", Release{Left: Atomic{Name: "p"}, Right: Atomic{Name: "q"}}},
		{
			"response idiom",
			"□(request → ◊response)",
			Always{Operand: Implies{
				Left:  Atomic{Name: "request"},
				Right: Eventually{Operand: Atomic{Name: "response"}},
			}},
		},
		{"ctl ag", "AG safe", ForallAlways{Operand: Atomic{Name: "safe"}}},
		{"ctl ef", "EF goal", ExistsEventually{Operand: Atomic{Name: "goal"}}},
		{"ctl nested", "AG EF reset", ForallAlways{Operand: ExistsEventually{Operand: Atomic{Name: "reset"}}}},
		{
			"exists until",
			"E[p U q]",
			ExistsUntil{Left: Atomic{Name: "p"}, Right: Atomic{Name: "q"}},
		},
		{
			"forall until",
			"A[p U q]",
			ForallUntil{Left: Atomic{Name: "p"}, Right: Atomic{Name: "q"}},
		},
		{
			"parenthesized until inside quantifier brackets",
			"E[(p U q) U r]",
			ExistsUntil{
				Left:  Until{Left: Atomic{Name: "p"}, Right: Atomic{Name: "q"}},
				Right: Atomic{Name: "r"},
			},
		},
		{
			"nested quantified until",
			"A[p U E[q U r]]",
			ForallUntil{
				Left:  Atomic{Name: "p"},
				Right: ExistsUntil{Left: Atomic{Name: "q"}, Right: Atomic{Name: "r"}},
			},
		},
		{
			"until binds tighter than and",
			"p U q ∧ r",
			And{Left: Until{Left: Atomic{Name: "p"}, Right: Atomic{Name: "q"}}, Right: Atomic{Name: "r"}},
		},
		// Operator letters only trigger when not glued to an identifier.
		{"atom starting with AG", "AGree", Atomic{Name: "AGree"}},
		{"atom starting with X", "Xylophone", Atomic{Name: "Xylophone"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFormula(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseFormulaErrors(t *testing.T) {
	for _, input := range []string{
		"",
		"   ",
		"(p",
		"p ∧",
		"E[p q]",
		"A[p U q",
		"p q",
	} {
		t.Run(input, func(t *testing.T) {
			_, err := ParseFormula(input)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrParse)
		})
	}
}

func TestClassify(t *testing.T) {
	p := Atomic{Name: "p"}
	assert.Equal(t, Propositional, Classify(And{Left: p, Right: Not{Operand: p}}))
	assert.Equal(t, LTL, Classify(Always{Operand: Eventually{Operand: p}}))
	assert.Equal(t, CTL, Classify(ForallAlways{Operand: ExistsEventually{Operand: p}}))
	assert.Equal(t, CTLStar, Classify(ForallAlways{Operand: Eventually{Operand: p}}))
}

func TestParseRoundTrip(t *testing.T) {
	for _, input := range []string{
		"AG (p → EF q)",
		"□(request → ◊response)",
		"E[p U q]",
		"E[(p U q) U r]",
		"A[p U E[q U r]]",
	} {
		f, err := ParseFormula(input)
		require.NoError(t, err)
		again, err := ParseFormula(f.String())
		require.NoError(t, err)
		assert.Equal(t, f, again, "round-trip changed %q", input)
	}
}
