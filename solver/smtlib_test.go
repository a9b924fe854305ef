package solver

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aisplang/tempus/kripke"
)

func testConfig(depth int) Config {
	cfg := DefaultConfig()
	cfg.UnrollDepth = depth
	return cfg
}

func TestTranslateUniversalNegates(t *testing.T) {
	f := kripke.Always{Operand: kripke.Atomic{Name: "p"}}
	tr, err := translate(f, testConfig(2))
	require.NoError(t, err)

	assert.Equal(t, assertNegation, tr.Polarity)
	assert.Contains(t, tr.Script, "(assert (! (not (and p_0 p_1 p_2)) :named property))")
	assert.Contains(t, tr.Script, "(check-sat)")
	assert.Contains(t, tr.Script, "(declare-fun p_0 () Bool)")
	assert.Contains(t, tr.Script, "(declare-fun p_2 () Bool)")
}

func TestTranslateExistentialAssertsDirectly(t *testing.T) {
	f := kripke.ExistsEventually{Operand: kripke.Atomic{Name: "p"}}
	tr, err := translate(f, testConfig(2))
	require.NoError(t, err)

	assert.Equal(t, assertDirect, tr.Polarity)
	assert.Contains(t, tr.Script, "(assert (! (or p_0 p_1 p_2) :named property))")
}

func TestTranslatePreambleFollowsConfig(t *testing.T) {
	f := kripke.Always{Operand: kripke.Atomic{Name: "p"}}

	cfg := testConfig(1)
	tr, err := translate(f, cfg)
	require.NoError(t, err)
	assert.Contains(t, tr.Script, "(set-logic ALL)")
	assert.Contains(t, tr.Script, "(set-option :smt.mbqi true)")
	assert.Contains(t, tr.Script, "(set-option :model_completion true)")

	cfg.EnableTheoryReasoning = false
	cfg.EnableQuantifierInstantiation = false
	tr, err = translate(f, cfg)
	require.NoError(t, err)
	assert.Contains(t, tr.Script, "(set-logic QF_UF)")
	assert.Contains(t, tr.Script, "(set-option :smt.mbqi false)")
}

func TestTranslateMixedQuantifiersRejected(t *testing.T) {
	f := kripke.ForallAlways{Operand: kripke.ExistsEventually{Operand: kripke.Atomic{Name: "p"}}}
	_, err := translate(f, testConfig(2))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTranslate)
}

func TestTranslateResponseIdiom(t *testing.T) {
	// □(req → ◊ack) declares both atoms at every step.
	f := kripke.Always{Operand: kripke.Implies{
		Left:  kripke.Atomic{Name: "req"},
		Right: kripke.Eventually{Operand: kripke.Atomic{Name: "ack"}},
	}}
	tr, err := translate(f, testConfig(3))
	require.NoError(t, err)

	for i := 0; i <= 3; i++ {
		assert.Contains(t, tr.Script, "(declare-fun req_"+itoa(i)+" () Bool)")
		assert.Contains(t, tr.Script, "(declare-fun ack_"+itoa(i)+" () Bool)")
	}
	// The eventuality at the last step collapses to a single atom.
	assert.Contains(t, tr.Script, "(=> req_3 ack_3)")
}

func itoa(i int) string { return string(rune('0' + i)) }

func TestEncodeUntil(t *testing.T) {
	f := kripke.Until{Left: kripke.Atomic{Name: "p"}, Right: kripke.Atomic{Name: "q"}}
	got, err := encode(f, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, "(or q_0 (and q_1 p_0) (and q_2 p_0 p_1))", got)
}

func TestEncodeNextIdlesAtHorizon(t *testing.T) {
	f := kripke.Next{Operand: kripke.Next{Operand: kripke.Atomic{Name: "p"}}}
	got, err := encode(f, 0, 1)
	require.NoError(t, err)
	assert.Equal(t, "p_1", got)
}

func TestEncodeWeakUntilAndRelease(t *testing.T) {
	p, q := kripke.Atomic{Name: "p"}, kripke.Atomic{Name: "q"}

	w, err := encode(kripke.WeakUntil{Left: p, Right: q}, 0, 1)
	require.NoError(t, err)
	assert.Equal(t, "(or (or q_0 (and q_1 p_0)) (and p_0 p_1))", w)

	r, err := encode(kripke.Release{Left: p, Right: q}, 0, 1)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(r, "(not (or"))
}

func TestStripQuantifiers(t *testing.T) {
	f := kripke.ForallAlways{Operand: kripke.ForallEventually{Operand: kripke.Atomic{Name: "p"}}}
	stripped := stripQuantifiers(f)
	assert.Equal(t,
		kripke.Always{Operand: kripke.Eventually{Operand: kripke.Atomic{Name: "p"}}},
		stripped)
}

func TestStepVarSanitizesSymbols(t *testing.T) {
	assert.Equal(t, "readyxgo_3", stepVar("ready.go", 3))
	assert.Equal(t, "plain_0", stepVar("plain", 0))
}

func TestParseOutputVerdicts(t *testing.T) {
	out, err := parseOutput("unsat\n")
	require.NoError(t, err)
	assert.Equal(t, StatusUnsatisfiable, out.Status)

	out, err = parseOutput("sat\n(model\n(define-fun p_0 () Bool true)\n)\n")
	require.NoError(t, err)
	assert.Equal(t, StatusSatisfiable, out.Status)
	assert.Equal(t, map[string]bool{"p_0": true}, out.Assignments)

	out, err = parseOutput("unknown\n")
	require.NoError(t, err)
	assert.Equal(t, StatusUnknown, out.Status)
}

func TestParseOutputRejectsGarbage(t *testing.T) {
	_, err := parseOutput("")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSolverOutput)

	_, err = parseOutput("(error \"line 3: unknown sort\")\n")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSolverOutput)
}
