package ast

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDocument = `name: mutex
rules:
  - name: request
    expr: "□(request → ◊grant)"
    line: 3
  - name: release
    expr: "grant U released"
functions:
  - name: fair
    params: [proc]
    body: "□◊scheduled"
    line: 9
meta:
  - key: deadlock_free
    constraint: "AG EX true"
    line: 12
evidence:
  - name: trace_log
    text: "request grant released"
    line: 15
`

func TestDecode(t *testing.T) {
	doc, err := Decode([]byte(sampleDocument))
	require.NoError(t, err)

	assert.Equal(t, "mutex", doc.Name)
	assert.Equal(t, 21, doc.LineCount)

	require.Len(t, doc.Rules, 2)
	assert.Equal(t, "request", doc.Rules[0].Name)
	assert.Equal(t, Raw{Text: "□(request → ◊grant)"}, doc.Rules[0].Expr)
	assert.Equal(t, 3, doc.Rules[0].Span.StartLine)
	// A missing line defaults to 1 instead of an invalid zero span.
	assert.Equal(t, 1, doc.Rules[1].Span.StartLine)

	require.Len(t, doc.Functions, 1)
	assert.Equal(t, []string{"proc"}, doc.Functions[0].Params)
	assert.Equal(t, Raw{Text: "□◊scheduled"}, doc.Functions[0].Body)

	require.Len(t, doc.Meta, 1)
	assert.Equal(t, "deadlock_free", doc.Meta[0].Key)

	require.Len(t, doc.Evidence, 1)
	assert.Equal(t, "trace_log", doc.Evidence[0].Name)
	assert.Equal(t, "request grant released", doc.Evidence[0].Text)
}

func TestDecodeRejectsMalformedYAML(t *testing.T) {
	_, err := Decode([]byte("rules: [unclosed"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode document")
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleDocument), 0o644))

	doc, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "mutex", doc.Name)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestVariables(t *testing.T) {
	e := Implies{
		Left: And{Left: Var{Name: "p"}, Right: Var{Name: "q"}},
		Right: Temporal{
			Op:   SymEventually,
			Left: Or{Left: Var{Name: "p"}, Right: Not{Operand: Var{Name: "r"}}},
		},
	}
	assert.Equal(t, []string{"p", "q", "r"}, Variables(e))

	// Raw text splits on non-identifier runes; operator symbols and
	// letter-form operators vanish.
	assert.Equal(t, []string{"req", "ack"}, Variables(Raw{Text: "□(req → ◊ack)"}))
	assert.Equal(t, []string{"locked", "open"}, Variables(Raw{Text: "¬locked U open"}))

	assert.Empty(t, Variables(Const{Value: true}))
}

func TestExprString(t *testing.T) {
	cases := []struct {
		expr Expr
		want string
	}{
		{Var{Name: "p"}, "p"},
		{Const{Value: true}, "⊤"},
		{Const{Value: false}, "⊥"},
		{Not{Operand: Var{Name: "p"}}, "¬p"},
		{And{Left: Var{Name: "p"}, Right: Or{Left: Var{Name: "q"}, Right: Var{Name: "r"}}}, "p ∧ (q ∨ r)"},
		{Temporal{Op: SymAlways, Left: Var{Name: "safe"}}, "□safe"},
		{Temporal{Op: SymUntil, Left: Var{Name: "p"}, Right: Var{Name: "q"}}, "p U q"},
		{Temporal{
			Op:   SymAlways,
			Left: Implies{Left: Var{Name: "p"}, Right: Temporal{Op: SymEventually, Left: Var{Name: "q"}}},
		}, "□(p → (◊q))"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.expr.String())
	}
}
