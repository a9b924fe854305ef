package verify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aisplang/tempus/ast"
	"github.com/aisplang/tempus/kripke"
)

func TestFormulaFromExpr(t *testing.T) {
	tests := []struct {
		name string
		expr ast.Expr
		want kripke.Formula
	}{
		{"variable", ast.Var{Name: "ready"}, kripke.Atomic{Name: "ready"}},
		{
			"negated conjunction",
			ast.Not{Operand: ast.And{Left: ast.Var{Name: "p"}, Right: ast.Var{Name: "q"}}},
			kripke.Not{Operand: kripke.And{Left: kripke.Atomic{Name: "p"}, Right: kripke.Atomic{Name: "q"}}},
		},
		{
			"always",
			ast.Temporal{Op: ast.SymAlways, Left: ast.Var{Name: "safe"}},
			kripke.Always{Operand: kripke.Atomic{Name: "safe"}},
		},
		{
			"until",
			ast.Temporal{Op: ast.SymUntil, Left: ast.Var{Name: "p"}, Right: ast.Var{Name: "q"}},
			kripke.Until{Left: kripke.Atomic{Name: "p"}, Right: kripke.Atomic{Name: "q"}},
		},
		{
			"response",
			ast.Temporal{Op: ast.SymAlways, Left: ast.Implies{
				Left:  ast.Var{Name: "req"},
				Right: ast.Temporal{Op: ast.SymEventually, Left: ast.Var{Name: "ack"}},
			}},
			kripke.Always{Operand: kripke.Implies{
				Left:  kripke.Atomic{Name: "req"},
				Right: kripke.Eventually{Operand: kripke.Atomic{Name: "ack"}},
			}},
		},
		{
			"raw ctl text",
			ast.Raw{Text: "AG EF reset"},
			kripke.ForallAlways{Operand: kripke.ExistsEventually{Operand: kripke.Atomic{Name: "reset"}}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := formulaFromExpr(tt.expr)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormulaFromExprMalformedRaw(t *testing.T) {
	_, err := formulaFromExpr(ast.Raw{Text: "((broken"})
	require.Error(t, err)
	assert.ErrorIs(t, err, kripke.ErrParse)
}

func TestPropertiesFromDocument(t *testing.T) {
	doc := &ast.Document{
		Name: "protocol",
		Rules: []ast.Rule{
			{Name: "handshake", Expr: ast.Var{Name: "connected"}},
			{Name: "broken", Expr: ast.Raw{Text: "(("}},
		},
		Meta: []ast.MetaEntry{
			{Key: "liveness", Constraint: ast.Raw{Text: "AG EF init"}},
		},
		Functions: []ast.Function{
			{Name: "retry", Body: ast.Temporal{Op: ast.SymEventually, Left: ast.Var{Name: "sent"}}},
		},
	}

	props, failures := PropertiesFromDocument(doc)
	require.Len(t, props, 3)
	require.Len(t, failures, 1)
	assert.Contains(t, failures, "broken")

	byName := make(map[string]Property, len(props))
	for _, p := range props {
		assert.NotEmpty(t, p.ID)
		byName[p.Name] = p
	}
	assert.Equal(t, SourceRule, byName["handshake"].Source)
	assert.Equal(t, SourceMeta, byName["liveness"].Source)
	assert.Equal(t, SourceFunction, byName["retry"].Source)
}

func TestPropertiesFromNilDocument(t *testing.T) {
	props, failures := PropertiesFromDocument(nil)
	assert.Empty(t, props)
	assert.Empty(t, failures)
}
