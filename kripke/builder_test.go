package kripke

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aisplang/tempus/ast"
)

func TestBuildFromRules(t *testing.T) {
	doc := &ast.Document{
		Name: "traffic",
		Rules: []ast.Rule{
			{Name: "request", Expr: ast.Var{Name: "pending"}},
			{Name: "grant", Expr: ast.And{
				Left:  ast.Var{Name: "pending"},
				Right: ast.Var{Name: "granted"},
			}},
		},
	}

	ss, err := NewBuilder(nil).Build(doc)
	require.NoError(t, err)
	require.NoError(t, ss.Validate())

	assert.False(t, ss.Degenerate)
	assert.Len(t, ss.States, 3) // init plus one per rule
	assert.Equal(t, 1, ss.Initial.Size())

	// Rule names and their variables become propositions.
	assert.NotNil(t, ss.Props["request"])
	assert.NotNil(t, ss.Props["grant"])
	assert.NotNil(t, ss.Props["pending"])
	assert.NotNil(t, ss.Props["granted"])

	// Every state has a successor: the chain closes into a cycle.
	for id := range ss.States {
		assert.NotEmpty(t, ss.Successors(id), "state %d is a dead end", id)
	}
}

func TestBuildEmptyDocumentIsDegenerate(t *testing.T) {
	ss, err := NewBuilder(nil).Build(&ast.Document{Name: "empty"})
	require.NoError(t, err)

	assert.True(t, ss.Degenerate)
	assert.Len(t, ss.States, 1)
	assert.Equal(t, 1, ss.Initial.Size())
	for id := range ss.Initial {
		assert.NotEmpty(t, ss.Successors(id))
	}

	c, err := NewChecker(ss, CheckerConfig{}, nil)
	require.NoError(t, err)
	res := c.Check(ForallAlways{Operand: Atomic{Name: "init"}})
	assert.Equal(t, VerdictUnknown, res.Verdict)
}

func TestBuildNilDocument(t *testing.T) {
	ss, err := NewBuilder(nil).Build(nil)
	require.NoError(t, err)
	assert.True(t, ss.Degenerate)
}

func TestBuiltSpaceSupportsReachability(t *testing.T) {
	doc := &ast.Document{
		Name: "cycle",
		Rules: []ast.Rule{
			{Name: "a", Expr: ast.Var{Name: "x"}},
			{Name: "b", Expr: ast.Var{Name: "y"}},
		},
	}
	ss, err := NewBuilder(nil).Build(doc)
	require.NoError(t, err)

	c, err := NewChecker(ss, CheckerConfig{}, nil)
	require.NoError(t, err)

	// Every labeled rule state is reachable from init.
	for _, prop := range []string{"a", "b", "x", "y"} {
		res := c.Check(ExistsEventually{Operand: Atomic{Name: prop}})
		assert.Equal(t, VerdictSatisfied, res.Verdict, "EF %s", prop)
	}
	// And the cycle makes init recurrent.
	res := c.Check(ForallAlways{Operand: ExistsEventually{Operand: Atomic{Name: "init"}}})
	assert.Equal(t, VerdictSatisfied, res.Verdict)
}

func TestDOTRendering(t *testing.T) {
	ss := threeStateCycle(t)
	dot := ss.DOT(nil)
	assert.Contains(t, dot, "digraph StateSpace")
	assert.Contains(t, dot, "start -> s0")
	assert.Contains(t, dot, `s1 -> s2 [label="step"]`)
	assert.Contains(t, dot, "{p}")

	trace := newTrace(ss, []StateID{0, 1}, NoLoop)
	highlighted := ss.DOT(trace)
	assert.Contains(t, highlighted, "fillcolor=lightgray")
}
