package kripke

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTLAPlusExport(t *testing.T) {
	ss := threeStateCycle(t)
	tla := ss.TLAPlus("Cycle")

	assert.Contains(t, tla, "---- MODULE Cycle ----")
	assert.Contains(t, tla, "States == {0, 1, 2}")
	assert.Contains(t, tla, "Init ==\n    state = 0")
	assert.Contains(t, tla, "(state = 0 /\\ state' = 1)    \\* step")
	assert.Contains(t, tla, "(state = 2 /\\ state' = 0)    \\* reset")
	assert.Contains(t, tla, "p == state \\in {2}")
	assert.Contains(t, tla, "Spec == Init /\\ [][Next]_vars")
	assert.Contains(t, tla, "====")
}

func TestTLAPlusSanitizesPropositionNames(t *testing.T) {
	ss := NewStateSpace()
	s0 := ss.AddState("queue.empty")
	ss.MarkInitial(s0)
	ss.AddTransition(s0, Transition{To: s0})

	tla := ss.TLAPlus("M")
	assert.Contains(t, tla, "queue_empty == state \\in {0}")
}
