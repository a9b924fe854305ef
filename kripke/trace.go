package kripke

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// NoLoop marks a finite trace.
const NoLoop = -1

// Trace is a finite or lasso-shaped execution witness. For lasso traces
// LoopIndex is the position the path loops back to; finite traces carry
// NoLoop.
type Trace struct {
	TraceID string
	States  []StateID
	// Actions are the transition labels taken between consecutive
	// states; len(Actions) == len(States)-1.
	Actions   []string
	LoopIndex int
}

// newTrace builds a trace over the given path, labeling each step with
// the action of the transition actually taken.
func newTrace(ss *StateSpace, path []StateID, loopIndex int) *Trace {
	t := &Trace{
		TraceID:   uuid.NewString(),
		States:    path,
		LoopIndex: loopIndex,
	}
	for i := 0; i+1 < len(path); i++ {
		t.Actions = append(t.Actions, actionBetween(ss, path[i], path[i+1]))
	}
	return t
}

func actionBetween(ss *StateSpace, from, to StateID) string {
	for _, tr := range ss.Transitions[from] {
		if tr.To == to {
			if tr.Action != "" {
				return tr.Action
			}
			return "→"
		}
	}
	return "→"
}

// Lasso reports whether the trace represents an infinite execution.
func (t *Trace) Lasso() bool { return t.LoopIndex != NoLoop }

// String renders the trace as a compact path, marking the loop-back
// point of a lasso: s0 -step-> s1 -go-> (s2 ...)ω.
func (t *Trace) String() string {
	var sb strings.Builder
	for i, id := range t.States {
		if t.Lasso() && i == t.LoopIndex {
			sb.WriteString("(")
		}
		fmt.Fprintf(&sb, "s%d", id)
		if i < len(t.Actions) {
			fmt.Fprintf(&sb, " -%s-> ", t.Actions[i])
		}
	}
	if t.Lasso() {
		sb.WriteString(" ...)ω")
	}
	return sb.String()
}

// bfsPath returns the shortest path from one of the sources to any state
// in target, or nil when target is unreachable. Deterministic: successors
// are visited in adjacency order, sources in ascending id order.
func bfsPath(ss *StateSpace, sources StateSet, target StateSet) []StateID {
	parent := make(map[StateID]StateID)
	visited := NewStateSet()
	var queue []StateID
	for _, id := range sources.Slice() {
		if target.Has(id) {
			return []StateID{id}
		}
		visited.Add(id)
		queue = append(queue, id)
	}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, succ := range ss.Successors(cur) {
			if visited.Has(succ) {
				continue
			}
			visited.Add(succ)
			parent[succ] = cur
			if target.Has(succ) {
				return unwind(parent, sources, succ)
			}
			queue = append(queue, succ)
		}
	}
	return nil
}

func unwind(parent map[StateID]StateID, sources StateSet, end StateID) []StateID {
	var rev []StateID
	cur := end
	for {
		rev = append(rev, cur)
		if sources.Has(cur) {
			break
		}
		cur = parent[cur]
	}
	path := make([]StateID, len(rev))
	for i, id := range rev {
		path[len(rev)-1-i] = id
	}
	return path
}

// lassoWithin walks from start staying inside region until a state
// repeats, producing a lasso path. The region must be closed under at
// least one successor per state (an EG set), so the walk cannot escape.
func lassoWithin(ss *StateSpace, start StateID, region StateSet) ([]StateID, int) {
	indexOf := map[StateID]int{start: 0}
	path := []StateID{start}
	cur := start
	for {
		var next StateID
		found := false
		for _, succ := range ss.Successors(cur) {
			if region.Has(succ) {
				next = succ
				found = true
				break
			}
		}
		if !found {
			return path, NoLoop
		}
		if at, seen := indexOf[next]; seen {
			return path, at
		}
		indexOf[next] = len(path)
		path = append(path, next)
		cur = next
	}
}
