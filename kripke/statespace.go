package kripke

import "fmt"

// Value is a variable valuation inside a state. The variant set is closed.
type Value interface {
	isValue()
	String() string
}

// BoolValue is a boolean valuation.
type BoolValue bool

// IntValue is an integer valuation.
type IntValue int64

// StringValue is a string valuation.
type StringValue string

func (BoolValue) isValue()   {}
func (IntValue) isValue()    {}
func (StringValue) isValue() {}

func (v BoolValue) String() string   { return fmt.Sprintf("%t", bool(v)) }
func (v IntValue) String() string    { return fmt.Sprintf("%d", int64(v)) }
func (v StringValue) String() string { return string(v) }

// SystemState is one state of the modeled system.
type SystemState struct {
	ID        StateID
	Variables map[string]Value
	// Locations are the active control locations.
	Locations map[string]struct{}
	// Properties are free-form state annotations.
	Properties map[string]struct{}
}

// Transition is one outgoing edge. Guard, Action, and Probability are
// optional; a zero Probability means unspecified.
type Transition struct {
	To          StateID
	Guard       string
	Action      string
	Probability float64
}

// StateSpace is a finite labeled transition system: a state arena, an
// adjacency list per state, the initial state set, and a labeling from
// atomic proposition name to the states where it holds.
type StateSpace struct {
	States      map[StateID]*SystemState
	Transitions map[StateID][]Transition
	Initial     StateSet
	Props       map[string]StateSet
	// Degenerate marks a minimal fallback space built from a document
	// with too little structure; checks against it are inconclusive.
	Degenerate bool
}

// NewStateSpace returns an empty space.
func NewStateSpace() *StateSpace {
	return &StateSpace{
		States:      make(map[StateID]*SystemState),
		Transitions: make(map[StateID][]Transition),
		Initial:     NewStateSet(),
		Props:       make(map[string]StateSet),
	}
}

// AddState inserts a fresh state and returns its id.
func (ss *StateSpace) AddState(props ...string) StateID {
	id := StateID(len(ss.States))
	st := &SystemState{
		ID:         id,
		Variables:  make(map[string]Value),
		Locations:  make(map[string]struct{}),
		Properties: make(map[string]struct{}),
	}
	for _, p := range props {
		st.Properties[p] = struct{}{}
	}
	ss.States[id] = st
	for _, p := range props {
		ss.Label(p, id)
	}
	return id
}

// AddTransition appends an edge from one state to another.
func (ss *StateSpace) AddTransition(from StateID, t Transition) {
	ss.Transitions[from] = append(ss.Transitions[from], t)
}

// Label marks prop as holding at id.
func (ss *StateSpace) Label(prop string, id StateID) {
	set, ok := ss.Props[prop]
	if !ok {
		set = NewStateSet()
		ss.Props[prop] = set
	}
	set.Add(id)
}

// MarkInitial adds id to the initial state set.
func (ss *StateSpace) MarkInitial(id StateID) {
	ss.Initial.Add(id)
}

// Successors returns the target ids of every outgoing edge of id.
func (ss *StateSpace) Successors(id StateID) []StateID {
	ts := ss.Transitions[id]
	out := make([]StateID, len(ts))
	for i, t := range ts {
		out[i] = t.To
	}
	return out
}

// Universe returns the set of all states.
func (ss *StateSpace) Universe() StateSet {
	u := make(StateSet, len(ss.States))
	for id := range ss.States {
		u.Add(id)
	}
	return u
}

// Validate checks the structural invariants: every transition target and
// every initial id must resolve to an arena entry, and every labeled state
// must exist. A failure here is a builder bug, not a user error.
func (ss *StateSpace) Validate() error {
	for from, ts := range ss.Transitions {
		if _, ok := ss.States[from]; !ok {
			return fmt.Errorf("%w: transitions from unknown state %d", ErrInternal, from)
		}
		for _, t := range ts {
			if _, ok := ss.States[t.To]; !ok {
				return fmt.Errorf("%w: transition %d -> %d targets unknown state", ErrInternal, from, t.To)
			}
		}
	}
	for id := range ss.Initial {
		if _, ok := ss.States[id]; !ok {
			return fmt.Errorf("%w: initial state %d not in arena", ErrInternal, id)
		}
	}
	for prop, set := range ss.Props {
		for id := range set {
			if _, ok := ss.States[id]; !ok {
				return fmt.Errorf("%w: proposition %q labels unknown state %d", ErrInternal, prop, id)
			}
		}
	}
	return nil
}

// PreE returns the states with at least one successor in w:
// Pre_E(W) = { s | ∃ s' . R(s,s') ∧ s' ∈ W }.
func (ss *StateSpace) PreE(w StateSet) StateSet {
	out := NewStateSet()
	for from, ts := range ss.Transitions {
		for _, t := range ts {
			if w.Has(t.To) {
				out.Add(from)
				break
			}
		}
	}
	return out
}

// PreA returns the states with at least one successor and all successors
// in w. Dead-end states never qualify: AX φ is false where nothing comes
// next.
func (ss *StateSpace) PreA(w StateSet) StateSet {
	out := NewStateSet()
	for from, ts := range ss.Transitions {
		if len(ts) == 0 {
			continue
		}
		all := true
		for _, t := range ts {
			if !w.Has(t.To) {
				all = false
				break
			}
		}
		if all {
			out.Add(from)
		}
	}
	return out
}
