// Package kripke models finite labeled transition systems and checks CTL
// formulas against them with the classic explicit-state marking algorithm:
// each subformula is evaluated bottom-up to the set of states satisfying
// it, with least/greatest fixed points for the eventuality and invariance
// operators.
package kripke

import "sort"

// StateID identifies a state in the arena. States are indexed by integer
// id with transitions as adjacency lists of ids, so whole-set operations
// need no pointer chasing.
type StateID int

// StateSet is a set of state ids.
type StateSet map[StateID]struct{}

// NewStateSet returns an empty set.
func NewStateSet(ids ...StateID) StateSet {
	s := make(StateSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Has reports membership.
func (s StateSet) Has(id StateID) bool { _, ok := s[id]; return ok }

// Add inserts id.
func (s StateSet) Add(id StateID) { s[id] = struct{}{} }

// Remove deletes id.
func (s StateSet) Remove(id StateID) { delete(s, id) }

// Size returns the cardinality.
func (s StateSet) Size() int { return len(s) }

// Copy returns an independent copy.
func (s StateSet) Copy() StateSet {
	out := make(StateSet, len(s))
	for id := range s {
		out[id] = struct{}{}
	}
	return out
}

// Equals reports set equality.
func (s StateSet) Equals(other StateSet) bool {
	if len(s) != len(other) {
		return false
	}
	for id := range s {
		if !other.Has(id) {
			return false
		}
	}
	return true
}

// Intersect returns s ∩ other.
func (s StateSet) Intersect(other StateSet) StateSet {
	out := NewStateSet()
	for id := range s {
		if other.Has(id) {
			out.Add(id)
		}
	}
	return out
}

// Union returns s ∪ other.
func (s StateSet) Union(other StateSet) StateSet {
	out := s.Copy()
	for id := range other {
		out.Add(id)
	}
	return out
}

// Difference returns s \ other.
func (s StateSet) Difference(other StateSet) StateSet {
	out := NewStateSet()
	for id := range s {
		if !other.Has(id) {
			out.Add(id)
		}
	}
	return out
}

// Slice returns the members in ascending id order.
func (s StateSet) Slice() []StateID {
	out := make([]StateID, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
