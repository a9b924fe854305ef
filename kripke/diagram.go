package kripke

import (
	"fmt"
	"sort"
	"strings"
)

// DOT renders the state space as a Graphviz digraph. States on the
// highlight trace are drawn filled so a counterexample or witness path
// stands out in the diagram; pass nil for a plain rendering.
func (ss *StateSpace) DOT(highlight *Trace) string {
	onTrace := NewStateSet()
	if highlight != nil {
		for _, id := range highlight.States {
			onTrace.Add(id)
		}
	}

	var sb strings.Builder
	sb.WriteString("digraph StateSpace {\n")
	sb.WriteString("  rankdir=LR;\n")
	sb.WriteString("  node [shape=circle];\n\n")

	sb.WriteString("  start [shape=point];\n")
	for _, id := range ss.Initial.Slice() {
		fmt.Fprintf(&sb, "  start -> s%d;\n", id)
	}
	sb.WriteString("\n")

	for _, id := range ss.Universe().Slice() {
		label := fmt.Sprintf("s%d", id)
		if props := ss.propsAt(id); len(props) > 0 {
			label += "\\n{" + strings.Join(props, ", ") + "}"
		}
		attrs := fmt.Sprintf("label=%q", label)
		if onTrace.Has(id) {
			attrs += `, style=filled, fillcolor=lightgray`
		}
		fmt.Fprintf(&sb, "  s%d [%s];\n", id, attrs)
	}
	sb.WriteString("\n")

	for _, from := range ss.Universe().Slice() {
		for _, t := range ss.Transitions[from] {
			if t.Action != "" {
				fmt.Fprintf(&sb, "  s%d -> s%d [label=%q];\n", from, t.To, t.Action)
			} else {
				fmt.Fprintf(&sb, "  s%d -> s%d;\n", from, t.To)
			}
		}
	}

	sb.WriteString("}\n")
	return sb.String()
}

// propsAt returns the proposition names holding at id, sorted.
func (ss *StateSpace) propsAt(id StateID) []string {
	var out []string
	for prop, set := range ss.Props {
		if set.Has(id) {
			out = append(out, prop)
		}
	}
	sort.Strings(out)
	return out
}
