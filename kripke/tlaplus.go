package kripke

import (
	"fmt"
	"sort"
	"strings"
)

// TLAPlus renders the state space as a TLA+ module over an explicit
// state variable: Init fixes the initial states, Next enumerates the
// transition relation, and each atomic proposition becomes a state
// predicate. The output is a faithful, checkable translation of the
// finite model, useful for cross-checking verdicts with TLC.
func (ss *StateSpace) TLAPlus(moduleName string) string {
	var tla strings.Builder

	fmt.Fprintf(&tla, "---- MODULE %s ----\n", moduleName)
	tla.WriteString("EXTENDS Naturals\n\n")

	tla.WriteString("VARIABLE state\n\n")
	tla.WriteString("vars == <<state>>\n\n")

	ids := ss.Universe().Slice()
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = fmt.Sprintf("%d", id)
	}
	fmt.Fprintf(&tla, "States == {%s}\n\n", strings.Join(names, ", "))

	tla.WriteString("TypeOK == state \\in States\n\n")

	var inits []string
	for _, id := range ss.Initial.Slice() {
		inits = append(inits, fmt.Sprintf("state = %d", id))
	}
	fmt.Fprintf(&tla, "Init ==\n    %s\n\n", strings.Join(inits, " \\/ "))

	tla.WriteString("Next ==\n")
	first := true
	for _, from := range ids {
		for _, t := range ss.Transitions[from] {
			prefix := "    \\/ "
			if first {
				prefix = "    "
				first = false
			}
			if t.Action != "" {
				fmt.Fprintf(&tla, "%s(state = %d /\\ state' = %d)    \\* %s\n",
					prefix, from, t.To, t.Action)
			} else {
				fmt.Fprintf(&tla, "%s(state = %d /\\ state' = %d)\n", prefix, from, t.To)
			}
		}
	}
	if first {
		tla.WriteString("    UNCHANGED vars\n")
	}
	tla.WriteString("\n")

	for _, prop := range ss.propNames() {
		var members []string
		for _, id := range ss.Props[prop].Slice() {
			members = append(members, fmt.Sprintf("%d", id))
		}
		fmt.Fprintf(&tla, "%s == state \\in {%s}\n", tlaIdent(prop), strings.Join(members, ", "))
	}
	if len(ss.Props) > 0 {
		tla.WriteString("\n")
	}

	tla.WriteString("Spec == Init /\\ [][Next]_vars\n\n")
	tla.WriteString("====\n")
	return tla.String()
}

// propNames returns the labeling's proposition names, sorted.
func (ss *StateSpace) propNames() []string {
	names := make([]string, 0, len(ss.Props))
	for name := range ss.Props {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// tlaIdent maps a proposition name to a legal TLA+ identifier.
func tlaIdent(name string) string {
	var sb strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			sb.WriteRune(r)
		default:
			sb.WriteByte('_')
		}
	}
	if sb.Len() == 0 {
		return "P"
	}
	return sb.String()
}
