package kripke

import (
	"log/slog"

	"github.com/aisplang/tempus/ast"
)

// Builder derives a finite state space from document structure. The model
// is deliberately coarse: one initial state, one state per declared rule
// labeled with the rule's variables, and a cycle through the rule states
// so every state is reachable and the fixed points have something to
// chew on.
type Builder struct {
	logger *slog.Logger
}

// NewBuilder returns a builder. A nil logger falls back to slog.Default.
func NewBuilder(logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{logger: logger}
}

// Build produces a state space from doc. The returned space always
// passes Validate. A document with no rules yields a minimal one-state
// self-looping space marked Degenerate; checks against it report Unknown
// rather than a vacuous verdict.
func (b *Builder) Build(doc *ast.Document) (*StateSpace, error) {
	ss := NewStateSpace()

	if doc == nil || len(doc.Rules) == 0 {
		id := ss.AddState("init")
		ss.MarkInitial(id)
		ss.AddTransition(id, Transition{To: id, Action: "stutter"})
		ss.Degenerate = true
		b.logger.Debug("document has no rules, built degenerate space")
		if err := ss.Validate(); err != nil {
			return nil, err
		}
		return ss, nil
	}

	init := ss.AddState("init")
	ss.MarkInitial(init)
	ss.States[init].Locations["start"] = struct{}{}

	// One state per rule, labeled with the rule name and every variable
	// its expression mentions, chained in declaration order.
	prev := init
	for _, rule := range doc.Rules {
		id := ss.AddState(rule.Name)
		st := ss.States[id]
		st.Locations[rule.Name] = struct{}{}
		for _, v := range ast.Variables(rule.Expr) {
			st.Variables[v] = BoolValue(true)
			ss.Label(v, id)
		}
		ss.AddTransition(prev, Transition{To: id, Action: rule.Name})
		prev = id
	}

	// Close the chain into a cycle so every run is infinite; the CTL
	// semantics here assume a total transition relation wherever the
	// document gives us enough to build one.
	ss.AddTransition(prev, Transition{To: init, Action: "reset"})

	if err := ss.Validate(); err != nil {
		return nil, err
	}
	b.logger.Debug("built state space",
		"states", len(ss.States),
		"propositions", len(ss.Props))
	return ss, nil
}
