package temporal

import "github.com/aisplang/tempus/ast"

// PatternKind names a temporal idiom.
type PatternKind string

const (
	// PatternSafety is □P: something bad never happens.
	PatternSafety PatternKind = "safety"

	// PatternLiveness is ◊P: something good eventually happens.
	PatternLiveness PatternKind = "liveness"

	// PatternResponse is □(P → ◊Q): P is always answered by Q.
	PatternResponse PatternKind = "response"

	// PatternPersistence is ◊□P: eventually P holds forever.
	PatternPersistence PatternKind = "persistence"

	// PatternRecurrence is □◊P: P happens infinitely often.
	PatternRecurrence PatternKind = "recurrence"

	// PatternFairness is □◊P → □◊Q style fair scheduling.
	PatternFairness PatternKind = "fairness"

	// PatternPrecedence is ¬Q U P: Q cannot happen before P.
	PatternPrecedence PatternKind = "precedence"

	// PatternAbsence is □¬P: P never happens.
	PatternAbsence PatternKind = "absence"

	// PatternExistence is ◊P: P happens at least once.
	PatternExistence PatternKind = "existence"

	// PatternChain is □(P → XQ): P is always followed by Q next.
	PatternChain PatternKind = "chain"
)

// Quality grades a pattern instance.
type Quality int

const (
	// QualityVeryLow marks an instance that is likely incorrect.
	QualityVeryLow Quality = iota
	// QualityLow marks a problematic or unclear instance.
	QualityLow
	// QualityMedium marks an acceptable instance with minor issues.
	QualityMedium
	// QualityHigh marks a well-formed, meaningful instance.
	QualityHigh
)

func (q Quality) String() string {
	switch q {
	case QualityHigh:
		return "high"
	case QualityMedium:
		return "medium"
	case QualityLow:
		return "low"
	}
	return "very_low"
}

// Strength scores how convincingly an operator window realizes a pattern.
type Strength struct {
	// Syntactic scores sequence shape.
	Syntactic float64
	// Semantic scores operand presence.
	Semantic float64
	// Coverage scores nesting depth.
	Coverage float64
	// Overall is the mean of the three components.
	Overall float64
}

// PatternInstance is one realization of a pattern in the document.
type PatternInstance struct {
	// Formula is the space-joined operator symbols of the window.
	Formula string
	// Variables are the deduplicated, sorted operand fragments.
	Variables []string
	Location  ast.Span
	Strength  float64
	Context   Context
	Quality   Quality
}

// Pattern groups the instances of one idiom kind with an aggregate
// confidence. A pattern is only emitted when its confidence meets the
// matching rule's minimum threshold.
type Pattern struct {
	Kind        PatternKind
	Description string
	Instances   []PatternInstance
	Confidence  float64
	Strength    Strength
}

// rule describes one catalog entry: the exact operator-kind sequence that
// realizes a pattern and the confidence floor below which matches are
// discarded.
type rule struct {
	kind          PatternKind
	sequence      []Operator
	minConfidence float64
	description   string
}

// catalog is the fixed pattern rule set. Absence and Existence remain
// classification-only kinds: their realizations are indistinguishable
// from Safety/Liveness at the operator-sequence level.
var catalog = []rule{
	{
		kind:          PatternSafety,
		sequence:      []Operator{Always},
		minConfidence: 0.8,
		description:   "Safety property: %s must always hold",
	},
	{
		kind:          PatternLiveness,
		sequence:      []Operator{Eventually},
		minConfidence: 0.8,
		description:   "Liveness property: %s must eventually occur",
	},
	{
		kind:          PatternResponse,
		sequence:      []Operator{Always, Eventually},
		minConfidence: 0.7,
		description:   "Response property: %s",
	},
	{
		kind:          PatternPersistence,
		sequence:      []Operator{Eventually, Always},
		minConfidence: 0.7,
		description:   "Persistence property: %s eventually holds forever",
	},
	{
		kind:          PatternRecurrence,
		sequence:      []Operator{Always, Eventually},
		minConfidence: 0.6,
		description:   "Recurrence property: %s occurs infinitely often",
	},
	{
		kind:          PatternChain,
		sequence:      []Operator{Always, Next},
		minConfidence: 0.7,
		description:   "Chain property: %s is always followed in the next step",
	},
	{
		kind:          PatternPrecedence,
		sequence:      []Operator{Until},
		minConfidence: 0.6,
		description:   "Precedence property: %s ordering constraint",
	},
	{
		kind:          PatternFairness,
		sequence:      []Operator{Always, Eventually, Always, Eventually},
		minConfidence: 0.6,
		description:   "Fairness property: %s fair scheduling",
	},
}
