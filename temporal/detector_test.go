package temporal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aisplang/tempus/ast"
)

func analyzed(t *testing.T, doc *ast.Document) []OperatorInstance {
	t.Helper()
	report := NewAnalyzer(nil).Analyze(doc)
	require.Empty(t, report.Errors)
	return report.Operators
}

func kindsOf(patterns []Pattern) map[PatternKind]int {
	out := make(map[PatternKind]int)
	for _, p := range patterns {
		out[p.Kind]++
	}
	return out
}

func TestDetectResponsePattern(t *testing.T) {
	ops := analyzed(t, docWithRule("resp", "□(p → ◊q)"))
	report := NewDetector(nil).Detect(ops, 10)

	kinds := kindsOf(report.Patterns)
	// The □◊ window realizes both the response and recurrence idioms;
	// which one is meant is not decidable at the operator level.
	assert.Equal(t, 1, kinds[PatternResponse])
	assert.Equal(t, 1, kinds[PatternRecurrence])
	// Bare □ without operands scores below the safety confidence floor.
	assert.Zero(t, kinds[PatternSafety])
}

func TestDetectSafetyFromTreeOperands(t *testing.T) {
	doc := &ast.Document{
		Name: "inv",
		Rules: []ast.Rule{
			{Name: "invariant", Expr: ast.Temporal{
				Op:   ast.SymAlways,
				Left: ast.Var{Name: "system_consistent"},
			}},
		},
	}
	report := NewDetector(nil).Detect(analyzed(t, doc), 10)

	kinds := kindsOf(report.Patterns)
	require.Equal(t, 1, kinds[PatternSafety])

	var safety Pattern
	for _, p := range report.Patterns {
		if p.Kind == PatternSafety {
			safety = p
		}
	}
	require.Len(t, safety.Instances, 1)
	inst := safety.Instances[0]
	assert.Equal(t, []string{"system_consistent"}, inst.Variables)
	assert.Equal(t, QualityHigh, inst.Quality)
	assert.InDelta(t, (0.9+0.8+0.9)/3.0, safety.Confidence, 1e-9)
}

func TestDetectPrecedencePattern(t *testing.T) {
	ops := analyzed(t, docWithRule("order", "locked U authorized"))
	report := NewDetector(nil).Detect(ops, 10)

	kinds := kindsOf(report.Patterns)
	assert.Equal(t, 1, kinds[PatternPrecedence])
}

func TestDetectFairnessPattern(t *testing.T) {
	ops := analyzed(t, docWithRule("fair", "□◊scheduled □◊executed"))
	report := NewDetector(nil).Detect(ops, 10)

	kinds := kindsOf(report.Patterns)
	assert.Equal(t, 1, kinds[PatternFairness])
	// The four-operator window also contains two □◊ sub-windows.
	assert.Equal(t, 2, kinds[PatternRecurrence])
}

func TestDetectZeroOperators(t *testing.T) {
	report := NewDetector(nil).Detect(nil, 100)

	assert.Empty(t, report.Patterns)
	assert.Zero(t, report.Statistics.TotalPatterns)
	assert.Empty(t, report.Recommendations)
	assert.Empty(t, report.Warnings)
}

func TestDetectStatistics(t *testing.T) {
	ops := analyzed(t, docWithRule("resp", "□(p → ◊q)"))
	report := NewDetector(nil).Detect(ops, 100)

	st := report.Statistics
	assert.Equal(t, 2, st.TotalPatterns)
	assert.InDelta(t, 2.0, st.Density, 1e-9)
	assert.Positive(t, st.AvgStrength)
	// Response counts toward liveness coverage, recurrence toward
	// neither class.
	assert.InDelta(t, 50.0, st.Coverage.Liveness, 1e-9)
	assert.Zero(t, st.Coverage.Safety)
}

func TestDetectRecommendations(t *testing.T) {
	doc := &ast.Document{
		Name: "inv",
		Rules: []ast.Rule{
			{Name: "invariant", Expr: ast.Temporal{
				Op:   ast.SymAlways,
				Left: ast.Var{Name: "consistent"},
			}},
		},
	}
	report := NewDetector(nil).Detect(analyzed(t, doc), 10)

	var kinds []RecommendationKind
	for _, r := range report.Recommendations {
		kinds = append(kinds, r.Kind)
	}
	assert.Contains(t, kinds, RecommendAddLiveness)
	assert.NotContains(t, kinds, RecommendAddSafety)
	assert.Contains(t, report.Warnings, "only safety patterns detected, consider adding liveness properties")
}

func TestGradeInstanceNeedsMeaningfulVariables(t *testing.T) {
	strong := Strength{Overall: 0.85}
	assert.Equal(t, QualityHigh, gradeInstance(strong, []string{"request_count"}))
	// Single-rune and punctuation-only names are not meaningful, so the
	// grade caps at medium regardless of score.
	assert.Equal(t, QualityMedium, gradeInstance(strong, []string{"x"}))
	assert.Equal(t, QualityMedium, gradeInstance(strong, []string{"→("}))

	assert.Equal(t, QualityLow, gradeInstance(Strength{Overall: 0.55}, []string{"request"}))
	assert.Equal(t, QualityVeryLow, gradeInstance(Strength{Overall: 0.2}, nil))
}
