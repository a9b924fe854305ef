package temporal

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/montanaflynn/stats"
)

// Statistics aggregates the detected pattern population.
type Statistics struct {
	TotalPatterns int
	ByKind        map[PatternKind]int
	AvgStrength   float64
	// Density is patterns per 100 lines of document.
	Density  float64
	Coverage Coverage
}

// Coverage reports what share of detected patterns belongs to the safety
// and liveness classes.
type Coverage struct {
	Safety   float64
	Liveness float64
	Overall  float64
}

// QualitySummary counts instances per quality grade.
type QualitySummary struct {
	High   int
	Medium int
	Low    int
	// Score weighs high instances at 1.0 and medium at 0.6.
	Score float64
}

// RecommendationKind classifies an improvement suggestion.
type RecommendationKind string

const (
	// RecommendAddSafety suggests adding invariant (□P) patterns.
	RecommendAddSafety RecommendationKind = "add_safety"
	// RecommendAddLiveness suggests adding progress (◊P) patterns.
	RecommendAddLiveness RecommendationKind = "add_liveness"
	// RecommendImproveClarity suggests more meaningful variable names.
	RecommendImproveClarity RecommendationKind = "improve_clarity"
	// RecommendEnhanceCoverage suggests broader temporal coverage.
	RecommendEnhanceCoverage RecommendationKind = "enhance_coverage"
)

// Recommendation is a generated, non-binding improvement suggestion.
type Recommendation struct {
	Kind    RecommendationKind
	Message string
}

// PatternReport is the pattern detection result for one document.
type PatternReport struct {
	Patterns        []Pattern
	Statistics      Statistics
	Quality         QualitySummary
	Recommendations []Recommendation
	Warnings        []string
}

// Detector matches operator sequences against the pattern catalog.
type Detector struct {
	logger *slog.Logger
}

// NewDetector creates a detector. A nil logger falls back to
// slog.Default().
func NewDetector(logger *slog.Logger) *Detector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Detector{logger: logger}
}

// Detect matches every contiguous window of operator instances against the
// catalog and aggregates statistics, quality grades, recommendations, and
// warnings. documentSize is the document length in lines.
func (d *Detector) Detect(operators []OperatorInstance, documentSize int) *PatternReport {
	var patterns []Pattern
	for _, r := range catalog {
		patterns = append(patterns, matchRule(operators, r)...)
	}

	report := &PatternReport{
		Patterns:   patterns,
		Statistics: computeStatistics(patterns, documentSize),
	}
	report.Quality = summarizeQuality(patterns)
	report.Recommendations = recommend(report.Statistics, report.Quality)
	report.Warnings = warnAbout(report.Statistics)

	d.logger.Debug("pattern detection complete",
		"patterns", len(patterns),
		"density", report.Statistics.Density,
		"quality", report.Quality.Score)
	return report
}

// matchRule slides a window of the rule's sequence length over the
// operator list and emits a pattern for every exact kind-sequence match
// whose strength clears the rule's confidence floor.
func matchRule(operators []OperatorInstance, r rule) []Pattern {
	seqLen := len(r.sequence)
	if seqLen == 0 || len(operators) < seqLen {
		return nil
	}

	var out []Pattern
	for i := 0; i+seqLen <= len(operators); i++ {
		window := operators[i : i+seqLen]
		if !sequenceMatches(window, r.sequence) {
			continue
		}
		p := buildPattern(window, r)
		if p.Confidence < r.minConfidence {
			continue
		}
		out = append(out, p)
	}
	return out
}

func sequenceMatches(window []OperatorInstance, sequence []Operator) bool {
	for i, op := range window {
		if op.Operator != sequence[i] {
			return false
		}
	}
	return true
}

func buildPattern(window []OperatorInstance, r rule) Pattern {
	var variables []string
	symbols := make([]string, len(window))
	for i, op := range window {
		variables = append(variables, op.Operands...)
		symbols[i] = op.Operator.String()
	}
	sort.Strings(variables)
	variables = dedup(variables)

	formula := strings.Join(symbols, " ")
	strength := computeStrength(window)
	quality := gradeInstance(strength, variables)

	inst := PatternInstance{
		Formula:   formula,
		Variables: variables,
		Location:  window[0].Span,
		Strength:  strength.Overall,
		Context:   window[0].Context,
		Quality:   quality,
	}
	return Pattern{
		Kind:        r.kind,
		Description: fmt.Sprintf(r.description, formula),
		Instances:   []PatternInstance{inst},
		Confidence:  strength.Overall,
		Strength:    strength,
	}
}

// computeStrength scores a window: short sequences are syntactically
// crisper, operand presence carries meaning, and shallow nesting covers
// the system more directly.
func computeStrength(window []OperatorInstance) Strength {
	s := Strength{Syntactic: 0.7, Semantic: 0.5, Coverage: 0.6}
	if len(window) <= 2 {
		s.Syntactic = 0.9
	}
	totalOperands := 0
	maxNesting := 0
	for _, op := range window {
		totalOperands += len(op.Operands)
		if op.Nesting > maxNesting {
			maxNesting = op.Nesting
		}
	}
	if totalOperands > 0 {
		s.Semantic = 0.8
	}
	if maxNesting <= 2 {
		s.Coverage = 0.9
	}
	s.Overall, _ = stats.Mean([]float64{s.Syntactic, s.Semantic, s.Coverage})
	return s
}

// gradeInstance combines the strength score with a check that at least one
// variable name is non-trivial: longer than one rune and not pure
// punctuation.
func gradeInstance(s Strength, variables []string) Quality {
	meaningful := false
	for _, v := range variables {
		if len([]rune(v)) > 1 && !allPunct(v) {
			meaningful = true
			break
		}
	}
	switch {
	case s.Overall >= 0.8 && meaningful:
		return QualityHigh
	case s.Overall >= 0.7:
		return QualityMedium
	case s.Overall >= 0.5:
		return QualityLow
	}
	return QualityVeryLow
}

func allPunct(s string) bool {
	for _, r := range s {
		if isIdentChar(r) {
			return false
		}
	}
	return true
}

func isIdentChar(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

func computeStatistics(patterns []Pattern, documentSize int) Statistics {
	st := Statistics{ByKind: make(map[PatternKind]int)}
	st.TotalPatterns = len(patterns)
	if len(patterns) > 0 {
		strengths := make([]float64, len(patterns))
		for i, p := range patterns {
			st.ByKind[p.Kind]++
			strengths[i] = p.Strength.Overall
		}
		st.AvgStrength, _ = stats.Mean(strengths)
	}
	if documentSize > 0 {
		st.Density = float64(st.TotalPatterns) / float64(documentSize) * 100.0
	}
	st.Coverage = computeCoverage(patterns)
	return st
}

func computeCoverage(patterns []Pattern) Coverage {
	total := float64(len(patterns))
	if total == 0 {
		return Coverage{}
	}
	var safety, liveness float64
	for _, p := range patterns {
		switch p.Kind {
		case PatternSafety, PatternAbsence:
			safety++
		case PatternLiveness, PatternResponse, PatternPersistence:
			liveness++
		}
	}
	return Coverage{
		Safety:   safety / total * 100.0,
		Liveness: liveness / total * 100.0,
		Overall:  (safety + liveness) / total * 100.0,
	}
}

func summarizeQuality(patterns []Pattern) QualitySummary {
	var q QualitySummary
	for _, p := range patterns {
		for _, inst := range p.Instances {
			switch inst.Quality {
			case QualityHigh:
				q.High++
			case QualityMedium:
				q.Medium++
			default:
				q.Low++
			}
		}
	}
	total := q.High + q.Medium + q.Low
	if total > 0 {
		q.Score = (float64(q.High) + float64(q.Medium)*0.6) / float64(total)
	}
	return q
}

// recommend generates non-binding suggestions. A document with no patterns
// at all gets none: there is no baseline to recommend against.
func recommend(st Statistics, q QualitySummary) []Recommendation {
	var recs []Recommendation
	if st.TotalPatterns == 0 {
		return recs
	}
	if st.ByKind[PatternSafety] == 0 {
		recs = append(recs, Recommendation{
			Kind:    RecommendAddSafety,
			Message: "consider adding safety patterns (□P) to specify invariant properties",
		})
	}
	if st.ByKind[PatternLiveness] == 0 {
		recs = append(recs, Recommendation{
			Kind:    RecommendAddLiveness,
			Message: "consider adding liveness patterns (◊P) to specify progress properties",
		})
	}
	if q.Score < 0.6 {
		recs = append(recs, Recommendation{
			Kind:    RecommendImproveClarity,
			Message: "consider improving pattern clarity with more meaningful variable names",
		})
	}
	if st.Coverage.Overall < 50.0 {
		recs = append(recs, Recommendation{
			Kind:    RecommendEnhanceCoverage,
			Message: "consider adding more temporal patterns to improve system coverage",
		})
	}
	return recs
}

func warnAbout(st Statistics) []string {
	var warnings []string
	safety := st.ByKind[PatternSafety]
	liveness := st.ByKind[PatternLiveness]
	if safety > 0 && liveness == 0 {
		warnings = append(warnings, "only safety patterns detected, consider adding liveness properties")
	}
	if liveness > 0 && safety == 0 {
		warnings = append(warnings, "only liveness patterns detected, consider adding safety properties")
	}
	if st.TotalPatterns > 0 && st.Density < 0.5 {
		warnings = append(warnings, "low temporal pattern density, document may lack temporal specifications")
	}
	return warnings
}

func dedup(sorted []string) []string {
	if len(sorted) == 0 {
		return sorted
	}
	out := sorted[:1]
	for _, s := range sorted[1:] {
		if s != out[len(out)-1] {
			out = append(out, s)
		}
	}
	return out
}
