package verify

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/aisplang/tempus/kripke"
)

// timeGrain rounds per-property durations for display.
const timeGrain = 10 * time.Microsecond

// Markdown renders the run report as a human-readable markdown summary:
// header, analysis diagnostics, pattern findings, and a per-property
// verdict table.
func (r *RunReport) Markdown() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# Verification Report: %s\n\n", r.Document)
	fmt.Fprintf(&sb, "Run `%s` finished in %s with status **%s**.\n\n", r.RunID, r.Duration, r.Status)

	r.writeAnalysis(&sb)
	r.writePatterns(&sb)
	r.writeProperties(&sb)
	r.writeStats(&sb)

	return sb.String()
}

func (r *RunReport) writeAnalysis(sb *strings.Builder) {
	if r.Analysis == nil {
		return
	}
	sb.WriteString("## Operator Analysis\n\n")
	fmt.Fprintf(sb, "| Operators | Max Nesting | Avg Nesting | Complexity | Valid |\n")
	fmt.Fprintf(sb, "|-----------|-------------|-------------|------------|-------|\n")
	c := r.Analysis.Complexity
	fmt.Fprintf(sb, "| %d | %d | %.2f | %.2f | %t |\n\n",
		c.OperatorCount, c.MaxNesting, c.AvgNesting, c.Score, r.Analysis.Valid)

	for _, err := range r.Analysis.Errors {
		fmt.Fprintf(sb, "- **error**: %v\n", err)
	}
	for _, w := range r.Analysis.Warnings {
		fmt.Fprintf(sb, "- warning: %s\n", w)
	}
	if len(r.Analysis.Errors)+len(r.Analysis.Warnings) > 0 {
		sb.WriteString("\n")
	}
}

func (r *RunReport) writePatterns(sb *strings.Builder) {
	if r.Patterns == nil || len(r.Patterns.Patterns) == 0 {
		return
	}
	sb.WriteString("## Temporal Patterns\n\n")
	sb.WriteString("| Kind | Formula | Strength | Quality |\n")
	sb.WriteString("|------|---------|----------|--------|\n")
	for _, p := range r.Patterns.Patterns {
		for _, inst := range p.Instances {
			fmt.Fprintf(sb, "| %s | `%s` | %.2f | %s |\n",
				p.Kind, inst.Formula, inst.Strength, inst.Quality)
		}
	}
	sb.WriteString("\n")

	for _, rec := range r.Patterns.Recommendations {
		fmt.Fprintf(sb, "- recommendation: %s\n", rec.Message)
	}
	if len(r.Patterns.Recommendations) > 0 {
		sb.WriteString("\n")
	}
}

func (r *RunReport) writeProperties(sb *strings.Builder) {
	if len(r.Properties) == 0 && len(r.ExtractionErrors) == 0 {
		return
	}
	sb.WriteString("## Properties\n\n")
	sb.WriteString("| Property | Source | Route | Verdict | Time | Notes |\n")
	sb.WriteString("|----------|--------|-------|---------|------|-------|\n")
	for _, p := range r.Properties {
		notes := p.Reason
		if p.Counterexample != nil {
			notes = appendNote(notes, "counterexample "+traceSummary(p.Counterexample))
		}
		if p.Witness != nil {
			notes = appendNote(notes, "witness "+traceSummary(p.Witness))
		}
		fmt.Fprintf(sb, "| %s | %s | %s | %s | %s | %s |\n",
			p.Property.Name, p.Property.Source, p.Route, p.Verdict, p.Duration.Round(timeGrain), notes)
	}
	sb.WriteString("\n")

	if len(r.ExtractionErrors) > 0 {
		names := make([]string, 0, len(r.ExtractionErrors))
		for name := range r.ExtractionErrors {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(sb, "- `%s` could not be converted: %v\n", name, r.ExtractionErrors[name])
		}
		sb.WriteString("\n")
	}
}

func (r *RunReport) writeStats(sb *strings.Builder) {
	sb.WriteString("## Run Statistics\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	s := r.Stats
	fmt.Fprintf(sb, "| States explored | %d |\n", s.StatesExplored)
	fmt.Fprintf(sb, "| Transitions evaluated | %d |\n", s.TransitionsEvaluated)
	fmt.Fprintf(sb, "| Satisfied | %d |\n", s.Satisfied)
	fmt.Fprintf(sb, "| Violated | %d |\n", s.Violated)
	fmt.Fprintf(sb, "| Unknown | %d |\n", s.Unknown)
	fmt.Fprintf(sb, "| Errors | %d |\n", s.Errors)
	fmt.Fprintf(sb, "| Solver cache hits | %d |\n", s.SolverCacheHits)
	fmt.Fprintf(sb, "| Solver cache misses | %d |\n", s.SolverCacheMisses)
}

func appendNote(existing, note string) string {
	if existing == "" {
		return note
	}
	return existing + "; " + note
}

func traceSummary(t *kripke.Trace) string {
	return "`" + t.String() + "`"
}
