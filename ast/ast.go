// Package ast defines the document model the temporal verification core
// consumes. The parser that produces it lives upstream; this package only
// fixes the shapes the analyzers depend on: rules, function bodies, meta
// constraints, evidence fields, and a structured expression tree with
// source spans.
package ast

// Span locates a construct in the source document.
type Span struct {
	StartLine int `yaml:"start_line"`
	StartCol  int `yaml:"start_col"`
	EndLine   int `yaml:"end_line"`
	EndCol    int `yaml:"end_col"`
}

// Document is a parsed specification document.
type Document struct {
	Name      string
	Rules     []Rule
	Functions []Function
	Meta      []MetaEntry
	Evidence  []EvidenceField
	// LineCount is the source length in lines, used for density metrics.
	LineCount int
}

// Rule is a named logical rule.
type Rule struct {
	Name string
	Expr Expr
	Span Span
}

// Function is a named function definition with a logical body.
type Function struct {
	Name   string
	Params []string
	Body   Expr
	Span   Span
}

// MetaEntry is a document-level constraint keyed by name.
type MetaEntry struct {
	Key        string
	Constraint Expr
	Span       Span
}

// EvidenceField is a free-text evidence entry. Evidence is never parsed
// into a tree; analyzers fall back to text scanning for it.
type EvidenceField struct {
	Name string
	Text string
	Span Span
}
