package ast

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// The YAML document form is a convenience for the CLI and tests. Rule and
// constraint expressions arrive as raw text; the concrete expression
// syntax belongs to the upstream parser, so they are wrapped as Raw nodes
// and analyzed by text scanning.

type fileDocument struct {
	Name      string         `yaml:"name"`
	Rules     []fileRule     `yaml:"rules"`
	Functions []fileFunction `yaml:"functions"`
	Meta      []fileMeta     `yaml:"meta"`
	Evidence  []fileEvidence `yaml:"evidence"`
}

type fileRule struct {
	Name string `yaml:"name"`
	Expr string `yaml:"expr"`
	Line int    `yaml:"line"`
}

type fileFunction struct {
	Name   string   `yaml:"name"`
	Params []string `yaml:"params"`
	Body   string   `yaml:"body"`
	Line   int      `yaml:"line"`
}

type fileMeta struct {
	Key        string `yaml:"key"`
	Constraint string `yaml:"constraint"`
	Line       int    `yaml:"line"`
}

type fileEvidence struct {
	Name string `yaml:"name"`
	Text string `yaml:"text"`
	Line int    `yaml:"line"`
}

// Load reads a YAML document from path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	return Decode(data)
}

// Decode parses YAML document bytes.
func Decode(data []byte) (*Document, error) {
	var fd fileDocument
	if err := yaml.Unmarshal(data, &fd); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}

	doc := &Document{
		Name:      fd.Name,
		LineCount: strings.Count(string(data), "\n") + 1,
	}
	for _, r := range fd.Rules {
		doc.Rules = append(doc.Rules, Rule{
			Name: r.Name,
			Expr: Raw{Text: r.Expr},
			Span: lineSpan(r.Line),
		})
	}
	for _, f := range fd.Functions {
		doc.Functions = append(doc.Functions, Function{
			Name:   f.Name,
			Params: f.Params,
			Body:   Raw{Text: f.Body},
			Span:   lineSpan(f.Line),
		})
	}
	for _, m := range fd.Meta {
		doc.Meta = append(doc.Meta, MetaEntry{
			Key:        m.Key,
			Constraint: Raw{Text: m.Constraint},
			Span:       lineSpan(m.Line),
		})
	}
	for _, e := range fd.Evidence {
		doc.Evidence = append(doc.Evidence, EvidenceField{
			Name: e.Name,
			Text: e.Text,
			Span: lineSpan(e.Line),
		})
	}
	return doc, nil
}

func lineSpan(line int) Span {
	if line <= 0 {
		line = 1
	}
	return Span{StartLine: line, StartCol: 1, EndLine: line, EndCol: 1}
}
