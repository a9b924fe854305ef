// Command tempus analyzes and verifies temporal properties of
// specification documents: operator and pattern diagnostics, explicit
// state CTL model checking, and solver-backed checking for everything
// outside the CTL fragment.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aisplang/tempus/ast"
	"github.com/aisplang/tempus/kripke"
	"github.com/aisplang/tempus/temporal"
	"github.com/aisplang/tempus/verify"
)

var (
	flagConfig  string
	flagVerbose bool
	flagDOT     string
	flagTLA     string
	flagWorkers int
)

func main() {
	root := &cobra.Command{
		Use:          "tempus",
		Short:        "Temporal property analysis and verification",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&flagConfig, "config", "", "YAML configuration file")
	root.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "debug logging")

	check := &cobra.Command{
		Use:   "check <document.yaml>",
		Short: "Run the full verification pipeline over a document",
		Args:  cobra.ExactArgs(1),
		RunE:  runCheck,
	}
	check.Flags().StringVar(&flagDOT, "dot", "", "write the state space as Graphviz DOT to this file")
	check.Flags().StringVar(&flagTLA, "tla", "", "write the state space as a TLA+ module to this file")
	check.Flags().IntVar(&flagWorkers, "workers", 0, "concurrent property checks (0 = config default)")

	analyze := &cobra.Command{
		Use:   "analyze <document.yaml>",
		Short: "Report temporal operators and idiom patterns without checking",
		Args:  cobra.ExactArgs(1),
		RunE:  runAnalyze,
	}

	root.AddCommand(check, analyze)
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if flagVerbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func loadRunConfig() (verify.Config, error) {
	if flagConfig == "" {
		return verify.DefaultConfig(), nil
	}
	return verify.LoadConfig(flagConfig)
}

func runCheck(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	cfg, err := loadRunConfig()
	if err != nil {
		return err
	}
	if flagWorkers > 0 {
		cfg.Workers = flagWorkers
	}

	doc, err := ast.Load(args[0])
	if err != nil {
		return err
	}

	orch := verify.NewOrchestrator(cfg, nil, logger)
	report, err := orch.Verify(cmd.Context(), doc)
	if err != nil {
		return err
	}

	fmt.Fprint(cmd.OutOrStdout(), report.Markdown())

	if flagDOT != "" || flagTLA != "" {
		if err := writeDiagrams(doc, report, logger); err != nil {
			return err
		}
	}

	if report.Status != verify.Success {
		return fmt.Errorf("verification finished with status %q", report.Status)
	}
	return nil
}

// writeDiagrams re-builds the document's state space and renders the
// requested exports, with the first violated property's counterexample
// highlighted in the DOT output when one exists.
func writeDiagrams(doc *ast.Document, report *verify.RunReport, logger *slog.Logger) error {
	ss, err := kripke.NewBuilder(logger).Build(doc)
	if err != nil {
		return err
	}
	if flagDOT != "" {
		var highlight *kripke.Trace
		for _, p := range report.Properties {
			if p.Counterexample != nil {
				highlight = p.Counterexample
				break
			}
		}
		if err := os.WriteFile(flagDOT, []byte(ss.DOT(highlight)), 0o644); err != nil {
			return fmt.Errorf("write dot file: %w", err)
		}
		logger.Info("state space diagram written", "path", flagDOT)
	}
	if flagTLA != "" {
		if err := os.WriteFile(flagTLA, []byte(ss.TLAPlus(moduleNameFor(doc))), 0o644); err != nil {
			return fmt.Errorf("write tla file: %w", err)
		}
		logger.Info("TLA+ module written", "path", flagTLA)
	}
	return nil
}

func moduleNameFor(doc *ast.Document) string {
	if doc.Name == "" {
		return "StateSpace"
	}
	name := make([]rune, 0, len(doc.Name))
	for _, r := range doc.Name {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			name = append(name, r)
		}
	}
	if len(name) == 0 {
		return "StateSpace"
	}
	return string(name)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	doc, err := ast.Load(args[0])
	if err != nil {
		return err
	}

	analysis := temporal.NewAnalyzer(logger).Analyze(doc)
	patterns := temporal.NewDetector(logger).Detect(analysis.Operators, doc.LineCount)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Document: %s\n", doc.Name)
	fmt.Fprintf(out, "Operators: %d (max nesting %d, complexity %.2f, valid=%t)\n",
		analysis.Complexity.OperatorCount,
		analysis.Complexity.MaxNesting,
		analysis.Complexity.Score,
		analysis.Valid)
	for _, op := range analysis.Operators {
		fmt.Fprintf(out, "  %s at line %d in %s %q (nesting %d)\n",
			op.Operator, op.Span.StartLine, op.Context.Kind, op.Context.Owner, op.Nesting)
	}
	for _, err := range analysis.Errors {
		fmt.Fprintf(out, "error: %v\n", err)
	}
	for _, w := range analysis.Warnings {
		fmt.Fprintf(out, "warning: %s\n", w)
	}

	fmt.Fprintf(out, "Patterns: %d (density %.2f/100 lines, mean strength %.2f)\n",
		patterns.Statistics.TotalPatterns,
		patterns.Statistics.Density,
		patterns.Statistics.AvgStrength)
	for _, p := range patterns.Patterns {
		for _, inst := range p.Instances {
			fmt.Fprintf(out, "  %s: %s (strength %.2f, %s)\n",
				p.Kind, inst.Formula, inst.Strength, inst.Quality)
		}
	}
	for _, rec := range patterns.Recommendations {
		fmt.Fprintf(out, "recommendation: %s\n", rec.Message)
	}
	for _, w := range patterns.Warnings {
		fmt.Fprintf(out, "warning: %s\n", w)
	}
	return nil
}
