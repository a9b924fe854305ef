package solver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// Runner executes one SMT-LIB script and returns the solver's raw
// output. The bridge is the only caller; tests substitute a fake.
type Runner interface {
	Run(ctx context.Context, script string) (string, error)
}

// Z3Runner shells out to a z3-compatible binary reading SMT-LIB 2 from
// stdin.
type Z3Runner struct {
	Binary string
}

// Run pipes the script to the solver and captures stdout. The context
// carries the call timeout; on expiry the process is killed and the
// caller sees the context error.
func (r *Z3Runner) Run(ctx context.Context, script string) (string, error) {
	cmd := exec.CommandContext(ctx, r.Binary, "-in", "-smt2")
	cmd.Stdin = strings.NewReader(script)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if ctx.Err() != nil {
		return stdout.String(), ctx.Err()
	}
	if err != nil {
		var exitErr *exec.ExitError
		// z3 exits nonzero on (error ...) output but still prints a
		// verdict line worth parsing; anything else means the binary
		// never ran.
		if errors.As(err, &exitErr) && stdout.Len() > 0 {
			return stdout.String(), nil
		}
		return "", fmt.Errorf("%w: %s: %v: %s", ErrSolverUnavailable, r.Binary, err, stderr.String())
	}
	return stdout.String(), nil
}

// rawOutcome is the parsed solver response.
type rawOutcome struct {
	Status Status
	// Assignments holds zero-arity boolean define-funs from the model.
	Assignments map[string]bool
	// Reason carries the solver's own explanation for unknown/error.
	Reason string
}

// parseOutput interprets the solver's stdout: a verdict line followed by
// an optional model. Unrecognized verdict lines are an error, never a
// guessed result.
func parseOutput(out string) (*rawOutcome, error) {
	lines := strings.Split(out, "\n")
	outcome := &rawOutcome{Assignments: make(map[string]bool)}
	verdictSeen := false

	for idx, line := range lines {
		switch strings.TrimSpace(line) {
		case "sat":
			outcome.Status = StatusSatisfiable
			verdictSeen = true
		case "unsat":
			outcome.Status = StatusUnsatisfiable
			verdictSeen = true
		case "unknown":
			outcome.Status = StatusUnknown
			outcome.Reason = "solver reported unknown"
			verdictSeen = true
		case "timeout":
			outcome.Status = StatusUnknown
			outcome.Reason = "solver timed out"
			verdictSeen = true
		default:
			if strings.HasPrefix(strings.TrimSpace(line), "(error") {
				return nil, fmt.Errorf("%w: %s", ErrSolverOutput, strings.TrimSpace(line))
			}
			continue
		}
		if verdictSeen {
			parseModel(strings.Join(lines[idx+1:], "\n"), outcome.Assignments)
			break
		}
	}
	if !verdictSeen {
		return nil, fmt.Errorf("%w: no verdict line in %q", ErrSolverOutput, firstLine(out))
	}
	return outcome, nil
}

// parseModel extracts zero-arity boolean define-funs:
//
//	(define-fun p_0 () Bool true)
func parseModel(model string, into map[string]bool) {
	for _, line := range strings.Split(model, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "(define-fun ") {
			continue
		}
		fields := strings.Fields(strings.Trim(line, "()"))
		// define-fun NAME ( ) Bool VALUE — Fields collapses the empty
		// argument list when it was written as "()".
		if len(fields) < 4 {
			continue
		}
		name := fields[1]
		sort := fields[len(fields)-2]
		if sort != "Bool" {
			continue
		}
		if v, err := strconv.ParseBool(fields[len(fields)-1]); err == nil {
			into[name] = v
		}
	}
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
