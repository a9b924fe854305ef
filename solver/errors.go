package solver

import "errors"

// Sentinel errors for the solver package.
var (
	// ErrTranslate indicates the formula cannot be encoded for the
	// external solver, e.g. mixed path quantifiers.
	ErrTranslate = errors.New("formula cannot be translated for the solver")

	// ErrSolverUnavailable indicates the external solver binary could
	// not be started.
	ErrSolverUnavailable = errors.New("external solver unavailable")

	// ErrSolverOutput indicates the solver produced output the bridge
	// could not interpret.
	ErrSolverOutput = errors.New("unparseable solver output")
)
