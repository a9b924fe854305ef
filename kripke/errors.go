package kripke

import "errors"

// Sentinel errors for the kripke package.
var (
	// ErrUnsupportedFormula indicates a formula shape the explicit-state
	// checker does not handle (LTL path operators, CTL*). Callers route
	// these to the solver bridge instead.
	ErrUnsupportedFormula = errors.New("formula not supported by explicit-state checking")

	// ErrInternal indicates a broken StateSpace invariant, a contract
	// violation by the builder rather than a user error.
	ErrInternal = errors.New("state space invariant violated")

	// ErrStateBound indicates the state space exceeds the configured
	// exploration bound.
	ErrStateBound = errors.New("state bound exceeded")

	// ErrParse indicates malformed formula text.
	ErrParse = errors.New("formula parse error")
)
