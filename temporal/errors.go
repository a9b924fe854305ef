package temporal

import "errors"

// ErrMissingOperand indicates a binary temporal operator with fewer than
// two operands.
var ErrMissingOperand = errors.New("binary temporal operator requires two operands")
