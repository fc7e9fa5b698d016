package alignment

import (
	"errors"
	"fmt"
)

// ErrIllegalTransition reports an alignment that encodes an insertion
// immediately after a deletion, a transition the pair model does not
// include.
var ErrIllegalTransition = errors.New("insertion after deletion is not modeled")

// ParamError is returned when gap parameters fail validation.
type ParamError struct {
	Param  string
	Reason string
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Param, e.Reason)
}

// TableSizeError is returned when the dynamic-programming table for a
// sequence pair would exceed the engine's cell budget. It is a
// recoverable resource condition, distinct from input validation.
type TableSizeError struct {
	Cells int
	Limit int
}

func (e *TableSizeError) Error() string {
	return fmt.Sprintf("alignment table of %d cells exceeds limit of %d; sequences too long",
		e.Cells, e.Limit)
}

// LengthMismatchError is returned when re-scoring an alignment whose
// rows have different lengths.
type LengthMismatchError struct {
	LenA, LenB int
}

func (e *LengthMismatchError) Error() string {
	return fmt.Sprintf("aligned sequences must have equal length, got %d and %d",
		e.LenA, e.LenB)
}
