package sequence

import "fmt"

// SequenceError is the base error type for sequence validation.
type SequenceError interface {
	error
	IsSequenceError()
}

// EmptySequenceError is returned when a sequence is empty.
type EmptySequenceError struct {
	Name string
}

func (e *EmptySequenceError) Error() string {
	return fmt.Sprintf("sequence %q must have at least one base", e.Name)
}

func (e *EmptySequenceError) IsSequenceError() {}

// InvalidBaseError is returned when a sequence contains a character
// outside its allowed alphabet.
type InvalidBaseError struct {
	Position int
	Found    byte
}

func (e *InvalidBaseError) Error() string {
	return fmt.Sprintf("invalid base %q at position %d", e.Found, e.Position)
}

func (e *InvalidBaseError) IsSequenceError() {}

// LengthUnitError is returned when a sequence length is not a multiple
// of the required unit (3 for complete codons, or the configured gap
// unit length).
type LengthUnitError struct {
	Name string
	Len  int
	Unit int
}

func (e *LengthUnitError) Error() string {
	return fmt.Sprintf("length %d of sequence %q must be a multiple of %d",
		e.Len, e.Name, e.Unit)
}

func (e *LengthUnitError) IsSequenceError() {}

// CountError is returned when the number of input sequences is not
// exactly two.
type CountError struct {
	Got int
}

func (e *CountError) Error() string {
	return fmt.Sprintf("exactly two sequences required, got %d", e.Got)
}

func (e *CountError) IsSequenceError() {}
