package subst

import "fmt"

// ParamError is returned when a model parameter fails validation.
type ParamError struct {
	Param  string
	Reason string
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Param, e.Reason)
}

// RateFileError is returned when a user-supplied rate matrix file is
// malformed.
type RateFileError struct {
	Line   int
	Reason string
}

func (e *RateFileError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("rate matrix file: line %d: %s", e.Line, e.Reason)
	}
	return fmt.Sprintf("rate matrix file: %s", e.Reason)
}
