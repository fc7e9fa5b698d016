// Package sequence validates and encodes nucleotide sequences for the
// alignment engine.
//
// The ancestor of a pair is treated as complete codons and encoded per
// codon-and-position; the descendant is encoded per nucleotide and may
// contain IUPAC ambiguity letters. Validation happens at construction
// time.
package sequence

import (
	"strings"

	"github.com/aria-lang/codonalign-go/internal/subst"
)

// Gap is the gap character used in aligned output.
const Gap = '-'

// Named pairs a sequence with its identifier, as read from input.
type Named struct {
	Name  string
	Bases string
}

// Normalize upper-cases raw sequence text.
func Normalize(bases string) string {
	return strings.ToUpper(bases)
}

// ValidateAncestor checks that an ancestor sequence is non-empty,
// contains only standard bases, and consists of complete codons whose
// length is also a multiple of the gap unit.
func ValidateAncestor(name, bases string, gapUnit int) error {
	if len(bases) == 0 {
		return &EmptySequenceError{Name: name}
	}
	for i := 0; i < len(bases); i++ {
		code, ok := subst.NucCode(bases[i])
		if !ok || code > subst.CodeT {
			return &InvalidBaseError{Position: i, Found: bases[i]}
		}
	}
	if len(bases)%3 != 0 {
		return &LengthUnitError{Name: name, Len: len(bases), Unit: 3}
	}
	if len(bases)%gapUnit != 0 {
		return &LengthUnitError{Name: name, Len: len(bases), Unit: gapUnit}
	}
	return nil
}

// ValidateDescendant checks that a descendant sequence is non-empty,
// contains only standard or IUPAC ambiguity bases, and has a length
// that is a multiple of the gap unit.
func ValidateDescendant(name, bases string, gapUnit int) error {
	if len(bases) == 0 {
		return &EmptySequenceError{Name: name}
	}
	for i := 0; i < len(bases); i++ {
		if _, ok := subst.NucCode(bases[i]); !ok {
			return &InvalidBaseError{Position: i, Found: bases[i]}
		}
	}
	if len(bases)%gapUnit != 0 {
		return &LengthUnitError{Name: name, Len: len(bases), Unit: gapUnit}
	}
	return nil
}
