package alignment

import (
	"strings"

	"github.com/aria-lang/codonalign-go/internal/sequence"
	"github.com/aria-lang/codonalign-go/internal/subst"
)

// Score computes the log weight of an existing alignment directly from
// its columns, independently of any trellis. It walks the same
// three-state machine the engine models, so for a pair of sequences the
// traceback weight and the re-scored weight of the resulting alignment
// agree.
//
// An insertion column immediately following a deletion column fails
// with ErrIllegalTransition.
func Score(alignedAnc, alignedDesc string, table *subst.MarginalTable, gap GapParams) (float64, error) {
	if err := gap.validate(); err != nil {
		return 0, err
	}
	if len(alignedAnc) != len(alignedDesc) {
		return 0, &LengthMismatchError{LenA: len(alignedAnc), LenB: len(alignedDesc)}
	}

	anc := strings.ReplaceAll(alignedAnc, string(sequence.Gap), "")
	if err := sequence.ValidateAncestor("ancestor", anc, 1); err != nil {
		return 0, err
	}
	ancRows := sequence.EncodePair(anc, "").Ancestor

	// Per-column descendant codes; gap columns are never read.
	descCodes := make([]uint8, len(alignedDesc))
	for i := 0; i < len(alignedDesc); i++ {
		if alignedDesc[i] == sequence.Gap {
			continue
		}
		code, ok := subst.NucCode(alignedDesc[i])
		if !ok {
			return 0, &sequence.InvalidBaseError{Position: i, Found: alignedDesc[i]}
		}
		descCodes[i] = code
	}

	w := newWeights(gap)
	weight := 0.0
	state := Match
	inserted := 0 // insertion columns seen so far
	for i := 0; i < len(alignedAnc); i++ {
		gapA := alignedAnc[i] == sequence.Gap
		gapB := alignedDesc[i] == sequence.Gap

		switch state {
		case Match:
			switch {
			case gapA:
				weight += w.gapOpen
				state = Insertion
				inserted++
			case gapB:
				weight += w.noGap + w.gapOpen
				state = Deletion
			default:
				weight += 2*w.noGap + table.Emission(int(ancRows[i-inserted]), descCodes[i])
			}
		case Deletion:
			switch {
			case gapA:
				return 0, ErrIllegalTransition
			case gapB:
				weight += w.gapExt
			default:
				weight += w.gapStop + table.Emission(int(ancRows[i-inserted]), descCodes[i])
				state = Match
			}
		case Insertion:
			switch {
			case gapA:
				weight += w.gapExt
				inserted++
			case gapB:
				weight += w.gapStop + w.gapOpen
				state = Deletion
			default:
				weight += w.gapStop + w.noGap + table.Emission(int(ancRows[i-inserted]), descCodes[i])
				state = Match
			}
		}
	}

	switch state {
	case Match:
		weight += w.noGap
	case Insertion:
		weight += w.gapStop
	}
	return weight, nil
}
