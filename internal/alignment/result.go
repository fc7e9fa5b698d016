package alignment

import (
	"fmt"
	"strings"

	"github.com/aria-lang/codonalign-go/internal/sequence"
)

// Result is one aligned sequence pair with its log weight. Results are
// created by traceback or sampling and consumed by output writers.
type Result struct {
	AlignedAncestor   string
	AlignedDescendant string
	Weight            float64
}

// Length returns the number of alignment columns.
func (r *Result) Length() int {
	return len(r.AlignedAncestor)
}

// Identity returns the fraction of columns where both sequences carry
// the same base.
func (r *Result) Identity() float64 {
	if len(r.AlignedAncestor) == 0 {
		return 0
	}
	matches := 0
	for i := 0; i < len(r.AlignedAncestor); i++ {
		if r.AlignedAncestor[i] == r.AlignedDescendant[i] &&
			r.AlignedAncestor[i] != sequence.Gap {
			matches++
		}
	}
	return float64(matches) / float64(len(r.AlignedAncestor))
}

// Gaps returns the total gap count over both rows.
func (r *Result) Gaps() int {
	return strings.Count(r.AlignedAncestor, string(sequence.Gap)) +
		strings.Count(r.AlignedDescendant, string(sequence.Gap))
}

func (r *Result) String() string {
	return fmt.Sprintf("%s\n%s\n(log weight %g)",
		r.AlignedAncestor, r.AlignedDescendant, r.Weight)
}
