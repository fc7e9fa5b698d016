package subst

import "math"

// AmbigPolicy selects how ambiguous descendant bases are scored.
type AmbigPolicy int

const (
	// Average scores an ambiguous base by the arithmetic mean of the log
	// emissions of its compatible resolutions.
	Average AmbigPolicy = iota
	// Best scores an ambiguous base by its single most probable
	// resolution.
	Best
)

func (p AmbigPolicy) String() string {
	switch p {
	case Average:
		return "average"
	case Best:
		return "best"
	default:
		return "unknown"
	}
}

// MarginalTable maps (ancestor codon and position, descendant base code)
// to a log emission probability. Row 3*cod+pos marginalizes the codon
// transition row of the model over every descendant codon whose base at
// that position matches, normalized by the descendant base frequency.
//
// The table is read-only for the lifetime of an alignment run.
type MarginalTable struct {
	logp [192][NumNucCodes]float64
}

// NewMarginalTable derives the marginal emission table from a codon
// transition matrix and nucleotide frequencies. Ambiguity columns are
// filled according to policy.
func NewMarginalTable(m *Matrix, pi [4]float64, policy AmbigPolicy) *MarginalTable {
	t := &MarginalTable{}
	for cod := 0; cod < 64; cod++ {
		for pos := 0; pos < 3; pos++ {
			row := cod*3 + pos

			// Marginal probability mass per standard base.
			var marg [4]float64
			for j := 0; j < 64; j++ {
				marg[codonBase(j, pos)] += m.At(cod, j)
			}
			for nuc := 0; nuc < 4; nuc++ {
				t.logp[row][nuc] = math.Log(marg[nuc] / pi[nuc])
			}

			for code := CodeR; code < NumNucCodes; code++ {
				set := ambigSets[code]
				switch policy {
				case Best:
					best := math.Inf(-1)
					for _, nuc := range set {
						if v := t.logp[row][nuc]; v > best {
							best = v
						}
					}
					t.logp[row][code] = best
				default: // Average
					sum := 0.0
					for _, nuc := range set {
						sum += t.logp[row][nuc]
					}
					t.logp[row][code] = sum / float64(len(set))
				}
			}
		}
	}
	return t
}

// Emission returns the log emission probability for an ancestor
// codon-and-position row and a descendant base code.
func (t *MarginalTable) Emission(row int, code uint8) float64 {
	return t.logp[row][code]
}
