package alignment

import (
	"math"
	"math/rand"

	"github.com/aria-lang/codonalign-go/internal/sequence"

	"gonum.org/v1/gonum/floats"
)

// sample performs one backward walk over the populated trellis. At
// every cell the predecessor is drawn from the categorical distribution
// given by the normalized masses of the valid transitions, instead of
// taking the maximum. The result's weight is the log probability of the
// walk, so repeated draws with the same seed reproduce identical
// alignments and weights.
func (t *trellis) sample(rng *rand.Rand) *Result {
	anc, desc := t.pair.AncBases, t.pair.DescBases
	u := t.w.unit

	c := t.idx(t.rows-1, t.cols-1)
	s, logWeight := draw(rng,
		[]State{Match, Deletion, Insertion},
		[]float64{t.mch[c] + t.w.noGap, t.del[c], t.ins[c] + t.w.gapStop})

	a := make([]byte, 0, len(anc)+len(desc))
	b := make([]byte, 0, len(anc)+len(desc))
	i, j := t.rows-1, t.cols-1
	for i > 0 || j > 0 {
		states, masses := t.predMasses(i, j, s)
		next, lp := draw(rng, states, masses)
		logWeight += lp

		switch s {
		case Match:
			a = append(a, anc[i-1])
			b = append(b, desc[j-1])
			i--
			j--
		case Deletion:
			for k := 0; k < u; k++ {
				a = append(a, anc[i-1-k])
				b = append(b, sequence.Gap)
			}
			i -= u
		case Insertion:
			for k := 0; k < u; k++ {
				a = append(a, sequence.Gap)
				b = append(b, desc[j-1-k])
			}
			j -= u
		}
		s = next
	}

	reverseBytes(a)
	reverseBytes(b)
	return &Result{
		AlignedAncestor:   string(a),
		AlignedDescendant: string(b),
		Weight:            logWeight,
	}
}

// draw picks one state with probability proportional to exp(mass) and
// returns it with the log probability of the choice. Entries with -Inf
// mass carry zero probability.
func draw(rng *rand.Rand, states []State, masses []float64) (State, float64) {
	norm := floats.LogSumExp(masses)
	r := rng.Float64()
	cum := 0.0
	for k := 0; k < len(states); k++ {
		p := math.Exp(masses[k] - norm)
		cum += p
		if r < cum {
			return states[k], math.Log(p)
		}
	}
	// Guard against accumulated rounding: fall back to the last state
	// with nonzero probability.
	for k := len(states) - 1; k > 0; k-- {
		if !math.IsInf(masses[k], -1) {
			return states[k], masses[k] - norm
		}
	}
	return states[0], masses[0] - norm
}
