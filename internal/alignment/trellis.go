// Package alignment implements pairwise alignment under a marginal
// codon substitution model.
//
// The engine runs a three-state affine-gap Viterbi recurrence in log
// space over an encoded ancestor/descendant pair and a marginal
// emission table. Two trellis variants are provided: a full-table
// variant that records predecessor states for direct traceback, and a
// low-memory variant that keeps only the score matrices and recomputes
// predecessors from neighboring cells. Both produce identical scores.
package alignment

import (
	"math"
	"math/rand"

	"github.com/aria-lang/codonalign-go/internal/sequence"
	"github.com/aria-lang/codonalign-go/internal/subst"
)

// State identifies one of the three pair-model states. Declaration
// order doubles as the tie-break order: when predecessor transitions
// score equally, the earlier state wins, in both trellis variants.
type State uint8

const (
	// Match consumes one ancestor and one descendant base.
	Match State = iota
	// Deletion consumes ancestor bases only (gap in the descendant).
	Deletion
	// Insertion consumes descendant bases only (gap in the ancestor).
	Insertion

	noState State = 3
)

func (s State) String() string {
	switch s {
	case Match:
		return "match"
	case Deletion:
		return "deletion"
	case Insertion:
		return "insertion"
	default:
		return "none"
	}
}

// GapParams holds the affine gap model: the probability of opening a
// gap, the probability of extending one, and the gap unit length (1, or
// 3 for frame-preserving gaps).
type GapParams struct {
	Open   float64
	Extend float64
	Unit   int
}

// DefaultGapParams returns the standard gap model: open 0.001, extend
// 1 - 1/6 (mean gap length six), unit length one.
func DefaultGapParams() GapParams {
	return GapParams{Open: 0.001, Extend: 1 - 1.0/6.0, Unit: 1}
}

func (g GapParams) validate() error {
	if g.Open <= 0 || g.Open >= 1 {
		return &ParamError{Param: "gap open", Reason: "probability must be in (0,1)"}
	}
	if g.Extend <= 0 || g.Extend >= 1 {
		return &ParamError{Param: "gap extend", Reason: "probability must be in (0,1)"}
	}
	if g.Unit != 1 && g.Unit != 3 {
		return &ParamError{Param: "gap unit", Reason: "length must be 1 or 3"}
	}
	return nil
}

// weights precomputes the log-space transition terms.
type weights struct {
	noGap   float64 // log(1 - open)
	gapStop float64 // log(1 - extend)
	gapOpen float64 // log(open)
	gapExt  float64 // log(extend)

	// A gap state consumes unit bases per step: opening costs
	// log(open) + (unit-1) log(extend), continuing costs
	// unit * log(extend).
	openStep float64
	extStep  float64
	unit     int
}

func newWeights(g GapParams) weights {
	w := weights{
		noGap:   math.Log1p(-g.Open),
		gapStop: math.Log1p(-g.Extend),
		gapOpen: math.Log(g.Open),
		gapExt:  math.Log(g.Extend),
		unit:    g.Unit,
	}
	w.openStep = w.gapOpen + float64(g.Unit-1)*w.gapExt
	w.extStep = float64(g.Unit) * w.gapExt
	return w
}

// Trellis is a populated dynamic-programming lattice for one sequence
// pair. It is built to completion before traceback or sampling runs and
// is never mutated afterwards.
type Trellis interface {
	// Weight returns the terminal-adjusted log score of the best path.
	Weight() float64
	// Traceback reconstructs the best-scoring alignment.
	Traceback() *Result
	// Sample draws one alignment with probability proportional to the
	// relative mass of its transitions, advancing rng. The same seed
	// reproduces the same sequence of samples.
	Sample(rng *rand.Rand) *Result
}

// Variant selects a trellis implementation.
type Variant int

const (
	// FullTable stores scores and predecessor states for every cell.
	FullTable Variant = iota
	// LowMemory stores scores only and recomputes predecessors during
	// traceback and sampling. The score matrices are still quadratic in
	// the sequence lengths; the saving is the back-pointer table.
	LowMemory
)

// DefaultMaxCells bounds the per-state table size, about 1.5 GiB of
// scores for three float64 matrices.
const DefaultMaxCells = 1 << 26

// Engine builds trellises for encoded sequence pairs against one
// marginal emission table. An Engine is cheap and owns no mutable
// state; each Fill call returns an independent trellis.
type Engine struct {
	Table *subst.MarginalTable
	Gap   GapParams
	// MaxCells overrides DefaultMaxCells when positive.
	MaxCells int
}

// Fill runs the Viterbi recurrence over the pair and returns the
// populated trellis. Inputs whose table would exceed the cell budget
// are rejected with a TableSizeError.
func (e *Engine) Fill(pair *sequence.EncodedPair, variant Variant) (Trellis, error) {
	if err := e.Gap.validate(); err != nil {
		return nil, err
	}
	limit := e.MaxCells
	if limit <= 0 {
		limit = DefaultMaxCells
	}
	n, m := len(pair.Ancestor), len(pair.Descendant)
	cells := (n + 1) * (m + 1)
	if cells > limit {
		return nil, &TableSizeError{Cells: cells, Limit: limit}
	}

	t := &trellis{
		w:    newWeights(e.Gap),
		emit: e.Table,
		pair: pair,
		rows: n + 1,
		cols: m + 1,
		mch:  newScores(cells),
		del:  newScores(cells),
		ins:  newScores(cells),
	}

	var full *fullTrellis
	if variant == FullTable {
		full = &fullTrellis{trellis: t}
		for s := range full.bp {
			full.bp[s] = make([]State, cells)
			for c := range full.bp[s] {
				full.bp[s][c] = noState
			}
		}
	}

	t.fill(full)
	if full != nil {
		return full, nil
	}
	return &compactTrellis{trellis: t}, nil
}

func newScores(cells int) []float64 {
	s := make([]float64, cells)
	for i := range s {
		s[i] = math.Inf(-1)
	}
	return s
}

// trellis holds the score matrices shared by both variants.
type trellis struct {
	w    weights
	emit *subst.MarginalTable
	pair *sequence.EncodedPair

	rows, cols int
	// Per-state best cumulative log scores, row-major over the ancestor
	// index. Cells are written once during fill and never mutated.
	mch, del, ins []float64
}

func (t *trellis) idx(i, j int) int { return i*t.cols + j }

// fill populates the score matrices. When full is non-nil the chosen
// predecessor state of every cell is recorded as well.
func (t *trellis) fill(full *fullTrellis) {
	u := t.w.unit
	t.mch[0] = 0

	for i := 0; i < t.rows; i++ {
		for j := 0; j < t.cols; j++ {
			if i == 0 && j == 0 {
				continue
			}
			c := t.idx(i, j)

			if i >= 1 && j >= 1 {
				p := t.idx(i-1, j-1)
				best, src := t.mch[p]+2*t.w.noGap, Match
				if v := t.del[p] + t.w.gapStop; v > best {
					best, src = v, Deletion
				}
				if v := t.ins[p] + t.w.gapStop + t.w.noGap; v > best {
					best, src = v, Insertion
				}
				row := int(t.pair.Ancestor[i-1])
				t.mch[c] = best + t.emit.Emission(row, t.pair.Descendant[j-1])
				if full != nil {
					full.bp[Match][c] = src
				}
			}

			if i >= u {
				p := t.idx(i-u, j)
				best, src := t.mch[p]+t.w.noGap+t.w.openStep, Match
				if v := t.del[p] + t.w.extStep; v > best {
					best, src = v, Deletion
				}
				if v := t.ins[p] + t.w.gapStop + t.w.openStep; v > best {
					best, src = v, Insertion
				}
				t.del[c] = best
				if full != nil {
					full.bp[Deletion][c] = src
				}
			}

			if j >= u {
				p := t.idx(i, j-u)
				best, src := t.mch[p]+t.w.openStep, Match
				if v := t.ins[p] + t.w.extStep; v > best {
					best, src = v, Insertion
				}
				t.ins[c] = best
				if full != nil {
					full.bp[Insertion][c] = src
				}
			}
		}
	}
}

// terminal returns the terminal-adjusted score and starting state for
// traceback: a match path closes with log(1-open), an insertion with
// log(1-extend), a deletion with no extra term.
func (t *trellis) terminal() (float64, State) {
	c := t.idx(t.rows-1, t.cols-1)
	best, s := t.mch[c]+t.w.noGap, Match
	if v := t.del[c]; v > best {
		best, s = v, Deletion
	}
	if v := t.ins[c] + t.w.gapStop; v > best {
		best, s = v, Insertion
	}
	return best, s
}

func (t *trellis) Weight() float64 {
	w, _ := t.terminal()
	return w
}

// predMasses returns, for the cell (i, j) in state s, the predecessor
// states in declaration order and the cumulative log mass of arriving
// through each. Unreachable predecessors carry -Inf.
func (t *trellis) predMasses(i, j int, s State) ([]State, []float64) {
	u := t.w.unit
	switch s {
	case Match:
		p := t.idx(i-1, j-1)
		return []State{Match, Deletion, Insertion}, []float64{
			t.mch[p] + 2*t.w.noGap,
			t.del[p] + t.w.gapStop,
			t.ins[p] + t.w.gapStop + t.w.noGap,
		}
	case Deletion:
		p := t.idx(i-u, j)
		return []State{Match, Deletion, Insertion}, []float64{
			t.mch[p] + t.w.noGap + t.w.openStep,
			t.del[p] + t.w.extStep,
			t.ins[p] + t.w.gapStop + t.w.openStep,
		}
	default: // Insertion: a deletion predecessor is not modeled.
		p := t.idx(i, j-u)
		return []State{Match, Insertion}, []float64{
			t.mch[p] + t.w.openStep,
			t.ins[p] + t.w.extStep,
		}
	}
}

// recomputePred re-evaluates the predecessor of (i, j, s) from the
// neighboring score cells, reproducing the choice made during fill.
func (t *trellis) recomputePred(i, j int, s State) State {
	states, masses := t.predMasses(i, j, s)
	best, src := masses[0], states[0]
	for k := 1; k < len(states); k++ {
		if masses[k] > best {
			best, src = masses[k], states[k]
		}
	}
	return src
}

// fullTrellis records the predecessor state chosen for every cell,
// allowing traceback without recomputation.
type fullTrellis struct {
	*trellis
	bp [3][]State
}

func (t *fullTrellis) Traceback() *Result {
	return t.trellis.traceback(func(i, j int, s State) State {
		return t.bp[s][t.idx(i, j)]
	})
}

func (t *fullTrellis) Sample(rng *rand.Rand) *Result {
	return t.trellis.sample(rng)
}

// compactTrellis keeps only the score matrices; predecessors are
// re-evaluated from neighboring cells when walking back.
type compactTrellis struct {
	*trellis
}

func (t *compactTrellis) Traceback() *Result {
	return t.trellis.traceback(t.trellis.recomputePred)
}

func (t *compactTrellis) Sample(rng *rand.Rand) *Result {
	return t.trellis.sample(rng)
}
