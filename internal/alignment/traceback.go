package alignment

import "github.com/aria-lang/codonalign-go/internal/sequence"

// traceback walks predecessors from the terminal cell back to the
// origin, emitting one aligned column (or one gap unit) per step, and
// reverses the emitted pair. pred resolves the predecessor state of a
// cell, either from stored back-pointers or by recomputation.
func (t *trellis) traceback(pred func(i, j int, s State) State) *Result {
	anc, desc := t.pair.AncBases, t.pair.DescBases
	u := t.w.unit
	weight, s := t.terminal()

	a := make([]byte, 0, len(anc)+len(desc))
	b := make([]byte, 0, len(anc)+len(desc))
	i, j := t.rows-1, t.cols-1
	for i > 0 || j > 0 {
		next := pred(i, j, s)
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
		Weight:            weight,
	}
}

func reverseBytes(b []byte) {
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
}
