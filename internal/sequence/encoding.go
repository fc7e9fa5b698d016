package sequence

import "github.com/aria-lang/codonalign-go/internal/subst"

// EncodedPair holds a sequence pair in the alignment engine's alphabet.
//
// Ancestor entries are marginal table rows (3*codon + position, 0..191);
// descendant entries are nucleotide codes including ambiguity codes.
// Both slices are immutable once built.
type EncodedPair struct {
	AncBases   string
	DescBases  string
	Ancestor   []uint8
	Descendant []uint8
}

// EncodePair encodes a validated ancestor/descendant pair. The ancestor
// must contain only standard bases and complete codons; call
// ValidateAncestor and ValidateDescendant first.
func EncodePair(anc, desc string) *EncodedPair {
	pair := &EncodedPair{
		AncBases:   anc,
		DescBases:  desc,
		Ancestor:   make([]uint8, len(anc)),
		Descendant: make([]uint8, len(desc)),
	}
	for i := 0; i+2 < len(anc); i += 3 {
		n1, _ := subst.NucCode(anc[i])
		n2, _ := subst.NucCode(anc[i+1])
		n3, _ := subst.NucCode(anc[i+2])
		cod := subst.CodonIndex(n1, n2, n3)
		pair.Ancestor[i] = uint8(cod * 3)
		pair.Ancestor[i+1] = uint8(cod*3 + 1)
		pair.Ancestor[i+2] = uint8(cod*3 + 2)
	}
	for j := 0; j < len(desc); j++ {
		code, _ := subst.NucCode(desc[j])
		pair.Descendant[j] = code
	}
	return pair
}
