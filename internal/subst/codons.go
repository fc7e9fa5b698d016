// Package subst builds codon substitution probability models.
//
// A model is constructed from a branch length, a nonsynonymous bias
// (omega), nucleotide frequencies and optionally a set of GTR
// exchangeability parameters. The 64x64 codon transition matrix is then
// marginalized into per-position nucleotide emission probabilities used
// by the alignment engine.
package subst

// Nucleotide codes. Codes 0..3 are the standard bases in alphabetical
// order; codes 4..14 are the IUPAC ambiguity letters. Codon indexes pack
// three base codes into six bits: (n1<<4) | (n2<<2) | n3, so codon 0 is
// AAA and codon 63 is TTT.
const (
	CodeA uint8 = iota
	CodeC
	CodeG
	CodeT
	CodeR // A or G
	CodeY // C or T
	CodeS // C or G
	CodeW // A or T
	CodeK // G or T
	CodeM // A or C
	CodeB // C, G or T
	CodeD // A, G or T
	CodeH // A, C or T
	CodeV // A, C or G
	CodeN // any

	// NumNucCodes is the size of the descendant emission alphabet.
	NumNucCodes = 15
)

// NucCode maps an uppercase base or IUPAC letter to its code.
// The second return value is false for characters outside the alphabet.
func NucCode(c byte) (uint8, bool) {
	switch c {
	case 'A':
		return CodeA, true
	case 'C':
		return CodeC, true
	case 'G':
		return CodeG, true
	case 'T':
		return CodeT, true
	case 'R':
		return CodeR, true
	case 'Y':
		return CodeY, true
	case 'S':
		return CodeS, true
	case 'W':
		return CodeW, true
	case 'K':
		return CodeK, true
	case 'M':
		return CodeM, true
	case 'B':
		return CodeB, true
	case 'D':
		return CodeD, true
	case 'H':
		return CodeH, true
	case 'V':
		return CodeV, true
	case 'N':
		return CodeN, true
	default:
		return 0, false
	}
}

// ambigSets lists the standard bases compatible with each ambiguity code.
var ambigSets = [NumNucCodes][]uint8{
	CodeA: {CodeA},
	CodeC: {CodeC},
	CodeG: {CodeG},
	CodeT: {CodeT},
	CodeR: {CodeA, CodeG},
	CodeY: {CodeC, CodeT},
	CodeS: {CodeC, CodeG},
	CodeW: {CodeA, CodeT},
	CodeK: {CodeG, CodeT},
	CodeM: {CodeA, CodeC},
	CodeB: {CodeC, CodeG, CodeT},
	CodeD: {CodeA, CodeG, CodeT},
	CodeH: {CodeA, CodeC, CodeT},
	CodeV: {CodeA, CodeC, CodeG},
	CodeN: {CodeA, CodeC, CodeG, CodeT},
}

// nucLetters is indexed by base code.
const nucLetters = "ACGT"

// geneticCode maps a packed codon index to its amino acid under the
// standard genetic code. Stop codons are '*'. Two codons are synonymous
// when they map to the same letter.
const geneticCode = "KNKNTTTTRSRSIIMI" +
	"QHQHPPPPRRRRLLLL" +
	"EDEDAAAAGGGGVVVV" +
	"*Y*YSSSS*CWCLFLF"

// CodonIndex packs three base codes into a codon index.
func CodonIndex(n1, n2, n3 uint8) int {
	return int(n1)<<4 | int(n2)<<2 | int(n3)
}

// CodonFromString parses a three-letter codon such as "ATG".
// The second return value is false if the string is not a codon over
// the standard bases.
func CodonFromString(s string) (int, bool) {
	if len(s) != 3 {
		return 0, false
	}
	var codes [3]uint8
	for i := 0; i < 3; i++ {
		c, ok := NucCode(s[i])
		if !ok || c > CodeT {
			return 0, false
		}
		codes[i] = c
	}
	return CodonIndex(codes[0], codes[1], codes[2]), true
}

// CodonString renders a codon index as its three-letter form.
func CodonString(cod int) string {
	return string([]byte{
		nucLetters[cod>>4&3],
		nucLetters[cod>>2&3],
		nucLetters[cod&3],
	})
}

// codonBase extracts the base code at position pos (0..2) of a codon.
func codonBase(cod, pos int) uint8 {
	return uint8(cod >> ((2 - pos) * 2) & 3)
}

// codonDistance counts the positions at which two codons differ.
func codonDistance(i, j int) int {
	d := 0
	for pos := 0; pos < 3; pos++ {
		if codonBase(i, pos) != codonBase(j, pos) {
			d++
		}
	}
	return d
}

// synonymous reports whether two codons encode the same amino acid.
func synonymous(i, j int) bool {
	return geneticCode[i] == geneticCode[j]
}
