package codonalign

import "fmt"

// Version returns the CodonAlign version.
func Version() string {
	return "1.0.0"
}

// Info returns information about CodonAlign.
func Info() string {
	return fmt.Sprintf(`CodonAlign v%s - Statistical Pairwise Alignment Library

A Go implementation of marginal codon-aware pairwise alignment.

Features:
  - MG94 codon substitution model over Yang94 or GTR nucleotide rates
  - Marginalized per-position emissions with IUPAC ambiguity handling
  - Affine-gap dynamic programming with frame-preserving gap lengths
  - Viterbi traceback, alignment re-scoring and stochastic sampling
  - FASTA, PHYLIP and JSON input/output

For more information, see: https://github.com/aria-lang/codonalign-go
`, Version())
}
