// Package codonalign provides the high-level API for statistically
// aligning a pair of nucleotide sequences under a marginal codon
// substitution model.
//
// Example usage:
//
//	recs := []sequence.Named{
//	    {Name: "anc", Bases: "CTCTGGATAGTG"},
//	    {Name: "des", Bases: "CTATAGTG"},
//	}
//	res, err := codonalign.Align(recs, codonalign.DefaultConfig())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(res.Ancestor, res.Descendant, res.Weight)
package codonalign

import (
	"fmt"
	"math/rand"
	"os"

	"github.com/aria-lang/codonalign-go/internal/alignment"
	"github.com/aria-lang/codonalign-go/internal/fastaio"
	"github.com/aria-lang/codonalign-go/internal/sequence"
	"github.com/aria-lang/codonalign-go/internal/subst"
)

// Re-export the types callers configure with.
type (
	Named       = sequence.Named
	AmbigPolicy = subst.AmbigPolicy
	Variant     = alignment.Variant
)

const (
	Average = subst.Average
	Best    = subst.Best

	FullTable = alignment.FullTable
	LowMemory = alignment.LowMemory
)

// ModelName identifies the substitution model in weight logs.
const ModelName = "marginal"

// Config collects every parameter of one alignment run. All fields are
// plain values supplied by the caller; a run owns its substitution
// matrix, emission table and trellis and shares nothing.
type Config struct {
	// Substitution model.
	BranchLength float64
	Omega        float64
	Pi           [4]float64 // A, C, G, T frequencies, summing to 1
	Sigma        [6]float64 // GTR exchangeabilities; all zero selects Yang94
	RateFile     string     // optional user-supplied rate matrix path

	// Gap model.
	GapOpen   float64
	GapExtend float64
	GapUnit   int // 1, or 3 for frame-preserving gaps

	// Engine.
	Ambiguity AmbigPolicy
	Variant   Variant
	MaxCells  int

	// Pair ordering.
	Reference string // name of the sequence to use as ancestor
	Reverse   bool   // swap the pair

	// Optional weight log. When set, Align appends
	// "Source,marginal,weight" after each successful run.
	WeightLog fastaio.WeightLogger
	Source    string
}

// DefaultConfig returns the standard model parameters.
func DefaultConfig() Config {
	return Config{
		BranchLength: 0.0133,
		Omega:        0.2,
		Pi:           [4]float64{0.308, 0.185, 0.199, 0.308},
		GapOpen:      0.001,
		GapExtend:    1 - 1.0/6.0,
		GapUnit:      1,
		Ambiguity:    Average,
		Variant:      FullTable,
	}
}

// ReferenceError is returned when the configured reference name matches
// neither input sequence.
type ReferenceError struct {
	Name string
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("reference sequence %q not found", e.Name)
}

// Result is one aligned pair, names in ancestor/descendant order.
type Result struct {
	Names      [2]string
	Ancestor   string
	Descendant string
	Weight     float64
}

// Records returns the result as named records for the output writers.
func (r *Result) Records() []Named {
	return []Named{
		{Name: r.Names[0], Bases: r.Ancestor},
		{Name: r.Names[1], Bases: r.Descendant},
	}
}

// orderPair checks the sequence count and moves the reference sequence
// into the ancestor slot. A configured reference name that matches
// neither sequence is a validation error; the reverse flag swaps the
// pair when no name decides the order.
func orderPair(recs []Named, cfg *Config) ([2]Named, error) {
	var pair [2]Named
	if len(recs) != 2 {
		return pair, &sequence.CountError{Got: len(recs)}
	}
	pair[0], pair[1] = recs[0], recs[1]
	pair[0].Bases = sequence.Normalize(pair[0].Bases)
	pair[1].Bases = sequence.Normalize(pair[1].Bases)

	if cfg.Reference == "" && !cfg.Reverse {
		return pair, nil
	}
	switch {
	case pair[0].Name == cfg.Reference:
		// Already the ancestor.
	case pair[1].Name == cfg.Reference, cfg.Reverse:
		pair[0], pair[1] = pair[1], pair[0]
	default:
		return pair, &ReferenceError{Name: cfg.Reference}
	}
	return pair, nil
}

// buildTable constructs the substitution model and derives the marginal
// emission table for one run.
func buildTable(cfg *Config) (*subst.MarginalTable, error) {
	var (
		m   *subst.Matrix
		err error
	)
	if cfg.RateFile != "" {
		f, ferr := os.Open(cfg.RateFile)
		if ferr != nil {
			return nil, fmt.Errorf("rate matrix: %w", ferr)
		}
		defer f.Close()
		m, err = subst.ParseRateFile(f)
	} else {
		m, err = subst.New(cfg.BranchLength, cfg.Omega, cfg.Pi, cfg.Sigma)
	}
	if err != nil {
		return nil, err
	}
	return subst.NewMarginalTable(m, cfg.Pi, cfg.Ambiguity), nil
}

func gapParams(cfg *Config) alignment.GapParams {
	return alignment.GapParams{Open: cfg.GapOpen, Extend: cfg.GapExtend, Unit: cfg.GapUnit}
}

// Align aligns a pair of sequences and returns the best-scoring
// alignment with its log weight.
func Align(recs []Named, cfg Config) (*Result, error) {
	pair, err := orderPair(recs, &cfg)
	if err != nil {
		return nil, err
	}
	trellis, err := fillTrellis(pair, &cfg)
	if err != nil {
		return nil, err
	}
	res := trellis.Traceback()

	out := &Result{
		Names:      [2]string{pair[0].Name, pair[1].Name},
		Ancestor:   res.AlignedAncestor,
		Descendant: res.AlignedDescendant,
		Weight:     res.Weight,
	}
	if cfg.WeightLog != nil {
		if err := cfg.WeightLog.Append(cfg.Source, ModelName, out.Weight); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Score re-scores an already aligned pair of equal-length gapped
// sequences under the model.
func Score(recs []Named, cfg Config) (float64, error) {
	pair, err := orderPair(recs, &cfg)
	if err != nil {
		return 0, err
	}
	table, err := buildTable(&cfg)
	if err != nil {
		return 0, err
	}
	return alignment.Score(pair[0].Bases, pair[1].Bases, table, gapParams(&cfg))
}

// Sample draws n alignments of the pair, each with probability
// proportional to its transition mass in the trellis. rng is owned by
// the caller; the same seed reproduces the same ordered samples.
func Sample(recs []Named, n int, rng *rand.Rand, cfg Config) ([]*Result, error) {
	pair, err := orderPair(recs, &cfg)
	if err != nil {
		return nil, err
	}
	trellis, err := fillTrellis(pair, &cfg)
	if err != nil {
		return nil, err
	}

	out := make([]*Result, 0, n)
	for k := 0; k < n; k++ {
		res := trellis.Sample(rng)
		out = append(out, &Result{
			Names:      [2]string{pair[0].Name, pair[1].Name},
			Ancestor:   res.AlignedAncestor,
			Descendant: res.AlignedDescendant,
			Weight:     res.Weight,
		})
	}
	return out, nil
}

// fillTrellis validates, encodes and runs the recurrence for one pair.
func fillTrellis(pair [2]Named, cfg *Config) (alignment.Trellis, error) {
	unit := cfg.GapUnit
	if err := sequence.ValidateAncestor(pair[0].Name, pair[0].Bases, unit); err != nil {
		return nil, err
	}
	if err := sequence.ValidateDescendant(pair[1].Name, pair[1].Bases, unit); err != nil {
		return nil, err
	}
	table, err := buildTable(cfg)
	if err != nil {
		return nil, err
	}
	engine := &alignment.Engine{
		Table:    table,
		Gap:      gapParams(cfg),
		MaxCells: cfg.MaxCells,
	}
	return engine.Fill(sequence.EncodePair(pair[0].Bases, pair[1].Bases), cfg.Variant)
}
