package alignment

import (
	"math"
	"math/rand"
	"strings"
	"testing"

	"github.com/aria-lang/codonalign-go/internal/sequence"
	"github.com/aria-lang/codonalign-go/internal/subst"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testPi = [4]float64{0.308, 0.185, 0.199, 0.308}

func testTable(t *testing.T, policy subst.AmbigPolicy) *subst.MarginalTable {
	t.Helper()
	m, err := subst.New(0.0133, 0.2, testPi, [6]float64{})
	require.NoError(t, err)
	return subst.NewMarginalTable(m, testPi, policy)
}

func fillPair(t *testing.T, table *subst.MarginalTable, gap GapParams, anc, desc string, v Variant) Trellis {
	t.Helper()
	e := &Engine{Table: table, Gap: gap}
	tr, err := e.Fill(sequence.EncodePair(anc, desc), v)
	require.NoError(t, err)
	return tr
}

func TestGapParams(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		g := DefaultGapParams()
		assert.Equal(t, 0.001, g.Open)
		assert.InDelta(t, 1-1.0/6.0, g.Extend, 1e-12)
		assert.Equal(t, 1, g.Unit)
		require.NoError(t, g.validate())
	})

	tests := []struct {
		name string
		gap  GapParams
	}{
		{name: "open zero", gap: GapParams{Open: 0, Extend: 0.5, Unit: 1}},
		{name: "open one", gap: GapParams{Open: 1, Extend: 0.5, Unit: 1}},
		{name: "extend zero", gap: GapParams{Open: 0.001, Extend: 0, Unit: 1}},
		{name: "extend one", gap: GapParams{Open: 0.001, Extend: 1, Unit: 1}},
		{name: "bad unit", gap: GapParams{Open: 0.001, Extend: 0.5, Unit: 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var perr *ParamError
			require.ErrorAs(t, tt.gap.validate(), &perr)
		})
	}
}

func TestAlignPair(t *testing.T) {
	table := testTable(t, subst.Average)
	gap := DefaultGapParams()

	t.Run("deletion placement", func(t *testing.T) {
		for _, v := range []Variant{FullTable, LowMemory} {
			tr := fillPair(t, table, gap, "CTCTGGATAGTG", "CTATAGTG", v)
			res := tr.Traceback()
			assert.Equal(t, "CTCTGGATAGTG", res.AlignedAncestor)
			assert.Equal(t, "CT----ATAGTG", res.AlignedDescendant)
			assert.InDelta(t, 1.51294, res.Weight, 1e-3)
			assert.InDelta(t, res.Weight, tr.Weight(), 1e-12)
		}
	})

	t.Run("split deletions", func(t *testing.T) {
		for _, v := range []Variant{FullTable, LowMemory} {
			tr := fillPair(t, table, gap, "ACGTTAAGGGGT", "ACGAAT", v)
			res := tr.Traceback()
			assert.Equal(t, "ACGTTAAGGGGT", res.AlignedAncestor)
			assert.Equal(t, "ACG--AA----T", res.AlignedDescendant)
		}
	})

	t.Run("identical sequences", func(t *testing.T) {
		tr := fillPair(t, table, gap, "ATGCAT", "ATGCAT", FullTable)
		res := tr.Traceback()
		assert.Equal(t, "ATGCAT", res.AlignedAncestor)
		assert.Equal(t, "ATGCAT", res.AlignedDescendant)
		assert.Equal(t, 1.0, res.Identity())
		assert.Equal(t, 0, res.Gaps())
	})

	t.Run("longer descendant forces insertion", func(t *testing.T) {
		tr := fillPair(t, table, gap, "ATG", "ATGCC", FullTable)
		res := tr.Traceback()
		assert.Len(t, res.AlignedAncestor, res.Length())
		assert.Equal(t, "ATG", strings.ReplaceAll(res.AlignedAncestor, "-", ""))
		assert.Equal(t, "ATGCC", strings.ReplaceAll(res.AlignedDescendant, "-", ""))
		assert.Equal(t, 2, strings.Count(res.AlignedAncestor, "-"))
	})

	t.Run("frame preserving gaps", func(t *testing.T) {
		g := gap
		g.Unit = 3
		for _, v := range []Variant{FullTable, LowMemory} {
			tr := fillPair(t, table, g, "ACGTTAAGGGGT", "ACGAAT", v)
			res := tr.Traceback()
			assert.Equal(t, "ACG---TTAAGGGGT", res.AlignedAncestor)
			assert.Equal(t, "ACGAAT---------", res.AlignedDescendant)
		}
	})

	t.Run("variants agree", func(t *testing.T) {
		pairs := [][2]string{
			{"CTCTGGATAGTG", "CTATAGTG"},
			{"ATGCATGCATGC", "ATGCATGC"},
			{"AAACCCGGGTTT", "AAAGGGTTTTTT"},
			{"ATG", "ATGATGATG"},
		}
		for _, p := range pairs {
			full := fillPair(t, table, gap, p[0], p[1], FullTable)
			low := fillPair(t, table, gap, p[0], p[1], LowMemory)

			assert.Equal(t, full.Weight(), low.Weight(), "pair %v", p)
			fr, lr := full.Traceback(), low.Traceback()
			assert.Equal(t, fr.AlignedAncestor, lr.AlignedAncestor)
			assert.Equal(t, fr.AlignedDescendant, lr.AlignedDescendant)
			assert.Equal(t, fr.Weight, lr.Weight)
		}
	})

	t.Run("traceback weight matches independent scoring", func(t *testing.T) {
		pairs := [][2]string{
			{"CTCTGGATAGTG", "CTATAGTG"},
			{"ATGCATGCATGC", "ATGGCATGC"},
			{"AAACCC", "AAACCCGGG"},
		}
		for _, p := range pairs {
			res := fillPair(t, table, gap, p[0], p[1], FullTable).Traceback()
			got, err := Score(res.AlignedAncestor, res.AlignedDescendant, table, gap)
			require.NoError(t, err)
			assert.InDelta(t, res.Weight, got, 1e-9, "pair %v", p)
		}
	})
}

func TestAmbiguousBases(t *testing.T) {
	gap := DefaultGapParams()

	t.Run("average policy", func(t *testing.T) {
		table := testTable(t, subst.Average)
		res := fillPair(t, table, gap, "CTCTGGATAGTG", "CTATAGTR", FullTable).Traceback()
		assert.Equal(t, "CT----ATAGTR", res.AlignedDescendant)
		assert.InDelta(t, -1.03892, res.Weight, 1e-3)
	})

	t.Run("best policy", func(t *testing.T) {
		table := testTable(t, subst.Best)
		res := fillPair(t, table, gap, "CTCTGGATAGTG", "CTATAGTR", FullTable).Traceback()
		assert.Equal(t, "CT----ATAGTR", res.AlignedDescendant)
		assert.InDelta(t, 1.51294, res.Weight, 1e-3)
	})
}

func TestEngineLimits(t *testing.T) {
	table := testTable(t, subst.Average)

	t.Run("cell budget", func(t *testing.T) {
		e := &Engine{Table: table, Gap: DefaultGapParams(), MaxCells: 16}
		_, err := e.Fill(sequence.EncodePair("ATGCATGCATGC", "ATGCATGC"), FullTable)
		var terr *TableSizeError
		require.ErrorAs(t, err, &terr)
		assert.Equal(t, 13*9, terr.Cells)
		assert.Equal(t, 16, terr.Limit)
	})

	t.Run("invalid gap parameters", func(t *testing.T) {
		e := &Engine{Table: table, Gap: GapParams{Open: 0, Extend: 0.5, Unit: 1}}
		_, err := e.Fill(sequence.EncodePair("ATG", "ATG"), FullTable)
		var perr *ParamError
		require.ErrorAs(t, err, &perr)
	})
}

func TestScore(t *testing.T) {
	table := testTable(t, subst.Average)
	gap := DefaultGapParams()

	t.Run("fixed alignments", func(t *testing.T) {
		tests := []struct {
			name string
			anc  string
			desc string
			want float64
		}{
			{name: "insertion inside", anc: "CTCT--AT", desc: "CTCTGGAT", want: -0.835939},
			{name: "adjacent gaps", anc: "ACTCT-A", desc: "ACTCTG-", want: -8.73357},
			{name: "trailing insertion", anc: "ACTCTA-", desc: "ACTCTAG", want: -0.658564},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				got, err := Score(tt.anc, tt.desc, table, gap)
				require.NoError(t, err)
				assert.InDelta(t, tt.want, got, 1e-3)
			})
		}
	})

	t.Run("length mismatch", func(t *testing.T) {
		_, err := Score("ATG", "ATGC", table, gap)
		var lerr *LengthMismatchError
		require.ErrorAs(t, err, &lerr)
		assert.Equal(t, 3, lerr.LenA)
		assert.Equal(t, 4, lerr.LenB)
	})

	t.Run("insertion after deletion", func(t *testing.T) {
		_, err := Score("AA-A", "A-AA", table, gap)
		require.ErrorIs(t, err, ErrIllegalTransition)
	})

	t.Run("ancestor must be complete codons", func(t *testing.T) {
		_, err := Score("ATGC", "ATGC", table, gap)
		require.Error(t, err)
	})

	t.Run("invalid descendant base", func(t *testing.T) {
		_, err := Score("ATG", "AXG", table, gap)
		var berr *sequence.InvalidBaseError
		require.ErrorAs(t, err, &berr)
	})
}

func TestSample(t *testing.T) {
	table := testTable(t, subst.Average)
	gap := DefaultGapParams()

	t.Run("deterministic for a seed", func(t *testing.T) {
		for _, v := range []Variant{FullTable, LowMemory} {
			tr := fillPair(t, table, gap, "CTCTGGATAGTG", "CTATAGTG", v)

			first := make([]*Result, 5)
			rng := rand.New(rand.NewSource(42))
			for k := range first {
				first[k] = tr.Sample(rng)
			}
			rng = rand.New(rand.NewSource(42))
			for k := range first {
				again := tr.Sample(rng)
				assert.Equal(t, first[k].AlignedAncestor, again.AlignedAncestor)
				assert.Equal(t, first[k].AlignedDescendant, again.AlignedDescendant)
				assert.Equal(t, first[k].Weight, again.Weight)
			}
		}
	})

	t.Run("samples are valid alignments", func(t *testing.T) {
		tr := fillPair(t, table, gap, "CTCTGGATAGTG", "CTATAGTG", FullTable)
		rng := rand.New(rand.NewSource(7))
		for k := 0; k < 50; k++ {
			res := tr.Sample(rng)
			assert.Equal(t, len(res.AlignedAncestor), len(res.AlignedDescendant))
			assert.Equal(t, "CTCTGGATAGTG", strings.ReplaceAll(res.AlignedAncestor, "-", ""))
			assert.Equal(t, "CTATAGTG", strings.ReplaceAll(res.AlignedDescendant, "-", ""))
			assert.LessOrEqual(t, res.Weight, 0.0)
			assert.False(t, math.IsInf(res.Weight, -1))

			// Every sampled path must also be expressible under the model.
			_, err := Score(res.AlignedAncestor, res.AlignedDescendant, table, gap)
			require.NoError(t, err)
		}
	})

	t.Run("short branch concentrates on the best path", func(t *testing.T) {
		tr := fillPair(t, table, gap, "ATGCAT", "ATGCAT", FullTable)
		best := tr.Traceback()
		rng := rand.New(rand.NewSource(1))
		hits := 0
		for k := 0; k < 20; k++ {
			if tr.Sample(rng).AlignedDescendant == best.AlignedDescendant {
				hits++
			}
		}
		assert.Greater(t, hits, 15)
	})
}

func TestResult(t *testing.T) {
	r := &Result{
		AlignedAncestor:   "CTCTGGATAGTG",
		AlignedDescendant: "CT----ATAGTG",
		Weight:            1.5,
	}
	assert.Equal(t, 12, r.Length())
	assert.Equal(t, 4, r.Gaps())
	assert.InDelta(t, 8.0/12.0, r.Identity(), 1e-12)
	assert.Contains(t, r.String(), "CT----ATAGTG")
}
