package subst

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Yang94 returns the empirical nucleotide substitution rate matrix from
// Yang (1994), rows and columns ordered A, C, G, T. It is the default
// generator used by MG94 when no GTR parameters are supplied.
func Yang94() *mat.Dense {
	return mat.NewDense(4, 4, []float64{
		-0.818, 0.132, 0.586, 0.100,
		0.221, -1.349, 0.231, 0.897,
		0.909, 0.215, -1.322, 0.198,
		0.100, 0.537, 0.128, -0.765,
	})
}

// GTR builds the general time-reversible nucleotide generator from base
// frequencies pi and the six exchangeability parameters sigma, ordered
// AC, AG, AT, CG, CT, GT. Every sigma must lie in [0,1].
func GTR(pi [4]float64, sigma [6]float64) (*mat.Dense, error) {
	for _, s := range sigma {
		if s < 0 || s > 1 {
			return nil, &ParamError{Param: "sigma", Reason: "values must be in range [0,1]"}
		}
	}
	if err := validatePi(pi); err != nil {
		return nil, err
	}

	q := mat.NewDense(4, 4, nil)
	pairs := [6][2]int{{0, 1}, {0, 2}, {0, 3}, {1, 2}, {1, 3}, {2, 3}}
	for k, p := range pairs {
		q.Set(p[0], p[1], sigma[k])
		q.Set(p[1], p[0], sigma[k])
	}
	// Scale each column by its stationary frequency, then close the rows.
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			q.Set(i, j, q.At(i, j)*pi[j])
		}
	}
	for i := 0; i < 4; i++ {
		sum := 0.0
		for j := 0; j < 4; j++ {
			if j != i {
				sum += q.At(i, j)
			}
		}
		q.Set(i, i, -sum)
	}
	return q, nil
}

// Matrix is a 64x64 codon transition probability matrix. Rows sum to one.
type Matrix struct {
	p *mat.Dense
}

// At returns the probability of codon i substituting to codon j.
func (m *Matrix) At(i, j int) float64 {
	return m.p.At(i, j)
}

// MG94 builds the Muse & Gaut (1994) codon model for a branch of length
// t. Off-diagonal rates couple codons that differ at exactly one
// position; nonsynonymous changes are scaled by omega. The generator is
// normalized by the mean substitution rate under the stationary codon
// frequencies implied by pi, scaled by t, and exponentiated.
//
// nucRates supplies the underlying 4x4 nucleotide generator; pass
// Yang94() for the default empirical rates or a GTR construction.
func MG94(t, omega float64, pi [4]float64, nucRates *mat.Dense) (*Matrix, error) {
	if t <= 0 {
		return nil, &ParamError{Param: "branch length", Reason: "must be positive"}
	}
	if err := validatePi(pi); err != nil {
		return nil, err
	}

	q := mat.NewDense(64, 64, nil)
	mean := 0.0
	for i := 0; i < 64; i++ {
		codFreq := pi[codonBase(i, 0)] * pi[codonBase(i, 1)] * pi[codonBase(i, 2)]
		rowSum := 0.0
		for j := 0; j < 64; j++ {
			if i == j || codonDistance(i, j) > 1 {
				continue
			}
			w := omega
			if synonymous(i, j) {
				w = 1
			}
			var x, y uint8
			for pos := 0; pos < 3; pos++ {
				if codonBase(i, pos) != codonBase(j, pos) {
					x, y = codonBase(i, pos), codonBase(j, pos)
					break
				}
			}
			r := w * nucRates.At(int(x), int(y))
			q.Set(i, j, r)
			rowSum += r
		}
		q.Set(i, i, -rowSum)
		mean += codFreq * rowSum
	}

	q.Scale(t/mean, q)
	var p mat.Dense
	p.Exp(q)
	return &Matrix{p: &p}, nil
}

// New selects the nucleotide generator and builds the codon model: GTR
// when any sigma parameter is nonzero, the Yang94 empirical rates
// otherwise.
func New(t, omega float64, pi [4]float64, sigma [6]float64) (*Matrix, error) {
	useGTR := false
	for _, s := range sigma {
		if s != 0 {
			useGTR = true
			break
		}
	}
	nucRates := Yang94()
	if useGTR {
		var err error
		nucRates, err = GTR(pi, sigma)
		if err != nil {
			return nil, err
		}
	}
	return MG94(t, omega, pi, nucRates)
}

func validatePi(pi [4]float64) error {
	for _, f := range pi {
		if f <= 0 {
			return &ParamError{Param: "pi", Reason: "frequencies must be positive"}
		}
	}
	if math.Abs(floats.Sum(pi[:])-1) > 1e-6 {
		return &ParamError{Param: "pi", Reason: "frequencies must sum to 1"}
	}
	return nil
}
