package subst

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// rateFileRows is the required number of codon-pair rows: one per
// ordered pair of the 64 codons.
const rateFileRows = 64 * 64

// ParseRateFile reads a user-supplied codon substitution rate matrix.
//
// The format is one decimal branch length on the first line followed by
// exactly 4096 rows of the form "AAA,AAC,0.0015": ancestor codon,
// descendant codon, instantaneous rate. The rate matrix is scaled by the
// branch length and exponentiated; no mean-rate normalization is
// applied, matching the file's own scale.
func ParseRateFile(r io.Reader) (*Matrix, error) {
	sc := bufio.NewScanner(r)

	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return nil, &RateFileError{Reason: err.Error()}
		}
		return nil, &RateFileError{Line: 1, Reason: "missing branch length header"}
	}
	brLen, err := strconv.ParseFloat(strings.TrimSpace(sc.Text()), 64)
	if err != nil {
		return nil, &RateFileError{Line: 1, Reason: "malformed branch length"}
	}
	if brLen <= 0 {
		return nil, &RateFileError{Line: 1, Reason: "branch length must be positive"}
	}

	q := mat.NewDense(64, 64, nil)
	count := 0
	line := 1
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		fields := strings.Split(text, ",")
		if len(fields) != 3 {
			return nil, &RateFileError{Line: line, Reason: "expected codon,codon,rate"}
		}
		i, ok := CodonFromString(fields[0])
		if !ok {
			return nil, &RateFileError{Line: line, Reason: "bad ancestor codon " + strconv.Quote(fields[0])}
		}
		j, ok := CodonFromString(fields[1])
		if !ok {
			return nil, &RateFileError{Line: line, Reason: "bad descendant codon " + strconv.Quote(fields[1])}
		}
		rate, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return nil, &RateFileError{Line: line, Reason: "malformed rate"}
		}
		q.Set(i, j, rate)
		count++
	}
	if err := sc.Err(); err != nil {
		return nil, &RateFileError{Reason: err.Error()}
	}
	if count != rateFileRows {
		return nil, &RateFileError{Reason: "expected 4096 codon pair rows, got " + strconv.Itoa(count)}
	}

	q.Scale(brLen, q)
	var p mat.Dense
	p.Exp(q)
	return &Matrix{p: &p}, nil
}
