package subst

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// uniformRateFile builds a complete rate file where every codon pair
// substitutes at the same rate and diagonals close the rows.
func uniformRateFile(brLen string, rate float64) string {
	var b strings.Builder
	b.WriteString(brLen)
	b.WriteByte('\n')
	for i := 0; i < 64; i++ {
		for j := 0; j < 64; j++ {
			r := rate
			if i == j {
				r = -63 * rate
			}
			fmt.Fprintf(&b, "%s,%s,%g\n", CodonString(i), CodonString(j), r)
		}
	}
	return b.String()
}

func TestParseRateFile(t *testing.T) {
	t.Run("valid file", func(t *testing.T) {
		m, err := ParseRateFile(strings.NewReader(uniformRateFile("0.0133", 0.001)))
		require.NoError(t, err)

		for i := 0; i < 64; i++ {
			sum := 0.0
			for j := 0; j < 64; j++ {
				sum += m.At(i, j)
			}
			assert.InDelta(t, 1, sum, 1e-9, "codon %s", CodonString(i))
		}
		for i := 0; i < 64; i++ {
			assert.Greater(t, m.At(i, i), 0.9)
		}
	})

	t.Run("blank lines skipped", func(t *testing.T) {
		content := strings.Replace(uniformRateFile("0.0133", 0.001),
			"\n", "\n\n", 1)
		_, err := ParseRateFile(strings.NewReader(content))
		require.NoError(t, err)
	})

	t.Run("empty input", func(t *testing.T) {
		_, err := ParseRateFile(strings.NewReader(""))
		var rferr *RateFileError
		require.ErrorAs(t, err, &rferr)
		assert.Equal(t, 1, rferr.Line)
	})

	t.Run("malformed branch length", func(t *testing.T) {
		_, err := ParseRateFile(strings.NewReader("not-a-number\nAAA,AAC,0.1\n"))
		var rferr *RateFileError
		require.ErrorAs(t, err, &rferr)
		assert.Equal(t, 1, rferr.Line)
	})

	t.Run("nonpositive branch length", func(t *testing.T) {
		_, err := ParseRateFile(strings.NewReader(uniformRateFile("0", 0.001)))
		require.Error(t, err)

		_, err = ParseRateFile(strings.NewReader(uniformRateFile("-0.01", 0.001)))
		require.Error(t, err)
	})

	t.Run("bad codon", func(t *testing.T) {
		_, err := ParseRateFile(strings.NewReader("0.0133\nAXA,AAC,0.1\n"))
		var rferr *RateFileError
		require.ErrorAs(t, err, &rferr)
		assert.Equal(t, 2, rferr.Line)
	})

	t.Run("malformed rate", func(t *testing.T) {
		_, err := ParseRateFile(strings.NewReader("0.0133\nAAA,AAC,abc\n"))
		var rferr *RateFileError
		require.ErrorAs(t, err, &rferr)
		assert.Equal(t, 2, rferr.Line)
	})

	t.Run("wrong field count", func(t *testing.T) {
		_, err := ParseRateFile(strings.NewReader("0.0133\nAAA,AAC\n"))
		var rferr *RateFileError
		require.ErrorAs(t, err, &rferr)
	})

	t.Run("wrong row count", func(t *testing.T) {
		_, err := ParseRateFile(strings.NewReader("0.0133\nAAA,AAC,0.1\nAAA,AAG,0.1\n"))
		var rferr *RateFileError
		require.ErrorAs(t, err, &rferr)
		assert.Contains(t, rferr.Reason, "4096")
	})
}
