package fastaio

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aria-lang/codonalign-go/internal/sequence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadFasta(t *testing.T) {
	t.Run("two records", func(t *testing.T) {
		input := `; a comment
>anc some description
CTCTGG
ATAGTG
>des
ctatagtg
`
		recs, err := ReadFasta(strings.NewReader(input))
		require.NoError(t, err)
		require.Len(t, recs, 2)
		assert.Equal(t, sequence.Named{Name: "anc", Bases: "CTCTGGATAGTG"}, recs[0])
		assert.Equal(t, sequence.Named{Name: "des", Bases: "CTATAGTG"}, recs[1])
	})

	t.Run("data before header", func(t *testing.T) {
		_, err := ReadFasta(strings.NewReader("ACGT\n>anc\nACGT\n"))
		require.Error(t, err)
	})

	t.Run("empty name", func(t *testing.T) {
		_, err := ReadFasta(strings.NewReader(">\nACGT\n"))
		require.Error(t, err)
	})

	t.Run("empty input", func(t *testing.T) {
		recs, err := ReadFasta(strings.NewReader(""))
		require.NoError(t, err)
		assert.Empty(t, recs)
	})
}

func TestWriteFasta(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		recs := []sequence.Named{
			{Name: "anc", Bases: strings.Repeat("ACGT", 40)},
			{Name: "des", Bases: "CTATAGTG"},
		}
		var buf bytes.Buffer
		require.NoError(t, WriteFasta(&buf, recs))

		got, err := ReadFasta(&buf)
		require.NoError(t, err)
		assert.Equal(t, recs, got)
	})

	t.Run("wraps at sixty columns", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteFasta(&buf, []sequence.Named{
			{Name: "anc", Bases: strings.Repeat("A", 61)},
		}))
		lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
		require.Len(t, lines, 3)
		assert.Equal(t, ">anc", lines[0])
		assert.Len(t, lines[1], 60)
		assert.Len(t, lines[2], 1)
	})
}

func TestWritePhylip(t *testing.T) {
	t.Run("header and name fields", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WritePhylip(&buf, []sequence.Named{
			{Name: "anc", Bases: "CTCTGGATAGTG"},
			{Name: "descendant-with-long-name", Bases: "CT----ATAGTG"},
		}))
		lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
		require.Len(t, lines, 3)
		assert.Equal(t, "2 12", lines[0])
		assert.Equal(t, "anc       CTCTGGATAGTG", lines[1])
		assert.Equal(t, "descendantCT----ATAGTG", lines[2])
	})

	t.Run("long sequences continue in blocks", func(t *testing.T) {
		var buf bytes.Buffer
		bases := strings.Repeat("ACGT", 30) // 120 bases
		require.NoError(t, WritePhylip(&buf, []sequence.Named{
			{Name: "a", Bases: bases},
			{Name: "b", Bases: bases},
		}))
		out := buf.String()
		assert.True(t, strings.HasPrefix(out, "2 120\n"))
		// 50 bases fit the first block after the name field, the
		// remaining 70 follow in 60-column continuation lines.
		assert.Contains(t, out, "\n\n"+bases[50:110]+"\n")
	})

	t.Run("no sequences", func(t *testing.T) {
		require.Error(t, WritePhylip(&bytes.Buffer{}, nil))
	})
}

func TestJSON(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		recs := []sequence.Named{
			{Name: "anc", Bases: "CTCTGGATAGTG"},
			{Name: "des", Bases: "CT----ATAGTG"},
		}
		var buf bytes.Buffer
		require.NoError(t, WriteJSON(&buf, recs))
		assert.Contains(t, buf.String(), `"data"`)

		got, err := ReadJSON(&buf)
		require.NoError(t, err)
		assert.Equal(t, recs, got)
	})

	t.Run("mismatched names and seqs", func(t *testing.T) {
		_, err := ReadJSON(strings.NewReader(`{"data":{"names":["a"],"seqs":[]}}`))
		require.Error(t, err)
	})

	t.Run("malformed document", func(t *testing.T) {
		_, err := ReadJSON(strings.NewReader(`{"data":`))
		require.Error(t, err)
	})
}

func TestWeightLog(t *testing.T) {
	t.Run("writer log format", func(t *testing.T) {
		var buf bytes.Buffer
		l := &WriterWeightLog{W: &buf}
		require.NoError(t, l.Append("input.fasta", "marginal", 1.51294))
		require.NoError(t, l.Append("other.fasta", "marginal", -0.835939))
		assert.Equal(t, "input.fasta,marginal,1.51294\nother.fasta,marginal,-0.835939\n",
			buf.String())
	})

	t.Run("file log appends", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "weights.csv")
		l := &FileWeightLog{Path: path}
		require.NoError(t, l.Append("a.fasta", "marginal", 1))
		require.NoError(t, l.Append("b.fasta", "marginal", 2))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "a.fasta,marginal,1\nb.fasta,marginal,2\n", string(data))
	})
}
