// Package fastaio reads and writes sequence files in FASTA, PHYLIP and
// JSON formats, and appends alignment weights to a log file.
package fastaio

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/aria-lang/codonalign-go/internal/sequence"
)

const lineWidth = 60

// ReadFasta parses FASTA records. Lines starting with ';' are comments;
// sequence text may span multiple lines and is upper-cased.
func ReadFasta(r io.Reader) ([]sequence.Named, error) {
	var (
		recs []sequence.Named
		cur  *strings.Builder
	)
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		switch {
		case line == "" || strings.HasPrefix(line, ";"):
			continue
		case strings.HasPrefix(line, ">"):
			name := strings.Fields(line[1:])
			if len(name) == 0 {
				return nil, fmt.Errorf("fasta: record with empty name")
			}
			recs = append(recs, sequence.Named{Name: name[0]})
			cur = &strings.Builder{}
		default:
			if cur == nil {
				return nil, fmt.Errorf("fasta: sequence data before first header")
			}
			cur.WriteString(sequence.Normalize(line))
			recs[len(recs)-1].Bases = cur.String()
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("fasta: %w", err)
	}
	return recs, nil
}

// WriteFasta writes records wrapped at 60 columns.
func WriteFasta(w io.Writer, recs []sequence.Named) error {
	bw := bufio.NewWriter(w)
	for _, rec := range recs {
		fmt.Fprintf(bw, ">%s\n", rec.Name)
		for i := 0; i < len(rec.Bases); i += lineWidth {
			end := i + lineWidth
			if end > len(rec.Bases) {
				end = len(rec.Bases)
			}
			fmt.Fprintln(bw, rec.Bases[i:end])
		}
	}
	return bw.Flush()
}

// WritePhylip writes records in sequential PHYLIP format: a count/length
// header, ten-character name fields, and 60-column blocks.
func WritePhylip(w io.Writer, recs []sequence.Named) error {
	if len(recs) == 0 {
		return fmt.Errorf("phylip: no sequences")
	}
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%d %d\n", len(recs), len(recs[0].Bases))

	width := lineWidth - 10
	for _, rec := range recs {
		name := rec.Name
		if len(name) > 10 {
			name = name[:10]
		}
		end := width
		if end > len(rec.Bases) {
			end = len(rec.Bases)
		}
		fmt.Fprintf(bw, "%-10s%s\n", name, rec.Bases[:end])
	}
	for off := width; off < len(recs[0].Bases); off += lineWidth {
		fmt.Fprintln(bw)
		for _, rec := range recs {
			end := off + lineWidth
			if end > len(rec.Bases) {
				end = len(rec.Bases)
			}
			fmt.Fprintln(bw, rec.Bases[off:end])
		}
	}
	return bw.Flush()
}

type jsonDoc struct {
	Data jsonData `json:"data"`
}

type jsonData struct {
	Names []string `json:"names"`
	Seqs  []string `json:"seqs"`
}

// WriteJSON writes records as {"data":{"names":[...],"seqs":[...]}}.
func WriteJSON(w io.Writer, recs []sequence.Named) error {
	doc := jsonDoc{}
	for _, rec := range recs {
		doc.Data.Names = append(doc.Data.Names, rec.Name)
		doc.Data.Seqs = append(doc.Data.Seqs, rec.Bases)
	}
	enc := json.NewEncoder(w)
	return enc.Encode(doc)
}

// ReadJSON parses the format produced by WriteJSON.
func ReadJSON(r io.Reader) ([]sequence.Named, error) {
	var doc jsonDoc
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("json: %w", err)
	}
	if len(doc.Data.Names) != len(doc.Data.Seqs) {
		return nil, fmt.Errorf("json: %d names for %d sequences",
			len(doc.Data.Names), len(doc.Data.Seqs))
	}
	recs := make([]sequence.Named, len(doc.Data.Names))
	for i := range recs {
		recs[i] = sequence.Named{
			Name:  doc.Data.Names[i],
			Bases: sequence.Normalize(doc.Data.Seqs[i]),
		}
	}
	return recs, nil
}
