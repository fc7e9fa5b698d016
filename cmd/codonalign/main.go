// Command codonalign provides a CLI for statistical pairwise alignment.
//
// Usage:
//
//	codonalign [command] [options]
//
// Commands:
//
//	align       Align a pair of sequences
//	sample      Sample alignments from the pair distribution
//	version     Show version information
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/aria-lang/codonalign-go/internal/fastaio"
	"github.com/aria-lang/codonalign-go/pkg/codonalign"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "align":
		alignCmd(os.Args[2:])
	case "sample":
		sampleCmd(os.Args[2:])
	case "version":
		fmt.Println(codonalign.Info())
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`CodonAlign - Statistical Pairwise Alignment Tool

Usage:
  codonalign <command> [options] <input>

Commands:
  align     Align a pair of sequences
  sample    Sample alignments from the pair distribution
  version   Show version information
  help      Show this help message

Use "codonalign <command> -h" for more information about a command.`)
}

// modelFlags registers the flags shared by align and sample.
type modelFlags struct {
	branch    *float64
	omega     *float64
	pi        *string
	sigma     *string
	gapOpen   *float64
	gapExtend *float64
	gapLen    *int
	amb       *string
	reference *string
	reverse   *bool
	rateFile  *string
	lowMem    *bool
	maxCells  *int
	output    *string
}

func newModelFlags(fs *flag.FlagSet) *modelFlags {
	def := codonalign.DefaultConfig()
	return &modelFlags{
		branch:    fs.Float64("time", def.BranchLength, "Evolutionary time (branch length)"),
		omega:     fs.Float64("omega", def.Omega, "Nonsynonymous-synonymous rate ratio"),
		pi:        fs.String("pi", "", "Nucleotide frequencies A,C,G,T (comma-separated)"),
		sigma:     fs.String("sigma", "", "GTR exchangeabilities AC,AG,AT,CG,CT,GT (comma-separated)"),
		gapOpen:   fs.Float64("gap-open", def.GapOpen, "Gap opening probability"),
		gapExtend: fs.Float64("gap-extend", def.GapExtend, "Gap extension probability"),
		gapLen:    fs.Int("gap-len", def.GapUnit, "Gap length unit (3 keeps reading frame)"),
		amb:       fs.String("amb", "avg", "Ambiguous base handling: avg or best"),
		reference: fs.String("ref", "", "Name of the reference (ancestor) sequence"),
		reverse:   fs.Bool("rev", false, "Use the second sequence as the ancestor"),
		rateFile:  fs.String("rate", "", "File with a user-provided substitution rate matrix"),
		lowMem:    fs.Bool("low-mem", false, "Recompute traceback states to reduce memory"),
		maxCells:  fs.Int("max-cells", 0, "Maximum trellis cells per matrix (0 = default)"),
		output:    fs.String("output", "", "Output file (.fasta, .phy or .json; default stdout FASTA)"),
	}
}

func (mf *modelFlags) config() (codonalign.Config, error) {
	cfg := codonalign.DefaultConfig()
	cfg.BranchLength = *mf.branch
	cfg.Omega = *mf.omega
	cfg.GapOpen = *mf.gapOpen
	cfg.GapExtend = *mf.gapExtend
	cfg.GapUnit = *mf.gapLen
	cfg.Reference = *mf.reference
	cfg.Reverse = *mf.reverse
	cfg.RateFile = *mf.rateFile
	if *mf.lowMem {
		cfg.Variant = codonalign.LowMemory
	}
	cfg.MaxCells = *mf.maxCells

	if *mf.pi != "" {
		vals, err := parseFloats(*mf.pi, 4)
		if err != nil {
			return cfg, fmt.Errorf("-pi: %w", err)
		}
		copy(cfg.Pi[:], vals)
	}
	if *mf.sigma != "" {
		vals, err := parseFloats(*mf.sigma, 6)
		if err != nil {
			return cfg, fmt.Errorf("-sigma: %w", err)
		}
		copy(cfg.Sigma[:], vals)
	}
	switch *mf.amb {
	case "avg", "AVG":
		cfg.Ambiguity = codonalign.Average
	case "best", "BEST":
		cfg.Ambiguity = codonalign.Best
	default:
		return cfg, fmt.Errorf("-amb: unknown policy %q", *mf.amb)
	}
	return cfg, nil
}

func parseFloats(s string, n int) ([]float64, error) {
	parts := strings.Split(s, ",")
	if len(parts) != n {
		return nil, fmt.Errorf("expected %d comma-separated values, got %d", n, len(parts))
	}
	out := make([]float64, n)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("value %q: %w", p, err)
		}
		out[i] = v
	}
	return out, nil
}

// readRecords loads the input pair, choosing the parser by extension.
// "-" reads FASTA from standard input.
func readRecords(path string) ([]codonalign.Named, error) {
	if path == "-" {
		return fastaio.ReadFasta(os.Stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".json") {
		return fastaio.ReadJSON(f)
	}
	return fastaio.ReadFasta(f)
}

// writeRecords writes the alignment, choosing the writer by the output
// path extension. An empty path writes FASTA to standard output.
func writeRecords(path string, recs []codonalign.Named) error {
	if path == "" {
		return fastaio.WriteFasta(os.Stdout, recs)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".phy", ".phylip":
		return fastaio.WritePhylip(f, recs)
	case ".json":
		return fastaio.WriteJSON(f, recs)
	default:
		return fastaio.WriteFasta(f, recs)
	}
}

func alignCmd(args []string) {
	fs := flag.NewFlagSet("align", flag.ExitOnError)
	mf := newModelFlags(fs)
	scoreOnly := fs.Bool("score", false, "Score the input alignment instead of aligning")
	weightFile := fs.String("weight", "", "Append the alignment weight to this file")
	fs.Parse(args)

	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: exactly one input file is required")
		fs.Usage()
		os.Exit(1)
	}
	input := fs.Arg(0)

	cfg, err := mf.config()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	recs, err := readRecords(input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading input: %v\n", err)
		os.Exit(1)
	}

	if *scoreOnly {
		weight, err := codonalign.Score(recs, cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error scoring alignment: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("%g\n", weight)
		return
	}

	if *weightFile != "" {
		cfg.WeightLog = &fastaio.FileWeightLog{Path: *weightFile}
		cfg.Source = input
	}

	res, err := codonalign.Align(recs, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error aligning sequences: %v\n", err)
		os.Exit(1)
	}

	if err := writeRecords(*mf.output, res.Records()); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing output: %v\n", err)
		os.Exit(1)
	}
}

// sampledAlignment is the JSON shape of one drawn alignment.
type sampledAlignment struct {
	Aln       map[string]string `json:"aln"`
	Weight    float64           `json:"weight"`
	LogWeight float64           `json:"log_weight"`
}

func sampleCmd(args []string) {
	fs := flag.NewFlagSet("sample", flag.ExitOnError)
	mf := newModelFlags(fs)
	n := fs.Int("n", 1, "Number of alignments to sample")
	seed := fs.Int64("seed", 0, "Random seed")
	fs.Parse(args)

	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: exactly one input file is required")
		fs.Usage()
		os.Exit(1)
	}
	input := fs.Arg(0)

	cfg, err := mf.config()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	recs, err := readRecords(input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading input: %v\n", err)
		os.Exit(1)
	}

	rng := rand.New(rand.NewSource(*seed))
	results, err := codonalign.Sample(recs, *n, rng, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error sampling alignments: %v\n", err)
		os.Exit(1)
	}

	out := make([]sampledAlignment, 0, len(results))
	for _, res := range results {
		out = append(out, sampledAlignment{
			Aln: map[string]string{
				res.Names[0]: res.Ancestor,
				res.Names[1]: res.Descendant,
			},
			Weight:    math.Exp(res.Weight),
			LogWeight: res.Weight,
		})
	}

	dst := os.Stdout
	if *mf.output != "" {
		f, err := os.Create(*mf.output)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error writing output: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		dst = f
	}
	enc := json.NewEncoder(dst)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing output: %v\n", err)
		os.Exit(1)
	}
}
