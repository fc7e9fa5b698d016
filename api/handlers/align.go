package handlers

import (
	"encoding/json"
	"math/rand"
	"net/http"

	"github.com/aria-lang/codonalign-go/pkg/codonalign"
)

// PairRequest carries a named pair of sequences plus optional model
// parameters. Zero-valued parameters fall back to the defaults.
type PairRequest struct {
	Name1 string `json:"name1"`
	Seq1  string `json:"seq1"`
	Name2 string `json:"name2"`
	Seq2  string `json:"seq2"`

	BranchLength float64 `json:"branch_length,omitempty"`
	Omega        float64 `json:"omega,omitempty"`
	GapOpen      float64 `json:"gap_open,omitempty"`
	GapExtend    float64 `json:"gap_extend,omitempty"`
	GapUnit      int     `json:"gap_unit,omitempty"`
	Ambiguity    string  `json:"ambiguity,omitempty"` // "avg" or "best"
	Reference    string  `json:"reference,omitempty"`
	Reverse      bool    `json:"reverse,omitempty"`
}

// AlignResponse represents the response for a pairwise alignment.
type AlignResponse struct {
	Name1    string  `json:"name1"`
	Aligned1 string  `json:"aligned1"`
	Name2    string  `json:"name2"`
	Aligned2 string  `json:"aligned2"`
	Weight   float64 `json:"weight"`
}

func (req *PairRequest) config() (codonalign.Config, bool) {
	cfg := codonalign.DefaultConfig()
	if req.BranchLength != 0 {
		cfg.BranchLength = req.BranchLength
	}
	if req.Omega != 0 {
		cfg.Omega = req.Omega
	}
	if req.GapOpen != 0 {
		cfg.GapOpen = req.GapOpen
	}
	if req.GapExtend != 0 {
		cfg.GapExtend = req.GapExtend
	}
	if req.GapUnit != 0 {
		cfg.GapUnit = req.GapUnit
	}
	switch req.Ambiguity {
	case "", "avg":
		cfg.Ambiguity = codonalign.Average
	case "best":
		cfg.Ambiguity = codonalign.Best
	default:
		return cfg, false
	}
	cfg.Reference = req.Reference
	cfg.Reverse = req.Reverse
	return cfg, true
}

func (req *PairRequest) records() []codonalign.Named {
	return []codonalign.Named{
		{Name: req.Name1, Bases: req.Seq1},
		{Name: req.Name2, Bases: req.Seq2},
	}
}

// PairAlignHandler handles pairwise alignment requests.
func PairAlignHandler(w http.ResponseWriter, r *http.Request) {
	var req PairRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error": "invalid request body"}`, http.StatusBadRequest)
		return
	}

	cfg, ok := req.config()
	if !ok {
		http.Error(w, `{"error": "ambiguity must be avg or best"}`, http.StatusBadRequest)
		return
	}

	res, err := codonalign.Align(req.records(), cfg)
	if err != nil {
		http.Error(w, `{"error": "`+err.Error()+`"}`, http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(AlignResponse{
		Name1:    res.Names[0],
		Aligned1: res.Ancestor,
		Name2:    res.Names[1],
		Aligned2: res.Descendant,
		Weight:   res.Weight,
	})
}

// WeightResponse represents the response for an alignment weight.
type WeightResponse struct {
	Weight float64 `json:"weight"`
}

// PairScoreHandler re-scores an already aligned pair. The two
// sequences must be gapped and of equal length.
func PairScoreHandler(w http.ResponseWriter, r *http.Request) {
	var req PairRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error": "invalid request body"}`, http.StatusBadRequest)
		return
	}

	cfg, ok := req.config()
	if !ok {
		http.Error(w, `{"error": "ambiguity must be avg or best"}`, http.StatusBadRequest)
		return
	}

	weight, err := codonalign.Score(req.records(), cfg)
	if err != nil {
		http.Error(w, `{"error": "`+err.Error()+`"}`, http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(WeightResponse{Weight: weight})
}

// SampleRequest extends PairRequest with the sample count and seed.
type SampleRequest struct {
	PairRequest
	N    int   `json:"n"`
	Seed int64 `json:"seed,omitempty"`
}

// SampleResponse represents one sampled alignment.
type SampleResponse struct {
	Aligned1 string  `json:"aligned1"`
	Aligned2 string  `json:"aligned2"`
	Weight   float64 `json:"weight"`
}

// PairSampleHandler draws alignments from the trellis distribution.
func PairSampleHandler(w http.ResponseWriter, r *http.Request) {
	var req SampleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error": "invalid request body"}`, http.StatusBadRequest)
		return
	}
	if req.N < 1 {
		req.N = 1
	}

	cfg, ok := req.config()
	if !ok {
		http.Error(w, `{"error": "ambiguity must be avg or best"}`, http.StatusBadRequest)
		return
	}

	rng := rand.New(rand.NewSource(req.Seed))
	results, err := codonalign.Sample(req.records(), req.N, rng, cfg)
	if err != nil {
		http.Error(w, `{"error": "`+err.Error()+`"}`, http.StatusBadRequest)
		return
	}

	out := make([]SampleResponse, 0, len(results))
	for _, res := range results {
		out = append(out, SampleResponse{
			Aligned1: res.Ancestor,
			Aligned2: res.Descendant,
			Weight:   res.Weight,
		})
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(out)
}
