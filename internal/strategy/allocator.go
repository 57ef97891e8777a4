package strategy

import (
	"fmt"
	"math"
	"sort"

	"CryptoAllocator/internal/model"
)

const (
	// DefaultMinCapital is the smallest capital accepted for an allocation.
	DefaultMinCapital = 10.0
	// DefaultTopN is the number of candidates funded when none is requested.
	DefaultTopN = 5
)

// Allocation is a selected candidate with its share of the capital.
type Allocation struct {
	Asset  model.CandidateAsset
	Weight float64
	Amount float64
	Units  float64
}

// CheckCapital fails with ErrInvalidCapital for NaN or infinite capital and with
// InsufficientCapitalError when capital is below minimum.
func CheckCapital(capital, minimum float64) error {
	if math.IsNaN(capital) || math.IsInf(capital, 0) {
		return fmt.Errorf("%w: got %v", model.ErrInvalidCapital, capital)
	}
	if capital < minimum {
		return &model.InsufficientCapitalError{Capital: capital, Minimum: minimum}
	}
	return nil
}

// SelectTop returns the topN highest-scoring candidates. Ties keep their input order.
func SelectTop(cands []model.CandidateAsset, topN int) []model.CandidateAsset {
	ranked := make([]model.CandidateAsset, len(cands))
	copy(ranked, cands)
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Score > ranked[j].Score })
	if len(ranked) > topN {
		ranked = ranked[:topN]
	}
	return ranked
}

// Allocate ranks the candidates, keeps the topN and splits capital proportionally to score.
// When the selected scores sum to zero every weight and amount is zero.
func Allocate(cands []model.CandidateAsset, capital float64, topN int) ([]Allocation, error) {
	if topN < 1 {
		return nil, model.ErrInvalidTopN
	}
	selected := SelectTop(cands, topN)

	total := 0.0
	for _, c := range selected {
		total += c.Score
	}

	out := make([]Allocation, len(selected))
	for i, c := range selected {
		a := Allocation{Asset: c}
		if total > 0 {
			a.Weight = c.Score / total
			a.Amount = a.Weight * capital
		}
		a.Units = a.Amount / c.CurrentPrice
		out[i] = a
	}
	return out, nil
}
