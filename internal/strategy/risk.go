package strategy

import (
	"fmt"
	"sort"
	"strings"

	"CryptoAllocator/internal/model"
)

// StandardTable holds the bounds and clamps of the portfolio recommender.
// Leve relaxes its window for the one-year term.
var StandardTable = model.RiskTable{
	Name: "standard",
	Tiers: map[model.RiskProfile]model.TierPolicy{
		model.RiskLeve: {
			Bounds: model.Bounds{Lower: 0, Upper: 25, MinScore: 0.40},
			Clamp:  0.05,
			TermBounds: map[model.TermLabel]model.Bounds{
				model.Term1a: {Lower: 0, Upper: 35, MinScore: 0.35},
			},
		},
		model.RiskModerado: {
			Bounds: model.Bounds{Lower: -15, Upper: 40, MinScore: 0.30},
			Clamp:  0.15,
		},
		model.RiskVolatil: {
			Bounds: model.Bounds{Lower: -30, Upper: 60, MinScore: 0.20},
			Clamp:  0.40,
		},
	},
}

// UnclampedTable keeps the standard windows but projects the raw percentage change.
var UnclampedTable = model.RiskTable{
	Name: "unclamped",
	Tiers: map[model.RiskProfile]model.TierPolicy{
		model.RiskLeve: {
			Bounds: model.Bounds{Lower: 0, Upper: 25, MinScore: 0.40},
			TermBounds: map[model.TermLabel]model.Bounds{
				model.Term1a: {Lower: 0, Upper: 35, MinScore: 0.35},
			},
		},
		model.RiskModerado: {Bounds: model.Bounds{Lower: -15, Upper: 40, MinScore: 0.30}},
		model.RiskVolatil:  {Bounds: model.Bounds{Lower: -30, Upper: 60, MinScore: 0.20}},
	},
}

// BuiltinTables returns the tables shipped with the planner, keyed by name.
func BuiltinTables() map[string]model.RiskTable {
	return map[string]model.RiskTable{
		StandardTable.Name:  StandardTable,
		UnclampedTable.Name: UnclampedTable,
	}
}

// TableNames returns the table names in sorted order.
func TableNames(tables map[string]model.RiskTable) []string {
	names := make([]string, 0, len(tables))
	for n := range tables {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// ParseRisk maps a label to a RiskProfile.
func ParseRisk(label string) (model.RiskProfile, error) {
	r := model.RiskProfile(strings.ToLower(strings.TrimSpace(label)))
	for _, known := range model.RiskProfiles {
		if r == known {
			return r, nil
		}
	}
	return "", fmt.Errorf("%w: %q", model.ErrInvalidRiskTier, label)
}

// policy returns the table's policy for a profile.
func policy(table model.RiskTable, risk model.RiskProfile) (model.TierPolicy, error) {
	p, ok := table.Tiers[risk]
	if !ok {
		return model.TierPolicy{}, fmt.Errorf("%w: %q not defined in table %q", model.ErrInvalidRiskTier, risk, table.Name)
	}
	return p, nil
}

// FilterByRisk keeps the candidates admitted by the profile's window for the given term.
// Input order is preserved; an empty result is not an error.
func FilterByRisk(cands []model.CandidateAsset, table model.RiskTable, risk model.RiskProfile, term model.TermLabel) ([]model.CandidateAsset, error) {
	p, err := policy(table, risk)
	if err != nil {
		return nil, err
	}
	b := p.BoundsFor(term)
	out := make([]model.CandidateAsset, 0, len(cands))
	for _, c := range cands {
		if b.Admits(c) {
			out = append(out, c)
		}
	}
	return out, nil
}
