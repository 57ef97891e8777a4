package model

// Bounds is an eligibility window: Lower < price_change_30d < Upper and score > MinScore.
type Bounds struct {
	Lower    float64 `yaml:"lower"`
	Upper    float64 `yaml:"upper"`
	MinScore float64 `yaml:"min_score"`
}

// Admits reports whether the candidate falls inside the window. All comparisons are strict.
func (b Bounds) Admits(c CandidateAsset) bool {
	return c.PriceChange30d > b.Lower && c.PriceChange30d < b.Upper && c.Score > b.MinScore
}

// TierPolicy is the eligibility and projection policy of one risk profile.
type TierPolicy struct {
	Bounds `yaml:",inline"`
	// Clamp bounds the projected percentage to ±Clamp (a fraction, 0.05 = 5%). Zero disables it.
	Clamp float64 `yaml:"clamp"`
	// TermBounds replaces Bounds for specific terms.
	TermBounds map[TermLabel]Bounds `yaml:"term_bounds,omitempty"`
}

// BoundsFor returns the window used for the given term.
func (p TierPolicy) BoundsFor(term TermLabel) Bounds {
	if b, ok := p.TermBounds[term]; ok {
		return b
	}
	return p.Bounds
}

// RiskTable is a named set of tier policies.
type RiskTable struct {
	Name  string                     `yaml:"name"`
	Tiers map[RiskProfile]TierPolicy `yaml:"tiers"`
}
