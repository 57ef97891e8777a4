package model

// RiskProfile is the requested risk tolerance.
type RiskProfile string

const (
	RiskLeve     RiskProfile = "leve"
	RiskModerado RiskProfile = "moderado"
	RiskVolatil  RiskProfile = "volatil"
)

// RiskProfiles lists the supported profiles, most conservative first.
var RiskProfiles = []RiskProfile{RiskLeve, RiskModerado, RiskVolatil}

// TermLabel is the requested projection window.
type TermLabel string

const (
	Term24h TermLabel = "24h"
	Term30d TermLabel = "30d"
	Term1a  TermLabel = "1a"
)

// TermLabels lists the supported terms, shortest first.
var TermLabels = []TermLabel{Term24h, Term30d, Term1a}

// Granularity is the time step between two projection samples.
type Granularity string

const (
	Hours  Granularity = "hours"
	Days   Granularity = "days"
	Months Granularity = "months"
)

// Term is a resolved horizon.
type Term struct {
	Label         TermLabel
	Column        ReturnColumn
	HorizonPoints int
	Granularity   Granularity
}

// AllocatedPosition is one funded candidate.
type AllocatedPosition struct {
	Asset          CandidateAsset
	Weight         float64
	AmountInvested float64
	Units          float64
	Projection     []float64
}

// Skip records a candidate that was selected but dropped from the plan.
type Skip struct {
	Symbol string
	Reason string
}

// AllocationPlan is the result of one planning run. It is never mutated once built.
type AllocationPlan struct {
	Capital   float64
	Risk      RiskProfile
	Term      Term
	TableName string
	Positions []AllocatedPosition
	Skipped   []Skip
}

// TotalInvested sums the invested amount over all positions.
func (p *AllocationPlan) TotalInvested() float64 {
	sum := 0.0
	for _, pos := range p.Positions {
		sum += pos.AmountInvested
	}
	return sum
}

// ProjectedValue sums the last projection sample over all positions.
func (p *AllocationPlan) ProjectedValue() float64 {
	sum := 0.0
	for _, pos := range p.Positions {
		if n := len(pos.Projection); n > 0 {
			sum += pos.Projection[n-1]
		}
	}
	return sum
}
