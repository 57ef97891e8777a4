package strategy

import (
	"fmt"
	"math"

	"CryptoAllocator/internal/calculator"
	"CryptoAllocator/internal/model"
)

// Request holds the invocation parameters of one planning run.
type Request struct {
	Capital float64
	Risk    string
	Term    string
	TopN    int
}

// Outcome is the result for one selected candidate: a position or a skip.
type Outcome struct {
	Position *model.AllocatedPosition
	Skip     *model.Skip
}

// Evaluation is the unaggregated output of Engine.Evaluate.
type Evaluation struct {
	Capital  float64
	Risk     model.RiskProfile
	Term     model.Term
	Table    string
	Outcomes []Outcome
}

// Engine runs the filter, allocation and projection stages with one risk table.
type Engine struct {
	Table      model.RiskTable
	MinCapital float64
}

// NewEngine creates an Engine. A non-positive minCapital falls back to DefaultMinCapital.
func NewEngine(table model.RiskTable, minCapital float64) *Engine {
	if minCapital <= 0 {
		minCapital = DefaultMinCapital
	}
	return &Engine{Table: table, MinCapital: minCapital}
}

// Resolve validates the request and returns its resolved profile and term.
// It does no allocation work, so callers can fail fast before reading input.
func (e *Engine) Resolve(req Request) (model.RiskProfile, model.Term, error) {
	if err := CheckCapital(req.Capital, e.MinCapital); err != nil {
		return "", model.Term{}, err
	}
	risk, err := ParseRisk(req.Risk)
	if err != nil {
		return "", model.Term{}, err
	}
	if _, err := policy(e.Table, risk); err != nil {
		return "", model.Term{}, err
	}
	term, err := ResolveTerm(req.Term)
	if err != nil {
		return "", model.Term{}, err
	}
	if req.TopN < 1 {
		return "", model.Term{}, fmt.Errorf("%w: got %d", model.ErrInvalidTopN, req.TopN)
	}
	return risk, term, nil
}

// Evaluate computes the per-candidate outcomes for a validated candidate table.
func (e *Engine) Evaluate(cands []model.CandidateAsset, req Request) (*Evaluation, error) {
	risk, term, err := e.Resolve(req)
	if err != nil {
		return nil, err
	}

	eligible, err := FilterByRisk(cands, e.Table, risk, term.Label)
	if err != nil {
		return nil, err
	}

	allocs, err := Allocate(eligible, req.Capital, req.TopN)
	if err != nil {
		return nil, err
	}

	clamp := e.Table.Tiers[risk].Clamp
	eval := &Evaluation{
		Capital:  req.Capital,
		Risk:     risk,
		Term:     term,
		Table:    e.Table.Name,
		Outcomes: make([]Outcome, 0, len(allocs)),
	}
	for _, a := range allocs {
		eval.Outcomes = append(eval.Outcomes, project(a, term, clamp))
	}
	return eval, nil
}

func project(a Allocation, term model.Term, clamp float64) Outcome {
	skip := func(reason string) Outcome {
		return Outcome{Skip: &model.Skip{Symbol: a.Asset.Symbol, Reason: reason}}
	}
	if a.Asset.CurrentPrice <= 0 {
		return skip(fmt.Sprintf("non-positive price %v", a.Asset.CurrentPrice))
	}
	if math.IsNaN(a.Units) || math.IsInf(a.Units, 0) {
		return skip("non-finite units")
	}

	proj, err := calculator.Project(a.Amount, a.Asset.Return(term.Column), clamp, term)
	if err != nil {
		return skip(err.Error())
	}
	return Outcome{Position: &model.AllocatedPosition{
		Asset:          a.Asset,
		Weight:         a.Weight,
		AmountInvested: a.Amount,
		Units:          a.Units,
		Projection:     proj,
	}}
}
