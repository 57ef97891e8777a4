package report

import (
	"log"
	"strconv"
	"strings"

	"CryptoAllocator/internal/calculator"
	"CryptoAllocator/internal/model"
	"CryptoAllocator/internal/strategy"
)

// Position is the serialized form of one allocated position.
// Keys match the document consumed by the web front end.
type Position struct {
	Image       string    `json:"image"`
	Name        string    `json:"nombre"`
	Symbol      string    `json:"symbol"`
	Price       float64   `json:"precio_actual"`
	Units       float64   `json:"unidades"`
	ValueUSD    float64   `json:"valor_usd"`
	Score       float64   `json:"score"`
	Reason      string    `json:"reason"`
	Term        string    `json:"plazo"`
	Probability string    `json:"probabilidad_subida"`
	Projection  []float64 `json:"proyeccion"`
}

// NewPlan aggregates per-candidate outcomes into a plan. Skipped candidates are logged and kept
// aside; the positions keep their rank order.
func NewPlan(eval *strategy.Evaluation) *model.AllocationPlan {
	plan := &model.AllocationPlan{
		Capital:   eval.Capital,
		Risk:      eval.Risk,
		Term:      eval.Term,
		TableName: eval.Table,
		Positions: []model.AllocatedPosition{},
	}
	for _, o := range eval.Outcomes {
		switch {
		case o.Position != nil:
			plan.Positions = append(plan.Positions, *o.Position)
		case o.Skip != nil:
			log.Printf("[WARN] skipping %s: %s", o.Skip.Symbol, o.Skip.Reason)
			plan.Skipped = append(plan.Skipped, *o.Skip)
		}
	}
	return plan
}

// Positions converts a plan into its serialized rows. An empty plan yields an empty, non-nil slice.
func Positions(plan *model.AllocationPlan) []Position {
	rows := make([]Position, 0, len(plan.Positions))
	for _, p := range plan.Positions {
		rows = append(rows, Position{
			Image:       p.Asset.Image,
			Name:        p.Asset.Name,
			Symbol:      strings.ToUpper(p.Asset.Symbol),
			Price:       calculator.Round(p.Asset.CurrentPrice, 4),
			Units:       calculator.Round(p.Units, 6),
			ValueUSD:    calculator.Round(p.AmountInvested, 2),
			Score:       calculator.Round(p.Asset.Score, 3),
			Reason:      p.Asset.Reason,
			Term:        string(plan.Term.Label),
			Probability: Probability(p.Asset.Score),
			Projection:  p.Projection,
		})
	}
	return rows
}

// Probability formats a score as a percentage with one decimal, e.g. 0.8 -> "80.0%".
func Probability(score float64) string {
	s := strconv.FormatFloat(calculator.Round(score*100, 1), 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s + "%"
}
