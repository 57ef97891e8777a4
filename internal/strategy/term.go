package strategy

import (
	"fmt"
	"strings"

	"CryptoAllocator/internal/model"
)

// Terms defines the horizon of every supported term.
var Terms = map[model.TermLabel]model.Term{
	model.Term24h: {Label: model.Term24h, Column: model.Column24h, HorizonPoints: 24, Granularity: model.Hours},
	model.Term30d: {Label: model.Term30d, Column: model.Column30d, HorizonPoints: 30, Granularity: model.Days},
	model.Term1a:  {Label: model.Term1a, Column: model.Column30d, HorizonPoints: 12, Granularity: model.Months},
}

// ResolveTerm maps a label to its return column, point count and granularity.
func ResolveTerm(label string) (model.Term, error) {
	t, ok := Terms[model.TermLabel(strings.ToLower(strings.TrimSpace(label)))]
	if !ok {
		return model.Term{}, fmt.Errorf("%w: %q", model.ErrInvalidTerm, label)
	}
	return t, nil
}
