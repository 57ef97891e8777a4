package loader

import (
	"fmt"
	"log"
	"math"
	"strings"

	"CryptoAllocator/internal/model"
)

// MaxPriceChange30d drops records at or above this 30-day change. Such values come from corrupted
// upstream data and would explode the compounding projection.
const MaxPriceChange30d = 300.0

// Loader reads a Source once and turns it into a validated candidate table.
type Loader struct {
	Source Source
}

// NewLoader creates a new Loader.
func NewLoader(src Source) *Loader {
	return &Loader{Source: src}
}

// Load reads the source and validates it.
func (l *Loader) Load() ([]model.CandidateAsset, error) {
	rs, err := l.Source.Load()
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", l.Source.Name(), err)
	}
	return Validate(rs)
}

// Validate checks the schema and drops records that fail the sanity filters.
// Input order is preserved. An empty input with no known columns yields an empty table.
func Validate(rs *RecordSet) ([]model.CandidateAsset, error) {
	if len(rs.Rows) == 0 && len(rs.Fields) == 0 {
		return []model.CandidateAsset{}, nil
	}

	var missing []string
	for _, f := range model.RequiredFields {
		if !rs.Fields[f] {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		return nil, &model.MissingFieldError{Fields: missing}
	}

	out := make([]model.CandidateAsset, 0, len(rs.Rows))
	dropped := 0
	for i, rec := range rs.Rows {
		c, reason := toCandidate(rec)
		if reason != "" {
			dropped++
			log.Printf("[WARN] dropping record %d (%s): %s", i, c.Symbol, reason)
			continue
		}
		out = append(out, c)
	}
	if dropped > 0 {
		log.Printf("[INFO] loaded %d candidates, dropped %d", len(out), dropped)
	}
	return out, nil
}

func toCandidate(rec Record) (model.CandidateAsset, string) {
	c := model.CandidateAsset{
		Symbol: toString(rec[model.FieldSymbol]),
		Name:   toString(rec[model.FieldName]),
		Image:  toString(rec[model.FieldImage]),
		Reason: toString(rec[model.FieldReason]),
	}

	var ok bool
	if c.CurrentPrice, ok = toFloat(rec[model.FieldCurrentPrice]); !ok {
		return c, "current_price is not a number"
	}
	if c.PriceChange24h, ok = toFloat(rec[model.FieldPriceChange24h]); !ok {
		return c, "price_change_24h is not a number"
	}
	if c.PriceChange30d, ok = toFloat(rec[model.FieldPriceChange30d]); !ok {
		return c, "price_change_30d is not a number"
	}
	if c.Score, ok = toFloat(rec[model.FieldScore]); !ok {
		return c, "score is not a number"
	}

	switch {
	case c.PriceChange30d >= MaxPriceChange30d:
		return c, fmt.Sprintf("price_change_30d %.2f >= %.0f", c.PriceChange30d, MaxPriceChange30d)
	case c.CurrentPrice <= 0:
		return c, "current_price <= 0"
	case c.Score <= 0:
		return c, "score <= 0"
	}
	return c, ""
}

func toFloat(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func toString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(s)
	default:
		return fmt.Sprint(s)
	}
}
