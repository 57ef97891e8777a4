package model

// Required record fields. A record stream missing any of these from its schema is rejected.
const (
	FieldName           = "name"
	FieldSymbol         = "symbol"
	FieldImage          = "image"
	FieldCurrentPrice   = "current_price"
	FieldPriceChange24h = "price_change_24h"
	FieldPriceChange30d = "price_change_30d"
	FieldScore          = "score"
	FieldReason         = "reason"
)

// RequiredFields lists the columns every candidate record set must carry.
var RequiredFields = []string{
	FieldName,
	FieldSymbol,
	FieldCurrentPrice,
	FieldPriceChange24h,
	FieldPriceChange30d,
	FieldScore,
}

// CandidateAsset is one classifier-scored asset.
type CandidateAsset struct {
	Symbol         string
	Name           string
	Image          string
	CurrentPrice   float64
	PriceChange24h float64 // percent
	PriceChange30d float64 // percent
	Score          float64 // confidence in (0,1]
	Reason         string
}

// ReturnColumn selects which percentage change a term projects from.
type ReturnColumn string

const (
	Column24h ReturnColumn = FieldPriceChange24h
	Column30d ReturnColumn = FieldPriceChange30d
)

// Return returns the asset's percentage change for the given column.
func (c CandidateAsset) Return(col ReturnColumn) float64 {
	if col == Column24h {
		return c.PriceChange24h
	}
	return c.PriceChange30d
}
