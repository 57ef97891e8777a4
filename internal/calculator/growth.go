package calculator

import (
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"CryptoAllocator/internal/model"
)

// BasisDays is the window every percentage change is assumed to cover, whatever the term.
const BasisDays = 30

// ErrNonFinite is returned when a rate or projection sample is NaN or infinite.
var ErrNonFinite = errors.New("non-finite projection")

// ClampPct bounds pct to [-limit, +limit]. A non-positive limit leaves pct unchanged.
func ClampPct(pct, limit float64) float64 {
	if limit <= 0 {
		return pct
	}
	return math.Max(math.Min(pct, limit), -limit)
}

// DailyRate converts a BasisDays percentage change (as a fraction) into a per-day compounding rate.
func DailyRate(pct float64) (float64, error) {
	r := math.Pow(1+pct, 1.0/BasisDays) - 1
	if !isFinite(r) {
		return 0, fmt.Errorf("%w: daily rate for pct %.4f", ErrNonFinite, pct)
	}
	return r, nil
}

// GrowthFactors returns points+1 compounding factors sampled at the given granularity.
// The first factor is always exactly 1.
func GrowthFactors(dailyRate float64, points int, g model.Granularity) ([]float64, error) {
	if points < 0 {
		return nil, errors.New("points must be non-negative")
	}
	base := 1 + dailyRate

	var exponent func(i int) float64
	switch g {
	case model.Hours:
		exponent = func(i int) float64 { return float64(i) / 24 }
	case model.Days:
		exponent = func(i int) float64 { return float64(i) }
	case model.Months:
		exponent = func(i int) float64 { return float64(BasisDays * i) }
	default:
		return nil, fmt.Errorf("unknown granularity %q", g)
	}

	factors := make([]float64, points+1)
	for i := range factors {
		f := math.Pow(base, exponent(i))
		if !isFinite(f) {
			return nil, fmt.Errorf("%w: factor at step %d", ErrNonFinite, i)
		}
		factors[i] = f
	}
	return factors, nil
}

// Project derives the compounding rate from a percentage change (e.g. 12.5 for +12.5%),
// applies the clamp and returns the rounded USD value of amount at every horizon step.
func Project(amount, pctChange, clamp float64, term model.Term) ([]float64, error) {
	if !isFinite(amount) || !isFinite(pctChange) {
		return nil, fmt.Errorf("%w: amount %v, change %v", ErrNonFinite, amount, pctChange)
	}
	pct := ClampPct(pctChange/100, clamp)

	rate, err := DailyRate(pct)
	if err != nil {
		return nil, err
	}
	factors, err := GrowthFactors(rate, term.HorizonPoints, term.Granularity)
	if err != nil {
		return nil, err
	}

	out := make([]float64, len(factors))
	for i, f := range factors {
		v := f * amount
		if !isFinite(v) {
			return nil, fmt.Errorf("%w: value at step %d", ErrNonFinite, i)
		}
		out[i] = Round(v, 2)
	}
	return out, nil
}

// Round rounds the exact binary value of v to places decimals, ties to even.
// Non-finite values are returned unchanged.
func Round(v float64, places int32) float64 {
	if !isFinite(v) {
		return v
	}
	return decimal.NewFromFloatWithExponent(v, exactExponent).RoundBank(places).InexactFloat64()
}

// exactExponent keeps enough digits that the binary value decides every tie.
const exactExponent = -40

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
