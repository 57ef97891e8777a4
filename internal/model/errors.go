package model

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidRiskTier = errors.New("invalid risk tier: use leve, moderado or volatil")
	ErrInvalidTerm     = errors.New("invalid term: use 24h, 30d or 1a")
	ErrInvalidTopN     = errors.New("top_n must be at least 1")
	ErrInvalidCapital  = errors.New("capital must be a finite number")
)

// MissingFieldError reports required columns absent from the input schema.
type MissingFieldError struct {
	Fields []string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field(s): %s", strings.Join(e.Fields, ", "))
}

// InsufficientCapitalError reports a capital below the allocation floor.
type InsufficientCapitalError struct {
	Capital float64
	Minimum float64
}

func (e *InsufficientCapitalError) Error() string {
	return fmt.Sprintf("capital %.2f is below the minimum of %.2f", e.Capital, e.Minimum)
}

// IsValidation reports whether err is an input validation failure that aborts a run.
func IsValidation(err error) bool {
	var mf *MissingFieldError
	var ic *InsufficientCapitalError
	return errors.Is(err, ErrInvalidRiskTier) ||
		errors.Is(err, ErrInvalidTerm) ||
		errors.Is(err, ErrInvalidTopN) ||
		errors.Is(err, ErrInvalidCapital) ||
		errors.As(err, &mf) ||
		errors.As(err, &ic)
}
