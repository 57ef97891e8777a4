package planner

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"CryptoAllocator/internal/strategy"
)

// ErrUsage is returned for a malformed argument list.
var ErrUsage = errors.New("usage: <capital> <risk> <term> [top_n]")

// ParseArgs parses positional "<capital> <risk> <term> [top_n]" arguments.
// Risk and term labels are validated later by the engine.
func ParseArgs(args []string, defaultTopN int) (strategy.Request, error) {
	if len(args) != 3 && len(args) != 4 {
		return strategy.Request{}, ErrUsage
	}
	capital, err := strconv.ParseFloat(strings.TrimPrefix(args[0], "$"), 64)
	if err != nil {
		return strategy.Request{}, fmt.Errorf("%w: capital %q is not a number", ErrUsage, args[0])
	}
	req := strategy.Request{
		Capital: capital,
		Risk:    strings.ToLower(args[1]),
		Term:    strings.ToLower(args[2]),
		TopN:    defaultTopN,
	}
	if len(args) == 4 {
		n, err := strconv.Atoi(args[3])
		if err != nil {
			return strategy.Request{}, fmt.Errorf("%w: top_n %q is not an integer", ErrUsage, args[3])
		}
		req.TopN = n
	}
	return req, nil
}
