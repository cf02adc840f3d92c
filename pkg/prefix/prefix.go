// Package prefix computes inclusive prefix sums.
//
// For an input xs of length N, the prefix sum is the slice out of length N
// where out[i] = xs[0] + xs[1] + ... + xs[i]. Two strategies are provided:
//
//   - Iterative: a single accumulator pass over the input.
//   - Fold: a left fold that builds the result slice element by element.
//
// Both strategies return identical results for identical input, never modify
// the input, and always return a fresh non-nil slice. Integer overflow wraps
// as in ordinary Go arithmetic.
package prefix

import (
	"fmt"

	"github.com/grekz/tally/pkg/seq"
)

// Strategy selects how a prefix sum is computed.
type Strategy string

const (
	// StrategyIterative runs a single accumulator pass.
	StrategyIterative Strategy = "iterative"

	// StrategyFold builds the result with a left fold.
	StrategyFold Strategy = "fold"
)

// Strategies lists every supported strategy in display order.
var Strategies = []Strategy{StrategyIterative, StrategyFold}

// Validate returns an error if s is not a known strategy.
func (s Strategy) Validate() error {
	switch s {
	case StrategyIterative, StrategyFold:
		return nil
	}
	return fmt.Errorf("unknown strategy %q (must be 'iterative' or 'fold')", string(s))
}

// ParseStrategy converts a strategy name into a Strategy.
// An empty name selects StrategyIterative.
func ParseStrategy(name string) (Strategy, error) {
	if name == "" {
		return StrategyIterative, nil
	}
	s := Strategy(name)
	if err := s.Validate(); err != nil {
		return "", err
	}
	return s, nil
}

// Iterative returns the prefix sum of xs using an accumulator pass.
func Iterative[T seq.Number](xs []T) []T {
	out := make([]T, len(xs))
	if len(xs) == 0 {
		return out
	}
	out[0] = xs[0]
	for i := 1; i < len(xs); i++ {
		out[i] = out[i-1] + xs[i]
	}
	return out
}

// Fold returns the prefix sum of xs by folding each element onto the
// running result: the new element is the current value plus the last
// element already produced.
func Fold[T seq.Number](xs []T) []T {
	return seq.Reduce(xs, make([]T, 0, len(xs)), func(acc []T, x T, i int) []T {
		if i == 0 {
			return append(acc, x)
		}
		return append(acc, acc[i-1]+x)
	})
}

// Compute returns the prefix sum of xs using the given strategy.
func Compute[T seq.Number](s Strategy, xs []T) ([]T, error) {
	switch s {
	case StrategyIterative:
		return Iterative(xs), nil
	case StrategyFold:
		return Fold(xs), nil
	}
	return nil, s.Validate()
}

// Equivalent reports whether both strategies agree on xs. It returns the
// common result when they do, and the index of the first disagreement
// otherwise (-1 when the results agree).
func Equivalent[T seq.Number](xs []T) ([]T, int) {
	a, b := Iterative(xs), Fold(xs)
	if len(a) != len(b) {
		return a, min(len(a), len(b))
	}
	for i := range a {
		// NaN compares unequal to itself; two NaNs still agree.
		if a[i] != b[i] && (a[i] == a[i] || b[i] == b[i]) {
			return a, i
		}
	}
	return a, -1
}
