// Package seq provides small generic helpers for transforming slices.
//
// Every helper returns a new slice and leaves its input untouched. Callbacks
// receive the element index alongside the element, so index-aware folds
// (such as prefix sums) can be written without closures over counters.
package seq

// Number is satisfied by every built-in integer and floating point type.
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr |
		~float32 | ~float64
}

// Filter returns the elements of xs for which keep returns true, in order.
// The result is never nil.
func Filter[T any](xs []T, keep func(T, int) bool) []T {
	out := make([]T, 0, len(xs))
	for i, x := range xs {
		if keep(x, i) {
			out = append(out, x)
		}
	}
	return out
}

// Map applies fn to every element of xs and returns the results in order.
func Map[T, U any](xs []T, fn func(T, int) U) []U {
	out := make([]U, len(xs))
	for i, x := range xs {
		out[i] = fn(x, i)
	}
	return out
}

// Reduce folds xs from left to right, starting from init.
func Reduce[T, A any](xs []T, init A, fn func(acc A, x T, i int) A) A {
	acc := init
	for i, x := range xs {
		acc = fn(acc, x, i)
	}
	return acc
}

// Sum adds all elements of xs. The sum of an empty slice is zero.
func Sum[T Number](xs []T) T {
	return Reduce(xs, T(0), func(acc T, x T, _ int) T { return acc + x })
}
