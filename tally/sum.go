// Package tally provides the summation primitive exported by seshat-tally.
package tally

import "golang.org/x/exp/constraints"

// Number is the set of types Sum accepts.
type Number interface {
	constraints.Integer | constraints.Float
}

// Sum returns the arithmetic total of its arguments, accumulated left to
// right from zero. An empty call returns the zero value. A slice can be
// spread at the call site: Sum(xs...).
func Sum[N Number](xs ...N) N {
	var total N
	for _, x := range xs {
		total += x
	}
	return total
}
