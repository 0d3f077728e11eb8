//go:build !fastmath

package quad

import "math"

// fastExp computes e^x for the Rough and ladder coefficient paths using
// standard library math.
func fastExp(x float64) float64 {
	return math.Exp(x)
}
