//go:build fastmath

package quad

import "github.com/meko-christian/algo-approx"

// fastExp computes e^x for the Rough and ladder coefficient paths using
// fast approximation.
func fastExp(x float64) float64 {
	return approx.FastExp(x)
}
