package vec4

import (
	"math"

	"github.com/cwbudde/algo-quadfilter/dsp/core"
)

// Lanes is the number of lanes in a Vec.
const Lanes = 4

// Vec holds one value per lane.
type Vec [Lanes]float64

// Mask selects lanes for Select.
type Mask [Lanes]bool

// Zero is the all-zero vector.
var Zero Vec

// Splat broadcasts x into every lane.
func Splat(x float64) Vec {
	return Vec{x, x, x, x}
}

// Add returns a + b.
func Add(a, b Vec) Vec {
	return Vec{a[0] + b[0], a[1] + b[1], a[2] + b[2], a[3] + b[3]}
}

// Sub returns a - b.
func Sub(a, b Vec) Vec {
	return Vec{a[0] - b[0], a[1] - b[1], a[2] - b[2], a[3] - b[3]}
}

// Mul returns a * b.
func Mul(a, b Vec) Vec {
	return Vec{a[0] * b[0], a[1] * b[1], a[2] * b[2], a[3] * b[3]}
}

// MulAdd returns a*b + c.
func MulAdd(a, b, c Vec) Vec {
	return Vec{
		a[0]*b[0] + c[0],
		a[1]*b[1] + c[1],
		a[2]*b[2] + c[2],
		a[3]*b[3] + c[3],
	}
}

// Scale returns a * s.
func Scale(a Vec, s float64) Vec {
	return Vec{a[0] * s, a[1] * s, a[2] * s, a[3] * s}
}

// Clamp limits every lane to [lo, hi].
func Clamp(a Vec, lo, hi float64) Vec {
	var out Vec
	for i, v := range a {
		out[i] = min(max(v, lo), hi)
	}

	return out
}

// Tanh applies math.Tanh per lane.
func Tanh(a Vec) Vec {
	return Vec{math.Tanh(a[0]), math.Tanh(a[1]), math.Tanh(a[2]), math.Tanh(a[3])}
}

// Apply maps fn over every lane.
func Apply(a Vec, fn func(float64) float64) Vec {
	return Vec{fn(a[0]), fn(a[1]), fn(a[2]), fn(a[3])}
}

// GreaterThan reports a > b per lane.
func GreaterThan(a, b Vec) Mask {
	return Mask{a[0] > b[0], a[1] > b[1], a[2] > b[2], a[3] > b[3]}
}

// Select returns a where m is set and b elsewhere.
func Select(m Mask, a, b Vec) Vec {
	out := b
	for i, on := range m {
		if on {
			out[i] = a[i]
		}
	}

	return out
}

// IsFinite reports whether every lane is neither NaN nor Inf.
func (v Vec) IsFinite() bool {
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}

	return true
}

// FlushDenormals zeroes lanes whose magnitude is below 1e-30.
func FlushDenormals(a Vec) Vec {
	return Vec{
		core.FlushDenormals(a[0]),
		core.FlushDenormals(a[1]),
		core.FlushDenormals(a[2]),
		core.FlushDenormals(a[3]),
	}
}
