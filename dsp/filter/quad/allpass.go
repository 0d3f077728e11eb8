package quad

import "github.com/cwbudde/algo-quadfilter/dsp/vec4"

const (
	apfA = iota

	apfNumCoeffs
)

// allpass1 is the first-order all-pass (a + z^-1)/(1 + a*z^-1) in
// transposed form with a single register.
func allpass1(s *State, in vec4.Vec) vec4.Vec {
	s.advance(apfNumCoeffs)

	a := s.C[apfA]
	y := vec4.MulAdd(a, in, s.R[0])
	s.R[0] = vec4.Sub(in, vec4.Mul(a, y))

	return y
}
