package quad

import "github.com/cwbudde/algo-quadfilter/dsp/vec4"

// SVF coefficient slots.
const (
	svfA1 = iota
	svfA2
	svfA3
	svfK
	svfMixIn
	svfMixBand
	svfMixLow

	svfNumCoeffs
)

// svfStage runs one trapezoidal (TPT) state-variable stage on the
// integrator pair ic1/ic2 and returns the mixed output
//
//	y = m0*x + m1*band + m2*low
func svfStage(c *[NumCoeffs]vec4.Vec, ic1, ic2 *vec4.Vec, x vec4.Vec) vec4.Vec {
	v3 := vec4.Sub(x, *ic2)
	v1 := vec4.MulAdd(c[svfA2], v3, vec4.Mul(c[svfA1], *ic1))
	v2 := vec4.Add(*ic2, vec4.MulAdd(c[svfA3], v3, vec4.Mul(c[svfA2], *ic1)))

	*ic1 = vec4.FlushDenormals(vec4.Sub(vec4.Scale(v1, 2), *ic1))
	*ic2 = vec4.FlushDenormals(vec4.Sub(vec4.Scale(v2, 2), *ic2))

	y := vec4.Mul(c[svfMixIn], x)
	y = vec4.MulAdd(c[svfMixBand], v1, y)

	return vec4.MulAdd(c[svfMixLow], v2, y)
}

func svf12(s *State, in vec4.Vec) vec4.Vec {
	s.advance(svfNumCoeffs)
	return svfStage(&s.C, &s.R[0], &s.R[1], in)
}

func svf24(s *State, in vec4.Vec) vec4.Vec {
	s.advance(svfNumCoeffs)
	y := svfStage(&s.C, &s.R[0], &s.R[1], in)

	return svfStage(&s.C, &s.R[2], &s.R[3], y)
}
