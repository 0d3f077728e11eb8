package quad

import "github.com/cwbudde/algo-quadfilter/dsp/vec4"

// Biquad coefficient slots, a0 normalized to 1.
const (
	bqB0 = iota
	bqB1
	bqB2
	bqA1
	bqA2

	bqNumCoeffs
)

// df2tStage is a Direct Form II Transposed section:
//
//	y  = b0*x + d0
//	d0 = b1*x - a1*y + d1
//	d1 = b2*x - a2*y
func df2tStage(c *[NumCoeffs]vec4.Vec, d0, d1 *vec4.Vec, x vec4.Vec) vec4.Vec {
	y := vec4.MulAdd(c[bqB0], x, *d0)
	*d0 = vec4.Add(vec4.Sub(vec4.Mul(c[bqB1], x), vec4.Mul(c[bqA1], y)), *d1)
	*d1 = vec4.Sub(vec4.Mul(c[bqB2], x), vec4.Mul(c[bqA2], y))

	return y
}

// df1Output evaluates a Direct Form I section from explicit history.
func df1Output(c *[NumCoeffs]vec4.Vec, x, x1, x2, y1, y2 vec4.Vec) vec4.Vec {
	y := vec4.Mul(c[bqB0], x)
	y = vec4.MulAdd(c[bqB1], x1, y)
	y = vec4.MulAdd(c[bqB2], x2, y)
	y = vec4.Sub(y, vec4.Mul(c[bqA1], y1))

	return vec4.Sub(y, vec4.Mul(c[bqA2], y2))
}

func rough12(s *State, in vec4.Vec) vec4.Vec {
	s.advance(bqNumCoeffs)
	return df2tStage(&s.C, &s.R[0], &s.R[1], in)
}

func rough24(s *State, in vec4.Vec) vec4.Vec {
	s.advance(bqNumCoeffs)
	y := df2tStage(&s.C, &s.R[0], &s.R[1], in)

	return df2tStage(&s.C, &s.R[2], &s.R[3], y)
}

// smooth12 registers: 0 x[n-1], 1 x[n-2], 2 y[n-1], 3 y[n-2].
func smooth12(s *State, in vec4.Vec) vec4.Vec {
	s.advance(bqNumCoeffs)
	r := &s.R

	y := df1Output(&s.C, in, r[0], r[1], r[2], r[3])
	r[1], r[0] = r[0], in
	r[3], r[2] = r[2], y

	return y
}

// smooth24 shares the middle history: the first stage's output history is
// the second stage's input history. Registers 4 and 5 hold z[n-1], z[n-2].
func smooth24(s *State, in vec4.Vec) vec4.Vec {
	s.advance(bqNumCoeffs)
	r := &s.R

	y := df1Output(&s.C, in, r[0], r[1], r[2], r[3])
	z := df1Output(&s.C, y, r[2], r[3], r[4], r[5])

	r[1], r[0] = r[0], in
	r[3], r[2] = r[2], y
	r[5], r[4] = r[4], z

	return z
}
