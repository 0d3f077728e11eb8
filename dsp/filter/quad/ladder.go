package quad

import "github.com/cwbudde/algo-quadfilter/dsp/vec4"

// Ladder coefficient slots.
const (
	ladderG = iota
	ladderFeedback
	ladderShape
	ladderOut

	ladderNumCoeffs
)

// Ladder register slots.
const (
	ladderS0 = iota
	ladderS1
	ladderS2
	ladderS3
	ladderT0
	ladderT1
	ladderT2
	ladderPrevOut
)

const ladderStateLimit = 32.0

// ladder is a Huovilainen-style nonlinear four-stage ladder. Each stage is
// a one-pole whose input and state pass through tanh; stage tanh values
// are carried to the next sample instead of being recomputed. The global
// feedback taps the average of the last two outputs, a half-sample
// estimate of the delay-free loop.
func ladder(s *State, in vec4.Vec) vec4.Vec {
	s.advance(ladderNumCoeffs)

	c := &s.C
	r := &s.R
	g, shape := c[ladderG], c[ladderShape]

	fb := vec4.Scale(vec4.Add(r[ladderS3], r[ladderPrevOut]), 0.5)
	u := vec4.Sub(in, vec4.Mul(c[ladderFeedback], fb))
	t := vec4.Tanh(vec4.Mul(shape, u))

	s0 := ladderStep(r[ladderS0], g, t, r[ladderT0])
	t0 := vec4.Tanh(vec4.Mul(shape, s0))

	s1 := ladderStep(r[ladderS1], g, t0, r[ladderT1])
	t1 := vec4.Tanh(vec4.Mul(shape, s1))

	s2 := ladderStep(r[ladderS2], g, t1, r[ladderT2])
	t2 := vec4.Tanh(vec4.Mul(shape, s2))

	t3 := vec4.Tanh(vec4.Mul(shape, r[ladderS3]))
	s3 := ladderStep(r[ladderS3], g, t2, t3)

	r[ladderPrevOut] = r[ladderS3]
	r[ladderS0], r[ladderS1], r[ladderS2], r[ladderS3] = s0, s1, s2, s3
	r[ladderT0], r[ladderT1], r[ladderT2] = t0, t1, t2

	return vec4.Mul(c[ladderOut], s3)
}

func ladderStep(state, g, in, own vec4.Vec) vec4.Vec {
	next := vec4.MulAdd(g, vec4.Sub(in, own), state)
	return vec4.FlushDenormals(vec4.Clamp(next, -ladderStateLimit, ladderStateLimit))
}
