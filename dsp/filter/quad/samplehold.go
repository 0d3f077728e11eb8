package quad

import "github.com/cwbudde/algo-quadfilter/dsp/vec4"

// Sample-and-hold slots.
const (
	snhRate = iota
	snhFeedback

	snhNumCoeffs
)

// sampleHold accumulates the trigger rate in R[0]. Whenever the phase turns
// positive the lane captures softclip(in - feedback*held) into R[1] and the
// phase wraps by one; other lanes keep their held value.
func sampleHold(s *State, in vec4.Vec) vec4.Vec {
	s.advance(snhNumCoeffs)

	phase := vec4.Add(s.R[0], s.C[snhRate])
	held := s.R[1]

	trig := vec4.GreaterThan(phase, vec4.Zero)
	capture := vec4.Apply(vec4.Sub(in, vec4.Mul(s.C[snhFeedback], held)), softClip)

	s.R[1] = vec4.Select(trig, capture, held)
	s.R[0] = vec4.Select(trig, vec4.Sub(phase, vec4.Splat(1)), phase)

	return s.R[1]
}
