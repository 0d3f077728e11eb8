package quad

import "github.com/cwbudde/algo-quadfilter/dsp/vec4"

const (
	// NumCoeffs is the number of coefficient slots in a State.
	NumCoeffs = 8
	// NumRegisters is the number of filter memory slots in a State. It is
	// sized for the ladder: four stages, three cached stage nonlinearities
	// and one delayed output.
	NumRegisters = 8
)

// State is the live instance of four packed filters, one per lane.
//
// C holds the coefficients used for the next sample and DC the per-sample
// glide added to C before every sample. R is the filter memory; each
// topology owns a fixed index range in it and leaves the rest untouched.
//
// The zero value is a valid, reset state. A State must be reset before it
// is reused for an unrelated signal.
type State struct {
	C  [NumCoeffs]vec4.Vec
	DC [NumCoeffs]vec4.Vec
	R  [NumRegisters]vec4.Vec
}

// Reset zeros the filter memory. Coefficients and glide are kept.
func (s *State) Reset() {
	s.R = [NumRegisters]vec4.Vec{}
}

// Clear zeros coefficients, glide and memory.
func (s *State) Clear() {
	*s = State{}
}

// advance steps the first n coefficients by one glide increment.
func (s *State) advance(n int) {
	for i := range n {
		s.C[i] = vec4.Add(s.C[i], s.DC[i])
	}
}
