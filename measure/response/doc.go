// Package response measures the frequency response of quad filters.
//
// A Probe runs a freshly reset filter with fixed parameters and reports:
//
//   - the RMS level of its response to a full-scale sine, in dB
//   - that level over a list of frequencies (Sweep)
//   - the impulse response and its FFT magnitude
//
// The sine probe is what the response-shape tests of dsp/filter/quad are
// phrased in: a unit sine reads -3.01 dB at unity gain, and the level
// includes the onset transient of the filter.
//
// # Usage
//
//	p, _ := response.New(quad.Config{Type: quad.TypeLP12, SubType: quad.SubTypeSVF}, 48000)
//	points, _ := p.Sweep(response.DefaultFrequencies)
//	for _, pt := range points {
//	    fmt.Printf("%8.0f Hz %7.2f dB\n", pt.Hz, pt.DB)
//	}
package response
