// Package quad provides a closed catalog of analog-modeled filters that run
// four independent signal lanes at once.
//
// Supported types and realizations:
//   - TypeLP12 / TypeLP24 / TypeHP12 / TypeHP24 / TypeBP12 / TypeBP24:
//     SubTypeSVF (trapezoidal state-variable), SubTypeRough (Direct Form II
//     Transposed biquad with approximated coefficient math) and
//     SubTypeSmooth (Direct Form I biquad). The 24 dB variants cascade two
//     identical stages.
//   - TypeNotch12 / TypeNotch24:
//     SubTypeNotch and SubTypeNotchMild on the state-variable core.
//   - TypeAllpass: first-order all-pass.
//   - TypeLadderLP: Huovilainen-style nonlinear transistor ladder.
//   - TypeSampleHold: pitch-clocked sample and hold with feedback.
//
// A filter instance is a State: coefficients, per-sample coefficient glide
// and filter memory for four lanes. Unit returns the routine that advances a
// State by one sample. CoefficientMaker turns a note, a resonance and the
// sample rate into a coefficient target once per block and spreads the
// change from the previous target across the block.
//
// Notes are MIDI-style semitones: 69 is 440 Hz, 12 steps per octave.
// Resonance runs from 0 to 1.
//
// Build with -tags fastmath to use github.com/meko-christian/algo-approx
// for the exponentials on the Rough and ladder coefficient paths.
package quad
