package quad

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/cwbudde/algo-quadfilter/dsp/vec4"
	"github.com/cwbudde/algo-quadfilter/internal/testutil"
)

const (
	testSampleRate = 48000.0
	testBlockSize  = 2048
	testNote       = 69.0
	testReso       = 0.5
)

var probeFreqs = []float64{80, 200, 440, 1000, 10000}

// snapped returns a State holding the snapped coefficients of cfg.
func snapped(t testing.TB, cfg Config, note, reso float64, aux *AuxData) *State {
	t.Helper()

	m, err := NewCoefficientMaker(testSampleRate, testBlockSize)
	if err != nil {
		t.Fatalf("NewCoefficientMaker() error = %v", err)
	}

	if err := m.MakeCoeffs(note, reso, cfg.Type, cfg.SubType, aux, true); err != nil {
		t.Fatalf("MakeCoeffs(%s) error = %v", cfg, err)
	}

	var s State
	m.UpdateState(&s)

	return &s
}

func run(s *State, unit UnitFunc, in []vec4.Vec) []vec4.Vec {
	out := make([]vec4.Vec, len(in))
	for i, x := range in {
		out[i] = unit(s, x)
	}

	return out
}

// sineRMSDB feeds a full-scale sine into all lanes of a fresh filter and
// returns the output RMS of lane 0 over one block.
func sineRMSDB(t testing.TB, cfg Config, hz float64) float64 {
	t.Helper()

	s := snapped(t, cfg, testNote, testReso, nil)
	in := testutil.Broadcast(testutil.DeterministicSine(hz, testSampleRate, 1, testBlockSize))

	return testutil.RMSDB(testutil.Lane(run(s, Unit(cfg.Type, cfg.SubType), in), 0))
}

func sineTable(t testing.TB, cfg Config) []float64 {
	t.Helper()

	out := make([]float64, len(probeFreqs))
	for i, hz := range probeFreqs {
		out[i] = sineRMSDB(t, cfg, hz)
	}

	return out
}

// impulseMagnitudeAt returns the lane 0 gain at hz, read off the DFT of
// the first 4096 samples of the impulse response.
func impulseMagnitudeAt(s *State, unit UnitFunc, hz float64) float64 {
	const n = 4096

	w := 2 * math.Pi * hz / testSampleRate

	var sum complex128
	for i := range n {
		x := vec4.Zero
		if i == 0 {
			x = vec4.Splat(1)
		}

		y := unit(s, x)
		sum += complex(y[0], 0) * cmplx.Exp(complex(0, -w*float64(i)))
	}

	return cmplx.Abs(sum)
}
