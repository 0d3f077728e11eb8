package response

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-quadfilter/dsp/core"
	"github.com/cwbudde/algo-quadfilter/dsp/filter/quad"
	"github.com/cwbudde/algo-quadfilter/internal/testutil"
)

var lp12 = quad.Config{Type: quad.TypeLP12, SubType: quad.SubTypeSVF}

func newTestProbe(t *testing.T, cfg quad.Config, opts ...Option) *Probe {
	t.Helper()

	p, err := New(cfg, 48000, opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	return p
}

func TestNewValidation(t *testing.T) {
	if _, err := New(quad.Config{Type: quad.TypeLP12}, 48000); !errors.Is(err, quad.ErrUnsupported) {
		t.Fatalf("error = %v, want ErrUnsupported", err)
	}

	if _, err := New(lp12, 0); !errors.Is(err, core.ErrInvalidSampleRate) {
		t.Fatalf("error = %v, want ErrInvalidSampleRate", err)
	}

	if _, err := New(lp12, 48000, WithLength(0)); !errors.Is(err, ErrInvalidLength) {
		t.Fatalf("error = %v, want ErrInvalidLength", err)
	}

	for i, opt := range []Option{
		WithResonance(1.5),
		WithResonance(math.NaN()),
		WithNote(math.NaN()),
		WithMakerOptions(quad.WithResonanceCeiling(2)),
	} {
		if _, err := New(lp12, 48000, opt); err == nil {
			t.Fatalf("option %d: expected error", i)
		}
	}
}

func TestSineRMSDB(t *testing.T) {
	p := newTestProbe(t, lp12)
	if p.Length() != DefaultLength || p.Config() != lp12 {
		t.Fatalf("Length() = %d, Config() = %v", p.Length(), p.Config())
	}

	db, err := p.SineRMSDB(440)
	if err != nil {
		t.Fatalf("SineRMSDB() error = %v", err)
	}

	// Gain at the cutoff is Q = 1/k, just under 1 at resonance 0.5.
	if math.Abs(db+3.2) > 0.5 {
		t.Fatalf("440 Hz: %v dB, want about -3.2", db)
	}

	ir, err := p.ImpulseResponse(DefaultLength)
	if err != nil {
		t.Fatalf("ImpulseResponse() error = %v", err)
	}

	first := ir[0]

	// Scratch buffers are reused; results and returned slices stay intact.
	if _, err := p.SineRMSDB(10000); err != nil {
		t.Fatalf("SineRMSDB() error = %v", err)
	}

	again, err := p.SineRMSDB(440)
	if err != nil || again != db {
		t.Fatalf("repeated SineRMSDB(440) = %v, %v, want %v", again, err, db)
	}

	if ir[0] != first {
		t.Fatalf("impulse response changed to %v after sine probes", ir[0])
	}

	apf := newTestProbe(t, quad.Config{Type: quad.TypeAllpass}, WithLength(4800))

	db, err = apf.SineRMSDB(1000)
	if err != nil {
		t.Fatalf("SineRMSDB() error = %v", err)
	}

	if math.Abs(db+3.0103) > 0.1 {
		t.Fatalf("all-pass: %v dB, want -3.01", db)
	}

	for _, hz := range []float64{0, -10, 24000, math.NaN(), math.Inf(1)} {
		if _, err := p.SineRMSDB(hz); !errors.Is(err, ErrInvalidFrequency) {
			t.Fatalf("SineRMSDB(%v) error = %v, want ErrInvalidFrequency", hz, err)
		}
	}
}

func TestSweepMatchesSineProbe(t *testing.T) {
	p := newTestProbe(t, quad.Config{Type: quad.TypeHP24, SubType: quad.SubTypeRough})

	points, err := p.Sweep(DefaultFrequencies)
	if err != nil {
		t.Fatalf("Sweep() error = %v", err)
	}

	if len(points) != len(DefaultFrequencies) {
		t.Fatalf("len = %d", len(points))
	}

	for i, pt := range points {
		want, _ := p.SineRMSDB(DefaultFrequencies[i])
		if pt.Hz != DefaultFrequencies[i] || pt.DB != want {
			t.Fatalf("point %d = %+v, want %v dB", i, pt, want)
		}

		if i > 0 && pt.DB < points[i-1].DB-3 {
			t.Fatalf("high-pass level falls from %v to %v dB", points[i-1].DB, pt.DB)
		}
	}

	if points[4].DB < points[0].DB+30 {
		t.Fatalf("high-pass sweep: %+v", points)
	}

	if _, err := p.Sweep([]float64{100, 30000}); !errors.Is(err, ErrInvalidFrequency) {
		t.Fatalf("error = %v, want ErrInvalidFrequency", err)
	}
}

func TestMagnitudeResponse(t *testing.T) {
	p := newTestProbe(t, lp12)

	points, err := p.MagnitudeResponse(4096)
	if err != nil {
		t.Fatalf("MagnitudeResponse() error = %v", err)
	}

	if len(points) != 2049 {
		t.Fatalf("len = %d, want 2049", len(points))
	}

	if points[0].Hz != 0 || math.Abs(points[len(points)-1].Hz-24000) > 1e-9 {
		t.Fatalf("bin range %v..%v Hz", points[0].Hz, points[len(points)-1].Hz)
	}

	if math.Abs(points[0].DB) > 0.01 {
		t.Fatalf("DC gain = %v dB, want 0", points[0].DB)
	}

	if points[2000].DB > -40 {
		t.Fatalf("%v Hz: %v dB, want strong attenuation", points[2000].Hz, points[2000].DB)
	}

	pow, err := p.PowerResponse(4096)
	if err != nil {
		t.Fatalf("PowerResponse() error = %v", err)
	}

	for i := range points {
		if points[i].DB < -200 {
			continue
		}

		if math.Abs(pow[i].DB-points[i].DB) > 1e-6 {
			t.Fatalf("bin %d: power %v dB, magnitude %v dB", i, pow[i].DB, points[i].DB)
		}
	}

	for _, n := range []int{0, 1, 1000} {
		if _, err := p.MagnitudeResponse(n); !errors.Is(err, ErrInvalidFFTSize) {
			t.Fatalf("MagnitudeResponse(%d) error = %v, want ErrInvalidFFTSize", n, err)
		}
	}
}

func TestImpulseResponse(t *testing.T) {
	p := newTestProbe(t, quad.Config{Type: quad.TypeBP12, SubType: quad.SubTypeSmooth})

	ir, err := p.ImpulseResponse(512)
	if err != nil {
		t.Fatalf("ImpulseResponse() error = %v", err)
	}

	testutil.RequireFinite(t, ir)

	again, _ := p.ImpulseResponse(512)
	testutil.RequireSliceNearlyEqual(t, again, ir, 0)

	if _, err := p.ImpulseResponse(0); !errors.Is(err, ErrInvalidLength) {
		t.Fatalf("error = %v, want ErrInvalidLength", err)
	}
}

func TestRMS(t *testing.T) {
	x := testutil.DeterministicNoise(1, 1, 333)
	if got, want := RMS(x), testutil.RMS(x); math.Abs(got-want) > 1e-12 {
		t.Fatalf("RMS = %v, want %v", got, want)
	}

	if RMS(nil) != 0 {
		t.Fatal("RMS(nil) should be 0")
	}
}

func TestLogSpaced(t *testing.T) {
	f, err := LogSpaced(20, 20000, 4)
	if err != nil {
		t.Fatalf("LogSpaced() error = %v", err)
	}

	want := []float64{20, 200, 2000, 20000}
	testutil.RequireSliceNearlyEqual(t, f, want, 1e-9)

	if _, err := LogSpaced(0, 100, 4); !errors.Is(err, ErrInvalidFrequency) {
		t.Fatalf("error = %v, want ErrInvalidFrequency", err)
	}

	if _, err := LogSpaced(10, 100, 1); !errors.Is(err, ErrInvalidLength) {
		t.Fatalf("error = %v, want ErrInvalidLength", err)
	}
}
