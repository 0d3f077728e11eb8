package voice

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-quadfilter/dsp/core"
	"github.com/cwbudde/algo-quadfilter/dsp/filter/quad"
	"github.com/cwbudde/algo-quadfilter/dsp/vec4"
	"github.com/cwbudde/algo-quadfilter/internal/testutil"
)

const testRate = 48000.0

func newTestProcessor(t *testing.T, opts ...Option) *Processor {
	t.Helper()

	p, err := New(quad.TypeLP12, quad.SubTypeSVF, testRate, opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	return p
}

func outputs(n int) [vec4.Lanes][]float64 {
	var out [vec4.Lanes][]float64
	for lane := range out {
		out[lane] = make([]float64, n)
	}

	return out
}

// reference runs one lane through a bare quad filter, reproducing the
// block schedule of a Processor with fixed parameters per block.
func reference(t *testing.T, cfg quad.Config, blockSize int, notes []float64, reso float64, in []float64) []float64 {
	t.Helper()

	m, err := quad.NewCoefficientMaker(testRate, blockSize)
	if err != nil {
		t.Fatalf("NewCoefficientMaker() error = %v", err)
	}

	unit := quad.Unit(cfg.Type, cfg.SubType)
	out := make([]float64, len(in))

	var s quad.State
	for b, off := 0, 0; off < len(in); b, off = b+1, off+blockSize {
		if err := m.MakeCoeffs(notes[min(b, len(notes)-1)], reso, cfg.Type, cfg.SubType, &quad.AuxData{}, b == 0); err != nil {
			t.Fatalf("MakeCoeffs() error = %v", err)
		}

		m.UpdateState(&s)

		for i := off; i < min(off+blockSize, len(in)); i++ {
			out[i] = unit(&s, vec4.Splat(in[i]))[0]
		}
	}

	return out
}

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name string
		t    quad.FilterType
		st   quad.SubType
		sr   float64
		opts []Option
		want error
	}{
		{name: "unsupported", t: quad.TypeAllpass, st: quad.SubTypeSVF, sr: testRate, want: quad.ErrUnsupported},
		{name: "zero rate", t: quad.TypeLP12, st: quad.SubTypeSVF, sr: 0, want: core.ErrInvalidSampleRate},
		{name: "zero block", t: quad.TypeLP12, st: quad.SubTypeSVF, sr: testRate, opts: []Option{WithBlockSize(0)}, want: core.ErrInvalidBlockSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.t, tt.st, tt.sr, tt.opts...); !errors.Is(err, tt.want) {
				t.Fatalf("error = %v, want %v", err, tt.want)
			}
		})
	}

	for i, opt := range []Option{
		WithMix(-0.1),
		WithMix(1.5),
		WithGainDB(math.NaN()),
		WithMakerOptions(quad.WithThermalVoltage(0)),
	} {
		if _, err := New(quad.TypeLadderLP, quad.SubTypeNone, testRate, opt); err == nil {
			t.Fatalf("option %d: expected error", i)
		}
	}
}

func TestProcessMatchesBareFilter(t *testing.T) {
	const bs = 64

	p := newTestProcessor(t, WithBlockSize(bs), WithParams(Params{Note: 72, Resonance: 0.6}))

	src := testutil.NoiseLanes(1, 0.5, 1000)
	dst := outputs(1000)

	n, err := p.Process(dst, src)
	if err != nil || n != 1000 {
		t.Fatalf("Process() = %d, %v", n, err)
	}

	for lane := range vec4.Lanes {
		want := reference(t, p.Config(), bs, []float64{72}, 0.6, src[lane])
		testutil.RequireSliceNearlyEqual(t, dst[lane], want, 1e-12)
	}
}

func TestParameterChangeGlides(t *testing.T) {
	const bs = 32

	p := newTestProcessor(t, WithBlockSize(bs), WithParams(Params{Note: 60, Resonance: 0.3}))

	src := testutil.NoiseLanes(2, 0.5, 3*bs)
	dst := outputs(3 * bs)

	var blockSrc, blockDst [vec4.Lanes][]float64
	for b, note := range []float64{60, 84, 84} {
		p.SetParams(Params{Note: note, Resonance: 0.3})

		for lane := range vec4.Lanes {
			blockSrc[lane] = src[lane][b*bs : (b+1)*bs]
			blockDst[lane] = dst[lane][b*bs : (b+1)*bs]
		}

		if _, err := p.Process(blockDst, blockSrc); err != nil {
			t.Fatalf("Process() error = %v", err)
		}
	}

	want := reference(t, p.Config(), bs, []float64{60, 84, 84}, 0.3, src[0])
	testutil.RequireSliceNearlyEqual(t, dst[0], want, 1e-12)
}

func TestBlockSpansProcessCalls(t *testing.T) {
	const (
		bs    = 64
		total = 4 * bs
	)

	src := testutil.NoiseLanes(9, 0.5, total)
	want := reference(t, quad.Config{Type: quad.TypeLP12, SubType: quad.SubTypeSVF}, bs, []float64{60, 100}, 0.3, src[0])

	chunks := []int{24, 56, 33, 1, 100, 42}

	t.Run("planar", func(t *testing.T) {
		p := newTestProcessor(t, WithBlockSize(bs), WithParams(Params{Note: 60, Resonance: 0.3}))
		dst := outputs(total)

		var blockSrc, blockDst [vec4.Lanes][]float64
		off := 0
		for _, n := range chunks {
			for lane := range vec4.Lanes {
				blockSrc[lane] = src[lane][off : off+n]
				blockDst[lane] = dst[lane][off : off+n]
			}

			if _, err := p.Process(blockDst, blockSrc); err != nil {
				t.Fatalf("Process() error = %v", err)
			}

			// Lands mid-block; the new note starts with the second block.
			p.SetParams(Params{Note: 100, Resonance: 0.3})

			off += n
		}

		testutil.RequireSliceNearlyEqual(t, dst[0], want, 1e-12)
	})

	t.Run("mixed", func(t *testing.T) {
		p := newTestProcessor(t, WithBlockSize(bs), WithParams(Params{Note: 60, Resonance: 0.3}))
		frames := make([]vec4.Vec, total)
		vec4.Pack(frames, src)

		dst := outputs(total)

		off := 0
		for i, n := range chunks {
			if i%2 == 0 {
				var blockSrc, blockDst [vec4.Lanes][]float64
				for lane := range vec4.Lanes {
					blockSrc[lane] = src[lane][off : off+n]
					blockDst[lane] = dst[lane][off : off+n]
				}

				if _, err := p.Process(blockDst, blockSrc); err != nil {
					t.Fatalf("Process() error = %v", err)
				}
			} else {
				if err := p.ProcessPacked(frames[off : off+n]); err != nil {
					t.Fatalf("ProcessPacked() error = %v", err)
				}

				copy(dst[0][off:off+n], testutil.Lane(frames[off:off+n], 0))
			}

			p.SetParams(Params{Note: 100, Resonance: 0.3})

			off += n
		}

		testutil.RequireSliceNearlyEqual(t, dst[0], want, 1e-12)
	})
}

func TestLaneParams(t *testing.T) {
	src := testutil.NoiseLanes(3, 0.5, 256)

	base := newTestProcessor(t)
	baseOut := outputs(256)

	if _, err := base.Process(baseOut, src); err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	p := newTestProcessor(t)
	if err := p.SetLaneParams(2, Params{Note: 40, Resonance: 0.9}); err != nil {
		t.Fatalf("SetLaneParams() error = %v", err)
	}

	got, err := p.Params(2)
	if err != nil || got.Note != 40 {
		t.Fatalf("Params(2) = %v, %v", got, err)
	}

	out := outputs(256)
	if _, err := p.Process(out, src); err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	for lane := range vec4.Lanes {
		d, _ := testutil.MaxAbsDiff(out[lane], baseOut[lane])
		if lane == 2 && d == 0 {
			t.Fatal("lane 2 unaffected by its parameters")
		}

		if lane != 2 && d != 0 {
			t.Fatalf("lane %d changed by lane 2 parameters", lane)
		}
	}

	if err := p.SetLaneParams(4, Params{}); !errors.Is(err, ErrInvalidLane) {
		t.Fatalf("error = %v, want ErrInvalidLane", err)
	}

	if _, err := p.Params(-1); !errors.Is(err, ErrInvalidLane) {
		t.Fatalf("error = %v, want ErrInvalidLane", err)
	}
}

func TestMixAndGain(t *testing.T) {
	src := testutil.NoiseLanes(4, 0.5, 200)

	dry := newTestProcessor(t, WithMix(0), WithGainDB(-6))
	out := outputs(200)

	if _, err := dry.Process(out, src); err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	g := core.DBToLinear(-6)
	for lane := range vec4.Lanes {
		want := make([]float64, len(src[lane]))
		for i, x := range src[lane] {
			want[i] = g * x
		}

		testutil.RequireSliceNearlyEqual(t, out[lane], want, 1e-12)
	}

	wetOnly := newTestProcessor(t)
	wet := outputs(200)

	if _, err := wetOnly.Process(wet, src); err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	half := newTestProcessor(t)
	if err := half.SetMix(0.5); err != nil {
		t.Fatalf("SetMix() error = %v", err)
	}

	if err := half.SetGainDB(0); err != nil {
		t.Fatalf("SetGainDB() error = %v", err)
	}

	mixed := outputs(200)
	if _, err := half.Process(mixed, src); err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	for i := range mixed[0] {
		want := 0.5*wet[0][i] + 0.5*src[0][i]
		if math.Abs(mixed[0][i]-want) > 1e-12 {
			t.Fatalf("sample %d: %v, want %v", i, mixed[0][i], want)
		}
	}

	if err := half.SetMix(2); err == nil {
		t.Fatal("expected error for mix above 1")
	}
}

func TestProcessInPlaceAndNilChannels(t *testing.T) {
	src := testutil.NoiseLanes(5, 0.5, 300)

	ref := newTestProcessor(t, WithMix(0.7))
	want := outputs(300)

	if _, err := ref.Process(want, src); err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	p := newTestProcessor(t, WithMix(0.7))

	var buf [vec4.Lanes][]float64
	for lane := range buf {
		buf[lane] = append([]float64(nil), src[lane]...)
	}

	if _, err := p.Process(buf, buf); err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	for lane := range vec4.Lanes {
		testutil.RequireSliceNearlyEqual(t, buf[lane], want[lane], 0)
	}

	silent := newTestProcessor(t)
	out := outputs(300)
	out[3] = nil

	in := src
	in[1] = nil

	n, err := silent.Process(out, in)
	if err != nil || n != 300 {
		t.Fatalf("Process() = %d, %v", n, err)
	}

	for i, v := range out[1] {
		if v != 0 {
			t.Fatalf("silent lane sample %d = %v", i, v)
		}
	}

	if n, err := silent.Process([vec4.Lanes][]float64{}, [vec4.Lanes][]float64{}); n != 0 || err != nil {
		t.Fatalf("empty Process() = %d, %v", n, err)
	}

	short := outputs(10)
	if n, _ := silent.Process(short, src); n != 10 {
		t.Fatalf("Process() wrote %d frames, want 10", n)
	}
}

func TestResetReplays(t *testing.T) {
	src := testutil.NoiseLanes(6, 0.5, 500)
	p := newTestProcessor(t, WithParams(Params{Note: 66, Resonance: 0.8}))

	first := outputs(500)
	if _, err := p.Process(first, src); err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	p.Reset()

	second := outputs(500)
	if _, err := p.Process(second, src); err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	for lane := range vec4.Lanes {
		testutil.RequireSliceNearlyEqual(t, second[lane], first[lane], 0)
	}
}

func TestSetFilter(t *testing.T) {
	p := newTestProcessor(t)

	if err := p.SetFilter(quad.TypeNotch24, quad.SubTypeSVF); !errors.Is(err, quad.ErrUnsupported) {
		t.Fatalf("error = %v, want ErrUnsupported", err)
	}

	if err := p.SetFilter(quad.TypeHP24, quad.SubTypeSmooth); err != nil {
		t.Fatalf("SetFilter() error = %v", err)
	}

	if got := p.Config(); got != (quad.Config{Type: quad.TypeHP24, SubType: quad.SubTypeSmooth}) {
		t.Fatalf("Config() = %v", got)
	}

	src := testutil.NoiseLanes(7, 0.5, 128)
	out := outputs(128)

	if _, err := p.Process(out, src); err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	want := reference(t, p.Config(), p.BlockSize(), []float64{69}, 0, src[0])
	testutil.RequireSliceNearlyEqual(t, out[0], want, 1e-12)
}

func TestProcessPacked(t *testing.T) {
	src := testutil.NoiseLanes(8, 0.5, 200)

	a := newTestProcessor(t)
	want := outputs(200)

	if _, err := a.Process(want, src); err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	b := newTestProcessor(t)
	frames := make([]vec4.Vec, 200)
	vec4.Pack(frames, src)

	if err := b.ProcessPacked(frames); err != nil {
		t.Fatalf("ProcessPacked() error = %v", err)
	}

	for lane := range vec4.Lanes {
		testutil.RequireSliceNearlyEqual(t, testutil.Lane(frames, lane), want[lane], 1e-12)
	}
}

func TestProcessReportsParameterErrors(t *testing.T) {
	p := newTestProcessor(t)
	p.SetParams(Params{Note: math.NaN()})

	_, err := p.Process(outputs(16), testutil.NoiseLanes(1, 0.1, 16))
	if !errors.Is(err, quad.ErrInvalidParameter) {
		t.Fatalf("error = %v, want ErrInvalidParameter", err)
	}
}
