package response

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-quadfilter/dsp/core"
	"github.com/cwbudde/algo-quadfilter/dsp/filter/quad"
	"github.com/cwbudde/algo-quadfilter/dsp/vec4"
	vecmath "github.com/cwbudde/algo-vecmath"
)

const (
	// DefaultLength is the number of samples a probe runs.
	DefaultLength = 2048
	// DefaultNote is the probe cutoff, 440 Hz.
	DefaultNote = 69.0
	// DefaultResonance is the probe resonance.
	DefaultResonance = 0.5
)

// DefaultFrequencies are the sine probe frequencies in Hz.
var DefaultFrequencies = []float64{80, 200, 440, 1000, 10000}

// Errors returned by probes.
var (
	ErrInvalidFrequency = errors.New("response: frequency must be in (0, Nyquist)")
	ErrInvalidLength    = errors.New("response: length must be > 0")
	ErrInvalidFFTSize   = errors.New("response: FFT size must be a power of two >= 2")
)

// Point is one measured frequency.
type Point struct {
	Hz float64
	DB float64
}

// Option mutates Probe configuration.
type Option func(*config) error

type config struct {
	length    int
	note      float64
	resonance float64
	aux       quad.AuxData
	makerOpts []quad.MakerOption
}

// WithLength sets the number of samples per measurement.
func WithLength(n int) Option {
	return func(cfg *config) error {
		if n <= 0 {
			return fmt.Errorf("%w: %d", ErrInvalidLength, n)
		}

		cfg.length = n

		return nil
	}
}

// WithNote sets the filter cutoff in semitones.
func WithNote(note float64) Option {
	return func(cfg *config) error {
		if math.IsNaN(note) {
			return fmt.Errorf("response: note is NaN")
		}

		cfg.note = note

		return nil
	}
}

// WithResonance sets the filter resonance in [0, 1].
func WithResonance(reso float64) Option {
	return func(cfg *config) error {
		if !core.IsFinite(reso) || reso < 0 || reso > 1 {
			return fmt.Errorf("response: resonance must be in [0, 1]: %v", reso)
		}

		cfg.resonance = reso

		return nil
	}
}

// WithAux sets the auxiliary filter inputs.
func WithAux(aux quad.AuxData) Option {
	return func(cfg *config) error {
		cfg.aux = aux
		return nil
	}
}

// WithMakerOptions forwards options to the coefficient maker.
func WithMakerOptions(opts ...quad.MakerOption) Option {
	return func(cfg *config) error {
		cfg.makerOpts = append(cfg.makerOpts, opts...)
		return nil
	}
}

// Probe measures one filter configuration at fixed parameters.
//
// It reuses scratch buffers between measurements and is not safe for
// concurrent use.
type Probe struct {
	filter quad.Config
	unit   quad.UnitFunc
	proc   core.ProcessorConfig
	cfg    config
	maker  *quad.CoefficientMaker

	sine []float64
	out  []float64
}

// New returns a probe for filter at sampleRate.
func New(filter quad.Config, sampleRate float64, opts ...Option) (*Probe, error) {
	unit, err := quad.Lookup(filter.Type, filter.SubType)
	if err != nil {
		return nil, err
	}

	cfg := config{
		length:    DefaultLength,
		note:      DefaultNote,
		resonance: DefaultResonance,
	}

	for _, opt := range opts {
		if opt == nil {
			continue
		}

		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	proc, err := core.NewProcessorConfig(sampleRate, core.WithBlockSize(cfg.length))
	if err != nil {
		return nil, fmt.Errorf("response: %w", err)
	}

	maker, err := quad.NewCoefficientMaker(proc.SampleRate, proc.BlockSize, cfg.makerOpts...)
	if err != nil {
		return nil, fmt.Errorf("response: %w", err)
	}

	return &Probe{
		filter: filter,
		unit:   unit,
		proc:   proc,
		cfg:    cfg,
		maker:  maker,
	}, nil
}

// Config returns the measured filter configuration.
func (p *Probe) Config() quad.Config { return p.filter }

// Length returns the number of samples per measurement.
func (p *Probe) Length() int { return p.cfg.length }

// fresh returns a reset state on snapped coefficients.
func (p *Probe) fresh() (*quad.State, error) {
	aux := p.cfg.aux
	if err := p.maker.MakeCoeffs(p.cfg.note, p.cfg.resonance, p.filter.Type, p.filter.SubType, &aux, true); err != nil {
		return nil, fmt.Errorf("response: %w", err)
	}

	s := &quad.State{}
	p.maker.UpdateState(s)

	return s, nil
}

// run filters x on all lanes and writes lane 0 into out.
func (p *Probe) run(out, x []float64) error {
	s, err := p.fresh()
	if err != nil {
		return err
	}

	for i, v := range x {
		out[i] = p.unit(s, vec4.Splat(v))[0]
	}

	return nil
}

// SineRMSDB returns the RMS level in dB of the filter's response to a
// full-scale sine at hz, over Length samples from a reset state.
func (p *Probe) SineRMSDB(hz float64) (float64, error) {
	if !core.IsFinite(hz) || hz <= 0 || hz >= p.proc.Nyquist() {
		return 0, fmt.Errorf("%w: %v", ErrInvalidFrequency, hz)
	}

	p.sine = core.EnsureLen(p.sine, p.cfg.length)
	p.out = core.EnsureLen(p.out, p.cfg.length)

	step := 2 * math.Pi * hz / p.proc.SampleRate
	for i := range p.sine {
		p.sine[i] = math.Sin(step * float64(i))
	}

	if err := p.run(p.out, p.sine); err != nil {
		return 0, err
	}

	return core.LinearToDB(RMS(p.out)), nil
}

// Sweep runs SineRMSDB for every frequency.
func (p *Probe) Sweep(freqs []float64) ([]Point, error) {
	points := make([]Point, len(freqs))
	for i, hz := range freqs {
		db, err := p.SineRMSDB(hz)
		if err != nil {
			return nil, err
		}

		points[i] = Point{Hz: hz, DB: db}
	}

	return points, nil
}

// ImpulseResponse returns the first n samples of the impulse response.
func (p *Probe) ImpulseResponse(n int) ([]float64, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLength, n)
	}

	in := make([]float64, n)
	in[0] = 1

	out := make([]float64, n)
	if err := p.run(out, in); err != nil {
		return nil, err
	}

	return out, nil
}

// RMS returns the root mean square of x, or 0 for an empty slice.
func RMS(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}

	sq := make([]float64, len(x))
	vecmath.MulBlock(sq, x, x)

	sum := 0.0
	for _, v := range sq {
		sum += v
	}

	return math.Sqrt(sum / float64(len(x)))
}

// LogSpaced returns n frequencies spaced evenly on a log axis from lo to hi
// inclusive.
func LogSpaced(lo, hi float64, n int) ([]float64, error) {
	if lo <= 0 || hi <= lo || !core.IsFinite(hi) {
		return nil, fmt.Errorf("%w: [%v, %v]", ErrInvalidFrequency, lo, hi)
	}

	if n < 2 {
		return nil, fmt.Errorf("%w: %d points", ErrInvalidLength, n)
	}

	out := make([]float64, n)
	ratio := math.Log(hi / lo)

	for i := range out {
		out[i] = lo * math.Exp(ratio*float64(i)/float64(n-1))
	}

	out[n-1] = hi

	return out, nil
}
