package voice

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
	defaultNote      = 69.0
	defaultResonance = 0.0
)

// ErrInvalidLane is returned for a lane index outside [0, vec4.Lanes).
var ErrInvalidLane = errors.New("voice: lane out of range")

// Params are the per-lane filter controls.
type Params struct {
	// Note is the cutoff in semitones, 69 = 440 Hz.
	Note float64
	// Resonance is in [0, 1].
	Resonance float64
	// Aux carries drive and notch depth.
	Aux quad.AuxData
}

// Option mutates Processor configuration.
type Option func(*config) error

type config struct {
	blockSize  int
	gain       float64
	mix        float64
	makerOpts  []quad.MakerOption
	initParams Params
}

func defaultConfig() config {
	return config{
		blockSize:  core.DefaultBlockSize,
		gain:       1,
		mix:        1,
		initParams: Params{Note: defaultNote, Resonance: defaultResonance},
	}
}

// WithBlockSize sets the parameter block length in samples.
func WithBlockSize(n int) Option {
	return func(cfg *config) error {
		if n <= 0 {
			return fmt.Errorf("voice: %w: %d", core.ErrInvalidBlockSize, n)
		}

		cfg.blockSize = n

		return nil
	}
}

// WithGainDB sets the output gain in dB.
func WithGainDB(db float64) Option {
	return func(cfg *config) error {
		if !core.IsFinite(db) {
			return fmt.Errorf("voice: gain must be finite: %v", db)
		}

		cfg.gain = core.DBToLinear(db)

		return nil
	}
}

// WithMix sets the wet share in [0, 1]. 1 is fully filtered.
func WithMix(mix float64) Option {
	return func(cfg *config) error {
		if !core.IsFinite(mix) || mix < 0 || mix > 1 {
			return fmt.Errorf("voice: mix must be in [0, 1]: %v", mix)
		}

		cfg.mix = mix

		return nil
	}
}

// WithParams sets the initial parameters of every lane.
func WithParams(p Params) Option {
	return func(cfg *config) error {
		cfg.initParams = p
		return nil
	}
}

// WithMakerOptions forwards options to every lane's coefficient maker.
func WithMakerOptions(opts ...quad.MakerOption) Option {
	return func(cfg *config) error {
		cfg.makerOpts = append(cfg.makerOpts, opts...)
		return nil
	}
}

// Processor filters four planar channels with one filter type.
//
// It is not safe for concurrent use.
type Processor struct {
	cfg    config
	filter quad.Config
	unit   quad.UnitFunc
	proc   core.ProcessorConfig

	makers [vec4.Lanes]*quad.CoefficientMaker
	params [vec4.Lanes]Params
	state  quad.State

	frames []vec4.Vec
	dry    []float64
	wet    [vec4.Lanes][]float64
	// phase is the position inside the current parameter block. New
	// coefficients are made only when it is 0.
	phase int
	// snap forces the next block to start on its target.
	snap bool
}

// New returns a Processor running (t, st) at sampleRate.
func New(t quad.FilterType, st quad.SubType, sampleRate float64, opts ...Option) (*Processor, error) {
	unit, err := quad.Lookup(t, st)
	if err != nil {
		return nil, err
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}

		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	proc, err := core.NewProcessorConfig(sampleRate, core.WithBlockSize(cfg.blockSize))
	if err != nil {
		return nil, fmt.Errorf("voice: %w", err)
	}

	p := &Processor{
		cfg:    cfg,
		filter: quad.Config{Type: t, SubType: st},
		unit:   unit,
		proc:   proc,
		frames: make([]vec4.Vec, proc.BlockSize),
		dry:    make([]float64, proc.BlockSize),
		snap:   true,
	}

	for lane := range p.wet {
		p.wet[lane] = make([]float64, proc.BlockSize)
	}

	for lane := range p.makers {
		m, err := quad.NewCoefficientMaker(proc.SampleRate, proc.BlockSize, cfg.makerOpts...)
		if err != nil {
			return nil, fmt.Errorf("voice: %w", err)
		}

		p.makers[lane] = m
		p.params[lane] = cfg.initParams
	}

	return p, nil
}

// Config returns the filter type and subtype.
func (p *Processor) Config() quad.Config { return p.filter }

// SampleRate returns the sample rate in Hz.
func (p *Processor) SampleRate() float64 { return p.proc.SampleRate }

// BlockSize returns the parameter block length.
func (p *Processor) BlockSize() int { return p.proc.BlockSize }

// Params returns the parameters of lane.
func (p *Processor) Params(lane int) (Params, error) {
	if lane < 0 || lane >= vec4.Lanes {
		return Params{}, fmt.Errorf("%w: %d", ErrInvalidLane, lane)
	}

	return p.params[lane], nil
}

// SetParams sets the parameters of every lane.
func (p *Processor) SetParams(params Params) {
	for lane := range p.params {
		p.params[lane] = params
	}
}

// SetLaneParams sets the parameters of one lane.
func (p *Processor) SetLaneParams(lane int, params Params) error {
	if lane < 0 || lane >= vec4.Lanes {
		return fmt.Errorf("%w: %d", ErrInvalidLane, lane)
	}

	p.params[lane] = params

	return nil
}

// SetFilter switches the filter type. The filter memory is cleared and the
// next block snaps to its coefficients.
func (p *Processor) SetFilter(t quad.FilterType, st quad.SubType) error {
	unit, err := quad.Lookup(t, st)
	if err != nil {
		return err
	}

	p.filter = quad.Config{Type: t, SubType: st}
	p.unit = unit
	p.Reset()

	return nil
}

// SetMix sets the wet share in [0, 1].
func (p *Processor) SetMix(mix float64) error {
	return WithMix(mix)(&p.cfg)
}

// SetGainDB sets the output gain in dB.
func (p *Processor) SetGainDB(db float64) error {
	return WithGainDB(db)(&p.cfg)
}

// Reset clears the filter memory and glide history.
func (p *Processor) Reset() {
	p.state.Clear()

	for _, m := range p.makers {
		m.Reset()
	}

	p.phase = 0
	p.snap = true
}

// Process filters src into dst and returns the number of frames written,
// the length of the shortest non-nil channel of src and dst. A nil source
// channel is silence; a nil destination channel is discarded. dst[i] may
// alias src[i].
//
// Parameter blocks run across calls: a buffer that ends inside a block
// continues that block's glide on the next call, and parameter changes
// take effect at the next block boundary.
func (p *Processor) Process(dst, src [vec4.Lanes][]float64) (int, error) {
	n := min(frameCount(src), frameCount(dst))
	if n <= 0 || n == math.MaxInt {
		return 0, nil
	}

	for off := 0; off < n; {
		end := min(off+p.proc.BlockSize-p.phase, n)
		if err := p.processBlock(dst, src, off, end); err != nil {
			return off, err
		}

		off = end
	}

	return n, nil
}

// frameCount returns the shortest non-nil channel length, or MaxInt when
// every channel is nil.
func frameCount(ch [vec4.Lanes][]float64) int {
	n := math.MaxInt
	for _, buf := range ch {
		if buf != nil {
			n = min(n, len(buf))
		}
	}

	return n
}

// ProcessPacked filters already interleaved frames in place. Gain and mix
// are not applied. It shares the block position with Process.
func (p *Processor) ProcessPacked(buf []vec4.Vec) error {
	for off := 0; off < len(buf); {
		if err := p.beginBlock(); err != nil {
			return err
		}

		block := buf[off:min(off+p.proc.BlockSize-p.phase, len(buf))]
		for i, x := range block {
			block[i] = p.unit(&p.state, x)
		}

		p.advance(len(block))
		off += len(block)
	}

	return nil
}

// beginBlock makes new coefficients when a parameter block starts.
func (p *Processor) beginBlock() error {
	if p.phase != 0 {
		return nil
	}

	return p.updateCoefficients()
}

func (p *Processor) advance(n int) {
	p.phase = (p.phase + n) % p.proc.BlockSize
}

func (p *Processor) processBlock(dst, src [vec4.Lanes][]float64, off, end int) error {
	if err := p.beginBlock(); err != nil {
		return err
	}

	var in [vec4.Lanes][]float64
	for lane, buf := range src {
		if buf != nil {
			in[lane] = buf[off:end]
		}
	}

	frames := p.frames[:end-off]
	vec4.Pack(frames, in)

	for i, x := range frames {
		frames[i] = p.unit(&p.state, x)
	}

	p.advance(len(frames))

	var wet [vec4.Lanes][]float64
	for lane, out := range dst {
		if out != nil {
			wet[lane] = p.wet[lane][:len(frames)]
		}
	}

	vec4.Unpack(wet, frames)

	for lane, out := range dst {
		if out == nil {
			continue
		}

		p.mixLane(out[off:end], in[lane], wet[lane])
	}

	return nil
}

func (p *Processor) updateCoefficients() error {
	for lane, m := range p.makers {
		prm := p.params[lane]
		if err := m.MakeCoeffs(prm.Note, prm.Resonance, p.filter.Type, p.filter.SubType, &prm.Aux, p.snap); err != nil {
			return fmt.Errorf("voice: lane %d: %w", lane, err)
		}

		m.CastLane(&p.state.C, &p.state.DC, lane)
	}

	p.snap = false

	return nil
}

// mixLane writes gain*(mix*wet + (1-mix)*dry) into out. dry is nil for a
// silent source lane.
func (p *Processor) mixLane(out, dry, wet []float64) {
	n := len(out)

	dryScale := p.cfg.gain * (1 - p.cfg.mix)
	if dry != nil && dryScale != 0 {
		scaled := p.dry[:n]
		vecmath.ScaleBlock(scaled, dry, dryScale)
		vecmath.ScaleBlock(out, wet, p.cfg.gain*p.cfg.mix)
		vecmath.AddBlockInPlace(out, scaled)

		return
	}

	vecmath.ScaleBlock(out, wet, p.cfg.gain*p.cfg.mix)
}
