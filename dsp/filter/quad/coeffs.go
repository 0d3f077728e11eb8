package quad

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-quadfilter/dsp/core"
	"github.com/cwbudde/algo-quadfilter/dsp/vec4"
)

const (
	defaultThermalVoltage    = 1.0
	defaultNotchMildDepth    = 0.82
	defaultResonanceCeiling  = 0.985
	minThermalVoltage        = 0.1
	maxThermalVoltage        = 10.0
	maxResonanceCeilingValue = 0.999
)

var (
	// ErrNotConfigured is returned by MakeCoeffs before a sample rate and
	// block size have been set.
	ErrNotConfigured = errors.New("quad: sample rate and block size not set")
	// ErrInvalidParameter is returned for a NaN frequency or resonance.
	ErrInvalidParameter = errors.New("quad: parameter is NaN")
	// ErrInvalidSampleRate is returned for a sample rate that is not finite and positive.
	ErrInvalidSampleRate = core.ErrInvalidSampleRate
	// ErrInvalidBlockSize is returned for a block size below one sample.
	ErrInvalidBlockSize = core.ErrInvalidBlockSize
)

// AuxData carries topology-specific inputs the base parameters do not
// express. A nil *AuxData selects the defaults.
type AuxData struct {
	// Drive scales the ladder input into its nonlinearity. Zero means 1.
	Drive float64
	// NotchDepth overrides the notch rejection depth in (0, 1]. Zero keeps
	// the subtype default.
	NotchDepth float64
}

// MakerOption mutates CoefficientMaker configuration.
type MakerOption func(*makerConfig) error

type makerConfig struct {
	thermalVoltage   float64
	notchMildDepth   float64
	resonanceCeiling float64
}

func defaultMakerConfig() makerConfig {
	return makerConfig{
		thermalVoltage:   defaultThermalVoltage,
		notchMildDepth:   defaultNotchMildDepth,
		resonanceCeiling: defaultResonanceCeiling,
	}
}

// WithThermalVoltage sets the ladder's tanh scaling in [0.1, 10]. Lower
// values saturate earlier.
func WithThermalVoltage(vt float64) MakerOption {
	return func(cfg *makerConfig) error {
		if !core.IsFinite(vt) || vt < minThermalVoltage || vt > maxThermalVoltage {
			return fmt.Errorf("quad: thermal voltage must be in [%g, %g]: %v", minThermalVoltage, maxThermalVoltage, vt)
		}

		cfg.thermalVoltage = vt

		return nil
	}
}

// WithNotchMildDepth sets the rejection depth of SubTypeNotchMild in (0, 1).
func WithNotchMildDepth(depth float64) MakerOption {
	return func(cfg *makerConfig) error {
		if !core.IsFinite(depth) || depth <= 0 || depth >= 1 {
			return fmt.Errorf("quad: mild notch depth must be in (0, 1): %v", depth)
		}

		cfg.notchMildDepth = depth

		return nil
	}
}

// WithResonanceCeiling sets how close resonance 1 gets to self-oscillation
// for the two-pole cores, in (0, 0.999].
func WithResonanceCeiling(ceiling float64) MakerOption {
	return func(cfg *makerConfig) error {
		if !core.IsFinite(ceiling) || ceiling <= 0 || ceiling > maxResonanceCeilingValue {
			return fmt.Errorf("quad: resonance ceiling must be in (0, %g]: %v", maxResonanceCeilingValue, ceiling)
		}

		cfg.resonanceCeiling = ceiling

		return nil
	}
}

// CoefficientMaker derives per-topology coefficients and the per-sample
// glide that moves a State from the previous block's target to the new one.
//
// The zero value is usable after SetSampleRateAndBlockSize. A maker serves
// one parameter stream; use one maker per lane for per-lane parameters.
type CoefficientMaker struct {
	cfg  makerConfig
	proc core.ProcessorConfig

	c      [NumCoeffs]float64
	dc     [NumCoeffs]float64
	target [NumCoeffs]float64

	primed bool
	last   Config
}

// NewCoefficientMaker returns a maker configured for sampleRate and blockSize.
func NewCoefficientMaker(sampleRate float64, blockSize int, opts ...MakerOption) (*CoefficientMaker, error) {
	m := &CoefficientMaker{cfg: defaultMakerConfig()}

	for _, opt := range opts {
		if opt == nil {
			continue
		}

		if err := opt(&m.cfg); err != nil {
			return nil, err
		}
	}

	if err := m.SetSampleRateAndBlockSize(sampleRate, blockSize); err != nil {
		return nil, err
	}

	return m, nil
}

// SetSampleRateAndBlockSize sets the time base. The next MakeCoeffs snaps
// instead of gliding.
func (m *CoefficientMaker) SetSampleRateAndBlockSize(sampleRate float64, blockSize int) error {
	proc, err := core.NewProcessorConfig(sampleRate, core.WithBlockSize(blockSize))
	if err != nil {
		return fmt.Errorf("quad: %w", err)
	}

	if m.cfg == (makerConfig{}) {
		m.cfg = defaultMakerConfig()
	}

	m.proc = proc
	m.Reset()

	return nil
}

// SampleRate returns the configured sample rate, or 0 when unset.
func (m *CoefficientMaker) SampleRate() float64 { return m.proc.SampleRate }

// BlockSize returns the configured block size, or 0 when unset.
func (m *CoefficientMaker) BlockSize() int { return m.proc.BlockSize }

// Reset forgets the glide history so the next MakeCoeffs snaps.
func (m *CoefficientMaker) Reset() {
	m.c = [NumCoeffs]float64{}
	m.dc = [NumCoeffs]float64{}
	m.target = [NumCoeffs]float64{}
	m.primed = false
}

// MakeCoeffs computes the coefficients of (t, st) at note freq (semitones,
// 69 = 440 Hz) and resonance reso (clamped to [0, 1]).
//
// With isBlockStart set, or on the first call after construction, Reset or
// a change of (t, st), the coefficients snap to the target and the glide is
// zero. Otherwise the start value is the previous target and the glide
// reaches the new target after exactly BlockSize samples.
func (m *CoefficientMaker) MakeCoeffs(freq, reso float64, t FilterType, st SubType, aux *AuxData, isBlockStart bool) error {
	if m.proc.SampleRate <= 0 || m.proc.BlockSize <= 0 {
		return ErrNotConfigured
	}

	cfg := Config{Type: t, SubType: st}
	if !Valid(t, st) {
		return fmt.Errorf("%w: %s", ErrUnsupported, cfg)
	}

	if math.IsNaN(freq) || math.IsNaN(reso) {
		return fmt.Errorf("%w: freq=%v reso=%v", ErrInvalidParameter, freq, reso)
	}

	target := m.design(cfg, freq, core.Clamp(reso, 0, 1), aux)

	if isBlockStart || !m.primed || cfg != m.last {
		m.c = target
		m.dc = [NumCoeffs]float64{}
	} else {
		inv := 1 / float64(m.proc.BlockSize)

		m.c = m.target
		for i := range m.dc {
			m.dc[i] = (target[i] - m.c[i]) * inv
		}
	}

	m.target = target
	m.primed = true
	m.last = cfg

	return nil
}

// Coefficients returns the block start value and per-sample glide.
func (m *CoefficientMaker) Coefficients() (c, dc [NumCoeffs]float64) {
	return m.c, m.dc
}

// Target returns the value the glide reaches at the end of the block.
func (m *CoefficientMaker) Target() [NumCoeffs]float64 {
	return m.target
}

// CastCoefficients broadcasts the block start value and glide into all
// four lanes of c and dc.
func (m *CoefficientMaker) CastCoefficients(c, dc *[NumCoeffs]vec4.Vec) {
	for i := range NumCoeffs {
		c[i] = vec4.Splat(m.c[i])
		dc[i] = vec4.Splat(m.dc[i])
	}
}

// CastLane writes the block start value and glide into one lane only.
// Out-of-range lanes are ignored.
func (m *CoefficientMaker) CastLane(c, dc *[NumCoeffs]vec4.Vec, lane int) {
	if lane < 0 || lane >= vec4.Lanes {
		return
	}

	for i := range NumCoeffs {
		c[i][lane] = m.c[i]
		dc[i][lane] = m.dc[i]
	}
}

// UpdateState casts the coefficients into s.
func (m *CoefficientMaker) UpdateState(s *State) {
	m.CastCoefficients(&s.C, &s.DC)
}
