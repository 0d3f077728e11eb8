package quad

import (
	"math"

	"github.com/cwbudde/algo-quadfilter/dsp/core"
)

const (
	minCutoffRatio       = 1e-5
	maxCutoffRatio       = 0.49
	maxLadderCutoffRatio = 0.45
	ladderMaxFeedback    = 4.0
)

type response int

const (
	responseLowpass response = iota
	responseHighpass
	responseBandpass
	responseNotch
)

func responseOf(t FilterType) response {
	switch t {
	case TypeHP12, TypeHP24:
		return responseHighpass
	case TypeBP12, TypeBP24:
		return responseBandpass
	case TypeNotch12, TypeNotch24:
		return responseNotch
	default:
		return responseLowpass
	}
}

// design returns the target coefficient set of cfg. cfg is valid and reso
// is already clamped to [0, 1].
func (m *CoefficientMaker) design(cfg Config, freq, reso float64, aux *AuxData) [NumCoeffs]float64 {
	switch cfg.Type {
	case TypeAllpass:
		return m.allpassCoeffs(freq)
	case TypeLadderLP:
		return m.ladderCoeffs(freq, reso, aux)
	case TypeSampleHold:
		return m.sampleHoldCoeffs(freq, reso)
	}

	resp := responseOf(cfg.Type)
	k := m.damping(reso)

	switch cfg.SubType {
	case SubTypeRough:
		ratio := m.cutoffRatio(roughNoteToHz(freq), maxCutoffRatio)
		return biquadCoeffs(resp, tanPade(math.Pi*ratio), k)
	case SubTypeSmooth:
		ratio := m.cutoffRatio(core.NoteToHz(freq), maxCutoffRatio)
		return biquadCoeffs(resp, math.Tan(math.Pi*ratio), k)
	case SubTypeNotch, SubTypeNotchMild:
		depth := 1.0
		if cfg.SubType == SubTypeNotchMild {
			depth = m.cfg.notchMildDepth
		}

		if aux != nil && aux.NotchDepth > 0 {
			depth = min(aux.NotchDepth, 1)
		}

		ratio := m.cutoffRatio(core.NoteToHz(freq), maxCutoffRatio)

		return svfCoeffs(math.Tan(math.Pi*ratio), k, 1, -k*depth, 0)
	default:
		ratio := m.cutoffRatio(core.NoteToHz(freq), maxCutoffRatio)
		g := math.Tan(math.Pi * ratio)

		switch resp {
		case responseHighpass:
			return svfCoeffs(g, k, 1, -k, -1)
		case responseBandpass:
			return svfCoeffs(g, k, 0, k, 0)
		default:
			return svfCoeffs(g, k, 0, 0, 1)
		}
	}
}

// damping maps resonance onto k = 1/Q: 2 (critically damped) at 0, down
// to 2*(1-ceiling) at 1.
func (m *CoefficientMaker) damping(reso float64) float64 {
	return 2 * (1 - m.cfg.resonanceCeiling*reso)
}

func (m *CoefficientMaker) cutoffRatio(hz, maxRatio float64) float64 {
	return core.Clamp(hz/m.proc.SampleRate, minCutoffRatio, maxRatio)
}

func roughNoteToHz(note float64) float64 {
	return core.ReferenceHz * fastExp((note-core.ReferenceNote)*(math.Ln2/12))
}

// svfCoeffs builds the TPT state-variable set for g = tan(pi*fc/fs) plus
// the output mix of input, band and low taps.
func svfCoeffs(g, k, mixIn, mixBand, mixLow float64) [NumCoeffs]float64 {
	var c [NumCoeffs]float64

	a1 := 1 / (1 + g*(g+k))
	a2 := g * a1

	c[svfA1] = a1
	c[svfA2] = a2
	c[svfA3] = g * a2
	c[svfK] = k
	c[svfMixIn] = mixIn
	c[svfMixBand] = mixBand
	c[svfMixLow] = mixLow

	return c
}

// biquadCoeffs is the bilinear transform of the analog prototype with
// damping k, prewarped so w = tan(pi*fc/fs). The band-pass has unity peak
// gain so that it matches the SVF band tap scaled by k.
func biquadCoeffs(resp response, w, k float64) [NumCoeffs]float64 {
	var c [NumCoeffs]float64

	w2 := w * w
	inv := 1 / (1 + k*w + w2)

	switch resp {
	case responseHighpass:
		c[bqB0] = inv
		c[bqB1] = -2 * inv
		c[bqB2] = inv
	case responseBandpass:
		c[bqB0] = k * w * inv
		c[bqB1] = 0
		c[bqB2] = -k * w * inv
	default:
		c[bqB0] = w2 * inv
		c[bqB1] = 2 * w2 * inv
		c[bqB2] = w2 * inv
	}

	c[bqA1] = 2 * (w2 - 1) * inv
	c[bqA2] = (1 - k*w + w2) * inv

	return c
}

func (m *CoefficientMaker) allpassCoeffs(freq float64) [NumCoeffs]float64 {
	var c [NumCoeffs]float64

	t := math.Tan(math.Pi * m.cutoffRatio(core.NoteToHz(freq), maxCutoffRatio))
	c[apfA] = (t - 1) / (t + 1)

	return c
}

// ladderCoeffs applies Huovilainen's cutoff and resonance tuning
// polynomials. The stage gain is divided by the tanh shape so the
// small-signal cutoff does not move with drive. The output scale undoes
// the DC loss of the feedback loop.
func (m *CoefficientMaker) ladderCoeffs(freq, reso float64, aux *AuxData) [NumCoeffs]float64 {
	var c [NumCoeffs]float64

	drive := 1.0
	if aux != nil && aux.Drive > 0 {
		drive = aux.Drive
	}

	fc := m.cutoffRatio(roughNoteToHz(freq), maxLadderCutoffRatio)

	fcr := max(1.8730*fc*fc*fc+0.4955*fc*fc-0.6490*fc+0.9988, 0)
	resonanceComp := max(-3.9364*fc*fc+1.8409*fc+0.9968, 0)

	shape := drive / (2 * m.cfg.thermalVoltage)
	feedback := ladderMaxFeedback * reso * resonanceComp

	c[ladderG] = (1 - fastExp(-2*math.Pi*fcr*fc)) / shape
	c[ladderFeedback] = feedback
	c[ladderShape] = shape
	c[ladderOut] = 1 + feedback

	return c
}

// sampleHoldCoeffs maps the note onto a trigger rate in triggers per sample.
func (m *CoefficientMaker) sampleHoldCoeffs(freq, reso float64) [NumCoeffs]float64 {
	var c [NumCoeffs]float64

	c[snhRate] = core.Clamp(core.NoteToHz(freq)/m.proc.SampleRate, 0, 1)
	c[snhFeedback] = reso

	return c
}
