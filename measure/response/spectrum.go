package response

import (
	"fmt"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-quadfilter/dsp/core"
	vecmath "github.com/cwbudde/algo-vecmath"
)

// MagnitudeResponse transforms the first fftSize samples of the impulse
// response and returns the gain in dB for every bin from DC to Nyquist.
func (p *Probe) MagnitudeResponse(fftSize int) ([]Point, error) {
	re, im, err := p.spectrum(fftSize)
	if err != nil {
		return nil, err
	}

	mag := make([]float64, len(re))
	vecmath.Magnitude(mag, re, im)

	return p.binPoints(fftSize, mag, core.LinearToDB), nil
}

// PowerResponse reads the same dB values as MagnitudeResponse from the
// squared magnitude, without the square root.
func (p *Probe) PowerResponse(fftSize int) ([]Point, error) {
	re, im, err := p.spectrum(fftSize)
	if err != nil {
		return nil, err
	}

	pow := make([]float64, len(re))
	vecmath.Power(pow, re, im)

	return p.binPoints(fftSize, pow, core.LinearPowerToDB), nil
}

// spectrum returns the real and imaginary parts of bins 0..fftSize/2 of
// the impulse response.
func (p *Probe) spectrum(fftSize int) (re, im []float64, err error) {
	if fftSize < 2 || fftSize&(fftSize-1) != 0 {
		return nil, nil, fmt.Errorf("%w: %d", ErrInvalidFFTSize, fftSize)
	}

	ir, err := p.ImpulseResponse(fftSize)
	if err != nil {
		return nil, nil, err
	}

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, nil, fmt.Errorf("response: failed to create FFT plan: %w", err)
	}

	in := make([]complex128, fftSize)
	for i, v := range ir {
		in[i] = complex(v, 0)
	}

	spec := make([]complex128, fftSize)
	if err := plan.Forward(spec, in); err != nil {
		return nil, nil, fmt.Errorf("response: forward FFT failed: %w", err)
	}

	bins := fftSize/2 + 1
	re = make([]float64, bins)
	im = make([]float64, bins)

	for i := range bins {
		re[i] = real(spec[i])
		im[i] = imag(spec[i])
	}

	return re, im, nil
}

func (p *Probe) binPoints(fftSize int, values []float64, toDB func(float64) float64) []Point {
	points := make([]Point, len(values))
	binHz := p.proc.SampleRate / float64(fftSize)

	for i, v := range values {
		points[i] = Point{Hz: float64(i) * binHz, DB: toDB(v)}
	}

	return points
}
