package testutil

import (
	"math"
	"math/rand"

	"github.com/cwbudde/algo-quadfilter/dsp/vec4"
)

// DeterministicSine generates a sine wave starting at phase 0.
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)

	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}

	return out
}

// DeterministicNoise generates white noise in [-amplitude, amplitude] with
// a fixed seed.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)

	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}

	return out
}

// Impulse generates a unit impulse at pos.
func Impulse(length, pos int) []float64 {
	out := make([]float64, length)
	if pos >= 0 && pos < length {
		out[pos] = 1
	}

	return out
}

// DC generates a constant signal.
func DC(value float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = value
	}

	return out
}

// NoiseLanes returns four independent noise channels, seeded seed..seed+3.
func NoiseLanes(seed int64, amplitude float64, length int) [vec4.Lanes][]float64 {
	var ch [vec4.Lanes][]float64
	for lane := range ch {
		ch[lane] = DeterministicNoise(seed+int64(lane), amplitude, length)
	}

	return ch
}

// Broadcast packs x into every lane.
func Broadcast(x []float64) []vec4.Vec {
	out := make([]vec4.Vec, len(x))
	for i, v := range x {
		out[i] = vec4.Splat(v)
	}

	return out
}

// Lane extracts one lane of a packed signal.
func Lane(x []vec4.Vec, lane int) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = v[lane]
	}

	return out
}

// RMS returns the root mean square of x, or 0 for an empty slice.
func RMS(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}

	sum := 0.0
	for _, v := range x {
		sum += v * v
	}

	return math.Sqrt(sum / float64(len(x)))
}

// RMSDB returns RMS(x) in dB full scale. Silence yields -Inf.
func RMSDB(x []float64) float64 {
	return 20 * math.Log10(RMS(x))
}
