package core

import "math"

const (
	// ReferenceNote is the note number tuned to ReferenceHz.
	ReferenceNote = 69.0
	// ReferenceHz is the pitch of ReferenceNote.
	ReferenceHz = 440.0
)

// Clamp limits value to the inclusive range [min, max].
func Clamp(value, min, max float64) float64 {
	if min > max {
		min, max = max, min
	}

	if value < min {
		return min
	}

	if value > max {
		return max
	}

	return value
}

// IsFinite reports whether x is neither NaN nor Inf.
func IsFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// FlushDenormals converts tiny denormal-like values to exact zero.
func FlushDenormals(x float64) float64 {
	const epsilon = 1e-30
	if x > -epsilon && x < epsilon {
		return 0
	}

	return x
}

// NoteToHz converts a note number in semitones (69 = 440 Hz) to Hz.
func NoteToHz(note float64) float64 {
	return ReferenceHz * math.Exp2((note-ReferenceNote)/12)
}

// HzToNote is the inverse of NoteToHz. Non-positive input returns -Inf.
func HzToNote(hz float64) float64 {
	if hz <= 0 {
		return math.Inf(-1)
	}

	return ReferenceNote + 12*math.Log2(hz/ReferenceHz)
}

// LinearToDB converts linear amplitude to dB (20*log10 convention).
// Returns -Inf for zero and NaN for negative values.
func LinearToDB(linear float64) float64 {
	if linear < 0 {
		return math.NaN()
	}

	if linear == 0 {
		return math.Inf(-1)
	}

	return 20 * math.Log10(linear)
}

// DBToLinear converts dB to linear amplitude (20*log10 convention).
func DBToLinear(db float64) float64 {
	return math.Pow(10, db/20)
}

// LinearPowerToDB converts linear power to dB (10*log10 convention).
// Returns -Inf for zero and NaN for negative values.
func LinearPowerToDB(power float64) float64 {
	if power < 0 {
		return math.NaN()
	}

	if power == 0 {
		return math.Inf(-1)
	}

	return 10 * math.Log10(power)
}
