package testutil

import (
	"fmt"
	"math"
	"testing"

	"github.com/cwbudde/algo-quadfilter/dsp/vec4"
)

// RequireSliceNearlyEqual fails t if got and want differ in length or if
// any element pair exceeds eps (absolute tolerance).
func RequireSliceNearlyEqual(t *testing.T, got, want []float64, eps float64) {
	t.Helper()

	if len(got) != len(want) {
		t.Fatalf("length mismatch: got %d, want %d", len(got), len(want))
	}

	for i := range got {
		if diff := math.Abs(got[i] - want[i]); diff > eps {
			t.Fatalf("index %d: got %v, want %v (diff %v > eps %v)", i, got[i], want[i], diff, eps)
		}
	}
}

// RequireVecNearlyEqual fails t if any lane of got and want differs by more
// than eps.
func RequireVecNearlyEqual(t *testing.T, got, want vec4.Vec, eps float64) {
	t.Helper()

	for lane := range got {
		if diff := math.Abs(got[lane] - want[lane]); diff > eps {
			t.Fatalf("lane %d: got %v, want %v (diff %v > eps %v)", lane, got[lane], want[lane], diff, eps)
		}
	}
}

// RequireFinite fails t if any element is NaN or Inf.
func RequireFinite(t *testing.T, data []float64) {
	t.Helper()

	for i, v := range data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("index %d: non-finite value %v", i, v)
		}
	}
}

// RequireFiniteVec fails t if any lane of any frame is NaN or Inf.
func RequireFiniteVec(t *testing.T, data []vec4.Vec) {
	t.Helper()

	for i, v := range data {
		if !v.IsFinite() {
			t.Fatalf("frame %d: non-finite value %v", i, v)
		}
	}
}

// MaxAbsDiff returns the maximum absolute difference between two slices.
// Returns an error if the slices differ in length.
func MaxAbsDiff(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("length mismatch: %d vs %d", len(a), len(b))
	}

	maxDiff := 0.0
	for i := range a {
		maxDiff = max(maxDiff, math.Abs(a[i]-b[i]))
	}

	return maxDiff, nil
}
