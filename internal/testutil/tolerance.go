package testutil

import (
	"fmt"
	"math"
	"testing"

	"github.com/cwbudde/algo-synth/dsp/core"
	"github.com/cwbudde/algo-synth/dsp/poly"
)

// RequireSliceNearlyEqual fails t if got and want differ in length or if
// any element pair differs by more than eps, absolute or relative.
func RequireSliceNearlyEqual(t *testing.T, got, want []float64, eps float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("length mismatch: got %d, want %d", len(got), len(want))
	}
	for i := range got {
		if !core.NearlyEqual(got[i], want[i], eps) {
			t.Fatalf("index %d: got %v, want %v (diff %v > eps %v)", i, got[i], want[i], math.Abs(got[i]-want[i]), eps)
		}
	}
}

// RequireFinite fails t if any lane of any sample is NaN or Inf.
func RequireFinite(t *testing.T, data []poly.Float) {
	t.Helper()
	for i, v := range data {
		for l, x := range v {
			if math.IsNaN(float64(x)) || math.IsInf(float64(x), 0) {
				t.Fatalf("index %d lane %d: non-finite value %v", i, l, x)
			}
		}
	}
}

// PeakAbs returns the largest absolute lane value in data.
func PeakAbs(data []poly.Float) float64 {
	peak := 0.0
	for _, v := range data {
		for _, x := range v {
			peak = math.Max(peak, math.Abs(float64(x)))
		}
	}
	return peak
}

// MaxAbsDiff returns the maximum absolute difference between two slices.
// Returns an error if the slices differ in length.
func MaxAbsDiff(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("length mismatch: %d vs %d", len(a), len(b))
	}
	maxDiff := 0.0
	for i := range a {
		d := math.Abs(a[i] - b[i])
		if d > maxDiff {
			maxDiff = d
		}
	}
	return maxDiff, nil
}
