package testutil

import (
	"math"
	"testing"
)

// RequireSliceNearlyEqual fails t on a length mismatch or on the first
// element pair further apart than eps. eps 0 demands bit-identical values.
func RequireSliceNearlyEqual(t testing.TB, got, want []float64, eps float64) {
	t.Helper()

	if len(got) != len(want) {
		t.Fatalf("len(got) = %d, want %d", len(got), len(want))
	}
	for i := range got {
		if d := math.Abs(got[i] - want[i]); d > eps || (eps == 0 && got[i] != want[i]) {
			t.Fatalf("sample %d: got %v, want %v (|diff| %g > %g)", i, got[i], want[i], d, eps)
		}
	}
}

// RequireChannelsNearlyEqual applies RequireSliceNearlyEqual per channel.
func RequireChannelsNearlyEqual(t testing.TB, got, want [][]float64, eps float64) {
	t.Helper()

	if len(got) != len(want) {
		t.Fatalf("channels: got %d, want %d", len(got), len(want))
	}
	for ch := range got {
		if len(got[ch]) != len(want[ch]) {
			t.Fatalf("channel %d: len %d, want %d", ch, len(got[ch]), len(want[ch]))
		}
		for i := range got[ch] {
			if d := math.Abs(got[ch][i] - want[ch][i]); d > eps || (eps == 0 && got[ch][i] != want[ch][i]) {
				t.Fatalf("channel %d sample %d: got %v, want %v", ch, i, got[ch][i], want[ch][i])
			}
		}
	}
}

// RequireFinite fails t on the first NaN or Inf.
func RequireFinite(t testing.TB, data []float64) {
	t.Helper()

	for i, v := range data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("sample %d is not finite: %v", i, v)
		}
	}
}
