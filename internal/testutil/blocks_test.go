package testutil

import (
	"errors"
	"testing"
)

// unitDelay delays each channel by one sample across calls.
type unitDelay struct {
	last  []float64
	calls int
}

func (d *unitDelay) ProcessInPlace(buf [][]float64) error {
	if len(buf) != len(d.last) {
		return errors.New("channel mismatch")
	}
	d.calls++
	for ch, samples := range buf {
		for i, x := range samples {
			samples[i], d.last[ch] = d.last[ch], x
		}
	}
	return nil
}

func TestProcessInBlocks(t *testing.T) {
	input := [][]float64{Ramp(10), DC(2, 10)}
	want := [][]float64{
		{0, 0, 1, 2, 3, 4, 5, 6, 7, 8},
		{0, 2, 2, 2, 2, 2, 2, 2, 2, 2},
	}

	for _, block := range BlockSizes {
		d := &unitDelay{last: make([]float64, 2)}
		got := ProcessInBlocks(t, d, input, block)

		RequireChannelsNearlyEqual(t, got, want, 0)
		if wantCalls := (10 + block - 1) / block; d.calls != wantCalls {
			t.Fatalf("block %d: %d calls, want %d", block, d.calls, wantCalls)
		}
	}

	RequireSliceNearlyEqual(t, input[0], Ramp(10), 0)
}
