package testutil

import "testing"

// BlockSizes are the block lengths block-invariance tests iterate over.
var BlockSizes = []int{1, 7, 1024}

// InPlaceProcessor is any effect that processes channel-major blocks in place.
type InPlaceProcessor interface {
	ProcessInPlace(buf [][]float64) error
}

// ProcessInBlocks feeds input through p in chunks of block frames and
// returns the concatenated output. input is not modified.
func ProcessInBlocks(t testing.TB, p InPlaceProcessor, input [][]float64, block int) [][]float64 {
	t.Helper()

	if block <= 0 {
		t.Fatalf("block size must be > 0: %d", block)
	}

	frames := 0
	if len(input) > 0 {
		frames = len(input[0])
	}

	out := make([][]float64, len(input))
	for ch := range out {
		out[ch] = make([]float64, frames)
	}

	chunk := make([][]float64, len(input))
	for start := 0; start < frames; start += block {
		end := min(start+block, frames)
		for ch := range input {
			chunk[ch] = out[ch][start:end]
			copy(chunk[ch], input[ch][start:end])
		}

		if err := p.ProcessInPlace(chunk); err != nil {
			t.Fatalf("ProcessInPlace at frame %d: %v", start, err)
		}
	}

	return out
}
