package core

import "fmt"

// ValidateShape checks that in and out both carry channels channels and that
// every channel slice has the same length as in[0]. It returns the block
// length on success. Errors wrap [ErrShapeMismatch].
func ValidateShape(in, out [][]float64, channels int) (int, error) {
	if len(in) != channels {
		return 0, fmt.Errorf("%w: input has %d channels, want %d", ErrShapeMismatch, len(in), channels)
	}
	if len(out) != channels {
		return 0, fmt.Errorf("%w: output has %d channels, want %d", ErrShapeMismatch, len(out), channels)
	}
	if channels == 0 {
		return 0, nil
	}

	n := len(in[0])
	for ch := range in {
		if len(in[ch]) != n {
			return 0, fmt.Errorf("%w: input channel %d has %d samples, want %d",
				ErrShapeMismatch, ch, len(in[ch]), n)
		}
		if len(out[ch]) != n {
			return 0, fmt.Errorf("%w: output channel %d has %d samples, want %d",
				ErrShapeMismatch, ch, len(out[ch]), n)
		}
	}
	return n, nil
}
