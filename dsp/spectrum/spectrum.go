package spectrum

import (
	"fmt"
	"math"
	"math/cmplx"
	"sort"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-delayfx/dsp/core"
)

// minMagnitudeDB is the floor reported for zero-magnitude bins, e.g. the exact
// notches of a unity-gain FIR comb.
const minMagnitudeDB = -300.0

// split copies the real and imaginary parts of in into one scratch slice.
func split(in []complex128) (re, im []float64) {
	parts := make([]float64, 2*len(in))
	re, im = parts[:len(in)], parts[len(in):]
	for i, c := range in {
		re[i] = real(c)
		im[i] = imag(c)
	}
	return re, im
}

// Magnitude returns |X[k]| for each bin.
func Magnitude(in []complex128) []float64 {
	if len(in) == 0 {
		return nil
	}

	out := make([]float64, len(in))
	re, im := split(in)
	vecmath.Magnitude(out, re, im)
	return out
}

// MagnitudeDB returns 20*log10(|X[k]|) for each bin, floored at -300 dB.
func MagnitudeDB(in []complex128) []float64 {
	out := Magnitude(in)
	for i, m := range out {
		out[i] = math.Max(core.LinearToDB(m), minMagnitudeDB)
	}
	return out
}

// Power returns |X[k]|^2 for each bin.
func Power(in []complex128) []float64 {
	if len(in) == 0 {
		return nil
	}

	out := make([]float64, len(in))
	re, im := split(in)
	vecmath.Power(out, re, im)
	return out
}

// Phase returns arg(X[k]) in radians.
func Phase(in []complex128) []float64 {
	if len(in) == 0 {
		return nil
	}

	out := make([]float64, len(in))
	for i, c := range in {
		out[i] = cmplx.Phase(c)
	}
	return out
}

// UnwrapPhase removes +/-2*pi jumps between neighbouring bins.
func UnwrapPhase(phase []float64) []float64 {
	if len(phase) == 0 {
		return nil
	}

	out := make([]float64, len(phase))
	out[0] = phase[0]
	offset := 0.0
	for i := 1; i < len(phase); i++ {
		switch d := phase[i] - phase[i-1]; {
		case d > math.Pi:
			offset -= 2 * math.Pi
		case d < -math.Pi:
			offset += 2 * math.Pi
		}
		out[i] = phase[i] + offset
	}
	return out
}

// GroupDelay returns -dphi/dw in samples for unwrapped phase sampled on the
// bins of an fftSize-point FFT. Interior bins use a centred difference.
func GroupDelay(unwrapped []float64, fftSize int) ([]float64, error) {
	if len(unwrapped) < 2 {
		return nil, fmt.Errorf("group delay requires at least 2 phase points: %d", len(unwrapped))
	}
	if fftSize <= 0 {
		return nil, fmt.Errorf("group delay fftSize must be > 0: %d", fftSize)
	}

	dw := 2 * math.Pi / float64(fftSize)
	last := len(unwrapped) - 1
	out := make([]float64, len(unwrapped))
	for i := range unwrapped {
		var dphi float64
		switch i {
		case 0:
			dphi = unwrapped[1] - unwrapped[0]
		case last:
			dphi = unwrapped[last] - unwrapped[last-1]
		default:
			dphi = (unwrapped[i+1] - unwrapped[i-1]) / 2
		}
		out[i] = -dphi / dw
	}
	return out, nil
}

// InterpolateLinear evaluates the polyline (x, y) at each query point. x must
// be strictly increasing; queries outside the range clamp to the end values.
func InterpolateLinear(x, y, query []float64) ([]float64, error) {
	if len(x) == 0 || len(x) != len(y) {
		return nil, fmt.Errorf("interpolate needs equal non-empty x and y: %d, %d", len(x), len(y))
	}
	for i := 1; i < len(x); i++ {
		if !(x[i] > x[i-1]) {
			return nil, fmt.Errorf("interpolate x must be strictly increasing at index %d", i)
		}
	}

	out := make([]float64, len(query))
	for i, q := range query {
		switch {
		case q <= x[0]:
			out[i] = y[0]
		case q >= x[len(x)-1]:
			out[i] = y[len(y)-1]
		default:
			j := sort.SearchFloat64s(x, q)
			t := (q - x[j-1]) / (x[j] - x[j-1])
			out[i] = y[j-1] + t*(y[j]-y[j-1])
		}
	}
	return out, nil
}
