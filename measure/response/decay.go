package response

import (
	"fmt"
	"math"
)

// schroederFloorDB is reported where the remaining energy is exactly zero.
const schroederFloorDB = -200.0

// Schroeder returns the backward-integrated energy decay curve of ir in dB,
// normalised to 0 dB at the first sample.
func Schroeder(ir []float64) ([]float64, error) {
	if len(ir) == 0 {
		return nil, ErrInvalidLength
	}

	out := make([]float64, len(ir))
	var sum float64
	for i := len(ir) - 1; i >= 0; i-- {
		sum += ir[i] * ir[i]
		out[i] = sum
	}

	total := out[0]
	for i, e := range out {
		if total <= 0 || e <= 0 {
			out[i] = schroederFloorDB
			continue
		}
		out[i] = 10 * math.Log10(e/total)
	}
	return out, nil
}

// RT60 estimates the -60 dB decay time of ir in seconds. The Schroeder curve
// is fitted between -5 and -35 dB (T30); if it never reaches -35 dB the
// -5..-25 dB range (T20) is used instead.
func RT60(ir []float64, sampleRate float64) (float64, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return 0, ErrInvalidSampleRate
	}

	curve, err := Schroeder(ir)
	if err != nil {
		return 0, err
	}

	for _, end := range []float64{-35, -25} {
		if slope, ok := decaySlope(curve, -5, end); ok {
			return -60 / (slope * sampleRate), nil
		}
	}
	return 0, fmt.Errorf("%w: %d samples", ErrNoDecay, len(ir))
}

// decaySlope fits a line to curve between the first samples at or below
// startDB and endDB and returns its slope in dB per sample.
func decaySlope(curve []float64, startDB, endDB float64) (float64, bool) {
	start, end := -1, -1
	for i, v := range curve {
		if start < 0 && v <= startDB {
			start = i
		}
		if start >= 0 && v <= endDB {
			end = i
			break
		}
	}
	if start < 0 || end <= start {
		return 0, false
	}

	var sx, sy, sxx, sxy float64
	for i := start; i <= end; i++ {
		x := float64(i - start)
		y := curve[i]
		sx += x
		sy += y
		sxx += x * x
		sxy += x * y
	}

	n := float64(end - start + 1)
	denom := n*sxx - sx*sx
	if denom == 0 {
		return 0, false
	}

	slope := (n*sxy - sx*sy) / denom
	return slope, slope < 0
}
