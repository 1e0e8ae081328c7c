package signal

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-delayfx/dsp/core"
)

// Peak returns the largest |x| over all channels.
func Peak(channels ...[]float64) float64 {
	peak := 0.0
	for _, ch := range channels {
		if len(ch) > 0 {
			peak = math.Max(peak, vecmath.MaxAbs(ch))
		}
	}
	return peak
}

// Normalize returns a copy of data scaled so its peak equals targetPeak.
// Silence stays silent.
func Normalize(data []float64, targetPeak float64) ([]float64, error) {
	if targetPeak < 0 || !core.IsFinite(targetPeak) {
		return nil, fmt.Errorf("normalize target peak must be >= 0 and finite: %f", targetPeak)
	}

	out := make([]float64, len(data))
	if peak := Peak(data); peak > 0 {
		vecmath.ScaleBlock(out, data, targetPeak/peak)
	}
	return out, nil
}

// Limit scales all channels in place by one common factor so the joint peak
// does not exceed ceiling. Signals already below the ceiling are untouched.
// It returns the applied gain.
func Limit(channels [][]float64, ceiling float64) (float64, error) {
	if ceiling <= 0 || !core.IsFinite(ceiling) {
		return 0, fmt.Errorf("limit ceiling must be > 0 and finite: %f", ceiling)
	}

	peak := Peak(channels...)
	if peak <= ceiling {
		return 1, nil
	}

	gain := ceiling / peak
	for _, ch := range channels {
		vecmath.ScaleBlockInPlace(ch, gain)
	}
	return gain, nil
}
