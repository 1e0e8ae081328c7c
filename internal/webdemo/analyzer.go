package webdemo

import (
	"fmt"
	"math"

	algofft "github.com/cwbudde/algo-fft"

	"github.com/cwbudde/algo-delayfx/dsp/delay"
	"github.com/cwbudde/algo-delayfx/dsp/spectrum"
)

// analyzer keeps the most recent output samples and turns them into a
// Hann-windowed magnitude spectrum on request.
type analyzer struct {
	history *delay.Line[float64]
	window  []float64
	plan    *algofft.Plan[complex128]
	in, out []complex128
}

func newAnalyzer(fftSize int) (*analyzer, error) {
	if fftSize < 2 || fftSize&(fftSize-1) != 0 {
		return nil, fmt.Errorf("analyzer fft size must be a power of two: %d", fftSize)
	}

	history, err := delay.New[float64](fftSize)
	if err != nil {
		return nil, err
	}

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("analyzer init fft plan: %w", err)
	}

	// Periodic Hann, normalised to unity coherent gain.
	window := make([]float64, fftSize)
	for i := range window {
		window[i] = 1 - math.Cos(2*math.Pi*float64(i)/float64(fftSize))
	}

	return &analyzer{
		history: history,
		window:  window,
		plan:    plan,
		in:      make([]complex128, fftSize),
		out:     make([]complex128, fftSize),
	}, nil
}

func (a *analyzer) Write(block []float64) {
	for _, v := range block {
		a.history.Push(v)
	}
}

// SpectrumDB returns bins 0..N/2 in dB relative to a full-scale sine.
func (a *analyzer) SpectrumDB() ([]float64, error) {
	n := len(a.window)
	// Before the history fills, Get reads zeros from the unwritten slots.
	start := a.history.Len() - n
	for i := range a.in {
		a.in[i] = complex(a.history.Get(start+i)*a.window[i]*2/float64(n), 0)
	}

	if err := a.plan.Forward(a.out, a.in); err != nil {
		return nil, fmt.Errorf("analyzer forward FFT: %w", err)
	}
	return spectrum.MagnitudeDB(a.out[:n/2+1]), nil
}

func (a *analyzer) Reset() {
	a.history.Reset()
}
