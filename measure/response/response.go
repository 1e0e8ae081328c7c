package response

import (
	"errors"
	"fmt"
	"math"

	algofft "github.com/cwbudde/algo-fft"

	"github.com/cwbudde/algo-delayfx/dsp/spectrum"
)

// Errors returned by response measurements.
var (
	ErrInvalidLength     = errors.New("response: length must be > 0")
	ErrInvalidSampleRate = errors.New("response: sample rate must be positive")
	ErrInvalidFFTSize    = errors.New("response: fft size must be a power of two")
	ErrNoDecay           = errors.New("response: insufficient decay for RT60")
)

// Processor is a multi-channel block processor.
type Processor interface {
	Process(in, out [][]float64) error
	NumChannels() int
	Reset()
}

// Impulse resets p, feeds a unit impulse into every channel and returns the
// first length output samples of channel 0. Processing runs in blocks of
// blockSize so block-boundary handling is part of the measurement.
func Impulse(p Processor, length, blockSize int) ([]float64, error) {
	if length <= 0 || blockSize <= 0 {
		return nil, ErrInvalidLength
	}

	p.Reset()

	channels := p.NumChannels()
	in := make([][]float64, channels)
	out := make([][]float64, channels)
	result := make([]float64, 0, length)

	for start := 0; start < length; start += blockSize {
		n := min(blockSize, length-start)
		for ch := range in {
			in[ch] = make([]float64, n)
			out[ch] = make([]float64, n)
			if start == 0 {
				in[ch][0] = 1
			}
		}

		if err := p.Process(in, out); err != nil {
			return nil, fmt.Errorf("response: process: %w", err)
		}
		result = append(result, out[0]...)
	}

	return result, nil
}

// Curve is the one-sided spectrum of an impulse response, bins 0..FFTSize/2.
type Curve struct {
	SampleRate float64
	FFTSize    int
	Bins       []complex128
}

// Frequency transforms ir with an fftSize-point FFT. ir is zero padded or
// truncated to fftSize; fftSize 0 selects the next power of two >= len(ir).
func Frequency(ir []float64, sampleRate float64, fftSize int) (Curve, error) {
	if len(ir) == 0 {
		return Curve{}, ErrInvalidLength
	}
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return Curve{}, ErrInvalidSampleRate
	}
	if fftSize == 0 {
		fftSize = nextPowerOf2(len(ir))
	}
	if fftSize < 2 || fftSize&(fftSize-1) != 0 {
		return Curve{}, fmt.Errorf("%w: %d", ErrInvalidFFTSize, fftSize)
	}

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return Curve{}, fmt.Errorf("response: failed to create FFT plan: %w", err)
	}

	padded := make([]complex128, fftSize)
	for i := 0; i < len(ir) && i < fftSize; i++ {
		padded[i] = complex(ir[i], 0)
	}

	bins := make([]complex128, fftSize)
	if err := plan.Forward(bins, padded); err != nil {
		return Curve{}, fmt.Errorf("response: forward FFT failed: %w", err)
	}

	return Curve{SampleRate: sampleRate, FFTSize: fftSize, Bins: bins[:fftSize/2+1]}, nil
}

// Measure is Impulse followed by Frequency, with the impulse length equal to
// the FFT size.
func Measure(p Processor, sampleRate float64, fftSize, blockSize int) (Curve, error) {
	if fftSize < 2 || fftSize&(fftSize-1) != 0 {
		return Curve{}, fmt.Errorf("%w: %d", ErrInvalidFFTSize, fftSize)
	}

	ir, err := Impulse(p, fftSize, blockSize)
	if err != nil {
		return Curve{}, err
	}

	return Frequency(ir, sampleRate, fftSize)
}

// Frequencies returns the centre frequency of each bin in Hz.
func (c Curve) Frequencies() []float64 {
	out := make([]float64, len(c.Bins))
	df := c.SampleRate / float64(c.FFTSize)
	for k := range out {
		out[k] = float64(k) * df
	}
	return out
}

// MagnitudeDB returns the magnitude of each bin in dB.
func (c Curve) MagnitudeDB() []float64 {
	return spectrum.MagnitudeDB(c.Bins)
}

// GroupDelay returns the group delay of each bin in samples.
func (c Curve) GroupDelay() ([]float64, error) {
	return spectrum.GroupDelay(spectrum.UnwrapPhase(spectrum.Phase(c.Bins)), c.FFTSize)
}

// MagnitudeDBAt interpolates the dB magnitude at arbitrary frequencies.
func (c Curve) MagnitudeDBAt(freqHz []float64) ([]float64, error) {
	return spectrum.InterpolateLinear(c.Frequencies(), c.MagnitudeDB(), freqHz)
}

func nextPowerOf2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return max(p, 2)
}
