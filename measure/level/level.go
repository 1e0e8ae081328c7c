// Package level accumulates peak, RMS and DC levels over a stream of blocks.
package level

import (
	"math"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-delayfx/dsp/core"
)

// Levels holds the time-domain levels of one channel.
type Levels struct {
	Frames      int
	DC          float64 // mean
	RMS         float64
	Peak        float64 // max |x|
	PeakPos     int
	CrestFactor float64 // Peak / RMS, 0 for silence
}

// DCdB returns |DC| in dBFS.
func (l Levels) DCdB() float64 { return core.LinearToDB(math.Abs(l.DC)) }

// RMSdB returns the RMS level in dBFS.
func (l Levels) RMSdB() float64 { return core.LinearToDB(l.RMS) }

// PeakdB returns the peak level in dBFS.
func (l Levels) PeakdB() float64 { return core.LinearToDB(l.Peak) }

// CrestFactordB returns the crest factor in dB.
func (l Levels) CrestFactordB() float64 {
	if l.CrestFactor == 0 {
		return 0
	}
	return core.LinearToDB(l.CrestFactor)
}

// Meter accumulates Levels for a single channel block by block.
type Meter struct {
	frames  int
	sum     float64
	sumSq   float64
	peak    float64
	peakPos int
}

// Update adds a block of samples.
func (m *Meter) Update(block []float64) {
	if len(block) == 0 {
		return
	}

	if p := vecmath.MaxAbs(block); p > m.peak {
		for i, x := range block {
			if math.Abs(x) == p {
				m.peakPos = m.frames + i
				break
			}
		}
		m.peak = p
	}

	m.sum += vecmath.Sum(block)
	m.sumSq += vecmath.DotProduct(block, block)
	m.frames += len(block)
}

// Result returns the levels of everything seen since the last Reset.
func (m *Meter) Result() Levels {
	if m.frames == 0 {
		return Levels{}
	}

	n := float64(m.frames)
	rms := math.Sqrt(m.sumSq / n)

	var crest float64
	if rms > 0 {
		crest = m.peak / rms
	}

	return Levels{
		Frames:      m.frames,
		DC:          m.sum / n,
		RMS:         rms,
		Peak:        m.peak,
		PeakPos:     m.peakPos,
		CrestFactor: crest,
	}
}

// Reset clears the accumulated data.
func (m *Meter) Reset() {
	*m = Meter{}
}

// Measure returns the levels of each channel of a complete signal.
func Measure(channels [][]float64) []Levels {
	out := make([]Levels, len(channels))
	for ch, samples := range channels {
		var m Meter
		m.Update(samples)
		out[ch] = m.Result()
	}
	return out
}
