package webdemo

import (
	"math"

	"github.com/cwbudde/algo-delayfx/dsp/signal"
)

const (
	blipToneHz    = 1000
	blipPeriod    = 1.0       // seconds between blips
	blipDuration  = 1.0 / 8.0 // seconds
	blipTableSize = 64
)

// blips is a test source: a 1 kHz square burst with a (1-t/dur)^4 decay,
// repeated once per second.
type blips struct {
	tone *signal.Oscillator
	t    float64
	dt   float64
}

func newBlips(sampleRate float64) (*blips, error) {
	tone, err := signal.NewOscillator(blipTableSize, sampleRate,
		signal.WithWaveform(signal.WaveSquare),
		signal.WithFrequency(blipToneHz))
	if err != nil {
		return nil, err
	}
	return &blips{tone: tone, dt: 1 / sampleRate}, nil
}

// Fill writes the next len(dst) samples.
func (b *blips) Fill(dst []float64) {
	for i := range dst {
		b.t += b.dt
		if b.t >= blipPeriod {
			b.t -= blipPeriod
			b.tone.Reset()
		}

		sqr := b.tone.Next()
		if b.t > blipDuration {
			dst[i] = 0
			continue
		}
		dst[i] = sqr * math.Pow(1-b.t/blipDuration, 4)
	}
}

func (b *blips) Reset() {
	b.t = 0
	b.tone.Reset()
}
