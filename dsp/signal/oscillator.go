package signal

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-delayfx/dsp/core"
	"github.com/cwbudde/algo-delayfx/dsp/delay"
)

// Waveform selects the cycle stored in an oscillator's table.
type Waveform int

const (
	WaveSine Waveform = iota
	WaveTriangle
	WaveSaw
	WaveSquare
)

func (w Waveform) String() string {
	switch w {
	case WaveSine:
		return "sine"
	case WaveTriangle:
		return "triangle"
	case WaveSaw:
		return "saw"
	case WaveSquare:
		return "square"
	default:
		return fmt.Sprintf("Waveform(%d)", int(w))
	}
}

// rebaseInterval is the absolute sample spacing at which the phase origin is
// folded back into the table. Keeping it independent of block boundaries makes
// the trajectory identical for any block split.
const rebaseInterval = 1 << 16

// OscillatorOption mutates oscillator construction parameters.
type OscillatorOption func(*oscillatorConfig) error

type oscillatorConfig struct {
	periods   int
	waveform  Waveform
	frequency float64
	amplitude float64
}

func defaultOscillatorConfig() oscillatorConfig {
	return oscillatorConfig{
		periods:   1,
		waveform:  WaveSine,
		frequency: 1,
		amplitude: 1,
	}
}

// WithPeriods stores n waveform cycles in the table instead of one. The
// increment is scaled down by n, so the output frequency stays at the
// configured rate.
func WithPeriods(n int) OscillatorOption {
	return func(cfg *oscillatorConfig) error {
		if n < 1 {
			return core.InvalidValue(core.ParamName("oscillator periods"), float64(n))
		}
		cfg.periods = n
		return nil
	}
}

// WithWaveform selects the stored waveform.
func WithWaveform(w Waveform) OscillatorOption {
	return func(cfg *oscillatorConfig) error {
		if w < WaveSine || w > WaveSquare {
			return fmt.Errorf("unknown oscillator waveform: %v", w)
		}
		cfg.waveform = w
		return nil
	}
}

// WithFrequency sets the initial modulation frequency in Hz.
func WithFrequency(hz float64) OscillatorOption {
	return func(cfg *oscillatorConfig) error {
		if hz < 0 || !core.IsFinite(hz) {
			return core.InvalidValue(core.ParamName("oscillator frequency"), hz)
		}
		cfg.frequency = hz
		return nil
	}
}

// WithAmplitude sets the initial output amplitude.
func WithAmplitude(a float64) OscillatorOption {
	return func(cfg *oscillatorConfig) error {
		if !core.IsFinite(a) {
			return core.InvalidValue(core.ParamName("oscillator amplitude"), a)
		}
		cfg.amplitude = a
		return nil
	}
}

// Oscillator is a wavetable LFO.
//
// Phase is owned in one way only: the phase at the start of the current block
// is fixed until [Oscillator.Advance] moves it, and [Oscillator.ValueAt]
// evaluates "block start + offset" without side effects. [Oscillator.Next] is
// ValueAt(0) followed by Advance(1), so per-sample and per-block driving yield
// bit-identical trajectories.
type Oscillator struct {
	table      *delay.Line[float64]
	sampleRate float64
	periods    int
	waveform   Waveform
	frequency  float64
	amplitude  float64

	increment float64 // table slots per sample
	origin    float64 // phase at the last rebase, in [0, table size)
	elapsed   int     // samples since origin, in [0, rebaseInterval)
}

// NewOscillator fills a table of tableSize entries and returns an oscillator
// running at sampleRate.
func NewOscillator(tableSize int, sampleRate float64, opts ...OscillatorOption) (*Oscillator, error) {
	if sampleRate <= 0 || !core.IsFinite(sampleRate) {
		return nil, core.InvalidValue(core.ParamName("sample rate"), sampleRate)
	}

	cfg := defaultOscillatorConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	table, err := delay.New[float64](tableSize)
	if err != nil {
		return nil, fmt.Errorf("oscillator table: %w", err)
	}
	for i := 0; i < tableSize; i++ {
		u := math.Mod(float64(cfg.periods*i)/float64(tableSize), 1)
		table.Push(waveformAt(cfg.waveform, u))
	}

	o := &Oscillator{
		table:      table,
		sampleRate: sampleRate,
		periods:    cfg.periods,
		waveform:   cfg.waveform,
		amplitude:  cfg.amplitude,
	}
	o.setFrequency(cfg.frequency)
	return o, nil
}

// waveformAt evaluates one cycle at u in [0,1), starting at zero and rising.
func waveformAt(w Waveform, u float64) float64 {
	switch w {
	case WaveTriangle:
		switch {
		case u < 0.25:
			return 4 * u
		case u < 0.75:
			return 2 - 4*u
		default:
			return 4*u - 4
		}
	case WaveSaw:
		if u < 0.5 {
			return 2 * u
		}
		return 2*u - 2
	case WaveSquare:
		if u < 0.5 {
			return 1
		}
		return -1
	default:
		return math.Sin(2 * math.Pi * u)
	}
}

// SetFrequency changes the modulation rate without touching the table. The
// current phase is kept so the output stays continuous.
func (o *Oscillator) SetFrequency(hz float64) error {
	if hz < 0 || !core.IsFinite(hz) {
		return core.InvalidValue(core.ParamName("oscillator frequency"), hz)
	}
	o.origin = o.phaseAt(0)
	o.elapsed = 0
	o.setFrequency(hz)
	return nil
}

func (o *Oscillator) setFrequency(hz float64) {
	o.frequency = hz
	o.increment = hz * float64(o.table.Cap()) / (float64(o.periods) * o.sampleRate)
}

// SetAmplitude sets the output scale.
func (o *Oscillator) SetAmplitude(a float64) {
	o.amplitude = a
}

// Frequency returns the modulation rate in Hz.
func (o *Oscillator) Frequency() float64 { return o.frequency }

// Amplitude returns the output scale.
func (o *Oscillator) Amplitude() float64 { return o.amplitude }

// SampleRate returns the sample rate in Hz.
func (o *Oscillator) SampleRate() float64 { return o.sampleRate }

// Waveform returns the stored waveform.
func (o *Oscillator) Waveform() Waveform { return o.waveform }

// TableSize returns the number of table entries.
func (o *Oscillator) TableSize() int { return o.table.Cap() }

// Phase returns the block-start phase in table slots, in [0, TableSize).
func (o *Oscillator) Phase() float64 { return o.phaseAt(0) }

// ValueAt returns the output offset samples after the block start. It does
// not change the oscillator state.
func (o *Oscillator) ValueAt(offset int) float64 {
	return o.amplitude * o.table.GetFractional(o.phaseAt(offset))
}

// Fill writes ValueAt(0..len(dst)-1) into dst without advancing.
func (o *Oscillator) Fill(dst []float64) {
	for i := range dst {
		dst[i] = o.ValueAt(i)
	}
}

// Advance moves the block start forward by n samples.
func (o *Oscillator) Advance(n int) {
	if n <= 0 {
		return
	}
	o.elapsed += n
	for o.elapsed >= rebaseInterval {
		o.origin = o.wrapPhase(o.origin + rebaseInterval*o.increment)
		o.elapsed -= rebaseInterval
	}
}

// Next returns the current value and advances by one sample.
func (o *Oscillator) Next() float64 {
	v := o.ValueAt(0)
	o.Advance(1)
	return v
}

// Reset returns the phase to zero.
func (o *Oscillator) Reset() {
	o.origin = 0
	o.elapsed = 0
}

func (o *Oscillator) phaseAt(offset int) float64 {
	origin, m := o.origin, o.elapsed+offset
	for m >= rebaseInterval {
		origin = o.wrapPhase(origin + rebaseInterval*o.increment)
		m -= rebaseInterval
	}
	return o.wrapPhase(origin + float64(m)*o.increment)
}

func (o *Oscillator) wrapPhase(p float64) float64 {
	n := float64(o.table.Cap())
	p = math.Mod(p, n)
	if p < 0 {
		p += n
	}
	if p >= n {
		p = 0
	}
	return p
}
