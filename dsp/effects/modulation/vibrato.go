package modulation

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-delayfx/dsp/core"
	"github.com/cwbudde/algo-delayfx/dsp/delay"
	"github.com/cwbudde/algo-delayfx/dsp/interp"
	"github.com/cwbudde/algo-delayfx/dsp/signal"
)

const (
	defaultVibratoRateHz           = 5.0
	defaultVibratoDepthSeconds     = 0.002
	defaultVibratoBaseDelaySeconds = 0.005

	vibratoTableSize = 2048
)

// Param tags the runtime parameters of a [Vibrato].
type Param int

const (
	// Frequency is the LFO rate in Hz.
	Frequency Param = iota
	// Depth is the peak delay excursion in seconds.
	Depth
)

func (p Param) String() string {
	switch p {
	case Frequency:
		return "frequency"
	case Depth:
		return "depth"
	default:
		return fmt.Sprintf("Param(%d)", int(p))
	}
}

// VibratoOption mutates vibrato construction parameters.
type VibratoOption func(*vibratoConfig) error

type vibratoConfig struct {
	rateHz       float64
	depthSeconds float64
	baseDelay    float64
	mode         interp.Mode
}

func defaultVibratoConfig() vibratoConfig {
	return vibratoConfig{
		rateHz:       defaultVibratoRateHz,
		depthSeconds: defaultVibratoDepthSeconds,
		baseDelay:    defaultVibratoBaseDelaySeconds,
		mode:         interp.Linear,
	}
}

// WithVibratoRateHz sets modulation speed in Hz.
func WithVibratoRateHz(rateHz float64) VibratoOption {
	return func(cfg *vibratoConfig) error {
		if rateHz <= 0 || !core.IsFinite(rateHz) {
			return core.InvalidValue(Frequency, rateHz)
		}

		cfg.rateHz = rateHz

		return nil
	}
}

// WithVibratoDepthSeconds sets the peak delay excursion in seconds. It must
// not exceed the base delay.
func WithVibratoDepthSeconds(depth float64) VibratoOption {
	return func(cfg *vibratoConfig) error {
		if depth < 0 || !core.IsFinite(depth) {
			return core.InvalidValue(Depth, depth)
		}

		cfg.depthSeconds = depth

		return nil
	}
}

// WithVibratoBaseDelaySeconds sets the centre delay in seconds.
func WithVibratoBaseDelaySeconds(baseDelay float64) VibratoOption {
	return func(cfg *vibratoConfig) error {
		if baseDelay <= 0 || !core.IsFinite(baseDelay) {
			return core.InvalidValue(core.ParamName("vibrato base delay"), baseDelay)
		}

		cfg.baseDelay = baseDelay

		return nil
	}
}

// WithVibratoInterpolation selects how fractional taps are read.
func WithVibratoInterpolation(mode interp.Mode) VibratoOption {
	return func(cfg *vibratoConfig) error {
		if mode != interp.Linear && mode != interp.Hermite {
			return fmt.Errorf("vibrato interpolation mode not supported: %v", mode)
		}

		cfg.mode = mode

		return nil
	}
}

// Vibrato is a pitch-wobble effect: one delay line per channel read at
// base + depth*lfo(t), with the LFO shared by all channels. The base delay is
// rounded to whole samples, so zero depth is an exact fixed delay. The output
// is the delayed signal only.
type Vibrato struct {
	sampleRate float64
	baseDelay  float64
	depth      float64
	mode       interp.Mode

	baseSamples float64

	osc   *signal.Oscillator
	lines []*delay.Line[float64]
	lfo   []float64
}

// NewVibrato creates a vibrato with practical defaults and optional overrides.
func NewVibrato(sampleRate float64, numChannels int, opts ...VibratoOption) (*Vibrato, error) {
	if sampleRate <= 0 || !core.IsFinite(sampleRate) {
		return nil, core.InvalidValue(core.ParamName("sample rate"), sampleRate)
	}

	if numChannels < 1 {
		return nil, fmt.Errorf("%w: vibrato channel count must be >= 1: %d", core.ErrShapeMismatch, numChannels)
	}

	cfg := defaultVibratoConfig()

	for _, opt := range opts {
		if opt == nil {
			continue
		}

		err := opt(&cfg)
		if err != nil {
			return nil, err
		}
	}

	if cfg.depthSeconds > cfg.baseDelay {
		return nil, core.InvalidValue(Depth, cfg.depthSeconds)
	}

	osc, err := signal.NewOscillator(vibratoTableSize, sampleRate,
		signal.WithFrequency(cfg.rateHz),
		signal.WithAmplitude(cfg.depthSeconds*sampleRate))
	if err != nil {
		return nil, err
	}

	v := &Vibrato{
		sampleRate:  sampleRate,
		baseDelay:   cfg.baseDelay,
		depth:       cfg.depthSeconds,
		mode:        cfg.mode,
		baseSamples: math.Round(cfg.baseDelay * sampleRate),
		osc:         osc,
		lines:       make([]*delay.Line[float64], numChannels),
	}

	// Depth can grow up to the unrounded base delay at runtime, so size for
	// 2*base plus rounding slack and the interpolation neighbours.
	capacity := int(math.Ceil(2*cfg.baseDelay*sampleRate)) + 3
	for ch := range v.lines {
		line, err := delay.New[float64](capacity)
		if err != nil {
			return nil, err
		}

		v.lines[ch] = line
	}

	return v, nil
}

// NewVibratoWith creates a linear-interpolating vibrato from positional
// settings.
func NewVibratoWith(sampleRate, modFreq, depthSeconds, baseDelaySeconds float64, numChannels int) (*Vibrato, error) {
	return NewVibrato(sampleRate, numChannels,
		WithVibratoRateHz(modFreq),
		WithVibratoDepthSeconds(depthSeconds),
		WithVibratoBaseDelaySeconds(baseDelaySeconds))
}

// SetParam validates and applies one parameter. On error the previous value
// is kept.
func (v *Vibrato) SetParam(p Param, value float64) error {
	switch p {
	case Frequency:
		if value <= 0 || !core.IsFinite(value) {
			return core.InvalidValue(Frequency, value)
		}

		return v.osc.SetFrequency(value)
	case Depth:
		if value < 0 || value > v.baseDelay || !core.IsFinite(value) {
			return core.InvalidValue(Depth, value)
		}

		v.depth = value
		v.osc.SetAmplitude(value * v.sampleRate)

		return nil
	default:
		return fmt.Errorf("%w: %v", core.ErrUnknownParam, p)
	}
}

// GetParam returns the LFO rate in Hz or the depth in seconds. Unknown tags
// return NaN.
func (v *Vibrato) GetParam(p Param) float64 {
	switch p {
	case Frequency:
		return v.osc.Frequency()
	case Depth:
		return v.depth
	default:
		return math.NaN()
	}
}

// SampleRate returns the sample rate in Hz.
func (v *Vibrato) SampleRate() float64 { return v.sampleRate }

// NumChannels returns the configured channel count.
func (v *Vibrato) NumChannels() int { return len(v.lines) }

// BaseDelaySeconds returns the centre delay in seconds.
func (v *Vibrato) BaseDelaySeconds() float64 { return v.baseDelay }

// Interpolation returns the fractional read mode.
func (v *Vibrato) Interpolation() interp.Mode { return v.mode }

// Reset clears the delay lines and restarts the LFO at phase zero.
func (v *Vibrato) Reset() {
	for _, line := range v.lines {
		line.Reset()
	}

	v.osc.Reset()
}

// Process applies vibrato from in to out. The LFO is sampled once per sample
// index and shared by all channels, then advanced by the block length. in and
// out may be the same slices.
func (v *Vibrato) Process(in, out [][]float64) error {
	n, err := core.ValidateShape(in, out, len(v.lines))
	if err != nil {
		return err
	}

	v.lfo = core.EnsureLen(v.lfo, n)
	v.osc.Fill(v.lfo)

	for ch, line := range v.lines {
		src, dst := in[ch], out[ch]
		for i, x := range src {
			line.Push(x)
			dst[i] = v.tap(line, v.baseSamples+v.lfo[i])
		}
	}

	v.osc.Advance(n)

	return nil
}

// ProcessInPlace applies vibrato to buf in place.
func (v *Vibrato) ProcessInPlace(buf [][]float64) error {
	return v.Process(buf, buf)
}

// tap reads the sample pushed delaySamples before the newest one.
func (v *Vibrato) tap(line *delay.Line[float64], delaySamples float64) float64 {
	// Rounding the base can push base-depth half a sample below zero.
	delaySamples = max(delaySamples, 0)
	pos := float64(line.WriteIndex()-1) - delaySamples
	whole := math.Floor(pos)
	line.SetReadIndex(int(whole))

	// The cubic kernel reads one slot past x1, which is not written yet
	// for delays under one sample.
	if v.mode == interp.Hermite && delaySamples >= 1 {
		return line.GetCubic(pos - whole)
	}

	return line.GetFractional(pos - whole)
}
