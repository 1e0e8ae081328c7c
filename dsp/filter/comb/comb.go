package comb

import (
	"fmt"
	"math"
	"math/cmplx"
	"strings"

	"github.com/cwbudde/algo-approx"

	"github.com/cwbudde/algo-delayfx/dsp/core"
	"github.com/cwbudde/algo-delayfx/dsp/delay"
)

// FilterType selects the comb topology.
type FilterType int

const (
	FIR FilterType = iota
	IIR
)

func (t FilterType) String() string {
	switch t {
	case FIR:
		return "FIR"
	case IIR:
		return "IIR"
	default:
		return fmt.Sprintf("FilterType(%d)", int(t))
	}
}

// ParseFilterType parses "FIR" or "IIR" (case-insensitive).
func ParseFilterType(s string) (FilterType, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "FIR":
		return FIR, nil
	case "IIR":
		return IIR, nil
	default:
		return FIR, fmt.Errorf("unknown comb filter type: %q", s)
	}
}

// Param tags the runtime parameters of a [Filter].
type Param int

const (
	// Gain is the linear gain applied to the delayed path.
	Gain Param = iota
	// Delay is the delay time in seconds.
	Delay
)

func (p Param) String() string {
	switch p {
	case Gain:
		return "gain"
	case Delay:
		return "delay"
	default:
		return fmt.Sprintf("Param(%d)", int(p))
	}
}

const defaultGain = 0.5

// Option mutates comb construction parameters.
type Option func(*config) error

type config struct {
	gain         float64
	delaySeconds float64
	hasDelay     bool
}

// WithGain sets the initial gain (>= 0).
func WithGain(gain float64) Option {
	return func(cfg *config) error {
		if gain < 0 || !core.IsFinite(gain) {
			return core.InvalidValue(Gain, gain)
		}
		cfg.gain = gain
		return nil
	}
}

// WithDelaySeconds sets the initial delay time. The default is the maximum delay.
func WithDelaySeconds(seconds float64) Option {
	return func(cfg *config) error {
		if seconds < 0 || !core.IsFinite(seconds) {
			return core.InvalidValue(Delay, seconds)
		}
		cfg.delaySeconds = seconds
		cfg.hasDelay = true
		return nil
	}
}

// Filter is a multi-channel comb filter. Each channel owns its delay line.
type Filter struct {
	filterType      FilterType
	sampleRate      float64
	maxDelaySeconds float64
	maxDelaySamples int

	gain         float64
	delaySamples int

	lines []*delay.Line[float64]
}

// New creates a comb filter. Every delay line is sized maxDelaySamples+1 once;
// later parameter changes never reallocate.
func New(filterType FilterType, maxDelaySeconds, sampleRate float64, numChannels int, opts ...Option) (*Filter, error) {
	if filterType != FIR && filterType != IIR {
		return nil, fmt.Errorf("unknown comb filter type: %v", filterType)
	}
	if sampleRate <= 0 || !core.IsFinite(sampleRate) {
		return nil, core.InvalidValue(core.ParamName("sample rate"), sampleRate)
	}
	if numChannels < 1 {
		return nil, fmt.Errorf("%w: comb channel count must be >= 1: %d", core.ErrShapeMismatch, numChannels)
	}
	if maxDelaySeconds <= 0 || !core.IsFinite(maxDelaySeconds) {
		return nil, core.InvalidValue(core.ParamName("max delay"), maxDelaySeconds)
	}

	maxDelaySamples := int(math.Round(maxDelaySeconds * sampleRate))
	if maxDelaySamples < 1 {
		return nil, core.InvalidValue(core.ParamName("max delay"), maxDelaySeconds)
	}

	cfg := config{gain: defaultGain}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	f := &Filter{
		filterType:      filterType,
		sampleRate:      sampleRate,
		maxDelaySeconds: maxDelaySeconds,
		maxDelaySamples: maxDelaySamples,
		gain:            cfg.gain,
		delaySamples:    maxDelaySamples,
		lines:           make([]*delay.Line[float64], numChannels),
	}
	if cfg.hasDelay {
		if err := f.SetParam(Delay, cfg.delaySeconds); err != nil {
			return nil, err
		}
	}

	for ch := range f.lines {
		line, err := delay.New[float64](maxDelaySamples + 1)
		if err != nil {
			return nil, err
		}
		f.lines[ch] = line
	}
	return f, nil
}

// SetParam validates and applies one parameter. On error the previous value
// is kept.
func (f *Filter) SetParam(p Param, value float64) error {
	switch p {
	case Gain:
		if value < 0 || !core.IsFinite(value) {
			return core.InvalidValue(Gain, value)
		}
		f.gain = value
		return nil
	case Delay:
		if value < 0 || !core.IsFinite(value) {
			return core.InvalidValue(Delay, value)
		}
		samples := int(math.Round(value * f.sampleRate))
		if samples > f.maxDelaySamples {
			return core.InvalidValue(Delay, value)
		}
		if samples == 0 && f.filterType == IIR {
			return core.InvalidValue(Delay, value)
		}
		f.delaySamples = samples
		return nil
	default:
		return fmt.Errorf("%w: %v", core.ErrUnknownParam, p)
	}
}

// GetParam returns the gain or the delay in seconds. Unknown tags return NaN.
func (f *Filter) GetParam(p Param) float64 {
	switch p {
	case Gain:
		return f.gain
	case Delay:
		return float64(f.delaySamples) / f.sampleRate
	default:
		return math.NaN()
	}
}

// Reset clears the delay lines. Gain and delay are kept.
func (f *Filter) Reset() {
	for _, line := range f.lines {
		line.Reset()
	}
}

// Process filters in into out. Both must carry NumChannels equal-length
// channels; the shape is checked before any sample is touched. in and out may
// be the same slices.
func (f *Filter) Process(in, out [][]float64) error {
	if _, err := core.ValidateShape(in, out, len(f.lines)); err != nil {
		return err
	}

	for ch, line := range f.lines {
		f.processChannel(line, in[ch], out[ch])
	}
	return nil
}

// ProcessInPlace filters buf in place.
func (f *Filter) ProcessInPlace(buf [][]float64) error {
	return f.Process(buf, buf)
}

func (f *Filter) processChannel(line *delay.Line[float64], in, out []float64) {
	d := f.delaySamples
	g := f.gain

	for i, x := range in {
		var delayed float64
		if d == 0 {
			delayed = x
		} else {
			line.SetReadIndex(line.WriteIndex() - d)
			delayed = line.Peek()
		}

		y := x + g*delayed
		if f.filterType == IIR {
			line.Push(core.FlushDenormals(y))
		} else {
			line.Push(x)
		}
		out[i] = y
	}
}

// Response returns the complex frequency response at freqHz.
func (f *Filter) Response(freqHz float64) complex128 {
	w := 2 * math.Pi * freqHz / f.sampleRate
	z := complex(f.gain, 0) * cmplx.Exp(complex(0, -w*float64(f.delaySamples)))
	if f.filterType == IIR {
		return 1 / (1 - z)
	}
	return 1 + z
}

// MagnitudeDB returns the magnitude response in dB at freqHz.
func (f *Filter) MagnitudeDB(freqHz float64) float64 {
	return core.LinearToDB(cmplx.Abs(f.Response(freqHz)))
}

// FilterType returns the comb topology.
func (f *Filter) FilterType() FilterType { return f.filterType }

// SampleRate returns the sample rate in Hz.
func (f *Filter) SampleRate() float64 { return f.sampleRate }

// NumChannels returns the configured channel count.
func (f *Filter) NumChannels() int { return len(f.lines) }

// MaxDelaySeconds returns the configured delay bound.
func (f *Filter) MaxDelaySeconds() float64 { return f.maxDelaySeconds }

// DelaySamples returns the current delay in whole samples.
func (f *Filter) DelaySamples() int { return f.delaySamples }

// DecayGain returns the feedback gain that makes an IIR comb with the given
// delay fall by 60 dB after t60Seconds: 10^(-3*delay/t60).
func DecayGain(delaySeconds, t60Seconds float64) (float64, error) {
	if delaySeconds <= 0 || !core.IsFinite(delaySeconds) {
		return 0, core.InvalidValue(Delay, delaySeconds)
	}
	if t60Seconds <= 0 || !core.IsFinite(t60Seconds) {
		return 0, core.InvalidValue(core.ParamName("t60"), t60Seconds)
	}

	x := float32(-3 * math.Ln10 * delaySeconds / t60Seconds)
	return float64(approx.FastExp(x)), nil
}
