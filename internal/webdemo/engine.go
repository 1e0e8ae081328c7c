// Package webdemo is the real-time engine behind the browser demo. A blip
// source feeds a comb filter or a vibrato. Every UI change, including the
// effect switch and the mix and master gains, arrives through a control queue
// and is applied before the next block, so UI callbacks never touch the
// signal path mid-block.
package webdemo

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"
	"strings"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-delayfx/dsp/control"
	"github.com/cwbudde/algo-delayfx/dsp/core"
	"github.com/cwbudde/algo-delayfx/dsp/effects/modulation"
	"github.com/cwbudde/algo-delayfx/dsp/filter/comb"
)

const (
	queueCapacity   = 64
	analyzerFFTSize = 2048

	defaultCombMaxDelay = 1.0
	defaultCombDelay    = 0.2
	defaultCombGain     = 0.5
)

// Effect selects the processor in the signal path.
type Effect int

const (
	EffectComb Effect = iota
	EffectVibrato
	EffectBypass
)

func (e Effect) String() string {
	switch e {
	case EffectComb:
		return "comb"
	case EffectVibrato:
		return "vibrato"
	case EffectBypass:
		return "bypass"
	default:
		return fmt.Sprintf("Effect(%d)", int(e))
	}
}

type setting int

const (
	settingEffect setting = iota
	settingMix
	settingMaster
)

func (s setting) String() string {
	switch s {
	case settingEffect:
		return "effect"
	case settingMix:
		return "mix"
	case settingMaster:
		return "master"
	default:
		return fmt.Sprintf("setting(%d)", int(s))
	}
}

// ParseEffect parses "comb", "vibrato" or "bypass".
func ParseEffect(s string) (Effect, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "comb":
		return EffectComb, nil
	case "vibrato":
		return EffectVibrato, nil
	case "bypass":
		return EffectBypass, nil
	default:
		return EffectBypass, fmt.Errorf("unknown demo effect: %q", s)
	}
}

// Engine runs the web demo DSP pipeline in Go.
type Engine struct {
	sampleRate float64
	effect     Effect
	mix        float64
	master     float64

	source  *blips
	comb    *comb.Filter
	vibrato *modulation.Vibrato

	settingQueue *control.Queue[setting]
	combQueue    *control.Queue[comb.Param]
	vibratoQueue *control.Queue[modulation.Param]
	applySetting control.SetterFunc[setting]
	lastErr      error

	dry, wet []float64
	block    [][]float64
	peak     float64
	analyzer *analyzer
}

// NewEngine creates a configured audio engine: an IIR comb with a 0.2 s
// delay and 0.5 gain, fully wet.
func NewEngine(sampleRate float64) (*Engine, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("sample rate must be > 0: %f", sampleRate)
	}

	source, err := newBlips(sampleRate)
	if err != nil {
		return nil, err
	}

	cf, err := comb.New(comb.IIR, defaultCombMaxDelay, sampleRate, 1,
		comb.WithDelaySeconds(defaultCombDelay), comb.WithGain(defaultCombGain))
	if err != nil {
		return nil, fmt.Errorf("build comb: %w", err)
	}

	vib, err := modulation.NewVibrato(sampleRate, 1)
	if err != nil {
		return nil, fmt.Errorf("build vibrato: %w", err)
	}

	settingQueue, err := control.NewQueue[setting](queueCapacity)
	if err != nil {
		return nil, err
	}

	combQueue, err := control.NewQueue[comb.Param](queueCapacity)
	if err != nil {
		return nil, err
	}

	vibratoQueue, err := control.NewQueue[modulation.Param](queueCapacity)
	if err != nil {
		return nil, err
	}

	an, err := newAnalyzer(analyzerFFTSize)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		sampleRate:   sampleRate,
		effect:       EffectComb,
		mix:          1,
		master:       0.75,
		source:       source,
		comb:         cf,
		vibrato:      vib,
		settingQueue: settingQueue,
		combQueue:    combQueue,
		vibratoQueue: vibratoQueue,
		block:        make([][]float64, 1),
		analyzer:     an,
	}
	e.applySetting = e.setSetting

	return e, nil
}

// SetEffect queues a processor switch. The new effect starts from silence at
// the next block. Unknown effects are rejected immediately.
func (e *Engine) SetEffect(effect Effect) error {
	switch effect {
	case EffectComb, EffectVibrato, EffectBypass:
	default:
		return fmt.Errorf("unknown demo effect: %v", effect)
	}

	return e.settingQueue.Send(settingEffect, float64(effect))
}

// Effect returns the processor used by the last block.
func (e *Engine) Effect() Effect { return e.effect }

// SetCombDelay queues a comb delay change in seconds.
func (e *Engine) SetCombDelay(seconds float64) error {
	return e.combQueue.Send(comb.Delay, seconds)
}

// SetCombGain queues a comb gain change.
func (e *Engine) SetCombGain(gain float64) error {
	return e.combQueue.Send(comb.Gain, gain)
}

// SetVibratoRate queues a vibrato LFO rate change in Hz.
func (e *Engine) SetVibratoRate(hz float64) error {
	return e.vibratoQueue.Send(modulation.Frequency, hz)
}

// SetVibratoDepth queues a vibrato depth change in seconds.
func (e *Engine) SetVibratoDepth(seconds float64) error {
	return e.vibratoQueue.Send(modulation.Depth, seconds)
}

// SetMix queues a wet amount change. Values are clamped to [0, 1].
func (e *Engine) SetMix(mix float64) error {
	return e.settingQueue.Send(settingMix, mix)
}

// SetMaster queues an output gain change. Values are clamped to [0, 1].
func (e *Engine) SetMaster(master float64) error {
	return e.settingQueue.Send(settingMaster, master)
}

func (e *Engine) setSetting(s setting, value float64) error {
	switch s {
	case settingEffect:
		effect := Effect(value)
		switch effect {
		case EffectComb:
			e.comb.Reset()
		case EffectVibrato:
			e.vibrato.Reset()
		case EffectBypass:
		default:
			return core.InvalidValue(s, value)
		}
		e.effect = effect
	case settingMix:
		if !core.IsFinite(value) {
			return core.InvalidValue(s, value)
		}
		e.mix = core.Clamp(value, 0, 1)
	case settingMaster:
		if !core.IsFinite(value) {
			return core.InvalidValue(s, value)
		}
		e.master = core.Clamp(value, 0, 1)
	default:
		return fmt.Errorf("%w: %v", core.ErrUnknownParam, s)
	}

	return nil
}

// Err returns and clears the parameter errors collected by the last drains.
func (e *Engine) Err() error {
	err := e.lastErr
	e.lastErr = nil
	return err
}

// Peak returns the absolute peak of the last rendered block.
func (e *Engine) Peak() float64 { return e.peak }

// Render fills dst with mono PCM samples in [-1, 1]. Pending parameter
// messages are applied before the block.
func (e *Engine) Render(dst []float32) {
	if len(dst) == 0 {
		return
	}

	e.drain()

	n := len(dst)
	e.dry = core.EnsureLen(e.dry, n)
	e.wet = core.EnsureLen(e.wet, n)
	e.source.Fill(e.dry)
	copy(e.wet, e.dry)

	e.block[0] = e.wet
	var err error
	switch e.effect {
	case EffectComb:
		err = e.comb.ProcessInPlace(e.block)
	case EffectVibrato:
		err = e.vibrato.ProcessInPlace(e.block)
	}
	if err != nil {
		e.lastErr = errors.Join(e.lastErr, err)
	}

	// out = master * ((1-mix)*dry + mix*wet)
	vecmath.ScaleBlockInPlace(e.dry, 1-e.mix)
	vecmath.ScaleBlockInPlace(e.wet, e.mix)
	vecmath.AddBlockInPlace(e.wet, e.dry)
	vecmath.ScaleBlockInPlace(e.wet, e.master)

	e.peak = vecmath.MaxAbs(e.wet)
	e.analyzer.Write(e.wet)

	for i, v := range e.wet {
		dst[i] = float32(core.Clamp(v, -1, 1))
	}
}

func (e *Engine) drain() {
	if err := e.settingQueue.Drain(e.applySetting); err != nil {
		e.lastErr = errors.Join(e.lastErr, err)
	}
	if err := e.combQueue.Drain(e.comb); err != nil {
		e.lastErr = errors.Join(e.lastErr, err)
	}
	if err := e.vibratoQueue.Drain(e.vibrato); err != nil {
		e.lastErr = errors.Join(e.lastErr, err)
	}
}

// ResponseCurveDB returns the magnitude response of the dry/wet path in dB
// for freqs. The vibrato is treated as its centre delay.
func (e *Engine) ResponseCurveDB(freqs []float64) []float64 {
	out := make([]float64, len(freqs))
	for i, f := range freqs {
		f = core.Clamp(f, 1, e.sampleRate*0.49)

		wet := complex(1, 0)
		switch e.effect {
		case EffectComb:
			wet = e.comb.Response(f)
		case EffectVibrato:
			w := 2 * math.Pi * f / e.sampleRate
			d := e.vibrato.BaseDelaySeconds() * e.sampleRate
			wet = cmplx.Exp(complex(0, -w*d))
		}

		h := complex(1-e.mix, 0) + complex(e.mix, 0)*wet
		mag := cmplx.Abs(h) * e.master
		out[i] = core.LinearToDB(math.Max(1e-12, mag))
	}
	return out
}

// SpectrumDB returns the magnitude spectrum of the most recent output.
func (e *Engine) SpectrumDB() ([]float64, error) {
	return e.analyzer.SpectrumDB()
}

// Reset silences every processor and restarts the blip source.
func (e *Engine) Reset() {
	e.source.Reset()
	e.comb.Reset()
	e.vibrato.Reset()
	e.analyzer.Reset()
	e.peak = 0
}
