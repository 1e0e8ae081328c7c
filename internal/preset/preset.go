// Package preset loads effect settings from JSON files and from the compact
// comma list accepted on the command line.
package preset

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/cwbudde/algo-delayfx/dsp/effects/modulation"
	"github.com/cwbudde/algo-delayfx/dsp/filter/comb"
	"github.com/cwbudde/algo-delayfx/dsp/interp"
)

// Effect selects which processor a preset builds.
type Effect string

const (
	EffectComb    Effect = "comb"
	EffectVibrato Effect = "vibrato"
)

// Processor is the block interface shared by every effect a preset can build.
type Processor interface {
	Process(in, out [][]float64) error
	ProcessInPlace(buf [][]float64) error
	Reset()
	NumChannels() int
}

// CombParams configures a comb filter.
type CombParams struct {
	Type     comb.FilterType
	MaxDelay float64 // seconds
	Gain     float64
	Delay    float64 // seconds
}

// VibratoParams configures a vibrato.
type VibratoParams struct {
	RateHz        float64
	Depth         float64 // seconds
	BaseDelay     float64 // seconds
	Interpolation interp.Mode
}

// Params is a fully resolved effect configuration.
type Params struct {
	Effect  Effect
	Comb    CombParams
	Vibrato VibratoParams
}

// NewDefaultParams returns the settings used when nothing is overridden.
func NewDefaultParams() *Params {
	return &Params{
		Effect: EffectComb,
		Comb: CombParams{
			Type:     comb.FIR,
			MaxDelay: 0.1,
			Gain:     0.5,
			Delay:    0.1,
		},
		Vibrato: VibratoParams{
			RateHz:        5,
			Depth:         0.002,
			BaseDelay:     0.005,
			Interpolation: interp.Linear,
		},
	}
}

// File is the JSON schema for effect presets. Nil fields keep the default.
type File struct {
	Effect  *string      `json:"effect"`
	Comb    *CombFile    `json:"comb"`
	Vibrato *VibratoFile `json:"vibrato"`
}

// CombFile is the partial comb section of a preset file. When t60 is set the
// gain is derived from it with comb.DecayGain.
type CombFile struct {
	Type     *string  `json:"type"`
	MaxDelay *float64 `json:"max_delay"`
	Gain     *float64 `json:"gain"`
	Delay    *float64 `json:"delay"`
	T60      *float64 `json:"t60"`
}

// VibratoFile is the partial vibrato section of a preset file.
type VibratoFile struct {
	RateHz        *float64 `json:"rate_hz"`
	Depth         *float64 `json:"depth"`
	BaseDelay     *float64 `json:"base_delay"`
	Interpolation *string  `json:"interpolation"`
}

// LoadJSON loads a preset JSON file and applies it on top of the defaults.
func LoadJSON(path string) (*Params, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var f File
	if err := json.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	p := NewDefaultParams()
	if err := ApplyFile(p, &f); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// ApplyFile applies a parsed preset file onto dst.
func ApplyFile(dst *Params, f *File) error {
	if dst == nil {
		return fmt.Errorf("nil destination params")
	}
	if f == nil {
		return nil
	}

	if f.Effect != nil {
		e, err := ParseEffect(*f.Effect)
		if err != nil {
			return err
		}
		dst.Effect = e
	}
	if f.Comb != nil {
		if err := applyComb(&dst.Comb, f.Comb); err != nil {
			return err
		}
	}
	if f.Vibrato != nil {
		if err := applyVibrato(&dst.Vibrato, f.Vibrato); err != nil {
			return err
		}
	}
	return nil
}

func applyComb(dst *CombParams, f *CombFile) error {
	if f.Type != nil {
		ft, err := comb.ParseFilterType(*f.Type)
		if err != nil {
			return err
		}
		dst.Type = ft
	}
	if f.MaxDelay != nil {
		if *f.MaxDelay <= 0 {
			return fmt.Errorf("comb.max_delay must be > 0")
		}
		dst.MaxDelay = *f.MaxDelay
		if f.Delay == nil && dst.Delay > dst.MaxDelay {
			dst.Delay = dst.MaxDelay
		}
	}
	if f.Delay != nil {
		if *f.Delay < 0 {
			return fmt.Errorf("comb.delay must be >= 0")
		}
		dst.Delay = *f.Delay
	}
	if f.Gain != nil && f.T60 != nil {
		return fmt.Errorf("comb.gain and comb.t60 are mutually exclusive")
	}
	if f.Gain != nil {
		if *f.Gain < 0 {
			return fmt.Errorf("comb.gain must be >= 0")
		}
		dst.Gain = *f.Gain
	}
	if f.T60 != nil {
		g, err := comb.DecayGain(dst.Delay, *f.T60)
		if err != nil {
			return fmt.Errorf("comb.t60: %w", err)
		}
		dst.Gain = g
	}
	return nil
}

func applyVibrato(dst *VibratoParams, f *VibratoFile) error {
	if f.RateHz != nil {
		if *f.RateHz <= 0 {
			return fmt.Errorf("vibrato.rate_hz must be > 0")
		}
		dst.RateHz = *f.RateHz
	}
	if f.Depth != nil {
		if *f.Depth < 0 {
			return fmt.Errorf("vibrato.depth must be >= 0")
		}
		dst.Depth = *f.Depth
	}
	if f.BaseDelay != nil {
		if *f.BaseDelay <= 0 {
			return fmt.Errorf("vibrato.base_delay must be > 0")
		}
		dst.BaseDelay = *f.BaseDelay
	}
	if f.Interpolation != nil {
		mode, err := interp.ParseMode(*f.Interpolation)
		if err != nil {
			return err
		}
		dst.Interpolation = mode
	}
	if dst.Depth > dst.BaseDelay {
		return fmt.Errorf("vibrato.depth %g exceeds base_delay %g", dst.Depth, dst.BaseDelay)
	}
	return nil
}

// ParseEffect parses "comb" or "vibrato".
func ParseEffect(s string) (Effect, error) {
	switch e := Effect(strings.ToLower(strings.TrimSpace(s))); e {
	case EffectComb, EffectVibrato:
		return e, nil
	default:
		return "", fmt.Errorf("unknown effect: %q", s)
	}
}

// ParseCombList parses "TYPE,maxDelay,gain,delay", e.g. "IIR,0.1,0.5,0.05".
// Trailing fields may be omitted; missing gain and delay keep the defaults of
// 0.5 and maxDelay.
func ParseCombList(s string) (CombParams, error) {
	fields := strings.Split(s, ",")
	if len(fields) < 2 || len(fields) > 4 {
		return CombParams{}, fmt.Errorf("comb list needs TYPE,maxDelay[,gain[,delay]]: %q", s)
	}

	ft, err := comb.ParseFilterType(fields[0])
	if err != nil {
		return CombParams{}, err
	}

	values := make([]float64, len(fields)-1)
	for i, field := range fields[1:] {
		v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil {
			return CombParams{}, fmt.Errorf("comb list field %d: %w", i+2, err)
		}
		values[i] = v
	}

	p := CombParams{Type: ft, MaxDelay: values[0], Gain: 0.5, Delay: values[0]}
	if len(values) > 1 {
		p.Gain = values[1]
	}
	if len(values) > 2 {
		p.Delay = values[2]
	}
	return p, nil
}

// NewComb builds the comb filter described by p.
func (p CombParams) NewComb(sampleRate float64, channels int) (*comb.Filter, error) {
	return comb.New(p.Type, p.MaxDelay, sampleRate, channels,
		comb.WithGain(p.Gain), comb.WithDelaySeconds(p.Delay))
}

// NewVibrato builds the vibrato described by p.
func (p VibratoParams) NewVibrato(sampleRate float64, channels int) (*modulation.Vibrato, error) {
	return modulation.NewVibrato(sampleRate, channels,
		modulation.WithVibratoRateHz(p.RateHz),
		modulation.WithVibratoDepthSeconds(p.Depth),
		modulation.WithVibratoBaseDelaySeconds(p.BaseDelay),
		modulation.WithVibratoInterpolation(p.Interpolation))
}

// Build constructs the selected effect.
func (p *Params) Build(sampleRate float64, channels int) (Processor, error) {
	switch p.Effect {
	case EffectComb:
		f, err := p.Comb.NewComb(sampleRate, channels)
		if err != nil {
			return nil, err
		}
		return f, nil
	case EffectVibrato:
		v, err := p.Vibrato.NewVibrato(sampleRate, channels)
		if err != nil {
			return nil, err
		}
		return v, nil
	default:
		return nil, fmt.Errorf("unknown effect: %q", p.Effect)
	}
}
