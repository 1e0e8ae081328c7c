package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/cwbudde/algo-delayfx/dsp/core"
	"github.com/cwbudde/algo-delayfx/dsp/filter/comb"
	"github.com/cwbudde/algo-delayfx/dsp/signal"
	"github.com/cwbudde/algo-delayfx/internal/preset"
	"github.com/cwbudde/algo-delayfx/internal/wavio"
	"github.com/cwbudde/algo-delayfx/measure/level"
	"github.com/cwbudde/algo-delayfx/measure/response"
)

var errNothingToDo = errors.New("nothing to do: give -in and -out, or -response")

type options struct {
	in, out    string
	presetPath string
	effect     string
	combList   string

	combType string
	maxDelay float64
	gain     float64
	delay    float64
	t60      float64

	rate   float64
	depth  float64
	base   float64
	interp string

	blockSize  int
	sampleRate float64
	normalize  bool

	response bool
	fftSize  int
	points   int
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("delayfx", flag.ContinueOnError)
	fs.SetOutput(stderr)

	defaults := core.DefaultProcessorConfig()

	var o options
	fs.StringVar(&o.in, "in", "", "input WAV file")
	fs.StringVar(&o.out, "out", "", "output WAV file, or .txt for one text column per channel")
	fs.StringVar(&o.presetPath, "preset", "", "JSON preset applied before the flags")
	fs.StringVar(&o.effect, "effect", "", "effect to run: comb or vibrato")
	fs.StringVar(&o.combList, "comb", "", "comb settings as TYPE,maxDelay[,gain[,delay]], e.g. IIR,0.1,0.5,0.05")
	fs.StringVar(&o.combType, "type", "", "comb filter type: FIR or IIR")
	fs.Float64Var(&o.maxDelay, "max", 0, "comb maximum delay in seconds")
	fs.Float64Var(&o.gain, "gain", 0, "comb gain")
	fs.Float64Var(&o.delay, "delay", 0, "comb delay in seconds")
	fs.Float64Var(&o.t60, "t60", 0, "derive the comb gain from a decay time in seconds")
	fs.Float64Var(&o.rate, "rate", 0, "vibrato LFO rate in Hz")
	fs.Float64Var(&o.depth, "depth", 0, "vibrato depth in seconds")
	fs.Float64Var(&o.base, "base", 0, "vibrato base delay in seconds")
	fs.StringVar(&o.interp, "interp", "", "vibrato interpolation: linear or hermite")
	fs.IntVar(&o.blockSize, "block", defaults.BlockSize, "processing block size in samples")
	fs.Float64Var(&o.sampleRate, "sr", defaults.SampleRate, "sample rate for -response without -in")
	fs.BoolVar(&o.normalize, "normalize", false, "scale the output down if it would clip")
	fs.BoolVar(&o.response, "response", false, "print the frequency response of the effect")
	fs.IntVar(&o.fftSize, "fft", 8192, "FFT size for -response")
	fs.IntVar(&o.points, "points", 32, "number of response rows to print")
	fs.Usage = func() {
		_, _ = fmt.Fprintf(stderr, "Usage: delayfx [flags]\n\n")
		_, _ = fmt.Fprintf(stderr, "Runs a comb filter or a vibrato over a WAV file.\n\n")
		_, _ = fmt.Fprintf(stderr, "Flags:\n")
		fs.PrintDefaults()
		_, _ = fmt.Fprintf(stderr, "\nExamples:\n")
		_, _ = fmt.Fprintf(stderr, "  delayfx -in in.wav -out out.wav -comb IIR,0.5,0.6,0.25\n")
		_, _ = fmt.Fprintf(stderr, "  delayfx -in in.wav -out out.txt -effect vibrato -rate 6\n")
		_, _ = fmt.Fprintf(stderr, "  delayfx -type FIR -delay 0.001 -response\n")
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}

	if (o.in == "") != (o.out == "") {
		return errors.New("-in and -out must be given together")
	}
	if o.in == "" && !o.response {
		fs.Usage()
		return errNothingToDo
	}

	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	params, err := resolveParams(&o, set)
	if err != nil {
		return err
	}

	if o.blockSize <= 0 {
		return fmt.Errorf("block size must be > 0: %d", o.blockSize)
	}
	cfg := core.ApplyProcessorOptions(
		core.WithBlockSize(o.blockSize),
		core.WithSampleRate(o.sampleRate),
	)

	if o.in != "" {
		a, err := wavio.Read(o.in)
		if err != nil {
			return err
		}
		cfg = core.ApplyProcessorOptions(
			core.WithBlockSize(cfg.BlockSize),
			core.WithSampleRate(float64(a.SampleRate)),
			core.WithChannels(len(a.Channels)),
		)

		out, err := processFile(params, cfg, a, o.out, o.normalize)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(stdout, "%s: %d frames x %d channels at %d Hz -> %s\n",
			params.Effect, a.Frames(), len(a.Channels), a.SampleRate, o.out)
		if err := printLevels(stdout, a.Channels, out); err != nil {
			return err
		}
	}

	if o.response {
		return printResponse(stdout, params, cfg, o.fftSize, o.points)
	}
	return nil
}

// resolveParams layers defaults, the preset file, the comb list and finally
// the individual flags that were given explicitly.
func resolveParams(o *options, set map[string]bool) (*preset.Params, error) {
	params := preset.NewDefaultParams()
	if o.presetPath != "" {
		p, err := preset.LoadJSON(o.presetPath)
		if err != nil {
			return nil, err
		}
		params = p
	}

	if o.combList != "" {
		cp, err := preset.ParseCombList(o.combList)
		if err != nil {
			return nil, err
		}
		params.Comb = cp
		params.Effect = preset.EffectComb
	}

	if o.effect != "" {
		e, err := preset.ParseEffect(o.effect)
		if err != nil {
			return nil, err
		}
		params.Effect = e
	}

	var f preset.File
	if set["type"] || set["max"] || set["gain"] || set["delay"] || set["t60"] {
		f.Comb = &preset.CombFile{}
		if set["type"] {
			f.Comb.Type = &o.combType
		}
		if set["max"] {
			f.Comb.MaxDelay = &o.maxDelay
		}
		if set["gain"] {
			f.Comb.Gain = &o.gain
		}
		if set["delay"] {
			f.Comb.Delay = &o.delay
		}
		if set["t60"] {
			f.Comb.T60 = &o.t60
		}
	}
	if set["rate"] || set["depth"] || set["base"] || set["interp"] {
		f.Vibrato = &preset.VibratoFile{}
		if set["rate"] {
			f.Vibrato.RateHz = &o.rate
		}
		if set["depth"] {
			f.Vibrato.Depth = &o.depth
		}
		if set["base"] {
			f.Vibrato.BaseDelay = &o.base
		}
		if set["interp"] {
			f.Vibrato.Interpolation = &o.interp
		}
	}
	if err := preset.ApplyFile(params, &f); err != nil {
		return nil, err
	}

	return params, nil
}

func processFile(params *preset.Params, cfg core.ProcessorConfig, a *wavio.Audio, outPath string, normalize bool) ([][]float64, error) {
	p, err := params.Build(cfg.SampleRate, cfg.Channels)
	if err != nil {
		return nil, err
	}

	out, err := processBlocks(p, a.Channels, cfg.BlockSize)
	if err != nil {
		return nil, err
	}

	if normalize {
		if _, err := signal.Limit(out, 1); err != nil {
			return nil, err
		}
	}

	if strings.EqualFold(filepath.Ext(outPath), ".txt") {
		err = writeText(outPath, out)
	} else {
		err = wavio.Write(outPath, &wavio.Audio{SampleRate: a.SampleRate, Channels: out})
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}

// processBlocks runs p over the whole signal in blocks of blockSize. The last
// block may be shorter.
func processBlocks(p preset.Processor, channels [][]float64, blockSize int) ([][]float64, error) {
	frames := 0
	if len(channels) > 0 {
		frames = len(channels[0])
	}

	out := make([][]float64, len(channels))
	for ch := range out {
		out[ch] = make([]float64, frames)
	}

	in := make([][]float64, len(channels))
	blockOut := make([][]float64, len(channels))
	for start := 0; start < frames; start += blockSize {
		end := min(start+blockSize, frames)
		for ch := range channels {
			in[ch] = channels[ch][start:end]
			blockOut[ch] = out[ch][start:end]
		}
		if err := p.Process(in, blockOut); err != nil {
			return nil, fmt.Errorf("block at frame %d: %w", start, err)
		}
	}
	return out, nil
}

func printLevels(w io.Writer, in, out [][]float64) error {
	inLevels := level.Measure(in)
	outLevels := level.Measure(out)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(tw, "Channel\tIn Peak [dB]\tIn RMS [dB]\tOut Peak [dB]\tOut RMS [dB]\n")
	for ch := range inLevels {
		_, _ = fmt.Fprintf(tw, "%d\t%.2f\t%.2f\t%.2f\t%.2f\n", ch,
			inLevels[ch].PeakdB(), inLevels[ch].RMSdB(),
			outLevels[ch].PeakdB(), outLevels[ch].RMSdB())
	}
	return tw.Flush()
}

func writeText(path string, channels [][]float64) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := wavio.WriteText(f, channels); err != nil {
		_ = f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	return f.Close()
}

func printResponse(w io.Writer, params *preset.Params, cfg core.ProcessorConfig, fftSize, points int) error {
	if points < 2 {
		return fmt.Errorf("points must be >= 2: %d", points)
	}

	p, err := params.Build(cfg.SampleRate, 1)
	if err != nil {
		return err
	}

	curve, err := response.Measure(p, cfg.SampleRate, fftSize, cfg.BlockSize)
	if err != nil {
		return err
	}

	nyquist := cfg.SampleRate / 2
	freqs := make([]float64, points)
	for i := range freqs {
		freqs[i] = nyquist * float64(i) / float64(points-1)
	}
	mags, err := curve.MagnitudeDBAt(freqs)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(w, "%s\n", describe(params))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(tw, "Frequency [Hz]\tMagnitude [dB]\n")
	_, _ = fmt.Fprintf(tw, "--------------\t--------------\n")
	for i, f := range freqs {
		_, _ = fmt.Fprintf(tw, "%.1f\t%.2f\n", f, mags[i])
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if params.Effect == preset.EffectComb && params.Comb.Type == comb.IIR {
		ir, err := response.Impulse(p, int(10*cfg.SampleRate), cfg.BlockSize)
		if err != nil {
			return err
		}
		rt60, err := response.RT60(ir, cfg.SampleRate)
		switch {
		case errors.Is(err, response.ErrNoDecay):
			_, _ = fmt.Fprintf(w, "RT60: n/a\n")
		case err != nil:
			return err
		default:
			_, _ = fmt.Fprintf(w, "RT60: %.3f s\n", rt60)
		}
	}
	return nil
}

func describe(params *preset.Params) string {
	switch params.Effect {
	case preset.EffectVibrato:
		v := params.Vibrato
		return fmt.Sprintf("vibrato: rate %g Hz, depth %g s, base delay %g s, %s",
			v.RateHz, v.Depth, v.BaseDelay, v.Interpolation)
	default:
		c := params.Comb
		return fmt.Sprintf("comb %s: gain %g, delay %g s (max %g s)",
			c.Type, c.Gain, c.Delay, c.MaxDelay)
	}
}
