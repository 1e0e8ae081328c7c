package response

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-delayfx/dsp/filter/comb"
)

func TestSchroederExponential(t *testing.T) {
	// e^(-i/100) loses 20*log10(e)/100 dB of amplitude per sample, and the
	// backward energy integral decays at the same rate.
	ir := make([]float64, 4000)
	for i := range ir {
		ir[i] = math.Exp(-float64(i) / 100)
	}

	curve, err := Schroeder(ir)
	if err != nil {
		t.Fatal(err)
	}
	if curve[0] != 0 {
		t.Fatalf("curve[0] = %g, want 0", curve[0])
	}

	wantSlope := -20 * math.Log10(math.E) / 100
	if got := curve[500] - curve[499]; math.Abs(got-wantSlope) > 1e-6 {
		t.Fatalf("slope = %g dB/sample, want %g", got, wantSlope)
	}
}

func TestRT60OfFeedbackComb(t *testing.T) {
	const (
		fs     = 8000.0
		delay  = 0.01
		target = 0.5
	)

	g, err := comb.DecayGain(delay, target)
	if err != nil {
		t.Fatal(err)
	}

	f, err := comb.New(comb.IIR, delay, fs, 1, comb.WithGain(g))
	if err != nil {
		t.Fatal(err)
	}

	ir, err := Impulse(f, int(fs), 512)
	if err != nil {
		t.Fatal(err)
	}

	rt, err := RT60(ir, fs)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(rt-target) > 0.1*target {
		t.Fatalf("RT60 = %g s, want about %g s", rt, target)
	}
}

func TestRT60Errors(t *testing.T) {
	if _, err := RT60(nil, 48000); !errors.Is(err, ErrInvalidLength) {
		t.Fatalf("error = %v, want ErrInvalidLength", err)
	}
	if _, err := RT60([]float64{1}, -1); !errors.Is(err, ErrInvalidSampleRate) {
		t.Fatalf("error = %v, want ErrInvalidSampleRate", err)
	}
	if _, err := RT60([]float64{1, 0, 0, 0}, 48000); !errors.Is(err, ErrNoDecay) {
		t.Fatalf("error = %v, want ErrNoDecay", err)
	}
}
