package webdemo

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-delayfx/dsp/control"
	"github.com/cwbudde/algo-delayfx/dsp/core"
)

const testRate = 8000.0

func newTestEngine(t *testing.T) *Engine {
	t.Helper()

	e, err := NewEngine(testRate)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	if err := e.SetMaster(1); err != nil {
		t.Fatal(err)
	}
	e.drain()

	return e
}

func TestNewEngineRejectsBadRate(t *testing.T) {
	for _, sr := range []float64{0, -1, math.NaN()} {
		if _, err := NewEngine(sr); err == nil {
			t.Fatalf("NewEngine(%g) expected error", sr)
		}
	}
}

func TestBlipTiming(t *testing.T) {
	e := newTestEngine(t)
	if err := e.SetEffect(EffectBypass); err != nil {
		t.Fatal(err)
	}

	buf := make([]float32, int(testRate))
	e.Render(buf)

	peak := 0.0
	for _, v := range buf[:100] {
		peak = math.Max(peak, math.Abs(float64(v)))
	}
	if peak < 0.5 {
		t.Fatalf("blip peak = %g, want > 0.5", peak)
	}

	for i := 1001; i < 7990; i++ {
		if buf[i] != 0 {
			t.Fatalf("sample %d = %g, want silence after the blip", i, buf[i])
		}
	}
}

func TestCombEchoesBlip(t *testing.T) {
	e := newTestEngine(t)

	buf := make([]float32, 4000)
	// Uneven render sizes exercise block boundaries.
	for start := 0; start < len(buf); {
		end := min(start+333, len(buf))
		e.Render(buf[start:end])
		start = end
	}

	const d = 1600 // 0.2 s at 8 kHz
	for k := 0; k < 1000; k++ {
		if buf[d+k] != 0.5*buf[k] {
			t.Fatalf("echo sample %d = %g, want %g", d+k, buf[d+k], 0.5*buf[k])
		}
	}
}

func TestParameterMessagesApplyBetweenBlocks(t *testing.T) {
	e := newTestEngine(t)
	freq := []float64{5} // five cycles per second line up with the 0.2 s delay

	before := e.ResponseCurveDB(freq)[0]
	if math.Abs(before-core.LinearToDB(2)) > 1e-9 {
		t.Fatalf("initial response = %g dB", before)
	}

	if err := e.SetCombGain(-1); err != nil {
		t.Fatal(err)
	}
	if err := e.SetCombGain(0.25); err != nil {
		t.Fatal(err)
	}

	// Nothing changes until the audio side drains.
	if got := e.ResponseCurveDB(freq)[0]; got != before {
		t.Fatalf("response changed before Render: %g", got)
	}

	e.Render(make([]float32, 64))

	var invalid *core.InvalidValueError
	if err := e.Err(); !errors.As(err, &invalid) || invalid.Value != -1 {
		t.Fatalf("Err() = %v, want rejected gain", err)
	}
	if err := e.Err(); err != nil {
		t.Fatalf("Err() not cleared: %v", err)
	}

	after := e.ResponseCurveDB(freq)[0]
	if math.Abs(after-core.LinearToDB(1/0.75)) > 1e-9 {
		t.Fatalf("response after gain change = %g dB", after)
	}
}

func TestQueueOverflow(t *testing.T) {
	e := newTestEngine(t)

	var err error
	for i := 0; i <= queueCapacity && err == nil; i++ {
		err = e.SetVibratoRate(3)
	}
	if !errors.Is(err, control.ErrQueueFull) {
		t.Fatalf("error = %v, want ErrQueueFull", err)
	}

	e.Render(make([]float32, 16))
	if err := e.SetVibratoRate(4); err != nil {
		t.Fatalf("queue not drained: %v", err)
	}
}

func TestVibratoPathIsFlat(t *testing.T) {
	e := newTestEngine(t)
	if err := e.SetEffect(EffectVibrato); err != nil {
		t.Fatal(err)
	}
	if err := e.SetVibratoDepth(0.001); err != nil {
		t.Fatal(err)
	}

	buf := make([]float32, 2048)
	e.Render(buf)
	if err := e.Err(); err != nil {
		t.Fatal(err)
	}
	if e.Peak() <= 0 {
		t.Fatal("expected signal through the vibrato")
	}

	for _, db := range e.ResponseCurveDB([]float64{50, 500, 3000}) {
		if math.Abs(db) > 1e-9 {
			t.Fatalf("vibrato response = %g dB, want 0", db)
		}
	}
}

func TestMixAndMaster(t *testing.T) {
	e := newTestEngine(t)
	if err := e.SetMix(0); err != nil {
		t.Fatal(err)
	}
	if err := e.SetMaster(0.5); err != nil {
		t.Fatal(err)
	}
	if e.mix != 1 || e.master != 1 {
		t.Fatalf("applied before Render: mix=%g master=%g", e.mix, e.master)
	}

	e.Render(make([]float32, 64))

	for _, db := range e.ResponseCurveDB([]float64{5, 100}) {
		if math.Abs(db-core.LinearToDB(0.5)) > 1e-9 {
			t.Fatalf("dry response = %g dB", db)
		}
	}

	_ = e.SetMix(2)
	_ = e.SetMaster(-1)
	e.drain()
	if e.mix != 1 || e.master != 0 {
		t.Fatalf("clamp failed: mix=%g master=%g", e.mix, e.master)
	}

	_ = e.SetMix(math.NaN())
	e.drain()

	var invalid *core.InvalidValueError
	if err := e.Err(); !errors.As(err, &invalid) || invalid.Param != settingMix {
		t.Fatalf("Err() = %v, want rejected mix", err)
	}
	if e.mix != 1 {
		t.Fatalf("mix = %g after rejected change", e.mix)
	}
}

func TestSpectrumShowsBlipTone(t *testing.T) {
	e := newTestEngine(t)
	if err := e.SetEffect(EffectBypass); err != nil {
		t.Fatal(err)
	}

	e.Render(make([]float32, analyzerFFTSize))

	db, err := e.SpectrumDB()
	if err != nil {
		t.Fatal(err)
	}
	if len(db) != analyzerFFTSize/2+1 {
		t.Fatalf("bins = %d", len(db))
	}

	best := 0
	for k := range db {
		if db[k] > db[best] {
			best = k
		}
	}
	want := int(blipToneHz * analyzerFFTSize / testRate)
	if best < want-2 || best > want+2 {
		t.Fatalf("spectral peak at bin %d, want about %d", best, want)
	}
}

func TestSetEffect(t *testing.T) {
	e := newTestEngine(t)

	if err := e.SetEffect(Effect(9)); err == nil {
		t.Fatal("expected error")
	}
	if e.Effect() != EffectComb {
		t.Fatalf("effect = %v", e.Effect())
	}

	for _, name := range []string{"Vibrato", "bypass", "comb"} {
		eff, err := ParseEffect(name)
		if err != nil {
			t.Fatalf("ParseEffect(%q): %v", name, err)
		}

		prev := e.Effect()
		if err := e.SetEffect(eff); err != nil {
			t.Fatal(err)
		}
		if e.Effect() != prev {
			t.Fatalf("effect switched to %v before Render", e.Effect())
		}

		e.Render(make([]float32, 32))
		if e.Effect() != eff {
			t.Fatalf("effect = %v after Render, want %v", e.Effect(), eff)
		}
	}
	if _, err := ParseEffect("reverb"); err == nil {
		t.Fatal("expected error")
	}
}

func TestRenderEmptyAndReset(t *testing.T) {
	e := newTestEngine(t)
	e.Render(nil)

	first := make([]float32, 512)
	e.Render(first)
	e.Reset()

	again := make([]float32, 512)
	e.Render(again)
	for i := range first {
		if first[i] != again[i] {
			t.Fatalf("sample %d differs after Reset: %g vs %g", i, first[i], again[i])
		}
	}
}

func TestRenderDoesNotAllocate(t *testing.T) {
	e := newTestEngine(t)
	buf := make([]float32, 256)
	e.Render(buf)

	allocs := testing.AllocsPerRun(50, func() {
		_ = e.SetCombGain(0.4)
		_ = e.SetMix(0.8)
		e.Render(buf)
	})
	if allocs != 0 {
		t.Fatalf("allocs per block = %g, want 0", allocs)
	}
	if err := e.Err(); err != nil {
		t.Fatal(err)
	}
}
