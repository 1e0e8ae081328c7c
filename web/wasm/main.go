//go:build js && wasm

package main

import (
	"syscall/js"

	"github.com/cwbudde/algo-delayfx/internal/webdemo"
)

var (
	engine *webdemo.Engine
	funcs  []js.Func
)

func main() {
	api := js.Global().Get("Object").New()
	api.Set("init", export(func(args []js.Value) any {
		sr := 48000.0
		if len(args) > 0 {
			sr = args[0].Float()
		}
		e, err := webdemo.NewEngine(sr)
		if err != nil {
			return err.Error()
		}
		engine = e
		return js.Null()
	}))

	api.Set("setEffect", export(func(args []js.Value) any {
		if engine == nil || len(args) < 1 {
			return js.Null()
		}
		eff, err := webdemo.ParseEffect(args[0].String())
		if err != nil {
			return err.Error()
		}
		return errValue(engine.SetEffect(eff))
	}))

	api.Set("setCombDelay", queued(func(v float64) error { return engine.SetCombDelay(v) }))
	api.Set("setCombGain", queued(func(v float64) error { return engine.SetCombGain(v) }))
	api.Set("setVibratoRate", queued(func(v float64) error { return engine.SetVibratoRate(v) }))
	api.Set("setVibratoDepth", queued(func(v float64) error { return engine.SetVibratoDepth(v) }))

	api.Set("setMix", queued(func(v float64) error { return engine.SetMix(v) }))
	api.Set("setMaster", queued(func(v float64) error { return engine.SetMaster(v) }))

	api.Set("render", export(func(args []js.Value) any {
		if engine == nil || len(args) < 1 {
			return js.Global().Get("Float32Array").New(0)
		}
		n := args[0].Int()
		buf := make([]float32, n)
		engine.Render(buf)
		arr := js.Global().Get("Float32Array").New(n)
		for i := 0; i < n; i++ {
			arr.SetIndex(i, buf[i])
		}
		return arr
	}))

	api.Set("responseCurve", export(func(args []js.Value) any {
		if engine == nil || len(args) < 1 {
			return js.Global().Get("Float32Array").New(0)
		}
		input := args[0]
		freqs := make([]float64, input.Length())
		for i := 0; i < input.Length(); i++ {
			freqs[i] = input.Index(i).Float()
		}
		return float32Array(engine.ResponseCurveDB(freqs))
	}))

	api.Set("spectrum", export(func(_ []js.Value) any {
		if engine == nil {
			return js.Global().Get("Float32Array").New(0)
		}
		db, err := engine.SpectrumDB()
		if err != nil {
			return err.Error()
		}
		return float32Array(db)
	}))

	api.Set("peak", export(func(_ []js.Value) any {
		if engine == nil {
			return 0
		}
		return engine.Peak()
	}))

	// Parameter messages are validated on the audio side; the UI polls here.
	api.Set("error", export(func(_ []js.Value) any {
		if engine == nil {
			return js.Null()
		}
		return errValue(engine.Err())
	}))

	js.Global().Set("AlgoDelayFXDemo", api)
	select {}
}

func export(fn func([]js.Value) any) js.Func {
	f := js.FuncOf(func(_ js.Value, args []js.Value) any {
		return fn(args)
	})
	funcs = append(funcs, f)
	return f
}

func queued(set func(float64) error) js.Func {
	return export(func(args []js.Value) any {
		if engine == nil || len(args) < 1 {
			return js.Null()
		}
		return errValue(set(args[0].Float()))
	})
}

func errValue(err error) any {
	if err != nil {
		return err.Error()
	}
	return js.Null()
}

func float32Array(v []float64) js.Value {
	arr := js.Global().Get("Float32Array").New(len(v))
	for i := range v {
		arr.SetIndex(i, v[i])
	}
	return arr
}
