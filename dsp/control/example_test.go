package control_test

import (
	"fmt"

	"github.com/cwbudde/algo-delayfx/dsp/control"
	"github.com/cwbudde/algo-delayfx/dsp/filter/comb"
)

func ExampleQueue_Drain() {
	f, err := comb.New(comb.FIR, 0.5, 100, 1)
	if err != nil {
		panic(err)
	}

	q, err := control.NewQueue[comb.Param](8)
	if err != nil {
		panic(err)
	}

	// Producer side, e.g. a UI goroutine.
	_ = q.Send(comb.Gain, 0.8)
	_ = q.Send(comb.Gain, -3)

	// Audio side, before the next block.
	err = q.Drain(f)
	fmt.Println(f.GetParam(comb.Gain))
	fmt.Println(err)
	// Output:
	// 0.8
	// invalid value for gain: -3
}
