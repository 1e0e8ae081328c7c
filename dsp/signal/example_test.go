package signal_test

import (
	"fmt"

	"github.com/cwbudde/algo-delayfx/dsp/signal"
)

func ExampleNormalize() {
	x, err := signal.Normalize([]float64{-0.5, 0.25, 1}, 0.8)
	if err != nil {
		panic(err)
	}
	fmt.Printf("%.2f %.2f %.2f\n", x[0], x[1], x[2])

	// Output:
	// -0.40 0.20 0.80
}

func ExampleLimit() {
	stereo := [][]float64{{0.5, -2}, {1, 0}}
	gain, err := signal.Limit(stereo, 1)
	if err != nil {
		panic(err)
	}
	fmt.Println(gain, stereo)

	// Output:
	// 0.5 [[0.25 -1] [0.5 0]]
}

func ExampleOscillator_ValueAt() {
	// Four-entry sine table advancing one slot per sample.
	osc, err := signal.NewOscillator(4, 4, signal.WithFrequency(1))
	if err != nil {
		panic(err)
	}

	for i := 0; i < 4; i++ {
		fmt.Printf("%.0f ", osc.ValueAt(i))
	}
	fmt.Println()

	// Output:
	// 0 1 0 -1
}
