package spectrum_test

import (
	"fmt"

	"github.com/cwbudde/algo-delayfx/dsp/spectrum"
)

func ExampleMagnitudeDB() {
	bins := []complex128{2, 1i, 0.1}
	db := spectrum.MagnitudeDB(bins)
	fmt.Printf("%.2f %.2f %.2f\n", db[0], db[1], db[2])
	// Output:
	// 6.02 0.00 -20.00
}

func ExampleUnwrapPhase() {
	unwrapped := spectrum.UnwrapPhase([]float64{2.8, -2.7, -2.6})
	fmt.Printf("%.3f %.3f %.3f\n", unwrapped[0], unwrapped[1], unwrapped[2])
	// Output:
	// 2.800 3.583 3.683
}
