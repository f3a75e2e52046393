package biquad_test

import (
	"fmt"

	"github.com/cwbudde/algo-eq/dsp/filter/biquad"
)

func ExampleSection_ProcessSample() {
	s := biquad.NewSection(biquad.Coefficients{
		B0: 0.25, B1: 0.5, B2: 0.25,
		A1: -0.2, A2: 0.04,
	})

	for i := range 6 {
		var x float64
		if i == 0 {
			x = 1
		}

		fmt.Printf("y[%d] = %.6f\n", i, s.ProcessSample(x))
	}
	// Output:
	// y[0] = 0.250000
	// y[1] = 0.550000
	// y[2] = 0.350000
	// y[3] = 0.048000
	// y[4] = -0.004400
	// y[5] = -0.002800
}

func ExampleChain_ProcessSample() {
	chain := biquad.NewChain([]biquad.Coefficients{
		{B0: 0.25, B1: 0.5, B2: 0.25, A1: -0.2, A2: 0.04},
		{B0: 0.1, B1: 0.2, B2: 0.1, A1: -0.5, A2: 0.1},
	})

	fmt.Printf("Order: %d, Sections: %d\n", chain.Order(), chain.NumSections())

	for i := range 4 {
		fmt.Printf("y[%d] = %.6f\n", i, chain.ProcessSample(1))
	}
	// Output:
	// Order: 4, Sections: 2
	// y[0] = 0.025000
	// y[1] = 0.142500
	// y[2] = 0.368750
	// y[3] = 0.599925
}

func ExampleProcessCascade() {
	coeffs := []biquad.Coefficients{{B0: 0.25, B1: 0.5, B2: 0.25, A1: -0.2, A2: 0.04}}
	state := make([][2]float64, len(coeffs))

	out := make([]float64, 2)
	biquad.ProcessCascade(coeffs, state, out, []float64{1, 0})
	fmt.Printf("%.3f %.3f\n", out[0], out[1])

	biquad.ProcessCascade(coeffs, state, out, []float64{0, 0})
	fmt.Printf("%.3f %.3f\n", out[0], out[1])
	// Output:
	// 0.250 0.550
	// 0.350 0.048
}
