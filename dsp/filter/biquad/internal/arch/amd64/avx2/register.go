//go:build amd64 && !purego

// Package avx2 registers the unrolled biquad kernel used on AVX2 machines.
package avx2

import (
	"github.com/cwbudde/algo-eq/dsp/filter/biquad/internal/arch/registry"
	"github.com/cwbudde/algo-vecmath/cpu"
)

func init() {
	registry.Global.Register(registry.OpEntry{
		Name:         "avx2",
		SIMDLevel:    cpu.SIMDAVX2,
		Priority:     20,
		ProcessBlock: processBlock,
	})
}

// processBlock runs the recurrence four samples per iteration, keeping
// coefficients and state in registers. The per-sample arithmetic is the same
// as the generic kernel, so results are bit-identical.
func processBlock(c registry.Coefficients, d0, d1 float64, buf []float64) (newD0, newD1 float64) {
	b0, b1, b2 := c.B0, c.B1, c.B2
	a1, a2 := c.A1, c.A2

	n := len(buf) &^ 3
	for i := 0; i < n; i += 4 {
		q := buf[i : i+4 : i+4]

		y := b0*q[0] + d0
		d0, d1 = b1*q[0]-a1*y+d1, b2*q[0]-a2*y
		q[0] = y

		y = b0*q[1] + d0
		d0, d1 = b1*q[1]-a1*y+d1, b2*q[1]-a2*y
		q[1] = y

		y = b0*q[2] + d0
		d0, d1 = b1*q[2]-a1*y+d1, b2*q[2]-a2*y
		q[2] = y

		y = b0*q[3] + d0
		d0, d1 = b1*q[3]-a1*y+d1, b2*q[3]-a2*y
		q[3] = y
	}

	for i := n; i < len(buf); i++ {
		x := buf[i]
		y := b0*x + d0
		d0, d1 = b1*x-a1*y+d1, b2*x-a2*y
		buf[i] = y
	}

	if d0 > -1e-300 && d0 < 1e-300 {
		d0 = 0
	}

	if d1 > -1e-300 && d1 < 1e-300 {
		d1 = 0
	}

	return d0, d1
}
