// Package generic registers the portable scalar biquad kernel.
package generic

import (
	"github.com/cwbudde/algo-eq/dsp/filter/biquad/internal/arch/registry"
	"github.com/cwbudde/algo-vecmath/cpu"
)

func init() {
	registry.Global.Register(registry.OpEntry{
		Name:         "generic",
		SIMDLevel:    cpu.SIMDNone,
		Priority:     0,
		ProcessBlock: ProcessBlock,
	})
}

// ProcessBlock is the reference DF-II-T loop. Every other kernel must produce
// bit-identical output and state for the same input.
func ProcessBlock(c registry.Coefficients, d0, d1 float64, buf []float64) (newD0, newD1 float64) {
	for i, x := range buf {
		y := c.B0*x + d0
		d0 = c.B1*x - c.A1*y + d1
		d1 = c.B2*x - c.A2*y
		buf[i] = y
	}

	return flush(d0), flush(d1)
}

// flush zeroes subnormal-range state so that a filter fed silence does not
// spend its time in denormal arithmetic.
func flush(v float64) float64 {
	if v > -1e-300 && v < 1e-300 {
		return 0
	}

	return v
}
