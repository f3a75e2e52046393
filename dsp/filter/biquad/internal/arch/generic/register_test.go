package generic

import (
	"testing"

	"github.com/cwbudde/algo-eq/dsp/filter/biquad/internal/arch/registry"
)

func TestProcessBlockFlushesTinyState(t *testing.T) {
	c := registry.Coefficients{B0: 1, A1: -0.5, A2: 0.06}
	buf := make([]float64, 8)

	d0, d1 := ProcessBlock(c, 1e-310, -1e-310, buf)
	if d0 != 0 || d1 != 0 {
		t.Fatalf("state = (%v, %v), want flushed zeros", d0, d1)
	}
}

func TestProcessBlockPassthrough(t *testing.T) {
	buf := []float64{1, -2, 3}

	ProcessBlock(registry.Coefficients{B0: 1}, 0, 0, buf)

	if buf[0] != 1 || buf[1] != -2 || buf[2] != 3 {
		t.Fatalf("passthrough altered samples: %v", buf)
	}
}
