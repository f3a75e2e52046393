//go:build amd64 && !purego

package avx2

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-eq/dsp/filter/biquad/internal/arch/generic"
	"github.com/cwbudde/algo-eq/dsp/filter/biquad/internal/arch/registry"
)

func TestProcessBlockMatchesGeneric(t *testing.T) {
	c := registry.Coefficients{B0: 0.2, B1: 0, B2: -0.2, A1: -1.8, A2: 0.85}

	for _, n := range []int{0, 1, 3, 4, 7, 64, 513} {
		src := make([]float64, n)
		for i := range src {
			src[i] = math.Sin(0.37*float64(i)) + 0.25*math.Cos(1.3*float64(i))
		}

		want := append([]float64(nil), src...)
		got := append([]float64(nil), src...)

		wd0, wd1 := generic.ProcessBlock(c, 0.1, -0.05, want)
		gd0, gd1 := processBlock(c, 0.1, -0.05, got)

		if wd0 != gd0 || wd1 != gd1 {
			t.Fatalf("n=%d: state (%v,%v), want (%v,%v)", n, gd0, gd1, wd0, wd1)
		}

		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("n=%d sample %d: got %v, want %v", n, i, got[i], want[i])
			}
		}
	}
}
