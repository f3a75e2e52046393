package biquad

import (
	"math"
	"testing"
)

const eps = 1e-12

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

// lowpassish is a stable section with a DC gain above one; it is easy to
// trace by hand.
func lowpassish() Coefficients {
	return Coefficients{B0: 0.25, B1: 0.5, B2: 0.25, A1: -0.2, A2: 0.04}
}

// resonator is a narrow band-pass section (zeros at z=±1, poles near the unit
// circle) of the kind the band designer emits.
func resonator() Coefficients {
	r, theta := 0.995, 2*math.Pi*1000/48000

	return Coefficients{B0: 0.005, B1: 0, B2: -0.005, A1: -2 * r * math.Cos(theta), A2: r * r}
}

func testSignal(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.Sin(float64(i)*0.37) + 0.25*math.Cos(float64(i)*1.91)
	}

	return out
}

func TestSection_ImpulseTrace(t *testing.T) {
	// y[0]=0.25, d0=0.5+0.05=0.55, d1=0.25-0.01=0.24
	// y[1]=0.55, d0=0.11+0.24=0.35, d1=-0.022
	// y[2]=0.35, d0=0.07-0.022=0.048, d1=-0.014
	want := []float64{0.25, 0.55, 0.35, 0.048}

	s := NewSection(lowpassish())
	for i, w := range want {
		x := 0.0
		if i == 0 {
			x = 1
		}

		if got := s.ProcessSample(x); !almostEqual(got, w, eps) {
			t.Fatalf("y[%d]=%.15f, want %.15f", i, got, w)
		}
	}
}

func TestSection_ProcessBlockMatchesSample(t *testing.T) {
	for _, c := range []Coefficients{lowpassish(), resonator(), {B0: 1}} {
		ref := NewSection(c)
		blk := NewSection(c)

		in := testSignal(257)
		want := make([]float64, len(in))
		for i, x := range in {
			want[i] = ref.ProcessSample(x)
		}

		got := append([]float64(nil), in...)
		blk.ProcessBlock(got)

		for i := range got {
			if !almostEqual(got[i], want[i], 1e-12) {
				t.Fatalf("coeffs %+v sample %d: block=%.15f sample=%.15f", c, i, got[i], want[i])
			}
		}

		bs, rs := blk.State(), ref.State()
		if !almostEqual(bs[0], rs[0], 1e-12) || !almostEqual(bs[1], rs[1], 1e-12) {
			t.Fatalf("state diverged: block=%v sample=%v", blk.State(), ref.State())
		}
	}
}

func TestSection_ProcessBlockToLeavesSourceIntact(t *testing.T) {
	s := NewSection(resonator())
	src := testSignal(64)
	orig := append([]float64(nil), src...)
	dst := make([]float64, len(src))

	s.ProcessBlockTo(dst, src)

	for i := range src {
		if src[i] != orig[i] {
			t.Fatalf("src[%d] modified", i)
		}
	}

	ref := NewSection(resonator())
	for i := range src {
		if want := ref.ProcessSample(src[i]); !almostEqual(dst[i], want, eps) {
			t.Fatalf("dst[%d]=%v want %v", i, dst[i], want)
		}
	}
}

func TestSection_ProcessBlockToLengthMismatchPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()

	NewSection(lowpassish()).ProcessBlockTo(make([]float64, 3), make([]float64, 4))
}

func TestSection_BlockSplitContinuity(t *testing.T) {
	in := testSignal(1000)

	whole := NewSection(resonator())
	a := append([]float64(nil), in...)
	whole.ProcessBlock(a)

	split := NewSection(resonator())
	b := append([]float64(nil), in...)
	for _, cut := range [][2]int{{0, 1}, {1, 64}, {64, 511}, {511, 1000}} {
		split.ProcessBlock(b[cut[0]:cut[1]])
	}

	for i := range a {
		if !almostEqual(a[i], b[i], 1e-12) {
			t.Fatalf("sample %d: whole=%v split=%v", i, a[i], b[i])
		}
	}
}

func TestSection_ResetAndState(t *testing.T) {
	s := NewSection(lowpassish())
	s.ProcessBlock(testSignal(10))

	saved := s.State()
	if saved == [2]float64{} {
		t.Fatal("state should be non-zero after processing")
	}

	next := s.ProcessSample(0.3)

	s.Reset()
	if s.State() != [2]float64{} {
		t.Fatalf("Reset left state %v", s.State())
	}

	s.SetState(saved)
	if got := s.ProcessSample(0.3); got != next {
		t.Fatalf("restored state output %v, want %v", got, next)
	}
}

func TestSection_EmptyBlock(t *testing.T) {
	s := NewSection(lowpassish())
	s.ProcessBlock(nil)

	if s.State() != [2]float64{} {
		t.Fatalf("empty block changed state: %v", s.State())
	}
}

func TestSection_LongRunStaysBounded(t *testing.T) {
	s := NewSection(resonator())
	buf := make([]float64, 4096)

	for range 100 {
		for i := range buf {
			buf[i] = math.Sin(float64(i) * 0.13)
		}

		s.ProcessBlock(buf)

		for i, v := range buf {
			if math.IsNaN(v) || math.IsInf(v, 0) || math.Abs(v) > 10 {
				t.Fatalf("sample %d diverged: %v", i, v)
			}
		}
	}
}

func TestCoefficients_IsStable(t *testing.T) {
	tests := []struct {
		name string
		c    Coefficients
		want bool
	}{
		{"passthrough", Coefficients{B0: 1}, true},
		{"lowpassish", lowpassish(), true},
		{"resonator", resonator(), true},
		{"pole on circle", Coefficients{B0: 1, A2: 1}, false},
		{"pole outside", Coefficients{B0: 1, A1: -2.1, A2: 1.2}, false},
		{"nan", Coefficients{B0: 1, A1: math.NaN()}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.c.IsStable(); got != tt.want {
				t.Fatalf("IsStable()=%v, want %v", got, tt.want)
			}
		})
	}
}

func TestSection_ProcessBlockDoesNotAllocate(t *testing.T) {
	s := NewSection(resonator())
	buf := testSignal(512)

	allocs := testing.AllocsPerRun(100, func() {
		s.ProcessBlock(buf)
	})
	if allocs != 0 {
		t.Fatalf("ProcessBlock allocated %.1f times per run", allocs)
	}
}

func BenchmarkSection_ProcessSample(b *testing.B) {
	s := NewSection(resonator())

	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		s.ProcessSample(float64(i & 1))
	}
}

func BenchmarkSection_ProcessBlock(b *testing.B) {
	s := NewSection(resonator())
	buf := testSignal(512)

	b.SetBytes(int64(len(buf) * 8))
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		s.ProcessBlock(buf)
	}
}
