package testutil

import (
	"math"
	"testing"
)

func TestSine(t *testing.T) {
	s := Sine(1000, 48000, 0.5, 48)

	if len(s) != 48 || s[0] != 0 {
		t.Fatalf("len=%d s[0]=%v", len(s), s[0])
	}

	// Quarter period at sample 12.
	if math.Abs(s[12]-0.5) > 1e-12 {
		t.Fatalf("s[12]=%v, want 0.5", s[12])
	}
}

func TestNoiseIsSeeded(t *testing.T) {
	a := Noise(7, 1, 64)
	b := Noise(7, 1, 64)
	c := Noise(8, 1, 64)

	same := true
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("same seed differs at %d", i)
		}

		if a[i] != c[i] {
			same = false
		}

		if math.Abs(a[i]) > 1 {
			t.Fatalf("sample %d out of range: %v", i, a[i])
		}
	}

	if same {
		t.Fatal("different seeds produced identical noise")
	}
}

func TestImpulse(t *testing.T) {
	x := Impulse(4, 2)
	if x[2] != 1 || Peak(x) != 1 {
		t.Fatalf("Impulse(4, 2) = %v", x)
	}

	if Peak(Impulse(4, 9)) != 0 {
		t.Fatal("out-of-range impulse should be silent")
	}
}

func TestSplitJoin(t *testing.T) {
	x := Noise(1, 1, 1000)
	blocks := Split(x, 256)

	if len(blocks) != 3 {
		t.Fatalf("blocks=%d, want 3", len(blocks))
	}

	joined := Join(blocks)
	RequireNearlyEqual(t, joined, x[:768], 0)

	// Appending to a block must not overwrite the next one.
	_ = append(blocks[0], 42)
	if blocks[1][0] != x[256] {
		t.Fatal("blocks share capacity")
	}
}

func TestPeakRMS(t *testing.T) {
	x := []float64{1, -3, 2}
	if Peak(x) != 3 {
		t.Fatalf("Peak=%v", Peak(x))
	}

	if got := RMS(Sine(100, 48000, 1, 48000)); math.Abs(got-1/math.Sqrt2) > 1e-6 {
		t.Fatalf("RMS=%v", got)
	}

	if RMS(nil) != 0 {
		t.Fatal("RMS(nil) != 0")
	}
}

func TestMaxAbsDiff(t *testing.T) {
	d, err := MaxAbsDiff([]float64{1, 2, 3}, []float64{1, 2.5, 2})
	if err != nil || d != 1 {
		t.Fatalf("d=%v err=%v", d, err)
	}

	if _, err := MaxAbsDiff([]float64{1}, nil); err == nil {
		t.Fatal("expected length error")
	}
}
