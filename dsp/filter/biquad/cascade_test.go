package biquad

import "testing"

func TestProcessCascade_MatchesChain(t *testing.T) {
	coeffs := threeSections()
	chain := NewChain(coeffs)
	state := make([][2]float64, len(coeffs))

	in := testSignal(512)
	want := make([]float64, len(in))
	got := make([]float64, len(in))

	// Several blocks so the carried state is exercised.
	for blk := 0; blk < len(in); blk += 128 {
		chain.ProcessBlockTo(want[blk:blk+128], in[blk:blk+128])
		ProcessCascade(coeffs, state, got[blk:blk+128], in[blk:blk+128])
	}

	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("sample %d: cascade=%v chain=%v", i, got[i], want[i])
		}
	}

	chainState := chain.State()
	for i := range state {
		if state[i] != chainState[i] {
			t.Fatalf("section %d state %v, chain %v", i, state[i], chainState[i])
		}
	}
}

func TestProcessCascade_IsPure(t *testing.T) {
	coeffs := threeSections()
	in := testSignal(64)

	run := func() []float64 {
		state := make([][2]float64, len(coeffs))
		out := make([]float64, len(in))
		ProcessCascade(coeffs, state, out, in)

		return out
	}

	a, b := run(), run()
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("sample %d differs between identical runs", i)
		}
	}
}

func TestProcessCascade_InPlace(t *testing.T) {
	coeffs := threeSections()
	in := testSignal(64)

	ref := make([]float64, len(in))
	ProcessCascade(coeffs, make([][2]float64, len(coeffs)), ref, in)

	buf := append([]float64(nil), in...)
	ProcessCascade(coeffs, make([][2]float64, len(coeffs)), buf, buf)

	for i := range buf {
		if buf[i] != ref[i] {
			t.Fatalf("sample %d: in-place=%v out-of-place=%v", i, buf[i], ref[i])
		}
	}
}

func TestProcessCascade_StateCountMismatchPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()

	ProcessCascade(threeSections(), make([][2]float64, 2), make([]float64, 4), make([]float64, 4))
}
