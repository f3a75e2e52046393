package biquad

// ProcessCascade filters src into dst through the cascade described by coeffs,
// starting from state and writing the next state back into state.
//
// It is the pure form of Chain.ProcessBlockTo: the output and the next state
// depend only on (coeffs, state, src). state must have one entry per section.
// dst may alias src. Zero-alloc.
func ProcessCascade(coeffs []Coefficients, state [][2]float64, dst, src []float64) {
	if len(state) != len(coeffs) {
		panic("biquad: ProcessCascade state/coefficient count mismatch")
	}

	if len(dst) != len(src) {
		panic("biquad: ProcessCascade length mismatch")
	}

	copy(dst, src)

	for i := range coeffs {
		state[i][0], state[i][1] = runKernel(coeffs[i], state[i][0], state[i][1], dst)
	}
}
