// Package testutil provides deterministic signals and assertions shared by
// the package tests.
package testutil

import (
	"math"
	"math/rand"
)

// Sine returns n samples of a sine at freqHz starting at phase 0.
func Sine(freqHz, sampleRate, amplitude float64, n int) []float64 {
	out := make([]float64, n)
	step := 2 * math.Pi * freqHz / sampleRate

	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}

	return out
}

// Noise returns n samples of uniform white noise in [-amplitude, amplitude]
// from a fixed seed.
func Noise(seed int64, amplitude float64, n int) []float64 {
	out := make([]float64, n)
	rng := rand.New(rand.NewSource(seed))

	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}

	return out
}

// Impulse returns n samples with a unit impulse at pos.
func Impulse(n, pos int) []float64 {
	out := make([]float64, n)
	if pos >= 0 && pos < n {
		out[pos] = 1
	}

	return out
}

// Split cuts signal into consecutive blocks of blockSize samples. A trailing
// partial block is dropped.
func Split(signal []float64, blockSize int) [][]float64 {
	if blockSize <= 0 {
		return nil
	}

	blocks := make([][]float64, 0, len(signal)/blockSize)
	for off := 0; off+blockSize <= len(signal); off += blockSize {
		blocks = append(blocks, signal[off:off+blockSize:off+blockSize])
	}

	return blocks
}

// Join concatenates blocks into one signal.
func Join(blocks [][]float64) []float64 {
	n := 0
	for _, b := range blocks {
		n += len(b)
	}

	out := make([]float64, 0, n)
	for _, b := range blocks {
		out = append(out, b...)
	}

	return out
}
