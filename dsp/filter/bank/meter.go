package bank

import (
	"math"

	vecmath "github.com/cwbudde/algo-vecmath"
)

const defaultReleaseSeconds = 0.3

// Meter holds a decaying per-band peak level. It is fed with the per-band
// blocks produced by [Bank.ProcessBlock] and never allocates after
// construction.
type Meter struct {
	levels     []float64
	sampleRate float64
	release    float64 // seconds for a 60 dB fall

	decayN int
	decay  float64
}

// MeterOption configures a Meter.
type MeterOption func(*Meter)

// WithReleaseTime sets the time in seconds for a held peak to fall by 60 dB.
func WithReleaseTime(seconds float64) MeterOption {
	return func(m *Meter) {
		if seconds > 0 && !math.IsInf(seconds, 0) {
			m.release = seconds
		}
	}
}

// NewMeter creates a meter for numBands bands at sampleRate.
func NewMeter(numBands int, sampleRate float64, opts ...MeterOption) *Meter {
	m := &Meter{
		levels:     make([]float64, numBands),
		sampleRate: sampleRate,
		release:    defaultReleaseSeconds,
	}
	for _, o := range opts {
		o(m)
	}

	return m
}

// Observe updates every band level from one block per band and returns the
// levels. The returned slice is owned by the meter.
func (m *Meter) Observe(bands [][]float64) []float64 {
	for i := range m.levels {
		if i >= len(bands) {
			break
		}

		blk := bands[i]
		held := m.levels[i] * m.decayFor(len(blk))

		peak := vecmath.MaxAbs(blk)
		if math.IsNaN(peak) {
			peak = 0
		}

		m.levels[i] = max(held, peak)
	}

	return m.levels
}

// decayFor returns the release multiplier for a block of n samples. The last
// value is cached because block sizes are constant in a stream.
func (m *Meter) decayFor(n int) float64 {
	if n != m.decayN {
		m.decayN = n
		// -60 dB over release seconds.
		m.decay = math.Pow(1e-3, float64(n)/(m.release*m.sampleRate))
	}

	return m.decay
}

// Levels returns the current linear levels. The slice is owned by the meter.
func (m *Meter) Levels() []float64 { return m.levels }

// LevelsDB writes the current levels in dBFS into dst and returns it. Silent
// bands report -Inf.
func (m *Meter) LevelsDB(dst []float64) []float64 {
	for i, l := range m.levels {
		if i >= len(dst) {
			break
		}

		dst[i] = 20 * math.Log10(l)
	}

	return dst
}

// Reset drops all held levels to zero.
func (m *Meter) Reset() {
	clear(m.levels)
}
