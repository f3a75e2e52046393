package eq

import (
	"github.com/cwbudde/algo-eq/dsp/core"
	vecmath "github.com/cwbudde/algo-vecmath"
)

// GainStage scales each band block by its clamped gain and sums the results.
type GainStage struct {
	rng     GainRange
	applied []float64
	scratch []float64
}

// NewGainStage returns a stage for numBands bands with scratch sized for
// blockSize samples.
func NewGainStage(rng GainRange, numBands, blockSize int) *GainStage {
	return &GainStage{
		rng:     rng,
		applied: make([]float64, numBands),
		scratch: make([]float64, blockSize),
	}
}

// Range returns the clamp range.
func (s *GainStage) Range() GainRange { return s.rng }

// Apply writes dst[t] = sum_i clamp(gains[i]) * bands[i][t]. It returns
// ErrShapeMismatch if the gain count differs from the band count or a band
// block differs in length from dst; dst is zeroed in that case. Blocks no
// longer than the configured block size do not allocate.
func (s *GainStage) Apply(dst []float64, bands [][]float64, gains []float64) error {
	if len(gains) != len(bands) || len(bands) != len(s.applied) {
		core.Zero(dst)
		return ErrShapeMismatch
	}

	n := len(dst)
	for i := range bands {
		if len(bands[i]) != n {
			core.Zero(dst)
			return ErrShapeMismatch
		}
	}

	s.scratch = core.EnsureLen(s.scratch, n)
	core.Zero(dst)

	for i := range bands {
		g := s.rng.Clamp(gains[i])
		s.applied[i] = g

		if g == 0 {
			continue
		}

		vecmath.ScaleBlock(s.scratch, bands[i], g)
		vecmath.AddBlockInPlace(dst, s.scratch)
	}

	return nil
}

// Applied returns the clamped gains used by the last Apply. The slice is owned
// by the stage.
func (s *GainStage) Applied() []float64 { return s.applied }
