package dynamics

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-eq/dsp/core"
	vecmath "github.com/cwbudde/algo-vecmath"
)

const (
	// DefaultThreshold is the peak level blocks are scaled down to.
	DefaultThreshold = 0.9

	minPeakThreshold = 1e-6
	maxPeakThreshold = 1.0
)

// PeakLimiter scales a block by threshold/peak whenever its peak exceeds the
// threshold and then hard-clips to [-1, 1]. It keeps no gain memory between
// blocks.
type PeakLimiter struct {
	threshold float64
}

// NewPeakLimiter creates a limiter with the given threshold in (0, 1].
func NewPeakLimiter(threshold float64) (*PeakLimiter, error) {
	l := &PeakLimiter{}
	if err := l.SetThreshold(threshold); err != nil {
		return nil, err
	}

	return l, nil
}

// SetThreshold sets the linear threshold. It must lie in (0, 1].
func (l *PeakLimiter) SetThreshold(threshold float64) error {
	if threshold < minPeakThreshold || threshold > maxPeakThreshold || !core.IsFinite(threshold) {
		return fmt.Errorf("peak limiter threshold must be in [%g, %g]: %g",
			minPeakThreshold, maxPeakThreshold, threshold)
	}

	l.threshold = threshold

	return nil
}

// Threshold returns the linear threshold.
func (l *PeakLimiter) Threshold() float64 { return l.threshold }

// ThresholdDB returns the threshold in dBFS.
func (l *PeakLimiter) ThresholdDB() float64 { return core.LinearToDB(l.threshold) }

// ProcessInPlace limits buf in place.
func (l *PeakLimiter) ProcessInPlace(buf []float64) Result {
	res := Result{Gain: 1}
	if len(buf) == 0 {
		return res
	}

	res.Peak = vecmath.MaxAbs(buf)
	if math.IsNaN(res.Peak) {
		res.Peak = 0
	}

	if res.Peak > l.threshold {
		res.Gain = l.threshold / res.Peak
		vecmath.ScaleBlockInPlace(buf, res.Gain)
	}

	res.Clipped = core.HardClip(buf, 1)

	return res
}

// Reset is a no-op; the limiter holds no state between blocks.
func (l *PeakLimiter) Reset() {}

var _ BlockLimiter = (*PeakLimiter)(nil)
