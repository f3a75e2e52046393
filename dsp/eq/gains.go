package eq

import (
	"fmt"
	"math"
	"sync/atomic"

	"github.com/cwbudde/algo-eq/dsp/core"
)

// GainRange is the inclusive range [Min, Max] every gain is clamped to before
// it reaches the audio.
type GainRange struct {
	Min float64
	Max float64
}

var (
	// GainRangeStandard allows cutting a band fully or doubling it.
	GainRangeStandard = GainRange{Min: 0, Max: 2}
	// GainRangeWide allows up to a 5x boost.
	GainRangeWide = GainRange{Min: 0, Max: 5}
)

// Clamp limits v to the range. NaN maps to Min.
func (r GainRange) Clamp(v float64) float64 {
	return core.Clamp(v, r.Min, r.Max)
}

// Contains reports whether v lies inside the range.
func (r GainRange) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// Validate checks 0 <= Min <= Max with finite bounds.
func (r GainRange) Validate() error {
	if !core.IsFinite(r.Min) || !core.IsFinite(r.Max) || r.Min < 0 || r.Min > r.Max {
		return fmt.Errorf("%w: gain range [%g, %g]", ErrConfiguration, r.Min, r.Max)
	}

	return nil
}

func (r GainRange) String() string {
	return fmt.Sprintf("[%g, %g]", r.Min, r.Max)
}

// GainVector holds one gain per band. Each gain is an independent atomic
// float64, so a writer never blocks the reader and a reader never observes a
// torn value. No cross-band atomicity is provided.
type GainVector struct {
	bits []atomic.Uint64
}

// NewGainVector returns a vector of n gains set to initial.
func NewGainVector(n int, initial float64) *GainVector {
	g := &GainVector{bits: make([]atomic.Uint64, n)}
	for i := range g.bits {
		g.bits[i].Store(math.Float64bits(initial))
	}

	return g
}

// Len returns the number of bands.
func (g *GainVector) Len() int { return len(g.bits) }

// Store publishes a raw (unclamped) gain for band i.
func (g *GainVector) Store(i int, v float64) error {
	if i < 0 || i >= len(g.bits) {
		return fmt.Errorf("%w: %d (bands: %d)", ErrIndex, i, len(g.bits))
	}

	g.bits[i].Store(math.Float64bits(v))

	return nil
}

// Load returns the raw gain for band i. It panics if i is out of range.
func (g *GainVector) Load(i int) float64 {
	return math.Float64frombits(g.bits[i].Load())
}

// SnapshotInto copies the current raw gains into dst, which must hold Len
// values. Zero-alloc.
func (g *GainVector) SnapshotInto(dst []float64) {
	_ = dst[len(g.bits)-1]

	for i := range g.bits {
		dst[i] = math.Float64frombits(g.bits[i].Load())
	}
}

// Snapshot returns a copy of the current raw gains.
func (g *GainVector) Snapshot() []float64 {
	out := make([]float64, len(g.bits))
	if len(out) > 0 {
		g.SnapshotInto(out)
	}

	return out
}
