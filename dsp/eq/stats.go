package eq

import (
	"math"
	"sync/atomic"
)

// Stats is a snapshot of a processor's counters.
type Stats struct {
	Blocks           uint64    // blocks processed successfully
	Rejected         uint64    // OnBlock calls answered with silence and an error
	Faults           uint64    // recovered panics
	SanitizedSamples uint64    // non-finite input samples replaced by zero
	LimitedBlocks    uint64    // blocks scaled or clipped by the limiter
	ClippedSamples   uint64    // samples changed by the final hard clip
	LastPeak         float64   // combined-block peak before limiting
	LastGain         float64   // limiter gain of the last block
	BandLevels       []float64 // decaying per-band peak levels
	LastFault        string
}

// streamStats is written by the audio goroutine and read by anyone.
type streamStats struct {
	blocks    atomic.Uint64
	rejected  atomic.Uint64
	faults    atomic.Uint64
	sanitized atomic.Uint64
	limited   atomic.Uint64
	clipped   atomic.Uint64
	lastPeak  atomic.Uint64
	lastGain  atomic.Uint64
	levels    []atomic.Uint64
	lastFault atomic.Pointer[string]
}

func newStreamStats(numBands int) *streamStats {
	s := &streamStats{levels: make([]atomic.Uint64, numBands)}
	s.lastGain.Store(math.Float64bits(1))

	return s
}

func (s *streamStats) storeLevels(levels []float64) {
	for i := range s.levels {
		if i >= len(levels) {
			break
		}

		s.levels[i].Store(math.Float64bits(levels[i]))
	}
}

func (s *streamStats) snapshot() Stats {
	out := Stats{
		Blocks:           s.blocks.Load(),
		Rejected:         s.rejected.Load(),
		Faults:           s.faults.Load(),
		SanitizedSamples: s.sanitized.Load(),
		LimitedBlocks:    s.limited.Load(),
		ClippedSamples:   s.clipped.Load(),
		LastPeak:         math.Float64frombits(s.lastPeak.Load()),
		LastGain:         math.Float64frombits(s.lastGain.Load()),
		BandLevels:       make([]float64, len(s.levels)),
	}

	for i := range s.levels {
		out.BandLevels[i] = math.Float64frombits(s.levels[i].Load())
	}

	if msg := s.lastFault.Load(); msg != nil {
		out.LastFault = *msg
	}

	return out
}
