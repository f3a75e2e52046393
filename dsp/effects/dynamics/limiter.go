package dynamics

// Result describes what a limiter did to one block.
type Result struct {
	// Peak is the absolute peak of the block before limiting.
	Peak float64
	// Gain is the scale factor applied to the block (1 when untouched).
	Gain float64
	// Clipped counts samples changed by the final hard clip.
	Clipped int
}

// Limited reports whether the block was altered.
func (r Result) Limited() bool {
	return r.Gain < 1 || r.Clipped > 0
}

// BlockLimiter limits one block in place. Implementations must not allocate
// and must leave every sample within [-1, 1].
type BlockLimiter interface {
	ProcessInPlace(buf []float64) Result
	Reset()
}
