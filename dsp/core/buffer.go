package core

// EnsureLen returns a slice with the requested length, reusing buf capacity if possible.
func EnsureLen(buf []float64, n int) []float64 {
	if n <= 0 {
		return buf[:0]
	}

	if cap(buf) >= n {
		return buf[:n]
	}

	return make([]float64, n)
}

// Zero sets all values in buf to 0.
func Zero(buf []float64) {
	clear(buf)
}

// CopyInto copies src into dst and returns the number of copied elements.
func CopyInto(dst, src []float64) int {
	return copy(dst, src)
}

// SanitizeInto copies src into dst, replacing NaN and ±Inf with zero.
// It copies min(len(dst), len(src)) samples and returns the number of
// replaced samples. Zero-alloc.
func SanitizeInto(dst, src []float64) int {
	n := min(len(dst), len(src))
	replaced := 0

	for i := 0; i < n; i++ {
		x := src[i]
		if !IsFinite(x) {
			x = 0
			replaced++
		}

		dst[i] = x
	}

	return replaced
}

// HardClip limits every sample of buf to [-limit, limit] in place and returns
// the number of samples that were clipped.
func HardClip(buf []float64, limit float64) int {
	clipped := 0

	for i, x := range buf {
		switch {
		case x > limit:
			buf[i] = limit
			clipped++
		case x < -limit:
			buf[i] = -limit
			clipped++
		}
	}

	return clipped
}
