// Package device connects an equalizer Processor to an audio output. A
// Stream pulls mono blocks from a source, runs them through the processor
// and serves interleaved signed 16-bit little-endian PCM to whatever reads
// it, normally an oto player.
package device

import (
	"encoding/binary"
	"math"

	vecmath "github.com/cwbudde/algo-vecmath"
)

const (
	bytesPerSample = 2
	int16Scale     = 32767.0
)

// PCMEncoder converts mono float64 blocks into interleaved int16 frames with
// the mono signal duplicated to every channel. It is not safe for concurrent
// use.
type PCMEncoder struct {
	channels int
	dither   *vecmath.DitherState
	scaled   []float64
}

// NewPCMEncoder returns an encoder for channels output channels. A non-nil
// dither state enables 1 LSB TPDF dither before quantization.
func NewPCMEncoder(channels int, dither *vecmath.DitherState) *PCMEncoder {
	return &PCMEncoder{channels: max(channels, 1), dither: dither}
}

// Channels returns the output channel count.
func (e *PCMEncoder) Channels() int { return e.channels }

// FrameBytes returns the encoded size of one block of n samples.
func (e *PCMEncoder) FrameBytes(n int) int { return n * e.channels * bytesPerSample }

// Encode appends the PCM encoding of block to dst[:0] and returns it.
// Samples are clipped to the int16 range.
func (e *PCMEncoder) Encode(dst []byte, block []float64) []byte {
	size := e.FrameBytes(len(block))
	if cap(dst) < size {
		dst = make([]byte, size)
	}

	dst = dst[:size]

	if cap(e.scaled) < len(block) {
		e.scaled = make([]float64, len(block))
	}

	scaled := e.scaled[:len(block)]
	vecmath.ScaleBlock(scaled, block, int16Scale)

	if e.dither != nil {
		vecmath.AddDitherTPDF(scaled, 1, e.dither)
	}

	off := 0
	for _, v := range scaled {
		s := uint16(quantize(v))
		for range e.channels {
			binary.LittleEndian.PutUint16(dst[off:], s)
			off += bytesPerSample
		}
	}

	return dst
}

func quantize(v float64) int16 {
	switch r := math.Round(v); {
	case r >= math.MaxInt16:
		return math.MaxInt16
	case r <= math.MinInt16:
		return math.MinInt16
	case math.IsNaN(r):
		return 0
	default:
		return int16(r)
	}
}
