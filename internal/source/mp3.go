package source

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/hajimehoshi/go-mp3"
)

// go-mp3 always decodes to interleaved stereo int16.
const mp3FrameBytes = 4

// MP3 decodes an MP3 stream and down-mixes it to mono.
type MP3 struct {
	decoder *mp3.Decoder
	loop    bool
	closer  io.Closer
	pcm     []byte
	pending int // bytes of a partial stereo frame kept at the start of pcm
}

// NewMP3 decodes r. Looping requires r to implement io.Seeker.
func NewMP3(r io.Reader, loop bool) (*MP3, error) {
	if _, ok := r.(io.Seeker); loop && !ok {
		return nil, errors.New("source: looping mp3 needs a seekable reader")
	}

	d, err := mp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("source: decode mp3: %w", err)
	}

	return &MP3{decoder: d, loop: loop}, nil
}

// SampleRate returns the sample rate of the stream.
func (s *MP3) SampleRate() int { return s.decoder.SampleRate() }

// Length returns the decoded length in mono samples, or -1 if unknown.
func (s *MP3) Length() int64 {
	n := s.decoder.Length()
	if n < 0 {
		return -1
	}

	return n / mp3FrameBytes
}

// Read decodes up to len(dst) mono samples.
func (s *MP3) Read(dst []float64) (int, error) {
	need := len(dst) * mp3FrameBytes
	if cap(s.pcm) < need {
		grown := make([]byte, need)
		copy(grown, s.pcm[:s.pending])
		s.pcm = grown
	}

	s.pcm = s.pcm[:need]
	written := 0
	rewound := false

	for written < len(dst) {
		n, err := s.decoder.Read(s.pcm[s.pending : (len(dst)-written)*mp3FrameBytes])
		s.pending += n

		frames := s.pending / mp3FrameBytes
		downmix(dst[written:written+frames], s.pcm[:frames*mp3FrameBytes])
		written += frames

		used := frames * mp3FrameBytes
		copy(s.pcm, s.pcm[used:s.pending])
		s.pending -= used

		if n > 0 {
			rewound = false
		}

		switch {
		case errors.Is(err, io.EOF):
			// An empty stream would otherwise rewind forever.
			if !s.loop || rewound {
				return written, io.EOF
			}

			if _, serr := s.decoder.Seek(0, io.SeekStart); serr != nil {
				return written, fmt.Errorf("source: rewind mp3: %w", serr)
			}

			s.pending = 0
			rewound = true
		case err != nil:
			return written, fmt.Errorf("source: decode mp3: %w", err)
		case n == 0:
			return written, io.ErrNoProgress
		}
	}

	return written, nil
}

// Close closes the file opened by OpenMP3. It is a no-op for readers passed
// to NewMP3.
func (s *MP3) Close() error {
	if s.closer == nil {
		return nil
	}

	return s.closer.Close()
}

// downmix averages interleaved little-endian int16 stereo frames into dst.
func downmix(dst []float64, pcm []byte) {
	for i := range dst {
		l := int16(binary.LittleEndian.Uint16(pcm[i*4:]))
		r := int16(binary.LittleEndian.Uint16(pcm[i*4+2:]))
		dst[i] = (float64(l) + float64(r)) / (2 * 32768)
	}
}
