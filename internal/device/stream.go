package device

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"github.com/cwbudde/algo-eq/dsp/eq"
	"github.com/cwbudde/algo-eq/internal/source"
	vecmath "github.com/cwbudde/algo-vecmath"
	"github.com/sirupsen/logrus"
)

// ErrRateMismatch is returned when the source and processor sample rates
// differ.
var ErrRateMismatch = errors.New("device: source and processor sample rates differ")

// Stream is the pull side of the device layer. Each Read that runs out of
// encoded bytes pulls one block from the source and runs it through
// Processor.OnBlock. Stop and Read are serialized, so OnBlock is never
// called after Stop has begun.
type Stream struct {
	mu     sync.Mutex
	proc   *eq.Processor
	src    source.Source
	enc    *PCMEncoder
	in     []float64
	out    []float64
	frame  []byte
	buffer []byte // unread part of frame
	eof    bool
	closed bool

	blocks    atomic.Uint64
	rejected  atomic.Uint64
	lastError atomic.Pointer[error]

	log *logrus.Entry
}

// StreamOption configures a Stream.
type StreamOption func(*streamConfig)

type streamConfig struct {
	channels int
	dither   bool
	seed     int64
	logger   *logrus.Logger
}

// WithChannels sets the number of output channels. Default 2.
func WithChannels(n int) StreamOption {
	return func(c *streamConfig) {
		if n > 0 {
			c.channels = n
		}
	}
}

// WithDither enables TPDF dither seeded with seed.
func WithDither(seed int64) StreamOption {
	return func(c *streamConfig) {
		c.dither = true
		c.seed = seed
	}
}

// WithStreamLogger sets the logger for lifecycle events.
func WithStreamLogger(l *logrus.Logger) StreamOption {
	return func(c *streamConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewStream wires src into proc. The processor must be configured at the
// source's sample rate; the stream starts it on first Read if needed.
func NewStream(proc *eq.Processor, src source.Source, opts ...StreamOption) (*Stream, error) {
	cfg := streamConfig{channels: 2, logger: logrus.StandardLogger()}
	for _, o := range opts {
		o(&cfg)
	}

	if st := proc.State(); st == eq.StateUninitialized {
		return nil, fmt.Errorf("%w: stream needs a configured processor", eq.ErrInvalidState)
	}

	if float64(src.SampleRate()) != proc.SampleRate() {
		return nil, fmt.Errorf("%w: source %d Hz, processor %v Hz", ErrRateMismatch, src.SampleRate(), proc.SampleRate())
	}

	var dither *vecmath.DitherState
	if cfg.dither {
		dither = vecmath.NewDitherState(cfg.seed)
	}

	enc := NewPCMEncoder(cfg.channels, dither)
	n := proc.BlockSize()

	return &Stream{
		proc:  proc,
		src:   src,
		enc:   enc,
		in:    make([]float64, n),
		out:   make([]float64, n),
		frame: make([]byte, enc.FrameBytes(n)),
		log: cfg.logger.WithFields(logrus.Fields{
			"stream":   proc.ID().String(),
			"channels": cfg.channels,
		}),
	}, nil
}

// Channels returns the number of interleaved output channels.
func (s *Stream) Channels() int { return s.enc.Channels() }

// Blocks returns the number of blocks pulled through the processor.
func (s *Stream) Blocks() uint64 { return s.blocks.Load() }

// Rejected returns the number of blocks the processor answered with an
// error (and silence).
func (s *Stream) Rejected() uint64 { return s.rejected.Load() }

// LastError returns the most recent OnBlock or source error, if any.
func (s *Stream) LastError() error {
	if p := s.lastError.Load(); p != nil {
		return *p
	}

	return nil
}

// Read implements io.Reader. It returns io.EOF once the source is exhausted
// and drained, or after Stop.
func (s *Stream) Read(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for n < len(p) {
		if len(s.buffer) == 0 {
			if s.closed || s.eof {
				break
			}

			s.pull()
		}

		c := copy(p[n:], s.buffer)
		s.buffer = s.buffer[c:]
		n += c
	}

	if n == 0 && (s.closed || s.eof) {
		return 0, io.EOF
	}

	return n, nil
}

// pull runs one block through the processor. A short final source read is
// padded with silence.
func (s *Stream) pull() {
	filled := 0
	for filled < len(s.in) {
		k, err := s.src.Read(s.in[filled:])
		filled += k

		if err != nil {
			if !errors.Is(err, io.EOF) {
				s.setError(err)
			}

			s.eof = true

			break
		}

		if k == 0 {
			break
		}
	}

	clear(s.in[filled:])

	if s.proc.State() == eq.StateConfigured {
		_ = s.proc.Start()
	}

	if err := s.proc.OnBlock(s.out, s.in, nil); err != nil {
		s.rejected.Add(1)
		s.setError(err)
	}

	s.blocks.Add(1)
	s.frame = s.enc.Encode(s.frame, s.out)
	s.buffer = s.frame
}

func (s *Stream) setError(err error) {
	s.lastError.Store(&err)
}

// Stop stops the processor and makes further reads return io.EOF. It waits
// for an in-flight Read to finish first.
func (s *Stream) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}

	s.closed = true
	s.buffer = nil

	s.log.WithFields(logrus.Fields{
		"function": "Stream.Stop",
		"blocks":   s.blocks.Load(),
		"rejected": s.rejected.Load(),
	}).Info("Stopping device stream")

	if s.proc.State() == eq.StateRunning {
		return s.proc.Stop()
	}

	return nil
}

// Close stops the stream and closes the source.
func (s *Stream) Close() error {
	return errors.Join(s.Stop(), s.src.Close())
}
