package eq

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"sync/atomic"

	"github.com/cwbudde/algo-eq/dsp/core"
	"github.com/cwbudde/algo-eq/dsp/effects/dynamics"
	"github.com/cwbudde/algo-eq/dsp/filter/bank"
	"github.com/cwbudde/algo-eq/dsp/filter/design"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// State is the lifecycle state of a Processor.
type State int32

const (
	StateUninitialized State = iota
	StateConfigured
	StateRunning
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateConfigured:
		return "configured"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

// Processor is one equalizer stream. The zero value is Uninitialized.
//
// OnBlock must be called from a single goroutine. Lifecycle methods may be
// called from any goroutine but must not run concurrently with an OnBlock
// call that is tearing down; the device layer serializes Stop against its
// callback.
type Processor struct {
	mu    sync.Mutex // serializes lifecycle transitions; never taken by OnBlock
	state atomic.Int32

	id  uuid.UUID
	log *logrus.Entry
	cfg config

	bank    *bank.Bank
	stage   *GainStage
	limiter dynamics.BlockLimiter
	meter   *bank.Meter
	gains   *GainVector
	stats   *streamStats

	in       []float64
	snapshot []float64
}

// New returns a Configured processor for specs. It fails with an error
// wrapping ErrInvalidBand for an invalid band and ErrConfiguration for an
// empty band list or bad stream settings.
func New(specs []bank.BandSpec, opts ...Option) (*Processor, error) {
	p := &Processor{}
	if err := p.Configure(specs, opts...); err != nil {
		return nil, err
	}

	return p, nil
}

// Configure builds coefficients, zeroed filter state and scratch buffers.
// It is valid only on an Uninitialized processor.
func (p *Processor) Configure(specs []bank.BandSpec, opts ...Option) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if st := p.State(); st != StateUninitialized {
		return fmt.Errorf("%w: configure in state %s", ErrInvalidState, st)
	}

	cfg := defaultConfig()
	for _, o := range opts {
		if o != nil {
			o(&cfg)
		}
	}

	if err := validateConfig(cfg); err != nil {
		return err
	}

	limiter := cfg.limiter
	if limiter == nil {
		pl, err := dynamics.NewPeakLimiter(cfg.threshold)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrConfiguration, err)
		}

		limiter = pl
	}

	id := uuid.New()
	log := cfg.logger.WithField("stream", id.String())

	b, err := buildBank(specs, cfg)
	if err != nil {
		log.WithFields(logrus.Fields{
			"function": "Processor.Configure",
			"bands":    len(specs),
			"error":    err.Error(),
		}).Error("Rejected equalizer configuration")

		return err
	}

	n := b.NumBands()
	if cfg.initialGains != nil && len(cfg.initialGains) != n {
		return fmt.Errorf("%w: %d initial gains for %d bands", ErrConfiguration, len(cfg.initialGains), n)
	}

	p.id = id
	p.log = log
	p.cfg = cfg
	p.bank = b
	p.stage = NewGainStage(cfg.gainRange, n, cfg.stream.BlockSize)
	p.limiter = limiter
	p.meter = bank.NewMeter(n, cfg.stream.SampleRate)
	p.gains = NewGainVector(n, cfg.initialGain)
	for i, g := range cfg.initialGains {
		p.gains.bits[i].Store(math.Float64bits(g))
	}
	p.stats = newStreamStats(n)
	p.in = make([]float64, cfg.stream.BlockSize)
	p.snapshot = make([]float64, n)

	p.state.Store(int32(StateConfigured))

	p.log.WithFields(logrus.Fields{
		"function":    "Processor.Configure",
		"bands":       n,
		"sample_rate": cfg.stream.SampleRate,
		"block_size":  cfg.stream.BlockSize,
		"order":       cfg.order,
		"gain_range":  cfg.gainRange.String(),
	}).Info("Equalizer stream configured")

	return nil
}

func validateConfig(cfg config) error {
	if err := cfg.stream.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrConfiguration, err)
	}

	if cfg.order < 1 || cfg.order > design.MaxOrder {
		return fmt.Errorf("%w: filter order %d (want 1..%d)", ErrConfiguration, cfg.order, design.MaxOrder)
	}

	return cfg.gainRange.Validate()
}

func buildBank(specs []bank.BandSpec, cfg config) (*bank.Bank, error) {
	b, err := bank.New(specs, cfg.stream.SampleRate,
		bank.WithOrder(cfg.order),
		bank.WithBlockSize(cfg.stream.BlockSize),
	)
	if errors.Is(err, bank.ErrNoBands) {
		return nil, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}

	return b, err
}

// ID returns the stream identifier used in log entries.
func (p *Processor) ID() uuid.UUID { return p.id }

// State returns the current lifecycle state.
func (p *Processor) State() State { return State(p.state.Load()) }

// SampleRate returns the configured sample rate in Hz.
func (p *Processor) SampleRate() float64 { return p.cfg.stream.SampleRate }

// BlockSize returns the fixed block size in samples.
func (p *Processor) BlockSize() int { return p.cfg.stream.BlockSize }

// Order returns the Butterworth prototype order of every band.
func (p *Processor) Order() int { return p.cfg.order }

// GainRange returns the clamp range applied when gains are read.
func (p *Processor) GainRange() GainRange { return p.cfg.gainRange }

// Bands returns the configured band specs.
func (p *Processor) Bands() []bank.BandSpec {
	if p.bank == nil {
		return nil
	}

	return p.bank.Specs()
}

// NumBands returns the number of bands, or 0 before Configure.
func (p *Processor) NumBands() int {
	if p.bank == nil {
		return 0
	}

	return p.bank.NumBands()
}

// Gains returns the processor's own gain vector, the one a Controller for
// this processor writes to.
func (p *Processor) Gains() *GainVector { return p.gains }

// Start moves a Configured or Stopped processor to Running. Starting from
// Stopped clears all filter state first.
func (p *Processor) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	st := p.State()
	switch st {
	case StateConfigured:
	case StateStopped:
		p.resetLocked()
	default:
		return fmt.Errorf("%w: start in state %s", ErrInvalidState, st)
	}

	p.state.Store(int32(StateRunning))

	p.log.WithFields(logrus.Fields{
		"function": "Processor.Start",
		"from":     st.String(),
	}).Info("Equalizer stream running")

	return nil
}

// Stop moves a Running processor to Stopped.
func (p *Processor) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.state.CompareAndSwap(int32(StateRunning), int32(StateStopped)) {
		return fmt.Errorf("%w: stop in state %s", ErrInvalidState, p.State())
	}

	s := p.stats.snapshot()
	p.log.WithFields(logrus.Fields{
		"function": "Processor.Stop",
		"blocks":   s.Blocks,
		"limited":  s.LimitedBlocks,
		"faults":   s.Faults,
	}).Info("Equalizer stream stopped")

	return nil
}

// Reset clears filter state and band meters. It is not allowed while Running.
func (p *Processor) Reset() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if st := p.State(); st != StateConfigured && st != StateStopped {
		return fmt.Errorf("%w: reset in state %s", ErrInvalidState, st)
	}

	p.resetLocked()

	return nil
}

func (p *Processor) resetLocked() {
	p.bank.Reset()
	p.meter.Reset()
	p.limiter.Reset()
	p.stats.storeLevels(p.meter.Levels())
}

// Reconfigure redesigns every band for a new sample rate with zeroed state.
// It is valid in Configured and Stopped; on failure the previous
// configuration stays in place.
func (p *Processor) Reconfigure(sampleRate float64) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if st := p.State(); st != StateConfigured && st != StateStopped {
		return fmt.Errorf("%w: reconfigure in state %s", ErrInvalidState, st)
	}

	cfg := p.cfg
	cfg.stream.SampleRate = sampleRate

	if err := cfg.stream.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrConfiguration, err)
	}

	b, err := buildBank(p.bank.Specs(), cfg)
	if err != nil {
		p.log.WithFields(logrus.Fields{
			"function":    "Processor.Reconfigure",
			"sample_rate": sampleRate,
			"error":       err.Error(),
		}).Warn("Keeping previous configuration")

		return err
	}

	old := p.cfg.stream.SampleRate
	p.cfg = cfg
	p.bank = b
	p.meter = bank.NewMeter(b.NumBands(), sampleRate)
	p.limiter.Reset()

	p.log.WithFields(logrus.Fields{
		"function": "Processor.Reconfigure",
		"from":     old,
		"to":       sampleRate,
	}).Info("Equalizer stream reconfigured")

	return nil
}

// Process runs OnBlock with the processor's own gain vector.
func (p *Processor) Process(dst, src []float64) error {
	return p.OnBlock(dst, src, p.gains)
}

// OnBlock is the real-time callback body. It sanitizes src, filters it
// through every band, applies the clamped gains and limits the sum into dst.
// dst may alias src. A nil gains uses the processor's own vector.
//
// OnBlock does not block or allocate. On any failure it writes silence to dst
// and returns ErrInvalidState (not Running), ErrShapeMismatch (block or gain
// count mismatch) or ErrFault (recovered panic).
func (p *Processor) OnBlock(dst, src []float64, gains *GainVector) (err error) {
	defer func() {
		if r := recover(); r != nil {
			core.Zero(dst)
			p.recordFault(r)
			err = ErrFault
		}
	}()

	if p.State() != StateRunning {
		core.Zero(dst)
		p.rejected()

		return ErrInvalidState
	}

	if gains == nil {
		gains = p.gains
	}

	n := p.cfg.stream.BlockSize
	if len(src) != n || len(dst) != n || gains.Len() != len(p.snapshot) {
		core.Zero(dst)
		p.rejected()

		return ErrShapeMismatch
	}

	if replaced := core.SanitizeInto(p.in, src); replaced > 0 {
		p.stats.sanitized.Add(uint64(replaced))
	}

	outs := p.bank.ProcessBlock(p.in)
	p.stats.storeLevels(p.meter.Observe(outs))

	gains.SnapshotInto(p.snapshot)

	if applyErr := p.stage.Apply(dst, outs, p.snapshot); applyErr != nil {
		p.rejected()
		return applyErr
	}

	res := p.limiter.ProcessInPlace(dst)

	p.stats.blocks.Add(1)
	p.stats.lastPeak.Store(math.Float64bits(res.Peak))
	p.stats.lastGain.Store(math.Float64bits(res.Gain))

	if res.Limited() {
		p.stats.limited.Add(1)
		p.stats.clipped.Add(uint64(res.Clipped))
	}

	return nil
}

func (p *Processor) rejected() {
	if p.stats != nil {
		p.stats.rejected.Add(1)
	}
}

func (p *Processor) recordFault(r any) {
	if p.stats == nil {
		return
	}

	msg := fmt.Sprint(r)
	p.stats.faults.Add(1)
	p.stats.lastFault.Store(&msg)
}

// AppliedGains copies the clamped gains used for the last processed block
// into dst and returns it. Call it from the goroutine that calls OnBlock.
func (p *Processor) AppliedGains(dst []float64) []float64 {
	copy(dst, p.stage.Applied())

	return dst
}

// Stats returns a snapshot of the stream counters. Safe to call from any
// goroutine.
func (p *Processor) Stats() Stats {
	if p.stats == nil {
		return Stats{}
	}

	return p.stats.snapshot()
}
