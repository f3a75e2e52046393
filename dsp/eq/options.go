package eq

import (
	"github.com/cwbudde/algo-eq/dsp/core"
	"github.com/cwbudde/algo-eq/dsp/effects/dynamics"
	"github.com/cwbudde/algo-eq/dsp/filter/bank"
	"github.com/sirupsen/logrus"
)

type config struct {
	stream       core.ProcessorConfig
	order        int
	gainRange    GainRange
	threshold    float64
	limiter      dynamics.BlockLimiter
	initialGain  float64
	initialGains []float64
	logger       *logrus.Logger
}

func defaultConfig() config {
	return config{
		stream:      core.DefaultProcessorConfig(),
		order:       bank.DefaultOrder,
		gainRange:   GainRangeStandard,
		threshold:   dynamics.DefaultThreshold,
		initialGain: 1,
		logger:      logrus.StandardLogger(),
	}
}

// Option configures a Processor.
type Option func(*config)

// WithSampleRate sets the stream sample rate in Hz. Default 48000.
func WithSampleRate(hz float64) Option {
	return func(cfg *config) {
		core.WithSampleRate(hz)(&cfg.stream)
	}
}

// WithBlockSize sets the fixed block size in samples. Default 512.
func WithBlockSize(n int) Option {
	return func(cfg *config) {
		core.WithBlockSize(n)(&cfg.stream)
	}
}

// WithOrder sets the Butterworth prototype order of every band. Default 4.
func WithOrder(n int) Option {
	return func(cfg *config) {
		cfg.order = n
	}
}

// WithGainRange sets the clamp range applied to gains at read time.
func WithGainRange(r GainRange) Option {
	return func(cfg *config) {
		cfg.gainRange = r
	}
}

// WithThreshold sets the peak limiter threshold in (0, 1]. Ignored when a
// limiter is supplied with WithLimiter.
func WithThreshold(linear float64) Option {
	return func(cfg *config) {
		cfg.threshold = linear
	}
}

// WithLimiter replaces the default peak limiter.
func WithLimiter(l dynamics.BlockLimiter) Option {
	return func(cfg *config) {
		cfg.limiter = l
	}
}

// WithInitialGain sets the gain every band starts at. Default 1.
func WithInitialGain(g float64) Option {
	return func(cfg *config) {
		cfg.initialGain = g
	}
}

// WithInitialGains sets one starting gain per band. The length must match
// the band count.
func WithInitialGains(gains []float64) Option {
	return func(cfg *config) {
		cfg.initialGains = append([]float64(nil), gains...)
	}
}

// WithLogger sets the logger used for lifecycle events.
func WithLogger(l *logrus.Logger) Option {
	return func(cfg *config) {
		if l != nil {
			cfg.logger = l
		}
	}
}
