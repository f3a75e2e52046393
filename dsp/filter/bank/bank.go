package bank

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-eq/dsp/filter/biquad"
	"github.com/cwbudde/algo-eq/dsp/filter/design"
)

const (
	// DefaultOrder is the Butterworth prototype order of each band. Every band
	// is realized as DefaultOrder second-order sections.
	DefaultOrder = 4

	defaultBlockSize = 512
)

// ErrNoBands is returned by [New] for an empty band list.
var ErrNoBands = errors.New("bank: at least one band is required")

// BandSpec is one band's (low, high) cutoff pair in Hz, with an optional
// display label.
type BandSpec struct {
	LowHz  float64
	HighHz float64
	Label  string
}

// Validate checks 0 < LowHz < HighHz < sampleRate/2. The returned error wraps
// design.ErrInvalidBand.
func (s BandSpec) Validate(sampleRate float64) error {
	return design.ValidateBand(s.LowHz, s.HighHz, sampleRate)
}

// Name returns the label, or "low-high" when the label is empty.
func (s BandSpec) Name() string {
	if s.Label != "" {
		return s.Label
	}

	return fmt.Sprintf("%g-%g", s.LowHz, s.HighHz)
}

// Band is one configured band: its spec, derived centre frequency and the
// band-pass cascade that filters it.
type Band struct {
	Spec     BandSpec
	CenterHz float64
	Filter   *biquad.Chain
}

// MagnitudeDB returns the band's magnitude response in dB at freqHz.
func (b *Band) MagnitudeDB(freqHz, sampleRate float64) float64 {
	return b.Filter.MagnitudeDB(freqHz, sampleRate)
}

// Bank is a set of independent band-pass filters fed from the same input.
type Bank struct {
	bands      []Band
	outs       [][]float64
	sampleRate float64
	order      int
}

type bankConfig struct {
	order     int
	blockSize int
}

func defaultBankConfig() bankConfig {
	return bankConfig{
		order:     DefaultOrder,
		blockSize: defaultBlockSize,
	}
}

// Option configures a Bank.
type Option func(*bankConfig)

// WithOrder sets the Butterworth prototype order per band. Values outside
// [1, design.MaxOrder] are ignored.
func WithOrder(n int) Option {
	return func(cfg *bankConfig) {
		if n >= 1 && n <= design.MaxOrder {
			cfg.order = n
		}
	}
}

// WithBlockSize preallocates per-band output buffers for blocks of n samples.
func WithBlockSize(n int) Option {
	return func(cfg *bankConfig) {
		if n > 0 {
			cfg.blockSize = n
		}
	}
}

// New designs one band-pass cascade per spec. It fails with ErrNoBands for an
// empty list and with an error wrapping design.ErrInvalidBand when any spec is
// invalid for sampleRate. Filter state starts at zero.
func New(specs []BandSpec, sampleRate float64, opts ...Option) (*Bank, error) {
	if len(specs) == 0 {
		return nil, ErrNoBands
	}

	cfg := defaultBankConfig()
	for _, o := range opts {
		o(&cfg)
	}

	bands := make([]Band, len(specs))
	outs := make([][]float64, len(specs))

	for i, spec := range specs {
		coeffs, err := design.ButterworthBandpass(spec.LowHz, spec.HighHz, sampleRate, cfg.order)
		if err != nil {
			return nil, fmt.Errorf("bank: band %d (%s): %w", i, spec.Name(), err)
		}

		bands[i] = Band{
			Spec:     spec,
			CenterHz: design.CenterFrequency(spec.LowHz, spec.HighHz, sampleRate),
			Filter:   biquad.NewChain(coeffs),
		}
		outs[i] = make([]float64, cfg.blockSize)
	}

	return &Bank{
		bands:      bands,
		outs:       outs,
		sampleRate: sampleRate,
		order:      cfg.order,
	}, nil
}

// Bands returns all bands in configuration order.
func (b *Bank) Bands() []Band { return b.bands }

// NumBands returns the number of bands.
func (b *Bank) NumBands() int { return len(b.bands) }

// SampleRate returns the sample rate the bank was designed for.
func (b *Bank) SampleRate() float64 { return b.sampleRate }

// Order returns the Butterworth prototype order per band.
func (b *Bank) Order() int { return b.order }

// Specs returns a copy of the configured band specs.
func (b *Bank) Specs() []BandSpec {
	specs := make([]BandSpec, len(b.bands))
	for i := range b.bands {
		specs[i] = b.bands[i].Spec
	}

	return specs
}

// ProcessBlock filters input through every band and returns per-band output
// blocks: result[band][sample]. The returned slices are owned by the bank and
// are overwritten by the next call. Blocks no longer than the configured
// block size do not allocate.
func (b *Bank) ProcessBlock(input []float64) [][]float64 {
	n := len(input)

	for i := range b.bands {
		if cap(b.outs[i]) < n {
			b.outs[i] = make([]float64, n)
		}

		b.outs[i] = b.outs[i][:n]
		b.bands[i].Filter.ProcessBlockTo(b.outs[i], input)
	}

	return b.outs
}

// ProcessSample runs one sample through every band and writes the per-band
// outputs into dst, which must hold NumBands values.
func (b *Bank) ProcessSample(x float64, dst []float64) {
	_ = dst[len(b.bands)-1]

	for i := range b.bands {
		dst[i] = b.bands[i].Filter.ProcessSample(x)
	}
}

// Reset clears the filter state of every band.
func (b *Bank) Reset() {
	for i := range b.bands {
		b.bands[i].Filter.Reset()
	}
}

// Response returns the complex response at freqHz of the weighted band sum
// sum(gains[i] * H_i). gains must hold NumBands values.
func (b *Bank) Response(freqHz float64, gains []float64) complex128 {
	var h complex128
	for i := range b.bands {
		h += complex(gains[i], 0) * b.bands[i].Filter.Response(freqHz, b.sampleRate)
	}

	return h
}

// SumMagnitudeDB returns the magnitude in dB of the weighted band sum at
// freqHz.
func (b *Bank) SumMagnitudeDB(freqHz float64, gains []float64) float64 {
	h := b.Response(freqHz, gains)

	return 20 * math.Log10(math.Hypot(real(h), imag(h)))
}
