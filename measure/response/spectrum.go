package response

import (
	"errors"
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	vecmath "github.com/cwbudde/algo-vecmath"
)

// DefaultFFTSize resolves 0.73 Hz per bin at 48 kHz, enough for the narrow
// sub-bass band.
const DefaultFFTSize = 1 << 16

// Errors returned by the analyzer.
var (
	ErrEmptySignal       = errors.New("response: signal is empty")
	ErrInvalidSampleRate = errors.New("response: sample rate must be positive")
	ErrInvalidFFTSize    = errors.New("response: FFT size must be a power of two >= 16")
)

// Spectrum is a single-sided magnitude spectrum with bins 0..FFTSize/2.
type Spectrum struct {
	SampleRate float64
	FFTSize    int
	Magnitude  []float64
}

// BinHz returns the bin spacing in Hz.
func (s Spectrum) BinHz() float64 {
	return s.SampleRate / float64(s.FFTSize)
}

// At returns the magnitude at freqHz, interpolated linearly between bins.
// Frequencies outside [0, Nyquist] are clamped.
func (s Spectrum) At(freqHz float64) float64 {
	if len(s.Magnitude) == 0 {
		return 0
	}

	pos := freqHz / s.BinHz()
	last := float64(len(s.Magnitude) - 1)

	switch {
	case !(pos > 0):
		return s.Magnitude[0]
	case pos >= last:
		return s.Magnitude[len(s.Magnitude)-1]
	}

	i := int(pos)
	frac := pos - float64(i)

	return s.Magnitude[i]*(1-frac) + s.Magnitude[i+1]*frac
}

// AtDB returns At(freqHz) in dB.
func (s Spectrum) AtDB(freqHz float64) float64 {
	return 20 * math.Log10(s.At(freqHz))
}

// Crossing searches outward from the bin nearest fromHz for the first point
// where the magnitude falls below level and returns its interpolated
// frequency. dir is -1 to search downwards and +1 upwards. ok is false when
// the magnitude never falls below level.
func (s Spectrum) Crossing(fromHz, level float64, dir int) (freqHz float64, ok bool) {
	n := len(s.Magnitude)
	if n == 0 || dir == 0 {
		return 0, false
	}

	step := 1
	if dir < 0 {
		step = -1
	}

	start := int(math.Round(fromHz / s.BinHz()))
	start = min(max(start, 0), n-1)

	for i := start; i+step >= 0 && i+step < n; i += step {
		a, b := s.Magnitude[i], s.Magnitude[i+step]
		if a >= level && b < level {
			frac := (a - level) / (a - b)
			return (float64(i) + frac*float64(step)) * s.BinHz(), true
		}
	}

	return 0, false
}

// Analyzer runs fixed-size FFTs. It reuses its buffers and is not safe for
// concurrent use.
type Analyzer struct {
	sampleRate float64
	fftSize    int

	plan *algofft.Plan[complex128]
	in   []complex128
	out  []complex128
	re   []float64
	im   []float64
}

// NewAnalyzer creates an analyzer for signals at sampleRate. Signals are
// zero-padded or truncated to fftSize samples.
func NewAnalyzer(sampleRate float64, fftSize int) (*Analyzer, error) {
	if !(sampleRate > 0) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSampleRate, sampleRate)
	}

	if fftSize < 16 || fftSize&(fftSize-1) != 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidFFTSize, fftSize)
	}

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("response: fft plan: %w", err)
	}

	half := fftSize/2 + 1

	return &Analyzer{
		sampleRate: sampleRate,
		fftSize:    fftSize,
		plan:       plan,
		in:         make([]complex128, fftSize),
		out:        make([]complex128, fftSize),
		re:         make([]float64, half),
		im:         make([]float64, half),
	}, nil
}

// SampleRate returns the analysis sample rate in Hz.
func (a *Analyzer) SampleRate() float64 { return a.sampleRate }

// FFTSize returns the transform length.
func (a *Analyzer) FFTSize() int { return a.fftSize }

// transform runs the FFT of signal and leaves the single-sided bins split
// into a.re and a.im.
func (a *Analyzer) transform(signal []float64) error {
	if len(signal) == 0 {
		return ErrEmptySignal
	}

	clear(a.in)

	for i, v := range signal[:min(len(signal), a.fftSize)] {
		a.in[i] = complex(v, 0)
	}

	if err := a.plan.Forward(a.out, a.in); err != nil {
		return fmt.Errorf("response: forward fft: %w", err)
	}

	for k := range a.re {
		a.re[k] = real(a.out[k])
		a.im[k] = imag(a.out[k])
	}

	return nil
}

// Spectrum returns the magnitude spectrum of signal without windowing, which
// is exact for impulse responses that decay within the FFT length.
func (a *Analyzer) Spectrum(signal []float64) (Spectrum, error) {
	if err := a.transform(signal); err != nil {
		return Spectrum{}, err
	}

	mag := make([]float64, len(a.re))
	vecmath.Magnitude(mag, a.re, a.im)

	return Spectrum{SampleRate: a.sampleRate, FFTSize: a.fftSize, Magnitude: mag}, nil
}

// PowerSpectrum writes |X[k]|^2 for bins 0..FFTSize/2 into dst, growing it
// if needed, and returns it.
func (a *Analyzer) PowerSpectrum(dst, signal []float64) ([]float64, error) {
	if err := a.transform(signal); err != nil {
		return dst, err
	}

	if cap(dst) < len(a.re) {
		dst = make([]float64, len(a.re))
	}

	dst = dst[:len(a.re)]
	vecmath.Power(dst, a.re, a.im)

	return dst, nil
}
