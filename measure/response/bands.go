package response

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-eq/dsp/filter/bank"
	vecmath "github.com/cwbudde/algo-vecmath"
)

// BandReport is the measured response of one band of a bank.
type BandReport struct {
	Name     string
	LowHz    float64 // designed lower edge
	HighHz   float64 // designed upper edge
	CenterHz float64 // digital centre frequency

	CenterDB   float64 // measured gain at CenterHz
	EdgeLowHz  float64 // measured -3 dB point below the centre, 0 if not found
	EdgeHighHz float64 // measured -3 dB point above the centre, 0 if not found

	// IsolationDB is the highest gain of this band at any other band's
	// centre. -Inf for a single-band bank.
	IsolationDB float64
	WorstBand   string
}

// AnalyzeBank measures every band of b from FFTSize samples of its impulse
// response. The filter state of the bank is left untouched.
func (a *Analyzer) AnalyzeBank(b *bank.Bank) ([]BandReport, error) {
	if b.SampleRate() != a.sampleRate {
		return nil, fmt.Errorf("%w: bank runs at %v Hz, analyzer at %v Hz",
			ErrInvalidSampleRate, b.SampleRate(), a.sampleRate)
	}

	bands := b.Bands()
	spectra := make([]Spectrum, len(bands))

	for i := range bands {
		s, err := a.Spectrum(bands[i].Filter.ImpulseResponse(a.fftSize))
		if err != nil {
			return nil, fmt.Errorf("response: band %d: %w", i, err)
		}

		spectra[i] = s
	}

	reports := make([]BandReport, len(bands))

	for i := range bands {
		band := &bands[i]
		s := spectra[i]
		centre := s.At(band.CenterHz)

		r := BandReport{
			Name:        band.Spec.Name(),
			LowHz:       band.Spec.LowHz,
			HighHz:      band.Spec.HighHz,
			CenterHz:    band.CenterHz,
			CenterDB:    20 * math.Log10(centre),
			IsolationDB: math.Inf(-1),
		}

		level := centre / math.Sqrt2
		r.EdgeLowHz, _ = s.Crossing(band.CenterHz, level, -1)
		r.EdgeHighHz, _ = s.Crossing(band.CenterHz, level, +1)

		for j := range bands {
			if j == i {
				continue
			}

			if db := s.AtDB(bands[j].CenterHz); db > r.IsolationDB {
				r.IsolationDB = db
				r.WorstBand = bands[j].Spec.Name()
			}
		}

		reports[i] = r
	}

	return reports, nil
}

// BandEnergy returns the share of the signal's energy (DC excluded) that
// falls inside each spec's [LowHz, HighHz) range. The shares of
// non-overlapping bands sum to at most 1. A silent signal yields zeros.
func (a *Analyzer) BandEnergy(signal []float64, specs []bank.BandSpec) ([]float64, error) {
	power, err := a.PowerSpectrum(nil, signal)
	if err != nil {
		return nil, err
	}

	shares := make([]float64, len(specs))

	total := vecmath.Sum(power[1:])
	if total == 0 {
		return shares, nil
	}

	binHz := a.sampleRate / float64(a.fftSize)
	last := len(power) - 1

	for i, spec := range specs {
		lo := max(int(math.Ceil(spec.LowHz/binHz)), 1)
		hi := min(int(math.Ceil(spec.HighHz/binHz)), last+1)

		if lo >= hi {
			continue
		}

		shares[i] = vecmath.Sum(power[lo:hi]) / total
	}

	return shares, nil
}
