package design

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"

	"github.com/cwbudde/algo-eq/dsp/filter/biquad"
)

// MaxOrder is the highest prototype order accepted by [ButterworthBandpass].
const MaxOrder = 16

var (
	// ErrInvalidBand is returned when a cutoff pair is not strictly inside
	// (0, sampleRate/2) or is inverted.
	ErrInvalidBand = errors.New("design: invalid band")
	// ErrInvalidOrder is returned for a prototype order outside [1, MaxOrder].
	ErrInvalidOrder = errors.New("design: invalid filter order")
)

// ValidateBand checks 0 < low < high < sampleRate/2.
func ValidateBand(lowHz, highHz, sampleRate float64) error {
	if !(sampleRate > 0) || math.IsInf(sampleRate, 0) {
		return fmt.Errorf("%w: sample rate %v", ErrInvalidBand, sampleRate)
	}

	nyquist := sampleRate / 2

	switch {
	case !(lowHz > 0):
		return fmt.Errorf("%w: low cutoff %v Hz must be positive", ErrInvalidBand, lowHz)
	case !(highHz < nyquist):
		return fmt.Errorf("%w: high cutoff %v Hz must be below Nyquist (%v Hz)", ErrInvalidBand, highHz, nyquist)
	case !(lowHz < highHz):
		return fmt.Errorf("%w: low cutoff %v Hz must be below high cutoff %v Hz", ErrInvalidBand, lowHz, highHz)
	}

	return nil
}

// CenterFrequency returns the digital centre frequency of the band, the
// frequency that maps onto the geometric mean of the prewarped edges.
func CenterFrequency(lowHz, highHz, sampleRate float64) float64 {
	tl := math.Tan(math.Pi * lowHz / sampleRate)
	th := math.Tan(math.Pi * highHz / sampleRate)

	return sampleRate / math.Pi * math.Atan(math.Sqrt(tl*th))
}

// ButterworthBandpass designs a Butterworth band-pass filter of the given
// prototype order as a cascade of order second-order sections.
//
// The cutoffs are the -3 dB points of the digital response. Each section has
// its zeros at DC and Nyquist and is scaled to unity gain at the band centre,
// so the cascade passes the centre frequency at 0 dB.
func ButterworthBandpass(lowHz, highHz, sampleRate float64, order int) ([]biquad.Coefficients, error) {
	if err := ValidateBand(lowHz, highHz, sampleRate); err != nil {
		return nil, err
	}

	if order < 1 || order > MaxOrder {
		return nil, fmt.Errorf("%w: %d (want 1..%d)", ErrInvalidOrder, order, MaxOrder)
	}

	k := 2 * sampleRate
	wl := k * math.Tan(math.Pi*lowHz/sampleRate)
	wh := k * math.Tan(math.Pi*highHz/sampleRate)
	w0sq := wl * wh
	bw := wh - wl

	fc := CenterFrequency(lowHz, highHz, sampleRate)
	zc := cmplx.Exp(complex(0, 2*math.Pi*fc/sampleRate))

	sections := make([]biquad.Coefficients, 0, order)

	n := float64(order)
	for i := range order / 2 {
		p := cmplx.Exp(complex(0, math.Pi*(2*float64(i)+n+1)/(2*n)))
		s1, s2 := lowpassToBandpass(p, bw, w0sq)

		sections = append(sections,
			conjugateSection(bilinearPole(s1, k), zc),
			conjugateSection(bilinearPole(s2, k), zc),
		)
	}

	if order%2 != 0 {
		s1, s2 := lowpassToBandpass(-1, bw, w0sq)
		z1, z2 := bilinearPole(s1, k), bilinearPole(s2, k)

		if math.Abs(imag(z1)) > 1e-12 {
			sections = append(sections, conjugateSection(z1, zc))
		} else {
			sections = append(sections, realPairSection(real(z1), real(z2), zc))
		}
	}

	for i := range sections {
		if !sections[i].IsStable() {
			return nil, fmt.Errorf("%w: section %d unstable for %v-%v Hz at %v Hz",
				ErrInvalidBand, i, lowHz, highHz, sampleRate)
		}
	}

	return sections, nil
}

// lowpassToBandpass maps one analog prototype pole onto the two band-pass
// poles s = p*bw/2 ± sqrt((p*bw/2)^2 - w0^2).
func lowpassToBandpass(p complex128, bw, w0sq float64) (complex128, complex128) {
	half := p * complex(bw/2, 0)
	root := cmplx.Sqrt(half*half - complex(w0sq, 0))

	return half + root, half - root
}

func bilinearPole(s complex128, k float64) complex128 {
	kc := complex(k, 0)

	return (kc + s) / (kc - s)
}

// conjugateSection builds the section with poles z and conj(z).
func conjugateSection(z, zc complex128) biquad.Coefficients {
	return normalizedSection(-2*real(z), real(z)*real(z)+imag(z)*imag(z), zc)
}

func realPairSection(z1, z2 float64, zc complex128) biquad.Coefficients {
	return normalizedSection(-(z1 + z2), z1*z2, zc)
}

// normalizedSection returns g*(1 - z^-2)/(1 + a1 z^-1 + a2 z^-2) with g
// chosen so that |H(zc)| = 1.
func normalizedSection(a1, a2 float64, zc complex128) biquad.Coefficients {
	zi := 1 / zc
	num := 1 - zi*zi
	den := 1 + complex(a1, 0)*zi + complex(a2, 0)*zi*zi
	g := cmplx.Abs(den) / cmplx.Abs(num)

	return biquad.Coefficients{B0: g, B1: 0, B2: -g, A1: a1, A2: a2}
}
