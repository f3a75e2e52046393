package source

import (
	"fmt"
	"math"
	"sync"
)

const (
	// DefaultToneHz is A4.
	DefaultToneHz = 440.0
	// DefaultToneAmplitude is half scale.
	DefaultToneAmplitude = 0.5
)

// Tone generates an endless sine. Phase is continuous across reads.
type Tone struct {
	mu         sync.Mutex
	freq       float64
	amplitude  float64
	sampleRate int
	phase      float64
	step       float64
}

// NewTone returns a sine generator. The frequency must lie in
// (0, sampleRate/2) and the amplitude in [0, 1].
func NewTone(freqHz, amplitude float64, sampleRate int) (*Tone, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("source: tone sample rate must be positive: %d", sampleRate)
	}

	if !(freqHz > 0) || freqHz >= float64(sampleRate)/2 {
		return nil, fmt.Errorf("source: tone frequency %v Hz outside (0, %v)", freqHz, float64(sampleRate)/2)
	}

	if !(amplitude >= 0 && amplitude <= 1) {
		return nil, fmt.Errorf("source: tone amplitude %v outside [0, 1]", amplitude)
	}

	return &Tone{
		freq:       freqHz,
		amplitude:  amplitude,
		sampleRate: sampleRate,
		step:       2 * math.Pi * freqHz / float64(sampleRate),
	}, nil
}

// Read fills dst with the next samples of the tone. It never fails.
func (t *Tone) Read(dst []float64) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for i := range dst {
		dst[i] = t.amplitude * math.Sin(t.phase)

		t.phase += t.step
		if t.phase >= 2*math.Pi {
			t.phase -= 2 * math.Pi
		}
	}

	return len(dst), nil
}

// Frequency returns the tone frequency in Hz.
func (t *Tone) Frequency() float64 { return t.freq }

// SampleRate returns the generator rate in Hz.
func (t *Tone) SampleRate() int { return t.sampleRate }

// Close is a no-op.
func (t *Tone) Close() error { return nil }
