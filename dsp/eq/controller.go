package eq

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cwbudde/algo-eq/dsp/core"
	"github.com/sirupsen/logrus"
)

// Controller is the control-side writer of a GainVector. It is safe for
// concurrent use; every write is a single atomic store per band.
type Controller struct {
	gains        *GainVector
	rng          GainRange
	labels       []string
	clampOnWrite bool
	log          *logrus.Entry
}

// ControllerOption configures a Controller.
type ControllerOption func(*Controller)

// WithClampOnWrite clamps values to the gain range when they are set, so
// callers read back the effective value. Clamping at read time still applies.
func WithClampOnWrite(enabled bool) ControllerOption {
	return func(c *Controller) {
		c.clampOnWrite = enabled
	}
}

// NewController returns a controller writing to the processor's own gain
// vector. The processor must be configured.
func NewController(p *Processor, opts ...ControllerOption) (*Controller, error) {
	if p.Gains() == nil {
		return nil, fmt.Errorf("%w: controller needs a configured processor", ErrInvalidState)
	}

	specs := p.Bands()
	labels := make([]string, len(specs))

	for i, s := range specs {
		labels[i] = s.Name()
	}

	c := &Controller{
		gains:  p.Gains(),
		rng:    p.GainRange(),
		labels: labels,
		log:    p.log,
	}
	for _, o := range opts {
		o(c)
	}

	return c, nil
}

// NumBands returns the number of controllable bands.
func (c *Controller) NumBands() int { return c.gains.Len() }

// Range returns the gain range of the processor.
func (c *Controller) Range() GainRange { return c.rng }

// Labels returns the band names in band order.
func (c *Controller) Labels() []string { return append([]string(nil), c.labels...) }

// SetGain stores value for band. It fails with ErrIndex unless
// 0 <= band < NumBands. Out-of-range values are accepted and clamped when the
// audio path reads them, or immediately with WithClampOnWrite.
func (c *Controller) SetGain(band int, value float64) error {
	if band < 0 || band >= c.gains.Len() {
		return fmt.Errorf("%w: %d (bands: %d)", ErrIndex, band, c.gains.Len())
	}

	if c.clampOnWrite {
		value = c.rng.Clamp(value)
	}

	if err := c.gains.Store(band, value); err != nil {
		return err
	}

	c.log.WithFields(logrus.Fields{
		"function": "Controller.SetGain",
		"band":     c.labels[band],
		"gain":     value,
		"in_range": c.rng.Contains(value),
	}).Debug("Band gain updated")

	return nil
}

// SetGainDB sets a band gain given in dB.
func (c *Controller) SetGainDB(band int, db float64) error {
	return c.SetGain(band, core.DBToLinear(db))
}

// Gain returns the stored (unclamped) gain of band.
func (c *Controller) Gain(band int) (float64, error) {
	if band < 0 || band >= c.gains.Len() {
		return 0, fmt.Errorf("%w: %d (bands: %d)", ErrIndex, band, c.gains.Len())
	}

	return c.gains.Load(band), nil
}

// Gains returns a snapshot of the stored gains.
func (c *Controller) Gains() []float64 {
	return c.gains.Snapshot()
}

// EffectiveGains returns the gains as the audio path will apply them.
func (c *Controller) EffectiveGains() []float64 {
	g := c.gains.Snapshot()
	for i := range g {
		g[i] = c.rng.Clamp(g[i])
	}

	return g
}

// SetGains stores one value per band. It fails with ErrShapeMismatch when the
// count differs from NumBands, without changing any gain.
func (c *Controller) SetGains(values []float64) error {
	if len(values) != c.gains.Len() {
		return fmt.Errorf("%w: %d gains for %d bands", ErrShapeMismatch, len(values), c.gains.Len())
	}

	for i, v := range values {
		if err := c.SetGain(i, v); err != nil {
			return err
		}
	}

	return nil
}

// ApplyPreset stores the preset's gains.
func (c *Controller) ApplyPreset(p Preset) error {
	if err := c.SetGains(p.Gains); err != nil {
		return fmt.Errorf("preset %q: %w", p.Name, err)
	}

	c.log.WithFields(logrus.Fields{
		"function": "Controller.ApplyPreset",
		"preset":   p.Name,
	}).Info("Preset applied")

	return nil
}

// Flat sets every band to unity gain.
func (c *Controller) Flat() {
	for i := range c.gains.Len() {
		_ = c.gains.Store(i, 1)
	}
}

// BandIndex resolves a band by label (case-insensitive) or by its decimal
// index.
func (c *Controller) BandIndex(name string) (int, error) {
	name = strings.TrimSpace(name)

	for i, l := range c.labels {
		if strings.EqualFold(l, name) {
			return i, nil
		}
	}

	if idx, err := strconv.Atoi(name); err == nil {
		if idx < 0 || idx >= len(c.labels) {
			return 0, fmt.Errorf("%w: %d (bands: %d)", ErrIndex, idx, len(c.labels))
		}

		return idx, nil
	}

	return 0, fmt.Errorf("%w: no band named %q", ErrIndex, name)
}
