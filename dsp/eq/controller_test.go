package eq

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-eq/dsp/filter/bank"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newController(t *testing.T, opts ...ControllerOption) (*Controller, *Processor) {
	t.Helper()

	p, _ := newConfigured(t)
	c, err := NewController(p, opts...)
	require.NoError(t, err)

	return c, p
}

func TestNewControllerNeedsConfiguredProcessor(t *testing.T) {
	_, err := NewController(&Processor{})
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestControllerSetGain(t *testing.T) {
	c, p := newController(t)

	assert.Equal(t, 5, c.NumBands())
	assert.Equal(t, GainRangeStandard, c.Range())

	require.NoError(t, c.SetGain(0, 0.5))
	require.NoError(t, c.SetGain(4, 7))

	g, err := c.Gain(4)
	require.NoError(t, err)
	assert.Equal(t, 7.0, g, "stored value is raw")
	assert.Equal(t, []float64{0.5, 1, 1, 1, 7}, c.Gains())
	assert.Equal(t, []float64{0.5, 1, 1, 1, 2}, c.EffectiveGains())
	assert.Equal(t, 0.5, p.Gains().Load(0), "controller writes the processor's vector")
}

func TestControllerIndexErrors(t *testing.T) {
	c, _ := newController(t)

	assert.ErrorIs(t, c.SetGain(5, 1), ErrIndex)
	assert.ErrorIs(t, c.SetGain(-1, 1), ErrIndex)

	_, err := c.Gain(9)
	assert.ErrorIs(t, err, ErrIndex)
	assert.Equal(t, []float64{1, 1, 1, 1, 1}, c.Gains())
}

func TestControllerClampOnWrite(t *testing.T) {
	c, _ := newController(t, WithClampOnWrite(true))

	require.NoError(t, c.SetGain(1, math.NaN()))
	require.NoError(t, c.SetGain(2, 9))

	assert.Equal(t, []float64{1, 0, 2, 1, 1}, c.Gains())
}

func TestControllerSetGainDB(t *testing.T) {
	c, _ := newController(t)

	require.NoError(t, c.SetGainDB(3, 20*math.Log10(2)))
	require.NoError(t, c.SetGainDB(2, -6))

	g, err := c.Gain(3)
	require.NoError(t, err)
	assert.InDelta(t, 2, g, 1e-12)

	g, err = c.Gain(2)
	require.NoError(t, err)
	assert.InDelta(t, 0.501187, g, 1e-6)
}

func TestControllerSetGains(t *testing.T) {
	c, _ := newController(t)

	require.NoError(t, c.SetGains([]float64{0, 0.5, 1, 1.5, 2}))
	assert.Equal(t, []float64{0, 0.5, 1, 1.5, 2}, c.Gains())

	err := c.SetGains([]float64{2, 2})
	assert.ErrorIs(t, err, ErrShapeMismatch)
	assert.Equal(t, []float64{0, 0.5, 1, 1.5, 2}, c.Gains(), "a rejected update changes nothing")

	c.Flat()
	assert.Equal(t, []float64{1, 1, 1, 1, 1}, c.Gains())
}

func TestControllerApplyPreset(t *testing.T) {
	p, hook := newConfigured(t)
	c, err := NewController(p)
	require.NoError(t, err)

	require.NoError(t, c.ApplyPreset(PresetVShape))
	assert.Equal(t, PresetVShape.Gains, c.Gains())
	assert.Equal(t, []float64{2, 1, 0.5, 1, 2}, c.EffectiveGains())

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.InfoLevel, entry.Level)
	assert.Equal(t, "v-shape", entry.Data["preset"])

	err = c.ApplyPreset(Preset{Name: "short", Gains: []float64{1}})
	assert.ErrorIs(t, err, ErrShapeMismatch)
	assert.Contains(t, err.Error(), `preset "short"`)
}

func TestControllerLogsAtDebug(t *testing.T) {
	p, hook := newConfigured(t)
	c, err := NewController(p)
	require.NoError(t, err)

	hook.Reset()
	require.NoError(t, c.SetGain(1, 3))

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.DebugLevel, entry.Level)
	assert.Equal(t, "bass", entry.Data["band"])
	assert.Equal(t, 3.0, entry.Data["gain"])
	assert.Equal(t, false, entry.Data["in_range"])
}

func TestControllerBandIndex(t *testing.T) {
	c, _ := newController(t)

	assert.Equal(t, []string{"sub-bass", "bass", "mids", "upper mids", "air"}, c.Labels())

	tests := []struct {
		name string
		want int
	}{
		{"sub-bass", 0},
		{"BASS", 1},
		{" upper mids ", 3},
		{"4", 4},
		{"0", 0},
	}

	for _, tt := range tests {
		idx, err := c.BandIndex(tt.name)
		require.NoError(t, err, tt.name)
		assert.Equal(t, tt.want, idx, tt.name)
	}

	for _, name := range []string{"5", "-1", "treble", ""} {
		_, err := c.BandIndex(name)
		assert.ErrorIs(t, err, ErrIndex, name)
	}
}

func TestControllerLabelsAreCopied(t *testing.T) {
	c, _ := newController(t)

	labels := c.Labels()
	labels[0] = "changed"

	assert.Equal(t, "sub-bass", c.Labels()[0])
}

func TestControllerUnlabelledBands(t *testing.T) {
	logger, _ := newNullLogger()

	p, err := New([]bank.BandSpec{{LowHz: 100, HighHz: 200}}, WithLogger(logger))
	require.NoError(t, err)

	c, err := NewController(p)
	require.NoError(t, err)
	assert.Equal(t, []string{"100-200"}, c.Labels())

	idx, err := c.BandIndex("100-200")
	require.NoError(t, err)
	assert.Zero(t, idx)
}
