package eq

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupPreset(t *testing.T) {
	for _, name := range []string{"flat", "V-Shape", " vocal ", "bass-boost"} {
		p, err := LookupPreset(name)
		require.NoError(t, err, name)
		assert.Len(t, p.Gains, len(DefaultBands()), name)
	}

	_, err := LookupPreset("loudness")
	assert.ErrorIs(t, err, ErrConfiguration)
	assert.Contains(t, err.Error(), "bass-boost, flat, v-shape, vocal")
}

func TestPresetNames(t *testing.T) {
	assert.Equal(t, []string{"bass-boost", "flat", "v-shape", "vocal"}, PresetNames())
}

func TestPresetsStayInsideWideRange(t *testing.T) {
	for _, name := range PresetNames() {
		p, err := LookupPreset(name)
		require.NoError(t, err)

		for i, g := range p.Gains {
			assert.True(t, GainRangeWide.Contains(g), "%s band %d: %v", name, i, g)
		}
	}
}
