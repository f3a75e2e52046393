package eq

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGains(t *testing.T) {
	got, err := ParseGains("1, 0.5,2 ,+6dB, -20 dB")
	require.NoError(t, err)
	require.Len(t, got, 5)

	assert.Equal(t, []float64{1, 0.5, 2}, got[:3])
	assert.InDelta(t, 1.995262, got[3], 1e-6)
	assert.InDelta(t, 0.1, got[4], 1e-12)
}

func TestParseGainsErrors(t *testing.T) {
	for _, in := range []string{"", " , ", "1,loud", "3dBx"} {
		_, err := ParseGains(in)
		assert.ErrorIs(t, err, ErrConfiguration, "input %q", in)
	}
}
