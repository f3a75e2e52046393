package eq

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-eq/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGainStageSum(t *testing.T) {
	s := NewGainStage(GainRangeStandard, 3, 4)
	bands := [][]float64{
		{1, 2, 3, 4},
		{0.5, 0.5, 0.5, 0.5},
		{-1, 0, 1, 0},
	}
	dst := make([]float64, 4)

	require.NoError(t, s.Apply(dst, bands, []float64{1, 2, 0.5}))
	testutil.RequireNearlyEqual(t, dst, []float64{1.5, 3, 4.5, 5}, 1e-15)
	assert.Equal(t, []float64{1, 2, 0.5}, s.Applied())
}

func TestGainStageClampsAtRead(t *testing.T) {
	s := NewGainStage(GainRangeStandard, 3, 2)
	bands := [][]float64{{1, 1}, {1, 1}, {1, 1}}
	dst := []float64{9, 9}

	require.NoError(t, s.Apply(dst, bands, []float64{math.NaN(), 7, -1}))
	assert.Equal(t, []float64{0, 2, 0}, s.Applied())
	assert.Equal(t, []float64{2, 2}, dst)
}

func TestGainStageShapeMismatch(t *testing.T) {
	s := NewGainStage(GainRangeStandard, 2, 4)
	dst := ones(4)

	err := s.Apply(dst, [][]float64{ones(4), ones(4)}, []float64{1})
	assert.ErrorIs(t, err, ErrShapeMismatch)
	assert.Equal(t, make([]float64, 4), dst, "dst must be silenced")

	dst = ones(4)
	err = s.Apply(dst, [][]float64{ones(4), ones(3)}, []float64{1, 1})
	assert.ErrorIs(t, err, ErrShapeMismatch)
	assert.Equal(t, make([]float64, 4), dst)
}

func TestGainStageLinearity(t *testing.T) {
	bands := [][]float64{
		testutil.Noise(1, 0.3, 64),
		testutil.Noise(2, 0.3, 64),
	}

	apply := func(gains ...float64) []float64 {
		s := NewGainStage(GainRangeWide, 2, 64)
		dst := make([]float64, 64)
		require.NoError(t, s.Apply(dst, bands, gains))

		return dst
	}

	base := apply(1, 0)
	doubled := apply(2, 0)

	for i := range base {
		assert.InDelta(t, 2*base[i], doubled[i], 1e-15)
	}

	sum := apply(1, 1)
	other := apply(0, 1)

	for i := range sum {
		assert.InDelta(t, base[i]+other[i], sum[i], 1e-15)
	}
}

func TestGainStageAllocs(t *testing.T) {
	s := NewGainStage(GainRangeStandard, 5, 512)
	bands := make([][]float64, 5)

	for i := range bands {
		bands[i] = testutil.Noise(int64(i), 0.5, 512)
	}

	gains := []float64{1, 0.5, 0, 2, 1.5}
	dst := make([]float64, 512)

	allocs := testing.AllocsPerRun(100, func() {
		_ = s.Apply(dst, bands, gains)
	})
	assert.Zero(t, allocs)
}
