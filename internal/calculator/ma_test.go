package calculator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateSMA(t *testing.T) {
	got, err := CalculateSMA([]float64{1, 2, 3, 4, 5}, 3)
	require.NoError(t, err)
	assert.Equal(t, 4.0, got)

	_, err = CalculateSMA([]float64{1, 2}, 3)
	assert.Error(t, err)
	_, err = CalculateSMA([]float64{1, 2}, 0)
	assert.Error(t, err)
}

func TestSMASeries(t *testing.T) {
	assert.Nil(t, SMASeries([]float64{1, 2}, 3))

	got := SMASeries([]float64{1, 2, 3, 4, 5}, 3)
	require.Len(t, got, 5)
	assert.InDelta(t, 2.0, got[2], 1e-9)
	assert.InDelta(t, 3.0, got[3], 1e-9)
	assert.InDelta(t, 4.0, got[4], 1e-9)

	assert.Equal(t, []float64{1, 2}, SMASeries([]float64{1, 2}, 1))
}

func TestEMASeries(t *testing.T) {
	assert.Nil(t, EMASeries(nil, 10))

	got := EMASeries([]float64{10, 20, 20}, 3)
	require.Len(t, got, 3)
	assert.Equal(t, 10.0, got[0])
	assert.InDelta(t, 15.0, got[1], 1e-9)
	assert.InDelta(t, 17.5, got[2], 1e-9)
}

func TestRound2(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{1.005, 1.01},
		{18.875, 18.88},
		{-2.345, -2.35},
		{3.14159, 3.14},
		{50, 50},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Round2(tt.in), "Round2(%v)", tt.in)
	}
	assert.True(t, math.IsNaN(Round2(math.NaN())))
}
