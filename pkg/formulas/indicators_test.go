package formulas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMovingAverage(t *testing.T) {
	prices := []float64{1, 2, 3, 4, 5, 6}

	sma := MovingAverage(prices, 3)
	require.Len(t, sma, 4)
	expected := []float64{2, 3, 4, 5}
	for i := range expected {
		assert.InDelta(t, expected[i], sma[i], 1e-9)
	}
}

func TestMovingAverage_FullWindowIsMean(t *testing.T) {
	prices := []float64{231.5, 230.9, 232.8, 229.4}

	sma := MovingAverage(prices, len(prices))
	require.Len(t, sma, 1)
	assert.InDelta(t, Mean(prices), sma[0], 1e-9)
}

func TestMovingAverage_InsufficientData(t *testing.T) {
	assert.Empty(t, MovingAverage([]float64{1, 2}, 3))
	assert.Empty(t, MovingAverage([]float64{1, 2, 3}, 1))
	assert.Empty(t, MovingAverage(nil, 2))
}
