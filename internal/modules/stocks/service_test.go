package stocks

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/stockpulse/internal/domain"
	testutil "github.com/aristath/stockpulse/internal/testing"
)

func TestListStocks(t *testing.T) {
	service := NewService(testutil.NewFixtureProvider(), zerolog.Nop())

	stocks := service.ListStocks(context.Background())

	assert.Equal(t, testutil.NewStockFixtures(), stocks)
}

func TestGetChart(t *testing.T) {
	provider := testutil.NewMockStockDataProvider()
	provider.SetPrices("NVDA", 2, 4, 4, 4, 5, 5, 7, 9)
	service := NewService(provider, zerolog.Nop())

	chart, err := service.GetChart(context.Background(), "NVDA", domain.Window10m, 0)
	require.NoError(t, err)

	assert.Equal(t, "NVDA", chart.Ticker)
	assert.Equal(t, 10, chart.Window)
	assert.Equal(t, "Last 10 Minutes", chart.WindowLabel)
	assert.Len(t, chart.Points, 8)
	assert.Equal(t, 5.0, chart.Average)
	assert.InDelta(t, 2.1381, chart.StdDev, 1e-4)
	assert.True(t, chart.ShowAverage)
	assert.Empty(t, chart.SMA)
	assert.Zero(t, chart.SMAPeriod)
}

func TestGetChart_MovingAverage(t *testing.T) {
	provider := testutil.NewMockStockDataProvider()
	provider.SetPrices("AMD", 1, 2, 3, 4, 5, 6)
	service := NewService(provider, zerolog.Nop())

	chart, err := service.GetChart(context.Background(), "AMD", domain.Window5m, 3)
	require.NoError(t, err)

	require.Len(t, chart.SMA, 4)
	assert.InDelta(t, 2.0, chart.SMA[0].Value, 1e-9)
	assert.InDelta(t, 5.0, chart.SMA[3].Value, 1e-9)
	assert.Equal(t, chart.Points[2].ObservedAt, chart.SMA[0].ObservedAt)
	assert.Equal(t, chart.Points[5].ObservedAt, chart.SMA[3].ObservedAt)
	assert.Equal(t, 3, chart.SMAPeriod)
}

func TestGetChart_MovingAverageLongerThanHistory(t *testing.T) {
	provider := testutil.NewMockStockDataProvider()
	provider.SetPrices("AMD", 1, 2)
	service := NewService(provider, zerolog.Nop())

	chart, err := service.GetChart(context.Background(), "AMD", domain.Window5m, 5)
	require.NoError(t, err)
	assert.Empty(t, chart.SMA)
	assert.NotNil(t, chart.SMA)
}

func TestGetChart_EmptyHistory(t *testing.T) {
	provider := testutil.NewMockStockDataProvider()
	provider.SetFailing("PYPL")
	service := NewService(provider, zerolog.Nop())

	chart, err := service.GetChart(context.Background(), "PYPL", domain.Window5m, 3)
	require.NoError(t, err)

	assert.Empty(t, chart.Points)
	assert.Equal(t, 0.0, chart.Average)
	assert.Equal(t, 0.0, chart.StdDev)
	assert.False(t, chart.ShowAverage)
	assert.Empty(t, chart.SMA)
}

func TestGetChart_Validation(t *testing.T) {
	service := NewService(testutil.NewMockStockDataProvider(), zerolog.Nop())

	_, err := service.GetChart(context.Background(), "  ", domain.Window5m, 0)
	assert.True(t, errors.Is(err, ErrTickerRequired))

	_, err = service.GetChart(context.Background(), "NVDA", domain.TimeWindow(3), 0)
	assert.True(t, errors.Is(err, domain.ErrInvalidTimeWindow))
}

func TestGetChart_CancelledContext(t *testing.T) {
	service := NewService(testutil.NewFixtureProvider(), zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := service.GetChart(ctx, "NVDA", domain.Window5m, 0)
	assert.True(t, errors.Is(err, context.Canceled))
}
