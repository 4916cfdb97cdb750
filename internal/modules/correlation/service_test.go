package correlation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/stockpulse/internal/domain"
	"github.com/aristath/stockpulse/internal/events"
	testutil "github.com/aristath/stockpulse/internal/testing"
)

func newTestService(provider domain.StockDataProvider) (*Service, *events.Bus) {
	log := zerolog.Nop()
	bus := events.NewBus(log)
	manager := events.NewManager(bus, log)
	return NewService(provider, NewStore(log), manager, 4, log), bus
}

func TestRefresh_PreservesUniverseOrder(t *testing.T) {
	provider := testutil.NewFixtureProvider()
	service, _ := newTestService(provider)

	snapshot, err := service.Refresh(context.Background(), domain.Window5m)
	require.NoError(t, err)

	assert.Equal(t, []string{"NVDA", "AAPL", "AMD", "PYPL"}, snapshot.Tickers)
	assert.Equal(t, testutil.NewStockFixtures(), snapshot.Stocks)
	assert.NotEmpty(t, snapshot.ID)
	assert.Equal(t, domain.Window5m, snapshot.Window)
	assert.False(t, snapshot.ComputedAt.IsZero())
	assert.Equal(t, 1, provider.StockCalls())
	assert.Equal(t, 1, provider.HistoryCalls("AMD"))
}

func TestRefresh_ComputesMatrixAndStats(t *testing.T) {
	service, _ := newTestService(testutil.NewFixtureProvider())

	snapshot, err := service.Refresh(context.Background(), domain.Window30m)
	require.NoError(t, err)

	m := snapshot.Matrix
	assert.InDelta(t, 1.0, m["NVDA"]["AAPL"], 1e-9)
	assert.Less(t, m["NVDA"]["AMD"], -0.9)
	assert.Equal(t, 0.0, m["NVDA"]["PYPL"])
	for _, ticker := range snapshot.Tickers {
		assert.Equal(t, 1.0, m[ticker][ticker])
	}

	assert.Equal(t, 6, snapshot.Stats["PYPL"].Samples)
	assert.Equal(t, 70.0, snapshot.Stats["PYPL"].Mean)
	assert.Equal(t, 0.0, snapshot.Stats["PYPL"].StdDev)
}

func TestRefresh_FailingTickerYieldsZeroCells(t *testing.T) {
	provider := testutil.NewFixtureProvider()
	provider.SetFailing("AAPL")
	service, _ := newTestService(provider)

	snapshot, err := service.Refresh(context.Background(), domain.Window5m)
	require.NoError(t, err)

	assert.Equal(t, 1.0, snapshot.Matrix["AAPL"]["AAPL"])
	for _, other := range []string{"NVDA", "AMD", "PYPL"} {
		assert.Equal(t, 0.0, snapshot.Matrix["AAPL"][other])
		assert.Equal(t, 0.0, snapshot.Matrix[other]["AAPL"])
	}
	assert.Equal(t, 0, snapshot.Stats["AAPL"].Samples)
	assert.Less(t, snapshot.Matrix["NVDA"]["AMD"], -0.9)
}

func TestRefresh_EmptyUniverse(t *testing.T) {
	service, bus := newTestService(testutil.NewMockStockDataProvider())

	var emptied, updated int
	bus.Subscribe(events.UniverseEmpty, func(e *events.Event) { emptied++ })
	bus.Subscribe(events.CorrelationsUpdated, func(e *events.Event) { updated++ })

	snapshot, err := service.RefreshAndPublish(context.Background(), domain.Window5m)
	require.NoError(t, err)

	assert.Empty(t, snapshot.Tickers)
	assert.Empty(t, snapshot.Matrix)
	assert.Equal(t, 1, emptied)
	assert.Equal(t, 1, updated)
}

func TestRefresh_GenerationsIncrease(t *testing.T) {
	service, _ := newTestService(testutil.NewFixtureProvider())

	first, err := service.Refresh(context.Background(), domain.Window5m)
	require.NoError(t, err)
	second, err := service.Refresh(context.Background(), domain.Window5m)
	require.NoError(t, err)

	assert.Greater(t, second.Generation, first.Generation)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestRefresh_InvalidWindow(t *testing.T) {
	service, _ := newTestService(testutil.NewFixtureProvider())

	_, err := service.Refresh(context.Background(), domain.TimeWindow(7))
	assert.True(t, errors.Is(err, domain.ErrInvalidTimeWindow))
}

func TestRefresh_CancelledContextPublishesNothing(t *testing.T) {
	provider := testutil.NewFixtureProvider()
	provider.SetDelay(time.Second)
	service, bus := newTestService(provider)

	updated := 0
	bus.Subscribe(events.CorrelationsUpdated, func(e *events.Event) { updated++ })

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := service.RefreshAndPublish(ctx, domain.Window5m)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))

	_, ok := service.Store().Latest(domain.Window5m)
	assert.False(t, ok)
	assert.Equal(t, 0, updated)
}

func TestRefreshAndPublish_EmitsUpdate(t *testing.T) {
	service, bus := newTestService(testutil.NewFixtureProvider())

	var got *events.Event
	bus.Subscribe(events.CorrelationsUpdated, func(e *events.Event) { got = e })

	snapshot, err := service.RefreshAndPublish(context.Background(), domain.Window10m)
	require.NoError(t, err)

	stored, ok := service.Store().Latest(domain.Window10m)
	require.True(t, ok)
	assert.Same(t, snapshot, stored)

	require.NotNil(t, got)
	assert.Equal(t, float64(10), got.Data["window"])
	assert.Equal(t, snapshot.ID, got.Data["snapshot_id"])
	assert.Equal(t, float64(4), got.Data["tickers"])
}

func TestRefreshAndPublish_StaleResultReturnsWinner(t *testing.T) {
	service, bus := newTestService(testutil.NewFixtureProvider())

	updated := 0
	bus.Subscribe(events.CorrelationsUpdated, func(e *events.Event) { updated++ })

	// A cycle that started later already published.
	winner := snapshotFor(domain.Window5m, ^uint64(0))
	require.True(t, service.Store().Publish(winner))

	got, err := service.RefreshAndPublish(context.Background(), domain.Window5m)
	require.NoError(t, err)

	assert.Same(t, winner, got)
	assert.Equal(t, 0, updated)
}

func TestCurrent_UsesFreshSnapshot(t *testing.T) {
	provider := testutil.NewFixtureProvider()
	service, _ := newTestService(provider)

	first, err := service.Current(context.Background(), domain.Window5m, time.Minute)
	require.NoError(t, err)
	second, err := service.Current(context.Background(), domain.Window5m, time.Minute)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, provider.StockCalls())
}

func TestCurrent_RefreshesStaleSnapshot(t *testing.T) {
	provider := testutil.NewFixtureProvider()
	service, _ := newTestService(provider)

	first, err := service.Current(context.Background(), domain.Window5m, time.Minute)
	require.NoError(t, err)
	first.ComputedAt = first.ComputedAt.Add(-2 * time.Minute)

	second, err := service.Current(context.Background(), domain.Window5m, time.Minute)
	require.NoError(t, err)

	assert.NotSame(t, first, second)
	assert.Greater(t, second.Generation, first.Generation)
	assert.Equal(t, 2, provider.StockCalls())
}

func TestNewService_DefaultConcurrency(t *testing.T) {
	service := NewService(testutil.NewMockStockDataProvider(), NewStore(zerolog.Nop()), nil, 0, zerolog.Nop())
	assert.Equal(t, DefaultFetchConcurrency, service.concurrency)

	_, err := service.RefreshAndPublish(context.Background(), domain.Window5m)
	assert.NoError(t, err)
}
