package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/stockpulse/internal/domain"
	"github.com/aristath/stockpulse/internal/events"
	"github.com/aristath/stockpulse/internal/modules/correlation"
	testutil "github.com/aristath/stockpulse/internal/testing"
)

type mockRefresher struct {
	mu      sync.Mutex
	windows []domain.TimeWindow
	failFor map[domain.TimeWindow]error
}

func (m *mockRefresher) RefreshAndPublish(ctx context.Context, window domain.TimeWindow) (*correlation.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.windows = append(m.windows, window)
	if err := m.failFor[window]; err != nil {
		return nil, err
	}
	if _, ok := ctx.Deadline(); !ok {
		return nil, errors.New("refresh must run with a deadline")
	}
	return &correlation.Snapshot{Window: window, Generation: 1}, nil
}

type mockEventManager struct {
	mu     sync.Mutex
	events []events.EventData
}

func (m *mockEventManager) EmitTyped(module string, data events.EventData) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, data)
}

func TestRefreshCorrelationsJob_Name(t *testing.T) {
	job := NewRefreshCorrelationsJob(context.Background(), &mockRefresher{}, nil, nil, 0)
	assert.Equal(t, "refresh_correlations", job.Name())
	assert.Equal(t, []domain.TimeWindow{domain.DefaultTimeWindow}, job.windows)
	assert.Equal(t, DefaultRefreshTimeout, job.timeout)
}

func TestRefreshCorrelationsJob_RefreshesEveryWindow(t *testing.T) {
	refresher := &mockRefresher{}
	manager := &mockEventManager{}
	windows := []domain.TimeWindow{domain.Window5m, domain.Window1h, domain.Window4h}

	job := NewRefreshCorrelationsJob(context.Background(), refresher, manager, windows, time.Second)
	job.SetLogger(zerolog.New(nil).Level(zerolog.Disabled))

	require.NoError(t, job.Run())
	assert.Equal(t, windows, refresher.windows)
	assert.Empty(t, manager.events)
}

func TestRefreshCorrelationsJob_JoinsFailures(t *testing.T) {
	refresher := &mockRefresher{failFor: map[domain.TimeWindow]error{
		domain.Window5m: context.DeadlineExceeded,
		domain.Window2h: context.Canceled,
	}}
	manager := &mockEventManager{}
	windows := []domain.TimeWindow{domain.Window5m, domain.Window30m, domain.Window2h}

	job := NewRefreshCorrelationsJob(context.Background(), refresher, manager, windows, time.Second)

	err := job.Run()
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, windows, refresher.windows, "a failing window must not stop later ones")

	require.Len(t, manager.events, 2)
	failed, ok := manager.events[0].(*events.RefreshFailedData)
	require.True(t, ok)
	assert.Equal(t, 5, failed.Window)
	assert.Contains(t, failed.Error, "window 5m")
}

func TestRefreshCorrelationsJob_WithRealService(t *testing.T) {
	log := zerolog.Nop()
	bus := events.NewBus(log)
	manager := events.NewManager(bus, log)
	store := correlation.NewStore(log)
	service := correlation.NewService(testutil.NewFixtureProvider(), store, manager, 4, log)

	updated := 0
	bus.Subscribe(events.CorrelationsUpdated, func(e *events.Event) { updated++ })

	windows := []domain.TimeWindow{domain.Window5m, domain.Window10m}
	job := NewRefreshCorrelationsJob(context.Background(), service, manager, windows, time.Second)

	s := New(log)
	require.NoError(t, s.AddJob("@every 60s", job))
	require.NoError(t, s.RunNow(job))

	assert.Equal(t, 2, updated)
	for _, w := range windows {
		snapshot, ok := store.Latest(w)
		require.True(t, ok)
		assert.Len(t, snapshot.Tickers, 4)
	}
}
