package events

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_EmitTyped(t *testing.T) {
	var buf bytes.Buffer
	bus := NewBus(zerolog.Nop())
	manager := NewManager(bus, zerolog.New(&buf))

	var got *Event
	bus.Subscribe(CorrelationsUpdated, func(e *Event) { got = e })

	manager.EmitTyped("correlation", &CorrelationsUpdatedData{
		Window:     30,
		Generation: 7,
		SnapshotID: "abc",
		Tickers:    3,
		ComputedAt: time.Date(2025, 5, 8, 4, 0, 0, 0, time.UTC),
	})

	require.NotNil(t, got)
	assert.Equal(t, "correlation", got.Module)
	assert.Equal(t, float64(30), got.Data["window"])
	assert.Equal(t, float64(7), got.Data["generation"])
	assert.Equal(t, "abc", got.Data["snapshot_id"])
	assert.Contains(t, buf.String(), `"event_type":"CORRELATIONS_UPDATED"`)
	assert.Contains(t, buf.String(), `"level":"info"`)
}

func TestManager_EmitError(t *testing.T) {
	var buf bytes.Buffer
	bus := NewBus(zerolog.Nop())
	manager := NewManager(bus, zerolog.New(&buf))

	var got *Event
	bus.Subscribe(ErrorOccurred, func(e *Event) { got = e })

	manager.EmitError("scheduler", errors.New("upstream down"), map[string]interface{}{"window": 5})

	require.NotNil(t, got)
	assert.Equal(t, "upstream down", got.Data["error"])
	assert.Contains(t, buf.String(), `"level":"warn"`)
}

func TestManager_EmitTypedNil(t *testing.T) {
	bus := NewBus(zerolog.Nop())
	manager := NewManager(bus, zerolog.Nop())

	called := false
	for _, et := range AllEventTypes() {
		bus.Subscribe(et, func(e *Event) { called = true })
	}

	manager.EmitTyped("test", nil)
	assert.False(t, called)
	assert.Same(t, bus, manager.Bus())
}

func TestEventData_Types(t *testing.T) {
	assert.Equal(t, CorrelationsUpdated, (&CorrelationsUpdatedData{}).EventType())
	assert.Equal(t, RefreshFailed, (&RefreshFailedData{}).EventType())
	assert.Equal(t, UniverseEmpty, (&UniverseEmptyData{}).EventType())
	assert.Equal(t, SystemStatusChanged, (&SystemStatusChangedData{}).EventType())
	assert.Equal(t, ErrorOccurred, (&ErrorEventData{}).EventType())
}
