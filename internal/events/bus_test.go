package events

import (
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBus_EmitDeliversToSubscribers(t *testing.T) {
	bus := NewBus(zerolog.Nop())

	var received []*Event
	bus.Subscribe(CorrelationsUpdated, func(e *Event) {
		received = append(received, e)
	})
	bus.Subscribe(RefreshFailed, func(e *Event) {
		t.Fatal("handler for another type must not run")
	})

	bus.Emit(CorrelationsUpdated, "correlation", map[string]interface{}{"window": 5})

	require.Len(t, received, 1)
	assert.Equal(t, CorrelationsUpdated, received[0].Type)
	assert.Equal(t, "correlation", received[0].Module)
	assert.Equal(t, 5, received[0].Data["window"])
	assert.False(t, received[0].Timestamp.IsZero())
}

func TestBus_Unsubscribe(t *testing.T) {
	bus := NewBus(zerolog.Nop())

	calls := 0
	id := bus.Subscribe(UniverseEmpty, func(e *Event) { calls++ })
	assert.Equal(t, 1, bus.SubscriberCount(UniverseEmpty))

	bus.Emit(UniverseEmpty, "test", nil)
	bus.Unsubscribe(id)
	bus.Unsubscribe(id)
	bus.Emit(UniverseEmpty, "test", nil)

	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, bus.SubscriberCount(UniverseEmpty))
}

func TestBus_RecoversHandlerPanic(t *testing.T) {
	bus := NewBus(zerolog.Nop())

	reached := false
	bus.Subscribe(ErrorOccurred, func(e *Event) { panic("boom") })
	bus.Subscribe(ErrorOccurred, func(e *Event) { reached = true })

	assert.NotPanics(t, func() {
		bus.Emit(ErrorOccurred, "test", nil)
	})
	assert.True(t, reached)
}

func TestBus_ConcurrentUse(t *testing.T) {
	bus := NewBus(zerolog.Nop())

	var mu sync.Mutex
	count := 0
	bus.Subscribe(CorrelationsUpdated, func(e *Event) {
		mu.Lock()
		count++
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			bus.Emit(CorrelationsUpdated, "test", nil)
		}()
		go func() {
			defer wg.Done()
			id := bus.Subscribe(RefreshFailed, func(e *Event) {})
			bus.Unsubscribe(id)
		}()
	}
	wg.Wait()

	assert.Equal(t, 20, count)
}
