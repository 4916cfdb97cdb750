package events

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Handler receives events from the bus
type Handler func(event *Event)

// SubscriptionID identifies a handler registration
type SubscriptionID uint64

// Bus is an in-process pub/sub bus.
// Handlers run synchronously on the emitting goroutine and must not block.
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType]map[SubscriptionID]Handler
	nextID   SubscriptionID
	log      zerolog.Logger
}

// NewBus creates a new event bus
func NewBus(log zerolog.Logger) *Bus {
	return &Bus{
		handlers: make(map[EventType]map[SubscriptionID]Handler),
		log:      log.With().Str("component", "event_bus").Logger(),
	}
}

// Subscribe registers handler for eventType
func (b *Bus) Subscribe(eventType EventType, handler Handler) SubscriptionID {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	if b.handlers[eventType] == nil {
		b.handlers[eventType] = make(map[SubscriptionID]Handler)
	}
	b.handlers[eventType][id] = handler
	return id
}

// Unsubscribe removes a registration. Unknown ids are ignored.
func (b *Bus) Unsubscribe(id SubscriptionID) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for eventType, hs := range b.handlers {
		if _, ok := hs[id]; ok {
			delete(hs, id)
			if len(hs) == 0 {
				delete(b.handlers, eventType)
			}
			return
		}
	}
}

// SubscriberCount returns the number of handlers registered for eventType
func (b *Bus) SubscriberCount(eventType EventType) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers[eventType])
}

// Emit delivers an event to every handler subscribed to eventType
func (b *Bus) Emit(eventType EventType, module string, data map[string]interface{}) {
	event := &Event{
		Type:      eventType,
		Timestamp: time.Now(),
		Data:      data,
		Module:    module,
	}

	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.handlers[eventType]))
	for _, h := range b.handlers[eventType] {
		handlers = append(handlers, h)
	}
	b.mu.RUnlock()

	for _, h := range handlers {
		b.dispatch(h, event)
	}
}

func (b *Bus) dispatch(h Handler, event *Event) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Error().
				Interface("panic", r).
				Str("event_type", string(event.Type)).
				Msg("Event handler panicked")
		}
	}()
	h(event)
}
