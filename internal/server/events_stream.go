package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/stockpulse/internal/events"
)

// DefaultHeartbeatInterval keeps idle streams alive through proxies
const DefaultHeartbeatInterval = 30 * time.Second

// EventsStreamHandler handles Server-Sent Events (SSE) streaming of bus events.
type EventsStreamHandler struct {
	eventBus  *events.Bus
	heartbeat time.Duration
	log       zerolog.Logger
}

// NewEventsStreamHandler creates a new events stream handler.
func NewEventsStreamHandler(eventBus *events.Bus, log zerolog.Logger) *EventsStreamHandler {
	return &EventsStreamHandler{
		eventBus:  eventBus,
		heartbeat: DefaultHeartbeatInterval,
		log:       log.With().Str("component", "events_stream").Logger(),
	}
}

// ServeHTTP handles GET /api/events/stream requests (SSE).
// The optional types query parameter is a comma-separated list of event types to receive.
func (h *EventsStreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// Get flusher for streaming
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	// Set SSE headers
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	typesFilter := r.URL.Query().Get("types")
	eventTypes := events.AllEventTypes()
	if typesFilter != "" {
		eventTypes = eventTypes[:0:0]
		for _, t := range strings.Split(typesFilter, ",") {
			if t = strings.TrimSpace(t); t != "" {
				eventTypes = append(eventTypes, events.EventType(t))
			}
		}
	}

	h.log.Info().
		Str("types_filter", typesFilter).
		Msg("Client connected to event stream")

	// Buffered so a slow client never blocks the emitter
	eventChan := make(chan *events.Event, 100)

	eventHandler := func(event *events.Event) {
		// Non-blocking send (drop if channel full)
		select {
		case eventChan <- event:
		default:
			h.log.Warn().
				Str("event_type", string(event.Type)).
				Msg("Event channel full, dropping event")
		}
	}

	subscriptions := make([]events.SubscriptionID, 0, len(eventTypes))
	for _, eventType := range eventTypes {
		subscriptions = append(subscriptions, h.eventBus.Subscribe(eventType, eventHandler))
	}
	defer func() {
		for _, id := range subscriptions {
			h.eventBus.Unsubscribe(id)
		}
	}()

	// Send initial connection message
	h.send(w, flusher, map[string]interface{}{
		"type":    "connected",
		"message": "Connected to event stream",
	})

	// Heartbeat ticker to keep connection alive
	heartbeat := time.NewTicker(h.heartbeat)
	defer heartbeat.Stop()

	done := r.Context().Done()
	for {
		select {
		case <-done:
			h.log.Info().Msg("Client disconnected from event stream")
			return

		case event := <-eventChan:
			h.log.Debug().
				Str("event_type", string(event.Type)).
				Msg("Sending event to client")

			h.send(w, flusher, map[string]interface{}{
				"type":      string(event.Type),
				"module":    event.Module,
				"timestamp": event.Timestamp.Format(time.RFC3339),
				"data":      event.Data,
			})

		case <-heartbeat.C:
			h.send(w, flusher, map[string]interface{}{
				"type":      "heartbeat",
				"timestamp": time.Now().Format(time.RFC3339),
			})
		}
	}
}

// send writes one SSE message and flushes it.
func (h *EventsStreamHandler) send(w http.ResponseWriter, flusher http.Flusher, event map[string]interface{}) {
	fmt.Fprintf(w, "data: %s\n\n", h.encodeEvent(event))
	flusher.Flush()
}

// encodeEvent encodes an event map to JSON string.
func (h *EventsStreamHandler) encodeEvent(event map[string]interface{}) string {
	data, err := json.Marshal(event)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to marshal event")
		return `{"error":"failed to encode event"}`
	}
	return string(data)
}
