// Package events provides event management functionality.
package events

import (
	"time"
)

// EventType represents different event types
type EventType string

const (
	CorrelationsUpdated EventType = "CORRELATIONS_UPDATED"
	RefreshFailed       EventType = "REFRESH_FAILED"
	UniverseEmpty       EventType = "UNIVERSE_EMPTY"
	SystemStatusChanged EventType = "SYSTEM_STATUS_CHANGED"
	ErrorOccurred       EventType = "ERROR_OCCURRED"
)

// AllEventTypes lists every event type a stream client can receive
func AllEventTypes() []EventType {
	return []EventType{
		CorrelationsUpdated,
		RefreshFailed,
		UniverseEmpty,
		SystemStatusChanged,
		ErrorOccurred,
	}
}

// Event represents a system event
type Event struct {
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Data      map[string]interface{} `json:"data"`
	Module    string                 `json:"module"`
}
