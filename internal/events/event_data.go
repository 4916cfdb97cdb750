package events

import (
	"encoding/json"
	"time"
)

// EventData is the interface that all event data types must implement
type EventData interface {
	// EventType returns the event type this data is associated with
	EventType() EventType
}

// CorrelationsUpdatedData is emitted when a fresh snapshot wins the store
type CorrelationsUpdatedData struct {
	Window     int       `json:"window"`
	Generation uint64    `json:"generation"`
	SnapshotID string    `json:"snapshot_id"`
	Tickers    int       `json:"tickers"`
	ComputedAt time.Time `json:"computed_at"`
	DurationMs int64     `json:"duration_ms"`
}

// EventType returns the event type for CorrelationsUpdatedData
func (d *CorrelationsUpdatedData) EventType() EventType {
	return CorrelationsUpdated
}

// RefreshFailedData contains data for RefreshFailed events
type RefreshFailedData struct {
	Window int    `json:"window"`
	Error  string `json:"error"`
}

// EventType returns the event type for RefreshFailedData
func (d *RefreshFailedData) EventType() EventType {
	return RefreshFailed
}

// UniverseEmptyData is emitted when the upstream returned no tickers
type UniverseEmptyData struct {
	Window int `json:"window"`
}

// EventType returns the event type for UniverseEmptyData
func (d *UniverseEmptyData) EventType() EventType {
	return UniverseEmpty
}

// SystemStatusChangedData contains data for SystemStatusChanged events
type SystemStatusChangedData struct {
	Status    string `json:"status,omitempty"`
	Timestamp string `json:"timestamp"`
}

// EventType returns the event type for SystemStatusChangedData
func (d *SystemStatusChangedData) EventType() EventType {
	return SystemStatusChanged
}

// ErrorEventData contains data for ErrorOccurred events
type ErrorEventData struct {
	Error   string                 `json:"error"`
	Context map[string]interface{} `json:"context,omitempty"`
}

// EventType returns the event type for ErrorEventData
func (d *ErrorEventData) EventType() EventType {
	return ErrorOccurred
}

// convertEventDataToMap flattens typed data into the map carried on the bus
func convertEventDataToMap(data EventData) map[string]interface{} {
	if data == nil {
		return nil
	}

	jsonBytes, err := json.Marshal(data)
	if err != nil {
		return nil
	}

	var result map[string]interface{}
	if err := json.Unmarshal(jsonBytes, &result); err != nil {
		return nil
	}

	return result
}
