package scheduler

import (
	"context"

	"github.com/aristath/stockpulse/internal/domain"
	"github.com/aristath/stockpulse/internal/events"
	"github.com/aristath/stockpulse/internal/modules/correlation"
)

// CorrelationRefresherInterface defines the contract for refreshing correlation snapshots
// Used by scheduler to enable testing with mocks
type CorrelationRefresherInterface interface {
	RefreshAndPublish(ctx context.Context, window domain.TimeWindow) (*correlation.Snapshot, error)
}

// EventManagerInterface defines the contract for event emission
type EventManagerInterface interface {
	EmitTyped(module string, data events.EventData)
}
