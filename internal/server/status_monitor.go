package server

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/stockpulse/internal/events"
)

// StatusMonitor periodically checks the system status and emits an event when it changes
type StatusMonitor struct {
	eventManager   *events.Manager
	systemHandlers *SystemHandlers
	log            zerolog.Logger

	mu         sync.Mutex
	lastStatus string
	stop       chan struct{}
	stopOnce   sync.Once
}

// NewStatusMonitor creates a new status monitor
func NewStatusMonitor(eventManager *events.Manager, systemHandlers *SystemHandlers, log zerolog.Logger) *StatusMonitor {
	return &StatusMonitor{
		eventManager:   eventManager,
		systemHandlers: systemHandlers,
		log:            log.With().Str("component", "status_monitor").Logger(),
		stop:           make(chan struct{}),
	}
}

// Start begins periodic status monitoring
func (m *StatusMonitor) Start(interval time.Duration) {
	go m.monitor(interval)
}

// Stop ends monitoring. Safe to call more than once.
func (m *StatusMonitor) Stop() {
	m.stopOnce.Do(func() { close(m.stop) })
}

// monitor runs the periodic monitoring loop
func (m *StatusMonitor) monitor(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Do initial check
	m.checkSystemStatus()

	for {
		select {
		case <-m.stop:
			return
		case <-ticker.C:
			m.checkSystemStatus()
		}
	}
}

// checkSystemStatus emits SYSTEM_STATUS_CHANGED when the derived status differs from the last one seen
func (m *StatusMonitor) checkSystemStatus() bool {
	if m.systemHandlers == nil {
		return false
	}
	status := m.systemHandlers.CurrentStatus()

	m.mu.Lock()
	changed := status != m.lastStatus
	m.lastStatus = status
	m.mu.Unlock()

	if !changed {
		return false
	}

	m.log.Info().Str("status", status).Msg("System status changed")
	if m.eventManager != nil {
		m.eventManager.EmitTyped("status_monitor", &events.SystemStatusChangedData{
			Status:    status,
			Timestamp: time.Now().Format(time.RFC3339),
		})
	}
	return true
}
