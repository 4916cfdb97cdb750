package correlation

import (
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/aristath/stockpulse/internal/domain"
)

// Store keeps the latest snapshot per window.
// A snapshot replaces the stored one only if its generation is strictly newer.
type Store struct {
	mu        sync.RWMutex
	snapshots map[domain.TimeWindow]*Snapshot
	log       zerolog.Logger
}

// NewStore creates an empty snapshot store
func NewStore(log zerolog.Logger) *Store {
	return &Store{
		snapshots: make(map[domain.TimeWindow]*Snapshot),
		log:       log.With().Str("component", "correlation_store").Logger(),
	}
}

// Publish stores snapshot if it is newer than the current one for its window.
// It reports whether the snapshot was accepted.
func (s *Store) Publish(snapshot *Snapshot) bool {
	if snapshot == nil {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if current, ok := s.snapshots[snapshot.Window]; ok && snapshot.Generation <= current.Generation {
		s.log.Debug().
			Int("window", snapshot.Window.Minutes()).
			Uint64("generation", snapshot.Generation).
			Uint64("current_generation", current.Generation).
			Msg("Discarding stale snapshot")
		return false
	}

	s.snapshots[snapshot.Window] = snapshot
	return true
}

// Latest returns the stored snapshot for window
func (s *Store) Latest(window domain.TimeWindow) (*Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot, ok := s.snapshots[window]
	return snapshot, ok
}

// All summarizes every stored snapshot, ordered by window
func (s *Store) All() []SnapshotSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	summaries := make([]SnapshotSummary, 0, len(s.snapshots))
	for _, snap := range s.snapshots {
		summaries = append(summaries, SnapshotSummary{
			Window:     snap.Window,
			Generation: snap.Generation,
			SnapshotID: snap.ID,
			Tickers:    len(snap.Tickers),
			ComputedAt: snap.ComputedAt,
		})
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].Window < summaries[j].Window
	})
	return summaries
}
