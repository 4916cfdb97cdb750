// Package correlation builds pairwise price correlation matrices and keeps the latest one per window.
package correlation

import (
	"time"

	"github.com/aristath/stockpulse/internal/domain"
)

// Matrix maps row ticker to column ticker to Pearson correlation
type Matrix map[string]map[string]float64

// Get returns the cell for (a, b), or 0 when either ticker is absent
func (m Matrix) Get(a, b string) float64 {
	return m[a][b]
}

// SeriesStats summarizes one ticker's price sequence
type SeriesStats struct {
	Samples int     `json:"samples"`
	Mean    float64 `json:"mean"`
	StdDev  float64 `json:"std_dev"`
}

// Snapshot is the result of one refresh cycle
type Snapshot struct {
	ID         string                 `json:"id"`
	Generation uint64                 `json:"generation"`
	Window     domain.TimeWindow      `json:"window"`
	Stocks     []domain.Stock         `json:"stocks"`
	Tickers    []string               `json:"tickers"`
	Matrix     Matrix                 `json:"matrix"`
	Stats      map[string]SeriesStats `json:"stats"`
	ComputedAt time.Time              `json:"computed_at"`
	Duration   time.Duration          `json:"-"`
	DurationMs int64                  `json:"duration_ms"`
}

// Age returns how long ago the snapshot was computed
func (s *Snapshot) Age(now time.Time) time.Duration {
	return now.Sub(s.ComputedAt)
}

// SnapshotSummary is the status view of a stored snapshot
type SnapshotSummary struct {
	Window     domain.TimeWindow `json:"window"`
	Generation uint64            `json:"generation"`
	SnapshotID string            `json:"snapshot_id"`
	Tickers    int               `json:"tickers"`
	ComputedAt time.Time         `json:"computed_at"`
}
