package correlation

import (
	"fmt"
	"math"
	"time"

	"github.com/aristath/stockpulse/pkg/formulas"
)

// NeutralColor is used for cells with exactly zero correlation
const NeutralColor = "rgb(200, 200, 200)"

// HeatmapCell is one rendered matrix cell
type HeatmapCell struct {
	Row     string  `json:"row"`
	Col     string  `json:"col"`
	Value   float64 `json:"value"`
	Color   string  `json:"color"`
	Tooltip string  `json:"tooltip"`
}

// HeatmapHeader describes a row/column ticker
type HeatmapHeader struct {
	Ticker  string  `json:"ticker"`
	Name    string  `json:"name"`
	Samples int     `json:"samples"`
	Mean    float64 `json:"mean"`
	StdDev  float64 `json:"std_dev"`
	Tooltip string  `json:"tooltip"`
}

// LegendEntry is a labelled reference color
type LegendEntry struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
	Color string  `json:"color"`
}

// Heatmap is the server-rendered view of a snapshot
type Heatmap struct {
	SnapshotID  string          `json:"snapshot_id"`
	Generation  uint64          `json:"generation"`
	Window      int             `json:"window"`
	WindowLabel string          `json:"window_label"`
	Headers     []HeatmapHeader `json:"headers"`
	Rows        [][]HeatmapCell `json:"rows"`
	Legend      []LegendEntry   `json:"legend"`
	ComputedAt  time.Time       `json:"computed_at"`
}

// CellColor maps a correlation to a CSS color: blue for positive, red for negative,
// grey for exactly zero. Intensity grows with |v|.
func CellColor(v float64) string {
	v = formulas.Clamp(v)
	if v == 0 {
		return NeutralColor
	}

	fade := int(math.Round(255 * (1 - math.Abs(v))))
	if v > 0 {
		return fmt.Sprintf("rgb(%d, %d, 255)", fade, fade)
	}
	return fmt.Sprintf("rgb(255, %d, %d)", fade, fade)
}

// Legend returns the reference colors shown next to the heatmap
func Legend() []LegendEntry {
	return []LegendEntry{
		{Label: "Strong Positive", Value: 1, Color: CellColor(1)},
		{Label: "Neutral", Value: 0, Color: CellColor(0)},
		{Label: "Strong Negative", Value: -1, Color: CellColor(-1)},
	}
}

// BuildHeatmap renders a snapshot in ticker order
func BuildHeatmap(snapshot *Snapshot) Heatmap {
	hm := Heatmap{
		Headers: []HeatmapHeader{},
		Rows:    [][]HeatmapCell{},
		Legend:  Legend(),
	}
	if snapshot == nil {
		return hm
	}

	hm.SnapshotID = snapshot.ID
	hm.Generation = snapshot.Generation
	hm.Window = snapshot.Window.Minutes()
	hm.WindowLabel = snapshot.Window.Label()
	hm.ComputedAt = snapshot.ComputedAt

	names := make(map[string]string, len(snapshot.Stocks))
	for _, st := range snapshot.Stocks {
		names[st.Ticker] = st.Name
	}

	for _, ticker := range snapshot.Tickers {
		stats := snapshot.Stats[ticker]
		hm.Headers = append(hm.Headers, HeatmapHeader{
			Ticker:  ticker,
			Name:    names[ticker],
			Samples: stats.Samples,
			Mean:    stats.Mean,
			StdDev:  stats.StdDev,
			Tooltip: statsTooltip(stats),
		})
	}

	for _, a := range snapshot.Tickers {
		row := make([]HeatmapCell, 0, len(snapshot.Tickers))
		for _, b := range snapshot.Tickers {
			v := snapshot.Matrix.Get(a, b)
			row = append(row, HeatmapCell{
				Row:     a,
				Col:     b,
				Value:   v,
				Color:   CellColor(v),
				Tooltip: fmt.Sprintf("Correlation (%s - %s): %.4f", a, b, v),
			})
		}
		hm.Rows = append(hm.Rows, row)
	}

	return hm
}

func statsTooltip(stats SeriesStats) string {
	if stats.Samples == 0 {
		return ""
	}
	return fmt.Sprintf("Mean: $%.2f | Std Dev: $%.2f", stats.Mean, stats.StdDev)
}
