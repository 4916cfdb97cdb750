// Package domain provides core domain models and types.
package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Stock is one entry of the stock universe: a display name and its ticker
type Stock struct {
	Name   string `json:"name"`
	Ticker string `json:"ticker"`
}

// PricePoint is a single observed price for a ticker
type PricePoint struct {
	Price      float64   `json:"price"`
	ObservedAt time.Time `json:"lastUpdatedAt"`
}

// Prices extracts the price sequence from a slice of price points, keeping order
func Prices(points []PricePoint) []float64 {
	prices := make([]float64, len(points))
	for i, p := range points {
		prices[i] = p.Price
	}
	return prices
}

// Tickers returns the tickers of a stock universe in order
func Tickers(stocks []Stock) []string {
	tickers := make([]string, len(stocks))
	for i, s := range stocks {
		tickers[i] = s.Ticker
	}
	return tickers
}

// TimeWindow is a selectable look-back window, in minutes
type TimeWindow int

const (
	Window5m  TimeWindow = 5
	Window10m TimeWindow = 10
	Window30m TimeWindow = 30
	Window1h  TimeWindow = 60
	Window2h  TimeWindow = 120
	Window4h  TimeWindow = 240
)

// DefaultTimeWindow is used when no window is requested
const DefaultTimeWindow = Window5m

// ErrInvalidTimeWindow is returned when a window is not one of the selectable values
var ErrInvalidTimeWindow = errors.New("invalid time window")

var windowLabels = map[TimeWindow]string{
	Window5m:  "Last 5 Minutes",
	Window10m: "Last 10 Minutes",
	Window30m: "Last 30 Minutes",
	Window1h:  "Last 1 Hour",
	Window2h:  "Last 2 Hours",
	Window4h:  "Last 4 Hours",
}

// AllTimeWindows returns the selectable windows in ascending order
func AllTimeWindows() []TimeWindow {
	return []TimeWindow{Window5m, Window10m, Window30m, Window1h, Window2h, Window4h}
}

// Valid reports whether w is one of the selectable windows
func (w TimeWindow) Valid() bool {
	_, ok := windowLabels[w]
	return ok
}

// Minutes returns the window length in minutes
func (w TimeWindow) Minutes() int {
	return int(w)
}

// Duration returns the window length as a time.Duration
func (w TimeWindow) Duration() time.Duration {
	return time.Duration(w) * time.Minute
}

// Label returns the human readable label shown in the window selector
func (w TimeWindow) Label() string {
	if label, ok := windowLabels[w]; ok {
		return label
	}
	return fmt.Sprintf("Last %d Minutes", int(w))
}

func (w TimeWindow) String() string {
	return strconv.Itoa(int(w)) + "m"
}

// ParseTimeWindow parses a window given in minutes ("30", " 60 ")
func ParseTimeWindow(s string) (TimeWindow, error) {
	minutes, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number of minutes", ErrInvalidTimeWindow, s)
	}
	return NewTimeWindow(minutes)
}

// NewTimeWindow validates a window given in minutes
func NewTimeWindow(minutes int) (TimeWindow, error) {
	w := TimeWindow(minutes)
	if !w.Valid() {
		return 0, fmt.Errorf("%w: %d (allowed: 5, 10, 30, 60, 120, 240)", ErrInvalidTimeWindow, minutes)
	}
	return w, nil
}
