// Package stocks serves the stock universe and per-ticker price charts.
package stocks

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/stockpulse/internal/domain"
	"github.com/aristath/stockpulse/pkg/formulas"
)

// ErrTickerRequired is returned when a chart is requested without a ticker
var ErrTickerRequired = errors.New("ticker is required")

// ChartPoint is one point of a derived series
type ChartPoint struct {
	ObservedAt time.Time `json:"lastUpdatedAt"`
	Value      float64   `json:"value"`
}

// Chart is the price chart of one ticker over a window
type Chart struct {
	Ticker      string              `json:"ticker"`
	Window      int                 `json:"window"`
	WindowLabel string              `json:"window_label"`
	Points      []domain.PricePoint `json:"points"`
	Average     float64             `json:"average"`
	StdDev      float64             `json:"std_dev"`
	ShowAverage bool                `json:"show_average"`
	SMAPeriod   int                 `json:"sma_period,omitempty"`
	SMA         []ChartPoint        `json:"sma"`
}

// Service provides stock universe and chart operations
type Service struct {
	provider domain.StockDataProvider
	log      zerolog.Logger
}

// NewService creates a new stocks service
func NewService(provider domain.StockDataProvider, log zerolog.Logger) *Service {
	return &Service{
		provider: provider,
		log:      log.With().Str("service", "stocks").Logger(),
	}
}

// ListStocks returns the stock universe in upstream order
func (s *Service) ListStocks(ctx context.Context) []domain.Stock {
	return s.provider.GetStocks(ctx)
}

// GetChart returns the price history of ticker over window with its mean and sample standard
// deviation. A moving average overlay is added when smaPeriod is at least 2 and there are
// enough points. An empty history gives an empty chart.
func (s *Service) GetChart(ctx context.Context, ticker string, window domain.TimeWindow, smaPeriod int) (*Chart, error) {
	ticker = strings.TrimSpace(ticker)
	if ticker == "" {
		return nil, ErrTickerRequired
	}
	if !window.Valid() {
		return nil, fmt.Errorf("%w: %d", domain.ErrInvalidTimeWindow, window)
	}

	points := s.provider.GetPriceHistory(ctx, ticker, window)
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("chart for %s cancelled: %w", ticker, err)
	}
	prices := domain.Prices(points)

	chart := &Chart{
		Ticker:      ticker,
		Window:      window.Minutes(),
		WindowLabel: window.Label(),
		Points:      points,
		Average:     formulas.Mean(prices),
		StdDev:      formulas.StdDev(prices),
		SMA:         []ChartPoint{},
	}
	chart.ShowAverage = chart.Average > 0

	if smaPeriod >= 2 {
		chart.SMAPeriod = smaPeriod
		sma := formulas.MovingAverage(prices, smaPeriod)
		offset := len(points) - len(sma)
		for i, v := range sma {
			chart.SMA = append(chart.SMA, ChartPoint{
				ObservedAt: points[offset+i].ObservedAt,
				Value:      v,
			})
		}
	}

	s.log.Debug().
		Str("ticker", ticker).
		Int("window", window.Minutes()).
		Int("points", len(points)).
		Msg("Built price chart")

	return chart, nil
}
