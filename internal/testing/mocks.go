// Package testing provides testing utilities and helpers for the stockpulse project.
package testing

import (
	"context"
	"sync"
	"time"

	"github.com/aristath/stockpulse/internal/domain"
)

// MockStockDataProvider is an in-memory implementation of domain.StockDataProvider for testing
type MockStockDataProvider struct {
	mu           sync.RWMutex
	stocks       []domain.Stock
	histories    map[string][]domain.PricePoint
	failing      map[string]bool
	delay        time.Duration
	stockCalls   int
	historyCalls map[string]int
}

// NewMockStockDataProvider creates a new mock provider with an empty universe
func NewMockStockDataProvider() *MockStockDataProvider {
	return &MockStockDataProvider{
		stocks:       []domain.Stock{},
		histories:    make(map[string][]domain.PricePoint),
		failing:      make(map[string]bool),
		historyCalls: make(map[string]int),
	}
}

// SetStocks sets the universe to return
func (m *MockStockDataProvider) SetStocks(stocks []domain.Stock) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stocks = stocks
}

// SetPrices sets a ticker's history from bare prices, one minute apart
func (m *MockStockDataProvider) SetPrices(ticker string, prices ...float64) {
	m.SetHistory(ticker, PricePointsFrom(time.Date(2025, 5, 8, 4, 0, 0, 0, time.UTC), prices...))
}

// SetHistory sets the price points to return for ticker
func (m *MockStockDataProvider) SetHistory(ticker string, points []domain.PricePoint) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.histories[ticker] = points
}

// SetFailing makes the history for ticker degrade to empty, as an upstream failure would
func (m *MockStockDataProvider) SetFailing(ticker string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failing[ticker] = true
}

// SetDelay makes every history call wait for d or until the context is done
func (m *MockStockDataProvider) SetDelay(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.delay = d
}

// StockCalls returns how many times GetStocks was called
func (m *MockStockDataProvider) StockCalls() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.stockCalls
}

// HistoryCalls returns how many times GetPriceHistory was called for ticker
func (m *MockStockDataProvider) HistoryCalls(ticker string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.historyCalls[ticker]
}

// GetStocks returns the configured universe
func (m *MockStockDataProvider) GetStocks(ctx context.Context) []domain.Stock {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stockCalls++
	out := make([]domain.Stock, len(m.stocks))
	copy(out, m.stocks)
	return out
}

// GetPriceHistory returns the configured history for ticker
func (m *MockStockDataProvider) GetPriceHistory(ctx context.Context, ticker string, window domain.TimeWindow) []domain.PricePoint {
	m.mu.Lock()
	m.historyCalls[ticker]++
	delay := m.delay
	failing := m.failing[ticker]
	points := m.histories[ticker]
	m.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return []domain.PricePoint{}
		}
	}

	if failing {
		return []domain.PricePoint{}
	}
	out := make([]domain.PricePoint, len(points))
	copy(out, points)
	return out
}
