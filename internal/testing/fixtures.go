package testing

import (
	"time"

	"github.com/aristath/stockpulse/internal/domain"
)

// NewStockFixtures returns a small ordered universe for use in tests
func NewStockFixtures() []domain.Stock {
	return []domain.Stock{
		{Name: "Nvidia Corporation", Ticker: "NVDA"},
		{Name: "Apple Inc.", Ticker: "AAPL"},
		{Name: "Advanced Micro Devices, Inc.", Ticker: "AMD"},
		{Name: "PayPal Holdings, Inc.", Ticker: "PYPL"},
	}
}

// NewPriceFixtures returns price sequences for NewStockFixtures.
// NVDA and AAPL move together, AMD moves against them and PYPL is flat.
func NewPriceFixtures() map[string][]float64 {
	return map[string][]float64{
		"NVDA": {100, 102, 104, 103, 106, 108},
		"AAPL": {200, 204, 208, 206, 212, 216},
		"AMD":  {50, 48, 46, 47, 44, 42},
		"PYPL": {70, 70, 70, 70, 70, 70},
	}
}

// PricePointsFrom builds price points one minute apart starting at start
func PricePointsFrom(start time.Time, prices ...float64) []domain.PricePoint {
	points := make([]domain.PricePoint, len(prices))
	for i, p := range prices {
		points[i] = domain.PricePoint{
			Price:      p,
			ObservedAt: start.Add(time.Duration(i) * time.Minute),
		}
	}
	return points
}

// NewFixtureProvider returns a mock provider loaded with the stock and price fixtures
func NewFixtureProvider() *MockStockDataProvider {
	provider := NewMockStockDataProvider()
	provider.SetStocks(NewStockFixtures())
	for ticker, prices := range NewPriceFixtures() {
		provider.SetPrices(ticker, prices...)
	}
	return provider
}
