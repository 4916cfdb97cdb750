package domain

import "context"

// StockDataProvider fetches the stock universe and per-ticker price histories.
//
// Implementations never fail hard: an unavailable universe is an empty slice and an
// unavailable history is an empty sequence. The refresh cycle treats both as
// "no data" rather than as errors.
type StockDataProvider interface {
	// GetStocks returns the stock universe in upstream order
	GetStocks(ctx context.Context) []Stock

	// GetPriceHistory returns the time-ordered prices observed for ticker within window
	GetPriceHistory(ctx context.Context, ticker string, window TimeWindow) []PricePoint
}
