package formulas

import (
	"github.com/markcheno/go-talib"
)

// MovingAverage calculates the simple moving average of a price series.
//
// The talib warm-up entries are dropped, so the result has len(prices)-period+1 values,
// where result[i] averages prices[i : i+period]. Returns an empty slice when the period
// is below 2 or the series is shorter than the period.
func MovingAverage(prices []float64, period int) []float64 {
	if period < 2 || len(prices) < period {
		return []float64{}
	}

	sma := talib.Sma(prices, period)
	return sma[period-1:]
}
