package correlation

import (
	"math"

	"github.com/aristath/stockpulse/pkg/formulas"
)

// BuildMatrix computes the all-pairs Pearson correlation matrix for tickers.
//
// Histories are not timestamp aligned: each pair is truncated to the shorter sequence by index.
// The diagonal is exactly 1. Pairs with fewer than two shared samples are 0, and absent
// histories count as empty. Each ordered pair is computed on its own, so symmetry holds
// because the underlying statistic is symmetric. Duplicate tickers collapse to their first
// occurrence.
func BuildMatrix(tickers []string, histories map[string][]float64) Matrix {
	tickers = uniqueTickers(tickers)
	matrix := make(Matrix, len(tickers))

	for _, a := range tickers {
		row := make(map[string]float64, len(tickers))
		for _, b := range tickers {
			if a == b {
				row[b] = 1
				continue
			}
			row[b] = pairCorrelation(histories[a], histories[b])
		}
		matrix[a] = row
	}

	return matrix
}

func pairCorrelation(x, y []float64) float64 {
	n := min(len(x), len(y))
	if n <= 1 {
		return 0
	}

	r := formulas.PearsonCorrelation(x[:n], y[:n])
	if math.IsNaN(r) {
		return 0
	}
	return formulas.Clamp(r)
}

// uniqueTickers drops repeated and empty tickers, keeping first occurrences in order
func uniqueTickers(tickers []string) []string {
	seen := make(map[string]bool, len(tickers))
	out := make([]string, 0, len(tickers))
	for _, t := range tickers {
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

// BuildStats summarizes every ticker's history
func BuildStats(tickers []string, histories map[string][]float64) map[string]SeriesStats {
	stats := make(map[string]SeriesStats, len(tickers))
	for _, t := range uniqueTickers(tickers) {
		prices := histories[t]
		stats[t] = SeriesStats{
			Samples: len(prices),
			Mean:    formulas.Mean(prices),
			StdDev:  formulas.StdDev(prices),
		}
	}
	return stats
}
