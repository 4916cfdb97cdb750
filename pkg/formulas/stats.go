// Package formulas provides the statistics used across the dashboard: mean, sample
// standard deviation, sample covariance and Pearson correlation over price series.
//
// Every function is pure. Degenerate input (nil, empty, too short, mismatched lengths)
// never returns an error; it yields 0.
package formulas

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Mean calculates the arithmetic mean of a slice of float64 values
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	return stat.Mean(data, nil)
}

// Variance calculates the sample variance (Bessel's correction, divides by n-1).
// Returns 0 for fewer than 2 values.
func Variance(data []float64) float64 {
	if len(data) < 2 {
		return 0
	}
	return stat.Variance(data, nil)
}

// StdDev calculates the sample standard deviation of a slice of float64 values.
// Returns 0 for fewer than 2 values.
func StdDev(data []float64) float64 {
	if len(data) < 2 {
		return 0
	}
	return math.Sqrt(stat.Variance(data, nil))
}

// Covariance calculates the sample covariance between two datasets.
// Returns 0 unless both have the same length of at least 2.
func Covariance(x, y []float64) float64 {
	if !pairable(x, y) {
		return 0
	}
	return stat.Covariance(x, y, nil)
}

// PearsonCorrelation calculates the Pearson correlation coefficient between two datasets.
//
// Returns 0 when the inputs are not comparable (see Covariance) or when either series
// has zero standard deviation. The value is mathematically within [-1, 1] but may
// overshoot by a few ulps; use Clamp when an exact bound matters.
func PearsonCorrelation(x, y []float64) float64 {
	if !pairable(x, y) {
		return 0
	}

	stdDevX := StdDev(x)
	stdDevY := StdDev(y)
	if stdDevX == 0 || stdDevY == 0 {
		return 0
	}

	return Covariance(x, y) / (stdDevX * stdDevY)
}

// Clamp bounds a correlation coefficient to [-1, 1]. NaN becomes 0.
func Clamp(r float64) float64 {
	switch {
	case math.IsNaN(r):
		return 0
	case r > 1:
		return 1
	case r < -1:
		return -1
	}
	return r
}

// pairable reports whether two series can be paired for covariance.
func pairable(x, y []float64) bool {
	return len(x) >= 2 && len(x) == len(y)
}
