package formulas

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Mean calculates the arithmetic mean of a slice of float64 values
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	return stat.Mean(data, nil)
}

// StdDev calculates the sample standard deviation (N-1 denominator).
// A constant series returns exactly zero rather than the rounding residue
// of the two-pass variance.
func StdDev(data []float64) float64 {
	if len(data) < 2 || IsConstant(data) {
		return 0
	}
	return stat.StdDev(data, nil)
}

// IsConstant reports whether every value equals the first one.
func IsConstant(data []float64) bool {
	if len(data) == 0 {
		return true
	}
	for _, v := range data[1:] {
		if v != data[0] {
			return false
		}
	}
	return true
}

// AnnualizedVolatility scales the periodic standard deviation by sqrt(periodsPerYear).
func AnnualizedVolatility(returns []float64, periodsPerYear int) float64 {
	return StdDev(returns) * math.Sqrt(float64(periodsPerYear))
}

// Percentile returns the p-th percentile (0-100) of data using linear
// interpolation between the closest order statistics.
func Percentile(data []float64, p float64) float64 {
	if len(data) == 0 {
		return math.NaN()
	}

	sorted := make([]float64, len(data))
	copy(sorted, data)
	sort.Float64s(sorted)

	if p <= 0 {
		return sorted[0]
	}
	if p >= 100 {
		return sorted[len(sorted)-1]
	}

	idx := p / 100.0 * float64(len(sorted)-1)
	lower := int(math.Floor(idx))
	upper := lower + 1
	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	// a + (b-a)*t never undershoots a, so the lowest observation always
	// sits at or below the result.
	frac := idx - float64(lower)
	return sorted[lower] + (sorted[upper]-sorted[lower])*frac
}

// NormalQuantile returns the p-quantile of N(mu, sigma²).
func NormalQuantile(p, mu, sigma float64) float64 {
	if sigma == 0 {
		return mu
	}
	return distuv.Normal{Mu: mu, Sigma: sigma}.Quantile(p)
}

// TailMean averages the values at or below threshold.
// The count is zero when the tail is empty.
func TailMean(data []float64, threshold float64) (float64, int) {
	var sum float64
	count := 0
	for _, v := range data {
		if v <= threshold {
			sum += v
			count++
		}
	}
	if count == 0 {
		return 0, 0
	}
	return sum / float64(count), count
}
