package formulas

// CompoundedPath builds the running product of (1 + r_t).
// Wealth is floored at zero: once a period loses everything the path stays at zero.
func CompoundedPath(returns []float64) []float64 {
	path := make([]float64, len(returns))
	value := 1.0
	for i, r := range returns {
		value *= 1 + r
		if value <= 0 {
			value = 0
		}
		path[i] = value
	}
	return path
}

// CalculateMaxDrawdown returns the most negative (cumulative - peak) / peak over
// the compounded return path, as a fraction in [-1, 0].
//
// The running peak starts at the first compounded value, not at the initial
// unit of wealth.
func CalculateMaxDrawdown(returns []float64) float64 {
	if len(returns) == 0 {
		return 0
	}

	path := CompoundedPath(returns)
	peak := path[0]
	maxDrawdown := 0.0

	for _, value := range path {
		if value > peak {
			peak = value
		}

		var drawdown float64
		if peak > 0 {
			drawdown = (value - peak) / peak
		} else {
			drawdown = -1
		}
		if drawdown < maxDrawdown {
			maxDrawdown = drawdown
		}
	}

	return maxDrawdown
}
