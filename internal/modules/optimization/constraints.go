// Package optimization provides portfolio optimization functionality.
package optimization

import (
	"math"

	"github.com/aristath/portfolio-analyzer/internal/domain"
)

// ConstraintTolerance is the largest violation of the full-investment equality
// or of a weight bound accepted in a solver result.
const ConstraintTolerance = 1e-6

// Bounds applies the same [Min, Max] box to every asset.
type Bounds struct {
	Min float64
	Max float64
}

// Validate checks that the box admits a fully invested portfolio of n assets.
func (b Bounds) Validate(n int) error {
	if n == 0 {
		return domain.InvalidInputf("no assets to optimize")
	}
	if math.IsNaN(b.Min) || math.IsNaN(b.Max) || b.Min < 0 || b.Max > 1 || b.Min > b.Max {
		return domain.InvalidInputf("weight bounds [%v, %v] invalid", b.Min, b.Max)
	}
	if b.Min*float64(n) > 1+ConstraintTolerance {
		return domain.InvalidInputf("min weight %v x %d assets exceeds full investment", b.Min, n)
	}
	if b.Max*float64(n) < 1-ConstraintTolerance {
		return domain.InvalidInputf("max weight %v x %d assets cannot reach full investment", b.Max, n)
	}
	return nil
}

// Check verifies a weight vector against the box and the sum-to-one equality.
func (b Bounds) Check(weights []float64) error {
	sum := 0.0
	for i, w := range weights {
		if w < b.Min-ConstraintTolerance || w > b.Max+ConstraintTolerance {
			return domain.NumericalFailuref("weight %d = %v outside [%v, %v]", i, w, b.Min, b.Max)
		}
		sum += w
	}
	if math.Abs(sum-1) > ConstraintTolerance {
		return domain.NumericalFailuref("weights sum to %v", sum)
	}
	return nil
}

// projectToBounds returns the Euclidean projection of x onto
// {w : Σw = 1, Min ≤ w_i ≤ Max}, i.e. w_i = clip(x_i - τ) with τ chosen by
// bisection so the weights sum to one. free marks the coordinates strictly
// inside the box, the only ones that move with x.
func projectToBounds(x []float64, b Bounds) (w []float64, free []bool) {
	n := len(x)
	w = make([]float64, n)
	free = make([]bool, n)

	lo, hi := x[0], x[0]
	for _, v := range x[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}

	// sum(clip(x - τ)) is non-increasing in τ: n·Max at tauLow, n·Min at tauHigh.
	tauLow, tauHigh := lo-b.Max, hi-b.Min
	tau := (tauLow + tauHigh) / 2
	for iter := 0; iter < 200; iter++ {
		tau = (tauLow + tauHigh) / 2
		sum := 0.0
		for _, v := range x {
			sum += clip(v-tau, b)
		}
		if math.Abs(sum-1) < 1e-15 {
			break
		}
		if sum > 1 {
			tauLow = tau
		} else {
			tauHigh = tau
		}
	}

	sum := 0.0
	freeCount := 0
	for i, v := range x {
		shifted := v - tau
		w[i] = clip(shifted, b)
		free[i] = shifted > b.Min && shifted < b.Max
		if free[i] {
			freeCount++
		}
		sum += w[i]
	}

	// Spread the bisection residue over the free coordinates.
	if freeCount > 0 {
		adj := (1 - sum) / float64(freeCount)
		for i := range w {
			if free[i] {
				w[i] = clip(w[i]+adj, b)
			}
		}
	}

	return w, free
}

// projectGradient applies the transpose of the projection's Jacobian to g:
// free coordinates keep their deviation from the free-set mean, clipped ones get zero.
func projectGradient(g []float64, free []bool) []float64 {
	out := make([]float64, len(g))
	var mean float64
	count := 0
	for i, f := range free {
		if f {
			mean += g[i]
			count++
		}
	}
	if count == 0 {
		return out
	}
	mean /= float64(count)
	for i, f := range free {
		if f {
			out[i] = g[i] - mean
		}
	}
	return out
}

func clip(v float64, b Bounds) float64 {
	return math.Max(b.Min, math.Min(b.Max, v))
}

func equalWeights(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 1.0 / float64(n)
	}
	return w
}
