package optimization

import (
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/aristath/portfolio-analyzer/internal/domain"
)

// Moments holds annualised expected returns and the annualised covariance
// matrix of a return panel.
type Moments struct {
	Mean       *mat.VecDense
	Covariance *mat.SymDense
}

// EstimateMoments annualises the per-period sample mean and the sample
// covariance (N-1 normalisation) by multiplying both by periodsPerYear.
func EstimateMoments(returns *domain.ReturnMatrix, periodsPerYear int) (*Moments, error) {
	if returns == nil {
		return nil, domain.InvalidInputf("return matrix is nil")
	}
	if periodsPerYear <= 0 {
		return nil, domain.InvalidInputf("periods per year must be positive, got %d", periodsPerYear)
	}
	if returns.NumPeriods() < 2 {
		return nil, domain.InvalidInputf("insufficient data: need at least 2 observations, got %d", returns.NumPeriods())
	}

	n := returns.NumAssets()
	scale := float64(periodsPerYear)

	mean := mat.NewVecDense(n, nil)
	for j := 0; j < n; j++ {
		mean.SetVec(j, stat.Mean(returns.Column(j), nil)*scale)
	}

	cov := mat.NewSymDense(n, nil)
	stat.CovarianceMatrix(cov, returns.Dense(), nil)
	cov.ScaleSym(scale, cov)

	return &Moments{Mean: mean, Covariance: cov}, nil
}

// IsPositiveDefinite reports whether the covariance admits a Cholesky factorisation.
func (m *Moments) IsPositiveDefinite() bool {
	var chol mat.Cholesky
	return chol.Factorize(m.Covariance)
}

// PortfolioVariance returns w'Σw.
func (m *Moments) PortfolioVariance(weights []float64) float64 {
	w := mat.NewVecDense(len(weights), weights)
	return mat.Inner(w, m.Covariance, w)
}

// PortfolioReturn returns μ'w.
func (m *Moments) PortfolioReturn(weights []float64) float64 {
	return mat.Dot(m.Mean, mat.NewVecDense(len(weights), weights))
}
