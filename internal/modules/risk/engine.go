// Package risk computes point-in-time risk metrics for a weighted portfolio
// over a historical return matrix.
package risk

import (
	"fmt"
	"math"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/mat"

	"github.com/aristath/portfolio-analyzer/internal/config"
	"github.com/aristath/portfolio-analyzer/internal/domain"
	"github.com/aristath/portfolio-analyzer/pkg/formulas"
)

// Engine evaluates one weight vector against one return matrix.
// All metrics derive from the portfolio return series computed at construction.
type Engine struct {
	returns          *domain.ReturnMatrix
	weights          []float64
	notional         float64
	cfg              config.Analytics
	portfolioReturns []float64
	log              zerolog.Logger
}

// VaRResult holds both Value-at-Risk estimators as return fractions (negative = loss)
// and as currency amounts.
type VaRResult struct {
	Parametric       float64
	Historical       float64
	ParametricAmount float64
	HistoricalAmount float64
}

// CVaRResult is the expected shortfall beyond the historical VaR threshold.
type CVaRResult struct {
	CVaR         float64
	Amount       float64
	TailSize     int
	ThresholdVaR float64
}

// NewEngine validates the inputs and derives the portfolio return series.
func NewEngine(
	returns *domain.ReturnMatrix,
	weights []float64,
	notional float64,
	cfg config.Analytics,
	log zerolog.Logger,
) (*Engine, error) {
	if returns == nil {
		return nil, domain.InvalidInputf("no return matrix")
	}
	if err := returns.ValidateWeights(weights); err != nil {
		return nil, err
	}
	if !(notional > 0) || math.IsInf(notional, 0) {
		return nil, domain.InvalidInputf("portfolio notional must be positive and finite, got %v", notional)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	w := mat.NewVecDense(len(weights), append([]float64(nil), weights...))
	var series mat.VecDense
	series.MulVec(returns.Dense(), w)

	e := &Engine{
		returns:          returns,
		weights:          w.RawVector().Data,
		notional:         notional,
		cfg:              cfg,
		portfolioReturns: series.RawVector().Data,
		log:              log.With().Str("component", "risk_engine").Logger(),
	}

	e.log.Debug().
		Int("num_assets", returns.NumAssets()).
		Int("num_periods", returns.NumPeriods()).
		Float64("notional", notional).
		Msg("Built portfolio return series")

	return e, nil
}

// PortfolioReturns returns a copy of the per-period portfolio returns.
func (e *Engine) PortfolioReturns() []float64 {
	return append([]float64(nil), e.portfolioReturns...)
}

func (e *Engine) requireObservations(metric string) error {
	if len(e.portfolioReturns) < 2 {
		return domain.InvalidInputf("%s needs at least 2 observations, got %d", metric, len(e.portfolioReturns))
	}
	return nil
}

// Volatility is the sample standard deviation of portfolio returns,
// scaled by sqrt(periods per year) when annualized. Constant series yield zero.
func (e *Engine) Volatility(annualized bool) (float64, error) {
	if err := e.requireObservations("volatility"); err != nil {
		return 0, err
	}
	if annualized {
		return formulas.AnnualizedVolatility(e.portfolioReturns, e.cfg.PeriodsPerYear), nil
	}
	return formulas.StdDev(e.portfolioReturns), nil
}

// ValueAtRisk computes parametric (normal) and historical VaR at confidenceLevel.
func (e *Engine) ValueAtRisk(confidenceLevel float64) (VaRResult, error) {
	if err := validateConfidence(confidenceLevel); err != nil {
		return VaRResult{}, err
	}
	if err := e.requireObservations("value at risk"); err != nil {
		return VaRResult{}, err
	}

	tail := 1 - confidenceLevel
	mu := formulas.Mean(e.portfolioReturns)
	sigma := formulas.StdDev(e.portfolioReturns)

	parametric := formulas.NormalQuantile(tail, mu, sigma)
	historical := formulas.Percentile(e.portfolioReturns, tail*100)

	return VaRResult{
		Parametric:       parametric,
		Historical:       historical,
		ParametricAmount: parametric * e.notional,
		HistoricalAmount: historical * e.notional,
	}, nil
}

// ConditionalVaR is the mean of the returns at or below the historical VaR threshold.
// An empty tail is reported as domain.ErrEmptyTail.
func (e *Engine) ConditionalVaR(confidenceLevel float64) (CVaRResult, error) {
	v, err := e.ValueAtRisk(confidenceLevel)
	if err != nil {
		return CVaRResult{}, err
	}

	cvar, count := formulas.TailMean(e.portfolioReturns, v.Historical)
	if count == 0 {
		return CVaRResult{}, fmt.Errorf("%w: no observation at or below VaR threshold %.6f", domain.ErrEmptyTail, v.Historical)
	}

	return CVaRResult{
		CVaR:         cvar,
		Amount:       cvar * e.notional,
		TailSize:     count,
		ThresholdVaR: v.Historical,
	}, nil
}

// MaxDrawdown is the deepest peak-to-trough decline of the compounded return path,
// as a fraction in [-1, 0].
func (e *Engine) MaxDrawdown() float64 {
	return formulas.CalculateMaxDrawdown(e.portfolioReturns)
}

// SharpeRatio is (annualized mean return - riskFreeRate) / annualized volatility.
// A zero-volatility series returns domain.ErrZeroVolatility.
func (e *Engine) SharpeRatio(riskFreeRate float64) (float64, error) {
	vol, err := e.Volatility(true)
	if err != nil {
		return 0, err
	}
	if vol == 0 {
		return 0, domain.ErrZeroVolatility
	}

	annualMean := formulas.Mean(e.portfolioReturns) * float64(e.cfg.PeriodsPerYear)
	return (annualMean - riskFreeRate) / vol, nil
}

func validateConfidence(confidenceLevel float64) error {
	if !(confidenceLevel > 0 && confidenceLevel < 1) {
		return domain.InvalidInputf("confidence level %v outside (0,1)", confidenceLevel)
	}
	return nil
}
