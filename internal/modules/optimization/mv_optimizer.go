package optimization

import (
	"fmt"
	"math"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"

	"github.com/aristath/portfolio-analyzer/internal/config"
	"github.com/aristath/portfolio-analyzer/internal/domain"
)

// Strategy labels carried in OptimizationResult.Strategy.
const (
	StrategyMaxSharpe   = "Max Sharpe"
	StrategyMinVariance = "Min Variance"
)

const (
	// penaltyWeight scales ‖x - P(x)‖², keeping solver iterates near the feasible set.
	penaltyWeight = 1000.0
	// varianceFloor keeps σ strictly positive inside the objective.
	varianceFloor = 1e-18
	// minVolatility is the annualised volatility below which ratios over σ are undefined.
	minVolatility = 1e-12
	// stallIterations is how many major iterations without improvement count as converged.
	stallIterations = 100

	// Projected-gradient polish of the solver's point.
	polishIterations = 5000
	polishBacktracks = 60
	polishTolerance  = 1e-13
	armijo           = 1e-4
)

// PortfolioStats are the annualised return, volatility and Sharpe ratio of a weight vector.
type PortfolioStats struct {
	Return     float64
	Volatility float64
	Sharpe     float64
}

// MVOptimizer solves long-only mean-variance problems over a fixed return
// panel. Moments are estimated once at construction; each solve allocates its
// own solver state, so one optimizer can serve concurrent strategies.
type MVOptimizer struct {
	assets  []string
	moments *Moments
	cfg     config.Analytics
	log     zerolog.Logger
}

// NewMVOptimizer estimates annualised moments from returns.
func NewMVOptimizer(returns *domain.ReturnMatrix, cfg config.Analytics, log zerolog.Logger) (*MVOptimizer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	moments, err := EstimateMoments(returns, cfg.PeriodsPerYear)
	if err != nil {
		return nil, err
	}

	o := &MVOptimizer{
		assets:  returns.Assets(),
		moments: moments,
		cfg:     cfg,
		log:     log.With().Str("component", "mv_optimizer").Logger(),
	}

	if !moments.IsPositiveDefinite() {
		o.log.Warn().Int("assets", len(o.assets)).Msg("Covariance matrix is not positive definite")
	}

	return o, nil
}

// Assets returns the asset identifiers in weight order.
func (o *MVOptimizer) Assets() []string {
	out := make([]string, len(o.assets))
	copy(out, o.assets)
	return out
}

// Moments exposes the annualised mean and covariance the optimizer works with.
func (o *MVOptimizer) Moments() *Moments {
	return o.moments
}

// PortfolioStats evaluates a weight vector against the annualised moments.
func (o *MVOptimizer) PortfolioStats(weights []float64) (PortfolioStats, error) {
	if len(weights) != len(o.assets) {
		return PortfolioStats{}, domain.InvalidInputf("weights length %d != assets %d", len(weights), len(o.assets))
	}
	variance := o.moments.PortfolioVariance(weights)
	vol := math.Sqrt(math.Max(variance, 0))
	if !(vol >= minVolatility) || math.IsInf(vol, 0) {
		return PortfolioStats{}, fmt.Errorf("portfolio volatility %v: %w", vol, domain.ErrZeroVolatility)
	}
	ret := o.moments.PortfolioReturn(weights)
	return PortfolioStats{
		Return:     ret,
		Volatility: vol,
		Sharpe:     (ret - o.cfg.RiskFreeRate) / vol,
	}, nil
}

// MaximizeSharpe finds the fully invested portfolio with the highest
// (μ'w - rf) / √(w'Σw) within [minWeight, maxWeight] per asset.
func (o *MVOptimizer) MaximizeSharpe(minWeight, maxWeight float64) (domain.OptimizationResult, error) {
	return o.Optimize(StrategyMaxSharpe, Bounds{Min: minWeight, Max: maxWeight})
}

// MinimizeVariance finds the fully invested portfolio with the lowest
// volatility within [minWeight, maxWeight] per asset.
func (o *MVOptimizer) MinimizeVariance(minWeight, maxWeight float64) (domain.OptimizationResult, error) {
	return o.Optimize(StrategyMinVariance, Bounds{Min: minWeight, Max: maxWeight})
}

// Optimize dispatches on the strategy label.
func (o *MVOptimizer) Optimize(strategy string, bounds Bounds) (domain.OptimizationResult, error) {
	if err := bounds.Validate(len(o.assets)); err != nil {
		return domain.OptimizationResult{}, err
	}

	var obj objective
	switch strategy {
	case StrategyMaxSharpe:
		obj = o.negativeSharpe()
	case StrategyMinVariance:
		obj = o.volatility()
	default:
		return domain.OptimizationResult{}, domain.InvalidInputf("unknown strategy: %s", strategy)
	}

	weights, err := o.solve(strategy, obj, bounds)
	if err != nil {
		return domain.OptimizationResult{}, err
	}

	stats, err := o.PortfolioStats(weights)
	if err != nil {
		return domain.OptimizationResult{}, fmt.Errorf("%s: %w", strategy, err)
	}

	allocations := make([]domain.Allocation, len(o.assets))
	for i, asset := range o.assets {
		allocations[i] = domain.Allocation{Asset: asset, WeightPct: weights[i] * 100}
	}

	o.log.Info().
		Str("strategy", strategy).
		Float64("return", stats.Return).
		Float64("volatility", stats.Volatility).
		Float64("sharpe", stats.Sharpe).
		Msg("Optimization complete")

	return domain.OptimizationResult{
		Strategy:      strategy,
		ReturnPct:     stats.Return * 100,
		VolatilityPct: stats.Volatility * 100,
		SharpeRatio:   stats.Sharpe,
		Allocations:   allocations,
		Weights:       weights,
	}, nil
}

// objective is a smooth function of feasible weights and its gradient.
type objective struct {
	value func(w []float64) float64
	grad  func(grad, w []float64)
}

// volatility is σ(w) = √(w'Σw), gradient Σw/σ.
func (o *MVOptimizer) volatility() objective {
	sigma := o.moments.Covariance
	return objective{
		value: func(w []float64) float64 {
			return math.Sqrt(math.Max(o.moments.PortfolioVariance(w), varianceFloor))
		},
		grad: func(grad, w []float64) {
			vol := math.Sqrt(math.Max(o.moments.PortfolioVariance(w), varianceFloor))
			sw := mat.NewVecDense(len(w), nil)
			sw.MulVec(sigma, mat.NewVecDense(len(w), w))
			for i := range grad {
				grad[i] = sw.AtVec(i) / vol
			}
		},
	}
}

// negativeSharpe is -(μ'w - rf)/σ(w), gradient -(μ/σ - (μ'w - rf)Σw/σ³).
func (o *MVOptimizer) negativeSharpe() objective {
	sigma := o.moments.Covariance
	mu := o.moments.Mean
	rf := o.cfg.RiskFreeRate
	return objective{
		value: func(w []float64) float64 {
			vol := math.Sqrt(math.Max(o.moments.PortfolioVariance(w), varianceFloor))
			return -(o.moments.PortfolioReturn(w) - rf) / vol
		},
		grad: func(grad, w []float64) {
			variance := math.Max(o.moments.PortfolioVariance(w), varianceFloor)
			vol := math.Sqrt(variance)
			excess := o.moments.PortfolioReturn(w) - rf
			sw := mat.NewVecDense(len(w), nil)
			sw.MulVec(sigma, mat.NewVecDense(len(w), w))
			for i := range grad {
				grad[i] = -(mu.AtVec(i)/vol - excess*sw.AtVec(i)/(variance*vol))
			}
		},
	}
}

// polish runs projected gradient descent with Armijo backtracking from a
// feasible start. Only steps that lower the objective are taken.
func polish(obj objective, bounds Bounds, start []float64) []float64 {
	w := append([]float64(nil), start...)
	f := obj.value(w)
	g := make([]float64, len(w))
	trial := make([]float64, len(w))
	step := 1.0

	for iter := 0; iter < polishIterations; iter++ {
		obj.grad(g, w)

		accepted := false
		var moved float64
		for ls := 0; ls < polishBacktracks; ls++ {
			for i := range trial {
				trial[i] = w[i] - step*g[i]
			}
			next, _ := projectToBounds(trial, bounds)
			moved = sqDist(next, w)
			if moved == 0 {
				return w
			}
			if fNext := obj.value(next); fNext <= f-armijo*moved/step {
				w, f = next, fNext
				accepted = true
				break
			}
			step /= 2
		}
		if !accepted || moved < polishTolerance*polishTolerance {
			return w
		}
		step *= 2
	}
	return w
}

// solve minimises obj(P(x)) + penaltyWeight·‖x - P(x)‖² over unconstrained x,
// where P projects onto the bounded simplex, then polishes P(x*). BFGS runs
// first; Nelder-Mead takes over when it fails to converge.
func (o *MVOptimizer) solve(strategy string, obj objective, bounds Bounds) ([]float64, error) {
	n := len(o.assets)

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			w, _ := projectToBounds(x, bounds)
			return obj.value(w) + penaltyWeight*sqDist(x, w)
		},
		Grad: func(grad, x []float64) {
			w, free := projectToBounds(x, bounds)

			g := make([]float64, n)
			obj.grad(g, w)
			projected := projectGradient(g, free)

			diff := make([]float64, n)
			for i := range x {
				diff[i] = x[i] - w[i]
			}
			projectedDiff := projectGradient(diff, free)

			for i := range grad {
				grad[i] = projected[i] + 2*penaltyWeight*(diff[i]-projectedDiff[i])
			}
		},
	}

	initial := equalWeights(n)

	result, err := optimize.Minimize(problem, initial, o.settings(), &optimize.BFGS{})
	if err != nil || !converged(result.Status) {
		event := o.log.Debug().Str("strategy", strategy)
		if result != nil {
			event = event.Str("status", result.Status.String())
		}
		event.Err(err).Msg("BFGS did not converge, falling back to Nelder-Mead")

		result, err = optimize.Minimize(problem, initial, o.settings(), &optimize.NelderMead{})
		if err != nil {
			return nil, domain.NumericalFailuref("%s optimization failed: %v", strategy, err)
		}
		if !converged(result.Status) {
			return nil, domain.NumericalFailuref("%s optimization did not converge: status=%v", strategy, result.Status)
		}
	}

	weights, _ := projectToBounds(result.X, bounds)
	weights = polish(obj, bounds, weights)
	if err := bounds.Check(weights); err != nil {
		return nil, fmt.Errorf("%s: %w", strategy, err)
	}

	o.log.Debug().
		Str("strategy", strategy).
		Str("status", result.Status.String()).
		Int("major_iterations", result.Stats.MajorIterations).
		Int("func_evaluations", result.Stats.FuncEvaluations).
		Msg("Solver finished")

	return weights, nil
}

func sqDist(a, b []float64) float64 {
	var d float64
	for i := range a {
		diff := a[i] - b[i]
		d += diff * diff
	}
	return d
}

// settings builds fresh solver settings; convergers are stateful.
func (o *MVOptimizer) settings() *optimize.Settings {
	s := &optimize.Settings{
		MajorIterations: o.cfg.Solver.MaxIterations,
	}
	if o.cfg.Solver.Tolerance > 0 {
		s.Converger = &optimize.FunctionConverge{
			Absolute:   o.cfg.Solver.Tolerance,
			Iterations: stallIterations,
		}
	}
	return s
}

func converged(status optimize.Status) bool {
	switch status {
	case optimize.Success, optimize.FunctionConvergence, optimize.GradientThreshold, optimize.MethodConverge:
		return true
	default:
		return false
	}
}
