// Package analysis runs one full portfolio analysis: risk report on the
// current weights, both optimizer strategies, and a risk report on the
// Max Sharpe allocation.
package analysis

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/aristath/portfolio-analyzer/internal/config"
	"github.com/aristath/portfolio-analyzer/internal/domain"
	"github.com/aristath/portfolio-analyzer/internal/modules/optimization"
	"github.com/aristath/portfolio-analyzer/internal/modules/risk"
)

// Input is one analysis request.
type Input struct {
	Returns  *domain.ReturnMatrix
	Weights  []float64
	Classes  domain.AssetClassMap
	Notional float64
}

// Result gathers everything the reporting layer needs.
type Result struct {
	RunID string
	// Risk is the report on the input weights.
	Risk domain.RiskReport
	// MaxSharpe and MinVariance are the optimizer outcomes.
	MaxSharpe   domain.OptimizationResult
	MinVariance domain.OptimizationResult
	// OptimizedRisk is the report on the Max Sharpe weights.
	OptimizedRisk domain.RiskReport
}

// Optimizations lists the strategies with the recommended one first.
func (r *Result) Optimizations() []domain.OptimizationResult {
	return []domain.OptimizationResult{r.MaxSharpe, r.MinVariance}
}

// Pipeline wires the risk engine and the optimizer under one analytics configuration.
type Pipeline struct {
	cfg config.Analytics
	log zerolog.Logger
}

// NewPipeline creates a pipeline.
func NewPipeline(cfg config.Analytics, log zerolog.Logger) *Pipeline {
	return &Pipeline{
		cfg: cfg,
		log: log.With().Str("component", "analysis").Logger(),
	}
}

// Run executes the analysis. The current-portfolio risk report and the two
// optimizations run concurrently against one shared optimizer; the first
// failure cancels the rest.
func (p *Pipeline) Run(ctx context.Context, in Input) (*Result, error) {
	runID := uuid.New().String()
	log := p.log.With().Str("run_id", runID).Logger()

	if err := p.cfg.Validate(); err != nil {
		return nil, err
	}

	engine, err := risk.NewEngine(in.Returns, in.Weights, in.Notional, p.cfg, log)
	if err != nil {
		return nil, fmt.Errorf("current portfolio: %w", err)
	}
	optimizer, err := optimization.NewMVOptimizer(in.Returns, p.cfg, log)
	if err != nil {
		return nil, fmt.Errorf("optimizer: %w", err)
	}

	log.Info().
		Int("assets", in.Returns.NumAssets()).
		Int("periods", in.Returns.NumPeriods()).
		Float64("notional", in.Notional).
		Msg("Starting analysis")

	result := &Result{RunID: runID}
	bounds := optimization.Bounds{Min: p.cfg.MinWeight, Max: p.cfg.MaxWeight}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		report, err := engine.FullReport(in.Classes)
		if err != nil {
			return fmt.Errorf("current portfolio: %w", err)
		}
		result.Risk = report
		return nil
	})
	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		res, err := optimizer.Optimize(optimization.StrategyMaxSharpe, bounds)
		if err != nil {
			return err
		}
		result.MaxSharpe = res
		return nil
	})
	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		res, err := optimizer.Optimize(optimization.StrategyMinVariance, bounds)
		if err != nil {
			return err
		}
		result.MinVariance = res
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	optimizedEngine, err := risk.NewEngine(in.Returns, result.MaxSharpe.Weights, in.Notional, p.cfg, log)
	if err != nil {
		return nil, fmt.Errorf("optimized portfolio: %w", err)
	}
	result.OptimizedRisk, err = optimizedEngine.FullReport(in.Classes)
	if err != nil {
		return nil, fmt.Errorf("optimized portfolio: %w", err)
	}

	log.Info().
		Float64("sharpe_current", result.Risk.SharpeRatio).
		Float64("sharpe_optimized", result.OptimizedRisk.SharpeRatio).
		Msg("Analysis complete")

	return result, nil
}
