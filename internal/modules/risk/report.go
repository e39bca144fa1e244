package risk

import (
	"fmt"

	"github.com/aristath/portfolio-analyzer/internal/domain"
)

// FullReport assembles every metric into one RiskReport using the engine's
// configured confidence level, risk-free rate and stress catalog.
// The first failing metric aborts the report.
func (e *Engine) FullReport(classes domain.AssetClassMap) (domain.RiskReport, error) {
	vol, err := e.Volatility(true)
	if err != nil {
		return domain.RiskReport{}, fmt.Errorf("volatility: %w", err)
	}

	sharpe, err := e.SharpeRatio(e.cfg.RiskFreeRate)
	if err != nil {
		return domain.RiskReport{}, fmt.Errorf("sharpe ratio: %w", err)
	}

	v, err := e.ValueAtRisk(e.cfg.ConfidenceLevel)
	if err != nil {
		return domain.RiskReport{}, fmt.Errorf("value at risk: %w", err)
	}

	cvar, err := e.ConditionalVaR(e.cfg.ConfidenceLevel)
	if err != nil {
		return domain.RiskReport{}, fmt.Errorf("conditional value at risk: %w", err)
	}

	stress, err := e.RunStressTests(classes, e.cfg.Scenarios)
	if err != nil {
		return domain.RiskReport{}, fmt.Errorf("stress tests: %w", err)
	}

	report := domain.RiskReport{
		VolatilityPct:       vol * 100,
		SharpeRatio:         sharpe,
		MaxDrawdownPct:      e.MaxDrawdown() * 100,
		ParametricVaRPct:    v.Parametric * 100,
		ParametricVaRAmount: v.ParametricAmount,
		HistoricalVaRPct:    v.Historical * 100,
		HistoricalVaRAmount: v.HistoricalAmount,
		CVaRPct:             cvar.CVaR * 100,
		CVaRAmount:          cvar.Amount,
		StressTests:         stress,
	}

	e.log.Info().
		Float64("volatility_pct", report.VolatilityPct).
		Float64("sharpe", report.SharpeRatio).
		Float64("max_drawdown_pct", report.MaxDrawdownPct).
		Float64("var_hist_pct", report.HistoricalVaRPct).
		Float64("cvar_pct", report.CVaRPct).
		Msg("Risk report complete")

	return report, nil
}
