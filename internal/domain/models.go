// Package domain holds the data model shared by the risk engine and the optimizer.
package domain

import (
	"math"
)

// AssetClass tags an asset for stress testing.
type AssetClass string

const (
	AssetClassEquity     AssetClass = "equity"
	AssetClassBonds      AssetClass = "bonds"
	AssetClassRealEstate AssetClass = "real_estate"
	AssetClassStructured AssetClass = "structured"
)

// Valid reports whether c belongs to the closed set of asset classes.
func (c AssetClass) Valid() bool {
	switch c {
	case AssetClassEquity, AssetClassBonds, AssetClassRealEstate, AssetClassStructured:
		return true
	}
	return false
}

// AssetClassMap maps asset identifiers to asset classes.
type AssetClassMap map[string]AssetClass

// ClassOf returns the class of asset, defaulting to equity when unmapped.
func (m AssetClassMap) ClassOf(asset string) AssetClass {
	if c, ok := m[asset]; ok {
		return c
	}
	return AssetClassEquity
}

// StressScenario is a named set of shocks applied uniformly per asset class.
type StressScenario struct {
	Name   string                 `json:"name" yaml:"name"`
	Shocks map[AssetClass]float64 `json:"shocks" yaml:"shocks"`
}

// Shock returns the shock for class, zero when the scenario does not mention it.
func (s StressScenario) Shock(class AssetClass) float64 {
	return s.Shocks[class]
}

// StressResult is one row of the stress-test table.
type StressResult struct {
	Scenario      string  `json:"scenario" msgpack:"scenario"`
	StressedValue float64 `json:"stressed_value" msgpack:"stressed_value"`
	Loss          float64 `json:"loss" msgpack:"loss"`
	LossPct       float64 `json:"loss_pct" msgpack:"loss_pct"`
}

// RiskReport bundles the point-in-time risk metrics of a weighted portfolio.
// Percentages are expressed in percent (5.0 = 5%), amounts in currency units.
type RiskReport struct {
	VolatilityPct       float64        `json:"volatility_pct" msgpack:"volatility_pct"`
	SharpeRatio         float64        `json:"sharpe_ratio" msgpack:"sharpe_ratio"`
	MaxDrawdownPct      float64        `json:"max_drawdown_pct" msgpack:"max_drawdown_pct"`
	ParametricVaRPct    float64        `json:"var_param_pct" msgpack:"var_param_pct"`
	ParametricVaRAmount float64        `json:"var_param_amount" msgpack:"var_param_amount"`
	HistoricalVaRPct    float64        `json:"var_hist_pct" msgpack:"var_hist_pct"`
	HistoricalVaRAmount float64        `json:"var_hist_amount" msgpack:"var_hist_amount"`
	CVaRPct             float64        `json:"cvar_pct" msgpack:"cvar_pct"`
	CVaRAmount          float64        `json:"cvar_amount" msgpack:"cvar_amount"`
	StressTests         []StressResult `json:"stress_tests" msgpack:"stress_tests"`
}

// Allocation is one asset's share of an optimized portfolio, in percent.
type Allocation struct {
	Asset     string  `json:"asset" msgpack:"asset"`
	WeightPct float64 `json:"weight_pct" msgpack:"weight_pct"`
}

// OptimizationResult is the outcome of one optimizer strategy.
// Weights keeps the unrounded vector, aligned with the return matrix assets,
// so it can be fed back into a risk engine.
type OptimizationResult struct {
	Strategy      string       `json:"strategy" msgpack:"strategy"`
	ReturnPct     float64      `json:"return_pct" msgpack:"return_pct"`
	VolatilityPct float64      `json:"volatility_pct" msgpack:"volatility_pct"`
	SharpeRatio   float64      `json:"sharpe_ratio" msgpack:"sharpe_ratio"`
	Allocations   []Allocation `json:"allocations" msgpack:"allocations"`
	Weights       []float64    `json:"weights,omitempty" msgpack:"weights,omitempty"`
}

// AllocationMap returns the allocation percentages keyed by asset.
func (r OptimizationResult) AllocationMap() map[string]float64 {
	out := make(map[string]float64, len(r.Allocations))
	for _, a := range r.Allocations {
		out[a.Asset] = a.WeightPct
	}
	return out
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
