package config

import (
	"fmt"
	"math"

	"github.com/aristath/portfolio-analyzer/internal/domain"
)

// Defaults shared by the risk engine and the optimizer.
const (
	DefaultConfidenceLevel = 0.95
	DefaultRiskFreeRate    = 0.035 // 10y OAT
	DefaultPeriodsPerYear  = 252
	DefaultMinWeight       = 0.02
	DefaultMaxWeight       = 0.40
	DefaultSolverTolerance = 1e-10
)

// SolverSettings are passed through unchanged to the numerical solver.
type SolverSettings struct {
	MaxIterations int     // 0 = solver default
	Tolerance     float64 // absolute objective change treated as converged
}

// Analytics is the configuration handed to both the risk engine and the optimizer.
type Analytics struct {
	ConfidenceLevel float64
	RiskFreeRate    float64
	PeriodsPerYear  int
	MinWeight       float64
	MaxWeight       float64
	Scenarios       []domain.StressScenario
	Solver          SolverSettings
}

// DefaultAnalytics returns the default analytics configuration with the built-in stress catalog.
func DefaultAnalytics() Analytics {
	return Analytics{
		ConfidenceLevel: DefaultConfidenceLevel,
		RiskFreeRate:    DefaultRiskFreeRate,
		PeriodsPerYear:  DefaultPeriodsPerYear,
		MinWeight:       DefaultMinWeight,
		MaxWeight:       DefaultMaxWeight,
		Scenarios:       DefaultScenarios(),
		Solver: SolverSettings{
			Tolerance: DefaultSolverTolerance,
		},
	}
}

// Validate checks ranges that do not depend on the asset count.
func (a Analytics) Validate() error {
	if !(a.ConfidenceLevel > 0 && a.ConfidenceLevel < 1) {
		return domain.InvalidInputf("confidence level %v outside (0,1)", a.ConfidenceLevel)
	}
	if math.IsNaN(a.RiskFreeRate) || math.IsInf(a.RiskFreeRate, 0) {
		return domain.InvalidInputf("non-finite risk-free rate")
	}
	if a.PeriodsPerYear <= 0 {
		return domain.InvalidInputf("periods per year must be positive, got %d", a.PeriodsPerYear)
	}
	if a.MinWeight < 0 || a.MaxWeight > 1 || a.MinWeight > a.MaxWeight {
		return domain.InvalidInputf("weight bounds [%v, %v] invalid", a.MinWeight, a.MaxWeight)
	}
	if a.Solver.MaxIterations < 0 || a.Solver.Tolerance < 0 {
		return domain.InvalidInputf("solver settings must be non-negative")
	}
	return ValidateScenarios(a.Scenarios)
}

// ValidateScenarios rejects unnamed or duplicate scenarios, unknown asset
// classes and non-finite shocks.
func ValidateScenarios(scenarios []domain.StressScenario) error {
	seen := make(map[string]struct{}, len(scenarios))
	for _, s := range scenarios {
		if s.Name == "" {
			return domain.InvalidInputf("stress scenario without a name")
		}
		if _, dup := seen[s.Name]; dup {
			return domain.InvalidInputf("duplicate stress scenario %q", s.Name)
		}
		seen[s.Name] = struct{}{}
		for class, shock := range s.Shocks {
			if !class.Valid() {
				return domain.InvalidInputf("scenario %q: unknown asset class %q", s.Name, class)
			}
			if math.IsNaN(shock) || math.IsInf(shock, 0) {
				return domain.InvalidInputf("scenario %q: non-finite shock for %s", s.Name, class)
			}
		}
	}
	return nil
}

// DefaultScenarios returns the built-in stress catalog in definition order.
func DefaultScenarios() []domain.StressScenario {
	return []domain.StressScenario{
		{Name: "Crise 2008", Shocks: map[domain.AssetClass]float64{
			domain.AssetClassEquity: -0.45, domain.AssetClassBonds: -0.08,
			domain.AssetClassRealEstate: -0.20, domain.AssetClassStructured: -0.30,
		}},
		{Name: "COVID Mars 2020", Shocks: map[domain.AssetClass]float64{
			domain.AssetClassEquity: -0.35, domain.AssetClassBonds: 0.05,
			domain.AssetClassRealEstate: -0.10, domain.AssetClassStructured: -0.20,
		}},
		{Name: "Hausse taux 2022", Shocks: map[domain.AssetClass]float64{
			domain.AssetClassEquity: -0.20, domain.AssetClassBonds: -0.15,
			domain.AssetClassRealEstate: -0.12, domain.AssetClassStructured: -0.08,
		}},
		{Name: "Choc inflation", Shocks: map[domain.AssetClass]float64{
			domain.AssetClassEquity: -0.15, domain.AssetClassBonds: -0.20,
			domain.AssetClassRealEstate: 0.05, domain.AssetClassStructured: -0.10,
		}},
	}
}

// String renders the scalar settings for logs.
func (a Analytics) String() string {
	return fmt.Sprintf("confidence=%.2f rf=%.4f periods=%d bounds=[%.2f,%.2f] scenarios=%d",
		a.ConfidenceLevel, a.RiskFreeRate, a.PeriodsPerYear, a.MinWeight, a.MaxWeight, len(a.Scenarios))
}
