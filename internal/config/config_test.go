package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/portfolio-analyzer/internal/domain"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 2_500_000.0, cfg.PortfolioValue)
	assert.Equal(t, uint64(42), cfg.SyntheticSeed)
	assert.True(t, filepath.IsAbs(cfg.OutputDir))

	a := cfg.Analytics
	assert.Equal(t, 0.95, a.ConfidenceLevel)
	assert.Equal(t, 0.035, a.RiskFreeRate)
	assert.Equal(t, 252, a.PeriodsPerYear)
	assert.Equal(t, 0.02, a.MinWeight)
	assert.Equal(t, 0.40, a.MaxWeight)
	require.Len(t, a.Scenarios, 4)
	assert.Equal(t, "Crise 2008", a.Scenarios[0].Name)
	assert.Equal(t, "Choc inflation", a.Scenarios[3].Name)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("CONFIDENCE_LEVEL", "0.99")
	t.Setenv("RISK_FREE_RATE", "0.02")
	t.Setenv("TRADING_DAYS", "12")
	t.Setenv("MAX_WEIGHT", "0.5")
	t.Setenv("PORTFOLIO_VALUE", "1000000")
	t.Setenv("SOLVER_MAX_ITERATIONS", "500")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 0.99, cfg.Analytics.ConfidenceLevel)
	assert.Equal(t, 0.02, cfg.Analytics.RiskFreeRate)
	assert.Equal(t, 12, cfg.Analytics.PeriodsPerYear)
	assert.Equal(t, 0.5, cfg.Analytics.MaxWeight)
	assert.Equal(t, 500, cfg.Analytics.Solver.MaxIterations)
	assert.Equal(t, 1_000_000.0, cfg.PortfolioValue)
}

func TestLoad_RejectsInvalidConfidence(t *testing.T) {
	t.Setenv("CONFIDENCE_LEVEL", "1.5")

	_, err := Load()
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLoad_ScenariosFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenarios.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
scenarios:
  - name: Equity crash
    shocks:
      equity: -0.30
  - name: Rates up
    shocks:
      bonds: -0.10
      real_estate: -0.05
`), 0o644))
	t.Setenv("STRESS_SCENARIOS_FILE", path)

	cfg, err := Load()
	require.NoError(t, err)
	require.Len(t, cfg.Analytics.Scenarios, 2)
	assert.Equal(t, "Equity crash", cfg.Analytics.Scenarios[0].Name)
	assert.Equal(t, -0.10, cfg.Analytics.Scenarios[1].Shock(domain.AssetClassBonds))
	assert.Equal(t, 0.0, cfg.Analytics.Scenarios[1].Shock(domain.AssetClassEquity))
}

func TestParseScenarios_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"empty", "scenarios: []"},
		{"unknown class", "scenarios:\n  - name: x\n    shocks: {crypto: -0.5}"},
		{"missing name", "scenarios:\n  - shocks: {equity: -0.5}"},
		{"duplicate", "scenarios:\n  - name: x\n  - name: x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenarios([]byte(tt.yaml))
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestAnalytics_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(a *Analytics)
	}{
		{"confidence zero", func(a *Analytics) { a.ConfidenceLevel = 0 }},
		{"confidence one", func(a *Analytics) { a.ConfidenceLevel = 1 }},
		{"no periods", func(a *Analytics) { a.PeriodsPerYear = 0 }},
		{"inverted bounds", func(a *Analytics) { a.MinWeight, a.MaxWeight = 0.5, 0.1 }},
		{"negative tolerance", func(a *Analytics) { a.Solver.Tolerance = -1 }},
	}

	assert.NoError(t, DefaultAnalytics().Validate())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := DefaultAnalytics()
			tt.mutate(&a)
			assert.ErrorIs(t, a.Validate(), domain.ErrInvalidInput)
		})
	}
}
