package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAssetClass_Valid(t *testing.T) {
	for _, c := range []AssetClass{AssetClassEquity, AssetClassBonds, AssetClassRealEstate, AssetClassStructured} {
		assert.True(t, c.Valid(), string(c))
	}
	assert.False(t, AssetClass("crypto").Valid())
	assert.False(t, AssetClass("").Valid())
}

func TestAssetClassMap_ClassOfDefaultsToEquity(t *testing.T) {
	m := AssetClassMap{"ETF_Oblig_IG": AssetClassBonds}

	assert.Equal(t, AssetClassBonds, m.ClassOf("ETF_Oblig_IG"))
	assert.Equal(t, AssetClassEquity, m.ClassOf("UNKNOWN"))
	assert.Equal(t, AssetClassEquity, AssetClassMap(nil).ClassOf("X"))
}

func TestStressScenario_ShockDefaultsToZero(t *testing.T) {
	s := StressScenario{
		Name:   "Choc inflation",
		Shocks: map[AssetClass]float64{AssetClassEquity: -0.15, AssetClassRealEstate: 0.05},
	}

	assert.Equal(t, -0.15, s.Shock(AssetClassEquity))
	assert.Equal(t, 0.05, s.Shock(AssetClassRealEstate))
	assert.Equal(t, 0.0, s.Shock(AssetClassStructured))
}

func TestOptimizationResult_AllocationMap(t *testing.T) {
	r := OptimizationResult{
		Allocations: []Allocation{
			{Asset: "A", WeightPct: 60},
			{Asset: "B", WeightPct: 40},
		},
	}
	assert.Equal(t, map[string]float64{"A": 60, "B": 40}, r.AllocationMap())
}

func TestErrorKinds(t *testing.T) {
	err := InvalidInputf("bad value %d", 3)
	assert.True(t, errors.Is(err, ErrInvalidInput))
	assert.EqualError(t, err, "invalid input: bad value 3")

	err = NumericalFailuref("status=%s", "IterationLimit")
	assert.True(t, errors.Is(err, ErrNumericalFailure))
	assert.False(t, errors.Is(err, ErrInvalidInput))
	assert.EqualError(t, NumericalFailuref("did not converge"), "numerical failure: did not converge")

	assert.True(t, errors.Is(ErrZeroVolatility, ErrNumericalFailure))
	assert.False(t, errors.Is(ErrEmptyTail, ErrNumericalFailure))
}
