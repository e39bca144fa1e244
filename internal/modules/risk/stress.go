package risk

import (
	"github.com/aristath/portfolio-analyzer/internal/config"
	"github.com/aristath/portfolio-analyzer/internal/domain"
)

// RunStressTests re-prices the static weights against the notional under each
// scenario. It does not replay shocks through the return series, so historical
// correlation plays no part. Results follow scenario order.
func (e *Engine) RunStressTests(classes domain.AssetClassMap, scenarios []domain.StressScenario) ([]domain.StressResult, error) {
	for asset, class := range classes {
		if !class.Valid() {
			return nil, domain.InvalidInputf("asset %s has unknown class %q", asset, class)
		}
	}
	if err := config.ValidateScenarios(scenarios); err != nil {
		return nil, err
	}

	assets := e.returns.Assets()
	results := make([]domain.StressResult, 0, len(scenarios))

	for _, scenario := range scenarios {
		var stressedValue float64
		for i, asset := range assets {
			shock := scenario.Shock(classes.ClassOf(asset))
			stressedValue += e.weights[i] * e.notional * (1 + shock)
		}

		loss := stressedValue - e.notional
		results = append(results, domain.StressResult{
			Scenario:      scenario.Name,
			StressedValue: stressedValue,
			Loss:          loss,
			LossPct:       loss / e.notional * 100,
		})
	}

	e.log.Debug().Int("scenarios", len(results)).Msg("Ran stress tests")
	return results, nil
}
